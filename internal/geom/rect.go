package geom

import (
	"fmt"
	"image"
	"math"
)

// Rectangle is an axis-aligned integer rectangle given by its top-left corner
// and extent.
//
// The rectangle covers columns X..Right()-1 and rows Y..Bottom()-1. A
// rectangle with zero or negative Width or Height is empty.
type Rectangle struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect is shorthand for Rectangle{X: x, Y: y, Width: w, Height: h}.
func Rect(x, y, w, h int) Rectangle {
	return Rectangle{X: x, Y: y, Width: w, Height: h}
}

// FromLTRB builds a rectangle from its left, top, right and bottom edges.
// Right and bottom are exclusive.
func FromLTRB(left, top, right, bottom int) Rectangle {
	return Rectangle{X: left, Y: top, Width: right - left, Height: bottom - top}
}

// FromPointSize builds a rectangle from a location and an extent.
func FromPointSize(p Point, s Size) Rectangle {
	return Rectangle{X: p.X, Y: p.Y, Width: s.Width, Height: s.Height}
}

// Right returns the exclusive right edge.
func (r Rectangle) Right() int { return r.X + r.Width }

// Bottom returns the exclusive bottom edge.
func (r Rectangle) Bottom() int { return r.Y + r.Height }

// Location returns the top-left corner.
func (r Rectangle) Location() Point { return Point{X: r.X, Y: r.Y} }

// Size returns the extent.
func (r Rectangle) Size() Size { return Size{Width: r.Width, Height: r.Height} }

// Area returns Width*Height, or 0 for an empty rectangle.
func (r Rectangle) Area() int {
	if r.IsEmpty() {
		return 0
	}
	return r.Width * r.Height
}

// IsEmpty reports whether the rectangle covers no pixels.
func (r Rectangle) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Center returns the integer center (rounded toward the top-left).
func (r Rectangle) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains reports whether the pixel p lies inside r.
func (r Rectangle) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// ContainsRect reports whether o lies entirely inside r.
// An empty o is contained when its location is inside or on the edge of r.
func (r Rectangle) ContainsRect(o Rectangle) bool {
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// Offset returns r translated by p.
func (r Rectangle) Offset(p Point) Rectangle {
	r.X += p.X
	r.Y += p.Y
	return r
}

// Inflate grows r by dx on the left and right and dy on the top and bottom.
// Negative values shrink it.
func (r Rectangle) Inflate(dx, dy int) Rectangle {
	return Rectangle{X: r.X - dx, Y: r.Y - dy, Width: r.Width + 2*dx, Height: r.Height + 2*dy}
}

// Intersect returns the largest rectangle contained in both r and o, or the
// zero Rectangle if they do not overlap.
func (r Rectangle) Intersect(o Rectangle) Rectangle {
	left := max(r.X, o.X)
	top := max(r.Y, o.Y)
	right := min(r.Right(), o.Right())
	bottom := min(r.Bottom(), o.Bottom())
	if right <= left || bottom <= top {
		return Rectangle{}
	}
	return FromLTRB(left, top, right, bottom)
}

// IntersectsWith reports whether r and o share at least one pixel.
func (r Rectangle) IntersectsWith(o Rectangle) bool {
	return !r.Intersect(o).IsEmpty()
}

// Union returns the smallest rectangle containing both r and o. Empty
// rectangles are ignored.
func (r Rectangle) Union(o Rectangle) Rectangle {
	if r.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return r
	}
	return FromLTRB(min(r.X, o.X), min(r.Y, o.Y), max(r.Right(), o.Right()), max(r.Bottom(), o.Bottom()))
}

// Clamp returns r restricted to bounds. It is the explicit opt-in alternative
// to the out-of-range errors returned by image accessors.
func (r Rectangle) Clamp(bounds Rectangle) Rectangle {
	return r.Intersect(bounds)
}

// Scale multiplies location and extent by k and rounds outward so that the
// result covers every pixel touched by the scaled rectangle.
func (r Rectangle) Scale(k float64) Rectangle {
	return r.ToF().Scale(k).Ceiling()
}

// ToF converts r to a RectangleF.
func (r Rectangle) ToF() RectangleF {
	return RectangleF{X: float64(r.X), Y: float64(r.Y), Width: float64(r.Width), Height: float64(r.Height)}
}

// ToImage converts r to an image.Rectangle.
func (r Rectangle) ToImage() image.Rectangle {
	return image.Rect(r.X, r.Y, r.Right(), r.Bottom())
}

// RectFromImage converts an image.Rectangle.
func RectFromImage(r image.Rectangle) Rectangle {
	return FromLTRB(r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
}

func (r Rectangle) String() string {
	return fmt.Sprintf("[%d,%d %dx%d]", r.X, r.Y, r.Width, r.Height)
}

// RectangleF is a floating point rectangle.
type RectangleF struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the right edge.
func (r RectangleF) Right() float64 { return r.X + r.Width }

// Bottom returns the bottom edge.
func (r RectangleF) Bottom() float64 { return r.Y + r.Height }

// Location returns the top-left corner.
func (r RectangleF) Location() PointF { return PointF{X: r.X, Y: r.Y} }

// Size returns the extent.
func (r RectangleF) Size() SizeF { return SizeF{Width: r.Width, Height: r.Height} }

// Center returns the geometric center.
func (r RectangleF) Center() PointF {
	return PointF{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// IsEmpty reports whether the rectangle has no area.
func (r RectangleF) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether p lies inside r (right and bottom edges excluded).
func (r RectangleF) Contains(p PointF) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Intersect returns the overlap of r and o, or the zero RectangleF.
func (r RectangleF) Intersect(o RectangleF) RectangleF {
	left := math.Max(r.X, o.X)
	top := math.Max(r.Y, o.Y)
	right := math.Min(r.Right(), o.Right())
	bottom := math.Min(r.Bottom(), o.Bottom())
	if right <= left || bottom <= top {
		return RectangleF{}
	}
	return RectangleF{X: left, Y: top, Width: right - left, Height: bottom - top}
}

// Inflate grows r by dx horizontally and dy vertically on each side.
func (r RectangleF) Inflate(dx, dy float64) RectangleF {
	return RectangleF{X: r.X - dx, Y: r.Y - dy, Width: r.Width + 2*dx, Height: r.Height + 2*dy}
}

// Offset returns r translated by p.
func (r RectangleF) Offset(p PointF) RectangleF {
	r.X += p.X
	r.Y += p.Y
	return r
}

// Scale multiplies location and extent by k.
func (r RectangleF) Scale(k float64) RectangleF {
	return RectangleF{X: r.X * k, Y: r.Y * k, Width: r.Width * k, Height: r.Height * k}
}

// Round rounds the edges to the nearest integers.
func (r RectangleF) Round() Rectangle {
	return FromLTRB(int(math.Round(r.X)), int(math.Round(r.Y)), int(math.Round(r.Right())), int(math.Round(r.Bottom())))
}

// Truncate drops the fractional part of location and extent.
func (r RectangleF) Truncate() Rectangle {
	return Rectangle{X: int(r.X), Y: int(r.Y), Width: int(r.Width), Height: int(r.Height)}
}

// Ceiling returns the smallest integer rectangle covering r.
func (r RectangleF) Ceiling() Rectangle {
	return FromLTRB(int(math.Floor(r.X)), int(math.Floor(r.Y)), int(math.Ceil(r.Right())), int(math.Ceil(r.Bottom())))
}

func (r RectangleF) String() string {
	return fmt.Sprintf("[%g,%g %gx%g]", r.X, r.Y, r.Width, r.Height)
}
