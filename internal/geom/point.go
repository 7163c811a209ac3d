package geom

import (
	"fmt"
	"image"
	"math"
)

// Point is an integer pixel coordinate.
type Point struct {
	X int `json:"x"` // Horizontal position (0 = leftmost)
	Y int `json:"y"` // Vertical position (0 = topmost)
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p translated by -q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// AddSize returns p translated by the extent of s.
func (p Point) AddSize(s Size) Point {
	return Point{X: p.X + s.Width, Y: p.Y + s.Height}
}

// IsZero reports whether p is the origin.
func (p Point) IsZero() bool {
	return p.X == 0 && p.Y == 0
}

// ToImage converts p to an image.Point.
func (p Point) ToImage() image.Point {
	return image.Point{X: p.X, Y: p.Y}
}

// PointFromImage converts an image.Point.
func PointFromImage(p image.Point) Point {
	return Point{X: p.X, Y: p.Y}
}

// ToF converts p to a PointF.
func (p Point) ToF() PointF {
	return PointF{X: float64(p.X), Y: float64(p.Y)}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// PointF is a floating point coordinate, used for sub-pixel positions such as
// mouse input scaled from a display surface.
type PointF struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by q.
func (p PointF) Add(q PointF) PointF {
	return PointF{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p translated by -q.
func (p PointF) Sub(q PointF) PointF {
	return PointF{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale multiplies both coordinates by k.
func (p PointF) Scale(k float64) PointF {
	return PointF{X: p.X * k, Y: p.Y * k}
}

// DistanceTo returns the Euclidean distance between p and q.
func (p PointF) DistanceTo(q PointF) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// Round converts to the nearest integer point.
func (p PointF) Round() Point {
	return Point{X: int(math.Round(p.X)), Y: int(math.Round(p.Y))}
}

// Truncate drops the fractional part of both coordinates.
func (p PointF) Truncate() Point {
	return Point{X: int(p.X), Y: int(p.Y)}
}

// Ceiling rounds both coordinates up.
func (p PointF) Ceiling() Point {
	return Point{X: int(math.Ceil(p.X)), Y: int(math.Ceil(p.Y))}
}

func (p PointF) String() string {
	return fmt.Sprintf("(%g,%g)", p.X, p.Y)
}
