package geom

import (
	"fmt"
	"math"
)

// Size is an integer extent in pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Sz is shorthand for Size{Width: w, Height: h}.
func Sz(w, h int) Size {
	return Size{Width: w, Height: h}
}

// Area returns Width*Height.
func (s Size) Area() int {
	return s.Width * s.Height
}

// IsEmpty reports whether either dimension is zero or negative.
func (s Size) IsEmpty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Add returns the component-wise sum.
func (s Size) Add(o Size) Size {
	return Size{Width: s.Width + o.Width, Height: s.Height + o.Height}
}

// Sub returns the component-wise difference.
func (s Size) Sub(o Size) Size {
	return Size{Width: s.Width - o.Width, Height: s.Height - o.Height}
}

// ToF converts s to a SizeF.
func (s Size) ToF() SizeF {
	return SizeF{Width: float64(s.Width), Height: float64(s.Height)}
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// SizeF is a floating point extent.
type SizeF struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Scale multiplies both dimensions by k.
func (s SizeF) Scale(k float64) SizeF {
	return SizeF{Width: s.Width * k, Height: s.Height * k}
}

// IsEmpty reports whether either dimension is zero or negative.
func (s SizeF) IsEmpty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Round converts to the nearest integer size.
func (s SizeF) Round() Size {
	return Size{Width: int(math.Round(s.Width)), Height: int(math.Round(s.Height))}
}

// Truncate drops the fractional part of both dimensions.
func (s SizeF) Truncate() Size {
	return Size{Width: int(s.Width), Height: int(s.Height)}
}

// Ceiling rounds both dimensions up.
func (s SizeF) Ceiling() Size {
	return Size{Width: int(math.Ceil(s.Width)), Height: int(math.Ceil(s.Height))}
}

func (s SizeF) String() string {
	return fmt.Sprintf("%gx%g", s.Width, s.Height)
}
