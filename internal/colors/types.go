// Package colors defines the fixed-layout pixel color types and the per-pixel
// conversion functions between color families.
//
// Each type is a plain struct whose fields all share the channel type T; the
// field order is the channel order in memory (Bgr stores B first). The types
// carry no behaviour beyond declaring their layout, so they can be
// reinterpreted directly over raw image buffers.
//
// Conversion functions have the shape func(src S, dst *D) so that they can be
// passed straight to imgbuf.Convert.
package colors

import (
	"math"

	"github.com/ironsheep/imgbuf/internal/colorinfo"
)

// Gray is a single-channel intensity pixel.
type Gray[T colorinfo.Depth] struct {
	Intensity T
}

// Layout implements colorinfo.Color.
func (Gray[T]) Layout() colorinfo.ColorInfo { return colorinfo.Declare[T]("Gray", 1) }

// Bgr is a three-channel pixel in blue, green, red order (the OpenCV default).
type Bgr[T colorinfo.Depth] struct {
	B, G, R T
}

// Layout implements colorinfo.Color.
func (Bgr[T]) Layout() colorinfo.ColorInfo { return colorinfo.Declare[T]("Bgr", 3) }

// Bgra is Bgr with a trailing alpha channel.
type Bgra[T colorinfo.Depth] struct {
	B, G, R, A T
}

// Layout implements colorinfo.Color.
func (Bgra[T]) Layout() colorinfo.ColorInfo { return colorinfo.Declare[T]("Bgra", 4) }

// Rgb is a three-channel pixel in red, green, blue order.
type Rgb[T colorinfo.Depth] struct {
	R, G, B T
}

// Layout implements colorinfo.Color.
func (Rgb[T]) Layout() colorinfo.ColorInfo { return colorinfo.Declare[T]("Rgb", 3) }

// Hsv is a hue, saturation, value pixel.
//
// For 8-bit channels hue is in [0,180] (degrees halved) and S, V are in
// [0,255]. For floating point channels hue is in degrees [0,360) and S, V
// are in [0,1].
type Hsv[T colorinfo.Depth] struct {
	H, S, V T
}

// Layout implements colorinfo.Color.
func (Hsv[T]) Layout() colorinfo.ColorInfo { return colorinfo.Declare[T]("Hsv", 3) }

// MaxValue returns the value used for a fully saturated channel of depth T:
// the type maximum for integers and 1 for floating point channels.
func MaxValue[T colorinfo.Depth]() T {
	var m float64
	switch colorinfo.DepthOf[T]() {
	case colorinfo.DepthUint8:
		m = math.MaxUint8
	case colorinfo.DepthInt8:
		m = math.MaxInt8
	case colorinfo.DepthUint16:
		m = math.MaxUint16
	case colorinfo.DepthInt16:
		m = math.MaxInt16
	case colorinfo.DepthInt32:
		m = math.MaxInt32
	default:
		m = 1
	}
	return T(m)
}
