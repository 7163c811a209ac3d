package colors

import (
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/imgbuf/internal/colorinfo"
)

// Float is the set of floating point channel types.
type Float interface {
	~float32 | ~float64
}

// GrayToBgr replicates the intensity into all three channels.
func GrayToBgr[T colorinfo.Depth](src Gray[T], dst *Bgr[T]) {
	dst.B, dst.G, dst.R = src.Intensity, src.Intensity, src.Intensity
}

// GrayToBgra replicates the intensity and sets alpha to fully opaque.
func GrayToBgra[T colorinfo.Depth](src Gray[T], dst *Bgra[T]) {
	dst.B, dst.G, dst.R = src.Intensity, src.Intensity, src.Intensity
	dst.A = MaxValue[T]()
}

// GrayToRgb replicates the intensity into all three channels.
func GrayToRgb[T colorinfo.Depth](src Gray[T], dst *Rgb[T]) {
	dst.R, dst.G, dst.B = src.Intensity, src.Intensity, src.Intensity
}

// BgrToGray computes the integer-weighted luma (2R + 5G + B) >> 3.
// Floating point channels use the same weights without truncation.
func BgrToGray[T colorinfo.Depth](src Bgr[T], dst *Gray[T]) {
	dst.Intensity = luma(src.B, src.G, src.R)
}

// BgraToGray ignores alpha and applies the BgrToGray weights.
func BgraToGray[T colorinfo.Depth](src Bgra[T], dst *Gray[T]) {
	dst.Intensity = luma(src.B, src.G, src.R)
}

// RgbToGray applies the BgrToGray weights to an Rgb pixel.
func RgbToGray[T colorinfo.Depth](src Rgb[T], dst *Gray[T]) {
	dst.Intensity = luma(src.B, src.G, src.R)
}

func luma[T colorinfo.Depth](b, g, r T) T {
	if colorinfo.DepthOf[T]().IsFloat() {
		return T((2*float64(r) + 5*float64(g) + float64(b)) / 8)
	}
	return T((2*int64(r) + 5*int64(g) + int64(b)) >> 3)
}

// BgrToBgra copies the color channels and sets alpha to fully opaque.
func BgrToBgra[T colorinfo.Depth](src Bgr[T], dst *Bgra[T]) {
	dst.B, dst.G, dst.R = src.B, src.G, src.R
	dst.A = MaxValue[T]()
}

// BgraToBgr drops the alpha channel.
func BgraToBgr[T colorinfo.Depth](src Bgra[T], dst *Bgr[T]) {
	dst.B, dst.G, dst.R = src.B, src.G, src.R
}

// BgrToRgb swaps the channel order.
func BgrToRgb[T colorinfo.Depth](src Bgr[T], dst *Rgb[T]) {
	dst.R, dst.G, dst.B = src.R, src.G, src.B
}

// RgbToBgr swaps the channel order.
func RgbToBgr[T colorinfo.Depth](src Rgb[T], dst *Bgr[T]) {
	dst.B, dst.G, dst.R = src.B, src.G, src.R
}

// RgbToBgra swaps the channel order and sets alpha to fully opaque.
func RgbToBgra[T colorinfo.Depth](src Rgb[T], dst *Bgra[T]) {
	dst.B, dst.G, dst.R = src.B, src.G, src.R
	dst.A = MaxValue[T]()
}

// BgraToRgb drops alpha and swaps the channel order.
func BgraToRgb[T colorinfo.Depth](src Bgra[T], dst *Rgb[T]) {
	dst.R, dst.G, dst.B = src.R, src.G, src.B
}

// BgrToHsv8 converts an 8-bit Bgr pixel to 8-bit Hsv.
//
// The hue is first computed on a 0-255 wheel in 43-step sextants and then
// compressed to [0,180] so it matches the OpenCV 8-bit hue range. All
// arithmetic is integer and truncates toward zero.
func BgrToHsv8(src Bgr[uint8], dst *Hsv[uint8]) {
	r, g, b := int(src.R), int(src.G), int(src.B)

	lo := min(r, g, b)
	hi := max(r, g, b)

	dst.V = uint8(hi)
	if hi == 0 {
		dst.H, dst.S = 0, 0
		return
	}

	dst.S = uint8(255 * (hi - lo) / hi)
	if dst.S == 0 {
		dst.H = 0
		return
	}

	var hue int
	switch hi {
	case r:
		hue = 43 * (g - b) / (hi - lo)
		if hue < 0 {
			hue += 255
		}
	case g:
		hue = 85 + 43*(b-r)/(hi-lo)
	default:
		hue = 171 + 43*(r-g)/(hi-lo)
	}

	dst.H = uint8(hue * 180 / 255)
}

// HsvToBgr8 is the inverse of BgrToHsv8 (up to quantization error).
func HsvToBgr8(src Hsv[uint8], dst *Bgr[uint8]) {
	v := int(src.V)
	if src.S == 0 {
		dst.B, dst.G, dst.R = src.V, src.V, src.V
		return
	}

	s := int(src.S)
	hue := int(src.H) * 255 / 180
	region := hue / 43
	remainder := (hue - region*43) * 6

	p := (v * (255 - s)) >> 8
	q := (v * (255 - ((s * remainder) >> 8))) >> 8
	t := (v * (255 - ((s * (255 - remainder)) >> 8))) >> 8

	var r, g, b int
	switch region {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}

	dst.B, dst.G, dst.R = uint8(b), uint8(g), uint8(r)
}

// BgrToHsvF converts a floating point Bgr pixel (channels in [0,1]) to Hsv
// with hue in degrees and saturation/value in [0,1].
func BgrToHsvF[T Float](src Bgr[T], dst *Hsv[T]) {
	h, s, v := colorful.Color{R: float64(src.R), G: float64(src.G), B: float64(src.B)}.Hsv()
	dst.H, dst.S, dst.V = T(h), T(s), T(v)
}

// HsvToBgrF is the inverse of BgrToHsvF.
func HsvToBgrF[T Float](src Hsv[T], dst *Bgr[T]) {
	c := colorful.Hsv(float64(src.H), float64(src.S), float64(src.V))
	dst.B, dst.G, dst.R = T(c.B), T(c.G), T(c.R)
}
