package bitmap

import (
	"github.com/cockroachdb/errors"

	"github.com/ironsheep/imgbuf/internal/colorinfo"
)

// ErrUnsupportedFormat is returned when a color layout has no bitmap
// equivalent.
var ErrUnsupportedFormat = errors.New("bitmap: unsupported pixel format")

// PixelFormat names a packed bitmap pixel layout.
type PixelFormat int

const (
	FormatUnknown PixelFormat = iota
	FormatGray8
	FormatGray16
	FormatBgr24
	FormatRgb24
	FormatBgra32
	FormatBgr48
	FormatBgra64
)

var formatNames = map[PixelFormat]string{
	FormatUnknown: "unknown",
	FormatGray8:   "Gray8",
	FormatGray16:  "Gray16",
	FormatBgr24:   "Bgr24",
	FormatRgb24:   "Rgb24",
	FormatBgra32:  "Bgra32",
	FormatBgr48:   "Bgr48",
	FormatBgra64:  "Bgra64",
}

func (f PixelFormat) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "unknown"
}

// BitsPerPixel returns the packed size of one pixel in bits.
func (f PixelFormat) BitsPerPixel() int {
	switch f {
	case FormatGray8:
		return 8
	case FormatGray16:
		return 16
	case FormatBgr24, FormatRgb24:
		return 24
	case FormatBgra32:
		return 32
	case FormatBgr48:
		return 48
	case FormatBgra64:
		return 64
	}
	return 0
}

type formatKey struct {
	colorType string
	depth     colorinfo.DepthKind
}

var formats = map[formatKey]PixelFormat{
	{"Gray", colorinfo.DepthUint8}:  FormatGray8,
	{"Gray", colorinfo.DepthUint16}: FormatGray16,
	{"Bgr", colorinfo.DepthUint8}:   FormatBgr24,
	{"Rgb", colorinfo.DepthUint8}:   FormatRgb24,
	{"Bgra", colorinfo.DepthUint8}:  FormatBgra32,
	{"Bgr", colorinfo.DepthUint16}:  FormatBgr48,
	{"Bgra", colorinfo.DepthUint16}: FormatBgra64,
}

// FormatOf returns the bitmap pixel format matching info.
func FormatOf(info colorinfo.ColorInfo) (PixelFormat, error) {
	if f, ok := formats[formatKey{info.ColorType, info.ChannelType}]; ok {
		return f, nil
	}
	return FormatUnknown, errors.Wrapf(ErrUnsupportedFormat, "%s", info)
}

// channelOrder gives the byte-level channel index of each component within
// a pixel, or -1 when the layout lacks it. Gray layouts report the intensity
// as r, g and b.
type channelOrder struct {
	r, g, b, a int
	wide       bool
	gray       bool
}

func orderOf(f PixelFormat) channelOrder {
	switch f {
	case FormatGray8:
		return channelOrder{r: 0, g: 0, b: 0, a: -1, gray: true}
	case FormatGray16:
		return channelOrder{r: 0, g: 0, b: 0, a: -1, gray: true, wide: true}
	case FormatBgr24:
		return channelOrder{r: 2, g: 1, b: 0, a: -1}
	case FormatRgb24:
		return channelOrder{r: 0, g: 1, b: 2, a: -1}
	case FormatBgra32:
		return channelOrder{r: 2, g: 1, b: 0, a: 3}
	case FormatBgr48:
		return channelOrder{r: 2, g: 1, b: 0, a: -1, wide: true}
	case FormatBgra64:
		return channelOrder{r: 2, g: 1, b: 0, a: 3, wide: true}
	}
	return channelOrder{}
}
