package bitmap

import (
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/imgbuf/internal/colorinfo"
	"github.com/ironsheep/imgbuf/internal/colors"
	"github.com/ironsheep/imgbuf/internal/geom"
	"github.com/ironsheep/imgbuf/internal/imgbuf"
)

// RGBAColor is an 8-bit color with alpha.
type RGBAColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// HSLColor is a color in HSL space: hue in degrees [0,360), saturation and
// lightness in percent.
type HSLColor struct {
	H int `json:"h"`
	S int `json:"s"`
	L int `json:"l"`
}

// HSVColor is the 8-bit quantized HSV used by the conversion pipeline: hue
// in [0,180], saturation and value in [0,255].
type HSVColor struct {
	H uint8 `json:"h"`
	S uint8 `json:"s"`
	V uint8 `json:"v"`
}

// ColorResult contains one pixel value in several representations.
type ColorResult struct {
	Hex  string    `json:"hex"` // "#RRGGBB", alpha excluded
	RGBA RGBAColor `json:"rgba"`
	HSL  HSLColor  `json:"hsl"`
	HSV  HSVColor  `json:"hsv"`
	Gray uint8     `json:"gray"`
}

// SampleColor reads the pixel at (x, y).
func SampleColor(img *imgbuf.Image[Pixel], x, y int) (*ColorResult, error) {
	px, err := img.At(x, y)
	if err != nil {
		return nil, err
	}

	bgr := colors.Bgr[uint8]{B: px.B, G: px.G, R: px.R}

	var hsv colors.Hsv[uint8]
	colors.BgrToHsv8(bgr, &hsv)

	var gray colors.Gray[uint8]
	colors.BgrToGray(bgr, &gray)

	h, s, l := colorful.Color{
		R: float64(px.R) / 255,
		G: float64(px.G) / 255,
		B: float64(px.B) / 255,
	}.Hsl()

	return &ColorResult{
		Hex:  fmt.Sprintf("#%02X%02X%02X", px.R, px.G, px.B),
		RGBA: RGBAColor{R: px.R, G: px.G, B: px.B, A: px.A},
		HSL:  HSLColor{H: int(h), S: int(s * 100), L: int(l * 100)},
		HSV:  HSVColor{H: hsv.H, S: hsv.S, V: hsv.V},
		Gray: gray.Intensity,
	}, nil
}

// ChannelStat summarizes one channel over a region.
type ChannelStat struct {
	Channel int     `json:"channel"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"std_dev"`
}

// ChannelStats computes per-channel statistics of img over area. T must be
// C's channel type.
func ChannelStats[C colorinfo.Color, T colorinfo.Depth](img *imgbuf.Image[C], area geom.Rectangle) ([]ChannelStat, error) {
	planes, err := imgbuf.SplitChannelsArea[C, T](img, area)
	if err != nil {
		return nil, err
	}

	stats := make([]ChannelStat, len(planes))
	for i, plane := range planes {
		st := ChannelStat{Channel: i, Min: math.Inf(1), Max: math.Inf(-1)}
		var sum, sumSq float64
		for y := range plane.Height() {
			row, err := plane.Row(y)
			if err != nil {
				return nil, err
			}
			for _, px := range row {
				v := float64(px.Intensity)
				st.Min = min(st.Min, v)
				st.Max = max(st.Max, v)
				sum += v
				sumSq += v * v
			}
		}
		plane.Close()

		if n := float64(area.Area()); n > 0 {
			st.Mean = sum / n
			st.StdDev = math.Sqrt(max(sumSq/n-st.Mean*st.Mean, 0))
		} else {
			st.Min, st.Max = 0, 0
		}
		stats[i] = st
	}
	return stats, nil
}
