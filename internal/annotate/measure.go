package annotate

import (
	"math"

	"github.com/ironsheep/imgbuf/internal/geom"
)

// Measurement describes the segment between the two ends of a drag.
type Measurement struct {
	DistancePixels        float64 `json:"distance_pixels"`
	DeltaX                int     `json:"delta_x"`
	DeltaY                int     `json:"delta_y"`
	AngleDegrees          float64 `json:"angle_degrees"` // 0 = right, 90 = down
	DistancePercentWidth  float64 `json:"distance_percent_width"`
	DistancePercentHeight float64 `json:"distance_percent_height"`
}

// Measure measures the segment from a to b on an image of the given size.
// Distances are rounded to 0.01 px, angles and percentages to 0.1. The
// percentages are zero for an empty image.
func Measure(a, b geom.Point, size geom.Size) Measurement {
	d := b.Sub(a)
	dist := a.ToF().DistanceTo(b.ToF())
	angle := math.Atan2(float64(d.Y), float64(d.X)) * 180 / math.Pi

	m := Measurement{
		DistancePixels: math.Round(dist*100) / 100,
		DeltaX:         d.X,
		DeltaY:         d.Y,
		AngleDegrees:   math.Round(angle*10) / 10,
	}
	if size.Width > 0 {
		m.DistancePercentWidth = math.Round(dist/float64(size.Width)*1000) / 10
	}
	if size.Height > 0 {
		m.DistancePercentHeight = math.Round(dist/float64(size.Height)*1000) / 10
	}
	return m
}
