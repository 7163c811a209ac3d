// Package annotate rasterizes user annotations (drag rectangles, freehand
// strokes and polygons) into selection masks.
//
// Masks are 8-bit single-channel images where On marks a selected pixel.
// They plug directly into imgbuf.SetValueMasked and Image.CopyToMasked.
// Vertices are pixel coordinates; every drawing operation clips to the mask.
package annotate

import (
	"math"
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/ironsheep/imgbuf/internal/colors"
	"github.com/ironsheep/imgbuf/internal/geom"
	"github.com/ironsheep/imgbuf/internal/imgbuf"
	"github.com/ironsheep/imgbuf/internal/parallel"
)

// On is the value of a selected mask pixel.
const On uint8 = 255

// ErrInvalidThickness is returned by DrawStroke for a non-positive brush.
var ErrInvalidThickness = errors.New("annotate: thickness must be positive")

var on = colors.Gray[uint8]{Intensity: On}

// RectFromDrag returns the rectangle spanned by a drag from a to b,
// whichever corner the drag started from. The end point is exclusive, so a
// click without movement yields an empty rectangle.
func RectFromDrag(a, b geom.Point) geom.Rectangle {
	return geom.FromLTRB(min(a.X, b.X), min(a.Y, b.Y), max(a.X, b.X), max(a.Y, b.Y))
}

// Mask allocates an empty mask of the given size.
func Mask(size geom.Size) (*imgbuf.Mask, error) {
	return imgbuf.NewMask(size.Width, size.Height)
}

// FillRectangle selects every pixel of r inside the mask.
func FillRectangle(m *imgbuf.Mask, r geom.Rectangle) error {
	r = r.Intersect(m.Bounds())
	if r.IsEmpty() {
		return liveCheck(m)
	}
	view, err := m.SubRect(r)
	if err != nil {
		return err
	}
	defer view.Close()
	return imgbuf.SetValue(view, on)
}

// DrawStroke selects the pixels covered by a round brush of the given
// thickness dragged along points. A single point draws a dot.
func DrawStroke(m *imgbuf.Mask, points []geom.Point, thickness int) error {
	if thickness <= 0 {
		return errors.Wrapf(ErrInvalidThickness, "thickness %d", thickness)
	}
	if err := liveCheck(m); err != nil {
		return err
	}
	if len(points) == 0 {
		return nil
	}

	radius := float64(thickness) / 2
	if len(points) == 1 {
		return stamp(m, points[0], points[0], radius)
	}
	for i := 1; i < len(points); i++ {
		if err := stamp(m, points[i-1], points[i], radius); err != nil {
			return err
		}
	}
	return nil
}

// stamp selects the pixels within radius of segment ab.
func stamp(m *imgbuf.Mask, a, b geom.Point, radius float64) error {
	pad := int(math.Ceil(radius))
	box := geom.FromLTRB(min(a.X, b.X)-pad, min(a.Y, b.Y)-pad, max(a.X, b.X)+pad+1, max(a.Y, b.Y)+pad+1)
	box = box.Intersect(m.Bounds())
	if box.IsEmpty() {
		return nil
	}

	ax, ay := float64(a.X), float64(a.Y)
	dx, dy := float64(b.X-a.X), float64(b.Y-a.Y)
	lenSq := dx*dx + dy*dy
	r2 := radius * radius

	for y := box.Y; y < box.Bottom(); y++ {
		row, err := m.Row(y)
		if err != nil {
			return err
		}
		for x := box.X; x < box.Right(); x++ {
			px, py := float64(x)-ax, float64(y)-ay
			t := 0.0
			if lenSq > 0 {
				t = min(max((px*dx+py*dy)/lenSq, 0), 1)
			}
			ex, ey := px-t*dx, py-t*dy
			if ex*ex+ey*ey <= r2 {
				row[x] = on
			}
		}
	}
	return nil
}

// FillPolygon selects the interior of the closed polygon through points
// using the even-odd rule. A pixel is inside when its center is. Fewer than
// three points select nothing.
func FillPolygon(m *imgbuf.Mask, points []geom.Point) error {
	if err := liveCheck(m); err != nil {
		return err
	}
	if len(points) < 3 {
		return nil
	}

	top, bottom := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		top, bottom = min(top, p.Y), max(bottom, p.Y)
	}
	top, bottom = max(top, 0), min(bottom, m.Height())
	if top >= bottom {
		return nil
	}

	width := m.Width()
	rows := make([][]colors.Gray[uint8], bottom-top)
	for i := range rows {
		row, err := m.Row(top + i)
		if err != nil {
			return err
		}
		rows[i] = row
	}

	parallel.MapRowsWidth(len(rows), width, func(i int) {
		xs := crossings(points, float64(top+i)+0.5)
		row := rows[i]
		for k := 0; k+1 < len(xs); k += 2 {
			x0 := max(int(math.Ceil(xs[k]-0.5)), 0)
			x1 := min(int(math.Ceil(xs[k+1]-0.5)), width)
			for x := x0; x < x1; x++ {
				row[x] = on
			}
		}
	})
	return nil
}

// crossings returns the sorted x positions where the polygon edges cross
// the horizontal line at y.
func crossings(points []geom.Point, y float64) []float64 {
	var xs []float64
	j := len(points) - 1
	for i, p := range points {
		q := points[j]
		yi, yj := float64(p.Y), float64(q.Y)
		if (yi > y) != (yj > y) {
			xi, xj := float64(p.X), float64(q.X)
			xs = append(xs, xi+(y-yi)*(xj-xi)/(yj-yi))
		}
		j = i
	}
	slices.Sort(xs)
	return xs
}

func liveCheck(m *imgbuf.Mask) error {
	_, err := m.Bytes()
	return err
}
