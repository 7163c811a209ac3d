package imgbuf

import (
	"github.com/ironsheep/imgbuf/internal/colorinfo"
	"github.com/ironsheep/imgbuf/internal/colors"
	"github.com/ironsheep/imgbuf/internal/geom"
	"github.com/ironsheep/imgbuf/internal/parallel"
)

// Convert returns a new image of src's extent with fn applied to every
// pixel. fn must not keep state between pixels; it runs concurrently.
func Convert[S, D colorinfo.Color](src *Image[S], fn func(S, *D)) (*Image[D], error) {
	if err := src.live(); err != nil {
		return nil, err
	}
	return ConvertArea(src, src.Bounds(), fn)
}

// ConvertArea is Convert restricted to area, given in src's coordinates. The
// result has area's size.
func ConvertArea[S, D colorinfo.Color](src *Image[S], area geom.Rectangle, fn func(S, *D)) (*Image[D], error) {
	if err := src.live(); err != nil {
		return nil, err
	}
	if err := src.checkArea(area); err != nil {
		return nil, err
	}
	dst, err := New[D](area.Width, area.Height)
	if err != nil {
		return nil, err
	}

	parallel.MapRowsWidth(area.Height, area.Width, func(y int) {
		in := src.row(area.Y + y)[area.X:area.Right()]
		out := dst.row(y)
		for x := range in {
			fn(in[x], &out[x])
		}
	})
	return dst, nil
}

// ConvertTo converts src with the conversion registered in the colors
// package for the pair (S, D).
func ConvertTo[S, D colorinfo.Color](src *Image[S]) (*Image[D], error) {
	fn, err := colors.Lookup[S, D]()
	if err != nil {
		return nil, err
	}
	return Convert(src, fn)
}

// Apply replaces every pixel of img in place with fn's result.
func Apply[C colorinfo.Color](img *Image[C], fn func(*C)) error {
	if err := img.live(); err != nil {
		return err
	}
	parallel.MapRowsWidth(img.height, img.width, func(y int) {
		row := img.row(y)
		for x := range row {
			fn(&row[x])
		}
	})
	return nil
}

// SetValue fills img with v.
func SetValue[C colorinfo.Color](img *Image[C], v C) error {
	return Apply(img, func(c *C) { *c = v })
}

// SetValueMasked sets the pixels of img selected by mask to v. mask must
// have img's extent.
func SetValueMasked[C colorinfo.Color](img *Image[C], v C, mask *Mask) error {
	if err := img.live(); err != nil {
		return err
	}
	if err := checkMask(mask, img.width, img.height); err != nil {
		return err
	}
	parallel.MapRowsWidth(img.height, img.width, func(y int) {
		row, m := img.row(y), mask.row(y)
		for x := range row {
			if m[x].Intensity != 0 {
				row[x] = v
			}
		}
	})
	return nil
}
