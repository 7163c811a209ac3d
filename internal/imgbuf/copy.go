package imgbuf

import (
	"github.com/cockroachdb/errors"

	"github.com/ironsheep/imgbuf/internal/colors"
	"github.com/ironsheep/imgbuf/internal/memcopy"
	"github.com/ironsheep/imgbuf/internal/parallel"
)

// Mask is a single-channel 8-bit image; non-zero pixels are selected.
type Mask = Image[colors.Gray[uint8]]

// NewMask allocates an all-zero mask.
func NewMask(width, height int) (*Mask, error) {
	return New[colors.Gray[uint8]](width, height)
}

// Clone returns a tightly packed, independently owned copy of img.
func (img *Image[C]) Clone() (*Image[C], error) {
	if err := img.live(); err != nil {
		return nil, err
	}
	dst, err := New[C](img.width, img.height)
	if err != nil {
		return nil, err
	}
	if err := img.copyInto(dst); err != nil {
		return nil, err
	}
	return dst, nil
}

// CopyTo copies every pixel of img into dst. Both images must have the same
// extent.
func (img *Image[C]) CopyTo(dst *Image[C]) error {
	if err := img.checkPair(dst); err != nil {
		return err
	}
	return img.copyInto(dst)
}

// CopyToOrCreate copies img into dst when dst is open and has img's extent,
// and into a newly allocated image otherwise. It returns the image written.
func (img *Image[C]) CopyToOrCreate(dst *Image[C]) (*Image[C], error) {
	if err := img.live(); err != nil {
		return nil, err
	}
	if dst == nil || dst.IsClosed() || dst.width != img.width || dst.height != img.height {
		return img.Clone()
	}
	if err := img.copyInto(dst); err != nil {
		return nil, err
	}
	return dst, nil
}

func (img *Image[C]) copyInto(dst *Image[C]) error {
	return memcopy.Copy2D(dst.data, img.data, dst.stride, img.stride, img.RowBytesLen(), img.height)
}

// CopyToMasked copies the pixels of img selected by mask into dst. img, dst
// and mask must have the same extent; other pixels of dst are unchanged.
func (img *Image[C]) CopyToMasked(dst *Image[C], mask *Mask) error {
	if err := img.checkPair(dst); err != nil {
		return err
	}
	if err := checkMask(mask, img.width, img.height); err != nil {
		return err
	}

	parallel.MapRowsWidth(img.height, img.width, func(y int) {
		src, out, m := img.row(y), dst.row(y), mask.row(y)
		for x := range src {
			if m[x].Intensity != 0 {
				out[x] = src[x]
			}
		}
	})
	return nil
}

// CopyToMaskedBool is CopyToMasked with the mask given as mask[y][x].
func (img *Image[C]) CopyToMaskedBool(dst *Image[C], mask [][]bool) error {
	if err := img.checkPair(dst); err != nil {
		return err
	}
	if err := checkBoolMask(mask, img.width, img.height); err != nil {
		return err
	}

	parallel.Map(img.width, img.height, func(x, y int) {
		if mask[y][x] {
			dst.row(y)[x] = img.row(y)[x]
		}
	})
	return nil
}

func (img *Image[C]) checkPair(dst *Image[C]) error {
	if err := img.live(); err != nil {
		return err
	}
	if err := dst.live(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if dst.width != img.width || dst.height != img.height {
		return errors.Wrapf(ErrSizeMismatch, "source %dx%d, destination %dx%d",
			img.width, img.height, dst.width, dst.height)
	}
	return nil
}

func checkMask(mask *Mask, width, height int) error {
	if err := mask.live(); err != nil {
		return errors.Wrap(err, "mask")
	}
	if mask.width != width || mask.height != height {
		return errors.Wrapf(ErrSizeMismatch, "mask %dx%d, image %dx%d",
			mask.width, mask.height, width, height)
	}
	return nil
}

func checkBoolMask(mask [][]bool, width, height int) error {
	if len(mask) != height {
		return errors.Wrapf(ErrSizeMismatch, "mask has %d rows, image %d", len(mask), height)
	}
	for y, row := range mask {
		if len(row) != width {
			return errors.Wrapf(ErrSizeMismatch, "mask row %d has %d columns, image %d", y, len(row), width)
		}
	}
	return nil
}
