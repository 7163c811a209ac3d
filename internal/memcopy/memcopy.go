// Package memcopy moves rectangular blocks of bytes between buffers that may
// have different row strides.
//
// All copies go through RawCopy, which is the built-in copy with explicit
// length checks. Callers describe a block by its row width in bytes, its row
// count and the stride of each side; the padding between rows is never
// touched.
package memcopy

import (
	"github.com/cockroachdb/errors"
)

// ErrShortBuffer is returned when a source or destination is too small for
// the requested copy.
var ErrShortBuffer = errors.New("memcopy: buffer too small")

// ErrInvalidStride is returned when a stride is smaller than the row width.
var ErrInvalidStride = errors.New("memcopy: invalid stride")

// RawCopy copies exactly n bytes from src to dst.
func RawCopy(dst, src []byte, n int) error {
	if n < 0 {
		return errors.Wrapf(ErrShortBuffer, "negative length %d", n)
	}
	if len(src) < n || len(dst) < n {
		return errors.Wrapf(ErrShortBuffer, "copy of %d bytes (src %d, dst %d)", n, len(src), len(dst))
	}
	copy(dst[:n], src[:n])
	return nil
}

// Extent returns the number of bytes spanned by rows rows of rowBytes bytes
// laid out stride bytes apart. The last row does not include trailing
// padding.
func Extent(stride, rowBytes, rows int) int {
	if rows <= 0 || rowBytes <= 0 {
		return 0
	}
	return (rows-1)*stride + rowBytes
}

// Copy2D copies rows rows of rowBytes bytes from src to dst. When both
// strides equal rowBytes the block is contiguous and moved in one call.
func Copy2D(dst, src []byte, dstStride, srcStride, rowBytes, rows int) error {
	if rows <= 0 || rowBytes <= 0 {
		return nil
	}
	if dstStride < rowBytes || srcStride < rowBytes {
		return errors.Wrapf(ErrInvalidStride, "row of %d bytes with strides dst=%d src=%d",
			rowBytes, dstStride, srcStride)
	}
	if need := Extent(srcStride, rowBytes, rows); len(src) < need {
		return errors.Wrapf(ErrShortBuffer, "source holds %d bytes, need %d", len(src), need)
	}
	if need := Extent(dstStride, rowBytes, rows); len(dst) < need {
		return errors.Wrapf(ErrShortBuffer, "destination holds %d bytes, need %d", len(dst), need)
	}

	if dstStride == rowBytes && srcStride == rowBytes {
		return RawCopy(dst, src, rowBytes*rows)
	}

	for y := range rows {
		if err := RawCopy(dst[y*dstStride:], src[y*srcStride:], rowBytes); err != nil {
			return err
		}
	}
	return nil
}

// CopyStrided copies cols x rows elements of elem bytes each. Within a row,
// consecutive elements are srcStep (dstStep) bytes apart; rows are srcStride
// (dstStride) bytes apart. It is the primitive behind channel split and
// merge, where one side is interleaved and the other planar.
func CopyStrided(dst, src []byte, dstStride, srcStride, dstStep, srcStep, elem, cols, rows int) error {
	if rows <= 0 || cols <= 0 || elem <= 0 {
		return nil
	}
	if dstStep < elem || srcStep < elem {
		return errors.Wrapf(ErrInvalidStride, "element of %d bytes with steps dst=%d src=%d",
			elem, dstStep, srcStep)
	}
	if need := Extent(srcStride, (cols-1)*srcStep+elem, rows); len(src) < need {
		return errors.Wrapf(ErrShortBuffer, "source holds %d bytes, need %d", len(src), need)
	}
	if need := Extent(dstStride, (cols-1)*dstStep+elem, rows); len(dst) < need {
		return errors.Wrapf(ErrShortBuffer, "destination holds %d bytes, need %d", len(dst), need)
	}

	if dstStep == elem && srcStep == elem {
		return Copy2D(dst, src, dstStride, srcStride, cols*elem, rows)
	}

	for y := range rows {
		d := dst[y*dstStride:]
		s := src[y*srcStride:]
		for x := range cols {
			copy(d[x*dstStep:x*dstStep+elem], s[x*srcStep:x*srcStep+elem])
		}
	}
	return nil
}
