package imgbuf

import (
	"github.com/cockroachdb/errors"

	"github.com/ironsheep/imgbuf/internal/colors"
)

// Sentinel errors. Every failing operation returns an error wrapping one of
// these, so callers can branch with errors.Is.
var (
	// ErrOutOfRange is returned for a row, column, point or rectangle
	// outside the image, and for negative dimensions.
	ErrOutOfRange = errors.New("imgbuf: out of range")

	// ErrSizeMismatch is returned when images (or masks) that must share an
	// extent do not.
	ErrSizeMismatch = errors.New("imgbuf: size mismatch")

	// ErrDisposed is returned by any operation on a closed image or on a
	// view whose root has been closed.
	ErrDisposed = errors.New("imgbuf: image disposed")

	// ErrNilBuffer is returned when a nil buffer or image is supplied.
	ErrNilBuffer = errors.New("imgbuf: nil buffer")

	// ErrBufferTooSmall is returned when a buffer cannot hold the declared
	// extent.
	ErrBufferTooSmall = errors.New("imgbuf: buffer too small")

	// ErrInvalidStride is returned for a stride shorter than a row, not a
	// multiple of the channel size, or a misaligned buffer.
	ErrInvalidStride = errors.New("imgbuf: invalid stride")

	// ErrColorMismatch is returned when a channel depth or color layout does
	// not match what an operation requires.
	ErrColorMismatch = errors.New("imgbuf: color mismatch")

	// ErrChannelIndex is returned for a channel index outside the color's
	// channel count.
	ErrChannelIndex = errors.New("imgbuf: channel index out of range")
)

// ErrUnsupportedConversion is returned by ConvertTo when no conversion is
// registered for the color pair.
var ErrUnsupportedConversion = colors.ErrUnsupportedConversion
