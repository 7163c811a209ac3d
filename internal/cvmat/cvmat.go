// Package cvmat exchanges imgbuf images with OpenCV through gocv: Mat
// conversion, video capture and writing, and image file I/O.
//
// The OpenCV-backed implementation is only compiled with the "gocv" build
// tag, since it needs cgo and an installed OpenCV. Without the tag every
// operation returns ErrNotSupported; the MatType mapping and seek arithmetic
// are available either way.
//
// Build with:
//
//	go build -tags gocv ./...
package cvmat

import (
	"io"

	"github.com/cockroachdb/errors"

	"github.com/ironsheep/imgbuf/internal/colorinfo"
	"github.com/ironsheep/imgbuf/internal/imgbuf"
)

var (
	// ErrNotSupported is returned by every operation when the package was
	// built without OpenCV, and by seeks on live devices.
	ErrNotSupported = errors.New("cvmat: not supported")

	// ErrEndOfStream is returned when a capture has no more frames.
	ErrEndOfStream = errors.New("cvmat: end of stream")

	// ErrOpen is returned when OpenCV cannot open a file or device.
	ErrOpen = errors.New("cvmat: cannot open")

	// ErrColorMismatch is imgbuf.ErrColorMismatch, returned when a Mat's
	// type does not match the requested color.
	ErrColorMismatch = imgbuf.ErrColorMismatch
)

// MatType is an OpenCV matrix type: the depth code in the low three bits and
// channels-1 above them, as in CV_MAKETYPE.
type MatType int

// OpenCV depth codes.
const (
	DepthCV8U  MatType = 0
	DepthCV8S  MatType = 1
	DepthCV16U MatType = 2
	DepthCV16S MatType = 3
	DepthCV32S MatType = 4
	DepthCV32F MatType = 5
	DepthCV64F MatType = 6
)

const channelShift = 3

var depthCodes = map[colorinfo.DepthKind]MatType{
	colorinfo.DepthUint8:   DepthCV8U,
	colorinfo.DepthInt8:    DepthCV8S,
	colorinfo.DepthUint16:  DepthCV16U,
	colorinfo.DepthInt16:   DepthCV16S,
	colorinfo.DepthInt32:   DepthCV32S,
	colorinfo.DepthFloat32: DepthCV32F,
	colorinfo.DepthFloat64: DepthCV64F,
}

// MatTypeOf returns the Mat type holding pixels of layout info. OpenCV
// supports at most 4 channels per element through this path.
func MatTypeOf(info colorinfo.ColorInfo) (MatType, error) {
	depth, ok := depthCodes[info.ChannelType]
	if !ok || info.ChannelCount < 1 || info.ChannelCount > 4 {
		return 0, errors.Wrapf(ErrNotSupported, "no Mat type for %s", info)
	}
	return depth | MatType(info.ChannelCount-1)<<channelShift, nil
}

// Depth returns the depth code.
func (t MatType) Depth() MatType { return t & (1<<channelShift - 1) }

// Channels returns the number of channels.
func (t MatType) Channels() int { return int(t>>channelShift) + 1 }

// seekTarget resolves a frame seek for a stream of length frames currently
// at pos. The result is clamped to [0, length-1]; clamped reports whether
// clamping changed it.
func seekTarget(pos, length, offset, whence int) (target int, clamped bool, err error) {
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = pos + offset
	case io.SeekEnd:
		target = length - 1 + offset
	default:
		return 0, false, errors.Newf("cvmat: invalid whence %d", whence)
	}
	if length <= 0 {
		return 0, target != 0, nil
	}
	if target < 0 {
		return 0, true, nil
	}
	if target > length-1 {
		return length - 1, true, nil
	}
	return target, false, nil
}
