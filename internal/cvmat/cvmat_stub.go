//go:build !gocv

package cvmat

import (
	"github.com/ironsheep/imgbuf/internal/colorinfo"
	"github.com/ironsheep/imgbuf/internal/geom"
	"github.com/ironsheep/imgbuf/internal/imgbuf"
)

// Available reports whether the package was built with OpenCV.
const Available = false

// Capture is unavailable without the gocv build tag.
type Capture struct{}

// OpenFile returns ErrNotSupported.
func OpenFile(string) (*Capture, error) { return nil, ErrNotSupported }

// OpenDevice returns ErrNotSupported.
func OpenDevice(int) (*Capture, error) { return nil, ErrNotSupported }

// ReadFrame returns ErrNotSupported.
func ReadFrame[C colorinfo.Color](*Capture) (*imgbuf.Image[C], error) {
	return nil, ErrNotSupported
}

// Position returns 0.
func (*Capture) Position() int { return 0 }

// Length returns 0.
func (*Capture) Length() int { return 0 }

// Seek returns ErrNotSupported.
func (*Capture) Seek(int, int) (int, error) { return 0, ErrNotSupported }

// FrameSize returns the zero size.
func (*Capture) FrameSize() geom.Size { return geom.Size{} }

// FPS returns 0.
func (*Capture) FPS() float64 { return 0 }

// Close returns nil.
func (*Capture) Close() error { return nil }

// Writer is unavailable without the gocv build tag.
type Writer struct{}

// OpenWriter returns ErrNotSupported.
func OpenWriter(string, string, float64, geom.Size, bool) (*Writer, error) {
	return nil, ErrNotSupported
}

// WriteFrame returns ErrNotSupported.
func WriteFrame[C colorinfo.Color](*Writer, *imgbuf.Image[C]) error { return ErrNotSupported }

// Frames returns 0.
func (*Writer) Frames() int { return 0 }

// Close returns nil.
func (*Writer) Close() error { return nil }

// ReadFile returns ErrNotSupported.
func ReadFile[C colorinfo.Color](string) (*imgbuf.Image[C], error) { return nil, ErrNotSupported }

// WriteFile returns ErrNotSupported.
func WriteFile[C colorinfo.Color](string, *imgbuf.Image[C]) error { return ErrNotSupported }
