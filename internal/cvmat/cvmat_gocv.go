//go:build gocv

package cvmat

import (
	"io"
	"sync"

	"github.com/cockroachdb/errors"
	"gocv.io/x/gocv"

	"github.com/ironsheep/imgbuf/internal/colorinfo"
	"github.com/ironsheep/imgbuf/internal/geom"
	"github.com/ironsheep/imgbuf/internal/imgbuf"
	"github.com/ironsheep/imgbuf/internal/logger"
	"github.com/ironsheep/imgbuf/internal/memcopy"
)

// Available reports whether the package was built with OpenCV.
const Available = true

// ToMat copies img into a new Mat. The caller owns the Mat and must Close it.
func ToMat[C colorinfo.Color](img *imgbuf.Image[C]) (gocv.Mat, error) {
	mt, err := MatTypeOf(img.Info())
	if err != nil {
		return gocv.NewMat(), err
	}
	src, err := img.Bytes()
	if err != nil {
		return gocv.NewMat(), err
	}

	mat := gocv.NewMatWithSize(img.Height(), img.Width(), gocv.MatType(mt))
	if img.Width() == 0 || img.Height() == 0 {
		return mat, nil
	}
	dst, err := mat.DataPtrUint8()
	if err != nil {
		mat.Close()
		return gocv.NewMat(), errors.Wrap(err, "cvmat: mat data")
	}
	if err := memcopy.Copy2D(dst, src, mat.Step(), img.Stride(), img.RowBytesLen(), img.Height()); err != nil {
		mat.Close()
		return gocv.NewMat(), err
	}
	return mat, nil
}

// FromMat wraps the pixels of mat without copying. The returned image owns
// mat: closing the image closes the Mat. A non-continuous Mat is cloned
// first and the original is closed. If mat does not hold color C it is left
// to the caller; any later failure closes it.
func FromMat[C colorinfo.Color](mat gocv.Mat) (*imgbuf.Image[C], error) {
	if err := checkMat[C](mat); err != nil {
		return nil, err
	}

	if !mat.IsContinuous() {
		cont := mat.Clone()
		mat.Close()
		mat = cont
	}

	data, err := mat.DataPtrUint8()
	if err != nil {
		mat.Close()
		return nil, errors.Wrap(err, "cvmat: mat data")
	}

	var once sync.Once
	img, err := imgbuf.Wrap[C](data, mat.Cols(), mat.Rows(), mat.Step(), func() {
		once.Do(func() { mat.Close() })
	})
	if err != nil {
		mat.Close()
		return nil, err
	}
	return img, nil
}

// checkMat reports whether mat holds pixels of color C.
func checkMat[C colorinfo.Color](mat gocv.Mat) error {
	info, err := colorinfo.InfoOf[C]()
	if err != nil {
		return err
	}
	want, err := MatTypeOf(info)
	if err != nil {
		return err
	}
	if got := MatType(mat.Type()); got != want {
		return errors.Wrapf(ErrColorMismatch, "mat type %d, %s needs %d", got, info, want)
	}
	return nil
}

// adoptMat is FromMat for a Mat the caller does not keep: mat is closed on
// every failure.
func adoptMat[C colorinfo.Color](mat gocv.Mat) (*imgbuf.Image[C], error) {
	if err := checkMat[C](mat); err != nil {
		mat.Close()
		return nil, err
	}
	return FromMat[C](mat)
}

// Capture reads frames from a video file or a live device and tracks the
// position of the next frame.
type Capture struct {
	vc     *gocv.VideoCapture
	isFile bool
	pos    int
}

// OpenFile opens a video file.
func OpenFile(path string) (*Capture, error) {
	vc, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, errors.Wrapf(ErrOpen, "%s: %v", path, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, errors.Wrapf(ErrOpen, "%s", path)
	}
	return &Capture{vc: vc, isFile: true}, nil
}

// OpenDevice opens a camera by index.
func OpenDevice(id int) (*Capture, error) {
	vc, err := gocv.VideoCaptureDevice(id)
	if err != nil {
		return nil, errors.Wrapf(ErrOpen, "device %d: %v", id, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, errors.Wrapf(ErrOpen, "device %d", id)
	}
	return &Capture{vc: vc}, nil
}

// ReadFrame decodes the next frame as an image of color C. The image owns
// its own Mat and must be closed by the caller. A frame that decodes but
// does not hold color C is still consumed: Position advances past it, as
// the backend does.
func ReadFrame[C colorinfo.Color](c *Capture) (*imgbuf.Image[C], error) {
	mat := gocv.NewMat()
	if !c.vc.Read(&mat) || mat.Empty() {
		mat.Close()
		return nil, errors.Wrapf(ErrEndOfStream, "frame %d", c.pos)
	}
	frame := c.pos
	c.pos++
	img, err := adoptMat[C](mat)
	if err != nil {
		return nil, errors.Wrapf(err, "frame %d", frame)
	}
	return img, nil
}

// Position returns the index of the next frame to be read.
func (c *Capture) Position() int { return c.pos }

// Length returns the number of frames of a file, or -1 for a device.
func (c *Capture) Length() int {
	if !c.isFile {
		return -1
	}
	return int(c.vc.Get(gocv.VideoCaptureFrameCount))
}

// Seek moves to a frame using io.Seeker whence semantics. The target is
// clamped to the valid frame range. Devices cannot seek.
func (c *Capture) Seek(offset int, whence int) (int, error) {
	if !c.isFile {
		return c.pos, errors.Wrap(ErrNotSupported, "seek on a live device")
	}
	target, clamped, err := seekTarget(c.pos, c.Length(), offset, whence)
	if err != nil {
		return c.pos, err
	}
	if clamped {
		logger.L().Debugw("capture seek clamped", "offset", offset, "whence", whence, "frame", target)
	}
	c.vc.Set(gocv.VideoCapturePosFrames, float64(target))
	c.pos = target
	return target, nil
}

var _ io.Closer = (*Capture)(nil)

// FrameSize returns the frame dimensions reported by the backend.
func (c *Capture) FrameSize() geom.Size {
	return geom.Sz(int(c.vc.Get(gocv.VideoCaptureFrameWidth)), int(c.vc.Get(gocv.VideoCaptureFrameHeight)))
}

// FPS returns the nominal frame rate.
func (c *Capture) FPS() float64 { return c.vc.Get(gocv.VideoCaptureFPS) }

// Close releases the capture.
func (c *Capture) Close() error {
	if c.vc == nil {
		return nil
	}
	err := c.vc.Close()
	c.vc = nil
	return err
}

// Writer encodes frames of a fixed size into a video file.
type Writer struct {
	vw     *gocv.VideoWriter
	size   geom.Size
	frames int
}

// OpenWriter creates a video file. codec is a FourCC such as "MJPG".
func OpenWriter(path, codec string, fps float64, size geom.Size, isColor bool) (*Writer, error) {
	vw, err := gocv.VideoWriterFile(path, codec, fps, size.Width, size.Height, isColor)
	if err != nil {
		return nil, errors.Wrapf(ErrOpen, "%s: %v", path, err)
	}
	if !vw.IsOpened() {
		vw.Close()
		return nil, errors.Wrapf(ErrOpen, "%s", path)
	}
	return &Writer{vw: vw, size: size}, nil
}

// WriteFrame appends img, which must have the writer's frame size.
func WriteFrame[C colorinfo.Color](w *Writer, img *imgbuf.Image[C]) error {
	if img.Size() != w.size {
		return errors.Wrapf(imgbuf.ErrSizeMismatch, "frame %v, writer %v", img.Size(), w.size)
	}
	mat, err := ToMat(img)
	if err != nil {
		return err
	}
	defer mat.Close()

	if err := w.vw.Write(mat); err != nil {
		return errors.Wrap(err, "cvmat: write frame")
	}
	w.frames++
	return nil
}

// Frames returns the number of frames written.
func (w *Writer) Frames() int { return w.frames }

// Close finalizes the file.
func (w *Writer) Close() error {
	if w.vw == nil {
		return nil
	}
	err := w.vw.Close()
	w.vw = nil
	return err
}

// ReadFile decodes an image file with OpenCV, keeping its native channel
// layout, and wraps it as color C.
func ReadFile[C colorinfo.Color](path string) (*imgbuf.Image[C], error) {
	mat := gocv.IMRead(path, gocv.IMReadUnchanged)
	if mat.Empty() {
		mat.Close()
		return nil, errors.Wrapf(ErrOpen, "%s", path)
	}
	img, err := adoptMat[C](mat)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return img, nil
}

// WriteFile encodes img with OpenCV; the format follows the extension.
func WriteFile[C colorinfo.Color](path string, img *imgbuf.Image[C]) error {
	mat, err := ToMat(img)
	if err != nil {
		return err
	}
	defer mat.Close()

	if !gocv.IMWrite(path, mat) {
		return errors.Newf("cvmat: cannot write %s", path)
	}
	return nil
}
