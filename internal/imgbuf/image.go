// Package imgbuf provides Image, a pixel-type-parameterized view over a byte
// buffer with an explicit width, height and row stride.
//
// An Image either owns a Go allocation (New), pins a caller's pixel slice
// (Lock), or borrows foreign memory that is handed back through a release
// callback (Wrap, WrapPointer). SubRect creates views that share the buffer
// and stride of the image they were taken from.
//
// # Ownership
//
// Every buffer has exactly one root Image. Views record the root's owner
// directly, so a view of a view is as cheap to check as a view of the root.
// Closing a view only retires that view. Closing the root releases the
// buffer: the release callback runs once, pinned memory is unpinned, and
// every view of the buffer starts returning ErrDisposed.
//
// Close must be called explicitly. If a root becomes unreachable without
// being closed, a runtime cleanup releases the buffer and logs a warning;
// that path exists to catch leaks and is not a substitute for Close.
//
// # Concurrency
//
// Reads through several views are safe. Writes to overlapping regions
// through different views need external synchronization.
package imgbuf

import (
	"runtime"
	"sync/atomic"
	"unsafe"

	"github.com/cockroachdb/errors"

	"github.com/ironsheep/imgbuf/internal/colorinfo"
	"github.com/ironsheep/imgbuf/internal/geom"
	"github.com/ironsheep/imgbuf/internal/logger"
	"github.com/ironsheep/imgbuf/internal/memcopy"
)

// Image is a width x height grid of pixels of type C stored row by row,
// stride bytes apart.
type Image[C colorinfo.Color] struct {
	data   []byte // first pixel to end of last row
	width  int
	height int
	stride int
	info   colorinfo.ColorInfo

	owner  *owner
	root   bool
	closed atomic.Bool
}

// owner tracks the lifetime of one underlying buffer.
type owner struct {
	released atomic.Bool
	rel      *releaser
	cleanup  runtime.Cleanup
	guarded  bool
}

// releaser is kept apart from owner so the runtime cleanup attached to the
// owner does not keep the owner reachable.
type releaser struct {
	done   atomic.Bool
	fn     func()
	pinner *runtime.Pinner
}

func (r *releaser) run() bool {
	if !r.done.CompareAndSwap(false, true) {
		return false
	}
	if r.pinner != nil {
		r.pinner.Unpin()
	}
	if r.fn != nil {
		r.fn()
	}
	return true
}

func newOwner(release func(), pinner *runtime.Pinner, info colorinfo.ColorInfo) *owner {
	o := &owner{rel: &releaser{fn: release, pinner: pinner}}
	if release == nil && pinner == nil {
		return o
	}
	desc := info.String()
	o.cleanup = runtime.AddCleanup(o, func(r *releaser) {
		if r.run() {
			logger.L().Warnw("image buffer released by garbage collector; Close was not called",
				"color", desc)
		}
	}, o.rel)
	o.guarded = true
	return o
}

func (o *owner) dispose() {
	o.released.Store(true)
	if o.guarded {
		o.cleanup.Stop()
	}
	o.rel.run()
}

// New allocates a zeroed width x height image with rows packed tightly.
func New[C colorinfo.Color](width, height int) (*Image[C], error) {
	info, err := colorinfo.InfoOf[C]()
	if err != nil {
		return nil, err
	}
	if width < 0 || height < 0 {
		return nil, errors.Wrapf(ErrOutOfRange, "dimensions %dx%d", width, height)
	}

	stride := width * info.Size()
	pix := make([]C, width*height)
	var data []byte
	if len(pix) > 0 {
		data = unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(pix))), len(pix)*info.Size())
	}
	return newRoot[C](data, width, height, stride, info, nil, nil), nil
}

// MustNew is New that panics on error.
func MustNew[C colorinfo.Color](width, height int) *Image[C] {
	img, err := New[C](width, height)
	if err != nil {
		panic(err)
	}
	return img
}

// Lock pins pix for the lifetime of the returned image so its address can be
// handed to native code. pix is interpreted as height rows of width pixels.
// Close unpins it; the slice contents are left untouched.
func Lock[C colorinfo.Color](pix []C, width, height int) (*Image[C], error) {
	info, err := colorinfo.InfoOf[C]()
	if err != nil {
		return nil, err
	}
	if pix == nil {
		return nil, errors.Wrap(ErrNilBuffer, "lock")
	}
	if width < 0 || height < 0 {
		return nil, errors.Wrapf(ErrOutOfRange, "dimensions %dx%d", width, height)
	}
	if len(pix) < width*height {
		return nil, errors.Wrapf(ErrBufferTooSmall, "%d pixels for %dx%d", len(pix), width, height)
	}

	var (
		data   []byte
		pinner *runtime.Pinner
	)
	if len(pix) > 0 {
		first := unsafe.SliceData(pix)
		pinner = new(runtime.Pinner)
		pinner.Pin(first)
		data = unsafe.Slice((*byte)(unsafe.Pointer(first)), width*height*info.Size())
	}
	return newRoot[C](data, width, height, width*info.Size(), info, nil, pinner), nil
}

// Wrap creates a root image over a foreign buffer. release, if not nil, runs
// exactly once when the image is closed.
func Wrap[C colorinfo.Color](data []byte, width, height, stride int, release func()) (*Image[C], error) {
	info, err := colorinfo.InfoOf[C]()
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, errors.Wrap(ErrNilBuffer, "wrap")
	}
	if err := validateLayout(data, width, height, stride, info); err != nil {
		return nil, err
	}
	extent := memcopy.Extent(stride, width*info.Size(), height)
	return newRoot[C](data[:extent:extent], width, height, stride, info, release, nil), nil
}

// WrapPointer is Wrap for memory addressed by a raw pointer, typically
// returned from a native call. length is the number of addressable bytes at
// ptr.
func WrapPointer[C colorinfo.Color](ptr unsafe.Pointer, length, width, height, stride int, release func()) (*Image[C], error) {
	if ptr == nil {
		return nil, errors.Wrap(ErrNilBuffer, "wrap pointer")
	}
	if length < 0 {
		return nil, errors.Wrapf(ErrBufferTooSmall, "length %d", length)
	}
	return Wrap[C](unsafe.Slice((*byte)(ptr), length), width, height, stride, release)
}

func validateLayout(data []byte, width, height, stride int, info colorinfo.ColorInfo) error {
	if width < 0 || height < 0 {
		return errors.Wrapf(ErrOutOfRange, "dimensions %dx%d", width, height)
	}
	rowBytes := width * info.Size()
	if stride < rowBytes {
		return errors.Wrapf(ErrInvalidStride, "stride %d below row size %d", stride, rowBytes)
	}
	if stride%info.ChannelSize() != 0 {
		return errors.Wrapf(ErrInvalidStride, "stride %d not a multiple of channel size %d",
			stride, info.ChannelSize())
	}
	if need := memcopy.Extent(stride, rowBytes, height); len(data) < need {
		return errors.Wrapf(ErrBufferTooSmall, "%d bytes, need %d", len(data), need)
	}
	if len(data) > 0 && uintptr(unsafe.Pointer(unsafe.SliceData(data)))%uintptr(info.ChannelSize()) != 0 {
		return errors.Wrapf(ErrInvalidStride, "buffer address not aligned to %d bytes", info.ChannelSize())
	}
	return nil
}

func newRoot[C colorinfo.Color](data []byte, width, height, stride int, info colorinfo.ColorInfo,
	release func(), pinner *runtime.Pinner) *Image[C] {
	return &Image[C]{
		data:   data,
		width:  width,
		height: height,
		stride: stride,
		info:   info,
		owner:  newOwner(release, pinner, info),
		root:   true,
	}
}

// Width returns the number of pixels per row.
func (img *Image[C]) Width() int { return img.width }

// Height returns the number of rows.
func (img *Image[C]) Height() int { return img.height }

// Stride returns the distance in bytes between the starts of two rows.
func (img *Image[C]) Stride() int { return img.stride }

// Info returns the layout of C.
func (img *Image[C]) Info() colorinfo.ColorInfo { return img.info }

// Size returns the extent of the image.
func (img *Image[C]) Size() geom.Size { return geom.Sz(img.width, img.height) }

// Bounds returns the image rectangle anchored at the origin.
func (img *Image[C]) Bounds() geom.Rectangle { return geom.Rect(0, 0, img.width, img.height) }

// IsRoot reports whether closing img releases the buffer.
func (img *Image[C]) IsRoot() bool { return img.root }

// RowBytesLen returns the number of pixel bytes in one row, excluding padding.
func (img *Image[C]) RowBytesLen() int { return img.width * img.info.Size() }

// IsClosed reports whether img can no longer be used, either because it was
// closed or because the buffer it views was released.
func (img *Image[C]) IsClosed() bool {
	return img.closed.Load() || img.owner.released.Load()
}

// live returns ErrDisposed once img is closed or its buffer released.
func (img *Image[C]) live() error {
	if img == nil {
		return errors.Wrap(ErrNilBuffer, "nil image")
	}
	if img.IsClosed() {
		return errors.Wrapf(ErrDisposed, "%s image %dx%d", img.info.ColorType, img.width, img.height)
	}
	return nil
}

// Bytes returns the buffer from the first pixel to the end of the last row.
func (img *Image[C]) Bytes() ([]byte, error) {
	if err := img.live(); err != nil {
		return nil, err
	}
	return img.data, nil
}

// Pointer returns the address of the first pixel, or nil for an empty
// image. The address stays valid until the root is closed.
func (img *Image[C]) Pointer() (unsafe.Pointer, error) {
	if err := img.live(); err != nil {
		return nil, err
	}
	if len(img.data) == 0 {
		return nil, nil
	}
	return unsafe.Pointer(unsafe.SliceData(img.data)), nil
}

// SameBuffer reports whether both images start at the same address and have
// the same extent. Pixel values are not compared.
func (img *Image[C]) SameBuffer(other *Image[C]) bool {
	if img == nil || other == nil {
		return img == other
	}
	return unsafe.SliceData(img.data) == unsafe.SliceData(other.data) &&
		img.width == other.width && img.height == other.height
}

// SubRect returns a view of r, which is given in img's coordinates. The view
// shares img's buffer and stride and is owned by img's root.
func (img *Image[C]) SubRect(r geom.Rectangle) (*Image[C], error) {
	if err := img.live(); err != nil {
		return nil, err
	}
	if err := img.checkArea(r); err != nil {
		return nil, err
	}

	var data []byte
	if !r.IsEmpty() {
		off := r.Y*img.stride + r.X*img.info.Size()
		end := off + memcopy.Extent(img.stride, r.Width*img.info.Size(), r.Height)
		data = img.data[off:end:end]
	}
	return &Image[C]{
		data:   data,
		width:  r.Width,
		height: r.Height,
		stride: img.stride,
		info:   img.info,
		owner:  img.owner,
	}, nil
}

func (img *Image[C]) checkArea(r geom.Rectangle) error {
	if r.X < 0 || r.Y < 0 || r.Width < 0 || r.Height < 0 ||
		r.Right() > img.width || r.Bottom() > img.height {
		return errors.Wrapf(ErrOutOfRange, "rectangle %v outside %dx%d", r, img.width, img.height)
	}
	return nil
}

// RowBytes returns the pixel bytes of row y, excluding padding.
func (img *Image[C]) RowBytes(y int) ([]byte, error) {
	if err := img.live(); err != nil {
		return nil, err
	}
	if y < 0 || y >= img.height {
		return nil, errors.Wrapf(ErrOutOfRange, "row %d of %d", y, img.height)
	}
	n := img.RowBytesLen()
	if n == 0 {
		return img.data[:0], nil
	}
	off := y * img.stride
	return img.data[off : off+n], nil
}

// PixelBytes returns the bytes of the pixel at column x of row y.
func (img *Image[C]) PixelBytes(y, x int) ([]byte, error) {
	row, err := img.RowBytes(y)
	if err != nil {
		return nil, err
	}
	if x < 0 || x >= img.width {
		return nil, errors.Wrapf(ErrOutOfRange, "column %d of %d", x, img.width)
	}
	size := img.info.Size()
	return row[x*size : (x+1)*size], nil
}

// Row returns row y as a slice of pixels aliasing the buffer.
func (img *Image[C]) Row(y int) ([]C, error) {
	if err := img.live(); err != nil {
		return nil, err
	}
	if y < 0 || y >= img.height {
		return nil, errors.Wrapf(ErrOutOfRange, "row %d of %d", y, img.height)
	}
	return img.row(y), nil
}

// row is Row without checks.
func (img *Image[C]) row(y int) []C {
	if img.width == 0 {
		return nil
	}
	return unsafe.Slice((*C)(unsafe.Pointer(&img.data[y*img.stride])), img.width)
}

// At returns the pixel at (x, y).
func (img *Image[C]) At(x, y int) (C, error) {
	var zero C
	if err := img.checkPoint(x, y); err != nil {
		return zero, err
	}
	return img.row(y)[x], nil
}

// Set stores c at (x, y).
func (img *Image[C]) Set(x, y int, c C) error {
	if err := img.checkPoint(x, y); err != nil {
		return err
	}
	img.row(y)[x] = c
	return nil
}

func (img *Image[C]) checkPoint(x, y int) error {
	if err := img.live(); err != nil {
		return err
	}
	if x < 0 || x >= img.width || y < 0 || y >= img.height {
		return errors.Wrapf(ErrOutOfRange, "point (%d,%d) outside %dx%d", x, y, img.width, img.height)
	}
	return nil
}

// Close retires img. Closing a root releases the buffer for every view of
// it. Close is idempotent and always returns nil.
func (img *Image[C]) Close() error {
	if img == nil || !img.closed.CompareAndSwap(false, true) {
		return nil
	}
	if img.root {
		img.owner.dispose()
	}
	return nil
}
