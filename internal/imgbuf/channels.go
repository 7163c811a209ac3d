package imgbuf

import (
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/ironsheep/imgbuf/internal/colorinfo"
	"github.com/ironsheep/imgbuf/internal/colors"
	"github.com/ironsheep/imgbuf/internal/geom"
	"github.com/ironsheep/imgbuf/internal/memcopy"
	"github.com/ironsheep/imgbuf/internal/parallel"
)

// SplitChannels copies the requested channels of img into separate
// single-channel images, in the order given. With no indices every channel
// is returned. T must be C's channel type.
func SplitChannels[C colorinfo.Color, T colorinfo.Depth](img *Image[C], channels ...int) ([]*Image[colors.Gray[T]], error) {
	if err := img.live(); err != nil {
		return nil, err
	}
	return SplitChannelsArea[C, T](img, img.Bounds(), channels...)
}

// SplitChannelsArea is SplitChannels restricted to area.
func SplitChannelsArea[C colorinfo.Color, T colorinfo.Depth](img *Image[C], area geom.Rectangle, channels ...int) ([]*Image[colors.Gray[T]], error) {
	if err := img.live(); err != nil {
		return nil, err
	}
	if err := img.checkArea(area); err != nil {
		return nil, err
	}
	if err := checkDepth[T](img.info); err != nil {
		return nil, err
	}
	if len(channels) == 0 {
		channels = allChannels(img.info.ChannelCount)
	}
	if err := checkChannels(channels, img.info); err != nil {
		return nil, err
	}

	size, cs := img.info.Size(), img.info.ChannelSize()
	base := area.Y*img.stride + area.X*size

	planes := make([]*Image[colors.Gray[T]], 0, len(channels))
	for _, ch := range channels {
		plane, err := New[colors.Gray[T]](area.Width, area.Height)
		if err != nil {
			return nil, err
		}
		if area.IsEmpty() {
			planes = append(planes, plane)
			continue
		}

		src := img.data[base+ch*cs:]
		var first firstError
		parallel.MapRowsWidth(area.Height, area.Width, func(y int) {
			first.set(memcopy.CopyStrided(plane.data[y*plane.stride:], src[y*img.stride:],
				plane.stride, img.stride, cs, size, cs, area.Width, 1))
		})
		if first.err != nil {
			return nil, first.err
		}
		planes = append(planes, plane)
	}
	return planes, nil
}

// MergeChannels builds an image of color C from single-channel planes.
// planes[i] is written to channel indices[i]; a nil indices slice means
// 0, 1, ... in order. Channels not named by indices are zero. All planes
// must have the same extent.
func MergeChannels[C colorinfo.Color, T colorinfo.Depth](planes []*Image[colors.Gray[T]], indices []int) (*Image[C], error) {
	info, err := colorinfo.InfoOf[C]()
	if err != nil {
		return nil, err
	}
	if len(planes) == 0 {
		return nil, errors.Wrap(ErrNilBuffer, "no planes to merge")
	}
	if indices == nil {
		indices = allChannels(len(planes))
	}
	if len(indices) != len(planes) {
		return nil, errors.Wrapf(ErrSizeMismatch, "%d planes, %d channel indices", len(planes), len(indices))
	}
	if err := checkDepth[T](info); err != nil {
		return nil, err
	}
	if err := checkChannels(indices, info); err != nil {
		return nil, err
	}

	width, height := planes[0].width, planes[0].height
	for i, p := range planes {
		if err := p.live(); err != nil {
			return nil, errors.Wrapf(err, "plane %d", i)
		}
		if p.width != width || p.height != height {
			return nil, errors.Wrapf(ErrSizeMismatch, "plane %d is %dx%d, plane 0 is %dx%d",
				i, p.width, p.height, width, height)
		}
	}

	dst, err := New[C](width, height)
	if err != nil {
		return nil, err
	}
	if width == 0 || height == 0 {
		return dst, nil
	}

	size, cs := info.Size(), info.ChannelSize()
	for i, p := range planes {
		out := dst.data[indices[i]*cs:]
		var first firstError
		parallel.MapRowsWidth(height, width, func(y int) {
			first.set(memcopy.CopyStrided(out[y*dst.stride:], p.data[y*p.stride:],
				dst.stride, p.stride, size, cs, cs, width, 1))
		})
		if first.err != nil {
			return nil, first.err
		}
	}
	return dst, nil
}

func checkDepth[T colorinfo.Depth](info colorinfo.ColorInfo) error {
	if d := colorinfo.DepthOf[T](); d != info.ChannelType {
		return errors.Wrapf(ErrColorMismatch, "plane depth %s, image depth %s", d, info.ChannelType)
	}
	return nil
}

func checkChannels(channels []int, info colorinfo.ColorInfo) error {
	for _, ch := range channels {
		if ch < 0 || ch >= info.ChannelCount {
			return errors.Wrapf(ErrChannelIndex, "channel %d of %s", ch, info)
		}
	}
	return nil
}

// firstError keeps the first non-nil error reported by concurrent rows.
type firstError struct {
	mu  sync.Mutex
	err error
}

func (f *firstError) set(err error) {
	if err == nil {
		return
	}
	f.mu.Lock()
	if f.err == nil {
		f.err = err
	}
	f.mu.Unlock()
}

func allChannels(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
