package bitmap

import (
	"encoding/binary"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/imgbuf/internal/colorinfo"
	"github.com/ironsheep/imgbuf/internal/imgbuf"
	"github.com/ironsheep/imgbuf/internal/parallel"
)

// ToImage copies img into a new standard library image of the matching
// type. Layouts without alpha produce opaque images.
func ToImage[C colorinfo.Color](img *imgbuf.Image[C]) (image.Image, error) {
	f, err := FormatOf(img.Info())
	if err != nil {
		return nil, err
	}
	data, err := img.Bytes()
	if err != nil {
		return nil, err
	}

	w, h := img.Width(), img.Height()
	rect := image.Rect(0, 0, w, h)

	var (
		out       image.Image
		pix       []byte
		outStride int
	)
	switch f {
	case FormatGray8:
		g := image.NewGray(rect)
		out, pix, outStride = g, g.Pix, g.Stride
	case FormatGray16:
		g := image.NewGray16(rect)
		out, pix, outStride = g, g.Pix, g.Stride
	case FormatBgr24, FormatRgb24:
		m := image.NewRGBA(rect)
		out, pix, outStride = m, m.Pix, m.Stride
	case FormatBgra32:
		m := image.NewNRGBA(rect)
		out, pix, outStride = m, m.Pix, m.Stride
	case FormatBgr48:
		m := image.NewRGBA64(rect)
		out, pix, outStride = m, m.Pix, m.Stride
	case FormatBgra64:
		m := image.NewNRGBA64(rect)
		out, pix, outStride = m, m.Pix, m.Stride
	}

	if w == 0 || h == 0 {
		return out, nil
	}

	ord := orderOf(f)
	ps := img.Info().Size()
	cs := img.Info().ChannelSize()
	stride := img.Stride()

	parallel.MapRowsWidth(h, w, func(y int) {
		src := data[y*stride:]
		dst := pix[y*outStride:]
		for x := range w {
			p := src[x*ps:]
			if ord.gray {
				if ord.wide {
					binary.BigEndian.PutUint16(dst[x*2:], binary.NativeEndian.Uint16(p))
				} else {
					dst[x] = p[0]
				}
				continue
			}
			if ord.wide {
				o := dst[x*8:]
				binary.BigEndian.PutUint16(o[0:], binary.NativeEndian.Uint16(p[ord.r*cs:]))
				binary.BigEndian.PutUint16(o[2:], binary.NativeEndian.Uint16(p[ord.g*cs:]))
				binary.BigEndian.PutUint16(o[4:], binary.NativeEndian.Uint16(p[ord.b*cs:]))
				a := uint16(0xffff)
				if ord.a >= 0 {
					a = binary.NativeEndian.Uint16(p[ord.a*cs:])
				}
				binary.BigEndian.PutUint16(o[6:], a)
				continue
			}
			o := dst[x*4:]
			o[0], o[1], o[2] = p[ord.r], p[ord.g], p[ord.b]
			o[3] = 0xff
			if ord.a >= 0 {
				o[3] = p[ord.a]
			}
		}
	})
	return out, nil
}

// FromImage copies src into a new image of color C. src may have any
// bounds; the result starts at (0,0). Colors are converted through the
// standard library color models.
func FromImage[C colorinfo.Color](src image.Image) (*imgbuf.Image[C], error) {
	info, err := colorinfo.InfoOf[C]()
	if err != nil {
		return nil, err
	}
	f, err := FormatOf(info)
	if err != nil {
		return nil, err
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst, err := imgbuf.New[C](w, h)
	if err != nil {
		return nil, err
	}
	data, err := dst.Bytes()
	if err != nil {
		return nil, err
	}

	ord := orderOf(f)
	ps, cs, stride := info.Size(), info.ChannelSize(), dst.Stride()

	switch {
	case f == FormatGray8:
		g, ok := src.(*image.Gray)
		parallel.MapRowsWidth(h, w, func(y int) {
			row := data[y*stride:]
			if ok {
				copy(row[:w], g.Pix[g.PixOffset(b.Min.X, b.Min.Y+y):])
				return
			}
			for x := range w {
				row[x] = color.GrayModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.Gray).Y
			}
		})

	case f == FormatGray16:
		parallel.MapRowsWidth(h, w, func(y int) {
			row := data[y*stride:]
			for x := range w {
				v := color.Gray16Model.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.Gray16).Y
				binary.NativeEndian.PutUint16(row[x*2:], v)
			}
		})

	case ord.wide:
		parallel.MapRowsWidth(h, w, func(y int) {
			row := data[y*stride:]
			for x := range w {
				c := color.NRGBA64Model.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA64)
				p := row[x*ps:]
				binary.NativeEndian.PutUint16(p[ord.r*cs:], c.R)
				binary.NativeEndian.PutUint16(p[ord.g*cs:], c.G)
				binary.NativeEndian.PutUint16(p[ord.b*cs:], c.B)
				if ord.a >= 0 {
					binary.NativeEndian.PutUint16(p[ord.a*cs:], c.A)
				}
			}
		})

	default:
		n := toNRGBA(src)
		parallel.MapRowsWidth(h, w, func(y int) {
			row := data[y*stride:]
			in := n.Pix[y*n.Stride:]
			for x := range w {
				p, c := row[x*ps:], in[x*4:]
				p[ord.r], p[ord.g], p[ord.b] = c[0], c[1], c[2]
				if ord.a >= 0 {
					p[ord.a] = c[3]
				}
			}
		})
	}
	return dst, nil
}

// toNRGBA returns src as an *image.NRGBA anchored at the origin, copying
// only when necessary.
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	return imaging.Clone(src)
}
