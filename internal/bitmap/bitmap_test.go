package bitmap

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/imgbuf/internal/colorinfo"
	"github.com/ironsheep/imgbuf/internal/colors"
	"github.com/ironsheep/imgbuf/internal/geom"
	"github.com/ironsheep/imgbuf/internal/imgbuf"
)

// createTestImage writes a PNG with a quadrant pattern (red, green, blue,
// white) and returns its path.
func createTestImage(t *testing.T, width, height int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			var c color.NRGBA
			switch {
			case x < width/2 && y < height/2:
				c = color.NRGBA{255, 0, 0, 255}
			case x >= width/2 && y < height/2:
				c = color.NRGBA{0, 255, 0, 255}
			case x < width/2:
				c = color.NRGBA{0, 0, 255, 255}
			default:
				c = color.NRGBA{255, 255, 255, 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), "pattern.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		name string
		info colorinfo.ColorInfo
		want PixelFormat
		bits int
	}{
		{"gray8", colorinfo.MustInfoOf[colors.Gray[uint8]](), FormatGray8, 8},
		{"gray16", colorinfo.MustInfoOf[colors.Gray[uint16]](), FormatGray16, 16},
		{"bgr24", colorinfo.MustInfoOf[colors.Bgr[uint8]](), FormatBgr24, 24},
		{"rgb24", colorinfo.MustInfoOf[colors.Rgb[uint8]](), FormatRgb24, 24},
		{"bgra32", colorinfo.MustInfoOf[colors.Bgra[uint8]](), FormatBgra32, 32},
		{"bgr48", colorinfo.MustInfoOf[colors.Bgr[uint16]](), FormatBgr48, 48},
		{"bgra64", colorinfo.MustInfoOf[colors.Bgra[uint16]](), FormatBgra64, 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := FormatOf(tt.info)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f)
			assert.Equal(t, tt.bits, f.BitsPerPixel())
			assert.Equal(t, tt.info.Size()*8, f.BitsPerPixel())
		})
	}

	_, err := FormatOf(colorinfo.MustInfoOf[colors.Hsv[float32]]())
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestToImage_Bgr(t *testing.T) {
	img := imgbuf.MustNew[colors.Bgr[uint8]](2, 1)
	require.NoError(t, img.Set(1, 0, colors.Bgr[uint8]{B: 30, G: 20, R: 10}))

	out, err := ToImage(img)
	require.NoError(t, err)

	rgba, ok := out.(*image.RGBA)
	require.True(t, ok)
	assert.Equal(t, color.RGBA{10, 20, 30, 255}, rgba.RGBAAt(1, 0))
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, rgba.RGBAAt(0, 0))
}

func TestToImage_FromView(t *testing.T) {
	img := imgbuf.MustNew[colors.Gray[uint8]](4, 4)
	require.NoError(t, img.Set(2, 3, colors.Gray[uint8]{Intensity: 77}))

	view, err := img.SubRect(geom.Rect(1, 2, 3, 2))
	require.NoError(t, err)

	out, err := ToImage(view)
	require.NoError(t, err)
	g := out.(*image.Gray)
	assert.Equal(t, image.Rect(0, 0, 3, 2), g.Bounds())
	assert.Equal(t, uint8(77), g.GrayAt(1, 1).Y)
}

func TestToImage_ZeroWidth(t *testing.T) {
	parent := imgbuf.MustNew[colors.Bgr[uint8]](4, 4)
	defer parent.Close()

	tests := []struct {
		name   string
		open   func() (*imgbuf.Image[colors.Bgr[uint8]], error)
		height int
	}{
		{
			name: "empty view",
			open: func() (*imgbuf.Image[colors.Bgr[uint8]], error) {
				return parent.SubRect(geom.Rect(1, 0, 0, 3))
			},
			height: 3,
		},
		{
			name: "wrap with padding only",
			open: func() (*imgbuf.Image[colors.Bgr[uint8]], error) {
				return imgbuf.Wrap[colors.Bgr[uint8]](make([]byte, 48), 0, 4, 12, nil)
			},
			height: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := tt.open()
			require.NoError(t, err)
			defer img.Close()

			out, err := ToImage(img)
			require.NoError(t, err)
			assert.Equal(t, image.Rect(0, 0, 0, tt.height), out.Bounds())

			back, err := FromImage[colors.Bgr[uint8]](out)
			require.NoError(t, err)
			defer back.Close()
			assert.Equal(t, 0, back.Width())
			assert.Equal(t, tt.height, back.Height())
		})
	}
}

func TestToImage_Wide(t *testing.T) {
	img := imgbuf.MustNew[colors.Bgra[uint16]](1, 1)
	require.NoError(t, img.Set(0, 0, colors.Bgra[uint16]{B: 3, G: 2, R: 1, A: 0x8000}))

	out, err := ToImage(img)
	require.NoError(t, err)
	n := out.(*image.NRGBA64)
	assert.Equal(t, color.NRGBA64{R: 1, G: 2, B: 3, A: 0x8000}, n.NRGBA64At(0, 0))

	g16 := imgbuf.MustNew[colors.Gray[uint16]](1, 1)
	require.NoError(t, g16.Set(0, 0, colors.Gray[uint16]{Intensity: 0x1234}))
	out, err = ToImage(g16)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), out.(*image.Gray16).Gray16At(0, 0).Y)
}

func TestToImage_Unsupported(t *testing.T) {
	img := imgbuf.MustNew[colors.Hsv[uint8]](1, 1)
	_, err := ToImage(img)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestFromImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 7, 6))
	src.SetNRGBA(6, 5, color.NRGBA{R: 10, G: 20, B: 30, A: 40})

	bgra, err := FromImage[colors.Bgra[uint8]](src)
	require.NoError(t, err)
	assert.Equal(t, geom.Sz(2, 1), bgra.Size())
	px, err := bgra.At(1, 0)
	require.NoError(t, err)
	assert.Equal(t, colors.Bgra[uint8]{B: 30, G: 20, R: 10, A: 40}, px)

	rgb, err := FromImage[colors.Rgb[uint8]](src)
	require.NoError(t, err)
	rp, _ := rgb.At(1, 0)
	assert.Equal(t, colors.Rgb[uint8]{R: 10, G: 20, B: 30}, rp)

	gray := image.NewGray(image.Rect(0, 0, 3, 1))
	gray.SetGray(2, 0, color.Gray{Y: 99})
	g8, err := FromImage[colors.Gray[uint8]](gray)
	require.NoError(t, err)
	gp, _ := g8.At(2, 0)
	assert.Equal(t, uint8(99), gp.Intensity)

	g16, err := FromImage[colors.Gray[uint16]](gray)
	require.NoError(t, err)
	wp, _ := g16.At(2, 0)
	assert.Equal(t, uint16(99*0x101), wp.Intensity)

	_, err = FromImage[colors.Hsv[uint8]](gray)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestRoundTrip_Wide(t *testing.T) {
	img := imgbuf.MustNew[colors.Bgr[uint16]](3, 2)
	require.NoError(t, img.Set(2, 1, colors.Bgr[uint16]{B: 100, G: 20000, R: 65535}))

	out, err := ToImage(img)
	require.NoError(t, err)
	back, err := FromImage[colors.Bgr[uint16]](out)
	require.NoError(t, err)

	px, err := back.At(2, 1)
	require.NoError(t, err)
	assert.Equal(t, colors.Bgr[uint16]{B: 100, G: 20000, R: 65535}, px)
}

func TestEncodeDecode(t *testing.T) {
	img := imgbuf.MustNew[colors.Bgr[uint8]](4, 3)
	require.NoError(t, imgbuf.SetValue(img, colors.Bgr[uint8]{B: 1, G: 2, R: 3}))

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img, imaging.PNG))

	back, err := Decode[colors.Bgr[uint8]](&buf)
	require.NoError(t, err)
	assert.Equal(t, img.Size(), back.Size())
	px, _ := back.At(3, 2)
	assert.Equal(t, colors.Bgr[uint8]{B: 1, G: 2, R: 3}, px)
}

func TestSaveLoad(t *testing.T) {
	img := imgbuf.MustNew[colors.Gray[uint8]](5, 5)
	require.NoError(t, img.Set(4, 4, colors.Gray[uint8]{Intensity: 200}))

	path := filepath.Join(t.TempDir(), "gray.png")
	require.NoError(t, Save(img, path))

	back, err := Load[colors.Gray[uint8]](path)
	require.NoError(t, err)
	px, _ := back.At(4, 4)
	assert.Equal(t, uint8(200), px.Intensity)

	_, err = Load[colors.Gray[uint8]](filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)

	assert.Error(t, Save(img, filepath.Join(t.TempDir(), "out.webp")))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("png")
	require.NoError(t, err)
	assert.Equal(t, imaging.PNG, f)
	assert.Equal(t, "image/png", MimeType(f))

	f, err = ParseFormat(".JPG")
	require.NoError(t, err)
	assert.Equal(t, imaging.JPEG, f)

	_, err = ParseFormat("webp")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestImageCache(t *testing.T) {
	path := createTestImage(t, 10, 10)
	cache := NewImageCache()
	defer cache.Clear()

	first, err := cache.Load(path)
	require.NoError(t, err)
	second, err := cache.Load(path)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, cache.Len())

	px, err := first.At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, Pixel{B: 0, G: 0, R: 255, A: 255}, px)

	cache.Evict(path)
	assert.Equal(t, 0, cache.Len())
	assert.True(t, first.IsClosed())

	_, err = cache.Load(filepath.Join(t.TempDir(), "nope.png"))
	assert.Error(t, err)
}

func TestImageCache_Concurrent(t *testing.T) {
	path := createTestImage(t, 8, 8)
	cache := NewImageCache()
	defer cache.Clear()

	var wg sync.WaitGroup
	results := make([]*imgbuf.Image[Pixel], 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			img, err := cache.Load(path)
			if err != nil {
				t.Errorf("load: %v", err)
				return
			}
			results[i] = img
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, cache.Len())
	cached, err := cache.Load(path)
	require.NoError(t, err)
	for _, img := range results {
		assert.Same(t, cached, img)
	}
}

func TestLoadImageInfo(t *testing.T) {
	path := createTestImage(t, 12, 6)
	cache := NewImageCache()
	defer cache.Clear()

	info, err := LoadImageInfo(cache, path)
	require.NoError(t, err)

	assert.Equal(t, 12, info.Width)
	assert.Equal(t, 6, info.Height)
	assert.Equal(t, "PNG", info.Format)
	assert.Equal(t, "Bgra32", info.PixelFormat)
	assert.Equal(t, 48, info.Stride)
	assert.Positive(t, info.FileSizeBytes)
}

func TestCrop(t *testing.T) {
	path := createTestImage(t, 20, 20)
	img, err := Load[Pixel](path)
	require.NoError(t, err)

	res, err := Crop(img, geom.Rect(10, 0, 10, 10), 1, imaging.PNG)
	require.NoError(t, err)
	assert.Equal(t, 10, res.Width)
	assert.Equal(t, "image/png", res.MimeType)
	assert.NotEmpty(t, res.ImageBase64)

	scaled, err := Crop(img, geom.Rect(0, 0, 10, 10), 0.5, imaging.PNG)
	require.NoError(t, err)
	assert.Equal(t, 5, scaled.Width)
	assert.Equal(t, 5, scaled.Height)

	_, err = Crop(img, geom.Rect(15, 15, 10, 10), 1, imaging.PNG)
	assert.True(t, errors.Is(err, imgbuf.ErrOutOfRange))

	_, err = Crop(img, geom.Rect(0, 0, 0, 5), 1, imaging.PNG)
	assert.True(t, errors.Is(err, imgbuf.ErrOutOfRange))
}

func TestRegion(t *testing.T) {
	size := geom.Sz(100, 80)
	tests := []struct {
		name string
		want geom.Rectangle
	}{
		{"top-left", geom.Rect(0, 0, 50, 40)},
		{"top-right", geom.Rect(50, 0, 50, 40)},
		{"bottom-left", geom.Rect(0, 40, 50, 40)},
		{"bottom-right", geom.Rect(50, 40, 50, 40)},
		{"top-half", geom.Rect(0, 0, 100, 40)},
		{"left-half", geom.Rect(0, 0, 50, 80)},
		{"center", geom.Rect(25, 20, 50, 40)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Region(tt.name, size)
			require.NoError(t, err)
			assert.Equal(t, tt.want, r)
		})
	}

	_, err := Region("middle-ish", size)
	assert.Error(t, err)
}

func TestSampleColor(t *testing.T) {
	path := createTestImage(t, 10, 10)
	img, err := Load[Pixel](path)
	require.NoError(t, err)

	res, err := SampleColor(img, 7, 2)
	require.NoError(t, err)
	assert.Equal(t, "#00FF00", res.Hex)
	assert.Equal(t, RGBAColor{R: 0, G: 255, B: 0, A: 255}, res.RGBA)
	assert.Equal(t, 120, res.HSL.H)
	assert.Equal(t, 100, res.HSL.S)
	assert.Equal(t, 50, res.HSL.L)
	assert.Equal(t, HSVColor{H: 60, S: 255, V: 255}, res.HSV)
	assert.Equal(t, uint8(159), res.Gray)

	_, err = SampleColor(img, 10, 0)
	assert.True(t, errors.Is(err, imgbuf.ErrOutOfRange))
}

func TestChannelStats(t *testing.T) {
	img := imgbuf.MustNew[colors.Bgr[uint8]](2, 2)
	require.NoError(t, img.Set(0, 0, colors.Bgr[uint8]{B: 0, G: 10, R: 100}))
	require.NoError(t, img.Set(1, 0, colors.Bgr[uint8]{B: 4, G: 10, R: 100}))
	require.NoError(t, img.Set(0, 1, colors.Bgr[uint8]{B: 0, G: 10, R: 100}))
	require.NoError(t, img.Set(1, 1, colors.Bgr[uint8]{B: 4, G: 10, R: 100}))

	stats, err := ChannelStats[colors.Bgr[uint8], uint8](img, img.Bounds())
	require.NoError(t, err)
	require.Len(t, stats, 3)

	assert.Equal(t, 0.0, stats[0].Min)
	assert.Equal(t, 4.0, stats[0].Max)
	assert.InDelta(t, 2.0, stats[0].Mean, 1e-9)
	assert.InDelta(t, 2.0, stats[0].StdDev, 1e-9)
	assert.InDelta(t, 10.0, stats[1].Mean, 1e-9)
	assert.InDelta(t, 0.0, stats[1].StdDev, 1e-9)
	assert.Equal(t, 100.0, stats[2].Max)

	_, err = ChannelStats[colors.Bgr[uint8], uint16](img, img.Bounds())
	assert.True(t, errors.Is(err, imgbuf.ErrColorMismatch))
}
