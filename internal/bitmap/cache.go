package bitmap

import (
	"os"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/imgbuf/internal/colors"
	"github.com/ironsheep/imgbuf/internal/imgbuf"
)

// Pixel is the color type ImageCache stores decoded files as.
type Pixel = colors.Bgra[uint8]

// ImageCache provides thread-safe caching of decoded image files to avoid
// redundant disk reads.
//
// Images are stored as Bgra<uint8> keyed by the path string they were loaded
// with. The cache owns every image it returns: callers must not Close them,
// and must not use them after Evict or Clear for the same path.
//
// # Example Usage
//
//	cache := bitmap.NewImageCache()
//	defer cache.Clear()
//	img, err := cache.Load("/path/to/image.png")
//	if err != nil {
//	    return err
//	}
//	view, err := img.SubRect(geom.Rect(0, 0, 10, 10))
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]*imgbuf.Image[Pixel]
}

// NewImageCache creates an empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]*imgbuf.Image[Pixel]),
	}
}

// Load returns the cached image for path, decoding the file on first use.
//
// Parameters:
//   - path: File path of the image. Any format imaging can decode is accepted
//     (PNG, JPEG, GIF, TIFF, BMP).
//
// Returns:
//   - *imgbuf.Image[Pixel]: The decoded image, owned by the cache.
//   - error: Non-nil if the file cannot be opened or decoded.
func (c *ImageCache) Load(path string) (*imgbuf.Image[Pixel], error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, err := Load[Pixel](path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.images[path]; ok {
		// Another caller won the race; keep its copy.
		img.Close()
		return existing, nil
	}
	c.images[path] = img
	return img, nil
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Clear closes and removes every cached image.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	old := c.images
	c.images = make(map[string]*imgbuf.Image[Pixel])
	c.mu.Unlock()

	for _, img := range old {
		img.Close()
	}
}

// Evict closes and removes the image cached for path, if any.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	img, ok := c.images[path]
	delete(c.images, path)
	c.mu.Unlock()

	if ok {
		img.Close()
	}
}

// ImageInfo contains metadata about a loaded image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the encoding inferred from the file extension, or "unknown".
	Format string `json:"format"`

	// ColorType describes the in-memory layout, e.g. "Bgra<uint8>x4".
	ColorType string `json:"color_type"`

	// PixelFormat is the packed bitmap format of the in-memory layout.
	PixelFormat string `json:"pixel_format"`

	// Stride is the number of bytes between the starts of two rows.
	Stride int `json:"stride"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image through cache and describes it.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to stat file")
	}

	format := "unknown"
	if f, err := imaging.FormatFromFilename(path); err == nil {
		format = f.String()
	}

	pf, err := FormatOf(img.Info())
	if err != nil {
		return nil, err
	}

	return &ImageInfo{
		Width:         img.Width(),
		Height:        img.Height(),
		Format:        format,
		ColorType:     img.Info().String(),
		PixelFormat:   pf.String(),
		Stride:        img.Stride(),
		FileSizeBytes: stat.Size(),
	}, nil
}
