package bitmap

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/imgbuf/internal/colorinfo"
	"github.com/ironsheep/imgbuf/internal/imgbuf"
)

// Load decodes the image file at path into a new image of color C. JPEG
// files are rotated according to their EXIF orientation.
func Load[C colorinfo.Color](path string) (*imgbuf.Image[C], error) {
	src, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open image %s", path)
	}
	return FromImage[C](src)
}

// Decode reads an encoded image from r into a new image of color C.
func Decode[C colorinfo.Color](r io.Reader) (*imgbuf.Image[C], error) {
	src, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode image")
	}
	return FromImage[C](src)
}

// Save encodes img to path; the encoding is chosen from the file extension.
func Save[C colorinfo.Color](img *imgbuf.Image[C], path string) error {
	out, err := ToImage(img)
	if err != nil {
		return err
	}
	if err := imaging.Save(out, path); err != nil {
		return errors.Wrapf(err, "failed to save image %s", path)
	}
	return nil
}

// Encode writes img to w in the given format.
func Encode[C colorinfo.Color](w io.Writer, img *imgbuf.Image[C], format imaging.Format) error {
	out, err := ToImage(img)
	if err != nil {
		return err
	}
	if err := imaging.Encode(w, out, format); err != nil {
		return errors.Wrapf(err, "failed to encode %s", format)
	}
	return nil
}

// ParseFormat maps a format name or file extension ("png", ".jpg") to an
// encoding.
func ParseFormat(name string) (imaging.Format, error) {
	f, err := imaging.FormatFromExtension(name)
	if err != nil {
		return 0, errors.Wrapf(ErrUnsupportedFormat, "encoding %q", name)
	}
	return f, nil
}

// MimeType returns the MIME type of an encoding.
func MimeType(f imaging.Format) string {
	switch f {
	case imaging.JPEG:
		return "image/jpeg"
	case imaging.PNG:
		return "image/png"
	case imaging.GIF:
		return "image/gif"
	case imaging.TIFF:
		return "image/tiff"
	case imaging.BMP:
		return "image/bmp"
	}
	return "application/octet-stream"
}
