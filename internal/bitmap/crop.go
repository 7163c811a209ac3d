package bitmap

import (
	"bytes"
	"encoding/base64"
	"image"

	"github.com/cockroachdb/errors"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/imgbuf/internal/colorinfo"
	"github.com/ironsheep/imgbuf/internal/geom"
	"github.com/ironsheep/imgbuf/internal/imgbuf"
)

// EncodedImage is an encoded image ready to be returned to a client.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodeBase64 encodes img in the given format and returns it base64-encoded.
func EncodeBase64[C colorinfo.Color](img *imgbuf.Image[C], format imaging.Format) (*EncodedImage, error) {
	out, err := ToImage(img)
	if err != nil {
		return nil, err
	}
	return encodeStd(out, format)
}

func encodeStd(img image.Image, format imaging.Format) (*EncodedImage, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format); err != nil {
		return nil, errors.Wrapf(err, "failed to encode %s", format)
	}
	return &EncodedImage{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    MimeType(format),
	}, nil
}

// Crop encodes the region r of img, optionally scaled.
//
// The region is taken as a view, so no pixels are copied until encoding.
// A scale of 0 or 1 keeps the original size; other positive values resize
// with a Lanczos filter.
func Crop[C colorinfo.Color](img *imgbuf.Image[C], r geom.Rectangle, scale float64, format imaging.Format) (*EncodedImage, error) {
	if r.IsEmpty() {
		return nil, errors.Wrapf(imgbuf.ErrOutOfRange, "empty crop region %v", r)
	}
	view, err := img.SubRect(r)
	if err != nil {
		return nil, err
	}
	defer view.Close()

	out, err := ToImage(view)
	if err != nil {
		return nil, err
	}

	if scale != 1.0 && scale > 0 {
		size := r.Size().ToF().Scale(scale).Round()
		if size.IsEmpty() {
			return nil, errors.Wrapf(imgbuf.ErrOutOfRange, "scale %g collapses %v", scale, r.Size())
		}
		out = imaging.Resize(out, size.Width, size.Height, imaging.Lanczos)
	}
	return encodeStd(out, format)
}

// Region returns the named region of an image of the given size: one of
// the quadrants ("top-left", "top-right", "bottom-left", "bottom-right"),
// halves ("top-half", "bottom-half", "left-half", "right-half") or
// "center" (the middle 50% in each direction).
func Region(name string, size geom.Size) (geom.Rectangle, error) {
	w, h := size.Width, size.Height
	midX, midY := w/2, h/2

	switch name {
	case "top-left":
		return geom.FromLTRB(0, 0, midX, midY), nil
	case "top-right":
		return geom.FromLTRB(midX, 0, w, midY), nil
	case "bottom-left":
		return geom.FromLTRB(0, midY, midX, h), nil
	case "bottom-right":
		return geom.FromLTRB(midX, midY, w, h), nil
	case "top-half":
		return geom.FromLTRB(0, 0, w, midY), nil
	case "bottom-half":
		return geom.FromLTRB(0, midY, w, h), nil
	case "left-half":
		return geom.FromLTRB(0, 0, midX, h), nil
	case "right-half":
		return geom.FromLTRB(midX, 0, w, h), nil
	case "center":
		return geom.FromLTRB(w/4, h/4, w-w/4, h-h/4), nil
	}
	return geom.Rectangle{}, errors.Newf("unknown region: %s", name)
}
