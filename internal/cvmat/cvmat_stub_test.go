//go:build !gocv

package cvmat

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"

	"github.com/ironsheep/imgbuf/internal/colors"
	"github.com/ironsheep/imgbuf/internal/geom"
	"github.com/ironsheep/imgbuf/internal/imgbuf"
)

func TestStub_NotSupported(t *testing.T) {
	assert.False(t, Available)

	_, err := OpenFile("clip.avi")
	assert.True(t, errors.Is(err, ErrNotSupported))

	_, err = OpenDevice(0)
	assert.True(t, errors.Is(err, ErrNotSupported))

	_, err = OpenWriter("out.avi", "MJPG", 25, geom.Sz(4, 4), true)
	assert.True(t, errors.Is(err, ErrNotSupported))

	_, err = ReadFile[colors.Bgr[uint8]]("in.png")
	assert.True(t, errors.Is(err, ErrNotSupported))

	img, err := imgbuf.New[colors.Bgr[uint8]](2, 2)
	if assert.NoError(t, err) {
		defer img.Close()
		assert.True(t, errors.Is(WriteFile("out.png", img), ErrNotSupported))
	}
}
