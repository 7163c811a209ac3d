package annotate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/imgbuf/internal/colors"
	"github.com/ironsheep/imgbuf/internal/geom"
	"github.com/ironsheep/imgbuf/internal/imgbuf"
)

func newMask(t *testing.T, w, h int) *imgbuf.Mask {
	t.Helper()
	m, err := Mask(geom.Sz(w, h))
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m
}

// selected returns the selected pixels as a set.
func selected(t *testing.T, m *imgbuf.Mask) map[geom.Point]bool {
	t.Helper()
	out := map[geom.Point]bool{}
	for y := 0; y < m.Height(); y++ {
		row, err := m.Row(y)
		require.NoError(t, err)
		for x, px := range row {
			if px.Intensity == On {
				out[geom.Pt(x, y)] = true
			} else {
				require.Zero(t, px.Intensity)
			}
		}
	}
	return out
}

func TestRectFromDrag(t *testing.T) {
	tests := []struct {
		name string
		a, b geom.Point
		want geom.Rectangle
	}{
		{"down right", geom.Pt(2, 3), geom.Pt(7, 9), geom.Rect(2, 3, 5, 6)},
		{"up left", geom.Pt(7, 9), geom.Pt(2, 3), geom.Rect(2, 3, 5, 6)},
		{"mixed", geom.Pt(7, 3), geom.Pt(2, 9), geom.Rect(2, 3, 5, 6)},
		{"click", geom.Pt(4, 4), geom.Pt(4, 4), geom.Rect(4, 4, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RectFromDrag(tt.a, tt.b)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.True(t, RectFromDrag(geom.Pt(1, 1), geom.Pt(1, 1)).IsEmpty())
}

func TestFillRectangle(t *testing.T) {
	m := newMask(t, 6, 5)
	require.NoError(t, FillRectangle(m, geom.Rect(1, 2, 3, 2)))

	got := selected(t, m)
	assert.Len(t, got, 6)
	for y := 2; y < 4; y++ {
		for x := 1; x < 4; x++ {
			assert.True(t, got[geom.Pt(x, y)], "(%d,%d)", x, y)
		}
	}
}

func TestFillRectangle_Clips(t *testing.T) {
	m := newMask(t, 4, 4)
	require.NoError(t, FillRectangle(m, geom.Rect(-2, 2, 10, 10)))
	assert.Len(t, selected(t, m), 8)

	other := newMask(t, 4, 4)
	require.NoError(t, FillRectangle(other, geom.Rect(10, 10, 3, 3)))
	assert.Empty(t, selected(t, other))
}

func TestDrawStroke_ThinHorizontal(t *testing.T) {
	m := newMask(t, 8, 4)
	require.NoError(t, DrawStroke(m, []geom.Point{geom.Pt(1, 1), geom.Pt(5, 1)}, 1))

	got := selected(t, m)
	assert.Len(t, got, 5)
	for x := 1; x <= 5; x++ {
		assert.True(t, got[geom.Pt(x, 1)])
	}
}

func TestDrawStroke_ThinDiagonal(t *testing.T) {
	m := newMask(t, 5, 5)
	require.NoError(t, DrawStroke(m, []geom.Point{geom.Pt(0, 0), geom.Pt(4, 4)}, 1))

	got := selected(t, m)
	assert.Len(t, got, 5)
	for i := 0; i < 5; i++ {
		assert.True(t, got[geom.Pt(i, i)])
	}
}

func TestDrawStroke_RoundDot(t *testing.T) {
	m := newMask(t, 9, 9)
	require.NoError(t, DrawStroke(m, []geom.Point{geom.Pt(4, 4)}, 4))

	got := selected(t, m)
	assert.True(t, got[geom.Pt(4, 4)])
	assert.True(t, got[geom.Pt(6, 4)])
	assert.True(t, got[geom.Pt(4, 2)])
	assert.False(t, got[geom.Pt(6, 6)], "corner is outside a round brush")
	assert.False(t, got[geom.Pt(7, 4)])
}

func TestDrawStroke_Polyline(t *testing.T) {
	m := newMask(t, 6, 6)
	pts := []geom.Point{geom.Pt(0, 0), geom.Pt(4, 0), geom.Pt(4, 4)}
	require.NoError(t, DrawStroke(m, pts, 1))

	got := selected(t, m)
	assert.Len(t, got, 9)
	assert.True(t, got[geom.Pt(4, 0)])
	assert.True(t, got[geom.Pt(4, 4)])
}

func TestDrawStroke_ClipsAndValidates(t *testing.T) {
	m := newMask(t, 4, 4)
	require.NoError(t, DrawStroke(m, []geom.Point{geom.Pt(-10, 1), geom.Pt(10, 1)}, 1))
	assert.Len(t, selected(t, m), 4)

	require.NoError(t, DrawStroke(m, nil, 3))
	assert.ErrorIs(t, DrawStroke(m, []geom.Point{geom.Pt(1, 1)}, 0), ErrInvalidThickness)
}

func TestFillPolygon_MatchesRectangle(t *testing.T) {
	poly := newMask(t, 8, 8)
	rect := newMask(t, 8, 8)

	square := []geom.Point{geom.Pt(1, 2), geom.Pt(5, 2), geom.Pt(5, 6), geom.Pt(1, 6)}
	require.NoError(t, FillPolygon(poly, square))
	require.NoError(t, FillRectangle(rect, geom.Rect(1, 2, 4, 4)))

	assert.Equal(t, selected(t, rect), selected(t, poly))
}

func TestFillPolygon_Triangle(t *testing.T) {
	m := newMask(t, 10, 10)
	require.NoError(t, FillPolygon(m, []geom.Point{geom.Pt(0, 0), geom.Pt(8, 0), geom.Pt(0, 8)}))

	got := selected(t, m)
	assert.True(t, got[geom.Pt(0, 0)])
	assert.True(t, got[geom.Pt(6, 0)])
	assert.True(t, got[geom.Pt(0, 6)])
	assert.False(t, got[geom.Pt(7, 7)])
	assert.False(t, got[geom.Pt(9, 0)])
}

func TestFillPolygon_EvenOdd(t *testing.T) {
	m := newMask(t, 12, 12)
	// Outer square then inner square traced as one self-overlapping ring.
	ring := []geom.Point{
		geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(10, 10), geom.Pt(0, 10), geom.Pt(0, 0),
		geom.Pt(3, 3), geom.Pt(7, 3), geom.Pt(7, 7), geom.Pt(3, 7), geom.Pt(3, 3),
	}
	require.NoError(t, FillPolygon(m, ring))

	got := selected(t, m)
	assert.True(t, got[geom.Pt(1, 5)])
	assert.True(t, got[geom.Pt(8, 5)])
	assert.False(t, got[geom.Pt(5, 5)], "hole")
}

func TestFillPolygon_DegenerateAndClipped(t *testing.T) {
	m := newMask(t, 4, 4)
	require.NoError(t, FillPolygon(m, []geom.Point{geom.Pt(0, 0), geom.Pt(3, 3)}))
	assert.Empty(t, selected(t, m))

	big := []geom.Point{geom.Pt(-5, -5), geom.Pt(20, -5), geom.Pt(20, 20), geom.Pt(-5, 20)}
	require.NoError(t, FillPolygon(m, big))
	assert.Len(t, selected(t, m), 16)
}

func TestMask_FeedsSetValueMasked(t *testing.T) {
	m := newMask(t, 4, 4)
	require.NoError(t, FillRectangle(m, RectFromDrag(geom.Pt(3, 3), geom.Pt(1, 1))))

	img, err := imgbuf.New[colors.Bgr[uint8]](4, 4)
	require.NoError(t, err)
	defer img.Close()

	red := colors.Bgr[uint8]{R: 255}
	require.NoError(t, imgbuf.SetValueMasked(img, red, m))

	px, err := img.At(2, 2)
	require.NoError(t, err)
	assert.Equal(t, red, px)
	px, err = img.At(3, 3)
	require.NoError(t, err)
	assert.Equal(t, colors.Bgr[uint8]{}, px)
}

func TestClosedMask(t *testing.T) {
	m, err := Mask(geom.Sz(2, 2))
	require.NoError(t, err)
	require.NoError(t, m.Close())

	assert.ErrorIs(t, FillRectangle(m, geom.Rect(0, 0, 1, 1)), imgbuf.ErrDisposed)
	assert.ErrorIs(t, DrawStroke(m, []geom.Point{geom.Pt(0, 0)}, 1), imgbuf.ErrDisposed)
	assert.ErrorIs(t, FillPolygon(m, nil), imgbuf.ErrDisposed)
}
