package cvmat

import (
	"io"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/imgbuf/internal/colorinfo"
	"github.com/ironsheep/imgbuf/internal/colors"
)

func TestMatTypeOf(t *testing.T) {
	tests := []struct {
		name string
		info colorinfo.ColorInfo
		want MatType
	}{
		{"gray8 is CV_8UC1", colors.Gray[uint8]{}.Layout(), 0},
		{"bgr8 is CV_8UC3", colors.Bgr[uint8]{}.Layout(), 16},
		{"bgra8 is CV_8UC4", colors.Bgra[uint8]{}.Layout(), 24},
		{"gray16 is CV_16UC1", colors.Gray[uint16]{}.Layout(), 2},
		{"bgr16s is CV_16SC3", colors.Bgr[int16]{}.Layout(), 19},
		{"gray32s is CV_32SC1", colors.Gray[int32]{}.Layout(), 4},
		{"bgr32f is CV_32FC3", colors.Bgr[float32]{}.Layout(), 21},
		{"hsv64f is CV_64FC3", colors.Hsv[float64]{}.Layout(), 22},
		{"gray8s is CV_8SC1", colors.Gray[int8]{}.Layout(), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MatTypeOf(tt.info)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.info.ChannelCount, got.Channels())
		})
	}
}

func TestMatTypeOf_TooManyChannels(t *testing.T) {
	info := colorinfo.Declare[uint8]("Wide", 5)
	_, err := MatTypeOf(info)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotSupported))
}

func TestMatType_Parts(t *testing.T) {
	mt := DepthCV16U | MatType(2)<<channelShift
	assert.Equal(t, DepthCV16U, mt.Depth())
	assert.Equal(t, 3, mt.Channels())

	assert.Equal(t, DepthCV64F, (DepthCV64F | MatType(3)<<channelShift).Depth())
}

func TestSeekTarget(t *testing.T) {
	tests := []struct {
		name        string
		pos, length int
		offset      int
		whence      int
		want        int
		wantClamped bool
	}{
		{"start", 5, 10, 3, io.SeekStart, 3, false},
		{"current forward", 5, 10, 2, io.SeekCurrent, 7, false},
		{"current back", 5, 10, -5, io.SeekCurrent, 0, false},
		{"end", 5, 10, 0, io.SeekEnd, 9, false},
		{"end back", 5, 10, -3, io.SeekEnd, 6, false},
		{"before start", 5, 10, -6, io.SeekCurrent, 0, true},
		{"past end", 5, 10, 20, io.SeekStart, 9, true},
		{"empty stream", 0, 0, 4, io.SeekStart, 0, true},
		{"empty stream at zero", 0, 0, 0, io.SeekStart, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, clamped, err := seekTarget(tt.pos, tt.length, tt.offset, tt.whence)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantClamped, clamped)
		})
	}

	_, _, err := seekTarget(0, 10, 0, 42)
	assert.Error(t, err)
}
