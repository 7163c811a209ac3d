// Package parallel runs per-pixel and per-row functions over an image extent.
//
// Work is partitioned into contiguous row bands by bild's parallel.Line and
// joined before the call returns. Small extents run inline on the calling
// goroutine. There is no cancellation; fn must not block.
package parallel

import (
	"sync/atomic"

	bildparallel "github.com/anthonynsimon/bild/parallel"
)

// DefaultSequentialThreshold is the pixel count below which work runs on the
// caller's goroutine.
const DefaultSequentialThreshold = 4096

var threshold atomic.Int64

func init() {
	threshold.Store(DefaultSequentialThreshold)
}

// SetSequentialThreshold sets the pixel count below which Map and MapRows
// run sequentially. Values below 1 make every call parallel.
func SetSequentialThreshold(pixels int) {
	threshold.Store(int64(max(pixels, 0)))
}

// SequentialThreshold returns the current threshold.
func SequentialThreshold() int {
	return int(threshold.Load())
}

// Map calls fn once for every (x, y) with 0 <= x < width and 0 <= y < height.
// Each row is handled by a single goroutine, left to right.
func Map(width, height int, fn func(x, y int)) {
	if width <= 0 || height <= 0 {
		return
	}
	MapBand(width, height, func(start, end int) {
		for y := start; y < end; y++ {
			for x := range width {
				fn(x, y)
			}
		}
	})
}

// MapRows calls fn once for every row in [0, height).
func MapRows(height int, fn func(y int)) {
	MapRowsWidth(height, 1, fn)
}

// MapRowsWidth is MapRows for rows of a known pixel width; the width only
// participates in the sequential threshold decision.
func MapRowsWidth(height, width int, fn func(y int)) {
	if height <= 0 {
		return
	}
	MapBand(max(width, 1), height, func(start, end int) {
		for y := start; y < end; y++ {
			fn(y)
		}
	})
}

// MapBand hands out disjoint row bands [start, end) that together cover
// [0, height) exactly once.
func MapBand(width, height int, fn func(start, end int)) {
	if height <= 0 {
		return
	}
	if int64(width)*int64(height) < threshold.Load() {
		fn(0, height)
		return
	}
	bildparallel.Line(height, fn)
}
