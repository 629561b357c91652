// Copyright 2026 The psxgpu Authors. All rights reserved.

package vram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageIndexWraps(t *testing.T) {
	require.Equal(t, PageIndex(0, 0), PageIndex(NativeWidth, NativeHeight))
	require.Equal(t, PageIndex(10, 10), PageIndex(10, 10))
	assert.NotEqual(t, PageIndex(0, 0), PageIndex(PageSize, 0))
}

func TestForEachPageCoversWrappedRect(t *testing.T) {
	// A rectangle starting near the right/bottom edge and wrapping
	// around must hit pages on both edges of the grid.
	seen := map[int]bool{}
	ForEachPage([2]int{NativeWidth - 4, NativeHeight - 4}, [2]int{8, 8}, func(p int) {
		seen[p] = true
	})
	require.True(t, seen[PageIndex(NativeWidth-1, NativeHeight-1)])
	require.True(t, seen[PageIndex(0, 0)])
}

func TestForEachPageFullCoverage(t *testing.T) {
	count := 0
	ForEachPage([2]int{0, 0}, [2]int{NativeWidth, NativeHeight}, func(p int) { count++ })
	require.Equal(t, NumPages, count)
}

func TestDirtyTrackerSyncDownsampleRoundTrip(t *testing.T) {
	d := NewDirtyTracker()
	rect := [2]int{0, 0}
	size := [2]int{PageSize, PageSize}

	assert.False(t, d.NeedsSync(rect, size))
	assert.False(t, d.NeedsDownsample(rect, size))

	d.MarkNativeWritten(rect, size)
	assert.True(t, d.NeedsSync(rect, size))
	assert.False(t, d.NeedsDownsample(rect, size))

	d.ClearSync(rect, size)
	assert.False(t, d.NeedsSync(rect, size))

	d.MarkScaledWritten(rect, size)
	assert.True(t, d.NeedsDownsample(rect, size))
	d.ClearDownsample(rect, size)
	assert.False(t, d.NeedsDownsample(rect, size))
}

func TestDirtyTrackerIsPerPage(t *testing.T) {
	d := NewDirtyTracker()
	d.MarkNativeWritten([2]int{0, 0}, [2]int{PageSize, PageSize})
	// A disjoint page far away must remain clean.
	assert.False(t, d.NeedsSync([2]int{NativeWidth - PageSize, NativeHeight - PageSize}, [2]int{PageSize, PageSize}))
}
