// Copyright 2026 The psxgpu Authors. All rights reserved.

package vram

import "github.com/vramcore/psxgpu/internal/bitset"

// Native VRAM dimensions (spec.md §3): a 1024x512 grid of 16-bit
// cells, toroidal on both axes.
const (
	NativeWidth  = 1024
	NativeHeight = 512
)

// PageSize is the granularity, in native pixels, at which dirtiness
// is tracked. 64x64 matches the smallest texpage (a 4bpp texpage is
// 64 pixels wide) so that a draw sampling a single texpage never has
// to refresh more VRAM than the page(s) it actually touches.
const PageSize = 64

const (
	PagesX   = NativeWidth / PageSize
	PagesY   = NativeHeight / PageSize
	NumPages = PagesX * PagesY
)

func wrap(v, mod int) int {
	v %= mod
	if v < 0 {
		v += mod
	}
	return v
}

// PageIndex returns the dirty-tracking page containing native
// coordinate (x, y), wrapping both axes.
func PageIndex(x, y int) int {
	px := wrap(x, NativeWidth) / PageSize
	py := wrap(y, NativeHeight) / PageSize
	return py*PagesX + px
}

// axisMask marks, modulo length, the positions covered by [pos, pos+size).
func axisMask(pos, size, length int) []bool {
	m := make([]bool, length)
	if size >= length {
		for i := range m {
			m[i] = true
		}
		return m
	}
	for i := 0; i < size; i++ {
		m[wrap(pos+i, length)] = true
	}
	return m
}

// ForEachPage calls fn once for every dirty-tracking page that
// rectangle (pos, size) overlaps, taking the toroidal wrap of both
// axes into account (spec.md §3: "all VRAM coordinates are taken
// modulo (1024, 512) on every access").
func ForEachPage(pos, size [2]int, fn func(page int)) {
	xm := axisMask(pos[0], size[0], NativeWidth)
	ym := axisMask(pos[1], size[1], NativeHeight)
	for py := 0; py < PagesY; py++ {
		rowHit := false
		for y := py * PageSize; y < (py+1)*PageSize; y++ {
			if ym[y] {
				rowHit = true
				break
			}
		}
		if !rowHit {
			continue
		}
		for px := 0; px < PagesX; px++ {
			colHit := false
			for x := px * PageSize; x < (px+1)*PageSize; x++ {
				if xm[x] {
					colHit = true
					break
				}
			}
			if colHit {
				fn(py*PagesX + px)
			}
		}
	}
}

// DirtyTracker tracks, per VRAM page, whether Native VRAM or Scaled
// VRAM holds data the other domain hasn't observed yet. It is the
// mechanism behind spec.md §5's "the driver tracks dirty-rectangles
// at native and scaled granularity; a sync is skipped if the
// destination is already fresh."
//
// Two independent bits per page:
//   - staleScaled: Native VRAM was written since the last sync (4.6);
//     Scaled VRAM must be refreshed before a draw renders into this
//     page. Draws read every texture depth from Native VRAM, never
//     from Scaled VRAM.
//   - staleNative: Scaled VRAM was written (by a draw) since the last
//     downsample (4.7); Native VRAM must be refreshed before a CPU
//     read or a texture sample of this page.
type DirtyTracker struct {
	staleScaled bitset.Set[uint32]
	staleNative bitset.Set[uint32]
}

// NewDirtyTracker creates a tracker with every page clean.
func NewDirtyTracker() *DirtyTracker {
	return &DirtyTracker{
		staleScaled: bitset.New[uint32](NumPages),
		staleNative: bitset.New[uint32](NumPages),
	}
}

// MarkNativeWritten records that (pos, size) in Native VRAM changed
// by a means other than the downsample pass (fill, CPU→VRAM blit,
// VRAM→VRAM copy), so Scaled VRAM's mirror of these pages is stale.
func (d *DirtyTracker) MarkNativeWritten(pos, size [2]int) {
	ForEachPage(pos, size, func(p int) { d.staleScaled.Set(p) })
}

// MarkScaledWritten records that (pos, size) in Scaled VRAM changed
// by a means other than the sync pass (a draw), so Native VRAM's
// copy of these pages is stale.
func (d *DirtyTracker) MarkScaledWritten(pos, size [2]int) {
	ForEachPage(pos, size, func(p int) { d.staleNative.Set(p) })
}

// NeedsSync reports whether any page in (pos, size) needs a
// native→scaled sync pass (4.6) before being sampled or rendered to.
func (d *DirtyTracker) NeedsSync(pos, size [2]int) bool {
	need := false
	ForEachPage(pos, size, func(p int) {
		if d.staleScaled.IsSet(p) {
			need = true
		}
	})
	return need
}

// NeedsDownsample reports whether any page in (pos, size) needs a
// scaled→native downsample pass (4.7) before being read by the CPU
// or sampled as a texture.
func (d *DirtyTracker) NeedsDownsample(pos, size [2]int) bool {
	need := false
	ForEachPage(pos, size, func(p int) {
		if d.staleNative.IsSet(p) {
			need = true
		}
	})
	return need
}

// ClearSync marks (pos, size) as freshly synced: Scaled VRAM now
// reflects Native VRAM for these pages.
func (d *DirtyTracker) ClearSync(pos, size [2]int) {
	ForEachPage(pos, size, func(p int) { d.staleScaled.Unset(p) })
}

// ClearDownsample marks (pos, size) as freshly downsampled: Native
// VRAM now reflects Scaled VRAM for these pages.
func (d *DirtyTracker) ClearDownsample(pos, size [2]int) {
	ForEachPage(pos, size, func(p int) { d.staleNative.Unset(p) })
}
