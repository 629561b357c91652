// Copyright 2026 The psxgpu Authors. All rights reserved.

// Package vram implements the PS1 GPU's two VRAM representations
// (spec.md §3): Native VRAM, a 1024x512 grid of 16-bit cells held in
// a single-channel 32-bit storage image, and Scaled VRAM, an
// (1024*S)x(512*S) RGBA8 storage image that is the actual
// rasterization target. It also owns the read-only Scaled VRAM copy
// that the downsample pass samples while it writes Native VRAM, and
// the dirty-page bookkeeping (DirtyTracker) that
// lets the driver skip redundant sync/downsample passes.
package vram

import (
	"fmt"

	"github.com/vramcore/psxgpu/gpu"
)

const prefix = "vram: "

// MaxScale is the largest resolution scale the spec allows (§7:
// "resolution scale is outside [1,16]").
const MaxScale = 16

// Store owns the GPU-resident VRAM images and the dirty tracker that
// coordinates keeping them consistent (spec.md §5).
type Store struct {
	scale int

	native     gpu.Image
	nativeView gpu.ImageView

	scaled     gpu.Image
	scaledView gpu.ImageView

	// scaledCopy is the read-only snapshot described in spec.md §3:
	// "Scaled VRAM copy ... exists because D3D/Vulkan forbid
	// sampling a bound render target; the host driver copies
	// regions lazily." Core's downsample step copies a region of
	// Scaled VRAM into it just before sampling that region; it is not
	// refreshed at draw-batch boundaries, so regions outside the last
	// downsample can be older than Scaled VRAM.
	scaledCopy     gpu.Image
	scaledCopyView gpu.ImageView

	Dirty *DirtyTracker
}

// New creates a Store for the given resolution scale.
func New(g gpu.GPU, scale int) (*Store, error) {
	if scale < 1 || scale > MaxScale {
		return nil, fmt.Errorf("%sresolution scale %d out of range [1,%d]", prefix, scale, MaxScale)
	}

	// URenderTarget lets Native VRAM also serve as the (otherwise
	// unwritten) color attachment of the downsample pass: that pass
	// writes through imageStore rather than a fragment color output,
	// but a render pass still needs a same-format attachment bound.
	native, err := g.NewImage(gpu.R32Uint, gpu.Dim2D{Width: NativeWidth, Height: NativeHeight}, gpu.UShaderRead|gpu.UShaderWrite|gpu.URenderTarget)
	if err != nil {
		return nil, fmt.Errorf("%snative image: %w", prefix, err)
	}
	nativeView, err := native.NewView()
	if err != nil {
		native.Destroy()
		return nil, fmt.Errorf("%snative view: %w", prefix, err)
	}

	sw, sh := NativeWidth*scale, NativeHeight*scale
	scaledUsage := gpu.UShaderRead | gpu.UShaderWrite | gpu.URenderTarget | gpu.UShaderSample
	scaled, err := g.NewImage(gpu.RGBA8Unorm, gpu.Dim2D{Width: sw, Height: sh}, scaledUsage)
	if err != nil {
		nativeView.Destroy()
		native.Destroy()
		return nil, fmt.Errorf("%sscaled image: %w", prefix, err)
	}
	scaledView, err := scaled.NewView()
	if err != nil {
		scaled.Destroy()
		nativeView.Destroy()
		native.Destroy()
		return nil, fmt.Errorf("%sscaled view: %w", prefix, err)
	}

	scaledCopy, err := g.NewImage(gpu.RGBA8Unorm, gpu.Dim2D{Width: sw, Height: sh}, gpu.UShaderSample|gpu.UShaderWrite)
	if err != nil {
		scaledView.Destroy()
		scaled.Destroy()
		nativeView.Destroy()
		native.Destroy()
		return nil, fmt.Errorf("%sscaled copy image: %w", prefix, err)
	}
	scaledCopyView, err := scaledCopy.NewView()
	if err != nil {
		scaledCopy.Destroy()
		scaledView.Destroy()
		scaled.Destroy()
		nativeView.Destroy()
		native.Destroy()
		return nil, fmt.Errorf("%sscaled copy view: %w", prefix, err)
	}

	return &Store{
		scale:          scale,
		native:         native,
		nativeView:     nativeView,
		scaled:         scaled,
		scaledView:     scaledView,
		scaledCopy:     scaledCopy,
		scaledCopyView: scaledCopyView,
		Dirty:          NewDirtyTracker(),
	}, nil
}

// Scale returns the resolution scale this Store was created with.
func (s *Store) Scale() int { return s.scale }

// ScaledSize returns the dimensions of Scaled VRAM.
func (s *Store) ScaledSize() (width, height int) {
	return NativeWidth * s.scale, NativeHeight * s.scale
}

// Native returns the Native VRAM image and view.
func (s *Store) Native() (gpu.Image, gpu.ImageView) { return s.native, s.nativeView }

// Scaled returns the Scaled VRAM image and view.
func (s *Store) Scaled() (gpu.Image, gpu.ImageView) { return s.scaled, s.scaledView }

// ScaledCopy returns the Scaled VRAM copy image and view.
func (s *Store) ScaledCopy() (gpu.Image, gpu.ImageView) { return s.scaledCopy, s.scaledCopyView }

// Destroy releases every GPU resource the Store owns.
func (s *Store) Destroy() {
	s.scaledCopyView.Destroy()
	s.scaledCopy.Destroy()
	s.scaledView.Destroy()
	s.scaled.Destroy()
	s.nativeView.Destroy()
	s.native.Destroy()
}
