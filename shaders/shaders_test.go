// Copyright 2026 The psxgpu Authors. All rights reserved.

package shaders

import (
	"strings"
	"testing"
)

// core/texmath.go is the single source of truth for the per-pixel
// formulas this package's GLSL mirrors (spec.md §8). These checks
// catch the GLSL text drifting from texmath.go's constants on a
// later edit to either side.

func TestDrawFragModulationScaleMatchesTexmath(t *testing.T) {
	if !strings.Contains(DrawFrag, "1.9921875") {
		t.Fatal("draw.frag.glsl: modulation scale constant 1.9921875 not found")
	}
}

func TestDrawFragDitherTableMatchesTexmath(t *testing.T) {
	want := []string{"-4, 0, -3, 1", "2, -2, 3, -1", "-3, 1, -4, 0", "3, -1, 2, -2"}
	for _, row := range want {
		if !strings.Contains(DrawFrag, row) {
			t.Fatalf("draw.frag.glsl: dither table row %q not found", row)
		}
	}
}

func TestEveryShaderDeclaresVersion460(t *testing.T) {
	all := map[string]string{
		"fill.comp.glsl":       Fill,
		"cpu_to_vram.comp.glsl": CPUToVRAM,
		"vram_to_cpu.comp.glsl": VRAMToCPU,
		"vram_copy.comp.glsl":  VRAMCopy,
		"vram_copy_scaled.comp.glsl": VRAMCopyScaled,
		"sync.vert.glsl":       SyncVert,
		"sync.frag.glsl":       SyncFrag,
		"downsample.vert.glsl": DownsampleVert,
		"downsample.frag.glsl": DownsampleFrag,
		"draw.vert.glsl":       DrawVert,
		"draw.frag.glsl":       DrawFrag,
		"scanout.vert.glsl":    ScanoutVert,
		"scanout.frag.glsl":    ScanoutFrag,
	}
	for name, src := range all {
		if !strings.HasPrefix(src, "#version 460") {
			t.Errorf("%s: missing #version 460 directive", name)
		}
	}
}
