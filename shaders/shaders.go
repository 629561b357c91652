// Copyright 2026 The psxgpu Authors. All rights reserved.

// Package shaders embeds the GLSL source for every compute and
// graphics pipeline core uses, compiled through gpu.GPU.NewShaderCode
// at Core construction (core/core.go).
package shaders

import _ "embed"

//go:embed fill.comp.glsl
var Fill string

//go:embed cpu_to_vram.comp.glsl
var CPUToVRAM string

//go:embed vram_to_cpu.comp.glsl
var VRAMToCPU string

//go:embed vram_copy.comp.glsl
var VRAMCopy string

//go:embed vram_copy_scaled.comp.glsl
var VRAMCopyScaled string

//go:embed sync.vert.glsl
var SyncVert string

//go:embed sync.frag.glsl
var SyncFrag string

//go:embed downsample.vert.glsl
var DownsampleVert string

//go:embed downsample.frag.glsl
var DownsampleFrag string

//go:embed draw.vert.glsl
var DrawVert string

//go:embed draw.frag.glsl
var DrawFrag string

//go:embed scanout.vert.glsl
var ScanoutVert string

//go:embed scanout.frag.glsl
var ScanoutFrag string
