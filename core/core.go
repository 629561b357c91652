// Copyright 2026 The psxgpu Authors. All rights reserved.

// Package core implements the host-side PS1 GPU driver (spec.md §2,
// §5): the single type Core sequences VRAM operations and draws
// against the gpu abstraction and a vram.Store, handling dirty-rect
// sync/downsample, mask-bit policy and the texpage/CLUT batching
// heuristic described in SPEC_FULL.md §4.10.
package core

import (
	"fmt"

	"github.com/vramcore/psxgpu/gpu"
	"github.com/vramcore/psxgpu/shaders"
	"github.com/vramcore/psxgpu/vram"
)

const prefix = "core: "

// minConstantSize is the smallest per-draw constant block size
// spec.md §7 requires a backend to support.
const minConstantSize = 64

// constBufSize is big enough for every constants struct in
// core/types.go; one buffer of this size is allocated per pipeline
// and rewritten in place before each use, rather than reallocated.
const constBufSize = 64

// computeOp bundles the resources one compute-shader operation needs:
// its compiled code, a single-copy descriptor heap/table bound once
// at construction, its constant buffer (rewritten per dispatch) and
// its pipeline. Every VRAM op (fill, CPU<->VRAM, VRAM copy) is one of
// these.
type computeOp struct {
	code     gpu.ShaderCode
	heap     gpu.DescHeap
	table    gpu.DescTable
	pl       gpu.Pipeline
	constBuf gpu.Buffer
}

func (c *computeOp) destroy() {
	c.pl.Destroy()
	c.table.Destroy()
	c.constBuf.Destroy()
	c.heap.Destroy()
	c.code.Destroy()
}

// fullscreenPass bundles a render-pass/graphics-pipeline pair used by
// the sync, downsample and scanout full-screen-quad passes.
type fullscreenPass struct {
	vertCode gpu.ShaderCode
	fragCode gpu.ShaderCode
	heap     gpu.DescHeap
	table    gpu.DescTable
	pass     gpu.RenderPass
	fb       gpu.Framebuf
	pl       gpu.Pipeline
	constBuf gpu.Buffer
	fragConstBuf gpu.Buffer
}

func (p *fullscreenPass) destroy() {
	p.pl.Destroy()
	p.fb.Destroy()
	p.pass.Destroy()
	p.fragConstBuf.Destroy()
	p.constBuf.Destroy()
	p.table.Destroy()
	p.heap.Destroy()
	p.fragCode.Destroy()
	p.vertCode.Destroy()
}

// drawPass bundles one draw pipeline variant (spec.md §4.8's four
// blend modes, plus the opaque case; subtractive additionally reuses
// the opaque pipeline for its first pass, see recordTriangles).
type drawPass struct {
	heap     gpu.DescHeap
	table    gpu.DescTable
	pl       gpu.Pipeline
	constBuf gpu.Buffer
}

func (p *drawPass) destroy() {
	p.pl.Destroy()
	p.table.Destroy()
	p.constBuf.Destroy()
	p.heap.Destroy()
}

// Core is the PS1 GPU core driver. It owns a vram.Store and every GPU
// pipeline the component operations in spec.md §4 need, and exposes
// the external interface listed in spec.md §6 (see api.go).
type Core struct {
	g    gpu.GPU
	opts Options

	store   *vram.Store
	staging *stagingPool
	batch   *batcher

	fillOp           computeOp
	cpuToVramOp      computeOp
	vramToCpuOp      computeOp
	vramCopyOp       computeOp
	vramCopyScaledOp computeOp

	sync              fullscreenPass
	downsample        fullscreenPass
	downsampleSampler gpu.Sampler
	scanout           fullscreenPass

	vertCode   gpu.ShaderCode
	fragCode   gpu.ShaderCode
	drawPass   gpu.RenderPass
	drawFB     gpu.Framebuf
	draws      map[BlendMode]drawPass
	drawOpaque drawPass
	lineOpaque drawPass
	lineBlend  drawPass

	drawMode     DrawMode
	windowMask   [2]uint8
	windowOffset [2]uint8

	display struct {
		framePos [2]int
		rect     DisplayRect
		bpp      BitDepth
	}
}

// New creates a Core bound to g, with the given options. It validates
// the configuration checks from spec.md §7 against g.Limits() before
// creating any GPU resource.
func New(g gpu.GPU, opts Options) (*Core, error) {
	if opts.Scale < 1 || opts.Scale > vram.MaxScale {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("resolution scale %d out of range [1,%d]", opts.Scale, vram.MaxScale)}
	}

	lim := g.Limits()
	if !lim.DualSourceBlend {
		return nil, &ConfigurationError{Reason: "backend does not support dual-source blending, required for semi-transparency"}
	}
	if lim.MaxDImage < 1 {
		return nil, &ConfigurationError{Reason: "backend has no storage image units, required for Native VRAM read/write"}
	}
	if lim.MaxConstantSize < minConstantSize {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("backend's max constant block is %d bytes, need at least %d", lim.MaxConstantSize, minConstantSize)}
	}

	store, err := vram.New(g, opts.Scale)
	if err != nil {
		return nil, fmt.Errorf("%s%w", prefix, err)
	}

	staging, err := newStagingPool(g)
	if err != nil {
		store.Destroy()
		return nil, fmt.Errorf("%sstaging pool: %w", prefix, err)
	}

	batch, err := newBatcher(g)
	if err != nil {
		staging.destroy()
		store.Destroy()
		return nil, fmt.Errorf("%sbatcher: %w", prefix, err)
	}

	c := &Core{g: g, opts: opts, store: store, staging: staging, batch: batch}

	if err := c.buildComputeOps(); err != nil {
		c.Close()
		return nil, fmt.Errorf("%scompute pipelines: %w", prefix, err)
	}
	if err := c.buildFullscreenPasses(); err != nil {
		c.Close()
		return nil, fmt.Errorf("%sfullscreen passes: %w", prefix, err)
	}
	if err := c.buildDrawPipelines(); err != nil {
		c.Close()
		return nil, fmt.Errorf("%sdraw pipelines: %w", prefix, err)
	}

	return c, nil
}

func newConstBuf(g gpu.GPU) (gpu.Buffer, error) {
	return g.NewBuffer(constBufSize, true, gpu.UShaderConst)
}

// newComputeOp compiles src, builds its descriptor heap/table/pipeline
// and allocates its constant buffer. bind is called once, after the
// heap exists, to attach every stable resource (storage images,
// buffers) the shader needs besides its constant block; newComputeOp
// binds the constant buffer itself at the last descriptor (constNr).
func newComputeOp(g gpu.GPU, src string, descs []gpu.Descriptor, constNr int, bind func(h gpu.DescHeap) error) (computeOp, error) {
	var op computeOp
	code, err := g.NewShaderCode(src, gpu.SCompute)
	if err != nil {
		return op, err
	}
	heap, err := g.NewDescHeap(descs)
	if err != nil {
		code.Destroy()
		return op, err
	}
	if err := heap.New(1); err != nil {
		heap.Destroy()
		code.Destroy()
		return op, err
	}
	constBuf, err := newConstBuf(g)
	if err != nil {
		heap.Destroy()
		code.Destroy()
		return op, err
	}
	heap.SetBuffer(0, constNr, 0, []gpu.Buffer{constBuf}, []int64{0}, []int64{constBufSize})
	if bind != nil {
		if err := bind(heap); err != nil {
			constBuf.Destroy()
			heap.Destroy()
			code.Destroy()
			return op, err
		}
	}
	table, err := g.NewDescTable([]gpu.DescHeap{heap})
	if err != nil {
		constBuf.Destroy()
		heap.Destroy()
		code.Destroy()
		return op, err
	}
	pl, err := g.NewPipeline(&gpu.CompState{
		Func: gpu.ShaderFunc{Code: code, Name: "main"},
		Desc: table,
	})
	if err != nil {
		table.Destroy()
		constBuf.Destroy()
		heap.Destroy()
		code.Destroy()
		return op, err
	}
	return computeOp{code: code, heap: heap, table: table, pl: pl, constBuf: constBuf}, nil
}

func (c *Core) buildComputeOps() error {
	var err error
	_, nativeView := c.store.Native()
	_, scaledView := c.store.Scaled()

	c.fillOp, err = newComputeOp(c.g, shaders.Fill, []gpu.Descriptor{
		{Type: gpu.DImage, Stages: gpu.SCompute, Nr: 0, Len: 1},
		{Type: gpu.DConstant, Stages: gpu.SCompute, Nr: 1, Len: 1},
	}, 1, func(h gpu.DescHeap) error {
		h.SetImage(0, 0, 0, []gpu.ImageView{nativeView})
		return nil
	})
	if err != nil {
		return fmt.Errorf("fill: %w", err)
	}

	c.cpuToVramOp, err = newComputeOp(c.g, shaders.CPUToVRAM, []gpu.Descriptor{
		{Type: gpu.DBuffer, Stages: gpu.SCompute, Nr: 0, Len: 1},
		{Type: gpu.DImage, Stages: gpu.SCompute, Nr: 1, Len: 1},
		{Type: gpu.DConstant, Stages: gpu.SCompute, Nr: 2, Len: 1},
	}, 2, func(h gpu.DescHeap) error {
		h.SetImage(0, 1, 0, []gpu.ImageView{nativeView})
		return nil
	})
	if err != nil {
		return fmt.Errorf("cpu_to_vram: %w", err)
	}

	c.vramToCpuOp, err = newComputeOp(c.g, shaders.VRAMToCPU, []gpu.Descriptor{
		{Type: gpu.DImage, Stages: gpu.SCompute, Nr: 0, Len: 1},
		{Type: gpu.DBuffer, Stages: gpu.SCompute, Nr: 1, Len: 1},
		{Type: gpu.DConstant, Stages: gpu.SCompute, Nr: 2, Len: 1},
	}, 2, func(h gpu.DescHeap) error {
		h.SetImage(0, 0, 0, []gpu.ImageView{nativeView})
		return nil
	})
	if err != nil {
		return fmt.Errorf("vram_to_cpu: %w", err)
	}

	c.vramCopyOp, err = newComputeOp(c.g, shaders.VRAMCopy, []gpu.Descriptor{
		{Type: gpu.DImage, Stages: gpu.SCompute, Nr: 0, Len: 1},
		{Type: gpu.DConstant, Stages: gpu.SCompute, Nr: 1, Len: 1},
	}, 1, func(h gpu.DescHeap) error {
		h.SetImage(0, 0, 0, []gpu.ImageView{nativeView})
		return nil
	})
	if err != nil {
		return fmt.Errorf("vram_copy: %w", err)
	}

	c.vramCopyScaledOp, err = newComputeOp(c.g, shaders.VRAMCopyScaled, []gpu.Descriptor{
		{Type: gpu.DImage, Stages: gpu.SCompute, Nr: 0, Len: 1},
		{Type: gpu.DConstant, Stages: gpu.SCompute, Nr: 1, Len: 1},
	}, 1, func(h gpu.DescHeap) error {
		h.SetImage(0, 0, 0, []gpu.ImageView{scaledView})
		return nil
	})
	if err != nil {
		return fmt.Errorf("vram_copy_scaled: %w", err)
	}

	return nil
}

func newFullscreenPass(g gpu.GPU, vertSrc, fragSrc string, descs []gpu.Descriptor, pf gpu.PixelFmt, fbView gpu.ImageView, fbWidth, fbHeight int, bind func(h gpu.DescHeap, vertConst, fragConst gpu.Buffer) error) (fullscreenPass, error) {
	var p fullscreenPass
	var err error

	p.vertCode, err = g.NewShaderCode(vertSrc, gpu.SVertex)
	if err != nil {
		return p, err
	}
	p.fragCode, err = g.NewShaderCode(fragSrc, gpu.SFragment)
	if err != nil {
		p.vertCode.Destroy()
		return p, err
	}
	p.heap, err = g.NewDescHeap(descs)
	if err != nil {
		p.fragCode.Destroy()
		p.vertCode.Destroy()
		return p, err
	}
	if err := p.heap.New(1); err != nil {
		p.heap.Destroy()
		p.fragCode.Destroy()
		p.vertCode.Destroy()
		return p, err
	}
	p.constBuf, err = newConstBuf(g)
	if err != nil {
		p.heap.Destroy()
		p.fragCode.Destroy()
		p.vertCode.Destroy()
		return p, err
	}
	p.fragConstBuf, err = newConstBuf(g)
	if err != nil {
		p.constBuf.Destroy()
		p.heap.Destroy()
		p.fragCode.Destroy()
		p.vertCode.Destroy()
		return p, err
	}
	p.heap.SetBuffer(0, 0, 0, []gpu.Buffer{p.constBuf}, []int64{0}, []int64{constBufSize})
	p.heap.SetBuffer(0, 2, 0, []gpu.Buffer{p.fragConstBuf}, []int64{0}, []int64{constBufSize})
	if bind != nil {
		if err := bind(p.heap, p.constBuf, p.fragConstBuf); err != nil {
			p.fragConstBuf.Destroy()
			p.constBuf.Destroy()
			p.heap.Destroy()
			p.fragCode.Destroy()
			p.vertCode.Destroy()
			return p, err
		}
	}
	p.table, err = g.NewDescTable([]gpu.DescHeap{p.heap})
	if err != nil {
		p.fragConstBuf.Destroy()
		p.constBuf.Destroy()
		p.heap.Destroy()
		p.fragCode.Destroy()
		p.vertCode.Destroy()
		return p, err
	}
	p.pass, err = g.NewRenderPass(
		[]gpu.Attachment{{Format: pf, Load: gpu.LLoad, Store: gpu.SStore}},
		[]gpu.Subpass{{Color: []int{0}}},
	)
	if err != nil {
		p.table.Destroy()
		p.fragConstBuf.Destroy()
		p.constBuf.Destroy()
		p.heap.Destroy()
		p.fragCode.Destroy()
		p.vertCode.Destroy()
		return p, err
	}
	p.pl, err = g.NewPipeline(&gpu.GraphState{
		VertFunc: gpu.ShaderFunc{Code: p.vertCode, Name: "main"},
		FragFunc: gpu.ShaderFunc{Code: p.fragCode, Name: "main"},
		Desc:     p.table,
		Topology: gpu.TTriangle,
		Pass:     p.pass,
	})
	if err != nil {
		p.pass.Destroy()
		p.table.Destroy()
		p.fragConstBuf.Destroy()
		p.constBuf.Destroy()
		p.heap.Destroy()
		p.fragCode.Destroy()
		p.vertCode.Destroy()
		return p, err
	}
	p.fb, err = p.pass.NewFB([]gpu.ImageView{fbView}, fbWidth, fbHeight)
	if err != nil {
		p.pl.Destroy()
		p.pass.Destroy()
		p.table.Destroy()
		p.fragConstBuf.Destroy()
		p.constBuf.Destroy()
		p.heap.Destroy()
		p.fragCode.Destroy()
		p.vertCode.Destroy()
		return p, err
	}
	return p, nil
}

func (c *Core) buildFullscreenPasses() error {
	var err error
	_, nativeView := c.store.Native()
	_, scaledView := c.store.Scaled()
	_, scaledCopyView := c.store.ScaledCopy()
	sw, sh := c.store.ScaledSize()

	c.sync, err = newFullscreenPass(c.g, shaders.SyncVert, shaders.SyncFrag, []gpu.Descriptor{
		{Type: gpu.DConstant, Stages: gpu.SVertex, Nr: 0, Len: 1},
		{Type: gpu.DImage, Stages: gpu.SFragment, Nr: 1, Len: 1},
		{Type: gpu.DConstant, Stages: gpu.SFragment, Nr: 2, Len: 1},
	}, gpu.RGBA8Unorm, scaledView, sw, sh, func(h gpu.DescHeap, _, _ gpu.Buffer) error {
		h.SetImage(0, 1, 0, []gpu.ImageView{nativeView})
		return nil
	})
	if err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	c.downsample, err = newFullscreenPass(c.g, shaders.DownsampleVert, shaders.DownsampleFrag, []gpu.Descriptor{
		{Type: gpu.DConstant, Stages: gpu.SVertex, Nr: 0, Len: 1},
		{Type: gpu.DTexture, Stages: gpu.SFragment, Nr: 0, Len: 1},
		{Type: gpu.DSampler, Stages: gpu.SFragment, Nr: 0, Len: 1},
		{Type: gpu.DImage, Stages: gpu.SFragment, Nr: 1, Len: 1},
		{Type: gpu.DConstant, Stages: gpu.SFragment, Nr: 2, Len: 1},
	}, gpu.R32Uint, nativeView, vram.NativeWidth, vram.NativeHeight, func(h gpu.DescHeap, _, _ gpu.Buffer) error {
		smp, err := c.g.NewSampler(gpu.Sampling{Min: gpu.FNearest, Mag: gpu.FNearest, AddrU: gpu.AClamp, AddrV: gpu.AClamp})
		if err != nil {
			return err
		}
		c.downsampleSampler = smp
		h.SetImage(0, 0, 0, []gpu.ImageView{scaledCopyView})
		h.SetSampler(0, 0, 0, []gpu.Sampler{smp})
		h.SetImage(0, 1, 0, []gpu.ImageView{nativeView})
		return nil
	})
	if err != nil {
		return fmt.Errorf("downsample: %w", err)
	}

	// scanout's own framebuffer is built per-call in PresentFrame
	// (the target size follows the configured display rectangle, not
	// a fixed VRAM dimension); bind scaledView here only to satisfy
	// pipeline construction, which needs a compatible render pass.
	c.scanout, err = newFullscreenPass(c.g, shaders.ScanoutVert, shaders.ScanoutFrag, []gpu.Descriptor{
		{Type: gpu.DConstant, Stages: gpu.SVertex, Nr: 0, Len: 1},
		{Type: gpu.DImage, Stages: gpu.SFragment, Nr: 1, Len: 1},
		{Type: gpu.DConstant, Stages: gpu.SFragment, Nr: 2, Len: 1},
	}, gpu.RGBA8Unorm, scaledView, sw, sh, func(h gpu.DescHeap, _, _ gpu.Buffer) error {
		h.SetImage(0, 1, 0, []gpu.ImageView{nativeView})
		return nil
	})
	if err != nil {
		return fmt.Errorf("scanout: %w", err)
	}

	return nil
}

// drawVertexInput is the non-interleaved vertex layout every draw
// pipeline shares (spec.md §4.8's vertex records, laid out field by
// field per gpu.VertexIn's doc comment).
func drawVertexInput() []gpu.VertexIn {
	return []gpu.VertexIn{
		{Format: gpu.Int32x2, Stride: 8, Nr: 1, Name: "inPos"},
		{Format: gpu.Float32x4, Stride: 16, Nr: 1, Name: "inColor"},
		{Format: gpu.Int32x2, Stride: 8, Nr: 1, Name: "inUV"},
		{Format: gpu.Int32x2, Stride: 8, Nr: 1, Name: "inTexpageBase"},
		{Format: gpu.UInt8x4, Stride: 4, Nr: 1, Name: "inWindowMask"},
		{Format: gpu.UInt8x4, Stride: 4, Nr: 1, Name: "inWindowOffset"},
		{Format: gpu.Int32x2, Stride: 8, Nr: 1, Name: "inClutBase"},
		{Format: gpu.UInt32, Stride: 4, Nr: 1, Name: "inFlags"},
		{Format: gpu.Int32x4, Stride: 16, Nr: 1, Name: "inOtherPos"},
	}
}

// blendState returns the fixed-function blend state for BlendMode m.
// Average, Additive and QuarterAdditive share one form: the fragment
// shader (shaders/draw.frag.glsl) emits the exact per-fragment
// SrcFac/DstFac pair as its dual-source output (oBlendWeight.rgb is
// SrcFac via gpu.BSrc1Color, .a is DstFac via gpu.BSrc1Alpha), chosen
// so an un-set per-texel mask bit always reduces to a plain overwrite
// and a set one reduces to core/texmath.go's Blend formula for m.
// Subtractive can't be expressed that way (it needs dst to be
// attenuated by 1 and src added back with a negative sign only for
// the blended texels) so it keeps the two-pass technique spec.md
// §4.8 describes: recordTriangles records every triangle once with
// the opaque pipeline and once with this reversed-subtract pipeline,
// with the fragment shader's discard (gated by the push constant
// BlendPass) choosing which texels each pass actually writes.
func blendState(m BlendMode, enabled bool) gpu.ColorBlend {
	if !enabled {
		return gpu.ColorBlend{Blend: false}
	}
	switch m {
	case BlendSubtractive:
		return gpu.ColorBlend{Blend: true, Op: gpu.BRevSubtract, SrcFac: gpu.BOne, DstFac: gpu.BOne}
	default:
		return gpu.ColorBlend{Blend: true, Op: gpu.BAdd, SrcFac: gpu.BSrc1Color, DstFac: gpu.BSrc1Alpha}
	}
}

func newDrawPass(g gpu.GPU, vertFunc, fragFunc gpu.ShaderFunc, pass gpu.RenderPass, blend gpu.ColorBlend, nativeView gpu.ImageView, topology gpu.Topology) (drawPass, error) {
	var dp drawPass
	descs := []gpu.Descriptor{
		{Type: gpu.DConstant, Stages: gpu.SVertex | gpu.SFragment, Nr: 0, Len: 1},
		{Type: gpu.DImage, Stages: gpu.SFragment, Nr: 1, Len: 1},
	}
	var err error
	dp.heap, err = g.NewDescHeap(descs)
	if err != nil {
		return dp, err
	}
	if err := dp.heap.New(1); err != nil {
		dp.heap.Destroy()
		return dp, err
	}
	dp.constBuf, err = newConstBuf(g)
	if err != nil {
		dp.heap.Destroy()
		return dp, err
	}
	dp.heap.SetBuffer(0, 0, 0, []gpu.Buffer{dp.constBuf}, []int64{0}, []int64{constBufSize})
	dp.heap.SetImage(0, 1, 0, []gpu.ImageView{nativeView})
	dp.table, err = g.NewDescTable([]gpu.DescHeap{dp.heap})
	if err != nil {
		dp.constBuf.Destroy()
		dp.heap.Destroy()
		return dp, err
	}
	dp.pl, err = g.NewPipeline(&gpu.GraphState{
		VertFunc: vertFunc,
		FragFunc: fragFunc,
		Desc:     dp.table,
		Input:    drawVertexInput(),
		Topology: topology,
		Blend:    blend,
		Pass:     pass,
	})
	if err != nil {
		dp.table.Destroy()
		dp.constBuf.Destroy()
		dp.heap.Destroy()
		return dp, err
	}
	return dp, nil
}

func (c *Core) buildDrawPipelines() error {
	var err error
	_, nativeView := c.store.Native()

	c.vertCode, err = c.g.NewShaderCode(shaders.DrawVert, gpu.SVertex)
	if err != nil {
		return fmt.Errorf("draw vert: %w", err)
	}
	c.fragCode, err = c.g.NewShaderCode(shaders.DrawFrag, gpu.SFragment)
	if err != nil {
		return fmt.Errorf("draw frag: %w", err)
	}
	c.drawPass, err = c.g.NewRenderPass(
		[]gpu.Attachment{{Format: gpu.RGBA8Unorm, Load: gpu.LLoad, Store: gpu.SStore}},
		[]gpu.Subpass{{Color: []int{0}}},
	)
	if err != nil {
		return fmt.Errorf("draw render pass: %w", err)
	}

	vf := gpu.ShaderFunc{Code: c.vertCode, Name: "main"}
	ff := gpu.ShaderFunc{Code: c.fragCode, Name: "main"}

	c.drawOpaque, err = newDrawPass(c.g, vf, ff, c.drawPass, blendState(0, false), nativeView, gpu.TTriangle)
	if err != nil {
		return fmt.Errorf("draw opaque: %w", err)
	}

	c.draws = make(map[BlendMode]drawPass, 4)
	for _, m := range []BlendMode{BlendAverage, BlendAdditive, BlendSubtractive, BlendQuarterAdditive} {
		dp, err := newDrawPass(c.g, vf, ff, c.drawPass, blendState(m, true), nativeView, gpu.TTriangle)
		if err != nil {
			return fmt.Errorf("draw blend %d: %w", m, err)
		}
		c.draws[m] = dp
	}

	// DrawLine needs its own fixed-topology pipelines (gpu.Pipeline
	// bakes Topology in); lines are always untextured (spec.md §4.8),
	// so they only ever use the opaque or average-blend variant.
	c.lineOpaque, err = newDrawPass(c.g, vf, ff, c.drawPass, blendState(0, false), nativeView, gpu.TLine)
	if err != nil {
		return fmt.Errorf("line opaque: %w", err)
	}
	c.lineBlend, err = newDrawPass(c.g, vf, ff, c.drawPass, blendState(BlendAverage, true), nativeView, gpu.TLine)
	if err != nil {
		return fmt.Errorf("line blend: %w", err)
	}
	return nil
}

// Close releases every GPU resource the Core owns. The Core must not
// be used afterward.
func (c *Core) Close() {
	if c.batch != nil {
		c.batch.flush(c)
		c.batch.destroy()
	}
	for _, dp := range c.draws {
		dp.destroy()
	}
	if c.lineBlend.pl != nil {
		c.lineBlend.destroy()
	}
	if c.lineOpaque.pl != nil {
		c.lineOpaque.destroy()
	}
	if c.drawOpaque.pl != nil {
		c.drawOpaque.destroy()
	}
	if c.drawFB != nil {
		c.drawFB.Destroy()
	}
	if c.drawPass != nil {
		c.drawPass.Destroy()
	}
	if c.fragCode != nil {
		c.fragCode.Destroy()
	}
	if c.vertCode != nil {
		c.vertCode.Destroy()
	}
	if c.scanout.pl != nil {
		c.scanout.destroy()
	}
	if c.downsample.pl != nil {
		c.downsample.destroy()
	}
	if c.downsampleSampler != nil {
		c.downsampleSampler.Destroy()
	}
	if c.sync.pl != nil {
		c.sync.destroy()
	}
	if c.vramCopyScaledOp.pl != nil {
		c.vramCopyScaledOp.destroy()
	}
	if c.vramCopyOp.pl != nil {
		c.vramCopyOp.destroy()
	}
	if c.vramToCpuOp.pl != nil {
		c.vramToCpuOp.destroy()
	}
	if c.cpuToVramOp.pl != nil {
		c.cpuToVramOp.destroy()
	}
	if c.fillOp.pl != nil {
		c.fillOp.destroy()
	}
	if c.staging != nil {
		c.staging.destroy()
	}
	if c.store != nil {
		c.store.Destroy()
	}
}
