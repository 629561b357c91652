// Copyright 2026 The psxgpu Authors. All rights reserved.

// Package gpu defines a small GPU resource and command abstraction
// covering exactly what a PS1-class 2D rasterizer needs: storage
// images, compute dispatch, a handful of graphics pipeline states
// (blend, scissor, vertex input) and explicit barriers. It has no
// notion of mipmaps, multisampling, 3D view types or depth/stencil
// testing beyond what draw-area clipping and mask-bit checking
// require, because the core this abstraction serves has none of
// those as goals.
//
// A concrete implementation (see gpu/gl) creates the GPU value
// returned by Driver.Open and backs every other interface here.
package gpu

// GPU is the main interface to an underlying driver implementation.
// It is used to create resources and to execute commands. A GPU is
// obtained from a call to Driver.Open.
type GPU interface {
	// Driver returns the Driver that owns the GPU.
	Driver() Driver

	// Commit submits a batch of command buffers for execution and
	// sends the result to ch once every command buffer in cb has
	// completed. Command buffers in cb cannot be recorded into again
	// until then. The order of cb is meaningful: command buffers
	// later in the slice may depend on side effects of earlier ones.
	Commit(cb []CmdBuffer, ch chan<- error)

	// NewCmdBuffer creates a new command buffer.
	NewCmdBuffer() (CmdBuffer, error)

	// NewRenderPass creates a new render pass.
	NewRenderPass(att []Attachment, sub []Subpass) (RenderPass, error)

	// NewShaderCode compiles shader source (GLSL) for use in a
	// programmable pipeline stage.
	NewShaderCode(src string, stage Stage) (ShaderCode, error)

	// NewDescHeap creates a new descriptor heap.
	NewDescHeap(ds []Descriptor) (DescHeap, error)

	// NewDescTable creates a new descriptor table binding a set of
	// descriptor heaps to the shaders of a pipeline.
	NewDescTable(dh []DescHeap) (DescTable, error)

	// NewPipeline creates a new pipeline. state must be a pointer to
	// a GraphState or a pointer to a CompState.
	NewPipeline(state any) (Pipeline, error)

	// NewBuffer creates a new buffer of the given size. A visible
	// buffer's contents can be read/written directly through
	// Buffer.Bytes.
	NewBuffer(size int64, visible bool, usg Usage) (Buffer, error)

	// NewImage creates a new 2D image.
	NewImage(pf PixelFmt, size Dim2D, usg Usage) (Image, error)

	// NewSampler creates a new sampler.
	NewSampler(s Sampling) (Sampler, error)

	// Limits returns implementation limits. They are immutable for
	// the lifetime of the GPU.
	Limits() Limits
}

// Destroyer is implemented by every type that owns GPU-managed memory
// not tracked by the Go garbage collector. Destroy must be called
// explicitly to release it.
type Destroyer interface {
	Destroy()
}

// CmdBuffer records GPU commands for later submission through
// GPU.Commit. Recording is split into logical blocks:
//
// For a render pass:
//  1. BeginPass
//  2. SetPipeline / SetViewport / SetScissor / SetDescTableGraph / ...
//  3. Draw / DrawIndexed
//  4. EndPass
//
// For compute work:
//  1. BeginWork
//  2. SetPipeline / SetDescTableComp
//  3. Dispatch
//  4. EndWork
//
// For data transfer:
//  1. BeginBlit
//  2. Copy*/Fill
//  3. EndBlit
//
// Begin must be called first and End must be called last; Begin*
// blocks must not nest and must be closed with the matching End*
// before another Begin* or the final End.
type CmdBuffer interface {
	Destroyer

	Begin() error
	IsRecording() bool

	BeginPass(pass RenderPass, fb Framebuf, clear []ClearValue)
	EndPass()

	BeginWork()
	EndWork()

	BeginBlit()
	EndBlit()

	SetPipeline(pl Pipeline)
	SetViewport(vp Viewport)
	SetScissor(s Scissor)
	SetVertexBuf(start int, buf []Buffer, off []int64)
	SetIndexBuf(format IndexFmt, buf Buffer, off int64)
	SetDescTableGraph(table DescTable, heapCopy []int)
	SetDescTableComp(table DescTable, heapCopy []int)

	Draw(vertCount, instCount, baseVert int)
	DrawIndexed(idxCount, instCount, baseIdx, vertOff int)
	Dispatch(grpCountX, grpCountY, grpCountZ int)

	CopyBuffer(param *BufferCopy)
	CopyImage(param *ImageCopy)
	CopyBufToImg(param *BufImgCopy)
	CopyImgToBuf(param *BufImgCopy)
	Fill(buf Buffer, off int64, value byte, size int64)

	// Barrier inserts a global memory barrier. core.Core uses this
	// exactly where spec.md's concurrency model (§5) requires one:
	// between a native-VRAM write and a sync pass reading it, between
	// a scaled-VRAM write and a copy refresh reading it, and between
	// a draw and a subsequent downsample/scanout over the same
	// region.
	Barrier(b Barrier)

	End() error
	Reset() error
}

// BufferCopy describes a buffer-to-buffer copy command.
type BufferCopy struct {
	From    Buffer
	FromOff int64
	To      Buffer
	ToOff   int64
	Size    int64
}

// ImageCopy describes an image-to-image copy command. Source and
// destination may alias (VRAM copies are explicitly allowed to
// overlap, per spec.md §4.4) because every shader invocation reads
// its source texel and writes a single, disjoint destination texel.
type ImageCopy struct {
	From    Image
	FromOff Off2D
	To      Image
	ToOff   Off2D
	Size    Dim2D
}

// BufImgCopy describes a copy command between a buffer and an image.
type BufImgCopy struct {
	Buf    Buffer
	BufOff int64
	// Stride is the row length, in pixels, of the buffer-side data.
	Stride int64
	Img    Image
	ImgOff Off2D
	Size   Dim2D
}

// Sync is a synchronization scope used in a Barrier.
type Sync int

const (
	SComputeShading Sync = 1 << iota
	SFragmentShading
	SColorOutput
	SCopy
	SAll
	SNone Sync = 0
)

// Access is a memory access scope used in a Barrier.
type Access int

const (
	AColorRead Access = 1 << iota
	AColorWrite
	AShaderRead
	AShaderWrite
	ACopyRead
	ACopyWrite
	ANone Access = 0
)

// Barrier represents an execution/memory dependency between commands
// recorded before it and commands recorded after it.
type Barrier struct {
	SyncBefore   Sync
	SyncAfter    Sync
	AccessBefore Access
	AccessAfter  Access
}

// LoadOp is an attachment's load operation.
type LoadOp int

const (
	LDontCare LoadOp = iota
	LClear
	LLoad
)

// StoreOp is an attachment's store operation.
type StoreOp int

const (
	SDontCare StoreOp = iota
	SStore
)

// Attachment describes one render target used by a render pass.
type Attachment struct {
	Format PixelFmt
	Load   LoadOp
	Store  StoreOp
}

// Subpass selects which of a render pass' attachments a given
// subpass renders into. Draw pipelines only ever need a single
// subpass; the type is kept (rather than folded into RenderPass) so
// that subtractive semi-transparency's two-pass technique (spec.md
// §4.8) can, if a backend benefits from it, be expressed as two
// subpasses of one render pass instead of two separate passes.
type Subpass struct {
	Color []int
}

// RenderPass is the interface that defines a render pass into which
// draw commands operate.
type RenderPass interface {
	Destroyer

	// NewFB creates a framebuffer whose attachments are iv, in the
	// same order as the render pass' Attachment list.
	NewFB(iv []ImageView, width, height int) (Framebuf, error)
}

// Framebuf is the set of render targets bound for a render pass.
type Framebuf interface {
	Destroyer
}

// ClearValue is the clear color for one attachment.
type ClearValue struct {
	Color [4]float32
}

// ShaderCode is a compiled shader for use in one pipeline stage.
type ShaderCode interface {
	Destroyer
}

// ShaderFunc names an entry point within a shader.
type ShaderFunc struct {
	Code ShaderCode
	Name string
}

// Stage is a mask of programmable shader stages.
type Stage int

const (
	SVertex Stage = 1 << iota
	SFragment
	SCompute
)

// DescType is the type of a descriptor.
type DescType int

const (
	// Read/write storage buffer.
	DBuffer DescType = iota
	// Read/write storage image.
	DImage
	// Small, frequently-updated constant buffer. This is how gpu
	// models "push constants" (see spec.md §6): there is no native
	// push-constant primitive here, because the one backend this
	// module ships, OpenGL, has none either — a uniform buffer
	// bound through a DConstant descriptor plays the same role.
	DConstant
	// Sampled (filtered) texture.
	DTexture
	// Texture sampler.
	DSampler
)

// Descriptor describes one binding slot visible to shaders.
type Descriptor struct {
	Type   DescType
	Stages Stage
	Nr     int
	Len    int
}

// DescHeap is a set of descriptors of possibly several heap copies,
// each independently updatable, for double/triple-buffering small
// per-draw data without stalling the GPU.
type DescHeap interface {
	Destroyer

	// New allocates storage for n heap copies. All copies from a
	// previous call to New are invalidated unless n is unchanged.
	New(n int) error

	SetBuffer(cpy, nr, start int, buf []Buffer, off, size []int64)
	SetImage(cpy, nr, start int, iv []ImageView)
	SetSampler(cpy, nr, start int, splr []Sampler)

	Count() int
}

// DescTable binds a number of descriptor heaps to the shaders of a
// pipeline.
type DescTable interface {
	Destroyer
}

// VertexFmt describes the format of one vertex input.
type VertexFmt int

const (
	Int32x2 VertexFmt = iota
	Int32x4
	UInt8x4
	UInt32
	UInt32x2
	Float32
	Float32x2
	Float32x3
	Float32x4
)

// VertexIn describes a single vertex input buffer binding.
// Interleaved inputs are not supported; each field of a vertex
// record (see core/types.go) that the shader must read is its own
// binding, mirroring how the PS1 draw commands hand the rasterizer a
// loose bag of per-vertex scalars rather than a packed struct.
type VertexIn struct {
	Format VertexFmt
	Stride int
	Nr     int
	Name   string
}

// Topology selects how vertex data is assembled into primitives.
type Topology int

const (
	TTriangle Topology = iota
	TTriStrip
	TLine
)

// IndexFmt describes the format of index buffer data.
type IndexFmt int

const (
	Index16 IndexFmt = 2
	Index32 IndexFmt = 4
)

// Viewport defines the bounds of the viewport.
type Viewport struct {
	X, Y, Width, Height float32
}

// Scissor defines the scissor rectangle. Draw-area clipping
// (spec.md §4.8) is implemented with this, at native or scaled
// resolution depending on Options.Scale.
type Scissor struct {
	X, Y, Width, Height int
}

// BlendOp is a blend operation.
type BlendOp int

const (
	BAdd BlendOp = iota
	BSubtract
	BRevSubtract
)

// BlendFac is a blend factor.
type BlendFac int

const (
	BZero BlendFac = iota
	BOne
	BSrc1Color
	BInvSrc1Color
	BSrc1Alpha
	BInvSrc1Alpha
)

// ColorBlend defines the color blend state used to implement one of
// the four semi-transparency modes in spec.md §4.8. The dual-source
// factors (Src1*) let the fragment shader emit a per-texel blend
// weight as a second color output, which is how "blend applies only
// where the sampled texel's alpha is set, else draw opaquely" is
// expressed without a second pass (except for subtractive, which
// still needs the two-pass technique described in spec.md §4.8).
type ColorBlend struct {
	Blend  bool
	Op     BlendOp
	SrcFac BlendFac
	DstFac BlendFac
}

// GraphState defines a graphics pipeline: its programmable stages,
// fixed-function vertex input and blend state, and the render pass
// it is valid within.
type GraphState struct {
	VertFunc ShaderFunc
	FragFunc ShaderFunc
	Desc     DescTable
	Input    []VertexIn
	Topology Topology
	Blend    ColorBlend
	Pass     RenderPass
	Subpass  int
}

// CompState defines a compute pipeline: a single compute shader and
// the descriptor table describing the resources it can access.
type CompState struct {
	Func ShaderFunc
	Desc DescTable
}

// Pipeline is a compiled graphics or compute pipeline.
type Pipeline interface {
	Destroyer
}

// Usage is a mask of valid uses for a Buffer or Image.
type Usage int

const (
	UShaderRead Usage = 1 << iota
	UShaderWrite
	UShaderConst
	UShaderSample
	UVertexData
	UIndexData
	URenderTarget
	UGeneric Usage = 1<<iota - 1
)

// Buffer is a GPU buffer of fixed size.
type Buffer interface {
	Destroyer

	// Visible reports whether the buffer is host-visible.
	Visible() bool

	// Bytes returns a slice over the buffer's storage, valid for the
	// buffer's lifetime. It is nil for non-visible buffers.
	Bytes() []byte

	// Cap returns the buffer's capacity in bytes.
	Cap() int64
}

// PixelFmt describes a pixel format.
type PixelFmt int

const (
	// RGBA8Unorm is the Scaled VRAM / Scaled VRAM copy format
	// (spec.md §3): 8 bits per channel, mask bit carried in alpha.
	RGBA8Unorm PixelFmt = iota
	// R32Uint is the Native VRAM format (spec.md §3): a single
	// 32-bit unsigned channel per texel, of which only the low 16
	// bits (RGB555 + mask bit) are ever written.
	R32Uint
)

// Dim2D is a two-dimensional size, in pixels.
type Dim2D struct{ Width, Height int }

// Off2D is a two-dimensional pixel offset.
type Off2D struct{ X, Y int }

// Image is a GPU image (2D only; no mipmaps, no multisampling, no
// array/cube layers — none of this core's components need them).
type Image interface {
	Destroyer

	// NewView creates a typed view of the image for use as a render
	// target, storage image or sampled texture.
	NewView() (ImageView, error)
}

// ImageView is a view of an Image.
type ImageView interface {
	Destroyer
}

// Filter is a sampler filter.
type Filter int

const (
	FNearest Filter = iota
	FLinear
)

// AddrMode is a sampler address mode. Native VRAM coordinates wrap
// (spec.md §3, "VRAM is toroidal"); the shaders apply that wrap to
// their coordinates themselves, and the one sampler core.Core
// creates (the downsample pass's) uses AClamp.
type AddrMode int

const (
	AWrap AddrMode = iota
	AClamp
)

// Sampler is an image sampler.
type Sampler interface {
	Destroyer
}

// Sampling describes sampler state.
type Sampling struct {
	Min, Mag Filter
	AddrU    AddrMode
	AddrV    AddrMode
}

// Limits describes implementation limits, immutable for the lifetime
// of a GPU.
type Limits struct {
	MaxImage2D        int
	MaxDescHeaps      int
	MaxDBuffer        int
	MaxDImage         int
	MaxDConstant      int
	MaxDTexture       int
	MaxDSampler       int
	MaxDBufferRange   int64
	MaxDConstantRange int64
	MaxColorTargets   int
	MaxViewports      int
	MaxVertexIn       int
	MaxDispatch       [3]int
	// DualSourceBlend reports whether the backend can bind a second
	// color output to a blend factor (Src1*). draw pipelines that
	// need per-texel blend selection (spec.md §4.8) require this;
	// ConfigurationError is raised at Core construction if it is
	// false (spec.md §7).
	DualSourceBlend bool
	// MaxConstantSize is the largest per-draw constant block (the
	// push-constant-equivalent DConstant descriptor) the backend
	// supports, in bytes. spec.md §7 requires at least 64.
	MaxConstantSize int64
}
