// Copyright 2026 The psxgpu Authors. All rights reserved.

package core

// Vec2 is an integer VRAM-space (or display-space) 2D point.
type Vec2 struct{ X, Y int32 }

// Color is an 8-bit RGB triple, as decoded from a GP0 color word.
type Color struct{ R, G, B uint8 }

// ColorDepth is a textured primitive's source color depth (spec.md
// §3, vertex records "flags word bits 0-1").
type ColorDepth uint8

const (
	Depth4bpp ColorDepth = iota
	Depth8bpp
	Depth15bpp
)

// BitDepth selects the scanout format for PresentFrame (spec.md §6,
// DisplayConfig's bpp).
type BitDepth int

const (
	Bpp15 BitDepth = iota
	Bpp24
)

// UntexturedVertex is spec.md §3's untextured vertex record: integer
// VRAM position, 8-bit RGB, ditherable flag.
type UntexturedVertex struct {
	Pos       Vec2
	Col       Color
	Ditherable bool
}

// TexturedVertex is spec.md §3's textured (triangle) vertex record.
// OtherPos/OtherUV carry the other two triangle vertices' integer
// positions and UVs. Only OtherPos is uploaded: the vertex shader
// uses it for the triangle's signed area, which folds the UV round
// direction (spec.md §4.8); OtherUV is not read by any shader, since
// the fragment shader takes UV derivatives from dFdx/dFdy.
type TexturedVertex struct {
	Pos Vec2
	Col Color
	UV  [2]uint8

	TexpageBase [2]int32

	// Texture window mask/offset, 8-bit granularity (spec.md §3).
	WindowMask   [2]uint8
	WindowOffset [2]uint8

	ClutBase Vec2

	Depth      ColorDepth
	Modulated  bool
	Ditherable bool

	// The other two vertices of the containing triangle, for UV
	// round-direction computation. DrawTriangle and DrawRectangle fill
	// these in themselves (withOthers in core/api.go).
	OtherPos [2]Vec2
	OtherUV  [2][2]uint8
}

// DrawMode is the state set by SetDrawMode / SetTextureWindow /
// SetDrawArea (spec.md §6): sticky GPU state that applies to
// subsequent draws until changed again.
type DrawMode struct {
	Texpage      [2]int32
	Blend        BlendKind
	Dither       bool
	ForceMask    bool
	WindowMask   [2]uint8
	WindowOffset [2]uint8
	DrawAreaTL   Vec2
	DrawAreaBR   Vec2
}

// BlendKind is the primitive-level semi-transparency selector: either
// "opaque" (no blending) or one of the four blend functions in
// BlendMode.
type BlendKind struct {
	Enabled bool
	Mode    BlendMode
}

// DisplayRect is the display rectangle from spec.md §4.9 / §6:
// DisplayConfig's (start, offset, end) triple, in display-pixel
// space.
type DisplayRect struct {
	Start, Offset, End Vec2
}

// Options configures a Core at construction (spec.md §3, the parts of
// "Draw settings" that are set once rather than per draw: resolution
// scale, high-color flag, perspective-texture-mapping flag).
type Options struct {
	// Scale is the resolution scale S in [1,16] (spec.md §3).
	Scale int
	// HighColor disables the 5-bit-per-channel quantization that
	// otherwise applies to every draw's output after the dither step
	// (spec.md §4.8, "Dithering") and changes 15-bit color decoding from
	// <<3 to /31 (spec.md §4.8, "Color decoding").
	HighColor bool
	// PerspectiveTextureMapping enables the optional external
	// precision geometry pipeline's corrected UVs; when false, UVs
	// are affine as supplied (spec.md §1, Non-goals).
	PerspectiveTextureMapping bool
}

// drawConstants is the push-constant-equivalent ABI for draw
// pipelines (spec.md §6): four-byte fields, in declaration order.
// BlendEnabled/BlendMode/BlendPass drive shaders/draw.frag.glsl's
// per-fragment blend-factor selection (spec.md §4.8, "Semi-
// transparency"); BlendPass only matters when BlendMode is
// BlendSubtractive, selecting which of the two passes is recording.
type drawConstants struct {
	ForceMaskBit              uint32
	ResolutionScale           uint32
	HighColor                 uint32
	Dithering                 uint32
	PerspectiveTextureMapping uint32
	BlendEnabled              uint32
	BlendMode                 uint32
	BlendPass                 uint32
}

// vramOpConstants names every field the VRAM-op compute shaders'
// constant blocks draw from (spec.md §6): four-byte fields. The
// struct itself is not packed: each shaders/*.comp.glsl declares its
// own Params block holding only the fields that op uses, in this
// relative order (FillRect's block is destination, size, Color15;
// VramToCpu's is source, size), and core/api.go packs each block to
// that shader's layout.
type vramOpConstants struct {
	SourceX, SourceY           uint32
	DestinationX, DestinationY uint32
	SizeX, SizeY               uint32
	ForceMask                  uint32
	CheckMask                  uint32
	ResolutionScale            uint32
	Color15                    uint32
}
