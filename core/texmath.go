// Copyright 2026 The psxgpu Authors. All rights reserved.

package core

import "github.com/chewxy/math32"

// This file is the single source of truth for the per-pixel formulas
// spec.md §4.8 describes. shaders/draw.frag.glsl implements the same
// formulas in GLSL; shaders/shaders_test.go checks the GLSL text for
// the constants defined here so the two can't quietly diverge.

// WrapCoord returns v modulo m, in [0, m).
func WrapCoord(v, m int) int {
	v %= m
	if v < 0 {
		v += m
	}
	return v
}

// ApplyTextureWindow implements spec.md §4.8's "Texture window":
//
//	UV' = (UV & ~mask) | (offset & mask)
//
// per axis, all fields 8-bit. It is idempotent: applying it twice
// with the same mask/offset yields the same result as applying it
// once (spec.md §8, property 4), because the masked bits of UV are
// discarded before offset is merged in.
func ApplyTextureWindow(uv, mask, offset [2]uint8) [2]uint8 {
	return [2]uint8{
		(uv[0] &^ mask[0]) | (offset[0] & mask[0]),
		(uv[1] &^ mask[1]) | (offset[1] & mask[1]),
	}
}

// ModulationScale is the PS1's 8.8-fixed-point-derived texel*color
// multiplier (spec.md §4.8, "Modulation"): 1.9921875 = 255/128, which
// allows colors above 128 to "overbright" the texel while 0.5*0.5
// round-trips to the unmodified texel to within 8-bit truncation
// (spec.md §8, property 5).
const ModulationScale = 1.9921875

// Modulate implements spec.md §4.8's "Modulation": the sampled RGB is
// combined with the per-vertex/fragment RGB as
//
//	floor(texel * 1.9921875 * color * 255) / 255
//
// saturated to [0,1]. Alpha is left unchanged by the caller.
func Modulate(texel, color [3]float32) [3]float32 {
	var out [3]float32
	for i := 0; i < 3; i++ {
		v := math32.Floor(texel[i]*ModulationScale*color[i]*255) / 255
		out[i] = clamp01(v)
	}
	return out
}

func clamp01(v float32) float32 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// DitherTable is the 4x4 ordered dither matrix from spec.md §4.8,
// values in [-4,+3], indexed [y&3][x&3]. Scaled by 1/255 before being
// added to RGB. Each row and the whole table sum to zero (spec.md §8,
// property 6).
var DitherTable = [4][4]int8{
	{-4, 0, -3, 1},
	{2, -2, 3, -1},
	{-3, 1, -4, 0},
	{3, -1, 2, -2},
}

// DitherOffset returns the dither value to add to one color channel
// at native-space position (x, y), already divided by 255.
func DitherOffset(x, y int) float32 {
	return float32(DitherTable[y&3][x&3]) / 255
}

// Quantize5 truncates an 8-bit channel value to 5 bits, matching the
// PS1's low-color framebuffer precision: round(x*255)>>3 (spec.md
// §4.7).
func Quantize5(x float32) uint8 {
	v := int32(math32.Round(clamp01(x) * 255))
	return uint8(v >> 3)
}

// Decode5 extends a 5-bit channel value to 8-bit, spec.md §4.8's
// "Color decoding": low-color mode left-shifts by 3
// (value<<3 / 255); high-color mode divides by 31.
func Decode5(v5 uint8, highColor bool) float32 {
	if highColor {
		return float32(v5) / 31
	}
	return float32(uint8(v5<<3)) / 255
}

// DecodeRGB555 splits a packed RGB555 (+ mask bit 15) word into
// components. r, g, b are 5-bit values in [0,31]; mask is bit 15.
func DecodeRGB555(word uint16) (r, g, b uint8, mask bool) {
	r = uint8(word & 0x1F)
	g = uint8((word >> 5) & 0x1F)
	b = uint8((word >> 10) & 0x1F)
	mask = word&0x8000 != 0
	return
}

// EncodeRGB555 packs 5-bit components and the mask bit into a 16-bit
// word.
func EncodeRGB555(r, g, b uint8, mask bool) uint16 {
	w := uint16(r&0x1F) | uint16(g&0x1F)<<5 | uint16(b&0x1F)<<10
	if mask {
		w |= 0x8000
	}
	return w
}

// BlendMode selects one of the four semi-transparency functions
// (spec.md §4.8, "Semi-transparency").
type BlendMode int

const (
	BlendAverage BlendMode = iota
	BlendAdditive
	BlendSubtractive
	BlendQuarterAdditive
)

// Blend applies BlendMode m to a source and destination color,
// clamped to [0,1]. These are the same four formulas the draw
// pipelines' dual-source blend factors (gpu.ColorBlend) reduce to in
// hardware; this Go form is what spec.md §8 property 7 is tested
// against directly.
func Blend(m BlendMode, src, dst [3]float32) [3]float32 {
	var out [3]float32
	for i := 0; i < 3; i++ {
		var v float32
		switch m {
		case BlendAverage:
			v = 0.5*src[i] + 0.5*dst[i]
		case BlendAdditive:
			v = src[i] + dst[i]
		case BlendSubtractive:
			v = dst[i] - src[i]
		case BlendQuarterAdditive:
			v = 0.25*src[i] + dst[i]
		}
		out[i] = clamp01(v)
	}
	return out
}

// RoundUV implements the "round direction" half of spec.md §4.8's UV
// rounding: floor when neg is true, ceil otherwise.
func RoundUV(v float32, neg bool) float32 {
	if neg {
		return math32.Floor(v)
	}
	return math32.Ceil(v)
}

// UVRoundDirection computes the sign used to choose floor vs. ceil
// for one UV axis, from the per-axis UV derivatives across a
// triangle and the winding of its barycentric determinant (spec.md
// §4.8, "UV rounding"). dU is (dU/dX + dU/dY); det is the triangle's
// signed area (barycentric determinant). The result is true
// ("negative", i.e. use floor) when -dU, folded with det's sign, is
// negative.
func UVRoundDirection(dU, det float32) bool {
	v := -dU
	if det < 0 {
		v = -v
	}
	return v < 0
}
