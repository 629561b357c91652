// Copyright 2026 The psxgpu Authors. All rights reserved.

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Property 4: texture-window idempotence.
func TestApplyTextureWindowIdempotent(t *testing.T) {
	for uv := 0; uv < 256; uv += 7 {
		for mask := 0; mask < 256; mask += 23 {
			for off := 0; off < 256; off += 31 {
				u := [2]uint8{uint8(uv), uint8(uv)}
				m := [2]uint8{uint8(mask), uint8(mask)}
				o := [2]uint8{uint8(off), uint8(off)}
				once := ApplyTextureWindow(u, m, o)
				twice := ApplyTextureWindow(once, m, o)
				require.Equal(t, once, twice)
			}
		}
	}
}

// Property 5: modulation bounds + near-identity at (0.5,0.5,0.5).
func TestModulateBoundsAndIdentity(t *testing.T) {
	for _, texel := range [][3]float32{{0, 0, 0}, {1, 1, 1}, {0.25, 0.5, 0.75}} {
		for _, color := range [][3]float32{{0, 0, 0}, {1, 1, 1}, {0.3, 0.6, 0.9}} {
			out := Modulate(texel, color)
			for i := 0; i < 3; i++ {
				assert.GreaterOrEqual(t, out[i], float32(0))
				assert.LessOrEqual(t, out[i], float32(1))
			}
		}
	}

	// Per-channel table: modulation by (0.5,0.5,0.5) must reproduce
	// the nearest lower 8-bit value of the input texel.
	for t255 := 0; t255 <= 255; t255++ {
		texel := float32(t255) / 255
		out := Modulate([3]float32{texel, texel, texel}, [3]float32{0.5, 0.5, 0.5})
		want := float32(int32(texel*255*0.99609375)) / 255 // floor via truncating int32 conversion (texel*255*scale >= 0)
		assert.InDelta(t, want, out[0], 1.0/255.0+1e-6)
	}
}

// Property 6: dither zero-mean on a 4x4 block.
func TestDitherZeroMeanBlock(t *testing.T) {
	var sum int
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			sum += int(DitherTable[y][x])
		}
	}
	require.Equal(t, 0, sum)

	// Any aligned 4x4 block of native coordinates sums to zero too,
	// since DitherOffset indexes by position&3.
	for bx := 0; bx < 1024; bx += 4 {
		for by := 0; by < 512; by += 4 {
			var s float32
			for dx := 0; dx < 4; dx++ {
				for dy := 0; dy < 4; dy++ {
					s += DitherOffset(bx+dx, by+dy)
				}
			}
			assert.InDelta(t, float32(0), s, 1e-6)
		}
	}
}

// Property 7: semi-transparent average blend.
func TestBlendAverage(t *testing.T) {
	src := [3]float32{0.8, 0.4, 0.1}
	dst := [3]float32{0.2, 0.6, 0.9}
	out := Blend(BlendAverage, src, dst)
	for i := 0; i < 3; i++ {
		want := (src[i] + dst[i]) / 2
		assert.InDelta(t, want, out[i], 1.0/255.0)
	}
}

func TestBlendModesClamp(t *testing.T) {
	src := [3]float32{1, 1, 1}
	dst := [3]float32{1, 1, 1}
	for _, m := range []BlendMode{BlendAverage, BlendAdditive, BlendSubtractive, BlendQuarterAdditive} {
		out := Blend(m, src, dst)
		for i := 0; i < 3; i++ {
			assert.GreaterOrEqual(t, out[i], float32(0))
			assert.LessOrEqual(t, out[i], float32(1))
		}
	}
}

func TestRGB555RoundTrip(t *testing.T) {
	for _, w := range []uint16{0, 0x7FFF, 0xFFFF, 0x8000, 0x03E0} {
		r, g, b, mask := DecodeRGB555(w)
		got := EncodeRGB555(r, g, b, mask)
		require.Equal(t, w, got)
	}
}

func TestWrapCoordToroidal(t *testing.T) {
	assert.Equal(t, 0, WrapCoord(1024, 1024))
	assert.Equal(t, 1023, WrapCoord(-1, 1024))
	assert.Equal(t, 4, WrapCoord(1028, 1024))
}
