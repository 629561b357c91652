// Copyright 2026 The psxgpu Authors. All rights reserved.

package core

import (
	"encoding/binary"
	"math"
)

// packU32 writes values into buf as consecutive little-endian uint32
// fields, matching the declaration-order push-constant-equivalent ABI
// in types.go and the std140 uniform blocks in shaders/*.glsl.
func packU32(buf []byte, values ...uint32) {
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], v)
	}
}

func packF32(buf []byte, values ...float32) {
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
}

func packI32(buf []byte, values ...int32) {
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(v))
	}
}

func boolU32(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
