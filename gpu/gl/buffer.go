// Copyright 2026 The psxgpu Authors. All rights reserved.

package gl

import (
	"unsafe"

	glcore "github.com/go-gl/gl/v4.6-core/gl"

	"github.com/vramcore/psxgpu/gpu"
)

// buffer implements gpu.Buffer as a GL buffer object. Visible buffers
// are persistently mapped at creation time (GL_MAP_PERSISTENT_BIT |
// GL_MAP_COHERENT_BIT), following soypat/glgl's MapBufferData
// approach, so Buffer.Bytes needs no further synchronization calls.
type buffer struct {
	id      uint32
	size    int64
	visible bool
	p       []byte
}

func (g *GPU) NewBuffer(size int64, visible bool, usg gpu.Usage) (gpu.Buffer, error) {
	var id uint32
	glcore.CreateBuffers(1, &id)

	var flags uint32
	if visible {
		flags = glcore.MAP_READ_BIT | glcore.MAP_WRITE_BIT | glcore.MAP_PERSISTENT_BIT | glcore.MAP_COHERENT_BIT
	}
	glcore.NamedBufferStorage(id, int(size), nil, flags)
	if err := checkErr(); err != nil {
		glcore.DeleteBuffers(1, &id)
		return nil, err
	}

	b := &buffer{id: id, size: size, visible: visible}
	if visible {
		ptr := glcore.MapNamedBufferRange(id, 0, int(size), flags)
		if ptr == nil {
			glcore.DeleteBuffers(1, &id)
			return nil, checkErr()
		}
		b.p = unsafe.Slice((*byte)(ptr), size)
	}
	return b, nil
}

func (b *buffer) Visible() bool  { return b.visible }
func (b *buffer) Bytes() []byte { return b.p }
func (b *buffer) Cap() int64    { return b.size }

func (b *buffer) Destroy() {
	if b.visible {
		glcore.UnmapNamedBuffer(b.id)
	}
	glcore.DeleteBuffers(1, &b.id)
}
