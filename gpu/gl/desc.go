// Copyright 2026 The psxgpu Authors. All rights reserved.

package gl

import "github.com/vramcore/psxgpu/gpu"

// boundBuffer records one buffer range bound to a descriptor slot.
type boundBuffer struct {
	id       uint32
	off, sz  int64
}

// heapCopy is one independently-updatable copy of a descHeap's
// bindings, keyed by the descriptor's Nr (its shader binding point,
// which in every shaders/*.glsl source is an explicit
// layout(binding=N) so no name lookup is ever needed).
type heapCopy struct {
	buffers  map[int][]boundBuffer
	images   map[int][]*image
	textures map[int][]*image
	samplers map[int][]*sampler
}

func newHeapCopy() heapCopy {
	return heapCopy{
		buffers:  make(map[int][]boundBuffer),
		images:   make(map[int][]*image),
		textures: make(map[int][]*image),
		samplers: make(map[int][]*sampler),
	}
}

// descHeap implements gpu.DescHeap. It carries no GL resource of its
// own: it is Go-side bookkeeping of which buffers/images/samplers are
// bound to which binding point, applied to real GL binding state by
// cmd.go's bindDescTable when a draw or dispatch actually uses it.
type descHeap struct {
	descs []gpu.Descriptor
	cpy   []heapCopy
}

func (g *GPU) NewDescHeap(ds []gpu.Descriptor) (gpu.DescHeap, error) {
	return &descHeap{descs: ds}, nil
}

func (h *descHeap) New(n int) error {
	h.cpy = make([]heapCopy, n)
	for i := range h.cpy {
		h.cpy[i] = newHeapCopy()
	}
	return nil
}

func (h *descHeap) Count() int { return len(h.cpy) }

func setAt[T any](m map[int][]T, nr, start int, vals []T) {
	cur := m[nr]
	need := start + len(vals)
	if len(cur) < need {
		grown := make([]T, need)
		copy(grown, cur)
		cur = grown
	}
	copy(cur[start:], vals)
	m[nr] = cur
}

func (h *descHeap) SetBuffer(cpy, nr, start int, buf []gpu.Buffer, off, size []int64) {
	vals := make([]boundBuffer, len(buf))
	for i, b := range buf {
		vals[i] = boundBuffer{id: b.(*buffer).id, off: off[i], sz: size[i]}
	}
	setAt(h.cpy[cpy].buffers, nr, start, vals)
}

func (h *descHeap) SetImage(cpy, nr, start int, iv []gpu.ImageView) {
	vals := make([]*image, len(iv))
	for i, v := range iv {
		vals[i] = v.(*imageView).im
	}
	for _, d := range h.descs {
		if d.Nr == nr && d.Type == gpu.DTexture {
			setAt(h.cpy[cpy].textures, nr, start, vals)
			return
		}
	}
	setAt(h.cpy[cpy].images, nr, start, vals)
}

func (h *descHeap) SetSampler(cpy, nr, start int, splr []gpu.Sampler) {
	vals := make([]*sampler, len(splr))
	for i, s := range splr {
		vals[i] = s.(*sampler)
	}
	setAt(h.cpy[cpy].samplers, nr, start, vals)
}

func (h *descHeap) Destroy() {}

// descTable implements gpu.DescTable as an ordered list of the
// descHeaps it binds together for one pipeline.
type descTable struct {
	heaps []*descHeap
}

func (g *GPU) NewDescTable(dh []gpu.DescHeap) (gpu.DescTable, error) {
	t := &descTable{heaps: make([]*descHeap, len(dh))}
	for i, h := range dh {
		t.heaps[i] = h.(*descHeap)
	}
	return t, nil
}

func (t *descTable) Destroy() {}
