// Copyright 2026 The psxgpu Authors. All rights reserved.

package core

import "github.com/vramcore/psxgpu/gpu"

// stagingBufCount is K from spec.md §5: "at most K buffers in flight,
// K typically 3."
const stagingBufCount = 3

// stagingBufSize covers the largest possible single CpuToVram /
// VramToCpu transfer: the whole of Native VRAM, 1024x512 16-bit
// cells.
const stagingBufSize = 1024 * 512 * 4 // uint32 per pixel, matching Params' uint stride

// stagingPool is a ring of host-visible buffers used to stage
// CpuToVram uploads and VramToCpu downloads, grounded on the
// teacher's engine/texture/staging.go bitmap-allocated staging pool.
// Unlike the teacher's pool, which hands buffers to worker goroutines
// that release them asynchronously, this one is used cooperatively
// from the single goroutine that drives Core: acquire never blocks,
// it reports a ResourceExhaustion when no buffer is free rather than
// waiting on a channel.
type stagingPool struct {
	bufs []gpu.Buffer
	busy []bool
	next int
}

func newStagingPool(g gpu.GPU) (*stagingPool, error) {
	p := &stagingPool{
		bufs: make([]gpu.Buffer, stagingBufCount),
		busy: make([]bool, stagingBufCount),
	}
	for i := range p.bufs {
		b, err := g.NewBuffer(stagingBufSize, true, gpu.UShaderRead|gpu.UShaderWrite)
		if err != nil {
			p.destroy()
			return nil, err
		}
		p.bufs[i] = b
	}
	return p, nil
}

// acquire returns a free staging buffer large enough for size bytes,
// and its index (passed back to release). It never blocks: the caller
// (Core.acquireStaging in core/api.go) flushes the in-flight batch before calling acquire
// again once every buffer is busy, since a batch flush is also what
// would free one.
func (p *stagingPool) acquire(size int64) (int, gpu.Buffer, error) {
	if size > stagingBufSize {
		return -1, nil, &ResourceExhaustion{Requested: size, Budget: stagingBufSize}
	}
	for i := 0; i < len(p.bufs); i++ {
		idx := (p.next + i) % len(p.bufs)
		if !p.busy[idx] {
			p.busy[idx] = true
			p.next = (idx + 1) % len(p.bufs)
			return idx, p.bufs[idx], nil
		}
	}
	return -1, nil, &ResourceExhaustion{Requested: size, Budget: stagingBufSize * stagingBufCount}
}

// release marks a previously acquired buffer free again. Callers must
// only do this after the command buffer that reads/writes it has been
// confirmed complete (core/batch.go's flush waits on exactly that).
func (p *stagingPool) release(idx int) {
	if idx >= 0 && idx < len(p.busy) {
		p.busy[idx] = false
	}
}

// allFree reports whether every staging buffer is currently free.
func (p *stagingPool) allFree() bool {
	for _, b := range p.busy {
		if b {
			return false
		}
	}
	return true
}

func (p *stagingPool) destroy() {
	for _, b := range p.bufs {
		if b != nil {
			b.Destroy()
		}
	}
}
