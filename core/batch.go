// Copyright 2026 The psxgpu Authors. All rights reserved.

package core

import "github.com/vramcore/psxgpu/gpu"

// batcher owns the single in-flight gpu.CmdBuffer that Core records
// operations into, and the texpage/CLUT cache-invalidation heuristic
// from SPEC_FULL.md §4.10: a textured draw that samples a different
// texpage/CLUT than the previous one, after this batch has written to
// VRAM, forces a flush first so the sample can never observe an
// uncommitted write still sitting in the same command buffer.
type batcher struct {
	g   gpu.GPU
	cmd gpu.CmdBuffer

	recording bool
	wroteVRAM bool

	lastTexpage   [2]int32
	lastClut      Vec2
	haveLastSample bool

	pendingStaging []int
	// pendingBuffers are ephemeral GPU buffers (draw-call vertex data)
	// created since the last flush; they must outlive the command
	// buffer that reads them, so they are destroyed only once that
	// command buffer has completed.
	pendingBuffers []gpu.Buffer
	// pendingImages are ephemeral render targets (e.g. PresentFrame's
	// scanout target), destroyed alongside pendingBuffers at flush.
	pendingImages []gpu.Image
}

func newBatcher(g gpu.GPU) (*batcher, error) {
	cmd, err := g.NewCmdBuffer()
	if err != nil {
		return nil, err
	}
	return &batcher{g: g, cmd: cmd}, nil
}

// cmdBuffer returns the current command buffer, starting it if this
// is the first use since the last flush.
func (b *batcher) cmdBuffer() (gpu.CmdBuffer, error) {
	if !b.recording {
		if err := b.cmd.Begin(); err != nil {
			return nil, err
		}
		b.recording = true
	}
	return b.cmd, nil
}

// noteVRAMWrite records that this batch wrote to VRAM by a means
// other than a draw (fill, CPU upload, VRAM copy). Draws that write to
// Scaled VRAM don't call this: a draw can never invalidate the very
// texpage/CLUT it is about to read from the same primitive, and
// cross-primitive draw-to-draw hazards within a batch are read-only
// against Native VRAM (draws only write Scaled VRAM), so they need no
// split.
func (b *batcher) noteVRAMWrite() {
	b.wroteVRAM = true
}

// noteTextureSample applies the §4.10 heuristic: if this batch has an
// uncommitted VRAM write and the texpage/CLUT about to be sampled
// differs from the last sampled one, the batch must be flushed before
// recording the new draw, so the flush's barrier/sync machinery can
// run first. It reports whether it flushed.
func (b *batcher) noteTextureSample(c *Core, texpage [2]int32, clut Vec2) (bool, error) {
	changed := !b.haveLastSample || texpage != b.lastTexpage || clut != b.lastClut
	flushed := false
	if changed && b.wroteVRAM {
		if err := b.flush(c); err != nil {
			return false, err
		}
		flushed = true
	}
	b.lastTexpage, b.lastClut, b.haveLastSample = texpage, clut, true
	return flushed, nil
}

// flush submits the current command buffer and blocks until it
// completes, then releases any staging buffers it used and resets
// batch state for the next one.
func (b *batcher) flush(c *Core) error {
	if !b.recording {
		return nil
	}
	if err := b.cmd.End(); err != nil {
		return err
	}

	ch := make(chan error, 1)
	b.g.Commit([]gpu.CmdBuffer{b.cmd}, ch)
	if err := <-ch; err != nil {
		return &DeviceLost{Cause: err}
	}

	for _, idx := range b.pendingStaging {
		c.staging.release(idx)
	}
	b.pendingStaging = b.pendingStaging[:0]

	for _, buf := range b.pendingBuffers {
		buf.Destroy()
	}
	b.pendingBuffers = b.pendingBuffers[:0]

	for _, img := range b.pendingImages {
		img.Destroy()
	}
	b.pendingImages = b.pendingImages[:0]

	if err := b.cmd.Reset(); err != nil {
		return err
	}
	b.recording = false
	b.wroteVRAM = false
	b.haveLastSample = false
	return nil
}

func (b *batcher) destroy() {
	b.cmd.Destroy()
}
