// Copyright 2026 The psxgpu Authors. All rights reserved.

package core

import (
	"encoding/binary"
	"image"

	"github.com/vramcore/psxgpu/gpu"
	"github.com/vramcore/psxgpu/vram"
)

// dispatchGroups computes the 16x16-local-size compute dispatch size
// covering a size[0] x size[1] region (spec.md §9: 16x16 work groups).
func dispatchGroups(size [2]int) (x, y, z int) {
	return (size[0] + 15) / 16, (size[1] + 15) / 16, 1
}

func (c *Core) acquireStaging(size int64) (int, gpu.Buffer, error) {
	idx, buf, err := c.staging.acquire(size)
	if err != nil {
		if re, ok := err.(*ResourceExhaustion); ok && re.Budget == stagingBufSize*stagingBufCount {
			// every staging buffer is busy: flushing the batch is what
			// frees one (it waits for the GPU work using them to
			// complete), so retry once after that.
			if ferr := c.batch.flush(c); ferr != nil {
				return -1, nil, ferr
			}
			idx, buf, err = c.staging.acquire(size)
		}
	}
	return idx, buf, err
}

func (c *Core) newEphemeralBuffer(data []byte) (gpu.Buffer, error) {
	buf, err := c.g.NewBuffer(int64(len(data)), true, gpu.UVertexData)
	if err != nil {
		return nil, err
	}
	copy(buf.Bytes(), data)
	c.batch.pendingBuffers = append(c.batch.pendingBuffers, buf)
	return buf, nil
}

// ensureSynced refreshes Scaled VRAM from Native VRAM over (pos, size)
// if the dirty tracker says it's stale (spec.md §4.6, §5).
func (c *Core) ensureSynced(pos, size [2]int) error {
	if !c.store.Dirty.NeedsSync(pos, size) {
		return nil
	}
	cmd, err := c.batch.cmdBuffer()
	if err != nil {
		return err
	}

	cmd.Barrier(gpu.Barrier{
		SyncBefore: gpu.SComputeShading, SyncAfter: gpu.SFragmentShading,
		AccessBefore: gpu.AShaderWrite, AccessAfter: gpu.AShaderRead,
	})

	scale := c.store.Scale()
	sw, sh := c.store.ScaledSize()
	posNDC := [2]float32{float32(pos[0]*scale) / float32(sw), float32(pos[1]*scale) / float32(sh)}
	sizeNDC := [2]float32{float32(size[0]*scale) / float32(sw), float32(size[1]*scale) / float32(sh)}

	vb := c.sync.constBuf.Bytes()
	packF32(vb, posNDC[0], posNDC[1], sizeNDC[0], sizeNDC[1])

	fb := c.sync.fragConstBuf.Bytes()
	packI32(fb, int32(pos[0]), int32(pos[1]), int32(size[0]*scale), int32(size[1]*scale))
	packU32(fb[16:], uint32(scale), boolU32(c.opts.HighColor))

	cmd.BeginPass(c.sync.pass, c.sync.fb, []gpu.ClearValue{{}})
	cmd.SetPipeline(c.sync.pl)
	cmd.SetDescTableGraph(c.sync.table, []int{0})
	cmd.SetViewport(gpu.Viewport{X: 0, Y: 0, Width: float32(sw), Height: float32(sh)})
	cmd.SetScissor(gpu.Scissor{X: pos[0] * scale, Y: pos[1] * scale, Width: size[0] * scale, Height: size[1] * scale})
	cmd.Draw(6, 1, 0)
	cmd.EndPass()

	c.store.Dirty.ClearSync(pos, size)
	return nil
}

// ensureDownsampled refreshes Native VRAM from Scaled VRAM over
// (pos, size) if the dirty tracker says it's stale (spec.md §4.7,
// §5): required before a CPU read or a texture sample of this region.
func (c *Core) ensureDownsampled(pos, size [2]int) error {
	if !c.store.Dirty.NeedsDownsample(pos, size) {
		return nil
	}
	cmd, err := c.batch.cmdBuffer()
	if err != nil {
		return err
	}

	scale := c.store.Scale()
	scaledImg, _ := c.store.Scaled()
	scaledCopy, _ := c.store.ScaledCopy()

	cmd.Barrier(gpu.Barrier{SyncBefore: gpu.SColorOutput, SyncAfter: gpu.SCopy, AccessBefore: gpu.AColorWrite, AccessAfter: gpu.ACopyRead})
	cmd.CopyImage(&gpu.ImageCopy{
		From: scaledImg, FromOff: gpu.Off2D{X: pos[0] * scale, Y: pos[1] * scale},
		To: scaledCopy, ToOff: gpu.Off2D{X: pos[0] * scale, Y: pos[1] * scale},
		Size: gpu.Dim2D{Width: size[0] * scale, Height: size[1] * scale},
	})
	cmd.Barrier(gpu.Barrier{SyncBefore: gpu.SCopy, SyncAfter: gpu.SFragmentShading, AccessBefore: gpu.ACopyWrite, AccessAfter: gpu.AShaderRead})

	vb := c.downsample.constBuf.Bytes()
	packF32(vb, float32(pos[0])/float32(vram.NativeWidth), float32(pos[1])/float32(vram.NativeHeight),
		float32(size[0])/float32(vram.NativeWidth), float32(size[1])/float32(vram.NativeHeight))

	fb := c.downsample.fragConstBuf.Bytes()
	packI32(fb, int32(pos[0]), int32(pos[1]), int32(size[0]), int32(size[1]))
	packU32(fb[16:], uint32(scale), boolU32(c.opts.HighColor), boolU32(c.drawMode.ForceMask))

	cmd.BeginPass(c.downsample.pass, c.downsample.fb, []gpu.ClearValue{{}})
	cmd.SetPipeline(c.downsample.pl)
	cmd.SetDescTableGraph(c.downsample.table, []int{0})
	cmd.SetViewport(gpu.Viewport{X: 0, Y: 0, Width: float32(vram.NativeWidth), Height: float32(vram.NativeHeight)})
	cmd.SetScissor(gpu.Scissor{X: pos[0], Y: pos[1], Width: size[0], Height: size[1]})
	cmd.Draw(6, 1, 0)
	cmd.EndPass()

	c.store.Dirty.ClearDownsample(pos, size)
	return nil
}

// FillRect implements spec.md §4.1.
func (c *Core) FillRect(pos, size [2]int, color15 uint16) error {
	cmd, err := c.batch.cmdBuffer()
	if err != nil {
		return err
	}

	cb := c.fillOp.constBuf.Bytes()
	packU32(cb, uint32(pos[0]), uint32(pos[1]), uint32(size[0]), uint32(size[1]), uint32(color15))

	cmd.BeginWork()
	cmd.SetPipeline(c.fillOp.pl)
	cmd.SetDescTableComp(c.fillOp.table, []int{0})
	x, y, z := dispatchGroups(size)
	cmd.Dispatch(x, y, z)
	cmd.EndWork()

	c.store.Dirty.MarkNativeWritten(pos, size)
	c.batch.noteVRAMWrite()
	return nil
}

// CpuToVram implements spec.md §4.2.
func (c *Core) CpuToVram(pos, size [2]int, pixels []uint16, forceMask, checkMask bool) error {
	n := size[0] * size[1]
	idx, buf, err := c.acquireStaging(int64(n) * 4)
	if err != nil {
		return err
	}

	bytes := buf.Bytes()
	for i, px := range pixels[:n] {
		binary.LittleEndian.PutUint32(bytes[i*4:], uint32(px))
	}

	cmd, err := c.batch.cmdBuffer()
	if err != nil {
		return err
	}

	c.cpuToVramOp.heap.SetBuffer(0, 0, 0, []gpu.Buffer{buf}, []int64{0}, []int64{int64(n) * 4})
	cb := c.cpuToVramOp.constBuf.Bytes()
	packU32(cb, uint32(pos[0]), uint32(pos[1]), uint32(size[0]), uint32(size[1]), boolU32(forceMask), boolU32(checkMask))

	cmd.BeginWork()
	cmd.SetPipeline(c.cpuToVramOp.pl)
	cmd.SetDescTableComp(c.cpuToVramOp.table, []int{0})
	x, y, z := dispatchGroups(size)
	cmd.Dispatch(x, y, z)
	cmd.EndWork()

	c.store.Dirty.MarkNativeWritten(pos, size)
	c.batch.noteVRAMWrite()
	c.batch.pendingStaging = append(c.batch.pendingStaging, idx)
	return nil
}

// VramToCpu implements spec.md §4.3.
func (c *Core) VramToCpu(pos, size [2]int) ([]uint16, error) {
	if err := c.ensureDownsampled(pos, size); err != nil {
		return nil, err
	}

	n := size[0] * size[1]
	idx, buf, err := c.acquireStaging(int64(n) * 4)
	if err != nil {
		return nil, err
	}

	cmd, err := c.batch.cmdBuffer()
	if err != nil {
		return nil, err
	}

	c.vramToCpuOp.heap.SetBuffer(0, 1, 0, []gpu.Buffer{buf}, []int64{0}, []int64{int64(n) * 4})
	cb := c.vramToCpuOp.constBuf.Bytes()
	packU32(cb, uint32(pos[0]), uint32(pos[1]), uint32(size[0]), uint32(size[1]))

	cmd.BeginWork()
	cmd.SetPipeline(c.vramToCpuOp.pl)
	cmd.SetDescTableComp(c.vramToCpuOp.table, []int{0})
	x, y, z := dispatchGroups(size)
	cmd.Dispatch(x, y, z)
	cmd.EndWork()

	c.batch.pendingStaging = append(c.batch.pendingStaging, idx)
	if err := c.batch.flush(c); err != nil {
		return nil, err
	}

	bytes := buf.Bytes()
	pixels := make([]uint16, n)
	for i := range pixels {
		pixels[i] = uint16(binary.LittleEndian.Uint32(bytes[i*4:]))
	}
	return pixels, nil
}

// VramCopy implements spec.md §4.4/§4.5. When both rectangles are
// already scaled-fresh (no pending native write of either that Scaled
// VRAM hasn't observed yet), the copy runs directly against Scaled
// VRAM instead of forcing a downsample first: that downsample would
// otherwise throw away the extra precision a draw may have just
// written, and would run even when Native VRAM already holds every
// byte the copy needs.
func (c *Core) VramCopy(src, dst, size [2]int, forceMask, checkMask bool) error {
	scaledFresh := !c.store.Dirty.NeedsSync(src, size) && !c.store.Dirty.NeedsSync(dst, size)
	if scaledFresh {
		return c.vramCopyScaled(src, dst, size, forceMask, checkMask)
	}

	if err := c.ensureDownsampled(src, size); err != nil {
		return err
	}

	cmd, err := c.batch.cmdBuffer()
	if err != nil {
		return err
	}

	cb := c.vramCopyOp.constBuf.Bytes()
	packU32(cb, uint32(src[0]), uint32(src[1]), uint32(dst[0]), uint32(dst[1]), uint32(size[0]), uint32(size[1]), boolU32(forceMask), boolU32(checkMask))

	cmd.BeginWork()
	cmd.SetPipeline(c.vramCopyOp.pl)
	cmd.SetDescTableComp(c.vramCopyOp.table, []int{0})
	x, y, z := dispatchGroups(size)
	cmd.Dispatch(x, y, z)
	cmd.EndWork()

	c.store.Dirty.MarkNativeWritten(dst, size)
	c.batch.noteVRAMWrite()
	return nil
}

// vramCopyScaled is VramCopy's scaled-domain path (spec.md §4.5):
// shaders/vram_copy_scaled.comp.glsl operates on Scaled VRAM directly,
// at scale-multiplied coordinates, with the mask bit in alpha instead
// of bit 15.
func (c *Core) vramCopyScaled(src, dst, size [2]int, forceMask, checkMask bool) error {
	cmd, err := c.batch.cmdBuffer()
	if err != nil {
		return err
	}

	scale := c.store.Scale()
	cmd.Barrier(gpu.Barrier{
		SyncBefore: gpu.SColorOutput, SyncAfter: gpu.SComputeShading,
		AccessBefore: gpu.AColorWrite, AccessAfter: gpu.AShaderRead | gpu.AShaderWrite,
	})

	scaledSrc := [2]int{src[0] * scale, src[1] * scale}
	scaledDst := [2]int{dst[0] * scale, dst[1] * scale}
	scaledSize := [2]int{size[0] * scale, size[1] * scale}

	cb := c.vramCopyScaledOp.constBuf.Bytes()
	packU32(cb, uint32(scaledSrc[0]), uint32(scaledSrc[1]), uint32(scaledDst[0]), uint32(scaledDst[1]), uint32(scaledSize[0]), uint32(scaledSize[1]), boolU32(forceMask), boolU32(checkMask), uint32(scale))

	cmd.BeginWork()
	cmd.SetPipeline(c.vramCopyScaledOp.pl)
	cmd.SetDescTableComp(c.vramCopyScaledOp.table, []int{0})
	x, y, z := dispatchGroups(scaledSize)
	cmd.Dispatch(x, y, z)
	cmd.EndWork()

	cmd.Barrier(gpu.Barrier{
		SyncBefore: gpu.SComputeShading, SyncAfter: gpu.SColorOutput | gpu.SFragmentShading,
		AccessBefore: gpu.AShaderWrite, AccessAfter: gpu.AColorWrite | gpu.AShaderRead,
	})

	c.store.Dirty.MarkScaledWritten(dst, size)
	c.batch.noteVRAMWrite()
	return nil
}

// texpagePageSize approximates a PS1 texpage's footprint in Native
// VRAM for the purposes of the §4.10 batching heuristic and the
// downsample-before-sample check: 256x256 native pixels safely covers
// every color depth's page (the actual texpage is narrower at lower
// bit depths, but over-covering is always safe here).
var texpagePageSize = [2]int{256, 256}

func vertAttrBytes(verts []TexturedVertex) map[string][]byte {
	n := len(verts)
	pos := make([]byte, n*8)
	col := make([]byte, n*16)
	uv := make([]byte, n*8)
	texpage := make([]byte, n*8)
	winMask := make([]byte, n*4)
	winOff := make([]byte, n*4)
	clut := make([]byte, n*8)
	flags := make([]byte, n*4)
	other := make([]byte, n*16)

	for i, v := range verts {
		packI32(pos[i*8:], int32(v.Pos.X), int32(v.Pos.Y))
		packF32(col[i*16:], float32(v.Col.R)/255, float32(v.Col.G)/255, float32(v.Col.B)/255, 1)
		packI32(uv[i*8:], int32(v.UV[0]), int32(v.UV[1]))
		packI32(texpage[i*8:], v.TexpageBase[0], v.TexpageBase[1])
		winMask[i*4], winMask[i*4+1] = v.WindowMask[0], v.WindowMask[1]
		winOff[i*4], winOff[i*4+1] = v.WindowOffset[0], v.WindowOffset[1]
		packI32(clut[i*8:], v.ClutBase.X, v.ClutBase.Y)

		var f uint32
		f |= uint32(v.Depth) & 0x3
		if v.Modulated {
			f |= 0x4
		}
		if v.Ditherable {
			f |= 0x8
		}
		packU32(flags[i*4:], f)

		packI32(other[i*16:], int32(v.OtherPos[0].X), int32(v.OtherPos[0].Y), int32(v.OtherPos[1].X), int32(v.OtherPos[1].Y))
	}

	return map[string][]byte{
		"pos": pos, "col": col, "uv": uv, "texpage": texpage,
		"winMask": winMask, "winOff": winOff, "clut": clut, "flags": flags, "other": other,
	}
}

// recordPrimitive uploads verts' attributes as ephemeral vertex
// buffers and records a single draw call with the given pipeline.
// blendPass only matters for BlendSubtractive (spec.md §4.8): 0 is
// the opaque pass, 1 the reversed-subtract pass.
func (c *Core) recordPrimitive(cmd gpu.CmdBuffer, dp *drawPass, verts []TexturedVertex, blendPass uint32) error {
	attrs := vertAttrBytes(verts)
	order := []string{"pos", "col", "uv", "texpage", "winMask", "winOff", "clut", "flags", "other"}
	bufs := make([]gpu.Buffer, 0, len(order))
	offs := make([]int64, 0, len(order))
	for _, k := range order {
		buf, err := c.newEphemeralBuffer(attrs[k])
		if err != nil {
			return err
		}
		bufs = append(bufs, buf)
		offs = append(offs, 0)
	}

	scale := c.store.Scale()
	sw, sh := c.store.ScaledSize()

	cb := dp.constBuf.Bytes()
	packU32(cb, boolU32(c.drawMode.ForceMask), uint32(scale), boolU32(c.opts.HighColor), boolU32(c.drawMode.Dither))
	packU32(cb[16:], boolU32(c.opts.PerspectiveTextureMapping), boolU32(c.drawMode.Blend.Enabled), uint32(c.drawMode.Blend.Mode), blendPass)

	cmd.SetPipeline(dp.pl)
	cmd.SetDescTableGraph(dp.table, []int{0})
	cmd.SetVertexBuf(0, bufs, offs)
	cmd.SetViewport(gpu.Viewport{X: 0, Y: 0, Width: float32(sw), Height: float32(sh)})

	tl, br := c.drawMode.DrawAreaTL, c.drawMode.DrawAreaBR
	cmd.SetScissor(gpu.Scissor{
		X: int(tl.X) * scale, Y: int(tl.Y) * scale,
		Width: int(br.X-tl.X) * scale, Height: int(br.Y-tl.Y) * scale,
	})
	cmd.Draw(len(verts), 1, 0)

	c.store.Dirty.MarkScaledWritten([2]int{int(tl.X), int(tl.Y)}, [2]int{int(br.X - tl.X), int(br.Y - tl.Y)})
	return nil
}

func (c *Core) drawPassFor(mode DrawMode) *drawPass {
	if !mode.Blend.Enabled {
		return &c.drawOpaque
	}
	dp := c.draws[mode.Blend.Mode]
	return &dp
}

// recordTriangles records one or more triangles (each a 3-vertex
// slice) under mode's blend state. BlendSubtractive can't be
// expressed as a single dual-source pass (core.blendState's doc
// comment explains why), so it expands into the two-pass technique
// spec.md §4.8 describes: every triangle is recorded once against
// the opaque pipeline (pass 0) and once against the reversed-
// subtract pipeline (pass 1), with the fragment shader's discard
// choosing which pass actually writes each texel.
func (c *Core) recordTriangles(cmd gpu.CmdBuffer, mode DrawMode, tris [][]TexturedVertex) error {
	if mode.Blend.Enabled && mode.Blend.Mode == BlendSubtractive {
		for _, verts := range tris {
			if err := c.recordPrimitive(cmd, &c.drawOpaque, verts, 0); err != nil {
				return err
			}
		}
		dp := c.draws[BlendSubtractive]
		for _, verts := range tris {
			if err := c.recordPrimitive(cmd, &dp, verts, 1); err != nil {
				return err
			}
		}
		return nil
	}
	dp := c.drawPassFor(mode)
	for _, verts := range tris {
		if err := c.recordPrimitive(cmd, dp, verts, 0); err != nil {
			return err
		}
	}
	return nil
}

// DrawTriangle implements spec.md §4.8 for the textured/flat triangle
// primitive.
func (c *Core) DrawTriangle(v0, v1, v2 TexturedVertex, mode DrawMode) error {
	c.drawMode = mode

	tl, br := mode.DrawAreaTL, mode.DrawAreaBR
	area := [2]int{int(tl.X), int(tl.Y)}
	areaSize := [2]int{int(br.X - tl.X), int(br.Y - tl.Y)}
	if err := c.ensureSynced(area, areaSize); err != nil {
		return err
	}

	textured := v0.TexpageBase[0] >= 0
	if textured {
		if _, err := c.batch.noteTextureSample(c, v0.TexpageBase, v0.ClutBase); err != nil {
			return err
		}
		if err := c.ensureDownsampled([2]int{int(v0.TexpageBase[0]), int(v0.TexpageBase[1])}, texpagePageSize); err != nil {
			return err
		}
	}

	cmd, err := c.batch.cmdBuffer()
	if err != nil {
		return err
	}

	verts := []TexturedVertex{withOthers(v0, v1, v2), withOthers(v1, v2, v0), withOthers(v2, v0, v1)}
	return c.recordTriangles(cmd, mode, [][]TexturedVertex{verts})
}

func withOthers(v, o1, o2 TexturedVertex) TexturedVertex {
	v.OtherPos = [2]Vec2{o1.Pos, o2.Pos}
	v.OtherUV = [2][2]uint8{o1.UV, o2.UV}
	return v
}

// DrawRectangle implements spec.md §4.8's axis-aligned rectangle
// primitive: a flat, untextured, unshaded quad filled with opaque
// white, matching the monochrome-rectangle GP0 command's simplest
// form. Textured/tinted rectangles are expressed as two DrawTriangle
// calls by the caller.
func (c *Core) DrawRectangle(pos, size [2]int, mode DrawMode) error {
	c.drawMode = mode

	tl, br := mode.DrawAreaTL, mode.DrawAreaBR
	area := [2]int{int(tl.X), int(tl.Y)}
	areaSize := [2]int{int(br.X - tl.X), int(br.Y - tl.Y)}
	if err := c.ensureSynced(area, areaSize); err != nil {
		return err
	}

	white := Color{R: 255, G: 255, B: 255}
	p0 := Vec2{X: int32(pos[0]), Y: int32(pos[1])}
	p1 := Vec2{X: int32(pos[0] + size[0]), Y: int32(pos[1])}
	p2 := Vec2{X: int32(pos[0]), Y: int32(pos[1] + size[1])}
	p3 := Vec2{X: int32(pos[0] + size[0]), Y: int32(pos[1] + size[1])}

	mk := func(p Vec2) TexturedVertex {
		return TexturedVertex{Pos: p, Col: white, TexpageBase: [2]int32{-1, -1}}
	}
	v0, v1, v2, v3 := mk(p0), mk(p1), mk(p2), mk(p3)

	cmd, err := c.batch.cmdBuffer()
	if err != nil {
		return err
	}

	tri1 := []TexturedVertex{withOthers(v0, v1, v2), withOthers(v1, v2, v0), withOthers(v2, v0, v1)}
	tri2 := []TexturedVertex{withOthers(v1, v2, v3), withOthers(v2, v3, v1), withOthers(v3, v1, v2)}
	return c.recordTriangles(cmd, mode, [][]TexturedVertex{tri1, tri2})
}

// DrawLine implements spec.md §4.8's untextured line primitive.
func (c *Core) DrawLine(v0, v1 UntexturedVertex, mode DrawMode) error {
	c.drawMode = mode

	tl, br := mode.DrawAreaTL, mode.DrawAreaBR
	area := [2]int{int(tl.X), int(tl.Y)}
	areaSize := [2]int{int(br.X - tl.X), int(br.Y - tl.Y)}
	if err := c.ensureSynced(area, areaSize); err != nil {
		return err
	}

	mk := func(u UntexturedVertex) TexturedVertex {
		return TexturedVertex{Pos: u.Pos, Col: u.Col, TexpageBase: [2]int32{-1, -1}, Ditherable: u.Ditherable}
	}
	tv0, tv1 := mk(v0), mk(v1)
	tv0.OtherPos, tv1.OtherPos = [2]Vec2{tv1.Pos, tv1.Pos}, [2]Vec2{tv0.Pos, tv0.Pos}

	cmd, err := c.batch.cmdBuffer()
	if err != nil {
		return err
	}

	dp := &c.lineOpaque
	if mode.Blend.Enabled {
		dp = &c.lineBlend
	}
	return c.recordPrimitive(cmd, dp, []TexturedVertex{tv0, tv1}, 0)
}

// SetDrawArea implements spec.md §6.
func (c *Core) SetDrawArea(tl, br [2]int) {
	c.drawMode.DrawAreaTL = Vec2{X: int32(tl[0]), Y: int32(tl[1])}
	c.drawMode.DrawAreaBR = Vec2{X: int32(br[0]), Y: int32(br[1])}
}

// SetTextureWindow implements spec.md §6.
func (c *Core) SetTextureWindow(mask, offset [2]uint8) {
	c.windowMask, c.windowOffset = mask, offset
	c.drawMode.WindowMask, c.drawMode.WindowOffset = mask, offset
}

// SetDrawMode implements spec.md §6.
func (c *Core) SetDrawMode(texpage [2]int, blend BlendMode, dither, forceMask bool) {
	c.drawMode.Texpage = [2]int32{int32(texpage[0]), int32(texpage[1])}
	c.drawMode.Blend = BlendKind{Enabled: true, Mode: blend}
	c.drawMode.Dither = dither
	c.drawMode.ForceMask = forceMask
}

// DisplayConfig implements spec.md §6.
func (c *Core) DisplayConfig(framePos [2]int, rect DisplayRect, bpp BitDepth) {
	c.display.framePos = framePos
	c.display.rect = rect
	c.display.bpp = bpp
}

// PresentFrame implements spec.md §4.9/§6: renders the 24bpp/15bpp
// scanout of the configured display rectangle into a host-readable
// image, after making sure Native VRAM (the scanout's only data
// source) reflects every draw issued so far.
func (c *Core) PresentFrame() (*image.RGBA, error) {
	pos := [2]int{c.display.framePos[0], c.display.framePos[1]}
	size := [2]int{int(c.display.rect.End.X - c.display.rect.Start.X), int(c.display.rect.End.Y - c.display.rect.Start.Y)}
	if err := c.ensureDownsampled(pos, size); err != nil {
		return nil, err
	}

	n := size[0] * size[1]
	idx, buf, err := c.acquireStaging(int64(n) * 4)
	if err != nil {
		return nil, err
	}

	target, err := c.g.NewImage(gpu.RGBA8Unorm, gpu.Dim2D{Width: size[0], Height: size[1]}, gpu.URenderTarget|gpu.UShaderRead)
	if err != nil {
		return nil, err
	}
	c.batch.pendingImages = append(c.batch.pendingImages, target)
	targetView, err := target.NewView()
	if err != nil {
		return nil, err
	}
	fb, err := c.scanout.pass.NewFB([]gpu.ImageView{targetView}, size[0], size[1])
	if err != nil {
		return nil, err
	}

	cmd, err := c.batch.cmdBuffer()
	if err != nil {
		return nil, err
	}

	vb := c.scanout.constBuf.Bytes()
	packF32(vb, 0, 0, 1, 1)
	fragb := c.scanout.fragConstBuf.Bytes()
	packI32(fragb, int32(pos[0]), int32(pos[1]), int32(size[0]), int32(size[1]))
	packU32(fragb[16:], uint32(c.display.bpp))

	cmd.BeginPass(c.scanout.pass, fb, []gpu.ClearValue{{}})
	cmd.SetPipeline(c.scanout.pl)
	cmd.SetDescTableGraph(c.scanout.table, []int{0})
	cmd.SetViewport(gpu.Viewport{X: 0, Y: 0, Width: float32(size[0]), Height: float32(size[1])})
	cmd.SetScissor(gpu.Scissor{X: 0, Y: 0, Width: size[0], Height: size[1]})
	cmd.Draw(6, 1, 0)
	cmd.EndPass()

	cmd.Barrier(gpu.Barrier{SyncBefore: gpu.SColorOutput, SyncAfter: gpu.SCopy, AccessBefore: gpu.AColorWrite, AccessAfter: gpu.ACopyRead})
	cmd.CopyImgToBuf(&gpu.BufImgCopy{
		Buf: buf, BufOff: 0, Stride: int64(size[0]),
		Img: target, ImgOff: gpu.Off2D{}, Size: gpu.Dim2D{Width: size[0], Height: size[1]},
	})

	c.batch.pendingStaging = append(c.batch.pendingStaging, idx)
	if err := c.batch.flush(c); err != nil {
		return nil, err
	}
	fb.Destroy()
	targetView.Destroy()

	img := image.NewRGBA(image.Rect(0, 0, size[0], size[1]))
	bytes := buf.Bytes()
	for i := 0; i < n; i++ {
		w := binary.LittleEndian.Uint32(bytes[i*4:])
		img.Pix[i*4+0] = byte(w)
		img.Pix[i*4+1] = byte(w >> 8)
		img.Pix[i*4+2] = byte(w >> 16)
		img.Pix[i*4+3] = 0xFF
	}
	return img, nil
}
