// Copyright 2026 The psxgpu Authors. All rights reserved.

package gl

import (
	"unsafe"

	glcore "github.com/go-gl/gl/v4.6-core/gl"

	"github.com/vramcore/psxgpu/gpu"
)

// cmdBuffer implements gpu.CmdBuffer by issuing GL calls immediately
// as each method is called, rather than recording them for later
// replay. A deferred command-buffer object earns its keep on APIs
// with multiple independent queues; a single desktop GL context has
// exactly one, already serialized by the driver, and core.Core never
// keeps more than one cmdBuffer in flight (see core/batch.go), so replaying
// later would only add bookkeeping without changing what runs or when.
// GPU.Commit, accordingly, is just a synchronization point rather than
// a submission.
type cmdBuffer struct {
	g         *GPU
	recording bool

	pl   *pipeline
	pass *renderPass

	idxBuf *buffer
	idxOff int64
	idxFmt gpu.IndexFmt
}

func (cb *cmdBuffer) Destroy() {}

func (cb *cmdBuffer) Begin() error {
	cb.recording = true
	return nil
}

func (cb *cmdBuffer) IsRecording() bool { return cb.recording }

func (cb *cmdBuffer) BeginPass(pass gpu.RenderPass, fb gpu.Framebuf, clear []gpu.ClearValue) {
	rp := pass.(*renderPass)
	f := fb.(*framebuf)
	glcore.BindFramebuffer(glcore.DRAW_FRAMEBUFFER, f.id)
	glcore.Viewport(0, 0, int32(f.width), int32(f.height))
	for i, att := range rp.att {
		if att.Load != gpu.LClear {
			continue
		}
		c := clear[i].Color
		if att.Format == gpu.R32Uint {
			u := [4]uint32{uint32(c[0]), uint32(c[1]), uint32(c[2]), uint32(c[3])}
			glcore.ClearNamedFramebufferuiv(f.id, glcore.COLOR, int32(i), &u[0])
		} else {
			glcore.ClearNamedFramebufferfv(f.id, glcore.COLOR, int32(i), &c[0])
		}
	}
	cb.pass = rp
}

func (cb *cmdBuffer) EndPass() {
	glcore.BindFramebuffer(glcore.DRAW_FRAMEBUFFER, 0)
	cb.pass = nil
}

func (cb *cmdBuffer) BeginWork() {}
func (cb *cmdBuffer) EndWork()   {}

func (cb *cmdBuffer) BeginBlit() {}
func (cb *cmdBuffer) EndBlit()   {}

func glBlendOp(op gpu.BlendOp) uint32 {
	switch op {
	case gpu.BSubtract:
		return glcore.FUNC_SUBTRACT
	case gpu.BRevSubtract:
		return glcore.FUNC_REVERSE_SUBTRACT
	default:
		return glcore.FUNC_ADD
	}
}

func glBlendFac(f gpu.BlendFac) uint32 {
	switch f {
	case gpu.BOne:
		return glcore.ONE
	case gpu.BSrc1Color:
		return glcore.SRC1_COLOR
	case gpu.BInvSrc1Color:
		return glcore.ONE_MINUS_SRC1_COLOR
	case gpu.BSrc1Alpha:
		return glcore.SRC1_ALPHA
	case gpu.BInvSrc1Alpha:
		return glcore.ONE_MINUS_SRC1_ALPHA
	default:
		return glcore.ZERO
	}
}

// applyBlend sets the color blend state. Alpha always uses a
// separate, fixed replace (ONE/ZERO, FUNC_ADD): spec.md §4.8's "Mask
// bit on write" requires the render target's alpha blend to be
// "replace" regardless of the color blend mode, so the mask bit a
// fragment emits (shaders/draw.frag.glsl's oColor.a) is never
// attenuated by whatever color-channel blend equation is active.
func applyBlend(b gpu.ColorBlend) {
	if !b.Blend {
		glcore.Disable(glcore.BLEND)
		return
	}
	glcore.Enable(glcore.BLEND)
	glcore.BlendEquationSeparate(glBlendOp(b.Op), glcore.FUNC_ADD)
	glcore.BlendFuncSeparate(glBlendFac(b.SrcFac), glBlendFac(b.DstFac), glcore.ONE, glcore.ZERO)
}

func (cb *cmdBuffer) SetPipeline(pl gpu.Pipeline) {
	p := pl.(*pipeline)
	cb.pl = p
	glcore.UseProgram(p.program)
	if !p.compute {
		glcore.BindVertexArray(p.vao)
		applyBlend(p.blend)
	}
}

func (cb *cmdBuffer) SetViewport(vp gpu.Viewport) {
	glcore.Viewport(int32(vp.X), int32(vp.Y), int32(vp.Width), int32(vp.Height))
}

func (cb *cmdBuffer) SetScissor(s gpu.Scissor) {
	glcore.Enable(glcore.SCISSOR_TEST)
	glcore.Scissor(int32(s.X), int32(s.Y), int32(s.Width), int32(s.Height))
}

func (cb *cmdBuffer) SetVertexBuf(start int, buf []gpu.Buffer, off []int64) {
	for i, b := range buf {
		loc := start + i
		var stride int32
		if loc < len(cb.pl.strides) {
			stride = cb.pl.strides[loc]
		}
		glcore.VertexArrayVertexBuffer(cb.pl.vao, uint32(loc), b.(*buffer).id, int(off[i]), stride)
	}
}

func (cb *cmdBuffer) SetIndexBuf(format gpu.IndexFmt, buf gpu.Buffer, off int64) {
	cb.idxBuf = buf.(*buffer)
	cb.idxOff = off
	cb.idxFmt = format
	glcore.VertexArrayElementBuffer(cb.pl.vao, cb.idxBuf.id)
}

// bindDescTable applies every descriptor of every heap copy named in
// copies to GL's global binding points. Binding points are not
// separated by graphics/compute stage in GL, so the same logic serves
// both SetDescTableGraph and SetDescTableComp; shaders.*.glsl's
// explicit layout(binding=N) qualifiers are what makes d.Nr meaningful
// without a name lookup.
func bindDescTable(t *descTable, copies []int) {
	for i, h := range t.heaps {
		c := h.cpy[copies[i]]
		for _, d := range h.descs {
			switch d.Type {
			case gpu.DConstant:
				for j, bb := range c.buffers[d.Nr] {
					glcore.BindBufferRange(glcore.UNIFORM_BUFFER, uint32(d.Nr+j), bb.id, int(bb.off), int(bb.sz))
				}
			case gpu.DBuffer:
				for j, bb := range c.buffers[d.Nr] {
					glcore.BindBufferRange(glcore.SHADER_STORAGE_BUFFER, uint32(d.Nr+j), bb.id, int(bb.off), int(bb.sz))
				}
			case gpu.DImage:
				for j, im := range c.images[d.Nr] {
					glcore.BindImageTexture(uint32(d.Nr+j), im.id, 0, false, 0, glcore.READ_WRITE, glInternalFormat(im.format))
				}
			case gpu.DTexture:
				for j, im := range c.textures[d.Nr] {
					glcore.BindTextureUnit(uint32(d.Nr+j), im.id)
				}
			case gpu.DSampler:
				for j, s := range c.samplers[d.Nr] {
					glcore.BindSampler(uint32(d.Nr+j), s.id)
				}
			}
		}
	}
}

func (cb *cmdBuffer) SetDescTableGraph(table gpu.DescTable, heapCopy []int) {
	bindDescTable(table.(*descTable), heapCopy)
}

func (cb *cmdBuffer) SetDescTableComp(table gpu.DescTable, heapCopy []int) {
	bindDescTable(table.(*descTable), heapCopy)
}

func (cb *cmdBuffer) Draw(vertCount, instCount, baseVert int) {
	glcore.DrawArraysInstanced(cb.pl.topology, int32(baseVert), int32(vertCount), int32(instCount))
}

func (cb *cmdBuffer) DrawIndexed(idxCount, instCount, baseIdx, vertOff int) {
	idxType := uint32(glcore.UNSIGNED_INT)
	elemSize := 4
	if cb.idxFmt == gpu.Index16 {
		idxType = glcore.UNSIGNED_SHORT
		elemSize = 2
	}
	offset := uintptr(cb.idxOff) + uintptr(baseIdx*elemSize)
	glcore.DrawElementsInstancedBaseVertex(cb.pl.topology, int32(idxCount), idxType, unsafe.Pointer(offset), int32(instCount), int32(vertOff))
}

func (cb *cmdBuffer) Dispatch(grpCountX, grpCountY, grpCountZ int) {
	glcore.DispatchCompute(uint32(grpCountX), uint32(grpCountY), uint32(grpCountZ))
}

func (cb *cmdBuffer) CopyBuffer(param *gpu.BufferCopy) {
	glcore.CopyNamedBufferSubData(param.From.(*buffer).id, param.To.(*buffer).id, int(param.FromOff), int(param.ToOff), int(param.Size))
}

func (cb *cmdBuffer) CopyImage(param *gpu.ImageCopy) {
	from := param.From.(*image)
	to := param.To.(*image)
	glcore.CopyImageSubData(
		from.id, glcore.TEXTURE_2D, 0, int32(param.FromOff.X), int32(param.FromOff.Y), 0,
		to.id, glcore.TEXTURE_2D, 0, int32(param.ToOff.X), int32(param.ToOff.Y), 0,
		int32(param.Size.Width), int32(param.Size.Height), 1,
	)
}

// glPixelTransfer returns the client format/type pair GL needs to
// interpret a buffer's bytes as pixels of pf, for CopyBufToImg and
// CopyImgToBuf.
func glPixelTransfer(pf gpu.PixelFmt) (format, typ uint32) {
	if pf == gpu.R32Uint {
		return glcore.RED_INTEGER, glcore.UNSIGNED_INT
	}
	return glcore.RGBA, glcore.UNSIGNED_BYTE
}

func (cb *cmdBuffer) CopyBufToImg(param *gpu.BufImgCopy) {
	im := param.Img.(*image)
	format, typ := glPixelTransfer(im.format)
	glcore.BindBuffer(glcore.PIXEL_UNPACK_BUFFER, param.Buf.(*buffer).id)
	glcore.PixelStorei(glcore.UNPACK_ROW_LENGTH, int32(param.Stride))
	glcore.TextureSubImage2D(im.id, 0, int32(param.ImgOff.X), int32(param.ImgOff.Y),
		int32(param.Size.Width), int32(param.Size.Height), format, typ, unsafe.Pointer(uintptr(param.BufOff)))
	glcore.PixelStorei(glcore.UNPACK_ROW_LENGTH, 0)
	glcore.BindBuffer(glcore.PIXEL_UNPACK_BUFFER, 0)
}

func (cb *cmdBuffer) CopyImgToBuf(param *gpu.BufImgCopy) {
	im := param.Img.(*image)
	format, typ := glPixelTransfer(im.format)
	b := param.Buf.(*buffer)
	glcore.BindBuffer(glcore.PIXEL_PACK_BUFFER, b.id)
	glcore.PixelStorei(glcore.PACK_ROW_LENGTH, int32(param.Stride))
	glcore.GetTextureSubImage(im.id, 0, int32(param.ImgOff.X), int32(param.ImgOff.Y), 0,
		int32(param.Size.Width), int32(param.Size.Height), 1,
		format, typ, int32(b.size-param.BufOff), unsafe.Pointer(uintptr(param.BufOff)))
	glcore.PixelStorei(glcore.PACK_ROW_LENGTH, 0)
	glcore.BindBuffer(glcore.PIXEL_PACK_BUFFER, 0)
}

func (cb *cmdBuffer) Fill(buf gpu.Buffer, off int64, value byte, size int64) {
	b := buf.(*buffer)
	glcore.ClearNamedBufferSubData(b.id, glcore.R8, int(off), int(size), glcore.RED, glcore.UNSIGNED_BYTE, unsafe.Pointer(&value))
}

// Barrier always issues a full memory barrier. GL's barrier bits are
// finer-grained than gpu.Sync/gpu.Access, and psxgpu's draw pipeline
// never calls Barrier often enough for the coarser bound to matter.
func (cb *cmdBuffer) Barrier(b gpu.Barrier) {
	glcore.MemoryBarrier(glcore.ALL_BARRIER_BITS)
}

func (cb *cmdBuffer) End() error {
	cb.recording = false
	return checkErr()
}

func (cb *cmdBuffer) Reset() error {
	cb.recording = false
	cb.pl = nil
	cb.pass = nil
	cb.idxBuf = nil
	return nil
}
