// Copyright 2026 The psxgpu Authors. All rights reserved.

package gl

import (
	"fmt"

	glcore "github.com/go-gl/gl/v4.6-core/gl"

	"github.com/vramcore/psxgpu/gpu"
)

// renderPass implements gpu.RenderPass. GL has no render-pass object
// of its own; this just remembers the attachment declarations so
// framebuf construction and SetPipeline's blend/topology setup can be
// validated against them, mirroring the Vulkan-shaped interface with
// the teacher's driver/vk/pass.go.
type renderPass struct {
	att []gpu.Attachment
}

func (g *GPU) NewRenderPass(att []gpu.Attachment, sub []gpu.Subpass) (gpu.RenderPass, error) {
	return &renderPass{att: att}, nil
}

func (p *renderPass) Destroy() {}

func (p *renderPass) NewFB(iv []gpu.ImageView, width, height int) (gpu.Framebuf, error) {
	var id uint32
	glcore.CreateFramebuffers(1, &id)

	drawBufs := make([]uint32, len(iv))
	for i, v := range iv {
		im := v.(*imageView).im
		glcore.NamedFramebufferTexture(id, glcore.COLOR_ATTACHMENT0+uint32(i), im.id, 0)
		drawBufs[i] = glcore.COLOR_ATTACHMENT0 + uint32(i)
	}
	glcore.NamedFramebufferDrawBuffers(id, int32(len(drawBufs)), &drawBufs[0])

	if status := glcore.CheckNamedFramebufferStatus(id, glcore.DRAW_FRAMEBUFFER); status != glcore.FRAMEBUFFER_COMPLETE {
		glcore.DeleteFramebuffers(1, &id)
		return nil, fmt.Errorf("gl: incomplete framebuffer (status 0x%x)", status)
	}
	return &framebuf{id: id, width: width, height: height}, nil
}

type framebuf struct {
	id            uint32
	width, height int
}

func (f *framebuf) Destroy() { glcore.DeleteFramebuffers(1, &f.id) }
