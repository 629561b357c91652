// Copyright 2026 The psxgpu Authors. All rights reserved.

package gl

import (
	glcore "github.com/go-gl/gl/v4.6-core/gl"

	"github.com/vramcore/psxgpu/gpu"
)

// GPU implements gpu.GPU over the Driver's GL context. Every object it
// creates (buffers, images, pipelines, ...) is a thin wrapper around a
// GL name; there is no separate device/queue abstraction because a
// desktop GL context already serializes all submitted work itself.
type GPU struct {
	driver *Driver
	limits gpu.Limits
}

func newGPU(d *Driver) *GPU {
	return &GPU{driver: d, limits: queryLimits()}
}

func (g *GPU) Driver() gpu.Driver { return g.driver }

// Commit runs the command buffers in cb. Because every cmdBuffer
// method already issues its GL calls as it records (see cmdBuffer's
// doc in cmd.go), there is nothing left to submit: Commit only needs to
// make the GPU's work, including writes through persistently-mapped
// buffers, visible to the caller before signaling ch. glFinish (rather
// than a fence) is adequate here since core.Core never keeps more than
// one command buffer in flight.
func (g *GPU) Commit(cb []gpu.CmdBuffer, ch chan<- error) {
	glcore.Finish()
	err := checkErr()
	for _, c := range cb {
		c.(*cmdBuffer).recording = false
	}
	ch <- err
}

func (g *GPU) NewCmdBuffer() (gpu.CmdBuffer, error) {
	return &cmdBuffer{g: g}, nil
}

func (g *GPU) Limits() gpu.Limits { return g.limits }

// queryLimits reads back the handful of GL implementation limits that
// gpu.Limits needs. psxgpu never approaches any driver's real ceiling
// here (its descriptor counts and dispatch sizes are fixed by the
// shaders in package shaders), so most of these are read once at
// Driver.Open and never revisited.
func queryLimits() gpu.Limits {
	var maxTex, maxUBO, maxSSBO, maxImageUnits, maxTexUnits, maxColorAtt, maxVertexAttrib int32
	glcore.GetIntegerv(glcore.MAX_TEXTURE_SIZE, &maxTex)
	glcore.GetIntegerv(glcore.MAX_UNIFORM_BLOCK_SIZE, &maxUBO)
	glcore.GetIntegerv(glcore.MAX_SHADER_STORAGE_BLOCK_SIZE, &maxSSBO)
	glcore.GetIntegerv(glcore.MAX_IMAGE_UNITS, &maxImageUnits)
	glcore.GetIntegerv(glcore.MAX_TEXTURE_IMAGE_UNITS, &maxTexUnits)
	glcore.GetIntegerv(glcore.MAX_COLOR_ATTACHMENTS, &maxColorAtt)
	glcore.GetIntegerv(glcore.MAX_VERTEX_ATTRIBS, &maxVertexAttrib)

	var workGroups [3]int32
	for i := range workGroups {
		glcore.GetIntegeri_v(glcore.MAX_COMPUTE_WORK_GROUP_COUNT, uint32(i), &workGroups[i])
	}

	return gpu.Limits{
		MaxImage2D:        int(maxTex),
		MaxDescHeaps:      4,
		MaxDBuffer:        int(maxSSBO),
		MaxDImage:         int(maxImageUnits),
		MaxDConstant:      int(maxUBO),
		MaxDTexture:       int(maxTexUnits),
		MaxDSampler:       int(maxTexUnits),
		MaxDBufferRange:   int64(maxSSBO),
		MaxDConstantRange: int64(maxUBO),
		MaxColorTargets:   int(maxColorAtt),
		MaxViewports:      1,
		MaxVertexIn:       int(maxVertexAttrib),
		MaxDispatch:       [3]int{int(workGroups[0]), int(workGroups[1]), int(workGroups[2])},
		// GL_ARB_blend_func_extended (SRC1_* blend factors) has been
		// part of core GL since 3.3, so every 4.6 core context has it.
		DualSourceBlend: true,
		MaxConstantSize: int64(maxUBO),
	}
}
