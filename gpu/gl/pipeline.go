// Copyright 2026 The psxgpu Authors. All rights reserved.

package gl

import (
	"fmt"

	glcore "github.com/go-gl/gl/v4.6-core/gl"

	"github.com/vramcore/psxgpu/gpu"
)

// pipeline implements gpu.Pipeline as a linked GL program plus, for a
// graphics pipeline, a VAO whose attribute layout matches the
// GraphState's Input (one binding per attribute location — draw
// pipelines never interleave fields, see gpu.VertexIn's doc comment).
type pipeline struct {
	program  uint32
	compute  bool
	vao      uint32
	topology uint32
	blend    gpu.ColorBlend
	// strides holds each vertex binding's byte stride, indexed the
	// same way as Input (binding == attribute location == slice
	// index), so SetVertexBuf can pass it through to
	// glVertexArrayVertexBuffer without the caller repeating it.
	strides []int32
}

func glTopology(t gpu.Topology) uint32 {
	switch t {
	case gpu.TTriStrip:
		return glcore.TRIANGLE_STRIP
	case gpu.TLine:
		return glcore.LINES
	default:
		return glcore.TRIANGLES
	}
}

// vertexFmt describes how one gpu.VertexFmt maps to a GL attribute
// format.
type vertexFmt struct {
	size    int32
	typ     uint32
	integer bool
}

func glVertexFmt(f gpu.VertexFmt) vertexFmt {
	switch f {
	case gpu.Int32x2:
		return vertexFmt{2, glcore.INT, true}
	case gpu.Int32x4:
		return vertexFmt{4, glcore.INT, true}
	case gpu.UInt8x4:
		return vertexFmt{4, glcore.UNSIGNED_BYTE, true}
	case gpu.UInt32:
		return vertexFmt{1, glcore.UNSIGNED_INT, true}
	case gpu.UInt32x2:
		return vertexFmt{2, glcore.UNSIGNED_INT, true}
	case gpu.Float32:
		return vertexFmt{1, glcore.FLOAT, false}
	case gpu.Float32x2:
		return vertexFmt{2, glcore.FLOAT, false}
	case gpu.Float32x3:
		return vertexFmt{3, glcore.FLOAT, false}
	default: // gpu.Float32x4
		return vertexFmt{4, glcore.FLOAT, false}
	}
}

func linkProgram(shaders ...gpu.ShaderFunc) (uint32, error) {
	prog := glcore.CreateProgram()
	for _, sf := range shaders {
		glcore.AttachShader(prog, sf.Code.(*shaderCode).id)
	}
	glcore.LinkProgram(prog)
	if err := programLog(prog); err != nil {
		glcore.DeleteProgram(prog)
		return 0, fmt.Errorf("program link: %w", err)
	}
	return prog, nil
}

func (g *GPU) NewPipeline(state any) (gpu.Pipeline, error) {
	switch st := state.(type) {
	case *gpu.GraphState:
		return newGraphPipeline(st)
	case *gpu.CompState:
		return newCompPipeline(st)
	default:
		return nil, fmt.Errorf("gl: unexpected pipeline state type %T", state)
	}
}

func newGraphPipeline(st *gpu.GraphState) (gpu.Pipeline, error) {
	prog, err := linkProgram(st.VertFunc, st.FragFunc)
	if err != nil {
		return nil, err
	}

	var vao uint32
	glcore.CreateVertexArrays(1, &vao)
	strides := make([]int32, len(st.Input))
	for loc, in := range st.Input {
		vf := glVertexFmt(in.Format)
		glcore.EnableVertexArrayAttrib(vao, uint32(loc))
		if vf.integer {
			glcore.VertexArrayAttribIFormat(vao, uint32(loc), vf.size, vf.typ, 0)
		} else {
			glcore.VertexArrayAttribFormat(vao, uint32(loc), vf.size, vf.typ, false, 0)
		}
		glcore.VertexArrayAttribBinding(vao, uint32(loc), uint32(loc))
		glcore.VertexArrayBindingDivisor(vao, uint32(loc), 0)
		strides[loc] = int32(in.Stride)
	}

	return &pipeline{
		program:  prog,
		vao:      vao,
		topology: glTopology(st.Topology),
		blend:    st.Blend,
		strides:  strides,
	}, nil
}

func newCompPipeline(st *gpu.CompState) (gpu.Pipeline, error) {
	prog, err := linkProgram(st.Func)
	if err != nil {
		return nil, err
	}
	return &pipeline{program: prog, compute: true}, nil
}

func (p *pipeline) Destroy() {
	if p.vao != 0 {
		glcore.DeleteVertexArrays(1, &p.vao)
	}
	glcore.DeleteProgram(p.program)
}
