// Copyright 2026 The psxgpu Authors. All rights reserved.

package gl

import (
	"fmt"

	glcore "github.com/go-gl/gl/v4.6-core/gl"

	"github.com/vramcore/psxgpu/gpu"
)

func glStage(s gpu.Stage) uint32 {
	switch s {
	case gpu.SVertex:
		return glcore.VERTEX_SHADER
	case gpu.SFragment:
		return glcore.FRAGMENT_SHADER
	default:
		return glcore.COMPUTE_SHADER
	}
}

// shaderCode implements gpu.ShaderCode as a single compiled (but not
// yet linked) GL shader object.
type shaderCode struct {
	id    uint32
	stage gpu.Stage
}

func (g *GPU) NewShaderCode(src string, stage gpu.Stage) (gpu.ShaderCode, error) {
	id := glcore.CreateShader(glStage(stage))
	if id == 0 {
		return nil, checkErr()
	}

	csrc, free := glcore.Strs(src + "\x00")
	length := int32(len(src) + 1)
	glcore.ShaderSource(id, 1, csrc, &length)
	free()

	glcore.CompileShader(id)
	if err := shaderLog(id); err != nil {
		glcore.DeleteShader(id)
		return nil, fmt.Errorf("shader compile: %w", err)
	}
	return &shaderCode{id: id, stage: stage}, nil
}

func (c *shaderCode) Destroy() { glcore.DeleteShader(c.id) }

func shaderLog(id uint32) error {
	var status int32
	glcore.GetShaderiv(id, glcore.COMPILE_STATUS, &status)
	if status != glcore.FALSE {
		return nil
	}
	var logLen int32
	glcore.GetShaderiv(id, glcore.INFO_LOG_LENGTH, &logLen)
	if logLen == 0 {
		return fmt.Errorf("unknown compile error")
	}
	log := make([]byte, logLen)
	glcore.GetShaderInfoLog(id, logLen, nil, &log[0])
	return fmt.Errorf("%s", string(log[:len(log)-1]))
}

func programLog(id uint32) error {
	var status int32
	glcore.GetProgramiv(id, glcore.LINK_STATUS, &status)
	if status != glcore.FALSE {
		return nil
	}
	var logLen int32
	glcore.GetProgramiv(id, glcore.INFO_LOG_LENGTH, &logLen)
	if logLen == 0 {
		return fmt.Errorf("unknown link error")
	}
	log := make([]byte, logLen)
	glcore.GetProgramInfoLog(id, logLen, nil, &log[0])
	return fmt.Errorf("%s", string(log[:len(log)-1]))
}
