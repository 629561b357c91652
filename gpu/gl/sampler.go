// Copyright 2026 The psxgpu Authors. All rights reserved.

package gl

import (
	glcore "github.com/go-gl/gl/v4.6-core/gl"

	"github.com/vramcore/psxgpu/gpu"
)

type sampler struct {
	id uint32
}

func glFilter(f gpu.Filter) int32 {
	if f == gpu.FLinear {
		return glcore.LINEAR
	}
	return glcore.NEAREST
}

func glAddrMode(a gpu.AddrMode) int32 {
	if a == gpu.AClamp {
		return glcore.CLAMP_TO_EDGE
	}
	return glcore.REPEAT
}

func (g *GPU) NewSampler(s gpu.Sampling) (gpu.Sampler, error) {
	var id uint32
	glcore.CreateSamplers(1, &id)
	glcore.SamplerParameteri(id, glcore.TEXTURE_MIN_FILTER, glFilter(s.Min))
	glcore.SamplerParameteri(id, glcore.TEXTURE_MAG_FILTER, glFilter(s.Mag))
	glcore.SamplerParameteri(id, glcore.TEXTURE_WRAP_S, glAddrMode(s.AddrU))
	glcore.SamplerParameteri(id, glcore.TEXTURE_WRAP_T, glAddrMode(s.AddrV))
	if err := checkErr(); err != nil {
		glcore.DeleteSamplers(1, &id)
		return nil, err
	}
	return &sampler{id: id}, nil
}

func (s *sampler) Destroy() { glcore.DeleteSamplers(1, &s.id) }
