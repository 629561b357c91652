// Copyright 2026 The psxgpu Authors. All rights reserved.

package gl

import (
	glcore "github.com/go-gl/gl/v4.6-core/gl"

	"github.com/vramcore/psxgpu/gpu"
)

func glInternalFormat(pf gpu.PixelFmt) uint32 {
	switch pf {
	case gpu.R32Uint:
		return glcore.R32UI
	default: // gpu.RGBA8Unorm
		return glcore.RGBA8
	}
}

// image implements gpu.Image as an immutable-storage 2D texture
// (glTextureStorage2D), so the same object can serve as a storage
// image (imageLoad/imageStore), a sampled texture and a framebuffer
// color attachment, whichever a given pass needs.
type image struct {
	id     uint32
	format gpu.PixelFmt
	width  int
	height int
}

func (g *GPU) NewImage(pf gpu.PixelFmt, size gpu.Dim2D, usg gpu.Usage) (gpu.Image, error) {
	var id uint32
	glcore.CreateTextures(glcore.TEXTURE_2D, 1, &id)
	glcore.TextureStorage2D(id, 1, glInternalFormat(pf), int32(size.Width), int32(size.Height))
	if err := checkErr(); err != nil {
		glcore.DeleteTextures(1, &id)
		return nil, err
	}
	glcore.TextureParameteri(id, glcore.TEXTURE_MIN_FILTER, glcore.NEAREST)
	glcore.TextureParameteri(id, glcore.TEXTURE_MAG_FILTER, glcore.NEAREST)
	glcore.TextureParameteri(id, glcore.TEXTURE_WRAP_S, glcore.REPEAT)
	glcore.TextureParameteri(id, glcore.TEXTURE_WRAP_T, glcore.REPEAT)
	return &image{id: id, format: pf, width: size.Width, height: size.Height}, nil
}

func (im *image) NewView() (gpu.ImageView, error) {
	return &imageView{im: im}, nil
}

func (im *image) Destroy() { glcore.DeleteTextures(1, &im.id) }

// imageView has no separate GL object (none of this core's images
// need mip- or layer-slicing), but the type exists to satisfy
// gpu.ImageView and to carry the underlying image to bind calls.
type imageView struct {
	im *image
}

func (v *imageView) Destroy() {}
