// Copyright 2026 The psxgpu Authors. All rights reserved.

// Package gl implements the gpu package's interfaces using desktop
// OpenGL 4.6 core profile, via go-gl/gl and a hidden GLFW window for
// context creation (there is no true headless context in desktop
// GL/GLFW; a hidden window is the standard workaround, following
// soypat/glgl's InitWithCurrentWindow33).
package gl

import (
	"errors"
	"runtime"

	glcore "github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/vramcore/psxgpu/gpu"
)

func init() {
	// GLFW event handling must run on the thread that called
	// glfw.Init (GLFW's own requirement, not just good practice for
	// GL context affinity).
	runtime.LockOSThread()
}

const driverName = "opengl"

// Driver implements gpu.Driver over a single hidden GLFW window's GL
// context; the gpu.GPU it opens is this package's GPU type.
type Driver struct {
	window *glfw.Window
	gpu    *GPU
}

func init() {
	gpu.Register(&Driver{})
}

// Name returns the driver name.
func (d *Driver) Name() string { return driverName }

// Open creates the hidden window, makes its context current and
// initializes the function pointers.
func (d *Driver) Open() (gpu.GPU, error) {
	if d.gpu != nil {
		return d.gpu, nil
	}
	if err := glfw.Init(); err != nil {
		return nil, errors.Join(gpu.ErrNotInstalled, err)
	}
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	win, err := glfw.CreateWindow(1, 1, "psxgpu", nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, errors.Join(gpu.ErrNoDevice, err)
	}
	win.MakeContextCurrent()
	if err := glcore.Init(); err != nil {
		win.Destroy()
		glfw.Terminate()
		return nil, errors.Join(gpu.ErrNoDevice, err)
	}
	clearErrors()

	d.window = win
	d.gpu = newGPU(d)
	return d.gpu, nil
}

// Close destroys the window and terminates GLFW.
func (d *Driver) Close() {
	if d.window == nil {
		return
	}
	d.window.Destroy()
	glfw.Terminate()
	d.window = nil
	d.gpu = nil
}
