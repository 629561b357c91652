// Copyright 2026 The psxgpu Authors. All rights reserved.

// Command psxgpudemo drives package core against the gpu/gl backend
// with a scripted sequence of VRAM operations and writes the result
// of PresentFrame to a PNG. It exists purely to exercise the OpenGL
// backend during development; it is not part of the core's public
// contract, has no CPU/SPU emulation of any kind, and never will.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/vramcore/psxgpu/core"
	"github.com/vramcore/psxgpu/gpu"
	_ "github.com/vramcore/psxgpu/gpu/gl"
)

func main() {
	scale := flag.Int("scale", 1, "resolution scale S, in [1,16]")
	headless := flag.Bool("headless", true, "exit immediately after writing -out instead of idling so a GL debugger can attach to the hidden context")
	out := flag.String("out", "frame.png", "file to write the presented frame to")
	flag.Parse()

	if err := run(*scale, *headless, *out); err != nil {
		log.Fatal(err)
	}
}

func run(scale int, headless bool, out string) error {
	drv, err := findDriver("opengl")
	if err != nil {
		return err
	}

	g, err := drv.Open()
	if err != nil {
		return fmt.Errorf("opening %s driver: %w", drv.Name(), err)
	}
	defer drv.Close()

	c, err := core.New(g, core.Options{Scale: scale})
	if err != nil {
		return fmt.Errorf("core.New: %w", err)
	}

	if err := c.FillRect([2]int{0, 0}, [2]int{1024, 512}, 0); err != nil {
		return fmt.Errorf("clearing VRAM: %w", err)
	}
	if err := c.FillRect([2]int{64, 64}, [2]int{256, 128}, 0x7c1f); err != nil {
		return fmt.Errorf("FillRect: %w", err)
	}
	c.SetDrawArea([2]int{0, 0}, [2]int{1023, 511})
	c.DisplayConfig([2]int{0, 0}, core.DisplayRect{
		Start:  core.Vec2{X: 0, Y: 0},
		Offset: core.Vec2{X: 0, Y: 0},
		End:    core.Vec2{X: 640, Y: 480},
	}, core.Bpp15)

	img, err := c.PresentFrame()
	if err != nil {
		return fmt.Errorf("PresentFrame: %w", err)
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encoding %s: %w", out, err)
	}
	log.Printf("wrote %s (%dx%d)", out, img.Rect.Dx(), img.Rect.Dy())

	if !headless {
		deadline := time.Now().Add(5 * time.Second)
		for time.Now().Before(deadline) {
			glfw.PollEvents()
			time.Sleep(16 * time.Millisecond)
		}
	}
	return nil
}

func findDriver(name string) (gpu.Driver, error) {
	for _, d := range gpu.Drivers() {
		if d.Name() == name {
			return d, nil
		}
	}
	return nil, fmt.Errorf("no %q driver registered", name)
}
