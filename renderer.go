package main

import (
	"fmt"

	"github.com/go-gl/gl/v2.1/gl"

	"github.com/mpingram/chip8vm/cpu"
)

// openGLRenderer draws Chip8 frames into the current OpenGL context of a window.
// The projection maps one unit to one Chip8 pixel, so a frame always fills the window.
type openGLRenderer struct{}

// newOpenGLRenderer has to be called after the window context was made current,
// on the thread that owns the context.
func newOpenGLRenderer() (*openGLRenderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("initializing OpenGL: %w", err)
	}

	gl.MatrixMode(gl.PROJECTION)
	gl.LoadIdentity()
	gl.Ortho(0, cpu.DisplayWidth, cpu.DisplayHeight, 0, -1, 1)
	gl.MatrixMode(gl.MODELVIEW)
	gl.LoadIdentity()
	gl.ClearColor(0, 0, 0, 1)

	return &openGLRenderer{}, nil
}

// resize adapts the viewport to the framebuffer size of the window.
func (r *openGLRenderer) resize(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (r *openGLRenderer) draw(frame cpu.Frame) {
	gl.Clear(gl.COLOR_BUFFER_BIT)

	vertices := pixelQuads(frame)
	if len(vertices) == 0 {
		return
	}

	gl.Color3f(1, 1, 1)
	gl.Begin(gl.QUADS)
	for i := 0; i < len(vertices); i += 2 {
		gl.Vertex2f(vertices[i], vertices[i+1])
	}
	gl.End()
}

// pixelQuads returns the corners of a unit square for every lit pixel of the frame,
// as x,y pairs in clockwise order starting at the top left corner.
func pixelQuads(frame cpu.Frame) []float32 {
	var vertices []float32
	for y := 0; y < cpu.DisplayHeight; y++ {
		for x := 0; x < cpu.DisplayWidth; x++ {
			if !frame.Pixel(x, y) {
				continue
			}
			left, top := float32(x), float32(y)
			vertices = append(vertices,
				left, top,
				left+1, top,
				left+1, top+1,
				left, top+1,
			)
		}
	}
	return vertices
}
