package main

import (
	"context"
	"fmt"
	"io"

	"github.com/go-gl/glfw/v3.2/glfw"
	"github.com/retroenv/retrogolib/log"

	"github.com/mpingram/chip8vm/cpu"
)

// windowFrontend shows the Chip8 screen in a GLFW window and feeds the keypad from it.
type windowFrontend struct {
	chip8  *cpu.Chip8
	keypad *cpu.Keypad
	frames <-chan cpu.Frame
	scale  int
	dump   io.Writer
	logger *log.Logger
}

// run opens the window and processes its events until the window is closed or ctx is
// cancelled. It has to be called from the main thread.
func (f *windowFrontend) run(ctx context.Context) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("initializing GLFW: %w", err)
	}
	defer glfw.Terminate()

	// hints only apply to windows created after them
	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 2)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)

	window, err := glfw.CreateWindow(cpu.DisplayWidth*f.scale, cpu.DisplayHeight*f.scale, "Chip-8", nil, nil)
	if err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	defer window.Destroy()

	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	renderer, err := newOpenGLRenderer()
	if err != nil {
		return err
	}
	renderer.resize(window.GetFramebufferSize())

	input := newGLFWKeyboardInput(window, f.keypad)

	var frame cpu.Frame
	for !window.ShouldClose() {
		select {
		case <-ctx.Done():
			return nil
		case frame = <-f.frames:
		default:
		}

		glfw.PollEvents()
		for _, action := range input.update() {
			f.handle(action, window, frame)
		}

		renderer.draw(frame)
		window.SwapBuffers()
	}

	f.logger.Debug("Window closed")
	return nil
}

func (f *windowFrontend) handle(action metaAction, window *glfw.Window, frame cpu.Frame) {
	switch action {
	case actionPowerOff:
		window.SetShouldClose(true)
	case actionPause:
		f.chip8.Pause()
	case actionResume:
		f.chip8.Resume()
	case actionStep:
		// only a paused Chip8 can be stepped forward
		if f.chip8.IsPaused() {
			f.chip8.Advance()
		}
	case actionDump:
		if _, err := io.WriteString(f.dump, frame.String()); err != nil {
			f.logger.Error("Dumping the screen failed", log.Err(err))
		}
	}
}
