package main

import (
	"context"
	"io"
	"strings"
	"time"

	tm "github.com/buger/goterm"

	"github.com/mpingram/chip8vm/cpu"
)

// terminalRefreshRate is the number of times per second the terminal is redrawn at most.
const terminalRefreshRate = 30

// terminalFrontend prints the Chip8 screen to the terminal. It has no keyboard input.
type terminalFrontend struct {
	frames <-chan cpu.Frame
}

// run redraws the terminal whenever a new frame arrived, until ctx is cancelled.
func (f *terminalFrontend) run(ctx context.Context) error {
	refresh := time.NewTicker(time.Second / terminalRefreshRate)
	defer refresh.Stop()

	var frame cpu.Frame
	dirty := true
	for {
		select {
		case <-ctx.Done():
			return nil
		case frame = <-f.frames:
			dirty = true
		case <-refresh.C:
			if !dirty {
				continue
			}
			tm.Clear()
			tm.MoveCursor(1, 1)
			if err := writeFrame(tm.Screen, frame); err != nil {
				return err
			}
			tm.Flush()
			dirty = false
		}
	}
}

// writeFrame writes the frame with every pixel two characters wide, so the screen keeps
// its proportions in a terminal font.
func writeFrame(w io.Writer, frame cpu.Frame) error {
	var sb strings.Builder
	for y := 0; y < cpu.DisplayHeight; y++ {
		for x := 0; x < cpu.DisplayWidth; x++ {
			if frame.Pixel(x, y) {
				sb.WriteString("██")
			} else {
				sb.WriteString("  ")
			}
		}
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
