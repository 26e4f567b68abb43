package main

import (
	"io"

	"github.com/retroenv/retrogolib/log"
)

// bellSpeaker plays the Chip8 buzzer as the terminal bell.
type bellSpeaker struct {
	w      io.Writer
	logger *log.Logger
}

func newBellSpeaker(w io.Writer, logger *log.Logger) *bellSpeaker {
	return &bellSpeaker{w: w, logger: logger}
}

// Beep implements cpu.Speaker.
func (s *bellSpeaker) Beep() {
	if _, err := io.WriteString(s.w, "\a"); err != nil {
		s.logger.Debug("Ringing the bell failed", log.Err(err))
	}
}
