package cpu

import (
	"errors"
	"fmt"
)

var (
	// ErrStackOverflow is returned when a CALL is executed with all 16 stack levels in use.
	ErrStackOverflow = errors.New("stack overflow")
	// ErrStackUnderflow is returned when a RET is executed with an empty stack.
	ErrStackUnderflow = errors.New("stack underflow")
	// ErrProgramHalted is returned when the program counter ran into empty memory,
	// detected as 10 consecutive 0x0000 opcodes.
	ErrProgramHalted = errors.New("program halted")
	// ErrAlreadyRunning is returned by Run when the Chip8 is already running.
	ErrAlreadyRunning = errors.New("chip8 is already running")
)

// RomTooLargeError is returned by Load when a program does not fit into program memory.
type RomTooLargeError struct {
	Size  int
	Limit int
}

func (e *RomTooLargeError) Error() string {
	return fmt.Sprintf("program of %d bytes exceeds the %d bytes of program memory", e.Size, e.Limit)
}
