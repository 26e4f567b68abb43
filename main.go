// Package main implements a Chip-8 emulator that runs a ROM in a window or a terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"

	"github.com/mpingram/chip8vm/cpu"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func init() {
	// GLFW and OpenGL calls have to be made from the main thread
	runtime.LockOSThread()
}

func main() {
	opts, err := parseFlags(os.Args)
	if err != nil {
		logger := createLogger(opts.debug, opts.quiet)
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			printBanner(logger, opts)
			usageErr.showUsage(os.Stdout)
		} else {
			logger.Error("Invalid option", log.Err(err))
		}
		os.Exit(1)
	}

	if opts.version {
		fmt.Printf("version: %s\n", buildinfo.Version(version, commit, date))
		return
	}

	logger := createLogger(opts.debug, opts.quiet)
	printBanner(logger, opts)

	if err := run(opts, logger); err != nil {
		logger.Error("Emulation failed", log.Err(err))
		os.Exit(1)
	}
}

func printBanner(logger *log.Logger, opts options) {
	if opts.quiet {
		return
	}
	logger.Info("chip8vm", log.String("version", buildinfo.Version(version, commit, date)))
}

func run(opts options, logger *log.Logger) error {
	program, err := os.ReadFile(opts.rom)
	if err != nil {
		return fmt.Errorf("reading ROM file: %w", err)
	}

	if opts.disasm {
		return cpu.Disassemble(os.Stdout, program)
	}

	ctx, cancel := context.WithCancel(app.Context())
	defer cancel()

	frames := make(chan cpu.Frame, 1)
	keypad := cpu.NewKeypad()

	// the terminal has no key input, the Chip8 runs without a keyboard there
	var keyboard cpu.Keyboard
	if !opts.term {
		keyboard = keypad
	}

	chip8 := cpu.NewChip8(keyboard, newBellSpeaker(os.Stdout, logger), frames, chip8Options(opts, logger)...)
	if err := chip8.Load(program); err != nil {
		return fmt.Errorf("loading ROM file '%s': %w", opts.rom, err)
	}

	runErr := make(chan error, 1)
	go func() {
		err := chip8.Run(ctx)
		// a stopped Chip8 closes the front end
		cancel()
		runErr <- err
	}()

	var frontendErr error
	if opts.term {
		frontend := &terminalFrontend{frames: frames}
		frontendErr = frontend.run(ctx)
	} else {
		frontend := &windowFrontend{
			chip8:  chip8,
			keypad: keypad,
			frames: frames,
			scale:  opts.scale,
			dump:   os.Stdout,
			logger: logger,
		}
		frontendErr = frontend.run(ctx)
	}
	cancel()

	err = <-runErr
	if frontendErr != nil {
		return frontendErr
	}
	if errors.Is(err, context.Canceled) {
		logger.Info("Emulation stopped")
		return nil
	}
	return err
}
