package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/retroenv/retrogolib/log"

	"github.com/mpingram/chip8vm/cpu"
)

const (
	defaultScale = 10
	maxScale     = 40
)

type options struct {
	rom string

	seed    int64
	seedSet bool
	clock   int
	scale   int

	term    bool
	disasm  bool
	trace   bool
	debug   bool
	quiet   bool
	version bool
}

// usageError represents an error that should show usage information.
type usageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *usageError) Error() string {
	return e.msg
}

func (e *usageError) showUsage(w io.Writer) {
	if e.msg != "" {
		fmt.Fprintf(w, "%s\n\n", e.msg)
	}
	fmt.Fprintf(w, "usage: chip8vm [options] <ROM file>\n\n")
	e.flags.SetOutput(w)
	e.flags.PrintDefaults()
	fmt.Fprintln(w)
}

// parseFlags parses the command line, args[0] being the program name.
func parseFlags(args []string) (options, error) {
	flags := flag.NewFlagSet(args[0], flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	opts := options{}
	flags.Int64Var(&opts.seed, "seed", 0, "seed of the random number generator (default: current time)")
	flags.IntVar(&opts.clock, "clock", cpu.DefaultClockSpeed, "instructions executed per second")
	flags.IntVar(&opts.scale, "scale", defaultScale, "size of a Chip8 pixel in window pixels")
	flags.BoolVar(&opts.term, "term", false, "render the screen in the terminal instead of a window")
	flags.BoolVar(&opts.disasm, "disasm", false, "print an assembly listing of the ROM and exit")
	flags.BoolVar(&opts.trace, "trace", false, "log every executed instruction, requires -debug")
	flags.BoolVar(&opts.debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.quiet, "q", false, "perform operations quietly")
	flags.BoolVar(&opts.version, "version", false, "print the version and exit")

	if err := flags.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, &usageError{flags: flags}
		}
		return opts, &usageError{flags: flags, msg: err.Error()}
	}
	flags.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			opts.seedSet = true
		}
	})

	if opts.version {
		return opts, nil
	}

	rest := flags.Args()
	switch {
	case len(rest) == 0:
		return opts, &usageError{flags: flags}
	case len(rest) > 1:
		return opts, &usageError{
			flags: flags,
			msg:   fmt.Sprintf("unexpected argument %s after the ROM file, options have to be passed before it", rest[1]),
		}
	}
	opts.rom = rest[0]

	if opts.clock < 1 || opts.clock > cpu.MaxClockSpeed {
		return opts, fmt.Errorf("invalid clock speed %d: must be between 1 and %d instructions per second",
			opts.clock, cpu.MaxClockSpeed)
	}
	if opts.scale < 1 || opts.scale > maxScale {
		return opts, fmt.Errorf("invalid scale %d: must be between 1 and %d", opts.scale, maxScale)
	}
	return opts, nil
}

// chip8Options converts the command line options to Chip8 options.
func chip8Options(opts options, logger *log.Logger) []cpu.Option {
	chip8Opts := []cpu.Option{
		cpu.WithLogger(logger),
		cpu.WithClockSpeed(opts.clock),
		cpu.WithTrace(opts.trace),
	}
	if opts.seedSet {
		chip8Opts = append(chip8Opts, cpu.WithSeed(opts.seed))
	}
	return chip8Opts
}

// createLogger creates a logger with appropriate settings.
func createLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
