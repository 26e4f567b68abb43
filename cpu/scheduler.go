package cpu

import (
	"context"
	"fmt"
	"time"

	"github.com/retroenv/retrogolib/log"
)

// Run executes the loaded program until ctx is cancelled or the program fails.
//
// Instructions are executed at the clock speed of the Chip8 (540 per second by default),
// paced by a ticker. The context is checked between two instructions, so cancelling it
// never leaves an instruction half done. Run returns ctx.Err() after a cancellation, or the
// error that stopped the program: ErrStackOverflow, ErrStackUnderflow or ErrProgramHalted.
//
// While Run executes, the Chip8 belongs to the goroutine running it. Only Pause, Resume,
// Advance, IsPaused and IsRunning may be called from other goroutines.
func (c *Chip8) Run(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer c.running.Store(false)

	clock := time.NewTicker(c.cyclePeriod())
	defer clock.Stop()

	c.logger.Info("Chip8 started", log.Int("clock", c.clockSpeed))

	for {
		// wait for the clock to tick
		select {
		case <-ctx.Done():
			c.logger.Info("Chip8 stopped", log.Int("cycles", int(c.cycles)))
			return ctx.Err()
		case <-clock.C:
		}

		if c.paused.Load() && !c.takeStepRequest() {
			continue
		}

		if err := c.Step(); err != nil {
			c.logger.Error("Chip8 stopped", log.Err(err), log.Hex("pc", c.pc))
			return err
		}
	}
}

// cyclePeriod returns the duration of a single instruction cycle.
func (c *Chip8) cyclePeriod() time.Duration {
	return time.Second / time.Duration(c.clockSpeed)
}

// Step executes a single cycle of the Chip8: it latches the keyboard state, executes the
// next instruction, counts down the timers on every timer tick and hands the screen to the
// display and the beep to the speaker if the cycle produced them.
//
// Step returns an error if the instruction could not be executed. A failing instruction
// leaves registers and memory untouched, but the keyboard latch and the empty opcode count
// of the cycle are already updated. Step must not be called while Run is executing.
func (c *Chip8) Step() error {
	c.latchKeys()

	if err := c.cycle(); err != nil {
		return err
	}

	c.cycles++
	if c.cycles%c.timerDivider == 0 {
		c.tickTimers()
	}

	if c.drawFlag {
		c.refreshScreen()
		c.drawFlag = false
	}
	if c.beepFlag {
		if c.speaker != nil {
			c.speaker.Beep()
		}
		c.logger.Debug("Beep")
		c.beepFlag = false
	}
	return nil
}

// cycle fetches and executes the next instruction, unless a Fx0A instruction is still
// waiting for a key press.
func (c *Chip8) cycle() error {
	if c.waitingForKey {
		key, ok := c.keys.newlyPressed(c.prevKeys)
		if !ok {
			return nil
		}
		c.v[c.waitRegister] = byte(key)
		c.waitingForKey = false
		c.next()
		return nil
	}

	op := c.readOpcode(c.pc)
	if op == 0 {
		c.emptyOpcodes++
		if c.emptyOpcodes >= emptyOpcodeLimit {
			return fmt.Errorf("%d consecutive empty opcodes up to %03x: %w",
				c.emptyOpcodes, c.pc, ErrProgramHalted)
		}
	} else {
		c.emptyOpcodes = 0
	}

	// exec will handle incrementing and/or moving the program counter.
	return c.exec(op)
}

func (c *Chip8) latchKeys() {
	c.prevKeys = c.keys
	if c.keyboard != nil {
		c.keys = c.keyboard.Poll()
	}
}

// tickTimers counts down the delay and sound timers, it is called at 60hz.
func (c *Chip8) tickTimers() {
	if c.dt > 0 {
		c.dt--
	}
	if c.st > 0 {
		c.st--
		// the speaker beeps once, when the sound timer runs out
		if c.st == 0 {
			c.beepFlag = true
		}
	}
}

// refreshScreen hands a copy of the screen to the display without ever waiting for it.
// A frame the display did not pick up yet is replaced by the current one.
func (c *Chip8) refreshScreen() {
	if c.videoOut == nil {
		return
	}

	frame := c.video
	select {
	case c.videoOut <- frame:
		return
	default:
	}

	// drop the stale frame and try once more; the display may have taken it meanwhile.
	select {
	case <-c.videoOut:
	default:
	}
	select {
	case c.videoOut <- frame:
	default:
		c.logger.Debug("Dropped frame")
	}
}

// Pause stops a running Chip8 after the currently executing instruction finishes,
// without leaving Run. Timers are paused too. To continue, call Resume.
func (c *Chip8) Pause() {
	if !c.paused.Swap(true) {
		c.logger.Debug("Chip8 paused")
	}
}

// Resume puts a paused Chip8 back into running state.
// If the Chip8 is not paused, calls to Resume have no effect.
func (c *Chip8) Resume() {
	c.stepRequests.Store(0)
	if c.paused.Swap(false) {
		c.logger.Debug("Chip8 resumed")
	}
}

// Advance asks a paused Chip8 to execute one cycle on the next clock tick.
// It has no effect while the Chip8 is not paused.
func (c *Chip8) Advance() {
	if c.paused.Load() {
		c.stepRequests.Add(1)
	}
}

// IsPaused returns true if the Chip8 is paused.
func (c *Chip8) IsPaused() bool {
	return c.paused.Load()
}

// IsRunning returns true while Run is executing.
func (c *Chip8) IsRunning() bool {
	return c.running.Load()
}

func (c *Chip8) takeStepRequest() bool {
	for {
		n := c.stepRequests.Load()
		if n <= 0 {
			return false
		}
		if c.stepRequests.CompareAndSwap(n, n-1) {
			return true
		}
	}
}
