package cpu

import (
	"math/rand"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/retroenv/retrogolib/log"
)

const (
	// DefaultClockSpeed is the number of instructions executed per second.
	DefaultClockSpeed = 540
	// MaxClockSpeed is the highest supported number of instructions executed per second.
	MaxClockSpeed = 1_000_000
	// TimerFrequency is the rate in Hz at which the delay and sound timers count down.
	TimerFrequency = 60

	memorySize = 4096

	programStartAddress  uint16 = 0x200
	highestMemoryAddress uint16 = 0xFFF

	// emptyOpcodeLimit is the number of consecutive 0x0000 opcodes after which
	// the program is considered to have run off the end of its code.
	emptyOpcodeLimit = 10
)

// Chip8 represents an emulated Chip-8 CPU. Not that the Chip-8 was ever a real physical
// computer with a CPU, but it's fun to pretend.
//
// To run a program, create a Chip8 with NewChip8, connecting a keyboard, a speaker and a
// channel that receives the screen whenever it changes. Then Load the program and call Run.
//
// If you want to poke around at the inner workings of the Chip8, Step executes a single
// cycle and Snapshot returns a copy of the complete machine state.
type Chip8 struct {
	// program counter
	pc uint16
	// address register
	i uint16
	// data registers
	v [16]byte
	// delay and sound timers.
	// Both delay and sound timers are registers that are decremented at 60hz once set.
	dt byte
	st byte

	stack [stackDepth]uint16
	// stack pointer, the number of return addresses on the stack
	sp     uint8
	memory [memorySize]byte

	video    Frame
	drawFlag bool
	beepFlag bool

	// keys is the keypad state latched at the start of the current cycle,
	// prevKeys the state latched one cycle earlier.
	keys     KeyState
	prevKeys KeyState

	// set while a Fx0A instruction is waiting for a key press
	waitingForKey bool
	waitRegister  byte

	emptyOpcodes int
	cycles       uint64

	logger       *log.Logger
	trace        bool
	seed         int64
	rand         *rand.Rand
	clockSpeed   int
	timerDivider uint64

	running      atomic.Bool
	paused       atomic.Bool
	stepRequests atomic.Int32

	keyboard Keyboard
	speaker  Speaker
	videoOut chan Frame
}

// The Keyboard interface represents the Chip8 keyboard input.
// The Chip8 polls the keyboard once per cycle; Poll returns the state of all 16 keys.
// Keypad is a ready-made implementation that is safe to feed from another goroutine.
type Keyboard interface {
	Poll() KeyState
}

// The Speaker interface represents the Chip8 buzzer. The Chip8 doesn't specify the sound,
// only when it should be heard: Beep is called once when the sound timer runs out.
// Beep is called from the emulation goroutine and must return quickly.
type Speaker interface {
	Beep()
}

// Option configures a Chip8 created by NewChip8.
type Option func(*Chip8)

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(c *Chip8) {
		c.logger = logger
	}
}

// WithTrace enables a debug log line for every executed instruction.
func WithTrace(trace bool) Option {
	return func(c *Chip8) {
		c.trace = trace
	}
}

// WithSeed makes the random number generator used by the RND instruction deterministic.
// Without it the generator is seeded from the current time.
func WithSeed(seed int64) Option {
	return func(c *Chip8) {
		c.seed = seed
	}
}

// WithClockSpeed sets the number of instructions executed per second.
// The timers keep counting down once every clockSpeed/60 instructions.
// Speeds outside of 1 to MaxClockSpeed are ignored.
func WithClockSpeed(clockSpeed int) Option {
	return func(c *Chip8) {
		if clockSpeed > 0 && clockSpeed <= MaxClockSpeed {
			c.clockSpeed = clockSpeed
		}
	}
}

// NewChip8 returns a Chip8 ready to load a program.
//
// videoOut receives a copy of the screen every time an instruction changed it. The Chip8
// never blocks on it: if the previous frame has not been picked up yet, it is replaced by
// the new one, so a buffered channel of size 1 is all a display needs.
// Any of keyboard, speaker and videoOut may be nil.
func NewChip8(keyboard Keyboard, speaker Speaker, videoOut chan Frame, opts ...Option) *Chip8 {
	c := &Chip8{
		keyboard:   keyboard,
		speaker:    speaker,
		videoOut:   videoOut,
		seed:       time.Now().UnixNano(),
		clockSpeed: DefaultClockSpeed,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.NewWithConfig(log.DefaultConfig())
	}

	c.rand = rand.New(rand.NewSource(c.seed))
	c.timerDivider = uint64(c.clockSpeed / TimerFrequency)
	if c.timerDivider == 0 {
		c.timerDivider = 1
	}

	c.reset()
	return c
}

// Load resets the Chip8 and loads a program into memory at address 0x200.
// Programs larger than the 3584 bytes of program memory are rejected with a
// *RomTooLargeError and leave the Chip8 untouched.
func (c *Chip8) Load(program []byte) error {
	if err := c.load(program); err != nil {
		return err
	}

	c.logger.Info("Program loaded",
		log.Int("size", len(program)),
		log.String("seed", strconv.FormatInt(c.seed, 10)),
		log.Int("clock", c.clockSpeed))
	return nil
}

// reset clears the Chip8 memory and registers and puts the font back in place.
// Any keyboard, speaker or video channel stay connected.
func (c *Chip8) reset() {
	c.pc = programStartAddress
	c.i = 0
	c.v = [16]byte{}
	c.dt = 0
	c.st = 0
	c.stack = [stackDepth]uint16{}
	c.sp = 0
	c.memory = [memorySize]byte{}

	c.video = Frame{}
	c.drawFlag = false
	c.beepFlag = false
	c.keys = KeyState{}
	c.prevKeys = KeyState{}
	c.waitingForKey = false
	c.waitRegister = 0
	c.emptyOpcodes = 0
	c.cycles = 0

	loadFontSprites(&c.memory)
}

// Seed returns the seed of the random number generator.
func (c *Chip8) Seed() int64 {
	return c.seed
}

// Chip8State represents a read-only snapshot of the internal state of the Chip-8 CPU and RAM.
type Chip8State struct {
	PC            uint16
	I             uint16
	V             [16]byte
	DT            byte
	ST            byte
	SP            uint8
	Stack         []uint16
	Memory        [memorySize]byte
	Video         Frame
	Keys          KeyState
	WaitingForKey bool
	Cycles        uint64
	Speed         int
}

// Snapshot returns a static copy of the Chip8 at the moment the method is called.
// It must not be called while Run is executing on another goroutine.
func (c *Chip8) Snapshot() Chip8State {
	stack := make([]uint16, c.sp)
	copy(stack, c.stack[:c.sp])

	return Chip8State{
		PC:            c.pc,
		I:             c.i,
		V:             c.v,
		DT:            c.dt,
		ST:            c.st,
		SP:            c.sp,
		Stack:         stack,
		Memory:        c.memory,
		Video:         c.video,
		Keys:          c.keys,
		WaitingForKey: c.waitingForKey,
		Cycles:        c.cycles,
		Speed:         c.clockSpeed,
	}
}
