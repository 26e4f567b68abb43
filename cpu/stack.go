package cpu

import "fmt"

// stackDepth is the number of nested subroutine calls the Chip8 supports.
const stackDepth = 16

func (c *Chip8) stackPush(addr uint16) error {
	if int(c.sp) == stackDepth {
		return fmt.Errorf("call from %03x with %d return addresses on the stack: %w",
			c.pc, stackDepth, ErrStackOverflow)
	}
	c.stack[c.sp] = addr
	c.sp++
	return nil
}

func (c *Chip8) stackPop() (uint16, error) {
	if c.sp == 0 {
		return 0, fmt.Errorf("return from %03x: %w", c.pc, ErrStackUnderflow)
	}
	c.sp--
	return c.stack[c.sp], nil
}
