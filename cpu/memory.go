package cpu

// programMemorySize is the space available for a program, from 0x200 to the end of memory.
const programMemorySize = memorySize - int(programStartAddress)

// load takes a Chip8 program as input, resets the Chip8 and copies the program into memory.
func (c *Chip8) load(program []byte) error {
	if len(program) > programMemorySize {
		return &RomTooLargeError{Size: len(program), Limit: programMemorySize}
	}

	c.reset()
	copy(c.memory[programStartAddress:], program)
	return nil
}

// read returns the byte at addr. Addresses wrap around at the end of the 4K memory,
// so no instruction can reach outside of it.
func (c *Chip8) read(addr uint16) byte {
	return c.memory[addr&highestMemoryAddress]
}

func (c *Chip8) write(addr uint16, b byte) {
	c.memory[addr&highestMemoryAddress] = b
}

func (c *Chip8) readOpcode(addr uint16) opcode {
	// the opcode we want to read is the next two bytes,
	// stored big-endian.
	high := c.read(addr)
	low := c.read(addr + 1)
	return opcode(uint16(high)<<8 | uint16(low))
}
