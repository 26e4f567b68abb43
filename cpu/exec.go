package cpu

import (
	"github.com/retroenv/retrogolib/log"
)

// exec decodes and executes a single opcode. Every instruction either completes or
// returns an error without having changed the Chip8 state.
func (c *Chip8) exec(op opcode) error {
	in := decode(op)
	if in == nil {
		c.logger.Warn("Unknown opcode",
			log.Hex("opcode", uint16(op)),
			log.Hex("pc", c.pc))
		c.next()
		return nil
	}

	if c.trace {
		c.logger.Debug("Execute",
			log.Hex("pc", c.pc),
			log.Hex("opcode", uint16(op)),
			log.String("instruction", in.format(op)))
	}
	return in.exec(c, op)
}

// next moves the program counter to the next instruction.
func (c *Chip8) next() {
	c.pc += 2
}

// skipIf moves the program counter past the next instruction if cond is true,
// otherwise to the next instruction.
func (c *Chip8) skipIf(cond bool) {
	if cond {
		c.pc += 2
	}
	c.pc += 2
}

func boolToFlag(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// 00E0: CLS (clear)
func (c *Chip8) cls(_ opcode) error {
	c.video.clear()
	c.drawFlag = true
	c.next()
	return nil
}

// 00EE: RET (return)
func (c *Chip8) ret(_ opcode) error {
	addr, err := c.stackPop()
	if err != nil {
		return err
	}
	// we've gone back to the location of the original CALL instruction;
	// proceed past it to the next instruction.
	c.pc = addr
	c.next()
	return nil
}

// 0nnn: SYS addr (call machine code routine, not supported by interpreters)
func (c *Chip8) sys(op opcode) error {
	if op != 0 {
		c.logger.Warn("Ignoring machine code routine call",
			log.Hex("address", op.nnn()),
			log.Hex("pc", c.pc))
	}
	c.next()
	return nil
}

// 1nnn: JP addr
func (c *Chip8) jump(op opcode) error {
	c.pc = op.nnn()
	return nil
}

// 2nnn: CALL addr
func (c *Chip8) call(op opcode) error {
	if err := c.stackPush(c.pc); err != nil {
		return err
	}
	c.pc = op.nnn()
	return nil
}

// 3xkk: SE Vx byte (skip if equal)
func (c *Chip8) skipIfEqualByte(op opcode) error {
	c.skipIf(c.v[op.x()] == op.kk())
	return nil
}

// 4xkk: SNE Vx byte (skip if not equal)
func (c *Chip8) skipIfNotEqualByte(op opcode) error {
	c.skipIf(c.v[op.x()] != op.kk())
	return nil
}

// 5xy0: SE Vx Vy (skip if equal)
func (c *Chip8) skipIfEqual(op opcode) error {
	c.skipIf(c.v[op.x()] == c.v[op.y()])
	return nil
}

// 6xkk: LD Vx byte
func (c *Chip8) loadByte(op opcode) error {
	c.v[op.x()] = op.kk()
	c.next()
	return nil
}

// 7xkk: ADD Vx byte, VF is not affected
func (c *Chip8) addByte(op opcode) error {
	c.v[op.x()] += op.kk()
	c.next()
	return nil
}

// 8xy0: LD Vx Vy
func (c *Chip8) loadRegister(op opcode) error {
	c.v[op.x()] = c.v[op.y()]
	c.next()
	return nil
}

// 8xy1: OR Vx Vy
func (c *Chip8) or(op opcode) error {
	c.v[op.x()] |= c.v[op.y()]
	c.next()
	return nil
}

// 8xy2: AND Vx Vy
func (c *Chip8) and(op opcode) error {
	c.v[op.x()] &= c.v[op.y()]
	c.next()
	return nil
}

// 8xy3: XOR Vx Vy
func (c *Chip8) xor(op opcode) error {
	c.v[op.x()] ^= c.v[op.y()]
	c.next()
	return nil
}

// The flag producing instructions below store the result first and the flag last,
// so VF holds the flag even if it was the destination register.

// 8xy4: ADD Vx Vy (set VF=1 on carry)
func (c *Chip8) add(op opcode) error {
	sum := uint16(c.v[op.x()]) + uint16(c.v[op.y()])
	c.v[op.x()] = byte(sum)
	c.v[0xF] = boolToFlag(sum > 0xFF)
	c.next()
	return nil
}

// 8xy5: SUB Vx Vy (set VF=1 if there is no borrow)
func (c *Chip8) sub(op opcode) error {
	vx, vy := c.v[op.x()], c.v[op.y()]
	c.v[op.x()] = vx - vy
	c.v[0xF] = boolToFlag(vx >= vy)
	c.next()
	return nil
}

// 8xy6: SHR Vx (VF=lowest bit of Vx, then shift Vx right by 1)
func (c *Chip8) shiftRight(op opcode) error {
	vx := c.v[op.x()]
	c.v[op.x()] = vx >> 1
	c.v[0xF] = vx & 0x01
	c.next()
	return nil
}

// 8xy7: SUBN Vx Vy (Vx = Vy - Vx, VF=1 if Vx > Vy)
func (c *Chip8) subn(op opcode) error {
	vx, vy := c.v[op.x()], c.v[op.y()]
	c.v[op.x()] = vy - vx
	c.v[0xF] = boolToFlag(vx > vy)
	c.next()
	return nil
}

// 8xyE: SHL Vx (VF=highest bit of Vx, then shift Vx left by 1)
func (c *Chip8) shiftLeft(op opcode) error {
	vx := c.v[op.x()]
	c.v[op.x()] = vx << 1
	c.v[0xF] = vx >> 7
	c.next()
	return nil
}

// 9xy0: SNE Vx Vy (skip if not equal)
func (c *Chip8) skipIfNotEqual(op opcode) error {
	c.skipIf(c.v[op.x()] != c.v[op.y()])
	return nil
}

// Annn: LD I addr
func (c *Chip8) loadIndex(op opcode) error {
	c.i = op.nnn()
	c.next()
	return nil
}

// Bnnn: JP V0 addr
func (c *Chip8) jumpOffset(op opcode) error {
	c.pc = op.nnn() + uint16(c.v[0])
	return nil
}

// Cxkk: RND Vx byte (Vx = random byte AND kk)
func (c *Chip8) random(op opcode) error {
	c.v[op.x()] = byte(c.rand.Intn(256)) & op.kk()
	c.next()
	return nil
}

// Dxyn: DRW Vx Vy n (draw the n-byte sprite at I at coordinates Vx,Vy, VF=collision)
func (c *Chip8) draw(op opcode) error {
	n := uint16(op.n())
	sprite := make([]byte, n)
	for row := uint16(0); row < n; row++ {
		sprite[row] = c.read(c.i + row)
	}

	occluded := c.video.drawSprite(sprite, c.v[op.x()], c.v[op.y()])
	c.v[0xF] = boolToFlag(occluded)
	c.drawFlag = true
	c.next()
	return nil
}

// Ex9E: SKP Vx (skip if the key with the value of Vx is pressed)
func (c *Chip8) skipIfPressed(op opcode) error {
	c.skipIf(c.keys.Pressed(c.v[op.x()]))
	return nil
}

// ExA1: SKNP Vx (skip if the key with the value of Vx is not pressed)
func (c *Chip8) skipIfNotPressed(op opcode) error {
	c.skipIf(!c.keys.Pressed(c.v[op.x()]))
	return nil
}

// Fx07: LD Vx DT
func (c *Chip8) loadDelayTimer(op opcode) error {
	c.v[op.x()] = c.dt
	c.next()
	return nil
}

// Fx0A: LD Vx K (wait for a key press, store the key in Vx)
//
// The program counter stays on this instruction. The scheduler checks for a key press
// once per cycle and finishes the instruction when it sees one.
func (c *Chip8) waitForKey(op opcode) error {
	c.waitingForKey = true
	c.waitRegister = op.x()
	return nil
}

// Fx15: LD DT Vx
func (c *Chip8) setDelayTimer(op opcode) error {
	c.dt = c.v[op.x()]
	c.next()
	return nil
}

// Fx18: LD ST Vx
func (c *Chip8) setSoundTimer(op opcode) error {
	c.st = c.v[op.x()]
	c.next()
	return nil
}

// Fx1E: ADD I Vx (VF=1 if I leaves the 12-bit address space)
func (c *Chip8) addIndex(op opcode) error {
	sum := c.i + uint16(c.v[op.x()])
	c.i = sum & highestMemoryAddress
	c.v[0xF] = boolToFlag(sum > highestMemoryAddress)
	c.next()
	return nil
}

// Fx29: LD F Vx (I = address of the font glyph for the digit in Vx)
func (c *Chip8) loadFont(op opcode) error {
	c.i = fontAddress + uint16(c.v[op.x()])*glyphSize
	c.next()
	return nil
}

// Fx33: LD B Vx (store the hundreds, tens and ones digits of Vx at I, I+1 and I+2)
func (c *Chip8) storeBCD(op opcode) error {
	vx := c.v[op.x()]
	c.write(c.i, vx/100)
	c.write(c.i+1, vx/10%10)
	c.write(c.i+2, vx%10)
	c.next()
	return nil
}

// Fx55: LD [I] Vx (store V0 through Vx in memory starting at I, then I += x+1)
func (c *Chip8) storeRegisters(op opcode) error {
	x := uint16(op.x())
	for r := uint16(0); r <= x; r++ {
		c.write(c.i+r, c.v[r])
	}
	c.i = (c.i + x + 1) & highestMemoryAddress
	c.next()
	return nil
}

// Fx65: LD Vx [I] (read V0 through Vx from memory starting at I, then I += x+1)
func (c *Chip8) loadRegisters(op opcode) error {
	x := uint16(op.x())
	for r := uint16(0); r <= x; r++ {
		c.v[r] = c.read(c.i + r)
	}
	c.i = (c.i + x + 1) & highestMemoryAddress
	c.next()
	return nil
}
