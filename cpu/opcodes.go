package cpu

import (
	"fmt"
	"strings"
)

// opcode is a 16-bit Chip8 instruction word.
//
// key:
// ------
// nnn - low 12 bits of opcode
// n - low 4 bits of opcode
// x - low 4 bits of opcode's high byte
// y - high 4 bits of opcode's low byte
// kk - opcode's low byte
type opcode uint16

func (op opcode) nnn() uint16 { return uint16(op) & 0x0FFF }
func (op opcode) n() byte     { return byte(op & 0x000F) }
func (op opcode) x() byte     { return byte((op & 0x0F00) >> 8) }
func (op opcode) y() byte     { return byte((op & 0x00F0) >> 4) }
func (op opcode) kk() byte    { return byte(op & 0x00FF) }

// instruction describes one entry of the instruction set. An opcode belongs to the
// instruction if opcode&mask == value.
type instruction struct {
	value uint16
	mask  uint16
	name  string
	// operands is the operand template used for disassembly, see format.
	operands string
	exec     func(c *Chip8, op opcode) error
}

// instructions is the Chip8 instruction set. Entries sharing a leading nibble are listed
// from the most to the least specific mask.
var instructions = []instruction{
	{0x00E0, 0xFFFF, "CLS", "", (*Chip8).cls},
	{0x00EE, 0xFFFF, "RET", "", (*Chip8).ret},
	{0x0000, 0xF000, "SYS", "nnn", (*Chip8).sys},
	{0x1000, 0xF000, "JP", "nnn", (*Chip8).jump},
	{0x2000, 0xF000, "CALL", "nnn", (*Chip8).call},
	{0x3000, 0xF000, "SE", "Vx, kk", (*Chip8).skipIfEqualByte},
	{0x4000, 0xF000, "SNE", "Vx, kk", (*Chip8).skipIfNotEqualByte},
	{0x5000, 0xF00F, "SE", "Vx, Vy", (*Chip8).skipIfEqual},
	{0x6000, 0xF000, "LD", "Vx, kk", (*Chip8).loadByte},
	{0x7000, 0xF000, "ADD", "Vx, kk", (*Chip8).addByte},
	{0x8000, 0xF00F, "LD", "Vx, Vy", (*Chip8).loadRegister},
	{0x8001, 0xF00F, "OR", "Vx, Vy", (*Chip8).or},
	{0x8002, 0xF00F, "AND", "Vx, Vy", (*Chip8).and},
	{0x8003, 0xF00F, "XOR", "Vx, Vy", (*Chip8).xor},
	{0x8004, 0xF00F, "ADD", "Vx, Vy", (*Chip8).add},
	{0x8005, 0xF00F, "SUB", "Vx, Vy", (*Chip8).sub},
	{0x8006, 0xF00F, "SHR", "Vx", (*Chip8).shiftRight},
	{0x8007, 0xF00F, "SUBN", "Vx, Vy", (*Chip8).subn},
	{0x800E, 0xF00F, "SHL", "Vx", (*Chip8).shiftLeft},
	{0x9000, 0xF00F, "SNE", "Vx, Vy", (*Chip8).skipIfNotEqual},
	{0xA000, 0xF000, "LD", "I, nnn", (*Chip8).loadIndex},
	{0xB000, 0xF000, "JP", "V0, nnn", (*Chip8).jumpOffset},
	{0xC000, 0xF000, "RND", "Vx, kk", (*Chip8).random},
	{0xD000, 0xF000, "DRW", "Vx, Vy, n", (*Chip8).draw},
	{0xE09E, 0xF0FF, "SKP", "Vx", (*Chip8).skipIfPressed},
	{0xE0A1, 0xF0FF, "SKNP", "Vx", (*Chip8).skipIfNotPressed},
	{0xF007, 0xF0FF, "LD", "Vx, DT", (*Chip8).loadDelayTimer},
	{0xF00A, 0xF0FF, "LD", "Vx, K", (*Chip8).waitForKey},
	{0xF015, 0xF0FF, "LD", "DT, Vx", (*Chip8).setDelayTimer},
	{0xF018, 0xF0FF, "LD", "ST, Vx", (*Chip8).setSoundTimer},
	{0xF01E, 0xF0FF, "ADD", "I, Vx", (*Chip8).addIndex},
	{0xF029, 0xF0FF, "LD", "F, Vx", (*Chip8).loadFont},
	{0xF033, 0xF0FF, "LD", "B, Vx", (*Chip8).storeBCD},
	{0xF055, 0xF0FF, "LD", "[I], Vx", (*Chip8).storeRegisters},
	{0xF065, 0xF0FF, "LD", "Vx, [I]", (*Chip8).loadRegisters},
}

// families groups the instruction table by the leading nibble of the opcode.
var families [16][]*instruction

func init() {
	for i := range instructions {
		in := &instructions[i]
		family := in.value >> 12
		families[family] = append(families[family], in)
	}
}

// decode returns the instruction that opcode belongs to, or nil for unknown opcodes.
func decode(op opcode) *instruction {
	for _, in := range families[op>>12] {
		if uint16(op)&in.mask == in.value {
			return in
		}
	}
	return nil
}

// format returns the assembly text of op, for example "LD V0, $05".
func (in *instruction) format(op opcode) string {
	if in.operands == "" {
		return in.name
	}

	// nnn has to be replaced before n
	replacer := strings.NewReplacer(
		"Vx", fmt.Sprintf("V%X", op.x()),
		"Vy", fmt.Sprintf("V%X", op.y()),
		"kk", fmt.Sprintf("$%02X", op.kk()),
		"nnn", fmt.Sprintf("$%03X", op.nnn()),
		"n", fmt.Sprintf("$%X", op.n()),
	)
	return in.name + " " + replacer.Replace(in.operands)
}
