package cpu

import (
	"fmt"
	"io"
)

// Disassemble writes an assembly listing of a Chip8 program to w, one instruction word per
// line, using the addresses the program occupies once it is loaded:
//
//	0200: 6005  LD V0, $05
//
// Words that are not instructions, sprite data for example, are listed as DW.
// A trailing odd byte is listed as DB.
func Disassemble(w io.Writer, program []byte) error {
	addr := programStartAddress
	for offset := 0; offset < len(program); offset += 2 {
		if offset+1 == len(program) {
			_, err := fmt.Fprintf(w, "%04X: %02X    DB $%02X\n", addr, program[offset], program[offset])
			return err
		}

		op := opcode(uint16(program[offset])<<8 | uint16(program[offset+1]))
		if _, err := fmt.Fprintf(w, "%04X: %04X  %s\n", addr, uint16(op), Mnemonic(uint16(op))); err != nil {
			return err
		}
		addr += 2
	}
	return nil
}

// Mnemonic returns the assembly text of a single instruction word, for example
// "DRW V0, V1, $5".
func Mnemonic(word uint16) string {
	op := opcode(word)
	in := decode(op)
	if in == nil {
		return fmt.Sprintf("DW $%04X", word)
	}
	return in.format(op)
}
