/*
	Copyright 2026 the octavo authors
	This file is part of octavo.
	octavo is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.
	octavo is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.
	You should have received a copy of the GNU General Public License
	along with octavo. If not, see <http://www.gnu.org/licenses/>.
*/

package octavo

import (
	"fmt"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Recognized reports whether op matches an opcode of the CHIP-8 instruction
// set, using the retrogolib opcode tables.
func Recognized(op uint16) bool {
	for _, o := range chip8.Opcodes[int(op>>12)] {
		if o.Info.Mask&op == o.Info.Value && o.Instruction != nil {
			return true
		}
	}
	return false
}

// Disassemble renders op as pseudo-asm. Any 16-bit value renders:
// unrecognized values come out as raw data bytes (DB).
func Disassemble(op uint16) string {
	if !Recognized(op) {
		return rawData(op)
	}
	if s := format(op); s != "" {
		return s
	}
	return rawData(op)
}

func rawData(op uint16) string {
	return fmt.Sprintf("DB %02X %02X", uint8(op>>8), uint8(op))
}

// format renders the pseudo-asm for a well-formed opcode, or "" for opcode
// class/subcode combinations outside the instruction set.
func format(op uint16) string {
	nnn := op & 0x0FFF
	nn := uint8(op)
	n := uint8(op & 0x000F)
	x := uint8(op >> 8 & 0x0F)
	y := uint8(op >> 4 & 0x0F)

	switch op >> 12 {
	case 0x0:
		switch nn {
		case 0xE0:
			return "CLS"
		case 0xEE:
			return "RET"
		}
		return fmt.Sprintf("SYS %03X", nnn)
	case 0x1:
		return fmt.Sprintf("JP %03X", nnn)
	case 0x2:
		return fmt.Sprintf("CALL %03X", nnn)
	case 0x3:
		return fmt.Sprintf("SE V%1X,%02X", x, nn)
	case 0x4:
		return fmt.Sprintf("SNE V%1X,%02X", x, nn)
	case 0x5:
		if n == 0 {
			return fmt.Sprintf("SE V%1X,V%1X", x, y)
		}
	case 0x6:
		return fmt.Sprintf("LD V%1X,%02X", x, nn)
	case 0x7:
		return fmt.Sprintf("ADD V%1X,%02X", x, nn)
	case 0x8:
		mnemonics := map[uint8]string{
			0x0: "LD", 0x1: "OR", 0x2: "AND", 0x3: "XOR", 0x4: "ADD",
			0x5: "SUB", 0x6: "SHR", 0x7: "SUBN", 0xE: "SHL",
		}
		if mn, ok := mnemonics[n]; ok {
			return fmt.Sprintf("%s V%1X,V%1X", mn, x, y)
		}
	case 0x9:
		if n == 0 {
			return fmt.Sprintf("SNE V%1X,V%1X", x, y)
		}
	case 0xA:
		return fmt.Sprintf("LD I,%03X", nnn)
	case 0xB:
		return fmt.Sprintf("JP V0,%03X", nnn)
	case 0xC:
		return fmt.Sprintf("RND V%1X,%02X", x, nn)
	case 0xD:
		return fmt.Sprintf("DRW V%1X,V%1X,%1X", x, y, n)
	case 0xE:
		switch nn {
		case 0x9E:
			return fmt.Sprintf("SKP V%1X", x)
		case 0xA1:
			return fmt.Sprintf("SKNP V%1X", x)
		}
	case 0xF:
		switch nn {
		case 0x07:
			return fmt.Sprintf("LD V%1X,DT", x)
		case 0x0A:
			return fmt.Sprintf("LD V%1X,K", x)
		case 0x15:
			return fmt.Sprintf("LD DT,V%1X", x)
		case 0x18:
			return fmt.Sprintf("LD ST,V%1X", x)
		case 0x1E:
			return fmt.Sprintf("ADD I,V%1X", x)
		case 0x29:
			return fmt.Sprintf("LD I,CHAR V%1X", x)
		case 0x33:
			return fmt.Sprintf("LD [I],BCD V%1X", x)
		case 0x55:
			return fmt.Sprintf("LD [I],V%1X", x)
		case 0x65:
			return fmt.Sprintf("LD V%1X,[I]", x)
		}
	}
	return ""
}

// Describe returns a detailed description of what op does, or a raw-data
// note for unrecognized values.
func Describe(op uint16) string {
	if !Recognized(op) {
		return "Unknown / Raw Data"
	}

	nn := uint8(op)
	n := uint8(op & 0x000F)

	switch op >> 12 {
	case 0x0:
		switch nn {
		case 0xE0:
			return "00E0: Clears the screen."
		case 0xEE:
			return "00EE: Returns from a subroutine."
		}
		return "0NNN: Calls RCA 1802 program at address NNN."
	case 0x1:
		return "1NNN: Jumps to address NNN."
	case 0x2:
		return "2NNN: Calls subroutine at NNN."
	case 0x3:
		return "3XNN: Skips the next instruction if VX equals NN."
	case 0x4:
		return "4XNN: Skips the next instruction if VX doesn't equal NN."
	case 0x5:
		return "5XY0: Skips the next instruction if VX equals VY."
	case 0x6:
		return "6XNN: Sets VX to NN."
	case 0x7:
		return "7XNN: Adds NN to VX (no carry flag)."
	case 0x8:
		switch n {
		case 0x0:
			return "8XY0: Sets VX to the value of VY."
		case 0x1:
			return "8XY1: Sets VX to VX | VY (bit-wise OR)."
		case 0x2:
			return "8XY2: Sets VX to VX & VY (bit-wise AND)."
		case 0x3:
			return "8XY3: Sets VX to VX ^ VY (bit-wise XOR)."
		case 0x4:
			return "8XY4: VX += VY. VF = 1 when there's a carry, 0 when there isn't."
		case 0x5:
			return "8XY5: VX -= VY. VF = 1 when there's no borrow, 0 when there is."
		case 0x6:
			return "8XY6: VX >>= 1. VF = least significant bit prior to the shift."
		case 0x7:
			return "8XY7: VX = VY - VX. VF = 1 when there's no borrow, 0 when there is."
		case 0xE:
			return "8XYE: VX <<= 1. VF = most significant bit prior to the shift."
		}
	case 0x9:
		return "9XY0: Skips the next instruction if VX doesn't equal VY."
	case 0xA:
		return "ANNN: Sets I to the address NNN."
	case 0xB:
		return "BNNN: Jumps to the address NNN plus V0."
	case 0xC:
		return "CXNN: Sets VX to a random number (0-FF) & NN (bit-wise AND)."
	case 0xD:
		return "DXYN: Draws N rows of the sprite pointed to by I at VX,VY."
	case 0xE:
		switch nn {
		case 0x9E:
			return "EX9E: Skips the next instruction if the key stored in VX is pressed."
		case 0xA1:
			return "EXA1: Skips the next instruction if the key stored in VX isn't pressed."
		}
	case 0xF:
		switch nn {
		case 0x07:
			return "FX07: Sets VX to the value of the delay timer."
		case 0x0A:
			return "FX0A: A key press is awaited, and then the key number is stored in VX."
		case 0x15:
			return "FX15: Sets the delay timer to VX."
		case 0x18:
			return "FX18: Sets the sound timer to VX."
		case 0x1E:
			return "FX1E: Adds VX to I."
		case 0x29:
			return "FX29: Sets I to the location of the sprite for the character in VX."
		case 0x33:
			return "FX33: Stores the BCD representation of VX in memory at I, I+1 and I+2."
		case 0x55:
			return "FX55: Stores V0 to VX in memory starting at address I."
		case 0x65:
			return "FX65: Fills V0 to VX with values from memory starting at address I."
		}
	}
	return "Unknown / Raw Data"
}

// ASCII returns the printable ASCII representation of the two raw bytes of
// an unrecognized opcode, or an empty string for recognized opcodes and
// unprintable data.
func ASCII(op uint16) string {
	if Recognized(op) {
		return ""
	}
	b := []byte{uint8(op >> 8), uint8(op)}
	for _, c := range b {
		if c < 32 || c > 126 {
			return ""
		}
	}
	return string(b)
}
