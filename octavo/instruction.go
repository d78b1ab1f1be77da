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

// instruction is the decoded form of one 16-bit opcode. It lives for a
// single execution step and is never persisted.
type instruction struct {
	opcode uint16
	nnn    uint16 // 12-bit address/constant
	nn     uint8  // 8-bit constant
	n      uint8  // 4-bit constant
	x, y   uint8  // register identifiers
}

// decode reads the two bytes at PC and advances PC past them before
// dispatch, so that jumps and calls observe the address of the next
// instruction and a return lands exactly after the original call. Any
// 16-bit value decodes; whether the opcode class is recognized is decided
// at dispatch time. A fetch past the end of memory decodes zero bytes.
func (m *Machine) decode() instruction {
	var op uint16
	if int(m.PC)+1 < len(m.Memory) {
		op = uint16(m.Memory[m.PC])<<8 | uint16(m.Memory[m.PC+1])
	}
	m.PC += 2

	return instruction{
		opcode: op,
		nnn:    op & 0x0FFF,
		nn:     uint8(op & 0x00FF),
		n:      uint8(op & 0x000F),
		x:      uint8(op >> 8 & 0x0F),
		y:      uint8(op >> 4 & 0x0F),
	}
}
