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

// Step advances the machine by exactly one instruction: one decode plus one
// dispatch. Per-instruction anomalies are absorbed rather than reported:
// unrecognized opcodes are no-ops, a call on a full stack and a return on an
// empty stack are dropped, and memory operands past the end of memory read
// as zero and discard writes. Real-world programs carry invalid trailing
// bytes, so tolerance wins over rejection.
func (m *Machine) Step() {
	pc := m.PC
	in := m.decode()

	switch in.opcode >> 12 {
	case 0x0:
		switch in.nn {
		case 0xE0: // CLS
			for i := range m.Display {
				m.Display[i] = false
			}
		case 0xEE: // RET
			if m.SP >= 0 {
				m.PC = m.Stack[m.SP]
				m.SP--
			}
		}
	case 0x1: // JP NNN
		m.PC = in.nnn
	case 0x2: // CALL NNN
		if m.SP < len(m.Stack)-1 {
			m.SP++
			m.Stack[m.SP] = m.PC
			m.PC = in.nnn
		}
	case 0x3: // SE VX,NN
		if m.V[in.x] == in.nn {
			m.PC += 2
		}
	case 0x4: // SNE VX,NN
		if m.V[in.x] != in.nn {
			m.PC += 2
		}
	case 0x5: // SE VX,VY
		if in.n == 0 && m.V[in.x] == m.V[in.y] {
			m.PC += 2
		}
	case 0x6: // LD VX,NN
		m.V[in.x] = in.nn
	case 0x7: // ADD VX,NN
		// immediate add never touches the flag register
		m.V[in.x] += in.nn
	case 0x8:
		m.alu(in)
	case 0x9: // SNE VX,VY
		if in.n == 0 && m.V[in.x] != m.V[in.y] {
			m.PC += 2
		}
	case 0xA: // LD I,NNN
		m.I = in.nnn
	case 0xB: // JP V0,NNN
		m.PC = in.nnn + uint16(m.V[0])
	case 0xC: // RND VX,NN
		m.V[in.x] = m.rand() & in.nn
	case 0xD: // DRW VX,VY,N
		m.draw(in)
	case 0xE:
		switch in.nn {
		case 0x9E: // SKP VX
			if m.Keypad[m.V[in.x]&0x0F] {
				m.PC += 2
			}
		case 0xA1: // SKNP VX
			if !m.Keypad[m.V[in.x]&0x0F] {
				m.PC += 2
			}
		}
	case 0xF:
		m.misc(in)
	}

	if m.Trace != nil {
		m.Trace(pc, in.opcode, Disassemble(in.opcode))
	}
}

// alu handles the 8XYN register-register family. Both operands are read
// before anything is written; the flag is written before the result, so a
// result targeting VF overwrites the flag.
func (m *Machine) alu(in instruction) {
	vx, vy := m.V[in.x], m.V[in.y]

	switch in.n {
	case 0x0: // LD VX,VY
		m.V[in.x] = vy
	case 0x1: // OR VX,VY
		m.V[in.x] = vx | vy
	case 0x2: // AND VX,VY
		m.V[in.x] = vx & vy
	case 0x3: // XOR VX,VY
		m.V[in.x] = vx ^ vy
	case 0x4: // ADD VX,VY
		sum := uint16(vx) + uint16(vy)
		if sum > 0xFF {
			m.V[0xF] = 1
		} else {
			m.V[0xF] = 0
		}
		m.V[in.x] = uint8(sum)
	case 0x5: // SUB VX,VY
		if vx >= vy {
			m.V[0xF] = 1
		} else {
			m.V[0xF] = 0
		}
		m.V[in.x] = vx - vy
	case 0x6: // SHR VX
		m.V[0xF] = vx & 0x01 // bit shifted out
		m.V[in.x] = vx >> 1
	case 0x7: // SUBN VX,VY
		if vy >= vx {
			m.V[0xF] = 1
		} else {
			m.V[0xF] = 0
		}
		m.V[in.x] = vy - vx
	case 0xE: // SHL VX
		m.V[0xF] = vx >> 7 // bit shifted out
		m.V[in.x] = vx << 1
	}
}

// draw XOR-blits N rows of the 8-pixel-wide sprite at memory[I..I+N) onto
// the display at (VX mod width, VY mod height). The start position wraps;
// rows and columns clip at the buffer edge. VF is set when any pixel
// transitions from set to unset over the whole blit.
func (m *Machine) draw(in instruction) {
	x0 := int(m.V[in.x]) % int(m.Width)
	y0 := int(m.V[in.y]) % int(m.Height)

	m.V[0xF] = 0
	for row := 0; row < int(in.n); row++ {
		y := y0 + row
		if y >= int(m.Height) {
			break
		}
		bits := m.readMem(m.I + uint16(row))

		for col := 0; col < 8; col++ {
			x := x0 + col
			if x >= int(m.Width) {
				break
			}
			if bits&(0x80>>col) == 0 {
				continue
			}
			px := y*int(m.Width) + x
			if m.Display[px] {
				m.V[0xF] = 1
			}
			m.Display[px] = !m.Display[px]
		}
	}
}

// misc handles the FXNN family.
func (m *Machine) misc(in instruction) {
	switch in.nn {
	case 0x07: // LD VX,DT
		m.V[in.x] = m.DT
	case 0x0A: // LD VX,K
		// Scan the keypad low-to-high and store the first pressed key.
		// With nothing pressed the PC is rewound so this same instruction
		// re-executes on the next step; the frame driver keeps servicing
		// input and rendering in the meantime.
		for k := uint8(0); k < 16; k++ {
			if m.Keypad[k] {
				m.V[in.x] = k
				return
			}
		}
		m.PC -= 2
	case 0x15: // LD DT,VX
		m.DT = m.V[in.x]
	case 0x18: // LD ST,VX
		m.ST = m.V[in.x]
	case 0x1E: // ADD I,VX
		m.I += uint16(m.V[in.x])
	case 0x29: // LD I,CHAR VX
		m.I = uint16(m.V[in.x]&0x0F) * glyphSize
	case 0x33: // LD [I],BCD VX
		v := m.V[in.x]
		m.writeMem(m.I, v/100)
		m.writeMem(m.I+1, v/10%10)
		m.writeMem(m.I+2, v%10)
	case 0x55: // LD [I],VX
		for i := uint8(0); i <= in.x; i++ {
			m.writeMem(m.I+uint16(i), m.V[i])
		}
	case 0x65: // LD VX,[I]
		for i := uint8(0); i <= in.x; i++ {
			m.V[i] = m.readMem(m.I + uint16(i))
		}
	}
}

// readMem returns the byte at addr, or zero when addr is outside memory.
// The index register can hold arbitrary 16-bit values, so program-supplied
// addresses are never trusted to stay in range.
func (m *Machine) readMem(addr uint16) uint8 {
	if int(addr) >= len(m.Memory) {
		return 0
	}
	return m.Memory[addr]
}

// writeMem stores v at addr, discarding writes outside memory.
func (m *Machine) writeMem(addr uint16, v uint8) {
	if int(addr) >= len(m.Memory) {
		return
	}
	m.Memory[addr] = v
}
