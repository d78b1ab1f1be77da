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
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func newTestMachine(t *testing.T) *Machine {
	t.Helper()
	m, err := New("null", nil)
	assert.NoError(t, err)
	return m
}

// write stores big-endian opcodes into memory starting at addr.
func write(m *Machine, addr uint16, opcodes ...uint16) {
	for i, op := range opcodes {
		m.Memory[addr+uint16(i*2)] = uint8(op >> 8)
		m.Memory[addr+uint16(i*2)+1] = uint8(op)
	}
}

// step executes a single opcode placed at the current PC.
func step(m *Machine, opcode uint16) {
	write(m, m.PC, opcode)
	m.Step()
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		name   string
		vx, vy uint8
		opcode uint16
		wantVx uint8
		wantVF uint8
	}{
		{"add no carry", 10, 20, 0x8124, 30, 0},
		{"add carry", 0xFF, 0x01, 0x8124, 0x00, 1},
		{"add carry keeps low byte", 200, 100, 0x8124, 44, 1},
		{"sub no borrow", 20, 10, 0x8125, 10, 1},
		{"sub borrow", 10, 20, 0x8125, 246, 0},
		{"sub equal operands", 10, 10, 0x8125, 0, 1},
		{"subn no borrow", 10, 20, 0x8127, 10, 1},
		{"subn borrow", 20, 10, 0x8127, 246, 0},
		{"shr odd", 3, 0, 0x8106, 1, 1},
		{"shr even", 4, 0, 0x8106, 2, 0},
		{"shl high bit set", 0x81, 0, 0x810E, 0x02, 1},
		{"shl high bit clear", 0x40, 0, 0x810E, 0x80, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t)
			m.V[1] = tt.vx
			m.V[2] = tt.vy

			step(m, tt.opcode)

			assert.Equal(t, tt.wantVx, m.V[1])
			assert.Equal(t, tt.wantVF, m.V[0xF])
			assert.Equal(t, Entry+2, m.PC)
		})
	}
}

// The flag is written before the result, so when VF is the result target
// the result wins.
func TestArithmeticFlagTarget(t *testing.T) {
	tests := []struct {
		name   string
		vf, v1 uint8
		opcode uint16
		wantVF uint8
	}{
		{"add into VF", 200, 100, 0x8F14, 44},
		{"shr into VF", 3, 0, 0x8F06, 1},
		{"shl into VF", 0x81, 0, 0x8F0E, 0x02},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t)
			m.V[0xF] = tt.vf
			m.V[1] = tt.v1

			step(m, tt.opcode)

			assert.Equal(t, tt.wantVF, m.V[0xF])
		})
	}
}

func TestLogicalOpsLeaveFlagAlone(t *testing.T) {
	tests := []struct {
		name   string
		opcode uint16
		wantVx uint8
	}{
		{"or", 0x8121, 0x3C | 0x0F},
		{"and", 0x8122, 0x3C & 0x0F},
		{"xor", 0x8123, 0x3C ^ 0x0F},
		{"ld", 0x8120, 0x0F},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t)
			m.V[1] = 0x3C
			m.V[2] = 0x0F
			m.V[0xF] = 0xAA

			step(m, tt.opcode)

			assert.Equal(t, tt.wantVx, m.V[1])
			assert.Equal(t, 0xAA, m.V[0xF])
		})
	}
}

func TestAddImmediateNoFlag(t *testing.T) {
	m := newTestMachine(t)
	m.V[1] = 0xFF
	m.V[0xF] = 0xAA

	step(m, 0x7101)

	assert.Equal(t, 0x00, m.V[1])
	assert.Equal(t, 0xAA, m.V[0xF])
}

func TestSkips(t *testing.T) {
	tests := []struct {
		name   string
		v1, v2 uint8
		opcode uint16
		skip   bool
	}{
		{"se immediate taken", 0x42, 0, 0x3142, true},
		{"se immediate not taken", 0x41, 0, 0x3142, false},
		{"sne immediate taken", 0x41, 0, 0x4142, true},
		{"sne immediate not taken", 0x42, 0, 0x4142, false},
		{"se register taken", 7, 7, 0x5120, true},
		{"se register not taken", 7, 8, 0x5120, false},
		{"sne register taken", 7, 8, 0x9120, true},
		{"sne register not taken", 7, 7, 0x9120, false},
		{"se register bad subcode", 7, 7, 0x5121, false},
		{"sne register bad subcode", 7, 8, 0x9121, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t)
			m.V[1] = tt.v1
			m.V[2] = tt.v2

			step(m, tt.opcode)

			want := uint16(Entry + 2)
			if tt.skip {
				want += 2
			}
			assert.Equal(t, want, m.PC)
		})
	}
}

func TestJumps(t *testing.T) {
	m := newTestMachine(t)
	step(m, 0x1ABC)
	assert.Equal(t, 0x0ABC, m.PC)

	m = newTestMachine(t)
	m.V[0] = 5
	step(m, 0xB300)
	assert.Equal(t, 0x0305, m.PC)
}

func TestCallReturn(t *testing.T) {
	m := newTestMachine(t)
	write(m, Entry, 0x2208)
	write(m, 0x208, 0x00EE)

	m.Step()
	assert.Equal(t, 0x208, m.PC)
	assert.Equal(t, 0, m.SP)
	assert.Equal(t, Entry+2, m.Stack[0])

	m.Step()
	assert.Equal(t, Entry+2, m.PC)
	assert.Equal(t, -1, m.SP)
}

// A call on a full stack is dropped: no push, no jump, execution moves past
// the call.
func TestCallStackSaturation(t *testing.T) {
	m := newTestMachine(t)
	write(m, Entry, 0x2200) // calls itself forever

	for i := 0; i < len(m.Stack); i++ {
		m.Step()
		assert.Equal(t, i, m.SP)
		assert.Equal(t, Entry, m.PC)
	}

	m.Step()
	assert.Equal(t, len(m.Stack)-1, m.SP)
	assert.Equal(t, Entry+2, m.PC)
}

func TestReturnOnEmptyStack(t *testing.T) {
	m := newTestMachine(t)
	step(m, 0x00EE)
	assert.Equal(t, Entry+2, m.PC)
	assert.Equal(t, -1, m.SP)
}

func TestLoadImmediate(t *testing.T) {
	m := newTestMachine(t)
	step(m, 0x6A42)
	assert.Equal(t, 0x42, m.V[0xA])

	step(m, 0xA123)
	assert.Equal(t, 0x123, m.I)
}

func TestRandom(t *testing.T) {
	m := newTestMachine(t)
	m.rand = func() uint8 { return 0xAB }

	step(m, 0xC10F)
	assert.Equal(t, 0xAB&0x0F, m.V[1])
}

func TestDraw(t *testing.T) {
	m := newTestMachine(t)
	m.I = 0 // glyph "0" in the font table

	step(m, 0xD015)

	// 0xF0 top row: four pixels on, four off
	for x := 0; x < 4; x++ {
		assert.True(t, m.Display[x])
	}
	for x := 4; x < 8; x++ {
		assert.False(t, m.Display[x])
	}
	assert.Equal(t, 0, m.V[0xF])
}

// Drawing the same sprite twice erases it and reports the collision.
func TestDrawCollision(t *testing.T) {
	m := newTestMachine(t)
	m.I = 0

	step(m, 0xD015)
	assert.Equal(t, 0, m.V[0xF])

	step(m, 0xD015)
	assert.Equal(t, 1, m.V[0xF])
	for _, px := range m.Display {
		assert.False(t, px)
	}
}

// Sprites clip at the display edge instead of wrapping.
func TestDrawClipping(t *testing.T) {
	m := newTestMachine(t)
	m.I = 0
	m.V[0] = 62
	m.V[1] = 30

	step(m, 0xD015)

	// row 30: 0xF0 clipped to x=62,63
	assert.True(t, m.Display[30*64+62])
	assert.True(t, m.Display[30*64+63])
	// no wrap onto the next row or back to column zero
	assert.False(t, m.Display[30*64+0])
	assert.False(t, m.Display[31*64+0])
	for x := 0; x < 64; x++ {
		assert.False(t, m.Display[0*64+x])
	}
}

// The start coordinate wraps even though the sprite body clips.
func TestDrawStartCoordinateWraps(t *testing.T) {
	m := newTestMachine(t)
	m.I = 0
	m.V[0] = 66 // 66 mod 64 = 2
	m.V[1] = 33 // 33 mod 32 = 1

	step(m, 0xD011)

	assert.True(t, m.Display[1*64+2])
}

func TestClearScreen(t *testing.T) {
	m := newTestMachine(t)
	m.Display[0] = true
	m.Display[100] = true

	step(m, 0x00E0)

	for _, px := range m.Display {
		assert.False(t, px)
	}
	assert.Equal(t, Entry+2, m.PC)
}

func TestKeySkips(t *testing.T) {
	tests := []struct {
		name   string
		v1     uint8
		key    uint8
		down   bool
		opcode uint16
		skip   bool
	}{
		{"skp pressed", 0x03, 0x03, true, 0xE19E, true},
		{"skp released", 0x03, 0x03, false, 0xE19E, false},
		{"sknp released", 0x03, 0x03, false, 0xE1A1, true},
		{"sknp pressed", 0x03, 0x03, true, 0xE1A1, false},
		{"skp key masked to low nibble", 0x13, 0x03, true, 0xE19E, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t)
			m.V[1] = tt.v1
			m.Keypad[tt.key] = tt.down

			step(m, tt.opcode)

			want := uint16(Entry + 2)
			if tt.skip {
				want += 2
			}
			assert.Equal(t, want, m.PC)
		})
	}
}

// With no key pressed, the wait instruction rewinds the PC onto itself so
// the machine keeps re-executing it without blocking the frame loop.
func TestWaitForKey(t *testing.T) {
	m := newTestMachine(t)
	write(m, Entry, 0xF10A)

	m.Step()
	assert.Equal(t, Entry, m.PC)
	m.Step()
	assert.Equal(t, Entry, m.PC)

	m.Keypad[7] = true
	m.Keypad[3] = true
	m.Step()

	// lowest pressed key wins
	assert.Equal(t, 3, m.V[1])
	assert.Equal(t, Entry+2, m.PC)
}

func TestTimerInstructions(t *testing.T) {
	m := newTestMachine(t)
	m.DT = 0x42

	step(m, 0xF107)
	assert.Equal(t, 0x42, m.V[1])

	m.V[2] = 0x17
	step(m, 0xF215)
	assert.Equal(t, 0x17, m.DT)

	step(m, 0xF218)
	assert.Equal(t, 0x17, m.ST)
}

func TestAddIndex(t *testing.T) {
	m := newTestMachine(t)
	m.I = 0x100
	m.V[1] = 0x20

	step(m, 0xF11E)
	assert.Equal(t, 0x120, m.I)
}

func TestFontIndex(t *testing.T) {
	m := newTestMachine(t)
	m.V[1] = 0x0A

	step(m, 0xF129)
	assert.Equal(t, 0x0A*glyphSize, m.I)

	// only the low nibble selects the glyph
	m.V[1] = 0x1A
	step(m, 0xF129)
	assert.Equal(t, 0x0A*glyphSize, m.I)
}

func TestBCD(t *testing.T) {
	m := newTestMachine(t)
	m.V[1] = 255
	m.I = 0x300

	step(m, 0xF133)

	assert.Equal(t, 2, m.Memory[0x300])
	assert.Equal(t, 5, m.Memory[0x301])
	assert.Equal(t, 5, m.Memory[0x302])
}

// Writes past the end of memory are discarded instead of panicking or
// wrapping around.
func TestBCDAtMemoryEnd(t *testing.T) {
	m := newTestMachine(t)
	m.V[1] = 123
	m.I = 0xFFF

	step(m, 0xF133)

	assert.Equal(t, 1, m.Memory[0xFFF])
}

func TestRegisterStoreLoad(t *testing.T) {
	m := newTestMachine(t)
	for i := uint8(0); i <= 3; i++ {
		m.V[i] = i + 10
	}
	m.I = 0x300

	step(m, 0xF355)

	for i := 0; i <= 3; i++ {
		assert.Equal(t, i+10, m.Memory[0x300+i])
	}
	assert.Equal(t, 0, m.Memory[0x304])
	assert.Equal(t, 0x300, m.I)

	m2 := newTestMachine(t)
	copy(m2.Memory[0x300:], []byte{1, 2, 3, 4, 5})
	m2.I = 0x300
	m2.V[4] = 0xEE

	step(m2, 0xF365)

	for i := 0; i <= 3; i++ {
		assert.Equal(t, i+1, m2.V[i])
	}
	assert.Equal(t, 0xEE, m2.V[4])
	assert.Equal(t, 0x300, m2.I)
}

// Register transfers truncate at the end of memory: stores are discarded,
// loads read zero.
func TestRegisterStoreLoadAtMemoryEnd(t *testing.T) {
	m := newTestMachine(t)
	m.V[0] = 1
	m.V[1] = 2
	m.V[2] = 3
	m.I = 0xFFE

	step(m, 0xF255)

	assert.Equal(t, 1, m.Memory[0xFFE])
	assert.Equal(t, 2, m.Memory[0xFFF])

	m2 := newTestMachine(t)
	m2.Memory[0xFFE] = 7
	m2.Memory[0xFFF] = 8
	m2.I = 0xFFE
	m2.V[2] = 0xEE

	step(m2, 0xF265)

	assert.Equal(t, 7, m2.V[0])
	assert.Equal(t, 8, m2.V[1])
	assert.Equal(t, 0, m2.V[2])
}

// Unrecognized opcodes advance past the instruction and change nothing
// else. Execution never faults on them.
func TestUnrecognizedOpcodes(t *testing.T) {
	opcodes := []uint16{0x0123, 0x8FFF, 0x810F, 0xE1FF, 0xF1FF}

	for _, opcode := range opcodes {
		m := newTestMachine(t)
		m.V[1] = 0x42
		m.I = 0x123
		before := *m

		step(m, opcode)

		assert.Equal(t, Entry+2, m.PC)
		assert.Equal(t, before.V, m.V)
		assert.Equal(t, before.I, m.I)
		assert.Equal(t, before.SP, m.SP)
		assert.Equal(t, before.DT, m.DT)
		assert.Equal(t, before.ST, m.ST)
	}
}

// A fetch past the end of memory decodes as zero bytes, which dispatch
// treats as a no-op.
func TestFetchPastMemoryEnd(t *testing.T) {
	m := newTestMachine(t)
	m.PC = 0xFFF

	m.Step()
	assert.Equal(t, 0xFFF+2, m.PC)
}

func TestProgramExecution(t *testing.T) {
	m := newTestMachine(t)
	err := m.LoadBytes([]byte{0x6A, 0x02, 0x60, 0x0C})
	assert.NoError(t, err)

	m.Step()
	m.Step()

	assert.Equal(t, 0x02, m.V[0xA])
	assert.Equal(t, 0x0C, m.V[0])
	assert.Equal(t, 0x204, m.PC)
}

func TestTraceHook(t *testing.T) {
	m := newTestMachine(t)

	var gotPC, gotOpcode uint16
	var gotAsm string
	m.Trace = func(pc, opcode uint16, asm string) {
		gotPC = pc
		gotOpcode = opcode
		gotAsm = asm
	}

	step(m, 0x00E0)

	assert.Equal(t, Entry, gotPC)
	assert.Equal(t, 0x00E0, gotOpcode)
	assert.Equal(t, "CLS", gotAsm)
}
