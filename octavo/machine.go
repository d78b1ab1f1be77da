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

// Package octavo implements a CHIP-8 virtual machine: the fetch-decode-execute
// core, its timer subsystem and a 60 Hz frame driver. Platform concerns
// (window, audio device, keyboard) are supplied through the Driver interface.
package octavo

import (
	"fmt"
	"math/rand"
	"os"
)

// Entry is the address where loaded programs begin execution. The original
// interpreter occupied the first 512 bytes of memory; only the font table
// lives there now.
const Entry = 0x200

// glyphSize is the number of bytes per font glyph, one row per byte.
const glyphSize = 5

// Keypad indexes for the 16 hexadecimal keys.
const (
	Key0 = iota
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
)

// A ProgramTooLargeError is returned upon attempting to load a program that
// exceeds the memory above the entry point. Loading never truncates.
type ProgramTooLargeError struct {
	Size int
	Free int
}

func (e *ProgramTooLargeError) Error() string {
	return fmt.Sprintf("program too large (size: %v, free memory: %v)",
		e.Size, e.Free)
}

// Settings holds the configuration parameters for a Machine.
type Settings struct {
	// Memory size in bytes. Programs are loaded at Entry (0x200).
	MemorySize uint16
	// Stack size. Defines the maximum amount of nested calls.
	StackSize int
	// Display width and height in pixels.
	Width, Height uint8
	// ClockHz is the instruction execution rate. Each frame executes
	// ClockHz/60 instructions, with a minimum of one.
	ClockHz int
}

// Validate returns an error when the settings aren't valid.
func (s *Settings) Validate() error {
	if int(s.MemorySize) <= Entry {
		return fmt.Errorf("memory size must be > %#x, got %v", Entry, s.MemorySize)
	}
	if s.StackSize < 1 {
		return fmt.Errorf("stack size must be >= 1, got %v", s.StackSize)
	}
	if s.Width < 8 {
		return fmt.Errorf("width must be >= 8, got %v", s.Width)
	}
	if s.Height < 8 {
		return fmt.Errorf("height must be >= 8, got %v", s.Height)
	}
	if s.ClockHz < 1 {
		return fmt.Errorf("clock rate must be >= 1, got %v", s.ClockHz)
	}
	return nil
}

// DefaultSettings mimick the original CHIP-8 machine.
var DefaultSettings = &Settings{
	MemorySize: 0x1000,
	StackSize:  16,
	Width:      64,
	Height:     32,
	ClockHz:    600,
}

// font is the builtin glyph table for the hexadecimal digits, 5 bytes per
// glyph, one row per byte, MSB-first pixel order. Loaded at address 0.
var font = []byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// A TraceFunc receives one event per executed instruction: the address the
// instruction was fetched from, the raw opcode and its pseudo-asm rendering.
type TraceFunc func(pc uint16, opcode uint16, asm string)

// Machine holds the whole state of one CHIP-8 virtual machine. It is owned
// by a single stepping goroutine; the display buffer and the sound-active
// flag are the only state read by collaborators, and only between frames.
type Machine struct {
	// The memory where programs are loaded and executed. Most
	// implementations use 4k (0x1000 bytes).
	Memory []byte
	// V[0x0]~V[0xF] are 8-bit registers. V[0xF] doubles as the
	// arithmetic/collision flag and is overwritten as a side effect of
	// several instructions.
	V [16]uint8
	// 16-bit index register. Used for memory operations.
	I uint16
	// Program counter. Advanced past the current instruction before
	// dispatch.
	PC uint16
	// The call stack, which holds return addresses.
	Stack []uint16
	// The stack pointer. Index of the last value that was pushed on stack,
	// -1 when the stack is empty.
	SP int
	// Timers. These count down at 60hz when they are non-zero. DT times
	// game events; a non-zero ST asks the audio collaborator for a tone.
	DT uint8
	ST uint8
	// Keypad is the hex keyboard with 16 keys, refreshed once per frame by
	// the input collaborator.
	Keypad [16]bool
	// Display is the monochrome screen buffer, row-major with
	// index = y*Width + x. Mutated only by the draw and clear instructions.
	Display       []bool
	Width, Height uint8
	// ClockHz is the instruction execution rate used by the frame driver.
	ClockHz int

	// Trace, when non-nil, is called after every executed instruction.
	Trace TraceFunc

	driver string
	rand   func() uint8
}

// New initializes a new Machine with the given settings. If settings is
// nil, DefaultSettings will be used. driver is the name of a registered
// driver; its OnInit hook runs when the machine starts (see Start).
func New(driver string, s *Settings) (*Machine, error) {
	if drivers[driver] == nil {
		return nil, fmt.Errorf("driver %s not found", driver)
	}

	if s == nil {
		s = DefaultSettings
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	m := &Machine{
		Memory:  make([]byte, s.MemorySize),
		Stack:   make([]uint16, s.StackSize),
		SP:      -1,
		PC:      Entry,
		Display: make([]bool, int(s.Width)*int(s.Height)),
		Width:   s.Width,
		Height:  s.Height,
		ClockHz: s.ClockHz,
		driver:  driver,
		rand:    func() uint8 { return uint8(rand.Uint32()) },
	}
	copy(m.Memory, font)
	return m, nil
}

// String returns formatted information about the machine state.
func (m *Machine) String() string {
	return fmt.Sprintf("Machine{Memory: %v bytes, Registers: [% 02X] I: %04X, "+
		"Stack: % 04X, SP: %v, PC: %04X, DT: %02X, ST: %02X, Display: %v*%v}",
		len(m.Memory), m.V, m.I, m.Stack[:m.SP+1], m.SP, m.PC, m.DT, m.ST,
		m.Width, m.Height)
}

// Driver returns the name of the driver in use by the machine.
func (m *Machine) Driver() string { return m.driver }

// GetDriverData gets custom data from the machine's driver. Returns nil if
// the data key is not known to the driver.
func (m *Machine) GetDriverData(key string) interface{} {
	return drivers[m.driver].GetData(key)
}

// SetDriverData passes custom data, such as key mappings or the render
// scale, to the machine's driver. Must be called before Start.
func (m *Machine) SetDriverData(key string, value interface{}) error {
	return drivers[m.driver].SetData(key, value)
}

// Load opens a CHIP-8 binary file and loads it into memory at the entry
// point. Returns the size, in bytes, of the program and an error if any.
func (m *Machine) Load(path string) (int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	if err := m.LoadBytes(b); err != nil {
		return 0, err
	}
	return len(b), nil
}

// LoadBytes loads a byte array as a CHIP-8 binary into memory at the entry
// point and rewinds the program counter to it. A program larger than the
// free memory is a hard failure, not a truncation.
func (m *Machine) LoadBytes(program []byte) error {
	free := len(m.Memory) - Entry
	if len(program) > free {
		return &ProgramTooLargeError{Size: len(program), Free: free}
	}
	copy(m.Memory[Entry:], program)
	m.PC = Entry
	return nil
}
