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

// Package termloop implements a terminal frontend built on the termloop
// library. It renders the display as terminal cells next to a live view of
// the machine state (registers, pointers, timers, stack).
//
// The driver owns the host event loop: Run starts the termloop game and
// drives one machine frame per termloop draw. Ctrl+C ends the game.
//
// Key mappings can be modified through SetDriverData("key_map", myMap),
// where myMap is a map[termloop.Key]uint8 with termloop keys as keys and
// keypad indexes (octavo.Key0...octavo.KeyF) as values.
package termloop

import (
	"context"
	"fmt"
	"log"
	"reflect"
	"time"

	tl "github.com/JoelOtter/termloop"
	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/generators"
	"github.com/faiface/beep/speaker"
	"github.com/retroox/octavo/octavo"
)

// keyHoldTime is how long a key stays pressed after its keydown event.
// Terminals only report keydown, so releases are synthesized on a timer.
const keyHoldTime = time.Millisecond * 100

// A TermloopDriver is a terminal-based frontend that uses the termloop
// library. It shows the current machine state in real time and the screen.
type TermloopDriver struct {
	g                 *tl.Game
	registers         *tl.Text
	pointersAndTimers *tl.Text
	devices           *tl.Text
	stack             []*tl.Text
	events            [10]*tl.Text
	screen            [][]*tl.Rectangle
	lastScreen        []bool
	keyMap            map[tl.Key]uint8
	timers            map[uint8]time.Time
	sampleRate        beep.SampleRate
	tonePlaying       bool
}

// printEvent pushes a line onto the scrolling event log.
func (d *TermloopDriver) printEvent(s string) {
	for i := len(d.events) - 1; i > 0; i-- {
		d.events[i].SetText(d.events[i-1].Text())
	}
	d.events[0].SetText(s)
}

// inputHandler is a wrapper entity that receives termloop key events and
// presses keypad keys on the machine.
type inputHandler struct {
	m *octavo.Machine
	d *TermloopDriver
}

func (i *inputHandler) Draw(s *tl.Screen) {}

func (i *inputHandler) Tick(ev tl.Event) {
	if ev.Type != tl.EventKey {
		return
	}
	key, ok := i.d.keyMap[ev.Key]
	if !ok {
		return
	}
	i.m.Keypad[key] = true
	i.d.timers[key] = time.Now()
}

func (d *TermloopDriver) OnInit(m *octavo.Machine) error {
	// hex keyboard with 16 keys.
	// 8, 4, 6 and 2 are typically used for directional input.
	if d.keyMap == nil {
		d.keyMap = map[tl.Key]uint8{
			tl.KeyTab:        octavo.Key0,
			tl.KeyF2:         octavo.Key1,
			tl.KeyF3:         octavo.Key2,
			tl.KeyF4:         octavo.Key3,
			tl.KeyF5:         octavo.Key4,
			tl.KeyF6:         octavo.Key5,
			tl.KeyF7:         octavo.Key6,
			tl.KeyF8:         octavo.Key7,
			tl.KeyF9:         octavo.Key8,
			tl.KeyF10:        octavo.Key9,
			tl.KeyCtrlA:      octavo.KeyA,
			tl.KeyCtrlB:      octavo.KeyB,
			tl.KeyCtrlC:      octavo.KeyC,
			tl.KeyCtrlD:      octavo.KeyD,
			tl.KeyCtrlE:      octavo.KeyE,
			tl.KeyCtrlF:      octavo.KeyF,
			tl.KeyArrowDown:  octavo.Key2,
			tl.KeyArrowLeft:  octavo.Key4,
			tl.KeyArrowRight: octavo.Key6,
			tl.KeyArrowUp:    octavo.Key8,
			tl.KeyEnter:      octavo.Key5,
		}
	}
	d.timers = make(map[uint8]time.Time)

	d.sampleRate = beep.SampleRate(44100)
	if err := speaker.Init(d.sampleRate, 1800); err != nil {
		return err
	}

	// init termloop
	d.g = tl.NewGame()
	scr := d.g.Screen()

	scr.AddEntity(&inputHandler{m, d})
	scr.AddEntity(tl.NewText(0, 0, "Stack   Events",
		tl.ColorDefault, tl.ColorDefault))

	// stack
	d.stack = make([]*tl.Text, len(m.Stack))
	for i := 0; i < len(d.stack); i++ {
		d.stack[i] = tl.NewText(
			0, i+1, "", tl.ColorDefault, tl.ColorDefault)
		scr.AddEntity(d.stack[i])
	}

	// event log
	for i := 0; i < len(d.events); i++ {
		d.events[i] = tl.NewText(
			8, i+1, "", tl.ColorDefault, tl.ColorDefault)
		scr.AddEntity(d.events[i])
	}

	// machine info
	d.registers = tl.NewText(20, 0, "placeholder",
		tl.ColorDefault, tl.ColorDefault)
	scr.AddEntity(d.registers)

	d.pointersAndTimers = tl.NewText(20, 1, "placeholder",
		tl.ColorDefault, tl.ColorDefault)
	scr.AddEntity(d.pointersAndTimers)

	d.devices = tl.NewText(20, 2, "placeholder",
		tl.ColorDefault, tl.ColorDefault)
	scr.AddEntity(d.devices)

	// screen preview at 20,5
	d.screen = make([][]*tl.Rectangle, m.Width)
	color := tl.ColorWhite // foreground

	for i := uint8(0); i < m.Width; i++ {
		d.screen[i] = make([]*tl.Rectangle, m.Height)

		for j := uint8(0); j < m.Height; j++ {
			d.screen[i][j] = tl.NewRectangle(
				20+int(i), 5+int(j),
				1, 1, color,
			)
		}
	}

	d.lastScreen = make([]bool, len(m.Display))
	log.Println("TermloopDriver initialized")
	return nil
}

// frameRunner is a wrapper entity that runs one machine frame per termloop
// draw call. Once the machine halts or ctx is cancelled, the state freezes
// on screen until Ctrl+C ends the game.
type frameRunner struct {
	ctx    context.Context
	m      *octavo.Machine
	halted bool
}

func (f *frameRunner) Draw(s *tl.Screen) {
	if f.halted {
		return
	}
	select {
	case <-f.ctx.Done():
		f.halted = true
		return
	default:
	}
	if !f.m.Frame() {
		f.halted = true
	}
	// we must use Draw because Tick is only called on input
}

func (f *frameRunner) Tick(ev tl.Event) {}

// Run starts the termloop game and blocks until the player ends it with
// Ctrl+C. Frames are paced by termloop's own draw loop.
func (d *TermloopDriver) Run(ctx context.Context, m *octavo.Machine) error {
	d.g.Screen().AddEntity(&frameRunner{ctx: ctx, m: m})
	d.g.Start()
	return nil
}

// PollInput releases keys whose hold time expired. Presses happen in the
// input entity as termloop delivers the key events.
func (d *TermloopDriver) PollInput(m *octavo.Machine) bool {
	for key, t := range d.timers {
		if !m.Keypad[key] {
			continue
		}
		if time.Since(t) > keyHoldTime {
			m.Keypad[key] = false
		}
	}
	return true
}

func (d *TermloopDriver) Render(m *octavo.Machine) {
	// update machine info
	d.registers.SetText(fmt.Sprintf("Registers: % 02X", m.V))
	d.pointersAndTimers.SetText(
		fmt.Sprintf("I: %04X SP: %v, PC: %04X, DT: %02X, ST: %02X",
			m.I, m.SP, m.PC, m.DT, m.ST))
	d.devices.SetText(fmt.Sprintf("Memory: %v bytes, Screen: %v*%v",
		len(m.Memory), m.Width, m.Height))

	// update stack
	for i := 0; i < len(m.Stack); i++ {
		if i <= m.SP {
			d.stack[i].SetText(fmt.Sprintf("%04X", m.Stack[i]))
		} else {
			d.stack[i].SetText("")
		}
	}

	// diff the display buffer and only touch pixels that changed
	scr := d.g.Screen()
	for y := uint8(0); y < m.Height; y++ {
		for x := uint8(0); x < m.Width; x++ {
			index := int(y)*int(m.Width) + int(x)
			now, before := m.Display[index], d.lastScreen[index]
			if now && !before {
				scr.AddEntity(d.screen[x][y])
			} else if !now && before {
				scr.RemoveEntity(d.screen[x][y])
			}
		}
	}
	copy(d.lastScreen, m.Display)
}

func (d *TermloopDriver) SetTone(active bool) {
	if active == d.tonePlaying {
		return
	}
	d.tonePlaying = active

	if !active {
		speaker.Clear()
		return
	}
	d.printEvent("BEEP")
	tone, err := generators.SquareTone(d.sampleRate, 300)
	if err != nil {
		return
	}
	speaker.Play(&effects.Volume{
		Streamer: tone,
		Base:     2,
		Volume:   -3,
	})
}

func (d *TermloopDriver) GetData(key string) interface{} {
	if key == "ctx" {
		return d.g
	}
	return nil
}

func (d *TermloopDriver) SetData(key string, value interface{}) error {
	if key == "key_map" {
		newMap, ok := value.(map[tl.Key]uint8)
		if !ok {
			return fmt.Errorf("invalid type %s for key_map",
				reflect.TypeOf(value))
		}
		d.keyMap = newMap
		return nil
	}
	return fmt.Errorf("unknown data key '%s'", key)
}

func (d *TermloopDriver) Close() {
	speaker.Clear()
}

// -----------------------------------------------------------------------------

func init() {
	err := octavo.RegisterDriver("termloop", &TermloopDriver{})
	if err != nil {
		log.Fatal(err)
	}
}
