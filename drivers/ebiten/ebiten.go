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

// Package ebiten implements a windowed frontend built on the Ebitengine
// game library. The display buffer is blitted as a logical-resolution
// pixel image that Ebitengine scales to the window, keys follow the
// classic 1234 / QWER / ASDF / ZXCV layout and the tone is a square wave
// streamed through oto.
//
// The driver owns the host event loop: Ebitengine ticks at 60 Hz by
// default, so one machine frame runs per game update. Escape quits.
package ebiten

import (
	"context"
	"fmt"
	"image/color"
	"log"
	"reflect"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/retroox/octavo/octavo"
)

const windowTitle = "octavo"

// defaultScale is the window pixel size of one display pixel.
const defaultScale = 20

// An EbitenDriver is a windowed frontend that uses the Ebitengine library.
type EbitenDriver struct {
	scale  int
	fg     color.RGBA
	bg     color.RGBA
	keyMap map[ebiten.Key]uint8
	frame  []byte
	tone   *tonePlayer
}

func (d *EbitenDriver) OnInit(m *octavo.Machine) error {
	if d.scale == 0 {
		d.scale = defaultScale
	}
	if d.fg == (color.RGBA{}) && d.bg == (color.RGBA{}) {
		d.fg = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
		d.bg = color.RGBA{A: 0xFF}
	}
	if d.keyMap == nil {
		d.keyMap = map[ebiten.Key]uint8{
			ebiten.KeyDigit1: octavo.Key1, ebiten.KeyDigit2: octavo.Key2,
			ebiten.KeyDigit3: octavo.Key3, ebiten.KeyDigit4: octavo.KeyC,
			ebiten.KeyQ: octavo.Key4, ebiten.KeyW: octavo.Key5,
			ebiten.KeyE: octavo.Key6, ebiten.KeyR: octavo.KeyD,
			ebiten.KeyA: octavo.Key7, ebiten.KeyS: octavo.Key8,
			ebiten.KeyD: octavo.Key9, ebiten.KeyF: octavo.KeyE,
			ebiten.KeyZ: octavo.KeyA, ebiten.KeyX: octavo.Key0,
			ebiten.KeyC: octavo.KeyB, ebiten.KeyV: octavo.KeyF,
		}
	}

	d.frame = make([]byte, int(m.Width)*int(m.Height)*4)

	var err error
	d.tone, err = newTonePlayer()
	return err
}

// game adapts the machine to the ebiten.Game interface. Ebitengine ticks
// Update at 60 Hz, which is exactly the frame cadence, so every update
// runs one machine frame.
type game struct {
	ctx context.Context
	m   *octavo.Machine
	d   *EbitenDriver
}

func (g *game) Update() error {
	select {
	case <-g.ctx.Done():
		return ebiten.Termination
	default:
	}
	if !g.m.Frame() {
		return ebiten.Termination
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.WritePixels(g.d.frame)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return int(g.m.Width), int(g.m.Height)
}

// Run starts the Ebitengine game loop and blocks until the machine halts,
// ctx is done or the window is closed.
func (d *EbitenDriver) Run(ctx context.Context, m *octavo.Machine) error {
	ebiten.SetWindowSize(int(m.Width)*d.scale, int(m.Height)*d.scale)
	ebiten.SetWindowTitle(windowTitle)

	err := ebiten.RunGame(&game{ctx: ctx, m: m, d: d})
	if err == ebiten.Termination {
		return nil
	}
	return err
}

// PollInput samples the keyboard state into the keypad matrix. Returns
// false on Escape; closing the window is handled by Ebitengine itself.
func (d *EbitenDriver) PollInput(m *octavo.Machine) bool {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return false
	}
	for hostKey, key := range d.keyMap {
		m.Keypad[key] = ebiten.IsKeyPressed(hostKey)
	}
	return true
}

// Render repaints the RGBA frame from the display buffer. The actual blit
// happens in game.Draw, on Ebitengine's schedule.
func (d *EbitenDriver) Render(m *octavo.Machine) {
	for i, on := range m.Display {
		c := d.bg
		if on {
			c = d.fg
		}
		d.frame[i*4+0] = c.R
		d.frame[i*4+1] = c.G
		d.frame[i*4+2] = c.B
		d.frame[i*4+3] = c.A
	}
}

func (d *EbitenDriver) SetTone(active bool) {
	d.tone.set(active)
}

func (d *EbitenDriver) GetData(key string) interface{} {
	return nil
}

func (d *EbitenDriver) SetData(key string, value interface{}) error {
	switch key {
	case "scale":
		scale, ok := value.(int)
		if !ok || scale < 1 {
			return fmt.Errorf("invalid value %v for scale", value)
		}
		d.scale = scale
		return nil
	case "fg", "bg":
		c, ok := value.(color.RGBA)
		if !ok {
			return fmt.Errorf("invalid type %s for %s",
				reflect.TypeOf(value), key)
		}
		if key == "fg" {
			d.fg = c
		} else {
			d.bg = c
		}
		return nil
	case "key_map":
		newMap, ok := value.(map[ebiten.Key]uint8)
		if !ok {
			return fmt.Errorf("invalid type %s for key_map",
				reflect.TypeOf(value))
		}
		d.keyMap = newMap
		return nil
	}
	return fmt.Errorf("unknown data key '%s'", key)
}

func (d *EbitenDriver) Close() {
	if d.tone != nil {
		d.tone.close()
	}
}

// -----------------------------------------------------------------------------

func init() {
	err := octavo.RegisterDriver("ebiten", &EbitenDriver{})
	if err != nil {
		log.Fatal(err)
	}
}
