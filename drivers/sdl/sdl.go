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

// Package sdl implements a windowed frontend built on SDL2. Pixels are
// rendered as scaled filled rectangles, keys follow the classic 1234 / QWER
// / ASDF / ZXCV layout, and the tone is a square wave queued to an SDL
// audio device.
//
// Escape quits, Space pauses. The render scale, pixel outlines, colors and
// key mappings can be changed through SetDriverData before the machine
// starts; see SetData for the accepted keys.
package sdl

import (
	"context"
	"fmt"
	"log"
	"reflect"

	"github.com/retroox/octavo/octavo"
	"github.com/veandco/go-sdl2/sdl"
)

const windowTitle = "octavo"

// defaultScale is the window pixel size of one display pixel.
const defaultScale = 20

// A SDLDriver is a windowed frontend that uses the SDL2 library.
type SDLDriver struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	tone     *toneGenerator

	scale   int32
	outline bool
	fg      sdl.Color
	bg      sdl.Color
	keyMap  map[sdl.Keycode]uint8
	paused  bool
}

func (d *SDLDriver) OnInit(m *octavo.Machine) error {
	if d.scale == 0 {
		d.scale = defaultScale
	}
	if d.fg == (sdl.Color{}) && d.bg == (sdl.Color{}) {
		d.fg = sdl.Color{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
		d.bg = sdl.Color{R: 0x00, G: 0x00, B: 0x00, A: 0xFF}
	}
	if d.keyMap == nil {
		d.keyMap = map[sdl.Keycode]uint8{
			sdl.K_1: octavo.Key1, sdl.K_2: octavo.Key2,
			sdl.K_3: octavo.Key3, sdl.K_4: octavo.KeyC,
			sdl.K_q: octavo.Key4, sdl.K_w: octavo.Key5,
			sdl.K_e: octavo.Key6, sdl.K_r: octavo.KeyD,
			sdl.K_a: octavo.Key7, sdl.K_s: octavo.Key8,
			sdl.K_d: octavo.Key9, sdl.K_f: octavo.KeyE,
			sdl.K_z: octavo.KeyA, sdl.K_x: octavo.Key0,
			sdl.K_c: octavo.KeyB, sdl.K_v: octavo.KeyF,
		}
	}

	err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO | sdl.INIT_EVENTS)
	if err != nil {
		return err
	}

	d.window, err = sdl.CreateWindow(windowTitle,
		int32(sdl.WINDOWPOS_UNDEFINED), int32(sdl.WINDOWPOS_UNDEFINED),
		int32(m.Width)*d.scale, int32(m.Height)*d.scale,
		uint32(sdl.WINDOW_SHOWN))
	if err != nil {
		return err
	}

	d.renderer, err = sdl.CreateRenderer(d.window, -1,
		uint32(sdl.RENDERER_ACCELERATED))
	if err != nil {
		return err
	}

	d.tone, err = newToneGenerator()
	return err
}

// Run delegates pacing to the machine's own 60 Hz loop; SDL does not own
// the host event loop.
func (d *SDLDriver) Run(ctx context.Context, m *octavo.Machine) error {
	return m.Run(ctx)
}

// PollInput drains the SDL event queue and updates the keypad matrix.
// Returns false when the window is closed or Escape is pressed. Space
// pauses: the machine freezes while events keep being serviced so the
// window stays responsive.
func (d *SDLDriver) PollInput(m *octavo.Machine) bool {
	for {
		for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
			switch ev := ev.(type) {
			case *sdl.QuitEvent:
				return false

			case *sdl.KeyboardEvent:
				if ev.Type == sdl.KEYDOWN && ev.Keysym.Sym == sdl.K_ESCAPE {
					return false
				}
				if ev.Type == sdl.KEYDOWN && ev.Keysym.Sym == sdl.K_SPACE &&
					ev.Repeat == 0 {
					d.paused = !d.paused
					continue
				}
				if key, ok := d.keyMap[ev.Keysym.Sym]; ok {
					m.Keypad[key] = ev.Type == sdl.KEYDOWN
				}
			}
		}

		if !d.paused {
			return true
		}
		d.tone.set(false)
		sdl.Delay(16)
	}
}

func (d *SDLDriver) Render(m *octavo.Machine) {
	d.renderer.SetDrawColor(d.bg.R, d.bg.G, d.bg.B, d.bg.A)
	d.renderer.Clear()

	for y := uint8(0); y < m.Height; y++ {
		for x := uint8(0); x < m.Width; x++ {
			if !m.Display[int(y)*int(m.Width)+int(x)] {
				continue
			}
			rect := sdl.Rect{
				X: int32(x) * d.scale,
				Y: int32(y) * d.scale,
				W: d.scale,
				H: d.scale,
			}
			d.renderer.SetDrawColor(d.fg.R, d.fg.G, d.fg.B, d.fg.A)
			d.renderer.FillRect(&rect)
			if d.outline {
				d.renderer.SetDrawColor(d.bg.R, d.bg.G, d.bg.B, d.bg.A)
				d.renderer.DrawRect(&rect)
			}
		}
	}

	d.renderer.Present()
}

func (d *SDLDriver) SetTone(active bool) {
	d.tone.set(active)
}

func (d *SDLDriver) GetData(key string) interface{} {
	switch key {
	case "window":
		return d.window
	case "renderer":
		return d.renderer
	}
	return nil
}

func (d *SDLDriver) SetData(key string, value interface{}) error {
	switch key {
	case "scale":
		scale, ok := value.(int)
		if !ok || scale < 1 {
			return fmt.Errorf("invalid value %v for scale", value)
		}
		d.scale = int32(scale)
		return nil
	case "outline":
		outline, ok := value.(bool)
		if !ok {
			return fmt.Errorf("invalid value %v for outline", value)
		}
		d.outline = outline
		return nil
	case "fg", "bg":
		color, ok := value.(sdl.Color)
		if !ok {
			return fmt.Errorf("invalid type %s for %s",
				reflect.TypeOf(value), key)
		}
		if key == "fg" {
			d.fg = color
		} else {
			d.bg = color
		}
		return nil
	case "key_map":
		newMap, ok := value.(map[sdl.Keycode]uint8)
		if !ok {
			return fmt.Errorf("invalid type %s for key_map",
				reflect.TypeOf(value))
		}
		d.keyMap = newMap
		return nil
	}
	return fmt.Errorf("unknown data key '%s'", key)
}

func (d *SDLDriver) Close() {
	if d.tone != nil {
		d.tone.close()
	}
	if d.renderer != nil {
		d.renderer.Destroy()
	}
	if d.window != nil {
		d.window.Destroy()
	}
	sdl.Quit()
}

// -----------------------------------------------------------------------------

func init() {
	err := octavo.RegisterDriver("sdl", &SDLDriver{})
	if err != nil {
		log.Fatal(err)
	}
}
