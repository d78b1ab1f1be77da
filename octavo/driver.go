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
	"context"
	"fmt"
)

// A Driver is the set of external collaborators the machine talks to:
// window and renderer, keyboard matrix and audio trigger. Drivers should
// register themselves through RegisterDriver in init().
type Driver interface {
	// OnInit is called once before the machine starts executing.
	OnInit(m *Machine) error
	// Run drives the machine until it halts. Drivers that own the host
	// event loop call m.Frame once per host frame; the rest delegate to
	// m.Run, which paces frames at 60 Hz. ctx is the external halt signal.
	Run(ctx context.Context, m *Machine) error
	// PollInput refreshes the keypad matrix, called once per frame.
	// Returning false halts the run loop.
	PollInput(m *Machine) bool
	// Render presents the display buffer. Called only between frames,
	// never interleaved with an instruction batch.
	Render(m *Machine)
	// SetTone switches the audio tone on or off, following the sound
	// timer. Called once per frame.
	SetTone(active bool)
	// GetData returns custom driver data by key, nil when the key is not
	// known.
	GetData(key string) interface{}
	// SetData sets custom driver data, such as key mappings or the render
	// scale. Must be called before OnInit to take effect.
	SetData(key string, value interface{}) error
	// Close releases platform resources when execution ends.
	Close()
}

// -----------------------------------------------------------------------------

var drivers map[string]Driver

// RegisterDriver registers a driver to a name. The driver can then be used
// by passing its name to New.
// This is not thread-safe, so don't call it concurrently to the machine's
// execution.
func RegisterDriver(name string, drv Driver) error {
	if drivers[name] != nil {
		return fmt.Errorf("driver %s already exists", name)
	}
	drivers[name] = drv
	return nil
}

// UnregisterDriver unloads a previously registered driver.
// This is not thread-safe, so don't call it concurrently to the machine's
// execution.
func UnregisterDriver(name string) error {
	if drivers[name] == nil {
		return fmt.Errorf("driver %s does not exist", name)
	}
	delete(drivers, name)
	return nil
}

// -----------------------------------------------------------------------------

// A NullDriver is the default driver. It supplies no input, presents
// nothing and never halts on its own; useful for tests and headless runs.
type NullDriver struct{}

func (d *NullDriver) OnInit(m *Machine) error { return nil }

func (d *NullDriver) Run(ctx context.Context, m *Machine) error {
	return m.Run(ctx)
}

func (d *NullDriver) PollInput(m *Machine) bool      { return true }
func (d *NullDriver) Render(m *Machine)              {}
func (d *NullDriver) SetTone(active bool)            {}
func (d *NullDriver) GetData(key string) interface{} { return nil }

func (d *NullDriver) SetData(key string, value interface{}) error {
	return fmt.Errorf("this driver has no settable data")
}

func (d *NullDriver) Close() {}

// -----------------------------------------------------------------------------

func init() {
	drivers = make(map[string]Driver)

	if err := RegisterDriver("null", &NullDriver{}); err != nil {
		panic(err)
	}
}
