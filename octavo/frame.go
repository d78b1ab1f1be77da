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
	"time"
)

// FrameRate is the frame and timer cadence in Hz.
const FrameRate = 60

// StepsPerFrame is the number of instructions executed per frame for the
// machine's clock rate, never less than one.
func (m *Machine) StepsPerFrame() int {
	steps := m.ClockHz / FrameRate
	if steps < 1 {
		steps = 1
	}
	return steps
}

// Frame runs one frame without pacing: the driver refreshes the keypad, a
// clock-rate batch of instructions executes, the timers tick once, and the
// display buffer and tone gate are handed to the driver. Returns false when
// the driver asked to halt. Frontends that own the host event loop
// (termloop, ebiten) call Frame once per host frame; Run paces it otherwise.
func (m *Machine) Frame() bool {
	drv := drivers[m.driver]

	if !drv.PollInput(m) {
		return false
	}
	for i := 0; i < m.StepsPerFrame(); i++ {
		m.Step()
	}
	m.TickTimers()
	drv.Render(m)
	drv.SetTone(m.SoundActive())
	return true
}

// Run drives frames at 60 Hz until the driver reports a halt or ctx is
// done. Each frame's wall-clock time is measured and the remainder of the
// 16.67 ms budget is slept, never a negative duration.
func (m *Machine) Run(ctx context.Context) error {
	const budget = time.Second / FrameRate

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		start := time.Now()
		if !m.Frame() {
			return nil
		}
		if rest := budget - time.Since(start); rest > 0 {
			time.Sleep(rest)
		}
	}
}

// Start runs the machine to completion on its driver: the driver is
// initialized, takes over frame pacing (drivers with their own host loop
// pace themselves, the rest use Run) and is closed when execution ends.
// ctx is the external halt signal, observed between frames.
func (m *Machine) Start(ctx context.Context) error {
	drv := drivers[m.driver]

	if err := drv.OnInit(m); err != nil {
		return err
	}
	defer drv.Close()
	return drv.Run(ctx, m)
}
