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

// TickTimers advances the timer subsystem by one 60 Hz tick. The delay and
// sound timers decrement independently and floor at zero; they never wrap.
// The frame driver invokes this once per frame, decoupled from the (faster)
// instruction execution rate.
func (m *Machine) TickTimers() {
	if m.DT > 0 {
		m.DT--
	}
	if m.ST > 0 {
		m.ST--
	}
}

// SoundActive reports whether the sound timer is non-zero. The audio
// collaborator gates its tone output on this flag.
func (m *Machine) SoundActive() bool { return m.ST > 0 }
