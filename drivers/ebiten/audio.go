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

package ebiten

import (
	"encoding/binary"
	"math"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
)

const (
	sampleRate = 48000
	toneFreq   = 440

	// kept low, the tone is a status signal, not music
	volume = 0.1
)

// A tonePlayer streams a square wave through an oto player. The player is
// started once and runs for the lifetime of the driver; the wave source is
// gated by an atomic flag, producing silence while the tone is off. oto
// reads samples from its own goroutine, hence the atomic.
type tonePlayer struct {
	player *oto.Player
	wave   *squareWave
}

// squareWave is an endless float32 LE sample source: a square wave at
// toneFreq while active, zeros otherwise.
type squareWave struct {
	active atomic.Bool
	pos    int
}

func (w *squareWave) Read(p []byte) (int, error) {
	const period = sampleRate / toneFreq

	n := len(p) / 4
	for i := 0; i < n; i++ {
		var sample float32
		if w.active.Load() {
			if w.pos%period < period/2 {
				sample = volume
			} else {
				sample = -volume
			}
		}
		w.pos = (w.pos + 1) % period
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(sample))
	}
	return n * 4, nil
}

func newTonePlayer() (*tonePlayer, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return nil, err
	}
	<-ready

	wave := &squareWave{}
	t := &tonePlayer{
		player: ctx.NewPlayer(wave),
		wave:   wave,
	}
	t.player.Play()
	return t, nil
}

func (t *tonePlayer) set(active bool) {
	t.wave.active.Store(active)
}

func (t *tonePlayer) close() {
	t.player.Close()
}
