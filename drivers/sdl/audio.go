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

package sdl

import (
	"github.com/veandco/go-sdl2/sdl"
)

const (
	sampleFreq = 48000
	toneFreq   = 440

	// amplitude of the square wave around the device's silence value.
	// kept low, the tone is a status signal, not music
	amplitude = 24
)

// A toneGenerator queues a square wave to an SDL audio device while the
// sound timer runs. set is called once per frame; the queue is topped up
// whenever it runs low, so the buffer only needs to hold a few frames
// worth of samples.
type toneGenerator struct {
	id     sdl.AudioDeviceID
	spec   sdl.AudioSpec
	buffer []uint8
	active bool
}

func newToneGenerator() (*toneGenerator, error) {
	t := &toneGenerator{}

	spec := &sdl.AudioSpec{
		Freq:     sampleFreq,
		Format:   sdl.AUDIO_U8,
		Channels: 1,
		Samples:  512,
	}

	var err error
	var actualSpec sdl.AudioSpec

	t.id, err = sdl.OpenAudioDevice("", false, spec, &actualSpec, 0)
	if err != nil {
		return nil, err
	}
	t.spec = actualSpec

	// one tenth of a second of square wave, whole periods only so that
	// consecutive queued buffers join without a click
	period := int(t.spec.Freq) / toneFreq
	periods := int(t.spec.Freq) / 10 / period
	t.buffer = make([]uint8, periods*period)
	for i := range t.buffer {
		if i%period < period/2 {
			t.buffer[i] = t.spec.Silence + amplitude
		} else {
			t.buffer[i] = t.spec.Silence - amplitude
		}
	}

	return t, nil
}

func (t *toneGenerator) set(active bool) {
	if active {
		if sdl.GetQueuedAudioSize(t.id) < uint32(len(t.buffer)) {
			sdl.QueueAudio(t.id, t.buffer)
		}
		if !t.active {
			sdl.PauseAudioDevice(t.id, false)
		}
	} else if t.active {
		sdl.PauseAudioDevice(t.id, true)
		sdl.ClearQueuedAudio(t.id)
	}
	t.active = active
}

func (t *toneGenerator) close() {
	sdl.ClearQueuedAudio(t.id)
	sdl.CloseAudioDevice(t.id)
}
