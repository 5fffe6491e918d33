// Package audition renders a preset to a Standard MIDI File sketch: one note
// per mapped sample at its root, so the mapping can be heard in any DAW.
package audition

import (
	"bytes"
	"errors"
	"fmt"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/dspforge/dspforge/pkg/preset"
)

const (
	ticksPerQuarter = 480
	tempo           = 120.0
)

// ErrEmptyPreset is returned when the preset has no samples to sketch.
var ErrEmptyPreset = errors.New("preset has no samples")

// Sketch generates a single-track SMF playing each sample's root note for a
// quarter note, in group order.
func Sketch(p *preset.Preset) ([]byte, error) {
	groups := p.NonEmptyGroups()
	if len(groups) == 0 {
		return nil, ErrEmptyPreset
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(ticksPerQuarter)

	var track smf.Track

	// Tempo meta event
	microsecondsPerBeat := uint32(60000000.0 / tempo)
	tempoData := smf.Message([]byte{
		0xFF, 0x51, 0x03,
		byte(microsecondsPerBeat >> 16),
		byte(microsecondsPerBeat >> 8),
		byte(microsecondsPerBeat),
	})
	track.Add(0, tempoData)

	channel := uint8(0)
	for _, g := range groups {
		for _, smp := range g.Samples {
			velocity := uint8((smp.LowVelocity + smp.HighVelocity) / 2)
			if velocity == 0 {
				velocity = 1
			}
			track.Add(0, midi.NoteOn(channel, uint8(smp.RootNote), velocity))
			track.Add(ticksPerQuarter, midi.NoteOff(channel, uint8(smp.RootNote)))
		}
	}

	track.Close(0)
	if err := s.Add(track); err != nil {
		return nil, fmt.Errorf("failed to add track: %w", err)
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write MIDI: %w", err)
	}
	return buf.Bytes(), nil
}
