// Package preset implements the in-memory model for a DecentSampler preset:
// samples, groups, the preset document and its change notifications. The
// model works purely on file path references; audio content is never opened
// or validated here.
package preset

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrRange is wrapped by every validation failure caused by a value outside
// its allowed domain.
var ErrRange = errors.New("value out of range")

// SeqMode selects how the sampler chooses between samples mapped to
// overlapping ranges on repeated triggers.
type SeqMode string

const (
	SeqAlways     SeqMode = "always"
	SeqRandom     SeqMode = "random"
	SeqTrueRandom SeqMode = "true_random"
	SeqRoundRobin SeqMode = "round_robin"
)

// ParseSeqMode validates a seqMode string.
func ParseSeqMode(s string) (SeqMode, error) {
	switch SeqMode(s) {
	case SeqAlways, SeqRandom, SeqTrueRandom, SeqRoundRobin:
		return SeqMode(s), nil
	}
	return "", fmt.Errorf("invalid seqMode %q: must be one of always, random, true_random, round_robin", s)
}

// Sample is one audio file reference plus its mapping attributes.
//
// lowNote <= rootNote <= highNote is deliberately not enforced; the original
// application allows inverted and detached ranges and so do we.
type Sample struct {
	FilePath     string
	RootNote     int
	LowNote      int
	HighNote     int
	LowVelocity  int
	HighVelocity int
	SeqMode      SeqMode
	SeqLength    int
	SeqPosition  int

	// Selected is a transient UI flag; it is never persisted.
	Selected bool
}

// NewSample creates a sample with the documented defaults.
func NewSample(path string) *Sample {
	return &Sample{
		FilePath:     path,
		RootNote:     60,
		LowNote:      0,
		HighNote:     127,
		LowVelocity:  0,
		HighVelocity: 127,
		SeqMode:      SeqAlways,
		SeqLength:    0,
		SeqPosition:  1,
	}
}

// FileName returns the base name of the sample file, the only path component
// that survives into exported markup.
func (s *Sample) FileName() string {
	return filepath.Base(s.FilePath)
}

// Stem returns the base name with the extension stripped.
func (s *Sample) Stem() string {
	name := s.FileName()
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func checkMIDIValue(field string, v int) error {
	if v < 0 || v > 127 {
		return fmt.Errorf("%w: %s must be between 0 and 127, got %d", ErrRange, field, v)
	}
	return nil
}

// SetRootNote assigns the root note, rejecting values outside [0,127]. The
// prior value is retained on failure.
func (s *Sample) SetRootNote(v int) error {
	if err := checkMIDIValue("rootNote", v); err != nil {
		return err
	}
	s.RootNote = v
	return nil
}

func (s *Sample) SetLowNote(v int) error {
	if err := checkMIDIValue("lowNote", v); err != nil {
		return err
	}
	s.LowNote = v
	return nil
}

func (s *Sample) SetHighNote(v int) error {
	if err := checkMIDIValue("highNote", v); err != nil {
		return err
	}
	s.HighNote = v
	return nil
}

func (s *Sample) SetLowVelocity(v int) error {
	if err := checkMIDIValue("lowVelocity", v); err != nil {
		return err
	}
	s.LowVelocity = v
	return nil
}

func (s *Sample) SetHighVelocity(v int) error {
	if err := checkMIDIValue("highVelocity", v); err != nil {
		return err
	}
	s.HighVelocity = v
	return nil
}

// SetSeqLength assigns the round-robin cycle length; 0 means auto-detect.
func (s *Sample) SetSeqLength(v int) error {
	if v < 0 {
		return fmt.Errorf("%w: seqLength must be 0 (auto) or positive, got %d", ErrRange, v)
	}
	s.SeqLength = v
	return nil
}

// SetSeqPosition assigns the 1-based position within a round-robin cycle.
func (s *Sample) SetSeqPosition(v int) error {
	if v < 1 {
		return fmt.Errorf("%w: seqPosition must be 1 or greater, got %d", ErrRange, v)
	}
	s.SeqPosition = v
	return nil
}

// Copy returns a value copy of the sample.
func (s *Sample) Copy() Sample {
	return *s
}
