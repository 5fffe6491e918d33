package preset

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// noteNames is indexed by note mod 12; sharps only, matching DecentSampler
// conventions.
var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var noteOffsets = map[string]int{
	"C": 0, "D": 2, "E": 4, "F": 5, "G": 7, "A": 9, "B": 11,
}

// Accepts an optional leading minus on the octave so that notes 0-11
// (octave -1) survive a format/parse round trip.
var noteNameRe = regexp.MustCompile(`^([A-G])([#B]?)(-?\d+)$`)

// FormatNote converts a MIDI note number to a note name such as "C4" or
// "A#3". MIDI note 12 is C0. The input must be in [0,127].
func FormatNote(note int) string {
	return fmt.Sprintf("%s%d", noteNames[note%12], note/12-1)
}

// ParseNote converts a note name such as "C4", "a#3" or "Bb2" to a MIDI note
// number. Flats are one semitone below the natural. Whitespace and case are
// ignored.
func ParseNote(name string) (int, error) {
	cleaned := strings.ToUpper(strings.TrimSpace(name))
	m := noteNameRe.FindStringSubmatch(cleaned)
	if m == nil {
		return 0, fmt.Errorf("invalid note name %q: expected a letter A-G, an optional # or b, and an octave (e.g. C4, A#3)", name)
	}
	semitone := noteOffsets[m[1]]
	switch m[2] {
	case "#":
		semitone++
	case "B":
		semitone--
	}
	octave, err := strconv.Atoi(m[3])
	if err != nil {
		return 0, fmt.Errorf("invalid octave in note name %q", name)
	}
	note := 12 + octave*12 + semitone
	if note < 0 || note > 127 {
		return 0, fmt.Errorf("note %q is outside the MIDI range 0-127", name)
	}
	return note, nil
}
