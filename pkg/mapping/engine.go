// Package mapping infers sample mapping attributes from file names: root
// notes, round-robin variation suffixes, and key ranges filled across a
// sample set.
package mapping

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/dspforge/dspforge/pkg/preset"
)

// notePattern matches a note letter, an optional accidental and an octave
// anywhere in the upper-cased file stem, e.g. C4, A#3, BB2 (Bb2).
var notePattern = regexp.MustCompile(`([A-G][#B]?)(\d+)`)

var noteOffsets = map[string]int{
	"C": 0, "C#": 1, "DB": 1, "D": 2, "D#": 3, "EB": 3,
	"E": 4, "F": 5, "F#": 6, "GB": 6, "G": 7, "G#": 8,
	"AB": 8, "A": 9, "A#": 10, "BB": 10, "B": 11,
}

// Drum-name heuristics: a drum token followed (eventually) by an octave
// digit maps to a fixed pitch class transposed by that octave.
var drumPatterns = []struct {
	re   *regexp.Regexp
	base int
}{
	{regexp.MustCompile(`KICK.*?C?(\d+)`), 36},
	{regexp.MustCompile(`SNARE.*?C?(\d+)`), 38},
	{regexp.MustCompile(`HAT.*?C?(\d+)`), 42},
}

// pianoLow..pianoHigh is the playable range inference is restricted to.
const (
	pianoLow  = 21
	pianoHigh = 108
)

func stem(filename string) string {
	if i := strings.LastIndexByte(filename, '.'); i > 0 {
		return filename[:i]
	}
	return filename
}

// ExtractRootNote infers a MIDI root note from a file name. The note-letter
// family is tried first, then the drum-name heuristics; the first hit within
// the playable piano range [21,108] wins. Returns false when nothing
// matches, which callers treat as "unmapped", not as an error.
func ExtractRootNote(filename string) (int, bool) {
	name := strings.ToUpper(stem(filename))

	if m := notePattern.FindStringSubmatch(name); m != nil {
		if offset, ok := noteOffsets[m[1]]; ok {
			octave, err := strconv.Atoi(m[2])
			if err == nil {
				note := 12 + octave*12 + offset
				if note >= pianoLow && note <= pianoHigh {
					return note, true
				}
			}
		}
	}

	for _, dp := range drumPatterns {
		if m := dp.re.FindStringSubmatch(name); m != nil {
			octave, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			note := 12 + octave*12 + dp.base%12
			if note >= pianoLow && note <= pianoHigh {
				return note, true
			}
		}
	}

	return 0, false
}

// DetectRoundRobin scans the sample's file stem for a round-robin variation
// suffix (_rr1, _2, _round1, _alt1, _var1). On a match the sample becomes an
// individual round-robin member at the found position; seqLength is left for
// later configuration or auto-detection. No match leaves the sample
// untouched.
func DetectRoundRobin(s *preset.Sample) {
	name := strings.ToLower(s.Stem())
	for _, re := range rrSuffixes {
		if m := re.FindStringSubmatch(name); m != nil {
			pos, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			s.SeqMode = preset.SeqRoundRobin
			s.SeqPosition = pos
			return
		}
	}
}

// Progress reports batch progress; done counts samples already processed and
// file names the sample about to be processed ("" on the final call).
type Progress func(done, total int, file string)

// AutoMap infers root notes and round-robin suffixes for every sample,
// pinning each mapped sample's range to its root note. Cancellation is
// checked between samples; already-processed samples keep their mutations.
// Returns the number of samples that mapped; zero matches is an
// informational outcome, not an error.
func AutoMap(ctx context.Context, samples []*preset.Sample, progress Progress) (int, error) {
	mapped := 0
	total := len(samples)
	for i, s := range samples {
		if err := ctx.Err(); err != nil {
			return mapped, err
		}
		if progress != nil {
			progress(i, total, s.FileName())
		}
		if root, ok := ExtractRootNote(s.FileName()); ok {
			s.RootNote = root
			s.LowNote = root
			s.HighNote = root
			mapped++
		}
		DetectRoundRobin(s)
	}
	if progress != nil {
		progress(total, total, "")
	}
	return mapped, nil
}

// RoughMap is the coarse variant of AutoMap: each mapped sample gets a
// two-octave window clamped to [0,127] around its root instead of a pinned
// range. Round-robin suffixes are not detected here.
func RoughMap(samples []*preset.Sample) int {
	mapped := 0
	for _, s := range samples {
		root, ok := ExtractRootNote(s.FileName())
		if !ok {
			continue
		}
		low := root - 12
		if low < 0 {
			low = 0
		}
		high := root + 12
		if high > 127 {
			high = 127
		}
		s.RootNote = root
		s.LowNote = low
		s.HighNote = high
		mapped++
	}
	return mapped
}

// ExtendRanges partitions the MIDI range between the lowest and highest root
// notes with no gaps and no overlaps. For each distinct root note, lowNote
// starts one above the previous root's assigned high and highNote ends one
// below the next distinct root. The outermost roots stay pinned to
// themselves; ranges are never extended below the minimum or above the
// maximum root. Every sample sharing a root note gets the same range.
func ExtendRanges(samples []*preset.Sample) {
	if len(samples) == 0 {
		return
	}

	byNote := make(map[int][]*preset.Sample)
	for _, s := range samples {
		byNote[s.RootNote] = append(byNote[s.RootNote], s)
	}

	notes := make([]int, 0, len(byNote))
	for n := range byNote {
		notes = append(notes, n)
	}
	sort.Ints(notes)

	lowest := notes[0]
	highest := notes[len(notes)-1]

	prevHigh := 0
	for i, root := range notes {
		low := root
		if root != lowest {
			low = prevHigh + 1
		}
		high := root
		if root != highest {
			high = notes[i+1] - 1
		}
		for _, s := range byNote[root] {
			s.LowNote = low
			s.HighNote = high
		}
		prevHigh = high
	}
}

// AutoGroupByNote partitions samples by the note name of their root note and
// moves each partition into the group of that name, reusing an existing
// group rather than renaming on collision.
func AutoGroupByNote(doc *preset.Document, samples []*preset.Sample) {
	byName := make(map[string][]*preset.Sample)
	var order []string
	for _, s := range samples {
		name := preset.FormatNote(s.RootNote)
		if _, seen := byName[name]; !seen {
			order = append(order, name)
		}
		byName[name] = append(byName[name], s)
	}

	for _, name := range order {
		g := doc.Preset.GroupByName(name)
		if g == nil {
			g = doc.CreateGroup(name)
		}
		for _, s := range byName[name] {
			doc.AddSampleToGroup(s, g)
		}
	}
}
