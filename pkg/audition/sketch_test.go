package audition

import (
	"bytes"
	"errors"
	"testing"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/dspforge/dspforge/pkg/preset"
)

func sketchPreset() *preset.Preset {
	p := preset.NewPreset("Test")
	g := preset.NewGroup("C4")
	s1 := preset.NewSample("a.wav")
	s1.RootNote = 60
	s2 := preset.NewSample("b.wav")
	s2.RootNote = 64
	g.AddSample(s1)
	g.AddSample(s2)
	p.AddGroup(g)
	return p
}

func TestSketch(t *testing.T) {
	data, err := Sketch(sketchPreset())
	if err != nil {
		t.Fatalf("Sketch failed: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("MThd")) {
		t.Fatal("output is not a standard MIDI file")
	}

	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("generated MIDI does not parse: %v", err)
	}
	if len(s.Tracks) != 1 {
		t.Fatalf("tracks = %d, want 1", len(s.Tracks))
	}

	var noteOns []uint8
	for _, ev := range s.Tracks[0] {
		msg := ev.Message
		if len(msg) >= 3 && msg[0] >= 0x90 && msg[0] <= 0x9F && msg[2] > 0 {
			noteOns = append(noteOns, msg[1])
		}
	}
	if len(noteOns) != 2 {
		t.Fatalf("note-on events = %d, want 2", len(noteOns))
	}
	if noteOns[0] != 60 || noteOns[1] != 64 {
		t.Errorf("notes = %v, want [60 64]", noteOns)
	}
}

func TestSketchVelocityMidpoint(t *testing.T) {
	p := preset.NewPreset("Test")
	g := preset.NewGroup("G")
	s := preset.NewSample("a.wav")
	s.LowVelocity = 40
	s.HighVelocity = 80
	g.AddSample(s)
	p.AddGroup(g)

	data, err := Sketch(p)
	if err != nil {
		t.Fatal(err)
	}
	parsed, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	for _, ev := range parsed.Tracks[0] {
		msg := ev.Message
		if len(msg) >= 3 && msg[0] >= 0x90 && msg[0] <= 0x9F && msg[2] > 0 {
			if msg[2] != 60 {
				t.Errorf("velocity = %d, want midpoint 60", msg[2])
			}
		}
	}
}

func TestSketchEmptyPreset(t *testing.T) {
	p := preset.NewPreset("Empty")
	p.AddGroup(preset.NewGroup("NoSamples"))

	_, err := Sketch(p)
	if !errors.Is(err, ErrEmptyPreset) {
		t.Errorf("error = %v, want ErrEmptyPreset", err)
	}
}
