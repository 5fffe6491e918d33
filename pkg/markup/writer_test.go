package markup

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dspforge/dspforge/pkg/preset"
)

func testPreset() *preset.Preset {
	p := preset.NewPreset("Grand Piano")
	p.Author = "Jane"
	g := preset.NewGroup("C4")
	s := preset.NewSample("/abs/path/Piano_C4.wav")
	s.RootNote = 60
	s.LowNote = 48
	s.HighNote = 72
	g.AddSample(s)
	p.AddGroup(g)
	return p
}

func TestRenderBasic(t *testing.T) {
	out, err := Render(testPreset(), DefaultOptions())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	text := string(out)

	checks := []string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		`<DecentSampler>`,
		`<!-- Preset Name: Grand Piano -->`,
		`<!-- Author: Jane -->`,
		`<groups volume="1.0" globalTuning="0.0" glideTime="0.0" glideMode="legato">`,
		`<group enabled="true" volume="1.0" ampVelTrack="0.0" groupTuning="0.0">`,
		`<sample path="Samples/Piano_C4.wav" rootNote="60" loNote="48" hiNote="72" loVel="0" hiVel="127">`,
	}
	for _, want := range checks {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q\n%s", want, text)
		}
	}

	// defaults are omitted
	for _, absent := range []string{"minVersion", "seqMode", "seqLength", "seqPosition", "/abs/path"} {
		if strings.Contains(text, absent) {
			t.Errorf("output should not contain %q\n%s", absent, text)
		}
	}
	if !bytes.HasSuffix(out, []byte("\n")) {
		t.Error("output should end with a newline")
	}
}

func TestRenderMinVersion(t *testing.T) {
	opts := DefaultOptions()
	opts.MinVersion = "1.11.16"
	out, err := Render(testPreset(), opts)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(string(out), `<DecentSampler minVersion="1.11.16">`) {
		t.Errorf("minVersion attribute missing:\n%s", out)
	}
}

func TestRenderSequencingAttributes(t *testing.T) {
	p := testPreset()
	g := p.Groups[0]
	g.SeqMode = preset.SeqRoundRobin
	g.SeqLength = 3
	s := g.Samples[0]
	s.SeqPosition = 2

	opts := DefaultOptions()
	opts.SeqMode = preset.SeqRandom
	opts.SeqLength = "4"

	out, err := Render(p, opts)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	text := string(out)

	checks := []string{
		`seqMode="random" seqLength="4"`,
		`seqMode="round_robin" seqLength="3"`,
		`seqPosition="2"`,
	}
	for _, want := range checks {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q\n%s", want, text)
		}
	}
}

func TestRenderEmptyGroupsExcluded(t *testing.T) {
	p := testPreset()
	p.AddGroup(preset.NewGroup("Empty"))

	out, err := Render(p, DefaultOptions())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got := strings.Count(string(out), "<group "); got != 1 {
		t.Errorf("group elements = %d, want 1 (empty groups excluded)", got)
	}
}

func TestRenderNoGroups(t *testing.T) {
	p := preset.NewPreset("Empty Preset")
	p.AddGroup(preset.NewGroup("HasNoSamples"))

	out, err := Render(p, DefaultOptions())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	text := string(out)
	if !strings.Contains(text, "<!-- No sample groups defined -->") {
		t.Errorf("placeholder comment missing:\n%s", text)
	}
	if strings.Contains(text, "<groups") {
		t.Errorf("groups container should be omitted:\n%s", text)
	}
}

func TestRenderDeterministic(t *testing.T) {
	p := testPreset()
	first, err := Render(p, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	second, err := Render(p, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Error("repeated renders of the same state differ")
	}
}

func TestRenderSkipsEmptyMetadata(t *testing.T) {
	p := testPreset()
	p.Author = ""

	out, err := Render(p, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(out), "Author") {
		t.Errorf("empty metadata should not emit a comment:\n%s", out)
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in       float64
		expected string
	}{
		{0, "0.0"},
		{1, "1.0"},
		{0.5, "0.5"},
		{-3.25, "-3.25"},
	}
	for _, tt := range tests {
		if got := formatFloat(tt.in); got != tt.expected {
			t.Errorf("formatFloat(%v) = %q, want %q", tt.in, got, tt.expected)
		}
	}
}
