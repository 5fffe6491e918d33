package preview

import (
	"testing"

	"github.com/go-audio/audio"
	"github.com/rs/zerolog"
)

func TestStereo16Mono(t *testing.T) {
	buf := &audio.IntBuffer{
		Data:   []int{100, -200},
		Format: &audio.Format{NumChannels: 1, SampleRate: 48000},
	}
	out := stereo16(buf, 16)
	want := []int16{100, 100, -200, -200}
	if len(out) != len(want) {
		t.Fatalf("len = %d, want %d", len(out), len(want))
	}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("out[%d] = %d, want %d", i, out[i], want[i])
		}
	}
}

func TestStereo16Stereo(t *testing.T) {
	buf := &audio.IntBuffer{
		Data:   []int{10, 20, 30, 40},
		Format: &audio.Format{NumChannels: 2, SampleRate: 48000},
	}
	out := stereo16(buf, 16)
	want := []int16{10, 20, 30, 40}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("out[%d] = %d, want %d", i, out[i], want[i])
		}
	}
}

func TestStereo16BitDepthScaling(t *testing.T) {
	mono8 := &audio.IntBuffer{
		Data:   []int{1},
		Format: &audio.Format{NumChannels: 1, SampleRate: 48000},
	}
	if out := stereo16(mono8, 8); out[0] != 256 {
		t.Errorf("8-bit scale: out[0] = %d, want 256", out[0])
	}

	mono24 := &audio.IntBuffer{
		Data:   []int{1 << 16},
		Format: &audio.Format{NumChannels: 1, SampleRate: 48000},
	}
	if out := stereo16(mono24, 24); out[0] != 256 {
		t.Errorf("24-bit scale: out[0] = %d, want 256", out[0])
	}
}

func TestStubPlayerRecordsOrder(t *testing.T) {
	p := NewStubPlayer(zerolog.Nop())
	for _, f := range []string{"a.wav", "b.wav"} {
		if err := p.PlayFile(f); err != nil {
			t.Fatalf("PlayFile(%q) failed: %v", f, err)
		}
	}
	played := p.Played()
	if len(played) != 2 || played[0] != "a.wav" || played[1] != "b.wav" {
		t.Errorf("Played() = %v", played)
	}
}
