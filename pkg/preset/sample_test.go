package preset

import (
	"errors"
	"testing"
)

func TestNewSampleDefaults(t *testing.T) {
	s := NewSample("/tmp/Piano_C4.wav")

	if s.RootNote != 60 {
		t.Errorf("RootNote = %d, want 60", s.RootNote)
	}
	if s.LowNote != 0 || s.HighNote != 127 {
		t.Errorf("note range = [%d,%d], want [0,127]", s.LowNote, s.HighNote)
	}
	if s.LowVelocity != 0 || s.HighVelocity != 127 {
		t.Errorf("velocity range = [%d,%d], want [0,127]", s.LowVelocity, s.HighVelocity)
	}
	if s.SeqMode != SeqAlways {
		t.Errorf("SeqMode = %q, want %q", s.SeqMode, SeqAlways)
	}
	if s.SeqLength != 0 || s.SeqPosition != 1 {
		t.Errorf("SeqLength/SeqPosition = %d/%d, want 0/1", s.SeqLength, s.SeqPosition)
	}
	if s.FileName() != "Piano_C4.wav" {
		t.Errorf("FileName() = %q, want %q", s.FileName(), "Piano_C4.wav")
	}
	if s.Stem() != "Piano_C4" {
		t.Errorf("Stem() = %q, want %q", s.Stem(), "Piano_C4")
	}
}

func TestSampleValidationRetainsPriorValue(t *testing.T) {
	s := NewSample("test.wav")
	if err := s.SetRootNote(72); err != nil {
		t.Fatalf("SetRootNote(72) failed: %v", err)
	}

	err := s.SetRootNote(128)
	if err == nil {
		t.Fatal("SetRootNote(128) expected error")
	}
	if !errors.Is(err, ErrRange) {
		t.Errorf("error %v does not wrap ErrRange", err)
	}
	if s.RootNote != 72 {
		t.Errorf("RootNote after failed write = %d, want 72", s.RootNote)
	}

	if err := s.SetSeqPosition(0); err == nil {
		t.Error("SetSeqPosition(0) expected error")
	}
	if s.SeqPosition != 1 {
		t.Errorf("SeqPosition after failed write = %d, want 1", s.SeqPosition)
	}
}

func TestParseSeqMode(t *testing.T) {
	for _, valid := range []string{"always", "random", "true_random", "round_robin"} {
		if _, err := ParseSeqMode(valid); err != nil {
			t.Errorf("ParseSeqMode(%q) failed: %v", valid, err)
		}
	}
	if _, err := ParseSeqMode("shuffle"); err == nil {
		t.Error("ParseSeqMode(\"shuffle\") expected error")
	}
	if _, err := ParseSeqMode(""); err == nil {
		t.Error("ParseSeqMode(\"\") expected error")
	}
}

func TestFieldAccess(t *testing.T) {
	s := NewSample("/tmp/Piano_C4.wav")

	tests := []struct {
		field Field
		value string
		get   string
	}{
		{FieldRootNote, "C3", "C3"},
		{FieldRootNote, "50", "D3"},
		{FieldLowNote, "A0", "A0"},
		{FieldHighVelocity, "100", "100"},
		{FieldSeqMode, "round_robin", "round_robin"},
		{FieldSeqPosition, "3", "3"},
	}

	for _, tt := range tests {
		t.Run(tt.field.Spec().Name+"="+tt.value, func(t *testing.T) {
			if err := tt.field.Set(s, tt.value); err != nil {
				t.Fatalf("Set(%q) failed: %v", tt.value, err)
			}
			if got := tt.field.Spec().Get(s); got != tt.get {
				t.Errorf("Get() = %q, want %q", got, tt.get)
			}
		})
	}
}

func TestFieldFileReadOnly(t *testing.T) {
	s := NewSample("/tmp/Piano_C4.wav")
	err := FieldFile.Set(s, "other.wav")
	if !errors.Is(err, ErrReadOnly) {
		t.Errorf("FieldFile.Set error = %v, want ErrReadOnly", err)
	}
	if s.FilePath != "/tmp/Piano_C4.wav" {
		t.Errorf("FilePath changed to %q", s.FilePath)
	}
}

func TestFieldSetRejectsInvalid(t *testing.T) {
	s := NewSample("test.wav")
	if err := FieldRootNote.Set(s, "X9"); err == nil {
		t.Error("Set(\"X9\") expected error")
	}
	if err := FieldSeqMode.Set(s, "sometimes"); err == nil {
		t.Error("Set(\"sometimes\") expected error")
	}
	if s.RootNote != 60 || s.SeqMode != SeqAlways {
		t.Error("failed writes mutated the sample")
	}
}
