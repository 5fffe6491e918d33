package mapping

import (
	"testing"
)

func TestBaseName(t *testing.T) {
	tests := []struct {
		stem     string
		expected string
	}{
		{"Piano_C4_rr1", "Piano_C4"},
		{"Piano_C4_RR2", "Piano_C4"},
		{"Piano_C4_2", "Piano_C4"},
		{"Piano_C4_round3", "Piano_C4"},
		{"Piano_C4_alt1", "Piano_C4"},
		{"Piano_C4_var2", "Piano_C4"},
		{"C4#1", "C4"},
		{"Piano_C4", "Piano_C4"},
		{"Piano", "Piano"},
		// suffixes strip in sequence, so stacked suffixes all go
		{"Take_2_rr1", "Take"},
	}

	for _, tt := range tests {
		t.Run(tt.stem, func(t *testing.T) {
			result := BaseName(tt.stem)
			if result != tt.expected {
				t.Errorf("BaseName(%q) = %q, want %q", tt.stem, result, tt.expected)
			}
		})
	}
}

func TestPosition(t *testing.T) {
	tests := []struct {
		stem     string
		expected int
	}{
		{"Piano_C4_rr1", 1},
		{"Piano_C4_rr3", 3},
		{"Piano_C4_2", 2},
		{"Piano_C4_round4", 4},
		{"Piano_C4_alt5", 5},
		{"Piano_C4_var6", 6},
		{"C4#2", 2},
		{"Piano_C4", 1},
		{"Piano", 1},
	}

	for _, tt := range tests {
		t.Run(tt.stem, func(t *testing.T) {
			result := Position(tt.stem)
			if result != tt.expected {
				t.Errorf("Position(%q) = %d, want %d", tt.stem, result, tt.expected)
			}
		})
	}
}
