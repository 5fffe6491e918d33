package preset

import (
	"errors"
	"fmt"
	"strconv"
)

// Field identifies one sample attribute for table-style access. The accessor
// table replaces the original application's column-name lookup with an
// enum-keyed dispatch, preserving the editable flag and the
// validation-on-write contract per field.
type Field int

const (
	FieldFile Field = iota
	FieldRootNote
	FieldLowNote
	FieldHighNote
	FieldLowVelocity
	FieldHighVelocity
	FieldSeqMode
	FieldSeqLength
	FieldSeqPosition
)

// ErrReadOnly is returned when writing to a non-editable field.
var ErrReadOnly = errors.New("field is read-only")

// FieldSpec describes one accessor table entry.
type FieldSpec struct {
	Name     string
	Editable bool
	Get      func(*Sample) string
	set      func(*Sample, string) error
}

// setNoteField accepts either a note name ("C4") or a plain MIDI number.
func setNoteField(assign func(*Sample, int) error) func(*Sample, string) error {
	return func(s *Sample, text string) error {
		if v, err := strconv.Atoi(text); err == nil {
			return assign(s, v)
		}
		v, err := ParseNote(text)
		if err != nil {
			return err
		}
		return assign(s, v)
	}
}

func setIntField(assign func(*Sample, int) error) func(*Sample, string) error {
	return func(s *Sample, text string) error {
		v, err := strconv.Atoi(text)
		if err != nil {
			return fmt.Errorf("invalid number %q", text)
		}
		return assign(s, v)
	}
}

var fieldSpecs = [...]FieldSpec{
	FieldFile: {
		Name: "file", Editable: false,
		Get: func(s *Sample) string { return s.FileName() },
	},
	FieldRootNote: {
		Name: "rootNote", Editable: true,
		Get: func(s *Sample) string { return FormatNote(s.RootNote) },
		set: setNoteField((*Sample).SetRootNote),
	},
	FieldLowNote: {
		Name: "lowNote", Editable: true,
		Get: func(s *Sample) string { return FormatNote(s.LowNote) },
		set: setNoteField((*Sample).SetLowNote),
	},
	FieldHighNote: {
		Name: "highNote", Editable: true,
		Get: func(s *Sample) string { return FormatNote(s.HighNote) },
		set: setNoteField((*Sample).SetHighNote),
	},
	FieldLowVelocity: {
		Name: "lowVelocity", Editable: true,
		Get: func(s *Sample) string { return strconv.Itoa(s.LowVelocity) },
		set: setIntField((*Sample).SetLowVelocity),
	},
	FieldHighVelocity: {
		Name: "highVelocity", Editable: true,
		Get: func(s *Sample) string { return strconv.Itoa(s.HighVelocity) },
		set: setIntField((*Sample).SetHighVelocity),
	},
	FieldSeqMode: {
		Name: "seqMode", Editable: true,
		Get: func(s *Sample) string { return string(s.SeqMode) },
		set: func(s *Sample, text string) error {
			mode, err := ParseSeqMode(text)
			if err != nil {
				return err
			}
			s.SeqMode = mode
			return nil
		},
	},
	FieldSeqLength: {
		Name: "seqLength", Editable: true,
		Get: func(s *Sample) string { return strconv.Itoa(s.SeqLength) },
		set: setIntField((*Sample).SetSeqLength),
	},
	FieldSeqPosition: {
		Name: "seqPosition", Editable: true,
		Get: func(s *Sample) string { return strconv.Itoa(s.SeqPosition) },
		set: setIntField((*Sample).SetSeqPosition),
	},
}

// Spec returns the accessor table entry for the field.
func (f Field) Spec() FieldSpec {
	return fieldSpecs[f]
}

// Set writes a textual value through the field's validator. Failed writes
// leave the sample untouched.
func (f Field) Set(s *Sample, text string) error {
	spec := fieldSpecs[f]
	if !spec.Editable {
		return fmt.Errorf("%w: %s", ErrReadOnly, spec.Name)
	}
	return spec.set(s, text)
}

// AllFields lists the fields in table column order.
func AllFields() []Field {
	fields := make([]Field, len(fieldSpecs))
	for i := range fieldSpecs {
		fields[i] = Field(i)
	}
	return fields
}
