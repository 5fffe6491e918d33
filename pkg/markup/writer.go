// Package markup serializes a preset into DecentSampler .dspreset XML text.
// Output is deterministic: fixed attribute order per element, stable
// indentation, and omit-if-default rules, so repeated exports of the same
// state diff cleanly.
package markup

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/dspforge/dspforge/pkg/preset"
)

// Options carries the root and container-level playback attributes.
type Options struct {
	// MinVersion is emitted on the root element only when non-empty and not
	// "0".
	MinVersion   string
	Volume       string
	GlobalTuning string
	GlideTime    string
	GlideMode    string
	SeqMode      preset.SeqMode
	SeqLength    string
}

// DefaultOptions returns the values DecentSampler treats as neutral.
func DefaultOptions() Options {
	return Options{
		MinVersion:   "0",
		Volume:       "1.0",
		GlobalTuning: "0.0",
		GlideTime:    "0.0",
		GlideMode:    "legato",
		SeqMode:      preset.SeqAlways,
		SeqLength:    "0",
	}
}

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

// formatFloat renders floats the way the original exporter did: always with
// a decimal point, so defaults read "0.0" rather than "0".
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	for _, r := range s {
		if r == '.' {
			return s
		}
	}
	return s + ".0"
}

// Render serializes the preset to .dspreset text. Only groups containing at
// least one sample are emitted; the groups container itself is omitted (and
// replaced with an explanatory comment) when no group has samples.
func Render(p *preset.Preset, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")

	root := xml.StartElement{Name: xml.Name{Local: "DecentSampler"}}
	if opts.MinVersion != "" && opts.MinVersion != "0" {
		root.Attr = append(root.Attr, attr("minVersion", opts.MinVersion))
	}
	if err := enc.EncodeToken(root); err != nil {
		return nil, fmt.Errorf("failed to encode preset markup: %w", err)
	}

	// Descriptive metadata travels as comments, never as attributes.
	comments := []struct{ label, value string }{
		{"Preset Name", p.Name},
		{"Author", p.Author},
		{"Category", p.Category},
		{"Description", p.Description},
	}
	for _, c := range comments {
		if c.value == "" {
			continue
		}
		if err := enc.EncodeToken(xml.Comment(fmt.Sprintf(" %s: %s ", c.label, c.value))); err != nil {
			return nil, fmt.Errorf("failed to encode preset markup: %w", err)
		}
	}

	groups := p.NonEmptyGroups()
	if len(groups) > 0 {
		if err := encodeGroups(enc, p, groups, opts); err != nil {
			return nil, fmt.Errorf("failed to encode preset markup: %w", err)
		}
	} else {
		if err := enc.EncodeToken(xml.Comment(" No sample groups defined ")); err != nil {
			return nil, fmt.Errorf("failed to encode preset markup: %w", err)
		}
	}

	if err := enc.EncodeToken(root.End()); err != nil {
		return nil, fmt.Errorf("failed to encode preset markup: %w", err)
	}
	if err := enc.Flush(); err != nil {
		return nil, fmt.Errorf("failed to encode preset markup: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func encodeGroups(enc *xml.Encoder, p *preset.Preset, groups []*preset.Group, opts Options) error {
	container := xml.StartElement{
		Name: xml.Name{Local: "groups"},
		Attr: []xml.Attr{
			attr("volume", opts.Volume),
			attr("globalTuning", opts.GlobalTuning),
			attr("glideTime", opts.GlideTime),
			attr("glideMode", opts.GlideMode),
		},
	}
	if opts.SeqMode != preset.SeqAlways && opts.SeqMode != "" {
		container.Attr = append(container.Attr, attr("seqMode", string(opts.SeqMode)))
	}
	if opts.SeqLength != "" && opts.SeqLength != "0" {
		container.Attr = append(container.Attr, attr("seqLength", opts.SeqLength))
	}
	if err := enc.EncodeToken(container); err != nil {
		return err
	}

	for _, g := range groups {
		if err := encodeGroup(enc, p, g); err != nil {
			return err
		}
	}

	return enc.EncodeToken(container.End())
}

func encodeGroup(enc *xml.Encoder, p *preset.Preset, g *preset.Group) error {
	el := xml.StartElement{
		Name: xml.Name{Local: "group"},
		Attr: []xml.Attr{
			attr("enabled", strconv.FormatBool(g.Enabled)),
			attr("volume", g.Volume),
			attr("ampVelTrack", formatFloat(g.AmpVelTrack)),
			attr("groupTuning", formatFloat(g.GroupTuning)),
		},
	}
	if g.SeqMode != preset.SeqAlways {
		el.Attr = append(el.Attr, attr("seqMode", string(g.SeqMode)))
	}
	if g.SeqLength > 0 {
		el.Attr = append(el.Attr, attr("seqLength", strconv.Itoa(g.SeqLength)))
	}
	if err := enc.EncodeToken(el); err != nil {
		return err
	}

	for _, s := range g.Samples {
		if err := encodeSample(enc, p, s); err != nil {
			return err
		}
	}

	return enc.EncodeToken(el.End())
}

func encodeSample(enc *xml.Encoder, p *preset.Preset, s *preset.Sample) error {
	// Only the base file name survives into the reference path; the export
	// package relocates every sample into one flat directory.
	path := p.SamplesPath + "/" + s.FileName()
	el := xml.StartElement{
		Name: xml.Name{Local: "sample"},
		Attr: []xml.Attr{
			attr("path", path),
			attr("rootNote", strconv.Itoa(s.RootNote)),
			attr("loNote", strconv.Itoa(s.LowNote)),
			attr("hiNote", strconv.Itoa(s.HighNote)),
			attr("loVel", strconv.Itoa(s.LowVelocity)),
			attr("hiVel", strconv.Itoa(s.HighVelocity)),
		},
	}
	if s.SeqMode != preset.SeqAlways {
		el.Attr = append(el.Attr, attr("seqMode", string(s.SeqMode)))
	}
	if s.SeqLength > 0 {
		el.Attr = append(el.Attr, attr("seqLength", strconv.Itoa(s.SeqLength)))
	}
	if s.SeqPosition != 1 {
		el.Attr = append(el.Attr, attr("seqPosition", strconv.Itoa(s.SeqPosition)))
	}
	if err := enc.EncodeToken(el); err != nil {
		return err
	}
	return enc.EncodeToken(el.End())
}
