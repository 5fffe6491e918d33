// Package project persists an open document as a JSON project file: the
// preset graph, the round-robin registry, UI state and settings bags, and a
// reserved extensions bag. Sample paths are stored relative to the project
// directory when possible and resolved back on load.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/dspforge/dspforge/pkg/preset"
	"github.com/dspforge/dspforge/pkg/roundrobin"
)

// Project couples an open document with its round-robin registry and the
// bookkeeping the project file carries.
type Project struct {
	Doc        *preset.Document
	RoundRobin *roundrobin.Manager
	Created    time.Time
	Modified   time.Time
	UIState    map[string]any
	Settings   map[string]any
	Extensions map[string]any
	Path       string

	log zerolog.Logger
}

// New creates an empty project around a fresh document.
func New(name string, log zerolog.Logger) *Project {
	doc := preset.NewDocument(name)
	now := time.Now()
	return &Project{
		Doc:        doc,
		RoundRobin: roundrobin.NewManager(doc, log),
		Created:    now,
		Modified:   now,
		UIState:    map[string]any{},
		Settings:   map[string]any{},
		Extensions: map[string]any{},
		log:        log.With().Str("component", "project").Logger(),
	}
}

// File is the on-disk JSON shape.
type File struct {
	Version          string                 `json:"version"`
	CreatedDate      string                 `json:"created_date"`
	ModifiedDate     string                 `json:"modified_date"`
	Preset           presetData             `json:"preset"`
	UIState          map[string]any         `json:"ui_state"`
	Settings         map[string]any         `json:"settings"`
	RoundRobinGroups map[string]rrGroupData `json:"round_robin_groups"`
	Extensions       map[string]any         `json:"extensions"`
}

type presetData struct {
	Name        string       `json:"name"`
	Author      string       `json:"author,omitempty"`
	Description string       `json:"description,omitempty"`
	Category    string       `json:"category,omitempty"`
	SamplesPath string       `json:"samples_path,omitempty"`
	Groups      []groupData  `json:"groups"`
	Ungrouped   []sampleData `json:"ungrouped_samples,omitempty"`
}

// Optional fields are pointers so that missing keys fall back to the model
// defaults instead of zero values.
type groupData struct {
	Name        string       `json:"name"`
	Enabled     *bool        `json:"enabled,omitempty"`
	Volume      *string      `json:"volume,omitempty"`
	AmpVelTrack *float64     `json:"amp_vel_track,omitempty"`
	GroupTuning *float64     `json:"group_tuning,omitempty"`
	SeqMode     *string      `json:"seq_mode,omitempty"`
	SeqLength   *int         `json:"seq_length,omitempty"`
	Samples     []sampleData `json:"samples"`
}

type sampleData struct {
	FilePath     string  `json:"file_path"`
	RootNote     *int    `json:"root_note,omitempty"`
	LowNote      *int    `json:"low_note,omitempty"`
	HighNote     *int    `json:"high_note,omitempty"`
	LowVelocity  *int    `json:"low_velocity,omitempty"`
	HighVelocity *int    `json:"high_velocity,omitempty"`
	SeqMode      *string `json:"seq_mode,omitempty"`
	SeqLength    *int    `json:"seq_length,omitempty"`
	SeqPosition  *int    `json:"seq_position,omitempty"`
}

type rrGroupData struct {
	SeqMode     *string  `json:"seq_mode,omitempty"`
	SeqLength   *int     `json:"seq_length,omitempty"`
	SamplePaths []string `json:"sample_paths"`
}

// relativize stores a sample path relative to the project directory when
// possible; cross-volume and other unrelatable paths stay absolute.
func relativize(path, dir string) string {
	if !filepath.IsAbs(path) {
		return path
	}
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return path
	}
	return rel
}

// absolutize resolves a stored path against the project directory; absolute
// paths pass through untouched.
func absolutize(path, dir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

func sampleToData(s *preset.Sample, dir string) sampleData {
	mode := string(s.SeqMode)
	root, low, high := s.RootNote, s.LowNote, s.HighNote
	lowVel, highVel := s.LowVelocity, s.HighVelocity
	length, pos := s.SeqLength, s.SeqPosition
	return sampleData{
		FilePath:     relativize(s.FilePath, dir),
		RootNote:     &root,
		LowNote:      &low,
		HighNote:     &high,
		LowVelocity:  &lowVel,
		HighVelocity: &highVel,
		SeqMode:      &mode,
		SeqLength:    &length,
		SeqPosition:  &pos,
	}
}

func sampleFromData(d sampleData, dir string) *preset.Sample {
	s := preset.NewSample(absolutize(d.FilePath, dir))
	if d.RootNote != nil {
		s.RootNote = *d.RootNote
	}
	if d.LowNote != nil {
		s.LowNote = *d.LowNote
	}
	if d.HighNote != nil {
		s.HighNote = *d.HighNote
	}
	if d.LowVelocity != nil {
		s.LowVelocity = *d.LowVelocity
	}
	if d.HighVelocity != nil {
		s.HighVelocity = *d.HighVelocity
	}
	if d.SeqMode != nil {
		if mode, err := preset.ParseSeqMode(*d.SeqMode); err == nil {
			s.SeqMode = mode
		}
	}
	if d.SeqLength != nil {
		s.SeqLength = *d.SeqLength
	}
	if d.SeqPosition != nil {
		s.SeqPosition = *d.SeqPosition
	}
	return s
}

// Snapshot converts the project to its persistable shape, relativizing
// sample paths against dir.
func (p *Project) Snapshot(dir string) *File {
	pm := p.Doc.Preset
	f := &File{
		Version:      CurrentVersion,
		CreatedDate:  p.Created.Format(time.RFC3339),
		ModifiedDate: p.Modified.Format(time.RFC3339),
		Preset: presetData{
			Name:        pm.Name,
			Author:      pm.Author,
			Description: pm.Description,
			Category:    pm.Category,
			SamplesPath: pm.SamplesPath,
		},
		UIState:          p.UIState,
		Settings:         p.Settings,
		RoundRobinGroups: map[string]rrGroupData{},
		Extensions:       p.Extensions,
	}

	for _, g := range pm.Groups {
		gd := groupData{Name: g.Name, Samples: []sampleData{}}
		enabled, volume := g.Enabled, g.Volume
		ampVelTrack, groupTuning := g.AmpVelTrack, g.GroupTuning
		mode, length := string(g.SeqMode), g.SeqLength
		gd.Enabled = &enabled
		gd.Volume = &volume
		gd.AmpVelTrack = &ampVelTrack
		gd.GroupTuning = &groupTuning
		gd.SeqMode = &mode
		gd.SeqLength = &length
		for _, s := range g.Samples {
			gd.Samples = append(gd.Samples, sampleToData(s, dir))
		}
		f.Preset.Groups = append(f.Preset.Groups, gd)
	}

	for _, s := range p.Doc.Samples() {
		if p.Doc.GroupOf(s) == nil {
			f.Preset.Ungrouped = append(f.Preset.Ungrouped, sampleToData(s, dir))
		}
	}

	for name, e := range p.RoundRobin.Entries() {
		mode, length := string(e.SeqMode), e.SeqLength
		gd := rrGroupData{SeqMode: &mode, SeqLength: &length}
		for _, s := range e.Samples {
			gd.SamplePaths = append(gd.SamplePaths, relativize(s.FilePath, dir))
		}
		f.RoundRobinGroups[name] = gd
	}

	return f
}

// Save writes the project to path, updating the modified timestamp.
func (p *Project) Save(path string) error {
	p.Modified = time.Now()
	f := p.Snapshot(filepath.Dir(path))
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode project: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write project file: %w", err)
	}
	p.Path = path
	p.log.Info().Str("path", path).Msg("Project saved")
	return nil
}

// Load reads a project file, refusing unsupported versions outright and
// migrating supported older versions before rebuilding the document.
func Load(path string, log zerolog.Logger) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project file: %w", err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse project file: %w", err)
	}
	if f.Version == "" {
		f.Version = "1.0.0"
	}
	if err := checkSupported(f.Version); err != nil {
		return nil, err
	}
	migrate(&f)

	p := New(f.Preset.Name, log)
	p.Path = path
	dir := filepath.Dir(path)

	pm := p.Doc.Preset
	pm.Author = f.Preset.Author
	pm.Description = f.Preset.Description
	pm.Category = f.Preset.Category
	if f.Preset.SamplesPath != "" {
		pm.SamplesPath = f.Preset.SamplesPath
	}

	bySamplePath := make(map[string]*preset.Sample)
	for _, gd := range f.Preset.Groups {
		g := preset.NewGroup(gd.Name)
		if gd.Enabled != nil {
			g.Enabled = *gd.Enabled
		}
		if gd.Volume != nil {
			g.Volume = *gd.Volume
		}
		if gd.AmpVelTrack != nil {
			g.AmpVelTrack = *gd.AmpVelTrack
		}
		if gd.GroupTuning != nil {
			g.GroupTuning = *gd.GroupTuning
		}
		if gd.SeqMode != nil {
			if mode, err := preset.ParseSeqMode(*gd.SeqMode); err == nil {
				g.SeqMode = mode
			}
		}
		if gd.SeqLength != nil {
			g.SeqLength = *gd.SeqLength
		}
		for _, sd := range gd.Samples {
			s := sampleFromData(sd, dir)
			g.AddSample(s)
			bySamplePath[s.FilePath] = s
		}
		p.Doc.AddGroup(g)
	}
	for _, sd := range f.Preset.Ungrouped {
		s := sampleFromData(sd, dir)
		p.Doc.AddSample(s)
		bySamplePath[s.FilePath] = s
	}

	entries := make(map[string]*roundrobin.Entry)
	names := make([]string, 0, len(f.RoundRobinGroups))
	for name := range f.RoundRobinGroups {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		gd := f.RoundRobinGroups[name]
		e := &roundrobin.Entry{SeqMode: preset.SeqRoundRobin}
		if gd.SeqMode != nil {
			if mode, err := preset.ParseSeqMode(*gd.SeqMode); err == nil {
				e.SeqMode = mode
			}
		}
		if gd.SeqLength != nil {
			e.SeqLength = *gd.SeqLength
		}
		for _, sp := range gd.SamplePaths {
			if s, ok := bySamplePath[absolutize(sp, dir)]; ok {
				e.Samples = append(e.Samples, s)
			}
		}
		entries[name] = e
	}
	p.RoundRobin.Restore(entries)

	if t, err := time.Parse(time.RFC3339, f.CreatedDate); err == nil {
		p.Created = t
	}
	if t, err := time.Parse(time.RFC3339, f.ModifiedDate); err == nil {
		p.Modified = t
	}
	if f.UIState != nil {
		p.UIState = f.UIState
	}
	if f.Settings != nil {
		p.Settings = f.Settings
	}
	if f.Extensions != nil {
		p.Extensions = f.Extensions
	}

	p.Doc.NotifyReset()
	p.log.Info().Str("path", path).Str("version", f.Version).Msg("Project loaded")
	return p, nil
}
