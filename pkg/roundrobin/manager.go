// Package roundrobin maintains the named round-robin group registry and
// enforces that sequencing authority lives at exactly one level: once a
// group carries a seqMode, its members are reset to individual "always".
package roundrobin

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dspforge/dspforge/pkg/mapping"
	"github.com/dspforge/dspforge/pkg/preset"
)

var (
	// ErrNoSuchGroup is returned for lookups of unknown group names; no
	// mutation is performed.
	ErrNoSuchGroup = errors.New("no such round-robin group")
	// ErrNoSamples is returned when a group would be created empty.
	ErrNoSamples = errors.New("a round-robin group needs at least one sample")
)

// Entry is one named round-robin group in the registry. An entry may back an
// ordinary preset group, or exist only here pending materialization.
type Entry struct {
	SeqMode   preset.SeqMode
	SeqLength int
	Samples   []*preset.Sample
}

// Manager owns the round-robin registry for one document. It is constructed
// at document-open time and discarded with the document; there is no global
// state.
type Manager struct {
	doc    *preset.Document
	groups map[string]*Entry
	order  []string
	log    zerolog.Logger
}

// NewManager creates an empty registry bound to the document.
func NewManager(doc *preset.Document, log zerolog.Logger) *Manager {
	return &Manager{
		doc:    doc,
		groups: make(map[string]*Entry),
		log:    log.With().Str("component", "roundrobin").Logger(),
	}
}

// Names returns the registered group names in registration order.
func (m *Manager) Names() []string {
	return append([]string(nil), m.order...)
}

// Get returns the entry for a group name.
func (m *Manager) Get(name string) (*Entry, bool) {
	e, ok := m.groups[name]
	return e, ok
}

// CreateOrUpdateGroup configures group-level round-robin sequencing over the
// given samples, in the given order.
//
// If every sample that already has a group shares the same one, that group
// is reused in place and its name wins over the requested name. Otherwise an
// existing group with the requested name is reused, or a new group is
// created. Each sample is moved into the target group, assigned a contiguous
// 1-based seqPosition matching the input order, and has its individual
// seqMode/seqLength reset to always/0.
func (m *Manager) CreateOrUpdateGroup(name string, mode preset.SeqMode, length int, samples []*preset.Sample) (*preset.Group, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}

	target := m.sharedGroup(samples)
	if target != nil {
		name = target.Name
		target.SeqMode = mode
		target.SeqLength = length
	} else if g := m.doc.Preset.GroupByName(name); g != nil {
		target = g
		target.SeqMode = mode
		target.SeqLength = length
	} else {
		target = preset.NewGroup(name)
		target.SeqMode = mode
		target.SeqLength = length
		m.doc.AddGroup(target)
	}

	for i, s := range samples {
		m.doc.AddSampleToGroup(s, target)
		s.SeqPosition = i + 1
		s.SeqMode = preset.SeqAlways
		s.SeqLength = 0
	}

	if _, exists := m.groups[name]; !exists {
		m.order = append(m.order, name)
	}
	m.groups[name] = &Entry{
		SeqMode:   mode,
		SeqLength: length,
		Samples:   append([]*preset.Sample(nil), samples...),
	}

	m.log.Debug().
		Str("group", name).
		Str("mode", string(mode)).
		Int("length", length).
		Int("samples", len(samples)).
		Msg("Configured round-robin group")

	m.doc.NotifyGroupsChanged()
	return target, nil
}

// sharedGroup returns the single group every already-grouped sample belongs
// to, or nil if the samples span zero or several groups.
func (m *Manager) sharedGroup(samples []*preset.Sample) *preset.Group {
	var shared *preset.Group
	for _, s := range samples {
		g := m.doc.GroupOf(s)
		if g == nil {
			continue
		}
		if shared == nil {
			shared = g
		} else if shared != g {
			return nil
		}
	}
	return shared
}

// AutoDetect scans the whole sample pool for round-robin families. Samples
// are bucketed by their suffix-stripped base name; each bucket with two or
// more members becomes a group ordered by detected position, with
// seqMode=round_robin and seqLength set to the member count.
//
// Group names derive from the note name of the first member's root note
// (RR_C4), not from the base name, so unrelated families sharing a root
// note collide into one detected group; the last one detected wins. This
// mirrors the original application.
func (m *Manager) AutoDetect() int {
	byBase := make(map[string][]*preset.Sample)
	var order []string
	for _, s := range m.doc.Samples() {
		base := strings.ToLower(mapping.BaseName(s.Stem()))
		if _, seen := byBase[base]; !seen {
			order = append(order, base)
		}
		byBase[base] = append(byBase[base], s)
	}

	detected := 0
	for _, base := range order {
		members := byBase[base]
		if len(members) < 2 {
			continue
		}
		for _, s := range members {
			s.SeqPosition = mapping.Position(s.Stem())
		}
		sort.SliceStable(members, func(i, j int) bool {
			return members[i].SeqPosition < members[j].SeqPosition
		})
		name := fmt.Sprintf("RR_%s", preset.FormatNote(members[0].RootNote))
		if _, err := m.CreateOrUpdateGroup(name, preset.SeqRoundRobin, len(members), members); err != nil {
			m.log.Warn().Err(err).Str("group", name).Msg("Skipping detected group")
			continue
		}
		detected++
	}

	m.log.Info().Int("groups", detected).Msg("Round-robin auto-detection finished")
	return detected
}

// RemoveGroup deletes a registry entry, resetting every member sample's
// sequencing attributes to their defaults. The backing preset group, if any,
// is left for the caller to decide about.
func (m *Manager) RemoveGroup(name string) error {
	entry, ok := m.groups[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNoSuchGroup, name)
	}
	for _, s := range entry.Samples {
		s.SeqMode = preset.SeqAlways
		s.SeqLength = 0
		s.SeqPosition = 1
	}
	delete(m.groups, name)
	for i, n := range m.order {
		if n == name {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	m.log.Debug().Str("group", name).Msg("Removed round-robin group")
	m.doc.NotifyGroupsChanged()
	return nil
}

// Clear drops every registry entry. Used when the last sample leaves the
// document.
func (m *Manager) Clear() {
	m.groups = make(map[string]*Entry)
	m.order = nil
	m.doc.NotifyGroupsChanged()
}

// Entries returns a snapshot of the registry for persistence, keyed by group
// name.
func (m *Manager) Entries() map[string]*Entry {
	out := make(map[string]*Entry, len(m.groups))
	for name, e := range m.groups {
		out[name] = &Entry{
			SeqMode:   e.SeqMode,
			SeqLength: e.SeqLength,
			Samples:   append([]*preset.Sample(nil), e.Samples...),
		}
	}
	return out
}

// Restore replaces the registry with persisted entries, ordered by name for
// determinism.
func (m *Manager) Restore(entries map[string]*Entry) {
	m.groups = make(map[string]*Entry, len(entries))
	m.order = nil
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		m.groups[name] = entries[name]
		m.order = append(m.order, name)
	}
}
