package preset

// Preset is the document root: metadata plus an ordered list of groups.
// Empty groups are kept in memory so the user does not lose the container,
// but they are excluded from serialization.
type Preset struct {
	Name        string
	Author      string
	Description string
	Category    string
	// SamplesPath is the base directory token used when emitting sample
	// paths in markup.
	SamplesPath string
	Groups      []*Group
}

// NewPreset creates an empty preset with the conventional "Samples" base
// directory.
func NewPreset(name string) *Preset {
	return &Preset{Name: name, SamplesPath: "Samples"}
}

// AddGroup appends a group to the preset.
func (p *Preset) AddGroup(g *Group) {
	p.Groups = append(p.Groups, g)
}

// GroupByName returns the first group with the given name, or nil.
func (p *Preset) GroupByName(name string) *Group {
	for _, g := range p.Groups {
		if g.Name == name {
			return g
		}
	}
	return nil
}

// NonEmptyGroups returns the groups that contain at least one sample, in
// document order. Only these are serialized.
func (p *Preset) NonEmptyGroups() []*Group {
	var out []*Group
	for _, g := range p.Groups {
		if len(g.Samples) > 0 {
			out = append(out, g)
		}
	}
	return out
}

// ReferencedFiles returns the distinct sample file paths across all
// non-empty groups, in first-seen order. The external packager uses this to
// copy samples into the flat directory the serializer assumes.
func (p *Preset) ReferencedFiles() []string {
	seen := make(map[string]bool)
	var out []string
	for _, g := range p.NonEmptyGroups() {
		for _, s := range g.Samples {
			if !seen[s.FilePath] {
				seen[s.FilePath] = true
				out = append(out, s.FilePath)
			}
		}
	}
	return out
}
