package preset

// Group is a named collection of samples sharing playback parameters and,
// optionally, a group-level round-robin sequencing mode. Group names must be
// unique within a preset for round-robin lookups to be unambiguous.
type Group struct {
	Name    string
	Enabled bool
	// Volume holds either a linear multiplier ("1.0") or a decibel value
	// ("3dB"). It is stored as written and never parsed by the model.
	Volume      string
	AmpVelTrack float64
	GroupTuning float64
	SeqMode     SeqMode
	SeqLength   int
	Samples     []*Sample
}

// NewGroup creates an enabled group with unity volume and no sequencing.
func NewGroup(name string) *Group {
	return &Group{
		Name:    name,
		Enabled: true,
		Volume:  "1.0",
		SeqMode: SeqAlways,
	}
}

// AddSample appends a sample to the group. Ownership bookkeeping lives in
// Document; use Document.AddSampleToGroup for moves that must stay atomic
// with the reverse index.
func (g *Group) AddSample(s *Sample) {
	g.Samples = append(g.Samples, s)
}

// RemoveSample removes a sample from the group, preserving the order of the
// rest. Returns false if the sample was not a member.
func (g *Group) RemoveSample(s *Sample) bool {
	for i, member := range g.Samples {
		if member == s {
			g.Samples = append(g.Samples[:i], g.Samples[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether the sample is a member of the group.
func (g *Group) Contains(s *Sample) bool {
	for _, member := range g.Samples {
		if member == s {
			return true
		}
	}
	return false
}

// Copy returns a deep copy of the group.
func (g *Group) Copy() Group {
	samples := make([]*Sample, len(g.Samples))
	for i, s := range g.Samples {
		c := s.Copy()
		samples[i] = &c
	}
	c := *g
	c.Samples = samples
	return c
}
