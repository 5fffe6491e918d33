package preset

// ChangeKind classifies a document mutation for subscribers.
type ChangeKind int

const (
	// ChangeSamples covers sample attribute edits and group membership moves.
	ChangeSamples ChangeKind = iota
	// ChangeGroups covers group creation, removal and attribute edits.
	ChangeGroups
	// ChangeReset covers wholesale replacement, e.g. after a project load.
	ChangeReset
)

// Change describes one mutation. First and Last are sample indexes in
// document order bounding the affected rows; both are -1 when the change is
// not row-scoped.
type Change struct {
	Kind  ChangeKind
	First int
	Last  int
}

// Observer receives change notifications after each document mutation.
type Observer interface {
	DocumentChanged(Change)
}

// Document owns the complete preset graph for one open project: the preset,
// the flat ordered sample pool (grouped and ungrouped alike) and the
// sample-to-group reverse index. All mutation happens on a single goroutine;
// structural moves keep the group lists and the reverse index in step so the
// two can never disagree.
type Document struct {
	Preset *Preset

	samples   []*Sample
	groupOf   map[*Sample]*Group
	observers []Observer
}

// NewDocument creates a document with an empty preset.
func NewDocument(name string) *Document {
	return &Document{
		Preset:  NewPreset(name),
		groupOf: make(map[*Sample]*Group),
	}
}

// Subscribe registers an observer; it is notified after every mutation.
func (d *Document) Subscribe(o Observer) {
	d.observers = append(d.observers, o)
}

func (d *Document) notify(c Change) {
	for _, o := range d.observers {
		o.DocumentChanged(c)
	}
}

// NotifyGroupsChanged informs subscribers of a group-level change performed
// directly on a Group's fields.
func (d *Document) NotifyGroupsChanged() {
	d.notify(Change{Kind: ChangeGroups, First: -1, Last: -1})
}

// NotifyReset informs subscribers that the whole document was replaced.
func (d *Document) NotifyReset() {
	d.notify(Change{Kind: ChangeReset, First: -1, Last: -1})
}

// Samples returns all samples in document order, grouped and ungrouped. The
// returned slice is the document's own; callers must not reorder it.
func (d *Document) Samples() []*Sample {
	return d.samples
}

// SelectedSamples returns the samples whose transient selection flag is set.
func (d *Document) SelectedSamples() []*Sample {
	var out []*Sample
	for _, s := range d.samples {
		if s.Selected {
			out = append(out, s)
		}
	}
	return out
}

func (d *Document) indexOf(s *Sample) int {
	for i, member := range d.samples {
		if member == s {
			return i
		}
	}
	return -1
}

// AddSample adds a sample to the document's ungrouped pool.
func (d *Document) AddSample(s *Sample) {
	d.samples = append(d.samples, s)
	i := len(d.samples) - 1
	d.notify(Change{Kind: ChangeSamples, First: i, Last: i})
}

// RemoveSample detaches the sample from its group, if any, and removes it
// from the document. Returns false if the sample is not in the document.
func (d *Document) RemoveSample(s *Sample) bool {
	i := d.indexOf(s)
	if i < 0 {
		return false
	}
	if g := d.groupOf[s]; g != nil {
		g.RemoveSample(s)
		delete(d.groupOf, s)
	}
	d.samples = append(d.samples[:i], d.samples[i+1:]...)
	d.notify(Change{Kind: ChangeSamples, First: -1, Last: -1})
	return true
}

// GroupOf returns the group owning the sample, or nil if it is ungrouped.
func (d *Document) GroupOf(s *Sample) *Group {
	return d.groupOf[s]
}

// CreateGroup creates a group, adds it to the preset and moves the given
// samples into it.
func (d *Document) CreateGroup(name string, samples ...*Sample) *Group {
	g := NewGroup(name)
	d.Preset.AddGroup(g)
	for _, s := range samples {
		d.attach(s, g)
	}
	d.notify(Change{Kind: ChangeGroups, First: -1, Last: -1})
	return g
}

// AddGroup appends an existing group to the preset and registers its samples
// in the document, detaching each from any prior owner. Samples not yet in
// the pool are added to it.
func (d *Document) AddGroup(g *Group) {
	d.Preset.AddGroup(g)
	members := append([]*Sample(nil), g.Samples...)
	g.Samples = g.Samples[:0]
	for _, s := range members {
		if d.indexOf(s) < 0 {
			d.samples = append(d.samples, s)
		}
		d.attach(s, g)
	}
	d.notify(Change{Kind: ChangeGroups, First: -1, Last: -1})
}

// RemoveGroup removes the group from the preset, returning its samples to
// the ungrouped pool. The samples themselves are not deleted. Returns false
// if the group is not in the preset.
func (d *Document) RemoveGroup(g *Group) bool {
	found := -1
	for i, member := range d.Preset.Groups {
		if member == g {
			found = i
			break
		}
	}
	if found < 0 {
		return false
	}
	for _, s := range g.Samples {
		delete(d.groupOf, s)
	}
	g.Samples = nil
	d.Preset.Groups = append(d.Preset.Groups[:found], d.Preset.Groups[found+1:]...)
	d.notify(Change{Kind: ChangeGroups, First: -1, Last: -1})
	return true
}

// AddSampleToGroup moves a sample into the group, atomically detaching it
// from its previous owner. A sample belongs to at most one group.
func (d *Document) AddSampleToGroup(s *Sample, g *Group) {
	if d.indexOf(s) < 0 {
		d.samples = append(d.samples, s)
	}
	d.attach(s, g)
	i := d.indexOf(s)
	d.notify(Change{Kind: ChangeSamples, First: i, Last: i})
}

// RemoveSampleFromGroup detaches the sample from its group, leaving it
// ungrouped in the document.
func (d *Document) RemoveSampleFromGroup(s *Sample) {
	if g := d.groupOf[s]; g != nil {
		g.RemoveSample(s)
		delete(d.groupOf, s)
		i := d.indexOf(s)
		d.notify(Change{Kind: ChangeSamples, First: i, Last: i})
	}
}

// attach performs the detach-then-attach move on both the group lists and
// the reverse index, with no notification.
func (d *Document) attach(s *Sample, g *Group) {
	if current := d.groupOf[s]; current == g {
		return
	} else if current != nil {
		current.RemoveSample(s)
	}
	g.AddSample(s)
	d.groupOf[s] = g
}
