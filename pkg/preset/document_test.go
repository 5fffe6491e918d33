package preset

import (
	"testing"
)

type recordingObserver struct {
	changes []Change
}

func (r *recordingObserver) DocumentChanged(c Change) {
	r.changes = append(r.changes, c)
}

func TestDocumentAddRemoveSample(t *testing.T) {
	doc := NewDocument("Test")
	s1 := NewSample("a.wav")
	s2 := NewSample("b.wav")

	doc.AddSample(s1)
	doc.AddSample(s2)
	if len(doc.Samples()) != 2 {
		t.Fatalf("Samples() = %d entries, want 2", len(doc.Samples()))
	}
	if doc.GroupOf(s1) != nil {
		t.Error("new sample should be ungrouped")
	}

	if !doc.RemoveSample(s1) {
		t.Error("RemoveSample returned false for a member")
	}
	if len(doc.Samples()) != 1 || doc.Samples()[0] != s2 {
		t.Error("RemoveSample did not remove the right sample")
	}
	if doc.RemoveSample(s1) {
		t.Error("RemoveSample returned true for a non-member")
	}
}

func TestDocumentExclusiveOwnership(t *testing.T) {
	doc := NewDocument("Test")
	s := NewSample("a.wav")
	doc.AddSample(s)

	g1 := doc.CreateGroup("One", s)
	if doc.GroupOf(s) != g1 || !g1.Contains(s) {
		t.Fatal("sample not attached to first group")
	}

	g2 := doc.CreateGroup("Two")
	doc.AddSampleToGroup(s, g2)
	if doc.GroupOf(s) != g2 {
		t.Error("reverse index not updated on move")
	}
	if g1.Contains(s) {
		t.Error("sample still listed in the previous group after move")
	}
	if !g2.Contains(s) {
		t.Error("sample missing from the target group after move")
	}
}

func TestDocumentRemoveGroupKeepsSamples(t *testing.T) {
	doc := NewDocument("Test")
	s := NewSample("a.wav")
	doc.AddSample(s)
	g := doc.CreateGroup("One", s)

	if !doc.RemoveGroup(g) {
		t.Fatal("RemoveGroup returned false for a member group")
	}
	if doc.GroupOf(s) != nil {
		t.Error("sample should be ungrouped after its group is removed")
	}
	if len(doc.Samples()) != 1 {
		t.Error("sample should survive group removal")
	}
	if doc.Preset.GroupByName("One") != nil {
		t.Error("group still present in the preset")
	}
}

func TestDocumentRemoveSampleDetachesFromGroup(t *testing.T) {
	doc := NewDocument("Test")
	s := NewSample("a.wav")
	doc.AddSample(s)
	g := doc.CreateGroup("One", s)

	doc.RemoveSample(s)
	if g.Contains(s) {
		t.Error("group still lists a removed sample")
	}
}

func TestDocumentAddGroupDetachesFromPriorOwner(t *testing.T) {
	doc := NewDocument("Test")
	s := NewSample("a.wav")
	doc.AddSample(s)
	g1 := doc.CreateGroup("One", s)

	g2 := NewGroup("Two")
	g2.AddSample(s)
	doc.AddGroup(g2)

	if doc.GroupOf(s) != g2 {
		t.Error("reverse index should point at the newly added group")
	}
	if g1.Contains(s) {
		t.Error("sample still listed in the prior group")
	}
}

func TestDocumentObserver(t *testing.T) {
	doc := NewDocument("Test")
	obs := &recordingObserver{}
	doc.Subscribe(obs)

	s := NewSample("a.wav")
	doc.AddSample(s)
	if len(obs.changes) != 1 {
		t.Fatalf("observer saw %d changes, want 1", len(obs.changes))
	}
	c := obs.changes[0]
	if c.Kind != ChangeSamples || c.First != 0 || c.Last != 0 {
		t.Errorf("change = %+v, want row-scoped ChangeSamples at 0", c)
	}

	doc.CreateGroup("One", s)
	last := obs.changes[len(obs.changes)-1]
	if last.Kind != ChangeGroups {
		t.Errorf("expected ChangeGroups after CreateGroup, got %+v", last)
	}

	doc.NotifyReset()
	last = obs.changes[len(obs.changes)-1]
	if last.Kind != ChangeReset || last.First != -1 {
		t.Errorf("expected non-row-scoped ChangeReset, got %+v", last)
	}
}

func TestSelectedSamples(t *testing.T) {
	doc := NewDocument("Test")
	s1 := NewSample("a.wav")
	s2 := NewSample("b.wav")
	doc.AddSample(s1)
	doc.AddSample(s2)

	s2.Selected = true
	sel := doc.SelectedSamples()
	if len(sel) != 1 || sel[0] != s2 {
		t.Errorf("SelectedSamples() = %v, want [s2]", sel)
	}
}

func TestReferencedFiles(t *testing.T) {
	doc := NewDocument("Test")
	s1 := NewSample("/x/a.wav")
	s2 := NewSample("/x/b.wav")
	doc.AddSample(s1)
	doc.AddSample(s2)
	doc.CreateGroup("One", s1, s2)
	doc.CreateGroup("Two", s1) // moves s1; Two now owns it

	files := doc.Preset.ReferencedFiles()
	if len(files) != 2 {
		t.Fatalf("ReferencedFiles() = %v, want 2 distinct paths", files)
	}

	// empty groups are excluded
	doc.CreateGroup("Empty")
	if got := len(doc.Preset.NonEmptyGroups()); got != 2 {
		t.Errorf("NonEmptyGroups() = %d, want 2", got)
	}
}
