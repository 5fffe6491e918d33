package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.toml"), zerolog.Nop())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !s.AutosaveEnabled || s.AutosaveInterval != 5 {
		t.Errorf("defaults = %v/%d, want true/5", s.AutosaveEnabled, s.AutosaveInterval)
	}
	if len(s.RecentProjects) != 0 {
		t.Errorf("RecentProjects = %v, want empty", s.RecentProjects)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "settings.toml")

	s := Default()
	s.LastSamplesDir = "/home/user/samples"
	s.AddRecentProject("/home/user/piano.dsproj")
	if err := s.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.LastSamplesDir != "/home/user/samples" {
		t.Errorf("LastSamplesDir = %q", loaded.LastSamplesDir)
	}
	if len(loaded.RecentProjects) != 1 || loaded.RecentProjects[0] != "/home/user/piano.dsproj" {
		t.Errorf("RecentProjects = %v", loaded.RecentProjects)
	}
}

func TestLoadRejectsBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	if err := os.WriteFile(path, []byte("recent_projects = not-a-list"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path, zerolog.Nop()); err == nil {
		t.Error("expected a parse error")
	}
}

func TestAddRecentProject(t *testing.T) {
	s := Default()

	s.AddRecentProject("/a")
	s.AddRecentProject("/b")
	s.AddRecentProject("/a")
	if len(s.RecentProjects) != 2 {
		t.Fatalf("RecentProjects = %v, want 2 entries", s.RecentProjects)
	}
	if s.RecentProjects[0] != "/a" || s.RecentProjects[1] != "/b" {
		t.Errorf("RecentProjects = %v, want [/a /b]", s.RecentProjects)
	}

	for i := 0; i < MaxRecentProjects+5; i++ {
		s.AddRecentProject(fmt.Sprintf("/p%d", i))
	}
	if len(s.RecentProjects) != MaxRecentProjects {
		t.Errorf("RecentProjects = %d entries, want cap %d", len(s.RecentProjects), MaxRecentProjects)
	}
	if s.RecentProjects[0] != fmt.Sprintf("/p%d", MaxRecentProjects+4) {
		t.Errorf("most recent = %q", s.RecentProjects[0])
	}
}

func TestValidate(t *testing.T) {
	s := &Settings{AutosaveInterval: -1}
	if err := s.Validate(); err == nil {
		t.Error("negative interval should fail validation")
	}

	s = &Settings{}
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if s.AutosaveInterval != 5 {
		t.Errorf("zero interval should normalize to 5, got %d", s.AutosaveInterval)
	}
}
