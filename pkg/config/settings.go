// Package config manages persistent application settings stored as TOML.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
)

// MaxRecentProjects caps the recent projects list.
const MaxRecentProjects = 10

// Settings holds the user-level application settings.
type Settings struct {
	RecentProjects   []string `toml:"recent_projects"`
	LastSamplesDir   string   `toml:"last_samples_dir"`
	LastExportDir    string   `toml:"last_export_dir"`
	AutosaveEnabled  bool     `toml:"autosave_enabled"`
	AutosaveInterval int      `toml:"autosave_interval"`
}

// Default returns settings with autosave on at a five minute interval.
func Default() *Settings {
	return &Settings{
		AutosaveEnabled:  true,
		AutosaveInterval: 5,
	}
}

// Validate checks if the settings are valid, normalizing where it can.
func (s *Settings) Validate() error {
	if s.AutosaveInterval < 0 {
		return fmt.Errorf("autosave_interval cannot be negative")
	}
	if s.AutosaveInterval == 0 {
		s.AutosaveInterval = 5
	}
	if len(s.RecentProjects) > MaxRecentProjects {
		s.RecentProjects = s.RecentProjects[:MaxRecentProjects]
	}
	return nil
}

// Load reads settings from a TOML file. A missing file is not an error and
// yields defaults.
func Load(path string, log zerolog.Logger) (*Settings, error) {
	log.Debug().Str("path", path).Msg("Loading settings file")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debug().Msg("No settings file, using defaults")
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	cfg := Default()
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	log.Debug().Msg("Settings loaded and validated successfully")
	return cfg, nil
}

// Save writes the settings to path, creating parent directories as needed.
func (s *Settings) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create settings file: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(s); err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return nil
}

// AddRecentProject moves path to the front of the recent list, deduplicating
// and trimming to the cap.
func (s *Settings) AddRecentProject(path string) {
	out := make([]string, 0, len(s.RecentProjects)+1)
	out = append(out, path)
	for _, p := range s.RecentProjects {
		if p != path {
			out = append(out, p)
		}
	}
	if len(out) > MaxRecentProjects {
		out = out[:MaxRecentProjects]
	}
	s.RecentProjects = out
}
