package project

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// CurrentVersion is the format written by Save.
const CurrentVersion = "1.3.0"

// ErrUnsupportedVersion is returned by Load when the project file format is
// outside the supported window.
var ErrUnsupportedVersion = errors.New("unsupported project version")

type version struct {
	major, minor int
}

func parseVersion(s string) (version, error) {
	parts := strings.SplitN(s, ".", 3)
	if len(parts) < 2 {
		return version{}, fmt.Errorf("malformed version %q", s)
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return version{}, fmt.Errorf("malformed version %q", s)
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return version{}, fmt.Errorf("malformed version %q", s)
	}
	return version{major, minor}, nil
}

// checkSupported accepts the current major with a minor gap of at most three,
// plus any file from the previous major.
func checkSupported(s string) error {
	v, err := parseVersion(s)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupportedVersion, err)
	}
	cur, _ := parseVersion(CurrentVersion)
	switch {
	case v.major == cur.major && cur.minor-v.minor <= 3 && v.minor <= cur.minor:
		return nil
	case v.major == cur.major-1:
		return nil
	}
	return fmt.Errorf("%w: %s (supported: %d.x up to %s)", ErrUnsupportedVersion, s, cur.major-1, CurrentVersion)
}

type migration struct {
	from, to string
	apply    func(*File)
}

var migrations = []migration{
	{"1.0.0", "1.1.0", func(f *File) {
		if f.RoundRobinGroups == nil {
			f.RoundRobinGroups = map[string]rrGroupData{}
		}
	}},
	{"1.1.0", "1.2.0", func(f *File) {
		if f.Settings == nil {
			f.Settings = map[string]any{}
		}
		if _, ok := f.Settings["autosave_enabled"]; !ok {
			f.Settings["autosave_enabled"] = true
		}
		if _, ok := f.Settings["autosave_interval"]; !ok {
			f.Settings["autosave_interval"] = 5
		}
	}},
	{"1.2.0", "1.3.0", func(f *File) {
		if f.UIState == nil {
			f.UIState = map[string]any{}
		}
		if _, ok := f.UIState["xml_wrap_enabled"]; !ok {
			f.UIState["xml_wrap_enabled"] = true
		}
		if _, ok := f.UIState["global_round_robin_enabled"]; !ok {
			f.UIState["global_round_robin_enabled"] = false
		}
	}},
}

// migrate walks the chain from the file's version to CurrentVersion. Versions
// between chain links run every step at or past them.
func migrate(f *File) {
	v, err := parseVersion(f.Version)
	if err != nil {
		return
	}
	for _, m := range migrations {
		mv, _ := parseVersion(m.from)
		if v.major < mv.major || (v.major == mv.major && v.minor <= mv.minor) {
			m.apply(f)
			f.Version = m.to
		}
	}
	f.Version = CurrentVersion
}
