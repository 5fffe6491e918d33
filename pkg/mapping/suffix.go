package mapping

import (
	"regexp"
	"strconv"
)

// rrSuffixes are the round-robin variation suffixes, in priority order. The
// bare `_N` pattern cannot shadow the worded ones because its digits must
// directly follow the underscore.
var rrSuffixes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)_rr(\d+)$`),
	regexp.MustCompile(`(?i)_(\d+)$`),
	regexp.MustCompile(`(?i)_round(\d+)$`),
	regexp.MustCompile(`(?i)_alt(\d+)$`),
	regexp.MustCompile(`(?i)_var(\d+)$`),
}

// hashSuffix matches the `#N` variation convention, e.g. C4#1, C4#2.
var hashSuffix = regexp.MustCompile(`#(\d+)$`)

// stripPatterns is the suffix list used for base-name computation; the hash
// pattern participates here but not in DetectRoundRobin.
var stripPatterns = append(append([]*regexp.Regexp(nil), rrSuffixes...), regexp.MustCompile(`(?i)#\d+$`))

// BaseName strips round-robin suffixes off a file stem. The patterns are
// applied in sequence, so a stem like "Take_2_rr1" loses both suffixes,
// matching the original application's behavior.
func BaseName(stem string) string {
	for _, re := range stripPatterns {
		stem = re.ReplaceAllString(stem, "")
	}
	return stem
}

// Position extracts a sample's round-robin position from its file stem. The
// hash pattern is checked first, then the underscore suffixes in priority
// order; an unsuffixed stem defaults to position 1.
func Position(stem string) int {
	if m := hashSuffix.FindStringSubmatch(stem); m != nil {
		if pos, err := strconv.Atoi(m[1]); err == nil {
			return pos
		}
	}
	for _, re := range rrSuffixes {
		if m := re.FindStringSubmatch(stem); m != nil {
			if pos, err := strconv.Atoi(m[1]); err == nil {
				return pos
			}
		}
	}
	return 1
}
