package purge

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// defaultPreserve names the extension-related items that must survive
// every run. Patterns match whole path segments, so a file merely
// containing "Extensions" in its name is not preserved.
var defaultPreserve = []string{
	"Extensions",
	"Extension State",
	"Extension Rules",
	"Extension Scripts",
	"Local Extension Settings",
	"Sync Extension Settings",
	"Managed Extension Settings",
	"chrome-extension_*",
}

// PreservationSet is the set of preserve-patterns active for a run.
// Each pattern uses path.Match syntax and is compared against every
// segment of an item's profile-relative path.
type PreservationSet struct {
	patterns []string
}

// DefaultPreservation returns the extension preservation set.
func DefaultPreservation() PreservationSet {
	return PreservationSet{patterns: append([]string(nil), defaultPreserve...)}
}

// NewPreservationSet returns the default set extended with extra patterns.
// A pattern may not contain a separator and must be valid glob syntax.
func NewPreservationSet(extra ...string) (PreservationSet, error) {
	s := DefaultPreservation()
	for _, p := range extra {
		if err := validatePattern(p); err != nil {
			return PreservationSet{}, err
		}
		s.patterns = append(s.patterns, p)
	}
	return s, nil
}

// Patterns returns the active patterns.
func (s PreservationSet) Patterns() []string {
	return append([]string(nil), s.patterns...)
}

// Match reports whether rel, a path relative to the profile directory,
// has a segment matching any pattern.
func (s PreservationSet) Match(rel string) bool {
	return matchSegments(s.patterns, rel)
}

func validatePattern(p string) error {
	if p == "" {
		return fmt.Errorf("empty preserve pattern")
	}
	if strings.ContainsAny(p, `/\`) {
		return fmt.Errorf("preserve pattern %q must be a single path segment", p)
	}
	if _, err := path.Match(p, ""); err != nil {
		return fmt.Errorf("preserve pattern %q: %w", p, err)
	}
	return nil
}

// matchSegments canonicalizes rel to slash form and tests each segment.
func matchSegments(patterns []string, rel string) bool {
	if len(patterns) == 0 {
		return false
	}
	rel = path.Clean(filepath.ToSlash(rel))
	for _, seg := range strings.Split(rel, "/") {
		if seg == "" || seg == "." || seg == ".." {
			continue
		}
		for _, p := range patterns {
			if ok, _ := path.Match(p, seg); ok {
				return true
			}
		}
	}
	return false
}
