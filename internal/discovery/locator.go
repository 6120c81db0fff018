// Package discovery finds browser profile roots and the user profiles
// inside them. It only inspects the filesystem; nothing here mutates it.
package discovery

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/lakshaymaurya-felt/profwipe/internal/config"
)

const (
	// DefaultProfile is the directory name of the first user profile.
	DefaultProfile = "Default"

	// secondaryPrefix precedes the suffix of additional profiles
	// ("Profile 1", "Profile 2", ...).
	secondaryPrefix = "Profile "
)

// ErrNoRoots is returned by callers that treat an empty discovery result
// as fatal. Locator itself never returns it.
var ErrNoRoots = errors.New("no browser installation found")

// ProfileRoot is an installation-level user data directory, verified to
// exist at discovery time.
type ProfileRoot struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// ProfileDirectory is one user profile inside a ProfileRoot.
type ProfileDirectory struct {
	Name string      `json:"name"`
	Path string      `json:"path"`
	Root ProfileRoot `json:"-"`
}

// Locator filters a fixed candidate list down to the roots present on disk.
type Locator struct {
	candidates []config.RootCandidate
}

// NewLocator creates a Locator over the given candidates, kept in order.
func NewLocator(candidates []config.RootCandidate) *Locator {
	return &Locator{candidates: append([]config.RootCandidate(nil), candidates...)}
}

// Roots returns the candidates that exist as directories, in candidate
// order. Duplicate paths are reported once. An empty result is not an
// error; the caller decides whether it is fatal.
func (l *Locator) Roots() []ProfileRoot {
	seen := make(map[string]bool)
	var roots []ProfileRoot
	for _, c := range l.candidates {
		if c.Path == "" {
			continue
		}
		cleaned := filepath.Clean(c.Path)
		key := rootKey(cleaned, foldCase)
		if seen[key] {
			continue
		}
		info, err := os.Stat(cleaned)
		if err != nil || !info.IsDir() {
			continue
		}
		seen[key] = true
		roots = append(roots, ProfileRoot{Name: c.Name, Path: cleaned})
	}
	return roots
}

// foldCase is set where the default filesystem ignores case.
var foldCase = runtime.GOOS == "windows" || runtime.GOOS == "darwin"

// rootKey is the identity used to collapse duplicate roots.
func rootKey(cleaned string, fold bool) string {
	if fold {
		return strings.ToLower(cleaned)
	}
	return cleaned
}

// Profiles enumerates the profile directories of root: Default first when
// present, then every "Profile <suffix>" directory in directory-listing
// order. Guest and System profiles are never returned.
func Profiles(root ProfileRoot) ([]ProfileDirectory, error) {
	entries, err := os.ReadDir(root.Path)
	if err != nil {
		return nil, fmt.Errorf("listing profiles in %s: %w", root.Path, err)
	}

	var (
		def       []ProfileDirectory
		secondary []ProfileDirectory
	)
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := e.Name()
		p := ProfileDirectory{Name: name, Path: filepath.Join(root.Path, name), Root: root}
		switch {
		case name == DefaultProfile:
			def = append(def, p)
		case IsSecondaryProfile(name):
			secondary = append(secondary, p)
		}
	}
	return append(def, secondary...), nil
}

// IsSecondaryProfile reports whether name follows the numbered-profile
// convention: the fixed prefix followed by a non-empty suffix.
func IsSecondaryProfile(name string) bool {
	return strings.HasPrefix(name, secondaryPrefix) && len(strings.TrimSpace(name[len(secondaryPrefix):])) > 0
}
