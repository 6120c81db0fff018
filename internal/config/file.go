package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// File is the optional on-disk configuration. Command-line flags take
// precedence over every field.
type File struct {
	// Browser selects the browser table entry (see BrowserIDs).
	Browser string `toml:"browser"`

	// ExtraRoots adds profile roots beyond the built-in channel table,
	// e.g. a portable install or a custom --user-data-dir.
	ExtraRoots []RootCandidate `toml:"extra_roots"`

	// ExtraPreserve adds preserve-patterns (one path segment each, glob
	// syntax) to the default extension preservation set.
	ExtraPreserve []string `toml:"extra_preserve"`

	// LogFile enables a rotating log file in addition to stderr.
	LogFile string `toml:"log_file"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`

	// LaunchAfter relaunches the browser after a successful wipe.
	LaunchAfter bool `toml:"launch_after"`
}

// DefaultPath returns <UserConfigDir>/profwipe/config.toml, or "" when the
// user config directory cannot be determined.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "profwipe", "config.toml")
}

// LoadFile reads the configuration at path. A missing file yields the zero
// File unless required is set (the user passed --config explicitly).
func LoadFile(path string, required bool) (File, error) {
	var f File
	if path == "" {
		return f, nil
	}

	if _, err := toml.DecodeFile(path, &f); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return File{}, nil
		}
		return File{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := f.validate(); err != nil {
		return File{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return f, nil
}

func (f File) validate() error {
	if f.Browser != "" {
		if _, ok := LookupBrowser(f.Browser); !ok {
			return fmt.Errorf("unknown browser %q (expected one of %v)", f.Browser, BrowserIDs())
		}
	}
	for i, r := range f.ExtraRoots {
		if r.Path == "" {
			return fmt.Errorf("extra_roots[%d]: path is required", i)
		}
		if !filepath.IsAbs(r.Path) {
			return fmt.Errorf("extra_roots[%d]: path %q must be absolute", i, r.Path)
		}
	}
	return nil
}

// Candidates returns the browser's channel roots followed by the file's
// extra roots. Extra roots without a name are labelled by their path.
func (f File) Candidates(b Browser, env Env) []RootCandidate {
	out := b.Roots(env)
	for _, r := range f.ExtraRoots {
		name := r.Name
		if name == "" {
			name = r.Path
		}
		out = append(out, RootCandidate{Name: name, Path: filepath.Clean(r.Path)})
	}
	return out
}
