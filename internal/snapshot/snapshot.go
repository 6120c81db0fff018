// Package snapshot fingerprints directory trees so a dry run can prove it
// changed nothing on disk.
package snapshot

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// contentLimit bounds the file size whose bytes are hashed. Larger files
// are fingerprinted by metadata only.
const contentLimit = 4 << 20

// metadataOnly names directories whose files are fingerprinted without
// reading their bytes. Their contents are large and rewritten in place
// only by the browser itself.
var metadataOnly = map[string]bool{
	"Cache":             true,
	"Code Cache":        true,
	"GPUCache":          true,
	"DawnCache":         true,
	"ShaderCache":       true,
	"GrShaderCache":     true,
	"GraphiteDawnCache": true,
	"CacheStorage":      true,
	"ScriptCache":       true,
}

// Entry describes one path in a snapshot.
type Entry struct {
	Mode    fs.FileMode
	Size    int64
	ModTime int64
	Sum     uint64

	// Unreadable marks a path whose metadata or content could not be
	// read. It is recorded by whatever could be read.
	Unreadable bool
}

// Snapshot maps root-qualified slash paths to their entries.
type Snapshot struct {
	entries map[string]Entry
}

// Take walks each root and records every file and directory beneath it.
// Missing roots are recorded as absent rather than failing. Entries that
// cannot be read (a file held open with a sharing lock, a directory
// without permission) are recorded with Unreadable set, so the same
// condition on both sides of a comparison is not a difference.
func Take(roots ...string) (Snapshot, error) {
	s := Snapshot{entries: make(map[string]Entry)}
	for i, root := range roots {
		prefix := fmt.Sprintf("%d:", i)
		err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil && p == root && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			rel, relErr := filepath.Rel(root, p)
			if relErr != nil {
				return relErr
			}
			key := prefix + filepath.ToSlash(rel)
			if err != nil {
				// Either the root itself or a directory whose entries
				// could not be listed. WalkDir skips its contents.
				e := s.entries[key]
				e.Unreadable = true
				s.entries[key] = e
				return nil
			}
			s.entries[key] = record(p, rel, d)
			return nil
		})
		if err != nil {
			return Snapshot{}, fmt.Errorf("snapshot of %s: %w", root, err)
		}
	}
	return s, nil
}

func record(p, rel string, d fs.DirEntry) Entry {
	info, err := d.Info()
	if err != nil {
		return Entry{Mode: d.Type(), Unreadable: true}
	}
	e := Entry{Mode: info.Mode(), Size: info.Size(), ModTime: info.ModTime().UnixNano()}
	switch {
	case info.IsDir():
		// Directory size is filesystem-specific noise.
		e.Size = 0
	case info.Mode().IsRegular() && info.Size() <= contentLimit && !inCache(rel):
		if e.Sum, err = hashFile(p); err != nil {
			e.Unreadable = true
		}
	}
	return e
}

// inCache reports whether rel lies inside a metadataOnly directory.
func inCache(rel string) bool {
	segs := strings.Split(filepath.ToSlash(rel), "/")
	for _, seg := range segs[:len(segs)-1] {
		if metadataOnly[seg] {
			return true
		}
	}
	return false
}

func hashFile(p string) (uint64, error) {
	f, err := os.Open(p)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}

// Len is the number of recorded paths.
func (s Snapshot) Len() int { return len(s.entries) }

// Sum folds the whole snapshot into a single fingerprint.
func (s Snapshot) Sum() uint64 {
	keys := s.keys()
	h := xxhash.New()
	for _, k := range keys {
		e := s.entries[k]
		fmt.Fprintf(h, "%s\x00%o\x00%d\x00%d\x00%x\x00%t\n", k, uint32(e.Mode), e.Size, e.ModTime, e.Sum, e.Unreadable)
	}
	return h.Sum64()
}

// Diff returns the paths that were added, removed or changed between s and
// other, sorted. An empty result means the trees are identical.
func (s Snapshot) Diff(other Snapshot) []string {
	var changed []string
	for k, e := range s.entries {
		o, ok := other.entries[k]
		if !ok || o != e {
			changed = append(changed, k)
		}
	}
	for k := range other.entries {
		if _, ok := s.entries[k]; !ok {
			changed = append(changed, k)
		}
	}
	sort.Strings(changed)
	return changed
}

// Equal reports whether s and other describe the same trees.
func (s Snapshot) Equal(other Snapshot) bool {
	return len(s.entries) == len(other.entries) && s.Sum() == other.Sum()
}

func (s Snapshot) keys() []string {
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
