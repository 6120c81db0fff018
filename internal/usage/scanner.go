// Package usage measures how much disk space profile directories occupy.
package usage

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
)

// Usage is the measured size of one directory tree.
type Usage struct {
	Path  string `json:"path"`
	Bytes int64  `json:"bytes"`
	Files int64  `json:"files"`
}

// Scanner walks directory trees in parallel with bounded I/O concurrency.
// Symlinks and other non-regular entries are never followed or counted.
type Scanner struct {
	sem      chan struct{}
	mu       sync.Mutex
	warnings []string
	scanned  atomic.Int64
}

// maxWarnings caps the warnings kept per scanner.
const maxWarnings = 500

// NewScanner creates a scanner that keeps at most maxConcurrency
// directory reads in flight. Zero or less means 8.
func NewScanner(maxConcurrency int) *Scanner {
	if maxConcurrency <= 0 {
		maxConcurrency = 8
	}
	return &Scanner{sem: make(chan struct{}, maxConcurrency)}
}

// Warnings returns the unreadable paths met so far.
func (s *Scanner) Warnings() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.warnings...)
}

// Scanned returns the number of entries visited so far.
func (s *Scanner) Scanned() int64 {
	return s.scanned.Load()
}

func (s *Scanner) warn(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.warnings) < maxWarnings {
		s.warnings = append(s.warnings, msg)
	}
}

// MeasureAll measures every path concurrently. Results keep input order.
func (s *Scanner) MeasureAll(paths []string) []Usage {
	out := make([]Usage, len(paths))
	var wg sync.WaitGroup
	for i, p := range paths {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out[i] = s.Measure(p)
		}()
	}
	wg.Wait()
	return out
}

// Measure returns the total size and file count under path. A missing or
// unreadable path measures as zero and is recorded as a warning.
func (s *Scanner) Measure(path string) Usage {
	path = filepath.Clean(path)
	u := Usage{Path: path}

	info, err := os.Lstat(path)
	if err != nil {
		s.warn("cannot stat " + path + ": " + err.Error())
		return u
	}
	if info.Mode().IsRegular() {
		u.Bytes, u.Files = info.Size(), 1
		return u
	}
	if !info.IsDir() {
		return u
	}

	var bytes, files atomic.Int64
	s.walk(path, &bytes, &files)
	u.Bytes, u.Files = bytes.Load(), files.Load()
	return u
}

// walk holds the semaphore only around ReadDir, so nested walks cannot
// deadlock waiting on their parents.
func (s *Scanner) walk(dir string, bytes, files *atomic.Int64) {
	s.sem <- struct{}{}
	entries, err := os.ReadDir(dir)
	<-s.sem
	if err != nil {
		s.warn("cannot read " + dir + ": " + err.Error())
		return
	}

	var wg sync.WaitGroup
	for _, e := range entries {
		s.scanned.Add(1)
		child := filepath.Join(dir, e.Name())

		switch {
		case e.IsDir():
			wg.Add(1)
			go func() {
				defer wg.Done()
				s.walk(child, bytes, files)
			}()
		case e.Type().IsRegular():
			info, err := e.Info()
			if err != nil {
				s.warn("cannot stat " + child + ": " + err.Error())
				continue
			}
			bytes.Add(info.Size())
			files.Add(1)
		}
	}
	wg.Wait()
}
