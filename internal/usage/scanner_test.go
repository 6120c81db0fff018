package usage

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, p string, size int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, make([]byte, size), 0o644))
}

func TestMeasure(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "Cookies"), 100)
	write(t, filepath.Join(root, "Cache", "Cache_Data", "f_001"), 1000)
	write(t, filepath.Join(root, "Cache", "Cache_Data", "f_002"), 24)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Empty"), 0o755))

	s := NewScanner(2)
	u := s.Measure(root)

	assert.Equal(t, int64(1124), u.Bytes)
	assert.Equal(t, int64(3), u.Files)
	assert.Equal(t, int64(6), s.Scanned())
	assert.Empty(t, s.Warnings())
}

func TestMeasureSkipsSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on Windows")
	}
	root := t.TempDir()
	outside := t.TempDir()
	write(t, filepath.Join(outside, "big"), 4096)
	write(t, filepath.Join(root, "small"), 10)
	require.NoError(t, os.Symlink(outside, filepath.Join(root, "link")))

	u := NewScanner(0).Measure(root)
	assert.Equal(t, int64(10), u.Bytes)
	assert.Equal(t, int64(1), u.Files)
}

func TestMeasureFileAndMissing(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "Preferences")
	write(t, file, 7)

	s := NewScanner(1)
	assert.Equal(t, Usage{Path: file, Bytes: 7, Files: 1}, s.Measure(file))

	missing := filepath.Join(root, "missing")
	assert.Equal(t, Usage{Path: missing}, s.Measure(missing))
	assert.Len(t, s.Warnings(), 1)
}

func TestMeasureAllKeepsOrder(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	write(t, filepath.Join(a, "x"), 5)
	write(t, filepath.Join(b, "y", "z"), 9)

	got := NewScanner(4).MeasureAll([]string{b, a})
	require.Len(t, got, 2)
	assert.Equal(t, int64(9), got[0].Bytes)
	assert.Equal(t, int64(5), got[1].Bytes)
}
