package purge

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreservationSetMatch(t *testing.T) {
	set := DefaultPreservation()

	tests := []struct {
		rel  string
		want bool
	}{
		{"Extensions", true},
		{"Extensions/abc123/1.0/manifest.json", true},
		{"Local Extension Settings/abc", true},
		{"IndexedDB/chrome-extension_abc_0.indexeddb.leveldb", true},
		{filepath.Join("IndexedDB", "chrome-extension_abc_0.indexeddb.leveldb", "LOG"), true},
		{"MyExtensionsBackup", false},
		{"Local Storage/MyExtensionsBackup", false},
		{"Extensions.bak", false},
		{"IndexedDB/https_example.com_0.indexeddb.leveldb", false},
		{"Cookies", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			assert.Equal(t, tt.want, set.Match(tt.rel))
		})
	}
}

func TestNewPreservationSet(t *testing.T) {
	set, err := NewPreservationSet("Custom*", "keep")
	require.NoError(t, err)
	assert.True(t, set.Match("Cache/CustomData"))
	assert.True(t, set.Match("keep"))
	assert.True(t, set.Match("Extensions"))
	assert.Len(t, set.Patterns(), len(defaultPreserve)+2)

	for _, bad := range []string{"", "a/b", `a\b`, "[unclosed"} {
		_, err := NewPreservationSet(bad)
		assert.Error(t, err, bad)
	}
}

func TestPatternsReturnsCopy(t *testing.T) {
	set := DefaultPreservation()
	p := set.Patterns()
	p[0] = "mutated"
	assert.Equal(t, "Extensions", set.Patterns()[0])
}
