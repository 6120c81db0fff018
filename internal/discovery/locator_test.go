package discovery

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakshaymaurya-felt/profwipe/internal/config"
)

func mkdirs(t *testing.T, paths ...string) {
	t.Helper()
	for _, p := range paths {
		require.NoError(t, os.MkdirAll(p, 0o755))
	}
}

func TestLocatorRoots(t *testing.T) {
	base := t.TempDir()
	stable := filepath.Join(base, "Chrome", "User Data")
	canary := filepath.Join(base, "Chrome SxS", "User Data")
	mkdirs(t, stable, canary)

	notADir := filepath.Join(base, "file")
	require.NoError(t, os.WriteFile(notADir, []byte("x"), 0o644))

	loc := NewLocator([]config.RootCandidate{
		{Name: "Chrome", Path: stable},
		{Name: "Chrome Beta", Path: filepath.Join(base, "Chrome Beta", "User Data")},
		{Name: "Chrome Canary", Path: canary},
		{Name: "Duplicate", Path: stable + string(filepath.Separator)},
		{Name: "File", Path: notADir},
		{Name: "Empty"},
	})

	roots := loc.Roots()
	require.Len(t, roots, 2)
	assert.Equal(t, ProfileRoot{Name: "Chrome", Path: stable}, roots[0])
	assert.Equal(t, ProfileRoot{Name: "Chrome Canary", Path: canary}, roots[1])
}

func TestLocatorRootsNone(t *testing.T) {
	loc := NewLocator([]config.RootCandidate{{Name: "Chrome", Path: filepath.Join(t.TempDir(), "missing")}})
	assert.Empty(t, loc.Roots())
}

func TestRootKey(t *testing.T) {
	assert.Equal(t, "/data/chrome", rootKey("/data/Chrome", true))
	assert.Equal(t, "/data/Chrome", rootKey("/data/Chrome", false))
}

func TestLocatorRootsCaseSensitive(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("needs a case-sensitive filesystem")
	}
	base := t.TempDir()
	upper := filepath.Join(base, "Portable")
	lower := filepath.Join(base, "portable")
	mkdirs(t, upper, lower)

	roots := NewLocator([]config.RootCandidate{
		{Name: "Upper", Path: upper},
		{Name: "Lower", Path: lower},
	}).Roots()
	require.Len(t, roots, 2)
	assert.Equal(t, lower, roots[1].Path)
}

func TestProfiles(t *testing.T) {
	root := ProfileRoot{Name: "Chrome", Path: t.TempDir()}
	mkdirs(t,
		filepath.Join(root.Path, "Profile 2"),
		filepath.Join(root.Path, "Default"),
		filepath.Join(root.Path, "Profile 1"),
		filepath.Join(root.Path, "Guest Profile"),
		filepath.Join(root.Path, "System Profile"),
		filepath.Join(root.Path, "ShaderCache"),
		filepath.Join(root.Path, "Profile "),
	)
	require.NoError(t, os.WriteFile(filepath.Join(root.Path, "Profile 3"), []byte("not a dir"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root.Path, "Local State"), []byte("{}"), 0o644))

	profiles, err := Profiles(root)
	require.NoError(t, err)
	require.Len(t, profiles, 3)

	assert.Equal(t, "Default", profiles[0].Name)
	assert.Equal(t, filepath.Join(root.Path, "Default"), profiles[0].Path)
	assert.Equal(t, root, profiles[0].Root)

	var secondary []string
	for _, p := range profiles[1:] {
		secondary = append(secondary, p.Name)
	}
	assert.ElementsMatch(t, []string{"Profile 1", "Profile 2"}, secondary)
}

func TestProfilesMissingRoot(t *testing.T) {
	_, err := Profiles(ProfileRoot{Path: filepath.Join(t.TempDir(), "gone")})
	assert.Error(t, err)
}

func TestIsSecondaryProfile(t *testing.T) {
	tests := map[string]bool{
		"Profile 1":     true,
		"Profile 12":    true,
		"Profile Work":  true,
		"Profile ":      false,
		"Profile":       false,
		"Guest Profile": false,
		"profile 1":     false,
		"Default":       false,
	}
	for name, want := range tests {
		assert.Equal(t, want, IsSecondaryProfile(name), name)
	}
}
