package launcher

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakshaymaurya-felt/profwipe/internal/config"
)

func chrome(t *testing.T) config.Browser {
	t.Helper()
	b, ok := config.LookupBrowser("chrome")
	require.True(t, ok)
	return b
}

type started struct {
	name string
	args []string
}

func newTestLauncher(env config.Env, present map[string]bool, rec *[]started) *Launcher {
	l := New(env)
	l.stat = func(p string) (os.FileInfo, error) {
		if present[p] {
			return os.Stat(os.TempDir())
		}
		return nil, os.ErrNotExist
	}
	l.lookPath = func(name string) (string, error) {
		if present[name] {
			return "/usr/bin/" + name, nil
		}
		return "", errors.New("not found")
	}
	l.start = func(name string, args ...string) error {
		*rec = append(*rec, started{name, args})
		return nil
	}
	return l
}

func TestCommandDarwin(t *testing.T) {
	b := chrome(t)
	env := config.Env{GOOS: "darwin", Home: "/Users/me"}
	app := filepath.Join("/Applications", b.Launch.DarwinApp)

	var rec []started
	l := newTestLauncher(env, map[string]bool{app: true}, &rec)
	require.NoError(t, l.Launch(b))
	require.Len(t, rec, 1)
	assert.Equal(t, "open", rec[0].name)
	assert.Equal(t, []string{"-a", app}, rec[0].args)
}

func TestCommandLinux(t *testing.T) {
	b := chrome(t)
	require.NotEmpty(t, b.Launch.Linux)
	name := b.Launch.Linux[len(b.Launch.Linux)-1]

	var rec []started
	l := newTestLauncher(config.Env{GOOS: "linux"}, map[string]bool{name: true}, &rec)
	require.NoError(t, l.Launch(b))
	require.Len(t, rec, 1)
	assert.Equal(t, "/usr/bin/"+name, rec[0].name)
	assert.Empty(t, rec[0].args)
}

func TestCommandNotInstalled(t *testing.T) {
	var rec []started
	l := newTestLauncher(config.Env{GOOS: "linux"}, nil, &rec)
	err := l.Launch(chrome(t))
	assert.ErrorIs(t, err, ErrNotInstalled)
	assert.Empty(t, rec)
}

func TestLaunchStartError(t *testing.T) {
	b := chrome(t)
	var rec []started
	l := newTestLauncher(config.Env{GOOS: "linux"}, map[string]bool{b.Launch.Linux[0]: true}, &rec)
	l.start = func(string, ...string) error { return errors.New("boom") }
	assert.ErrorContains(t, l.Launch(b), "boom")
}
