// Package launcher starts a browser again after a wipe. The child is
// detached; profwipe never waits for it.
package launcher

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/lakshaymaurya-felt/profwipe/internal/config"
)

// ErrNotInstalled means no launch candidate exists on this machine.
var ErrNotInstalled = errors.New("browser executable not found")

// Launcher resolves and starts browser executables.
type Launcher struct {
	env config.Env

	stat     func(string) (os.FileInfo, error)
	lookPath func(string) (string, error)
	start    func(name string, args ...string) error
}

// New returns a Launcher for env.
func New(env config.Env) *Launcher {
	return &Launcher{
		env:      env,
		stat:     os.Stat,
		lookPath: exec.LookPath,
		start:    startDetached,
	}
}

// Command returns the program and arguments that would start b.
func (l *Launcher) Command(b config.Browser) (string, []string, error) {
	candidates := b.LaunchCandidates(l.env)
	switch l.env.GOOS {
	case "darwin":
		for _, app := range candidates {
			if _, err := l.stat(app); err == nil {
				return "open", []string{"-a", app}, nil
			}
		}
	case "windows":
		for _, exe := range candidates {
			if info, err := l.stat(exe); err == nil && !info.IsDir() {
				return exe, nil, nil
			}
		}
	default:
		for _, name := range candidates {
			if p, err := l.lookPath(name); err == nil {
				return p, nil, nil
			}
		}
	}
	return "", nil, fmt.Errorf("%s: %w", b.Name, ErrNotInstalled)
}

// Launch starts b and returns as soon as the process is spawned.
func (l *Launcher) Launch(b config.Browser) error {
	name, args, err := l.Command(b)
	if err != nil {
		return err
	}
	if err := l.start(name, args...); err != nil {
		return fmt.Errorf("starting %s: %w", b.Name, err)
	}
	return nil
}

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}
