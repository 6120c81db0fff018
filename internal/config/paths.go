package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Env carries the base directories that browser data roots are resolved
// against. Discovery and the launcher receive an Env instead of reading
// the process environment themselves.
type Env struct {
	// GOOS selects which per-OS layout applies ("windows", "darwin", "linux").
	GOOS string

	// Home is the user's home directory.
	Home string

	// LocalAppData is %LOCALAPPDATA% on Windows.
	LocalAppData string

	// AppData is the roaming %APPDATA% on Windows.
	AppData string

	// XDGConfigHome is $XDG_CONFIG_HOME on Linux; empty means ~/.config.
	XDGConfigHome string

	// ProgramFiles and ProgramFilesX86 are used to locate executables
	// for relaunching on Windows.
	ProgramFiles    string
	ProgramFilesX86 string
}

// RootCandidate is a possible profile root: one browser channel's user
// data directory, which may or may not exist on disk.
type RootCandidate struct {
	Name string `toml:"name"`
	Path string `toml:"path"`
}

// EnvFromOS builds an Env from the running process environment. It is the
// only place profwipe reads environment variables for path resolution.
func EnvFromOS() Env {
	home, _ := os.UserHomeDir()
	if home == "" {
		home = userProfile()
	}
	return Env{
		GOOS:            runtime.GOOS,
		Home:            home,
		LocalAppData:    localAppData(),
		AppData:         appData(),
		XDGConfigHome:   os.Getenv("XDG_CONFIG_HOME"),
		ProgramFiles:    programFiles(),
		ProgramFilesX86: programFilesX86(),
	}
}

// userProfile returns the user profile directory.
func userProfile() string {
	return os.Getenv("USERPROFILE")
}

// localAppData returns the local app data directory.
func localAppData() string {
	return os.Getenv("LOCALAPPDATA")
}

// appData returns the roaming app data directory.
func appData() string {
	return os.Getenv("APPDATA")
}

// programFiles returns the Program Files directory.
// Falls back to C:\Program Files only on Windows when the variable is unset.
func programFiles() string {
	if p := os.Getenv("PROGRAMFILES"); p != "" {
		return p
	}
	if runtime.GOOS == "windows" {
		return `C:\Program Files`
	}
	return ""
}

// programFilesX86 returns the Program Files (x86) directory.
func programFilesX86() string {
	if p := os.Getenv("PROGRAMFILES(X86)"); p != "" {
		return p
	}
	if runtime.GOOS == "windows" {
		return `C:\Program Files (x86)`
	}
	return ""
}

// configHome returns the Linux config base, honouring XDG_CONFIG_HOME.
func (e Env) configHome() string {
	if e.XDGConfigHome != "" {
		return e.XDGConfigHome
	}
	if e.Home == "" {
		return ""
	}
	return filepath.Join(e.Home, ".config")
}

// userDataBase returns the directory that per-OS channel segments are
// joined onto, or "" when the Env lacks the required variable.
func (e Env) userDataBase() string {
	switch e.GOOS {
	case "windows":
		return e.LocalAppData
	case "darwin":
		if e.Home == "" {
			return ""
		}
		return filepath.Join(e.Home, "Library", "Application Support")
	default:
		return e.configHome()
	}
}
