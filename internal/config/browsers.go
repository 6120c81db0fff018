package config

import (
	"path/filepath"
	"sort"
	"strings"
)

// Channel is one release channel of a browser (stable, beta, dev, canary).
// Each per-OS field holds path segments relative to that OS's user data
// base; a nil slice means the channel does not exist on that OS.
type Channel struct {
	Name    string
	Windows []string
	Darwin  []string
	Linux   []string
}

// Launch describes where a browser executable lives for relaunching.
type Launch struct {
	// Windows holds paths relative to Program Files, Program Files (x86)
	// and LocalAppData, tried in that order.
	Windows []string

	// DarwinApp is the application bundle name under /Applications.
	DarwinApp string

	// Linux holds command names looked up on PATH.
	Linux []string
}

// Browser is one Chromium-family browser profwipe knows how to clean.
type Browser struct {
	// ID is the value accepted by --browser.
	ID string

	// Name is the human-readable product name.
	Name string

	// Channels are listed in discovery order.
	Channels []Channel

	// Executables are process image names matched case-insensitively
	// when looking for running instances.
	Executables []string

	Launch Launch
}

// ─── Browser Table ───────────────────────────────────────────────────────────

var browsers = []Browser{
	{
		ID:   "chrome",
		Name: "Google Chrome",
		Channels: []Channel{
			{
				Name:    "Chrome",
				Windows: []string{"Google", "Chrome", "User Data"},
				Darwin:  []string{"Google", "Chrome"},
				Linux:   []string{"google-chrome"},
			},
			{
				Name:    "Chrome Beta",
				Windows: []string{"Google", "Chrome Beta", "User Data"},
				Darwin:  []string{"Google", "Chrome Beta"},
				Linux:   []string{"google-chrome-beta"},
			},
			{
				Name:    "Chrome Dev",
				Windows: []string{"Google", "Chrome Dev", "User Data"},
				Darwin:  []string{"Google", "Chrome Dev"},
				Linux:   []string{"google-chrome-unstable"},
			},
			{
				Name:    "Chrome Canary",
				Windows: []string{"Google", "Chrome SxS", "User Data"},
				Darwin:  []string{"Google", "Chrome Canary"},
			},
		},
		Executables: []string{
			"chrome.exe", "chrome",
			"Google Chrome", "Google Chrome Beta", "Google Chrome Dev", "Google Chrome Canary",
		},
		Launch: Launch{
			Windows:   []string{`Google\Chrome\Application\chrome.exe`},
			DarwinApp: "Google Chrome.app",
			Linux:     []string{"google-chrome", "google-chrome-stable"},
		},
	},
	{
		ID:   "edge",
		Name: "Microsoft Edge",
		Channels: []Channel{
			{
				Name:    "Edge",
				Windows: []string{"Microsoft", "Edge", "User Data"},
				Darwin:  []string{"Microsoft Edge"},
				Linux:   []string{"microsoft-edge"},
			},
			{
				Name:    "Edge Beta",
				Windows: []string{"Microsoft", "Edge Beta", "User Data"},
				Darwin:  []string{"Microsoft Edge Beta"},
				Linux:   []string{"microsoft-edge-beta"},
			},
			{
				Name:    "Edge Dev",
				Windows: []string{"Microsoft", "Edge Dev", "User Data"},
				Darwin:  []string{"Microsoft Edge Dev"},
				Linux:   []string{"microsoft-edge-dev"},
			},
			{
				Name:    "Edge Canary",
				Windows: []string{"Microsoft", "Edge SxS", "User Data"},
				Darwin:  []string{"Microsoft Edge Canary"},
			},
		},
		Executables: []string{
			"msedge.exe", "msedge",
			"Microsoft Edge", "Microsoft Edge Beta", "Microsoft Edge Dev", "Microsoft Edge Canary",
		},
		Launch: Launch{
			Windows:   []string{`Microsoft\Edge\Application\msedge.exe`},
			DarwinApp: "Microsoft Edge.app",
			Linux:     []string{"microsoft-edge", "microsoft-edge-stable"},
		},
	},
	{
		ID:   "brave",
		Name: "Brave",
		Channels: []Channel{
			{
				Name:    "Brave",
				Windows: []string{"BraveSoftware", "Brave-Browser", "User Data"},
				Darwin:  []string{"BraveSoftware", "Brave-Browser"},
				Linux:   []string{"BraveSoftware", "Brave-Browser"},
			},
			{
				Name:    "Brave Beta",
				Windows: []string{"BraveSoftware", "Brave-Browser-Beta", "User Data"},
				Darwin:  []string{"BraveSoftware", "Brave-Browser-Beta"},
				Linux:   []string{"BraveSoftware", "Brave-Browser-Beta"},
			},
			{
				Name:    "Brave Nightly",
				Windows: []string{"BraveSoftware", "Brave-Browser-Nightly", "User Data"},
				Darwin:  []string{"BraveSoftware", "Brave-Browser-Nightly"},
				Linux:   []string{"BraveSoftware", "Brave-Browser-Nightly"},
			},
		},
		Executables: []string{
			"brave.exe", "brave",
			"Brave Browser", "Brave Browser Beta", "Brave Browser Nightly",
		},
		Launch: Launch{
			Windows:   []string{`BraveSoftware\Brave-Browser\Application\brave.exe`},
			DarwinApp: "Brave Browser.app",
			Linux:     []string{"brave-browser", "brave"},
		},
	},
	{
		ID:   "chromium",
		Name: "Chromium",
		Channels: []Channel{
			{
				Name:    "Chromium",
				Windows: []string{"Chromium", "User Data"},
				Darwin:  []string{"Chromium"},
				Linux:   []string{"chromium"},
			},
		},
		Executables: []string{"chromium", "chromium-browser", "Chromium"},
		Launch: Launch{
			Windows:   []string{`Chromium\Application\chrome.exe`},
			DarwinApp: "Chromium.app",
			Linux:     []string{"chromium", "chromium-browser"},
		},
	},
	{
		ID:   "vivaldi",
		Name: "Vivaldi",
		Channels: []Channel{
			{
				Name:    "Vivaldi",
				Windows: []string{"Vivaldi", "User Data"},
				Darwin:  []string{"Vivaldi"},
				Linux:   []string{"vivaldi"},
			},
		},
		Executables: []string{"vivaldi.exe", "vivaldi", "vivaldi-bin", "Vivaldi"},
		Launch: Launch{
			Windows:   []string{`Vivaldi\Application\vivaldi.exe`},
			DarwinApp: "Vivaldi.app",
			Linux:     []string{"vivaldi", "vivaldi-stable"},
		},
	},
}

// DefaultBrowser is used when neither flags nor the config file name one.
const DefaultBrowser = "chrome"

// ─── Public API ──────────────────────────────────────────────────────────────

// LookupBrowser returns the browser with the given ID (case-insensitive).
func LookupBrowser(id string) (Browser, bool) {
	for _, b := range browsers {
		if strings.EqualFold(b.ID, id) {
			return b, true
		}
	}
	return Browser{}, false
}

// BrowserIDs returns every supported --browser value, sorted.
func BrowserIDs() []string {
	ids := make([]string, 0, len(browsers))
	for _, b := range browsers {
		ids = append(ids, b.ID)
	}
	sort.Strings(ids)
	return ids
}

// Roots resolves the browser's channel directories against env. Channels
// unavailable on env.GOOS, or whose base variable is unset, are skipped.
// The result is in channel order and is not checked against the disk.
func (b Browser) Roots(env Env) []RootCandidate {
	base := env.userDataBase()
	if base == "" {
		return nil
	}

	var roots []RootCandidate
	for _, ch := range b.Channels {
		var segs []string
		switch env.GOOS {
		case "windows":
			segs = ch.Windows
		case "darwin":
			segs = ch.Darwin
		default:
			segs = ch.Linux
		}
		if len(segs) == 0 {
			continue
		}
		roots = append(roots, RootCandidate{
			Name: ch.Name,
			Path: filepath.Join(append([]string{base}, segs...)...),
		})
	}
	return roots
}

// LaunchCandidates returns the executable locations to try when
// relaunching: absolute paths on Windows and macOS, command names on Linux.
func (b Browser) LaunchCandidates(env Env) []string {
	switch env.GOOS {
	case "windows":
		var out []string
		for _, base := range []string{env.ProgramFiles, env.ProgramFilesX86, env.LocalAppData} {
			if base == "" {
				continue
			}
			for _, rel := range b.Launch.Windows {
				out = append(out, filepath.Join(base, filepath.FromSlash(strings.ReplaceAll(rel, `\`, "/"))))
			}
		}
		return out
	case "darwin":
		if b.Launch.DarwinApp == "" {
			return nil
		}
		out := []string{filepath.Join("/Applications", b.Launch.DarwinApp)}
		if env.Home != "" {
			out = append(out, filepath.Join(env.Home, "Applications", b.Launch.DarwinApp))
		}
		return out
	default:
		return append([]string(nil), b.Launch.Linux...)
	}
}
