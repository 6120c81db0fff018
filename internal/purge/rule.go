// Package purge selectively deletes locally persisted browser state from
// profile directories while leaving extension data untouched.
package purge

// Kind selects how a Rule's targets are interpreted.
type Kind int

const (
	// KindFiles resolves each target (a name or glob, optionally under a
	// fixed subdirectory) inside the profile and removes every match.
	KindFiles Kind = iota

	// KindDirContents removes the immediate children of each target
	// directory, leaving the directory itself in place.
	KindDirContents

	// KindPreferences strips session and account keys from the
	// preferences document and rewrites it in place.
	KindPreferences

	// KindAudit counts existing targets as preserved. It never deletes.
	KindAudit
)

func (k Kind) String() string {
	switch k {
	case KindFiles:
		return "files"
	case KindDirContents:
		return "dir-contents"
	case KindPreferences:
		return "preferences"
	case KindAudit:
		return "audit"
	default:
		return "unknown"
	}
}

// Stage orders rules within a profile. Later stages may rely on earlier
// ones, e.g. sessions are gone before preferences are rewritten.
type Stage int

const (
	StageSession Stage = iota
	StageCredentials
	StageStorage
	StageHistory
	StagePreferences
	StageMisc
	StageAudit
)

// StageNames is the display label for each stage.
var StageNames = []string{
	"Cookies & sessions",
	"Credentials & autofill",
	"Storage & cache",
	"History & bookmarks",
	"Preferences",
	"Miscellaneous",
	"Extensions",
}

func (s Stage) String() string {
	if int(s) < len(StageNames) {
		return StageNames[s]
	}
	return "unknown"
}

// Gate names the retain flag that can exempt a rule.
type Gate int

const (
	GateNone Gate = iota
	GateCredentials
	GateBookmarks
)

// Rule is one category of data to remove.
type Rule struct {
	// Name is a short stable identifier ("cookies", "cache", ...).
	Name string

	// Label is the human-readable category.
	Label string

	Stage Stage
	Kind  Kind

	// Targets are slash-separated paths relative to the profile (or root)
	// directory. For KindFiles the last segment may be a glob.
	Targets []string

	// Preserve holds rule-specific preserve-patterns, matched the same way
	// as the engine-wide PreservationSet.
	Preserve []string

	// Gate, when set, skips the rule if the matching retain flag is on.
	Gate Gate
}

// Options are the flags that change what the engine does.
type Options struct {
	DryRun            bool
	RetainCredentials bool
	RetainBookmarks   bool
}

// Retains reports whether o exempts r from deletion.
func (o Options) Retains(r Rule) bool {
	switch r.Gate {
	case GateCredentials:
		return o.RetainCredentials
	case GateBookmarks:
		return o.RetainBookmarks
	default:
		return false
	}
}

// ─── Rule Table ──────────────────────────────────────────────────────────────

// profileRules is the single declarative plan for one profile directory,
// already in stage order. Retain flags gate rules; they never reorder or
// replace them.
var profileRules = []Rule{
	// ── Cookies & sessions ──────────────────────────────────
	{
		Name:  "cookies",
		Label: "Cookies",
		Stage: StageSession,
		Kind:  KindFiles,
		Targets: []string{
			"Cookies", "Cookies-journal",
			"Network/Cookies", "Network/Cookies-journal",
		},
	},
	{
		Name:  "session-files",
		Label: "Open tabs and sessions",
		Stage: StageSession,
		Kind:  KindFiles,
		Targets: []string{
			"Current Session", "Current Tabs", "Last Session", "Last Tabs",
		},
	},
	{
		Name:    "sessions",
		Label:   "Session snapshots",
		Stage:   StageSession,
		Kind:    KindDirContents,
		Targets: []string{"Sessions"},
	},

	// ── Credentials & autofill ──────────────────────────────
	{
		Name:  "passwords",
		Label: "Saved passwords",
		Stage: StageCredentials,
		Kind:  KindFiles,
		Targets: []string{
			"Login Data", "Login Data-journal",
			"Login Data For Account", "Login Data For Account-journal",
		},
		Gate: GateCredentials,
	},
	{
		Name:    "autofill",
		Label:   "Autofill data",
		Stage:   StageCredentials,
		Kind:    KindFiles,
		Targets: []string{"Web Data", "Web Data-journal"},
	},

	// ── Storage & cache ─────────────────────────────────────
	{
		Name:    "local-storage",
		Label:   "Local storage",
		Stage:   StageStorage,
		Kind:    KindDirContents,
		Targets: []string{"Local Storage"},
	},
	{
		Name:    "session-storage",
		Label:   "Session storage",
		Stage:   StageStorage,
		Kind:    KindDirContents,
		Targets: []string{"Session Storage"},
	},
	{
		Name:    "indexeddb",
		Label:   "IndexedDB",
		Stage:   StageStorage,
		Kind:    KindDirContents,
		Targets: []string{"IndexedDB"},
	},
	{
		Name:  "cache",
		Label: "Cache",
		Stage: StageStorage,
		Kind:  KindDirContents,
		Targets: []string{
			"Cache", "Code Cache", "GPUCache",
			"DawnCache", "DawnGraphiteCache", "DawnWebGPUCache",
		},
	},
	{
		Name:    "file-system",
		Label:   "File system and blob storage",
		Stage:   StageStorage,
		Kind:    KindDirContents,
		Targets: []string{"File System", "blob_storage"},
	},
	{
		Name:     "site-storage",
		Label:    "Site storage buckets",
		Stage:    StageStorage,
		Kind:     KindDirContents,
		Targets:  []string{"Storage"},
		Preserve: []string{"ext"},
	},

	// ── History & bookmarks ─────────────────────────────────
	{
		Name:  "history",
		Label: "Browsing history",
		Stage: StageHistory,
		Kind:  KindFiles,
		Targets: []string{
			"History", "History-journal",
			"Visited Links",
			"Top Sites", "Top Sites-journal",
			"Shortcuts", "Shortcuts-journal",
			"Favicons", "Favicons-journal",
			"Network Action Predictor", "Network Action Predictor-journal",
		},
	},
	{
		Name:    "bookmarks",
		Label:   "Bookmarks",
		Stage:   StageHistory,
		Kind:    KindFiles,
		Targets: []string{"Bookmarks", "Bookmarks.bak"},
		Gate:    GateBookmarks,
	},

	// ── Preferences ─────────────────────────────────────────
	{
		Name:    "preferences",
		Label:   "Session and account preferences",
		Stage:   StagePreferences,
		Kind:    KindPreferences,
		Targets: []string{"Preferences"},
	},

	// ── Miscellaneous ───────────────────────────────────────
	{
		Name:  "network-state",
		Label: "Network state",
		Stage: StageMisc,
		Kind:  KindFiles,
		Targets: []string{
			"Network Persistent State", "TransportSecurity",
			"Reporting and NEL", "Reporting and NEL-journal",
			"Trust Tokens", "Trust Tokens-journal",
			"Network/Network Persistent State", "Network/TransportSecurity",
			"Network/Reporting and NEL", "Network/Reporting and NEL-journal",
			"Network/Trust Tokens", "Network/Trust Tokens-journal",
		},
	},
	{
		Name:    "service-worker",
		Label:   "Service worker caches",
		Stage:   StageMisc,
		Kind:    KindDirContents,
		// ScriptCache is left alone: it also holds the scripts of extension
		// service workers whose registrations survive the wipe.
		Targets: []string{"Service Worker/CacheStorage"},
	},
	{
		Name:    "notifications",
		Label:   "Notifications",
		Stage:   StageMisc,
		Kind:    KindDirContents,
		Targets: []string{"Platform Notifications"},
	},
	{
		Name:  "databases",
		Label: "Local databases",
		Stage: StageMisc,
		Kind:  KindDirContents,
		Targets: []string{
			"databases", "shared_proto_db",
			"Site Characteristics Database", "BudgetDatabase",
		},
	},
	{
		Name:    "quota",
		Label:   "Quota bookkeeping",
		Stage:   StageMisc,
		Kind:    KindFiles,
		Targets: []string{"QuotaManager", "QuotaManager-journal"},
	},

	// ── Extensions ──────────────────────────────────────────
	{
		Name:  "extensions",
		Label: "Extension data (kept)",
		Stage: StageAudit,
		Kind:  KindAudit,
		Targets: []string{
			"Extensions", "Extension State", "Extension Rules", "Extension Scripts",
			"Local Extension Settings", "Sync Extension Settings", "Managed Extension Settings",
		},
	},
}

// rootRules apply once per profile root, after its profiles.
var rootRules = []Rule{
	{
		Name:    "shader-cache",
		Label:   "GPU shader caches",
		Stage:   StageMisc,
		Kind:    KindDirContents,
		Targets: []string{"ShaderCache", "GrShaderCache", "GraphiteDawnCache"},
	},
}

// ProfilePlan returns a copy of the per-profile rule table.
func ProfilePlan() []Rule {
	return cloneRules(profileRules)
}

// RootPlan returns a copy of the per-root rule table.
func RootPlan() []Rule {
	return cloneRules(rootRules)
}

func cloneRules(in []Rule) []Rule {
	out := make([]Rule, len(in))
	for i, r := range in {
		r.Targets = append([]string(nil), r.Targets...)
		r.Preserve = append([]string(nil), r.Preserve...)
		out[i] = r
	}
	return out
}
