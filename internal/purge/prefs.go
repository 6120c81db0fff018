package purge

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/dchest/safefile"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// preferenceKeys are the only keys the rewrite removes: exit state, the
// last session, sign-in, account and sync state. Anything not listed here,
// extension settings included, is left byte-for-byte as it was.
var preferenceKeys = []string{
	"session",
	"profile.exit_type",
	"profile.exited_cleanly",
	"signin",
	"account_info",
	"account_tracker_service_last_update",
	"google.services",
	"sync",
	"gaia_cookie",
}

// PreferenceKeys returns the key paths removed from the preferences document.
func PreferenceKeys() []string {
	return append([]string(nil), preferenceKeys...)
}

// errUnparseable marks a preferences document that is not a JSON object.
var errUnparseable = errors.New("preferences document is not a JSON object")

func (e *Engine) applyPreferences(r Rule, base string) []Item {
	items := make([]Item, 0, len(r.Targets))
	for _, target := range r.Targets {
		items = append(items, e.rewritePreferences(r, joinTarget(base, target)))
	}
	return items
}

// rewritePreferences removes preferenceKeys from the document at p and
// replaces the file via temp-file-then-rename. A document that cannot be
// parsed is deleted whole and reported as OutcomeFallback.
func (e *Engine) rewritePreferences(r Rule, p string) Item {
	info, err := os.Lstat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Item{Rule: r.Name, Path: p, Outcome: OutcomeNotFound}
		}
		return e.failed(r, p, err)
	}
	if !info.Mode().IsRegular() {
		return e.failed(r, p, fmt.Errorf("not a regular file"))
	}

	doc, err := os.ReadFile(p)
	if err != nil {
		return e.failed(r, p, err)
	}

	out, removed, err := stripKeys(doc, preferenceKeys)
	if errors.Is(err, errUnparseable) {
		return e.fallback(r, p, info.Size())
	}
	if err != nil {
		return e.failed(r, p, err)
	}
	if len(removed) == 0 {
		return Item{Rule: r.Name, Path: p, Outcome: OutcomeNotFound, Reason: "no session or account keys"}
	}

	reason := "removed " + strings.Join(removed, ", ")
	if e.opts.DryRun {
		return Item{Rule: r.Name, Path: p, Outcome: OutcomeWouldDelete, Reason: "would remove " + strings.Join(removed, ", ")}
	}

	if err := writeAtomic(p, out, info.Mode().Perm()); err != nil {
		return e.failed(r, p, err)
	}
	e.log.WithFields(logrus.Fields{"rule": r.Name, "path": p, "keys": removed}).Debug("rewrote preferences")
	return Item{Rule: r.Name, Path: p, Outcome: OutcomeRewritten, Reason: reason}
}

// fallback deletes an unparseable preferences file. The outcome is kept
// distinct from a generic failure so the operator knows which path ran.
func (e *Engine) fallback(r Rule, p string, size int64) Item {
	log := e.log.WithFields(logrus.Fields{"rule": r.Name, "path": p})
	if e.opts.DryRun {
		log.Info("unparseable preferences would be deleted")
		return Item{Rule: r.Name, Path: p, Outcome: OutcomeFallback, Bytes: size, Reason: "unparseable; would delete file"}
	}

	if err := e.removeVerified(p); err != nil {
		item := e.failed(r, p, err)
		item.Reason = "unparseable; " + item.Reason
		return item
	}
	log.Warn("preferences could not be parsed; deleted the whole file")
	return Item{Rule: r.Name, Path: p, Outcome: OutcomeFallback, Bytes: size, Reason: "unparseable; file deleted"}
}

// stripKeys removes every present key in keys from doc. Keys are gjson
// paths; nested keys whose parent is not an object are treated as absent.
// The rest of the document, formatting included, is left unchanged.
func stripKeys(doc []byte, keys []string) ([]byte, []string, error) {
	if !gjson.ValidBytes(doc) || !gjson.ParseBytes(doc).IsObject() {
		return nil, nil, errUnparseable
	}

	out := doc
	var removed []string
	for _, k := range keys {
		// A key may appear more than once; each pass drops the first.
		hit := false
		for gjson.GetBytes(out, k).Exists() {
			next, err := sjson.DeleteBytes(out, k)
			if err != nil {
				return nil, nil, fmt.Errorf("removing %s: %w", k, err)
			}
			if bytes.Equal(next, out) {
				return nil, nil, fmt.Errorf("removing %s: key left in place", k)
			}
			out = next
			hit = true
		}
		if hit {
			removed = append(removed, k)
		}
	}
	return out, removed, nil
}

// writeAtomic replaces p with data through a temporary file in the same
// directory, so a crash mid-write never leaves a truncated document.
func writeAtomic(p string, data []byte, perm fs.FileMode) error {
	f, err := safefile.Create(p, perm)
	if err != nil {
		return fmt.Errorf("creating temporary file for %s: %w", p, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", p, err)
	}
	if err := f.Commit(); err != nil {
		return fmt.Errorf("committing %s: %w", p, err)
	}
	return nil
}
