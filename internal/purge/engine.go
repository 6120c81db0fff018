package purge

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/lakshaymaurya-felt/profwipe/internal/discovery"
)

// Engine applies the rule table to profile directories, one rule at a
// time, in table order. It is not safe for concurrent use.
type Engine struct {
	profileRules []Rule
	rootRules    []Rule
	preserve     PreservationSet
	opts         Options
	log          logrus.FieldLogger

	// remove deletes a path recursively. Tests swap it to simulate
	// platforms that silently ignore removal of locked files.
	remove func(string) error
}

// NewEngine builds an Engine over the standard rule tables.
func NewEngine(opts Options, preserve PreservationSet, log logrus.FieldLogger) *Engine {
	return &Engine{
		profileRules: ProfilePlan(),
		rootRules:    RootPlan(),
		preserve:     preserve,
		opts:         opts,
		log:          log,
		remove:       os.RemoveAll,
	}
}

// Rules returns the per-profile rules in execution order.
func (e *Engine) Rules() []Rule {
	return cloneRules(e.profileRules)
}

// ─── Public API ──────────────────────────────────────────────────────────────

// PurgeRoot purges every profile of root, then applies the root-level
// rules. Cancellation of ctx stops between rules.
func (e *Engine) PurgeRoot(ctx context.Context, root discovery.ProfileRoot, profiles []discovery.ProfileDirectory) RootResult {
	res := RootResult{Root: root}
	for _, p := range profiles {
		pr := e.PurgeProfile(ctx, p)
		res.Profiles = append(res.Profiles, pr)
		res.Counts.Merge(pr.Counts)
		if pr.Interrupted {
			res.Interrupted = true
			return res
		}
	}

	for _, r := range e.rootRules {
		if ctx.Err() != nil {
			res.Interrupted = true
			break
		}
		res.Items = append(res.Items, e.apply(r, root.Path)...)
	}
	res.Counts.Merge(Tally(res.Items))
	return res
}

// PurgeProfile applies every per-profile rule to p in order and returns
// the per-item outcomes. Individual failures never stop the run.
func (e *Engine) PurgeProfile(ctx context.Context, p discovery.ProfileDirectory) ProfileResult {
	res := ProfileResult{Profile: p}
	log := e.log.WithField("profile", p.Path)
	log.Debug("purging profile")

	for _, r := range e.profileRules {
		if ctx.Err() != nil {
			res.Interrupted = true
			log.Warn("interrupted; re-run to finish this profile")
			break
		}
		res.Items = append(res.Items, e.apply(r, p.Path)...)
	}
	res.Counts = Tally(res.Items)
	return res
}

// ─── Rule Execution ──────────────────────────────────────────────────────────

func (e *Engine) apply(r Rule, base string) []Item {
	if e.opts.Retains(r) {
		return e.retain(r, base)
	}
	switch r.Kind {
	case KindFiles:
		return e.applyFiles(r, base)
	case KindDirContents:
		return e.applyDirContents(r, base)
	case KindPreferences:
		return e.applyPreferences(r, base)
	case KindAudit:
		return e.audit(r, base)
	default:
		return nil
	}
}

// retain records existing targets of an exempted rule without touching them.
func (e *Engine) retain(r Rule, base string) []Item {
	var items []Item
	for _, target := range r.Targets {
		matches, err := resolve(base, target)
		if err != nil {
			continue
		}
		for _, m := range matches {
			items = append(items, Item{Rule: r.Name, Path: m, Outcome: OutcomeRetained, Reason: "kept by flag"})
		}
	}
	return items
}

func (e *Engine) applyFiles(r Rule, base string) []Item {
	var items []Item
	for _, target := range r.Targets {
		matches, err := resolve(base, target)
		if err != nil {
			items = append(items, e.failed(r, joinTarget(base, target), err))
			continue
		}
		if len(matches) == 0 {
			items = append(items, Item{Rule: r.Name, Path: joinTarget(base, target), Outcome: OutcomeNotFound})
			continue
		}
		for _, m := range matches {
			if e.preserved(r, base, m) {
				items = append(items, Item{Rule: r.Name, Path: m, Outcome: OutcomePreserved})
				continue
			}
			items = append(items, e.removeItem(r, m))
		}
	}
	return items
}

func (e *Engine) applyDirContents(r Rule, base string) []Item {
	var items []Item
	for _, target := range r.Targets {
		dir := joinTarget(base, target)
		info, err := os.Lstat(dir)
		if err != nil || !info.IsDir() {
			// A missing target, or a file where a directory was expected,
			// has no contents to clear.
			items = append(items, Item{Rule: r.Name, Path: dir, Outcome: OutcomeNotFound})
			continue
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			items = append(items, e.failed(r, dir, err))
			continue
		}

		deletable := 0
		for _, entry := range entries {
			child := filepath.Join(dir, entry.Name())
			if e.preserved(r, base, child) {
				items = append(items, Item{Rule: r.Name, Path: child, Outcome: OutcomePreserved})
				continue
			}
			deletable++
			items = append(items, e.removeItem(r, child))
		}
		if deletable == 0 {
			items = append(items, Item{Rule: r.Name, Path: dir, Outcome: OutcomeNotFound})
		}
	}
	return items
}

// audit reports extension data as preserved. It never deletes anything
// and does not record absent targets.
func (e *Engine) audit(r Rule, base string) []Item {
	var items []Item
	for _, target := range r.Targets {
		p := joinTarget(base, target)
		if _, err := os.Lstat(p); err != nil {
			continue
		}
		items = append(items, Item{Rule: r.Name, Path: p, Outcome: OutcomePreserved, Bytes: measure(p)})
	}
	return items
}

// removeItem deletes path (recursively) and verifies it is gone. Success
// means the path no longer exists; a nil error alone is not trusted.
func (e *Engine) removeItem(r Rule, p string) Item {
	size := measure(p)
	if e.opts.DryRun {
		e.log.WithFields(logrus.Fields{"rule": r.Name, "path": p}).Debug("would delete")
		return Item{Rule: r.Name, Path: p, Outcome: OutcomeWouldDelete, Bytes: size}
	}

	if err := e.removeVerified(p); err != nil {
		return e.failed(r, p, err)
	}
	e.log.WithFields(logrus.Fields{"rule": r.Name, "path": p}).Debug("deleted")
	return Item{Rule: r.Name, Path: p, Outcome: OutcomeDeleted, Bytes: size}
}

var errStillPresent = errors.New("still present after removal")

// removeVerified removes p and returns nil only when p no longer exists.
func (e *Engine) removeVerified(p string) error {
	rmErr := e.remove(p)
	_, statErr := os.Lstat(p)
	switch {
	case errors.Is(statErr, fs.ErrNotExist):
		return nil
	case rmErr != nil:
		return rmErr
	case statErr != nil:
		return statErr
	default:
		return errStillPresent
	}
}

func (e *Engine) failed(r Rule, p string, err error) Item {
	reason := Classify(err)
	e.log.WithFields(logrus.Fields{"rule": r.Name, "path": p, "reason": reason}).WithError(err).Warn("could not remove")
	return Item{Rule: r.Name, Path: p, Outcome: OutcomeFailed, Reason: reason + ": " + err.Error()}
}

// preserved reports whether abs, an item under base, matches the
// engine-wide set or the rule's own patterns.
func (e *Engine) preserved(r Rule, base, abs string) bool {
	rel, err := filepath.Rel(base, abs)
	if err != nil {
		return false
	}
	return e.preserve.Match(rel) || matchSegments(r.Preserve, rel)
}

// ─── Filesystem Helpers ──────────────────────────────────────────────────────

// joinTarget joins a slash-separated target onto base.
func joinTarget(base, target string) string {
	return filepath.Join(base, filepath.FromSlash(target))
}

// resolve returns the existing paths that target names under base. Only
// the last segment may contain glob metacharacters; matching is done on
// directory entries so metacharacters in base are never interpreted.
func resolve(base, target string) ([]string, error) {
	dirPart, name := path.Split(target)
	dir := joinTarget(base, dirPart)

	if !hasMeta(name) {
		p := filepath.Join(dir, name)
		if _, err := os.Lstat(p); err != nil {
			// Not-exist and not-a-directory both mean absent; only a
			// permission problem is worth reporting.
			if errors.Is(err, fs.ErrPermission) {
				return nil, err
			}
			return nil, nil
		}
		return []string{p}, nil
	}

	if _, err := path.Match(name, ""); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var out []string
	for _, entry := range entries {
		if ok, _ := path.Match(name, entry.Name()); ok {
			out = append(out, filepath.Join(dir, entry.Name()))
		}
	}
	return out, nil
}

func hasMeta(s string) bool {
	return strings.ContainsAny(s, `*?[\`)
}

// measure returns the total size of the file or tree at p, ignoring
// entries that cannot be read. Symlinks are not followed.
func measure(p string) int64 {
	info, err := os.Lstat(p)
	if err != nil {
		return 0
	}
	if !info.IsDir() {
		return info.Size()
	}
	var total int64
	_ = filepath.WalkDir(p, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.Type().IsRegular() {
			if fi, err := d.Info(); err == nil {
				total += fi.Size()
			}
		}
		return nil
	})
	return total
}
