// Package pipeline runs a complete wipe: discovery, the lifecycle guard,
// the purge engine and, for dry runs, the on-disk purity check.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/lakshaymaurya-felt/profwipe/internal/config"
	"github.com/lakshaymaurya-felt/profwipe/internal/discovery"
	"github.com/lakshaymaurya-felt/profwipe/internal/lifecycle"
	"github.com/lakshaymaurya-felt/profwipe/internal/process"
	"github.com/lakshaymaurya-felt/profwipe/internal/purge"
	"github.com/lakshaymaurya-felt/profwipe/internal/snapshot"
)

// ErrDryRunMutated means the tree changed during a dry run.
var ErrDryRunMutated = errors.New("dry run modified the filesystem")

// Deps are the collaborators a run needs.
type Deps struct {
	Candidates []config.RootCandidate
	Processes  process.Manager
	Confirmer  lifecycle.Confirmer
	Log        logrus.FieldLogger
}

// Options are the user's choices for one run.
type Options struct {
	DryRun            bool
	Force             bool
	Interactive       bool
	RetainBookmarks   bool
	RetainCredentials bool

	// Preserve extends the default extension preservation set.
	Preserve []string
}

// Target is a discovered root with its profiles.
type Target struct {
	Root     discovery.ProfileRoot        `json:"root"`
	Profiles []discovery.ProfileDirectory `json:"profiles"`
}

// Outcome is the result of Run.
type Outcome struct {
	Run   purge.RunResult   `json:"run"`
	Guard lifecycle.Outcome `json:"guard"`

	// Verified is set for dry runs whose before and after snapshots match.
	Verified bool `json:"verified,omitempty"`

	// Aborted is set when the user declined to close the browser. Nothing
	// was changed.
	Aborted bool `json:"aborted,omitempty"`
}

// ─── Discovery ───────────────────────────────────────────────────────────────

// Discover returns every existing root and its profiles. A root whose
// profiles cannot be listed is logged and skipped. No roots at all is
// discovery.ErrNoRoots.
func Discover(candidates []config.RootCandidate, log logrus.FieldLogger) ([]Target, error) {
	roots := discovery.NewLocator(candidates).Roots()
	if len(roots) == 0 {
		return nil, discovery.ErrNoRoots
	}

	targets := make([]Target, 0, len(roots))
	for _, root := range roots {
		profiles, err := discovery.Profiles(root)
		if err != nil {
			log.WithError(err).WithField("root", root.Path).Warn("skipping profile root")
			continue
		}
		log.WithFields(logrus.Fields{"root": root.Path, "profiles": len(profiles)}).Debug("discovered root")
		targets = append(targets, Target{Root: root, Profiles: profiles})
	}
	return targets, nil
}

// ─── Run ─────────────────────────────────────────────────────────────────────

// Run performs one wipe. Per-item failures are recorded in the result and
// never returned as errors; the returned error is reserved for conditions
// that stop the run before (or, for dry-run verification, after) the purge.
func Run(ctx context.Context, deps Deps, opts Options) (Outcome, error) {
	log := deps.Log
	var out Outcome
	out.Run.DryRun = opts.DryRun

	preserve, err := purge.NewPreservationSet(opts.Preserve...)
	if err != nil {
		return out, fmt.Errorf("preserve patterns: %w", err)
	}

	targets, err := Discover(deps.Candidates, log)
	if err != nil {
		return out, err
	}

	guard := lifecycle.NewGuard(deps.Processes, deps.Confirmer, log)
	out.Guard, err = guard.Ensure(ctx, lifecycle.Options{
		DryRun:      opts.DryRun,
		Force:       opts.Force,
		Interactive: opts.Interactive,
	})
	if errors.Is(err, lifecycle.ErrDeclined) {
		log.Info("aborted; nothing was changed")
		out.Aborted = true
		return out, nil
	}
	if err != nil {
		return out, err
	}

	// A dry run never closes the browser. While it runs the profile keeps
	// changing, so both snapshots are skipped.
	verify := opts.DryRun && len(out.Guard.Instances) == 0
	if opts.DryRun && !verify {
		log.Warn("browser is running; dry-run verification skipped")
	}
	var before snapshot.Snapshot
	if verify {
		if before, err = snapshot.Take(rootPaths(targets)...); err != nil {
			return out, fmt.Errorf("dry-run snapshot: %w", err)
		}
	}

	engine := purge.NewEngine(purge.Options{
		DryRun:            opts.DryRun,
		RetainCredentials: opts.RetainCredentials,
		RetainBookmarks:   opts.RetainBookmarks,
	}, preserve, log)

	for _, t := range targets {
		res := engine.PurgeRoot(ctx, t.Root, t.Profiles)
		out.Run.Add(res)
		if res.Interrupted {
			log.WithField("root", t.Root.Path).Warn("interrupted; re-run to finish")
			break
		}
	}

	if verify {
		after, err := snapshot.Take(rootPaths(targets)...)
		if err != nil {
			return out, fmt.Errorf("dry-run snapshot: %w", err)
		}
		if diff := before.Diff(after); len(diff) > 0 {
			log.WithField("changed", diff).Error("dry run changed the filesystem")
			return out, fmt.Errorf("%w: %s", ErrDryRunMutated, summarize(diff))
		}
		out.Verified = true
	}
	return out, nil
}

func rootPaths(targets []Target) []string {
	paths := make([]string, len(targets))
	for i, t := range targets {
		paths[i] = t.Root.Path
	}
	return paths
}

// summarize lists the first few changed paths.
func summarize(diff []string) string {
	const max = 3
	if len(diff) <= max {
		return strings.Join(diff, ", ")
	}
	return fmt.Sprintf("%s and %d more", strings.Join(diff[:max], ", "), len(diff)-max)
}
