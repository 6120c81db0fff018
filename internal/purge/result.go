package purge

import (
	"github.com/lakshaymaurya-felt/profwipe/internal/discovery"
)

// Outcome is what happened to one item.
type Outcome int

const (
	// OutcomeDeleted: the item was removed and verified gone.
	OutcomeDeleted Outcome = iota

	// OutcomeWouldDelete: dry run; the item would have been removed.
	OutcomeWouldDelete

	// OutcomeRewritten: the preferences document had keys removed.
	OutcomeRewritten

	// OutcomePreserved: the item matched a preserve-pattern.
	OutcomePreserved

	// OutcomeRetained: the item's rule was exempted by a retain flag.
	OutcomeRetained

	// OutcomeNotFound: nothing to act on for this target.
	OutcomeNotFound

	// OutcomeFailed: removal or rewrite failed; see Reason.
	OutcomeFailed

	// OutcomeFallback: the preferences document could not be parsed and
	// was (or, in a dry run, would be) deleted whole.
	OutcomeFallback
)

var outcomeNames = []string{
	"deleted", "would-delete", "rewritten", "preserved",
	"retained", "not-found", "failed", "parse-fallback",
}

func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return "unknown"
}

// MarshalText renders the outcome name in JSON output.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Item is a single recorded outcome.
type Item struct {
	Rule    string  `json:"rule"`
	Path    string  `json:"path"`
	Outcome Outcome `json:"outcome"`
	Bytes   int64   `json:"bytes,omitempty"`
	Reason  string  `json:"reason,omitempty"`
}

// Counts aggregates outcomes.
type Counts struct {
	Deleted     int   `json:"deleted"`
	WouldDelete int   `json:"would_delete"`
	Rewritten   int   `json:"rewritten"`
	Preserved   int   `json:"preserved"`
	Retained    int   `json:"retained"`
	NotFound    int   `json:"not_found"`
	Failed      int   `json:"failed"`
	Fallback    int   `json:"parse_fallback"`
	Bytes       int64 `json:"bytes"`
}

func (c *Counts) add(it Item) {
	switch it.Outcome {
	case OutcomeDeleted:
		c.Deleted++
		c.Bytes += it.Bytes
	case OutcomeWouldDelete:
		c.WouldDelete++
		c.Bytes += it.Bytes
	case OutcomeRewritten:
		c.Rewritten++
	case OutcomePreserved:
		c.Preserved++
	case OutcomeRetained:
		c.Retained++
	case OutcomeNotFound:
		c.NotFound++
	case OutcomeFailed:
		c.Failed++
	case OutcomeFallback:
		c.Fallback++
		c.Bytes += it.Bytes
	}
}

// Merge adds o into c.
func (c *Counts) Merge(o Counts) {
	c.Deleted += o.Deleted
	c.WouldDelete += o.WouldDelete
	c.Rewritten += o.Rewritten
	c.Preserved += o.Preserved
	c.Retained += o.Retained
	c.NotFound += o.NotFound
	c.Failed += o.Failed
	c.Fallback += o.Fallback
	c.Bytes += o.Bytes
}

// Tally counts items.
func Tally(items []Item) Counts {
	var c Counts
	for _, it := range items {
		c.add(it)
	}
	return c
}

// ProfileResult is the outcome of purging one profile.
type ProfileResult struct {
	Profile     discovery.ProfileDirectory `json:"profile"`
	Items       []Item                     `json:"items"`
	Counts      Counts                     `json:"counts"`
	Interrupted bool                       `json:"interrupted,omitempty"`
}

// RuleCounts tallies only the items recorded by the named rule.
func (p ProfileResult) RuleCounts(rule string) Counts {
	var c Counts
	for _, it := range p.Items {
		if it.Rule == rule {
			c.add(it)
		}
	}
	return c
}

// RootResult rolls up a profile root: its profiles plus root-level rules.
type RootResult struct {
	Root        discovery.ProfileRoot `json:"root"`
	Profiles    []ProfileResult       `json:"profiles"`
	Items       []Item                `json:"items,omitempty"`
	Counts      Counts                `json:"counts"`
	Interrupted bool                  `json:"interrupted,omitempty"`
}

// RunResult rolls up a whole invocation.
type RunResult struct {
	DryRun bool         `json:"dry_run"`
	Roots  []RootResult `json:"roots"`
	Counts Counts       `json:"counts"`
}

// Add appends a root result and folds its counts into the run total.
func (r *RunResult) Add(root RootResult) {
	r.Roots = append(r.Roots, root)
	r.Counts.Merge(root.Counts)
}

// Interrupted reports whether any root stopped early.
func (r RunResult) Interrupted() bool {
	for _, root := range r.Roots {
		if root.Interrupted {
			return true
		}
	}
	return false
}
