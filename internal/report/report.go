// Package report renders the outcome of a run for the terminal or as JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lakshaymaurya-felt/profwipe/internal/pipeline"
	"github.com/lakshaymaurya-felt/profwipe/internal/purge"
	"github.com/lakshaymaurya-felt/profwipe/internal/ui"
)

// Options controls rendering.
type Options struct {
	// JSON emits the full outcome as indented JSON instead of text.
	JSON bool

	// Verbose lists every acted-on item, not only failures.
	Verbose bool
}

// Render writes out to w.
func Render(w io.Writer, out pipeline.Outcome, opts Options) error {
	if opts.JSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	_, err := io.WriteString(w, Text(out, opts.Verbose))
	return err
}

// ─── Text ────────────────────────────────────────────────────────────────────

var (
	nameStyle  = lipgloss.NewStyle().Foreground(ui.ColorText).Width(14)
	pathStyle  = lipgloss.NewStyle().Foreground(ui.ColorTextDim)
	sizeStyle  = lipgloss.NewStyle().Foreground(ui.ColorSecondary)
	totalStyle = lipgloss.NewStyle().Bold(true).Foreground(ui.ColorPrimary)
)

// Text renders the human-readable report.
func Text(out pipeline.Outcome, verbose bool) string {
	var s strings.Builder

	if out.Aborted {
		s.WriteString(ui.WarningStyle.Render(ui.IconWarning+" Aborted. Nothing was changed.") + "\n")
		return s.String()
	}

	title := ui.TitleStyle.Render(ui.IconDiamond + " profwipe")
	if out.Run.DryRun {
		title += " " + ui.TagWarningStyle.Render("DRY RUN")
	}
	s.WriteString(title + "\n")

	if n := len(out.Guard.Instances); n > 0 {
		verb := "closed"
		switch {
		case out.Run.DryRun:
			verb = "would be closed"
		case !out.Guard.Cleared:
			verb = "could not all be closed"
		}
		s.WriteString(ui.MutedStyle.Render(fmt.Sprintf("  %d browser %s %s", n, ui.Plural(n, "process", "processes"), verb)) + "\n")
	}

	for _, root := range out.Run.Roots {
		s.WriteString("\n")
		s.WriteString(ui.HeaderStyle.Render(ui.IconFolder+" "+root.Root.Name) + "  " + pathStyle.Render(root.Root.Path) + "\n")
		for _, p := range root.Profiles {
			s.WriteString(line(p.Profile.Name, p.Counts, out.Run.DryRun, p.Interrupted))
			s.WriteString(items(p.Items, verbose))
		}
		if len(root.Items) > 0 {
			s.WriteString(line("(shared)", purge.Tally(root.Items), out.Run.DryRun, false))
			s.WriteString(items(root.Items, verbose))
		}
	}

	s.WriteString("\n")
	s.WriteString(totalStyle.Render("Total") + "  " + Summary(out.Run.Counts, out.Run.DryRun))
	if b := out.Run.Counts.Bytes; b > 0 {
		verb := "reclaimed"
		if out.Run.DryRun {
			verb = "would reclaim"
		}
		s.WriteString("  " + sizeStyle.Render(verb+" "+ui.FormatSize(b)))
	}
	s.WriteString("\n")

	switch {
	case out.Run.Interrupted():
		s.WriteString(ui.WarningStyle.Render(ui.IconWarning+" Interrupted. Run again to finish.") + "\n")
	case out.Verified:
		s.WriteString(ui.SuccessStyle.Render(ui.IconCheck+" Verified: the dry run changed nothing on disk.") + "\n")
	}
	if out.Run.Counts.Failed > 0 {
		s.WriteString(ui.ErrorStyle.Render(fmt.Sprintf("%s %d %s could not be removed; close the browser and run again.",
			ui.IconCross, out.Run.Counts.Failed, ui.Plural(out.Run.Counts.Failed, "item", "items"))) + "\n")
	}
	return s.String()
}

func line(name string, c purge.Counts, dry, interrupted bool) string {
	l := "  " + nameStyle.Render(name) + Summary(c, dry)
	if c.Bytes > 0 {
		l += "  " + sizeStyle.Render(ui.FormatSize(c.Bytes))
	}
	if interrupted {
		l += "  " + ui.WarningStyle.Render("interrupted")
	}
	return l + "\n"
}

// items lists failures always, and in verbose mode every item that was
// acted on. NotFound items are never listed.
func items(list []purge.Item, verbose bool) string {
	var s strings.Builder
	for _, it := range list {
		var icon string
		var style lipgloss.Style
		switch it.Outcome {
		case purge.OutcomeFailed:
			icon, style = ui.IconCross, ui.ErrorStyle
		case purge.OutcomeFallback:
			icon, style = ui.IconWarning, ui.WarningStyle
		case purge.OutcomeNotFound:
			continue
		default:
			if !verbose {
				continue
			}
			icon, style = ui.IconBullet, ui.MutedStyle
		}
		text := fmt.Sprintf("    %s %-15s %s", icon, it.Outcome, it.Path)
		if it.Reason != "" {
			text += "  (" + it.Reason + ")"
		}
		s.WriteString(style.Render(text) + "\n")
	}
	return s.String()
}

// Summary renders the non-zero counts as "2 deleted · 1 preserved".
func Summary(c purge.Counts, dry bool) string {
	var parts []string
	add := func(n int, label string) {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, label))
		}
	}
	if dry {
		add(c.WouldDelete, "would delete")
	} else {
		add(c.Deleted, "deleted")
	}
	add(c.Rewritten, "rewritten")
	add(c.Fallback, "reset")
	add(c.Preserved, "preserved")
	add(c.Retained, "kept")
	add(c.NotFound, "not found")
	add(c.Failed, "failed")
	if len(parts) == 0 {
		return ui.MutedStyle.Render("nothing to do")
	}
	return strings.Join(parts, " · ")
}
