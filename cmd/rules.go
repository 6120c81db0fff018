package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/profwipe/internal/purge"
	"github.com/lakshaymaurya-felt/profwipe/internal/ui"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print what gets deleted and what is kept",
	Long: `Print the deletion plan in execution order, honoring --keep-bookmarks and
--keep-passwords, followed by the names that are always preserved and the
Preferences keys that are removed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printRules(cmd.OutOrStdout(), purge.Options{
			RetainBookmarks:   keepBookmarks,
			RetainCredentials: keepPasswords,
		})
	},
}

type ruleView struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Stage    string   `json:"stage"`
	Kind     string   `json:"kind"`
	Targets  []string `json:"targets"`
	Preserve []string `json:"preserve,omitempty"`
	Kept     bool     `json:"kept,omitempty"`
	Shared   bool     `json:"shared,omitempty"`
}

func ruleViews(opts purge.Options) []ruleView {
	var views []ruleView
	add := func(rules []purge.Rule, shared bool) {
		for _, r := range rules {
			views = append(views, ruleView{
				Name:     r.Name,
				Label:    r.Label,
				Stage:    r.Stage.String(),
				Kind:     r.Kind.String(),
				Targets:  r.Targets,
				Preserve: r.Preserve,
				Kept:     opts.Retains(r),
				Shared:   shared,
			})
		}
	}
	add(purge.ProfilePlan(), false)
	add(purge.RootPlan(), true)
	return views
}

func printRules(w io.Writer, opts purge.Options) error {
	views := ruleViews(opts)
	if jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Rules          []ruleView `json:"rules"`
			Preserved      []string   `json:"preserved"`
			PreferenceKeys []string   `json:"preference_keys"`
		}{views, purge.DefaultPreservation().Patterns(), purge.PreferenceKeys()})
	}

	stage := ""
	for _, v := range views {
		heading := v.Stage
		if v.Shared {
			heading = "Shared by all profiles"
		}
		if heading != stage {
			stage = heading
			fmt.Fprintln(w, ui.HeaderStyle.Render(stage))
		}
		mark := ui.ErrorStyle.Render(ui.IconCross)
		note := ""
		if v.Kept {
			mark = ui.SuccessStyle.Render(ui.IconCheck)
			note = ui.MutedStyle.Render(" (kept)")
		}
		fmt.Fprintf(w, "  %s %s%s\n", mark, v.Label, note)
		fmt.Fprintln(w, ui.MutedStyle.Render("      "+strings.Join(v.Targets, ", ")))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, ui.HeaderStyle.Render(ui.IconShield+" Always kept"))
	fmt.Fprintln(w, "  "+strings.Join(purge.DefaultPreservation().Patterns(), ", "))
	fmt.Fprintln(w)
	fmt.Fprintln(w, ui.HeaderStyle.Render("Preferences keys removed"))
	fmt.Fprintln(w, "  "+strings.Join(purge.PreferenceKeys(), ", "))
	return nil
}
