package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/profwipe/internal/pipeline"
	"github.com/lakshaymaurya-felt/profwipe/internal/ui"
	"github.com/lakshaymaurya-felt/profwipe/internal/usage"
)

var listSizes bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the profile roots and profiles that would be cleaned",
	Long:  "Discover the selected browser's profile roots and list the profiles inside them. Nothing is modified.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		log, closer, err := s.logger(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer closer.Close()

		targets, err := pipeline.Discover(s.candidates, log)
		if err != nil {
			return fmt.Errorf("%s: %w", s.browser.Name, err)
		}

		views := listViews(targets)
		if listSizes {
			scanner := usage.NewScanner(0)
			measureViews(scanner, views)
			for _, w := range scanner.Warnings() {
				log.Debug(w)
			}
		}
		return printTargets(cmd.OutOrStdout(), views)
	},
}

func init() {
	listCmd.Flags().BoolVarP(&listSizes, "size", "s", false, "Measure the disk space each profile uses")
}

type profileView struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	Bytes int64  `json:"bytes,omitempty"`
}

type rootView struct {
	Name     string        `json:"name"`
	Path     string        `json:"path"`
	Profiles []profileView `json:"profiles"`
}

func listViews(targets []pipeline.Target) []rootView {
	views := make([]rootView, 0, len(targets))
	for _, t := range targets {
		v := rootView{Name: t.Root.Name, Path: t.Root.Path, Profiles: []profileView{}}
		for _, p := range t.Profiles {
			v.Profiles = append(v.Profiles, profileView{Name: p.Name, Path: p.Path})
		}
		views = append(views, v)
	}
	return views
}

func measureViews(s *usage.Scanner, views []rootView) {
	var paths []string
	for _, v := range views {
		for _, p := range v.Profiles {
			paths = append(paths, p.Path)
		}
	}
	sizes := s.MeasureAll(paths)
	i := 0
	for _, v := range views {
		for j := range v.Profiles {
			v.Profiles[j].Bytes = sizes[i].Bytes
			i++
		}
	}
}

func printTargets(w io.Writer, views []rootView) error {
	if jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	}
	for _, v := range views {
		fmt.Fprintf(w, "%s  %s\n", ui.HeaderStyle.Render(ui.IconFolder+" "+v.Name), ui.MutedStyle.Render(v.Path))
		if len(v.Profiles) == 0 {
			fmt.Fprintln(w, ui.MutedStyle.Render("  (no profiles)"))
		}
		for _, p := range v.Profiles {
			line := fmt.Sprintf("  %s %s", ui.IconBullet, p.Name)
			if listSizes {
				line += "  " + ui.MutedStyle.Render(ui.FormatSize(p.Bytes))
			}
			fmt.Fprintln(w, line)
		}
	}
	return nil
}
