package main

import (
	"fmt"
	"os"

	"github.com/lakshaymaurya-felt/profwipe/cmd"
	"github.com/lakshaymaurya-felt/profwipe/internal/ui"
)

// Set via -ldflags at release time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd.SetVersionInfo(version, commit, date)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.ErrorStyle.Render(ui.IconCross+" "+err.Error()))
		os.Exit(1)
	}
}
