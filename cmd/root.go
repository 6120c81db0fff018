package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/profwipe/internal/core"
	"github.com/lakshaymaurya-felt/profwipe/internal/discovery"
	"github.com/lakshaymaurya-felt/profwipe/internal/launcher"
	"github.com/lakshaymaurya-felt/profwipe/internal/pipeline"
	"github.com/lakshaymaurya-felt/profwipe/internal/process"
	"github.com/lakshaymaurya-felt/profwipe/internal/report"
	"github.com/lakshaymaurya-felt/profwipe/internal/ui"
)

var (
	// Global flags
	debug         bool
	jsonOut       bool
	browserID     string
	configPath    string
	logFile       string
	keepBookmarks bool
	keepPasswords bool

	// Wipe flags
	dryRun        bool
	force         bool
	launchAfter   bool
	verbose       bool
	extraPreserve []string

	// Version info populated from main
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// errInterrupted is returned after the report when a signal cut the run short.
var errInterrupted = errors.New("interrupted before every profile was purged; run again to finish")

// SetVersionInfo sets build-time version information.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "profwipe",
	Short: "Wipe browsing state from Chromium profiles, keeping extensions",
	Long: `profwipe - reset Chromium-family browser profiles without losing extensions.

Closes the browser (after asking), then deletes cookies, sessions, saved
passwords, autofill, site storage, caches and history from every profile,
and strips sign-in and session keys from Preferences. Installed extensions
and their settings are never touched.

Use --dry-run to see what would be removed.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runWipe,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&debug, "debug", false, "Show detailed operation logs")
	pf.BoolVar(&jsonOut, "json", false, "Print machine-readable JSON instead of the text report")
	pf.StringVarP(&browserID, "browser", "b", "", fmt.Sprintf("Browser to clean (one of %v, default %q)", browserChoices(), "chrome"))
	pf.StringVar(&configPath, "config", "", "Path to the configuration file")
	pf.StringVar(&logFile, "log-file", "", "Also write logs to this file (rotated)")
	pf.BoolVar(&keepBookmarks, "keep-bookmarks", false, "Keep bookmarks")
	pf.BoolVar(&keepPasswords, "keep-passwords", false, "Keep saved passwords")

	f := rootCmd.Flags()
	f.BoolVarP(&dryRun, "dry-run", "n", false, "Preview without deleting anything")
	f.BoolVarP(&force, "force", "f", false, "Close a running browser without asking")
	f.BoolVar(&launchAfter, "launch", false, "Start the browser again when done")
	f.BoolVarP(&verbose, "verbose", "v", false, "List every item acted on")
	f.StringSliceVar(&extraPreserve, "preserve", nil, "Extra name patterns to keep (glob, one path segment each)")

	_ = rootCmd.RegisterFlagCompletionFunc("browser", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return browserChoices(), cobra.ShellCompDirectiveNoFileComp
	})

	// Register all subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}

// runWipe is the default action: discover, close the browser, purge, report.
func runWipe(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	log, closer, err := s.logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closer.Close()

	log.WithFields(logrus.Fields{
		"version":  appVersion,
		"platform": core.Platform(),
		"browser":  s.browser.ID,
		"dry_run":  dryRun,
	}).Debug("starting")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out, err := pipeline.Run(ctx, pipeline.Deps{
		Candidates: s.candidates,
		Processes:  process.NewSystemManager(s.browser.Executables),
		Confirmer:  ui.NewTerminalConfirmer(),
		Log:        log,
	}, pipeline.Options{
		DryRun:            dryRun,
		Force:             force,
		Interactive:       ui.IsInteractive() && !jsonOut,
		RetainBookmarks:   keepBookmarks,
		RetainCredentials: keepPasswords,
		Preserve:          s.preserve,
	})
	switch {
	case errors.Is(err, discovery.ErrNoRoots):
		return fmt.Errorf("%s: %w", s.browser.Name, err)
	case err != nil && !errors.Is(err, pipeline.ErrDryRunMutated):
		return err
	}

	if rerr := report.Render(cmd.OutOrStdout(), out, report.Options{JSON: jsonOut, Verbose: verbose}); rerr != nil {
		return fmt.Errorf("writing report: %w", rerr)
	}
	if err != nil {
		return err
	}
	if out.Run.Interrupted() {
		return errInterrupted
	}

	if s.launch && !dryRun && !out.Aborted {
		if err := launcher.New(s.env).Launch(s.browser); err != nil {
			log.WithError(err).Warn("could not start the browser again")
		}
	}
	return nil
}
