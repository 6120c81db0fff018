package cmd

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/profwipe/internal/config"
	"github.com/lakshaymaurya-felt/profwipe/internal/logging"
)

// defaultLogLevel keeps the terminal quiet unless something goes wrong;
// the report covers normal progress.
const defaultLogLevel = "warn"

// settings merges the config file with command-line flags. Flags win.
type settings struct {
	browser    config.Browser
	env        config.Env
	candidates []config.RootCandidate
	preserve   []string
	logFile    string
	logLevel   string
	launch     bool
}

func loadSettings(cmd *cobra.Command) (settings, error) {
	path, required := configPath, true
	if path == "" {
		path, required = config.DefaultPath(), false
	}
	file, err := config.LoadFile(path, required)
	if err != nil {
		return settings{}, err
	}

	id := config.DefaultBrowser
	if file.Browser != "" {
		id = file.Browser
	}
	if browserID != "" {
		id = browserID
	}
	b, ok := config.LookupBrowser(id)
	if !ok {
		return settings{}, fmt.Errorf("unknown browser %q (expected one of %v)", id, config.BrowserIDs())
	}

	s := settings{
		browser:  b,
		env:      config.EnvFromOS(),
		preserve: append(append([]string(nil), file.ExtraPreserve...), extraPreserve...),
		logFile:  file.LogFile,
		logLevel: file.LogLevel,
		launch:   file.LaunchAfter,
	}
	s.candidates = file.Candidates(b, s.env)
	if logFile != "" {
		s.logFile = logFile
	}
	if s.logLevel == "" {
		s.logLevel = defaultLogLevel
	}
	if f := cmd.Flags().Lookup("launch"); f != nil && f.Changed {
		s.launch = launchAfter
	}
	return s, nil
}

func (s settings) logger(w io.Writer) (*logrus.Logger, io.Closer, error) {
	log, closer, err := logging.New(logging.Options{
		Level: s.logLevel,
		Debug: debug,
		File:  s.logFile,
		Out:   w,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("logging: %w", err)
	}
	return log, closer, nil
}

func browserChoices() []string {
	return config.BrowserIDs()
}
