package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want logrus.Level
	}{
		{"default", Options{}, logrus.InfoLevel},
		{"named", Options{Level: "warn"}, logrus.WarnLevel},
		{"debug overrides", Options{Level: "error", Debug: true}, logrus.DebugLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Out = &bytes.Buffer{}
			log, closer, err := New(tt.opts)
			require.NoError(t, err)
			defer closer.Close()
			assert.Equal(t, tt.want, log.GetLevel())
		})
	}
}

func TestNewBadLevel(t *testing.T) {
	_, _, err := New(Options{Level: "loud"})
	assert.Error(t, err)
}

func TestNewWritesTerminalText(t *testing.T) {
	var buf bytes.Buffer
	log, closer, err := New(Options{Out: &buf})
	require.NoError(t, err)
	defer closer.Close()

	log.WithField("profile", "Default").Info("purging profile")
	log.Debug("hidden")

	out := buf.String()
	assert.Contains(t, out, "purging profile")
	assert.Contains(t, out, "profile=Default")
	assert.NotContains(t, out, "hidden")
}

func TestNewMirrorsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "profwipe.log")
	var buf bytes.Buffer
	log, closer, err := New(Options{Out: &buf, File: path})
	require.NoError(t, err)

	log.WithField("rule", "cookies").Warn("could not remove")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "could not remove", rec["msg"])
	assert.Equal(t, "cookies", rec["rule"])
	assert.Equal(t, "warning", rec["level"])
}
