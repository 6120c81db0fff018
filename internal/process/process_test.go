package process

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter(t *testing.T) {
	m := NewSystemManager([]string{"chrome.exe", "Google Chrome"})
	m.self = 42

	got := m.filter([]Instance{
		{PID: 1, Name: "CHROME.EXE"},
		{PID: 2, Name: "google chrome"},
		{PID: 3, Name: "Google Chrome Helper"},
		{PID: 4, Name: "firefox"},
		{PID: 42, Name: "chrome.exe"},
	})

	assert.Equal(t, []Instance{
		{PID: 1, Name: "CHROME.EXE"},
		{PID: 2, Name: "google chrome"},
	}, got)
}

func TestRunningExcludesSelf(t *testing.T) {
	self, err := os.Executable()
	require.NoError(t, err)

	// Matching on our own image name must still return nothing for us.
	m := NewSystemManager([]string{filepath.Base(self)})
	instances, err := m.Running(context.Background())
	require.NoError(t, err)
	for _, inst := range instances {
		assert.NotEqual(t, int32(os.Getpid()), inst.PID)
	}
}

func TestKillVanishedProcess(t *testing.T) {
	m := NewSystemManager(nil)
	// A PID this large is not allocated on any supported OS.
	errs := m.Kill(context.Background(), []Instance{{PID: 1 << 30, Name: "ghost"}})
	assert.Empty(t, errs)
}

func TestTaskkillArgs(t *testing.T) {
	args := taskkillArgs([]Instance{{PID: 10, Name: "chrome.exe"}, {PID: 11, Name: "chrome.exe"}})
	assert.Equal(t, []string{"/PID", "10", "/PID", "11"}, args)
}

func TestTerminateDoesNotWait(t *testing.T) {
	m := NewSystemManager(nil)
	assert.Nil(t, m.Terminate(context.Background(), nil))

	start := time.Now()
	errs := m.Terminate(context.Background(), []Instance{{PID: 1 << 30, Name: "ghost"}})
	assert.Empty(t, errs)
	assert.Less(t, time.Since(start), time.Second)
}
