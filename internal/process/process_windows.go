//go:build windows

package process

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/yusufpapurcu/wmi"
)

// win32Process mirrors the Win32_Process columns we select.
type win32Process struct {
	ProcessId uint32
	Name      string
}

// listProcesses queries WMI, which reports image names for processes that
// gopsutil cannot open without elevation. Falls back to gopsutil when WMI
// is unavailable.
func listProcesses(ctx context.Context) ([]Instance, error) {
	var rows []win32Process
	if err := wmi.Query("SELECT ProcessId, Name FROM Win32_Process", &rows); err != nil {
		return gopsutilProcesses(ctx)
	}
	out := make([]Instance, 0, len(rows))
	for _, r := range rows {
		out = append(out, Instance{PID: int32(r.ProcessId), Name: r.Name})
	}
	return out, nil
}

// terminateAll asks every instance to close its windows with one taskkill
// call. taskkill without /F posts WM_CLOSE, which lets the browser flush
// its profile state. The command is reaped in the background; survivors
// are force-killed once the grace period runs out.
func terminateAll(_ context.Context, instances []Instance) []error {
	cmd := exec.Command("taskkill", taskkillArgs(instances)...)
	if err := cmd.Start(); err != nil {
		return []error{fmt.Errorf("starting taskkill: %w", err)}
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
