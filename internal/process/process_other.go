//go:build !windows

package process

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/process"
)

func listProcesses(ctx context.Context) ([]Instance, error) {
	return gopsutilProcesses(ctx)
}

// terminateAll sends SIGTERM to each instance. Signal delivery does not
// wait for the process to exit.
func terminateAll(ctx context.Context, instances []Instance) []error {
	var errs []error
	for _, inst := range instances {
		p, err := process.NewProcessWithContext(ctx, inst.PID)
		if err != nil {
			continue // Already gone.
		}
		if err := p.TerminateWithContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("terminating %s (pid %d): %w", inst.Name, inst.PID, err))
		}
	}
	return errs
}
