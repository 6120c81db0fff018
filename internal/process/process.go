// Package process finds and stops running browser instances.
package process

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
)

// Instance is one running process that matched the browser's executables.
type Instance struct {
	PID  int32  `json:"pid"`
	Name string `json:"name"`
}

// Manager is what the lifecycle guard needs from the operating system.
type Manager interface {
	// Running returns every live instance of the target application.
	Running(ctx context.Context) ([]Instance, error)

	// Terminate asks each instance to exit. It does not wait.
	Terminate(ctx context.Context, instances []Instance) []error

	// Kill forcibly ends each instance.
	Kill(ctx context.Context, instances []Instance) []error
}

// SystemManager implements Manager on top of gopsutil.
type SystemManager struct {
	names map[string]struct{}
	self  int32
}

// NewSystemManager matches processes whose image name equals one of
// executables (case-insensitive). The calling process is never matched.
func NewSystemManager(executables []string) *SystemManager {
	names := make(map[string]struct{}, len(executables))
	for _, e := range executables {
		names[strings.ToLower(e)] = struct{}{}
	}
	return &SystemManager{names: names, self: int32(os.Getpid())}
}

// ─── Public API ──────────────────────────────────────────────────────────────

// Running lists live instances of the target application.
func (m *SystemManager) Running(ctx context.Context) ([]Instance, error) {
	all, err := listProcesses(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing processes: %w", err)
	}
	return m.filter(all), nil
}

// Terminate requests a graceful exit from each instance and returns
// without waiting for any of them to exit.
func (m *SystemManager) Terminate(ctx context.Context, instances []Instance) []error {
	if len(instances) == 0 {
		return nil
	}
	return terminateAll(ctx, instances)
}

// Kill forcibly ends each instance. Instances that already exited are
// not reported as errors.
func (m *SystemManager) Kill(ctx context.Context, instances []Instance) []error {
	var errs []error
	for _, inst := range instances {
		p, err := process.NewProcessWithContext(ctx, inst.PID)
		if err != nil {
			continue // Already gone.
		}
		if err := p.KillWithContext(ctx); err != nil {
			if alive, _ := process.PidExistsWithContext(ctx, inst.PID); !alive {
				continue
			}
			errs = append(errs, fmt.Errorf("killing %s (pid %d): %w", inst.Name, inst.PID, err))
		}
	}
	return errs
}

// ─── Internal Helpers ────────────────────────────────────────────────────────

// filter keeps instances whose name is in the match set, excluding self.
func (m *SystemManager) filter(all []Instance) []Instance {
	var out []Instance
	for _, inst := range all {
		if inst.PID == m.self {
			continue
		}
		if _, ok := m.names[strings.ToLower(inst.Name)]; ok {
			out = append(out, inst)
		}
	}
	return out
}

// taskkillArgs builds a single graceful taskkill invocation covering every
// instance.
func taskkillArgs(instances []Instance) []string {
	args := make([]string, 0, 2*len(instances))
	for _, inst := range instances {
		args = append(args, "/PID", strconv.Itoa(int(inst.PID)))
	}
	return args
}

// gopsutilProcesses enumerates processes through gopsutil. Processes that
// vanish or deny access between listing and naming are skipped.
func gopsutilProcesses(ctx context.Context) ([]Instance, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Instance, 0, len(procs))
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil || name == "" {
			continue
		}
		out = append(out, Instance{PID: p.Pid, Name: name})
	}
	return out, nil
}
