package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lakshaymaurya-felt/profwipe/internal/process"
)

const (
	// GracePeriod bounds the wait after asking instances to exit.
	GracePeriod = 5 * time.Second

	// SettlePeriod is the pause after force-killing, letting the OS
	// release file handles before the purge starts.
	SettlePeriod = 2 * time.Second
)

var (
	// ErrDeclined means the user chose not to close the running browser.
	// The run ends cleanly with no filesystem changes.
	ErrDeclined = errors.New("user declined to close the browser")

	// ErrConfirmationRequired means the browser is running, --force was not
	// given, and there is no terminal to ask on.
	ErrConfirmationRequired = errors.New("browser is running and confirmation is required (use --force to close it without asking)")
)

// Confirmer asks the operator a yes/no question.
type Confirmer interface {
	Confirm(question string) (bool, error)
}

// Options controls how Ensure treats a running application.
type Options struct {
	DryRun      bool
	Force       bool
	Interactive bool
}

// Outcome describes what Ensure found and did.
type Outcome struct {
	// Instances are the processes found running at the start.
	Instances []process.Instance `json:"instances,omitempty"`

	// Terminated is set when termination was attempted.
	Terminated bool `json:"terminated"`

	// Cleared is false when instances were still alive afterwards.
	// The purge proceeds regardless; locked files fail per item.
	Cleared bool `json:"cleared"`
}

// Guard ensures the target application is not running before the purge.
type Guard struct {
	mgr     process.Manager
	confirm Confirmer
	log     logrus.FieldLogger
	grace   time.Duration
	settle  time.Duration
}

// NewGuard creates a Guard with the fixed grace and settle periods.
func NewGuard(mgr process.Manager, confirm Confirmer, log logrus.FieldLogger) *Guard {
	return &Guard{
		mgr:     mgr,
		confirm: confirm,
		log:     log,
		grace:   GracePeriod,
		settle:  SettlePeriod,
	}
}

// Ensure checks for running instances and, depending on opts, asks for
// confirmation and terminates them. It returns ErrDeclined or
// ErrConfirmationRequired before anything is terminated.
func (g *Guard) Ensure(ctx context.Context, opts Options) (Outcome, error) {
	instances, err := g.mgr.Running(ctx)
	if err != nil {
		// Not being able to list processes is no reason to refuse the wipe:
		// locked files will fail individually.
		g.log.WithError(err).Warn("could not check for running browser instances")
		return Outcome{Cleared: true}, nil
	}

	out := Outcome{Instances: instances, Cleared: len(instances) == 0}
	if len(instances) == 0 {
		return out, nil
	}

	if opts.DryRun {
		for _, inst := range instances {
			g.log.WithFields(logrus.Fields{"pid": inst.PID, "name": inst.Name}).Info("would close")
		}
		return out, nil
	}

	if !opts.Force {
		if !opts.Interactive || g.confirm == nil {
			return out, ErrConfirmationRequired
		}
		q := fmt.Sprintf("%d browser process(es) are running. Close them now?", len(instances))
		ok, err := g.confirm.Confirm(q)
		if err != nil {
			return out, fmt.Errorf("asking for confirmation: %w", err)
		}
		if !ok {
			return out, ErrDeclined
		}
	}

	out.Terminated = true
	out.Cleared = Shutdown(ctx, g.running, g.terminate, g.kill, g.grace, g.settle)
	if !out.Cleared {
		g.log.Warn("browser is still running; locked files will be skipped")
	}
	return out, nil
}

// ─── Shutdown adapters ───────────────────────────────────────────────────────

func (g *Guard) running(ctx context.Context) bool {
	instances, err := g.mgr.Running(ctx)
	if err != nil {
		g.log.WithError(err).Debug("process query failed during shutdown")
		return false
	}
	return len(instances) > 0
}

func (g *Guard) terminate(ctx context.Context) {
	g.signal(ctx, g.mgr.Terminate, "graceful close failed")
}

func (g *Guard) kill(ctx context.Context) {
	g.signal(ctx, g.mgr.Kill, "force close failed")
}

func (g *Guard) signal(ctx context.Context, fn func(context.Context, []process.Instance) []error, msg string) {
	instances, err := g.mgr.Running(ctx)
	if err != nil || len(instances) == 0 {
		return
	}
	for _, e := range fn(ctx, instances) {
		g.log.WithError(e).Warn(msg)
	}
}
