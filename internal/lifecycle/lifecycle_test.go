package lifecycle

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakshaymaurya-felt/profwipe/internal/process"
)

func init() {
	pollInterval = time.Millisecond
}

// fakeManager simulates a set of processes. Terminate removes those whose
// PID is in obeyTerm; Kill removes everything unless stubborn is set.
type fakeManager struct {
	mu           sync.Mutex
	alive        []process.Instance
	obeyTerm     map[int32]bool
	stubborn     bool
	listErr      error
	terminated   int
	killed       int
	terminateErr error
}

func (f *fakeManager) Running(context.Context) ([]process.Instance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]process.Instance(nil), f.alive...), nil
}

func (f *fakeManager) Terminate(_ context.Context, instances []process.Instance) []error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.terminated++
	var keep []process.Instance
	for _, inst := range f.alive {
		if !f.obeyTerm[inst.PID] {
			keep = append(keep, inst)
		}
	}
	f.alive = keep
	if f.terminateErr != nil {
		return []error{f.terminateErr}
	}
	return nil
}

func (f *fakeManager) Kill(context.Context, []process.Instance) []error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.killed++
	if f.stubborn {
		return []error{errors.New("access denied")}
	}
	f.alive = nil
	return nil
}

type fakeConfirmer struct {
	answer bool
	err    error
	asked  int
}

func (c *fakeConfirmer) Confirm(string) (bool, error) {
	c.asked++
	return c.answer, c.err
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestGuard(mgr process.Manager, c Confirmer) *Guard {
	g := NewGuard(mgr, c, quietLogger())
	g.grace = 20 * time.Millisecond
	g.settle = time.Millisecond
	return g
}

func TestShutdown(t *testing.T) {
	tests := []struct {
		name        string
		stopOnGrace bool
		stopOnForce bool
		want        bool
		wantForce   bool
	}{
		{name: "graceful is enough", stopOnGrace: true, want: true},
		{name: "needs force", stopOnForce: true, want: true, wantForce: true},
		{name: "never stops", want: false, wantForce: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alive := true
			forced := false
			running := func(context.Context) bool { return alive }
			graceful := func(context.Context) {
				if tt.stopOnGrace {
					alive = false
				}
			}
			force := func(context.Context) {
				forced = true
				if tt.stopOnForce {
					alive = false
				}
			}

			got := Shutdown(context.Background(), running, graceful, force, 10*time.Millisecond, time.Millisecond)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantForce, forced)
		})
	}
}

func TestShutdownNothingRunning(t *testing.T) {
	called := false
	noop := func(context.Context) { called = true }
	ok := Shutdown(context.Background(), func(context.Context) bool { return false }, noop, noop, time.Second, time.Second)
	assert.True(t, ok)
	assert.False(t, called)
}

func TestShutdownRespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	Shutdown(ctx, func(context.Context) bool { return true },
		func(context.Context) {}, func(context.Context) {}, time.Hour, time.Hour)
	assert.Less(t, time.Since(start), time.Second)
}

func TestEnsureNothingRunning(t *testing.T) {
	mgr := &fakeManager{}
	c := &fakeConfirmer{}
	out, err := newTestGuard(mgr, c).Ensure(context.Background(), Options{})
	require.NoError(t, err)
	assert.True(t, out.Cleared)
	assert.False(t, out.Terminated)
	assert.Zero(t, c.asked)
}

func TestEnsureDryRunNeverTerminates(t *testing.T) {
	mgr := &fakeManager{alive: []process.Instance{{PID: 1, Name: "chrome"}}, obeyTerm: map[int32]bool{1: true}}
	out, err := newTestGuard(mgr, nil).Ensure(context.Background(), Options{DryRun: true, Force: true})
	require.NoError(t, err)
	assert.Len(t, out.Instances, 1)
	assert.False(t, out.Terminated)
	assert.Zero(t, mgr.terminated)
	assert.Zero(t, mgr.killed)
}

func TestEnsureInteractiveDecline(t *testing.T) {
	mgr := &fakeManager{alive: []process.Instance{{PID: 1, Name: "chrome"}}}
	c := &fakeConfirmer{answer: false}
	_, err := newTestGuard(mgr, c).Ensure(context.Background(), Options{Interactive: true})
	assert.ErrorIs(t, err, ErrDeclined)
	assert.Equal(t, 1, c.asked)
	assert.Zero(t, mgr.terminated)
}

func TestEnsureNonInteractiveRequiresForce(t *testing.T) {
	mgr := &fakeManager{alive: []process.Instance{{PID: 1, Name: "chrome"}}}
	_, err := newTestGuard(mgr, &fakeConfirmer{answer: true}).Ensure(context.Background(), Options{})
	assert.ErrorIs(t, err, ErrConfirmationRequired)
	assert.Zero(t, mgr.terminated)
}

func TestEnsureConfirmError(t *testing.T) {
	mgr := &fakeManager{alive: []process.Instance{{PID: 1, Name: "chrome"}}}
	_, err := newTestGuard(mgr, &fakeConfirmer{err: io.ErrUnexpectedEOF}).Ensure(context.Background(), Options{Interactive: true})
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestEnsureInteractiveAcceptTerminates(t *testing.T) {
	mgr := &fakeManager{
		alive:    []process.Instance{{PID: 1, Name: "chrome"}, {PID: 2, Name: "chrome"}},
		obeyTerm: map[int32]bool{1: true, 2: true},
	}
	out, err := newTestGuard(mgr, &fakeConfirmer{answer: true}).Ensure(context.Background(), Options{Interactive: true})
	require.NoError(t, err)
	assert.True(t, out.Terminated)
	assert.True(t, out.Cleared)
	assert.Equal(t, 1, mgr.terminated)
	assert.Zero(t, mgr.killed)
}

func TestEnsureForceEscalatesToKill(t *testing.T) {
	mgr := &fakeManager{
		alive:        []process.Instance{{PID: 1, Name: "chrome"}, {PID: 2, Name: "chrome"}},
		obeyTerm:     map[int32]bool{1: true},
		terminateErr: errors.New("no window"),
	}
	out, err := newTestGuard(mgr, nil).Ensure(context.Background(), Options{Force: true})
	require.NoError(t, err)
	assert.True(t, out.Cleared)
	assert.Equal(t, 1, mgr.killed)
}

func TestEnsureStubbornProcessStillProceeds(t *testing.T) {
	mgr := &fakeManager{alive: []process.Instance{{PID: 1, Name: "chrome"}}, stubborn: true}
	out, err := newTestGuard(mgr, nil).Ensure(context.Background(), Options{Force: true})
	require.NoError(t, err)
	assert.True(t, out.Terminated)
	assert.False(t, out.Cleared)
}

func TestEnsureListFailureProceeds(t *testing.T) {
	mgr := &fakeManager{listErr: errors.New("wmi unavailable")}
	out, err := newTestGuard(mgr, nil).Ensure(context.Background(), Options{})
	require.NoError(t, err)
	assert.True(t, out.Cleared)
}
