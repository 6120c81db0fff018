// Package lifecycle makes sure the target application is closed before
// its profile data is touched.
package lifecycle

import (
	"context"
	"time"
)

// pollInterval is how often Shutdown re-queries during the grace period.
var pollInterval = 250 * time.Millisecond

// Shutdown runs the graceful-then-forced strategy against any external
// lifecycle dependency:
//
//  1. if running reports nothing, return true immediately;
//  2. call graceful, then poll running until grace elapses;
//  3. call force on whatever survived, then wait settle;
//  4. return whether running now reports nothing.
//
// The waits are bounded by grace and settle, or by ctx if it ends first.
func Shutdown(
	ctx context.Context,
	running func(context.Context) bool,
	graceful, force func(context.Context),
	grace, settle time.Duration,
) bool {
	if !running(ctx) {
		return true
	}

	graceful(ctx)
	if waitUntilStopped(ctx, running, grace) {
		return true
	}

	force(ctx)
	sleep(ctx, settle)
	return !running(ctx)
}

// waitUntilStopped polls running until it reports false or timeout passes.
func waitUntilStopped(ctx context.Context, running func(context.Context) bool, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		if !running(ctx) {
			return true
		}
		remaining := time.Until(deadline)
		if remaining <= 0 || ctx.Err() != nil {
			return false
		}
		sleep(ctx, min(pollInterval, remaining))
	}
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
