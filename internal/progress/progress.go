// Package progress reports how a run advances. Reporters observe the
// traversal; nothing they do feeds back into it.
package progress

import (
	"context"
	"time"

	"github.com/specialistvlad/gridwords/internal/ctxlog"
)

// Event describes one committed pass.
type Event struct {
	RunID     string
	Iteration int
	Paths     int64
	Pruned    int64
	Malformed int64
	Attempts  int
	Duration  time.Duration
}

// Summary describes a finished run.
type Summary struct {
	RunID      string
	Iterations int
	Reason     string
	Records    int
	Accepted   int64
	Words      int
	Duration   time.Duration
}

// Reporter receives progress notifications. Implementations must not block
// for long; the driver calls them between passes.
type Reporter interface {
	Iteration(ctx context.Context, ev Event)
	Finished(ctx context.Context, s Summary)
}

// LogReporter writes progress to the context logger.
type LogReporter struct{}

// Iteration implements Reporter.
func (LogReporter) Iteration(ctx context.Context, ev Event) {
	ctxlog.FromContext(ctx).Info("Iteration finished.",
		"run", ev.RunID,
		"iteration", ev.Iteration,
		"paths", ev.Paths,
		"pruned", ev.Pruned,
		"malformed", ev.Malformed,
		"attempts", ev.Attempts,
		"duration", ev.Duration,
	)
}

// Finished implements Reporter.
func (LogReporter) Finished(ctx context.Context, s Summary) {
	ctxlog.FromContext(ctx).Info("Run finished.",
		"run", s.RunID,
		"iterations", s.Iterations,
		"reason", s.Reason,
		"records", s.Records,
		"accepted", s.Accepted,
		"words", s.Words,
		"duration", s.Duration,
	)
}

// Multi fans every notification out to each reporter in order.
type Multi []Reporter

// Iteration implements Reporter.
func (m Multi) Iteration(ctx context.Context, ev Event) {
	for _, r := range m {
		if r != nil {
			r.Iteration(ctx, ev)
		}
	}
}

// Finished implements Reporter.
func (m Multi) Finished(ctx context.Context, s Summary) {
	for _, r := range m {
		if r != nil {
			r.Finished(ctx, s)
		}
	}
}

// Nop discards everything.
type Nop struct{}

// Iteration implements Reporter.
func (Nop) Iteration(context.Context, Event) {}

// Finished implements Reporter.
func (Nop) Finished(context.Context, Summary) {}
