// Package traversal drives the iterative expansion of grid paths.
//
// # How It Works
//
// The driver seeds one single-cell path per grid cell as iteration 0, then
// repeats a pass until a stop condition holds:
//
//  1. Read the previous iteration's partitions from the record store.
//  2. Run the expansion engine over every partition through the executor.
//  3. Regroup the output by key and stage it as the next iteration.
//  4. Compare the paths counter with the previous pass.
//
// Passes are separated by a full barrier: iteration i is committed to the
// store before iteration i+1 reads it. Cancellation is honoured only between
// passes.
package traversal

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/specialistvlad/gridwords/internal/ctxlog"
	"github.com/specialistvlad/gridwords/internal/engine"
	"github.com/specialistvlad/gridwords/internal/executor"
	"github.com/specialistvlad/gridwords/internal/model"
	"github.com/specialistvlad/gridwords/internal/progress"
	"github.com/specialistvlad/gridwords/internal/recordstore"
	"github.com/specialistvlad/gridwords/internal/shuffle"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultPartitions is used when no partition count is configured.
const DefaultPartitions = 4

// ErrCancelled is returned when the context ends between passes.
var ErrCancelled = errors.New("traversal cancelled")

// State is the lifecycle position of a Driver.
type State int32

const (
	StateIdle State = iota
	StateSeeding
	StateIterating
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSeeding:
		return "seeding"
	case StateIterating:
		return "iterating"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// StopReason says why the traversal ended.
type StopReason string

const (
	ReasonExhausted       StopReason = "exhausted"
	ReasonIterationLimit  StopReason = "iteration-limit"
	ReasonStructuralLimit StopReason = "structural-limit"
)

// PassStats are the counters of one committed pass.
type PassStats struct {
	Iteration int
	Paths     int64
	Pruned    int64
	Malformed int64
	Records   int
	Attempts  int
	Duration  time.Duration
}

// Result is the outcome of a finished traversal.
type Result struct {
	Iterations int
	Reason     StopReason
	Final      []executor.Partition
	Passes     []PassStats
}

// Records returns the number of records in the final iteration.
func (r *Result) Records() int {
	n := 0
	for _, p := range r.Final {
		n += len(p)
	}
	return n
}

// Driver runs traversals. A Driver may be reused for several runs, one at a
// time.
type Driver struct {
	exec       executor.Executor
	store      recordstore.Store
	reporter   progress.Reporter
	partitions int
	tracer     trace.Tracer

	state atomic.Int32
}

// Option customises a Driver.
type Option func(*Driver)

// WithReporter sets the progress reporter.
func WithReporter(r progress.Reporter) Option {
	return func(d *Driver) { d.reporter = r }
}

// WithPartitions sets how many partitions each iteration is split into.
func WithPartitions(n int) Option {
	return func(d *Driver) {
		if n > 0 {
			d.partitions = n
		}
	}
}

// New creates a driver over an executor and a record store.
func New(exec executor.Executor, store recordstore.Store, opts ...Option) *Driver {
	d := &Driver{
		exec:       exec,
		store:      store,
		reporter:   progress.Nop{},
		partitions: DefaultPartitions,
		tracer:     otel.Tracer("gridwords/traversal"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// State returns the current lifecycle state.
func (d *Driver) State() State {
	return State(d.state.Load())
}

// Seed returns one unexpanded single-cell record per grid cell.
func Seed(g *model.Grid) []string {
	cells := g.Cells()
	out := make([]string, 0, len(cells))
	for _, c := range cells {
		out = append(out, model.Seed(g, c).String())
	}
	return out
}

// Decide applies the stop rules after pass i, first match wins. prev and cur
// are the paths counters of passes i-1 and i; cells is size*size.
func Decide(i int, prev, cur int64, maxIterations, cells int) (StopReason, bool) {
	switch {
	case cur == prev:
		return ReasonExhausted, true
	case i >= maxIterations:
		return ReasonIterationLimit, true
	case i >= cells:
		return ReasonStructuralLimit, true
	default:
		return "", false
	}
}

// Traverse expands every path of rc.Grid until a stop rule holds.
func (d *Driver) Traverse(ctx context.Context, rc *model.RunContext) (*Result, error) {
	if rc.Grid == nil {
		return nil, model.NewConfigurationError("grid", "no grid")
	}
	if rc.MaxIterations < 1 {
		return nil, model.NewConfigurationError("run.max_iterations", "must be at least 1, got %d", rc.MaxIterations)
	}
	if rc.FilterEnabled && rc.Filter == nil {
		return nil, model.NewConfigurationError("filter", "filter is enabled but no filter was loaded")
	}

	ctx = ctxlog.With(ctx, "run", rc.RunID)
	logger := ctxlog.FromContext(ctx)
	defer d.state.Store(int32(StateStopped))

	ctx, span := d.tracer.Start(ctx, "traversal.Traverse",
		trace.WithAttributes(
			attribute.String("run_id", rc.RunID),
			attribute.Int("grid_size", rc.Grid.Size()),
			attribute.Int("max_iterations", rc.MaxIterations),
			attribute.Bool("filter_enabled", rc.Pruning()),
		),
	)
	defer span.End()

	d.state.Store(int32(StateSeeding))
	seeds := Seed(rc.Grid)
	if err := d.store.Put(ctx, 0, shuffle.Split(seeds, d.partitions)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "seeding failed")
		return nil, fmt.Errorf("failed to stage seed records: %w", err)
	}
	logger.Info("Traversal seeded.", "seeds", len(seeds), "partitions", d.partitions)

	d.state.Store(int32(StateIterating))
	eng := engine.New(rc)
	cells := rc.Grid.Size() * rc.Grid.Size()
	prev := int64(len(seeds))
	result := &Result{}

	for i := 1; ; i++ {
		if err := ctx.Err(); err != nil {
			span.SetStatus(codes.Error, "cancelled")
			return nil, fmt.Errorf("%w before iteration %d: %w", ErrCancelled, i, err)
		}

		stats, err := d.pass(ctx, eng, i)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "pass failed")
			return nil, err
		}
		result.Passes = append(result.Passes, stats)
		d.reporter.Iteration(ctx, progress.Event{
			RunID:     rc.RunID,
			Iteration: i,
			Paths:     stats.Paths,
			Pruned:    stats.Pruned,
			Malformed: stats.Malformed,
			Attempts:  stats.Attempts,
			Duration:  stats.Duration,
		})

		reason, stop := Decide(i, prev, stats.Paths, rc.MaxIterations, cells)
		prev = stats.Paths
		if !stop {
			continue
		}

		final, err := d.store.Get(ctx, i)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to read final iteration: %w", err)
		}
		result.Iterations = i
		result.Reason = reason
		result.Final = final

		span.SetAttributes(attribute.Int("iterations", i), attribute.String("reason", string(reason)))
		logger.Info("Traversal stopped.", "iterations", i, "reason", reason, "records", result.Records())
		return result, nil
	}
}

// pass runs iteration i and commits its output to the store.
func (d *Driver) pass(ctx context.Context, eng *engine.Engine, i int) (PassStats, error) {
	ctx, span := d.tracer.Start(ctx, "traversal.Pass", trace.WithAttributes(attribute.Int("iteration", i)))
	defer span.End()
	start := time.Now()

	in, err := d.store.Get(ctx, i-1)
	if err != nil {
		span.RecordError(err)
		return PassStats{}, fmt.Errorf("iteration %d: failed to read input: %w", i, err)
	}

	res, err := d.exec.Run(ctx, fmt.Sprintf("iteration-%d", i), in, eng.Transform)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "executor failed")
		return PassStats{}, fmt.Errorf("iteration %d: %w", i, err)
	}

	out := shuffle.Regroup(res.Partitions, d.partitions)
	if err := d.store.Put(ctx, i, out); err != nil {
		span.RecordError(err)
		return PassStats{}, fmt.Errorf("iteration %d: failed to stage output: %w", i, err)
	}
	if err := d.store.Drop(ctx, i-1); err != nil {
		ctxlog.FromContext(ctx).Warn("Failed to drop previous iteration.", "iteration", i-1, "error", err)
	}

	stats := PassStats{
		Iteration: i,
		Paths:     res.Counters.Get(engine.CounterPaths),
		Pruned:    res.Counters.Get(engine.CounterPruned),
		Malformed: res.Counters.Get(engine.CounterMalformed),
		Records:   res.Records(),
		Attempts:  res.Attempts,
		Duration:  time.Since(start),
	}
	span.SetAttributes(
		attribute.Int64("paths", stats.Paths),
		attribute.Int64("pruned", stats.Pruned),
		attribute.Int("attempts", stats.Attempts),
	)
	return stats, nil
}
