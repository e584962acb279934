// Package localexecutor provides a concrete, in-process implementation of the
// executor.Executor interface.
package localexecutor

import (
	"context"
	"fmt"
	"time"

	"github.com/specialistvlad/gridwords/internal/ctxlog"
	"github.com/specialistvlad/gridwords/internal/executor"
	"github.com/specialistvlad/gridwords/internal/model"
	"golang.org/x/sync/errgroup"
)

// Defaults used when New is given non-positive values.
const (
	DefaultWorkers = 4
	DefaultRetries = 2
)

// Executor runs partitions on a bounded pool of goroutines.
type Executor struct {
	workers int
	retries int
	backoff time.Duration
}

// Option customises an Executor.
type Option func(*Executor)

// WithBackoff sets the pause between attempts of a failing partition.
func WithBackoff(d time.Duration) Option {
	return func(e *Executor) { e.backoff = d }
}

// New creates a local executor with the given worker count and number of
// retries per partition.
func New(workers, retries int, opts ...Option) executor.Executor {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if retries < 0 {
		retries = DefaultRetries
	}
	e := &Executor{workers: workers, retries: retries}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run implements executor.Executor.
func (e *Executor) Run(ctx context.Context, name string, in []executor.Partition, fn executor.TransformFunc) (*executor.Result, error) {
	logger := ctxlog.FromContext(ctx).With("pass", name)
	logger.Debug("Local executor starting pass.", "partitions", len(in), "workers", e.workers)

	outputs := make([]executor.Partition, len(in))
	counters := make([]executor.Counters, len(in))
	attempts := make([]int, len(in))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i, part := range in {
		g.Go(func() error {
			out, c, n, err := e.runPartition(gctx, name, i, part, fn)
			attempts[i] = n
			if err != nil {
				return err
			}
			outputs[i] = out
			counters[i] = c
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Pass failed.", "error", err)
		return nil, err
	}

	result := &executor.Result{Partitions: outputs, Counters: executor.Counters{}}
	for i := range in {
		result.Counters.Merge(counters[i])
		result.Attempts += attempts[i]
	}

	logger.Debug("Local executor finished pass.", "records", result.Records(), "attempts", result.Attempts)
	return result, nil
}

// runPartition attempts one partition until it succeeds or runs out of
// retries. Only the output of the successful attempt is returned.
func (e *Executor) runPartition(ctx context.Context, name string, index int, part executor.Partition, fn executor.TransformFunc) (executor.Partition, executor.Counters, int, error) {
	logger := ctxlog.FromContext(ctx).With("pass", name, "partition", index)

	var lastErr error
	attempt := 0
	for attempt <= e.retries {
		if err := ctx.Err(); err != nil {
			if lastErr == nil {
				lastErr = err
			}
			break
		}
		attempt++

		out, c, err := safeTransform(ctx, fn, part)
		if err == nil {
			if c == nil {
				c = executor.Counters{}
			}
			logger.Debug("Partition committed.", "attempt", attempt, "in", len(part), "out", len(out))
			return out, c, attempt, nil
		}

		lastErr = err
		logger.Warn("Partition attempt failed.", "attempt", attempt, "error", err)

		if e.backoff > 0 && attempt <= e.retries {
			select {
			case <-ctx.Done():
			case <-time.After(e.backoff):
			}
		}
	}

	return nil, nil, attempt, &model.PartitionExecutionError{
		Pass:      name,
		Partition: index,
		Attempts:  attempt,
		Err:       lastErr,
	}
}

// safeTransform calls fn and turns a panic into an error.
func safeTransform(ctx context.Context, fn executor.TransformFunc, part executor.Partition) (out executor.Partition, c executor.Counters, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, c = nil, nil
			err = fmt.Errorf("transform panicked: %v", r)
		}
	}()
	return fn(ctx, part)
}
