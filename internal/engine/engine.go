package engine

import (
	"context"
	"log/slog"

	"github.com/specialistvlad/gridwords/internal/ctxlog"
	"github.com/specialistvlad/gridwords/internal/executor"
	"github.com/specialistvlad/gridwords/internal/model"
)

// Counter names reported by Transform.
const (
	// CounterPaths counts every emitted record, i.e. the paths known after
	// the pass. It stops growing once no pass yields a new child.
	CounterPaths = "paths"

	// CounterPruned counts children rejected by the prefix filter.
	CounterPruned = "pruned"

	// CounterMalformed counts input lines that were dropped.
	CounterMalformed = "malformed"
)

// Engine expands records against one run's grid and filter.
type Engine struct {
	rc *model.RunContext
}

// New creates an engine bound to rc.
func New(rc *model.RunContext) *Engine {
	return &Engine{rc: rc}
}

// Expand applies the expansion rule to rec and hands every output record to
// emit. It returns the number of children the filter rejected.
func (e *Engine) Expand(rec model.Record, emit func(model.Record)) int {
	if rec.State.Expanded() {
		emit(rec)
		return 0
	}

	emit(model.Record{Key: rec.Key, State: rec.State.Commit()})

	grid := e.rc.Grid
	pruning := e.rc.Pruning()
	pruned := 0
	for _, next := range grid.Neighbors(rec.State.Last()) {
		if rec.State.Visited(next) {
			continue
		}
		candidate := rec.Key + grid.TokenAt(next)
		if pruning && !e.rc.Filter.MightContain([]byte(candidate)) {
			pruned++
			continue
		}
		emit(model.Record{Key: candidate, State: rec.State.Extend(next)})
	}
	return pruned
}

// Transform runs Expand over every line of a partition. It has the
// executor.TransformFunc signature.
func (e *Engine) Transform(ctx context.Context, in executor.Partition) (executor.Partition, executor.Counters, error) {
	logger := ctxlog.FromContext(ctx)
	debug := logger.Enabled(ctx, slog.LevelDebug)

	counters := executor.Counters{}
	out := make(executor.Partition, 0, len(in)*2)
	emit := func(r model.Record) {
		out = append(out, r.String())
	}

	for _, line := range in {
		rec, err := model.ParseRecord(line)
		if err == nil {
			err = rec.Validate(e.rc.Grid)
		}
		if err != nil {
			counters.Add(CounterMalformed, 1)
			logger.Warn("Dropping malformed record.", "error", err)
			continue
		}

		before := len(out)
		pruned := e.Expand(rec, emit)
		counters.Add(CounterPaths, int64(len(out)-before))
		if pruned > 0 {
			counters.Add(CounterPruned, int64(pruned))
			if debug {
				logger.Debug("Pruned candidates after prefix test.", "key", rec.Key, "pruned", pruned)
			}
		}
	}

	return out, counters, nil
}
