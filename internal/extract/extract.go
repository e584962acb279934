// Package extract selects dictionary words from the final traversal records.
package extract

import (
	"context"
	"sort"

	"github.com/specialistvlad/gridwords/internal/ctxlog"
	"github.com/specialistvlad/gridwords/internal/executor"
	"github.com/specialistvlad/gridwords/internal/model"
)

// Counter names reported by Transform.
const (
	CounterAccepted  = "accepted"
	CounterMalformed = "malformed"
)

// Extractor keeps records whose key is a long enough dictionary word.
type Extractor struct {
	rc *model.RunContext
}

// New creates an extractor bound to rc.
func New(rc *model.RunContext) *Extractor {
	return &Extractor{rc: rc}
}

// Accept reports whether key qualifies as a word. Length is counted in
// letters, so the digraph qu contributes two.
func (x *Extractor) Accept(key string) bool {
	return len(key) >= x.rc.MinWordLength && x.rc.Dictionary.Contains(key)
}

// Transform has the executor.TransformFunc signature. A word reached through
// several paths is emitted once per path.
func (x *Extractor) Transform(ctx context.Context, in executor.Partition) (executor.Partition, executor.Counters, error) {
	logger := ctxlog.FromContext(ctx)
	counters := executor.Counters{}
	var out executor.Partition

	for _, line := range in {
		rec, err := model.ParseRecord(line)
		if err == nil {
			err = rec.Validate(x.rc.Grid)
		}
		if err != nil {
			counters.Add(CounterMalformed, 1)
			logger.Warn("Dropping malformed record.", "error", err)
			continue
		}
		if x.Accept(rec.Key) {
			out = append(out, rec.String())
			counters.Add(CounterAccepted, 1)
		}
	}
	return out, counters, nil
}

// Result is the outcome of an extraction pass.
type Result struct {
	// Matches holds every accepted record, sorted.
	Matches   []string
	Accepted  int64
	Malformed int64
}

// Words returns the distinct accepted words in sorted order.
func (r *Result) Words() []string {
	var words []string
	for _, line := range r.Matches {
		rec, err := model.ParseRecord(line)
		if err != nil {
			continue
		}
		if n := len(words); n == 0 || words[n-1] != rec.Key {
			words = append(words, rec.Key)
		}
	}
	return words
}

// Run performs one extraction pass over parts with exec.
func Run(ctx context.Context, exec executor.Executor, rc *model.RunContext, parts []executor.Partition) (*Result, error) {
	if rc.Dictionary == nil {
		return nil, model.NewConfigurationError("dictionary", "no dictionary")
	}

	res, err := exec.Run(ctx, "extract", parts, New(rc).Transform)
	if err != nil {
		return nil, err
	}

	matches := make([]string, 0, res.Records())
	for _, p := range res.Partitions {
		matches = append(matches, p...)
	}
	sort.Strings(matches)

	ctxlog.FromContext(ctx).Info("Extraction finished.",
		"accepted", res.Counters.Get(CounterAccepted),
		"malformed", res.Counters.Get(CounterMalformed),
	)
	return &Result{
		Matches:   matches,
		Accepted:  res.Counters.Get(CounterAccepted),
		Malformed: res.Counters.Get(CounterMalformed),
	}, nil
}
