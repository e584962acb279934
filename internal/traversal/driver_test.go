package traversal

import (
	"context"
	"errors"
	"testing"

	"github.com/specialistvlad/gridwords/internal/executor"
	"github.com/specialistvlad/gridwords/internal/inmemorystore"
	"github.com/specialistvlad/gridwords/internal/localexecutor"
	"github.com/specialistvlad/gridwords/internal/model"
	"github.com/specialistvlad/gridwords/internal/progress"
	"github.com/specialistvlad/gridwords/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type prefixSet map[string]bool

func (p prefixSet) MightContain(b []byte) bool { return p[string(b)] }

func prefixes(words ...string) prefixSet {
	p := prefixSet{}
	for _, w := range words {
		for i := 1; i <= len(w); i++ {
			p[w[:i]] = true
		}
	}
	return p
}

type recorder struct {
	progress.Nop
	events []progress.Event
}

func (r *recorder) Iteration(_ context.Context, ev progress.Event) { r.events = append(r.events, ev) }

func newDriver(opts ...Option) *Driver {
	return New(localexecutor.New(2, 0), inmemorystore.New(), opts...)
}

func pathsPerPass(res *Result) []int64 {
	out := make([]int64, 0, len(res.Passes))
	for _, p := range res.Passes {
		out = append(out, p.Paths)
	}
	return out
}

func TestTraverse_TwoByTwoIsExhausted(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	d := newDriver(WithReporter(rec), WithPartitions(3))
	rc := &model.RunContext{RunID: "t", Grid: testutil.Grid(t, "a b", "c d"), MaxIterations: 15}

	res, err := d.Traverse(context.Background(), rc)
	require.NoError(t, err)

	// 4 + 12 + 24 + 24 simple paths on a fully connected 2x2 board.
	assert.Equal(t, []int64{16, 40, 64, 64}, pathsPerPass(res))
	assert.Equal(t, ReasonExhausted, res.Reason)
	assert.Equal(t, 4, res.Iterations)
	assert.Equal(t, 64, res.Records())
	assert.Len(t, res.Final, 3)
	assert.Len(t, rec.events, 4)
	assert.Equal(t, StateStopped, d.State())

	for _, part := range res.Final {
		for _, line := range part {
			r, err := model.ParseRecord(line)
			require.NoError(t, err)
			assert.True(t, r.State.Expanded(), "final record %q is not expanded", line)
		}
	}
}

func TestTraverse_IterationLimit(t *testing.T) {
	t.Parallel()

	rc := &model.RunContext{Grid: testutil.Grid(t, "a b", "c d"), MaxIterations: 2}
	res, err := newDriver().Traverse(context.Background(), rc)
	require.NoError(t, err)

	assert.Equal(t, ReasonIterationLimit, res.Reason)
	assert.Equal(t, 2, res.Iterations)
	assert.Equal(t, 40, res.Records())
}

func TestTraverse_SingleCell(t *testing.T) {
	t.Parallel()

	rc := &model.RunContext{Grid: testutil.Grid(t, "qu"), MaxIterations: 15}
	res, err := newDriver().Traverse(context.Background(), rc)
	require.NoError(t, err)

	assert.Equal(t, ReasonExhausted, res.Reason)
	assert.Equal(t, 1, res.Iterations)
	assert.Equal(t, []executor.Partition{{"qu [[0,0]] true"}}, nonEmpty(res.Final))
}

func TestTraverse_FilterPrunesEarly(t *testing.T) {
	t.Parallel()

	rc := &model.RunContext{
		Grid:          testutil.Grid(t, "a b", "c d"),
		Filter:        prefixes("abd"),
		FilterEnabled: true,
		MaxIterations: 15,
	}
	res, err := newDriver().Traverse(context.Background(), rc)
	require.NoError(t, err)

	assert.Equal(t, []int64{5, 6, 6}, pathsPerPass(res))
	assert.Equal(t, int64(11), res.Passes[0].Pruned)
	assert.Equal(t, ReasonExhausted, res.Reason)
}

func TestTraverse_TerminationBound(t *testing.T) {
	t.Parallel()

	boards := [][]string{
		{"a"},
		{"a b", "c d"},
		{"a b c", "d e f", "g h i"},
	}
	for _, rows := range boards {
		g := testutil.Grid(t, rows...)
		for _, limit := range []int{1, 2, 5, 15} {
			res, err := newDriver().Traverse(context.Background(), &model.RunContext{Grid: g, MaxIterations: limit})
			require.NoError(t, err)
			bound := min(limit, g.Size()*g.Size())
			assert.LessOrEqual(t, res.Iterations, bound, "size %d limit %d", g.Size(), limit)
			assert.Len(t, res.Passes, res.Iterations)
		}
	}
}

// growingExecutor passes records through and reports ever more paths, so
// only the iteration or structural limits can end the run.
type growingExecutor struct {
	calls int
	fail  error
	first []executor.Partition
}

func (e *growingExecutor) Run(_ context.Context, _ string, in []executor.Partition, _ executor.TransformFunc) (*executor.Result, error) {
	e.calls++
	if e.calls == 1 {
		e.first = in
	}
	if e.fail != nil {
		return nil, e.fail
	}
	return &executor.Result{
		Partitions: in,
		Counters:   executor.Counters{"paths": int64(e.calls * 100)},
		Attempts:   len(in),
	}, nil
}

func TestTraverse_StructuralLimit(t *testing.T) {
	t.Parallel()

	exec := &growingExecutor{}
	d := New(exec, inmemorystore.New())
	res, err := d.Traverse(context.Background(), &model.RunContext{Grid: testutil.Grid(t, "a b", "c d"), MaxIterations: 15})
	require.NoError(t, err)

	assert.Equal(t, ReasonStructuralLimit, res.Reason)
	assert.Equal(t, 4, res.Iterations)
	assert.Equal(t, 4, exec.calls)
}

func TestTraverse_SeedsAreSplitEvenly(t *testing.T) {
	t.Parallel()

	exec := &growingExecutor{}
	d := New(exec, inmemorystore.New(), WithPartitions(2))
	_, err := d.Traverse(context.Background(), &model.RunContext{Grid: testutil.Grid(t, "a b c", "d e f", "g h i"), MaxIterations: 1})
	require.NoError(t, err)

	require.Len(t, exec.first, 2)
	assert.Len(t, exec.first[0], 5)
	assert.Len(t, exec.first[1], 4)
	assert.Equal(t, "a [[0,0]] false", exec.first[0][0])
	assert.Equal(t, "i [[2,2]] false", exec.first[1][3])
}

func TestTraverse_PartitionFailureIsFatal(t *testing.T) {
	t.Parallel()

	cause := errors.New("worker lost")
	exec := &growingExecutor{fail: &model.PartitionExecutionError{Pass: "iteration-1", Partition: 2, Attempts: 3, Err: cause}}
	d := New(exec, inmemorystore.New())

	res, err := d.Traverse(context.Background(), &model.RunContext{Grid: testutil.Grid(t, "a b", "c d"), MaxIterations: 15})
	require.Error(t, err)
	assert.Nil(t, res)

	var partErr *model.PartitionExecutionError
	require.ErrorAs(t, err, &partErr)
	assert.Equal(t, 2, partErr.Partition)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, StateStopped, d.State())
}

type cancelAfter struct {
	progress.Nop
	n      int
	cancel context.CancelFunc
}

func (c *cancelAfter) Iteration(_ context.Context, ev progress.Event) {
	if ev.Iteration == c.n {
		c.cancel()
	}
}

func TestTraverse_CancelledBetweenPasses(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := newDriver(WithReporter(&cancelAfter{n: 1, cancel: cancel}))
	_, err := d.Traverse(ctx, &model.RunContext{Grid: testutil.Grid(t, "a b", "c d"), MaxIterations: 15})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCancelled)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTraverse_RejectsBadContext(t *testing.T) {
	t.Parallel()

	_, err := newDriver().Traverse(context.Background(), &model.RunContext{MaxIterations: 3})
	require.ErrorIs(t, err, model.ErrConfiguration)

	_, err = newDriver().Traverse(context.Background(), &model.RunContext{Grid: testutil.Grid(t, "a"), MaxIterations: 0})
	require.ErrorIs(t, err, model.ErrConfiguration)

	_, err = newDriver().Traverse(context.Background(), &model.RunContext{Grid: testutil.Grid(t, "a"), MaxIterations: 1, FilterEnabled: true})
	require.ErrorIs(t, err, model.ErrConfiguration)
}

func TestDecide(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		i          int
		prev, cur  int64
		max, cells int
		want       StopReason
		stop       bool
	}{
		{name: "growing", i: 2, prev: 10, cur: 20, max: 15, cells: 16},
		{name: "unchanged", i: 2, prev: 20, cur: 20, max: 15, cells: 16, want: ReasonExhausted, stop: true},
		{name: "limit", i: 15, prev: 10, cur: 20, max: 15, cells: 16, want: ReasonIterationLimit, stop: true},
		{name: "structural", i: 16, prev: 10, cur: 20, max: 40, cells: 16, want: ReasonStructuralLimit, stop: true},
		{name: "exhausted wins", i: 16, prev: 20, cur: 20, max: 16, cells: 16, want: ReasonExhausted, stop: true},
		{name: "limit before structural", i: 4, prev: 1, cur: 2, max: 4, cells: 4, want: ReasonIterationLimit, stop: true},
	}

	for _, tc := range testCases {
		got, stop := Decide(tc.i, tc.prev, tc.cur, tc.max, tc.cells)
		assert.Equal(t, tc.stop, stop, tc.name)
		assert.Equal(t, tc.want, got, tc.name)
	}
}

func nonEmpty(parts []executor.Partition) []executor.Partition {
	var out []executor.Partition
	for _, p := range parts {
		if len(p) > 0 {
			out = append(out, p)
		}
	}
	return out
}
