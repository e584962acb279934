// Package executor defines the contract between the traversal and whatever
// runs a pass over partitioned records.
//
// # Why Executor Exists
//
// A word search run is a sequence of passes. Each pass applies one pure
// transformation to every partition of the current records and produces the
// partitions of the next records. Nothing in the traversal cares whether the
// partitions are processed by goroutines, processes or remote workers, so the
// traversal only depends on this interface.
//
// # Guarantees Required From Implementations
//
//   - **Barrier:** Run returns only after every partition has finished.
//   - **Retry:** A failing partition may be attempted again. Because the
//     transformation is pure, a retry produces the same output.
//   - **Exactly-once output:** The output and counters of a partition are
//     kept from exactly one successful attempt; failed attempts leave no trace.
//   - **Fatal failure:** A partition that keeps failing makes Run return a
//     *model.PartitionExecutionError and no output at all.
//
// See internal/localexecutor for the in-process implementation.
package executor

import "context"

// Partition is an independent slice of wire-form records.
type Partition []string

// TransformFunc turns one input partition into one output partition and
// reports the counters it accumulated. It must not keep state between calls.
type TransformFunc func(ctx context.Context, in Partition) (Partition, Counters, error)

// Result is the committed output of a pass.
type Result struct {
	// Partitions holds one output partition per input partition, in order.
	Partitions []Partition

	// Counters is the sum of the counters of every committed partition.
	Counters Counters

	// Attempts is the total number of partition attempts, retries included.
	Attempts int
}

// Records returns the total number of output records.
func (r *Result) Records() int {
	n := 0
	for _, p := range r.Partitions {
		n += len(p)
	}
	return n
}

// Executor runs a transformation over a set of partitions.
type Executor interface {
	// Run applies fn to every partition of in and blocks until all of them
	// are committed or one of them fails for good. name identifies the pass
	// in logs and errors.
	Run(ctx context.Context, name string, in []Partition, fn TransformFunc) (*Result, error)
}
