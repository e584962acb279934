// Package recordstore defines where the traversal stages the records of each
// iteration between passes.
//
// # Why Record Store Exists
//
// A pass reads the records of iteration i-1 and produces those of iteration
// i. Keeping that hand-off behind an interface lets the same driver run
// against process memory or against files on disk, which stand in for the
// distributed file system a cluster deployment would use.
//
// # Lifecycle
//
//  1. Created once per run.
//  2. Put is called with the seed records (iteration 0) and after every pass.
//  3. Get reads the input of the next pass.
//  4. Drop releases an iteration once its successor is committed.
//  5. Close releases whatever is left.
//
// Implementations must be safe for concurrent use. Put replaces a previous
// value for the same iteration, so a retried write never duplicates records.
package recordstore

import (
	"context"
	"errors"

	"github.com/specialistvlad/gridwords/internal/executor"
)

// ErrNotFound is returned by Get for an iteration that was never stored or
// has been dropped.
var ErrNotFound = errors.New("iteration not found")

// Store stages partitioned records by iteration number.
type Store interface {
	// Put stores the partitions of an iteration, replacing any earlier value.
	Put(ctx context.Context, iteration int, parts []executor.Partition) error

	// Get returns the partitions of an iteration in the order they were put.
	Get(ctx context.Context, iteration int) ([]executor.Partition, error)

	// Drop forgets an iteration. Dropping an unknown iteration is not an
	// error.
	Drop(ctx context.Context, iteration int) error

	// Close releases the store.
	Close() error
}
