// Package inmemorystore provides an ephemeral, thread-safe, in-memory
// implementation of the recordstore.Store interface.
//
// Partitions are kept by reference. Callers must not modify a partition after
// handing it to Put or receiving it from Get.
package inmemorystore

import (
	"context"
	"fmt"
	"sync"

	"github.com/specialistvlad/gridwords/internal/executor"
	"github.com/specialistvlad/gridwords/internal/recordstore"
)

// Store is an in-memory implementation of recordstore.Store. Each iteration
// is an independent key of a sync.Map.
type Store struct {
	iterations sync.Map // Key: int, Value: []executor.Partition
}

// New creates a new, empty in-memory record store.
func New() recordstore.Store {
	return &Store{}
}

// Put stores the partitions of an iteration.
func (s *Store) Put(ctx context.Context, iteration int, parts []executor.Partition) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.iterations.Store(iteration, parts)
	return nil
}

// Get retrieves the partitions of an iteration.
func (s *Store) Get(ctx context.Context, iteration int) ([]executor.Partition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	parts, ok := s.iterations.Load(iteration)
	if !ok {
		return nil, fmt.Errorf("iteration %d: %w", iteration, recordstore.ErrNotFound)
	}
	return parts.([]executor.Partition), nil
}

// Drop removes an iteration.
func (s *Store) Drop(_ context.Context, iteration int) error {
	s.iterations.Delete(iteration)
	return nil
}

// Close removes every iteration.
func (s *Store) Close() error {
	s.iterations.Clear()
	return nil
}
