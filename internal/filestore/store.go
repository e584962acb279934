// Package filestore implements recordstore.Store on the local file system.
//
// Each iteration is a directory of line files, one per partition:
//
//	<dir>/<runID>/iter-<n>/part-<k>
//
// A partition is written to a temporary name and renamed into place, so a
// reader never observes a half-written file. An iteration is complete once
// its _SUCCESS marker exists.
package filestore

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/specialistvlad/gridwords/internal/ctxlog"
	"github.com/specialistvlad/gridwords/internal/executor"
	"github.com/specialistvlad/gridwords/internal/fsutil"
	"github.com/specialistvlad/gridwords/internal/recordstore"
)

const (
	partPrefix    = "part-"
	successMarker = "_SUCCESS"
)

// Store keeps iterations as directories under a run directory.
type Store struct {
	root string
	keep bool

	mu sync.Mutex
}

// Option customises a Store.
type Option func(*Store)

// WithKeep leaves every iteration on disk, including after Close.
func WithKeep(keep bool) Option {
	return func(s *Store) { s.keep = keep }
}

// New creates the run directory <dir>/<runID>.
func New(dir, runID string, opts ...Option) (recordstore.Store, error) {
	if dir == "" {
		return nil, errors.New("filestore: no directory")
	}
	if runID == "" {
		return nil, errors.New("filestore: no run id")
	}
	s := &Store{root: filepath.Join(dir, runID)}
	for _, opt := range opts {
		opt(s)
	}
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create run directory: %w", err)
	}
	return s, nil
}

// Root returns the run directory.
func (s *Store) Root() string { return s.root }

func (s *Store) iterDir(iteration int) string {
	return filepath.Join(s.root, fmt.Sprintf("iter-%d", iteration))
}

// Put writes every partition of an iteration and then the success marker.
func (s *Store) Put(ctx context.Context, iteration int, parts []executor.Partition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := s.iterDir(iteration)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to clear iteration %d: %w", iteration, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create iteration %d: %w", iteration, err)
	}

	for k, part := range parts {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := filepath.Join(dir, fmt.Sprintf("%s%05d", partPrefix, k))
		if err := writeLines(name, part); err != nil {
			return fmt.Errorf("iteration %d partition %d: %w", iteration, k, err)
		}
	}

	if err := os.WriteFile(filepath.Join(dir, successMarker), nil, 0o644); err != nil {
		return fmt.Errorf("failed to mark iteration %d: %w", iteration, err)
	}
	ctxlog.FromContext(ctx).Debug("Iteration staged on disk.", "iteration", iteration, "dir", dir, "partitions", len(parts))
	return nil
}

// Get reads every partition of a complete iteration.
func (s *Store) Get(ctx context.Context, iteration int) ([]executor.Partition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := s.iterDir(iteration)
	if _, err := os.Stat(filepath.Join(dir, successMarker)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("iteration %d: %w", iteration, recordstore.ErrNotFound)
		}
		return nil, err
	}

	files, err := fsutil.FindFilesByPrefix(dir, partPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list iteration %d: %w", iteration, err)
	}

	parts := make([]executor.Partition, 0, len(files))
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		part, err := readLines(name)
		if err != nil {
			return nil, fmt.Errorf("iteration %d: %w", iteration, err)
		}
		parts = append(parts, part)
	}
	return parts, nil
}

// Drop removes an iteration's directory unless the store keeps everything.
func (s *Store) Drop(_ context.Context, iteration int) error {
	if s.keep {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return os.RemoveAll(s.iterDir(iteration))
}

// Close removes the run directory unless the store keeps everything.
func (s *Store) Close() error {
	if s.keep {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return os.RemoveAll(s.root)
}

func writeLines(name string, lines []string) error {
	tmp := name + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	for _, line := range lines {
		if _, err := w.WriteString(line); err != nil {
			f.Close()
			return err
		}
		if err := w.WriteByte('\n'); err != nil {
			f.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, name)
}

func readLines(name string) (executor.Partition, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	part := executor.Partition{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		part = append(part, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(name), err)
	}
	return part, nil
}
