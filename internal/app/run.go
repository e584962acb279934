package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/specialistvlad/gridwords/internal/config"
	"github.com/specialistvlad/gridwords/internal/ctxlog"
	"github.com/specialistvlad/gridwords/internal/extract"
	"github.com/specialistvlad/gridwords/internal/filestore"
	"github.com/specialistvlad/gridwords/internal/inmemorystore"
	"github.com/specialistvlad/gridwords/internal/localexecutor"
	"github.com/specialistvlad/gridwords/internal/progress"
	"github.com/specialistvlad/gridwords/internal/recordstore"
	"github.com/specialistvlad/gridwords/internal/traversal"
)

// Report summarises a finished run.
type Report struct {
	RunID      string
	GridSize   int
	Iterations int
	Reason     traversal.StopReason
	Passes     []traversal.PassStats
	Records    int
	Accepted   int64
	Malformed  int64
	Words      []string
	Matches    []string
	Duration   time.Duration
}

// Run executes one traversal and extraction as described by the run file and
// writes the accepted records to the configured output.
func (a *App) Run(ctx context.Context) error {
	start := time.Now()
	runID := uuid.NewString()
	logger := a.logger.With("run", runID)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("App.Run method started.")

	if a.appConfig.HealthcheckPort > 0 {
		if err := a.startHealthcheckServer(a.appConfig.HealthcheckPort); err != nil {
			return err
		}
		defer a.closeHealthcheckServer(context.WithoutCancel(ctx))
	}

	rc, err := a.buildRunContext(ctx, runID)
	if err != nil {
		return err
	}

	store, err := a.newStore(runID)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("Failed to release record store.", "error", err)
		}
	}()

	reporter := progress.Multi{progress.LogReporter{}, a.metrics}
	if p := a.config.Progress; p != nil {
		if sock := a.dialProgress(ctx, p); sock != nil {
			defer sock.Close()
			reporter = append(reporter, sock)
		}
	}

	exec := localexecutor.New(a.appConfig.WorkerCount, a.config.Run.Retries)
	driver := traversal.New(exec, store,
		traversal.WithReporter(reporter),
		traversal.WithPartitions(a.config.Run.Partitions),
	)

	logger.Info("🚀 Starting traversal...", "grid_size", rc.Grid.Size(), "max_iterations", rc.MaxIterations, "filter", rc.Pruning())
	tr, err := driver.Traverse(ctx, rc)
	if err != nil {
		return fmt.Errorf("traversal failed: %w", err)
	}

	words, err := extract.Run(ctx, exec, rc, tr.Final)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	if err := a.writeOutput(words.Matches); err != nil {
		return err
	}

	a.report = &Report{
		RunID:      runID,
		GridSize:   rc.Grid.Size(),
		Iterations: tr.Iterations,
		Reason:     tr.Reason,
		Passes:     tr.Passes,
		Records:    tr.Records(),
		Accepted:   words.Accepted,
		Malformed:  words.Malformed,
		Words:      words.Words(),
		Matches:    words.Matches,
		Duration:   time.Since(start),
	}
	reporter.Finished(ctx, progress.Summary{
		RunID:      runID,
		Iterations: tr.Iterations,
		Reason:     string(tr.Reason),
		Records:    tr.Records(),
		Accepted:   words.Accepted,
		Words:      len(a.report.Words),
		Duration:   a.report.Duration,
	})

	logger.Info("🏁 Run finished.")
	return nil
}

func (a *App) newStore(runID string) (recordstore.Store, error) {
	switch a.config.Store.Kind {
	case config.StoreFile:
		return filestore.New(a.config.Store.Dir, runID, filestore.WithKeep(a.config.Store.Keep))
	default:
		return inmemorystore.New(), nil
	}
}

// dialProgress connects the progress stream. The run goes on without it if
// the server cannot be reached.
func (a *App) dialProgress(ctx context.Context, p *config.Progress) *progress.SocketReporter {
	timeout, err := time.ParseDuration(p.Timeout)
	if p.Timeout != "" && err != nil {
		ctxlog.FromContext(ctx).Warn("Failed to parse progress timeout, using default.", "timeout", p.Timeout, "error", err)
	}
	sock, err := progress.Dial(ctx, progress.SocketOptions{
		URL:                p.URL,
		Namespace:          p.Namespace,
		InsecureSkipVerify: p.InsecureSkipVerify,
		Timeout:            timeout,
	})
	if err != nil {
		ctxlog.FromContext(ctx).Warn("Progress stream unavailable, continuing without it.", "url", p.URL, "error", err)
		return nil
	}
	return sock
}

// writeOutput writes one accepted record per line to the output file, or to
// the app's writer when no file is set.
func (a *App) writeOutput(lines []string) error {
	path := a.config.Output.Path
	if path == "" {
		return writeLines(a.outW, lines)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := writeLines(f, lines); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}

func writeLines(w io.Writer, lines []string) error {
	bw := bufio.NewWriter(w)
	for _, line := range lines {
		if _, err := fmt.Fprintln(bw, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
