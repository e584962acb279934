package app

import (
	"context"
	"math"
	"math/rand/v2"
	"os"

	"github.com/specialistvlad/gridwords/internal/ctxlog"
	"github.com/specialistvlad/gridwords/internal/dictionary"
	"github.com/specialistvlad/gridwords/internal/filter"
	"github.com/specialistvlad/gridwords/internal/model"
)

// buildRunContext loads the grid, dictionary and filter named by the run file.
func (a *App) buildRunContext(ctx context.Context, runID string) (*model.RunContext, error) {
	logger := ctxlog.FromContext(ctx)

	grid, err := a.loadGrid(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("Grid ready.", "size", grid.Size())
	logger.Debug("Grid layout.", "grid", grid.String())

	dict, err := dictionary.LoadFile(ctx, a.config.Dictionary.Path)
	if err != nil {
		return nil, &model.ConfigurationError{Field: "dictionary.path", Message: "failed to load dictionary", Err: err}
	}
	if dict.Len() == 0 {
		logger.Warn("Dictionary has no usable words.", "path", a.config.Dictionary.Path, "skipped", dict.Skipped())
	} else {
		logger.Info("Dictionary loaded.", "words", dict.Len(), "skipped", dict.Skipped())
	}

	rc := &model.RunContext{
		RunID:         runID,
		Grid:          grid,
		Dictionary:    dict,
		FilterEnabled: a.config.Run.FilterEnabled,
		MinWordLength: a.config.Run.MinWordLength,
		MaxIterations: a.config.Run.MaxIterations,
	}

	if rc.FilterEnabled {
		f, err := filter.Load(a.config.Filter.Path)
		if err != nil {
			return nil, &model.ConfigurationError{Field: "filter.path", Message: "failed to load filter", Err: err}
		}
		rc.Filter = f
		logger.Info("Prefix filter loaded.", "bits", f.Bits(), "hashes", f.Hashes())
	}

	if err := rc.Validate(); err != nil {
		return nil, err
	}
	return rc, nil
}

// loadGrid takes the rows from the run file, or reads a grid file, or rolls
// the configured dice.
func (a *App) loadGrid(ctx context.Context) (*model.Grid, error) {
	cfg := a.config.Grid

	switch {
	case len(cfg.Rows) > 0:
		return model.NewGrid(cfg.Rows)

	case cfg.Path != "":
		text, err := os.ReadFile(cfg.Path)
		if err != nil {
			return nil, &model.ConfigurationError{Field: "grid.path", Message: "failed to read grid file", Err: err}
		}
		return model.DeserializeGrid(string(text))

	default:
		var rng *rand.Rand
		if cfg.Seed != nil {
			rng = rand.New(rand.NewPCG(*cfg.Seed, *cfg.Seed))
		} else {
			rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		}

		faces, err := model.DiceFaces(cfg.Dice, cfg.Size, rng)
		if err != nil {
			return nil, err
		}
		size := cfg.Size
		if size == 0 {
			size = int(math.Sqrt(float64(len(faces))))
		}
		ctxlog.FromContext(ctx).Debug("Rolling dice.", "dice", cfg.Dice, "size", size, "seeded", cfg.Seed != nil)
		return model.Generate(faces, size, rng)
	}
}
