// This file contains the logic for translating the decoded HCL blocks into
// the format-agnostic configuration model defined in the config package.

package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/gridwords/internal/config"
	"github.com/specialistvlad/gridwords/internal/ctxlog"
)

// translate overlays the decoded blocks on the defaults.
func (l *Loader) translate(ctx context.Context, root *fileRoot, evalCtx *hcl.EvalContext) (*config.Model, error) {
	m := config.Default()

	if r := root.Run; r != nil {
		setIfPresent(&m.Run.MinWordLength, r.MinWordLength)
		setIfPresent(&m.Run.MaxIterations, r.MaxIterations)
		setIfPresent(&m.Run.FilterEnabled, r.FilterEnabled)
		setIfPresent(&m.Run.Partitions, r.Partitions)
		setIfPresent(&m.Run.Retries, r.Retries)
	}

	if g := root.Grid; g != nil {
		if err := translateGrid(ctx, g, evalCtx, &m.Grid); err != nil {
			return nil, err
		}
	}

	if d := root.Dictionary; d != nil {
		m.Dictionary.Path = d.Path
	}
	if f := root.Filter; f != nil {
		m.Filter.Path = f.Path
	}

	if s := root.Store; s != nil {
		setIfPresent(&m.Store.Kind, s.Kind)
		setIfPresent(&m.Store.Dir, s.Dir)
		setIfPresent(&m.Store.Keep, s.Keep)
	}
	if o := root.Output; o != nil {
		setIfPresent(&m.Output.Path, o.Path)
	}

	if p := root.Progress; p != nil {
		m.Progress = &config.Progress{URL: p.URL, Namespace: "/"}
		setIfPresent(&m.Progress.Namespace, p.Namespace)
		setIfPresent(&m.Progress.InsecureSkipVerify, p.InsecureSkipVerify)
		setIfPresent(&m.Progress.Timeout, p.Timeout)
	}

	return m, nil
}

// translateGrid fills the grid section.
func translateGrid(ctx context.Context, g *GridBlock, evalCtx *hcl.EvalContext, out *config.Grid) error {
	logger := ctxlog.FromContext(ctx)

	setIfPresent(&out.Dice, g.Dice)
	setIfPresent(&out.Size, g.Size)
	setIfPresent(&out.Path, g.Path)

	if isExprDefined(ctx, g.Seed, "seed") {
		seed, err := decodeSeed(g.Seed, evalCtx)
		if err != nil {
			return fmt.Errorf("grid.seed: %w", err)
		}
		out.Seed = &seed
	}

	if isExprDefined(ctx, g.Rows, "rows") {
		rows, err := decodeRows(g.Rows, evalCtx)
		if err != nil {
			return fmt.Errorf("grid.rows: %w", err)
		}
		logger.Debug("Grid rows given in the run file.", "rows", len(rows))
		out.Rows = rows
	}
	return nil
}

func setIfPresent[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
