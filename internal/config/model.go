package config

import (
	"net/url"
	"strings"

	"github.com/specialistvlad/gridwords/internal/model"
)

// Store kinds.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
)

// Defaults for values the run file may leave out.
const (
	DefaultPartitions = 4
	DefaultRetries    = 2
)

// Model is the unified, format-agnostic representation of one run.
type Model struct {
	Run        Run
	Grid       Grid
	Dictionary Dictionary
	Filter     Filter
	Store      Store
	Output     Output
	Progress   *Progress
}

// Run holds the traversal thresholds.
type Run struct {
	MinWordLength int
	MaxIterations int
	FilterEnabled bool
	Partitions    int
	Retries       int
}

// Grid says where the board comes from. Rows win over Path, and Path wins
// over rolling Dice.
type Grid struct {
	Dice string
	Size int
	Seed *uint64
	Rows [][]string
	Path string
}

// Dictionary points at the word list.
type Dictionary struct {
	Path string
}

// Filter points at a prefix filter built by filterbuild.
type Filter struct {
	Path string
}

// Store selects where iterations are staged.
type Store struct {
	Kind string
	Dir  string
	Keep bool
}

// Output selects where accepted words are written. An empty path means
// standard output.
type Output struct {
	Path string
}

// Progress configures the socket.io progress stream.
type Progress struct {
	URL                string
	Namespace          string
	InsecureSkipVerify bool
	Timeout            string
}

// Default returns a model holding every default value.
func Default() *Model {
	return &Model{
		Run: Run{
			MinWordLength: model.DefaultMinWordLength,
			MaxIterations: model.DefaultMaxIterations,
			FilterEnabled: true,
			Partitions:    DefaultPartitions,
			Retries:       DefaultRetries,
		},
		Grid:  Grid{Dice: model.DiceNew},
		Store: Store{Kind: StoreMemory},
	}
}

// Validate checks the model for values no run can use. Every failure is a
// *model.ConfigurationError.
func (m *Model) Validate() error {
	switch {
	case m.Run.MinWordLength < 1:
		return model.NewConfigurationError("run.min_word_length", "must be at least 1, got %d", m.Run.MinWordLength)
	case m.Run.MaxIterations < 1:
		return model.NewConfigurationError("run.max_iterations", "must be at least 1, got %d", m.Run.MaxIterations)
	case m.Run.Partitions < 1:
		return model.NewConfigurationError("run.partitions", "must be at least 1, got %d", m.Run.Partitions)
	case m.Run.Retries < 0:
		return model.NewConfigurationError("run.retries", "must not be negative, got %d", m.Run.Retries)
	}

	if m.Dictionary.Path == "" {
		return model.NewConfigurationError("dictionary.path", "a dictionary is required")
	}
	if m.Run.FilterEnabled && m.Filter.Path == "" {
		return model.NewConfigurationError("filter.path", "the filter is enabled but no filter file is set")
	}

	if len(m.Grid.Rows) == 0 && m.Grid.Path == "" {
		switch strings.ToLower(m.Grid.Dice) {
		case model.DiceNew, model.DiceOld, model.DiceBig, "":
		case model.DiceRandom:
			if m.Grid.Size < 1 || m.Grid.Size > model.MaxGridSize {
				return model.NewConfigurationError("grid.size", "random dice need a size between 1 and %d, got %d", model.MaxGridSize, m.Grid.Size)
			}
		default:
			return model.NewConfigurationError("grid.dice", "unknown dice set %q", m.Grid.Dice)
		}
	}
	if m.Grid.Size < 0 || m.Grid.Size > model.MaxGridSize {
		return model.NewConfigurationError("grid.size", "size %d is outside [0,%d]", m.Grid.Size, model.MaxGridSize)
	}

	switch m.Store.Kind {
	case StoreMemory:
	case StoreFile:
		if m.Store.Dir == "" {
			return model.NewConfigurationError("store.dir", "the file store needs a directory")
		}
	default:
		return model.NewConfigurationError("store.kind", "unknown store %q, want %q or %q", m.Store.Kind, StoreMemory, StoreFile)
	}

	if m.Progress != nil {
		u, err := url.Parse(m.Progress.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return model.NewConfigurationError("progress.url", "%q is not an absolute URL", m.Progress.URL)
		}
	}
	return nil
}
