// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

// Membership answers approximate prefix queries. It must never return false
// for a string that was inserted.
type Membership interface {
	MightContain(b []byte) bool
}

// WordSet answers exact dictionary queries.
type WordSet interface {
	Contains(word string) bool
}

// Defaults for the run thresholds.
const (
	DefaultMinWordLength = 3
	DefaultMaxIterations = 15
)

// RunContext is everything a traversal and the extraction stage read. It is
// built once per run and never modified afterwards.
type RunContext struct {
	RunID         string
	Grid          *Grid
	Filter        Membership
	FilterEnabled bool
	Dictionary    WordSet
	MinWordLength int
	MaxIterations int
}

// Pruning reports whether candidates are checked against the filter.
func (rc *RunContext) Pruning() bool {
	return rc.FilterEnabled && rc.Filter != nil
}

// Validate checks that the context can drive a run.
func (rc *RunContext) Validate() error {
	if rc.Grid == nil {
		return NewConfigurationError("grid", "no grid")
	}
	if rc.FilterEnabled && rc.Filter == nil {
		return NewConfigurationError("filter", "filter is enabled but no filter was loaded")
	}
	if rc.Dictionary == nil {
		return NewConfigurationError("dictionary", "no dictionary")
	}
	if rc.MinWordLength < 1 {
		return NewConfigurationError("run.min_word_length", "must be at least 1, got %d", rc.MinWordLength)
	}
	if rc.MaxIterations < 1 {
		return NewConfigurationError("run.max_iterations", "must be at least 1, got %d", rc.MaxIterations)
	}
	return nil
}
