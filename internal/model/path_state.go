// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

import (
	"fmt"
	"strconv"
	"strings"
)

// PathState is one walk across the grid: the visited cells in order and
// whether the walk has already been expanded by one more step.
//
// The cells slice is never modified after construction, so a PathState can
// be shared freely between goroutines.
type PathState struct {
	cells    []Cell
	expanded bool
}

// NewPathState returns an unexpanded path over the given cells.
func NewPathState(cells ...Cell) PathState {
	return PathState{cells: append([]Cell(nil), cells...)}
}

// Cells returns a copy of the visited cells.
func (p PathState) Cells() []Cell {
	return append([]Cell(nil), p.cells...)
}

// Len returns the number of visited cells.
func (p PathState) Len() int {
	return len(p.cells)
}

// Last returns the most recently visited cell.
func (p PathState) Last() Cell {
	return p.cells[len(p.cells)-1]
}

// Expanded reports whether the path's children have been generated.
func (p PathState) Expanded() bool {
	return p.expanded
}

// Visited reports whether c is already part of the path.
func (p PathState) Visited(c Cell) bool {
	for _, v := range p.cells {
		if v == c {
			return true
		}
	}
	return false
}

// Commit returns a copy of the path marked as expanded.
func (p PathState) Commit() PathState {
	return PathState{cells: p.cells, expanded: true}
}

// Extend returns a new unexpanded path with c appended.
func (p PathState) Extend(c Cell) PathState {
	cells := make([]Cell, len(p.cells), len(p.cells)+1)
	copy(cells, p.cells)
	return PathState{cells: append(cells, c)}
}

// Letters concatenates the tokens under the path's cells.
func (p PathState) Letters(g *Grid) string {
	var b strings.Builder
	for _, c := range p.cells {
		b.WriteString(g.TokenAt(c))
	}
	return b.String()
}

// Equal reports whether both paths visit the same cells and share the flag.
func (p PathState) Equal(other PathState) bool {
	if p.expanded != other.expanded || len(p.cells) != len(other.cells) {
		return false
	}
	for i := range p.cells {
		if p.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// String renders the path in its wire form, e.g. "[[0,0][1,1]] false".
func (p PathState) String() string {
	var b strings.Builder
	b.Grow(len(p.cells)*7 + 8)
	b.WriteByte('[')
	for _, c := range p.cells {
		b.WriteByte('[')
		b.WriteString(strconv.Itoa(int(c.Row)))
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(int(c.Col)))
		b.WriteByte(']')
	}
	b.WriteString("] ")
	b.WriteString(strconv.FormatBool(p.expanded))
	return b.String()
}

// ParsePathState parses the two wire fields of a path: the cell list and the
// expanded flag.
func ParsePathState(cellsField, flagField string) (PathState, error) {
	expanded, err := strconv.ParseBool(flagField)
	if err != nil {
		return PathState{}, fmt.Errorf("invalid expanded flag %q", flagField)
	}

	if len(cellsField) < 4 || !strings.HasPrefix(cellsField, "[[") || !strings.HasSuffix(cellsField, "]]") {
		return PathState{}, fmt.Errorf("invalid cell list %q", cellsField)
	}

	inner := cellsField[2 : len(cellsField)-2]
	parts := strings.Split(inner, "][")
	cells := make([]Cell, 0, len(parts))
	for _, part := range parts {
		rowStr, colStr, ok := strings.Cut(part, ",")
		if !ok {
			return PathState{}, fmt.Errorf("invalid cell %q", part)
		}
		row, err := strconv.ParseUint(rowStr, 10, 16)
		if err != nil {
			return PathState{}, fmt.Errorf("invalid row in cell %q: %w", part, err)
		}
		col, err := strconv.ParseUint(colStr, 10, 16)
		if err != nil {
			return PathState{}, fmt.Errorf("invalid column in cell %q: %w", part, err)
		}
		cell, err := NewCell(int(row), int(col))
		if err != nil {
			return PathState{}, err
		}
		cells = append(cells, cell)
	}
	return PathState{cells: cells, expanded: expanded}, nil
}
