// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Grid, the board every path is traced on.
//
// A Grid is immutable after construction. It can be rendered to and parsed
// from a small line-oriented text form so that it can be written next to the
// staged records of a run, or supplied by hand:
//
//	4
//	a,b,qu,d,
//	e,f,g,h,
//	i,j,k,l,
//	m,n,o,p,
//
// The first line is the size tag, every following line is one row with each
// token followed by a comma.
package model

import (
	"strconv"
	"strings"
)

// Digraph is the only multi-character token a cell can hold.
const Digraph = "qu"

// Grid is an immutable square matrix of letter tokens.
type Grid struct {
	size  int
	cells [][]string
}

// NewGrid validates rows and returns a Grid holding a copy of them.
func NewGrid(rows [][]string) (*Grid, error) {
	size := len(rows)
	if size == 0 {
		return nil, NewConfigurationError("grid", "grid must have at least one row")
	}
	if size > MaxGridSize {
		return nil, NewConfigurationError("grid", "size %d exceeds the maximum supported size %d", size, MaxGridSize)
	}

	cells := make([][]string, size)
	for r, row := range rows {
		if len(row) != size {
			return nil, NewConfigurationError("grid", "row %d has %d tokens, expected %d", r, len(row), size)
		}
		cells[r] = make([]string, size)
		for c, token := range row {
			if !ValidToken(token) {
				return nil, NewConfigurationError("grid", "invalid token %q at [%d,%d]", token, r, c)
			}
			cells[r][c] = token
		}
	}
	return &Grid{size: size, cells: cells}, nil
}

// ValidToken reports whether token is a single letter a-z or the digraph.
func ValidToken(token string) bool {
	if token == Digraph {
		return true
	}
	return len(token) == 1 && token[0] >= 'a' && token[0] <= 'z'
}

// Size returns the side length of the grid.
func (g *Grid) Size() int {
	return g.size
}

// InBounds reports whether c lies on the grid.
func (g *Grid) InBounds(c Cell) bool {
	return int(c.Row) < g.size && int(c.Col) < g.size
}

// TokenAt returns the token held by c. The caller must ensure c is in bounds.
func (g *Grid) TokenAt(c Cell) string {
	return g.cells[c.Row][c.Col]
}

// Rows returns a copy of the grid's tokens.
func (g *Grid) Rows() [][]string {
	rows := make([][]string, g.size)
	for r := range g.cells {
		rows[r] = append([]string(nil), g.cells[r]...)
	}
	return rows
}

// Cells returns every cell in row-major order.
func (g *Grid) Cells() []Cell {
	out := make([]Cell, 0, g.size*g.size)
	for r := 0; r < g.size; r++ {
		for c := 0; c < g.size; c++ {
			out = append(out, Cell{Row: uint16(r), Col: uint16(c)})
		}
	}
	return out
}

// Neighbors returns the in-bounds cells 8-adjacent to c. The result never
// contains c itself and never wraps around an edge.
func (g *Grid) Neighbors(c Cell) []Cell {
	out := make([]Cell, 0, len(offsets))
	for _, off := range offsets {
		r := int(c.Row) + off[0]
		col := int(c.Col) + off[1]
		if r < 0 || col < 0 || r >= g.size || col >= g.size {
			continue
		}
		out = append(out, Cell{Row: uint16(r), Col: uint16(col)})
	}
	return out
}

// Equal reports whether both grids hold the same tokens.
func (g *Grid) Equal(other *Grid) bool {
	if g == nil || other == nil {
		return g == other
	}
	if g.size != other.size {
		return false
	}
	for r := range g.cells {
		for c := range g.cells[r] {
			if g.cells[r][c] != other.cells[r][c] {
				return false
			}
		}
	}
	return true
}

// Serialize renders the grid in its text form.
func (g *Grid) Serialize() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(g.size))
	b.WriteByte('\n')
	for _, row := range g.cells {
		for _, token := range row {
			b.WriteString(token)
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// String renders the grid as space separated rows for logs.
func (g *Grid) String() string {
	lines := make([]string, g.size)
	for r, row := range g.cells {
		lines[r] = strings.Join(row, " ")
	}
	return strings.Join(lines, "\n")
}

// DeserializeGrid parses the text form produced by Serialize. A size tag that
// names one of the classic dice versions is accepted as long as the rows
// match that version's size.
func DeserializeGrid(text string) (*Grid, error) {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return nil, NewConfigurationError("grid", "missing size tag")
	}

	tag, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil {
		return nil, &ConfigurationError{Field: "grid", Message: "size tag is not an integer", Err: err}
	}

	rows := make([][]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		rows = append(rows, strings.Split(strings.TrimSuffix(line, ","), ","))
	}

	if tag != len(rows) {
		if size, ok := VersionSize(tag); !ok || size != len(rows) {
			return nil, NewConfigurationError("grid", "size tag %d does not match %d rows", tag, len(rows))
		}
	}
	return NewGrid(rows)
}
