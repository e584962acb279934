// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

import (
	"fmt"
	"math"
)

// MaxGridSize is the largest side length a grid may have. Every coordinate of
// such a grid fits in a uint16.
const MaxGridSize = math.MaxUint16

// Cell is a 0-indexed (row, column) position on a grid.
type Cell struct {
	Row uint16
	Col uint16
}

// NewCell builds a Cell from int coordinates, rejecting values that do not
// fit the coordinate width.
func NewCell(row, col int) (Cell, error) {
	if row < 0 || col < 0 || row >= MaxGridSize || col >= MaxGridSize {
		return Cell{}, fmt.Errorf("cell [%d,%d] is outside the supported coordinate range [0,%d)", row, col, MaxGridSize)
	}
	return Cell{Row: uint16(row), Col: uint16(col)}, nil
}

// String renders the cell the way it appears in the record wire form.
func (c Cell) String() string {
	return fmt.Sprintf("[%d,%d]", c.Row, c.Col)
}

// offsets lists the eight directions around a cell.
var offsets = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}
