// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

import (
	"strings"
)

// Record pairs a path with the letter string it spells. Key is the grouping
// key between iterations.
type Record struct {
	Key   string
	State PathState
}

// Seed returns the unexpanded single-cell record for c.
func Seed(g *Grid, c Cell) Record {
	return Record{Key: g.TokenAt(c), State: NewPathState(c)}
}

// String renders the record in its wire form.
func (r Record) String() string {
	return r.Key + " " + r.State.String()
}

// ParseRecord parses one wire line of the form
// "<letters> [[r,c]...] <true|false>".
func ParseRecord(line string) (Record, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return Record{}, &MalformedRecordError{Line: line, Reason: "expected 3 fields"}
	}

	state, err := ParsePathState(fields[1], fields[2])
	if err != nil {
		return Record{}, &MalformedRecordError{Line: line, Reason: err.Error()}
	}
	return Record{Key: fields[0], State: state}, nil
}

// Validate checks the record against g: every cell must be on the grid and
// appear once, and the key must be the letters under the path.
func (r Record) Validate(g *Grid) error {
	if r.State.Len() == 0 {
		return &MalformedRecordError{Line: r.String(), Reason: "path has no cells"}
	}
	seen := make(map[Cell]struct{}, r.State.Len())
	for _, c := range r.State.cells {
		if !g.InBounds(c) {
			return &MalformedRecordError{Line: r.String(), Reason: "cell " + c.String() + " is outside the grid"}
		}
		if _, dup := seen[c]; dup {
			return &MalformedRecordError{Line: r.String(), Reason: "cell " + c.String() + " is visited twice"}
		}
		seen[c] = struct{}{}
	}
	if letters := r.State.Letters(g); letters != r.Key {
		return &MalformedRecordError{Line: r.String(), Reason: "key does not match the letters " + letters}
	}
	return nil
}
