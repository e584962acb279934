// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model provides the value types shared by every stage of a word
// search run: the letter Grid, the Cell coordinates on it, the PathState that
// records one walk across the grid, and the line-oriented Record that carries
// a PathState between iterations.
//
// # Core Concepts
//
//   - Grid: An immutable S×S matrix of tokens. A token is a single letter or
//     the digraph "qu". A grid is produced once per run, either generated from
//     a dice set or loaded from its text form.
//
//   - Cell: A (row, column) pair. Coordinates are stored as uint16 and every
//     grid is checked against MaxGridSize, so a large custom board is rejected
//     up front instead of wrapping coordinates silently.
//
//   - PathState: An ordered, non-empty sequence of distinct cells plus an
//     "expanded" flag. Values are never mutated once built; Extend and Commit
//     return new values.
//
//   - Record: The letter string accumulated along a path together with its
//     PathState. The letter string is the grouping key used by the shuffle
//     between iterations, which is why it travels in front of the state in
//     the wire form:
//
//     aaaaa [[0,0][1,1][2,2]] false
//
//   - RunContext: The explicit, read-only bundle of everything a run needs
//     (grid, filter, dictionary, thresholds). It is handed to the traversal
//     and extraction stages instead of living in global state.
//
// Why a separate model package?
//
// The expansion engine, the shuffle, the record stores and the extraction
// stage all speak in these types. Keeping them free of any execution concern
// lets each stage be tested on its own and lets any executor implementation
// move records around without knowing what they mean.
package model
