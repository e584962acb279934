// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

import (
	"math/rand/v2"
	"strings"
)

// Each string is one die; each character is one of its faces.
var (
	NewDice = []string{"aaeegn", "elrtty", "aoottw", "abbjoo", "ehrtvw", "cimotv",
		"distty", "eiosst", "delrvy", "achops", "humnqu", "eeinsu", "eeghnw", "affkps", "hlnnrz", "deilrx"}

	OldDice = []string{"aaciot", "ahmors", "egkluy", "abilty", "acdemp", "egintv",
		"gilruw", "elpstu", "denosw", "acelrs", "abjmoq", "eefhiy", "ehinps", "dknotu", "adenvz", "biforx"}

	BigDice = []string{"aaafrs", "aaeeee", "aafirs", "adennn", "aeeeem", "aeegmu",
		"aegmnn", "afirsy", "bjkqxz", "ccenst", "ceiilt", "ceilpt", "ceipst", "ddhnot", "dhhlor", "dhlnor",
		"dhlnor", "eiiitt", "emottt", "ensssu", "fiprsy", "gorrvw", "iprrry", "nootuw", "ooottu"}
)

// Dice set names accepted by DiceFaces.
const (
	DiceNew    = "new"
	DiceOld    = "old"
	DiceBig    = "big"
	DiceRandom = "random"
)

// Size tags used by the classic text form of a grid.
const (
	versionNew = 0
	versionOld = 1
	versionBig = 2
)

// VersionSize maps a size tag to a grid size. Tags 0, 1 and 2 name the
// classic dice sets; tags above 5 are literal sizes.
func VersionSize(tag int) (int, bool) {
	switch {
	case tag == versionNew, tag == versionOld:
		return 4, true
	case tag == versionBig:
		return 5, true
	case tag > 5:
		return tag, true
	default:
		return 0, false
	}
}

// DiceFaces returns the dice for the named set. The random set draws size*size
// dice from the Big set, so it is already expanded for the requested size.
func DiceFaces(name string, size int, rng *rand.Rand) ([]string, error) {
	switch strings.ToLower(name) {
	case DiceNew, "":
		return NewDice, nil
	case DiceOld:
		return OldDice, nil
	case DiceBig:
		return BigDice, nil
	case DiceRandom:
		if size < 1 || size > MaxGridSize {
			return nil, NewConfigurationError("grid.size", "random dice need a size between 1 and %d, got %d", MaxGridSize, size)
		}
		faces := make([]string, size*size)
		for i := range faces {
			faces[i] = BigDice[rng.IntN(len(BigDice))]
		}
		return faces, nil
	default:
		return nil, NewConfigurationError("grid.dice", "unknown dice set %q", name)
	}
}

// Generate rolls the dice onto a size×size grid. Dice are shuffled across the
// cells and one face of each is chosen; a "q" face reads as "qu".
func Generate(faces []string, size int, rng *rand.Rand) (*Grid, error) {
	if size < 1 || size > MaxGridSize {
		return nil, NewConfigurationError("grid.size", "size %d is outside [1,%d]", size, MaxGridSize)
	}
	if size*size != len(faces) {
		return nil, NewConfigurationError("grid.size", "size %d needs %d dice, the dice set has %d", size, size*size, len(faces))
	}

	order := rng.Perm(len(faces))
	rows := make([][]string, size)
	for r := range rows {
		rows[r] = make([]string, size)
	}
	for i, die := range order {
		face := faces[die]
		if face == "" {
			return nil, NewConfigurationError("grid.dice", "die %d has no faces", die)
		}
		letter := string(face[rng.IntN(len(face))])
		if letter == "q" {
			letter = Digraph
		}
		rows[i/size][i%size] = letter
	}
	return NewGrid(rows)
}
