// Package engine is the expansion step of the traversal. Given one record it
// either passes it through (already expanded) or commits it and emits one
// child per unvisited neighbour of its last cell that may still lead to a
// dictionary word.
//
// The engine holds no mutable state. Many goroutines may run Transform on
// different partitions of the same pass at once; they share only the
// read-only RunContext.
package engine
