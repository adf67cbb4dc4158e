// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2025 TotallyGamerJet

// Package seqpatch computes, serializes and applies edit scripts between two
// ordered sequences.
//
// A Patch is a list of Deltas in ascending source order. Unchanged spans are
// implicit: the encoder never writes their elements and the decoder rebuilds
// every source chunk from the base sequence it is handed.
package seqpatch

import "fmt"

// DeltaType identifies the kind of a Delta. The values are the on-disk tags.
type DeltaType uint8

const (
	Change DeltaType = iota
	Delete
	Insert
	Equal
)

func (t DeltaType) String() string {
	switch t {
	case Change:
		return "CHANGE"
	case Delete:
		return "DELETE"
	case Insert:
		return "INSERT"
	case Equal:
		return "EQUAL"
	}
	return fmt.Sprintf("DeltaType(%d)", uint8(t))
}

// Chunk is a span of a sequence starting at Position.
type Chunk[T any] struct {
	Position int
	Lines    []T
}

// Delta replaces Source, a span of the original sequence, with Target.
type Delta[T any] struct {
	Type   DeltaType
	Source Chunk[T]
	Target Chunk[T]
}

// Patch is an ordered edit script. Source spans are disjoint and ascending.
type Patch[T any] struct {
	Deltas []Delta[T]
}

// Empty reports whether applying p is a no-op.
func (p Patch[T]) Empty() bool {
	for _, d := range p.Deltas {
		if d.Type != Equal {
			return false
		}
	}
	return true
}

func newDelta[T any](a, b []T, i0, i1, j0, j1 int) Delta[T] {
	d := Delta[T]{
		Source: Chunk[T]{Position: i0, Lines: a[i0:i1:i1]},
		Target: Chunk[T]{Position: j0, Lines: b[j0:j1:j1]},
	}
	switch {
	case i0 == i1:
		d.Type = Insert
	case j0 == j1:
		d.Type = Delete
	default:
		d.Type = Change
	}
	return d
}
