// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2025 TotallyGamerJet

package seqpatch

import (
	"errors"
	"fmt"
)

// ErrPatchFailed reports a patch that does not fit the sequence it is applied to.
var ErrPatchFailed = errors.New("seqpatch: patch does not apply to base")

// ApplyError describes which delta failed and why.
type ApplyError struct {
	Delta    int // index into Patch.Deltas
	Position int
	Reason   string
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("seqpatch: delta %d at position %d: %s", e.Delta, e.Position, e.Reason)
}

func (e *ApplyError) Unwrap() error {
	return ErrPatchFailed
}

// Apply returns a new sequence with p applied to base. Every delta's source
// chunk must match base under eq at its recorded position; base is not modified.
func (p Patch[T]) Apply(base []T, eq func(x, y T) bool) ([]T, error) {
	out := make([]T, 0, len(base))
	last := 0
	for i, d := range p.Deltas {
		if d.Type == Equal {
			continue
		}
		pos, n := d.Source.Position, len(d.Source.Lines)
		if pos < last {
			return nil, &ApplyError{Delta: i, Position: pos, Reason: fmt.Sprintf("overlaps previous delta ending at %d", last)}
		}
		if pos+n > len(base) {
			return nil, &ApplyError{Delta: i, Position: pos, Reason: fmt.Sprintf("source span of %d runs past base length %d", n, len(base))}
		}
		for j, want := range d.Source.Lines {
			if !eq(base[pos+j], want) {
				return nil, &ApplyError{Delta: i, Position: pos + j, Reason: "source element differs from base"}
			}
		}
		out = append(out, base[last:pos]...)
		out = append(out, d.Target.Lines...)
		last = pos + n
	}
	return append(out, base[last:]...), nil
}
