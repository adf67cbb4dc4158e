// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2025 TotallyGamerJet

package seqpatch

import (
	"errors"
	"fmt"

	"github.com/totallygamerjet/classdiff/wire"
)

// ErrMalformed reports patch bytes that cannot be decoded.
var ErrMalformed = errors.New("seqpatch: malformed patch")

// ElementWriter encodes one element.
type ElementWriter[T any] func(b *wire.Builder, v T) error

// ElementReader decodes one element.
type ElementReader[T any] func(c *wire.Cursor) (T, error)

// Write encodes p into b.
//
// Layout:
//
//	u16 delta count, then per delta a u8 DeltaType followed by
//	CHANGE  u16 source position, u16 source length, u16 target length, elements
//	DELETE  u16 source position, u16 source length
//	INSERT  u16 source position, u16 target length, elements
//	EQUAL   nothing
//
// Positions and lengths wider than 16 bits leave an overflow in b.Err.
func Write[T any](b *wire.Builder, p Patch[T], w ElementWriter[T]) error {
	b.PutU16(len(p.Deltas))
	for _, d := range p.Deltas {
		b.PutU8(int(d.Type))
		switch d.Type {
		case Change:
			b.PutU16(d.Source.Position)
			b.PutU16(len(d.Source.Lines))
			b.PutU16(len(d.Target.Lines))
		case Delete:
			b.PutU16(d.Source.Position)
			b.PutU16(len(d.Source.Lines))
		case Insert:
			b.PutU16(d.Source.Position)
			b.PutU16(len(d.Target.Lines))
		case Equal:
			continue
		default:
			return fmt.Errorf("%w: unknown delta type %d", ErrMalformed, d.Type)
		}
		if d.Type == Delete {
			continue
		}
		for _, v := range d.Target.Lines {
			if err := w(b, v); err != nil {
				return err
			}
		}
	}
	return b.Err()
}

// Read decodes a patch written by Write. Source chunks of DELETE and CHANGE
// deltas are rebuilt from base, so base must be the sequence the patch will be
// applied to; a span outside base fails with ErrPatchFailed.
func Read[T any](c *wire.Cursor, base []T, r ElementReader[T]) (Patch[T], error) {
	count := c.U16()
	p := Patch[T]{Deltas: make([]Delta[T], 0, count)}
	for i := 0; i < count; i++ {
		if err := c.Err(); err != nil {
			return Patch[T]{}, err
		}
		t := DeltaType(c.U8())
		var d Delta[T]
		d.Type = t
		var srcLen, dstLen int
		switch t {
		case Change:
			d.Source.Position = c.U16()
			srcLen = c.U16()
			dstLen = c.U16()
		case Delete:
			d.Source.Position = c.U16()
			srcLen = c.U16()
		case Insert:
			d.Source.Position = c.U16()
			dstLen = c.U16()
		case Equal:
			p.Deltas = append(p.Deltas, d)
			continue
		default:
			if err := c.Err(); err != nil {
				return Patch[T]{}, err
			}
			return Patch[T]{}, fmt.Errorf("%w: unknown delta type %d", ErrMalformed, t)
		}
		if err := c.Err(); err != nil {
			return Patch[T]{}, err
		}
		if pos := d.Source.Position; pos+srcLen > len(base) {
			return Patch[T]{}, &ApplyError{Delta: i, Position: pos, Reason: fmt.Sprintf("source span of %d runs past base length %d", srcLen, len(base))}
		}
		if srcLen > 0 {
			d.Source.Lines = append([]T(nil), base[d.Source.Position:d.Source.Position+srcLen]...)
		}
		for j := 0; j < dstLen; j++ {
			v, err := r(c)
			if err != nil {
				return Patch[T]{}, err
			}
			d.Target.Lines = append(d.Target.Lines, v)
		}
		p.Deltas = append(p.Deltas, d)
	}
	if err := c.Err(); err != nil {
		return Patch[T]{}, err
	}
	return p, nil
}
