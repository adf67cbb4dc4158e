// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2019 Gabriel Ochsenhofer
// SPDX-FileCopyrightText: 2025 TotallyGamerJet

// Package wire holds the big-endian primitives every classdiff encoder is built on:
// a seekable Builder for writing and a Cursor for reading.
package wire

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"unicode/utf8"
)

// ErrOverflow reports a value that does not fit the width of its field.
var ErrOverflow = errors.New("wire: value exceeds field width")

// Builder is a growable byte buffer that implements io.WriteSeeker.
//
// The Put methods never fail immediately. The first out-of-range value is
// remembered and returned by Err; callers check it once before using Bytes.
type Builder struct {
	buf []byte
	pos int
	err error
}

var _ io.WriteSeeker = (*Builder)(nil)

// Write the contents of p at the current position and return the bytes written
func (b *Builder) Write(p []byte) (n int, err error) {
	copy(b.grab(len(p)), p)
	return len(p), nil
}

// grab returns the n bytes at the current position and moves past them.
// Capacity grows the way append does so a run of small puts stays linear.
func (b *Builder) grab(n int) []byte {
	end := b.pos + n
	if end > len(b.buf) {
		b.buf = slices.Grow(b.buf, end-len(b.buf))[:end]
	}
	p := b.buf[b.pos:end]
	b.pos = end
	return p
}

// Seek to a position on the byte slice
func (b *Builder) Seek(offset int64, whence int) (int64, error) {
	newPos, offs := 0, int(offset)
	switch whence {
	case io.SeekStart:
		newPos = offs
	case io.SeekCurrent:
		newPos = b.pos + offs
	case io.SeekEnd:
		newPos = len(b.buf) + offs
	}
	if newPos < 0 {
		return 0, fmt.Errorf("negative result pos")
	}
	b.pos = newPos
	return int64(newPos), nil
}

// Len returns the length of the internal byte slice
func (b *Builder) Len() int {
	return len(b.buf)
}

// Bytes return a copy of the internal byte slice
func (b *Builder) Bytes() []byte {
	b2 := make([]byte, len(b.buf))
	copy(b2, b.buf)
	return b2
}

// Err returns the first overflow recorded by a Put method.
func (b *Builder) Err() error {
	return b.err
}

// Fail records err unless an earlier error is already held.
func (b *Builder) Fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *Builder) overflow(v, limit int, field string) bool {
	if v >= 0 && v <= limit {
		return false
	}
	b.Fail(fmt.Errorf("%w: %s %d (max %d)", ErrOverflow, field, v, limit))
	return true
}

// PutU8 appends a single byte.
func (b *Builder) PutU8(v int) {
	if b.overflow(v, 0xff, "u8") {
		return
	}
	b.grab(1)[0] = byte(v)
}

// PutU16 appends v as a big-endian unsigned 16 bit value.
func (b *Builder) PutU16(v int) {
	if b.overflow(v, 0xffff, "u16") {
		return
	}
	p := b.grab(2)
	p[0], p[1] = byte(v>>8), byte(v)
}

// PutU32 appends v as a big-endian 32 bit value.
func (b *Builder) PutU32(v uint32) {
	p := b.grab(4)
	p[0], p[1], p[2], p[3] = byte(v>>24), byte(v>>16), byte(v>>8), byte(v)
}

// PutU64 appends v as a big-endian 64 bit value.
func (b *Builder) PutU64(v uint64) {
	b.PutU32(uint32(v >> 32))
	b.PutU32(uint32(v))
}

// PutBytes appends p verbatim.
func (b *Builder) PutBytes(p []byte) {
	_, _ = b.Write(p)
}

// PutUTF8 appends s in modified UTF-8, prefixed with its encoded byte length.
// A string that is not valid UTF-8 cannot be encoded without loss and is
// recorded as ErrBadUTF8.
func (b *Builder) PutUTF8(s string) {
	if !utf8.ValidString(s) {
		b.Fail(fmt.Errorf("%w: %q is not valid UTF-8", ErrBadUTF8, s))
		return
	}
	enc := AppendModifiedUTF8(nil, s)
	if b.overflow(len(enc), 0xffff, "utf8 length") {
		return
	}
	b.PutU16(len(enc))
	b.PutBytes(enc)
}
