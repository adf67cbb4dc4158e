// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2025 TotallyGamerJet

package wire

import (
	"errors"
	"fmt"
)

// ErrTruncated reports a read past the end of the input.
var ErrTruncated = errors.New("wire: unexpected end of data")

// Cursor reads big-endian values from a byte slice with a monotonic position.
//
// Like Builder, a Cursor keeps the first error: once a read runs off the end
// every later read returns zero and Err reports the failure.
type Cursor struct {
	data []byte
	pos  int
	err  error
}

// NewCursor returns a cursor positioned at the start of data.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Err returns the first error hit by a read.
func (c *Cursor) Err() error {
	return c.err
}

// Fail records err unless an earlier error is already held.
func (c *Cursor) Fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

// Pos returns the offset of the next byte to be read.
func (c *Cursor) Pos() int {
	return c.pos
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.data) - c.pos
}

// Seek moves the cursor to an absolute offset.
func (c *Cursor) Seek(pos int) {
	if pos < 0 || pos > len(c.data) {
		c.Fail(fmt.Errorf("%w: seek to %d of %d", ErrTruncated, pos, len(c.data)))
		return
	}
	c.pos = pos
}

func (c *Cursor) take(n int) []byte {
	if c.err != nil {
		return nil
	}
	if n < 0 || n > len(c.data)-c.pos {
		c.Fail(fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrTruncated, n, c.pos, len(c.data)-c.pos))
		return nil
	}
	p := c.data[c.pos : c.pos+n]
	c.pos += n
	return p
}

// Skip advances past n bytes.
func (c *Cursor) Skip(n int) {
	c.take(n)
}

// U8 reads one byte.
func (c *Cursor) U8() int {
	p := c.take(1)
	if p == nil {
		return 0
	}
	return int(p[0])
}

// U16 reads a big-endian unsigned 16 bit value.
func (c *Cursor) U16() int {
	p := c.take(2)
	if p == nil {
		return 0
	}
	return int(p[0])<<8 | int(p[1])
}

// U32 reads a big-endian 32 bit value.
func (c *Cursor) U32() uint32 {
	p := c.take(4)
	if p == nil {
		return 0
	}
	return uint32(p[0])<<24 | uint32(p[1])<<16 | uint32(p[2])<<8 | uint32(p[3])
}

// U64 reads a big-endian 64 bit value.
func (c *Cursor) U64() uint64 {
	hi := c.U32()
	lo := c.U32()
	return uint64(hi)<<32 | uint64(lo)
}

// Bytes returns the next n bytes. The slice aliases the cursor's input.
func (c *Cursor) Bytes(n int) []byte {
	return c.take(n)
}

// UTF8 reads a length-prefixed modified UTF-8 string.
func (c *Cursor) UTF8() string {
	n := c.U16()
	p := c.take(n)
	if p == nil {
		return ""
	}
	s, err := DecodeModifiedUTF8(p)
	if err != nil {
		c.Fail(err)
		return ""
	}
	return s
}
