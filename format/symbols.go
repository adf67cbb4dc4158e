// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2025 TotallyGamerJet

package format

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/totallygamerjet/classdiff/wire"
)

const initialBuckets = 256

type symbol struct {
	index int
	tag   uint8
	str   string // UTF8 and Class
	num   uint64 // constant bits, or the name index of a Class
	hash  uint64
	next  *symbol // bucket chain
}

// SymbolTable interns the constants one container refers to. Indices start
// at 1 and never change once handed out. The zero value is ready to use.
type SymbolTable struct {
	buckets []*symbol
	count   int
	next    int
	pool    wire.Builder
	scratch []byte // hash input, reused across interns
}

// Count returns the pool count written to the header: the highest index plus one.
func (t *SymbolTable) Count() int {
	if t.next == 0 {
		return 1
	}
	return t.next
}

// Len returns the number of distinct entries.
func (t *SymbolTable) Len() int {
	return t.count
}

// UTF8 interns s and returns its index.
func (t *SymbolTable) UTF8(s string) int {
	return t.intern(TagUTF8, s, 0)
}

// Class interns a class reference to the binary name s.
func (t *SymbolTable) Class(s string) int {
	return t.intern(TagClass, s, uint64(t.UTF8(s)))
}

// Int interns a 32 bit integer constant.
func (t *SymbolTable) Int(v int32) int {
	return t.intern(TagInteger, "", uint64(uint32(v)))
}

// Float interns a float constant by bit pattern.
func (t *SymbolTable) Float(v float32) int {
	return t.intern(TagFloat, "", uint64(math.Float32bits(v)))
}

// Long interns a long constant. It takes two indices.
func (t *SymbolTable) Long(v int64) int {
	return t.intern(TagLong, "", uint64(v))
}

// Double interns a double constant by bit pattern. It takes two indices.
func (t *SymbolTable) Double(v float64) int {
	return t.intern(TagDouble, "", math.Float64bits(v))
}

// WriteTo appends the pool count and entries to b.
func (t *SymbolTable) WriteTo(b *wire.Builder) error {
	if err := t.pool.Err(); err != nil {
		return err
	}
	b.PutU16(t.Count())
	b.PutBytes(t.pool.Bytes())
	return b.Err()
}

// intern returns the index of (tag, s, num), appending a new pool entry the
// first time it is seen. For a class num is the index of its name.
func (t *SymbolTable) intern(tag uint8, s string, num uint64) int {
	if t.buckets == nil {
		t.buckets = make([]*symbol, initialBuckets)
		t.next = 1
	}
	h := t.hash(tag, s, num)
	for e := t.buckets[h%uint64(len(t.buckets))]; e != nil; e = e.next {
		if e.hash == h && e.tag == tag && e.str == s && e.num == num {
			return e.index
		}
	}

	e := &symbol{index: t.next, tag: tag, str: s, num: num, hash: h}
	t.next++
	if tag == TagLong || tag == TagDouble {
		t.next++
	}
	if t.next-1 > 0xffff {
		t.pool.Fail(fmt.Errorf("%w: constant pool index %d (max %d)", wire.ErrOverflow, t.next-1, 0xffff))
	}
	t.pool.PutU8(int(tag))
	switch tag {
	case TagUTF8:
		t.pool.PutUTF8(s)
	case TagClass:
		t.pool.PutU16(int(num))
	case TagLong, TagDouble:
		t.pool.PutU64(num)
	default:
		t.pool.PutU32(uint32(num))
	}

	t.count++
	if t.count > len(t.buckets)*3/4 {
		t.grow()
	}
	i := h % uint64(len(t.buckets))
	e.next = t.buckets[i]
	t.buckets[i] = e
	return e.index
}

// grow relinks every entry into a table of twice the size.
func (t *SymbolTable) grow() {
	buckets := make([]*symbol, len(t.buckets)*2+1)
	for _, e := range t.buckets {
		for e != nil {
			next := e.next
			i := e.hash % uint64(len(buckets))
			e.next = buckets[i]
			buckets[i] = e
			e = next
		}
	}
	t.buckets = buckets
}

func (t *SymbolTable) hash(tag uint8, s string, num uint64) uint64 {
	t.scratch = append(t.scratch[:0], tag)
	t.scratch = binary.BigEndian.AppendUint64(t.scratch, num)
	t.scratch = append(t.scratch, s...)
	return xxhash.Sum64(t.scratch)
}
