// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2025 TotallyGamerJet

package format

import (
	"fmt"

	"github.com/totallygamerjet/classdiff/wire"
)

// pool is the parsed constant pool of one container. Strings are decoded on
// first use and kept.
type pool struct {
	data    []byte
	offsets []int // start of each entry's payload, after the tag
	tags    []uint8
	strs    []string
	decoded []bool
}

func parsePool(data []byte, c *wire.Cursor) (*pool, error) {
	count := c.U16()
	if err := c.Err(); err != nil {
		return nil, err
	}
	p := &pool{
		data:    data,
		offsets: make([]int, count),
		tags:    make([]uint8, count),
		strs:    make([]string, count),
		decoded: make([]bool, count),
	}
	for i := 1; i < count; i++ {
		tag := c.U8()
		p.tags[i] = uint8(tag)
		p.offsets[i] = c.Pos()
		switch tag {
		case TagUTF8:
			c.Skip(c.U16())
		case TagInteger, TagFloat:
			c.Skip(4)
		case TagLong, TagDouble:
			c.Skip(8)
			i++
		case TagClass, TagString:
			c.Skip(2)
		default:
			if err := c.Err(); err != nil {
				return nil, err
			}
			return nil, fmt.Errorf("unknown constant tag %d at index %d", tag, i)
		}
		if err := c.Err(); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *pool) entry(i int, tag uint8) (*wire.Cursor, error) {
	if i <= 0 || i >= len(p.tags) {
		return nil, fmt.Errorf("constant index %d out of range [1, %d)", i, len(p.tags))
	}
	if p.tags[i] != tag {
		return nil, fmt.Errorf("constant %d has tag %d, want %d", i, p.tags[i], tag)
	}
	c := wire.NewCursor(p.data)
	c.Seek(p.offsets[i])
	return c, nil
}

func (p *pool) utf8(i int) (string, error) {
	if i > 0 && i < len(p.decoded) && p.decoded[i] {
		return p.strs[i], nil
	}
	c, err := p.entry(i, TagUTF8)
	if err != nil {
		return "", err
	}
	s := c.UTF8()
	if err := c.Err(); err != nil {
		return "", fmt.Errorf("constant %d: %w", i, err)
	}
	p.strs[i], p.decoded[i] = s, true
	return s, nil
}

func (p *pool) class(i int) (string, error) {
	c, err := p.entry(i, TagClass)
	if err != nil {
		return "", err
	}
	return p.utf8(c.U16())
}

// number returns the raw bits of an Integer, Float, Long or Double constant.
func (p *pool) number(i int, tag uint8) (uint64, error) {
	c, err := p.entry(i, tag)
	if err != nil {
		return 0, err
	}
	if tag == TagLong || tag == TagDouble {
		return c.U64(), c.Err()
	}
	return uint64(c.U32()), c.Err()
}
