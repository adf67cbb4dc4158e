// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2025 TotallyGamerJet

package format

import (
	"fmt"
	"math"

	"github.com/totallygamerjet/classdiff/classfile"
	"github.com/totallygamerjet/classdiff/wire"
)

// maxNesting bounds nested annotations and arrays on read.
const maxNesting = 256

// element value tags
const (
	tagByte       = 'B'
	tagChar       = 'C'
	tagDouble     = 'D'
	tagFloat      = 'F'
	tagInt        = 'I'
	tagLong       = 'J'
	tagShort      = 'S'
	tagBool       = 'Z'
	tagString     = 's'
	tagEnum       = 'e'
	tagClass      = 'c'
	tagAnnotation = '@'
	tagArray      = '['
)

// putAnnotation writes desc, the pair count and each (name, value) pair.
func putAnnotation(b *wire.Builder, t *SymbolTable, a classfile.Annotation) error {
	b.PutU16(t.UTF8(a.Desc))
	b.PutU16(len(a.Values))
	for _, e := range a.Values {
		b.PutU16(t.UTF8(e.Name))
		if err := putValue(b, t, e.Value); err != nil {
			return err
		}
	}
	return b.Err()
}

func putTypeAnnotation(b *wire.Builder, t *SymbolTable, a classfile.TypeAnnotation) error {
	b.PutU32(a.TypeRef)
	b.PutU8(len(a.TypePath))
	for _, s := range a.TypePath {
		b.PutU8(int(s.Kind))
		b.PutU8(int(s.Arg))
	}
	return putAnnotation(b, t, a.Annotation)
}

func putValue(b *wire.Builder, t *SymbolTable, v classfile.Value) error {
	switch v := v.(type) {
	case classfile.Byte:
		b.PutU8(tagByte)
		b.PutU16(t.Int(int32(v)))
	case classfile.Bool:
		b.PutU8(tagBool)
		n := int32(0)
		if v {
			n = 1
		}
		b.PutU16(t.Int(n))
	case classfile.Char:
		b.PutU8(tagChar)
		b.PutU16(t.Int(int32(v)))
	case classfile.Short:
		b.PutU8(tagShort)
		b.PutU16(t.Int(int32(v)))
	case classfile.Int:
		b.PutU8(tagInt)
		b.PutU16(t.Int(int32(v)))
	case classfile.Long:
		b.PutU8(tagLong)
		b.PutU16(t.Long(int64(v)))
	case classfile.Float:
		b.PutU8(tagFloat)
		b.PutU16(t.Float(float32(v)))
	case classfile.Double:
		b.PutU8(tagDouble)
		b.PutU16(t.Double(float64(v)))
	case classfile.String:
		b.PutU8(tagString)
		b.PutU16(t.UTF8(string(v)))
	case classfile.ClassRef:
		b.PutU8(tagClass)
		b.PutU16(t.UTF8(string(v)))
	case classfile.Enum:
		b.PutU8(tagEnum)
		b.PutU16(t.UTF8(v.Desc))
		b.PutU16(t.UTF8(v.Name))
	case classfile.Annotation:
		b.PutU8(tagAnnotation)
		return putAnnotation(b, t, v)
	case classfile.Array:
		b.PutU8(tagArray)
		b.PutU16(len(v))
		for _, e := range v {
			if err := putValue(b, t, e); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("format: unsupported annotation value %T", v)
	}
	return nil
}

func (r *Reader) annotation(c *wire.Cursor, depth int) (classfile.Annotation, error) {
	var a classfile.Annotation
	if depth > maxNesting {
		return a, fmt.Errorf("annotation nested deeper than %d", maxNesting)
	}
	desc, err := r.utf8At(c)
	if err != nil {
		return a, err
	}
	a.Desc = desc
	n := c.U16()
	if err := c.Err(); err != nil {
		return a, err
	}
	for i := 0; i < n; i++ {
		name, err := r.utf8At(c)
		if err != nil {
			return a, err
		}
		v, err := r.value(c, depth)
		if err != nil {
			return a, err
		}
		a.Values = append(a.Values, classfile.Element{Name: name, Value: v})
	}
	return a, nil
}

func (r *Reader) typeAnnotation(c *wire.Cursor) (classfile.TypeAnnotation, error) {
	var ta classfile.TypeAnnotation
	ta.TypeRef = c.U32()
	n := c.U8()
	for i := 0; i < n; i++ {
		ta.TypePath = append(ta.TypePath, classfile.TypePathStep{Kind: uint8(c.U8()), Arg: uint8(c.U8())})
	}
	if err := c.Err(); err != nil {
		return ta, err
	}
	a, err := r.annotation(c, 0)
	ta.Annotation = a
	return ta, err
}

func (r *Reader) value(c *wire.Cursor, depth int) (classfile.Value, error) {
	tag := c.U8()
	if err := c.Err(); err != nil {
		return nil, err
	}
	switch tag {
	case tagEnum:
		desc, err := r.utf8At(c)
		if err != nil {
			return nil, err
		}
		name, err := r.utf8At(c)
		return classfile.Enum{Desc: desc, Name: name}, err
	case tagAnnotation:
		return r.annotation(c, depth+1)
	case tagArray:
		if depth >= maxNesting {
			return nil, fmt.Errorf("array nested deeper than %d", maxNesting)
		}
		n := c.U16()
		if err := c.Err(); err != nil {
			return nil, err
		}
		arr := make(classfile.Array, 0, min(n, c.Remaining()))
		for i := 0; i < n; i++ {
			v, err := r.value(c, depth+1)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case tagByte, tagChar, tagShort, tagInt, tagBool, tagLong, tagFloat, tagDouble, tagString, tagClass:
	default:
		return nil, fmt.Errorf("unknown element value tag %q", rune(tag))
	}

	i := c.U16()
	if err := c.Err(); err != nil {
		return nil, err
	}
	switch tag {
	case tagString:
		s, err := r.pool.utf8(i)
		return classfile.String(s), err
	case tagClass:
		s, err := r.pool.utf8(i)
		return classfile.ClassRef(s), err
	case tagLong:
		bits, err := r.pool.number(i, TagLong)
		return classfile.Long(int64(bits)), err
	case tagDouble:
		bits, err := r.pool.number(i, TagDouble)
		return classfile.Double(math.Float64frombits(bits)), err
	case tagFloat:
		bits, err := r.pool.number(i, TagFloat)
		return classfile.Float(math.Float32frombits(uint32(bits))), err
	}

	bits, err := r.pool.number(i, TagInteger)
	n := int32(uint32(bits))
	switch tag {
	case tagByte:
		return classfile.Byte(n), err
	case tagChar:
		return classfile.Char(n), err
	case tagShort:
		return classfile.Short(n), err
	case tagBool:
		return classfile.Bool(n != 0), err
	}
	return classfile.Int(n), err
}
