// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2025 TotallyGamerJet

package format

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/totallygamerjet/classdiff/classfile"
	"github.com/totallygamerjet/classdiff/seqpatch"
	"github.com/totallygamerjet/classdiff/wire"
)

// ErrFormat is wrapped by every error caused by bytes that are not a valid container.
var ErrFormat = errors.New("format: malformed container")

// Reader decodes a container. The constant pool is parsed once by NewReader;
// Accept may then be called any number of times. A Reader caches decoded
// strings and is not safe for concurrent use.
type Reader struct {
	data    []byte
	version int
	pool    *pool
	start   int // offset of the class header
}

// NewReader checks the magic and version and parses the constant pool.
func NewReader(data []byte) (*Reader, error) {
	c := wire.NewCursor(data)
	magic := c.U32()
	if err := c.Err(); err != nil {
		return nil, malformed(err)
	}
	if magic != Magic {
		return nil, fmt.Errorf("%w: did not start with magic 0x%X", ErrFormat, uint32(Magic))
	}
	version := c.U16()
	if err := c.Err(); err != nil {
		return nil, malformed(err)
	}
	if version < V1 || version > VMax {
		return nil, fmt.Errorf("%w: unsupported version %d, supported %d through %d", ErrFormat, version, V1, VMax)
	}
	p, err := parsePool(data, c)
	if err != nil {
		return nil, malformed(fmt.Errorf("constant pool: %w", err))
	}
	return &Reader{data: data, version: version, pool: p, start: c.Pos()}, nil
}

// Version returns the container's format version.
func (r *Reader) Version() int {
	return r.version
}

// malformed wraps err in ErrFormat. Patch failures are passed through.
func malformed(err error) error {
	if err == nil || errors.Is(err, ErrFormat) || errors.Is(err, seqpatch.ErrPatchFailed) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrFormat, err)
}

func (r *Reader) utf8At(c *wire.Cursor) (string, error) {
	i := c.U16()
	if err := c.Err(); err != nil {
		return "", err
	}
	return r.pool.utf8(i)
}

func (r *Reader) classAt(c *wire.Cursor) (string, error) {
	i := c.U16()
	if err := c.Err(); err != nil {
		return "", err
	}
	return r.pool.class(i)
}

// optional reads an index where 0 means absent or unchanged.
func (r *Reader) optional(c *wire.Cursor, class bool) (StringEdit, error) {
	i := c.U16()
	if err := c.Err(); err != nil || i == 0 {
		return Keep, err
	}
	var s string
	var err error
	if class {
		s, err = r.pool.class(i)
	} else {
		s, err = r.pool.utf8(i)
	}
	return Set(s), err
}

func (r *Reader) innerClass(c *wire.Cursor) (classfile.InnerClass, error) {
	var ic classfile.InnerClass
	name, err := r.classAt(c)
	if err != nil {
		return ic, err
	}
	outer, err := r.optional(c, true)
	if err != nil {
		return ic, err
	}
	inner, err := r.optional(c, false)
	if err != nil {
		return ic, err
	}
	ic = classfile.InnerClass{Name: name, OuterName: outer.Value, InnerName: inner.Value, Access: uint16(c.U16())}
	return ic, c.Err()
}

func (r *Reader) annotationElem(c *wire.Cursor) (classfile.Annotation, error) {
	return r.annotation(c, 0)
}

// Accept replays the container into v. base is the class the container will
// be applied to; its lists rebuild the source side of every sequence patch.
//
// Decoding problems wrap ErrFormat, a base that does not match wraps
// seqpatch.ErrPatchFailed, and errors returned by v are passed through.
func (r *Reader) Accept(v Visitor, base *classfile.Class) error {
	if base == nil {
		base = new(classfile.Class)
	}
	c := wire.NewCursor(r.data)
	c.Seek(r.start)

	h := Header{FormatVersion: uint16(r.version)}
	h.ClassVersion = c.U32()
	h.Access = c.U32()
	var err error
	if h.Name, err = r.optional(c, true); err != nil {
		return malformed(fmt.Errorf("name: %w", err))
	}
	if h.Signature, err = r.optional(c, false); err != nil {
		return malformed(fmt.Errorf("signature: %w", err))
	}
	if h.SuperName, err = r.optional(c, true); err != nil {
		return malformed(fmt.Errorf("super name: %w", err))
	}
	ifaces, err := seqpatch.Read(c, base.Interfaces, r.classAt)
	if err != nil {
		return malformed(fmt.Errorf("interfaces: %w", err))
	}
	if !ifaces.Empty() {
		h.Interfaces = &ifaces
	}
	if err := v.VisitHeader(h); err != nil {
		return err
	}

	count := c.U16()
	if err := c.Err(); err != nil {
		return malformed(err)
	}
	for i := 0; i < count; i++ {
		name, err := r.utf8At(c)
		if err != nil {
			return malformed(fmt.Errorf("section %d name: %w", i, err))
		}
		size := c.U32()
		payload := c.Bytes(int(size))
		if err := c.Err(); err != nil {
			return malformed(fmt.Errorf("section %s: %w", name, err))
		}
		if err := r.section(v, base, name, payload); err != nil {
			return err
		}
	}
	if c.Remaining() != 0 {
		return fmt.Errorf("%w: %d trailing bytes", ErrFormat, c.Remaining())
	}
	return v.VisitEnd()
}

func (r *Reader) section(v Visitor, base *classfile.Class, name string, payload []byte) error {
	c := wire.NewCursor(payload)
	var visitErr error
	decode := func() error {
		switch name {
		case SectionSource:
			file, err := r.optional(c, false)
			if err != nil {
				return err
			}
			debug, err := r.optional(c, false)
			if err != nil {
				return err
			}
			if err := exhausted(c); err != nil {
				return err
			}
			visitErr = v.VisitSource(file, debug)
		case SectionInnerClasses:
			p, err := seqpatch.Read(c, base.InnerClasses, r.innerClass)
			if err != nil {
				return err
			}
			if err := exhausted(c); err != nil {
				return err
			}
			visitErr = v.VisitInnerClasses(p)
		case SectionOuterClass:
			class, err := r.optional(c, true)
			if err != nil {
				return err
			}
			method, err := r.optional(c, false)
			if err != nil {
				return err
			}
			desc, err := r.optional(c, false)
			if err != nil {
				return err
			}
			if err := exhausted(c); err != nil {
				return err
			}
			visitErr = v.VisitOuterClass(class, method, desc)
		case SectionNestHost:
			host, err := r.optional(c, true)
			if err != nil {
				return err
			}
			if err := exhausted(c); err != nil {
				return err
			}
			visitErr = v.VisitNestHost(host)
		case SectionNestMembers, SectionPermittedSubclasses:
			baseList := base.NestMembers
			if name == SectionPermittedSubclasses {
				baseList = base.PermittedSubclasses
			}
			p, err := seqpatch.Read(c, baseList, r.classAt)
			if err != nil {
				return err
			}
			if err := exhausted(c); err != nil {
				return err
			}
			if name == SectionNestMembers {
				visitErr = v.VisitNestMembers(p)
			} else {
				visitErr = v.VisitPermittedSubclasses(p)
			}
		case SectionVisibleAnnotations, SectionInvisibleAnnotations:
			visible := name == SectionVisibleAnnotations
			p, err := seqpatch.Read(c, base.Annotations(visible), r.annotationElem)
			if err != nil {
				return err
			}
			if err := exhausted(c); err != nil {
				return err
			}
			visitErr = v.VisitAnnotations(p, visible)
		case SectionVisibleTypeAnnotations, SectionInvisibleTypeAnnotations:
			visible := name == SectionVisibleTypeAnnotations
			p, err := seqpatch.Read(c, base.TypeAnnotations(visible), r.typeAnnotation)
			if err != nil {
				return err
			}
			if err := exhausted(c); err != nil {
				return err
			}
			visitErr = v.VisitTypeAnnotations(p, visible)
		default:
			attr, ok := strings.CutPrefix(name, CustomPrefix)
			if !ok {
				// written by a newer version
				return nil
			}
			if len(payload) == 0 {
				return errors.New("empty payload")
			}
			switch payload[0] {
			case attributeRemoved:
				if len(payload) != 1 {
					return fmt.Errorf("%d bytes after removal marker", len(payload)-1)
				}
				visitErr = v.VisitCustomAttribute(attr, AttributeEdit{Removed: true})
			case attributePresent:
				visitErr = v.VisitCustomAttribute(attr, AttributeEdit{Data: bytes.Clone(payload[1:])})
			default:
				return fmt.Errorf("unknown marker 0x%02x", payload[0])
			}
		}
		return nil
	}
	if err := decode(); err != nil {
		return malformed(fmt.Errorf("section %s: %w", name, err))
	}
	return visitErr
}

func exhausted(c *wire.Cursor) error {
	if n := c.Remaining(); n != 0 {
		return fmt.Errorf("%d bytes left over", n)
	}
	return nil
}
