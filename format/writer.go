// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2025 TotallyGamerJet

package format

import (
	"errors"
	"fmt"

	"github.com/totallygamerjet/classdiff/classfile"
	"github.com/totallygamerjet/classdiff/seqpatch"
	"github.com/totallygamerjet/classdiff/wire"
)

// Writer is a Visitor that encodes what it is given into a container.
// A Writer serves one diff and is not safe for concurrent use.
type Writer struct {
	symbols  SymbolTable
	version  int
	header   wire.Builder
	sections wire.Builder
	count    int
	visited  bool
	err      error
}

var _ Visitor = (*Writer)(nil)

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{version: V1}
}

// Symbols exposes the writer's constant pool.
func (w *Writer) Symbols() *SymbolTable {
	return &w.symbols
}

func (w *Writer) fail(err error) error {
	if w.err == nil {
		w.err = err
	}
	return err
}

func (w *Writer) putString(b *wire.Builder, e StringEdit) {
	if !e.Changed {
		b.PutU16(0)
		return
	}
	b.PutU16(w.symbols.UTF8(e.Value))
}

func (w *Writer) putClass(b *wire.Builder, e StringEdit) {
	if !e.Changed {
		b.PutU16(0)
		return
	}
	b.PutU16(w.symbols.Class(e.Value))
}

func (w *Writer) writeClassName(b *wire.Builder, name string) error {
	b.PutU16(w.symbols.Class(name))
	return nil
}

func (w *Writer) writeInnerClass(b *wire.Builder, ic classfile.InnerClass) error {
	b.PutU16(w.symbols.Class(ic.Name))
	w.putClass(b, StringEdit{Changed: ic.OuterName != "", Value: ic.OuterName})
	w.putString(b, StringEdit{Changed: ic.InnerName != "", Value: ic.InnerName})
	b.PutU16(int(ic.Access))
	return nil
}

func (w *Writer) writeAnnotation(b *wire.Builder, a classfile.Annotation) error {
	return putAnnotation(b, &w.symbols, a)
}

func (w *Writer) writeTypeAnnotation(b *wire.Builder, a classfile.TypeAnnotation) error {
	return putTypeAnnotation(b, &w.symbols, a)
}

// section encodes one (name, length, payload) record.
func (w *Writer) section(name string, body func(b *wire.Builder) error) error {
	if w.err != nil {
		return w.err
	}
	var b wire.Builder
	if err := body(&b); err != nil {
		return w.fail(fmt.Errorf("%s: %w", name, err))
	}
	if err := b.Err(); err != nil {
		return w.fail(fmt.Errorf("%s: %w", name, err))
	}
	w.sections.PutU16(w.symbols.UTF8(name))
	w.sections.PutU32(uint32(b.Len()))
	w.sections.PutBytes(b.Bytes())
	w.count++
	return nil
}

func (w *Writer) VisitHeader(h Header) error {
	if w.visited {
		return w.fail(errors.New("format: header visited twice"))
	}
	if h.FormatVersion < V1 || h.FormatVersion > VMax {
		return w.fail(fmt.Errorf("format: cannot write version %d, supported %d through %d", h.FormatVersion, V1, VMax))
	}
	w.visited = true
	w.version = int(h.FormatVersion)

	b := &w.header
	b.PutU32(h.ClassVersion)
	b.PutU32(h.Access)
	w.putClass(b, h.Name)
	w.putString(b, h.Signature)
	w.putClass(b, h.SuperName)
	if h.Interfaces == nil {
		b.PutU16(0)
	} else if err := seqpatch.Write(b, *h.Interfaces, w.writeClassName); err != nil {
		return w.fail(fmt.Errorf("interfaces: %w", err))
	}
	if err := b.Err(); err != nil {
		return w.fail(err)
	}
	return nil
}

func (w *Writer) VisitSource(file, debug StringEdit) error {
	return w.section(SectionSource, func(b *wire.Builder) error {
		w.putString(b, file)
		w.putString(b, debug)
		return nil
	})
}

func (w *Writer) VisitInnerClasses(p seqpatch.Patch[classfile.InnerClass]) error {
	return w.section(SectionInnerClasses, func(b *wire.Builder) error {
		return seqpatch.Write(b, p, w.writeInnerClass)
	})
}

func (w *Writer) VisitOuterClass(class, method, desc StringEdit) error {
	return w.section(SectionOuterClass, func(b *wire.Builder) error {
		w.putClass(b, class)
		w.putString(b, method)
		w.putString(b, desc)
		return nil
	})
}

func (w *Writer) VisitNestHost(host StringEdit) error {
	return w.section(SectionNestHost, func(b *wire.Builder) error {
		w.putClass(b, host)
		return nil
	})
}

func (w *Writer) VisitNestMembers(p seqpatch.Patch[string]) error {
	return w.section(SectionNestMembers, func(b *wire.Builder) error {
		return seqpatch.Write(b, p, w.writeClassName)
	})
}

func (w *Writer) VisitPermittedSubclasses(p seqpatch.Patch[string]) error {
	return w.section(SectionPermittedSubclasses, func(b *wire.Builder) error {
		return seqpatch.Write(b, p, w.writeClassName)
	})
}

func (w *Writer) VisitAnnotations(p seqpatch.Patch[classfile.Annotation], visible bool) error {
	name := SectionInvisibleAnnotations
	if visible {
		name = SectionVisibleAnnotations
	}
	return w.section(name, func(b *wire.Builder) error {
		return seqpatch.Write(b, p, w.writeAnnotation)
	})
}

func (w *Writer) VisitTypeAnnotations(p seqpatch.Patch[classfile.TypeAnnotation], visible bool) error {
	name := SectionInvisibleTypeAnnotations
	if visible {
		name = SectionVisibleTypeAnnotations
	}
	return w.section(name, func(b *wire.Builder) error {
		return seqpatch.Write(b, p, w.writeTypeAnnotation)
	})
}

func (w *Writer) VisitCustomAttribute(name string, e AttributeEdit) error {
	return w.section(CustomPrefix+name, func(b *wire.Builder) error {
		if e.Removed {
			b.PutU8(attributeRemoved)
			return nil
		}
		b.PutU8(attributePresent)
		b.PutBytes(e.Data)
		return nil
	})
}

func (w *Writer) VisitEnd() error {
	return w.err
}

// Bytes returns the encoded container. It fails without returning any bytes
// if a value did not fit its field. A Writer whose header was never visited
// encodes an unchanged header.
func (w *Writer) Bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	if !w.visited {
		if err := w.VisitHeader(NoChangeHeader()); err != nil {
			return nil, err
		}
	}
	if err := w.sections.Err(); err != nil {
		return nil, err
	}

	var out wire.Builder
	out.PutU32(Magic)
	out.PutU16(w.version)
	if err := w.symbols.WriteTo(&out); err != nil {
		return nil, fmt.Errorf("constant pool: %w", err)
	}
	out.PutBytes(w.header.Bytes())
	out.PutU16(w.count)
	out.PutBytes(w.sections.Bytes())
	if err := out.Err(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
