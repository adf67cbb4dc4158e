// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2025 TotallyGamerJet

// Package classdiff computes compact structural diffs between two versions
// of a JVM class and applies them again.
//
// Diff walks two classfile.Class values and encodes every changed field into
// a container (see package format). Patch replays a container onto a class in
// place. For every pair of classes a and b:
//
//	data, _ := classdiff.Diff(a, b)
//	_ = classdiff.Patch(a, data) // a now equals b
//
// Attributes without a structural model are shipped as bsdiff deltas when the
// old class already has them and as full contents when it does not.
package classdiff

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/totallygamerjet/classdiff/bsdiff"
	"github.com/totallygamerjet/classdiff/classfile"
	"github.com/totallygamerjet/classdiff/format"
	"github.com/totallygamerjet/classdiff/seqpatch"
	"github.com/totallygamerjet/classdiff/wire"
)

// Differ compares classes. A Differ holds only configuration and may be
// shared; every Diff call uses its own writer.
type Differ struct {
	cfg config
}

// NewDiffer returns a Differ configured by opts.
func NewDiffer(opts ...Option) *Differ {
	return &Differ{cfg: newConfig(opts)}
}

// Diff returns the container that turns a into b.
func Diff(a, b *classfile.Class, opts ...Option) ([]byte, error) {
	return NewDiffer(opts...).Diff(a, b)
}

// Diff returns the container that turns a into b.
func (d *Differ) Diff(a, b *classfile.Class) ([]byte, error) {
	w := format.NewWriter()
	if err := d.Accept(a, b, w); err != nil {
		return nil, err
	}
	data, err := w.Bytes()
	if err != nil {
		return nil, err
	}
	if d.cfg.log != nil {
		d.cfg.log.Debug(logPrefix+"encoded", "class", b.Name, "constants", w.Symbols().Len(), "bytes", len(data))
	}
	return data, nil
}

func eqString(x, y string) bool { return x == y }

func eqInnerClass(x, y classfile.InnerClass) bool { return x == y }

func scalar(old, new uint32, field string) (uint32, error) {
	if old == new {
		return format.NoChange, nil
	}
	if new == format.NoChange {
		return 0, fmt.Errorf("%w: %s 0x%X is the no change sentinel", wire.ErrOverflow, field, new)
	}
	return new, nil
}

// Accept walks a and b and reports every difference to v, in container order.
func (d *Differ) Accept(a, b *classfile.Class, v format.Visitor) error {
	v = traced(d.cfg.log, "diff", v)
	alg := d.cfg.alg

	h := format.Header{FormatVersion: format.V1}
	var err error
	if h.ClassVersion, err = scalar(a.Version, b.Version, "class version"); err != nil {
		return err
	}
	if h.Access, err = scalar(a.Access, b.Access, "access"); err != nil {
		return err
	}
	h.Name = format.EditOf(a.Name, b.Name)
	h.Signature = format.EditOf(a.Signature, b.Signature)
	h.SuperName = format.EditOf(a.SuperName, b.SuperName)
	if !slices.Equal(a.Interfaces, b.Interfaces) {
		p := seqpatch.DiffComparable(alg, a.Interfaces, b.Interfaces)
		h.Interfaces = &p
	}
	if err := v.VisitHeader(h); err != nil {
		return err
	}

	if a.SourceFile != b.SourceFile || a.SourceDebug != b.SourceDebug {
		err := v.VisitSource(format.EditOf(a.SourceFile, b.SourceFile), format.EditOf(a.SourceDebug, b.SourceDebug))
		if err != nil {
			return err
		}
	}

	if !slices.Equal(a.InnerClasses, b.InnerClasses) {
		if err := v.VisitInnerClasses(seqpatch.DiffComparable(alg, a.InnerClasses, b.InnerClasses)); err != nil {
			return err
		}
	}

	if a.OuterClass != b.OuterClass || a.OuterMethod != b.OuterMethod || a.OuterMethodDesc != b.OuterMethodDesc {
		err := v.VisitOuterClass(
			format.EditOf(a.OuterClass, b.OuterClass),
			format.EditOf(a.OuterMethod, b.OuterMethod),
			format.EditOf(a.OuterMethodDesc, b.OuterMethodDesc),
		)
		if err != nil {
			return err
		}
	}

	if a.NestHost != b.NestHost {
		if err := v.VisitNestHost(format.Set(b.NestHost)); err != nil {
			return err
		}
	}

	if !slices.Equal(a.NestMembers, b.NestMembers) {
		if err := v.VisitNestMembers(seqpatch.DiffComparable(alg, a.NestMembers, b.NestMembers)); err != nil {
			return err
		}
	}

	if !slices.Equal(a.PermittedSubclasses, b.PermittedSubclasses) {
		if err := v.VisitPermittedSubclasses(seqpatch.DiffComparable(alg, a.PermittedSubclasses, b.PermittedSubclasses)); err != nil {
			return err
		}
	}

	if err := d.annotated(a, b, v); err != nil {
		return err
	}
	if err := d.attributes(a.Attributes, b.Attributes, v); err != nil {
		return err
	}
	return v.VisitEnd()
}

func (d *Differ) annotated(a, b *classfile.Class, v format.AnnotatedVisitor) error {
	for _, visible := range []bool{true, false} {
		old, new := a.Annotations(visible), b.Annotations(visible)
		if !slices.EqualFunc(old, new, classfile.EqualAnnotation) {
			if err := v.VisitAnnotations(seqpatch.DiffWith(d.cfg.alg, old, new, classfile.EqualAnnotation), visible); err != nil {
				return err
			}
		}
	}
	for _, visible := range []bool{true, false} {
		old, new := a.TypeAnnotations(visible), b.TypeAnnotations(visible)
		if !slices.EqualFunc(old, new, classfile.EqualTypeAnnotation) {
			if err := v.VisitTypeAnnotations(seqpatch.DiffWith(d.cfg.alg, old, new, classfile.EqualTypeAnnotation), visible); err != nil {
				return err
			}
		}
	}
	return nil
}

// attributes reports removed attributes, then changed ones as bsdiff deltas,
// then added ones with their full contents.
func (d *Differ) attributes(old, new []classfile.Attribute, v format.AttributeVisitor) error {
	newAttrs := &classfile.Class{Attributes: new}
	oldAttrs := &classfile.Class{Attributes: old}

	seen := make(map[string]bool, len(old))
	for _, a := range old {
		if seen[a.Name] {
			continue
		}
		seen[a.Name] = true
		if _, ok := newAttrs.Attribute(a.Name); !ok {
			if err := v.VisitCustomAttribute(a.Name, format.AttributeEdit{Removed: true}); err != nil {
				return err
			}
		}
	}
	for _, a := range old {
		if !seen[a.Name] {
			continue
		}
		delete(seen, a.Name)
		data, ok := newAttrs.Attribute(a.Name)
		if !ok || bytes.Equal(a.Data, data) {
			continue
		}
		delta, err := bsdiff.DiffLevel(a.Data, data, d.cfg.level)
		if err != nil {
			return fmt.Errorf("custom attribute %s: %w", a.Name, err)
		}
		if err := v.VisitCustomAttribute(a.Name, format.AttributeEdit{Data: delta}); err != nil {
			return err
		}
	}
	added := make(map[string]bool)
	for _, a := range new {
		if _, ok := oldAttrs.Attribute(a.Name); ok || added[a.Name] {
			continue
		}
		added[a.Name] = true
		if err := v.VisitCustomAttribute(a.Name, format.AttributeEdit{Data: bytes.Clone(a.Data)}); err != nil {
			return err
		}
	}
	return nil
}
