// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2025 TotallyGamerJet

package classdiff

import (
	"fmt"

	"github.com/totallygamerjet/classdiff/bsdiff"
	"github.com/totallygamerjet/classdiff/classfile"
	"github.com/totallygamerjet/classdiff/format"
	"github.com/totallygamerjet/classdiff/seqpatch"
)

// Patcher is a format.Visitor that applies each section to one class in
// place. The class must not be touched by anyone else while it is patched.
type Patcher struct {
	class *classfile.Class
}

var _ format.Visitor = (*Patcher)(nil)

// NewPatcher returns a Patcher that mutates c.
func NewPatcher(c *classfile.Class) *Patcher {
	return &Patcher{class: c}
}

// Patch applies the container data to c in place. If it fails c is left
// partially patched and must be discarded.
func Patch(c *classfile.Class, data []byte, opts ...Option) error {
	if c == nil {
		return ErrNilClass
	}
	cfg := newConfig(opts)
	r, err := format.NewReader(data)
	if err != nil {
		return err
	}
	if err := r.Accept(traced(cfg.log, "patch", NewPatcher(c)), c); err != nil {
		if cfg.log != nil {
			cfg.log.Debug(logPrefix+"patch failed", "class", c.Name, "format", r.Version(), "err", err)
		}
		return err
	}
	return nil
}

func applyList[T any](field string, p seqpatch.Patch[T], list *[]T, eq func(x, y T) bool) error {
	out, err := p.Apply(*list, eq)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	*list = out
	return nil
}

func (p *Patcher) VisitHeader(h format.Header) error {
	c := p.class
	if h.ClassVersion != format.NoChange {
		c.Version = h.ClassVersion
	}
	if h.Access != format.NoChange {
		c.Access = h.Access
	}
	c.Name = h.Name.Apply(c.Name)
	c.Signature = h.Signature.Apply(c.Signature)
	c.SuperName = h.SuperName.Apply(c.SuperName)
	if h.Interfaces != nil {
		return applyList("interfaces", *h.Interfaces, &c.Interfaces, eqString)
	}
	return nil
}

func (p *Patcher) VisitSource(file, debug format.StringEdit) error {
	p.class.SourceFile = file.Apply(p.class.SourceFile)
	p.class.SourceDebug = debug.Apply(p.class.SourceDebug)
	return nil
}

func (p *Patcher) VisitInnerClasses(patch seqpatch.Patch[classfile.InnerClass]) error {
	return applyList(format.SectionInnerClasses, patch, &p.class.InnerClasses, eqInnerClass)
}

func (p *Patcher) VisitOuterClass(class, method, desc format.StringEdit) error {
	p.class.OuterClass = class.Apply(p.class.OuterClass)
	p.class.OuterMethod = method.Apply(p.class.OuterMethod)
	p.class.OuterMethodDesc = desc.Apply(p.class.OuterMethodDesc)
	return nil
}

func (p *Patcher) VisitNestHost(host format.StringEdit) error {
	p.class.NestHost = host.Apply(p.class.NestHost)
	return nil
}

func (p *Patcher) VisitNestMembers(patch seqpatch.Patch[string]) error {
	return applyList(format.SectionNestMembers, patch, &p.class.NestMembers, eqString)
}

func (p *Patcher) VisitPermittedSubclasses(patch seqpatch.Patch[string]) error {
	return applyList(format.SectionPermittedSubclasses, patch, &p.class.PermittedSubclasses, eqString)
}

func (p *Patcher) VisitAnnotations(patch seqpatch.Patch[classfile.Annotation], visible bool) error {
	list := p.class.Annotations(visible)
	if err := applyList("annotations", patch, &list, classfile.EqualAnnotation); err != nil {
		return err
	}
	p.class.SetAnnotations(visible, list)
	return nil
}

func (p *Patcher) VisitTypeAnnotations(patch seqpatch.Patch[classfile.TypeAnnotation], visible bool) error {
	list := p.class.TypeAnnotations(visible)
	if err := applyList("type annotations", patch, &list, classfile.EqualTypeAnnotation); err != nil {
		return err
	}
	p.class.SetTypeAnnotations(visible, list)
	return nil
}

// VisitCustomAttribute removes the attribute, patches its bytes when it
// exists, or adds it.
func (p *Patcher) VisitCustomAttribute(name string, e format.AttributeEdit) error {
	if e.Removed {
		p.class.RemoveAttribute(name)
		return nil
	}
	old, ok := p.class.Attribute(name)
	if !ok {
		p.class.SetAttribute(name, e.Data)
		return nil
	}
	data, err := bsdiff.Patch(old, e.Data)
	if err != nil {
		return fmt.Errorf("custom attribute %s: %w", name, err)
	}
	p.class.SetAttribute(name, data)
	return nil
}

func (p *Patcher) VisitEnd() error {
	return nil
}
