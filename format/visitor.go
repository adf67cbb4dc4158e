// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2025 TotallyGamerJet

package format

import (
	"github.com/totallygamerjet/classdiff/classfile"
	"github.com/totallygamerjet/classdiff/seqpatch"
)

// StringEdit is the change to one optional string. The zero value keeps the
// current value; a change to "" clears it.
type StringEdit struct {
	Changed bool
	Value   string
}

// Keep leaves a string untouched.
var Keep StringEdit

// Set replaces a string with v.
func Set(v string) StringEdit {
	return StringEdit{Changed: true, Value: v}
}

// Clear makes a string absent.
func Clear() StringEdit {
	return StringEdit{Changed: true}
}

// EditOf returns the edit that turns old into new.
func EditOf(old, new string) StringEdit {
	if old == new {
		return Keep
	}
	return Set(new)
}

// Apply returns cur with the edit applied.
func (e StringEdit) Apply(cur string) string {
	if !e.Changed {
		return cur
	}
	return e.Value
}

// Header is the fixed part of a container.
type Header struct {
	FormatVersion uint16
	ClassVersion  uint32 // NoChange or the new version
	Access        uint32 // NoChange or the new flags
	Name          StringEdit
	Signature     StringEdit
	SuperName     StringEdit
	Interfaces    *seqpatch.Patch[string] // nil when unchanged
}

// NoChangeHeader returns a header that changes nothing.
func NoChangeHeader() Header {
	return Header{FormatVersion: V1, ClassVersion: NoChange, Access: NoChange}
}

// AttributeEdit is the change to one custom attribute. When the attribute
// already exists Data is a bsdiff delta against its bytes, otherwise it is
// the full contents.
type AttributeEdit struct {
	Removed bool
	Data    []byte
}

// AnnotatedVisitor receives annotation list patches.
type AnnotatedVisitor interface {
	VisitAnnotations(p seqpatch.Patch[classfile.Annotation], visible bool) error
	VisitTypeAnnotations(p seqpatch.Patch[classfile.TypeAnnotation], visible bool) error
}

// AttributeVisitor receives custom attribute changes.
type AttributeVisitor interface {
	VisitCustomAttribute(name string, e AttributeEdit) error
}

// MemberVisitor is what a field, method or record component change is made
// of. Visitor embeds it for the class itself.
type MemberVisitor interface {
	AnnotatedVisitor
	AttributeVisitor
	VisitEnd() error
}

// Visitor receives the sections of one container in order. VisitHeader is
// called first and VisitEnd last. Returning an error stops the walk.
type Visitor interface {
	MemberVisitor
	VisitHeader(h Header) error
	VisitSource(file, debug StringEdit) error
	VisitInnerClasses(p seqpatch.Patch[classfile.InnerClass]) error
	VisitOuterClass(class, method, desc StringEdit) error
	VisitNestHost(host StringEdit) error
	VisitNestMembers(p seqpatch.Patch[string]) error
	VisitPermittedSubclasses(p seqpatch.Patch[string]) error
}

// Multi returns a Visitor that calls each of vs in order. The first error
// stops the fan out and is returned.
func Multi(vs ...Visitor) Visitor {
	return multi(append([]Visitor(nil), vs...))
}

type multi []Visitor

func (m multi) each(f func(v Visitor) error) error {
	for _, v := range m {
		if err := f(v); err != nil {
			return err
		}
	}
	return nil
}

func (m multi) VisitHeader(h Header) error {
	return m.each(func(v Visitor) error { return v.VisitHeader(h) })
}

func (m multi) VisitSource(file, debug StringEdit) error {
	return m.each(func(v Visitor) error { return v.VisitSource(file, debug) })
}

func (m multi) VisitInnerClasses(p seqpatch.Patch[classfile.InnerClass]) error {
	return m.each(func(v Visitor) error { return v.VisitInnerClasses(p) })
}

func (m multi) VisitOuterClass(class, method, desc StringEdit) error {
	return m.each(func(v Visitor) error { return v.VisitOuterClass(class, method, desc) })
}

func (m multi) VisitNestHost(host StringEdit) error {
	return m.each(func(v Visitor) error { return v.VisitNestHost(host) })
}

func (m multi) VisitNestMembers(p seqpatch.Patch[string]) error {
	return m.each(func(v Visitor) error { return v.VisitNestMembers(p) })
}

func (m multi) VisitPermittedSubclasses(p seqpatch.Patch[string]) error {
	return m.each(func(v Visitor) error { return v.VisitPermittedSubclasses(p) })
}

func (m multi) VisitAnnotations(p seqpatch.Patch[classfile.Annotation], visible bool) error {
	return m.each(func(v Visitor) error { return v.VisitAnnotations(p, visible) })
}

func (m multi) VisitTypeAnnotations(p seqpatch.Patch[classfile.TypeAnnotation], visible bool) error {
	return m.each(func(v Visitor) error { return v.VisitTypeAnnotations(p, visible) })
}

func (m multi) VisitCustomAttribute(name string, e AttributeEdit) error {
	return m.each(func(v Visitor) error { return v.VisitCustomAttribute(name, e) })
}

func (m multi) VisitEnd() error {
	return m.each(func(v Visitor) error { return v.VisitEnd() })
}
