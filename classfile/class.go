// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2025 TotallyGamerJet

// Package classfile is the in-memory class model classdiff reads and mutates.
// Parsing and writing class-file bytes is left to whatever bytecode library
// produces the model.
//
// Optional strings use "" for absent.
package classfile

import "bytes"

// Class is the class-level metadata of one class file.
type Class struct {
	Version   uint32
	Access    uint32
	Name      string
	Signature string
	SuperName string

	// Interfaces, NestMembers and PermittedSubclasses hold binary names,
	// each unique and in declaration order.
	Interfaces []string

	SourceFile  string
	SourceDebug string

	InnerClasses []InnerClass

	OuterClass      string
	OuterMethod     string
	OuterMethodDesc string

	NestHost            string
	NestMembers         []string
	PermittedSubclasses []string

	VisibleAnnotations       []Annotation
	InvisibleAnnotations     []Annotation
	VisibleTypeAnnotations   []TypeAnnotation
	InvisibleTypeAnnotations []TypeAnnotation

	// Attributes holds attributes without a structural model, at most one per name.
	Attributes []Attribute
}

// InnerClass is one InnerClasses entry.
type InnerClass struct {
	Name      string
	OuterName string
	InnerName string
	Access    uint16
}

// Attribute is a named attribute kept as raw bytes.
type Attribute struct {
	Name string
	Data []byte
}

// Annotations returns the visible or invisible annotation list.
func (c *Class) Annotations(visible bool) []Annotation {
	if visible {
		return c.VisibleAnnotations
	}
	return c.InvisibleAnnotations
}

// SetAnnotations replaces the visible or invisible annotation list.
func (c *Class) SetAnnotations(visible bool, list []Annotation) {
	if visible {
		c.VisibleAnnotations = list
	} else {
		c.InvisibleAnnotations = list
	}
}

// TypeAnnotations returns the visible or invisible type annotation list.
func (c *Class) TypeAnnotations(visible bool) []TypeAnnotation {
	if visible {
		return c.VisibleTypeAnnotations
	}
	return c.InvisibleTypeAnnotations
}

// SetTypeAnnotations replaces the visible or invisible type annotation list.
func (c *Class) SetTypeAnnotations(visible bool, list []TypeAnnotation) {
	if visible {
		c.VisibleTypeAnnotations = list
	} else {
		c.InvisibleTypeAnnotations = list
	}
}

// Attribute returns the raw bytes of the named attribute.
func (c *Class) Attribute(name string) ([]byte, bool) {
	for _, a := range c.Attributes {
		if a.Name == name {
			return a.Data, true
		}
	}
	return nil, false
}

// SetAttribute replaces the named attribute's bytes, appending it if absent.
func (c *Class) SetAttribute(name string, data []byte) {
	for i := range c.Attributes {
		if c.Attributes[i].Name == name {
			c.Attributes[i].Data = data
			return
		}
	}
	c.Attributes = append(c.Attributes, Attribute{Name: name, Data: data})
}

// RemoveAttribute deletes the named attribute and reports whether it existed.
func (c *Class) RemoveAttribute(name string) bool {
	for i, a := range c.Attributes {
		if a.Name == name {
			c.Attributes = append(c.Attributes[:i:i], c.Attributes[i+1:]...)
			return true
		}
	}
	return false
}

// Clone returns a deep copy of c.
func (c *Class) Clone() *Class {
	d := *c
	d.Interfaces = cloneSlice(c.Interfaces)
	d.InnerClasses = cloneSlice(c.InnerClasses)
	d.NestMembers = cloneSlice(c.NestMembers)
	d.PermittedSubclasses = cloneSlice(c.PermittedSubclasses)
	d.VisibleAnnotations = cloneAnnotations(c.VisibleAnnotations)
	d.InvisibleAnnotations = cloneAnnotations(c.InvisibleAnnotations)
	d.VisibleTypeAnnotations = cloneTypeAnnotations(c.VisibleTypeAnnotations)
	d.InvisibleTypeAnnotations = cloneTypeAnnotations(c.InvisibleTypeAnnotations)
	if c.Attributes != nil {
		d.Attributes = make([]Attribute, len(c.Attributes))
		for i, a := range c.Attributes {
			d.Attributes[i] = Attribute{Name: a.Name, Data: bytes.Clone(a.Data)}
		}
	}
	return &d
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}

func cloneAnnotations(s []Annotation) []Annotation {
	if s == nil {
		return nil
	}
	out := make([]Annotation, len(s))
	for i, a := range s {
		out[i] = a.Clone()
	}
	return out
}

func cloneTypeAnnotations(s []TypeAnnotation) []TypeAnnotation {
	if s == nil {
		return nil
	}
	out := make([]TypeAnnotation, len(s))
	for i, a := range s {
		out[i] = TypeAnnotation{TypeRef: a.TypeRef, TypePath: cloneSlice(a.TypePath), Annotation: a.Annotation.Clone()}
	}
	return out
}
