// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2025 TotallyGamerJet

package classfile

import (
	"bytes"
	"math"
	"slices"
)

// Equal reports whether a and b hold the same metadata. Nil and empty lists
// are equal, and attributes compare as a name to bytes mapping.
func Equal(a, b *Class) bool {
	return a.Version == b.Version &&
		a.Access == b.Access &&
		a.Name == b.Name &&
		a.Signature == b.Signature &&
		a.SuperName == b.SuperName &&
		slices.Equal(a.Interfaces, b.Interfaces) &&
		a.SourceFile == b.SourceFile &&
		a.SourceDebug == b.SourceDebug &&
		slices.Equal(a.InnerClasses, b.InnerClasses) &&
		a.OuterClass == b.OuterClass &&
		a.OuterMethod == b.OuterMethod &&
		a.OuterMethodDesc == b.OuterMethodDesc &&
		a.NestHost == b.NestHost &&
		slices.Equal(a.NestMembers, b.NestMembers) &&
		slices.Equal(a.PermittedSubclasses, b.PermittedSubclasses) &&
		slices.EqualFunc(a.VisibleAnnotations, b.VisibleAnnotations, EqualAnnotation) &&
		slices.EqualFunc(a.InvisibleAnnotations, b.InvisibleAnnotations, EqualAnnotation) &&
		slices.EqualFunc(a.VisibleTypeAnnotations, b.VisibleTypeAnnotations, EqualTypeAnnotation) &&
		slices.EqualFunc(a.InvisibleTypeAnnotations, b.InvisibleTypeAnnotations, EqualTypeAnnotation) &&
		equalAttributes(a.Attributes, b.Attributes)
}

func equalAttributes(a, b []Attribute) bool {
	if len(a) != len(b) {
		return false
	}
	for _, x := range a {
		found := false
		for _, y := range b {
			if x.Name == y.Name {
				if !bytes.Equal(x.Data, y.Data) {
					return false
				}
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// EqualAnnotation compares descriptors and element pairs in order.
func EqualAnnotation(a, b Annotation) bool {
	if a.Desc != b.Desc || len(a.Values) != len(b.Values) {
		return false
	}
	for i := range a.Values {
		if a.Values[i].Name != b.Values[i].Name || !EqualValue(a.Values[i].Value, b.Values[i].Value) {
			return false
		}
	}
	return true
}

// EqualTypeAnnotation compares the target, path and annotation.
func EqualTypeAnnotation(a, b TypeAnnotation) bool {
	return a.TypeRef == b.TypeRef &&
		slices.Equal(a.TypePath, b.TypePath) &&
		EqualAnnotation(a.Annotation, b.Annotation)
}

// EqualValue compares element values. Floating point values compare by bit
// pattern so NaN equals itself.
func EqualValue(a, b Value) bool {
	switch x := a.(type) {
	case Float:
		y, ok := b.(Float)
		return ok && math.Float32bits(float32(x)) == math.Float32bits(float32(y))
	case Double:
		y, ok := b.(Double)
		return ok && math.Float64bits(float64(x)) == math.Float64bits(float64(y))
	case Array:
		y, ok := b.(Array)
		return ok && slices.EqualFunc(x, y, EqualValue)
	case Annotation:
		y, ok := b.(Annotation)
		return ok && EqualAnnotation(x, y)
	case Enum:
		y, ok := b.(Enum)
		return ok && x == y
	}
	return a == b
}
