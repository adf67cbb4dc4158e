// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2025 TotallyGamerJet

package classfile

// Annotation is a RuntimeVisibleAnnotations or RuntimeInvisibleAnnotations entry.
type Annotation struct {
	Desc   string // field descriptor of the annotation type
	Values []Element
}

// Element is one name/value pair of an annotation.
type Element struct {
	Name  string
	Value Value
}

// TypeAnnotation is an annotation on a type use. TypeRef is the packed
// target_type/target_info value and TypePath the steps into the type.
type TypeAnnotation struct {
	TypeRef  uint32
	TypePath []TypePathStep
	Annotation
}

// TypePathStep is one type_path entry.
type TypePathStep struct {
	Kind uint8
	Arg  uint8
}

// Value is an annotation element value. The concrete types are Byte, Bool,
// Char, Short, Int, Long, Float, Double, String, ClassRef, Enum, Array and
// Annotation.
type Value interface {
	isValue()
}

type (
	Byte   int8
	Bool   bool
	Char   uint16
	Short  int16
	Int    int32
	Long   int64
	Float  float32
	Double float64
	String string
	// ClassRef is a class literal, stored as its descriptor.
	ClassRef string
	// Enum is an enum constant.
	Enum struct {
		Desc string
		Name string
	}
	Array []Value
)

func (Byte) isValue()       {}
func (Bool) isValue()       {}
func (Char) isValue()       {}
func (Short) isValue()      {}
func (Int) isValue()        {}
func (Long) isValue()       {}
func (Float) isValue()      {}
func (Double) isValue()     {}
func (String) isValue()     {}
func (ClassRef) isValue()   {}
func (Enum) isValue()       {}
func (Array) isValue()      {}
func (Annotation) isValue() {}

// Clone returns a deep copy of a.
func (a Annotation) Clone() Annotation {
	if a.Values == nil {
		return a
	}
	vals := make([]Element, len(a.Values))
	for i, e := range a.Values {
		vals[i] = Element{Name: e.Name, Value: cloneValue(e.Value)}
	}
	return Annotation{Desc: a.Desc, Values: vals}
}

func cloneValue(v Value) Value {
	switch v := v.(type) {
	case Array:
		if v == nil {
			return v
		}
		out := make(Array, len(v))
		for i, e := range v {
			out[i] = cloneValue(e)
		}
		return out
	case Annotation:
		return v.Clone()
	}
	return v
}
