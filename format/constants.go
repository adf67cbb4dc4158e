// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2025 TotallyGamerJet

// Package format reads and writes the classdiff container.
//
// File format:
//
//	0	4	magic 0xEBABEFAC
//	4	2	format version
//	6	2	constant pool count (highest index + 1)
//	8	??	constant pool entries
//	??	4	class version, 0xFFFFFFFF when unchanged
//	??	4	access flags, 0xFFFFFFFF when unchanged
//	??	2	name class index, 0 when unchanged
//	??	2	signature utf8 index, 0 when unchanged
//	??	2	super name class index, 0 when unchanged
//	??	??	interfaces sequence patch, a bare 0 count when unchanged
//	??	2	section count
//	??	??	sections of (u16 name utf8 index, u32 length, payload)
//
// A changed optional string that became absent is written as the index of
// the empty string.
package format

const (
	Magic = 0xEBABEFAC

	V1   = 1
	VMax = V1

	// NoChange is the class version and access sentinel for "unchanged".
	NoChange = 0xFFFFFFFF
)

// Section names.
const (
	SectionSource                   = "Source"
	SectionInnerClasses             = "InnerClasses"
	SectionOuterClass               = "OuterClass"
	SectionNestHost                 = "NestHost"
	SectionNestMembers              = "NestMembers"
	SectionPermittedSubclasses      = "PermittedSubclasses"
	SectionVisibleAnnotations       = "VisibleAnnotations"
	SectionInvisibleAnnotations     = "InvisibleAnnotations"
	SectionVisibleTypeAnnotations   = "VisibleTypeAnnotations"
	SectionInvisibleTypeAnnotations = "InvisibleTypeAnnotations"

	// CustomPrefix is prepended to the attribute name of a custom attribute section.
	CustomPrefix = "Custom"
)

// Constant pool tags, numbered as in the class file format.
const (
	TagUTF8    = 1
	TagInteger = 3
	TagFloat   = 4
	TagLong    = 5
	TagDouble  = 6
	TagClass   = 7
	TagString  = 8
)

// custom attribute payload markers
const (
	attributeRemoved = 0x00
	attributePresent = 0x01
)
