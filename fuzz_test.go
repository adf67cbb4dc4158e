// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2025 TotallyGamerJet

package classdiff

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/totallygamerjet/classdiff/classfile"
	"github.com/totallygamerjet/classdiff/seqpatch"
)

func split(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func fuzzClass(name, ifaces, source string, attr []byte) *classfile.Class {
	c := &classfile.Class{
		Version:     uint32(len(attr)),
		Name:        name,
		Interfaces:  split(ifaces),
		SourceFile:  source,
		NestMembers: split(source),
	}
	if len(attr) > 0 {
		c.Attributes = []classfile.Attribute{{Name: "Data", Data: attr}}
	}
	return c
}

func FuzzDiffPatch(f *testing.F) {
	f.Add("A", "Runnable", "A.java", []byte("old"), "B", "Runnable,Serializable", "", []byte("new"))
	f.Add("", "", "", []byte(nil), "X", "a,b,c", "x,y", []byte{0, 1, 2, 3})
	f.Add("X", "a,b,c,d", "p,q", []byte("same"), "X", "d,c,b,a", "q", []byte("same"))
	f.Add("A", "I", "A.java", []byte(nil), "A", "I", "bad\xffname", []byte(nil))
	f.Fuzz(func(t *testing.T, nameA, ifA, srcA string, attrA []byte, nameB, ifB, srcB string, attrB []byte) {
		valid := true
		for _, s := range []string{nameA, ifA, srcA, nameB, ifB, srcB} {
			valid = valid && utf8.ValidString(s)
		}
		a := fuzzClass(nameA, ifA, srcA, attrA)
		b := fuzzClass(nameB, ifB, srcB, attrB)
		for _, alg := range []seqpatch.Algorithm{seqpatch.Myers, seqpatch.Matcher} {
			data, err := Diff(a, b, WithAlgorithm(alg), WithLogger(nil))
			if errors.Is(err, ErrOverflow) {
				t.Skip()
			}
			if errors.Is(err, ErrBadUTF8) {
				assert.False(t, valid, "valid strings rejected: %s", err)
				assert.Nil(t, data)
				continue
			}
			if err != nil {
				t.Fatalf("diff failed: %s", err)
			}
			got := a.Clone()
			if err := Patch(got, data, WithLogger(nil)); err != nil {
				t.Fatalf("patch failed: %s", err)
			}
			if !classfile.Equal(b, got) {
				t.Errorf("%s: patch did not recreate the class", alg)
			}
		}
	})
}

func FuzzPatch(f *testing.F) {
	seed, _ := Diff(fuzzClass("A", "I,J", "A.java", []byte("x")), fuzzClass("B", "J", "", []byte("y")))
	f.Add(seed)
	f.Add([]byte{0xEB, 0xAB, 0xEF, 0xAC, 0, 1, 0, 0})
	f.Fuzz(func(t *testing.T, data []byte) {
		// arbitrary bytes must fail cleanly, never panic
		_ = Patch(fuzzClass("A", "I,J", "A.java", []byte("x")), data, WithLogger(nil))
	})
}
