// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2025 TotallyGamerJet

package seqpatch

import (
	"strconv"

	difflib "github.com/pmezard/go-difflib/difflib"
)

// scanKeys maps each element to the key of the first earlier element equal
// to it under eq. Every lookup scans the distinct values seen so far.
func scanKeys[T any](eq func(x, y T) bool) func(T) string {
	var reps []T
	return func(v T) string {
		for i, r := range reps {
			if eq(r, v) {
				return strconv.Itoa(i)
			}
		}
		reps = append(reps, v)
		return strconv.Itoa(len(reps) - 1)
	}
}

// mapKeys is scanKeys for ==.
func mapKeys[T comparable]() func(T) string {
	seen := make(map[T]string)
	return func(v T) string {
		k, ok := seen[v]
		if !ok {
			k = strconv.Itoa(len(seen))
			seen[v] = k
		}
		return k
	}
}

// matcherScript runs difflib's SequenceMatcher over a and b. The matcher only
// compares strings, so every element is first mapped to a string by key.
func matcherScript[T any](a, b []T, key func(T) string) []edit {
	ka := make([]string, len(a))
	for i, v := range a {
		ka[i] = key(v)
	}
	kb := make([]string, len(b))
	for i, v := range b {
		kb[i] = key(v)
	}

	// no autojunk: a repeated element is not noise
	m := difflib.NewMatcherWithJunk(ka, kb, false, nil)
	var script []edit
	for _, oc := range m.GetOpCodes() {
		switch oc.Tag {
		case 'e':
			for i := 0; i < oc.I2-oc.I1; i++ {
				script = append(script, edit{op: opKeep, x: oc.I1 + i, y: oc.J1 + i})
			}
		case 'd', 'r', 'i':
			for x := oc.I1; x < oc.I2; x++ {
				script = append(script, edit{op: opDelete, x: x, y: oc.J1})
			}
			for y := oc.J1; y < oc.J2; y++ {
				script = append(script, edit{op: opInsert, x: oc.I2, y: y})
			}
		}
	}
	return script
}
