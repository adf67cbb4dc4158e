// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2025 TotallyGamerJet

package bsdiff

import (
	"bytes"
	"math"
	"testing"

	"github.com/dsnet/compress/bzip2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Fuzz_offt(f *testing.F) {
	f.Add(9001)
	f.Add(-9001)
	f.Add(1 << 40)
	f.Fuzz(func(t *testing.T, x int) {
		if x == math.MinInt64 {
			t.Skip("no sign-magnitude form")
		}
		buf := make([]byte, 8)
		offtout(x, buf)

		y := offtin(buf)

		if x != y {
			t.Errorf("x != y: %d != %d", x, y)
		}
	})
}

func FuzzDiffPatch(f *testing.F) {
	f.Add([]byte("Here is text"), []byte("Here are some texts that I have"))
	f.Add([]byte{}, []byte{})
	f.Fuzz(func(t *testing.T, old, new []byte) {
		patch, err := Diff(old, new)
		if err != nil {
			t.Fatalf("diff failed: %s", err)
		}
		new2, err := Patch(old, patch)
		if err != nil {
			t.Fatalf("patch failed: %s", err)
		}
		if !bytes.Equal(new, new2) {
			t.Errorf("patch did not recreate the file")
		}
	})
}

func TestDiffLevels(t *testing.T) {
	old := bytes.Repeat([]byte("RuntimeVisibleAnnotations"), 40)
	new := append(bytes.Repeat([]byte("RuntimeVisibleAnnotations"), 39), "Deprecated"...)
	for _, level := range []int{bzip2.BestSpeed, bzip2.DefaultCompression, bzip2.BestCompression} {
		patch, err := DiffLevel(old, new, level)
		require.NoError(t, err)
		got, err := Patch(old, patch)
		require.NoError(t, err)
		assert.Equal(t, new, got)
	}
}

func TestPatchHeader(t *testing.T) {
	patch, err := Diff([]byte("abc"), []byte("abcd"))
	require.NoError(t, err)
	assert.Equal(t, magic, string(patch[:8]))
	assert.Equal(t, 4, offtin(patch[24:]))
}

func TestPatchCorrupt(t *testing.T) {
	good, err := Diff([]byte("abc"), []byte("abcd"))
	require.NoError(t, err)

	badMagic := append([]byte(nil), good...)
	badMagic[0] = 'X'

	hugeCtrl := append([]byte(nil), good...)
	offtout(1<<40, hugeCtrl[8:])

	negative := append([]byte(nil), good...)
	offtout(-1, negative[24:])

	for name, delta := range map[string][]byte{
		"short":     good[:10],
		"magic":     badMagic,
		"ctrl size": hugeCtrl,
		"new size":  negative,
		"truncated": good[:headerSize+offtin(good[8:])+4],
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Patch([]byte("abc"), delta)
			assert.ErrorIs(t, err, ErrCorrupt)
		})
	}
}
