// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2025 TotallyGamerJet

package seqpatch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/totallygamerjet/classdiff/wire"
)

func strEq(x, y string) bool { return x == y }

func writeString(b *wire.Builder, v string) error {
	b.PutUTF8(v)
	return nil
}

func readString(c *wire.Cursor) (string, error) {
	s := c.UTF8()
	return s, c.Err()
}

func split(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

var pairs = []struct {
	name string
	a, b string
}{
	{"both empty", "", ""},
	{"identical", "a,b,c", "a,b,c"},
	{"from empty", "", "a,b"},
	{"to empty", "a,b", ""},
	{"disjoint", "a,b,c", "x,y"},
	{"append", "Runnable", "Runnable,Serializable"},
	{"prepend", "b,c", "a,b,c"},
	{"middle change", "a,b,c,d", "a,x,y,d"},
	{"interleaved", "a,b,c,a,b,b,a", "c,b,a,b,a,c"},
	{"duplicates", "a,a,a", "a,a"},
	{"reverse", "a,b,c,d,e", "e,d,c,b,a"},
}

func TestDiffApplyRoundTrip(t *testing.T) {
	for _, alg := range []Algorithm{Myers, Matcher} {
		for _, tt := range pairs {
			t.Run(alg.String()+"/"+tt.name, func(t *testing.T) {
				a, b := split(tt.a), split(tt.b)
				p := DiffWith(alg, a, b, strEq)
				got, err := p.Apply(a, strEq)
				require.NoError(t, err)
				assert.Equal(t, len(b), len(got))
				for i := range b {
					assert.Equal(t, b[i], got[i])
				}
				if tt.a == tt.b {
					assert.Empty(t, p.Deltas)
				}
			})
		}
	}
}

func TestDiffAppendIsSingleInsert(t *testing.T) {
	p := Diff([]string{"Runnable"}, []string{"Runnable", "Serializable"})
	require.Len(t, p.Deltas, 1)
	d := p.Deltas[0]
	assert.Equal(t, Insert, d.Type)
	assert.Equal(t, 1, d.Source.Position)
	assert.Empty(t, d.Source.Lines)
	assert.Equal(t, []string{"Serializable"}, d.Target.Lines)
}

func TestDiffToEmptyIsDeleteAll(t *testing.T) {
	p := Diff([]string{"a", "b"}, nil)
	require.Len(t, p.Deltas, 1)
	assert.Equal(t, Delete, p.Deltas[0].Type)
	assert.Equal(t, 0, p.Deltas[0].Source.Position)
	assert.Equal(t, []string{"a", "b"}, p.Deltas[0].Source.Lines)
}

func TestMyersIsMinimal(t *testing.T) {
	a := split("a,b,c,a,b,b,a")
	b := split("c,b,a,b,a,c")
	p := Diff(a, b)
	edits := 0
	for _, d := range p.Deltas {
		edits += len(d.Source.Lines) + len(d.Target.Lines)
	}
	// LCS length is 4, so 7+6-2*4 edits
	assert.Equal(t, 5, edits)
}

func TestDiffFuncCustomEquality(t *testing.T) {
	type entry struct {
		name    string
		version int
	}
	byName := func(x, y entry) bool { return x.name == y.name }
	a := []entry{{"a", 1}, {"b", 1}}
	b := []entry{{"a", 2}, {"b", 2}}
	assert.Empty(t, DiffFunc(a, b, byName).Deltas)
}

func TestCodecRoundTrip(t *testing.T) {
	for _, tt := range pairs {
		t.Run(tt.name, func(t *testing.T) {
			a, b := split(tt.a), split(tt.b)
			var buf wire.Builder
			require.NoError(t, Write(&buf, Diff(a, b), writeString))

			c := wire.NewCursor(buf.Bytes())
			p, err := Read(c, a, readString)
			require.NoError(t, err)
			assert.Equal(t, 0, c.Remaining())

			got, err := p.Apply(a, strEq)
			require.NoError(t, err)
			assert.Equal(t, len(b), len(got))
			for i := range b {
				assert.Equal(t, b[i], got[i])
			}
		})
	}
}

func TestCodecLayout(t *testing.T) {
	var buf wire.Builder
	p := Diff([]string{"x", "y"}, []string{"x", "z"})
	require.NoError(t, Write(&buf, p, writeString))
	assert.Equal(t, []byte{
		0, 1, // one delta
		byte(Change),
		0, 1, // position
		0, 1, // source length
		0, 1, // target length
		0, 1, 'z',
	}, buf.Bytes())
}

func TestReadOutOfRangeBase(t *testing.T) {
	var buf wire.Builder
	require.NoError(t, Write(&buf, Diff([]string{"a", "b", "c"}, []string{"a"}), writeString))

	_, err := Read(wire.NewCursor(buf.Bytes()), []string{"a"}, readString)
	require.ErrorIs(t, err, ErrPatchFailed)
	var ae *ApplyError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, 1, ae.Position)
}

func TestReadUnknownDeltaType(t *testing.T) {
	_, err := Read(wire.NewCursor([]byte{0, 1, 9}), []string(nil), readString)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestReadTruncated(t *testing.T) {
	_, err := Read(wire.NewCursor([]byte{0, 1, byte(Insert), 0}), []string(nil), readString)
	require.ErrorIs(t, err, wire.ErrTruncated)
}

func TestApplyMismatch(t *testing.T) {
	p := Diff([]string{"a", "b"}, []string{"a", "c"})
	_, err := p.Apply([]string{"a", "x"}, strEq)
	require.ErrorIs(t, err, ErrPatchFailed)

	_, err = p.Apply([]string{"a"}, strEq)
	require.ErrorIs(t, err, ErrPatchFailed)
}

func TestWriteOverflow(t *testing.T) {
	big := make([]int, 0x10000)
	p := Diff(nil, big)
	var buf wire.Builder
	err := Write(&buf, p, func(b *wire.Builder, v int) error {
		b.PutU8(v)
		return nil
	})
	require.ErrorIs(t, err, wire.ErrOverflow)
}

func TestDiffComparableMatchesDiffWith(t *testing.T) {
	for _, alg := range []Algorithm{Myers, Matcher} {
		for _, tt := range pairs {
			a, b := split(tt.a), split(tt.b)
			assert.Equal(t, DiffWith(alg, a, b, strEq), DiffComparable(alg, a, b), "%s/%s", alg, tt.name)
		}
	}
}

func TestMatcherManyDistinct(t *testing.T) {
	const n = 20000
	a := make([]int, n)
	b := make([]int, n)
	for i := range a {
		a[i] = i
		b[i] = i + n/2
	}
	p := DiffComparable(Matcher, a, b)
	got, err := p.Apply(a, func(x, y int) bool { return x == y })
	require.NoError(t, err)
	assert.Equal(t, b, got)
}

func FuzzDiffApply(f *testing.F) {
	f.Add([]byte("Here is text"), []byte("Here are some texts that I have"))
	f.Add([]byte{}, []byte{1, 2, 3})
	f.Fuzz(func(t *testing.T, old, new []byte) {
		eq := func(x, y byte) bool { return x == y }
		for _, alg := range []Algorithm{Myers, Matcher} {
			p := DiffWith(alg, old, new, eq)
			var buf wire.Builder
			err := Write(&buf, p, func(b *wire.Builder, v byte) error {
				b.PutU8(int(v))
				return nil
			})
			if err != nil {
				t.Fatalf("write failed: %s", err)
			}
			back, err := Read(wire.NewCursor(buf.Bytes()), old, func(c *wire.Cursor) (byte, error) {
				return byte(c.U8()), c.Err()
			})
			if err != nil {
				t.Fatalf("read failed: %s", err)
			}
			got, err := back.Apply(old, eq)
			if err != nil {
				t.Fatalf("apply failed: %s", err)
			}
			if string(got) != string(new) {
				t.Errorf("%s: patch did not recreate the sequence", alg)
			}
		}
	})
}
