// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2025 TotallyGamerJet

package wire

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderBigEndian(t *testing.T) {
	var b Builder
	b.PutU8(0xab)
	b.PutU16(0x1234)
	b.PutU32(0xdeadbeef)
	b.PutU64(0x0102030405060708)
	require.NoError(t, b.Err())
	assert.Equal(t, []byte{
		0xab,
		0x12, 0x34,
		0xde, 0xad, 0xbe, 0xef,
		1, 2, 3, 4, 5, 6, 7, 8,
	}, b.Bytes())

	c := NewCursor(b.Bytes())
	assert.Equal(t, 0xab, c.U8())
	assert.Equal(t, 0x1234, c.U16())
	assert.Equal(t, uint32(0xdeadbeef), c.U32())
	assert.Equal(t, uint64(0x0102030405060708), c.U64())
	assert.Equal(t, 0, c.Remaining())
	require.NoError(t, c.Err())
}

func TestBuilderOverflowIsSticky(t *testing.T) {
	var b Builder
	b.PutU16(0x10000)
	b.PutU16(1)
	b.PutU8(-1)
	require.ErrorIs(t, b.Err(), ErrOverflow)
	assert.Contains(t, b.Err().Error(), "65536")
	// the overflowing value is not written
	assert.Equal(t, []byte{0, 1}, b.Bytes())
}

func TestBuilderSeek(t *testing.T) {
	var b Builder
	b.PutU16(0)
	b.PutU32(7)
	_, err := b.Seek(0, io.SeekStart)
	require.NoError(t, err)
	b.PutU16(0xbeef)
	assert.Equal(t, []byte{0xbe, 0xef, 0, 0, 0, 7}, b.Bytes())

	_, err = b.Seek(-2, io.SeekEnd)
	require.NoError(t, err)
	_, _ = b.Write([]byte{1, 2, 3})
	assert.Equal(t, []byte{0xbe, 0xef, 0, 0, 1, 2, 3}, b.Bytes())
	assert.Equal(t, 7, b.Len())

	_, err = b.Seek(-1, io.SeekStart)
	require.Error(t, err)
}

func TestBuilderGrowth(t *testing.T) {
	const puts = 100000
	allocs := testing.AllocsPerRun(5, func() {
		var b Builder
		for i := 0; i < puts; i++ {
			b.PutU16(i & 0xffff)
			b.PutU8(i & 0xff)
		}
	})
	// capacity doubles, so allocations grow with the log of the size
	assert.Less(t, allocs, 64.0)

	var b Builder
	for i := 0; i < puts; i++ {
		b.PutU16(i & 0xffff)
	}
	require.NoError(t, b.Err())
	got := b.Bytes()
	require.Len(t, got, 2*puts)
	assert.Equal(t, []byte{0x86, 0x9f}, got[2*(puts-1):])
}

func TestCursorTruncation(t *testing.T) {
	c := NewCursor([]byte{0, 1, 2})
	assert.Equal(t, 1, c.U16())
	assert.Equal(t, uint32(0), c.U32())
	require.ErrorIs(t, c.Err(), ErrTruncated)
	// later reads keep returning zero values
	assert.Equal(t, 0, c.U8())
	assert.Equal(t, 2, c.Pos())
}

func TestModifiedUTF8(t *testing.T) {
	tests := []struct {
		in   string
		want []byte
	}{
		{"", nil},
		{"java/lang/Object", []byte("java/lang/Object")},
		{"\x00", []byte{0xc0, 0x80}},
		{"é", []byte{0xc3, 0xa9}},
		{"€", []byte{0xe2, 0x82, 0xac}},
		{"😀", []byte{0xed, 0xa0, 0xbd, 0xed, 0xb8, 0x80}},
	}
	for _, tt := range tests {
		got := AppendModifiedUTF8(nil, tt.in)
		assert.Equal(t, tt.want, got, "encode %q", tt.in)
		back, err := DecodeModifiedUTF8(got)
		require.NoError(t, err)
		assert.Equal(t, tt.in, back)
	}
}

func TestModifiedUTF8Malformed(t *testing.T) {
	for _, in := range [][]byte{{0xc3}, {0xe2, 0x82}, {0xff}, {0xe2, 0x02, 0x80}} {
		_, err := DecodeModifiedUTF8(in)
		require.ErrorIs(t, err, ErrBadUTF8, "% x", in)
	}
}

func TestPutUTF8Invalid(t *testing.T) {
	var b Builder
	b.PutUTF8("bad\xffname")
	require.ErrorIs(t, b.Err(), ErrBadUTF8)
	assert.Zero(t, b.Len())
}

func TestUTF8RoundTrip(t *testing.T) {
	var b Builder
	b.PutUTF8("Hello.java")
	b.PutUTF8("")
	require.NoError(t, b.Err())

	c := NewCursor(b.Bytes())
	assert.Equal(t, "Hello.java", c.UTF8())
	assert.Equal(t, "", c.UTF8())
	require.NoError(t, c.Err())
}

func FuzzModifiedUTF8(f *testing.F) {
	f.Add("Here is text")
	f.Add("\x00ÿ\U0001f600")
	f.Fuzz(func(t *testing.T, s string) {
		enc := AppendModifiedUTF8(nil, s)
		back, err := DecodeModifiedUTF8(enc)
		if err != nil {
			t.Fatalf("decode failed: %s", err)
		}
		if again := AppendModifiedUTF8(nil, back); string(again) != string(enc) {
			t.Errorf("re-encoding differs: % x != % x", again, enc)
		}
	})
}
