// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2025 TotallyGamerJet

package wire

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf16"
)

// ErrBadUTF8 reports bytes that are not valid modified UTF-8, or a string
// that is not valid UTF-8 and so has no modified UTF-8 form.
var ErrBadUTF8 = errors.New("wire: malformed modified UTF-8")

// AppendModifiedUTF8 appends the class-file encoding of s to dst: NUL becomes
// the two byte form 0xC0 0x80 and supplementary characters are written as a
// surrogate pair of three byte sequences.
func AppendModifiedUTF8(dst []byte, s string) []byte {
	for _, r := range s {
		switch {
		case r == 0:
			dst = append(dst, 0xc0, 0x80)
		case r < 0x80:
			dst = append(dst, byte(r))
		case r < 0x800:
			dst = append(dst, 0xc0|byte(r>>6), 0x80|byte(r&0x3f))
		case r < 0x10000:
			dst = appendUnit(dst, uint16(r))
		default:
			hi, lo := utf16.EncodeRune(r)
			dst = appendUnit(dst, uint16(hi))
			dst = appendUnit(dst, uint16(lo))
		}
	}
	return dst
}

func appendUnit(dst []byte, u uint16) []byte {
	return append(dst, 0xe0|byte(u>>12), 0x80|byte((u>>6)&0x3f), 0x80|byte(u&0x3f))
}

// DecodeModifiedUTF8 is the inverse of AppendModifiedUTF8.
func DecodeModifiedUTF8(p []byte) (string, error) {
	var sb strings.Builder
	sb.Grow(len(p))
	var pending rune = -1 // high surrogate waiting for its pair
	flush := func() {
		if pending >= 0 {
			sb.WriteRune(pending)
			pending = -1
		}
	}
	for i := 0; i < len(p); {
		b := p[i]
		var u rune
		switch {
		case b&0x80 == 0:
			u = rune(b)
			i++
		case b&0xe0 == 0xc0:
			if i+1 >= len(p) || p[i+1]&0xc0 != 0x80 {
				return "", fmt.Errorf("%w: at byte %d", ErrBadUTF8, i)
			}
			u = rune(b&0x1f)<<6 | rune(p[i+1]&0x3f)
			i += 2
		case b&0xf0 == 0xe0:
			if i+2 >= len(p) || p[i+1]&0xc0 != 0x80 || p[i+2]&0xc0 != 0x80 {
				return "", fmt.Errorf("%w: at byte %d", ErrBadUTF8, i)
			}
			u = rune(b&0x0f)<<12 | rune(p[i+1]&0x3f)<<6 | rune(p[i+2]&0x3f)
			i += 3
		default:
			return "", fmt.Errorf("%w: at byte %d", ErrBadUTF8, i)
		}
		if pending >= 0 && utf16.IsSurrogate(u) && u >= 0xdc00 {
			sb.WriteRune(utf16.DecodeRune(pending, u))
			pending = -1
			continue
		}
		flush()
		if utf16.IsSurrogate(u) && u < 0xdc00 {
			pending = u
			continue
		}
		sb.WriteRune(u)
	}
	flush()
	return sb.String(), nil
}
