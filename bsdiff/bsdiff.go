// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2003-2005 Colin Percival
// SPDX-FileCopyrightText: 2019 Gabriel Ochsenhofer
// SPDX-FileCopyrightText: 2025 TotallyGamerJet

// Package bsdiff computes and applies the opaque byte deltas classdiff uses
// for attributes it has no structural model for.
//
// The delta is a classic BSDIFF40 file:
//
//	0	8	"BSDIFF40"
//	8	8	length of bzip2ed ctrl block
//	16	8	length of bzip2ed diff block
//	24	8	length of new file
//	32	??	bzip2ed ctrl block
//	??	??	bzip2ed diff block
//	??	??	bzip2ed extra block
//
// with the control block a set of triples (x,y,z) meaning "add x bytes from
// old to x bytes from the diff block; copy y bytes from the extra block; seek
// forwards in old by z bytes".
package bsdiff

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/dsnet/compress/bzip2"

	"github.com/totallygamerjet/classdiff/wire"
)

const (
	magic      = "BSDIFF40"
	headerSize = 32
)

// Diff returns a delta that converts oldData into newData using the best bzip2 compression.
func Diff(oldData, newData []byte) ([]byte, error) {
	return DiffLevel(oldData, newData, bzip2.BestCompression)
}

// DiffLevel is Diff with an explicit bzip2 compression level.
func DiffLevel(oldData, newData []byte, level int) ([]byte, error) {
	cfg := &bzip2.WriterConfig{Level: level}

	sa := make([]int, len(oldData)+1)
	qsufsort(sa, oldData)

	ctrl, diffBlock, extraBlock := scan(sa, oldData, newData)

	out := new(wire.Builder)
	header := make([]byte, headerSize)
	copy(header, magic)
	offtout(len(newData), header[24:])
	out.PutBytes(header)

	if err := compressBlock(out, ctrl, cfg); err != nil {
		return nil, err
	}
	ctrlEnd := out.Len()
	if err := compressBlock(out, diffBlock, cfg); err != nil {
		return nil, err
	}
	diffEnd := out.Len()
	if err := compressBlock(out, extraBlock, cfg); err != nil {
		return nil, err
	}

	offtout(ctrlEnd-headerSize, header[8:])
	offtout(diffEnd-ctrlEnd, header[16:])
	if _, err := out.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	out.PutBytes(header)
	return out.Bytes(), nil
}

func compressBlock(w io.Writer, data []byte, cfg *bzip2.WriterConfig) (err error) {
	zw, err := bzip2.NewWriter(w, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err2 := zw.Close(); err2 != nil && err == nil {
			err = err2
		}
	}()
	_, err = zw.Write(data)
	return err
}

// scan walks newData looking for approximate matches in oldData and returns
// the uncompressed ctrl, diff and extra blocks.
func scan(sa []int, oldData, newData []byte) (ctrl, diffBlock, extraBlock []byte) {
	oldSize, newSize := len(oldData), len(newData)
	diffBlock = make([]byte, 0, newSize)
	extraBlock = make([]byte, 0, newSize)
	triple := make([]byte, 24)

	var scanPos, matchLen, lastScan, lastPos, lastOffset, pos int
	for scanPos < newSize {
		oldScore := 0
		scanPos += matchLen
		for scsc := scanPos; scanPos < newSize; scanPos++ {
			matchLen = search(sa, oldData, newData[scanPos:], 0, oldSize, &pos)

			for ; scsc < scanPos+matchLen; scsc++ {
				if scsc+lastOffset < oldSize && oldData[scsc+lastOffset] == newData[scsc] {
					oldScore++
				}
			}
			if (matchLen == oldScore && matchLen != 0) || matchLen > oldScore+8 {
				break
			}
			if scanPos+lastOffset < oldSize && oldData[scanPos+lastOffset] == newData[scanPos] {
				oldScore--
			}
		}

		if matchLen == oldScore && scanPos != newSize {
			continue
		}

		// extend the previous match forwards
		s, bestF, lenF := 0, 0, 0
		for i := 0; lastScan+i < scanPos && lastPos+i < oldSize; {
			if oldData[lastPos+i] == newData[lastScan+i] {
				s++
			}
			i++
			if s*2-i > bestF*2-lenF {
				bestF = s
				lenF = i
			}
		}

		// and the next match backwards
		lenB := 0
		if scanPos < newSize {
			s, bestB := 0, 0
			for i := 1; scanPos >= lastScan+i && pos >= i; i++ {
				if oldData[pos-i] == newData[scanPos-i] {
					s++
				}
				if s*2-i > bestB*2-lenB {
					bestB = s
					lenB = i
				}
			}
		}

		// split any overlap where it scores best
		if lastScan+lenF > scanPos-lenB {
			overlap := (lastScan + lenF) - (scanPos - lenB)
			s, bestS, lenS := 0, 0, 0
			for i := 0; i < overlap; i++ {
				if newData[lastScan+lenF-overlap+i] == oldData[lastPos+lenF-overlap+i] {
					s++
				}
				if newData[scanPos-lenB+i] == oldData[pos-lenB+i] {
					s--
				}
				if s > bestS {
					bestS = s
					lenS = i + 1
				}
			}
			lenF += lenS - overlap
			lenB -= lenS
		}

		for i := 0; i < lenF; i++ {
			diffBlock = append(diffBlock, newData[lastScan+i]-oldData[lastPos+i])
		}
		extraLen := (scanPos - lenB) - (lastScan + lenF)
		extraBlock = append(extraBlock, newData[lastScan+lenF:lastScan+lenF+extraLen]...)

		offtout(lenF, triple[0:])
		offtout(extraLen, triple[8:])
		offtout((pos-lenB)-(lastPos+lenF), triple[16:])
		ctrl = append(ctrl, triple...)

		lastScan = scanPos - lenB
		lastPos = pos - lenB
		lastOffset = pos - scanPos
	}
	return ctrl, diffBlock, extraBlock
}

func search(sa []int, oldData, newData []byte, st, en int, pos *int) int {
	if en-st < 2 {
		x := matchlen(oldData[sa[st]:], newData)
		y := matchlen(oldData[sa[en]:], newData)
		if x > y {
			*pos = sa[st]
			return x
		}
		*pos = sa[en]
		return y
	}

	mid := st + (en-st)/2
	n := min(len(oldData)-sa[mid], len(newData))
	if bytes.Compare(oldData[sa[mid]:sa[mid]+n], newData[:n]) < 0 {
		return search(sa, oldData, newData, mid, en, pos)
	}
	return search(sa, oldData, newData, st, mid, pos)
}

func matchlen(a, b []byte) int {
	i := 0
	for i < len(a) && i < len(b) && a[i] == b[i] {
		i++
	}
	return i
}

// offtout puts x as a sign-magnitude little endian int64 into buf
func offtout(x int, buf []byte) {
	y := uint64(x)
	if x < 0 {
		y = uint64(-x) | 1<<63
	}
	binary.LittleEndian.PutUint64(buf, y)
}

// qsufsort builds the suffix array of buf into sa using Larsson-Sadakane
// doubling. rank holds the current group of every suffix.
func qsufsort(sa []int, buf []byte) {
	var buckets [256]int
	rank := make([]int, len(sa))
	n := len(buf)

	for _, c := range buf {
		buckets[c]++
	}
	for i := 1; i < 256; i++ {
		buckets[i] += buckets[i-1]
	}
	for i := 255; i > 0; i-- {
		buckets[i] = buckets[i-1]
	}
	buckets[0] = 0

	for i, c := range buf {
		buckets[c]++
		sa[buckets[c]] = i
	}
	sa[0] = n
	for i, c := range buf {
		rank[i] = buckets[c]
	}
	rank[n] = 0
	for i := 1; i < 256; i++ {
		if buckets[i] == buckets[i-1]+1 {
			sa[buckets[i]] = -1
		}
	}
	sa[0] = -1

	for h := 1; sa[0] != -(n + 1); h += h {
		ln := 0
		i := 0
		for i < n+1 {
			if sa[i] < 0 {
				ln -= sa[i]
				i -= sa[i]
				continue
			}
			if ln != 0 {
				sa[i-ln] = -ln
			}
			ln = rank[sa[i]] + 1 - i
			split(sa, rank, i, ln, h)
			i += ln
			ln = 0
		}
		if ln != 0 {
			sa[i-ln] = -ln
		}
	}

	for i := 0; i < n+1; i++ {
		sa[rank[i]] = i
	}
}

func split(sa, rank []int, start, ln, h int) {
	if ln < 16 {
		for k, j := start, 0; k < start+ln; k += j {
			j = 1
			x := rank[sa[k]+h]
			for i := 1; k+i < start+ln; i++ {
				if rank[sa[k+i]+h] < x {
					x = rank[sa[k+i]+h]
					j = 0
				}
				if rank[sa[k+i]+h] == x {
					sa[k+j], sa[k+i] = sa[k+i], sa[k+j]
					j++
				}
			}
			for i := 0; i < j; i++ {
				rank[sa[k+i]] = k + j - 1
			}
			if j == 1 {
				sa[k] = -1
			}
		}
		return
	}

	x := rank[sa[start+ln/2]+h]
	var jj, kk int
	for i := start; i < start+ln; i++ {
		if rank[sa[i]+h] < x {
			jj++
		} else if rank[sa[i]+h] == x {
			kk++
		}
	}
	jj += start
	kk += jj

	i, j, k := start, 0, 0
	for i < jj {
		switch v := rank[sa[i]+h]; {
		case v < x:
			i++
		case v == x:
			sa[i], sa[jj+j] = sa[jj+j], sa[i]
			j++
		default:
			sa[i], sa[kk+k] = sa[kk+k], sa[i]
			k++
		}
	}
	for jj+j < kk {
		if rank[sa[jj+j]+h] == x {
			j++
		} else {
			sa[jj+j], sa[kk+k] = sa[kk+k], sa[jj+j]
			k++
		}
	}
	if jj > start {
		split(sa, rank, start, jj-start, h)
	}

	for i := 0; i < kk-jj; i++ {
		rank[sa[jj+i]] = kk - 1
	}
	if jj == kk-1 {
		sa[jj] = -1
	}

	if start+ln > kk {
		split(sa, rank, kk, start+ln-kk, h)
	}
}
