// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2003-2005 Colin Percival
// SPDX-FileCopyrightText: 2019 Gabriel Ochsenhofer
// SPDX-FileCopyrightText: 2025 TotallyGamerJet

package bsdiff

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/dsnet/compress/bzip2"
)

// ErrCorrupt is wrapped by every error Patch returns for a malformed delta.
var ErrCorrupt = errors.New("bsdiff: corrupt patch")

// Patch applies a delta produced by Diff to oldData and returns the new bytes.
func Patch(oldData, delta []byte) ([]byte, error) {
	if len(delta) < headerSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the header", ErrCorrupt, len(delta))
	}
	if !bytes.Equal(delta[:8], []byte(magic)) {
		return nil, fmt.Errorf("%w: bad magic %q", ErrCorrupt, delta[:8])
	}

	ctrlLen := offtin(delta[8:])
	diffLen := offtin(delta[16:])
	newSize := offtin(delta[24:])
	if ctrlLen < 0 || diffLen < 0 || newSize < 0 ||
		ctrlLen > len(delta)-headerSize || diffLen > len(delta)-headerSize-ctrlLen {
		return nil, fmt.Errorf("%w: ctrl %d diff %d new size %d", ErrCorrupt, ctrlLen, diffLen, newSize)
	}

	ctrlEnd := headerSize + ctrlLen
	diffEnd := ctrlEnd + diffLen
	ctrlR, err := openBlock(delta[headerSize:ctrlEnd])
	if err != nil {
		return nil, err
	}
	defer ctrlR.Close()
	diffR, err := openBlock(delta[ctrlEnd:diffEnd])
	if err != nil {
		return nil, err
	}
	defer diffR.Close()
	extraR, err := openBlock(delta[diffEnd:])
	if err != nil {
		return nil, err
	}
	defer extraR.Close()

	// out only grows as blocks actually decompress
	var out bytes.Buffer
	out.Grow(min(newSize, 1<<20))
	triple := make([]byte, 24)
	oldPos, newPos := 0, 0
	for newPos < newSize {
		if _, err := io.ReadFull(ctrlR, triple); err != nil {
			return nil, fmt.Errorf("%w: ctrl block: %w", ErrCorrupt, err)
		}
		add, copyLen, seek := offtin(triple[0:]), offtin(triple[8:]), offtin(triple[16:])
		if add < 0 || copyLen < 0 || add > newSize-newPos {
			return nil, fmt.Errorf("%w: add %d runs past new size %d at %d", ErrCorrupt, add, newSize, newPos)
		}

		if _, err := io.CopyN(&out, diffR, int64(add)); err != nil {
			return nil, fmt.Errorf("%w: diff block: %w", ErrCorrupt, err)
		}
		added := out.Bytes()[newPos:]
		for i := range added {
			if p := oldPos + i; p >= 0 && p < len(oldData) {
				added[i] += oldData[p]
			}
		}
		newPos += add
		oldPos += add

		if copyLen > newSize-newPos {
			return nil, fmt.Errorf("%w: copy %d runs past new size %d at %d", ErrCorrupt, copyLen, newSize, newPos)
		}
		if _, err := io.CopyN(&out, extraR, int64(copyLen)); err != nil {
			return nil, fmt.Errorf("%w: extra block: %w", ErrCorrupt, err)
		}
		newPos += copyLen
		oldPos += seek
	}
	return out.Bytes(), nil
}

func openBlock(p []byte) (*bzip2.Reader, error) {
	r, err := bzip2.NewReader(bytes.NewReader(p), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return r, nil
}

// offtin reads a sign-magnitude little endian int64
func offtin(buf []byte) int {
	y := binary.LittleEndian.Uint64(buf)
	v := int(y &^ (1 << 63))
	if y&(1<<63) != 0 {
		return -v
	}
	return v
}
