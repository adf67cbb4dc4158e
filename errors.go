// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2025 TotallyGamerJet

package classdiff

import (
	"errors"

	"github.com/totallygamerjet/classdiff/bsdiff"
	"github.com/totallygamerjet/classdiff/format"
	"github.com/totallygamerjet/classdiff/seqpatch"
	"github.com/totallygamerjet/classdiff/wire"
)

var (
	// ErrFormat reports bytes that are not a valid container.
	ErrFormat = format.ErrFormat
	// ErrPatchFailed reports a container that does not fit the class it is
	// applied to. The class is left partially patched and must be discarded.
	ErrPatchFailed = seqpatch.ErrPatchFailed
	// ErrOverflow reports a value too wide for its field. Nothing is written.
	ErrOverflow = wire.ErrOverflow
	// ErrBadUTF8 reports a string in the class that is not valid UTF-8 and
	// so cannot be encoded without loss. Nothing is written.
	ErrBadUTF8 = wire.ErrBadUTF8
	// ErrCorrupt reports a custom attribute delta that cannot be decoded.
	ErrCorrupt = bsdiff.ErrCorrupt
	// ErrNilClass is returned by Patch when there is no class to patch.
	ErrNilClass = errors.New("classdiff: nil class")
)
