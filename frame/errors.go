// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frame

import "fmt"

// A TextDecodeError reports a string that is not unpadded base32hex.
type TextDecodeError struct {
	Offset int  // offset of the bad character, or the text length
	Char   byte // the bad character, or 0 for a bad length
}

func (e *TextDecodeError) Error() string {
	if e.Char == 0 {
		return fmt.Sprintf("bysquare: invalid text length %d", e.Offset)
	}
	return fmt.Sprintf("bysquare: invalid character %q at offset %d",
		e.Char, e.Offset)
}

// A DecompressionError reports a corrupt or truncated deflate stream.
type DecompressionError struct {
	Err error
}

func (e *DecompressionError) Error() string {
	return "bysquare: decompression failed: " + e.Err.Error()
}

func (e *DecompressionError) Unwrap() error { return e.Err }

// A ChecksumError reports a payload whose CRC-32 does not match the
// stored one.
type ChecksumError struct {
	Want, Got uint32
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("bysquare: checksum mismatch: stored %08x, computed %08x",
		e.Want, e.Got)
}

// A FormatError reports structurally malformed data.  Field names the
// offending field, if any.
type FormatError struct {
	Field  string
	Reason string
}

func (e *FormatError) Error() string {
	if e.Field == "" {
		return "bysquare: malformed data: " + e.Reason
	}
	return "bysquare: malformed " + e.Field + ": " + e.Reason
}
