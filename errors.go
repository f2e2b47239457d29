// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bysquare

import "github.com/unixdj/bysquare/frame"

// Errors returned from the byte level.
type (
	FormatError        = frame.FormatError
	ChecksumError      = frame.ChecksumError
	DecompressionError = frame.DecompressionError
	TextDecodeError    = frame.TextDecodeError
)

// A ValidationError reports a field that breaks a format rule.  Path
// locates the field, as in "payments[0].bankAccounts[1].iban".
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	return "bysquare: invalid " + e.Path + ": " + e.Reason
}

// An UnsupportedVersionError reports a format revision this package
// does not know, either requested by a Config or found in a header.
type UnsupportedVersionError struct {
	Version Version
}

func (e *UnsupportedVersionError) Error() string {
	return "bysquare: unsupported version " + e.Version.String()
}
