// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package bysquare encodes and decodes PAY by square payment orders, the
Slovak Banking Association standard for payment data carried in QR
codes.

Encode turns a PaymentOrder into a short string of base32hex
characters, suitable for QR alphanumeric mode.  Decode reverses it.
The pipeline is

	order -> deburr -> validate -> tab-separated fields
	      -> CRC-32 -> raw deflate -> header -> base32hex

The byte level lives in package frame.  Rendering the string as a QR
symbol is left to a QR library.
*/
package bysquare // import "github.com/unixdj/bysquare"

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/unixdj/bysquare/frame"
)

// A Version is a revision of the PAY by square format.
type Version uint8

const (
	VersionDefault Version = iota // latest revision
	Version100                    // 1.0.0, 2013-02-22
	Version110                    // 1.1.0, 2015-06-24: beneficiary name and address
	Version120                    // 1.2.0, 2025-04-01: beneficiary name is required

	VersionLatest = Version120
)

var versionNames = [...]string{
	VersionDefault: "default",
	Version100:     "1.0.0",
	Version110:     "1.1.0",
	Version120:     "1.2.0",
}

func (v Version) String() string {
	if int(v) < len(versionNames) {
		return versionNames[v]
	}
	return "Version(" + strconv.Itoa(int(v)) + ")"
}

// Supported reports whether v is a known revision.  VersionDefault is
// not a revision.
func (v Version) Supported() bool {
	return Version100 <= v && v <= VersionLatest
}

// Nibble returns the header nibble of v.  VersionDefault maps to the
// latest revision.
func (v Version) Nibble() uint8 {
	if v == VersionDefault {
		v = VersionLatest
	}
	return uint8(v) - 1
}

// VersionFromNibble returns the Version stored as n in a header.  n
// is a 4-bit nibble; larger values do not name a Version.
func VersionFromNibble(n uint8) Version {
	return Version(n) + 1
}

// ParseVersion parses "1.0.0", "1.1.0" or "1.2.0".  The empty string
// is VersionDefault.
func ParseVersion(s string) (Version, error) {
	if s == "" {
		return VersionDefault, nil
	}
	for v := Version100; v <= VersionLatest; v++ {
		if s == versionNames[v] {
			return v, nil
		}
	}
	return 0, fmt.Errorf("bysquare: unknown version %q", s)
}

// Config controls Encode and Decode.  The zero Config, like a nil
// *Config, selects the latest revision with deburring and validation.
type Config struct {
	Version    Version // revision written by Encode; Decode reads it from the header
	NoDeburr   bool    // keep diacritics in free-text fields
	NoValidate bool    // skip validation
}

type settings struct {
	version          Version
	deburr, validate bool
}

func (c *Config) resolve() (settings, error) {
	s := settings{version: VersionLatest, deburr: true, validate: true}
	if c == nil {
		return s, nil
	}
	switch {
	case c.Version == VersionDefault:
	case c.Version.Supported():
		s.version = c.Version
	default:
		return s, &UnsupportedVersionError{Version: c.Version}
	}
	s.deburr = !c.NoDeburr
	s.validate = !c.NoValidate
	return s, nil
}

// Encode returns the PAY by square string of o.  Unless disabled by c,
// free-text fields are deburred and the result is validated first.
// o is not modified.
func Encode(o *PaymentOrder, c *Config) (string, error) {
	s, err := c.resolve()
	if err != nil {
		return "", err
	}
	if o == nil {
		return "", &ValidationError{Path: "payments", Reason: "no payment order"}
	}
	if s.deburr {
		o = o.Deburr()
	}
	if s.validate {
		if err := o.Validate(s.version); err != nil {
			return "", err
		}
	}
	payload, err := o.marshalFields(s.version)
	if err != nil {
		return "", err
	}
	return frame.Seal(frame.Header{Version: s.version.Nibble()}, []byte(payload))
}

// Decode parses a PAY by square string.  The format revision is taken
// from the header.  Unless c disables it, the result is validated.
func Decode(str string, c *Config) (*PaymentOrder, error) {
	s, err := c.resolve()
	if err != nil {
		return nil, err
	}
	f, err := frame.Parse(str)
	if err != nil {
		return nil, err
	}
	if f.Type != 0 || f.Document != 0 {
		return nil, &FormatError{Field: "header",
			Reason: fmt.Sprintf("not a payment order: type %d, document %d",
				f.Type, f.Document)}
	}
	v := VersionFromNibble(f.Version)
	if !v.Supported() {
		return nil, &UnsupportedVersionError{Version: v}
	}
	payload, err := f.Open()
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(payload) {
		return nil, &FormatError{Reason: "payload is not UTF-8"}
	}
	o, err := unmarshalFields(string(payload), v)
	if err != nil {
		return nil, err
	}
	if s.validate {
		if err := o.Validate(v); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// Detect reports whether s looks like a PAY by square string: valid
// base32hex with a payment order header of a known revision.  It does
// not decompress the body.
func Detect(s string) bool {
	f, err := frame.Parse(s)
	return err == nil && f.Type == 0 && f.Document == 0 &&
		VersionFromNibble(f.Version).Supported()
}
