// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package abi implements the string-in, string-out surface exported to C
by cmd/libbysquare.

Payment orders travel as JSON.  Results are strings: either a PAY by
square code, decoded JSON, or ErrorPrefix followed by a reason.  A
configuration is given either as a Packed integer or as a Handle to a
registered Config.
*/
package abi // import "github.com/unixdj/bysquare/abi"

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/unixdj/bysquare"
)

// ErrorPrefix starts every error result.
const ErrorPrefix = "ERROR:"

var version = "0.1.0"

// Version returns the library version.
func Version() string { return version }

// A Packed is a configuration packed into an integer: bit 0 enables
// deburring, bit 1 enables validation and bits 24-31 hold the header
// nibble of the format version.  0 and -1 select the defaults.
type Packed int32

const (
	Default      Packed = -1
	FlagDeburr   Packed = 1 << 0
	FlagValidate Packed = 1 << 1

	versionShift = 24
)

// Pack returns the Packed form of c.  A nil c packs as Default.
func Pack(c *bysquare.Config) Packed {
	if c == nil {
		return Default
	}
	p := Packed(c.Version.Nibble()) << versionShift
	if !c.NoDeburr {
		p |= FlagDeburr
	}
	if !c.NoValidate {
		p |= FlagValidate
	}
	return p
}

// Config unpacks p.  The defaults unpack as nil.  Bits 2-23 are
// ignored.
func (p Packed) Config() (*bysquare.Config, error) {
	if p == 0 || p == Default {
		return nil, nil
	}
	n := uint32(p) >> versionShift
	if n > 0x0f {
		return nil, fmt.Errorf("bysquare: version nibble %#x out of range", n)
	}
	v := bysquare.VersionFromNibble(uint8(n))
	if !v.Supported() {
		return nil, &bysquare.UnsupportedVersionError{Version: v}
	}
	return &bysquare.Config{
		Version:    v,
		NoDeburr:   p&FlagDeburr == 0,
		NoValidate: p&FlagValidate == 0,
	}, nil
}

// A Handle names a Config created by CreateConfig.  The zero Handle
// selects the defaults.
type Handle uintptr

// ErrHandle is returned for a handle that was never created or was
// destroyed.
var ErrHandle = errors.New("bysquare: unknown config handle")

var registry = struct {
	sync.RWMutex
	m    map[Handle]*bysquare.Config
	last Handle
}{m: make(map[Handle]*bysquare.Config)}

// CreateConfig registers a Config with the defaults made explicit and
// returns its handle.
func CreateConfig() Handle {
	registry.Lock()
	defer registry.Unlock()
	registry.last++
	registry.m[registry.last] = &bysquare.Config{Version: bysquare.VersionLatest}
	return registry.last
}

// DestroyConfig releases h.  Unknown handles are ignored.
func DestroyConfig(h Handle) {
	registry.Lock()
	delete(registry.m, h)
	registry.Unlock()
}

func update(h Handle, f func(c *bysquare.Config) error) error {
	registry.Lock()
	defer registry.Unlock()
	c, ok := registry.m[h]
	if !ok {
		return ErrHandle
	}
	return f(c)
}

// SetDeburr enables or disables deburring in h.
func SetDeburr(h Handle, on bool) error {
	return update(h, func(c *bysquare.Config) error {
		c.NoDeburr = !on
		return nil
	})
}

// SetValidate enables or disables validation in h.
func SetValidate(h Handle, on bool) error {
	return update(h, func(c *bysquare.Config) error {
		c.NoValidate = !on
		return nil
	})
}

// SetVersion sets the format version of h to the one with header
// nibble n.
func SetVersion(h Handle, n int) error {
	return update(h, func(c *bysquare.Config) error {
		if n < 0 || n > 0x0f {
			return fmt.Errorf("bysquare: version nibble %d out of range", n)
		}
		v := bysquare.VersionFromNibble(uint8(n))
		if !v.Supported() {
			return &bysquare.UnsupportedVersionError{Version: v}
		}
		c.Version = v
		return nil
	})
}

// Lookup returns a copy of the Config of h.
func Lookup(h Handle) (bysquare.Config, error) {
	registry.RLock()
	defer registry.RUnlock()
	c, ok := registry.m[h]
	if !ok {
		return bysquare.Config{}, ErrHandle
	}
	return *c, nil
}

// fail formats err as an error result.
func fail(err error) string {
	return ErrorPrefix + " " + strings.TrimPrefix(err.Error(), "bysquare: ")
}

// Encode encodes the JSON payment order data with c.
func Encode(data []byte, c *bysquare.Config) string {
	var o bysquare.PaymentOrder
	if err := json.Unmarshal(data, &o); err != nil {
		return fail(fmt.Errorf("invalid payment JSON: %w", err))
	}
	s, err := bysquare.Encode(&o, c)
	if err != nil {
		return fail(err)
	}
	return s
}

// EncodePacked encodes data with a packed configuration.
func EncodePacked(data []byte, p Packed) string {
	c, err := p.Config()
	if err != nil {
		return fail(err)
	}
	return Encode(data, c)
}

// EncodeHandle encodes data with the configuration of h.
func EncodeHandle(data []byte, h Handle) string {
	if h == 0 {
		return Encode(data, nil)
	}
	c, err := Lookup(h)
	if err != nil {
		return fail(err)
	}
	return Encode(data, &c)
}

// Decode decodes a PAY by square code into JSON.  The result is not
// validated.
func Decode(s string) string {
	o, err := bysquare.Decode(s, &bysquare.Config{NoValidate: true})
	if err != nil {
		return fail(err)
	}
	b, err := json.Marshal(o)
	if err != nil {
		return fail(err)
	}
	return string(b)
}

// IsError reports whether result is an error result.
func IsError(result string) bool {
	return strings.HasPrefix(result, ErrorPrefix)
}
