// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package frame implements the byte level of a PAY by square code.

A code is the base32hex text of the following bytes:

	+---------+---------+------------+----------------------------+
	| 4 bits  | 4 bits  | 8 bits     | 16 bits      | variable    |
	| type    | version | doc | rsvd | length (LE)  | raw deflate |
	+---------+---------+------------+--------------+-------------+

The deflate stream holds a little-endian CRC-32 (IEEE) of the payload
followed by the payload itself.  The length field counts the checksum
and the payload.
*/
package frame // import "github.com/unixdj/bysquare/frame"

import (
	"encoding/binary"
	"fmt"
)

const (
	// HeaderLen is the length of the header and length fields.
	HeaderLen = 4

	// MaxSize is the maximum length of checksum and payload.
	MaxSize = 0xffff
)

// A Header is the by square header.  Each field is a nibble.
type Header struct {
	Type     uint8 // by square type, 0 for PAY
	Version  uint8 // version of the by square type
	Document uint8 // document type within the by square type
	Reserved uint8 // reserved for future use
}

func (h Header) valid() bool {
	return h.Type|h.Version|h.Document|h.Reserved <= 0x0f
}

// A Frame is a parsed code whose body is still compressed.
type Frame struct {
	Header
	Size int    // declared length of checksum and payload
	Body []byte // raw deflate stream
}

// Seal checksums, compresses and frames payload and returns the text
// form of the code.
func Seal(h Header, payload []byte) (string, error) {
	if !h.valid() {
		return "", &FormatError{Field: "header",
			Reason: fmt.Sprintf("nibble out of range in %+v", h)}
	}
	sealed := AddChecksum(payload)
	if len(sealed) > MaxSize {
		return "", &FormatError{Field: "length",
			Reason: fmt.Sprintf("payload of %d bytes exceeds %d",
				len(sealed), MaxSize)}
	}
	body, err := Compress(sealed)
	if err != nil {
		return "", err
	}
	b := make([]byte, HeaderLen, HeaderLen+len(body))
	b[0] = h.Type<<4 | h.Version
	b[1] = h.Document<<4 | h.Reserved
	binary.LittleEndian.PutUint16(b[2:], uint16(len(sealed)))
	return EncodeText(append(b, body...)), nil
}

// Parse decodes the text form of a code and splits it into header,
// declared length and body.  It does not decompress the body.
func Parse(s string) (*Frame, error) {
	b, err := DecodeText(s)
	if err != nil {
		return nil, err
	}
	if len(b) < HeaderLen {
		return nil, &FormatError{Field: "header",
			Reason: fmt.Sprintf("%d bytes of data", len(b))}
	}
	return &Frame{
		Header: Header{
			Type:     b[0] >> 4,
			Version:  b[0] & 0x0f,
			Document: b[1] >> 4,
			Reserved: b[1] & 0x0f,
		},
		Size: int(binary.LittleEndian.Uint16(b[2:])),
		Body: b[HeaderLen:],
	}, nil
}

// Open decompresses the body, verifies the checksum and returns the
// payload.
func (f *Frame) Open() ([]byte, error) {
	sealed, err := Decompress(f.Body, f.Size)
	if err != nil {
		return nil, err
	}
	return VerifyChecksum(sealed)
}
