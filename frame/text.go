// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frame

import (
	"encoding/base32"
	"errors"
)

// hexEncoding is RFC 4648 base32hex without padding.  All of its
// characters are in the QR alphanumeric mode character set.
var hexEncoding = base32.HexEncoding.WithPadding(base32.NoPadding)

// alphabet has bit n set if ' '+n is a base32hex character.
const alphabet uint64 = 0x007f_fffe_03ff_0000 // [0-9] [A-V]

// EncodeText returns the base32hex encoding of b, upper case, unpadded.
func EncodeText(b []byte) string {
	return hexEncoding.EncodeToString(b)
}

// DecodeText decodes unpadded base32hex.  Lower case letters are
// accepted.  Anything else outside the alphabet, including padding and
// white space, is an error, as is a length that is not a whole number
// of bytes.
func DecodeText(s string) ([]byte, error) {
	src := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if 'a' <= c && c <= 'z' {
			c -= 'a' - 'A'
		}
		if bit := uint64(1) << (uint(c) - ' '); alphabet&bit == 0 {
			return nil, &TextDecodeError{Offset: i, Char: s[i]}
		}
		src[i] = c
	}
	dst := make([]byte, hexEncoding.DecodedLen(len(src)))
	n, err := hexEncoding.Decode(dst, src)
	if err != nil {
		var cie base32.CorruptInputError
		if errors.As(err, &cie) {
			return nil, &TextDecodeError{Offset: len(s)}
		}
		return nil, err
	}
	return dst[:n], nil
}
