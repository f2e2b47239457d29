// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frame

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/klauspost/compress/flate"
)

// Level is the deflate compression level.
const Level = flate.BestCompression

// Checksum returns the CRC-32 (IEEE) of p.
func Checksum(p []byte) uint32 {
	return crc32.ChecksumIEEE(p)
}

// AddChecksum returns p prefixed with its little-endian checksum.
func AddChecksum(p []byte) []byte {
	b := make([]byte, 4+len(p))
	binary.LittleEndian.PutUint32(b, Checksum(p))
	copy(b[4:], p)
	return b
}

// VerifyChecksum checks the checksum prefix of b and returns the rest.
func VerifyChecksum(b []byte) ([]byte, error) {
	if len(b) < 4 {
		return nil, &FormatError{Field: "checksum",
			Reason: fmt.Sprintf("%d bytes of data", len(b))}
	}
	want := binary.LittleEndian.Uint32(b)
	p := b[4:]
	if got := Checksum(p); got != want {
		return nil, &ChecksumError{Want: want, Got: got}
	}
	return p, nil
}

// Compress returns the raw deflate stream of p, with no zlib or gzip
// container and no preset dictionary.
func Compress(p []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, Level)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(p); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decompress inflates the raw deflate stream body, which must hold
// exactly size bytes.
func Decompress(body []byte, size int) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(body))
	defer r.Close()
	b, err := io.ReadAll(io.LimitReader(r, int64(size)+1))
	if err != nil {
		return nil, &DecompressionError{Err: err}
	}
	if len(b) != size {
		return nil, &FormatError{Field: "length",
			Reason: fmt.Sprintf("declared %d bytes, inflated %d",
				size, len(b))}
	}
	return b, nil
}
