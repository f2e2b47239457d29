// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bysquare

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
)

// An Amount is an optional decimal sum of money.  The zero Amount is
// absent.  In JSON an Amount is a number; a quoted number is accepted
// as well.
type Amount struct {
	Value decimal.Decimal
	Valid bool
}

// maxAmountText bounds the plain decimal form of a parsed Amount.
const maxAmountText = 64

// NewAmount parses a decimal string such as "123.45".  Exponent forms
// are accepted if their plain form has at most 64 characters.
func NewAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("bysquare: bad amount %q: %w", s, err)
	}
	a := Amount{Value: d, Valid: true}
	if a.textLen() > maxAmountText {
		return Amount{}, fmt.Errorf("bysquare: amount %q too long", s)
	}
	return a, nil
}

// MustAmount is like NewAmount but panics on error.
func MustAmount(s string) Amount {
	a, err := NewAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

// AmountOf returns d as a present Amount.
func AmountOf(d decimal.Decimal) Amount {
	return Amount{Value: d, Valid: true}
}

// IsZero reports whether a is absent.
func (a Amount) IsZero() bool { return !a.Valid }

// Equal reports whether a and b are both absent or hold equal values.
func (a Amount) Equal(b Amount) bool {
	return a.Valid == b.Valid && (!a.Valid || a.Value.Equal(b.Value))
}

// textLen returns an upper bound on the length of String without
// expanding the exponent.
func (a Amount) textLen() int64 {
	if !a.Valid {
		return 0
	}
	d := a.Value
	if d.IsZero() {
		return 1
	}
	var sign int64
	if d.IsNegative() {
		sign = 1
	}
	n, e := int64(d.NumDigits()), int64(d.Exponent())
	switch {
	case e >= 0:
		return sign + n + e
	case -e >= n:
		return sign + 2 - e
	default:
		return sign + n + 1
	}
}

// String returns the shortest decimal form of a, or "" if a is absent.
func (a Amount) String() string {
	if !a.Valid {
		return ""
	}
	return a.Value.String()
}

// MarshalJSON implements json.Marshaler.
func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return []byte("null"), nil
	}
	return []byte(a.Value.String()), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*a = Amount{}
		return nil
	}
	if len(b) >= 2 && b[0] == '"' && b[len(b)-1] == '"' {
		b = b[1 : len(b)-1]
	}
	v, err := NewAmount(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}
