// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bysquare

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unixdj/bysquare/frame"
)

const testIBAN = "SK9611000000002918599669"

func simpleOrder() *PaymentOrder {
	return &PaymentOrder{
		Payments: []Payment{{
			Type:           TypePaymentOrder,
			Amount:         MustAmount("123.45"),
			CurrencyCode:   "EUR",
			VariableSymbol: "987654",
			BankAccounts:   []BankAccount{{IBAN: testIBAN}},
		}},
	}
}

func fullOrder() *PaymentOrder {
	return &PaymentOrder{
		InvoiceID: "2024-0042",
		Payments: []Payment{
			{
				Type:                            TypePaymentOrder,
				Amount:                          MustAmount("1500"),
				CurrencyCode:                    "EUR",
				PaymentDueDate:                  "2024-03-31",
				VariableSymbol:                  "1234567890",
				ConstantSymbol:                  "0308",
				SpecificSymbol:                  "42",
				OriginatorsReferenceInformation: "REF-1",
				PaymentNote:                     "Rent for March",
				BankAccounts: []BankAccount{
					{IBAN: testIBAN, BIC: "TATRSKBX"},
					{IBAN: "CZ6508000000192000145399", BIC: "GIBACZPXXXX"},
				},
				Beneficiary: &Beneficiary{Name: "Jan Novak", Street: "Hlavna 1", City: "Bratislava"},
			},
			{
				Type:         TypeStandingOrder,
				Amount:       MustAmount("50.5"),
				CurrencyCode: "EUR",
				BankAccounts: []BankAccount{{IBAN: testIBAN}},
				StandingOrderExt: &StandingOrder{
					Day:         15,
					Month:       Months(January, July),
					Periodicity: Monthly,
					LastDate:    "2025-12-31",
				},
				Beneficiary: &Beneficiary{Name: "Landlord"},
			},
			{
				Type:         TypeDirectDebit,
				CurrencyCode: "EUR",
				BankAccounts: []BankAccount{{IBAN: testIBAN}},
				DirectDebitExt: &DirectDebit{
					DirectDebitScheme: SchemeSEPA,
					DirectDebitType:   DirectDebitRecurrent,
					MandateID:         "M-77",
					CreditorID:        "SK12ZZZ70000000001",
					MaxAmount:         MustAmount("99.99"),
					ValidTillDate:     "2026-01-01",
				},
				Beneficiary: &Beneficiary{Name: "Utility"},
			},
		},
	}
}

var codeRE = regexp.MustCompile(`^[0-9A-V]+$`)

func toJSON(t *testing.T, o *PaymentOrder) string {
	t.Helper()
	b, err := json.Marshal(o)
	require.NoError(t, err)
	return string(b)
}

func TestEncodeDecodeDefault(t *testing.T) {
	s, err := Encode(simpleOrder(), nil)
	require.NoError(t, err)
	assert.Regexp(t, codeRE, s)

	o, err := Decode(s, nil)
	require.NoError(t, err)
	require.Len(t, o.Payments, 1)
	p := o.Payments[0]
	assert.Equal(t, TypePaymentOrder, p.Type)
	assert.Equal(t, "123.45", p.Amount.String())
	assert.Equal(t, "EUR", p.CurrencyCode)
	assert.Equal(t, "987654", p.VariableSymbol)
	assert.Equal(t, []BankAccount{{IBAN: testIBAN}}, p.BankAccounts)
	assert.Nil(t, p.Beneficiary)
	assert.JSONEq(t, toJSON(t, simpleOrder()), toJSON(t, o))
}

func TestRoundTrip(t *testing.T) {
	for _, v := range []Version{VersionDefault, Version110, Version120} {
		t.Run(v.String(), func(t *testing.T) {
			s, err := Encode(fullOrder(), &Config{Version: v})
			require.NoError(t, err)
			assert.Regexp(t, codeRE, s)
			assert.True(t, Detect(s))
			o, err := Decode(s, nil)
			require.NoError(t, err)
			assert.JSONEq(t, toJSON(t, fullOrder()), toJSON(t, o))
		})
	}
}

func TestRoundTrip100(t *testing.T) {
	in := fullOrder()
	for i := range in.Payments {
		in.Payments[i].Beneficiary = nil
	}
	s, err := Encode(in, &Config{Version: Version100})
	require.NoError(t, err)
	f, err := frame.Parse(s)
	require.NoError(t, err)
	assert.Equal(t, uint8(0), f.Version)
	o, err := Decode(s, nil)
	require.NoError(t, err)
	assert.JSONEq(t, toJSON(t, in), toJSON(t, o))
}

func TestDeterministic(t *testing.T) {
	a, err := Encode(fullOrder(), nil)
	require.NoError(t, err)
	b, err := Encode(fullOrder(), &Config{})
	require.NoError(t, err)
	c, err := Encode(fullOrder(), &Config{Version: VersionLatest})
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, a, c)
}

func TestUnsupportedConfigVersion(t *testing.T) {
	for _, v := range []Version{Version120 + 1, 16, 255} {
		_, err := Encode(simpleOrder(), &Config{Version: v})
		var ue *UnsupportedVersionError
		require.ErrorAs(t, err, &ue)
		assert.Equal(t, v, ue.Version)
	}
}

func TestDecodeHeader(t *testing.T) {
	payload := []byte("\t1\t1\t1\tEUR\t\t\t\t\t\t\t1\t" + testIBAN + "\t\t0\t0\t\t\t")

	s, err := frame.Seal(frame.Header{Version: 5}, payload)
	require.NoError(t, err)
	assert.False(t, Detect(s))
	_, err = Decode(s, nil)
	var ue *UnsupportedVersionError
	assert.ErrorAs(t, err, &ue)

	s, err = frame.Seal(frame.Header{Type: 1, Version: 2}, payload)
	require.NoError(t, err)
	assert.False(t, Detect(s))
	_, err = Decode(s, nil)
	var fe *FormatError
	assert.ErrorAs(t, err, &fe)

	s, err = frame.Seal(frame.Header{Version: 2}, payload)
	require.NoError(t, err)
	assert.True(t, Detect(s))
	o, err := Decode(s, nil)
	require.NoError(t, err)
	assert.Equal(t, "1", o.Payments[0].Amount.String())
}

func TestDecodeExponentAmount(t *testing.T) {
	for _, amount := range []string{"1e5", "1e80000000", "1E-80000000", "-1", "+1", ".5", "1."} {
		payload := []byte("\t1\t1\t" + amount + "\tEUR\t\t\t\t\t\t\t1\t" +
			testIBAN + "\t\t0\t0\t\t\t")
		s, err := frame.Seal(frame.Header{Version: 2}, payload)
		require.NoError(t, err)
		for _, c := range []*Config{nil, {NoValidate: true}} {
			_, err = Decode(s, c)
			var fe *FormatError
			if assert.ErrorAs(t, err, &fe, amount) {
				assert.Equal(t, "Amount", fe.Field)
			}
		}
	}
}

func TestEncodeLongAmount(t *testing.T) {
	o := simpleOrder()
	o.Payments[0].Amount = AmountOf(decimal.New(1, 80000000))
	_, err := Encode(o, nil)
	var ve *ValidationError
	if assert.ErrorAs(t, err, &ve) {
		assert.Equal(t, "payments[0].amount", ve.Path)
	}
	o.Payments[0].Amount = AmountOf(decimal.New(1, -80000000))
	_, err = Encode(o, nil)
	assert.ErrorAs(t, err, &ve)

	_, err = Encode(o, &Config{NoValidate: true})
	var fe *FormatError
	if assert.ErrorAs(t, err, &fe) {
		assert.Equal(t, "Amount", fe.Field)
	}
}

func TestDecodeErrors(t *testing.T) {
	var (
		fe *FormatError
		te *TextDecodeError
	)
	_, err := Decode("", nil)
	assert.ErrorAs(t, err, &fe)
	_, err = Decode("0004=", nil)
	assert.ErrorAs(t, err, &te)
	_, err = Decode("hello world", nil)
	assert.ErrorAs(t, err, &te)
	assert.False(t, Detect("hello world"))
	assert.False(t, Detect(""))
}

func TestDecodeLowerCase(t *testing.T) {
	s, err := Encode(simpleOrder(), nil)
	require.NoError(t, err)
	o, err := Decode(toLower(s), nil)
	require.NoError(t, err)
	assert.Equal(t, "123.45", o.Payments[0].Amount.String())
}

func toLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}

// unsealed returns the checksum and payload of s.
func unsealed(t *testing.T, s string) (*frame.Frame, []byte) {
	t.Helper()
	f, err := frame.Parse(s)
	require.NoError(t, err)
	sealed, err := frame.Decompress(f.Body, f.Size)
	require.NoError(t, err)
	return f, sealed
}

// reseal compresses sealed, checksum included, under the header of f.
func reseal(t *testing.T, f *frame.Frame, sealed []byte) string {
	t.Helper()
	body, err := frame.Compress(sealed)
	require.NoError(t, err)
	b := []byte{f.Type<<4 | f.Version, f.Document<<4 | f.Reserved, 0, 0}
	binary.LittleEndian.PutUint16(b[2:], uint16(len(sealed)))
	return frame.EncodeText(append(b, body...))
}

func TestChecksumSensitivity(t *testing.T) {
	s, err := Encode(simpleOrder(), nil)
	require.NoError(t, err)
	f, sealed := unsealed(t, s)
	_, err = Decode(reseal(t, f, sealed), nil)
	require.NoError(t, err)

	for i := 0; i < len(sealed)*8; i++ {
		b := bytes.Clone(sealed)
		b[i/8] ^= 1 << (i % 8)
		_, err := Decode(reseal(t, f, b), nil)
		var ce *ChecksumError
		assert.ErrorAs(t, err, &ce, "bit %d", i)
	}
}

func TestValidationGate(t *testing.T) {
	o := simpleOrder()
	o.Payments[0].BankAccounts[0].IBAN = "SK9611000000002918599668"

	_, err := Encode(o, nil)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "payments[0].bankAccounts[0].iban", ve.Path)

	s, err := Encode(o, &Config{NoValidate: true})
	require.NoError(t, err)
	_, err = Decode(s, nil)
	assert.ErrorAs(t, err, &ve)
	d, err := Decode(s, &Config{NoValidate: true})
	require.NoError(t, err)
	assert.Equal(t, "SK9611000000002918599668", d.Payments[0].BankAccounts[0].IBAN)
}

func TestEncodeNil(t *testing.T) {
	_, err := Encode(nil, nil)
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestEncodeTab(t *testing.T) {
	o := simpleOrder()
	o.Payments[0].PaymentNote = "a\tb"
	_, err := Encode(o, &Config{NoValidate: true})
	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "PaymentNote", fe.Field)
}

func TestDeburrOnEncode(t *testing.T) {
	o := simpleOrder()
	o.Payments[0].PaymentNote = "Žltučký kôň"
	o.Payments[0].Beneficiary = &Beneficiary{Name: "Ľubomír Štúr"}

	s, err := Encode(o, nil)
	require.NoError(t, err)
	assert.Equal(t, "Žltučký kôň", o.Payments[0].PaymentNote)
	assert.Equal(t, "Ľubomír Štúr", o.Payments[0].Beneficiary.Name)
	d, err := Decode(s, nil)
	require.NoError(t, err)
	assert.Equal(t, "Zltucky kon", d.Payments[0].PaymentNote)
	assert.Equal(t, "Lubomir Stur", d.Payments[0].Beneficiary.Name)

	s, err = Encode(o, &Config{NoDeburr: true})
	require.NoError(t, err)
	d, err = Decode(s, nil)
	require.NoError(t, err)
	assert.Equal(t, "Žltučký kôň", d.Payments[0].PaymentNote)
}

func TestVersion(t *testing.T) {
	for _, tc := range []struct {
		v      Version
		name   string
		nibble uint8
	}{
		{VersionDefault, "default", 2},
		{Version100, "1.0.0", 0},
		{Version110, "1.1.0", 1},
		{Version120, "1.2.0", 2},
	} {
		assert.Equal(t, tc.name, tc.v.String())
		assert.Equal(t, tc.nibble, tc.v.Nibble())
		if tc.v != VersionDefault {
			assert.Equal(t, tc.v, VersionFromNibble(tc.nibble))
			v, err := ParseVersion(tc.name)
			require.NoError(t, err)
			assert.Equal(t, tc.v, v)
		}
	}
	assert.Equal(t, "Version(9)", Version(9).String())
	assert.False(t, VersionDefault.Supported())
	assert.False(t, VersionFromNibble(3).Supported())
	v, err := ParseVersion("")
	require.NoError(t, err)
	assert.Equal(t, VersionDefault, v)
	_, err = ParseVersion("2.0.0")
	assert.Error(t, err)
}
