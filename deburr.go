// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bysquare

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ligatures expands letters that are written with two Latin letters.
var ligatures = strings.NewReplacer(
	"ß", "ss", "ẞ", "SS",
	"Æ", "Ae", "æ", "ae",
	"Œ", "Oe", "œ", "oe",
	"Þ", "Th", "þ", "th",
	"Ĳ", "IJ", "ĳ", "ij",
	"ŉ", "'n",
)

// stroked maps Latin letters that have no canonical decomposition to
// their base letter.
func stroked(r rune) rune {
	switch r {
	case 'Ð', 'Đ':
		return 'D'
	case 'ð', 'đ':
		return 'd'
	case 'Ħ':
		return 'H'
	case 'ħ':
		return 'h'
	case 'ı':
		return 'i'
	case 'ĸ':
		return 'k'
	case 'Ŀ', 'Ł':
		return 'L'
	case 'ŀ', 'ł':
		return 'l'
	case 'Ŋ':
		return 'N'
	case 'ŋ':
		return 'n'
	case 'Ø':
		return 'O'
	case 'ø':
		return 'o'
	case 'ſ':
		return 's'
	case 'Ŧ':
		return 'T'
	case 'ŧ':
		return 't'
	}
	return r
}

// Deburr reduces Latin letters in s to their base letters, removing
// diacritics: "Žltučký kôň" becomes "Zltucky kon".  Characters of other
// scripts lose their combining marks.
func Deburr(s string) string {
	t := transform.Chain(runes.Map(stroked), norm.NFD,
		runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, ligatures.Replace(s))
	if err != nil {
		return s
	}
	return out
}

// Deburr returns a copy of o with Deburr applied to every free-text
// field.  o is not modified.
func (o *PaymentOrder) Deburr() *PaymentOrder {
	c := o.Clone()
	for i := range c.Payments {
		p := &c.Payments[i]
		p.PaymentNote = Deburr(p.PaymentNote)
		p.OriginatorsReferenceInformation = Deburr(p.OriginatorsReferenceInformation)
		if b := p.Beneficiary; b != nil {
			b.Name = Deburr(b.Name)
			b.Street = Deburr(b.Street)
			b.City = Deburr(b.City)
		}
		if dd := p.DirectDebitExt; dd != nil {
			dd.OriginatorsReferenceInformation = Deburr(dd.OriginatorsReferenceInformation)
			dd.MandateID = Deburr(dd.MandateID)
			dd.CreditorID = Deburr(dd.CreditorID)
			dd.ContractID = Deburr(dd.ContractID)
		}
	}
	return c
}
