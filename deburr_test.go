// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bysquare

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeburr(t *testing.T) {
	for _, tc := range []struct{ in, want string }{
		{"", ""},
		{"plain ASCII 123", "plain ASCII 123"},
		{"Žltučký kôň úpel ďábelské ódy", "Zltucky kon upel dabelske ody"},
		{"Príliš žluťoučký kůň", "Prilis zlutoucky kun"},
		{"Łódź, Kraków", "Lodz, Krakow"},
		{"Straße", "Strasse"},
		{"Æsir Œuvre", "Aesir Oeuvre"},
		{"Ørsted Ðakovo Þingvellir", "Orsted Dakovo Thingvellir"},
		{"Ħal Għaxaq", "Hal Ghaxaq"},
		{"Ĳssel", "IJssel"},
		{"São Paulo, Zürich, Señor", "Sao Paulo, Zurich, Senor"},
		{"Ελληνικά", "Ελληνικα"},
	} {
		assert.Equal(t, tc.want, Deburr(tc.in), tc.in)
	}
}

func TestOrderDeburr(t *testing.T) {
	o := simpleOrder()
	o.Payments[0].PaymentNote = "Nájom"
	o.Payments[0].OriginatorsReferenceInformation = "Účet"
	o.Payments[0].Beneficiary = &Beneficiary{Name: "Ján", Street: "Hlavná", City: "Košice"}
	o.Payments = append(o.Payments, Payment{
		Type:           TypeDirectDebit,
		DirectDebitExt: &DirectDebit{MandateID: "Mandát", ContractID: "Zmluva č. 1"},
	})

	d := o.Deburr()
	assert.Equal(t, "Najom", d.Payments[0].PaymentNote)
	assert.Equal(t, "Ucet", d.Payments[0].OriginatorsReferenceInformation)
	assert.Equal(t, &Beneficiary{Name: "Jan", Street: "Hlavna", City: "Kosice"}, d.Payments[0].Beneficiary)
	assert.Equal(t, "Mandat", d.Payments[1].DirectDebitExt.MandateID)
	assert.Equal(t, "Zmluva c. 1", d.Payments[1].DirectDebitExt.ContractID)

	assert.Equal(t, "Nájom", o.Payments[0].PaymentNote)
	assert.Equal(t, "Košice", o.Payments[0].Beneficiary.City)
	assert.Equal(t, "Mandát", o.Payments[1].DirectDebitExt.MandateID)
}
