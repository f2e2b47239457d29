// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bysquare

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// The payload is a list of fields separated by tabs.  Each payment
// contributes a fixed run of fields, its bank accounts and the fields
// of its extensions; beneficiaries follow after all payments.

// fieldWriter accumulates fields.  The first field containing a tab
// sets err.
type fieldWriter struct {
	fields []string
	err    error
}

func (w *fieldWriter) put(name, s string) {
	if w.err == nil && strings.IndexByte(s, '\t') >= 0 {
		w.err = &FormatError{Field: name, Reason: "contains a tab"}
	}
	w.fields = append(w.fields, s)
}

func (w *fieldWriter) putInt(name string, n int) {
	w.put(name, strconv.Itoa(n))
}

func (w *fieldWriter) putFlag(name string, b bool) {
	if b {
		w.put(name, "1")
	} else {
		w.put(name, "0")
	}
}

// putAmount writes the plain decimal form of a.
func (w *fieldWriter) putAmount(name string, a Amount) {
	if a.textLen() > maxAmountText {
		if w.err == nil {
			w.err = &FormatError{Field: name, Reason: "amount too long"}
		}
		w.fields = append(w.fields, "")
		return
	}
	w.put(name, a.String())
}

// putDate writes YYYY-MM-DD as YYYYMMDD.
func (w *fieldWriter) putDate(name, s string) {
	w.put(name, strings.ReplaceAll(s, "-", ""))
}

func (w *fieldWriter) String() string {
	return strings.Join(w.fields, "\t")
}

// marshalFields returns the tab-separated payload of o for revision v.
func (o *PaymentOrder) marshalFields(v Version) (string, error) {
	var w fieldWriter
	w.put("InvoiceID", o.InvoiceID)
	w.putInt("Payments", len(o.Payments))
	for i := range o.Payments {
		p := &o.Payments[i]
		w.putInt("PaymentOptions", int(p.Type))
		w.putAmount("Amount", p.Amount)
		w.put("CurrencyCode", p.CurrencyCode)
		w.putDate("PaymentDueDate", p.PaymentDueDate)
		w.put("VariableSymbol", p.VariableSymbol)
		w.put("ConstantSymbol", p.ConstantSymbol)
		w.put("SpecificSymbol", p.SpecificSymbol)
		w.put("OriginatorsReferenceInformation", p.OriginatorsReferenceInformation)
		w.put("PaymentNote", p.PaymentNote)
		w.putInt("BankAccounts", len(p.BankAccounts))
		for _, a := range p.BankAccounts {
			w.put("IBAN", a.IBAN)
			w.put("BIC", a.BIC)
		}

		w.putFlag("StandingOrderExt", p.Type == TypeStandingOrder)
		if p.Type == TypeStandingOrder {
			so := p.StandingOrderExt
			if so == nil {
				so = new(StandingOrder)
			}
			w.put("Day", optUint(uint(so.Day)))
			w.put("Month", optUint(uint(so.Month)))
			w.put("Periodicity", string(so.Periodicity))
			w.putDate("LastDate", so.LastDate)
		}

		w.putFlag("DirectDebitExt", p.Type == TypeDirectDebit)
		if p.Type == TypeDirectDebit {
			dd := p.DirectDebitExt
			if dd == nil {
				dd = new(DirectDebit)
			}
			w.putInt("DirectDebitScheme", int(dd.DirectDebitScheme))
			w.putInt("DirectDebitType", int(dd.DirectDebitType))
			w.put("VariableSymbol", dd.VariableSymbol)
			w.put("SpecificSymbol", dd.SpecificSymbol)
			w.put("OriginatorsReferenceInformation", dd.OriginatorsReferenceInformation)
			w.put("MandateID", dd.MandateID)
			w.put("CreditorID", dd.CreditorID)
			w.put("ContractID", dd.ContractID)
			w.putAmount("MaxAmount", dd.MaxAmount)
			w.putDate("ValidTillDate", dd.ValidTillDate)
		}
	}
	if v >= Version110 {
		for i := range o.Payments {
			b := o.Payments[i].Beneficiary
			if b == nil {
				b = new(Beneficiary)
			}
			w.put("BeneficiaryName", b.Name)
			w.put("BeneficiaryAddressLine1", b.Street)
			w.put("BeneficiaryAddressLine2", b.City)
		}
	}
	return w.String(), w.err
}

// optUint formats n, or "" for zero.
func optUint(n uint) string {
	if n == 0 {
		return ""
	}
	return strconv.FormatUint(uint64(n), 10)
}

// fieldReader consumes fields in order.  After the first error every
// read returns a zero value and err keeps that error.
type fieldReader struct {
	fields []string
	err    error
}

func (r *fieldReader) fail(name, format string, a ...any) {
	if r.err == nil {
		r.err = &FormatError{Field: name, Reason: fmt.Sprintf(format, a...)}
	}
}

func (r *fieldReader) next(name string) string {
	if r.err != nil {
		return ""
	}
	if len(r.fields) == 0 {
		r.fail(name, "missing")
		return ""
	}
	s := r.fields[0]
	r.fields = r.fields[1:]
	return s
}

// number reads an optional unsigned number no greater than max.  The
// empty field is zero.
func (r *fieldReader) number(name string, max uint64) uint64 {
	s := r.next(name)
	if s == "" {
		return 0
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n > max {
		r.fail(name, "bad number %q", s)
		return 0
	}
	return n
}

// count reads a mandatory element count.  Each element takes at least
// per fields, which bounds the count by the fields left.
func (r *fieldReader) count(name string, per int) int {
	s := r.next(name)
	if r.err != nil {
		return 0
	}
	n, err := strconv.Atoi(s)
	switch {
	case err != nil || n < 0 || s[0] == '+':
		r.fail(name, "bad count %q", s)
		return 0
	case n > len(r.fields)/per:
		r.fail(name, "count %d exceeds data", n)
		return 0
	}
	return n
}

func (r *fieldReader) flag(name string) bool {
	switch s := r.next(name); s {
	case "1":
		return true
	case "0":
		return false
	default:
		r.fail(name, "bad flag %q", s)
		return false
	}
}

// wireAmountRE is the only amount form on the wire: no sign, no
// exponent.
var wireAmountRE = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

func (r *fieldReader) amount(name string) Amount {
	s := r.next(name)
	if s == "" {
		return Amount{}
	}
	if len(s) > maxAmountText || !wireAmountRE.MatchString(s) {
		r.fail(name, "bad amount %q", s)
		return Amount{}
	}
	return AmountOf(decimal.RequireFromString(s))
}

// date reads YYYYMMDD and returns YYYY-MM-DD.
func (r *fieldReader) date(name string) string {
	s := r.next(name)
	if s == "" {
		return ""
	}
	if len(s) != 8 || strings.Trim(s, "0123456789") != "" {
		r.fail(name, "bad date %q", s)
		return ""
	}
	return s[:4] + "-" + s[4:6] + "-" + s[6:]
}

// Minimum number of fields of a payment and of a bank account.
const (
	paymentFields = 12
	accountFields = 2
)

// unmarshalFields parses the payload of revision v.
func unmarshalFields(payload string, v Version) (*PaymentOrder, error) {
	r := &fieldReader{fields: strings.Split(payload, "\t")}
	o := &PaymentOrder{InvoiceID: r.next("InvoiceID")}
	n := r.count("Payments", paymentFields)
	if r.err != nil {
		return nil, r.err
	}
	o.Payments = make([]Payment, n)
	for i := range o.Payments {
		p := &o.Payments[i]
		p.Type = PaymentType(r.number("PaymentOptions", 0xff))
		p.Amount = r.amount("Amount")
		p.CurrencyCode = r.next("CurrencyCode")
		p.PaymentDueDate = r.date("PaymentDueDate")
		p.VariableSymbol = r.next("VariableSymbol")
		p.ConstantSymbol = r.next("ConstantSymbol")
		p.SpecificSymbol = r.next("SpecificSymbol")
		p.OriginatorsReferenceInformation = r.next("OriginatorsReferenceInformation")
		p.PaymentNote = r.next("PaymentNote")
		na := r.count("BankAccounts", accountFields)
		if r.err != nil {
			return nil, r.err
		}
		p.BankAccounts = make([]BankAccount, na)
		for j := range p.BankAccounts {
			p.BankAccounts[j] = BankAccount{
				IBAN: r.next("IBAN"),
				BIC:  r.next("BIC"),
			}
		}

		if r.flag("StandingOrderExt") {
			if p.Type != TypeStandingOrder {
				r.fail("StandingOrderExt", "set on a %v", p.Type)
			}
			p.StandingOrderExt = &StandingOrder{
				Day:         uint8(r.number("Day", 0xff)),
				Month:       Month(r.number("Month", 0xffff)),
				Periodicity: Periodicity(r.next("Periodicity")),
				LastDate:    r.date("LastDate"),
			}
		}

		if r.flag("DirectDebitExt") {
			if p.Type != TypeDirectDebit {
				r.fail("DirectDebitExt", "set on a %v", p.Type)
			}
			p.DirectDebitExt = &DirectDebit{
				DirectDebitScheme:               DirectDebitScheme(r.number("DirectDebitScheme", 0xff)),
				DirectDebitType:                 DirectDebitType(r.number("DirectDebitType", 0xff)),
				VariableSymbol:                  r.next("VariableSymbol"),
				SpecificSymbol:                  r.next("SpecificSymbol"),
				OriginatorsReferenceInformation: r.next("OriginatorsReferenceInformation"),
				MandateID:                       r.next("MandateID"),
				CreditorID:                      r.next("CreditorID"),
				ContractID:                      r.next("ContractID"),
				MaxAmount:                       r.amount("MaxAmount"),
				ValidTillDate:                   r.date("ValidTillDate"),
			}
		}
		if r.err != nil {
			return nil, r.err
		}
	}

	if v >= Version110 {
		for i := range o.Payments {
			b := Beneficiary{
				Name:   r.next("BeneficiaryName"),
				Street: r.next("BeneficiaryAddressLine1"),
				City:   r.next("BeneficiaryAddressLine2"),
			}
			if b != (Beneficiary{}) {
				o.Payments[i].Beneficiary = &b
			}
		}
	}
	if r.err == nil && len(r.fields) != 0 {
		r.fail("", "%d trailing fields", len(r.fields))
	}
	if r.err != nil {
		return nil, r.err
	}
	return o, nil
}
