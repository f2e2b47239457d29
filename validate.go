// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bysquare

import (
	"fmt"
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/jbub/banking/iban"
	"golang.org/x/text/currency"
)

// Maximum lengths of text fields, in characters.
const (
	maxInvoiceID   = 10
	maxVariable    = 10
	maxConstant    = 4
	maxSpecific    = 10
	maxReference   = 35
	maxNote        = 140
	maxBeneficiary = 70
	maxAmountLen   = 15
)

const dateLayout = "2006-01-02"

var (
	currencyRE = regexp.MustCompile(`^[A-Z]{3}$`)
	bicRE      = regexp.MustCompile(`^[A-Z]{6}[A-Z0-9]{2}([A-Z0-9]{3})?$`)
	ibanRE     = regexp.MustCompile(`^[A-Z]{2}[0-9]{2}[A-Z0-9]{11,30}$`)
)

// ValidIBAN reports whether s is an IBAN of a registered country with
// a well-formed BBAN and a correct ISO 7064 mod 97-10 check.  s must be
// upper case without spaces.
func ValidIBAN(s string) bool {
	return ibanRE.MatchString(s) && iban.Validate(s) == nil
}

// ValidBIC reports whether s is an 8 or 11 character BIC.
func ValidBIC(s string) bool {
	return bicRE.MatchString(s)
}

// validator collects the first rule violation.
type validator struct {
	err error
}

func (v *validator) fail(path, format string, a ...any) {
	if v.err == nil {
		v.err = &ValidationError{Path: path, Reason: fmt.Sprintf(format, a...)}
	}
}

func (v *validator) maxLen(path, s string, n int) {
	if utf8.RuneCountInString(s) > n {
		v.fail(path, "longer than %d characters", n)
	}
}

func (v *validator) digits(path, s string, n int) {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			v.fail(path, "must be digits only")
			return
		}
	}
	if len(s) > n {
		v.fail(path, "longer than %d digits", n)
	}
}

func (v *validator) date(path, s string) {
	if s == "" {
		return
	}
	if _, err := time.Parse(dateLayout, s); err != nil {
		v.fail(path, "not a YYYY-MM-DD date")
	}
}

// amount checks a for sign, length and at most scale decimal places.
func (v *validator) amount(path string, a Amount, scale int32) {
	if !a.Valid {
		return
	}
	switch {
	case a.Value.IsNegative():
		v.fail(path, "must not be negative")
	case a.textLen() > maxAmountText || len(a.String()) > maxAmountLen:
		v.fail(path, "longer than %d characters", maxAmountLen)
	case !a.Value.Equal(a.Value.Truncate(scale)):
		v.fail(path, "more than %d decimal places", scale)
	}
}

// currency checks code and returns the number of decimal places of its
// minor unit.
func (v *validator) currency(path, code string) int32 {
	if code == "" {
		return 2
	}
	if !currencyRE.MatchString(code) {
		v.fail(path, "must be three upper case letters")
		return 2
	}
	u, err := currency.ParseISO(code)
	if err != nil {
		v.fail(path, "unknown ISO 4217 code %q", code)
		return 2
	}
	scale, _ := currency.Standard.Rounding(u)
	return int32(scale)
}

// Validate checks o against the rules of format revision ver, the
// latest for VersionDefault.  It returns a *ValidationError for the
// first violation found, or an *UnsupportedVersionError.
func (o *PaymentOrder) Validate(ver Version) error {
	if ver == VersionDefault {
		ver = VersionLatest
	}
	if !ver.Supported() {
		return &UnsupportedVersionError{Version: ver}
	}
	var v validator
	v.maxLen("invoiceId", o.InvoiceID, maxInvoiceID)
	if len(o.Payments) == 0 {
		v.fail("payments", "at least one payment is required")
	}
	for i := range o.Payments {
		v.payment(fmt.Sprintf("payments[%d]", i), &o.Payments[i], ver)
	}
	return v.err
}

func (v *validator) payment(path string, p *Payment, ver Version) {
	switch p.Type {
	case TypePaymentOrder, TypeStandingOrder, TypeDirectDebit:
	default:
		v.fail(path+".type", "unknown payment type %d", p.Type)
	}
	scale := v.currency(path+".currencyCode", p.CurrencyCode)
	v.amount(path+".amount", p.Amount, scale)
	v.date(path+".paymentDueDate", p.PaymentDueDate)
	v.digits(path+".variableSymbol", p.VariableSymbol, maxVariable)
	v.digits(path+".constantSymbol", p.ConstantSymbol, maxConstant)
	v.digits(path+".specificSymbol", p.SpecificSymbol, maxSpecific)
	v.maxLen(path+".originatorsReferenceInformation",
		p.OriginatorsReferenceInformation, maxReference)
	v.maxLen(path+".paymentNote", p.PaymentNote, maxNote)

	if len(p.BankAccounts) == 0 {
		v.fail(path+".bankAccounts", "at least one bank account is required")
	}
	for i, a := range p.BankAccounts {
		ap := fmt.Sprintf("%s.bankAccounts[%d]", path, i)
		if !ValidIBAN(a.IBAN) {
			v.fail(ap+".iban", "invalid IBAN %q", a.IBAN)
		}
		if a.BIC != "" && !ValidBIC(a.BIC) {
			v.fail(ap+".bic", "invalid BIC %q", a.BIC)
		}
	}

	switch {
	case p.Type == TypeStandingOrder && p.StandingOrderExt == nil:
		v.fail(path+".standingOrderExt", "required for a standing order")
	case p.Type != TypeStandingOrder && p.StandingOrderExt != nil:
		v.fail(path+".standingOrderExt", "only allowed for a standing order")
	case p.StandingOrderExt != nil:
		v.standingOrder(path+".standingOrderExt", p.StandingOrderExt)
	}
	switch {
	case p.Type == TypeDirectDebit && p.DirectDebitExt == nil:
		v.fail(path+".directDebitExt", "required for a direct debit")
	case p.Type != TypeDirectDebit && p.DirectDebitExt != nil:
		v.fail(path+".directDebitExt", "only allowed for a direct debit")
	case p.DirectDebitExt != nil:
		v.directDebit(path+".directDebitExt", p.DirectDebitExt, scale)
	}

	v.beneficiary(path+".beneficiary", p.Beneficiary, ver)
}

func (v *validator) standingOrder(path string, so *StandingOrder) {
	if !so.Periodicity.Valid() {
		v.fail(path+".periodicity", "unknown periodicity %q", so.Periodicity)
		return
	}
	switch {
	case so.Periodicity.weekBased():
		if so.Day < 1 || so.Day > 7 {
			v.fail(path+".day", "weekday must be 1 to 7")
		}
	case so.Periodicity == Daily:
		if so.Day > 31 {
			v.fail(path+".day", "day of month must be 1 to 31")
		}
	default:
		if so.Day < 1 || so.Day > 31 {
			v.fail(path+".day", "day of month must be 1 to 31")
		}
	}
	switch {
	case so.Month&^AllMonths != 0:
		v.fail(path+".month", "invalid month bits %#x", uint16(so.Month))
	case so.Month != 0 && !so.Periodicity.takesMonth():
		v.fail(path+".month", "not allowed with periodicity %q", so.Periodicity)
	}
	v.date(path+".lastDate", so.LastDate)
}

func (v *validator) directDebit(path string, dd *DirectDebit, scale int32) {
	if dd.DirectDebitScheme > SchemeSEPA {
		v.fail(path+".directDebitScheme", "unknown scheme %d", dd.DirectDebitScheme)
	}
	if dd.DirectDebitType > DirectDebitRecurrent {
		v.fail(path+".directDebitType", "unknown type %d", dd.DirectDebitType)
	}
	v.digits(path+".variableSymbol", dd.VariableSymbol, maxVariable)
	v.digits(path+".specificSymbol", dd.SpecificSymbol, maxSpecific)
	v.maxLen(path+".originatorsReferenceInformation",
		dd.OriginatorsReferenceInformation, maxReference)
	v.maxLen(path+".mandateId", dd.MandateID, maxReference)
	v.maxLen(path+".creditorId", dd.CreditorID, maxReference)
	v.maxLen(path+".contractId", dd.ContractID, maxReference)
	v.amount(path+".maxAmount", dd.MaxAmount, scale)
	v.date(path+".validTillDate", dd.ValidTillDate)
}

func (v *validator) beneficiary(path string, b *Beneficiary, ver Version) {
	switch {
	case b == nil || *b == (Beneficiary{}):
		return
	case ver < Version110:
		v.fail(path, "not supported before %v", Version110)
		return
	case b.Name == "" && ver >= Version120:
		v.fail(path+".name", "required with an address since %v", Version120)
	}
	v.maxLen(path+".name", b.Name, maxBeneficiary)
	v.maxLen(path+".street", b.Street, maxBeneficiary)
	v.maxLen(path+".city", b.City, maxBeneficiary)
}
