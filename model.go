// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bysquare

import "strconv"

// A PaymentOrder is the document carried by a PAY by square code.  The
// JSON field names follow the reference data model.
type PaymentOrder struct {
	InvoiceID string    `json:"invoiceId,omitempty"` // up to 10 characters
	Payments  []Payment `json:"payments"`
}

// A PaymentType selects the kind of a Payment.
type PaymentType uint8

const (
	TypePaymentOrder  PaymentType = 1 // one-off payment
	TypeStandingOrder PaymentType = 2 // requires StandingOrderExt
	TypeDirectDebit   PaymentType = 3 // requires DirectDebitExt
)

func (t PaymentType) String() string {
	switch t {
	case TypePaymentOrder:
		return "payment order"
	case TypeStandingOrder:
		return "standing order"
	case TypeDirectDebit:
		return "direct debit"
	}
	return "PaymentType(" + strconv.Itoa(int(t)) + ")"
}

// A Payment is one payment of an order.  Dates are YYYY-MM-DD.
type Payment struct {
	Type                            PaymentType    `json:"type"`
	Amount                          Amount         `json:"amount,omitzero"`
	CurrencyCode                    string         `json:"currencyCode,omitempty"` // ISO 4217
	PaymentDueDate                  string         `json:"paymentDueDate,omitempty"`
	VariableSymbol                  string         `json:"variableSymbol,omitempty"` // up to 10 digits
	ConstantSymbol                  string         `json:"constantSymbol,omitempty"` // up to 4 digits
	SpecificSymbol                  string         `json:"specificSymbol,omitempty"` // up to 10 digits
	OriginatorsReferenceInformation string         `json:"originatorsReferenceInformation,omitempty"`
	PaymentNote                     string         `json:"paymentNote,omitempty"`
	BankAccounts                    []BankAccount  `json:"bankAccounts"`
	StandingOrderExt                *StandingOrder `json:"standingOrderExt,omitempty"`
	DirectDebitExt                  *DirectDebit   `json:"directDebitExt,omitempty"`
	Beneficiary                     *Beneficiary   `json:"beneficiary,omitempty"`
}

// A BankAccount is a payee account.
type BankAccount struct {
	IBAN string `json:"iban"`
	BIC  string `json:"bic,omitempty"`
}

// A Beneficiary is the payee's name and address, introduced in 1.1.0.
type Beneficiary struct {
	Name   string `json:"name,omitempty"`
	Street string `json:"street,omitempty"`
	City   string `json:"city,omitempty"`
}

// A Periodicity is the recurrence of a standing order.
type Periodicity string

const (
	Daily        Periodicity = "d"
	Weekly       Periodicity = "w"
	Biweekly     Periodicity = "b"
	Monthly      Periodicity = "m"
	Bimonthly    Periodicity = "B"
	Quarterly    Periodicity = "q"
	Semiannually Periodicity = "s"
	Annually     Periodicity = "a"
)

// Valid reports whether p is one of the defined periodicities.
func (p Periodicity) Valid() bool {
	return len(p) == 1 && periodicities&(1<<periodBit(p[0])) != 0
}

// weekBased reports whether Day of a standing order with periodicity p
// is a weekday.
func (p Periodicity) weekBased() bool {
	return p == Weekly || p == Biweekly
}

// takesMonth reports whether a standing order with periodicity p may
// restrict its months.
func (p Periodicity) takesMonth() bool {
	return p == Weekly || p == Biweekly || p == Monthly || p == Bimonthly
}

// periodicities has bit periodBit(c) set for every periodicity c.
const periodicities uint64 = 1<<('d'-'A') | 1<<('w'-'A') | 1<<('b'-'A') |
	1<<('m'-'A') | 1<<('B'-'A') | 1<<('q'-'A') | 1<<('s'-'A') | 1<<('a'-'A')

func periodBit(c byte) uint {
	return uint(c) - 'A'
}

// A StandingOrder is the extension of a TypeStandingOrder payment.
type StandingOrder struct {
	Day         uint8       `json:"day,omitempty"`   // weekday 1-7 for w and b, else day of month 1-31
	Month       Month       `json:"month,omitempty"` // months of execution for w, b, m and B
	Periodicity Periodicity `json:"periodicity"`
	LastDate    string      `json:"lastDate,omitempty"`
}

// A DirectDebitScheme is the scheme of a direct debit.
type DirectDebitScheme uint8

const (
	SchemeOther DirectDebitScheme = 0
	SchemeSEPA  DirectDebitScheme = 1
)

// A DirectDebitType is the kind of a direct debit.
type DirectDebitType uint8

const (
	DirectDebitOneOff    DirectDebitType = 0
	DirectDebitRecurrent DirectDebitType = 1
)

// A DirectDebit is the extension of a TypeDirectDebit payment.
type DirectDebit struct {
	DirectDebitScheme               DirectDebitScheme `json:"directDebitScheme"`
	DirectDebitType                 DirectDebitType   `json:"directDebitType"`
	VariableSymbol                  string            `json:"variableSymbol,omitempty"`
	SpecificSymbol                  string            `json:"specificSymbol,omitempty"`
	OriginatorsReferenceInformation string            `json:"originatorsReferenceInformation,omitempty"`
	MandateID                       string            `json:"mandateId,omitempty"`
	CreditorID                      string            `json:"creditorId,omitempty"`
	ContractID                      string            `json:"contractId,omitempty"`
	MaxAmount                       Amount            `json:"maxAmount,omitzero"`
	ValidTillDate                   string            `json:"validTillDate,omitempty"`
}

// Clone returns a deep copy of o.
func (o *PaymentOrder) Clone() *PaymentOrder {
	c := *o
	if o.Payments == nil {
		return &c
	}
	c.Payments = make([]Payment, len(o.Payments))
	for i, p := range o.Payments {
		p.BankAccounts = append([]BankAccount(nil), p.BankAccounts...)
		if p.StandingOrderExt != nil {
			so := *p.StandingOrderExt
			p.StandingOrderExt = &so
		}
		if p.DirectDebitExt != nil {
			dd := *p.DirectDebitExt
			p.DirectDebitExt = &dd
		}
		if p.Beneficiary != nil {
			b := *p.Beneficiary
			p.Beneficiary = &b
		}
		c.Payments[i] = p
	}
	return &c
}
