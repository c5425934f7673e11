// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentState specifies the payment status of an invoice.
type PaymentState int

// Valid values for the PaymentState enum.
const (
	PaymentStateInvalid PaymentState = iota // zero value is invalid

	PaymentPending
	PaymentPaid
	PaymentFailed
	PaymentRefunded
)

var paymentStateNames = enumNames{"PENDING", "PAID", "FAILED", "REFUNDED"}

// Validate returns nil if the PaymentState value is valid.
func (p PaymentState) Validate() error {
	return paymentStateNames.validate("payment state", int(p))
}

// String returns the upper-case name of the payment state.
// Invalid payment states cause a panic.
func (p PaymentState) String() string {
	return paymentStateNames.name("payment state", int(p))
}

// MarshalText implements encoding.TextMarshaler.
func (p PaymentState) MarshalText() ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *PaymentState) UnmarshalText(text []byte) error {
	v, err := ParsePaymentState(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ParsePaymentState parses the upper-case name of a payment state.
func ParsePaymentState(s string) (PaymentState, error) {
	v, err := paymentStateNames.parse(s)
	return PaymentState(v), err
}

// PaymentStatus tracks the payment of one invoice. ChangedAt is the
// time of the last state change and TransactionID is the reference of
// the external payment provider (if the invoice is paid).
type PaymentStatus struct {
	ID            PaymentID    `json:"id"`
	State         PaymentState `json:"status"`
	ChangedAt     time.Time    `json:"date"`
	TransactionID string       `json:"transaction_id,omitempty"`
}

// Invoice is the billing record of exactly one session. Its Amount is
// the estimate while the session is open and the final amount once it
// is completed. It may not change after the invoice is paid, but for
// a cancellation which refunds it.
type Invoice struct {
	ID          InvoiceID       `json:"id"`
	UserID      UserID          `json:"user_id"`
	SessionID   SessionID       `json:"session_id"`
	Amount      decimal.Decimal `json:"amount"`
	IssuedAt    time.Time       `json:"issued_at"`
	DueAt       *time.Time      `json:"due_at,omitempty"`
	Description string          `json:"description"`
	Payment     PaymentStatus   `json:"payment"`
}

// IsPaid reports if the invoice payment state is PAID.
func (inv *Invoice) IsPaid() bool {
	return inv.Payment.State == PaymentPaid
}

// InvoiceFilter restricts an invoices listing. A nil UserID lists the
// invoices of all users.
type InvoiceFilter struct {
	UserID *UserID
	State  *PaymentState
	Limit  int
}
