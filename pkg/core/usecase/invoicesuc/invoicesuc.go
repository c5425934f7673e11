// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package invoicesuc contains the invoices UseCase which is the
// payment ledger of the parking sessions. It supports paying an
// invoice (at most once until it is refunded), refunding a paid
// invoice, and fetching or listing the invoices.
package invoicesuc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/momeni/campus-parking/pkg/core/model"
	"github.com/momeni/campus-parking/pkg/core/notify"
	"github.com/momeni/campus-parking/pkg/core/repo"
)

// Gateway charges and refunds the invoices with an external payment
// provider. Charge returns the provider transaction id. It runs out of
// the database transactions, so a charge may succeed while recording
// it fails. Charge is called again when the payment is retried and
// must use the invoice Payment.ID as its idempotency key, returning
// the earlier transaction id instead of charging twice.
type Gateway interface {
	Charge(ctx context.Context, inv model.Invoice) (txID string, err error)
	Refund(ctx context.Context, inv model.Invoice) error
}

// Auditor records the performed actions. It is best-effort, so it
// reports no error and its failures must be handled internally.
type Auditor interface {
	Record(ctx context.Context, action string, actorID model.UserID, details map[string]any)
}

// UseCase represents the invoices use case. It holds a database
// connection pool, the invoices and directory repositories, and
// its optional collaborators.
type UseCase struct {
	pool     repo.Pool
	invoices repo.Invoices
	dir      repo.Directory

	gateway  Gateway
	auditor  Auditor
	notifier notify.Sender
	now      func() time.Time
}

// New instantiates an invoices use case.
// Without a Gateway, payments are recorded with no transaction id,
// e.g., when they are collected at a campus office.
func New(
	p repo.Pool, invoices repo.Invoices, dir repo.Directory, opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{pool: p, invoices: invoices, dir: dir}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	if uc.notifier == nil {
		uc.notifier = notify.Discard
	}
	return uc, nil
}

// Option is a functional option for the invoices use case.
type Option func(uc *UseCase) error

// WithGateway option configures the payment provider.
func WithGateway(g Gateway) Option {
	return func(uc *UseCase) error {
		if g == nil {
			return errors.New("nil gateway")
		}
		uc.gateway = g
		return nil
	}
}

// WithAuditor option configures the audit logger.
func WithAuditor(a Auditor) Option {
	return func(uc *UseCase) error {
		if a == nil {
			return errors.New("nil auditor")
		}
		uc.auditor = a
		return nil
	}
}

// WithNotifier option configures the notifications sender.
func WithNotifier(s notify.Sender) Option {
	return func(uc *UseCase) error {
		if s == nil {
			return errors.New("nil notifier")
		}
		uc.notifier = s
		return nil
	}
}

// WithClock option replaces the time.Now function, e.g., in tests.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) error {
		if now == nil {
			return errors.New("nil clock")
		}
		uc.now = now
		return nil
	}
}

func (uc *UseCase) audit(ctx context.Context, action string, actorID model.UserID, inv *model.Invoice) {
	if uc.auditor == nil {
		return
	}
	uc.auditor.Record(ctx, action, actorID, map[string]any{
		"invoice_id": inv.ID.String(),
		"session_id": inv.SessionID.String(),
		"amount":     inv.Amount.StringFixed(2),
	})
}
