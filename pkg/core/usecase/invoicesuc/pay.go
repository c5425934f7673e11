// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package invoicesuc

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"

	"github.com/momeni/campus-parking/pkg/core/cerr"
	"github.com/momeni/campus-parking/pkg/core/log"
	"github.com/momeni/campus-parking/pkg/core/model"
	"github.com/momeni/campus-parking/pkg/core/notify"
	"github.com/momeni/campus-parking/pkg/core/repo"
)

// ErrInvoiceChanged indicates that the invoice amount was changed
// (e.g., its session ended) while it was being charged.
var ErrInvoiceChanged = errors.New("invoice was changed during the payment")

// Pay use case marks the id invoice as PAID. The invoice must be owned
// by the actor (unless the actor is an admin) and must not be paid
// already; a second payment fails with a Conflict error wrapping the
// cerr.ErrAlreadyPaid and keeps the first payment time.
// If a Gateway is configured, it is called before the invoice is
// locked, so no transaction is kept open during the charge. If it
// declines the charge, the FAILED state is persisted and a
// PaymentFailed error is returned. A FAILED invoice may be paid again.
// The updated invoice is returned with its payment status attached.
func (uc *UseCase) Pay(
	ctx context.Context, actor model.Actor, id model.InvoiceID,
) (*model.Invoice, error) {
	charged, err := uc.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if charged.IsPaid() {
		return nil, cerr.Conflict(cerr.ErrAlreadyPaid)
	}
	txID := ""
	var chargeErr error
	if uc.gateway != nil {
		txID, chargeErr = uc.gateway.Charge(ctx, *charged)
	}
	var inv *model.Invoice
	var owner *model.User
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			iq := uc.invoices.Tx(tx)
			var err error
			inv, err = iq.Lock(ctx, id)
			if err != nil {
				return err
			}
			if inv.IsPaid() {
				return cerr.Conflict(cerr.ErrAlreadyPaid)
			}
			if !inv.Amount.Equal(charged.Amount) {
				return cerr.Conflict(ErrInvoiceChanged)
			}
			inv.Payment.ChangedAt = uc.now()
			if chargeErr != nil {
				inv.Payment.State = model.PaymentFailed
			} else {
				inv.Payment.State = model.PaymentPaid
				inv.Payment.TransactionID = txID
			}
			if err = iq.Update(ctx, inv); err != nil {
				return fmt.Errorf("updating payment status: %w", err)
			}
			owner, err = uc.dir.Tx(tx).User(ctx, inv.UserID)
			return err
		})
	})
	if err = cerr.Classify(err); err != nil {
		if txID != "" {
			log.Warn(ctx, "charged invoice was not recorded",
				log.ID("invoice", id),
				log.ID("payment", charged.Payment.ID),
				slog.String("transaction", txID),
				log.Err("err", err),
			)
		}
		return nil, err
	}
	if chargeErr != nil {
		uc.audit(ctx, "Invoice Payment Failed", actor.ID, inv)
		return nil, cerr.PaymentFailed(chargeErr)
	}
	uc.audit(ctx, "Invoice Paid", actor.ID, inv)
	uc.send(ctx, owner, "Payment Confirmation", fmt.Sprintf(
		"<p>Hello %s,</p><p>We received %s for invoice %s.</p><p>%s</p>",
		html.EscapeString(owner.Name),
		inv.Amount.StringFixed(2),
		inv.ID,
		html.EscapeString(inv.Description),
	))
	return inv, nil
}

// Refund use case marks the PAID id invoice as REFUNDED. Only admins
// may refund invoices. A Conflict error wrapping cerr.ErrNotPaid is
// returned for other invoices.
func (uc *UseCase) Refund(
	ctx context.Context, actor model.Actor, id model.InvoiceID,
) (*model.Invoice, error) {
	if !actor.IsAdmin() {
		return nil, cerr.Forbidden(cerr.ErrAdminOnly)
	}
	var inv *model.Invoice
	err := uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			iq := uc.invoices.Tx(tx)
			var err error
			if inv, err = iq.Lock(ctx, id); err != nil {
				return err
			}
			if !inv.IsPaid() {
				return cerr.Conflict(cerr.ErrNotPaid)
			}
			if uc.gateway != nil {
				if err = uc.gateway.Refund(ctx, *inv); err != nil {
					return cerr.PaymentFailed(err)
				}
			}
			inv.Payment.State = model.PaymentRefunded
			inv.Payment.ChangedAt = uc.now()
			return iq.Update(ctx, inv)
		})
	})
	if err = cerr.Classify(err); err != nil {
		return nil, err
	}
	uc.audit(ctx, "Invoice Refunded", actor.ID, inv)
	return inv, nil
}

func (uc *UseCase) send(ctx context.Context, to *model.User, subject, body string) {
	if to == nil || to.Email == "" {
		return
	}
	err := uc.notifier.Send(ctx, notify.Message{
		To: to.Email, Subject: subject, HTML: body,
	})
	if err != nil {
		log.Warn(
			ctx, "sending notification failed",
			log.ID("user", to.ID), log.Err("err", err),
		)
	}
}
