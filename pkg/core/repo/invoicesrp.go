// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"

	"github.com/momeni/campus-parking/pkg/core/model"
)

type InvoicesQueryer interface {
	// Get returns the invoice with the given id, with its payment
	// status attached, or a NotFound error.
	Get(ctx context.Context, id model.InvoiceID) (*model.Invoice, error)

	// List returns invoices matching the filter, sorted by their
	// issue time in descending order.
	List(ctx context.Context, f model.InvoiceFilter) ([]model.Invoice, error)
}

type InvoicesConnQueryer interface {
	InvoicesQueryer
}

type InvoicesTxQueryer interface {
	InvoicesQueryer

	// Lock fetches the invoice with the given id and locks it (and
	// its payment status) until the end of the current transaction.
	Lock(ctx context.Context, id model.InvoiceID) (*model.Invoice, error)

	// Create inserts the payment status of an invoice and then the
	// invoice itself.
	Create(ctx context.Context, inv *model.Invoice) error

	// Update persists the amount and payment status of an invoice.
	Update(ctx context.Context, inv *model.Invoice) error
}

type Invoices interface {
	Conn(Conn) InvoicesConnQueryer
	Tx(Tx) InvoicesTxQueryer
}
