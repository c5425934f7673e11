// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memory

import (
	"bytes"
	"context"
	"errors"
	"slices"

	"github.com/momeni/campus-parking/pkg/core/cerr"
	"github.com/momeni/campus-parking/pkg/core/model"
	"github.com/momeni/campus-parking/pkg/core/repo"
)

var errDuplicateID = errors.New("duplicate id")

// Invoices implements the repo.Invoices interface.
type Invoices struct{}

// Conn returns a queryer of invoices over the c connection.
func (Invoices) Conn(c repo.Conn) repo.InvoicesConnQueryer {
	return invoicesQueryer{connHandle(c)}
}

// Tx returns a queryer of invoices in the tx transaction.
func (Invoices) Tx(tx repo.Tx) repo.InvoicesTxQueryer {
	return invoicesQueryer{txHandle(tx)}
}

type invoicesQueryer struct {
	handle
}

func (q invoicesQueryer) Get(ctx context.Context, id model.InvoiceID) (*model.Invoice, error) {
	st, err := q.view()
	if err != nil {
		return nil, err
	}
	inv, ok := st.invoices[id]
	if !ok {
		return nil, cerr.NotFound(cerr.ErrInvoiceNotFound)
	}
	inv.DueAt = ptrCopy(inv.DueAt)
	return &inv, nil
}

func (q invoicesQueryer) Lock(ctx context.Context, id model.InvoiceID) (*model.Invoice, error) {
	return q.Get(ctx, id)
}

func (q invoicesQueryer) List(ctx context.Context, f model.InvoiceFilter) ([]model.Invoice, error) {
	st, err := q.view()
	if err != nil {
		return nil, err
	}
	var invs []model.Invoice
	for _, inv := range st.invoices {
		switch {
		case f.UserID != nil && inv.UserID != *f.UserID:
		case f.State != nil && inv.Payment.State != *f.State:
		default:
			inv.DueAt = ptrCopy(inv.DueAt)
			invs = append(invs, inv)
		}
	}
	slices.SortFunc(invs, func(a, b model.Invoice) int {
		if c := b.IssuedAt.Compare(a.IssuedAt); c != 0 {
			return c
		}
		return bytes.Compare(a.ID[:], b.ID[:])
	})
	if f.Limit > 0 && len(invs) > f.Limit {
		invs = invs[:f.Limit]
	}
	return invs, nil
}

func (q invoicesQueryer) Create(ctx context.Context, inv *model.Invoice) error {
	return q.write(ctx, func(st *state) error {
		if _, ok := st.invoices[inv.ID]; ok {
			return cerr.Conflict(errDuplicateID)
		}
		if _, ok := st.sessions[inv.SessionID]; !ok {
			return cerr.NotFound(cerr.ErrSessionNotFound)
		}
		c := *inv
		c.DueAt = ptrCopy(inv.DueAt)
		st.invoices[inv.ID] = c
		return nil
	})
}

func (q invoicesQueryer) Update(ctx context.Context, inv *model.Invoice) error {
	return q.write(ctx, func(st *state) error {
		old, ok := st.invoices[inv.ID]
		if !ok {
			return cerr.NotFound(cerr.ErrInvoiceNotFound)
		}
		old.Amount = inv.Amount
		old.Payment = inv.Payment
		st.invoices[inv.ID] = old
		return nil
	})
}
