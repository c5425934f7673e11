// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package invoicesrp implements the repo.Invoices interface for
// PostgreSQL. Each invoice row references a payment_statuses row
// which keeps its current payment state.
package invoicesrp

import (
	"context"

	"github.com/momeni/campus-parking/pkg/adapter/db/postgres"
	"github.com/momeni/campus-parking/pkg/core/model"
	"github.com/momeni/campus-parking/pkg/core/repo"
)

// Repo represents the invoices repository instance.
type Repo struct {
}

// New instantiates an invoices repository.
func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

// Conn takes a Conn interface instance, unwraps it as required,
// and returns an InvoicesConnQueryer interface.
func (invoices *Repo) Conn(c repo.Conn) repo.InvoicesConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) Get(ctx context.Context, id model.InvoiceID) (*model.Invoice, error) {
	return Get(ctx, cq.Conn, id, false)
}

func (cq connQueryer) List(ctx context.Context, f model.InvoiceFilter) ([]model.Invoice, error) {
	return List(ctx, cq.Conn, f)
}

type txQueryer struct {
	*postgres.Tx
}

// Tx takes a Tx interface instance, unwraps it as required,
// and returns an InvoicesTxQueryer interface.
func (invoices *Repo) Tx(tx repo.Tx) repo.InvoicesTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) Get(ctx context.Context, id model.InvoiceID) (*model.Invoice, error) {
	return Get(ctx, tq.Tx, id, false)
}

func (tq txQueryer) Lock(ctx context.Context, id model.InvoiceID) (*model.Invoice, error) {
	return Get(ctx, tq.Tx, id, true)
}

func (tq txQueryer) List(ctx context.Context, f model.InvoiceFilter) ([]model.Invoice, error) {
	return List(ctx, tq.Tx, f)
}

func (tq txQueryer) Create(ctx context.Context, inv *model.Invoice) error {
	return Create(ctx, tq.Tx, inv)
}

func (tq txQueryer) Update(ctx context.Context, inv *model.Invoice) error {
	return Update(ctx, tq.Tx, inv)
}
