// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package invoicesuc

import (
	"context"

	"github.com/momeni/campus-parking/pkg/core/cerr"
	"github.com/momeni/campus-parking/pkg/core/model"
	"github.com/momeni/campus-parking/pkg/core/repo"
)

// Get use case returns the id invoice with its payment status. It must
// be owned by the actor, unless the actor is an admin.
func (uc *UseCase) Get(
	ctx context.Context, actor model.Actor, id model.InvoiceID,
) (inv *model.Invoice, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		inv, err = uc.invoices.Conn(c).Get(ctx, id)
		if err != nil {
			return err
		}
		if !actor.CanAccess(inv.UserID) {
			return cerr.Forbidden(cerr.ErrNotOwner)
		}
		return nil
	})
	if err = cerr.Classify(err); err != nil {
		return nil, err
	}
	return inv, nil
}

// List use case returns the invoices which match the f filter, newest
// first. Non-admin actors may only list their own invoices.
func (uc *UseCase) List(
	ctx context.Context, actor model.Actor, f model.InvoiceFilter,
) (invs []model.Invoice, err error) {
	if !actor.IsAdmin() {
		if f.UserID != nil && *f.UserID != actor.ID {
			return nil, cerr.Forbidden(cerr.ErrNotOwner)
		}
		id := actor.ID
		f.UserID = &id
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		invs, err = uc.invoices.Conn(c).List(ctx, f)
		return err
	})
	if err = cerr.Classify(err); err != nil {
		return nil, err
	}
	return invs, nil
}
