// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package sessionsuc

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/momeni/campus-parking/pkg/core/cerr"
	"github.com/momeni/campus-parking/pkg/core/model"
	"github.com/momeni/campus-parking/pkg/core/repo"
)

// Get use case returns the id session, which must be owned by the
// actor (unless the actor is an admin), with the related records which
// are asked by the expand bit set.
func (uc *UseCase) Get(
	ctx context.Context,
	actor model.Actor,
	id model.SessionID,
	expand model.Expand,
) (view *model.SessionView, err error) {
	var eff effects
	err = uc.inTx(ctx, func(ctx context.Context, tx repo.Tx) error {
		sq := uc.sessions.Tx(tx)
		s, err := sq.Get(ctx, id)
		if err != nil {
			return err
		}
		if !actor.CanAccess(s.UserID) {
			return cerr.Forbidden(cerr.ErrNotOwner)
		}
		due, err := uc.refreshDue(ctx, tx, uc.now(), &eff, s.SlotID)
		if err != nil {
			return err
		}
		if due {
			if s, err = sq.Get(ctx, id); err != nil {
				return err
			}
		}
		views, err := uc.expand(ctx, tx, []model.Session{*s}, expand)
		if err != nil {
			return err
		}
		view = &views[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.flush(ctx, &eff)
	return view, nil
}

// List use case returns the sessions which match the f filter, sorted
// by their entry time (newest first). Non-admin actors may only list
// their own sessions, so a nil f.UserID is replaced by the actor id.
func (uc *UseCase) List(
	ctx context.Context,
	actor model.Actor,
	f model.SessionFilter,
	expand model.Expand,
) (views []model.SessionView, err error) {
	if !actor.IsAdmin() {
		if f.UserID != nil && *f.UserID != actor.ID {
			return nil, cerr.Forbidden(cerr.ErrNotOwner)
		}
		id := actor.ID
		f.UserID = &id
	}
	var eff effects
	err = uc.inTx(ctx, func(ctx context.Context, tx repo.Tx) error {
		// the filter may exclude the due reservations themselves
		if _, err := uc.refreshDue(ctx, tx, uc.now(), &eff); err != nil {
			return err
		}
		ss, err := uc.sessions.Tx(tx).List(ctx, f)
		if err != nil {
			return err
		}
		views, err = uc.expand(ctx, tx, ss, expand)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.flush(ctx, &eff)
	return views, nil
}

// refreshDue refreshes the slots having due reservations. If only is
// given, other slots are left as is. It reports if any slot was due.
func (uc *UseCase) refreshDue(
	ctx context.Context,
	tx repo.Tx,
	now time.Time,
	eff *effects,
	only ...model.SlotID,
) (bool, error) {
	due, err := uc.sessions.Tx(tx).DueSlots(ctx, now)
	if err != nil {
		return false, fmt.Errorf("finding due slots: %w", err)
	}
	if len(only) > 0 {
		due = slices.DeleteFunc(due, func(id model.SlotID) bool {
			return !slices.Contains(only, id)
		})
	}
	if len(due) == 0 {
		return false, nil
	}
	return true, uc.refreshSlots(ctx, tx, due, now, eff)
}

// refreshSlots locks and refreshes the given slots. They are locked in
// the order of their ids, so concurrent callers may not deadlock.
func (uc *UseCase) refreshSlots(
	ctx context.Context,
	tx repo.Tx,
	ids []model.SlotID,
	now time.Time,
	eff *effects,
) error {
	ids = slices.Clone(ids)
	slices.SortFunc(ids, func(a, b model.SlotID) int {
		return bytes.Compare(a[:], b[:])
	})
	slq := uc.slots.Tx(tx)
	for _, id := range ids {
		slot, err := slq.Lock(ctx, id)
		if err != nil {
			return err
		}
		if _, err = uc.refresh(ctx, tx, slot, now, eff); err != nil {
			return err
		}
	}
	return nil
}

// expand fills the related records of ss sessions as asked by the
// expand bit set. Each slot or vehicle is fetched once.
func (uc *UseCase) expand(
	ctx context.Context,
	tx repo.Tx,
	ss []model.Session,
	expand model.Expand,
) ([]model.SessionView, error) {
	slotsCache := make(map[model.SlotID]*model.Slot)
	vehiclesCache := make(map[model.VehicleID]*model.Vehicle)
	views := make([]model.SessionView, len(ss))
	for i, s := range ss {
		v := &views[i]
		v.Session = s
		if expand.Has(model.ExpandSlot) {
			slot, ok := slotsCache[s.SlotID]
			if !ok {
				var err error
				if slot, err = uc.slots.Tx(tx).Get(ctx, s.SlotID); err != nil {
					return nil, err
				}
				slotsCache[s.SlotID] = slot
			}
			v.Slot = slot
		}
		if expand.Has(model.ExpandVehicle) {
			vehicle, ok := vehiclesCache[s.VehicleID]
			if !ok {
				var err error
				vehicle, err = uc.dir.Tx(tx).Vehicle(ctx, s.VehicleID)
				if err != nil {
					return nil, err
				}
				vehiclesCache[s.VehicleID] = vehicle
			}
			v.Vehicle = vehicle
		}
		if expand.Has(model.ExpandInvoice) && s.InvoiceID != nil {
			inv, err := uc.invoices.Tx(tx).Get(ctx, *s.InvoiceID)
			if err != nil {
				return nil, err
			}
			v.Invoice = inv
		}
	}
	return views, nil
}
