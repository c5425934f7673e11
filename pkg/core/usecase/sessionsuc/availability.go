// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package sessionsuc

import (
	"context"
	"fmt"
	"time"

	"github.com/momeni/campus-parking/pkg/core/cerr"
	"github.com/momeni/campus-parking/pkg/core/model"
	"github.com/momeni/campus-parking/pkg/core/repo"
)

// IsAvailable use case reports if the slotID slot can be booked for the
// [start, end) interval. The slot-level state must accept bookings and
// no RESERVED or ACTIVE session of the slot may overlap the interval.
// Sessions which share only a boundary instant do not overlap.
func (uc *UseCase) IsAvailable(
	ctx context.Context, slotID model.SlotID, start, end time.Time,
) (ok bool, err error) {
	iv := model.Interval{Start: start, End: end}
	if err = iv.Validate(); err != nil {
		return false, cerr.Validation(err)
	}
	var eff effects
	err = uc.inTx(ctx, func(ctx context.Context, tx repo.Tx) error {
		slot, err := uc.slots.Tx(tx).Lock(ctx, slotID)
		if err != nil {
			return err
		}
		open, err := uc.refresh(ctx, tx, slot, uc.now(), &eff)
		if err != nil {
			return err
		}
		ok = available(slot, open, iv)
		return nil
	})
	if err != nil {
		return false, err
	}
	uc.flush(ctx, &eff)
	return ok, nil
}

// available is the availability predicate. The open sessions must be
// the RESERVED and ACTIVE sessions of the slot.
func available(slot *model.Slot, open []model.Session, iv model.Interval) bool {
	if !slot.AcceptsBookings() {
		return false
	}
	for i := range open {
		if open[i].Status.IsOpen() && open[i].Interval().Overlaps(iv) {
			return false
		}
	}
	return true
}

// refresh activates the due reservations of the slot, which must be
// locked by tx, and re-derives its state. The open sessions of the slot
// are returned with their refreshed statuses.
func (uc *UseCase) refresh(
	ctx context.Context,
	tx repo.Tx,
	slot *model.Slot,
	now time.Time,
	eff *effects,
) ([]model.Session, error) {
	sq := uc.sessions.Tx(tx)
	open, err := sq.Open(ctx, slot.ID)
	if err != nil {
		return nil, fmt.Errorf("fetching open sessions: %w", err)
	}
	for i := range open {
		if !open[i].ActivateIfDue(now) {
			continue
		}
		if err := sq.Update(ctx, &open[i]); err != nil {
			return nil, fmt.Errorf("activating session: %w", err)
		}
		eff.activated++
	}
	if slot.Derive(open) {
		if err := uc.slots.Tx(tx).SaveState(ctx, slot); err != nil {
			return nil, fmt.Errorf("saving slot state: %w", err)
		}
		eff.slotChanged(*slot)
	}
	return open, nil
}
