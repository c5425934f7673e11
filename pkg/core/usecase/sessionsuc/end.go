// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package sessionsuc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/momeni/campus-parking/pkg/core/cerr"
	"github.com/momeni/campus-parking/pkg/core/model"
	"github.com/momeni/campus-parking/pkg/core/repo"
	"github.com/shopspring/decimal"
)

// ErrNotStarted indicates that a RESERVED session was asked to be
// ended. Such sessions may only be cancelled.
var ErrNotStarted = errors.New("session has not started yet, cancel it instead")

// End use case completes the id session. The actual exit time defaults
// to the current time. The session must be ACTIVE, owned by the actor
// (unless the actor is an admin), and the actual exit may not precede
// its entry. The billed duration is rounded up to whole hours and the
// invoice amount is replaced by the final amount, unless the invoice
// is already paid. The slot state is re-derived from its remaining
// open sessions. The returned view includes all related records.
func (uc *UseCase) End(
	ctx context.Context,
	actor model.Actor,
	id model.SessionID,
	actualExit *time.Time,
) (*model.SessionView, error) {
	now := uc.now()
	exit := now
	if actualExit != nil {
		exit = *actualExit
	}
	return uc.close(ctx, actor, id, now, func(s *model.Session) error {
		if exit.Before(s.Entry) {
			return cerr.Validation(cerr.ErrExitBeforeEntry)
		}
		if s.Status != model.SessionActive {
			return cerr.Conflict(ErrNotStarted)
		}
		s.Status = model.SessionCompleted
		s.ActualExit = &exit
		s.DurationHours = uc.calc.Duration(s.Entry, exit)
		return nil
	})
}

// Cancel use case cancels the id session which must be RESERVED or
// ACTIVE and owned by the actor (unless the actor is an admin).
// A reservation which never became ACTIVE is billed zero while an
// ACTIVE session is billed up to now, similar to End. A paid invoice
// whose amount becomes zero is marked as REFUNDED.
func (uc *UseCase) Cancel(
	ctx context.Context, actor model.Actor, id model.SessionID,
) (*model.SessionView, error) {
	now := uc.now()
	return uc.close(ctx, actor, id, now, func(s *model.Session) error {
		exit := now
		if exit.Before(s.Entry) {
			exit = s.Entry
		}
		if s.Status == model.SessionActive {
			s.DurationHours = uc.calc.Duration(s.Entry, exit)
		}
		s.Status = model.SessionCancelled
		s.ActualExit = &exit
		return nil
	})
}

// close locks the slot and the id session, applies the transition
// function on the session, and updates the slot and invoice
// accordingly. The transition may only be called for an open session.
func (uc *UseCase) close(
	ctx context.Context,
	actor model.Actor,
	id model.SessionID,
	now time.Time,
	transition func(s *model.Session) error,
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
		slq := uc.slots.Tx(tx)
		slot, err := slq.Lock(ctx, s.SlotID)
		if err != nil {
			return err
		}
		open, err := uc.refresh(ctx, tx, slot, now, &eff)
		if err != nil {
			return err
		}
		if s, err = sq.Lock(ctx, id); err != nil {
			return err
		}
		if !s.Status.IsOpen() {
			return cerr.Conflict(cerr.ErrSessionClosed)
		}
		wasActive := s.Status == model.SessionActive
		if err = transition(s); err != nil {
			return err
		}
		if err = sq.Update(ctx, s); err != nil {
			return fmt.Errorf("updating session: %w", err)
		}
		remaining := open[:0:0]
		for _, o := range open {
			if o.ID != s.ID {
				remaining = append(remaining, o)
			}
		}
		if slot.Derive(remaining) {
			if err = slq.SaveState(ctx, slot); err != nil {
				return fmt.Errorf("saving slot state: %w", err)
			}
			eff.slotChanged(*slot)
		}
		inv, err := uc.settle(ctx, tx, s, slot, now, wasActive)
		if err != nil {
			return err
		}
		vehicle, err := uc.dir.Tx(tx).Vehicle(ctx, s.VehicleID)
		if err != nil {
			return err
		}
		uc.closeEffects(ctx, tx, actor, s, slot, vehicle, inv, &eff)
		slotCopy := *slot
		view = &model.SessionView{
			Session: *s,
			Slot:    &slotCopy,
			Vehicle: vehicle,
			Invoice: inv,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.flush(ctx, &eff)
	return view, nil
}

// settle updates the invoice of the closed s session. A paid invoice
// keeps its amount, unless a cancellation reduces it to zero which
// refunds it.
func (uc *UseCase) settle(
	ctx context.Context,
	tx repo.Tx,
	s *model.Session,
	slot *model.Slot,
	now time.Time,
	wasActive bool,
) (*model.Invoice, error) {
	if s.InvoiceID == nil {
		return nil, fmt.Errorf("session %s has no invoice", s.ID)
	}
	iq := uc.invoices.Tx(tx)
	inv, err := iq.Lock(ctx, *s.InvoiceID)
	if err != nil {
		return nil, err
	}
	amount := decimal.Decimal{}
	if s.Status == model.SessionCompleted || wasActive {
		amount = uc.calc.FinalAmount(s.DurationHours, slot.Rate)
	}
	switch {
	case !inv.IsPaid():
		inv.Amount = amount
	case amount.IsZero():
		inv.Amount = amount
		inv.Payment.State = model.PaymentRefunded
		inv.Payment.ChangedAt = now
	default:
		return inv, nil
	}
	if err := iq.Update(ctx, inv); err != nil {
		return nil, fmt.Errorf("updating invoice: %w", err)
	}
	return inv, nil
}

func (uc *UseCase) closeEffects(
	ctx context.Context,
	tx repo.Tx,
	actor model.Actor,
	s *model.Session,
	slot *model.Slot,
	vehicle *model.Vehicle,
	inv *model.Invoice,
	eff *effects,
) {
	details := map[string]any{
		"session_id":     s.ID.String(),
		"slot_id":        slot.ID.String(),
		"duration_hours": s.DurationHours,
		"amount":         inv.Amount.StringFixed(2),
	}
	if s.Status == model.SessionCompleted {
		eff.audit("Parking Session Ended", actor.ID, details)
		return
	}
	eff.audit("Parking Session Cancelled", actor.ID, details)
	owner, err := uc.dir.Tx(tx).User(ctx, s.UserID)
	if err != nil {
		return // notification is best-effort
	}
	eff.notify(mail(ctx, owner.Email, "Booking Cancelled", "cancelled", mailData{
		Name:   owner.Name,
		Plate:  vehicle.LicensePlate,
		Slot:   slot.Code,
		Amount: inv.Amount.StringFixed(2),
	}))
}
