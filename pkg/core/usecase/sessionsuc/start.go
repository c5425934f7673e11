// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package sessionsuc

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/campus-parking/pkg/core/cerr"
	"github.com/momeni/campus-parking/pkg/core/model"
	"github.com/momeni/campus-parking/pkg/core/repo"
)

// Start use case books the req.SlotID slot for the req.VehicleID
// vehicle in the [req.Start, req.End) interval. The vehicle must be
// owned by the actor, unless the actor is an admin. The session is
// owned by the vehicle owner and starts ACTIVE if the interval
// contains the current time, otherwise it starts RESERVED.
// The session, its invoice (with a PENDING payment status and the
// estimated amount), and the slot state are written in one transaction
// which holds the slot lock, so two overlapping bookings of a slot may
// not both succeed. The returned view includes all related records.
func (uc *UseCase) Start(
	ctx context.Context, actor model.Actor, req model.BookingRequest,
) (*model.SessionView, error) {
	if req.SlotID == uuid.Nil || req.VehicleID == uuid.Nil ||
		req.Start.IsZero() || req.End.IsZero() {
		return nil, cerr.Validation(cerr.ErrMissingArguments)
	}
	iv := req.Interval()
	if err := iv.Validate(); err != nil {
		return nil, cerr.Validation(err)
	}
	now := uc.now()
	if req.Start.Before(now.Add(-uc.grace)) {
		return nil, cerr.Validation(cerr.ErrStartInPast)
	}
	var view *model.SessionView
	var eff effects
	err := uc.inTx(ctx, func(ctx context.Context, tx repo.Tx) error {
		var err error
		view, err = uc.start(ctx, tx, actor, req, now, &eff)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.flush(ctx, &eff)
	return view, nil
}

func (uc *UseCase) start(
	ctx context.Context,
	tx repo.Tx,
	actor model.Actor,
	req model.BookingRequest,
	now time.Time,
	eff *effects,
) (*model.SessionView, error) {
	dq := uc.dir.Tx(tx)
	vehicle, err := dq.Vehicle(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(vehicle.UserID) {
		return nil, cerr.Forbidden(cerr.ErrNotOwner)
	}
	owner, err := dq.User(ctx, vehicle.UserID)
	if err != nil {
		return nil, err
	}
	slq := uc.slots.Tx(tx)
	slot, err := slq.Lock(ctx, req.SlotID)
	if err != nil {
		return nil, err
	}
	open, err := uc.refresh(ctx, tx, slot, now, eff)
	if err != nil {
		return nil, err
	}
	iv := req.Interval()
	if !available(slot, open, iv) {
		return nil, cerr.Conflict(cerr.ErrSlotUnavailable)
	}
	zone, err := slq.Zone(ctx, slot.ZoneID)
	if err != nil {
		return nil, err
	}

	s := &model.Session{
		ID:        uuid.New(),
		SlotID:    slot.ID,
		VehicleID: vehicle.ID,
		UserID:    owner.ID,
		Entry:     req.Start,
		Exit:      req.End,
		Status:    model.SessionReserved,
		CreatedAt: now,
	}
	if iv.Contains(now) {
		s.Status = model.SessionActive
	}
	sq := uc.sessions.Tx(tx)
	if err := sq.Create(ctx, s); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	if slot.Derive(append(open, *s)) {
		if err := slq.SaveState(ctx, slot); err != nil {
			return nil, fmt.Errorf("saving slot state: %w", err)
		}
		eff.slotChanged(*slot)
	}
	inv := &model.Invoice{
		ID:        uuid.New(),
		UserID:    owner.ID,
		SessionID: s.ID,
		Amount:    uc.calc.Estimate(req.Start, req.End, slot.Rate),
		IssuedAt:  now,
		Description: fmt.Sprintf(
			"Parking session for %s at slot %s in %s.",
			vehicle.LicensePlate, slot.Code, zone.Name,
		),
		Payment: model.PaymentStatus{
			ID:        uuid.New(),
			State:     model.PaymentPending,
			ChangedAt: now,
		},
	}
	if uc.invoiceDue > 0 {
		due := now.Add(uc.invoiceDue)
		inv.DueAt = &due
	}
	iq := uc.invoices.Tx(tx)
	if err := iq.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("creating invoice: %w", err)
	}
	s.InvoiceID = &inv.ID
	if err := sq.Update(ctx, s); err != nil {
		return nil, fmt.Errorf("linking invoice: %w", err)
	}

	action, subject, tmpl := "Parking Session Reserved", "Booking Confirmation", "reserved"
	if s.Status == model.SessionActive {
		action, subject, tmpl = "Parking Session Activated", "Parking Started", "started"
	}
	eff.audit(action, actor.ID, map[string]any{
		"session_id": s.ID.String(),
		"slot_id":    slot.ID.String(),
		"vehicle_id": vehicle.ID.String(),
		"invoice_id": inv.ID.String(),
	})
	eff.notify(mail(ctx, owner.Email, subject, tmpl, mailData{
		Name:   owner.Name,
		Plate:  vehicle.LicensePlate,
		Slot:   slot.Code,
		Entry:  s.Entry.Format(timeLayout),
		Exit:   s.Exit.Format(timeLayout),
		Amount: inv.Amount.StringFixed(2),
	}))
	slotCopy := *slot
	return &model.SessionView{
		Session: *s,
		Slot:    &slotCopy,
		Vehicle: vehicle,
		Invoice: inv,
	}, nil
}
