// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package sessionsuc contains the parking sessions UseCase which
// supports the slot availability checks and the sessions lifecycle:
//  1. Checking if a slot is available for a time window,
//  2. Starting a session (reserving a slot or occupying it right away),
//  3. Ending a session and billing its final amount,
//  4. Cancelling a session,
//  5. Fetching and listing sessions with their related records,
//  6. Sweeping the reservations whose entry time is reached.
//
// A RESERVED session becomes ACTIVE once its entry time is reached.
// This transition is recomputed lazily whenever a slot is locked for
// a read or write operation and may be performed periodically by the
// Sweep method too, so the observed states always match the clock.
// All multi-record changes run in one transaction which locks the
// slot row first, serializing the concurrent bookings of each slot.
package sessionsuc

import (
	"context"
	"fmt"
	"time"

	"github.com/momeni/campus-parking/pkg/core/billing"
	"github.com/momeni/campus-parking/pkg/core/cerr"
	"github.com/momeni/campus-parking/pkg/core/model"
	"github.com/momeni/campus-parking/pkg/core/notify"
	"github.com/momeni/campus-parking/pkg/core/repo"
)

// Auditor records the performed actions. It is best-effort, so it
// reports no error and its failures must be handled internally.
type Auditor interface {
	Record(ctx context.Context, action string, actorID model.UserID, details map[string]any)
}

// SlotObserver is notified about the committed slot state changes.
type SlotObserver interface {
	SlotChanged(ctx context.Context, slot model.Slot)
}

// UseCase represents the parking sessions use case. It holds a
// database connection pool, the slots, sessions, invoices, and
// directory repositories, and the sessions use case settings.
type UseCase struct {
	pool     repo.Pool
	slots    repo.Slots
	sessions repo.Sessions
	invoices repo.Invoices
	dir      repo.Directory

	calc       *billing.Calculator
	grace      time.Duration
	invoiceDue time.Duration
	now        func() time.Time
	notifier   notify.Sender
	auditor    Auditor
	observers  []SlotObserver
}

// New instantiates a parking sessions use case.
// Required parameters are passed individually, so caller has to
// provision them and whenever they change, caller will notice and fix
// them due to a compilation error.
// Optional parameters are passed as a series of functional options
// in order to facilitate their validation and flexibility.
func New(
	p repo.Pool,
	slots repo.Slots,
	sessions repo.Sessions,
	invoices repo.Invoices,
	dir repo.Directory,
	opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{
		pool:     p,
		slots:    slots,
		sessions: sessions,
		invoices: invoices,
		dir:      dir,
	}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	// now, deal with defaults
	if uc.calc == nil {
		c := billing.Default
		uc.calc = &c
	}
	if uc.grace == 0 {
		uc.grace = 60 * time.Second
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	if uc.notifier == nil {
		uc.notifier = notify.Discard
	}
	if uc.auditor == nil {
		uc.auditor = nopAuditor{}
	}
	return uc, nil
}

type nopAuditor struct{}

func (nopAuditor) Record(context.Context, string, model.UserID, map[string]any) {
}

// inTx acquires a connection, runs f in a transaction on it, and
// classifies the unexpected errors as Persistence errors.
func (uc *UseCase) inTx(ctx context.Context, f repo.TxHandler) error {
	err := uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, f)
	})
	return cerr.Classify(err)
}
