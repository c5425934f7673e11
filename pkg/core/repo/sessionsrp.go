// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"
	"time"

	"github.com/momeni/campus-parking/pkg/core/model"
)

type SessionsQueryer interface {
	// Get returns the session with the given id or a NotFound error.
	Get(ctx context.Context, id model.SessionID) (*model.Session, error)

	// List returns sessions matching the filter, sorted by their
	// entry time in descending order.
	List(ctx context.Context, f model.SessionFilter) ([]model.Session, error)

	// Open returns the RESERVED and ACTIVE sessions of a slot.
	Open(ctx context.Context, slotID model.SlotID) ([]model.Session, error)

	// DueSlots returns the distinct slot ids which have at least one
	// RESERVED session whose entry time is not after now.
	DueSlots(ctx context.Context, now time.Time) ([]model.SlotID, error)
}

type SessionsConnQueryer interface {
	SessionsQueryer
}

type SessionsTxQueryer interface {
	SessionsQueryer

	// Lock fetches the session with the given id and locks it until
	// the end of the current transaction.
	Lock(ctx context.Context, id model.SessionID) (*model.Session, error)

	// Create inserts a new session. A Conflict error is returned if
	// an open session of the same slot overlaps it.
	Create(ctx context.Context, s *model.Session) error

	// Update persists the mutable fields of a session, i.e., its
	// status, actual exit time, duration, and invoice reference.
	Update(ctx context.Context, s *model.Session) error
}

type Sessions interface {
	Conn(Conn) SessionsConnQueryer
	Tx(Tx) SessionsTxQueryer
}
