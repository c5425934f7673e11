// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"

	"github.com/momeni/campus-parking/pkg/core/model"
)

type SlotsQueryer interface {
	// Get returns the slot with the given id or a NotFound error.
	Get(ctx context.Context, id model.SlotID) (*model.Slot, error)

	// Zone returns the zone with the given id or a NotFound error.
	Zone(ctx context.Context, id model.ZoneID) (*model.Zone, error)
}

type SlotsConnQueryer interface {
	SlotsQueryer
}

type SlotsTxQueryer interface {
	SlotsQueryer

	// Lock fetches the slot with the given id and locks it until the
	// end of the current transaction, so concurrent transactions which
	// try to lock the same slot have to wait for it.
	Lock(ctx context.Context, id model.SlotID) (*model.Slot, error)

	// SaveState persists the status and holder fields of the slot.
	SaveState(ctx context.Context, s *model.Slot) error
}

type Slots interface {
	Conn(Conn) SlotsConnQueryer
	Tx(Tx) SlotsTxQueryer
}
