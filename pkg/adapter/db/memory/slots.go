// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memory

import (
	"context"

	"github.com/momeni/campus-parking/pkg/core/cerr"
	"github.com/momeni/campus-parking/pkg/core/model"
	"github.com/momeni/campus-parking/pkg/core/repo"
)

// Slots implements the repo.Slots interface.
type Slots struct{}

// Conn returns a queryer of slots over the c connection.
func (Slots) Conn(c repo.Conn) repo.SlotsConnQueryer {
	return slotsQueryer{connHandle(c)}
}

// Tx returns a queryer of slots in the tx transaction.
// Lock does not need to do anything more than Get because the tx
// transaction is the only running one.
func (Slots) Tx(tx repo.Tx) repo.SlotsTxQueryer {
	return slotsQueryer{txHandle(tx)}
}

type slotsQueryer struct {
	handle
}

func (q slotsQueryer) Get(ctx context.Context, id model.SlotID) (*model.Slot, error) {
	st, err := q.view()
	if err != nil {
		return nil, err
	}
	s, ok := st.slots[id]
	if !ok {
		return nil, cerr.NotFound(cerr.ErrSlotNotFound)
	}
	s = copySlot(s)
	return &s, nil
}

func (q slotsQueryer) Lock(ctx context.Context, id model.SlotID) (*model.Slot, error) {
	return q.Get(ctx, id)
}

func (q slotsQueryer) Zone(ctx context.Context, id model.ZoneID) (*model.Zone, error) {
	st, err := q.view()
	if err != nil {
		return nil, err
	}
	z, ok := st.zones[id]
	if !ok {
		return nil, cerr.NotFound(cerr.ErrZoneNotFound)
	}
	return &z, nil
}

func (q slotsQueryer) SaveState(ctx context.Context, s *model.Slot) error {
	return q.write(ctx, func(st *state) error {
		old, ok := st.slots[s.ID]
		if !ok {
			return cerr.NotFound(cerr.ErrSlotNotFound)
		}
		old.Status = s.Status
		old.ReservedBy = ptrCopy(s.ReservedBy)
		old.OccupiedBy = ptrCopy(s.OccupiedBy)
		st.slots[s.ID] = old
		return nil
	})
}

func copySlot(s model.Slot) model.Slot {
	s.ReservedBy = ptrCopy(s.ReservedBy)
	s.OccupiedBy = ptrCopy(s.OccupiedBy)
	return s
}

func ptrCopy[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
