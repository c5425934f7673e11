// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memory

import (
	"bytes"
	"context"
	"slices"
	"time"

	"github.com/momeni/campus-parking/pkg/core/cerr"
	"github.com/momeni/campus-parking/pkg/core/model"
	"github.com/momeni/campus-parking/pkg/core/repo"
)

// Sessions implements the repo.Sessions interface.
type Sessions struct{}

// Conn returns a queryer of sessions over the c connection.
func (Sessions) Conn(c repo.Conn) repo.SessionsConnQueryer {
	return sessionsQueryer{connHandle(c)}
}

// Tx returns a queryer of sessions in the tx transaction.
func (Sessions) Tx(tx repo.Tx) repo.SessionsTxQueryer {
	return sessionsQueryer{txHandle(tx)}
}

type sessionsQueryer struct {
	handle
}

func (q sessionsQueryer) Get(ctx context.Context, id model.SessionID) (*model.Session, error) {
	st, err := q.view()
	if err != nil {
		return nil, err
	}
	s, ok := st.sessions[id]
	if !ok {
		return nil, cerr.NotFound(cerr.ErrSessionNotFound)
	}
	s = copySession(s)
	return &s, nil
}

func (q sessionsQueryer) Lock(ctx context.Context, id model.SessionID) (*model.Session, error) {
	return q.Get(ctx, id)
}

func (q sessionsQueryer) List(ctx context.Context, f model.SessionFilter) ([]model.Session, error) {
	st, err := q.view()
	if err != nil {
		return nil, err
	}
	var ss []model.Session
	for _, s := range st.sessions {
		switch {
		case f.UserID != nil && s.UserID != *f.UserID:
		case f.SlotID != nil && s.SlotID != *f.SlotID:
		case f.Status != nil && s.Status != *f.Status:
		default:
			ss = append(ss, copySession(s))
		}
	}
	slices.SortFunc(ss, func(a, b model.Session) int {
		if c := b.Entry.Compare(a.Entry); c != 0 {
			return c
		}
		return bytes.Compare(a.ID[:], b.ID[:])
	})
	if f.Limit > 0 && len(ss) > f.Limit {
		ss = ss[:f.Limit]
	}
	return ss, nil
}

func (q sessionsQueryer) Open(ctx context.Context, slotID model.SlotID) ([]model.Session, error) {
	st, err := q.view()
	if err != nil {
		return nil, err
	}
	return st.open(slotID), nil
}

func (st *state) open(slotID model.SlotID) []model.Session {
	var ss []model.Session
	for _, id := range st.bySlot[slotID] {
		if s := st.sessions[id]; s.Status.IsOpen() {
			ss = append(ss, copySession(s))
		}
	}
	slices.SortFunc(ss, func(a, b model.Session) int {
		return a.Entry.Compare(b.Entry)
	})
	return ss
}

func (q sessionsQueryer) DueSlots(ctx context.Context, now time.Time) ([]model.SlotID, error) {
	st, err := q.view()
	if err != nil {
		return nil, err
	}
	var ids []model.SlotID
	for slotID, sids := range st.bySlot {
		for _, id := range sids {
			s := st.sessions[id]
			if s.Status == model.SessionReserved && !now.Before(s.Entry) {
				ids = append(ids, slotID)
				break
			}
		}
	}
	slices.SortFunc(ids, func(a, b model.SlotID) int {
		return bytes.Compare(a[:], b[:])
	})
	return ids, nil
}

func (q sessionsQueryer) Create(ctx context.Context, s *model.Session) error {
	return q.write(ctx, func(st *state) error {
		if _, ok := st.sessions[s.ID]; ok {
			return cerr.Conflict(errDuplicateID)
		}
		if _, ok := st.slots[s.SlotID]; !ok {
			return cerr.NotFound(cerr.ErrSlotNotFound)
		}
		if s.Status.IsOpen() {
			iv := s.Interval()
			for _, o := range st.open(s.SlotID) {
				if o.Interval().Overlaps(iv) {
					return cerr.Conflict(cerr.ErrSlotUnavailable)
				}
			}
		}
		st.sessions[s.ID] = copySession(*s)
		st.bySlot[s.SlotID] = append(
			slices.Clip(st.bySlot[s.SlotID]), s.ID,
		)
		return nil
	})
}

func (q sessionsQueryer) Update(ctx context.Context, s *model.Session) error {
	return q.write(ctx, func(st *state) error {
		old, ok := st.sessions[s.ID]
		if !ok {
			return cerr.NotFound(cerr.ErrSessionNotFound)
		}
		old.Status = s.Status
		old.ActualExit = ptrCopy(s.ActualExit)
		old.DurationHours = s.DurationHours
		old.InvoiceID = ptrCopy(s.InvoiceID)
		st.sessions[s.ID] = old
		return nil
	})
}

func copySession(s model.Session) model.Session {
	s.ActualExit = ptrCopy(s.ActualExit)
	s.InvoiceID = ptrCopy(s.InvoiceID)
	return s
}
