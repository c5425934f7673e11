// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/campus-parking/pkg/adapter/db/devdata"
	"github.com/momeni/campus-parking/pkg/adapter/db/memory"
	"github.com/momeni/campus-parking/pkg/core/cerr"
	"github.com/momeni/campus-parking/pkg/core/model"
	"github.com/momeni/campus-parking/pkg/core/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

func seeded(t *testing.T) (*memory.Store, devdata.Fixture) {
	t.Helper()
	s := memory.New()
	f := devdata.Dev()
	require.NoError(t, s.Seed(context.Background(), f))
	return s, f
}

func session(slot model.SlotID, f devdata.Fixture, from, to int) *model.Session {
	return &model.Session{
		ID:        uuid.New(),
		SlotID:    slot,
		VehicleID: f.Vehicles[0].ID,
		UserID:    f.Vehicles[0].UserID,
		Entry:     day.Add(time.Duration(from) * time.Hour),
		Exit:      day.Add(time.Duration(to) * time.Hour),
		Status:    model.SessionReserved,
	}
}

func inTx(s *memory.Store, h repo.TxHandler) error {
	ctx := context.Background()
	return s.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, h)
	})
}

func TestTxRollback(t *testing.T) {
	s, f := seeded(t)
	slot := f.Slots[0]
	errBoom := errors.New("boom")
	err := inTx(s, func(ctx context.Context, tx repo.Tx) error {
		ss := memory.Sessions{}.Tx(tx)
		require.NoError(t, ss.Create(ctx, session(slot.ID, f, 10, 12)))
		open, err := ss.Open(ctx, slot.ID)
		require.NoError(t, err)
		require.Len(t, open, 1, "tx must see its own writes")
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	err = inTx(s, func(ctx context.Context, tx repo.Tx) error {
		open, err := memory.Sessions{}.Tx(tx).Open(ctx, slot.ID)
		require.NoError(t, err)
		assert.Empty(t, open, "rolled back session must not be visible")
		return nil
	})
	require.NoError(t, err)
}

func TestTxPanicRollsBack(t *testing.T) {
	s, f := seeded(t)
	err := inTx(s, func(ctx context.Context, tx repo.Tx) error {
		sl := f.Slots[0]
		sl.Status = model.SlotOccupied
		require.NoError(t, memory.Slots{}.Tx(tx).SaveState(ctx, &sl))
		panic("unexpected")
	})
	require.Error(t, err)
	err = s.Conn(context.Background(), func(ctx context.Context, c repo.Conn) error {
		sl, err := memory.Slots{}.Conn(c).Get(ctx, f.Slots[0].ID)
		require.NoError(t, err)
		assert.Equal(t, model.SlotAvailable, sl.Status)
		return nil
	})
	require.NoError(t, err)
}

func TestCreateRejectsOverlap(t *testing.T) {
	s, f := seeded(t)
	slot := f.Slots[1].ID
	err := inTx(s, func(ctx context.Context, tx repo.Tx) error {
		ss := memory.Sessions{}.Tx(tx)
		require.NoError(t, ss.Create(ctx, session(slot, f, 10, 12)))
		err := ss.Create(ctx, session(slot, f, 11, 13))
		assert.Equal(t, cerr.KindConflict, cerr.KindOf(err))
		assert.ErrorIs(t, err, cerr.ErrSlotUnavailable)
		// adjacent intervals do not overlap
		require.NoError(t, ss.Create(ctx, session(slot, f, 12, 13)))
		// other slots are independent
		return ss.Create(ctx, session(f.Slots[2].ID, f, 10, 12))
	})
	require.NoError(t, err)
}

func TestClosedSessionsFreeTheInterval(t *testing.T) {
	s, f := seeded(t)
	slot := f.Slots[1].ID
	err := inTx(s, func(ctx context.Context, tx repo.Tx) error {
		ss := memory.Sessions{}.Tx(tx)
		first := session(slot, f, 10, 12)
		require.NoError(t, ss.Create(ctx, first))
		first.Status = model.SessionCancelled
		require.NoError(t, ss.Update(ctx, first))
		return ss.Create(ctx, session(slot, f, 10, 12))
	})
	require.NoError(t, err)
}

func TestListAndDueSlots(t *testing.T) {
	s, f := seeded(t)
	a, b := f.Slots[1].ID, f.Slots[2].ID
	require.NoError(t, inTx(s, func(ctx context.Context, tx repo.Tx) error {
		ss := memory.Sessions{}.Tx(tx)
		for _, x := range []*model.Session{
			session(a, f, 8, 9), session(a, f, 10, 12), session(b, f, 14, 15),
		} {
			if err := ss.Create(ctx, x); err != nil {
				return err
			}
		}
		return nil
	}))
	err := s.Conn(context.Background(), func(ctx context.Context, c repo.Conn) error {
		q := memory.Sessions{}.Conn(c)
		list, err := q.List(ctx, model.SessionFilter{SlotID: &a})
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.True(t, list[0].Entry.After(list[1].Entry), "newest first")

		list, err = q.List(ctx, model.SessionFilter{Limit: 1})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, b, list[0].SlotID)

		due, err := q.DueSlots(ctx, day.Add(10*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, []model.SlotID{a}, due)
		return nil
	})
	require.NoError(t, err)
}

func TestNotFound(t *testing.T) {
	s, _ := seeded(t)
	err := s.Conn(context.Background(), func(ctx context.Context, c repo.Conn) error {
		_, err := memory.Slots{}.Conn(c).Get(ctx, uuid.New())
		assert.ErrorIs(t, err, cerr.ErrSlotNotFound)
		_, err = memory.Invoices{}.Conn(c).Get(ctx, uuid.New())
		assert.ErrorIs(t, err, cerr.ErrInvoiceNotFound)
		_, err = memory.Directory{}.Conn(c).Vehicle(ctx, uuid.New())
		assert.Equal(t, cerr.KindNotFound, cerr.KindOf(err))
		_, err = memory.AuditLogs{}.Conn(c).Get(ctx, uuid.New())
		assert.ErrorIs(t, err, cerr.ErrAuditNotFound)
		return nil
	})
	require.NoError(t, err)
}

func TestAuditLogsNewestFirst(t *testing.T) {
	s := memory.New()
	err := s.Conn(context.Background(), func(ctx context.Context, c repo.Conn) error {
		q := memory.AuditLogs{}.Conn(c)
		for _, a := range []string{"first", "second", "third"} {
			require.NoError(t, q.Record(ctx, &model.AuditEntry{Action: a}))
		}
		entries, err := q.List(ctx, 2)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "third", entries[0].Action)
		assert.Equal(t, "second", entries[1].Action)
		assert.NotEqual(t, uuid.Nil, entries[0].ID)

		e, err := q.Get(ctx, entries[1].ID)
		require.NoError(t, err)
		assert.Equal(t, "second", e.Action)
		return nil
	})
	require.NoError(t, err)
}

func TestTxUsedAfterCommit(t *testing.T) {
	s, f := seeded(t)
	var leaked repo.Tx
	require.NoError(t, inTx(s, func(ctx context.Context, tx repo.Tx) error {
		leaked = tx
		return nil
	}))
	_, err := memory.Slots{}.Tx(leaked).Get(context.Background(), f.Slots[0].ID)
	assert.ErrorIs(t, err, memory.ErrTxDone)
}
