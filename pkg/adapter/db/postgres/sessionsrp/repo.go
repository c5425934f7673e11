// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package sessionsrp implements the repo.Sessions interface for
// PostgreSQL. Overlapping open sessions of a slot are rejected by an
// exclusion constraint of the sessions table, so Create reports them
// as Conflict errors even if the slot row was not locked.
package sessionsrp

import (
	"context"
	"time"

	"github.com/momeni/campus-parking/pkg/adapter/db/postgres"
	"github.com/momeni/campus-parking/pkg/core/model"
	"github.com/momeni/campus-parking/pkg/core/repo"
)

// Repo represents the sessions repository instance.
type Repo struct {
}

// New instantiates a sessions repository.
func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

// Conn takes a Conn interface instance, unwraps it as required,
// and returns a SessionsConnQueryer interface.
func (sessions *Repo) Conn(c repo.Conn) repo.SessionsConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) Get(ctx context.Context, id model.SessionID) (*model.Session, error) {
	return Get(ctx, cq.Conn, id, false)
}

func (cq connQueryer) List(ctx context.Context, f model.SessionFilter) ([]model.Session, error) {
	return List(ctx, cq.Conn, f)
}

func (cq connQueryer) Open(ctx context.Context, slotID model.SlotID) ([]model.Session, error) {
	return Open(ctx, cq.Conn, slotID)
}

func (cq connQueryer) DueSlots(ctx context.Context, now time.Time) ([]model.SlotID, error) {
	return DueSlots(ctx, cq.Conn, now)
}

type txQueryer struct {
	*postgres.Tx
}

// Tx takes a Tx interface instance, unwraps it as required,
// and returns a SessionsTxQueryer interface.
func (sessions *Repo) Tx(tx repo.Tx) repo.SessionsTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) Get(ctx context.Context, id model.SessionID) (*model.Session, error) {
	return Get(ctx, tq.Tx, id, false)
}

func (tq txQueryer) Lock(ctx context.Context, id model.SessionID) (*model.Session, error) {
	return Get(ctx, tq.Tx, id, true)
}

func (tq txQueryer) List(ctx context.Context, f model.SessionFilter) ([]model.Session, error) {
	return List(ctx, tq.Tx, f)
}

func (tq txQueryer) Open(ctx context.Context, slotID model.SlotID) ([]model.Session, error) {
	return Open(ctx, tq.Tx, slotID)
}

func (tq txQueryer) DueSlots(ctx context.Context, now time.Time) ([]model.SlotID, error) {
	return DueSlots(ctx, tq.Tx, now)
}

func (tq txQueryer) Create(ctx context.Context, s *model.Session) error {
	return Create(ctx, tq.Tx, s)
}

func (tq txQueryer) Update(ctx context.Context, s *model.Session) error {
	return Update(ctx, tq.Tx, s)
}
