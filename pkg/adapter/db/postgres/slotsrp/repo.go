// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package slotsrp implements the repo.Slots interface for PostgreSQL.
package slotsrp

import (
	"context"

	"github.com/momeni/campus-parking/pkg/adapter/db/postgres"
	"github.com/momeni/campus-parking/pkg/core/model"
	"github.com/momeni/campus-parking/pkg/core/repo"
)

// Repo represents the slots repository instance.
type Repo struct {
}

// New instantiates a slots repository.
func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

// Conn takes a Conn interface instance, unwraps it as required,
// and returns a SlotsConnQueryer interface which (with access to the
// implementation-dependent connection object) can run different
// permitted operations on slots and their zones.
func (slots *Repo) Conn(c repo.Conn) repo.SlotsConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) Get(ctx context.Context, id model.SlotID) (*model.Slot, error) {
	return Get(ctx, cq.Conn, id, false)
}

func (cq connQueryer) Zone(ctx context.Context, id model.ZoneID) (*model.Zone, error) {
	return Zone(ctx, cq.Conn, id)
}

type txQueryer struct {
	*postgres.Tx
}

// Tx takes a Tx interface instance, unwraps it as required,
// and returns a SlotsTxQueryer interface which can lock the slot rows
// in addition to the SlotsConnQueryer operations.
func (slots *Repo) Tx(tx repo.Tx) repo.SlotsTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) Get(ctx context.Context, id model.SlotID) (*model.Slot, error) {
	return Get(ctx, tq.Tx, id, false)
}

func (tq txQueryer) Lock(ctx context.Context, id model.SlotID) (*model.Slot, error) {
	return Get(ctx, tq.Tx, id, true)
}

func (tq txQueryer) Zone(ctx context.Context, id model.ZoneID) (*model.Zone, error) {
	return Zone(ctx, tq.Tx, id)
}

func (tq txQueryer) SaveState(ctx context.Context, s *model.Slot) error {
	return SaveState(ctx, tq.Tx, s)
}
