// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package memory provides an in-process implementation of the repo
// package interfaces. It keeps all entities in maps and serializes the
// transactions with a mutex. Each transaction works on a copy of the
// committed state which replaces it only if the transaction handler
// succeeds, so a failed use case leaves no partial writes behind.
// Reads which are performed on a Conn (out of transactions) see the
// last committed state and do not wait for the running transactions.
//
// This store is used by the use case tests and by the development
// server when no database is configured.
package memory

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/momeni/campus-parking/pkg/core/model"
	"github.com/momeni/campus-parking/pkg/core/repo"
)

// Store is the in-memory database. It implements the repo.Pool
// interface and its zero value is not usable; use New instead.
type Store struct {
	txMu sync.Mutex // serializes transactions

	stMu sync.RWMutex // protects st pointer
	st   *state
}

type state struct {
	users    map[model.UserID]model.User
	vehicles map[model.VehicleID]model.Vehicle
	zones    map[model.ZoneID]model.Zone
	slots    map[model.SlotID]model.Slot
	sessions map[model.SessionID]model.Session
	bySlot   map[model.SlotID][]model.SessionID
	invoices map[model.InvoiceID]model.Invoice
	audits   []model.AuditEntry
}

// New creates an empty Store.
func New() *Store {
	return &Store{st: &state{
		users:    make(map[model.UserID]model.User),
		vehicles: make(map[model.VehicleID]model.Vehicle),
		zones:    make(map[model.ZoneID]model.Zone),
		slots:    make(map[model.SlotID]model.Slot),
		sessions: make(map[model.SessionID]model.Session),
		bySlot:   make(map[model.SlotID][]model.SessionID),
		invoices: make(map[model.InvoiceID]model.Invoice),
	}}
}

func (st *state) clone() *state {
	return &state{
		users:    maps.Clone(st.users),
		vehicles: maps.Clone(st.vehicles),
		zones:    maps.Clone(st.zones),
		slots:    maps.Clone(st.slots),
		sessions: maps.Clone(st.sessions),
		bySlot:   maps.Clone(st.bySlot),
		invoices: maps.Clone(st.invoices),
		audits:   slices.Clip(st.audits),
	}
}

func (s *Store) committed() *state {
	s.stMu.RLock()
	defer s.stMu.RUnlock()
	return s.st
}

// Conn calls handler with a connection to the s store.
// Since there is no real connection, handler is called right away.
func (s *Store) Conn(ctx context.Context, handler repo.ConnHandler) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return handler(ctx, &Conn{s: s})
}

// update runs f on a copy of the committed state and commits it if
// f succeeds. Callers must not hold the txMu lock.
func (s *Store) update(ctx context.Context, f func(st *state) error) (err error) {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	if err = ctx.Err(); err != nil {
		return err
	}
	st := s.committed().clone()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	if err = f(st); err != nil {
		return err
	}
	s.stMu.Lock()
	s.st = st
	s.stMu.Unlock()
	return nil
}

// Conn represents a connection to the in-memory Store.
// It implements the repo.Conn interface.
type Conn struct {
	s *Store
}

// Tx begins a new transaction and calls handler with it. The
// transaction is committed if handler returns nil and is rolled back
// if it returns an error or panics. Transactions of one Store are
// executed one at a time, so handler must not start another
// transaction on the same Store.
func (c *Conn) Tx(ctx context.Context, handler repo.TxHandler) error {
	err := c.s.update(ctx, func(st *state) error {
		tx := &Tx{s: c.s, st: st}
		err := handler(ctx, tx)
		tx.done = true
		if err != nil {
			return fmt.Errorf("handler: %w", err)
		}
		return nil
	})
	return err
}

// IsConn method prevents a non-Conn object (such as a Tx) to
// mistakenly implement the repo.Conn interface.
func (c *Conn) IsConn() {
}

// Tx represents an ongoing transaction on the in-memory Store.
// It implements the repo.Tx interface.
type Tx struct {
	s    *Store
	st   *state
	done bool
}

// IsTx method prevents a non-Tx object (such as a Conn) to
// mistakenly implement the repo.Tx interface.
func (tx *Tx) IsTx() {
}

// ErrTxDone is returned when a transaction is used after its handler
// has returned.
var ErrTxDone = errors.New("transaction is already finished")

// handle is embedded by all queryers. It reads from the committed
// state (for a Conn) or from the working copy of a transaction.
type handle struct {
	s  *Store
	tx *Tx
}

func connHandle(c repo.Conn) handle {
	return handle{s: c.(*Conn).s}
}

func txHandle(tx repo.Tx) handle {
	t := tx.(*Tx)
	return handle{s: t.s, tx: t}
}

func (h handle) view() (*state, error) {
	if h.tx == nil {
		return h.s.committed(), nil
	}
	if h.tx.done {
		return nil, ErrTxDone
	}
	return h.tx.st, nil
}

// write applies f in the transaction or, for a Conn, in its own
// implicit transaction.
func (h handle) write(ctx context.Context, f func(st *state) error) error {
	if h.tx == nil {
		return h.s.update(ctx, f)
	}
	if h.tx.done {
		return ErrTxDone
	}
	return f(h.tx.st)
}
