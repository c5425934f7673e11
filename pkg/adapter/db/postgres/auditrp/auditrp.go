// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package auditrp implements the repo.AuditLogs interface for
// PostgreSQL. Entry details are kept in a jsonb column.
package auditrp

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/momeni/campus-parking/pkg/adapter/db/postgres"
	"github.com/momeni/campus-parking/pkg/core/cerr"
	"github.com/momeni/campus-parking/pkg/core/model"
	"github.com/momeni/campus-parking/pkg/core/repo"
)

// Repo represents the audit logs repository instance.
type Repo struct {
}

// New instantiates an audit logs repository.
func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

func (logs *Repo) Conn(c repo.Conn) repo.AuditLogsQueryer {
	return connQueryer{Conn: c.(*postgres.Conn)}
}

func (cq connQueryer) Record(ctx context.Context, e *model.AuditEntry) error {
	return Record(ctx, cq.Conn, e)
}

func (cq connQueryer) Get(ctx context.Context, id model.AuditID) (*model.AuditEntry, error) {
	return Get(ctx, cq.Conn, id)
}

func (cq connQueryer) List(ctx context.Context, limit int) ([]model.AuditEntry, error) {
	return List(ctx, cq.Conn, limit)
}

type txQueryer struct {
	*postgres.Tx
}

func (logs *Repo) Tx(tx repo.Tx) repo.AuditLogsQueryer {
	return txQueryer{Tx: tx.(*postgres.Tx)}
}

func (tq txQueryer) Record(ctx context.Context, e *model.AuditEntry) error {
	return Record(ctx, tq.Tx, e)
}

func (tq txQueryer) Get(ctx context.Context, id model.AuditID) (*model.AuditEntry, error) {
	return Get(ctx, tq.Tx, id)
}

func (tq txQueryer) List(ctx context.Context, limit int) ([]model.AuditEntry, error) {
	return List(ctx, tq.Tx, limit)
}

// Row is the gorm representation of an audit_logs table row.
type Row struct {
	AID       uuid.UUID `gorm:"primaryKey;type:uuid;column:aid"`
	Action    string    `gorm:"column:action"`
	ActorID   uuid.UUID `gorm:"type:uuid;column:actor_id"`
	Details   []byte    `gorm:"type:jsonb;column:details"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (r *Row) TableName() string {
	return "audit_logs"
}

func (r *Row) Model() (*model.AuditEntry, error) {
	e := &model.AuditEntry{
		ID:        r.AID,
		Action:    r.Action,
		ActorID:   r.ActorID,
		CreatedAt: r.CreatedAt,
	}
	if len(r.Details) > 0 {
		if err := json.Unmarshal(r.Details, &e.Details); err != nil {
			return nil, fmt.Errorf("details: %w", err)
		}
	}
	return e, nil
}

// Record inserts the e entry, filling its zero ID and CreatedAt.
func Record[Q postgres.Queryer](
	ctx context.Context, q Q, e *model.AuditEntry,
) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	details, err := json.Marshal(e.Details)
	if err != nil {
		return fmt.Errorf("marshaling details: %w", err)
	}
	err = q.GORM(ctx).Create(&Row{
		AID:       e.ID,
		Action:    e.Action,
		ActorID:   e.ActorID,
		Details:   details,
		CreatedAt: e.CreatedAt,
	}).Error
	return postgres.Classify(err, "insert audit log", nil)
}

// Get fetches the id entry.
func Get[Q postgres.Queryer](
	ctx context.Context, q Q, id model.AuditID,
) (*model.AuditEntry, error) {
	var r Row
	err := q.GORM(ctx).Where("aid=?", id).Take(&r).Error
	if err != nil {
		return nil, postgres.Classify(
			err, "query audit log", cerr.ErrAuditNotFound,
		)
	}
	return r.Model()
}

// List fetches the latest limit entries, newest first.
func List[Q postgres.Queryer](
	ctx context.Context, q Q, limit int,
) ([]model.AuditEntry, error) {
	var rows []Row
	err := q.GORM(ctx).Order("created_at DESC").Order("aid").Limit(
		limit,
	).Find(&rows).Error
	if err != nil {
		return nil, postgres.Classify(err, "query audit logs", nil)
	}
	entries := make([]model.AuditEntry, 0, len(rows))
	for i := range rows {
		e, err := rows[i].Model()
		if err != nil {
			return nil, fmt.Errorf("audit log %s: %w", rows[i].AID, err)
		}
		entries = append(entries, *e)
	}
	return entries, nil
}
