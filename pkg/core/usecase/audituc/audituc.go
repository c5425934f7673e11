// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package audituc contains the audit logs UseCase. Other use cases
// pass it as their auditor, so the performed actions are recorded
// after their transactions are committed. Recording is best-effort
// and never fails the recorded action. Admins may browse the logs.
package audituc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/momeni/campus-parking/pkg/core/cerr"
	"github.com/momeni/campus-parking/pkg/core/log"
	"github.com/momeni/campus-parking/pkg/core/model"
	"github.com/momeni/campus-parking/pkg/core/repo"
)

// DefaultLimit is the number of entries which are listed when no
// explicit limit is given.
const DefaultLimit = 50

// UseCase represents the audit logs use case.
type UseCase struct {
	pool repo.Pool
	logs repo.AuditLogs
	now  func() time.Time
}

// Option is a functional option for the audit logs use case.
type Option func(uc *UseCase) error

// WithClock option replaces the time.Now function, e.g., in tests.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) error {
		if now == nil {
			return errors.New("nil clock")
		}
		uc.now = now
		return nil
	}
}

// New instantiates an audit logs use case.
func New(p repo.Pool, logs repo.AuditLogs, opts ...Option) (*UseCase, error) {
	uc := &UseCase{pool: p, logs: logs}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	return uc, nil
}

// Record stores an audit entry. Failures are logged and dropped.
func (uc *UseCase) Record(
	ctx context.Context,
	action string,
	actorID model.UserID,
	details map[string]any,
) {
	e := &model.AuditEntry{
		Action:    action,
		ActorID:   actorID,
		Details:   details,
		CreatedAt: uc.now(),
	}
	err := uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return uc.logs.Conn(c).Record(ctx, e)
	})
	if err != nil {
		log.Warn(
			ctx, "recording audit log failed",
			slog.String("action", action),
			log.ID("actor", actorID),
			log.Err("err", err),
		)
	}
}

// List returns the latest limit audit entries, newest first.
// A non-positive limit is replaced by DefaultLimit.
func (uc *UseCase) List(
	ctx context.Context, actor model.Actor, limit int,
) (entries []model.AuditEntry, err error) {
	if !actor.IsAdmin() {
		return nil, cerr.Forbidden(cerr.ErrAdminOnly)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		entries, err = uc.logs.Conn(c).List(ctx, limit)
		return err
	})
	if err = cerr.Classify(err); err != nil {
		return nil, err
	}
	return entries, nil
}

// Get returns the id audit entry.
func (uc *UseCase) Get(
	ctx context.Context, actor model.Actor, id model.AuditID,
) (e *model.AuditEntry, err error) {
	if !actor.IsAdmin() {
		return nil, cerr.Forbidden(cerr.ErrAdminOnly)
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		e, err = uc.logs.Conn(c).Get(ctx, id)
		return err
	})
	if err = cerr.Classify(err); err != nil {
		return nil, err
	}
	return e, nil
}
