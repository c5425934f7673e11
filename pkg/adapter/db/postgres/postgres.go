// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package postgres implements the repo.Pool, repo.Conn, and repo.Tx
// interfaces using gorm and its PostgreSQL (pgx) driver. Repositories
// of each aggregate live in the sub-packages (e.g., sessionsrp) and
// type-assert the repo.Conn and repo.Tx arguments to *Conn and *Tx of
// this package, so they can be used with the Queryer constraint.
package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/momeni/campus-parking/pkg/core/cerr"
	"gorm.io/gorm"
)

// PostgreSQL error codes which are mapped to the core errors.
const (
	CodeExclusionViolation  = "23P01"
	CodeUniqueViolation     = "23505"
	CodeForeignKeyViolation = "23503"
)

// Classify converts err, as returned by gorm, to a core error.
// Violation of the sessions overlap exclusion constraint becomes a
// Conflict error wrapping cerr.ErrSlotUnavailable, so the concurrent
// transactions which missed the slot row lock (e.g., running with
// another pool) still cannot double book a slot.
// A gorm.ErrRecordNotFound is converted using the notFound sentinel.
// Other errors are wrapped with the msg prefix and returned as is, so
// the use cases may classify them as Persistence errors.
func Classify(err error, msg string, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) && notFound != nil {
		return cerr.NotFound(notFound)
	}
	var pge *pgconn.PgError
	if errors.As(err, &pge) {
		switch pge.Code {
		case CodeExclusionViolation:
			return cerr.Conflict(cerr.ErrSlotUnavailable)
		case CodeUniqueViolation:
			return cerr.Conflict(fmt.Errorf(
				"%s: duplicate key (%s)", msg, pge.ConstraintName,
			))
		case CodeForeignKeyViolation:
			return cerr.Validation(fmt.Errorf(
				"%s: unknown reference (%s)", msg, pge.ConstraintName,
			))
		}
	}
	return fmt.Errorf("%s: %w", msg, err)
}
