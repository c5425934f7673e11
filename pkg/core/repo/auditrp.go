// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"

	"github.com/momeni/campus-parking/pkg/core/model"
)

type AuditLogsQueryer interface {
	// Record inserts the entry, filling its ID and CreatedAt fields
	// if they are zero.
	Record(ctx context.Context, e *model.AuditEntry) error

	// Get returns the entry with the given id or a NotFound error.
	Get(ctx context.Context, id model.AuditID) (*model.AuditEntry, error)

	// List returns the latest limit entries, newest first.
	List(ctx context.Context, limit int) ([]model.AuditEntry, error)
}

type AuditLogs interface {
	Conn(Conn) AuditLogsQueryer
	Tx(Tx) AuditLogsQueryer
}
