// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/campus-parking/pkg/core/cerr"
	"github.com/momeni/campus-parking/pkg/core/model"
	"github.com/momeni/campus-parking/pkg/core/repo"
)

// AuditLogs implements the repo.AuditLogs interface. Entries are kept
// in their insertion order.
type AuditLogs struct{}

func (AuditLogs) Conn(c repo.Conn) repo.AuditLogsQueryer {
	return auditQueryer{connHandle(c)}
}

func (AuditLogs) Tx(tx repo.Tx) repo.AuditLogsQueryer {
	return auditQueryer{txHandle(tx)}
}

type auditQueryer struct {
	handle
}

func (q auditQueryer) Record(ctx context.Context, e *model.AuditEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	return q.write(ctx, func(st *state) error {
		st.audits = append(st.audits, *e)
		return nil
	})
}

func (q auditQueryer) Get(ctx context.Context, id model.AuditID) (*model.AuditEntry, error) {
	st, err := q.view()
	if err != nil {
		return nil, err
	}
	for i := range st.audits {
		if st.audits[i].ID == id {
			e := st.audits[i]
			return &e, nil
		}
	}
	return nil, cerr.NotFound(cerr.ErrAuditNotFound)
}

func (q auditQueryer) List(ctx context.Context, limit int) ([]model.AuditEntry, error) {
	st, err := q.view()
	if err != nil {
		return nil, err
	}
	n := len(st.audits)
	if limit > 0 && limit < n {
		n = limit
	}
	entries := make([]model.AuditEntry, 0, n)
	for i := len(st.audits) - 1; i >= 0 && len(entries) < n; i-- {
		entries = append(entries, st.audits[i])
	}
	return entries, nil
}
