// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"context"

	"gorm.io/gorm"
)

// Tx represents an ongoing transaction. It implements the repo.Tx
// interface. The Conn.Tx method commits or rolls it back.
type Tx struct {
	*gorm.DB
}

// Exec runs sql with args and returns the number of affected rows.
func (tx *Tx) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	tt := tx.DB.WithContext(ctx).Exec(sql, args...)
	if err := tt.Error; err != nil {
		return 0, err
	}
	return tt.RowsAffected, nil
}

// IsTx method prevents a non-Tx object (such as a Conn) to
// mistakenly implement the repo.Tx interface.
func (tx *Tx) IsTx() {
}

// GORM returns the underlying gorm.DB instance with the ctx context.
func (tx *Tx) GORM(ctx context.Context) *gorm.DB {
	return tx.DB.WithContext(ctx)
}
