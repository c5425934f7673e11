// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"context"

	"gorm.io/gorm"
)

// Queryer is a type constraint which is satisfied by *Conn and *Tx.
// Repository functions which may run in and out of transactions are
// written once, being generic over it.
type Queryer interface {
	*Conn | *Tx
	Exec(ctx context.Context, sql string, args ...any) (int64, error)
	GORM(ctx context.Context) *gorm.DB
}
