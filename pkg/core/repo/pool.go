// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package repo defines the repositories interfaces which are realized
// by the adapters layer (e.g., a PostgreSQL or an in-memory store) and
// used by the use cases. A use case acquires a Conn from a Pool, may
// begin a Tx on it, and passes them to the Conn or Tx methods of each
// repository in order to obtain a queryer object for that aggregate.
// Each aggregate has a ConnQueryer and a TxQueryer interface, so the
// methods which must run in a transaction (e.g., row locking) can be
// kept out of the ConnQueryer.
package repo

import "context"

// ConnHandler is a callback which uses an acquired connection.
// The connection is released when the handler returns.
type ConnHandler func(context.Context, Conn) error

// Pool represents a database connections pool.
type Pool interface {
	Conn(ctx context.Context, handler ConnHandler) error
}
