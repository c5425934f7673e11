// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import "context"

// TxHandler is a callback which runs in a transaction. Returning a
// non-nil error (or panicking) rolls back the transaction, while a nil
// error asks it to be committed.
type TxHandler func(context.Context, Tx) error

// Conn represents a database connection. It may be passed to the
// repositories for running single statements or used for beginning
// a transaction.
type Conn interface {
	Tx(ctx context.Context, handler TxHandler) error

	// IsConn method prevents a non-Conn object (such as a Tx) to
	// mistakenly implement the Conn interface.
	IsConn()
}
