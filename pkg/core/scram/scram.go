// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package scram exports the expected interface of a SCRAM password
// hasher. The database initialization use case needs it in order to
// set the passwords of database roles without sending them in plain
// text (so their possible logging by the DBMS is not a threat).
// The SCRAM conversation itself is handled by the PostgreSQL server
// and its driver in the adapters layer.
package scram

// Hasher computes the storedKey and serverKey of a password for a
// fixed underlying hash function (e.g., SHA256) and formats them as
//
//	SCRAM-{SHA-X}${iters}:{b64-salt}${b64-storedKey}:{b64-serverKey}
//
// which is accepted by an ALTER or CREATE ROLE query.
// An empty salt asks for a random one. The iters must be at least 4096.
type Hasher interface {
	Hash(pass, salt string, iters int) (string, error)
}
