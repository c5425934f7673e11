// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import "context"

// SchemaQueryer manages the database schema, roles, and extensions.
// It needs the AdminRole privileges. The Caller is responsible to pass
// trusted schema names.
type SchemaQueryer interface {
	// DropIfExists drops the schema (without cascading) if it exists.
	DropIfExists(ctx context.Context, schema string) error

	// CreateSchema creates the schema which must not exist.
	CreateSchema(ctx context.Context, schema string) error

	// InstallExtensions creates the DBMS extensions which are needed
	// by the tables, e.g., btree_gist for the exclusion constraints.
	InstallExtensions(ctx context.Context) error

	// CreateRoleIfNotExists creates a login role with no password.
	CreateRoleIfNotExists(ctx context.Context, role Role) error

	// GrantPrivileges grants all privileges on schema to role.
	GrantPrivileges(ctx context.Context, schema string, role Role) error

	// SetSearchPath sets the default search_path of role to schema.
	SetSearchPath(ctx context.Context, schema string, role Role) error

	// ChangePasswords sets the passwords of the given roles pairwise.
	// Passwords are hashed before being sent to the DBMS.
	ChangePasswords(ctx context.Context, roles []Role, passwords []string) error
}

// SchemaInitializer creates the tables and fills them. It runs with
// the NormalRole privileges, so it owns the created tables.
type SchemaInitializer interface {
	CreateTables(ctx context.Context) error
	InsertDevData(ctx context.Context) error
}

type Schema interface {
	Tx(Tx) SchemaQueryer
	Initializer(Tx) SchemaInitializer
}
