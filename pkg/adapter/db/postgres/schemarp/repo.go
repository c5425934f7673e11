// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package schemarp implements the repo.Schema interface for
// PostgreSQL. Its SchemaQueryer is used by the admin role for creating
// the parking schema, the normal role, and their passwords, while its
// SchemaInitializer is used by the normal role for creating the tables
// in the parking schema.
package schemarp

import (
	"context"

	"github.com/momeni/campus-parking/pkg/adapter/db/postgres"
	"github.com/momeni/campus-parking/pkg/core/repo"
	"github.com/momeni/campus-parking/pkg/core/scram"
)

// Repo represents the schema management repository instance.
type Repo struct {
	hasher scram.Hasher
}

// New instantiates a schema management repository. The hasher is used
// to hash the passwords before sending them to the database, so they
// are not logged in plain text by the DBMS.
func New(hasher scram.Hasher) *Repo {
	return &Repo{hasher: hasher}
}

type txQueryer struct {
	*postgres.Tx
	hasher scram.Hasher
}

// Tx takes a Tx interface instance, unwraps it as required,
// and returns a SchemaQueryer interface.
func (sr *Repo) Tx(tx repo.Tx) repo.SchemaQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt, hasher: sr.hasher}
}

func (tq txQueryer) DropIfExists(ctx context.Context, schema string) error {
	return DropIfExists(ctx, tq.Tx, schema)
}

func (tq txQueryer) CreateSchema(ctx context.Context, schema string) error {
	return CreateSchema(ctx, tq.Tx, schema)
}

func (tq txQueryer) InstallExtensions(ctx context.Context) error {
	return InstallExtensions(ctx, tq.Tx)
}

func (tq txQueryer) CreateRoleIfNotExists(ctx context.Context, role repo.Role) error {
	return CreateRoleIfNotExists(ctx, tq.Tx, role)
}

func (tq txQueryer) GrantPrivileges(ctx context.Context, schema string, role repo.Role) error {
	return GrantPrivileges(ctx, tq.Tx, schema, role)
}

func (tq txQueryer) SetSearchPath(ctx context.Context, schema string, role repo.Role) error {
	return SetSearchPath(ctx, tq.Tx, schema, role)
}

func (tq txQueryer) ChangePasswords(ctx context.Context, roles []repo.Role, passwords []string) error {
	return ChangePasswords(ctx, tq.Tx, tq.hasher, roles, passwords)
}

type initializer struct {
	*postgres.Tx
}

// Initializer takes a Tx interface instance, unwraps it as required,
// and returns a SchemaInitializer interface.
func (sr *Repo) Initializer(tx repo.Tx) repo.SchemaInitializer {
	return initializer{Tx: tx.(*postgres.Tx)}
}

func (si initializer) CreateTables(ctx context.Context) error {
	return CreateTables(ctx, si.Tx)
}

func (si initializer) InsertDevData(ctx context.Context) error {
	return InsertDevData(ctx, si.Tx)
}
