// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package dbuc provides the database initialization use case.
// It (re)creates the parking schema and the normal role with the admin
// role, renews the passwords of both roles, and then creates the tables
// with the normal role, optionally filling them with development data.
package dbuc

import (
	"context"
	"fmt"

	"github.com/momeni/campus-parking/pkg/core/repo"
)

// SchemaName is the name of the database schema which holds all of
// the parking tables.
const SchemaName = "parking"

// Pool is a repo.Pool which must be closed after its use.
type Pool interface {
	repo.Pool
	Close() error
}

// Settings represents the database-related settings which should be
// provided by a configuration file.
type Settings interface {
	// ConnectionPool creates a database connection pool for the r
	// role. Passwords are read from the passwords file of the
	// settings, preferring its temporary version if it exists and
	// lets the pool to connect (see RenewPasswords).
	ConnectionPool(ctx context.Context, r repo.Role) (Pool, error)

	// NewSchemaRepo instantiates a fresh Schema repository.
	NewSchemaRepo() repo.Schema

	// RenewPasswords generates new passwords for the given roles and
	// after recording them in a temporary file, calls change in order
	// to update them in the database. The change function performs
	// the update operation in a transaction which may not be committed
	// yet. When it commits, the returned finalizer should be called
	// in order to move the temporary file over the main passwords
	// file. If the process is interrupted in the middle, both files
	// are tried by ConnectionPool, so initialization may be repeated.
	RenewPasswords(
		ctx context.Context,
		change func(
			ctx context.Context,
			roles []repo.Role,
			passwords []string,
		) error,
		roles ...repo.Role,
	) (finalizer func() error, err error)
}

// UseCase represents the database initialization use case. It may
// be used to initialize database with development or production
// suitable data as asked by the InitDev and InitProd methods.
type UseCase struct {
	settings   Settings
	schemaRepo repo.Schema
}

// New creates a database initialization UseCase instance, using the
// ss settings for connecting to the target database.
func New(ss Settings) *UseCase {
	return &UseCase{
		settings:   ss,
		schemaRepo: ss.NewSchemaRepo(),
	}
}

// InitProd drops the parking schema (which must have no tables) and
// creates it again using the admin role. It also creates the normal
// role (if it does not exist), grants privileges on the parking schema
// to it, and renews passwords of both admin and normal roles. These
// operations are performed in a single transaction.
// Thereafter, it connects to the database using the normal role
// and creates all tables in a second transaction.
func (uc *UseCase) InitProd(ctx context.Context) error {
	return uc.initDB(ctx, false)
}

// InitDev works like InitProd and also inserts the development data
// set in the second transaction.
func (uc *UseCase) InitDev(ctx context.Context) error {
	return uc.initDB(ctx, true)
}

func (uc *UseCase) initDB(ctx context.Context, devData bool) error {
	if err := uc.dropAndCreateAgain(ctx); err != nil {
		return fmt.Errorf("dropping/recreating schema: %w", err)
	}
	p, err := uc.settings.ConnectionPool(ctx, repo.NormalRole)
	if err != nil {
		return fmt.Errorf("creating DB pool for normal role: %w", err)
	}
	defer p.Close()
	err = p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			si := uc.schemaRepo.Initializer(tx)
			if err := si.CreateTables(ctx); err != nil {
				return fmt.Errorf("creating tables: %w", err)
			}
			if !devData {
				return nil
			}
			if err := si.InsertDevData(ctx); err != nil {
				return fmt.Errorf("inserting dev data: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("normal connection: %w", err)
	}
	return nil
}

func (uc *UseCase) dropAndCreateAgain(ctx context.Context) error {
	p, err := uc.settings.ConnectionPool(ctx, repo.AdminRole)
	if err != nil {
		return fmt.Errorf("creating DB pool for admin: %w", err)
	}
	defer p.Close()
	var finalizer func() error
	err = p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := uc.schemaRepo.Tx(tx)
			sn := SchemaName
			if err := q.DropIfExists(ctx, sn); err != nil {
				return fmt.Errorf("dropping %q: %w", sn, err)
			}
			if err := q.CreateSchema(ctx, sn); err != nil {
				return fmt.Errorf("creating %q: %w", sn, err)
			}
			if err := q.InstallExtensions(ctx); err != nil {
				return fmt.Errorf("installing extensions: %w", err)
			}
			if err := q.CreateRoleIfNotExists(
				ctx, repo.NormalRole,
			); err != nil {
				return fmt.Errorf("creating normal role: %w", err)
			}
			if err := q.GrantPrivileges(
				ctx, sn, repo.NormalRole,
			); err != nil {
				return fmt.Errorf("granting normal role privs: %w", err)
			}
			if err := q.SetSearchPath(
				ctx, sn, repo.NormalRole,
			); err != nil {
				return fmt.Errorf(
					"setting search_path of normal role to %q: %w",
					sn, err,
				)
			}
			var err error
			finalizer, err = uc.settings.RenewPasswords(
				ctx, q.ChangePasswords, repo.AdminRole, repo.NormalRole,
			)
			if err != nil {
				return fmt.Errorf("RenewPasswords: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("admin connection: %w", err)
	}
	if err := finalizer(); err != nil {
		return fmt.Errorf("finalizing passwords renewal: %w", err)
	}
	return nil
}
