// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package schemarp

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/momeni/campus-parking/pkg/adapter/db/postgres"
	"github.com/momeni/campus-parking/pkg/core/repo"
	"github.com/momeni/campus-parking/pkg/core/scram"
)

// PasswordIters is the number of SCRAM iterations for hashing the
// roles passwords.
const PasswordIters = 4096

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

// DropIfExists drops schema if it exists. It fails if schema is not
// empty, so an initialized database is not destroyed accidentally.
func DropIfExists[Q postgres.Queryer](
	ctx context.Context, q Q, schema string,
) error {
	_, err := q.Exec(ctx, "DROP SCHEMA IF EXISTS "+ident(schema)+" RESTRICT")
	return err
}

// CreateSchema creates schema which must not exist.
func CreateSchema[Q postgres.Queryer](
	ctx context.Context, q Q, schema string,
) error {
	_, err := q.Exec(ctx, "CREATE SCHEMA "+ident(schema))
	return err
}

// InstallExtensions creates the btree_gist extension which allows the
// uuid equality to be used in the sessions exclusion constraint.
func InstallExtensions[Q postgres.Queryer](ctx context.Context, q Q) error {
	_, err := q.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS btree_gist SCHEMA public")
	return err
}

// CreateRoleIfNotExists creates role with the LOGIN attribute.
func CreateRoleIfNotExists[Q postgres.Queryer](
	ctx context.Context, q Q, role repo.Role,
) error {
	var n int64
	err := q.GORM(ctx).Raw(
		"SELECT count(*) FROM pg_roles WHERE rolname=?", string(role),
	).Scan(&n).Error
	if err != nil {
		return fmt.Errorf("querying pg_roles: %w", err)
	}
	if n > 0 {
		return nil
	}
	_, err = q.Exec(ctx, "CREATE ROLE "+ident(string(role))+" LOGIN")
	return err
}

// GrantPrivileges grants all privileges on schema to role.
func GrantPrivileges[Q postgres.Queryer](
	ctx context.Context, q Q, schema string, role repo.Role,
) error {
	_, err := q.Exec(ctx, fmt.Sprintf(
		"GRANT ALL PRIVILEGES ON SCHEMA %s TO %s",
		ident(schema), ident(string(role)),
	))
	return err
}

// SetSearchPath sets the default search_path of role to schema.
func SetSearchPath[Q postgres.Queryer](
	ctx context.Context, q Q, schema string, role repo.Role,
) error {
	_, err := q.Exec(ctx, fmt.Sprintf(
		"ALTER ROLE %s SET search_path TO %s",
		ident(string(role)), ident(schema),
	))
	return err
}

// ChangePasswords sets passwords of roles pairwise. Each password is
// hashed by the hasher (with a random salt) and the hash is sent to
// the DBMS instead of the plain password.
func ChangePasswords(
	ctx context.Context,
	tx *postgres.Tx,
	hasher scram.Hasher,
	roles []repo.Role,
	passwords []string,
) error {
	if len(roles) != len(passwords) {
		return fmt.Errorf(
			"got %d roles, but %d passwords", len(roles), len(passwords),
		)
	}
	if hasher == nil {
		return errors.New("no password hasher")
	}
	for i, role := range roles {
		h, err := hasher.Hash(passwords[i], "", PasswordIters)
		if err != nil {
			return fmt.Errorf("hashing password of %q: %w", role, err)
		}
		// h contains base64 characters, digits, '$', and ':' alone.
		_, err = tx.Exec(ctx, fmt.Sprintf(
			"ALTER ROLE %s WITH PASSWORD '%s'", ident(string(role)), h,
		))
		if err != nil {
			return fmt.Errorf("altering password of %q: %w", role, err)
		}
	}
	return nil
}
