// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package dbcontainer runs a disposable PostgreSQL container for the
// integration tests and prepares the parking tables in it.
package dbcontainer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/bitcomplete/sqltestutil"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/momeni/campus-parking/pkg/adapter/db/postgres"
	"github.com/momeni/campus-parking/pkg/adapter/db/postgres/schemarp"
	"github.com/momeni/campus-parking/pkg/core/repo"
	"github.com/stretchr/testify/assert"
)

// DBMSVersion is the PostgreSQL image tag of the test containers.
const DBMSVersion = "16"

// New starts a PostgreSQL container and connects to it, waiting up to
// timeout for the DBMS to accept connections. Returned dfrs functions
// must be deferred by the caller (even if ok is false) in order to
// close the pool and shut the container down. Errors are reported
// through t and cause ok to be false.
func New(ctx context.Context, timeout time.Duration, t *testing.T) (
	pg *sqltestutil.PostgresContainer,
	pool *postgres.Pool,
	dfrs []func(),
	ok bool,
) {
	ctx2, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	pg, err := sqltestutil.StartPostgresContainer(ctx2, DBMSVersion)
	ok = assert.NoError(t, err, "failed to set up a test database")
	if !ok {
		return
	}
	dfrs = append(dfrs, func() {
		err := pg.Shutdown(ctx)
		assert.NoError(t, err, "failed to shutdown test database")
	})
	u := pg.ConnectionString()
	for pool == nil {
		pool, err = postgres.NewPool(ctx2, u)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.SQLState() == "57P03" {
			continue // the database system is starting up
		}
		var netErr net.Error
		if ctx2.Err() == nil && errors.As(err, &netErr) {
			continue // tolerate network errors until a timeout
		}
		ok = assert.NoError(t, err, "cannot connect to test database")
		if !ok {
			return
		}
	}
	dfrs = append(dfrs, func() {
		err := pool.Close()
		assert.NoError(t, err, "failed to close the connections pool")
	})
	return
}

// InitTables installs the required extensions and creates the parking
// tables in the default schema of the p pool, filling them with the
// development data set. The container superuser is used for all
// operations, so no role or password is created.
func InitTables(ctx context.Context, p *postgres.Pool) error {
	return p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			tt := tx.(*postgres.Tx)
			if err := schemarp.InstallExtensions(ctx, tt); err != nil {
				return fmt.Errorf("installing extensions: %w", err)
			}
			if err := schemarp.CreateTables(ctx, tt); err != nil {
				return fmt.Errorf("creating tables: %w", err)
			}
			if err := schemarp.InsertDevData(ctx, tt); err != nil {
				return fmt.Errorf("inserting dev data: %w", err)
			}
			return nil
		})
	})
}
