// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package dbuc_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/momeni/campus-parking/pkg/adapter/db/memory"
	"github.com/momeni/campus-parking/pkg/core/repo"
	"github.com/momeni/campus-parking/pkg/core/usecase/dbuc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type journal struct {
	calls     []string
	failOn    string
	finalized bool
}

func (j *journal) add(call string) error {
	j.calls = append(j.calls, call)
	if call == j.failOn {
		return errors.New("failed " + call)
	}
	return nil
}

type pool struct {
	*memory.Store
	role repo.Role
	j    *journal
}

func (p pool) Close() error {
	p.j.calls = append(p.j.calls, "close "+string(p.role))
	return nil
}

type settings struct {
	j *journal
}

func (s settings) ConnectionPool(_ context.Context, r repo.Role) (dbuc.Pool, error) {
	return pool{Store: memory.New(), role: r, j: s.j}, s.j.add("pool " + string(r))
}

func (s settings) NewSchemaRepo() repo.Schema {
	return schemaRepo{j: s.j}
}

func (s settings) RenewPasswords(
	ctx context.Context,
	change func(context.Context, []repo.Role, []string) error,
	roles ...repo.Role,
) (func() error, error) {
	pass := make([]string, len(roles))
	for i := range roles {
		pass[i] = fmt.Sprintf("secret-%d", i)
	}
	if err := change(ctx, roles, pass); err != nil {
		return nil, err
	}
	return func() error {
		s.j.finalized = true
		return nil
	}, nil
}

type schemaRepo struct {
	j *journal
}

func (r schemaRepo) Tx(repo.Tx) repo.SchemaQueryer {
	return r
}

func (r schemaRepo) Initializer(repo.Tx) repo.SchemaInitializer {
	return r
}

func (r schemaRepo) DropIfExists(_ context.Context, schema string) error {
	return r.j.add("drop " + schema)
}

func (r schemaRepo) CreateSchema(_ context.Context, schema string) error {
	return r.j.add("create " + schema)
}

func (r schemaRepo) InstallExtensions(context.Context) error {
	return r.j.add("extensions")
}

func (r schemaRepo) CreateRoleIfNotExists(_ context.Context, role repo.Role) error {
	return r.j.add("role " + string(role))
}

func (r schemaRepo) GrantPrivileges(_ context.Context, schema string, role repo.Role) error {
	return r.j.add("grant " + schema + " " + string(role))
}

func (r schemaRepo) SetSearchPath(_ context.Context, schema string, role repo.Role) error {
	return r.j.add("search_path " + schema + " " + string(role))
}

func (r schemaRepo) ChangePasswords(_ context.Context, roles []repo.Role, _ []string) error {
	return r.j.add(fmt.Sprintf("passwords %d", len(roles)))
}

func (r schemaRepo) CreateTables(context.Context) error {
	return r.j.add("tables")
}

func (r schemaRepo) InsertDevData(context.Context) error {
	return r.j.add("dev data")
}

func TestInitDev(t *testing.T) {
	j := &journal{}
	err := dbuc.New(settings{j: j}).InitDev(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"pool admin",
		"drop parking",
		"create parking",
		"extensions",
		"role parkweb",
		"grant parking parkweb",
		"search_path parking parkweb",
		"passwords 2",
		"close admin",
		"pool parkweb",
		"tables",
		"dev data",
		"close parkweb",
	}, j.calls)
	assert.True(t, j.finalized)
}

func TestInitProdSkipsDevData(t *testing.T) {
	j := &journal{}
	err := dbuc.New(settings{j: j}).InitProd(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, j.calls, "dev data")
	assert.Contains(t, j.calls, "tables")
}

func TestFailedAdminTxIsNotFinalized(t *testing.T) {
	j := &journal{failOn: "grant parking parkweb"}
	err := dbuc.New(settings{j: j}).InitProd(context.Background())
	require.Error(t, err)
	assert.False(t, j.finalized)
	assert.NotContains(t, j.calls, "pool parkweb")
}
