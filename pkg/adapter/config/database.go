// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/momeni/campus-parking/pkg/adapter/db/postgres"
	"github.com/momeni/campus-parking/pkg/adapter/db/postgres/schemarp"
	"github.com/momeni/campus-parking/pkg/adapter/hash/scram"
	"github.com/momeni/campus-parking/pkg/core/log"
	"github.com/momeni/campus-parking/pkg/core/repo"
	"github.com/momeni/campus-parking/pkg/core/usecase/dbuc"
)

// Supported storage drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// ErrMemoryDriver is returned when a database is asked for while the
// in-memory store is configured.
var ErrMemoryDriver = errors.New("memory driver has no database")

// Database contains the storage settings. The memory driver keeps all
// records in the server process (seeded with the development data) and
// needs no other setting, so it is only suitable for trying the APIs.
type Database struct {
	Driver  string // postgres (default) or memory
	Host    string // domain name or IP address of the DBMS server
	Port    int    // port number of the DBMS server
	Name    string // database name, like parkweb
	PassDir string `yaml:"pass-dir"` // path of the passwords dir

	// AuthMethod is the password hashing method of the database roles.
	// Only scram-sha-256 is supported (which is also the default).
	AuthMethod string `yaml:"auth-method,omitempty"`
}

// IsMemory reports if the in-memory store is configured.
func (d Database) IsMemory() bool {
	return d.Driver == DriverMemory
}

func (d Database) String() string {
	if d.IsMemory() {
		return DriverMemory
	}
	return fmt.Sprintf("postgres(%s:%d/%s)", d.Host, d.Port, d.Name)
}

// ValidateAndNormalize checks the driver specific settings.
func (d *Database) ValidateAndNormalize() error {
	switch d.Driver {
	case "":
		d.Driver = DriverPostgres
	case DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("unsupported driver: %q", d.Driver)
	}
	if d.IsMemory() {
		return nil
	}
	switch am := d.AuthMethod; am {
	case "":
		d.AuthMethod = "scram-sha-256"
	case "scram-sha-256":
	default:
		return fmt.Errorf(
			"unsupported database authentication method: %q", am,
		)
	}
	switch {
	case d.Host == "":
		return errors.New("host is required")
	case d.Port <= 0 || d.Port > 65535:
		return fmt.Errorf("invalid port: %d", d.Port)
	case d.Name == "":
		return errors.New("name is required")
	case d.PassDir == "":
		return errors.New("pass-dir is required")
	}
	return nil
}

// ConnectionPool creates a connection pool for the r role. The role
// password is read from the .pgpass file in the PassDir. If it fails,
// the .pgpass.new file (which is written by RenewPasswords) is tried
// and on success, it is moved over the .pgpass file. So an interrupted
// passwords renewal does not lock the roles out.
func (d Database) ConnectionPool(
	ctx context.Context, r repo.Role,
) (dbuc.Pool, error) {
	if d.IsMemory() {
		return nil, ErrMemoryDriver
	}
	path := filepath.Join(d.PassDir, ".pgpass")
	u, err := d.ConnectionURL(r, path)
	if err == nil {
		p, err := postgres.NewPool(ctx, u)
		if err == nil {
			return p, nil
		}
		log.Info(ctx, "connecting with .pgpass failed", log.Err("err", err))
	}
	newPath := filepath.Join(d.PassDir, ".pgpass.new")
	u, err = d.ConnectionURL(r, newPath)
	if err != nil {
		return nil, fmt.Errorf("using %q pass-file: %w", newPath, err)
	}
	p, err := postgres.NewPool(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("can use neither pass-file: %w", err)
	}
	if err = os.Rename(newPath, path); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("os.Rename: %w", err)
	}
	return p, nil
}

// ConnectionURL finds the r role password in the path pass-file and
// returns a connection URL. Lines of the pass-file follow the format
// of the PostgreSQL .pgpass files, i.e., host:port:db:role:password.
func (d Database) ConnectionURL(r repo.Role, path string) (string, error) {
	passLines, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading pass-file: %w", err)
	}
	prfx := fmt.Sprintf("%s:%d:%s:%s:", d.Host, d.Port, d.Name, r)
	var pass string
	for _, line := range strings.Split(string(passLines), "\n") {
		if line == "" || line[0] == '#' {
			continue
		}
		if rest, ok := strings.CutPrefix(line, prfx); ok {
			pass = rest
			break
		}
	}
	if pass == "" {
		return "", errors.New("no matching password line")
	}
	u := url.URL{
		Scheme:   "postgresql",
		User:     url.UserPassword(string(r), pass),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     d.Name,
		RawQuery: "search_path=" + dbuc.SchemaName,
	}
	return u.String(), nil
}

// NewSchemaRepo instantiates a Schema repository which hashes the
// role passwords with SCRAM-SHA-256 before sending them to the DBMS.
func (d Database) NewSchemaRepo() repo.Schema {
	return schemarp.New(scram.New())
}

// RenewPasswords generates new random passwords for the roles, writes
// them into the .pgpass.new file, and calls change in order to update
// them in the database. The returned finalizer moves the .pgpass.new
// file over the .pgpass file and must be called after the change
// transaction commits.
func (d Database) RenewPasswords(
	ctx context.Context,
	change func(
		ctx context.Context, roles []repo.Role, passwords []string,
	) error,
	roles ...repo.Role,
) (finalizer func() error, err error) {
	passwords := make([]string, len(roles))
	lines := make([]string, len(roles))
	b := make([]byte, 18) // 144 bits, no base64 padding
	prfx := fmt.Sprintf("%s:%d:%s", d.Host, d.Port, d.Name)
	for i, r := range roles {
		if _, err = rand.Read(b); err != nil {
			return nil, fmt.Errorf("rand.Read for %q: %w", r, err)
		}
		passwords[i] = base64.RawURLEncoding.EncodeToString(b)
		lines[i] = fmt.Sprintf("%s:%s:%s\n", prfx, r, passwords[i])
	}
	orgPath := filepath.Join(d.PassDir, ".pgpass")
	newPath := filepath.Join(d.PassDir, ".pgpass.new")
	err = os.WriteFile(newPath, []byte(strings.Join(lines, "")), 0o600)
	if err != nil {
		return nil, fmt.Errorf("writing %q file: %w", newPath, err)
	}
	if err = change(ctx, roles, passwords); err != nil {
		return nil, fmt.Errorf("passwords change callback: %w", err)
	}
	return func() error {
		return os.Rename(newPath, orgPath)
	}, nil
}
