// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package config is an adapter which accepts yaml formatted config
// files from its users and allows the parkweb to instantiate different
// components, from the adapter or use cases layers, using those loaded
// configuration settings.
// The parsed and validated configurations are passed to their ultimate
// components as a series of individual params (for the mandatory
// items) and a series of functional options (for the optional items),
// so each component validates them again and keeps its own defaults.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/momeni/campus-parking/pkg/adapter/config/settings"
	"github.com/momeni/campus-parking/pkg/core/repo"
	"github.com/momeni/campus-parking/pkg/core/usecase/dbuc"
)

// Environment variables which override the config file. Secrets are
// better passed this way (or through a .env file) than being written
// into the config file.
const (
	EnvJWTSecret   = "PARKWEB_JWT_SECRET"
	EnvSQSQueueURL = "PARKWEB_SQS_QUEUE_URL"
)

// Config contains all settings which are required by different parts
// of the project, such as adapters or use cases. It is implemented
// with primitive fields or locally defined structs, not the models of
// lower layers, so the file format is kept intact while other layers
// can change freely.
type Config struct {
	Database Database // storage settings
	Gin      Gin      // Gin-Gonic instantiation settings
	Auth     Auth     // bearer tokens settings
	Notify   Notify   // notifications delivery settings
	Usecases Usecases // supported use cases settings
	Server   Server   // HTTP server settings
}

// Load reads the optional .env file (from the working directory),
// then loads, validates, and normalizes the path configuration file.
// Environment variables (possibly set by the .env file) override the
// secrets and endpoints of the configuration file.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env file: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse unmarshals data as a Config, applies the environment variable
// overrides, and validates it. Extra items in the data are ignored
// and missing items take their default values.
func Parse(data []byte) (*Config, error) {
	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}
	if s, ok := os.LookupEnv(EnvJWTSecret); ok {
		c.Auth.Secret = s
	}
	if s, ok := os.LookupEnv(EnvSQSQueueURL); ok {
		c.Notify.QueueURL = s
	}
	if err := c.ValidateAndNormalize(); err != nil {
		return nil, fmt.Errorf("validating configs: %w", err)
	}
	return c, nil
}

// ValidateAndNormalize validates the configuration settings and
// returns an error if they were not acceptable. It also replaces the
// missing settings with their default values.
func (c *Config) ValidateAndNormalize() error {
	if err := c.Database.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating database settings: %w", err)
	}
	c.Gin.normalize()
	if err := c.Auth.validate(); err != nil {
		return fmt.Errorf("validating auth settings: %w", err)
	}
	if err := c.Notify.validate(); err != nil {
		return fmt.Errorf("validating notify settings: %w", err)
	}
	if err := c.Usecases.validate(); err != nil {
		return fmt.Errorf("validating use cases settings: %w", err)
	}
	c.Server.normalize()
	return nil
}

// ConnectionPool creates a database connection pool using the
// connection information which are kept in the c settings.
func (c *Config) ConnectionPool(
	ctx context.Context, r repo.Role,
) (dbuc.Pool, error) {
	p, err := c.Database.ConnectionPool(ctx, r)
	if err != nil {
		return nil, fmt.Errorf(
			"%s.ConnectionPool: %w", c.Database.String(), err,
		)
	}
	return p, nil
}

// NewSchemaRepo instantiates a fresh Schema repository.
func (c *Config) NewSchemaRepo() repo.Schema {
	return c.Database.NewSchemaRepo()
}

// RenewPasswords delegates to Database.RenewPasswords.
func (c *Config) RenewPasswords(
	ctx context.Context,
	change func(
		ctx context.Context, roles []repo.Role, passwords []string,
	) error,
	roles ...repo.Role,
) (finalizer func() error, err error) {
	return c.Database.RenewPasswords(ctx, change, roles...)
}

// Server contains the HTTP server settings.
type Server struct {
	Address         string             `yaml:"address"`
	ShutdownTimeout *settings.Duration `yaml:"shutdown-timeout,omitempty"`
}

func (s *Server) normalize() {
	if s.Address == "" {
		s.Address = ":8080"
	}
	settings.Default(&s.ShutdownTimeout, settings.Duration(10*time.Second))
}
