// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package command provides the root and sub-commands for the campus
// parking web project. Commands are organized using the cobra library.
// The root command starts the web server itself (with the background
// sweeper which activates the due reservations), the "db" sub-command
// initializes the database, and the "token" sub-command issues bearer
// tokens for the REST API clients.
//
//	./parkweb [-c /path/of/config.yaml]           # start web server
//	./parkweb db init-dev [-c /path/of/config.yaml]
//	./parkweb db init-prod [-c /path/of/config.yaml]
//	./parkweb token --user UUID [--role ADMIN] [--ttl 8h]
package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/momeni/campus-parking/pkg/adapter/config"
	"github.com/momeni/campus-parking/pkg/adapter/db/devdata"
	"github.com/momeni/campus-parking/pkg/adapter/db/memory"
	"github.com/momeni/campus-parking/pkg/adapter/restful/gin"
	"github.com/momeni/campus-parking/pkg/adapter/restful/gin/routes"
	"github.com/momeni/campus-parking/pkg/core/log"
	"github.com/momeni/campus-parking/pkg/core/repo"
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "parkweb",
	Short: "Campus parking reservation web service",
	Long: `Campus parking reservation web service which lets the campus
users reserve parking slots for their vehicles, start and end their
parking sessions, and pay the issued invoices through a REST API.
Slot state changes are also published to websocket clients.
Bookings of a slot are serialized, so overlapping reservations may
never both succeed. Storage may be a PostgreSQL database or an
in-memory store (seeded with development data) for trying the APIs.`,
	RunE: startWebServer,
	Args: cobra.NoArgs,
}

func startWebServer(_ *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()
	c, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	log.Info(ctx, "configs loaded",
		slog.String("path", cfgPath),
		log.Stringer("database", c.Database),
	)
	p, rs, closer, err := openStorage(ctx, c)
	if err != nil {
		return err
	}
	defer func() {
		if err := closer(); err != nil {
			log.Error(ctx, "closing storage", log.Err("err", err))
		}
	}()
	auth, err := c.Auth.NewAuthority()
	if err != nil {
		return fmt.Errorf("creating tokens authority: %w", err)
	}
	var e *gin.Engine = c.Gin.NewEngine()
	app, err := routes.Register(ctx, e, p, rs, auth, c)
	if err != nil {
		return fmt.Errorf("registering routes: %w", err)
	}
	defer app.Feed.Close()
	go app.Sessions.RunSweeper(
		ctx, c.Usecases.Sessions.SweepInterval.Std(30*time.Second),
	)

	srv := &http.Server{
		Addr:              c.Server.Address,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "serving", slog.String("address", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err = <-errCh:
		return fmt.Errorf("serving HTTP: %w", err)
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down")
	app.Feed.Close()
	shCtx, cancel := context.WithTimeout(
		context.Background(), c.Server.ShutdownTimeout.Std(10*time.Second),
	)
	defer cancel()
	if err = srv.Shutdown(shCtx); err != nil {
		return fmt.Errorf("shutting down HTTP server: %w", err)
	}
	if err = <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving HTTP: %w", err)
	}
	return nil
}

// openStorage returns the pool and repositories of the configured
// driver. The memory store is seeded with the development data.
func openStorage(
	ctx context.Context, c *config.Config,
) (repo.Pool, config.Repos, func() error, error) {
	if c.Database.IsMemory() {
		st := memory.New()
		if err := st.Seed(ctx, devdata.Dev()); err != nil {
			return nil, config.Repos{}, nil, fmt.Errorf("seeding: %w", err)
		}
		log.Warn(ctx, "using the in-memory store, records are not persisted")
		return st, config.MemoryRepos(), func() error { return nil }, nil
	}
	p, err := c.ConnectionPool(ctx, repo.NormalRole)
	if err != nil {
		return nil, config.Repos{}, nil, fmt.Errorf("creating DB pool: %w", err)
	}
	return p, config.PostgresRepos(), p.Close, nil
}

// Execute runs the rootCmd which in turn parses CLI arguments and
// flags and runs the most specific cobra command. Errors are printed
// and turned into a non-zero exit code.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(fixConfigPath)
	rootCmd.PersistentFlags().StringVarP(
		&cfgPath, "config", "c", "", "config file path",
	)
}

// fixConfigPath ensures that cfgPath is set respectively by either the
// CLI args, the CONFIG_FILE environment variable, or its default value.
func fixConfigPath() {
	if cfgPath != "" {
		return
	}
	var found bool
	if cfgPath, found = os.LookupEnv("CONFIG_FILE"); !found {
		cfgPath = "configs/sample-config.yaml"
	}
}
