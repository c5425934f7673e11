// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"fmt"

	"github.com/momeni/campus-parking/pkg/adapter/config"
	"github.com/momeni/campus-parking/pkg/core/usecase/dbuc"
	"github.com/spf13/cobra"
)

const credsRenewalMessage = `
The admin role password is read from the pass-dir/.pgpass file and
a fresh password is generated for the parkweb role. It is written in
the pass-dir/.pgpass.new file first and moved over the .pgpass file
after the database transaction commits.`

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database management actions",
	Long: `Database management actions can be chosen by sub-commands.
For fresh installation in a development or production environment,
the init-dev or init-prod may be used. Both of them drop and create
the parking schema again, so existing records will be lost.`,
}

var initProdCmd = &cobra.Command{
	Use:   "init-prod",
	Short: "Initialize database contents with production suitable data",
	Long: `Initialize database contents with production suitable data,
i.e., the tables are created with no records. The database connection
information are read from the configuration file.
` + credsRenewalMessage,
	RunE: func(_ *cobra.Command, _ []string) error {
		return initDB(false)
	},
	Args: cobra.NoArgs,
}

var initDevCmd = &cobra.Command{
	Use:   "init-dev",
	Short: "Initialize database contents with development suitable data",
	Long: `Initialize database contents with development suitable data,
i.e., the tables are created and filled with the sample users, their
vehicles, the parking zones, and their slots.
` + credsRenewalMessage,
	RunE: func(_ *cobra.Command, _ []string) error {
		return initDB(true)
	},
	Args: cobra.NoArgs,
}

func initDB(devData bool) error {
	ctx := context.Background()
	c, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	if c.Database.IsMemory() {
		return fmt.Errorf("initializing DB: %w", config.ErrMemoryDriver)
	}
	uc := dbuc.New(c)
	if devData {
		err = uc.InitDev(ctx)
	} else {
		err = uc.InitProd(ctx)
	}
	if err != nil {
		return fmt.Errorf("initializing DB: %w", err)
	}
	return nil
}

func init() {
	dbCmd.AddCommand(initProdCmd, initDevCmd)
	rootCmd.AddCommand(dbCmd)
}
