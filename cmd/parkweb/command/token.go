// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/campus-parking/pkg/adapter/auth/jwtauth"
	"github.com/momeni/campus-parking/pkg/adapter/config"
	"github.com/momeni/campus-parking/pkg/core/model"
	"github.com/spf13/cobra"
)

var tokenFlags struct {
	user string
	role string
	ttl  time.Duration
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for the REST API",
	Long: `Issue a bearer token for the given user and role, signed by
the secret of the configuration file (or the PARKWEB_JWT_SECRET
environment variable). The token is printed on the standard output.
Its lifetime defaults to the token-ttl setting.`,
	RunE: issueToken,
	Args: cobra.NoArgs,
}

func issueToken(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	id, err := uuid.Parse(tokenFlags.user)
	if err != nil {
		return fmt.Errorf("parsing --user: %w", err)
	}
	role, err := model.ParseRole(tokenFlags.role)
	if err != nil {
		return fmt.Errorf("parsing --role: %w", err)
	}
	ttl := c.Auth.TokenTTL.Std(time.Hour)
	if tokenFlags.ttl > 0 {
		ttl = tokenFlags.ttl
	}
	auth, err := jwtauth.New([]byte(c.Auth.Secret), jwtauth.WithTTL(ttl))
	if err != nil {
		return fmt.Errorf("creating tokens authority: %w", err)
	}
	tok, err := auth.Issue(model.Actor{ID: id, Role: role})
	if err != nil {
		return fmt.Errorf("issuing token: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), tok)
	return nil
}

func init() {
	f := tokenCmd.Flags()
	f.StringVar(&tokenFlags.user, "user", "", "user UUID (required)")
	f.StringVar(&tokenFlags.role, "role", "USER", "USER or ADMIN")
	f.DurationVar(&tokenFlags.ttl, "ttl", 0, "token lifetime")
	_ = tokenCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(tokenCmd)
}
