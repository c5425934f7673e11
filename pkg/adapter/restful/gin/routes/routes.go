// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package routes contains all resource packages and facilitates
// instantiation and registration of all repo, use case, and resource
// packages based on the user provided configuration settings.
package routes

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/campus-parking/pkg/adapter/config"
	"github.com/momeni/campus-parking/pkg/adapter/restful/gin/auditrs"
	"github.com/momeni/campus-parking/pkg/adapter/restful/gin/authn"
	"github.com/momeni/campus-parking/pkg/adapter/restful/gin/feedrs"
	"github.com/momeni/campus-parking/pkg/adapter/restful/gin/invoicesrs"
	"github.com/momeni/campus-parking/pkg/adapter/restful/gin/sessionsrs"
	"github.com/momeni/campus-parking/pkg/adapter/restful/gin/slotsrs"
	"github.com/momeni/campus-parking/pkg/core/repo"
)

// Prefix of all API routes.
const Prefix = "/api/parkweb/v1"

// App is what Register built, so the caller can run the background
// tasks and release the resources on shutdown.
type App struct {
	*config.UseCases
	Feed *feedrs.Hub
}

// Register instantiates the use cases based on the c configuration
// settings. The p connections pool is passed to the use case instances,
// so they may acquire/release connections and transactions on demand.
// These connections/transactions are passed to the rs repositories
// later in order to run relevant queries on them. Each use case
// package is named like sessionsuc and each repository package is
// named like sessionsrp.
// Register instantiates a series of "resource" structs, from packages
// which are named like sessionsrs, in order to adapt the use cases
// with the REST APIs. These resources are registered as request
// handlers using the e gin-gonic engine instance, behind the bearer
// token authentication of v.
func Register(
	ctx context.Context,
	e *gin.Engine,
	p repo.Pool,
	rs config.Repos,
	v authn.Verifier,
	c *config.Config,
) (*App, error) {
	sender, err := c.Notify.NewSender(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating notification sender: %w", err)
	}
	hub := feedrs.NewHub(c.Gin.CheckOrigin)
	ucs, err := c.Usecases.NewUseCases(p, rs, sender, hub)
	if err != nil {
		return nil, fmt.Errorf("creating use cases: %w", err)
	}
	e.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r := e.Group(Prefix, authn.Middleware(v))
	slotsrs.Register(r, ucs.Sessions)
	feedrs.Register(r, hub)
	sessionsrs.Register(r, ucs.Sessions)
	invoicesrs.Register(r, ucs.Invoices)
	auditrs.Register(r, ucs.Audit)
	return &App{UseCases: ucs, Feed: hub}, nil
}
