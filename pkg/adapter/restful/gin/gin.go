// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package gin wraps the gin-gonic engine and its middlewares, so the
// config and cmd packages can create an engine without importing the
// gin-gonic, cors, and ginslog modules directly.
package gin

import (
	"log/slog"
	"time"

	ginslog "github.com/FabienMht/ginslog/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type HandlerFunc = gin.HandlerFunc
type Engine = gin.Engine

// New instantiates an engine (in the release mode) which uses the
// given middlewares for all routes.
func New(middlewares ...HandlerFunc) *Engine {
	gin.SetMode(gin.ReleaseMode)
	e := gin.New()
	e.Use(middlewares...)
	return e
}

// Logger logs every request using the l structured logger.
func Logger(l *slog.Logger) HandlerFunc {
	return ginslog.New(l)
}

func Recovery() HandlerFunc {
	return gin.Recovery()
}

// CORS allows the browser clients from origins to call the APIs with
// a bearer token. A "*" item allows all origins.
func CORS(origins []string) HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cors.New(cfg)
		}
	}
	cfg.AllowOrigins = origins
	return cors.New(cfg)
}
