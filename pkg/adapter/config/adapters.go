// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/momeni/campus-parking/pkg/adapter/auth/jwtauth"
	"github.com/momeni/campus-parking/pkg/adapter/config/settings"
	"github.com/momeni/campus-parking/pkg/adapter/notify/lognotify"
	"github.com/momeni/campus-parking/pkg/adapter/notify/sqsnotify"
	"github.com/momeni/campus-parking/pkg/adapter/restful/gin"
	"github.com/momeni/campus-parking/pkg/core/notify"
)

// Gin contains the gin-gonic engine settings.
type Gin struct {
	Logger   *bool    // Whether to log the requests with slog
	Recovery *bool    // Whether to recover from the handlers panics
	Origins  []string `yaml:"cors-origins,omitempty"` // CORS origins
}

func (g *Gin) normalize() {
	settings.Nil2Zero(&g.Logger)
	settings.Nil2Zero(&g.Recovery)
}

// NewEngine instantiates a new gin-gonic engine instance based on
// the g settings.
func (g Gin) NewEngine() *gin.Engine {
	middlewares := make([]gin.HandlerFunc, 0, 3)
	if g.Logger != nil && *g.Logger {
		middlewares = append(middlewares, gin.Logger(slog.Default()))
	}
	if g.Recovery != nil && *g.Recovery {
		middlewares = append(middlewares, gin.Recovery())
	}
	if len(g.Origins) > 0 {
		middlewares = append(middlewares, gin.CORS(g.Origins))
	}
	return gin.New(middlewares...)
}

// CheckOrigin decides which browser origins may open the websocket
// feed, following the CORS origins. Requests without an Origin header
// (e.g., from non-browser clients) are accepted.
func (g Gin) CheckOrigin(r *http.Request) bool {
	o := r.Header.Get("Origin")
	if o == "" || slices.Contains(g.Origins, "*") {
		return true
	}
	return slices.Contains(g.Origins, o) || o == "http://"+r.Host ||
		o == "https://"+r.Host
}

// Auth contains the bearer tokens settings. The Secret is better set
// by the PARKWEB_JWT_SECRET environment variable.
type Auth struct {
	Secret   string             `yaml:"secret,omitempty"`
	TokenTTL *settings.Duration `yaml:"token-ttl,omitempty"`
}

func (a *Auth) validate() error {
	settings.Default(&a.TokenTTL, settings.Duration(time.Hour))
	if *a.TokenTTL <= 0 {
		return errors.New("token-ttl must be positive")
	}
	return nil
}

// NewAuthority instantiates the tokens issuer and verifier.
func (a Auth) NewAuthority() (*jwtauth.Authority, error) {
	return jwtauth.New(
		[]byte(a.Secret),
		jwtauth.WithTTL(a.TokenTTL.Std(time.Hour)),
	)
}

// Supported notification drivers.
const (
	NotifyLog = "log"
	NotifySQS = "sqs"
)

// Notify contains the notifications delivery settings. The QueueURL
// is better set by the PARKWEB_SQS_QUEUE_URL environment variable.
type Notify struct {
	Driver   string // log (default) or sqs
	Region   string `yaml:"region,omitempty"`
	Endpoint string `yaml:"endpoint,omitempty"` // e.g., a local emulator
	QueueURL string `yaml:"queue-url,omitempty"`
	Verbose  bool   `yaml:"verbose,omitempty"` // log the bodies too
}

func (n *Notify) validate() error {
	switch n.Driver {
	case "":
		n.Driver = NotifyLog
	case NotifyLog:
	case NotifySQS:
		if n.Region == "" {
			return errors.New("region is required by the sqs driver")
		}
	default:
		return fmt.Errorf("unsupported notify driver: %q", n.Driver)
	}
	return nil
}

// NewSender instantiates the configured notify.Sender.
func (n Notify) NewSender(ctx context.Context) (notify.Sender, error) {
	if n.Driver != NotifySQS {
		return lognotify.New(n.Verbose), nil
	}
	s, err := sqsnotify.Dial(ctx, n.Region, n.Endpoint, n.QueueURL)
	if err != nil {
		return nil, fmt.Errorf("dialing SQS: %w", err)
	}
	return s, nil
}
