// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package authn authenticates the REST API callers by their bearer
// tokens and keeps the resolved model.Actor in the gin context, so the
// resources can pass it to the use cases explicitly.
package authn

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/momeni/campus-parking/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/campus-parking/pkg/core/model"
)

const actorKey = "parkweb.actor"

// TokenParam is the query parameter which may carry the token when
// an Authorization header cannot be set, e.g., for browser websockets.
const TokenParam = "access_token"

// Verifier resolves the actor of a bearer token. Its errors must be
// classified as cerr.Authentication errors.
type Verifier interface {
	Verify(token string) (model.Actor, error)
}

// Middleware rejects the requests without a valid bearer token with
// a 401 response and stores the actor of the others.
func Middleware(v Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := v.Verify(token(c))
		if err != nil {
			serdser.SerErr(c, err)
			return
		}
		c.Set(actorKey, actor)
		c.Next()
	}
}

func token(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if scheme, tok, ok := strings.Cut(h, " "); ok &&
		strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(tok)
	}
	return c.Query(TokenParam)
}

// Actor returns the authenticated actor. It panics if Middleware was
// not registered for the current route.
func Actor(c *gin.Context) model.Actor {
	return c.MustGet(actorKey).(model.Actor)
}
