// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package sessionsrs realizes the parking sessions resource, allowing
// the booking, ending, cancelling, and listing REST APIs to be accepted
// and delegated to the sessions use cases respectively.
package sessionsrs

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/momeni/campus-parking/pkg/adapter/restful/gin/authn"
	"github.com/momeni/campus-parking/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/campus-parking/pkg/core/usecase/sessionsuc"
)

type resource struct {
	sessions *sessionsuc.UseCase
}

// Register instantiates a resource adapting the sessions use case
// instance with the relevant REST APIs including:
//  1. POST request to /api/parkweb/v1/sessions
//     in order to reserve a slot or start parking immediately,
//  2. GET request to /api/parkweb/v1/sessions
//     in order to list the sessions of the caller (or all sessions),
//  3. GET request to /api/parkweb/v1/sessions/:id
//     in order to fetch one session and its related records,
//  4. POST request to /api/parkweb/v1/sessions/:id/end
//     in order to complete a session and finalize its invoice, and
//  5. POST request to /api/parkweb/v1/sessions/:id/cancel
//     in order to cancel a reservation or an active session.
func Register(r *gin.RouterGroup, sessions *sessionsuc.UseCase) {
	rs := &resource{sessions: sessions}
	r.POST("sessions", rs.Start)
	r.GET("sessions", rs.List)
	r.GET("sessions/:id", rs.Get)
	r.POST("sessions/:id/end", rs.End)
	r.POST("sessions/:id/cancel", rs.Cancel)
}

func (rs *resource) Start(c *gin.Context) {
	req := rs.DserStartReq(c)
	if req == nil {
		return
	}
	view, err := rs.sessions.Start(c, authn.Actor(c), *req)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (rs *resource) List(c *gin.Context) {
	req := rs.DserListReq(c)
	if req == nil {
		return
	}
	views, err := rs.sessions.List(
		c, authn.Actor(c), req.Filter, req.Expand,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": views})
}

func (rs *resource) Get(c *gin.Context) {
	req := rs.DserGetReq(c)
	if req == nil {
		return
	}
	view, err := rs.sessions.Get(c, authn.Actor(c), req.ID, req.Expand)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (rs *resource) End(c *gin.Context) {
	req := rs.DserEndReq(c)
	if req == nil {
		return
	}
	view, err := rs.sessions.End(c, authn.Actor(c), req.ID, req.Exit)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (rs *resource) Cancel(c *gin.Context) {
	var errs map[string][]string
	id := serdser.UUID(&errs, "id", c.Param("id"))
	if !serdser.Flush(c, errs) {
		return
	}
	view, err := rs.sessions.Cancel(c, authn.Actor(c), id)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
