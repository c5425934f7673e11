// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package auditrs exposes the audit logs to the admins.
package auditrs

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/momeni/campus-parking/pkg/adapter/restful/gin/authn"
	"github.com/momeni/campus-parking/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/campus-parking/pkg/core/usecase/audituc"
)

type resource struct {
	audit *audituc.UseCase
}

// Register adds the GET audit-logs[?limit=] and GET audit-logs/:id
// APIs to the r group.
func Register(r *gin.RouterGroup, audit *audituc.UseCase) {
	rs := &resource{audit: audit}
	r.GET("audit-logs", rs.List)
	r.GET("audit-logs/:id", rs.Get)
}

func (rs *resource) List(c *gin.Context) {
	var errs map[string][]string
	limit := serdser.Limit(&errs, "limit", c.Query("limit"))
	if !serdser.Flush(c, errs) {
		return
	}
	entries, err := rs.audit.List(c, authn.Actor(c), limit)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"audit_logs": entries})
}

func (rs *resource) Get(c *gin.Context) {
	var errs map[string][]string
	id := serdser.UUID(&errs, "id", c.Param("id"))
	if !serdser.Flush(c, errs) {
		return
	}
	e, err := rs.audit.Get(c, authn.Actor(c), id)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}
