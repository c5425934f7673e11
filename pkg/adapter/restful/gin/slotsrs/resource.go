// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package slotsrs realizes the slot availability REST API.
package slotsrs

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/momeni/campus-parking/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/campus-parking/pkg/core/model"
	"github.com/momeni/campus-parking/pkg/core/usecase/sessionsuc"
)

type resource struct {
	sessions *sessionsuc.UseCase
}

// Register adds GET slots/:sid/availability?start=&end= to r.
func Register(r *gin.RouterGroup, sessions *sessionsuc.UseCase) {
	rs := &resource{sessions: sessions}
	r.GET("slots/:sid/availability", rs.Availability)
}

type rawAvailabilityReq struct {
	Start string `form:"start" binding:"required"`
	End   string `form:"end" binding:"required"`
}

type availabilityReq struct {
	SlotID     model.SlotID
	Start, End time.Time
}

func (rs *resource) Availability(c *gin.Context) {
	req := rs.DserAvailabilityReq(c)
	if req == nil {
		return
	}
	ok, err := rs.sessions.IsAvailable(c, req.SlotID, req.Start, req.End)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"slot_id":   req.SlotID,
		"start":     req.Start,
		"end":       req.End,
		"available": ok,
	})
}

func (rs *resource) DserAvailabilityReq(c *gin.Context) *availabilityReq {
	req := &rawAvailabilityReq{}
	if ok := serdser.Bind(c, req, binding.Query); !ok {
		return nil
	}
	var errs map[string][]string
	val := &availabilityReq{
		SlotID: serdser.UUID(&errs, "sid", c.Param("sid")),
	}
	if t := serdser.Time(&errs, "start", req.Start); t != nil {
		val.Start = *t
	}
	if t := serdser.Time(&errs, "end", req.End); t != nil {
		val.End = *t
	}
	if !serdser.Flush(c, errs) {
		return nil
	}
	return val
}
