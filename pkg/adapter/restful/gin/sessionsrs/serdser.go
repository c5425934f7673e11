// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package sessionsrs

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/momeni/campus-parking/pkg/adapter/restful/gin/authn"
	"github.com/momeni/campus-parking/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/campus-parking/pkg/core/model"
)

type rawStartReq struct {
	SlotID    string    `json:"slot_id" binding:"required,uuid"`
	VehicleID string    `json:"vehicle_id" binding:"required,uuid"`
	Start     time.Time `json:"start" binding:"required"`
	End       time.Time `json:"end" binding:"required"`
}

type rawListReq struct {
	All    bool   `form:"all"`
	User   string `form:"user" binding:"omitempty,uuid"`
	Status string `form:"status" binding:"omitempty,oneof=RESERVED ACTIVE COMPLETED CANCELLED"`
	Limit  string `form:"limit"`
	Expand string `form:"expand"`
}

type listReq struct {
	Filter model.SessionFilter
	Expand model.Expand
}

type getReq struct {
	ID     model.SessionID
	Expand model.Expand
}

type rawEndReq struct {
	Exit *time.Time `json:"exit_time"`
}

type endReq struct {
	ID   model.SessionID
	Exit *time.Time
}

func (rs *resource) DserStartReq(c *gin.Context) *model.BookingRequest {
	req := &rawStartReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil
	}
	var errs map[string][]string
	val := &model.BookingRequest{
		SlotID:    serdser.UUID(&errs, "slot_id", req.SlotID),
		VehicleID: serdser.UUID(&errs, "vehicle_id", req.VehicleID),
		Start:     req.Start,
		End:       req.End,
	}
	if !serdser.Flush(c, errs) {
		return nil
	}
	return val
}

func (rs *resource) DserListReq(c *gin.Context) *listReq {
	req := &rawListReq{}
	if ok := serdser.Bind(c, req, binding.Query); !ok {
		return nil
	}
	var errs map[string][]string
	val := &listReq{}
	switch {
	case req.User != "":
		id := serdser.UUID(&errs, "user", req.User)
		val.Filter.UserID = &id
	case !req.All:
		id := authn.Actor(c).ID
		val.Filter.UserID = &id
	}
	if req.Status != "" {
		st, err := model.ParseSessionStatus(req.Status)
		if serdser.Assert(&errs, err == nil, "status", "Unknown status.") {
			val.Filter.Status = &st
		}
	}
	val.Filter.Limit = serdser.Limit(&errs, "limit", req.Limit)
	val.Expand = dserExpand(&errs, req.Expand)
	if !serdser.Flush(c, errs) {
		return nil
	}
	return val
}

func (rs *resource) DserGetReq(c *gin.Context) *getReq {
	var errs map[string][]string
	val := &getReq{
		ID:     serdser.UUID(&errs, "id", c.Param("id")),
		Expand: dserExpand(&errs, c.Query("expand")),
	}
	if !serdser.Flush(c, errs) {
		return nil
	}
	return val
}

// DserEndReq accepts an empty body, so the exit time defaults to now.
func (rs *resource) DserEndReq(c *gin.Context) *endReq {
	var errs map[string][]string
	val := &endReq{ID: serdser.UUID(&errs, "id", c.Param("id"))}
	if !serdser.Flush(c, errs) {
		return nil
	}
	if c.Request.ContentLength != 0 {
		req := &rawEndReq{}
		if ok := serdser.Bind(c, req, binding.JSON); !ok {
			return nil
		}
		val.Exit = req.Exit
	}
	return val
}

func dserExpand(errs *map[string][]string, s string) model.Expand {
	e, err := model.ParseExpand(s)
	serdser.Assert(
		errs, err == nil, "expand",
		"Expected a comma separated list of slot, vehicle, and invoice.",
	)
	return e
}
