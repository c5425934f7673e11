// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package invoicesrs realizes the invoices resource, including their
// listing, payment, and refund REST APIs.
package invoicesrs

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/momeni/campus-parking/pkg/adapter/restful/gin/authn"
	"github.com/momeni/campus-parking/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/campus-parking/pkg/core/model"
	"github.com/momeni/campus-parking/pkg/core/usecase/invoicesuc"
)

type resource struct {
	invoices *invoicesuc.UseCase
}

// Register instantiates a resource adapting the invoices use case
// instance with the relevant REST APIs including:
//  1. GET request to /api/parkweb/v1/invoices,
//  2. GET request to /api/parkweb/v1/invoices/:id,
//  3. POST request to /api/parkweb/v1/invoices/:id/pay, and
//  4. POST request to /api/parkweb/v1/invoices/:id/refund (admins).
func Register(r *gin.RouterGroup, invoices *invoicesuc.UseCase) {
	rs := &resource{invoices: invoices}
	r.GET("invoices", rs.List)
	r.GET("invoices/:id", rs.byID(rs.invoices.Get))
	r.POST("invoices/:id/pay", rs.byID(rs.invoices.Pay))
	r.POST("invoices/:id/refund", rs.byID(rs.invoices.Refund))
}

type rawListReq struct {
	All    bool   `form:"all"`
	User   string `form:"user" binding:"omitempty,uuid"`
	Status string `form:"status" binding:"omitempty,oneof=PENDING PAID FAILED REFUNDED"`
	Limit  string `form:"limit"`
}

func (rs *resource) List(c *gin.Context) {
	f := rs.DserListReq(c)
	if f == nil {
		return
	}
	invs, err := rs.invoices.List(c, authn.Actor(c), *f)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoices": invs})
}

func (rs *resource) DserListReq(c *gin.Context) *model.InvoiceFilter {
	req := &rawListReq{}
	if ok := serdser.Bind(c, req, binding.Query); !ok {
		return nil
	}
	var errs map[string][]string
	f := &model.InvoiceFilter{}
	switch {
	case req.User != "":
		id := serdser.UUID(&errs, "user", req.User)
		f.UserID = &id
	case !req.All:
		id := authn.Actor(c).ID
		f.UserID = &id
	}
	if req.Status != "" {
		st, err := model.ParsePaymentState(req.Status)
		if serdser.Assert(&errs, err == nil, "status", "Unknown status.") {
			f.State = &st
		}
	}
	f.Limit = serdser.Limit(&errs, "limit", req.Limit)
	if !serdser.Flush(c, errs) {
		return nil
	}
	return f
}

type invoiceOp func(
	context.Context, model.Actor, model.InvoiceID,
) (*model.Invoice, error)

// byID adapts the use case methods which only need an invoice id.
func (rs *resource) byID(op invoiceOp) gin.HandlerFunc {
	return func(c *gin.Context) {
		var errs map[string][]string
		id := serdser.UUID(&errs, "id", c.Param("id"))
		if !serdser.Flush(c, errs) {
			return
		}
		inv, err := op(c, authn.Actor(c), id)
		if err != nil {
			serdser.SerErr(c, err)
			return
		}
		c.JSON(http.StatusOK, inv)
	}
}
