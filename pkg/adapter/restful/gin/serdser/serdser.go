// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package serdser contains the (de)serialization helpers which are
// shared by all resources: request binding with field level errors,
// path/query parsing, and the mapping of the core errors to HTTP
// responses having a {"detail": "..."} body.
package serdser

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/momeni/campus-parking/pkg/core/cerr"
	"github.com/momeni/campus-parking/pkg/core/log"
)

// Bind deserializes the c request into req using the b binding and
// validates it. In case of errors, a 400 response with the list of
// errors of each field is written and false is returned.
func Bind(c *gin.Context, req any, b binding.Binding) bool {
	switch err := c.ShouldBindWith(req, b).(type) {
	case *validator.InvalidValidationError:
		c.JSON(http.StatusInternalServerError, gin.H{
			"detail": err.Error(),
		})
	case validator.ValidationErrors:
		var nameToErrs map[string][]string
		for _, ferr := range err {
			AddErr(&nameToErrs, ferr.Field(), ferr.Error())
		}
		c.JSON(http.StatusBadRequest, nameToErrs)
	default:
		if err == nil {
			return true
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": err.Error(),
		})
	}
	return false
}

func AddErr(errs *map[string][]string, name string, msgs ...string) {
	if (*errs) == nil {
		*errs = make(map[string][]string)
	}
	(*errs)[name] = append((*errs)[name], msgs...)
}

func Assert(errs *map[string][]string, ok bool, name string, msgs ...string) bool {
	if ok {
		return true
	}
	AddErr(errs, name, msgs...)
	return false
}

// UUID parses s as the name field. A failure is recorded in errs.
func UUID(errs *map[string][]string, name, s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		AddErr(errs, name, "Expected a UUID.")
		return uuid.Nil
	}
	return id
}

// Time parses s as an RFC 3339 time. An empty s gives a nil time.
func Time(errs *map[string][]string, name, s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		AddErr(errs, name, "Expected an RFC 3339 time.")
		return nil
	}
	return &t
}

// Limit parses an optional positive integer.
func Limit(errs *map[string][]string, name, s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		AddErr(errs, name, "Expected a positive integer.")
		return 0
	}
	return n
}

// Flush writes a 400 response if errs is non-empty and reports if
// the request may be processed further.
func Flush(c *gin.Context, errs map[string][]string) bool {
	if errs == nil {
		return true
	}
	c.JSON(http.StatusBadRequest, errs)
	return false
}

// StatusCode maps a core error kind to its HTTP status code.
func StatusCode(k cerr.Kind) int {
	switch k {
	case cerr.KindValidation:
		return http.StatusBadRequest
	case cerr.KindAuthentication:
		return http.StatusUnauthorized
	case cerr.KindForbidden:
		return http.StatusForbidden
	case cerr.KindNotFound:
		return http.StatusNotFound
	case cerr.KindConflict:
		return http.StatusConflict
	case cerr.KindPaymentFailed:
		return http.StatusPaymentRequired
	case cerr.KindPersistence:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// SerErr writes err as the response. The messages of the classified
// errors are shown to the clients while other errors are only logged.
func SerErr(c *gin.Context, err error) {
	var ce *cerr.Error
	if errors.As(err, &ce) && ce.Kind != cerr.KindPersistence {
		c.AbortWithStatusJSON(StatusCode(ce.Kind), gin.H{
			"detail": ce.Err.Error(),
		})
		return
	}
	log.Error(c, "request failed", log.Err("err", err))
	c.AbortWithStatusJSON(StatusCode(cerr.KindOf(err)), gin.H{
		"detail": http.StatusText(StatusCode(cerr.KindOf(err))),
	})
}
