// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package gin_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/momeni/campus-parking/pkg/adapter/auth/jwtauth"
	"github.com/momeni/campus-parking/pkg/adapter/config"
	"github.com/momeni/campus-parking/pkg/adapter/db/devdata"
	"github.com/momeni/campus-parking/pkg/adapter/db/memory"
	"github.com/momeni/campus-parking/pkg/adapter/restful/gin"
	"github.com/momeni/campus-parking/pkg/adapter/restful/gin/feedrs"
	"github.com/momeni/campus-parking/pkg/adapter/restful/gin/routes"
	"github.com/momeni/campus-parking/pkg/core/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type IntegrationGinTestSuite struct {
	suite.Suite

	Ctx   context.Context
	Store *memory.Store
	Gin   *gin.Engine
	App   *routes.App
	Fix   devdata.Fixture

	Alice, Bob, Admin string // bearer tokens
	Car, Truck        uuid.UUID
	Slot              model.Slot
}

func TestIntegrationGinTestSuite(t *testing.T) {
	suite.Run(t, &IntegrationGinTestSuite{Ctx: context.Background()})
}

func (igts *IntegrationGinTestSuite) SetupTest() {
	igts.Fix = devdata.Dev()
	igts.Store = memory.New()
	igts.Require().NoError(igts.Store.Seed(igts.Ctx, igts.Fix))

	c, err := config.Parse([]byte("database: {driver: memory}\n"))
	igts.Require().NoError(err, "failed to parse config")
	auth, err := jwtauth.New([]byte("integration-tests-secret-0123456789"))
	igts.Require().NoError(err)

	igts.Gin = gin.New(gin.Recovery())
	igts.App, err = routes.Register(
		igts.Ctx, igts.Gin, igts.Store, config.MemoryRepos(), auth, c,
	)
	igts.Require().NoError(err, "failed to register Gin routes")

	issue := func(id uuid.UUID, r model.Role) string {
		tok, err := auth.Issue(model.Actor{ID: id, Role: r})
		igts.Require().NoError(err)
		return tok
	}
	igts.Alice = issue(devdata.AliceID, model.RoleUser)
	igts.Bob = issue(devdata.BobID, model.RoleUser)
	igts.Admin = issue(devdata.AdminID, model.RoleAdmin)
	igts.Car = igts.Fix.Vehicles[0].ID
	igts.Truck = igts.Fix.Vehicles[2].ID
	igts.Slot = igts.Fix.Slots[1] // N-02 at 2.00 per hour
}

func (igts *IntegrationGinTestSuite) TearDownTest() {
	igts.App.Feed.Close()
}

type errResp struct {
	Detail string
}

// do sends a JSON body (if not nil) with the token and decodes the
// JSON response into res (if not nil). It returns the status code.
func (igts *IntegrationGinTestSuite) do(
	method, path, token string, body, res any,
) int {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		igts.Require().NoError(err)
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, routes.Prefix+path, r)
	igts.Require().NoError(err, "cannot create request")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	igts.Gin.ServeHTTP(w, req)
	if res != nil {
		igts.Require().NoError(
			json.Unmarshal(w.Body.Bytes(), res),
			"body is not json: %s", w.Body.String(),
		)
	}
	return w.Code
}

func booking(slot, vehicle uuid.UUID, start, end time.Time) map[string]any {
	return map[string]any{
		"slot_id":    slot,
		"vehicle_id": vehicle,
		"start":      start.Format(time.RFC3339),
		"end":        end.Format(time.RFC3339),
	}
}

// tomorrow returns hh:00 of the next day in UTC.
func tomorrow(hh int) time.Time {
	y, m, d := time.Now().UTC().AddDate(0, 0, 1).Date()
	return time.Date(y, m, d, hh, 0, 0, 0, time.UTC)
}

func (igts *IntegrationGinTestSuite) TestAuthentication() {
	res := &errResp{}
	igts.Equal(401, igts.do("GET", "/sessions", "", nil, res))
	igts.Equal("missing bearer token", res.Detail)

	res = &errResp{}
	igts.Equal(401, igts.do("GET", "/sessions", "not-a-token", nil, res))
	igts.Contains(res.Detail, "invalid or expired token")

	other, err := jwtauth.New([]byte("another-secret-0123456789abcdefghij"))
	igts.Require().NoError(err)
	forged, err := other.Issue(model.Actor{ID: devdata.AdminID, Role: model.RoleAdmin})
	igts.Require().NoError(err)
	igts.Equal(401, igts.do("GET", "/audit-logs", forged, nil, &errResp{}))
}

func (igts *IntegrationGinTestSuite) TestReserveCheckAndCancel() {
	start, end := tomorrow(10), tomorrow(12)
	v := &model.SessionView{}
	code := igts.do("POST", "/sessions", igts.Alice,
		booking(igts.Slot.ID, igts.Car, start, end), v)
	igts.Require().Equal(201, code)
	igts.Equal(model.SessionReserved, v.Status)
	igts.Equal(devdata.AliceID, v.UserID)
	igts.Require().NotNil(v.Invoice)
	igts.True(decimal.RequireFromString("4.00").Equal(v.Invoice.Amount),
		"estimate is 2h x 2.00, got %s", v.Invoice.Amount)
	igts.Equal(model.PaymentPending, v.Invoice.Payment.State)

	avail := func(s, e time.Time) bool {
		q := url.Values{}
		q.Set("start", s.Format(time.RFC3339))
		q.Set("end", e.Format(time.RFC3339))
		res := &struct{ Available bool }{}
		code := igts.do("GET",
			"/slots/"+igts.Slot.ID.String()+"/availability?"+q.Encode(),
			igts.Bob, nil, res)
		igts.Require().Equal(200, code)
		return res.Available
	}
	igts.False(avail(tomorrow(11), tomorrow(13)), "overlapping")
	igts.True(avail(tomorrow(12), tomorrow(13)), "adjacent")

	res := &errResp{}
	code = igts.do("POST", "/sessions", igts.Bob,
		booking(igts.Slot.ID, igts.Truck, tomorrow(11), tomorrow(13)), res)
	igts.Equal(409, code)
	igts.Equal("slot not available for requested time", res.Detail)

	res = &errResp{}
	code = igts.do("GET", "/sessions/"+v.ID.String(), igts.Bob, nil, res)
	igts.Equal(403, code)
	igts.Equal("not the owner of this record", res.Detail)

	got := &model.SessionView{}
	code = igts.do("GET", "/sessions/"+v.ID.String()+"?expand=slot,vehicle",
		igts.Alice, nil, got)
	igts.Require().Equal(200, code)
	igts.Require().NotNil(got.Slot)
	igts.Equal("N-02", got.Slot.Code)
	igts.Require().NotNil(got.Vehicle)
	igts.Nil(got.Invoice)

	cancelled := &model.SessionView{}
	code = igts.do("POST", "/sessions/"+v.ID.String()+"/cancel",
		igts.Alice, nil, cancelled)
	igts.Require().Equal(200, code)
	igts.Equal(model.SessionCancelled, cancelled.Status)
	igts.Require().NotNil(cancelled.Invoice)
	igts.True(cancelled.Invoice.Amount.IsZero())
	igts.True(avail(tomorrow(11), tomorrow(13)), "cancelled frees the slot")

	code = igts.do("POST", "/sessions/"+v.ID.String()+"/cancel",
		igts.Alice, nil, &errResp{})
	igts.Equal(409, code)
}

func (igts *IntegrationGinTestSuite) TestParkEndAndPay() {
	now := time.Now().UTC().Truncate(time.Second)
	v := &model.SessionView{}
	code := igts.do("POST", "/sessions", igts.Alice,
		booking(igts.Slot.ID, igts.Car, now, now.Add(2*time.Hour)), v)
	igts.Require().Equal(201, code)
	igts.Equal(model.SessionActive, v.Status)
	igts.Require().NotNil(v.Slot)
	igts.Equal(model.SlotOccupied, v.Slot.Status)

	ended := &model.SessionView{}
	code = igts.do("POST", "/sessions/"+v.ID.String()+"/end",
		igts.Alice, nil, ended)
	igts.Require().Equal(200, code)
	igts.Equal(model.SessionCompleted, ended.Status)
	igts.Equal(1, ended.DurationHours)
	igts.Require().NotNil(ended.Invoice)
	igts.True(decimal.RequireFromString("2.00").Equal(ended.Invoice.Amount))
	invID := ended.Invoice.ID.String()

	res := &errResp{}
	igts.Equal(403, igts.do("POST", "/invoices/"+invID+"/pay", igts.Bob, nil, res))
	igts.Equal("not the owner of this record", res.Detail)

	paid := &model.Invoice{}
	igts.Require().Equal(200,
		igts.do("POST", "/invoices/"+invID+"/pay", igts.Alice, nil, paid))
	igts.Equal(model.PaymentPaid, paid.Payment.State)

	res = &errResp{}
	igts.Equal(409, igts.do("POST", "/invoices/"+invID+"/pay", igts.Alice, nil, res))
	igts.Equal("invoice is already paid", res.Detail)

	res = &errResp{}
	igts.Equal(403, igts.do("POST", "/invoices/"+invID+"/refund", igts.Alice, nil, res))
	igts.Equal("only admins may perform this action", res.Detail)
	refunded := &model.Invoice{}
	igts.Require().Equal(200,
		igts.do("POST", "/invoices/"+invID+"/refund", igts.Admin, nil, refunded))
	igts.Equal(model.PaymentRefunded, refunded.Payment.State)

	list := &struct{ Invoices []model.Invoice }{}
	igts.Require().Equal(200, igts.do("GET", "/invoices", igts.Alice, nil, list))
	igts.Len(list.Invoices, 1)
	list = &struct{ Invoices []model.Invoice }{}
	igts.Require().Equal(200, igts.do("GET", "/invoices", igts.Bob, nil, list))
	igts.Empty(list.Invoices)
	igts.Equal(403, igts.do("GET", "/invoices?user="+devdata.AliceID.String(),
		igts.Bob, nil, &errResp{}))

	igts.Equal(403, igts.do("GET", "/audit-logs", igts.Alice, nil, &errResp{}))
	logs := &struct {
		AuditLogs []model.AuditEntry `json:"audit_logs"`
	}{}
	igts.Require().Equal(200, igts.do("GET", "/audit-logs", igts.Admin, nil, logs))
	var actions []string
	for _, e := range logs.AuditLogs {
		actions = append(actions, e.Action)
	}
	igts.Contains(actions, "Invoice Paid")
	igts.Contains(actions, "Invoice Refunded")
	igts.Require().NotEmpty(logs.AuditLogs)

	one := &model.AuditEntry{}
	igts.Equal(200, igts.do("GET", "/audit-logs/"+logs.AuditLogs[0].ID.String(),
		igts.Admin, nil, one))
	igts.Equal(logs.AuditLogs[0].Action, one.Action)
}

func (igts *IntegrationGinTestSuite) TestEndReservationIsRejected() {
	v := &model.SessionView{}
	igts.Require().Equal(201, igts.do("POST", "/sessions", igts.Alice,
		booking(igts.Slot.ID, igts.Car, tomorrow(8), tomorrow(9)), v))
	res := &errResp{}
	code := igts.do("POST", "/sessions/"+v.ID.String()+"/end",
		igts.Alice, map[string]any{"exit_time": tomorrow(9)}, res)
	igts.Equal(409, code)
	igts.Contains(res.Detail, "cancel it instead")
}

func (igts *IntegrationGinTestSuite) TestBadRequest() {
	res := &struct {
		Detail    string
		SlotID    []string
		VehicleID []string
		ID        []string
		Expand    []string
		Start     []string
	}{}
	code := igts.do("POST", "/sessions", igts.Alice, map[string]any{}, res)
	igts.Equal(400, code)
	igts.NotEmpty(res.SlotID, "slot_id is required")
	igts.NotEmpty(res.VehicleID, "vehicle_id is required")

	res.SlotID = nil
	code = igts.do("POST", "/sessions", igts.Alice,
		booking(igts.Slot.ID, igts.Car, tomorrow(12), tomorrow(10)), res)
	igts.Equal(400, code)
	igts.Equal("start time must precede end time", res.Detail)

	code = igts.do("GET", "/sessions/not-a-uuid", igts.Alice, nil, res)
	igts.Equal(400, code)
	igts.NotEmpty(res.ID)

	code = igts.do("GET", "/sessions?expand=owner", igts.Alice, nil, res)
	igts.Equal(400, code)
	igts.NotEmpty(res.Expand)

	code = igts.do("GET", "/slots/"+igts.Slot.ID.String()+
		"/availability?start=yesterday&end=today", igts.Alice, nil, res)
	igts.Equal(400, code)
	igts.NotEmpty(res.Start)
}

func (igts *IntegrationGinTestSuite) TestNotFound() {
	missing := uuid.NewString()
	for path, detail := range map[string]string{
		"/sessions/" + missing: "session not found",
		"/invoices/" + missing: "invoice not found",
	} {
		igts.Run(path, func() {
			res := &errResp{}
			igts.Equal(404, igts.do("GET", path, igts.Admin, nil, res))
			igts.Equal(detail, res.Detail)
		})
	}
	res := &errResp{}
	code := igts.do("POST", "/sessions", igts.Alice,
		booking(uuid.New(), igts.Car, tomorrow(10), tomorrow(11)), res)
	igts.Equal(404, code)
	igts.Equal("slot not found", res.Detail)
}

func (igts *IntegrationGinTestSuite) TestSlotFeed() {
	srv := httptest.NewServer(igts.Gin)
	defer srv.Close()

	u := "ws" + strings.TrimPrefix(srv.URL, "http") + routes.Prefix +
		"/slots/feed?access_token=" + igts.Bob
	conn, resp, err := websocket.DefaultDialer.Dial(u, nil)
	igts.Require().NoError(err, "dialing feed")
	defer resp.Body.Close()
	defer conn.Close()
	igts.Eventually(func() bool {
		return igts.App.Feed.Clients() == 1
	}, 2*time.Second, 10*time.Millisecond)

	now := time.Now().UTC().Truncate(time.Second)
	igts.Require().Equal(201, igts.do("POST", "/sessions", igts.Alice,
		booking(igts.Slot.ID, igts.Car, now, now.Add(time.Hour)), nil))

	igts.Require().NoError(conn.SetReadDeadline(time.Now().Add(2 * time.Second)))
	_, msg, err := conn.ReadMessage()
	igts.Require().NoError(err)
	ev := &feedrs.Event{}
	igts.Require().NoError(json.Unmarshal(msg, ev))
	igts.Equal("slot", ev.Type)
	igts.Equal(igts.Slot.ID, ev.Slot.ID)
	igts.Equal(model.SlotOccupied, ev.Slot.Status)

	_, resp2, err := websocket.DefaultDialer.Dial(
		"ws"+strings.TrimPrefix(srv.URL, "http")+routes.Prefix+"/slots/feed",
		nil,
	)
	igts.Error(err, "a token is required")
	if resp2 != nil {
		igts.Equal(401, resp2.StatusCode)
		resp2.Body.Close()
	}
}
