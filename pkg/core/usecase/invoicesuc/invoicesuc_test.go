// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package invoicesuc_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/campus-parking/pkg/adapter/db/devdata"
	"github.com/momeni/campus-parking/pkg/adapter/db/memory"
	"github.com/momeni/campus-parking/pkg/core/cerr"
	"github.com/momeni/campus-parking/pkg/core/model"
	"github.com/momeni/campus-parking/pkg/core/usecase/invoicesuc"
	"github.com/momeni/campus-parking/pkg/core/usecase/sessionsuc"
	"github.com/stretchr/testify/suite"
)

var day = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

func at(hh, mm int) time.Time {
	return day.Add(time.Duration(hh)*time.Hour + time.Duration(mm)*time.Minute)
}

type gateway struct {
	declines int
	onCharge func(inv model.Invoice)
	charged  []model.InvoiceID
	refunded []model.InvoiceID
}

func (g *gateway) Charge(_ context.Context, inv model.Invoice) (string, error) {
	if g.onCharge != nil {
		g.onCharge(inv)
	}
	if g.declines > 0 {
		g.declines--
		return "", errors.New("card declined")
	}
	g.charged = append(g.charged, inv.ID)
	return "tx-" + inv.ID.String()[:8], nil
}

func (g *gateway) Refund(_ context.Context, inv model.Invoice) error {
	g.refunded = append(g.refunded, inv.ID)
	return nil
}

type InvoicesUseCaseTestSuite struct {
	suite.Suite

	Ctx      context.Context
	Now      time.Time
	Sessions *sessionsuc.UseCase
	UC       *invoicesuc.UseCase

	Alice, Bob, Admin model.Actor
	Fix               devdata.Fixture
}

func TestInvoicesUseCaseTestSuite(t *testing.T) {
	suite.Run(t, new(InvoicesUseCaseTestSuite))
}

func (ss *InvoicesUseCaseTestSuite) SetupTest() {
	ss.Ctx = context.Background()
	ss.Now = at(8, 0)
	clock := func() time.Time { return ss.Now }
	store := memory.New()
	ss.Fix = devdata.Dev()
	ss.Require().NoError(store.Seed(ss.Ctx, ss.Fix))
	var err error
	ss.Sessions, err = sessionsuc.New(
		store,
		memory.Slots{}, memory.Sessions{}, memory.Invoices{},
		memory.Directory{},
		sessionsuc.WithClock(clock),
	)
	ss.Require().NoError(err)
	ss.UC, err = invoicesuc.New(
		store, memory.Invoices{}, memory.Directory{},
		invoicesuc.WithClock(clock),
	)
	ss.Require().NoError(err)
	ss.Alice = model.Actor{ID: devdata.AliceID, Role: model.RoleUser}
	ss.Bob = model.Actor{ID: devdata.BobID, Role: model.RoleUser}
	ss.Admin = model.Actor{ID: devdata.AdminID, Role: model.RoleAdmin}
}

func (ss *InvoicesUseCaseTestSuite) book(from, to time.Time) *model.SessionView {
	v, err := ss.Sessions.Start(ss.Ctx, ss.Alice, model.BookingRequest{
		SlotID:    ss.Fix.Slots[1].ID,
		VehicleID: ss.Fix.Vehicles[0].ID,
		Start:     from,
		End:       to,
	})
	ss.Require().NoError(err)
	return v
}

func (ss *InvoicesUseCaseTestSuite) TestPayOnce() {
	v := ss.book(at(10, 0), at(12, 0))
	ss.Now = at(8, 5)
	inv, err := ss.UC.Pay(ss.Ctx, ss.Alice, v.Invoice.ID)
	ss.Require().NoError(err)
	ss.Equal(model.PaymentPaid, inv.Payment.State)
	ss.Equal(at(8, 5), inv.Payment.ChangedAt)
	ss.Empty(inv.Payment.TransactionID)
	ss.Equal("4.00", inv.Amount.StringFixed(2))

	ss.Now = at(8, 10)
	_, err = ss.UC.Pay(ss.Ctx, ss.Alice, v.Invoice.ID)
	ss.Equal(cerr.KindConflict, cerr.KindOf(err))
	ss.ErrorIs(err, cerr.ErrAlreadyPaid)

	got, err := ss.UC.Get(ss.Ctx, ss.Alice, v.Invoice.ID)
	ss.Require().NoError(err)
	ss.Equal(model.PaymentPaid, got.Payment.State)
	ss.Equal(at(8, 5), got.Payment.ChangedAt, "second payment must not touch it")
}

func (ss *InvoicesUseCaseTestSuite) TestPayErrorsOrder() {
	_, err := ss.UC.Pay(ss.Ctx, ss.Bob, uuid.New())
	ss.Equal(cerr.KindNotFound, cerr.KindOf(err))
	ss.ErrorIs(err, cerr.ErrInvoiceNotFound)

	v := ss.book(at(10, 0), at(12, 0))
	_, err = ss.UC.Pay(ss.Ctx, ss.Bob, v.Invoice.ID)
	ss.Equal(cerr.KindForbidden, cerr.KindOf(err))

	_, err = ss.UC.Pay(ss.Ctx, ss.Admin, v.Invoice.ID)
	ss.Require().NoError(err)
	_, err = ss.UC.Pay(ss.Ctx, ss.Bob, v.Invoice.ID)
	ss.Equal(cerr.KindForbidden, cerr.KindOf(err), "ownership is checked first")
}

func (ss *InvoicesUseCaseTestSuite) TestGatewayDeclineIsRecorded() {
	g := &gateway{declines: 1}
	store := memory.New()
	ss.Require().NoError(store.Seed(ss.Ctx, ss.Fix))
	sessions, err := sessionsuc.New(
		store, memory.Slots{}, memory.Sessions{}, memory.Invoices{},
		memory.Directory{}, sessionsuc.WithClock(func() time.Time { return at(8, 0) }),
	)
	ss.Require().NoError(err)
	uc, err := invoicesuc.New(
		store, memory.Invoices{}, memory.Directory{},
		invoicesuc.WithGateway(g),
	)
	ss.Require().NoError(err)
	v, err := sessions.Start(ss.Ctx, ss.Alice, model.BookingRequest{
		SlotID: ss.Fix.Slots[0].ID, VehicleID: ss.Fix.Vehicles[0].ID,
		Start: at(10, 0), End: at(11, 0),
	})
	ss.Require().NoError(err)

	_, err = uc.Pay(ss.Ctx, ss.Alice, v.Invoice.ID)
	ss.Equal(cerr.KindPaymentFailed, cerr.KindOf(err))
	got, err := uc.Get(ss.Ctx, ss.Alice, v.Invoice.ID)
	ss.Require().NoError(err)
	ss.Equal(model.PaymentFailed, got.Payment.State)

	paid, err := uc.Pay(ss.Ctx, ss.Alice, v.Invoice.ID)
	ss.Require().NoError(err)
	ss.Equal(model.PaymentPaid, paid.Payment.State)
	ss.Equal("tx-"+v.Invoice.ID.String()[:8], paid.Payment.TransactionID)
	ss.Equal([]model.InvoiceID{v.Invoice.ID}, g.charged)

	refunded, err := uc.Refund(ss.Ctx, ss.Admin, v.Invoice.ID)
	ss.Require().NoError(err)
	ss.Equal(model.PaymentRefunded, refunded.Payment.State)
	ss.Equal([]model.InvoiceID{v.Invoice.ID}, g.refunded)
}

func (ss *InvoicesUseCaseTestSuite) TestChargeHoldsNoTransaction() {
	g := &gateway{}
	store := memory.New()
	ss.Require().NoError(store.Seed(ss.Ctx, ss.Fix))
	sessions, err := sessionsuc.New(
		store, memory.Slots{}, memory.Sessions{}, memory.Invoices{},
		memory.Directory{}, sessionsuc.WithClock(func() time.Time { return at(8, 0) }),
	)
	ss.Require().NoError(err)
	uc, err := invoicesuc.New(
		store, memory.Invoices{}, memory.Directory{},
		invoicesuc.WithGateway(g),
	)
	ss.Require().NoError(err)
	v, err := sessions.Start(ss.Ctx, ss.Alice, model.BookingRequest{
		SlotID: ss.Fix.Slots[0].ID, VehicleID: ss.Fix.Vehicles[0].ID,
		Start: at(8, 0), End: at(10, 0),
	})
	ss.Require().NoError(err)
	ss.Equal("3.00", v.Invoice.Amount.StringFixed(2))

	// the session ends while its estimate is being charged
	g.onCharge = func(inv model.Invoice) {
		ss.Equal("3.00", inv.Amount.StringFixed(2))
		done := make(chan error, 1)
		go func() {
			_, err := sessions.End(ss.Ctx, ss.Alice, v.ID, nil)
			done <- err
		}()
		select {
		case err := <-done:
			ss.NoError(err)
		case <-time.After(2 * time.Second):
			ss.Fail("ending the session is blocked by the payment")
		}
	}
	_, err = uc.Pay(ss.Ctx, ss.Alice, v.Invoice.ID)
	ss.Equal(cerr.KindConflict, cerr.KindOf(err))
	ss.ErrorIs(err, invoicesuc.ErrInvoiceChanged)

	got, err := uc.Get(ss.Ctx, ss.Alice, v.Invoice.ID)
	ss.Require().NoError(err)
	ss.Equal(model.PaymentPending, got.Payment.State)
	ss.Equal("1.50", got.Amount.StringFixed(2))

	g.onCharge = nil
	paid, err := uc.Pay(ss.Ctx, ss.Alice, v.Invoice.ID)
	ss.Require().NoError(err)
	ss.Equal(model.PaymentPaid, paid.Payment.State)
	ss.Equal("1.50", paid.Amount.StringFixed(2))
}

func (ss *InvoicesUseCaseTestSuite) TestRefund() {
	v := ss.book(at(10, 0), at(12, 0))
	_, err := ss.UC.Refund(ss.Ctx, ss.Alice, v.Invoice.ID)
	ss.Equal(cerr.KindForbidden, cerr.KindOf(err))
	_, err = ss.UC.Refund(ss.Ctx, ss.Admin, v.Invoice.ID)
	ss.Equal(cerr.KindConflict, cerr.KindOf(err))
	ss.ErrorIs(err, cerr.ErrNotPaid)

	_, err = ss.UC.Pay(ss.Ctx, ss.Alice, v.Invoice.ID)
	ss.Require().NoError(err)
	inv, err := ss.UC.Refund(ss.Ctx, ss.Admin, v.Invoice.ID)
	ss.Require().NoError(err)
	ss.Equal(model.PaymentRefunded, inv.Payment.State)

	inv, err = ss.UC.Pay(ss.Ctx, ss.Alice, v.Invoice.ID)
	ss.Require().NoError(err, "a refunded invoice may be paid again")
	ss.Equal(model.PaymentPaid, inv.Payment.State)
}

func (ss *InvoicesUseCaseTestSuite) TestCancellingPaidReservationRefunds() {
	v := ss.book(at(10, 0), at(12, 0))
	_, err := ss.UC.Pay(ss.Ctx, ss.Alice, v.Invoice.ID)
	ss.Require().NoError(err)

	c, err := ss.Sessions.Cancel(ss.Ctx, ss.Alice, v.ID)
	ss.Require().NoError(err)
	ss.Equal(model.PaymentRefunded, c.Invoice.Payment.State)
	ss.True(c.Invoice.Amount.IsZero())
}

func (ss *InvoicesUseCaseTestSuite) TestEndingPaidSessionKeepsAmount() {
	ss.Now = at(10, 0)
	v := ss.book(at(10, 0), at(12, 0))
	_, err := ss.UC.Pay(ss.Ctx, ss.Alice, v.Invoice.ID)
	ss.Require().NoError(err)

	ss.Now = at(10, 30)
	e, err := ss.Sessions.End(ss.Ctx, ss.Alice, v.ID, nil)
	ss.Require().NoError(err)
	ss.Equal(model.PaymentPaid, e.Invoice.Payment.State)
	ss.Equal("4.00", e.Invoice.Amount.StringFixed(2))
}

func (ss *InvoicesUseCaseTestSuite) TestList() {
	v1 := ss.book(at(10, 0), at(11, 0))
	ss.Now = at(8, 1)
	v2 := ss.book(at(11, 0), at(12, 0))
	_, err := ss.UC.Pay(ss.Ctx, ss.Alice, v1.Invoice.ID)
	ss.Require().NoError(err)

	mine, err := ss.UC.List(ss.Ctx, ss.Alice, model.InvoiceFilter{})
	ss.Require().NoError(err)
	ss.Require().Len(mine, 2)
	ss.Equal(v2.Invoice.ID, mine[0].ID, "newest first")

	pending := model.PaymentPending
	mine, err = ss.UC.List(ss.Ctx, ss.Alice, model.InvoiceFilter{State: &pending})
	ss.Require().NoError(err)
	ss.Require().Len(mine, 1)
	ss.Equal(v2.Invoice.ID, mine[0].ID)

	bobs, err := ss.UC.List(ss.Ctx, ss.Bob, model.InvoiceFilter{})
	ss.Require().NoError(err)
	ss.Empty(bobs)

	alice := devdata.AliceID
	_, err = ss.UC.List(ss.Ctx, ss.Bob, model.InvoiceFilter{UserID: &alice})
	ss.Equal(cerr.KindForbidden, cerr.KindOf(err))
	all, err := ss.UC.List(ss.Ctx, ss.Admin, model.InvoiceFilter{UserID: &alice, Limit: 1})
	ss.Require().NoError(err)
	ss.Len(all, 1)

	_, err = ss.UC.Get(ss.Ctx, ss.Bob, v1.Invoice.ID)
	ss.Equal(cerr.KindForbidden, cerr.KindOf(err))
}
