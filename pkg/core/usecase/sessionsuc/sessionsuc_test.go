// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package sessionsuc_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/campus-parking/pkg/adapter/db/devdata"
	"github.com/momeni/campus-parking/pkg/adapter/db/memory"
	"github.com/momeni/campus-parking/pkg/core/cerr"
	"github.com/momeni/campus-parking/pkg/core/model"
	"github.com/momeni/campus-parking/pkg/core/notify"
	"github.com/momeni/campus-parking/pkg/core/usecase/sessionsuc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var day = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

func at(hh, mm int) time.Time {
	return day.Add(time.Duration(hh)*time.Hour + time.Duration(mm)*time.Minute)
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type outbox struct {
	mu   sync.Mutex
	msgs []notify.Message
	err  error
}

func (o *outbox) Send(_ context.Context, m notify.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.msgs = append(o.msgs, m)
	return o.err
}

func (o *outbox) Subjects() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	var ss []string
	for _, m := range o.msgs {
		ss = append(ss, m.Subject)
	}
	return ss
}

type auditTrail struct {
	mu      sync.Mutex
	actions []string
}

func (a *auditTrail) Record(_ context.Context, action string, _ model.UserID, _ map[string]any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.actions = append(a.actions, action)
}

type slotFeed struct {
	mu    sync.Mutex
	slots []model.Slot
}

func (f *slotFeed) SlotChanged(_ context.Context, s model.Slot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.slots = append(f.slots, s)
}

type SessionsUseCaseTestSuite struct {
	suite.Suite

	Ctx   context.Context
	Store *memory.Store
	Fix   devdata.Fixture
	Clock *clock
	Mails *outbox
	Audit *auditTrail
	Feed  *slotFeed
	UC    *sessionsuc.UseCase

	Alice, Bob, Admin model.Actor
	Car, Truck        model.VehicleID
	Slot              model.Slot // 2.00 per hour
}

func TestSessionsUseCaseTestSuite(t *testing.T) {
	suite.Run(t, new(SessionsUseCaseTestSuite))
}

func (ss *SessionsUseCaseTestSuite) SetupTest() {
	ss.Ctx = context.Background()
	ss.Store = memory.New()
	ss.Fix = devdata.Dev()
	ss.Require().NoError(ss.Store.Seed(ss.Ctx, ss.Fix))
	ss.Clock = &clock{now: at(8, 0)}
	ss.Mails = &outbox{}
	ss.Audit = &auditTrail{}
	ss.Feed = &slotFeed{}
	uc, err := sessionsuc.New(
		ss.Store,
		memory.Slots{}, memory.Sessions{}, memory.Invoices{},
		memory.Directory{},
		sessionsuc.WithClock(ss.Clock.Now),
		sessionsuc.WithNotifier(ss.Mails),
		sessionsuc.WithAuditor(ss.Audit),
		sessionsuc.WithSlotObserver(ss.Feed),
	)
	ss.Require().NoError(err)
	ss.UC = uc
	ss.Alice = model.Actor{ID: devdata.AliceID, Role: model.RoleUser}
	ss.Bob = model.Actor{ID: devdata.BobID, Role: model.RoleUser}
	ss.Admin = model.Actor{ID: devdata.AdminID, Role: model.RoleAdmin}
	ss.Car = ss.Fix.Vehicles[0].ID
	ss.Truck = ss.Fix.Vehicles[2].ID
	ss.Slot = ss.Fix.Slots[1]
}

func (ss *SessionsUseCaseTestSuite) book(from, to time.Time) (*model.SessionView, error) {
	return ss.UC.Start(ss.Ctx, ss.Alice, model.BookingRequest{
		SlotID: ss.Slot.ID, VehicleID: ss.Car, Start: from, End: to,
	})
}

func (ss *SessionsUseCaseTestSuite) mustBook(from, to time.Time) *model.SessionView {
	v, err := ss.book(from, to)
	ss.Require().NoError(err)
	return v
}

func (ss *SessionsUseCaseTestSuite) TestReserveThenConflictThenAdjacent() {
	v := ss.mustBook(at(10, 0), at(12, 0))
	ss.Equal(model.SessionReserved, v.Status)
	ss.Require().NotNil(v.Invoice)
	ss.Equal("4.00", v.Invoice.Amount.StringFixed(2))
	ss.Equal(model.PaymentPending, v.Invoice.Payment.State)
	ss.Equal(v.Invoice.ID, *v.InvoiceID)
	ss.Equal(model.SlotReserved, v.Slot.Status)
	ss.Equal(devdata.AliceID, *v.Slot.ReservedBy)
	ss.Contains(v.Invoice.Description, "CMP-1001")
	ss.Contains(v.Invoice.Description, "North Garage")

	_, err := ss.book(at(11, 0), at(13, 0))
	ss.Equal(cerr.KindConflict, cerr.KindOf(err))
	ss.ErrorIs(err, cerr.ErrSlotUnavailable)

	v2, err := ss.book(at(12, 0), at(13, 0))
	ss.Require().NoError(err)
	ss.Equal("2.00", v2.Invoice.Amount.StringFixed(2))
}

func (ss *SessionsUseCaseTestSuite) TestFractionalEstimate() {
	v := ss.mustBook(at(10, 0), at(11, 30))
	ss.Equal("3.00", v.Invoice.Amount.StringFixed(2))
	v = ss.mustBook(at(14, 0), at(14, 20))
	ss.Equal("0.67", v.Invoice.Amount.StringFixed(2))
}

func (ss *SessionsUseCaseTestSuite) TestStartValidation() {
	_, err := ss.book(at(12, 0), at(10, 0))
	ss.Equal(cerr.KindValidation, cerr.KindOf(err))
	ss.ErrorIs(err, model.ErrEmptyInterval)

	_, err = ss.book(at(10, 0), at(10, 0))
	ss.Equal(cerr.KindValidation, cerr.KindOf(err))

	_, err = ss.UC.Start(ss.Ctx, ss.Alice, model.BookingRequest{
		SlotID: ss.Slot.ID, Start: at(10, 0), End: at(11, 0),
	})
	ss.ErrorIs(err, cerr.ErrMissingArguments)

	_, err = ss.book(at(7, 58), at(9, 0))
	ss.Equal(cerr.KindValidation, cerr.KindOf(err))
	ss.ErrorIs(err, cerr.ErrStartInPast)

	v, err := ss.book(at(7, 59), at(9, 0))
	ss.Require().NoError(err, "start within the grace window")
	ss.Equal(model.SessionActive, v.Status)
	ss.Equal(model.SlotOccupied, v.Slot.Status)
	ss.Equal(ss.Car, *v.Slot.OccupiedBy)
}

func (ss *SessionsUseCaseTestSuite) TestStartNotFoundAndForbidden() {
	_, err := ss.UC.Start(ss.Ctx, ss.Alice, model.BookingRequest{
		SlotID: uuid.New(), VehicleID: ss.Car, Start: at(10, 0), End: at(11, 0),
	})
	ss.Equal(cerr.KindNotFound, cerr.KindOf(err))
	ss.ErrorIs(err, cerr.ErrSlotNotFound)

	_, err = ss.UC.Start(ss.Ctx, ss.Alice, model.BookingRequest{
		SlotID: ss.Slot.ID, VehicleID: uuid.New(), Start: at(10, 0), End: at(11, 0),
	})
	ss.ErrorIs(err, cerr.ErrVehicleNotFound)

	_, err = ss.UC.Start(ss.Ctx, ss.Alice, model.BookingRequest{
		SlotID: ss.Slot.ID, VehicleID: ss.Truck, Start: at(10, 0), End: at(11, 0),
	})
	ss.Equal(cerr.KindForbidden, cerr.KindOf(err))

	v, err := ss.UC.Start(ss.Ctx, ss.Admin, model.BookingRequest{
		SlotID: ss.Slot.ID, VehicleID: ss.Truck, Start: at(10, 0), End: at(11, 0),
	})
	ss.Require().NoError(err, "admins may book on behalf of users")
	ss.Equal(devdata.BobID, v.UserID)
}

func (ss *SessionsUseCaseTestSuite) TestMaintenanceSlotRejectsBookings() {
	maint := ss.Fix.Slots[4]
	ss.Require().Equal(model.SlotMaintenance, maint.Status)
	_, err := ss.UC.Start(ss.Ctx, ss.Alice, model.BookingRequest{
		SlotID: maint.ID, VehicleID: ss.Car, Start: at(10, 0), End: at(11, 0),
	})
	ss.ErrorIs(err, cerr.ErrSlotUnavailable)
	ok, err := ss.UC.IsAvailable(ss.Ctx, maint.ID, at(10, 0), at(11, 0))
	ss.NoError(err)
	ss.False(ok)
}

func (ss *SessionsUseCaseTestSuite) TestIsAvailable() {
	ss.mustBook(at(10, 0), at(12, 0))
	for _, tc := range []struct {
		from, to time.Time
		want     bool
	}{
		{at(9, 0), at(10, 0), true},
		{at(12, 0), at(13, 0), true},
		{at(9, 0), at(10, 1), false},
		{at(11, 59), at(13, 0), false},
		{at(10, 30), at(11, 0), false},
		{at(9, 0), at(13, 0), false},
	} {
		ok, err := ss.UC.IsAvailable(ss.Ctx, ss.Slot.ID, tc.from, tc.to)
		ss.NoError(err)
		ss.Equal(tc.want, ok, "%s-%s", tc.from.Format("15:04"), tc.to.Format("15:04"))
	}
	_, err := ss.UC.IsAvailable(ss.Ctx, ss.Slot.ID, at(11, 0), at(10, 0))
	ss.Equal(cerr.KindValidation, cerr.KindOf(err))
	_, err = ss.UC.IsAvailable(ss.Ctx, uuid.New(), at(10, 0), at(11, 0))
	ss.Equal(cerr.KindNotFound, cerr.KindOf(err))
}

func (ss *SessionsUseCaseTestSuite) TestEndRoundsUpToWholeHours() {
	ss.Clock.Set(at(10, 0))
	v := ss.mustBook(at(10, 0), at(12, 0))
	ss.Require().Equal(model.SessionActive, v.Status)

	ss.Clock.Set(at(10, 50))
	v, err := ss.UC.End(ss.Ctx, ss.Alice, v.ID, nil)
	ss.Require().NoError(err)
	ss.Equal(model.SessionCompleted, v.Status)
	ss.Equal(1, v.DurationHours)
	ss.Equal(at(10, 50), *v.ActualExit)
	ss.Equal("2.00", v.Invoice.Amount.StringFixed(2))
	ss.Equal(model.SlotAvailable, v.Slot.Status)
	ss.Nil(v.Slot.OccupiedBy)

	_, err = ss.UC.End(ss.Ctx, ss.Alice, v.ID, nil)
	ss.Equal(cerr.KindConflict, cerr.KindOf(err))
	ss.ErrorIs(err, cerr.ErrSessionClosed)
}

func (ss *SessionsUseCaseTestSuite) TestEndWithExplicitExit() {
	ss.Clock.Set(at(10, 0))
	v := ss.mustBook(at(10, 0), at(12, 0))
	ss.Clock.Set(at(13, 0))

	before := at(9, 59)
	_, err := ss.UC.End(ss.Ctx, ss.Alice, v.ID, &before)
	ss.Equal(cerr.KindValidation, cerr.KindOf(err))
	ss.ErrorIs(err, cerr.ErrExitBeforeEntry)

	entry := at(10, 0)
	ended, err := ss.UC.End(ss.Ctx, ss.Alice, v.ID, &entry)
	ss.Require().NoError(err)
	ss.Equal(1, ended.DurationHours, "minimum billable hour")
	ss.Equal("2.00", ended.Invoice.Amount.StringFixed(2))
}

func (ss *SessionsUseCaseTestSuite) TestEndOverstayBillsActualTime() {
	ss.Clock.Set(at(10, 0))
	v := ss.mustBook(at(10, 0), at(11, 0))
	ss.Clock.Set(at(12, 1))
	v, err := ss.UC.End(ss.Ctx, ss.Alice, v.ID, nil)
	ss.Require().NoError(err)
	ss.Equal(3, v.DurationHours)
	ss.Equal("6.00", v.Invoice.Amount.StringFixed(2))
}

func (ss *SessionsUseCaseTestSuite) TestEndReservedSessionIsConflict() {
	v := ss.mustBook(at(10, 0), at(12, 0))
	_, err := ss.UC.End(ss.Ctx, ss.Alice, v.ID, nil)
	ss.Equal(cerr.KindConflict, cerr.KindOf(err))
	ss.ErrorIs(err, sessionsuc.ErrNotStarted)
}

func (ss *SessionsUseCaseTestSuite) TestEndNotFoundAndForbidden() {
	_, err := ss.UC.End(ss.Ctx, ss.Alice, uuid.New(), nil)
	ss.Equal(cerr.KindNotFound, cerr.KindOf(err))

	ss.Clock.Set(at(10, 0))
	v := ss.mustBook(at(10, 0), at(12, 0))
	_, err = ss.UC.End(ss.Ctx, ss.Bob, v.ID, nil)
	ss.Equal(cerr.KindForbidden, cerr.KindOf(err))
	_, err = ss.UC.Cancel(ss.Ctx, ss.Bob, v.ID)
	ss.Equal(cerr.KindForbidden, cerr.KindOf(err))

	_, err = ss.UC.End(ss.Ctx, ss.Admin, v.ID, nil)
	ss.NoError(err)
}

func (ss *SessionsUseCaseTestSuite) TestCancelReservationFreesTheSlot() {
	v := ss.mustBook(at(10, 0), at(12, 0))
	c, err := ss.UC.Cancel(ss.Ctx, ss.Alice, v.ID)
	ss.Require().NoError(err)
	ss.Equal(model.SessionCancelled, c.Status)
	ss.Equal(0, c.DurationHours)
	ss.True(c.Invoice.Amount.IsZero())
	ss.Equal(model.SlotAvailable, c.Slot.Status)

	ss.mustBook(at(10, 0), at(12, 0))

	_, err = ss.UC.Cancel(ss.Ctx, ss.Alice, v.ID)
	ss.ErrorIs(err, cerr.ErrSessionClosed)
}

func (ss *SessionsUseCaseTestSuite) TestCancelActiveSessionBillsElapsedTime() {
	ss.Clock.Set(at(10, 0))
	v := ss.mustBook(at(10, 0), at(12, 0))
	ss.Clock.Set(at(11, 30))
	c, err := ss.UC.Cancel(ss.Ctx, ss.Alice, v.ID)
	ss.Require().NoError(err)
	ss.Equal(2, c.DurationHours)
	ss.Equal("4.00", c.Invoice.Amount.StringFixed(2))
	ss.Equal(at(11, 30), *c.ActualExit)
}

func (ss *SessionsUseCaseTestSuite) TestLazyActivation() {
	v := ss.mustBook(at(10, 0), at(12, 0))
	ss.Clock.Set(at(10, 15))

	got, err := ss.UC.Get(ss.Ctx, ss.Alice, v.ID, model.ExpandSlot)
	ss.Require().NoError(err)
	ss.Equal(model.SessionActive, got.Status)
	ss.Equal(model.SlotOccupied, got.Slot.Status)

	ended, err := ss.UC.End(ss.Ctx, ss.Alice, v.ID, nil)
	ss.Require().NoError(err)
	ss.Equal(1, ended.DurationHours)
}

func (ss *SessionsUseCaseTestSuite) TestSweepActivatesDueReservations() {
	ss.mustBook(at(10, 0), at(11, 0))
	ss.mustBook(at(11, 0), at(12, 0))
	ss.Clock.Set(at(9, 0))
	n, err := ss.UC.Sweep(ss.Ctx)
	ss.Require().NoError(err)
	ss.Zero(n)

	ss.Clock.Set(at(10, 0))
	n, err = ss.UC.Sweep(ss.Ctx)
	ss.Require().NoError(err)
	ss.Equal(1, n)

	active := model.SessionActive
	list, err := ss.UC.List(ss.Ctx, ss.Alice, model.SessionFilter{Status: &active}, 0)
	ss.Require().NoError(err)
	ss.Require().Len(list, 1)
	ss.Equal(at(10, 0), list[0].Entry)
}

func (ss *SessionsUseCaseTestSuite) TestListByStatusSeesDueReservations() {
	v := ss.mustBook(at(10, 0), at(12, 0))
	ss.Clock.Set(at(10, 30))
	active := model.SessionActive
	list, err := ss.UC.List(ss.Ctx, ss.Alice, model.SessionFilter{Status: &active}, 0)
	ss.Require().NoError(err)
	ss.Require().Len(list, 1)
	ss.Equal(v.ID, list[0].ID)
	ss.Equal(model.SessionActive, list[0].Status)
}

func (ss *SessionsUseCaseTestSuite) TestGetExpandsFreshSlot() {
	ss.mustBook(at(10, 0), at(11, 0))
	later := ss.mustBook(at(13, 0), at(14, 0))
	ss.Clock.Set(at(10, 30))
	v, err := ss.UC.Get(ss.Ctx, ss.Alice, later.ID, model.ExpandSlot)
	ss.Require().NoError(err)
	ss.Equal(model.SessionReserved, v.Status)
	ss.Require().NotNil(v.Slot)
	ss.Equal(model.SlotOccupied, v.Slot.Status)
	ss.Require().NotNil(v.Slot.OccupiedBy)
	ss.Equal(ss.Car, *v.Slot.OccupiedBy)
}

func (ss *SessionsUseCaseTestSuite) TestListScopesNonAdmins() {
	ss.mustBook(at(10, 0), at(11, 0))
	_, err := ss.UC.Start(ss.Ctx, ss.Admin, model.BookingRequest{
		SlotID: ss.Slot.ID, VehicleID: ss.Truck, Start: at(11, 0), End: at(12, 0),
	})
	ss.Require().NoError(err)

	mine, err := ss.UC.List(ss.Ctx, ss.Alice, model.SessionFilter{}, 0)
	ss.Require().NoError(err)
	ss.Len(mine, 1)
	ss.Equal(devdata.AliceID, mine[0].UserID)

	bob := devdata.BobID
	_, err = ss.UC.List(ss.Ctx, ss.Alice, model.SessionFilter{UserID: &bob}, 0)
	ss.Equal(cerr.KindForbidden, cerr.KindOf(err))

	all, err := ss.UC.List(ss.Ctx, ss.Admin, model.SessionFilter{}, model.ExpandAll)
	ss.Require().NoError(err)
	ss.Require().Len(all, 2)
	ss.Equal(at(11, 0), all[0].Entry, "newest first")
	ss.NotNil(all[0].Slot)
	ss.NotNil(all[0].Vehicle)
	ss.NotNil(all[0].Invoice)
}

func (ss *SessionsUseCaseTestSuite) TestGetExpand() {
	v := ss.mustBook(at(10, 0), at(12, 0))
	got, err := ss.UC.Get(ss.Ctx, ss.Alice, v.ID, 0)
	ss.Require().NoError(err)
	ss.Nil(got.Slot)
	ss.Nil(got.Vehicle)
	ss.Nil(got.Invoice)

	got, err = ss.UC.Get(ss.Ctx, ss.Alice, v.ID, model.ExpandVehicle|model.ExpandInvoice)
	ss.Require().NoError(err)
	ss.Nil(got.Slot)
	ss.Equal("CMP-1001", got.Vehicle.LicensePlate)
	ss.Equal(v.Invoice.ID, got.Invoice.ID)

	_, err = ss.UC.Get(ss.Ctx, ss.Bob, v.ID, 0)
	ss.Equal(cerr.KindForbidden, cerr.KindOf(err))
	_, err = ss.UC.Get(ss.Ctx, ss.Alice, uuid.New(), 0)
	ss.ErrorIs(err, cerr.ErrSessionNotFound)
}

func (ss *SessionsUseCaseTestSuite) TestSideEffects() {
	v := ss.mustBook(at(10, 0), at(12, 0))
	ss.Equal([]string{"Booking Confirmation"}, ss.Mails.Subjects())
	ss.Contains(ss.Mails.msgs[0].HTML, "N-02")
	ss.Equal("alice@campus.example", ss.Mails.msgs[0].To)
	ss.Require().Len(ss.Feed.slots, 1)
	ss.Equal(model.SlotReserved, ss.Feed.slots[0].Status)

	_, err := ss.UC.Cancel(ss.Ctx, ss.Alice, v.ID)
	ss.Require().NoError(err)
	ss.Equal([]string{"Booking Confirmation", "Booking Cancelled"}, ss.Mails.Subjects())
	ss.Equal([]string{
		"Parking Session Reserved", "Parking Session Cancelled",
	}, ss.Audit.actions)
	ss.Equal(model.SlotAvailable, ss.Feed.slots[len(ss.Feed.slots)-1].Status)
}

func (ss *SessionsUseCaseTestSuite) TestNotificationFailureIsIgnored() {
	ss.Mails.err = errors.New("smtp is down")
	v, err := ss.book(at(10, 0), at(12, 0))
	ss.Require().NoError(err)
	ss.Equal(model.SessionReserved, v.Status)
}

func (ss *SessionsUseCaseTestSuite) TestFailedStartLeavesNoTrace() {
	ss.mustBook(at(10, 0), at(12, 0))
	_, err := ss.book(at(11, 0), at(13, 0))
	ss.Require().Error(err)
	list, err := ss.UC.List(ss.Ctx, ss.Admin, model.SessionFilter{}, 0)
	ss.Require().NoError(err)
	ss.Len(list, 1)
	ss.Len(ss.Mails.msgs, 1)
}

func TestConcurrentStartsBookOnce(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	fix := devdata.Dev()
	require.NoError(t, store.Seed(ctx, fix))
	uc, err := sessionsuc.New(
		store,
		memory.Slots{}, memory.Sessions{}, memory.Invoices{},
		memory.Directory{},
		sessionsuc.WithClock(func() time.Time { return at(8, 0) }),
	)
	require.NoError(t, err)
	admin := model.Actor{ID: devdata.AdminID, Role: model.RoleAdmin}
	slotID := fix.Slots[0].ID

	const n = 16
	views := make([]*model.SessionView, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			views[i], errs[i] = uc.Start(ctx, admin, model.BookingRequest{
				SlotID:    slotID,
				VehicleID: fix.Vehicles[i%3].ID,
				Start:     at(10, i%3),
				End:       at(12, 0),
			})
		}(i)
	}
	wg.Wait()
	var winner *model.SessionView
	for i, err := range errs {
		if err == nil {
			require.Nil(t, winner, "two bookings succeeded")
			winner = views[i]
			continue
		}
		assert.Equal(t, cerr.KindConflict, cerr.KindOf(err))
	}
	require.NotNil(t, winner)

	open, err := uc.List(ctx, admin, model.SessionFilter{SlotID: &slotID}, model.ExpandSlot)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, winner.ID, open[0].ID)
	slot := open[0].Slot
	require.NotNil(t, slot)
	assert.Equal(t, model.SlotReserved, slot.Status)
	require.NotNil(t, slot.ReservedBy)
	assert.Equal(t, winner.UserID, *slot.ReservedBy)
	assert.Nil(t, slot.OccupiedBy)
}

func TestOptions(t *testing.T) {
	p := memory.New()
	_, err := sessionsuc.New(p, memory.Slots{}, memory.Sessions{},
		memory.Invoices{}, memory.Directory{},
		sessionsuc.WithBookingGrace(-time.Second),
	)
	assert.Error(t, err)
	_, err = sessionsuc.New(p, memory.Slots{}, memory.Sessions{},
		memory.Invoices{}, memory.Directory{},
		sessionsuc.WithMinBillableHours(-1),
	)
	assert.Error(t, err)
	_, err = sessionsuc.New(p, memory.Slots{}, memory.Sessions{},
		memory.Invoices{}, memory.Directory{},
		sessionsuc.WithMinBillableHours(0),
		sessionsuc.WithInvoiceDueAfter(24*time.Hour),
	)
	assert.NoError(t, err)
}
