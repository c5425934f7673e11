// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package sessionsuc

import (
	"errors"
	"fmt"
	"time"

	"github.com/momeni/campus-parking/pkg/core/billing"
	"github.com/momeni/campus-parking/pkg/core/notify"
)

// Option is a functional option for the parking sessions use case.
type Option func(uc *UseCase) error

// WithBookingGrace option configures how far in the past the start
// of a new booking may be, tolerating the clients clock skew.
// The default grace is one minute.
func WithBookingGrace(grace time.Duration) Option {
	return func(uc *UseCase) error {
		if g := int64(grace); g <= 0 {
			return fmt.Errorf("grace (%d) is not positive", g)
		}
		if uc.grace != 0 {
			return errors.New("grace is already configured")
		}
		uc.grace = grace
		return nil
	}
}

// WithMinBillableHours option configures the least number of hours
// which are billed for a completed session. It may be zero.
// The default minimum is one hour.
func WithMinBillableHours(hours int) Option {
	return func(uc *UseCase) error {
		if hours < 0 {
			return fmt.Errorf("hours (%d) is negative", hours)
		}
		if uc.calc != nil {
			return errors.New("min billable hours is already configured")
		}
		uc.calc = &billing.Calculator{MinBillableHours: hours}
		return nil
	}
}

// WithInvoiceDueAfter option sets the due time of new invoices to
// the given duration after their issue time. By default, invoices
// have no due time.
func WithInvoiceDueAfter(d time.Duration) Option {
	return func(uc *UseCase) error {
		if int64(d) <= 0 {
			return fmt.Errorf("due duration (%d) is not positive", d)
		}
		uc.invoiceDue = d
		return nil
	}
}

// WithClock option replaces the time.Now function, e.g., in tests.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) error {
		if now == nil {
			return errors.New("nil clock")
		}
		uc.now = now
		return nil
	}
}

// WithNotifier option configures the notifications sender.
// By default, notifications are discarded.
func WithNotifier(s notify.Sender) Option {
	return func(uc *UseCase) error {
		if s == nil {
			return errors.New("nil notifier")
		}
		uc.notifier = s
		return nil
	}
}

// WithAuditor option configures the audit logger.
// By default, audit entries are discarded.
func WithAuditor(a Auditor) Option {
	return func(uc *UseCase) error {
		if a == nil {
			return errors.New("nil auditor")
		}
		uc.auditor = a
		return nil
	}
}

// WithSlotObserver option adds an observer for the slot changes.
// It may be passed multiple times.
func WithSlotObserver(o SlotObserver) Option {
	return func(uc *UseCase) error {
		if o == nil {
			return errors.New("nil slot observer")
		}
		uc.observers = append(uc.observers, o)
		return nil
	}
}
