// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package billing computes the parking charges. A booking is charged
// by its estimate, which uses fractional hours, until its session is
// completed. Thereafter, the final amount uses whole hours which are
// always rounded up.
package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	secondsPerHour = decimal.NewFromInt(3600)
	zero           = decimal.Decimal{}
)

// Calculator computes estimates, billed durations, and final amounts.
// MinBillableHours is the least number of hours which is billed for a
// completed session, even if its actual exit is equal to its entry.
type Calculator struct {
	MinBillableHours int
}

// Default is a Calculator which bills at least one hour.
var Default = Calculator{MinBillableHours: 1}

// Estimate returns the fractional number of hours between start and
// end multiplied by the hourly rate, rounded to cents. The estimate is
// zero if end does not come after start.
func (c Calculator) Estimate(start, end time.Time, rate decimal.Decimal) decimal.Decimal {
	d := end.Sub(start)
	if d <= 0 {
		return zero
	}
	secs := decimal.NewFromInt(int64(d / time.Second))
	return secs.Div(secondsPerHour).Mul(rate).Round(2)
}

// Duration returns the number of billed whole hours between entry and
// exit. The elapsed time is truncated to whole minutes and the minutes
// are rounded up to whole hours. A positive elapsed time shorter than
// one minute is billed as one hour and the result is never less than
// MinBillableHours. It is monotonically non-decreasing in exit.
func (c Calculator) Duration(entry, exit time.Time) int {
	d := exit.Sub(entry)
	if d < 0 {
		d = 0
	}
	minutes := int64(d / time.Minute)
	hours := int((minutes + 59) / 60)
	if hours == 0 && d > 0 {
		hours = 1
	}
	if hours < c.MinBillableHours {
		hours = c.MinBillableHours
	}
	return hours
}

// FinalAmount returns hours multiplied by the hourly rate.
func (c Calculator) FinalAmount(hours int, rate decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(int64(hours)).Mul(rate)
}
