// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"time"
)

// ErrEmptyInterval indicates that an interval start does not precede
// its end.
var ErrEmptyInterval = errors.New("start time must precede end time")

// Interval is a half-open time interval [Start, End). The start is
// inclusive and the end is exclusive, so two back-to-back intervals
// which share a boundary do not overlap.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Validate returns ErrEmptyInterval unless Start is before End.
func (iv Interval) Validate() error {
	if !iv.Start.Before(iv.End) {
		return ErrEmptyInterval
	}
	return nil
}

// Overlaps reports if iv and other share at least one instant.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && iv.End.After(other.Start)
}

// Contains reports if the t instant falls in the interval.
func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.Start) && t.Before(iv.End)
}

// Hours returns the fractional number of hours in the interval.
func (iv Interval) Hours() float64 {
	return iv.End.Sub(iv.Start).Hours()
}
