// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settings

import (
	"errors"
	"log/slog"
	"strings"
	"time"
)

// Duration is a time.Duration which is read from and written to the
// YAML files in the time.ParseDuration format, e.g., 1h30m.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler. The receiver is
// only updated when data is parsed successfully.
func (d *Duration) UnmarshalText(data []byte) error {
	dd, err := time.ParseDuration(string(data))
	if err != nil {
		return err
	}
	*d = Duration(dd)
	return nil
}

// String formats d like time.Duration.String while dropping the
// zero trailing units, so 2h0m0s becomes 2h and 1m0s becomes 1m.
// A zero duration is formatted as 0s.
func (d Duration) String() string {
	s := time.Duration(d).String()
	if strings.HasSuffix(s, "m0s") {
		s = s[:len(s)-2]
	}
	if strings.HasSuffix(s, "h0m") {
		s = s[:len(s)-2]
	}
	return s
}

// MarshalText implements encoding.TextMarshaler.
func (d *Duration) MarshalText() ([]byte, error) {
	if d == nil {
		return nil, errors.New("nil duration")
	}
	return []byte(d.String()), nil
}

// Std returns the time.Duration value of d, or def if d is nil.
func (d *Duration) Std(def time.Duration) time.Duration {
	if d == nil {
		return def
	}
	return time.Duration(*d)
}

// LogValue implements slog.LogValuer.
func (d *Duration) LogValue() slog.Value {
	if d == nil {
		return slog.StringValue("nil-duration")
	}
	return slog.DurationValue(time.Duration(*d))
}
