// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"strings"
	"time"
)

// SessionStatus specifies the state of a parking session.
// Valid transitions are RESERVED to ACTIVE to COMPLETED, and RESERVED
// or ACTIVE to CANCELLED. COMPLETED and CANCELLED are terminal.
type SessionStatus int

// Valid values for the SessionStatus enum.
const (
	SessionStatusInvalid SessionStatus = iota // zero value is invalid

	SessionReserved
	SessionActive
	SessionCompleted
	SessionCancelled
)

var sessionStatusNames = enumNames{
	"RESERVED", "ACTIVE", "COMPLETED", "CANCELLED",
}

// Validate returns nil if the SessionStatus value is valid.
func (s SessionStatus) Validate() error {
	return sessionStatusNames.validate("session status", int(s))
}

// String returns the upper-case name of the session status.
// Invalid session statuses cause a panic.
func (s SessionStatus) String() string {
	return sessionStatusNames.name("session status", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s SessionStatus) MarshalText() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *SessionStatus) UnmarshalText(text []byte) error {
	v, err := ParseSessionStatus(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseSessionStatus parses the upper-case name of a session status.
func ParseSessionStatus(s string) (SessionStatus, error) {
	v, err := sessionStatusNames.parse(s)
	return SessionStatus(v), err
}

// IsOpen reports if a session with this status still holds its slot.
func (s SessionStatus) IsOpen() bool {
	return s == SessionReserved || s == SessionActive
}

// CanBecome reports if a session may transition from s to next.
func (s SessionStatus) CanBecome(next SessionStatus) bool {
	switch s {
	case SessionReserved:
		return next == SessionActive || next == SessionCancelled
	case SessionActive:
		return next == SessionCompleted || next == SessionCancelled
	default:
		return false
	}
}

// Session is one booking/occupancy episode of a vehicle in a slot.
// The Entry and Exit fields are the requested half-open interval while
// ActualExit is set when the session is completed or cancelled.
// DurationHours is the billed number of whole hours.
type Session struct {
	ID            SessionID     `json:"id"`
	SlotID        SlotID        `json:"slot_id"`
	VehicleID     VehicleID     `json:"vehicle_id"`
	UserID        UserID        `json:"user_id"`
	Entry         time.Time     `json:"entry_time"`
	Exit          time.Time     `json:"exit_time"`
	ActualExit    *time.Time    `json:"actual_exit_time,omitempty"`
	Status        SessionStatus `json:"status"`
	DurationHours int           `json:"duration_hours"`
	InvoiceID     *InvoiceID    `json:"invoice_id,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

// Interval returns the requested [Entry, Exit) interval.
func (s *Session) Interval() Interval {
	return Interval{Start: s.Entry, End: s.Exit}
}

// ActivateIfDue moves a RESERVED session to ACTIVE if its entry time
// is reached at the now instant. It reports if the status was changed.
// An overdue reservation becomes ACTIVE too and stays so until it is
// ended or cancelled explicitly.
func (s *Session) ActivateIfDue(now time.Time) bool {
	if s.Status != SessionReserved || now.Before(s.Entry) {
		return false
	}
	s.Status = SessionActive
	return true
}

// BookingRequest carries the arguments of a start session request.
type BookingRequest struct {
	SlotID    SlotID
	VehicleID VehicleID
	Start     time.Time
	End       time.Time
}

// Interval returns the requested [Start, End) interval.
func (br BookingRequest) Interval() Interval {
	return Interval{Start: br.Start, End: br.End}
}

// SessionFilter restricts a sessions listing. A nil UserID lists the
// sessions of all users, while a nil Status lists all statuses.
type SessionFilter struct {
	UserID *UserID
	SlotID *SlotID
	Status *SessionStatus
	Limit  int
}

// Expand is a bit set which specifies which related records should be
// included in a SessionView. The zero value includes none of them.
type Expand uint8

// Valid Expand bits which may be combined using the | operator.
const (
	ExpandSlot Expand = 1 << iota
	ExpandVehicle
	ExpandInvoice

	ExpandAll = ExpandSlot | ExpandVehicle | ExpandInvoice
)

// Has reports if all bits of x are set in e.
func (e Expand) Has(x Expand) bool {
	return e&x == x
}

// ParseExpand parses a comma separated list of related record names,
// i.e., slot, vehicle, and invoice. Empty items are ignored.
func ParseExpand(s string) (Expand, error) {
	var e Expand
	for _, n := range strings.Split(s, ",") {
		switch strings.TrimSpace(n) {
		case "":
		case "slot":
			e |= ExpandSlot
		case "vehicle":
			e |= ExpandVehicle
		case "invoice":
			e |= ExpandInvoice
		default:
			return 0, ErrUnknownEnum
		}
	}
	return e, nil
}

// SessionView is a session together with its related records. Each
// related record is nil if and only if its Expand bit was not asked.
type SessionView struct {
	Session
	Slot    *Slot    `json:"slot,omitempty"`
	Vehicle *Vehicle `json:"vehicle,omitempty"`
	Invoice *Invoice `json:"invoice,omitempty"`
}
