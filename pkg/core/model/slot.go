// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SlotType specifies the size class of a parking slot.
type SlotType int

// Valid values for the SlotType enum.
const (
	SlotTypeInvalid SlotType = iota // zero value is invalid

	SlotTypeCompact
	SlotTypeRegular
	SlotTypeLarge
)

var slotTypeNames = enumNames{"COMPACT", "REGULAR", "LARGE"}

// Validate returns nil if the SlotType value is valid.
func (t SlotType) Validate() error {
	return slotTypeNames.validate("slot type", int(t))
}

// String returns the upper-case name of the slot type.
// Invalid slot types cause a panic.
func (t SlotType) String() string {
	return slotTypeNames.name("slot type", int(t))
}

// MarshalText implements encoding.TextMarshaler.
func (t SlotType) MarshalText() ([]byte, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *SlotType) UnmarshalText(text []byte) error {
	v, err := ParseSlotType(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ParseSlotType parses the upper-case name of a slot type.
func ParseSlotType(s string) (SlotType, error) {
	v, err := slotTypeNames.parse(s)
	return SlotType(v), err
}

// SlotStatus specifies the current state of a parking slot.
type SlotStatus int

// Valid values for the SlotStatus enum.
const (
	SlotStatusInvalid SlotStatus = iota // zero value is invalid

	SlotAvailable   // no open session holds the slot
	SlotOccupied    // an ACTIVE session holds the slot
	SlotReserved    // only RESERVED sessions hold the slot
	SlotMaintenance // slot is out of service
)

var slotStatusNames = enumNames{
	"AVAILABLE", "OCCUPIED", "RESERVED", "MAINTENANCE",
}

// Validate returns nil if the SlotStatus value is valid.
func (s SlotStatus) Validate() error {
	return slotStatusNames.validate("slot status", int(s))
}

// String returns the upper-case name of the slot status.
// Invalid slot statuses cause a panic.
func (s SlotStatus) String() string {
	return slotStatusNames.name("slot status", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s SlotStatus) MarshalText() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *SlotStatus) UnmarshalText(text []byte) error {
	v, err := ParseSlotStatus(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseSlotStatus parses the upper-case name of a slot status.
func ParseSlotStatus(s string) (SlotStatus, error) {
	v, err := slotStatusNames.parse(s)
	return SlotStatus(v), err
}

// Slot is a single physical parking space, the reservable resource.
// Bookable is the availability flag which may be cleared by admins for
// a manual hold. ReservedBy is the user of the earliest RESERVED
// session and OccupiedBy is the vehicle of the ACTIVE session, if any.
type Slot struct {
	ID         SlotID          `json:"id"`
	Code       string          `json:"code"`
	ZoneID     ZoneID          `json:"zone_id"`
	Type       SlotType        `json:"type"`
	Rate       decimal.Decimal `json:"rate"`
	Status     SlotStatus      `json:"status"`
	Bookable   bool            `json:"bookable"`
	ReservedBy *UserID         `json:"reserved_by,omitempty"`
	OccupiedBy *VehicleID      `json:"occupied_by,omitempty"`
}

// AcceptsBookings reports if the slot-level state allows a new session
// to be created, regardless of the time window which is asked. An
// OCCUPIED slot, a slot under MAINTENANCE, and a manually held slot
// accept no new sessions.
func (s *Slot) AcceptsBookings() bool {
	if !s.Bookable {
		return false
	}
	switch s.Status {
	case SlotOccupied, SlotMaintenance:
		return false
	default:
		return true
	}
}

// Derive recomputes the status and holder fields of the slot from its
// open (RESERVED or ACTIVE) sessions. A slot under MAINTENANCE keeps
// its status, but its holders are still recomputed.
// It returns true if any field was changed.
func (s *Slot) Derive(open []Session) bool {
	var occupiedBy, reservedBy *uuid.UUID
	var earliest *Session
	for i := range open {
		ss := &open[i]
		switch ss.Status {
		case SessionActive:
			v := ss.VehicleID
			occupiedBy = &v
		case SessionReserved:
			if earliest == nil || ss.Entry.Before(earliest.Entry) {
				earliest = ss
			}
		}
	}
	if earliest != nil {
		u := earliest.UserID
		reservedBy = &u
	}
	status := s.Status
	if status != SlotMaintenance {
		switch {
		case occupiedBy != nil:
			status = SlotOccupied
		case reservedBy != nil:
			status = SlotReserved
		default:
			status = SlotAvailable
		}
	}
	changed := status != s.Status ||
		!sameID(occupiedBy, s.OccupiedBy) ||
		!sameID(reservedBy, s.ReservedBy)
	s.Status, s.OccupiedBy, s.ReservedBy = status, occupiedBy, reservedBy
	return changed
}

func sameID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
