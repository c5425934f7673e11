// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cerr

import "errors"

// These sentinel errors are wrapped by an *Error with a proper Kind.
// Their messages are shown to the end users, so they should remain
// actionable and distinguishable.
var (
	ErrSlotUnavailable  = errors.New("slot not available for requested time")
	ErrStartInPast      = errors.New("start time must not be in the past")
	ErrExitBeforeEntry  = errors.New("exit time must not precede entry time")
	ErrSessionClosed    = errors.New("session is already completed or cancelled")
	ErrAlreadyPaid      = errors.New("invoice is already paid")
	ErrNotPaid          = errors.New("invoice is not paid")
	ErrNotOwner         = errors.New("not the owner of this record")
	ErrAdminOnly        = errors.New("only admins may perform this action")
	ErrSlotNotFound     = errors.New("slot not found")
	ErrSessionNotFound  = errors.New("session not found")
	ErrInvoiceNotFound  = errors.New("invoice not found")
	ErrVehicleNotFound  = errors.New("vehicle not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrZoneNotFound     = errors.New("zone not found")
	ErrAuditNotFound    = errors.New("audit log not found")
	ErrMissingArguments = errors.New("slot, vehicle, start and end are required")
)
