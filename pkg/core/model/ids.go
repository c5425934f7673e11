// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import "github.com/google/uuid"

// These aliases name the identifier of each entity. They are aliases
// (and not distinct types) so uuid helpers and database drivers can
// treat them uniformly.
type (
	SlotID    = uuid.UUID
	SessionID = uuid.UUID
	InvoiceID = uuid.UUID
	PaymentID = uuid.UUID
	VehicleID = uuid.UUID
	UserID    = uuid.UUID
	ZoneID    = uuid.UUID
	AuditID   = uuid.UUID
)
