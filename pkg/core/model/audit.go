// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import "time"

// AuditEntry records one action which is performed by an actor.
// Details holds arbitrary JSON serializable values, such as the ids
// of the affected records.
type AuditEntry struct {
	ID        AuditID        `json:"id"`
	Action    string         `json:"action"`
	ActorID   UserID         `json:"actor_id"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
