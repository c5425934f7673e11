// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memory

import (
	"context"
	"fmt"

	"github.com/momeni/campus-parking/pkg/adapter/db/devdata"
)

// Seed inserts the f fixture records in one transaction. Records with
// an existing id are overwritten. A vehicle whose owner is unknown or
// a slot whose zone is unknown fails the whole transaction.
func (s *Store) Seed(ctx context.Context, f devdata.Fixture) error {
	return s.update(ctx, func(st *state) error {
		for _, u := range f.Users {
			st.users[u.ID] = u
		}
		for _, z := range f.Zones {
			st.zones[z.ID] = z
		}
		for _, v := range f.Vehicles {
			if _, ok := st.users[v.UserID]; !ok {
				return fmt.Errorf("vehicle %s: unknown user %s", v.ID, v.UserID)
			}
			st.vehicles[v.ID] = v
		}
		for _, sl := range f.Slots {
			if _, ok := st.zones[sl.ZoneID]; !ok {
				return fmt.Errorf("slot %s: unknown zone %s", sl.ID, sl.ZoneID)
			}
			st.slots[sl.ID] = copySlot(sl)
		}
		return nil
	})
}
