// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"

	"github.com/momeni/campus-parking/pkg/core/model"
)

// DirectoryQueryer reads the users and vehicles which are managed
// outside of the parking use cases. The same queryer is returned for
// connections and transactions since it has no mutating method.
type DirectoryQueryer interface {
	// User returns the user with the given id or a NotFound error.
	User(ctx context.Context, id model.UserID) (*model.User, error)

	// Vehicle returns the vehicle with the given id or a NotFound
	// error.
	Vehicle(ctx context.Context, id model.VehicleID) (*model.Vehicle, error)
}

type Directory interface {
	Conn(Conn) DirectoryQueryer
	Tx(Tx) DirectoryQueryer
}
