// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memory

import (
	"context"

	"github.com/momeni/campus-parking/pkg/core/cerr"
	"github.com/momeni/campus-parking/pkg/core/model"
	"github.com/momeni/campus-parking/pkg/core/repo"
)

// Directory implements the repo.Directory interface.
type Directory struct{}

func (Directory) Conn(c repo.Conn) repo.DirectoryQueryer {
	return directoryQueryer{connHandle(c)}
}

func (Directory) Tx(tx repo.Tx) repo.DirectoryQueryer {
	return directoryQueryer{txHandle(tx)}
}

type directoryQueryer struct {
	handle
}

func (q directoryQueryer) User(ctx context.Context, id model.UserID) (*model.User, error) {
	st, err := q.view()
	if err != nil {
		return nil, err
	}
	u, ok := st.users[id]
	if !ok {
		return nil, cerr.NotFound(cerr.ErrUserNotFound)
	}
	return &u, nil
}

func (q directoryQueryer) Vehicle(ctx context.Context, id model.VehicleID) (*model.Vehicle, error) {
	st, err := q.view()
	if err != nil {
		return nil, err
	}
	v, ok := st.vehicles[id]
	if !ok {
		return nil, cerr.NotFound(cerr.ErrVehicleNotFound)
	}
	return &v, nil
}
