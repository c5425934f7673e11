// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package directoryrp implements the repo.Directory interface for
// PostgreSQL, reading the users and vehicles tables.
package directoryrp

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/momeni/campus-parking/pkg/adapter/db/postgres"
	"github.com/momeni/campus-parking/pkg/core/cerr"
	"github.com/momeni/campus-parking/pkg/core/model"
	"github.com/momeni/campus-parking/pkg/core/repo"
)

// Repo represents the directory repository instance.
type Repo struct {
}

// New instantiates a directory repository.
func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

func (dir *Repo) Conn(c repo.Conn) repo.DirectoryQueryer {
	return connQueryer{Conn: c.(*postgres.Conn)}
}

func (cq connQueryer) User(ctx context.Context, id model.UserID) (*model.User, error) {
	return User(ctx, cq.Conn, id)
}

func (cq connQueryer) Vehicle(ctx context.Context, id model.VehicleID) (*model.Vehicle, error) {
	return Vehicle(ctx, cq.Conn, id)
}

type txQueryer struct {
	*postgres.Tx
}

func (dir *Repo) Tx(tx repo.Tx) repo.DirectoryQueryer {
	return txQueryer{Tx: tx.(*postgres.Tx)}
}

func (tq txQueryer) User(ctx context.Context, id model.UserID) (*model.User, error) {
	return User(ctx, tq.Tx, id)
}

func (tq txQueryer) Vehicle(ctx context.Context, id model.VehicleID) (*model.Vehicle, error) {
	return Vehicle(ctx, tq.Tx, id)
}

// UserRow is the gorm representation of a users table row.
type UserRow struct {
	UID   uuid.UUID `gorm:"primaryKey;type:uuid;column:uid"`
	Name  string    `gorm:"column:name"`
	Email string    `gorm:"column:email"`
	Role  string    `gorm:"column:role"`
}

func (ur *UserRow) TableName() string {
	return "users"
}

func (ur *UserRow) Model() (*model.User, error) {
	r, err := model.ParseRole(ur.Role)
	if err != nil {
		return nil, fmt.Errorf("role: %w", err)
	}
	return &model.User{ID: ur.UID, Name: ur.Name, Email: ur.Email, Role: r}, nil
}

// VehicleRow is the gorm representation of a vehicles table row.
type VehicleRow struct {
	VID          uuid.UUID `gorm:"primaryKey;type:uuid;column:vid"`
	UserID       uuid.UUID `gorm:"type:uuid;column:user_id"`
	LicensePlate string    `gorm:"column:license_plate"`
	VehicleType  string    `gorm:"column:vehicle_type"`
}

func (vr *VehicleRow) TableName() string {
	return "vehicles"
}

func (vr *VehicleRow) Model() (*model.Vehicle, error) {
	t, err := model.ParseVehicleType(vr.VehicleType)
	if err != nil {
		return nil, fmt.Errorf("vehicle_type: %w", err)
	}
	return &model.Vehicle{
		ID:           vr.VID,
		UserID:       vr.UserID,
		LicensePlate: vr.LicensePlate,
		Type:         t,
	}, nil
}

// User fetches the id user.
func User[Q postgres.Queryer](
	ctx context.Context, q Q, id model.UserID,
) (*model.User, error) {
	var ur UserRow
	err := q.GORM(ctx).Where("uid=?", id).Take(&ur).Error
	if err != nil {
		return nil, postgres.Classify(err, "query user", cerr.ErrUserNotFound)
	}
	return ur.Model()
}

// Vehicle fetches the id vehicle.
func Vehicle[Q postgres.Queryer](
	ctx context.Context, q Q, id model.VehicleID,
) (*model.Vehicle, error) {
	var vr VehicleRow
	err := q.GORM(ctx).Where("vid=?", id).Take(&vr).Error
	if err != nil {
		return nil, postgres.Classify(
			err, "query vehicle", cerr.ErrVehicleNotFound,
		)
	}
	return vr.Model()
}
