// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package schemarp

import (
	"context"
	"fmt"

	"github.com/momeni/campus-parking/pkg/adapter/db/devdata"
	"github.com/momeni/campus-parking/pkg/adapter/db/postgres"
	"github.com/momeni/campus-parking/pkg/adapter/db/postgres/directoryrp"
	"github.com/momeni/campus-parking/pkg/adapter/db/postgres/slotsrp"
)

// tables lists the DDL statements in their execution order.
// Sessions and invoices reference each other, so the invoice_id
// foreign key is added after the invoices table is created.
var tables = []string{
	`CREATE TABLE users(
	uid uuid PRIMARY KEY,
	name text NOT NULL,
	email text NOT NULL UNIQUE,
	role text NOT NULL CHECK (role IN ('USER', 'ADMIN'))
)`,
	`CREATE TABLE vehicles(
	vid uuid PRIMARY KEY,
	user_id uuid NOT NULL REFERENCES users(uid),
	license_plate text NOT NULL UNIQUE,
	vehicle_type text NOT NULL CHECK (vehicle_type IN ('CAR', 'BIKE', 'TRUCK'))
)`,
	`CREATE TABLE zones(
	zid uuid PRIMARY KEY,
	code text NOT NULL UNIQUE,
	name text NOT NULL,
	address text NOT NULL DEFAULT '',
	lat double precision NOT NULL,
	lon double precision NOT NULL
)`,
	`CREATE TABLE slots(
	sid uuid PRIMARY KEY,
	code text NOT NULL UNIQUE,
	zone_id uuid NOT NULL REFERENCES zones(zid),
	slot_type text NOT NULL CHECK (slot_type IN ('COMPACT', 'REGULAR', 'LARGE')),
	rate numeric(10,2) NOT NULL CHECK (rate >= 0),
	status text NOT NULL CHECK (
		status IN ('AVAILABLE', 'OCCUPIED', 'RESERVED', 'MAINTENANCE')
	),
	bookable boolean NOT NULL DEFAULT true,
	reserved_by uuid REFERENCES users(uid),
	occupied_by uuid REFERENCES vehicles(vid)
)`,
	`CREATE TABLE sessions(
	ssid uuid PRIMARY KEY,
	slot_id uuid NOT NULL REFERENCES slots(sid),
	vehicle_id uuid NOT NULL REFERENCES vehicles(vid),
	user_id uuid NOT NULL REFERENCES users(uid),
	entry_time timestamptz NOT NULL,
	exit_time timestamptz NOT NULL,
	actual_exit_time timestamptz,
	status text NOT NULL CHECK (
		status IN ('RESERVED', 'ACTIVE', 'COMPLETED', 'CANCELLED')
	),
	duration_hours integer NOT NULL DEFAULT 0 CHECK (duration_hours >= 0),
	invoice_id uuid,
	created_at timestamptz NOT NULL DEFAULT now(),
	CHECK (entry_time < exit_time),
	CONSTRAINT sessions_no_overlap EXCLUDE USING gist (
		slot_id WITH =,
		tstzrange(entry_time, exit_time, '[)') WITH &&
	) WHERE (status IN ('RESERVED', 'ACTIVE'))
)`,
	`CREATE INDEX sessions_user_entry ON sessions(user_id, entry_time DESC)`,
	`CREATE INDEX sessions_due ON sessions(entry_time) WHERE status = 'RESERVED'`,
	`CREATE TABLE payment_statuses(
	pid uuid PRIMARY KEY,
	status text NOT NULL CHECK (
		status IN ('PENDING', 'PAID', 'FAILED', 'REFUNDED')
	),
	changed_at timestamptz NOT NULL,
	transaction_id text
)`,
	`CREATE TABLE invoices(
	iid uuid PRIMARY KEY,
	user_id uuid NOT NULL REFERENCES users(uid),
	session_id uuid NOT NULL UNIQUE REFERENCES sessions(ssid),
	amount numeric(12,2) NOT NULL CHECK (amount >= 0),
	issued_at timestamptz NOT NULL,
	due_at timestamptz,
	description text NOT NULL,
	payment_id uuid NOT NULL UNIQUE REFERENCES payment_statuses(pid)
)`,
	`CREATE INDEX invoices_user_issued ON invoices(user_id, issued_at DESC)`,
	`ALTER TABLE sessions ADD CONSTRAINT sessions_invoice_fk
	FOREIGN KEY (invoice_id) REFERENCES invoices(iid)`,
	`CREATE TABLE audit_logs(
	aid uuid PRIMARY KEY,
	action text NOT NULL,
	actor_id uuid NOT NULL,
	details jsonb NOT NULL DEFAULT '{}',
	created_at timestamptz NOT NULL
)`,
	`CREATE INDEX audit_logs_created ON audit_logs(created_at DESC)`,
}

// CreateTables creates all tables, their constraints, and indices.
func CreateTables[Q postgres.Queryer](ctx context.Context, q Q) error {
	for i, ddl := range tables {
		if _, err := q.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("running DDL #%d: %w", i, err)
		}
	}
	return nil
}

// InsertDevData inserts the devdata.Dev fixture records.
func InsertDevData[Q postgres.Queryer](ctx context.Context, q Q) error {
	f := devdata.Dev()
	gdb := q.GORM(ctx)
	for _, u := range f.Users {
		err := gdb.Create(&directoryrp.UserRow{
			UID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role.String(),
		}).Error
		if err != nil {
			return fmt.Errorf("inserting user %q: %w", u.Name, err)
		}
	}
	for _, v := range f.Vehicles {
		err := gdb.Create(&directoryrp.VehicleRow{
			VID:          v.ID,
			UserID:       v.UserID,
			LicensePlate: v.LicensePlate,
			VehicleType:  v.Type.String(),
		}).Error
		if err != nil {
			return fmt.Errorf("inserting vehicle %q: %w", v.LicensePlate, err)
		}
	}
	for _, z := range f.Zones {
		err := gdb.Create(&slotsrp.ZoneRow{
			ZID:      z.ID,
			Code:     z.Code,
			Name:     z.Name,
			Address:  z.Address,
			Location: z.Location,
		}).Error
		if err != nil {
			return fmt.Errorf("inserting zone %q: %w", z.Code, err)
		}
	}
	for i := range f.Slots {
		if err := gdb.Create(slotsrp.FromModel(&f.Slots[i])).Error; err != nil {
			return fmt.Errorf("inserting slot %q: %w", f.Slots[i].Code, err)
		}
	}
	return nil
}
