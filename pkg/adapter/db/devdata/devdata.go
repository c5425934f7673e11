// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package devdata provides the development data set which is inserted
// by the "db init-dev" command into a PostgreSQL database and is seeded
// into the in-memory store when the server runs without a database.
// The ids are fixed, so tokens which are issued for the dev users stay
// valid across re-initializations.
package devdata

import (
	"github.com/google/uuid"
	"github.com/momeni/campus-parking/pkg/core/model"
	"github.com/shopspring/decimal"
)

// Fixture is a set of directory and slot records.
type Fixture struct {
	Users    []model.User
	Vehicles []model.Vehicle
	Zones    []model.Zone
	Slots    []model.Slot
}

// Fixed ids of the dev users.
var (
	AdminID = uuid.MustParse("00000000-0000-4000-8000-000000000001")
	AliceID = uuid.MustParse("00000000-0000-4000-8000-000000000002")
	BobID   = uuid.MustParse("00000000-0000-4000-8000-000000000003")
)

// Dev returns a new copy of the development data set.
func Dev() Fixture {
	north := uuid.MustParse("00000000-0000-4000-8000-00000000a001")
	south := uuid.MustParse("00000000-0000-4000-8000-00000000a002")
	slot := func(n int, code string, zone uuid.UUID, typ model.SlotType, rate string) model.Slot {
		return model.Slot{
			ID:       uuid.MustParse("00000000-0000-4000-8000-0000000b" + hex4(n)),
			Code:     code,
			ZoneID:   zone,
			Type:     typ,
			Rate:     decimal.RequireFromString(rate),
			Status:   model.SlotAvailable,
			Bookable: true,
		}
	}
	maint := slot(5, "S-02", south, model.SlotTypeLarge, "4.00")
	maint.Status = model.SlotMaintenance
	return Fixture{
		Users: []model.User{
			{ID: AdminID, Name: "Parking Office", Email: "parking@campus.example", Role: model.RoleAdmin},
			{ID: AliceID, Name: "Alice", Email: "alice@campus.example", Role: model.RoleUser},
			{ID: BobID, Name: "Bob", Email: "bob@campus.example", Role: model.RoleUser},
		},
		Vehicles: []model.Vehicle{
			{ID: uuid.MustParse("00000000-0000-4000-8000-00000000c001"), UserID: AliceID, LicensePlate: "CMP-1001", Type: model.VehicleTypeCar},
			{ID: uuid.MustParse("00000000-0000-4000-8000-00000000c002"), UserID: AliceID, LicensePlate: "CMP-1002", Type: model.VehicleTypeBike},
			{ID: uuid.MustParse("00000000-0000-4000-8000-00000000c003"), UserID: BobID, LicensePlate: "CMP-2001", Type: model.VehicleTypeTruck},
		},
		Zones: []model.Zone{
			{ID: north, Code: "N", Name: "North Garage", Address: "1 College Ave", Location: model.Coordinate{Lat: 40.4433, Lon: -79.9436}},
			{ID: south, Code: "S", Name: "South Lot", Address: "9 Forbes Ave", Location: model.Coordinate{Lat: 40.4406, Lon: -79.9422}},
		},
		Slots: []model.Slot{
			slot(1, "N-01", north, model.SlotTypeCompact, "1.50"),
			slot(2, "N-02", north, model.SlotTypeRegular, "2.00"),
			slot(3, "N-03", north, model.SlotTypeRegular, "2.00"),
			slot(4, "S-01", south, model.SlotTypeLarge, "4.00"),
			maint,
		},
	}
}

func hex4(n int) string {
	const digits = "0123456789abcdef"
	return string([]byte{
		digits[n>>12&0xf], digits[n>>8&0xf], digits[n>>4&0xf], digits[n&0xf],
	})
}
