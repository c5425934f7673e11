// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

// VehicleType specifies the kind of a registered vehicle.
type VehicleType int

// Valid values for the VehicleType enum.
const (
	VehicleTypeInvalid VehicleType = iota // zero value is invalid

	VehicleTypeCar
	VehicleTypeBike
	VehicleTypeTruck
)

var vehicleTypeNames = enumNames{"CAR", "BIKE", "TRUCK"}

// Validate returns nil if the VehicleType value is valid.
func (t VehicleType) Validate() error {
	return vehicleTypeNames.validate("vehicle type", int(t))
}

// String returns the upper-case name of the vehicle type.
// Invalid vehicle types cause a panic.
func (t VehicleType) String() string {
	return vehicleTypeNames.name("vehicle type", int(t))
}

// MarshalText implements encoding.TextMarshaler.
func (t VehicleType) MarshalText() ([]byte, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *VehicleType) UnmarshalText(text []byte) error {
	v, err := ParseVehicleType(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ParseVehicleType parses the upper-case name of a vehicle type.
func ParseVehicleType(s string) (VehicleType, error) {
	v, err := vehicleTypeNames.parse(s)
	return VehicleType(v), err
}

// Vehicle is a vehicle which is registered by a user. The license
// plate is unique and kept in upper-case.
type Vehicle struct {
	ID           VehicleID   `json:"id"`
	UserID       UserID      `json:"user_id"`
	LicensePlate string      `json:"license_plate"`
	Type         VehicleType `json:"type"`
}
