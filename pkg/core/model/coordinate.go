// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

// Coordinate represents a geographical location with a latitude and
// longitude. It is embedded by the Zone struct and kept in two columns
// of the zones table.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Zone is a geographic grouping of parking slots. Zones are managed
// by administrators and are only read by the parking use cases, e.g.,
// for composing the invoice descriptions.
type Zone struct {
	ID       ZoneID     `json:"id"`
	Code     string     `json:"code"`
	Name     string     `json:"name"`
	Address  string     `json:"address"`
	Location Coordinate `json:"location"`
}
