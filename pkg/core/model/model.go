// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package model defines the inner most layer of the Clean Architecture
// containing the parking domain entities, namely slots, sessions,
// invoices and their payment statuses, together with the vehicles,
// users, zones, and audit entries which they refer to.
// This layer may not depend on outter layers, while all other layers
// may depend on it.
// Enums are numeric in this package and are (de)serialized as their
// upper-case names in the adapter layer (see their MarshalText and
// UnmarshalText methods).
package model

import (
	"errors"
	"fmt"
)

// ErrUnknownEnum indicates that a given string may not be parsed as a
// known enum value. Similar to other parsing errors, it does not carry
// the rejected string because the caller of the Parse function knows
// about it already and should wrap this error with its own context.
var ErrUnknownEnum = errors.New("unknown enum value")

// InvalidEnumError indicates that a numeric enum holds an out of range
// value. Name is the enum type name and Value is the invalid number.
type InvalidEnumError struct {
	Name  string
	Value int
}

// Error implements the error interface.
func (e InvalidEnumError) Error() string {
	return fmt.Sprintf("invalid %s: %d", e.Name, e.Value)
}

// enumNames maps the valid values of an enum type (starting from one)
// to their string names. The zero value of every enum is invalid.
type enumNames []string

func (en enumNames) validate(name string, v int) error {
	if v < 1 || v > len(en) {
		return InvalidEnumError{Name: name, Value: v}
	}
	return nil
}

func (en enumNames) name(typ string, v int) string {
	if err := en.validate(typ, v); err != nil {
		panic(err)
	}
	return en[v-1]
}

func (en enumNames) parse(s string) (int, error) {
	for i, n := range en {
		if n == s {
			return i + 1, nil
		}
	}
	return 0, ErrUnknownEnum
}
