// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

// Role specifies the role of a user. Admins may act on behalf of any
// user, bypassing the ownership checks of all use cases.
type Role int

// Valid values for the Role enum.
const (
	RoleInvalid Role = iota // zero value is invalid

	RoleUser  // a normal campus user
	RoleAdmin // an administrator
)

var roleNames = enumNames{"USER", "ADMIN"}

// Validate returns nil if the Role value is valid.
// Otherwise, an InvalidEnumError will be returned.
func (r Role) Validate() error {
	return roleNames.validate("role", int(r))
}

// String returns the upper-case name of the role, e.g., ADMIN.
// Invalid roles cause a panic.
func (r Role) String() string {
	return roleNames.name("role", int(r))
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(text []byte) error {
	v, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// ParseRole parses the upper-case name of a role. For unknown names,
// RoleInvalid and ErrUnknownEnum will be returned.
func ParseRole(s string) (Role, error) {
	v, err := roleNames.parse(s)
	return Role(v), err
}

// User is a registered campus user. Only the fields which are needed
// by the parking use cases are modeled (e.g., the password hash is
// managed elsewhere).
type User struct {
	ID    UserID `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Actor identifies the caller of a use case. It is resolved by the
// adapters layer (e.g., from a bearer token) and passed explicitly to
// every use case method which needs permission checks.
type Actor struct {
	ID   UserID
	Role Role
}

// IsAdmin reports if the actor may override the ownership checks.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanAccess reports if the actor owns a record which belongs to the
// owner user or if the actor is an admin.
func (a Actor) CanAccess(owner UserID) bool {
	return a.IsAdmin() || a.ID == owner
}
