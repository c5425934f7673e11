// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

// Role is a string specifying a database connection role. Each role
// has a set of granted privileges which indicates which operations
// may be performed after using it for connecting to a database.
//
// The pkg/core/usecase/dbuc.Settings.ConnectionPool needs one Role in
// order to connect to a database (which its identification information
// are captured from a config file and its authentication information
// are read from a passwords file).
type Role string

// These constants specify the expected database roles. At least the
// AdminRole must exist beforehand (i.e., must be created manually)
// and it must have super user privileges, so it can be used to create
// other required roles (if they are not already created).
// The authentication information of these roles are kept in pass files
// as indicated in the configuration file.
const (
	// AdminRole is an administrator (super user) role which is used
	// for creation of the parking schema, the normal role, and the
	// btree_gist extension and for granting privileges to normal role.
	AdminRole Role = "admin"

	// NormalRole is a normal (unprivilged) role which owns the tables
	// and is used by the web server for all booking and billing
	// operations.
	NormalRole Role = "parkweb"
)
