// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package settings provides the value types and helpers which are used
// by the config package. Optional settings are kept as pointers, so a
// missing YAML item can be told apart from an explicit zero value and
// be replaced by its default during the normalization.
package settings

// Default sets *t to a pointer to def if it is nil.
func Default[T any](t **T, def T) {
	if (*t) != nil {
		return
	}
	(*t) = &def
}

// Nil2Zero sets *t to a pointer to the zero value of T if it is nil.
func Nil2Zero[T any](t **T) {
	var zero T
	Default(t, zero)
}
