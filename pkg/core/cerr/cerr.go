// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package cerr defines the core errors. Each error has a Kind which
// tells its callers how they may react, e.g., a Validation error needs
// the input to be corrected while a Persistence error may be retried
// as a whole. The adapters layer maps these kinds to its own transport
// specific codes, so this package has no dependency on them.
package cerr

import (
	"errors"
	"fmt"
)

// Kind classifies a core error.
type Kind int

// Supported error kinds. The zero value is used for errors which carry
// no Kind at all (see KindOf).
const (
	KindUnknown Kind = iota

	KindValidation     // malformed or missing input
	KindNotFound       // unknown slot, session, invoice, vehicle, ...
	KindConflict       // slot unavailable, double payment, ...
	KindForbidden      // ownership or role mismatch
	KindPersistence    // storage or transaction failure
	KindAuthentication // missing or invalid credentials
	KindPaymentFailed  // payment provider declined a charge
)

var kindNames = [...]string{
	"unknown", "validation", "not-found", "conflict", "forbidden",
	"persistence", "authentication", "payment-failed",
}

// String returns a short lower-case name of the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Error is a core error having a Kind and a wrapped error which
// describes it for humans.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Kind, e.Err.Error())
}

func Validation(err error) *Error {
	return &Error{Kind: KindValidation, Err: err}
}

func NotFound(err error) *Error {
	return &Error{Kind: KindNotFound, Err: err}
}

func Conflict(err error) *Error {
	return &Error{Kind: KindConflict, Err: err}
}

func Forbidden(err error) *Error {
	return &Error{Kind: KindForbidden, Err: err}
}

func Persistence(err error) *Error {
	return &Error{Kind: KindPersistence, Err: err}
}

func Authentication(err error) *Error {
	return &Error{Kind: KindAuthentication, Err: err}
}

func PaymentFailed(err error) *Error {
	return &Error{Kind: KindPaymentFailed, Err: err}
}

// KindOf returns the Kind of the first *Error in the err chain, or
// KindUnknown if there is none (including a nil err).
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindUnknown
}

// Classify returns err if it already carries a Kind. Otherwise, it is
// wrapped as a Persistence error. A nil err is returned as is.
// Use cases call Classify on the errors which are returned by the
// repo.Pool and repo.Conn methods.
func Classify(err error) error {
	if err == nil || KindOf(err) != KindUnknown {
		return err
	}
	return Persistence(err)
}
