// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package scram hashes the database role passwords in the format which
// is accepted by the PostgreSQL server for its SCRAM-SHA-256 password
// authentication, so the parkweb roles can be created or updated
// without sending a plaintext password to the DBMS.
package scram

import (
	"crypto/hmac"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xdg-go/scram"
)

const (
	mechanism = "SCRAM-SHA-256"
	saltLen   = 16 // bytes, same as PostgreSQL
)

// MinIters is the minimum accepted iterations count.
const MinIters = 4096

// Errors which are returned for malformed inputs.
var (
	ErrEmptyPassword = errors.New("password must be non-empty")
	ErrMalformedHash = errors.New("malformed SCRAM-SHA-256 hash")
)

// Hasher implements the pkg/core/scram.Hasher interface using the
// SHA-256 hash function. Its zero value is ready to be used.
type Hasher struct{}

// New returns a SCRAM-SHA-256 Hasher.
func New() Hasher {
	return Hasher{}
}

// Hash computes the SCRAM-SHA-256 verifier of pass. The salt must be
// base64 encoded. An empty salt asks for a random one.
// The result looks like
//
//	SCRAM-SHA-256${iters}:{b64-salt}${b64-storedKey}:{b64-serverKey}
//
// and consists of ASCII printable letters only, so it may be quoted
// and embedded in an ALTER ROLE query.
func (Hasher) Hash(pass, salt string, iters int) (string, error) {
	switch {
	case pass == "":
		return "", ErrEmptyPassword
	case iters < MinIters:
		return "", fmt.Errorf("iters (%d) is less than %d", iters, MinIters)
	}
	if salt == "" {
		b := make([]byte, saltLen)
		if _, err := rand.Read(b); err != nil {
			return "", fmt.Errorf("creating random salt: %w", err)
		}
		salt = base64.StdEncoding.EncodeToString(b)
	}
	sc, err := storedCredentials(pass, salt, iters)
	if err != nil {
		return "", err
	}
	return format(iters, salt, sc), nil
}

// Verify reports if hashed was computed from pass. The iterations
// count and salt are taken from the hashed string itself.
func (Hasher) Verify(pass, hashed string) (bool, error) {
	iters, salt, err := parse(hashed)
	if err != nil {
		return false, err
	}
	sc, err := storedCredentials(pass, salt, iters)
	if err != nil {
		return false, err
	}
	expected := format(iters, salt, sc)
	return hmac.Equal([]byte(expected), []byte(hashed)), nil
}

func storedCredentials(
	pass, salt string, iters int,
) (scram.StoredCredentials, error) {
	saltBytes, err := base64.StdEncoding.DecodeString(salt)
	if err != nil {
		return scram.StoredCredentials{}, fmt.Errorf(
			"decoding base64 salt: %w", err,
		)
	}
	c, err := scram.SHA256.NewClient("", pass, "")
	if err != nil {
		return scram.StoredCredentials{}, fmt.Errorf(
			"creating SCRAM client: %w", err,
		)
	}
	return c.GetStoredCredentials(scram.KeyFactors{
		Salt:  string(saltBytes),
		Iters: iters,
	}), nil
}

func format(iters int, salt string, sc scram.StoredCredentials) string {
	return fmt.Sprintf(
		"%s$%d:%s$%s:%s",
		mechanism, iters, salt,
		base64.StdEncoding.EncodeToString(sc.StoredKey),
		base64.StdEncoding.EncodeToString(sc.ServerKey),
	)
}

func parse(hashed string) (iters int, salt string, err error) {
	rest, ok := strings.CutPrefix(hashed, mechanism+"$")
	if !ok {
		return 0, "", ErrMalformedHash
	}
	params, _, ok := strings.Cut(rest, "$")
	if !ok {
		return 0, "", ErrMalformedHash
	}
	it, salt, ok := strings.Cut(params, ":")
	if !ok {
		return 0, "", ErrMalformedHash
	}
	iters, err = strconv.Atoi(it)
	if err != nil || iters < MinIters {
		return 0, "", ErrMalformedHash
	}
	return iters, salt, nil
}
