// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package jwtauth issues and verifies the HS256 signed bearer tokens
// which identify the callers of the parkweb REST API. The token subject
// is the user UUID and the custom role claim holds its model.Role name.
package jwtauth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/momeni/campus-parking/pkg/core/cerr"
	"github.com/momeni/campus-parking/pkg/core/model"
)

// Issuer is the default value of the iss claim.
const Issuer = "parkweb"

// Errors which are wrapped as cerr.Authentication errors.
var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrShortSecret  = errors.New("signing secret must have 32+ bytes")
)

// Claims of a parkweb token.
type Claims struct {
	Role model.Role `json:"role"`
	jwt.RegisteredClaims
}

// Authority signs and verifies tokens with a shared secret.
type Authority struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// Option configures an Authority.
type Option func(a *Authority)

// WithTTL sets the lifetime of the issued tokens (default 1h).
func WithTTL(ttl time.Duration) Option {
	return func(a *Authority) {
		a.ttl = ttl
	}
}

// WithIssuer overrides the iss claim value.
func WithIssuer(iss string) Option {
	return func(a *Authority) {
		a.issuer = iss
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(a *Authority) {
		a.now = now
	}
}

// New instantiates an Authority. The secret must be at least 32 bytes
// long so it is not trivially brute-forced.
func New(secret []byte, opts ...Option) (*Authority, error) {
	if len(secret) < 32 {
		return nil, ErrShortSecret
	}
	a := &Authority{
		secret: secret,
		ttl:    time.Hour,
		issuer: Issuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Issue returns a signed token for the actor.
func (a *Authority) Issue(actor model.Actor) (string, error) {
	if err := actor.Role.Validate(); err != nil {
		return "", fmt.Errorf("validating role: %w", err)
	}
	now := a.now()
	claims := Claims{
		Role: actor.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    a.issuer,
			Subject:   actor.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return s, nil
}

// Verify parses the token and returns its actor. All failures are
// reported as cerr.Authentication errors.
func (a *Authority) Verify(token string) (model.Actor, error) {
	if token == "" {
		return model.Actor{}, cerr.Authentication(ErrMissingToken)
	}
	claims := &Claims{}
	t, err := jwt.ParseWithClaims(
		token, claims,
		func(*jwt.Token) (any, error) {
			return a.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(a.issuer),
		jwt.WithTimeFunc(a.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !t.Valid {
		return model.Actor{}, cerr.Authentication(
			fmt.Errorf("%w: %w", ErrInvalidToken, err),
		)
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return model.Actor{}, cerr.Authentication(
			fmt.Errorf("%w: subject: %w", ErrInvalidToken, err),
		)
	}
	return model.Actor{ID: id, Role: claims.Role}, nil
}
