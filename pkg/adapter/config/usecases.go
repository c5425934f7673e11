// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"fmt"
	"time"

	"github.com/momeni/campus-parking/pkg/adapter/config/settings"
	"github.com/momeni/campus-parking/pkg/adapter/db/memory"
	"github.com/momeni/campus-parking/pkg/adapter/db/postgres/auditrp"
	"github.com/momeni/campus-parking/pkg/adapter/db/postgres/directoryrp"
	"github.com/momeni/campus-parking/pkg/adapter/db/postgres/invoicesrp"
	"github.com/momeni/campus-parking/pkg/adapter/db/postgres/sessionsrp"
	"github.com/momeni/campus-parking/pkg/adapter/db/postgres/slotsrp"
	"github.com/momeni/campus-parking/pkg/core/notify"
	"github.com/momeni/campus-parking/pkg/core/repo"
	"github.com/momeni/campus-parking/pkg/core/usecase/audituc"
	"github.com/momeni/campus-parking/pkg/core/usecase/invoicesuc"
	"github.com/momeni/campus-parking/pkg/core/usecase/sessionsuc"
)

// Boundaries of the use cases settings. Values out of these ranges are
// rejected, since they most probably indicate a typo.
const (
	MaxBookingGrace     = 15 * time.Minute
	MaxMinBillableHours = 24
)

// Usecases contains the configuration settings for all use cases.
type Usecases struct {
	Sessions Sessions // parking sessions use cases settings
	Invoices Invoices // invoices use cases settings
}

// Sessions contains the parking sessions settings. Fields are defined
// as pointers, so a missing item leaves the use case default in effect.
type Sessions struct {
	// BookingGrace is how far in the past a booking may start.
	BookingGrace *settings.Duration `yaml:"booking-grace,omitempty"`
	// MinBillableHours is the least number of billed hours.
	MinBillableHours *int `yaml:"min-billable-hours,omitempty"`
	// SweepInterval is the period of activating the due reservations.
	SweepInterval *settings.Duration `yaml:"sweep-interval,omitempty"`
}

// Invoices contains the invoices settings.
type Invoices struct {
	// DueAfter sets the due time of new invoices after their issue.
	// Without it, invoices have no due time.
	DueAfter *settings.Duration `yaml:"due-after,omitempty"`
}

func (u *Usecases) validate() error {
	s := &u.Sessions
	if g := s.BookingGrace; g != nil && (*g <= 0 || time.Duration(*g) > MaxBookingGrace) {
		return fmt.Errorf("booking-grace (%v) is not in (0, %v]", g, MaxBookingGrace)
	}
	if h := s.MinBillableHours; h != nil && (*h < 0 || *h > MaxMinBillableHours) {
		return fmt.Errorf("min-billable-hours (%d) is not in [0, %d]", *h, MaxMinBillableHours)
	}
	settings.Default(&s.SweepInterval, settings.Duration(30*time.Second))
	if *s.SweepInterval <= 0 {
		return fmt.Errorf("sweep-interval (%v) is not positive", s.SweepInterval)
	}
	if d := u.Invoices.DueAfter; d != nil && *d <= 0 {
		return fmt.Errorf("due-after (%v) is not positive", d)
	}
	return nil
}

// Repos is the set of repositories of one storage driver.
type Repos struct {
	Slots     repo.Slots
	Sessions  repo.Sessions
	Invoices  repo.Invoices
	Directory repo.Directory
	AuditLogs repo.AuditLogs
}

// PostgresRepos returns the repositories which work with the pools
// of the postgres package.
func PostgresRepos() Repos {
	return Repos{
		Slots:     slotsrp.New(),
		Sessions:  sessionsrp.New(),
		Invoices:  invoicesrp.New(),
		Directory: directoryrp.New(),
		AuditLogs: auditrp.New(),
	}
}

// MemoryRepos returns the repositories which work with a memory.Store.
func MemoryRepos() Repos {
	return Repos{
		Slots:     memory.Slots{},
		Sessions:  memory.Sessions{},
		Invoices:  memory.Invoices{},
		Directory: memory.Directory{},
		AuditLogs: memory.AuditLogs{},
	}
}

// UseCases groups the use cases which are served by the REST API.
type UseCases struct {
	Sessions *sessionsuc.UseCase
	Invoices *invoicesuc.UseCase
	Audit    *audituc.UseCase
}

// NewUseCases instantiates all use cases on the p pool and the rs
// repositories. The audit use case is shared as the auditor of other
// use cases and observers receive the committed slot changes.
func (u Usecases) NewUseCases(
	p repo.Pool,
	rs Repos,
	sender notify.Sender,
	observers ...sessionsuc.SlotObserver,
) (*UseCases, error) {
	audit, err := audituc.New(p, rs.AuditLogs)
	if err != nil {
		return nil, fmt.Errorf("creating audit use case: %w", err)
	}
	sessOpts := []sessionsuc.Option{
		sessionsuc.WithNotifier(sender),
		sessionsuc.WithAuditor(audit),
	}
	if g := u.Sessions.BookingGrace; g != nil {
		sessOpts = append(sessOpts, sessionsuc.WithBookingGrace(time.Duration(*g)))
	}
	if h := u.Sessions.MinBillableHours; h != nil {
		sessOpts = append(sessOpts, sessionsuc.WithMinBillableHours(*h))
	}
	if d := u.Invoices.DueAfter; d != nil {
		sessOpts = append(sessOpts, sessionsuc.WithInvoiceDueAfter(time.Duration(*d)))
	}
	for _, o := range observers {
		sessOpts = append(sessOpts, sessionsuc.WithSlotObserver(o))
	}
	sessions, err := sessionsuc.New(
		p, rs.Slots, rs.Sessions, rs.Invoices, rs.Directory, sessOpts...,
	)
	if err != nil {
		return nil, fmt.Errorf("creating sessions use case: %w", err)
	}
	invoices, err := invoicesuc.New(
		p, rs.Invoices, rs.Directory,
		invoicesuc.WithNotifier(sender),
		invoicesuc.WithAuditor(audit),
	)
	if err != nil {
		return nil, fmt.Errorf("creating invoices use case: %w", err)
	}
	return &UseCases{Sessions: sessions, Invoices: invoices, Audit: audit}, nil
}
