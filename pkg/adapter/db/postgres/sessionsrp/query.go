// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package sessionsrp

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/campus-parking/pkg/adapter/db/postgres"
	"github.com/momeni/campus-parking/pkg/core/cerr"
	"github.com/momeni/campus-parking/pkg/core/model"
	"gopkg.in/guregu/null.v4"
	"gorm.io/gorm/clause"
)

// Row is the gorm representation of a sessions table row.
type Row struct {
	SSID           uuid.UUID     `gorm:"primaryKey;type:uuid;column:ssid"`
	SlotID         uuid.UUID     `gorm:"type:uuid;column:slot_id"`
	VehicleID      uuid.UUID     `gorm:"type:uuid;column:vehicle_id"`
	UserID         uuid.UUID     `gorm:"type:uuid;column:user_id"`
	EntryTime      time.Time     `gorm:"column:entry_time"`
	ExitTime       time.Time     `gorm:"column:exit_time"`
	ActualExitTime null.Time     `gorm:"column:actual_exit_time"`
	Status         string        `gorm:"column:status"`
	DurationHours  int           `gorm:"column:duration_hours"`
	InvoiceID      uuid.NullUUID `gorm:"type:uuid;column:invoice_id"`
	CreatedAt      time.Time     `gorm:"column:created_at"`
}

// TableName returns the sessions table name.
func (r *Row) TableName() string {
	return "sessions"
}

// Model converts r to a model.Session.
func (r *Row) Model() (*model.Session, error) {
	st, err := model.ParseSessionStatus(r.Status)
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	s := &model.Session{
		ID:            r.SSID,
		SlotID:        r.SlotID,
		VehicleID:     r.VehicleID,
		UserID:        r.UserID,
		Entry:         r.EntryTime,
		Exit:          r.ExitTime,
		ActualExit:    r.ActualExitTime.Ptr(),
		Status:        st,
		DurationHours: r.DurationHours,
		CreatedAt:     r.CreatedAt,
	}
	if r.InvoiceID.Valid {
		id := r.InvoiceID.UUID
		s.InvoiceID = &id
	}
	return s, nil
}

// FromModel converts s to a sessions table Row.
func FromModel(s *model.Session) *Row {
	r := &Row{
		SSID:           s.ID,
		SlotID:         s.SlotID,
		VehicleID:      s.VehicleID,
		UserID:         s.UserID,
		EntryTime:      s.Entry,
		ExitTime:       s.Exit,
		ActualExitTime: null.TimeFromPtr(s.ActualExit),
		Status:         s.Status.String(),
		DurationHours:  s.DurationHours,
		CreatedAt:      s.CreatedAt,
	}
	if s.InvoiceID != nil {
		r.InvoiceID = uuid.NullUUID{UUID: *s.InvoiceID, Valid: true}
	}
	return r
}

func models(rows []Row) ([]model.Session, error) {
	ss := make([]model.Session, 0, len(rows))
	for i := range rows {
		s, err := rows[i].Model()
		if err != nil {
			return nil, fmt.Errorf("session %s: %w", rows[i].SSID, err)
		}
		ss = append(ss, *s)
	}
	return ss, nil
}

// openStatuses lists the statuses which hold a slot.
var openStatuses = []string{
	model.SessionReserved.String(), model.SessionActive.String(),
}

// Get fetches the id session, locking its row if lock is true.
func Get[Q postgres.Queryer](
	ctx context.Context, q Q, id model.SessionID, lock bool,
) (*model.Session, error) {
	gdb := q.GORM(ctx)
	if lock {
		gdb = gdb.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var r Row
	err := gdb.Where("ssid=?", id).Take(&r).Error
	if err != nil {
		return nil, postgres.Classify(
			err, "query session", cerr.ErrSessionNotFound,
		)
	}
	return r.Model()
}

// List fetches the sessions which match f, newest entry time first.
func List[Q postgres.Queryer](
	ctx context.Context, q Q, f model.SessionFilter,
) ([]model.Session, error) {
	gdb := q.GORM(ctx).Model(&Row{})
	if f.UserID != nil {
		gdb = gdb.Where("user_id=?", *f.UserID)
	}
	if f.SlotID != nil {
		gdb = gdb.Where("slot_id=?", *f.SlotID)
	}
	if f.Status != nil {
		gdb = gdb.Where("status=?", f.Status.String())
	}
	if f.Limit > 0 {
		gdb = gdb.Limit(f.Limit)
	}
	var rows []Row
	err := gdb.Order("entry_time DESC").Order("ssid").Find(&rows).Error
	if err != nil {
		return nil, postgres.Classify(err, "query sessions", nil)
	}
	return models(rows)
}

// Open fetches the RESERVED and ACTIVE sessions of the slotID slot,
// ordered by their entry time.
func Open[Q postgres.Queryer](
	ctx context.Context, q Q, slotID model.SlotID,
) ([]model.Session, error) {
	var rows []Row
	err := q.GORM(ctx).Where(
		"slot_id=? AND status IN ?", slotID, openStatuses,
	).Order("entry_time").Find(&rows).Error
	if err != nil {
		return nil, postgres.Classify(err, "query open sessions", nil)
	}
	return models(rows)
}

// DueSlots fetches the ids of slots having a RESERVED session whose
// entry time has been reached by now.
func DueSlots[Q postgres.Queryer](
	ctx context.Context, q Q, now time.Time,
) ([]model.SlotID, error) {
	var ids []model.SlotID
	err := q.GORM(ctx).Model(&Row{}).Distinct("slot_id").Where(
		"status=? AND entry_time<=?", model.SessionReserved.String(), now,
	).Order("slot_id").Pluck("slot_id", &ids).Error
	if err != nil {
		return nil, postgres.Classify(err, "query due slots", nil)
	}
	return ids, nil
}

// Create inserts the s session. Overlapping with another open session
// of the same slot causes a Conflict error.
func Create[Q postgres.Queryer](
	ctx context.Context, q Q, s *model.Session,
) error {
	err := q.GORM(ctx).Create(FromModel(s)).Error
	return postgres.Classify(err, "insert session", nil)
}

// Update persists the status, actual exit time, duration hours, and
// invoice reference of the s session.
func Update[Q postgres.Queryer](
	ctx context.Context, q Q, s *model.Session,
) error {
	r := FromModel(s)
	res := q.GORM(ctx).Model(&Row{}).Where("ssid=?", s.ID).Updates(
		map[string]any{
			"status":           r.Status,
			"actual_exit_time": r.ActualExitTime,
			"duration_hours":   r.DurationHours,
			"invoice_id":       r.InvoiceID,
		},
	)
	if err := res.Error; err != nil {
		return postgres.Classify(err, "update session", nil)
	}
	if n := res.RowsAffected; n != 1 {
		return cerr.NotFound(fmt.Errorf(
			"%w: expected one row, but got %d", cerr.ErrSessionNotFound, n,
		))
	}
	return nil
}
