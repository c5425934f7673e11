// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package slotsrp

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/momeni/campus-parking/pkg/adapter/db/postgres"
	"github.com/momeni/campus-parking/pkg/core/cerr"
	"github.com/momeni/campus-parking/pkg/core/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm/clause"
)

// Row is the gorm representation of a slots table row.
type Row struct {
	SID        uuid.UUID       `gorm:"primaryKey;type:uuid;column:sid"`
	Code       string          `gorm:"column:code"`
	ZoneID     uuid.UUID       `gorm:"type:uuid;column:zone_id"`
	SlotType   string          `gorm:"column:slot_type"`
	Rate       decimal.Decimal `gorm:"type:numeric(10,2);column:rate"`
	Status     string          `gorm:"column:status"`
	Bookable   bool            `gorm:"column:bookable"`
	ReservedBy uuid.NullUUID   `gorm:"type:uuid;column:reserved_by"`
	OccupiedBy uuid.NullUUID   `gorm:"type:uuid;column:occupied_by"`
}

// TableName returns the slots table name.
func (r *Row) TableName() string {
	return "slots"
}

// Model converts r to a model.Slot.
func (r *Row) Model() (*model.Slot, error) {
	typ, err := model.ParseSlotType(r.SlotType)
	if err != nil {
		return nil, fmt.Errorf("slot_type: %w", err)
	}
	st, err := model.ParseSlotStatus(r.Status)
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	s := &model.Slot{
		ID:       r.SID,
		Code:     r.Code,
		ZoneID:   r.ZoneID,
		Type:     typ,
		Rate:     r.Rate,
		Status:   st,
		Bookable: r.Bookable,
	}
	if r.ReservedBy.Valid {
		u := r.ReservedBy.UUID
		s.ReservedBy = &u
	}
	if r.OccupiedBy.Valid {
		v := r.OccupiedBy.UUID
		s.OccupiedBy = &v
	}
	return s, nil
}

// FromModel converts s to a slots table Row.
func FromModel(s *model.Slot) *Row {
	r := &Row{
		SID:      s.ID,
		Code:     s.Code,
		ZoneID:   s.ZoneID,
		SlotType: s.Type.String(),
		Rate:     s.Rate,
		Status:   s.Status.String(),
		Bookable: s.Bookable,
	}
	if s.ReservedBy != nil {
		r.ReservedBy = uuid.NullUUID{UUID: *s.ReservedBy, Valid: true}
	}
	if s.OccupiedBy != nil {
		r.OccupiedBy = uuid.NullUUID{UUID: *s.OccupiedBy, Valid: true}
	}
	return r
}

// ZoneRow is the gorm representation of a zones table row.
type ZoneRow struct {
	ZID      uuid.UUID        `gorm:"primaryKey;type:uuid;column:zid"`
	Code     string           `gorm:"column:code"`
	Name     string           `gorm:"column:name"`
	Address  string           `gorm:"column:address"`
	Location model.Coordinate `gorm:"embedded"`
}

// TableName returns the zones table name.
func (zr *ZoneRow) TableName() string {
	return "zones"
}

// Model converts zr to a model.Zone.
func (zr *ZoneRow) Model() *model.Zone {
	return &model.Zone{
		ID:       zr.ZID,
		Code:     zr.Code,
		Name:     zr.Name,
		Address:  zr.Address,
		Location: zr.Location,
	}
}

// Get fetches the id slot. If lock is true, the slot row is locked
// with a FOR UPDATE clause (so q must be a transaction) and other
// transactions which try to lock or update it have to wait until
// the q transaction ends.
func Get[Q postgres.Queryer](
	ctx context.Context, q Q, id model.SlotID, lock bool,
) (*model.Slot, error) {
	gdb := q.GORM(ctx)
	if lock {
		gdb = gdb.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var r Row
	err := gdb.Where("sid=?", id).Take(&r).Error
	if err != nil {
		return nil, postgres.Classify(err, "query slot", cerr.ErrSlotNotFound)
	}
	return r.Model()
}

// Zone fetches the id zone.
func Zone[Q postgres.Queryer](
	ctx context.Context, q Q, id model.ZoneID,
) (*model.Zone, error) {
	var zr ZoneRow
	err := q.GORM(ctx).Where("zid=?", id).Take(&zr).Error
	if err != nil {
		return nil, postgres.Classify(err, "query zone", cerr.ErrZoneNotFound)
	}
	return zr.Model(), nil
}

// SaveState updates the status, reserved_by, and occupied_by columns
// of the s slot.
func SaveState[Q postgres.Queryer](
	ctx context.Context, q Q, s *model.Slot,
) error {
	r := FromModel(s)
	res := q.GORM(ctx).Model(&Row{}).Where("sid=?", s.ID).Updates(
		map[string]any{
			"status":      r.Status,
			"reserved_by": r.ReservedBy,
			"occupied_by": r.OccupiedBy,
		},
	)
	if err := res.Error; err != nil {
		return postgres.Classify(err, "update slot", nil)
	}
	if n := res.RowsAffected; n != 1 {
		return cerr.NotFound(
			fmt.Errorf("%w: expected one row, but got %d", cerr.ErrSlotNotFound, n),
		)
	}
	return nil
}
