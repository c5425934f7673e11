// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package invoicesrp

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/campus-parking/pkg/adapter/db/postgres"
	"github.com/momeni/campus-parking/pkg/core/cerr"
	"github.com/momeni/campus-parking/pkg/core/model"
	"github.com/shopspring/decimal"
	"gopkg.in/guregu/null.v4"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Row is the gorm representation of an invoices table row.
type Row struct {
	IID         uuid.UUID       `gorm:"primaryKey;type:uuid;column:iid"`
	UserID      uuid.UUID       `gorm:"type:uuid;column:user_id"`
	SessionID   uuid.UUID       `gorm:"type:uuid;column:session_id"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);column:amount"`
	IssuedAt    time.Time       `gorm:"column:issued_at"`
	DueAt       null.Time       `gorm:"column:due_at"`
	Description string          `gorm:"column:description"`
	PaymentID   uuid.UUID       `gorm:"type:uuid;column:payment_id"`
}

// TableName returns the invoices table name.
func (r *Row) TableName() string {
	return "invoices"
}

// PaymentRow is the gorm representation of a payment_statuses row.
type PaymentRow struct {
	PID           uuid.UUID   `gorm:"primaryKey;type:uuid;column:pid"`
	Status        string      `gorm:"column:status"`
	ChangedAt     time.Time   `gorm:"column:changed_at"`
	TransactionID null.String `gorm:"column:transaction_id"`
}

// TableName returns the payment_statuses table name.
func (pr *PaymentRow) TableName() string {
	return "payment_statuses"
}

// joinedRow holds an invoice row and its payment status columns.
type joinedRow struct {
	Row            `gorm:"embedded"`
	PStatus        string      `gorm:"column:p_status"`
	PChangedAt     time.Time   `gorm:"column:p_changed_at"`
	PTransactionID null.String `gorm:"column:p_transaction_id"`
}

func (jr *joinedRow) Model() (*model.Invoice, error) {
	st, err := model.ParsePaymentState(jr.PStatus)
	if err != nil {
		return nil, fmt.Errorf("payment status: %w", err)
	}
	return &model.Invoice{
		ID:          jr.IID,
		UserID:      jr.UserID,
		SessionID:   jr.SessionID,
		Amount:      jr.Amount,
		IssuedAt:    jr.IssuedAt,
		DueAt:       jr.DueAt.Ptr(),
		Description: jr.Description,
		Payment: model.PaymentStatus{
			ID:            jr.PaymentID,
			State:         st,
			ChangedAt:     jr.PChangedAt,
			TransactionID: jr.PTransactionID.String,
		},
	}, nil
}

func selectJoined(gdb *gorm.DB) *gorm.DB {
	return gdb.Table("invoices AS i").Select(
		"i.*, p.status AS p_status, p.changed_at AS p_changed_at, " +
			"p.transaction_id AS p_transaction_id",
	).Joins("JOIN payment_statuses AS p ON p.pid = i.payment_id")
}

// Get fetches the id invoice with its payment status. If lock is true,
// both rows are locked until the end of the q transaction.
func Get[Q postgres.Queryer](
	ctx context.Context, q Q, id model.InvoiceID, lock bool,
) (*model.Invoice, error) {
	gdb := selectJoined(q.GORM(ctx)).Where("i.iid=?", id)
	if lock {
		gdb = gdb.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var jrs []joinedRow
	if err := gdb.Limit(1).Scan(&jrs).Error; err != nil {
		return nil, postgres.Classify(err, "query invoice", nil)
	}
	if len(jrs) == 0 {
		return nil, cerr.NotFound(cerr.ErrInvoiceNotFound)
	}
	return jrs[0].Model()
}

// List fetches the invoices which match f, newest first.
func List[Q postgres.Queryer](
	ctx context.Context, q Q, f model.InvoiceFilter,
) ([]model.Invoice, error) {
	gdb := selectJoined(q.GORM(ctx))
	if f.UserID != nil {
		gdb = gdb.Where("i.user_id=?", *f.UserID)
	}
	if f.State != nil {
		gdb = gdb.Where("p.status=?", f.State.String())
	}
	if f.Limit > 0 {
		gdb = gdb.Limit(f.Limit)
	}
	var jrs []joinedRow
	err := gdb.Order("i.issued_at DESC").Order("i.iid").Scan(&jrs).Error
	if err != nil {
		return nil, postgres.Classify(err, "query invoices", nil)
	}
	invs := make([]model.Invoice, 0, len(jrs))
	for i := range jrs {
		inv, err := jrs[i].Model()
		if err != nil {
			return nil, fmt.Errorf("invoice %s: %w", jrs[i].IID, err)
		}
		invs = append(invs, *inv)
	}
	return invs, nil
}

// Create inserts the payment status of inv and then inv itself.
func Create[Q postgres.Queryer](
	ctx context.Context, q Q, inv *model.Invoice,
) error {
	gdb := q.GORM(ctx)
	pr := &PaymentRow{
		PID:           inv.Payment.ID,
		Status:        inv.Payment.State.String(),
		ChangedAt:     inv.Payment.ChangedAt,
		TransactionID: null.NewString(inv.Payment.TransactionID, inv.Payment.TransactionID != ""),
	}
	if err := gdb.Create(pr).Error; err != nil {
		return postgres.Classify(err, "insert payment status", nil)
	}
	r := &Row{
		IID:         inv.ID,
		UserID:      inv.UserID,
		SessionID:   inv.SessionID,
		Amount:      inv.Amount,
		IssuedAt:    inv.IssuedAt,
		DueAt:       null.TimeFromPtr(inv.DueAt),
		Description: inv.Description,
		PaymentID:   inv.Payment.ID,
	}
	if err := gdb.Create(r).Error; err != nil {
		return postgres.Classify(err, "insert invoice", nil)
	}
	return nil
}

// Update persists the amount and the payment status of inv.
func Update[Q postgres.Queryer](
	ctx context.Context, q Q, inv *model.Invoice,
) error {
	gdb := q.GORM(ctx)
	res := gdb.Model(&Row{}).Where("iid=?", inv.ID).Update(
		"amount", inv.Amount,
	)
	if err := res.Error; err != nil {
		return postgres.Classify(err, "update invoice", nil)
	}
	if res.RowsAffected != 1 {
		return cerr.NotFound(cerr.ErrInvoiceNotFound)
	}
	p := inv.Payment
	res = gdb.Model(&PaymentRow{}).Where("pid=?", p.ID).Updates(
		map[string]any{
			"status":         p.State.String(),
			"changed_at":     p.ChangedAt,
			"transaction_id": null.NewString(p.TransactionID, p.TransactionID != ""),
		},
	)
	if err := res.Error; err != nil {
		return postgres.Classify(err, "update payment status", nil)
	}
	if n := res.RowsAffected; n != 1 {
		return fmt.Errorf("payment status: expected one row, but got %d", n)
	}
	return nil
}
