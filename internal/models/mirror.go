package models

import (
	"errors"
	"fmt"

	"github.com/fincontrol/backend/internal/types"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ExpenseMirror is the flattened copy of a ledger entry that the monthly
// summaries are computed from.
//
// The table predates the ledger and is kept for compatibility with
// existing databases and the tools reading them. It stores dates at day
// granularity so realized sums are plain range queries.
type ExpenseMirror struct {
	DefaultModel
	Description string          `json:"description" example:"Groceries at the market"`
	Category    string          `json:"category" example:"Food"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)" example:"27.99"`
	Date        types.Date      `json:"date" gorm:"index" example:"2024-08-12"`
	ExpenseID   uint            `json:"expenseId" gorm:"index"`
}

// SyncMirror upserts the mirror row of an expense.
//
// The sync is best-effort: the ledger write has already committed when
// this runs, so every failure here is logged and swallowed. The ledger
// is the source of truth, a stale mirror row is preferable to a failed
// expense write.
func SyncMirror(db *gorm.DB, expense Expense) {
	var mirror ExpenseMirror
	err := db.Where(&ExpenseMirror{ExpenseID: expense.ID}).First(&mirror).Error
	if err != nil && !errors.Is(err, ErrResourceNotFound) {
		log.Error().Err(err).Uint("expenseId", expense.ID).Msg("could not read the mirror entry, skipping the sync")
		return
	}

	mirror.ExpenseID = expense.ID
	mirror.Description = expense.Description
	mirror.Category = expense.Category
	mirror.Amount = expense.Amount

	if expense.Date.IsZero() {
		mirror.Date = types.Today()
	} else {
		mirror.Date = types.DateOf(expense.Date)
	}

	err = db.Save(&mirror).Error
	if err != nil {
		log.Error().Err(err).Uint("expenseId", expense.ID).Msg("could not write the mirror entry, the monthly summary will lag behind")
	}
}

// RemoveMirror deletes the mirror row of an expense.
//
// Like SyncMirror, failures are logged and swallowed so that deleting
// the ledger entry proceeds regardless.
func RemoveMirror(db *gorm.DB, expenseID uint) {
	err := db.Where("expense_id = ?", expenseID).Delete(&ExpenseMirror{}).Error
	if err != nil {
		log.Warn().Err(err).Uint("expenseId", expenseID).Msg("could not delete the mirror entry")
	}
}

// MirrorSum returns the sum of all mirror amounts with a date between
// from and to, both inclusive.
func MirrorSum(db *gorm.DB, from, to types.Date) (decimal.Decimal, error) {
	// The column stores a timestamp, so the inclusive upper bound is
	// checked exclusively against the following day
	var sum decimal.NullDecimal
	err := db.
		Table("expense_mirrors").
		Where("date >= date(?) AND date < date(?)", from, to.AddDate(0, 0, 1)).
		Select("SUM(amount)").
		Row().
		Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("could not compute the mirror sum: %w", err)
	}

	// If no entries exist in the range, the value is nil
	if !sum.Valid {
		return decimal.Zero, nil
	}

	return sum.Decimal, nil
}
