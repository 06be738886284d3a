package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fincontrol/backend/internal/money"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultAlertThreshold is the spending percentage above which a
// category is flagged when no threshold is configured.
const DefaultAlertThreshold = 80

var (
	ErrCategoryNameRequired    = errors.New("the category name must not be empty")
	ErrCategoryPlannedNegative = errors.New("the planned amount must not be negative")
	ErrCategoryThresholdRange  = errors.New("the alert threshold must be between 0 and 100")
)

// BudgetCategory is a named spending envelope within a monthly budget.
type BudgetCategory struct {
	DefaultModel
	BudgetID       uint            `json:"budgetId"`
	Name           string          `json:"name" example:"Food"`
	PlannedAmount  decimal.Decimal `json:"plannedAmount" gorm:"type:DECIMAL(20,8)" example:"450.00"`
	AlertThreshold *uint           `json:"alertThreshold" example:"80"` // Percentage of the planned amount, nil selects the default of 80. 0 alerts on any spending
	Note           string          `json:"note" example:"Includes eating out"`
}

func (c *BudgetCategory) BeforeSave(_ *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Note = strings.TrimSpace(c.Note)

	if c.Name == "" {
		return ErrCategoryNameRequired
	}

	if c.PlannedAmount.IsNegative() {
		return ErrCategoryPlannedNegative
	}

	if c.AlertThreshold != nil && *c.AlertThreshold > 100 {
		return ErrCategoryThresholdRange
	}

	return nil
}

func (c *BudgetCategory) BeforeCreate(_ *gorm.DB) error {
	// An explicit 0 is kept, it means alerting on any spending
	if c.AlertThreshold == nil {
		threshold := uint(DefaultAlertThreshold)
		c.AlertThreshold = &threshold
	}

	return nil
}

// Realized returns the sum of expense amounts linked to the category.
func (c BudgetCategory) Realized(db *gorm.DB) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := db.
		Table("expenses").
		Where("category_id = ?", c.ID).
		Select("SUM(amount)").
		Row().
		Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("could not compute the realized amount: %w", err)
	}

	if !sum.Valid {
		return decimal.Zero, nil
	}

	return sum.Decimal, nil
}

// RealizedPercentage returns the realized amount as a percentage of the
// planned amount, rounded half up to two decimal places. It is zero when
// nothing is planned.
func (c BudgetCategory) RealizedPercentage(db *gorm.DB) (decimal.Decimal, error) {
	realized, err := c.Realized(db)
	if err != nil {
		return decimal.Zero, err
	}

	return money.Percentage(realized, c.PlannedAmount, 2), nil
}

// AlertActive reports whether spending in the category has reached the
// alert threshold.
func (c BudgetCategory) AlertActive(db *gorm.DB) (bool, error) {
	percentage, err := c.RealizedPercentage(db)
	if err != nil {
		return false, err
	}

	threshold := uint(DefaultAlertThreshold)
	if c.AlertThreshold != nil {
		threshold = *c.AlertThreshold
	}

	return percentage.GreaterThanOrEqual(decimal.NewFromInt(int64(threshold))), nil
}
