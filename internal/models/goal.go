package models

import (
	"errors"
	"strings"
	"time"

	"github.com/fincontrol/backend/internal/money"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrGoalDescriptionRequired = errors.New("the goal description must not be empty")
	ErrGoalTargetNotPositive   = errors.New("the goal target amount must be larger than zero")
	ErrGoalCurrentNegative     = errors.New("the saved amount must not be negative")
	ErrGoalEndBeforeStart      = errors.New("the goal end date must be after its start date")
)

// Goal is a savings goal, tracked independently of the monthly budgets.
type Goal struct {
	DefaultModel
	Description   string          `json:"description" example:"Emergency fund"`
	TargetAmount  decimal.Decimal `json:"targetAmount" gorm:"type:DECIMAL(20,8)" example:"5000.00"`
	CurrentAmount decimal.Decimal `json:"currentAmount" gorm:"type:DECIMAL(20,8)" example:"1250.00"`
	StartDate     time.Time       `json:"startDate" example:"2024-01-01T00:00:00Z"`
	EndDate       *time.Time      `json:"endDate" example:"2024-12-31T00:00:00Z"`
	Recurring     bool            `json:"recurring" example:"false"` // Recurring goals reset their saved amount when reached
	Kind          string          `json:"kind" example:"ECONOMIA"`   // Free-text classification
}

func (g *Goal) BeforeSave(_ *gorm.DB) error {
	g.Description = strings.TrimSpace(g.Description)
	g.Kind = strings.TrimSpace(g.Kind)

	if g.Description == "" {
		return ErrGoalDescriptionRequired
	}

	if !g.TargetAmount.IsPositive() {
		return ErrGoalTargetNotPositive
	}

	if g.CurrentAmount.IsNegative() {
		return ErrGoalCurrentNegative
	}

	if g.StartDate.IsZero() {
		g.StartDate = time.Now().In(time.UTC)
	} else {
		g.StartDate = g.StartDate.In(time.UTC)
	}

	if g.EndDate != nil {
		end := g.EndDate.In(time.UTC)
		g.EndDate = &end

		if !g.EndDate.After(g.StartDate) {
			return ErrGoalEndBeforeStart
		}
	}

	return nil
}

// Progress returns the saved amount as a percentage of the target,
// rounded half up to two decimal places.
func (g Goal) Progress() decimal.Decimal {
	return money.Percentage(g.CurrentAmount, g.TargetAmount, 2)
}

// Reached reports whether the saved amount covers the target.
func (g Goal) Reached() bool {
	return g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount)
}
