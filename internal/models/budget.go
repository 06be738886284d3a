package models

import (
	"errors"
	"fmt"

	"github.com/fincontrol/backend/internal/money"
	"github.com/fincontrol/backend/internal/types"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrBudgetMonthRequired        = errors.New("the budget month must be set")
	ErrBudgetSavingsTargetInvalid = errors.New("the savings target must not be negative")
)

// MonthlyBudget is the spending plan for a single month, made up of
// planned amounts per category.
//
// Month uniqueness is not enforced by the schema. Historic databases
// contain months with more than one budget, ForMonth documents how those
// are resolved.
type MonthlyBudget struct {
	DefaultModel
	Month         types.Month      `json:"month" gorm:"index" example:"2024-08"`
	SavingsTarget decimal.Decimal  `json:"savingsTarget" gorm:"type:DECIMAL(20,8)" example:"300.00"` // Amount that should be left over at the end of the month
	Total         decimal.Decimal  `json:"total" gorm:"type:DECIMAL(20,8)" example:"1021.17"`        // Denormalized sum of linked expense amounts
	Note          string           `json:"note" example:"Vacation month"`
	Categories    []BudgetCategory `json:"categories" gorm:"foreignKey:BudgetID;constraint:OnDelete:CASCADE"`
	Expenses      []Expense        `json:"-" gorm:"foreignKey:BudgetID;constraint:OnDelete:SET NULL"`
}

func (b *MonthlyBudget) BeforeSave(_ *gorm.DB) error {
	if b.Month.IsZero() {
		return ErrBudgetMonthRequired
	}

	if b.SavingsTarget.IsNegative() {
		return ErrBudgetSavingsTargetInvalid
	}

	return nil
}

// AfterSave refreshes the denormalized total. The column is a display
// cache, reads that need the realized amount recompute it.
func (b *MonthlyBudget) AfterSave(tx *gorm.DB) error {
	sum, err := expenseSum(tx, b.ID)
	if err != nil {
		return err
	}

	if b.Total.Equal(sum) {
		return nil
	}

	b.Total = sum

	// UpdateColumn skips the hooks, otherwise this would recurse
	return tx.Model(&MonthlyBudget{}).Where("id = ?", b.ID).UpdateColumn("total", sum).Error
}

// ForMonth returns the budget for a month, creating an empty one when
// none exists.
//
// When more than one budget exists for the month, the one with the
// highest ID wins and a warning is logged. The others are kept, cleaning
// them up is a manual operation.
func ForMonth(db *gorm.DB, month types.Month) (MonthlyBudget, error) {
	var budgets []MonthlyBudget
	err := db.Where("month = ?", month).Order("id DESC").Find(&budgets).Error
	if err != nil {
		return MonthlyBudget{}, err
	}

	if len(budgets) > 1 {
		log.Warn().
			Str("month", month.String()).
			Int("count", len(budgets)).
			Msg("multiple budgets exist for one month, using the newest one")
	}

	if len(budgets) > 0 {
		return budgets[0], nil
	}

	budget := MonthlyBudget{Month: month}
	err = db.Create(&budget).Error
	if err != nil {
		return MonthlyBudget{}, err
	}

	return budget, nil
}

// Latest returns the budget for the most recent month. It is used as a
// fallback when no budget exists for a requested month.
func Latest(db *gorm.DB) (MonthlyBudget, error) {
	var budget MonthlyBudget
	err := db.Order("month DESC, id DESC").First(&budget).Error
	return budget, err
}

// AddCategory creates a category within the budget.
func (b MonthlyBudget) AddCategory(db *gorm.DB, category BudgetCategory) (BudgetCategory, error) {
	category.BudgetID = b.ID
	err := db.Create(&category).Error
	return category, err
}

// RemoveCategory deletes a category from the budget.
//
// Expenses referencing the category keep their free-text label, only the
// structured reference is cleared.
func (b MonthlyBudget) RemoveCategory(db *gorm.DB, categoryID uint) error {
	var category BudgetCategory
	err := db.Where("budget_id = ?", b.ID).First(&category, categoryID).Error
	if err != nil {
		return err
	}

	// UpdateColumn skips the expense hooks, the label must not be
	// rewritten while detaching
	err = db.Model(&Expense{}).
		Where("category_id = ?", category.ID).
		UpdateColumn("category_id", nil).Error
	if err != nil {
		return err
	}

	return db.Delete(&category).Error
}

// TotalPlanned returns the sum of the planned amounts of all categories
// of the budget.
func (b MonthlyBudget) TotalPlanned(db *gorm.DB) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := db.
		Table("budget_categories").
		Where("budget_id = ?", b.ID).
		Select("SUM(planned_amount)").
		Row().
		Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("could not compute the planned total: %w", err)
	}

	if !sum.Valid {
		return decimal.Zero, nil
	}

	return sum.Decimal, nil
}

// TotalRealized returns the sum of all mirror amounts within the budget
// month.
//
// This deliberately sums every entry of the month, not only the ones
// linked to this budget, since realized spending exists independently of
// budget planning.
func (b MonthlyBudget) TotalRealized(db *gorm.DB) (decimal.Decimal, error) {
	return MirrorSum(db, b.Month.First(), b.Month.Last())
}

// BudgetSummary is the per-month overview of planned against realized
// spending.
type BudgetSummary struct {
	Month      types.Month     `json:"month" example:"2024-08"`
	Planned    decimal.Decimal `json:"planned" example:"1200.00"`
	Realized   decimal.Decimal `json:"realized" example:"1021.17"`
	Balance    decimal.Decimal `json:"balance" example:"178.83"`   // Planned minus realized, negative when overspent
	Percentage decimal.Decimal `json:"percentage" example:"85.10"` // Realized as a percentage of planned
}

// Summary computes the overview of the budget.
func (b MonthlyBudget) Summary(db *gorm.DB) (BudgetSummary, error) {
	planned, err := b.TotalPlanned(db)
	if err != nil {
		return BudgetSummary{}, err
	}

	realized, err := b.TotalRealized(db)
	if err != nil {
		return BudgetSummary{}, err
	}

	return BudgetSummary{
		Month:      b.Month,
		Planned:    planned,
		Realized:   realized,
		Balance:    planned.Sub(realized),
		Percentage: money.Percentage(realized, planned, 2),
	}, nil
}

// LinkToBudget attaches the expense to the budget of the given month,
// creating the budget on demand.
//
// Linking an already linked expense to another month moves it there, the
// expense belongs to at most one budget.
func (e *Expense) LinkToBudget(db *gorm.DB, month types.Month) (MonthlyBudget, error) {
	previous := e.BudgetID

	// A single transaction, a partial link must not leave an empty
	// budget or a stale total behind
	var budget MonthlyBudget
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		budget, err = ForMonth(tx, month)
		if err != nil {
			return err
		}

		e.BudgetID = &budget.ID
		err = tx.Model(e).UpdateColumn("budget_id", budget.ID).Error
		if err != nil {
			return err
		}

		err = refreshTotal(tx, budget.ID)
		if err != nil {
			return err
		}

		if previous != nil && *previous != budget.ID {
			return refreshTotal(tx, *previous)
		}

		return nil
	})
	if err != nil {
		e.BudgetID = previous
		return MonthlyBudget{}, err
	}

	return budget, nil
}

// refreshTotal recomputes the denormalized total of a budget.
func refreshTotal(db *gorm.DB, budgetID uint) error {
	sum, err := expenseSum(db, budgetID)
	if err != nil {
		return err
	}

	return db.Model(&MonthlyBudget{}).Where("id = ?", budgetID).UpdateColumn("total", sum).Error
}
