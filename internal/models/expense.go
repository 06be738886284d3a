package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fincontrol/backend/internal/money"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Entry types. The values are kept as the Portuguese tags the historic
// data uses, changing them would corrupt existing databases.
const (
	TypeExpense = "DESPESA"
	TypeIncome  = "RECEITA"
)

var (
	ErrExpenseDescriptionRequired = errors.New("the expense description must not be empty")
	ErrExpenseAmountNotPositive   = errors.New("the expense amount must be larger than zero")
	ErrExpenseTypeInvalid         = fmt.Errorf("the expense type must be %s or %s", TypeExpense, TypeIncome)
)

// Expense is a single entry in the ledger, either money spent or money
// received.
//
// The category is stored twice: as a free-text label and, when the label
// corresponds to a category of a monthly budget, as a structured
// reference. The label is the source of truth, the reference exists for
// budget tracking.
type Expense struct {
	DefaultModel
	Description string          `json:"description" example:"Groceries at the market"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)" example:"27.99"`
	Type        string          `json:"type" example:"DESPESA"`
	Category    string          `json:"category" example:"Food"`
	Date        time.Time       `json:"date" example:"2024-08-12T00:00:00Z"`
	Note        string          `json:"note" example:"Paid in cash"`
	CategoryID  *uint           `json:"categoryId"`
	BudgetID    *uint           `json:"budgetId"`
}

func (e *Expense) BeforeSave(tx *gorm.DB) error {
	e.Description = strings.TrimSpace(e.Description)
	e.Category = strings.TrimSpace(e.Category)
	e.Note = strings.TrimSpace(e.Note)

	if e.Description == "" {
		return ErrExpenseDescriptionRequired
	}

	if !e.Amount.IsPositive() {
		return ErrExpenseAmountNotPositive
	}

	if e.Type == "" {
		e.Type = TypeExpense
	}

	if e.Type != TypeExpense && e.Type != TypeIncome {
		return ErrExpenseTypeInvalid
	}

	// Default the date to the time of creation
	if e.Date.IsZero() {
		e.Date = time.Now().In(time.UTC)
	} else {
		e.Date = e.Date.In(time.UTC)
	}

	if e.CategoryID != nil && *e.CategoryID == 0 {
		e.CategoryID = nil
	}

	// The label follows the structured reference when one is set
	if e.CategoryID != nil {
		var category BudgetCategory
		err := tx.First(&category, *e.CategoryID).Error
		if err != nil {
			return err
		}

		e.Category = category.Name
	}

	return nil
}

// BeforeCreate applies the category match rules to entries that are
// created without a category.
func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	if e.Category == "" && e.CategoryID == nil {
		category, ok := matchCategory(tx, e.Description)
		if ok {
			e.Category = category
		}
	}

	return nil
}

func (e *Expense) AfterFind(tx *gorm.DB) error {
	err := e.DefaultModel.AfterFind(tx)
	if err != nil {
		return err
	}

	e.Date = e.Date.In(time.UTC)
	return nil
}

// expenseSum returns the sum of all expense amounts linked to a monthly
// budget.
func expenseSum(db *gorm.DB, budgetID uint) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := db.
		Table("expenses").
		Where("budget_id = ?", budgetID).
		Select("SUM(amount)").
		Row().
		Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("could not compute the sum of expenses: %w", err)
	}

	// If no expenses are linked, the value is nil
	if !sum.Valid {
		return decimal.Zero, nil
	}

	return sum.Decimal, nil
}

// CategorySums returns the sum of expense amounts per category label for
// all entries of the given type with a date in [from, to).
func CategorySums(db *gorm.DB, entryType string, from, to time.Time) (map[string]decimal.Decimal, error) {
	type row struct {
		Category string
		Sum      decimal.Decimal
	}

	var rows []row
	err := db.
		Table("expenses").
		Where("type = ? AND date >= ? AND date < ?", entryType, from, to).
		Select("category, SUM(amount) AS sum").
		Group("category").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("could not compute the sums per category: %w", err)
	}

	sums := make(map[string]decimal.Decimal, len(rows))
	for _, r := range rows {
		sums[r.Category] = r.Sum
	}

	return sums, nil
}

// TypeSum returns the sum of expense amounts for all entries of the
// given type with a date in [from, to).
func TypeSum(db *gorm.DB, entryType string, from, to time.Time) (decimal.Decimal, error) {
	var expenses []Expense
	err := db.
		Where("type = ? AND date >= ? AND date < ?", entryType, from, to).
		Find(&expenses).Error
	if err != nil {
		return decimal.Zero, err
	}

	amounts := make([]decimal.Decimal, 0, len(expenses))
	for _, expense := range expenses {
		amounts = append(amounts, expense.Amount)
	}

	return money.Sum(amounts), nil
}
