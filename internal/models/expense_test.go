package models_test

import (
	"strings"
	"testing"
	"time"

	"github.com/fincontrol/backend/internal/models"
	"github.com/fincontrol/backend/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestExpenseValidation() {
	tests := []struct {
		name    string
		expense models.Expense
		err     error
	}{
		{
			"No description",
			models.Expense{Amount: decimal.NewFromFloat(10)},
			models.ErrExpenseDescriptionRequired,
		},
		{
			"Whitespace description",
			models.Expense{Description: " \t ", Amount: decimal.NewFromFloat(10)},
			models.ErrExpenseDescriptionRequired,
		},
		{
			"Zero amount",
			models.Expense{Description: "Coffee"},
			models.ErrExpenseAmountNotPositive,
		},
		{
			"Negative amount",
			models.Expense{Description: "Coffee", Amount: decimal.NewFromFloat(-3.50)},
			models.ErrExpenseAmountNotPositive,
		},
		{
			"Unknown type",
			models.Expense{Description: "Coffee", Amount: decimal.NewFromFloat(3.50), Type: "TRANSFER"},
			models.ErrExpenseTypeInvalid,
		},
		{
			"Valid",
			models.Expense{Description: "Coffee", Amount: decimal.NewFromFloat(3.50)},
			nil,
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			err := models.DB.Create(&tt.expense).Error
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func (suite *TestSuiteStandard) TestExpenseDefaults() {
	expense := suite.createTestExpense(models.Expense{
		Description: "Supermarket",
		Amount:      decimal.NewFromFloat(54.30),
	})

	assert.Equal(suite.T(), models.TypeExpense, expense.Type)
	assert.False(suite.T(), expense.Date.IsZero(), "date should default to now")
	assert.Equal(suite.T(), time.UTC, expense.Date.Location())
}

func (suite *TestSuiteStandard) TestExpenseTrimWhitespace() {
	description := "  Bus ticket \t"
	note := " Monthly pass candidate   "

	expense := suite.createTestExpense(models.Expense{
		Description: description,
		Note:        note,
		Amount:      decimal.NewFromFloat(4.40),
	})

	assert.Equal(suite.T(), strings.TrimSpace(description), expense.Description)
	assert.Equal(suite.T(), strings.TrimSpace(note), expense.Note)
}

func (suite *TestSuiteStandard) TestExpenseCategoryLabelFollowsReference() {
	budget := suite.createTestBudget(models.MonthlyBudget{Month: types.NewMonth(2024, 8)})
	category := suite.createTestCategory(models.BudgetCategory{BudgetID: budget.ID, Name: "Food"})

	expense := suite.createTestExpense(models.Expense{
		Description: "Groceries",
		Amount:      decimal.NewFromFloat(80),
		Category:    "Something else",
		CategoryID:  &category.ID,
	})

	assert.Equal(suite.T(), "Food", expense.Category, "label must follow the structured reference")
}

func (suite *TestSuiteStandard) TestExpenseInvalidCategoryReference() {
	id := uint(4096)
	expense := models.Expense{
		Description: "Groceries",
		Amount:      decimal.NewFromFloat(80),
		CategoryID:  &id,
	}

	err := models.DB.Create(&expense).Error
	assert.ErrorIs(suite.T(), err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestExpenseAutoCategorization() {
	_ = suite.createTestRule(models.CategoryRule{Priority: 2, Match: "Uber*", Category: "Transport"})
	_ = suite.createTestRule(models.CategoryRule{Priority: 1, Match: "Uber Eats*", Category: "Food"})

	tests := []struct {
		description string
		category    string
	}{
		{"Uber Eats order 4711", "Food"},
		{"Uber trip downtown", "Transport"},
		{"Cinema", ""},
	}

	for _, tt := range tests {
		expense := suite.createTestExpense(models.Expense{
			Description: tt.description,
			Amount:      decimal.NewFromFloat(20),
		})

		assert.Equal(suite.T(), tt.category, expense.Category, "wrong category for %s", tt.description)
	}
}

func (suite *TestSuiteStandard) TestExpenseAutoCategorizationSkipsCategorized() {
	_ = suite.createTestRule(models.CategoryRule{Priority: 1, Match: "*", Category: "Catch all"})

	expense := suite.createTestExpense(models.Expense{
		Description: "Groceries",
		Amount:      decimal.NewFromFloat(80),
		Category:    "Food",
	})

	assert.Equal(suite.T(), "Food", expense.Category)
}

func (suite *TestSuiteStandard) TestTypeSum() {
	date := time.Date(2024, 8, 10, 0, 0, 0, 0, time.UTC)

	_ = suite.createTestExpense(models.Expense{Description: "Salary", Amount: decimal.NewFromFloat(3000), Type: models.TypeIncome, Date: date})
	_ = suite.createTestExpense(models.Expense{Description: "Rent", Amount: decimal.NewFromFloat(1200), Date: date})
	_ = suite.createTestExpense(models.Expense{Description: "Groceries", Amount: decimal.NewFromFloat(300.50), Date: date})

	expenses, err := models.TypeSum(models.DB, models.TypeExpense, date.AddDate(0, 0, -1), date.AddDate(0, 0, 1))
	assert.Nil(suite.T(), err)
	assert.True(suite.T(), expenses.Equal(decimal.NewFromFloat(1500.50)), "expense sum is %s", expenses)

	income, err := models.TypeSum(models.DB, models.TypeIncome, date.AddDate(0, 0, -1), date.AddDate(0, 0, 1))
	assert.Nil(suite.T(), err)
	assert.True(suite.T(), income.Equal(decimal.NewFromFloat(3000)), "income sum is %s", income)
}

func (suite *TestSuiteStandard) TestCategorySums() {
	date := time.Date(2024, 8, 10, 0, 0, 0, 0, time.UTC)

	_ = suite.createTestExpense(models.Expense{Description: "Groceries", Category: "Food", Amount: decimal.NewFromFloat(100), Date: date})
	_ = suite.createTestExpense(models.Expense{Description: "Restaurant", Category: "Food", Amount: decimal.NewFromFloat(60), Date: date})
	_ = suite.createTestExpense(models.Expense{Description: "Bus", Category: "Transport", Amount: decimal.NewFromFloat(4.40), Date: date})

	sums, err := models.CategorySums(models.DB, models.TypeExpense, date.AddDate(0, 0, -1), date.AddDate(0, 0, 1))
	assert.Nil(suite.T(), err)
	assert.Len(suite.T(), sums, 2)
	assert.True(suite.T(), sums["Food"].Equal(decimal.NewFromFloat(160)), "food sum is %s", sums["Food"])
	assert.True(suite.T(), sums["Transport"].Equal(decimal.NewFromFloat(4.40)), "transport sum is %s", sums["Transport"])
}
