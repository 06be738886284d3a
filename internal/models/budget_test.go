package models_test

import (
	"testing"
	"time"

	"github.com/fincontrol/backend/internal/models"
	"github.com/fincontrol/backend/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestBudgetValidation() {
	tests := []struct {
		name   string
		budget models.MonthlyBudget
		err    error
	}{
		{
			"No month",
			models.MonthlyBudget{},
			models.ErrBudgetMonthRequired,
		},
		{
			"Negative savings target",
			models.MonthlyBudget{Month: types.NewMonth(2024, 8), SavingsTarget: decimal.NewFromFloat(-1)},
			models.ErrBudgetSavingsTargetInvalid,
		},
		{
			"Valid",
			models.MonthlyBudget{Month: types.NewMonth(2024, 8)},
			nil,
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			err := models.DB.Create(&tt.budget).Error
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func (suite *TestSuiteStandard) TestForMonthCreates() {
	month := types.NewMonth(2024, 8)

	budget, err := models.ForMonth(models.DB, month)
	require.Nil(suite.T(), err)
	assert.True(suite.T(), budget.Month.Equal(month))
	assert.NotZero(suite.T(), budget.ID)

	var count int64
	models.DB.Model(&models.MonthlyBudget{}).Count(&count)
	assert.Equal(suite.T(), int64(1), count)
}

func (suite *TestSuiteStandard) TestForMonthReturnsExisting() {
	month := types.NewMonth(2024, 8)
	existing := suite.createTestBudget(models.MonthlyBudget{Month: month})

	budget, err := models.ForMonth(models.DB, month)
	require.Nil(suite.T(), err)
	assert.Equal(suite.T(), existing.ID, budget.ID)

	var count int64
	models.DB.Model(&models.MonthlyBudget{}).Count(&count)
	assert.Equal(suite.T(), int64(1), count, "no duplicate budget may be created")
}

func (suite *TestSuiteStandard) TestForMonthDuplicateMonths() {
	// Duplicate months exist in historic databases. The newest budget
	// wins, the older ones are kept untouched.
	month := types.NewMonth(2024, 8)
	_ = suite.createTestBudget(models.MonthlyBudget{Month: month})
	newest := suite.createTestBudget(models.MonthlyBudget{Month: month})

	budget, err := models.ForMonth(models.DB, month)
	require.Nil(suite.T(), err)
	assert.Equal(suite.T(), newest.ID, budget.ID)

	var count int64
	models.DB.Model(&models.MonthlyBudget{}).Count(&count)
	assert.Equal(suite.T(), int64(2), count)
}

func (suite *TestSuiteStandard) TestLatest() {
	_, err := models.Latest(models.DB)
	assert.ErrorIs(suite.T(), err, models.ErrResourceNotFound)

	_ = suite.createTestBudget(models.MonthlyBudget{Month: types.NewMonth(2024, 6)})
	newest := suite.createTestBudget(models.MonthlyBudget{Month: types.NewMonth(2024, 8)})
	_ = suite.createTestBudget(models.MonthlyBudget{Month: types.NewMonth(2024, 7)})

	budget, err := models.Latest(models.DB)
	require.Nil(suite.T(), err)
	assert.Equal(suite.T(), newest.ID, budget.ID)
}

func (suite *TestSuiteStandard) TestAddAndRemoveCategory() {
	budget := suite.createTestBudget(models.MonthlyBudget{Month: types.NewMonth(2024, 8)})

	category, err := budget.AddCategory(models.DB, models.BudgetCategory{
		Name:          "Food",
		PlannedAmount: decimal.NewFromFloat(450),
	})
	require.Nil(suite.T(), err)
	assert.Equal(suite.T(), budget.ID, category.BudgetID)

	expense := suite.createTestExpense(models.Expense{
		Description: "Groceries",
		Amount:      decimal.NewFromFloat(80),
		CategoryID:  &category.ID,
	})

	err = budget.RemoveCategory(models.DB, category.ID)
	require.Nil(suite.T(), err)

	// The category is gone, the expense keeps its label
	var reloaded models.Expense
	require.Nil(suite.T(), models.DB.First(&reloaded, expense.ID).Error)
	assert.Nil(suite.T(), reloaded.CategoryID)
	assert.Equal(suite.T(), "Food", reloaded.Category)

	err = budget.RemoveCategory(models.DB, category.ID)
	assert.ErrorIs(suite.T(), err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestRemoveCategoryOtherBudget() {
	budget := suite.createTestBudget(models.MonthlyBudget{Month: types.NewMonth(2024, 8)})
	other := suite.createTestBudget(models.MonthlyBudget{Month: types.NewMonth(2024, 9)})
	category := suite.createTestCategory(models.BudgetCategory{BudgetID: other.ID})

	err := budget.RemoveCategory(models.DB, category.ID)
	assert.ErrorIs(suite.T(), err, models.ErrResourceNotFound, "categories of other budgets must not be removable")
}

func (suite *TestSuiteStandard) TestTotalPlanned() {
	budget := suite.createTestBudget(models.MonthlyBudget{Month: types.NewMonth(2024, 8)})

	total, err := budget.TotalPlanned(models.DB)
	require.Nil(suite.T(), err)
	assert.True(suite.T(), total.IsZero(), "planned total of an empty budget is %s", total)

	_ = suite.createTestCategory(models.BudgetCategory{BudgetID: budget.ID, Name: "Food", PlannedAmount: decimal.NewFromFloat(450)})
	_ = suite.createTestCategory(models.BudgetCategory{BudgetID: budget.ID, Name: "Transport", PlannedAmount: decimal.NewFromFloat(150.50)})

	total, err = budget.TotalPlanned(models.DB)
	require.Nil(suite.T(), err)
	assert.True(suite.T(), total.Equal(decimal.NewFromFloat(600.50)), "planned total is %s", total)
}

func (suite *TestSuiteStandard) TestSummary() {
	month := types.NewMonth(2024, 8)
	budget := suite.createTestBudget(models.MonthlyBudget{Month: month})
	_ = suite.createTestCategory(models.BudgetCategory{BudgetID: budget.ID, Name: "Food", PlannedAmount: decimal.NewFromFloat(1000)})

	expense := suite.createTestExpense(models.Expense{
		Description: "Groceries",
		Amount:      decimal.NewFromFloat(250),
		Date:        time.Date(2024, 8, 12, 14, 0, 0, 0, time.UTC),
	})
	models.SyncMirror(models.DB, expense)

	// An entry outside the month must not count
	outside := suite.createTestExpense(models.Expense{
		Description: "Groceries",
		Amount:      decimal.NewFromFloat(99),
		Date:        time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC),
	})
	models.SyncMirror(models.DB, outside)

	summary, err := budget.Summary(models.DB)
	require.Nil(suite.T(), err)

	assert.True(suite.T(), summary.Planned.Equal(decimal.NewFromFloat(1000)), "planned is %s", summary.Planned)
	assert.True(suite.T(), summary.Realized.Equal(decimal.NewFromFloat(250)), "realized is %s", summary.Realized)
	assert.True(suite.T(), summary.Balance.Equal(decimal.NewFromFloat(750)), "balance is %s", summary.Balance)
	assert.True(suite.T(), summary.Percentage.Equal(decimal.NewFromFloat(25)), "percentage is %s", summary.Percentage)
}

func (suite *TestSuiteStandard) TestSummaryNothingPlanned() {
	month := types.NewMonth(2024, 8)
	budget := suite.createTestBudget(models.MonthlyBudget{Month: month})

	expense := suite.createTestExpense(models.Expense{
		Description: "Groceries",
		Amount:      decimal.NewFromFloat(250),
		Date:        time.Date(2024, 8, 12, 0, 0, 0, 0, time.UTC),
	})
	models.SyncMirror(models.DB, expense)

	summary, err := budget.Summary(models.DB)
	require.Nil(suite.T(), err)

	assert.True(suite.T(), summary.Balance.Equal(decimal.NewFromFloat(-250)), "balance is %s", summary.Balance)
	assert.True(suite.T(), summary.Percentage.IsZero(), "percentage with nothing planned is %s", summary.Percentage)
}

func (suite *TestSuiteStandard) TestLinkToBudget() {
	expense := suite.createTestExpense(models.Expense{
		Description: "Groceries",
		Amount:      decimal.NewFromFloat(80),
	})

	budget, err := expense.LinkToBudget(models.DB, types.NewMonth(2024, 8))
	require.Nil(suite.T(), err)
	require.NotNil(suite.T(), expense.BudgetID)
	assert.Equal(suite.T(), budget.ID, *expense.BudgetID)

	var reloaded models.MonthlyBudget
	require.Nil(suite.T(), models.DB.First(&reloaded, budget.ID).Error)
	assert.True(suite.T(), reloaded.Total.Equal(decimal.NewFromFloat(80)), "budget total is %s", reloaded.Total)
}

// TestLinkToBudgetRollsBack verifies that a failing link does not leave
// the budget created on demand behind.
func (suite *TestSuiteStandard) TestLinkToBudgetRollsBack() {
	expense := suite.createTestExpense(models.Expense{
		Description: "Groceries",
		Amount:      decimal.NewFromFloat(80),
	})

	// Break the ledger table so that the link fails after the budget
	// has been created
	require.Nil(suite.T(), models.DB.Migrator().DropTable(&models.Expense{}))

	_, err := expense.LinkToBudget(models.DB, types.NewMonth(2024, 8))
	require.NotNil(suite.T(), err)

	var count int64
	require.Nil(suite.T(), models.DB.Model(&models.MonthlyBudget{}).Count(&count).Error)
	assert.Equal(suite.T(), int64(0), count, "the budget created within the failed link must be rolled back")
}

func (suite *TestSuiteStandard) TestLinkToBudgetMoves() {
	expense := suite.createTestExpense(models.Expense{
		Description: "Groceries",
		Amount:      decimal.NewFromFloat(80),
	})

	august, err := expense.LinkToBudget(models.DB, types.NewMonth(2024, 8))
	require.Nil(suite.T(), err)

	september, err := expense.LinkToBudget(models.DB, types.NewMonth(2024, 9))
	require.Nil(suite.T(), err)
	assert.NotEqual(suite.T(), august.ID, september.ID)

	// Fresh destination structs, reusing one would leak its primary key
	// into the next query
	var unlinked models.MonthlyBudget
	require.Nil(suite.T(), models.DB.First(&unlinked, august.ID).Error)
	assert.True(suite.T(), unlinked.Total.IsZero(), "total of the unlinked budget is %s", unlinked.Total)

	var linked models.MonthlyBudget
	require.Nil(suite.T(), models.DB.First(&linked, september.ID).Error)
	assert.True(suite.T(), linked.Total.Equal(decimal.NewFromFloat(80)), "total of the linked budget is %s", linked.Total)
}
