package models_test

import (
	"time"

	"github.com/fincontrol/backend/internal/models"
	"github.com/fincontrol/backend/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestSyncMirrorCreates() {
	expense := suite.createTestExpense(models.Expense{
		Description: "Groceries",
		Category:    "Food",
		Amount:      decimal.NewFromFloat(80),
		Date:        time.Date(2024, 8, 12, 14, 30, 0, 0, time.UTC),
	})

	models.SyncMirror(models.DB, expense)

	var mirror models.ExpenseMirror
	require.Nil(suite.T(), models.DB.Where("expense_id = ?", expense.ID).First(&mirror).Error)

	assert.Equal(suite.T(), "Groceries", mirror.Description)
	assert.Equal(suite.T(), "Food", mirror.Category)
	assert.True(suite.T(), mirror.Amount.Equal(expense.Amount))
	assert.True(suite.T(), mirror.Date.Equal(types.NewDate(2024, 8, 12)), "mirror date is %s, the time of day must be truncated", mirror.Date)
}

func (suite *TestSuiteStandard) TestSyncMirrorUpserts() {
	expense := suite.createTestExpense(models.Expense{
		Description: "Groceries",
		Amount:      decimal.NewFromFloat(80),
	})

	models.SyncMirror(models.DB, expense)

	expense.Description = "Weekly groceries"
	expense.Amount = decimal.NewFromFloat(95.50)
	require.Nil(suite.T(), models.DB.Save(&expense).Error)

	models.SyncMirror(models.DB, expense)

	var mirrors []models.ExpenseMirror
	require.Nil(suite.T(), models.DB.Where("expense_id = ?", expense.ID).Find(&mirrors).Error)
	require.Len(suite.T(), mirrors, 1, "the sync must update the existing row, not add one")

	assert.Equal(suite.T(), "Weekly groceries", mirrors[0].Description)
	assert.True(suite.T(), mirrors[0].Amount.Equal(decimal.NewFromFloat(95.50)))
}

func (suite *TestSuiteStandard) TestRemoveMirror() {
	expense := suite.createTestExpense(models.Expense{
		Description: "Groceries",
		Amount:      decimal.NewFromFloat(80),
	})
	models.SyncMirror(models.DB, expense)

	models.RemoveMirror(models.DB, expense.ID)

	var count int64
	models.DB.Model(&models.ExpenseMirror{}).Where("expense_id = ?", expense.ID).Count(&count)
	assert.Equal(suite.T(), int64(0), count)

	// Removing a mirror that does not exist is not an error
	models.RemoveMirror(models.DB, expense.ID)
}

func (suite *TestSuiteStandard) TestSyncMirrorFailureIsSwallowed() {
	expense := suite.createTestExpense(models.Expense{
		Description: "Groceries",
		Amount:      decimal.NewFromFloat(80),
	})

	suite.DropMirrorTable()

	// Must not panic and must not return an error to the caller, the
	// ledger entry stays untouched
	models.SyncMirror(models.DB, expense)
	models.RemoveMirror(models.DB, expense.ID)

	var reloaded models.Expense
	require.Nil(suite.T(), models.DB.First(&reloaded, expense.ID).Error)
	assert.Equal(suite.T(), "Groceries", reloaded.Description)
}

func (suite *TestSuiteStandard) TestMirrorSum() {
	dates := []struct {
		date   time.Time
		amount float64
	}{
		{time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC), 100},
		{time.Date(2024, 8, 31, 23, 0, 0, 0, time.UTC), 50.50},
		{time.Date(2024, 7, 31, 0, 0, 0, 0, time.UTC), 999},
		{time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC), 999},
	}

	for _, tt := range dates {
		expense := suite.createTestExpense(models.Expense{
			Description: "Entry",
			Amount:      decimal.NewFromFloat(tt.amount),
			Date:        tt.date,
		})
		models.SyncMirror(models.DB, expense)
	}

	month := types.NewMonth(2024, 8)
	sum, err := models.MirrorSum(models.DB, month.First(), month.Last())
	require.Nil(suite.T(), err)
	assert.True(suite.T(), sum.Equal(decimal.NewFromFloat(150.50)), "mirror sum is %s, entries of other months must not count", sum)
}

// TestMirrorSumLastDayOfMonth verifies that an entry on the upper bound
// of the range is included.
func (suite *TestSuiteStandard) TestMirrorSumLastDayOfMonth() {
	expense := suite.createTestExpense(models.Expense{
		Description: "Last minute purchase",
		Amount:      decimal.NewFromFloat(100),
		Date:        time.Date(2024, 8, 31, 10, 0, 0, 0, time.UTC),
	})
	models.SyncMirror(models.DB, expense)

	month := types.NewMonth(2024, 8)
	sum, err := models.MirrorSum(models.DB, month.First(), month.Last())
	require.Nil(suite.T(), err)
	assert.True(suite.T(), sum.Equal(decimal.NewFromFloat(100)), "sum is %s, the last day of the month must be included", sum)
}

func (suite *TestSuiteStandard) TestMirrorSumEmpty() {
	month := types.NewMonth(2024, 8)
	sum, err := models.MirrorSum(models.DB, month.First(), month.Last())
	require.Nil(suite.T(), err)
	assert.True(suite.T(), sum.IsZero())
}

func (suite *TestSuiteStandard) TestMirrorSumDatabaseError() {
	suite.CloseDB()

	month := types.NewMonth(2024, 8)
	_, err := models.MirrorSum(models.DB, month.First(), month.Last())
	assert.NotNil(suite.T(), err)
}
