package models_test

import (
	"testing"

	"github.com/fincontrol/backend/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestRuleValidation() {
	tests := []struct {
		name string
		rule models.CategoryRule
		err  error
	}{
		{"No pattern", models.CategoryRule{Category: "Transport"}, models.ErrRuleMatchRequired},
		{"No category", models.CategoryRule{Match: "Uber*"}, models.ErrRuleCategoryRequired},
		{"Valid", models.CategoryRule{Match: "Uber*", Category: "Transport"}, nil},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			err := models.DB.Create(&tt.rule).Error
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func (suite *TestSuiteStandard) TestRulePriorityOrder() {
	// Both rules match, the one with the lower priority value wins
	_ = suite.createTestRule(models.CategoryRule{Priority: 10, Match: "*", Category: "Misc"})
	_ = suite.createTestRule(models.CategoryRule{Priority: 1, Match: "Pharmacy*", Category: "Health"})

	expense := suite.createTestExpense(models.Expense{
		Description: "Pharmacy downtown",
		Amount:      decimal.NewFromFloat(12.30),
	})

	assert.Equal(suite.T(), "Health", expense.Category)
}
