package v1_test

import (
	"net/http"
	"testing"
	"time"

	v1 "github.com/fincontrol/backend/internal/controllers/v1"
	"github.com/fincontrol/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestGoal(t *testing.T, c v1.GoalEditable, expectedStatus ...int) v1.GoalResponse {
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	if c.Description == "" {
		c.Description = "Test goal"
	}

	if c.TargetAmount.IsZero() {
		c.TargetAmount = decimal.NewFromInt(1000)
	}

	r := test.Request(t, http.MethodPost, "http://example.com/v1/goals", c)
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var response v1.GoalResponse
	test.DecodeResponse(t, &r, &response)

	return response
}

func (suite *TestSuiteStandard) TestGoalCreate() {
	goal := createTestGoal(suite.T(), v1.GoalEditable{
		Description:   "Emergency fund",
		TargetAmount:  decimal.NewFromInt(5000),
		CurrentAmount: decimal.NewFromInt(1250),
	})

	require.NotNil(suite.T(), goal.Data)
	assert.True(suite.T(), goal.Data.Progress.Equal(decimal.NewFromInt(25)))
	assert.False(suite.T(), goal.Data.Reached)
	assert.False(suite.T(), goal.Data.StartDate.IsZero(), "the start date should default to now")
}

func (suite *TestSuiteStandard) TestGoalCreateInvalid() {
	end := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		editable v1.GoalEditable
	}{
		{"Missing description", v1.GoalEditable{TargetAmount: decimal.NewFromInt(100)}},
		{"Zero target", v1.GoalEditable{Description: "No target", TargetAmount: decimal.Zero}},
		{"End before start", v1.GoalEditable{
			Description:  "Time travel",
			TargetAmount: decimal.NewFromInt(100),
			StartDate:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:      &end,
		}},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/goals", tt.editable)
			test.AssertHTTPStatus(t, &r, http.StatusBadRequest)
		})
	}
}

func (suite *TestSuiteStandard) TestGoalUpdateReached() {
	goal := createTestGoal(suite.T(), v1.GoalEditable{
		Description:  "Bicycle",
		TargetAmount: decimal.NewFromInt(800),
	})

	r := test.Request(suite.T(), http.MethodPatch, goal.Data.Links.Self, map[string]any{
		"currentAmount": "800.00",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var updated v1.GoalResponse
	test.DecodeResponse(suite.T(), &r, &updated)
	assert.True(suite.T(), updated.Data.Reached)
	assert.True(suite.T(), updated.Data.Progress.Equal(decimal.NewFromInt(100)))
}

func (suite *TestSuiteStandard) TestGoalDelete() {
	goal := createTestGoal(suite.T(), v1.GoalEditable{})

	r := test.Request(suite.T(), http.MethodDelete, goal.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, goal.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestGoalsGet() {
	_ = createTestGoal(suite.T(), v1.GoalEditable{Description: "First"})
	_ = createTestGoal(suite.T(), v1.GoalEditable{Description: "Second"})

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/goals", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.GoalListResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Len(suite.T(), response.Data, 2)
}
