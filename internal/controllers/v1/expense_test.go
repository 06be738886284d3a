package v1_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	v1 "github.com/fincontrol/backend/internal/controllers/v1"
	"github.com/fincontrol/backend/internal/models"
	"github.com/fincontrol/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestExpense(t *testing.T, c v1.ExpenseEditable, expectedStatus ...int) v1.ExpenseResponse {
	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	if c.Description == "" {
		c.Description = "Test expense"
	}

	if c.Amount.IsZero() {
		c.Amount = decimal.NewFromFloat(17.23)
	}

	body := []v1.ExpenseEditable{
		c,
	}

	r := test.Request(t, http.MethodPost, "http://example.com/v1/expenses", body)
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var a v1.ExpenseCreateResponse
	test.DecodeResponse(t, &r, &a)

	if r.Code == http.StatusCreated {
		return a.Data[0]
	}

	return v1.ExpenseResponse{}
}

// TestExpensesDBClosed verifies that errors are processed correctly when
// the database is closed.
func (suite *TestSuiteStandard) TestExpensesDBClosed() {
	tests := []struct {
		name string             // Name of the test
		test func(t *testing.T) // Code to run
	}{
		{
			"Creation fails",
			func(t *testing.T) {
				createTestExpense(t, v1.ExpenseEditable{}, http.StatusInternalServerError)
			},
		},
		{
			"GET fails",
			func(t *testing.T) {
				recorder := test.Request(t, http.MethodGet, "http://example.com/v1/expenses", "")
				test.AssertHTTPStatus(t, &recorder, http.StatusInternalServerError)
				assert.Contains(t, test.DecodeError(t, recorder.Body.Bytes()), "an error occurred on the server")
			},
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			suite.CloseDB()

			tt.test(t)
		})
	}
}

// TestExpenseOptions verifies that OPTIONS requests are handled correctly.
func (suite *TestSuiteStandard) TestExpenseOptions() {
	tests := []struct {
		name   string
		id     string // path at the /v1/expenses endpoint to test
		status int    // Expected HTTP status code
	}{
		{"No expense with this ID", "4897", http.StatusNotFound},
		{"Not a valid ID", "NotANumber", http.StatusBadRequest},
		{"Expense exists", fmt.Sprint(createTestExpense(suite.T(), v1.ExpenseEditable{}).Data.ID), http.StatusNoContent},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			path := fmt.Sprintf("%s/%s", "http://example.com/v1/expenses", tt.id)
			r := test.Request(t, http.MethodOptions, path, "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, "OPTIONS, GET, PATCH, DELETE", r.Header().Get("allow"))
			}
		})
	}
}

func (suite *TestSuiteStandard) TestExpenseCreate() {
	expense := createTestExpense(suite.T(), v1.ExpenseEditable{
		Description: "Groceries at the market",
		Amount:      decimal.NewFromFloat(27.99),
	})

	require.NotNil(suite.T(), expense.Data)
	assert.Equal(suite.T(), "Groceries at the market", expense.Data.Description)
	assert.Equal(suite.T(), models.TypeExpense, expense.Data.Type, "the type should default to DESPESA")
	assert.NotEmpty(suite.T(), expense.Data.Links.Self)

	// The mirror entry is created together with the expense
	var mirror models.ExpenseMirror
	err := models.DB.First(&mirror, "expense_id = ?", expense.Data.ID).Error
	require.Nil(suite.T(), err)
	assert.True(suite.T(), mirror.Amount.Equal(decimal.NewFromFloat(27.99)))
}

// TestExpenseCreateMirrorBroken verifies that the expense write succeeds
// even when the mirror table is gone.
func (suite *TestSuiteStandard) TestExpenseCreateMirrorBroken() {
	suite.DropMirrorTable()

	expense := createTestExpense(suite.T(), v1.ExpenseEditable{
		Description: "Still works",
	})

	require.NotNil(suite.T(), expense.Data)

	var count int64
	err := models.DB.Model(&models.Expense{}).Count(&count).Error
	require.Nil(suite.T(), err)
	assert.Equal(suite.T(), int64(1), count, "the ledger entry must exist even with a broken mirror")
}

func (suite *TestSuiteStandard) TestExpenseCreateInvalid() {
	tests := []struct {
		name     string
		editable v1.ExpenseEditable
	}{
		{"Missing description", v1.ExpenseEditable{Amount: decimal.NewFromFloat(10)}},
		{"Negative amount", v1.ExpenseEditable{Description: "Refund", Amount: decimal.NewFromFloat(-10)}},
		{"Invalid type", v1.ExpenseEditable{Description: "Typo", Amount: decimal.NewFromFloat(10), Type: "DESPESAS"}},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			body := []v1.ExpenseEditable{tt.editable}
			r := test.Request(t, http.MethodPost, "http://example.com/v1/expenses", body)
			test.AssertHTTPStatus(t, &r, http.StatusBadRequest)
		})
	}
}

func (suite *TestSuiteStandard) TestExpensesGetFilter() {
	_ = createTestExpense(suite.T(), v1.ExpenseEditable{
		Description: "Lunch",
		Category:    "Food",
		Amount:      decimal.NewFromFloat(15.90),
		Date:        time.Date(2024, 8, 2, 12, 0, 0, 0, time.UTC),
	})
	_ = createTestExpense(suite.T(), v1.ExpenseEditable{
		Description: "Salary",
		Type:        models.TypeIncome,
		Amount:      decimal.NewFromFloat(4500),
		Date:        time.Date(2024, 8, 5, 0, 0, 0, 0, time.UTC),
	})
	_ = createTestExpense(suite.T(), v1.ExpenseEditable{
		Description: "Bus ticket",
		Category:    "Transport",
		Amount:      decimal.NewFromFloat(4.40),
		Date:        time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC),
	})

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"No filter", "", 3},
		{"Category", "category=Food", 1},
		{"Type expense", "type=DESPESA", 2},
		{"Type income", "type=RECEITA", 1},
		{"Search", "search=lunch", 1},
		{"From date", "fromDate=2024-09-01", 1},
		{"Until date", "untilDate=2024-08-31", 2},
		{"Date range", "fromDate=2024-08-01&untilDate=2024-08-31", 2},
		{"Limit", "limit=2", 2},
		{"Offset", "offset=2", 1},
		{"No match", "category=DoesNotExist", 0},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/expenses?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.ExpenseListResponse
			test.DecodeResponse(t, &r, &response)
			assert.Len(t, response.Data, tt.len)
		})
	}
}

func (suite *TestSuiteStandard) TestExpensesPagination() {
	for i := 0; i < 3; i++ {
		createTestExpense(suite.T(), v1.ExpenseEditable{Description: fmt.Sprintf("Expense %d", i)})
	}

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/expenses?limit=2", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.ExpenseListResponse
	test.DecodeResponse(suite.T(), &r, &response)

	require.NotNil(suite.T(), response.Pagination)
	assert.Equal(suite.T(), 2, response.Pagination.Count)
	assert.Equal(suite.T(), int64(3), response.Pagination.Total)
	assert.Equal(suite.T(), 2, response.Pagination.Limit)
}

func (suite *TestSuiteStandard) TestExpenseUpdate() {
	expense := createTestExpense(suite.T(), v1.ExpenseEditable{
		Description: "Old description",
		Amount:      decimal.NewFromFloat(10),
	})

	r := test.Request(suite.T(), http.MethodPatch, expense.Data.Links.Self, map[string]any{
		"description": "New description",
		"amount":      42.00,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	// The mirror entry follows the update
	var mirror models.ExpenseMirror
	err := models.DB.First(&mirror, "expense_id = ?", expense.Data.ID).Error
	require.Nil(suite.T(), err)
	assert.Equal(suite.T(), "New description", mirror.Description)
	assert.True(suite.T(), mirror.Amount.Equal(decimal.NewFromInt(42)))
}

func (suite *TestSuiteStandard) TestExpenseDelete() {
	expense := createTestExpense(suite.T(), v1.ExpenseEditable{})

	r := test.Request(suite.T(), http.MethodDelete, expense.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	// The mirror entry is gone, too
	var count int64
	err := models.DB.Model(&models.ExpenseMirror{}).Count(&count).Error
	require.Nil(suite.T(), err)
	assert.Equal(suite.T(), int64(0), count)

	r = test.Request(suite.T(), http.MethodGet, expense.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

// TestExpenseDeleteMirrorBroken verifies that a broken mirror table does
// not block the deletion of a ledger entry.
func (suite *TestSuiteStandard) TestExpenseDeleteMirrorBroken() {
	expense := createTestExpense(suite.T(), v1.ExpenseEditable{})

	suite.DropMirrorTable()

	r := test.Request(suite.T(), http.MethodDelete, expense.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
}

func (suite *TestSuiteStandard) TestExpenseLink() {
	expense := createTestExpense(suite.T(), v1.ExpenseEditable{
		Date: time.Date(2024, 8, 12, 0, 0, 0, 0, time.UTC),
	})

	// Without a month in the body, the expense month is used
	r := test.Request(suite.T(), http.MethodPost, expense.Data.Links.Self+"/link", map[string]string{})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var budget v1.BudgetResponse
	test.DecodeResponse(suite.T(), &r, &budget)
	require.NotNil(suite.T(), budget.Data)
	assert.Equal(suite.T(), "2024-08", budget.Data.Month.String())

	var updated models.Expense
	err := models.DB.First(&updated, expense.Data.ID).Error
	require.Nil(suite.T(), err)
	require.NotNil(suite.T(), updated.BudgetID)
	assert.Equal(suite.T(), budget.Data.ID, *updated.BudgetID)
}

func (suite *TestSuiteStandard) TestExpenseAutoCategorization() {
	rule := models.CategoryRule{Priority: 1, Match: "Uber*", Category: "Transport"}
	err := models.DB.Create(&rule).Error
	require.Nil(suite.T(), err)

	expense := createTestExpense(suite.T(), v1.ExpenseEditable{
		Description: "Uber to the airport",
	})

	assert.Equal(suite.T(), "Transport", expense.Data.Category)
}
