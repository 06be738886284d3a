package v1_test

import (
	"encoding/csv"
	"net/http"
	"strings"
	"time"

	v1 "github.com/fincontrol/backend/internal/controllers/v1"
	"github.com/fincontrol/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestExportExpenses() {
	_ = createTestExpense(suite.T(), v1.ExpenseEditable{
		Description: "Groceries at the market",
		Category:    "Food",
		Amount:      decimal.NewFromFloat(27.99),
		Date:        time.Date(2024, 8, 12, 14, 30, 0, 0, time.UTC),
		Note:        "Paid in cash",
	})

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/export/expenses", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	assert.Contains(suite.T(), r.Header().Get("Content-Type"), "text/csv")
	assert.Contains(suite.T(), r.Header().Get("Content-Disposition"), "attachment")

	records, err := csv.NewReader(strings.NewReader(r.Body.String())).ReadAll()
	require.Nil(suite.T(), err)
	require.Len(suite.T(), records, 2)

	assert.Equal(suite.T(), []string{"ID", "Descrição", "Valor", "Categoria", "Data", "Observações"}, records[0])

	row := records[1]
	assert.Equal(suite.T(), "Groceries at the market", row[1])
	assert.Equal(suite.T(), "27.99", row[2])
	assert.Equal(suite.T(), "Food", row[3])
	assert.Equal(suite.T(), "12/08/2024 14:30", row[4])
	assert.Equal(suite.T(), "Paid in cash", row[5])
}

func (suite *TestSuiteStandard) TestExportExpensesDateRange() {
	_ = createTestExpense(suite.T(), v1.ExpenseEditable{
		Description: "Inside",
		Date:        time.Date(2024, 8, 12, 0, 0, 0, 0, time.UTC),
	})
	_ = createTestExpense(suite.T(), v1.ExpenseEditable{
		Description: "Outside",
		Date:        time.Date(2024, 9, 12, 0, 0, 0, 0, time.UTC),
	})

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/export/expenses?fromDate=2024-08-01&untilDate=2024-08-31", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	body := r.Body.String()
	assert.Contains(suite.T(), body, "Inside")
	assert.NotContains(suite.T(), body, "Outside")
}

func (suite *TestSuiteStandard) TestExportExpensesEmpty() {
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/export/expenses", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	records, err := csv.NewReader(strings.NewReader(r.Body.String())).ReadAll()
	require.Nil(suite.T(), err)
	assert.Len(suite.T(), records, 1, "only the header row is written")
}
