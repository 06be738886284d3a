package v1

import (
	"fmt"
	"time"

	"github.com/fincontrol/backend/internal/models"
	"github.com/fincontrol/backend/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ExpenseEditable represents all user configurable parameters
type ExpenseEditable struct {
	Description string          `json:"description" example:"Groceries at the market" default:""`                // Description of the entry
	Amount      decimal.Decimal `json:"amount" example:"27.99"`                                                  // Amount of the entry, must be positive
	Type        string          `json:"type" example:"DESPESA" default:"DESPESA"`                                // DESPESA for money spent, RECEITA for money received
	Category    string          `json:"category" example:"Food" default:""`                                      // Free-text category label
	Date        time.Time       `json:"date" example:"2024-08-12T00:00:00Z"`                                     // Date of the entry, defaults to the creation time
	Note        string          `json:"note" example:"Paid in cash" default:""`                                  // Notes about the entry
	CategoryID  *uint           `json:"categoryId" example:"7"`                                                  // Reference to a budget category, overrides the label
}

func (editable ExpenseEditable) model() models.Expense {
	return models.Expense{
		Description: editable.Description,
		Amount:      editable.Amount,
		Type:        editable.Type,
		Category:    editable.Category,
		Date:        editable.Date,
		Note:        editable.Note,
		CategoryID:  editable.CategoryID,
	}
}

type ExpenseLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/expenses/17"` // The expense itself
}

type Expense struct {
	models.DefaultModel
	ExpenseEditable
	BudgetID *uint        `json:"budgetId" example:"3"` // ID of the monthly budget the expense is linked to
	Links    ExpenseLinks `json:"links"`
}

func newExpense(c *gin.Context, model models.Expense) Expense {
	url := c.GetString(string(models.DBContextURL))

	return Expense{
		DefaultModel: model.DefaultModel,
		ExpenseEditable: ExpenseEditable{
			Description: model.Description,
			Amount:      model.Amount,
			Type:        model.Type,
			Category:    model.Category,
			Date:        model.Date,
			Note:        model.Note,
			CategoryID:  model.CategoryID,
		},
		BudgetID: model.BudgetID,
		Links: ExpenseLinks{
			Self: fmt.Sprintf("%s/v1/expenses/%d", url, model.ID),
		},
	}
}

type ExpenseListResponse struct {
	Data       []Expense   `json:"data"`                                                            // List of expenses
	Error      *string     `json:"error" example:"the specified resource ID is not a valid number"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                      // Pagination information
}

type ExpenseCreateResponse struct {
	Data  []ExpenseResponse `json:"data"`                                                            // List of the created expenses or their respective error
	Error *string           `json:"error" example:"the specified resource ID is not a valid number"` // The error, if any occurred
}

func (r *ExpenseCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	r.Data = append(r.Data, ExpenseResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type ExpenseResponse struct {
	Data  *Expense `json:"data"`                                                            // Data for the expense
	Error *string  `json:"error" example:"the specified resource ID is not a valid number"` // The error, if any occurred
}

type ExpenseQueryFilter struct {
	Description string    `form:"description" filterField:"false"`                 // By description
	Note        string    `form:"note" filterField:"false"`                        // By note
	Category    string    `form:"category"`                                        // By category label
	Type        string    `form:"type"`                                            // By entry type
	CategoryID  uint      `form:"categoryId"`                                      // By budget category ID
	BudgetID    uint      `form:"budget"`                                          // By monthly budget ID
	FromDate    time.Time `form:"fromDate" filterField:"false" time_format:"2006-01-02" time_utc:"1"`  // Entries on or after this date
	UntilDate   time.Time `form:"untilDate" filterField:"false" time_format:"2006-01-02" time_utc:"1"` // Entries before or on this date
	Search      string    `form:"search" filterField:"false"`                      // By string in description or note
	Offset      uint      `form:"offset" filterField:"false"`                      // The offset of the first expense returned. Defaults to 0.
	Limit       int       `form:"limit" filterField:"false"`                       // Maximum number of expenses to return. Defaults to 50.
}

func (f ExpenseQueryFilter) model() models.Expense {
	expense := models.Expense{
		Category: f.Category,
		Type:     f.Type,
	}

	if f.CategoryID != 0 {
		expense.CategoryID = &f.CategoryID
	}

	if f.BudgetID != 0 {
		expense.BudgetID = &f.BudgetID
	}

	return expense
}

// ExpenseLinkRequest is the body for linking an expense to the budget
// of a month.
type ExpenseLinkRequest struct {
	Month types.Month `json:"month" example:"2024-08"` // Year and month in YYYY-MM format
}
