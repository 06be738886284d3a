package v1

import (
	"fmt"

	"github.com/fincontrol/backend/internal/models"
	"github.com/fincontrol/backend/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BudgetEditable represents all user configurable parameters
type BudgetEditable struct {
	Month         types.Month     `json:"month" example:"2024-08"`          // Year and month in YYYY-MM format
	SavingsTarget decimal.Decimal `json:"savingsTarget" example:"300.00"`   // Amount that should be left over at the end of the month
	Note          string          `json:"note" example:"Vacation month" default:""` // Notes about the budget
}

func (editable BudgetEditable) model() models.MonthlyBudget {
	return models.MonthlyBudget{
		Month:         editable.Month,
		SavingsTarget: editable.SavingsTarget,
		Note:          editable.Note,
	}
}

type BudgetLinks struct {
	Self       string `json:"self" example:"https://example.com/api/v1/budgets/3"`             // The budget itself
	Categories string `json:"categories" example:"https://example.com/api/v1/budgets/3/categories"` // The categories of the budget
	Summary    string `json:"summary" example:"https://example.com/api/v1/budgets/summary?month=2024-08"` // The summary for the budget month
	Expenses   string `json:"expenses" example:"https://example.com/api/v1/expenses?budget=3"` // The expenses linked to the budget
}

type Budget struct {
	models.DefaultModel
	BudgetEditable
	Total decimal.Decimal `json:"total" example:"1021.17"` // Sum of linked expense amounts
	Links BudgetLinks     `json:"links"`
}

func newBudget(c *gin.Context, model models.MonthlyBudget) Budget {
	url := c.GetString(string(models.DBContextURL))

	return Budget{
		DefaultModel: model.DefaultModel,
		BudgetEditable: BudgetEditable{
			Month:         model.Month,
			SavingsTarget: model.SavingsTarget,
			Note:          model.Note,
		},
		Total: model.Total,
		Links: BudgetLinks{
			Self:       fmt.Sprintf("%s/v1/budgets/%d", url, model.ID),
			Categories: fmt.Sprintf("%s/v1/budgets/%d/categories", url, model.ID),
			Summary:    fmt.Sprintf("%s/v1/budgets/summary?month=%s", url, model.Month),
			Expenses:   fmt.Sprintf("%s/v1/expenses?budget=%d", url, model.ID),
		},
	}
}

type BudgetListResponse struct {
	Data  []Budget `json:"data"`                                                            // List of budgets
	Error *string  `json:"error" example:"the specified resource ID is not a valid number"` // The error, if any occurred
}

type BudgetResponse struct {
	Data  *Budget `json:"data"`                                                            // Data for the budget
	Error *string `json:"error" example:"the specified resource ID is not a valid number"` // The error, if any occurred
}

type BudgetQueryFilter struct {
	Month types.Month `form:"month" filterField:"false"` // By exact month
	Note  string      `form:"note" filterField:"false"`  // By note
}

type BudgetSummaryResponse struct {
	Data  *models.BudgetSummary `json:"data"`                                                            // The summary
	Error *string               `json:"error" example:"the specified resource ID is not a valid number"` // The error, if any occurred
}

// CategoryEditable represents all user configurable parameters
type CategoryEditable struct {
	Name           string          `json:"name" example:"Food"`                     // Name of the category
	PlannedAmount  decimal.Decimal `json:"plannedAmount" example:"450.00"`          // Amount planned for the month
	AlertThreshold *uint           `json:"alertThreshold" example:"80"` // Spending percentage that activates the alert. Omitting it selects the default of 80, 0 alerts on any spending
	Note           string          `json:"note" example:"Includes eating out" default:""`
}

func (editable CategoryEditable) model() models.BudgetCategory {
	return models.BudgetCategory{
		Name:           editable.Name,
		PlannedAmount:  editable.PlannedAmount,
		AlertThreshold: editable.AlertThreshold,
		Note:           editable.Note,
	}
}

type CategoryLinks struct {
	Self     string `json:"self" example:"https://example.com/api/v1/budgets/3/categories/7"` // The category itself
	Expenses string `json:"expenses" example:"https://example.com/api/v1/expenses?categoryId=7"` // The expenses linked to the category
}

type Category struct {
	models.DefaultModel
	CategoryEditable
	BudgetID   uint            `json:"budgetId" example:"3"`       // ID of the budget the category belongs to
	Realized   decimal.Decimal `json:"realized" example:"377.31"`  // Sum of expenses linked to the category
	Percentage decimal.Decimal `json:"percentage" example:"83.84"` // Realized as a percentage of planned
	Alert      bool            `json:"alert" example:"true"`       // Whether spending reached the alert threshold
	Links      CategoryLinks   `json:"links"`
}

func newCategory(c *gin.Context, db *gorm.DB, model models.BudgetCategory) (Category, error) {
	url := c.GetString(string(models.DBContextURL))

	realized, err := model.Realized(db)
	if err != nil {
		return Category{}, err
	}

	percentage, err := model.RealizedPercentage(db)
	if err != nil {
		return Category{}, err
	}

	alert, err := model.AlertActive(db)
	if err != nil {
		return Category{}, err
	}

	return Category{
		DefaultModel: model.DefaultModel,
		CategoryEditable: CategoryEditable{
			Name:           model.Name,
			PlannedAmount:  model.PlannedAmount,
			AlertThreshold: model.AlertThreshold,
			Note:           model.Note,
		},
		BudgetID:   model.BudgetID,
		Realized:   realized,
		Percentage: percentage,
		Alert:      alert,
		Links: CategoryLinks{
			Self:     fmt.Sprintf("%s/v1/budgets/%d/categories/%d", url, model.BudgetID, model.ID),
			Expenses: fmt.Sprintf("%s/v1/expenses?categoryId=%d", url, model.ID),
		},
	}, nil
}

type CategoryListResponse struct {
	Data  []Category `json:"data"`                                                            // List of categories
	Error *string    `json:"error" example:"the specified resource ID is not a valid number"` // The error, if any occurred
}

type CategoryResponse struct {
	Data  *Category `json:"data"`                                                            // Data for the category
	Error *string   `json:"error" example:"the specified resource ID is not a valid number"` // The error, if any occurred
}

// URICategory is the URI binding for category subresources.
type URICategory struct {
	ID         uint `uri:"id" binding:"required"`
	CategoryID uint `uri:"categoryId" binding:"required"`
}
