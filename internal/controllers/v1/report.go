package v1

import (
	"fmt"
	"net/http"
	"time"

	"github.com/fincontrol/backend/internal/cache"
	"github.com/fincontrol/backend/internal/httputil"
	"github.com/fincontrol/backend/internal/models"
	"github.com/fincontrol/backend/internal/money"
	"github.com/fincontrol/backend/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// Report queries aggregate over the whole ledger, so their results are
// cached for a short time. Every ledger write invalidates the cache.
var reportCache = cache.New[any](64, time.Minute)

func invalidateReportCache() {
	reportCache.Clear()
}

// FinancialSummary is the income and spending overview for a sliding
// window of days.
type FinancialSummary struct {
	From     types.Date      `json:"from" example:"2024-07-13"`
	To       types.Date      `json:"to" example:"2024-08-12"`
	Income   decimal.Decimal `json:"income" example:"4500.00"`
	Expenses decimal.Decimal `json:"expenses" example:"3978.83"`
	Balance  decimal.Decimal `json:"balance" example:"521.17"` // Income minus expenses
}

type FinancialSummaryResponse struct {
	Data  *FinancialSummary `json:"data"`                                                            // The summary
	Error *string           `json:"error" example:"the specified resource ID is not a valid number"` // The error, if any occurred
}

// CategoryReport holds the sums per category label for a month.
type CategoryReport struct {
	Month      types.Month                `json:"month" example:"2024-08"`
	Type       string                     `json:"type" example:"DESPESA"`
	Categories map[string]decimal.Decimal `json:"categories"`
	Total      decimal.Decimal            `json:"total" example:"3978.83"`
}

type CategoryReportResponse struct {
	Data  *CategoryReport `json:"data"`                                                            // The report
	Error *string         `json:"error" example:"the specified resource ID is not a valid number"` // The error, if any occurred
}

// EvolutionMonth is one month in the income and spending history.
type EvolutionMonth struct {
	Month       types.Month     `json:"month" example:"2024-08"`
	Income      decimal.Decimal `json:"income" example:"4500.00"`
	Expenses    decimal.Decimal `json:"expenses" example:"3978.83"`
	Balance     decimal.Decimal `json:"balance" example:"521.17"`      // Income minus expenses for the month
	Accumulated decimal.Decimal `json:"accumulated" example:"1893.21"` // Running balance over the reported months
}

type EvolutionResponse struct {
	Data  []EvolutionMonth `json:"data"`                                                            // Oldest month first
	Error *string          `json:"error" example:"the specified resource ID is not a valid number"` // The error, if any occurred
}

// Forecast is the projected spending for the current month, linearly
// extrapolated from the spending so far.
type Forecast struct {
	Month     types.Month     `json:"month" example:"2024-08"`
	Spent     decimal.Decimal `json:"spent" example:"1540.00"`     // Spent so far this month
	Projected decimal.Decimal `json:"projected" example:"3980.65"` // Spent scaled to the full month
	Day       int             `json:"day" example:"12"`            // Day of the month the projection is based on
	Days      int             `json:"days" example:"31"`           // Days in the month
}

type ForecastResponse struct {
	Data  *Forecast `json:"data"`                                                            // The forecast
	Error *string   `json:"error" example:"the specified resource ID is not a valid number"` // The error, if any occurred
}

type summaryQuery struct {
	Days int `form:"days"` // Length of the sliding window. Defaults to 30.
}

type categoriesQuery struct {
	Month time.Time `form:"month" time_format:"2006-01" time_utc:"1"` // Year and month in YYYY-MM format. Defaults to the current month.
	Type  string    `form:"type"`                                     // Entry type. Defaults to DESPESA.
}

type evolutionQuery struct {
	Months int `form:"months"` // Number of months to report, ending with the current one. Defaults to 6.
}

// RegisterReportRoutes registers the routes for reports with the
// RouterGroup that is passed.
func RegisterReportRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/summary", OptionsReport)
	r.GET("/summary", GetFinancialSummary)

	r.OPTIONS("/categories", OptionsReport)
	r.GET("/categories", GetCategoryReport)

	r.OPTIONS("/evolution", OptionsReport)
	r.GET("/evolution", GetEvolution)

	r.OPTIONS("/forecast", OptionsReport)
	r.GET("/forecast", GetForecast)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Reports
// @Success		204
// @Router			/v1/reports/summary [options]
func OptionsReport(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Financial summary
// @Description	Returns income, expenses and the balance for the last days
// @Tags			Reports
// @Produce		json
// @Success		200		{object}	FinancialSummaryResponse
// @Failure		400		{object}	FinancialSummaryResponse
// @Failure		500		{object}	FinancialSummaryResponse
// @Param			days	query		int	false	"Length of the sliding window in days. Defaults to 30."
// @Router			/v1/reports/summary [get]
func GetFinancialSummary(c *gin.Context) {
	var query summaryQuery
	_ = c.Bind(&query)

	if query.Days == 0 {
		query.Days = 30
	}

	if query.Days < 0 {
		s := errDaysInvalid.Error()
		c.JSON(http.StatusBadRequest, FinancialSummaryResponse{
			Error: &s,
		})
		return
	}

	key := fmt.Sprintf("summary/%d", query.Days)
	if cached, ok := reportCache.Get(key); ok {
		summary := cached.(FinancialSummary)
		c.JSON(http.StatusOK, FinancialSummaryResponse{Data: &summary})
		return
	}

	to := time.Now().In(time.UTC)
	from := to.AddDate(0, 0, -query.Days)

	income, err := models.TypeSum(models.DB, models.TypeIncome, from, to)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), FinancialSummaryResponse{
			Error: &s,
		})
		return
	}

	expenses, err := models.TypeSum(models.DB, models.TypeExpense, from, to)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), FinancialSummaryResponse{
			Error: &s,
		})
		return
	}

	summary := FinancialSummary{
		From:     types.DateOf(from),
		To:       types.DateOf(to),
		Income:   income,
		Expenses: expenses,
		Balance:  income.Sub(expenses),
	}

	reportCache.Set(key, summary)
	c.JSON(http.StatusOK, FinancialSummaryResponse{Data: &summary})
}

// @Summary		Sums per category
// @Description	Returns the sums per category label for a month
// @Tags			Reports
// @Produce		json
// @Success		200		{object}	CategoryReportResponse
// @Failure		400		{object}	CategoryReportResponse
// @Failure		500		{object}	CategoryReportResponse
// @Param			month	query		string	false	"The month in YYYY-MM format. Defaults to the current month."
// @Param			type	query		string	false	"Entry type, DESPESA or RECEITA. Defaults to DESPESA."
// @Router			/v1/reports/categories [get]
func GetCategoryReport(c *gin.Context) {
	var query categoriesQuery
	_ = c.Bind(&query)

	month := types.MonthOf(time.Now().In(time.UTC))
	if !query.Month.IsZero() {
		month = types.MonthOf(query.Month)
	}

	entryType := models.TypeExpense
	if query.Type != "" {
		entryType = query.Type
	}

	if entryType != models.TypeExpense && entryType != models.TypeIncome {
		s := models.ErrExpenseTypeInvalid.Error()
		c.JSON(http.StatusBadRequest, CategoryReportResponse{
			Error: &s,
		})
		return
	}

	key := fmt.Sprintf("categories/%s/%s", month, entryType)
	if cached, ok := reportCache.Get(key); ok {
		report := cached.(CategoryReport)
		c.JSON(http.StatusOK, CategoryReportResponse{Data: &report})
		return
	}

	from := time.Time(month)
	to := time.Time(month.AddDate(0, 1))

	sums, err := models.CategorySums(models.DB, entryType, from, to)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CategoryReportResponse{
			Error: &s,
		})
		return
	}

	amounts := make([]decimal.Decimal, 0, len(sums))
	for _, amount := range sums {
		amounts = append(amounts, amount)
	}

	report := CategoryReport{
		Month:      month,
		Type:       entryType,
		Categories: sums,
		Total:      money.Sum(amounts),
	}

	reportCache.Set(key, report)
	c.JSON(http.StatusOK, CategoryReportResponse{Data: &report})
}

// @Summary		Income and spending history
// @Description	Returns income, expenses and the running balance per month
// @Tags			Reports
// @Produce		json
// @Success		200		{object}	EvolutionResponse
// @Failure		400		{object}	EvolutionResponse
// @Failure		500		{object}	EvolutionResponse
// @Param			months	query		int	false	"Number of months to report, ending with the current one. Defaults to 6."
// @Router			/v1/reports/evolution [get]
func GetEvolution(c *gin.Context) {
	var query evolutionQuery
	_ = c.Bind(&query)

	if query.Months == 0 {
		query.Months = 6
	}

	if query.Months < 0 {
		s := errMonthsInvalid.Error()
		c.JSON(http.StatusBadRequest, EvolutionResponse{
			Error: &s,
		})
		return
	}

	key := fmt.Sprintf("evolution/%d", query.Months)
	if cached, ok := reportCache.Get(key); ok {
		c.JSON(http.StatusOK, EvolutionResponse{Data: cached.([]EvolutionMonth)})
		return
	}

	current := types.MonthOf(time.Now().In(time.UTC))
	data := make([]EvolutionMonth, 0, query.Months)
	accumulated := decimal.Zero

	for i := query.Months - 1; i >= 0; i-- {
		month := current.AddDate(0, -i)
		from := time.Time(month)
		to := time.Time(month.AddDate(0, 1))

		income, err := models.TypeSum(models.DB, models.TypeIncome, from, to)
		if err != nil {
			s := err.Error()
			c.JSON(status(err), EvolutionResponse{
				Error: &s,
			})
			return
		}

		expenses, err := models.TypeSum(models.DB, models.TypeExpense, from, to)
		if err != nil {
			s := err.Error()
			c.JSON(status(err), EvolutionResponse{
				Error: &s,
			})
			return
		}

		balance := income.Sub(expenses)
		accumulated = accumulated.Add(balance)

		data = append(data, EvolutionMonth{
			Month:       month,
			Income:      income,
			Expenses:    expenses,
			Balance:     balance,
			Accumulated: accumulated,
		})
	}

	reportCache.Set(key, data)
	c.JSON(http.StatusOK, EvolutionResponse{Data: data})
}

// @Summary		Spending forecast
// @Description	Projects the spending of the current month by scaling the amount spent so far to the full month
// @Tags			Reports
// @Produce		json
// @Success		200	{object}	ForecastResponse
// @Failure		500	{object}	ForecastResponse
// @Router			/v1/reports/forecast [get]
func GetForecast(c *gin.Context) {
	now := time.Now().In(time.UTC)
	month := types.MonthOf(now)

	from := time.Time(month)
	to := time.Time(month.AddDate(0, 1))

	spent, err := models.TypeSum(models.DB, models.TypeExpense, from, now)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ForecastResponse{
			Error: &s,
		})
		return
	}

	day := now.Day()
	days := to.AddDate(0, 0, -1).Day()

	projected := spent.
		Mul(decimal.NewFromInt(int64(days))).
		DivRound(decimal.NewFromInt(int64(day)), 2)

	forecast := Forecast{
		Month:     month,
		Spent:     spent,
		Projected: projected,
		Day:       day,
		Days:      days,
	}

	c.JSON(http.StatusOK, ForecastResponse{Data: &forecast})
}
