package v1

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/fincontrol/backend/internal/httputil"
	"github.com/fincontrol/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// csvHeader is the column layout consumers of the export rely on.
var csvHeader = []string{"ID", "Descrição", "Valor", "Categoria", "Data", "Observações"}

type exportQuery struct {
	FromDate  time.Time `form:"fromDate" time_format:"2006-01-02" time_utc:"1"`  // Entries on or after this date
	UntilDate time.Time `form:"untilDate" time_format:"2006-01-02" time_utc:"1"` // Entries before or on this date
	Type      string    `form:"type"`                                            // Entry type
}

// RegisterExportRoutes registers the routes for exports with the
// RouterGroup that is passed.
func RegisterExportRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/expenses", OptionsExport)
	r.GET("/expenses", ExportExpenses)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Export
// @Success		204
// @Router			/v1/export/expenses [options]
func OptionsExport(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Export expenses
// @Description	Exports ledger entries as a CSV file
// @Tags			Export
// @Produce		text/csv
// @Success		200	{string}	string
// @Failure		400	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			fromDate	query	string	false	"Entries on or after this date (YYYY-MM-DD)"
// @Param			untilDate	query	string	false	"Entries before or on this date (YYYY-MM-DD)"
// @Param			type		query	string	false	"Filter by entry type"
// @Router			/v1/export/expenses [get]
func ExportExpenses(c *gin.Context) {
	var query exportQuery
	_ = c.Bind(&query)

	q := models.DB.Order("date ASC, id ASC")

	if !query.FromDate.IsZero() {
		q = q.Where("date >= date(?)", query.FromDate)
	}

	if !query.UntilDate.IsZero() {
		q = q.Where("date < date(?)", query.UntilDate.AddDate(0, 0, 1))
	}

	if query.Type != "" {
		q = q.Where("type = ?", query.Type)
	}

	var expenses []models.Expense
	err := q.Find(&expenses).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	_ = w.Write(csvHeader)
	for _, expense := range expenses {
		_ = w.Write([]string{
			fmt.Sprint(expense.ID),
			expense.Description,
			expense.Amount.StringFixed(2),
			expense.Category,
			expense.Date.Format("02/01/2006 15:04"),
			expense.Note,
		})
	}

	w.Flush()
	if err := w.Error(); err != nil {
		c.JSON(http.StatusInternalServerError, httpError{
			Error: err.Error(),
		})
		return
	}

	filename := fmt.Sprintf("despesas-%s.csv", time.Now().In(time.UTC).Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
