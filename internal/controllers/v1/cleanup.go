package v1

import (
	"net/http"

	"github.com/fincontrol/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type cleanupQuery struct {
	Confirm string `form:"confirm"`
}

// @Summary		Delete everything
// @Description	Permanently deletes all resources. Requires the confirmation query parameter to be set.
// @Tags			v1
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			confirm	query	string	false	"Confirmation to delete all resources. Must have the value 'yes-please-delete-everything'"
// @Router			/v1 [delete]
func Cleanup(c *gin.Context) {
	var query cleanupQuery
	_ = c.Bind(&query)

	if query.Confirm != "yes-please-delete-everything" {
		c.JSON(http.StatusBadRequest, httpError{
			Error: errCleanupConfirmation.Error(),
		})
		return
	}

	// Referencing tables first so that no delete can trip over a
	// constraint
	resources := []any{
		&models.Expense{},
		&models.ExpenseMirror{},
		&models.CategoryRule{},
		&models.Goal{},
		&models.BudgetCategory{},
		&models.MonthlyBudget{},
		&models.User{},
	}

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		for _, model := range resources {
			err := tx.Where("true").Delete(model).Error
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		// A transaction that cannot begin fails before the error
		// callbacks run, so the raw driver error must not reach the
		// client. Nothing in the wipe depends on user input, every
		// failure here is a server error.
		log.Error().Err(err).Msg("the cleanup transaction was rolled back")
		c.JSON(http.StatusInternalServerError, httpError{
			Error: models.ErrGeneral.Error(),
		})
		return
	}

	invalidateReportCache()
	c.JSON(http.StatusNoContent, nil)
}
