package v1

import (
	"errors"
	"net/http"

	"github.com/fincontrol/backend/internal/models"
)

type httpError struct {
	Error string `json:"error" example:"the specified resource ID is not a valid number"`
}

// status returns the appropriate status for a database error
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) {
		return http.StatusNotFound
	}

	return http.StatusBadRequest
}

// Cleanup errors
var (
	errCleanupConfirmation = errors.New("the confirmation for the cleanup API call was incorrect")
)

// Auth errors
var (
	errAuthDisabled      = errors.New("authentication is not configured on this server")
	errInvalidToken      = errors.New("the token is invalid or expired")
	errMissingAuthHeader = errors.New("the Authorization header must be set to 'Bearer <token>'")
)

// Report errors
var (
	errDaysInvalid   = errors.New("the days parameter must be a positive number")
	errMonthsInvalid = errors.New("the months parameter must be a positive number")
)
