package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/hdbaza/helpdesk-api/internal/response"
	"github.com/hdbaza/helpdesk-api/internal/service"
)

// failService maps a service error to its HTTP status and error code.
// Unexpected errors are logged and reported as 500.
func failService(c *gin.Context, log zerolog.Logger, err error) {
	status, code := classify(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("Request failed")
		_ = c.Error(err)
	}
	response.Fail(c, status, code)
}

func classify(err error) (int, response.ErrCode) {
	switch {
	case errors.Is(err, service.ErrTicketNotFound):
		return http.StatusNotFound, response.ErrProblemNotFound
	case errors.Is(err, service.ErrInstructionNotFound):
		return http.StatusNotFound, response.ErrInstructionNotFound
	case errors.Is(err, service.ErrAdminNotFound):
		return http.StatusNotFound, response.ErrAdminNotFound
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, response.ErrNotFound

	case errors.Is(err, service.ErrAdminExists):
		return http.StatusConflict, response.ErrAdminExists
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict, response.ErrConflict

	case errors.Is(err, service.ErrLastAdmin):
		return http.StatusBadRequest, response.ErrLastAdmin
	case errors.Is(err, service.ErrInvalidStatus):
		return http.StatusBadRequest, response.ErrInvalidStatus
	case errors.Is(err, service.ErrLoginDisabled):
		return http.StatusBadRequest, response.ErrLoginDisabled
	case errors.Is(err, service.ErrInvalidCategory), errors.Is(err, service.ErrInvalidEmail):
		return http.StatusBadRequest, response.ErrValidation
	case errors.Is(err, service.ErrInvalidOperation):
		return http.StatusBadRequest, response.ErrActionForbidden

	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, response.ErrForbidden
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, response.ErrInvalidCredentials
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized, response.ErrTokenInvalid

	case errors.Is(err, service.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, response.ErrFileTooLarge
	case errors.Is(err, service.ErrEmptyFile):
		return http.StatusBadRequest, response.ErrFileEmpty

	default:
		return http.StatusInternalServerError, response.ErrInternal
	}
}
