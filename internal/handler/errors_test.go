package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/hdbaza/helpdesk-api/internal/response"
	"github.com/hdbaza/helpdesk-api/internal/service"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   response.ErrCode
	}{
		{service.ErrTicketNotFound, http.StatusNotFound, response.ErrProblemNotFound},
		{fmt.Errorf("wrap: %w", service.ErrInstructionNotFound), http.StatusNotFound, response.ErrInstructionNotFound},
		{service.ErrAdminExists, http.StatusConflict, response.ErrAdminExists},
		{service.ErrLastAdmin, http.StatusBadRequest, response.ErrLastAdmin},
		{service.ErrInvalidStatus, http.StatusBadRequest, response.ErrInvalidStatus},
		{service.ErrInvalidCategory, http.StatusBadRequest, response.ErrValidation},
		{service.ErrInvalidOperation, http.StatusBadRequest, response.ErrActionForbidden},
		{service.ErrForbidden, http.StatusForbidden, response.ErrForbidden},
		{service.ErrInvalidCredentials, http.StatusUnauthorized, response.ErrInvalidCredentials},
		{service.ErrUnauthorized, http.StatusUnauthorized, response.ErrTokenInvalid},
		{service.ErrFileTooLarge, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge},
		{errors.New("mongo down"), http.StatusInternalServerError, response.ErrInternal},
	}

	for _, tt := range tests {
		status, code := classify(tt.err)
		if status != tt.wantStatus || code != tt.wantCode {
			t.Errorf("classify(%v) = %d %s, want %d %s", tt.err, status, code, tt.wantStatus, tt.wantCode)
		}
	}
}
