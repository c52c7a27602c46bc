package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() { gin.SetMode(gin.TestMode) }

func TestEnvelope(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ok", func(c *gin.Context) { SuccessList(c, http.StatusOK, []string{"a", "b"}, 2) })
	r.GET("/fail", func(c *gin.Context) {
		FailWithFields(c, http.StatusBadRequest, ErrValidation, map[string]string{"title": "required"})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("X-Request-ID", "req-1")
	r.ServeHTTP(w, req)

	var ok Response
	if err := json.Unmarshal(w.Body.Bytes(), &ok); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ok.Metadata.RequestID != "req-1" || w.Header().Get("X-Request-ID") != "req-1" {
		t.Errorf("request id = %q / %q", ok.Metadata.RequestID, w.Header().Get("X-Request-ID"))
	}
	if ok.Pagination == nil || ok.Pagination.TotalItems != 2 || ok.Error != nil {
		t.Errorf("envelope = %+v", ok)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))
	var fail Response
	if err := json.Unmarshal(w.Body.Bytes(), &fail); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if fail.Error == nil || fail.Error.Code != ErrValidation || fail.Error.Fields["title"] != "required" {
		t.Fatalf("error body = %+v", fail.Error)
	}
	if fail.Error.Message != GetMessage(ErrValidation) || fail.Metadata.RequestID == "" {
		t.Errorf("error envelope = %+v", fail)
	}
}

func TestEveryCodeHasMessage(t *testing.T) {
	codes := []ErrCode{
		ErrInvalidCredentials, ErrLoginDisabled, ErrTokenRequired, ErrTokenInvalid, ErrTokenRevoked,
		ErrForbidden, ErrAdminAccessOnly, ErrValidation, ErrInvalidPayload, ErrInvalidStatus,
		ErrNotFound, ErrProblemNotFound, ErrInstructionNotFound, ErrAdminNotFound, ErrConflict,
		ErrAdminExists, ErrLastAdmin, ErrActionForbidden, ErrFileRequired, ErrFileEmpty,
		ErrFileTooLarge, ErrRateLimitExceeded, ErrInternal,
	}
	fallback := GetMessage("UNKNOWN")
	for _, c := range codes {
		if GetMessage(c) == fallback {
			t.Errorf("%s has no dedicated message", c)
		}
	}
}

func TestRequestIDReplacesUnsafeHeader(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { Success(c, http.StatusOK, nil) })

	tests := []struct {
		header string
		keep   bool
	}{
		{"abc-123", true},
		{"", false},
		{"has space", false},
		{string(make([]byte, maxRequestIDLen+1)), false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			req.Header.Set(HeaderRequestID, tt.header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		got := w.Header().Get(HeaderRequestID)
		if got == "" {
			t.Fatalf("no request id for %q", tt.header)
		}
		if (got == tt.header) != tt.keep {
			t.Errorf("header %q -> %q, keep = %v", tt.header, got, tt.keep)
		}
	}
}
