package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hdbaza/helpdesk-api/internal/auth"
	"github.com/hdbaza/helpdesk-api/internal/response"
	"github.com/hdbaza/helpdesk-api/internal/service"
)

const (
	// ContextKeyIdentity is the Gin context key for the verified caller.
	ContextKeyIdentity = "identity"
	// ContextKeyRole is the Gin context key for the caller's effective role.
	ContextKeyRole = "role"
)

// RequireAuth verifies the bearer token from the Authorization header, or
// from the ?token= query parameter for WebSocket upgrades which cannot send
// headers.
func RequireAuth(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		id, err := authService.Verify(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrTokenRevoked):
				response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRevoked)
			case errors.Is(err, auth.ErrInvalidToken):
				response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			default:
				_ = c.Error(err)
				response.AbortFail(c, http.StatusInternalServerError, response.ErrInternal)
			}
			return
		}

		c.Set(ContextKeyIdentity, id)
		c.Next()
	}
}

// GetIdentity retrieves the verified caller from the Gin context.
func GetIdentity(c *gin.Context) (auth.Identity, bool) {
	val, exists := c.Get(ContextKeyIdentity)
	if !exists {
		return auth.Identity{}, false
	}
	id, ok := val.(auth.Identity)
	return id, ok
}

// Actor returns the name recorded for changes made by the caller.
func Actor(c *gin.Context) string {
	id, ok := GetIdentity(c)
	if !ok {
		return ""
	}
	if id.Email != "" {
		return id.Email
	}
	return id.Username
}

func bearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	return c.Query("token")
}
