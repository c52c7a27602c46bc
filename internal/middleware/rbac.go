package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hdbaza/helpdesk-api/internal/auth"
	"github.com/hdbaza/helpdesk-api/internal/response"
	"github.com/hdbaza/helpdesk-api/internal/service"
)

// RequireAdmin lets the request through when the caller carries the admin
// role or their email is in the admin directory. Must run after RequireAuth.
func RequireAdmin(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := GetIdentity(c)
		if !ok {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		role, err := authService.EffectiveRole(c.Request.Context(), id)
		if err != nil {
			_ = c.Error(err)
			response.AbortFail(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}
		if role != auth.RoleAdmin {
			response.AbortFail(c, http.StatusForbidden, response.ErrAdminAccessOnly)
			return
		}

		c.Set(ContextKeyRole, role)
		c.Next()
	}
}
