package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/hdbaza/helpdesk-api/internal/middleware"
	"github.com/hdbaza/helpdesk-api/internal/model"
	"github.com/hdbaza/helpdesk-api/internal/response"
	"github.com/hdbaza/helpdesk-api/internal/service"
	"github.com/hdbaza/helpdesk-api/internal/validator"
)

// AdminHandler handles the admin directory endpoints.
type AdminHandler struct {
	admins *service.AdminService
	log    zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(admins *service.AdminService, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		admins: admins,
		log:    log.With().Str("component", "admin_handler").Logger(),
	}
}

// List godoc
// GET /api/admins
func (h *AdminHandler) List(c *gin.Context) {
	admins, err := h.admins.List(c.Request.Context())
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.SuccessList(c, http.StatusOK, gin.H{"admins": admins}, len(admins))
}

// Create godoc
// POST /api/admins
func (h *AdminHandler) Create(c *gin.Context) {
	var req model.CreateAdminRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	addedBy := req.AddedBy
	if addedBy == "" {
		addedBy = middleware.Actor(c)
	}

	admin, err := h.admins.Add(c.Request.Context(), req.Email, req.Name, addedBy)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"admin": admin})
}

// Delete godoc
// DELETE /api/admins/:email
// The last remaining admin cannot be removed.
func (h *AdminHandler) Delete(c *gin.Context) {
	if err := h.admins.Remove(c.Request.Context(), c.Param("email")); err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// CheckAdmin godoc
// GET /api/check-admin/:email
func (h *AdminHandler) CheckAdmin(c *gin.Context) {
	ok, err := h.admins.IsAdmin(c.Request.Context(), c.Param("email"))
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"is_admin": ok})
}
