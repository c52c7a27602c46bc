package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/hdbaza/helpdesk-api/internal/middleware"
	"github.com/hdbaza/helpdesk-api/internal/model"
	"github.com/hdbaza/helpdesk-api/internal/repository"
	"github.com/hdbaza/helpdesk-api/internal/response"
	"github.com/hdbaza/helpdesk-api/internal/service"
	"github.com/hdbaza/helpdesk-api/internal/validator"
)

// ProblemHandler handles ticket endpoints.
type ProblemHandler struct {
	tickets *service.TicketService
	log     zerolog.Logger
}

// NewProblemHandler creates a new ProblemHandler.
func NewProblemHandler(tickets *service.TicketService, log zerolog.Logger) *ProblemHandler {
	return &ProblemHandler{
		tickets: tickets,
		log:     log.With().Str("component", "problem_handler").Logger(),
	}
}

// Create godoc
// POST /api/problems
// Submits a new ticket with status Nowy.
func (h *ProblemHandler) Create(c *gin.Context) {
	var req model.CreateProblemRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	p, err := h.tickets.Create(c.Request.Context(), req, middleware.Actor(c))
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"problem": p})
}

// List godoc
// GET /api/problems?status=&category=&search=
func (h *ProblemHandler) List(c *gin.Context) {
	filter := repository.ProblemFilter{
		Status:   model.ProblemStatus(c.Query("status")),
		Category: model.Category(c.Query("category")),
		Search:   c.Query("search"),
	}

	problems, err := h.tickets.List(c.Request.Context(), filter)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.SuccessList(c, http.StatusOK, gin.H{"problems": problems}, len(problems))
}

// Get godoc
// GET /api/problems/:id
func (h *ProblemHandler) Get(c *gin.Context) {
	p, err := h.tickets.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"problem": p})
}

// Update godoc
// PUT /api/problems/:id
// Applies a sparse update; omitted fields are left untouched.
func (h *ProblemHandler) Update(c *gin.Context) {
	var req model.UpdateProblemRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	p, err := h.tickets.Update(c.Request.Context(), c.Param("id"), req, middleware.Actor(c))
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"problem": p})
}

// UpdateStatus godoc
// PUT /api/problems/:id/status
// Admin only. The status comes from the JSON body or the ?status= query.
func (h *ProblemHandler) UpdateStatus(c *gin.Context) {
	status := model.ProblemStatus(c.Query("status"))
	if status == "" {
		var req model.UpdateStatusRequest
		if fields := validator.Bind(c, &req); fields != nil {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
			return
		}
		status = req.Status
	}

	p, err := h.tickets.UpdateStatus(c.Request.Context(), c.Param("id"), status, middleware.Actor(c))
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"problem": p})
}

// Delete godoc
// DELETE /api/problems/:id
// Admin only. Removes the ticket and its instruction.
func (h *ProblemHandler) Delete(c *gin.Context) {
	if err := h.tickets.Delete(c.Request.Context(), c.Param("id"), middleware.Actor(c)); err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
