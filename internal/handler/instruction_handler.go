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

// InstructionHandler handles resolution endpoints.
type InstructionHandler struct {
	instructions *service.InstructionService
	log          zerolog.Logger
}

// NewInstructionHandler creates a new InstructionHandler.
func NewInstructionHandler(instructions *service.InstructionService, log zerolog.Logger) *InstructionHandler {
	return &InstructionHandler{
		instructions: instructions,
		log:          log.With().Str("component", "instruction_handler").Logger(),
	}
}

// Create godoc
// POST /api/instructions
// Admin only. Resolves the referenced ticket.
func (h *InstructionHandler) Create(c *gin.Context) {
	var req model.CreateInstructionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	in, err := h.instructions.Create(c.Request.Context(), req, middleware.Actor(c))
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"instruction": in})
}

// Get godoc
// GET /api/instructions/:problem_id
// Returns the ticket's instruction, or null when it has none.
func (h *InstructionHandler) Get(c *gin.Context) {
	in, err := h.instructions.GetByTicket(c.Request.Context(), c.Param("problem_id"))
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"instruction": in})
}

// Delete godoc
// DELETE /api/instructions/:problem_id
// Admin only. Moves the ticket back to W toku.
func (h *InstructionHandler) Delete(c *gin.Context) {
	err := h.instructions.DeleteByTicket(c.Request.Context(), c.Param("problem_id"), middleware.Actor(c))
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
