package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/hdbaza/helpdesk-api/internal/response"
	"github.com/hdbaza/helpdesk-api/internal/service"
)

// StatsHandler serves aggregate ticket counts.
type StatsHandler struct {
	stats *service.StatsService
	log   zerolog.Logger
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(stats *service.StatsService, log zerolog.Logger) *StatsHandler {
	return &StatsHandler{
		stats: stats,
		log:   log.With().Str("component", "stats_handler").Logger(),
	}
}

// Get godoc
// GET /api/stats
func (h *StatsHandler) Get(c *gin.Context) {
	stats, err := h.stats.Compute(c.Request.Context())
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}
