package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/hdbaza/helpdesk-api/internal/response"
	"github.com/hdbaza/helpdesk-api/internal/service"
)

// multipartOverhead is the room left for form boundaries and headers on top
// of the file size limit.
const multipartOverhead = 64 << 10

// MediaHandler handles file uploads.
type MediaHandler struct {
	mediaService *service.MediaService
	maxBytes     int64
	log          zerolog.Logger
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(mediaService *service.MediaService, maxBytes int64, log zerolog.Logger) *MediaHandler {
	return &MediaHandler{
		mediaService: mediaService,
		maxBytes:     maxBytes,
		log:          log.With().Str("component", "media_handler").Logger(),
	}
}

// Upload godoc
// POST /api/upload
// Returns the uploaded file base64 encoded, for embedding in tickets and
// instructions.
func (h *MediaHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartOverhead)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
			return
		}
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	defer file.Close()

	result, err := h.mediaService.Encode(file, header)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}
