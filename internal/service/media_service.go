package service

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/hdbaza/helpdesk-api/internal/config"
	"github.com/hdbaza/helpdesk-api/internal/model"
)

// Sentinel errors for media uploads.
var (
	ErrFileTooLarge = errors.New("file too large")
	ErrEmptyFile    = errors.New("file is empty")
)

// MediaService turns uploaded files into base64 payloads that clients embed
// in problems and instructions.
type MediaService struct {
	maxBytes int64
}

// NewMediaService creates a new MediaService.
func NewMediaService(cfg *config.Config) *MediaService {
	return &MediaService{maxBytes: cfg.MaxUploadBytes}
}

// Encode reads an uploaded file and returns it base64 encoded. Nothing is
// written to disk.
func (s *MediaService) Encode(file multipart.File, header *multipart.FileHeader) (model.UploadResult, error) {
	if header.Size > s.maxBytes {
		return model.UploadResult{}, fmt.Errorf("%w: %d bytes (max: %d)", ErrFileTooLarge, header.Size, s.maxBytes)
	}

	data, err := io.ReadAll(io.LimitReader(file, s.maxBytes+1))
	if err != nil {
		return model.UploadResult{}, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return model.UploadResult{}, fmt.Errorf("%w: more than %d bytes", ErrFileTooLarge, s.maxBytes)
	}
	if len(data) == 0 {
		return model.UploadResult{}, ErrEmptyFile
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	return model.UploadResult{
		Filename:    filepath.Base(header.Filename),
		ContentType: contentType,
		Base64Data:  base64.StdEncoding.EncodeToString(data),
	}, nil
}
