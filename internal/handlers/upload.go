package handlers

import (
	"net/http"

	"couple-journal-backend/internal/middleware"
	"couple-journal-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// UploadHandler hands out presigned object storage URLs
type UploadHandler struct {
	media *services.MediaService
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(media *services.MediaService) *UploadHandler {
	return &UploadHandler{media: media}
}

// CreateUpload handles POST /api/v1/uploads
func (h *UploadHandler) CreateUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req services.UploadRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.media.PresignUpload(ctx, userID, req)
	if err != nil {
		respondServiceError(w, r, err, "Failed to create upload URL")
		return
	}

	log.Debug().
		Str("user_id", userID).
		Str("key", resp.Key).
		Msg("Upload URL issued")

	respondJSON(w, http.StatusOK, resp)
}
