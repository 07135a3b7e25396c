package handlers

import (
	"net/http"
	"strings"

	"couple-journal-backend/internal/middleware"
	"couple-journal-backend/internal/models"
	"couple-journal-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// CoupleHandler handles couple-related HTTP requests
type CoupleHandler struct {
	coupleService *services.CoupleService
}

// NewCoupleHandler creates a new couple handler
func NewCoupleHandler(coupleService *services.CoupleService) *CoupleHandler {
	return &CoupleHandler{
		coupleService: coupleService,
	}
}

// CoupleResponse wraps the caller's couple, which is null before pairing
type CoupleResponse struct {
	Couple *models.Couple `json:"couple"`
}

// GetCouple handles GET /api/v1/couples
func (h *CoupleHandler) GetCouple(w http.ResponseWriter, r *http.Request) {
	couple, err := h.coupleService.GetCouple(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, r, err, "Failed to get couple")
		return
	}
	respondJSON(w, http.StatusOK, CoupleResponse{Couple: couple})
}

// CreateCouple handles POST /api/v1/couples
func (h *CoupleHandler) CreateCouple(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req services.CreateCoupleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Action != "" && !strings.EqualFold(req.Action, "create") {
		respondError(w, "Invalid action", http.StatusBadRequest)
		return
	}

	couple, err := h.coupleService.CreateCouple(ctx, userID, req.PartnerEmail, req.StartDate)
	if err != nil {
		respondServiceError(w, r, err, "Failed to create couple")
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("couple_id", couple.ID).
		Msg("Couple created")

	respondJSON(w, http.StatusCreated, CoupleResponse{Couple: couple})
}

// UpdateCouple handles PUT /api/v1/couples
func (h *CoupleHandler) UpdateCouple(w http.ResponseWriter, r *http.Request) {
	var req services.UpdateCoupleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	couple, err := h.coupleService.UpdateCouple(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		respondServiceError(w, r, err, "Failed to update couple")
		return
	}
	respondJSON(w, http.StatusOK, CoupleResponse{Couple: couple})
}

// DeleteCouple handles DELETE /api/v1/couples
func (h *CoupleHandler) DeleteCouple(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	if err := h.coupleService.DeleteCouple(ctx, userID); err != nil {
		respondServiceError(w, r, err, "Failed to delete couple")
		return
	}

	log.Info().Str("user_id", userID).Msg("Couple deleted")
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
