package handlers

import (
	"net/http"
	"strconv"

	"couple-journal-backend/internal/middleware"
	"couple-journal-backend/internal/services"
)

// MoodHandler handles mood log HTTP requests
type MoodHandler struct {
	moods *services.MoodService
}

// NewMoodHandler creates a new mood handler
func NewMoodHandler(moods *services.MoodService) *MoodHandler {
	return &MoodHandler{moods: moods}
}

// List handles GET /api/v1/mood?days=30&partner=true
func (h *MoodHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	days := services.DefaultMoodDays
	if raw := query.Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(w, "days must be a positive integer", http.StatusBadRequest)
			return
		}
		days = n
	}
	partner, _ := strconv.ParseBool(query.Get("partner"))

	entries, err := h.moods.List(r.Context(), middleware.GetUserID(r.Context()), days, partner)
	if err != nil {
		respondServiceError(w, r, err, "Failed to list mood entries")
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

// Create handles POST /api/v1/mood
func (h *MoodHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.MoodInput
	if !decodeJSON(w, r, &in) {
		return
	}
	entry, err := h.moods.Create(r.Context(), middleware.GetUserID(r.Context()), in)
	if err != nil {
		respondServiceError(w, r, err, "Failed to create mood entry")
		return
	}
	respondJSON(w, http.StatusCreated, entry)
}

// Update handles PUT /api/v1/mood with the id in the body
func (h *MoodHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in services.MoodInput
	if !decodeJSON(w, r, &in) {
		return
	}
	entry, err := h.moods.Update(r.Context(), middleware.GetUserID(r.Context()), resourceID(r, in.ID), in)
	if err != nil {
		respondServiceError(w, r, err, "Failed to update mood entry")
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

// Delete handles DELETE /api/v1/mood?id=
func (h *MoodHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.moods.Delete(r.Context(), middleware.GetUserID(r.Context()), resourceID(r, "")); err != nil {
		respondServiceError(w, r, err, "Failed to delete mood entry")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
