package handlers

import (
	"net/http"

	"couple-journal-backend/internal/middleware"
	"couple-journal-backend/internal/services"
)

// DiaryHandler handles diary HTTP requests
type DiaryHandler struct {
	diary *services.DiaryService
}

// NewDiaryHandler creates a new diary handler
func NewDiaryHandler(diary *services.DiaryService) *DiaryHandler {
	return &DiaryHandler{diary: diary}
}

// List handles GET /api/v1/diary
func (h *DiaryHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.diary.List(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, r, err, "Failed to list diary entries")
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

// Get handles GET /api/v1/diary/{id}
func (h *DiaryHandler) Get(w http.ResponseWriter, r *http.Request) {
	entry, err := h.diary.Get(r.Context(), middleware.GetUserID(r.Context()), resourceID(r, ""))
	if err != nil {
		respondServiceError(w, r, err, "Failed to get diary entry")
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

// Create handles POST /api/v1/diary
func (h *DiaryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.DiaryInput
	if !decodeJSON(w, r, &in) {
		return
	}
	entry, err := h.diary.Create(r.Context(), middleware.GetUserID(r.Context()), in)
	if err != nil {
		respondServiceError(w, r, err, "Failed to create diary entry")
		return
	}
	respondJSON(w, http.StatusCreated, entry)
}

// Update handles PUT /api/v1/diary and PUT /api/v1/diary/{id}
func (h *DiaryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in services.DiaryInput
	if !decodeJSON(w, r, &in) {
		return
	}
	entry, err := h.diary.Update(r.Context(), middleware.GetUserID(r.Context()), resourceID(r, in.ID), in)
	if err != nil {
		respondServiceError(w, r, err, "Failed to update diary entry")
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

// Delete handles DELETE /api/v1/diary?id= and DELETE /api/v1/diary/{id}
func (h *DiaryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.diary.Delete(r.Context(), middleware.GetUserID(r.Context()), resourceID(r, "")); err != nil {
		respondServiceError(w, r, err, "Failed to delete diary entry")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
