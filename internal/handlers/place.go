package handlers

import (
	"net/http"

	"couple-journal-backend/internal/middleware"
	"couple-journal-backend/internal/services"
)

// PlaceHandler handles memory map HTTP requests
type PlaceHandler struct {
	places *services.PlaceService
}

// NewPlaceHandler creates a new place handler
func NewPlaceHandler(places *services.PlaceService) *PlaceHandler {
	return &PlaceHandler{places: places}
}

// List handles GET /api/v1/places?coupleId=
func (h *PlaceHandler) List(w http.ResponseWriter, r *http.Request) {
	places, err := h.places.List(r.Context(), middleware.GetUserID(r.Context()), r.URL.Query().Get("coupleId"))
	if err != nil {
		respondServiceError(w, r, err, "Failed to list places")
		return
	}
	respondJSON(w, http.StatusOK, places)
}

// Memories handles GET /api/v1/places/memories?coupleId=
func (h *PlaceHandler) Memories(w http.ResponseWriter, r *http.Request) {
	memories, err := h.places.Memories(r.Context(), middleware.GetUserID(r.Context()), r.URL.Query().Get("coupleId"))
	if err != nil {
		respondServiceError(w, r, err, "Failed to list memories")
		return
	}
	respondJSON(w, http.StatusOK, memories)
}

// Create handles POST /api/v1/places
func (h *PlaceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.PlaceInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if in.CoupleID == "" {
		in.CoupleID = r.URL.Query().Get("coupleId")
	}
	place, err := h.places.Create(r.Context(), middleware.GetUserID(r.Context()), in)
	if err != nil {
		respondServiceError(w, r, err, "Failed to create place")
		return
	}
	respondJSON(w, http.StatusCreated, place)
}

// Update handles PUT /api/v1/places/{id}
func (h *PlaceHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in services.PlaceInput
	if !decodeJSON(w, r, &in) {
		return
	}
	place, err := h.places.Update(r.Context(), middleware.GetUserID(r.Context()), resourceID(r, ""), in)
	if err != nil {
		respondServiceError(w, r, err, "Failed to update place")
		return
	}
	respondJSON(w, http.StatusOK, place)
}

// Delete handles DELETE /api/v1/places/{id}
func (h *PlaceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.places.Delete(r.Context(), middleware.GetUserID(r.Context()), resourceID(r, "")); err != nil {
		respondServiceError(w, r, err, "Failed to delete place")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
