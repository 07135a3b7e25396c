package handlers

import (
	"net/http"

	"couple-journal-backend/internal/middleware"
	"couple-journal-backend/internal/services"
)

// BucketListHandler handles bucket list HTTP requests
type BucketListHandler struct {
	items *services.BucketListService
}

// NewBucketListHandler creates a new bucket list handler
func NewBucketListHandler(items *services.BucketListService) *BucketListHandler {
	return &BucketListHandler{items: items}
}

// List handles GET /api/v1/bucket-list
func (h *BucketListHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.items.List(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, r, err, "Failed to list bucket list")
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// Create handles POST /api/v1/bucket-list
func (h *BucketListHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.BucketInput
	if !decodeJSON(w, r, &in) {
		return
	}
	item, err := h.items.Create(r.Context(), middleware.GetUserID(r.Context()), in)
	if err != nil {
		respondServiceError(w, r, err, "Failed to create bucket list item")
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

// Update handles PUT /api/v1/bucket-list with the id in the body
func (h *BucketListHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in services.BucketInput
	if !decodeJSON(w, r, &in) {
		return
	}
	item, err := h.items.Update(r.Context(), middleware.GetUserID(r.Context()), resourceID(r, in.ID), in)
	if err != nil {
		respondServiceError(w, r, err, "Failed to update bucket list item")
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// Delete handles DELETE /api/v1/bucket-list?id=
func (h *BucketListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.items.Delete(r.Context(), middleware.GetUserID(r.Context()), resourceID(r, "")); err != nil {
		respondServiceError(w, r, err, "Failed to delete bucket list item")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
