package handlers

import (
	"net/http"

	"couple-journal-backend/internal/middleware"
	"couple-journal-backend/internal/services"
)

// EventHandler handles calendar HTTP requests
type EventHandler struct {
	events *services.EventService
}

// NewEventHandler creates a new event handler
func NewEventHandler(events *services.EventService) *EventHandler {
	return &EventHandler{events: events}
}

// List handles GET /api/v1/events
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.List(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, r, err, "Failed to list events")
		return
	}
	respondJSON(w, http.StatusOK, events)
}

// Create handles POST /api/v1/events
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.EventInput
	if !decodeJSON(w, r, &in) {
		return
	}
	event, err := h.events.Create(r.Context(), middleware.GetUserID(r.Context()), in)
	if err != nil {
		respondServiceError(w, r, err, "Failed to create event")
		return
	}
	respondJSON(w, http.StatusCreated, event)
}

// Update handles PUT /api/v1/events with the id in the body
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in services.EventInput
	if !decodeJSON(w, r, &in) {
		return
	}
	event, err := h.events.Update(r.Context(), middleware.GetUserID(r.Context()), resourceID(r, in.ID), in)
	if err != nil {
		respondServiceError(w, r, err, "Failed to update event")
		return
	}
	respondJSON(w, http.StatusOK, event)
}

// Delete handles DELETE /api/v1/events?id=
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.events.Delete(r.Context(), middleware.GetUserID(r.Context()), resourceID(r, "")); err != nil {
		respondServiceError(w, r, err, "Failed to delete event")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
