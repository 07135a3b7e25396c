package handlers

import (
	"net/http"

	"couple-journal-backend/internal/middleware"
	"couple-journal-backend/internal/services"
)

// MessageHandler handles love message HTTP requests
type MessageHandler struct {
	messages *services.MessageService
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(messages *services.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// List handles GET /api/v1/messages
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.messages.List(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, r, err, "Failed to list messages")
		return
	}
	respondJSON(w, http.StatusOK, list)
}

// Create handles POST /api/v1/messages
func (h *MessageHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.MessageInput
	if !decodeJSON(w, r, &in) {
		return
	}
	msg, err := h.messages.Create(r.Context(), middleware.GetUserID(r.Context()), in)
	if err != nil {
		respondServiceError(w, r, err, "Failed to create message")
		return
	}
	respondJSON(w, http.StatusCreated, msg)
}

// Update handles PUT /api/v1/messages with the id in the body
func (h *MessageHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in services.MessageInput
	if !decodeJSON(w, r, &in) {
		return
	}
	msg, err := h.messages.Update(r.Context(), middleware.GetUserID(r.Context()), resourceID(r, in.ID), in)
	if err != nil {
		respondServiceError(w, r, err, "Failed to update message")
		return
	}
	respondJSON(w, http.StatusOK, msg)
}

// MarkRead handles PUT /api/v1/messages/{id}
func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	msg, err := h.messages.MarkRead(r.Context(), middleware.GetUserID(r.Context()), resourceID(r, ""))
	if err != nil {
		respondServiceError(w, r, err, "Failed to mark message read")
		return
	}
	respondJSON(w, http.StatusOK, msg)
}

// Delete handles DELETE /api/v1/messages?id= and DELETE /api/v1/messages/{id}
func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.messages.Delete(r.Context(), middleware.GetUserID(r.Context()), resourceID(r, "")); err != nil {
		respondServiceError(w, r, err, "Failed to delete message")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
