package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"couple-journal-backend/internal/middleware"
	"couple-journal-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const maxBodyBytes = 1 << 20

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	respondJSON(w, statusCode, ErrorResponse{Error: message})
}

// respondServiceError maps a service error to its HTTP status. Unclassified
// errors are logged and hidden behind a generic 500.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error, action string) {
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		respondError(w, svcErr.Message, statusFor(svcErr.Kind))
		return
	}

	log.Error().
		Err(err).
		Str("user_id", middleware.GetUserID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg(action)
	respondError(w, "Internal server error", http.StatusInternalServerError)
}

func statusFor(kind error) int {
	switch {
	case errors.Is(kind, services.ErrValidation),
		errors.Is(kind, services.ErrNoCouple),
		errors.Is(kind, services.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(kind, services.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(kind, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(kind, services.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads a JSON body into v. An empty body leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	respondError(w, "Invalid request body", http.StatusBadRequest)
	return false
}

// resourceID picks the record id from the path, then the query string, then the body.
func resourceID(r *http.Request, fromBody string) string {
	if id := chi.URLParam(r, "id"); id != "" {
		return id
	}
	if id := r.URL.Query().Get("id"); id != "" {
		return id
	}
	return strings.TrimSpace(fromBody)
}
