package handlers

import (
	"net/http"
	"time"

	"couple-journal-backend/internal/services"

	"github.com/rs/zerolog/log"
)

const oauthStateCookie = "oauth_state"

// OAuthHandler handles Google sign-in
type OAuthHandler struct {
	oauth *services.OAuthService
}

// NewOAuthHandler creates a new OAuth handler
func NewOAuthHandler(oauth *services.OAuthService) *OAuthHandler {
	return &OAuthHandler{oauth: oauth}
}

// Login handles GET /api/v1/auth/google/login
func (h *OAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	state := h.oauth.NewState()
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.oauth.AuthURL(state), http.StatusFound)
}

// Callback handles GET /api/v1/auth/google/callback
func (h *OAuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		respondError(w, "Invalid OAuth state", http.StatusBadRequest)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: oauthStateCookie, Path: "/", MaxAge: -1})

	session, err := h.oauth.Complete(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		respondServiceError(w, r, err, "Failed to complete Google login")
		return
	}

	log.Info().Str("user_id", session.User.ID).Msg("User logged in with Google")
	respondJSON(w, http.StatusOK, session)
}
