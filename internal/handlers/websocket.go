package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"couple-journal-backend/internal/middleware"
	"couple-journal-backend/internal/services"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	// native clients send no Origin; browsers are gated by the token
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler handles WebSocket connections
type WebSocketHandler struct {
	hub     *services.WSHub
	tokens  middleware.TokenValidator
	couples services.CoupleGuard
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(hub *services.WSHub, tokens middleware.TokenValidator, couples services.CoupleGuard) *WebSocketHandler {
	return &WebSocketHandler{
		hub:     hub,
		tokens:  tokens,
		couples: couples,
	}
}

// HandleWebSocket handles GET /ws?token=
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		respondError(w, "token required", http.StatusUnauthorized)
		return
	}

	userID, err := h.tokens.ValidateJWT(token)
	if err != nil {
		respondError(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}

	// presence updates outlive the request context
	ctx := context.WithoutCancel(r.Context())
	h.hub.Register(ctx, userID, conn)
	defer h.hub.Unregister(ctx, userID, conn)

	h.sendCoupleStatus(ctx, userID)
	log.Info().Str("user_id", userID).Msg("WebSocket connection established")

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error().Err(err).Str("user_id", userID).Msg("WebSocket error")
			}
			return
		}

		var msg services.WSMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.sendError(userID, "Invalid message format")
			continue
		}
		h.handleMessage(ctx, userID, msg)
	}
}

func (h *WebSocketHandler) handleMessage(ctx context.Context, userID string, msg services.WSMessage) {
	switch msg.Type {
	case "ping":
		h.send(userID, services.WSMessage{Type: "pong"})
	case "couple_status":
		h.sendCoupleStatus(ctx, userID)
	default:
		h.sendError(userID, "Unknown message type")
	}
}

// sendCoupleStatus tells the user whether they are paired and whether the
// partner is connected.
func (h *WebSocketHandler) sendCoupleStatus(ctx context.Context, userID string) {
	couple, err := h.couples.Resolve(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to resolve couple")
		return
	}

	data := map[string]any{"hasCouple": couple != nil}
	if couple != nil {
		data["coupleId"] = couple.ID
		data["partnerOnline"] = h.hub.IsOnline(couple.PartnerOf(userID))
	}
	h.send(userID, services.WSMessage{Type: "couple_status", Data: data})
}

func (h *WebSocketHandler) sendError(userID, message string) {
	h.send(userID, services.WSMessage{Type: "error", Message: message})
}

func (h *WebSocketHandler) send(userID string, msg services.WSMessage) {
	if err := h.hub.SendToUser(userID, msg); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Str("type", msg.Type).Msg("Failed to send WebSocket message")
	}
}
