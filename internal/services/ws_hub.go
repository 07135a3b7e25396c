package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"couple-journal-backend/internal/metrics"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const wsWriteTimeout = 10 * time.Second

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type       string `json:"type"`
	Timestamp  int64  `json:"timestamp,omitempty"`
	Resource   string `json:"resource,omitempty"`
	ResourceID string `json:"resourceId,omitempty"`
	ActorID    string `json:"actorId,omitempty"`
	Online     *bool  `json:"online,omitempty"`
	Message    string `json:"message,omitempty"`
	Data       any    `json:"data,omitempty"`
}

// wsConn serializes writes; gorilla connections allow one concurrent writer.
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsConn) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// WSHub manages WebSocket connections, one per user
type WSHub struct {
	mu          sync.RWMutex
	connections map[string]*wsConn
	couples     CoupleGuard
}

// NewWSHub creates a new WebSocket hub
func NewWSHub(couples CoupleGuard) *WSHub {
	return &WSHub{
		connections: make(map[string]*wsConn),
		couples:     couples,
	}
}

// Register registers a new WebSocket connection for a user, replacing any
// existing one.
func (h *WSHub) Register(ctx context.Context, userID string, conn *websocket.Conn) {
	h.mu.Lock()
	if existing, exists := h.connections[userID]; exists {
		existing.conn.Close()
	} else {
		metrics.WSConnected(1)
	}
	h.connections[userID] = &wsConn{conn: conn}
	h.mu.Unlock()

	log.Info().Str("user_id", userID).Msg("WebSocket connection registered")
	h.notifyPartnerStatus(ctx, userID, true)
}

// Unregister removes a user's connection if it is still conn. A nil conn
// removes whatever is registered.
func (h *WSHub) Unregister(ctx context.Context, userID string, conn *websocket.Conn) {
	h.mu.Lock()
	existing, exists := h.connections[userID]
	if !exists || (conn != nil && existing.conn != conn) {
		h.mu.Unlock()
		return
	}
	existing.conn.Close()
	delete(h.connections, userID)
	metrics.WSConnected(-1)
	h.mu.Unlock()

	log.Info().Str("user_id", userID).Msg("WebSocket connection unregistered")
	h.notifyPartnerStatus(ctx, userID, false)
}

// SendToUser sends a message to a specific user
func (h *WSHub) SendToUser(userID string, message WSMessage) error {
	h.mu.RLock()
	c, exists := h.connections[userID]
	h.mu.RUnlock()

	if !exists {
		return fmt.Errorf("user %s is not connected", userID)
	}

	if message.Timestamp == 0 {
		message.Timestamp = time.Now().UnixMilli()
	}
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := c.write(data); err != nil {
		h.drop(userID, c)
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// Notify implements Notifier. Offline recipients are skipped silently.
func (h *WSHub) Notify(_ context.Context, recipientID string, n Notification) {
	if !h.IsOnline(recipientID) {
		return
	}
	message := WSMessage{
		Type:       n.Type,
		Resource:   n.Resource,
		ResourceID: n.ResourceID,
		ActorID:    n.ActorID,
		Data:       n.Data,
	}
	if err := h.SendToUser(recipientID, message); err != nil {
		log.Warn().Err(err).Str("user_id", recipientID).Str("type", n.Type).Msg("Failed to deliver notification")
	}
}

// IsOnline checks if a user is online
func (h *WSHub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, exists := h.connections[userID]
	return exists
}

// PartnerOnline reports whether the user's partner has a live connection.
func (h *WSHub) PartnerOnline(ctx context.Context, userID string) bool {
	partnerID := h.partnerOf(ctx, userID)
	return partnerID != "" && h.IsOnline(partnerID)
}

// Close drops every connection.
func (h *WSHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, c := range h.connections {
		c.conn.Close()
		delete(h.connections, userID)
		metrics.WSConnected(-1)
	}
}

func (h *WSHub) drop(userID string, c *wsConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if current, ok := h.connections[userID]; ok && current == c {
		c.conn.Close()
		delete(h.connections, userID)
		metrics.WSConnected(-1)
	}
}

func (h *WSHub) partnerOf(ctx context.Context, userID string) string {
	if h.couples == nil {
		return ""
	}
	couple, err := h.couples.Resolve(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to resolve couple for presence")
		return ""
	}
	if couple == nil {
		return ""
	}
	return couple.PartnerOf(userID)
}

// notifyPartnerStatus tells the partner about an online/offline change
func (h *WSHub) notifyPartnerStatus(ctx context.Context, userID string, online bool) {
	partnerID := h.partnerOf(ctx, userID)
	if partnerID == "" || !h.IsOnline(partnerID) {
		return
	}

	message := WSMessage{
		Type:    "partner_status",
		ActorID: userID,
		Online:  &online,
	}
	if err := h.SendToUser(partnerID, message); err != nil {
		log.Error().
			Err(err).
			Str("user_id", partnerID).
			Msg("Failed to notify partner status")
	}
}
