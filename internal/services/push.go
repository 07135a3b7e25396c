package services

import (
	"context"
	"fmt"

	"couple-journal-backend/internal/config"
	"couple-journal-backend/internal/models"
	"couple-journal-backend/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/payload"
	"github.com/sideshow/apns2/token"
)

// PushClient delivers a single APNs notification
type PushClient interface {
	PushWithContext(ctx apns2.Context, n *apns2.Notification) (*apns2.Response, error)
}

// PushNotifier sends APNs alerts for the notifications worth interrupting
// someone for. Everything else is left to the websocket hub and polling.
type PushNotifier struct {
	client PushClient
	users  repository.UserRepository
	topic  string
}

// NewPushNotifier creates a push notifier around an APNs client
func NewPushNotifier(client PushClient, users repository.UserRepository, topic string) *PushNotifier {
	return &PushNotifier{client: client, users: users, topic: topic}
}

// NewAPNsClient builds a token-authenticated APNs client from configuration.
func NewAPNsClient(cfg config.APNsConfig) (*apns2.Client, error) {
	authKey, err := token.AuthKeyFromFile(cfg.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load APNs key: %w", err)
	}
	client := apns2.NewTokenClient(&token.Token{
		AuthKey: authKey,
		KeyID:   cfg.KeyID,
		TeamID:  cfg.TeamID,
	})
	if cfg.Production {
		return client.Production(), nil
	}
	return client.Development(), nil
}

// Notify implements Notifier.
func (p *PushNotifier) Notify(ctx context.Context, recipientID string, n Notification) {
	title, body, ok := pushAlert(n)
	if !ok {
		return
	}

	user, err := p.users.GetByID(ctx, recipientID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", recipientID).Msg("Failed to load push recipient")
		return
	}
	if user.PushToken == nil || *user.PushToken == "" {
		return
	}

	pl := payload.NewPayload().
		AlertTitle(title).
		AlertBody(body).
		Sound("default").
		Custom("type", n.Type).
		Custom("resource", n.Resource).
		Custom("resourceId", n.ResourceID)

	resp, err := p.client.PushWithContext(ctx, &apns2.Notification{
		DeviceToken: *user.PushToken,
		Topic:       p.topic,
		Payload:     pl,
	})
	if err != nil {
		log.Error().Err(err).Str("user_id", recipientID).Msg("Failed to send push")
		return
	}
	if !resp.Sent() {
		log.Warn().
			Str("user_id", recipientID).
			Int("status", resp.StatusCode).
			Str("reason", resp.Reason).
			Msg("Push rejected")
	}
}

func pushAlert(n Notification) (title, body string, ok bool) {
	switch n.Type {
	case NotifyMessageCreated:
		if msg, isMsg := n.Data.(*models.LoveMessage); isMsg {
			return "💌 Tin nhắn mới", msg.Compose(), true
		}
		return "💌 Tin nhắn mới", "Người ấy vừa gửi cho bạn một lời nhắn", true
	case NotifyEventReminder:
		if event, isEvent := n.Data.(*models.Event); isEvent {
			return "⏰ Sắp đến giờ hẹn", event.Title, true
		}
		return "⏰ Sắp đến giờ hẹn", "Bạn có một sự kiện sắp diễn ra", true
	case NotifyCoupleCreated:
		return "💕 Kết nối thành công", "Hai bạn đã trở thành một cặp đôi", true
	}
	return "", "", false
}
