package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"couple-journal-backend/internal/models"
	"couple-journal-backend/internal/repository"

	"github.com/google/uuid"
)

const defaultMessageType = "love"

// MessageService handles love messages
type MessageService struct {
	messages repository.MessageRepository
	guard    CoupleGuard
	notifier Notifier
	now      func() time.Time
}

// NewMessageService creates a new message service
func NewMessageService(messages repository.MessageRepository, guard CoupleGuard, notifier Notifier) *MessageService {
	return &MessageService{
		messages: messages,
		guard:    guard,
		notifier: orNop(notifier),
		now:      time.Now,
	}
}

// MessageInput carries message fields; nil fields are left unchanged on update.
type MessageInput struct {
	ID      string     `json:"id,omitempty"`
	Title   *string    `json:"title"`
	Emoji   *string    `json:"emoji"`
	Content *string    `json:"content"`
	Type    *string    `json:"type"`
	SentAt  *time.Time `json:"sentAt"`
}

// List returns the couple's messages newest first, or none without a couple.
func (s *MessageService) List(ctx context.Context, userID string) ([]*models.LoveMessage, error) {
	couple, err := s.guard.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	if couple == nil {
		return []*models.LoveMessage{}, nil
	}
	return s.messages.ListByCouple(ctx, couple.ID)
}

// Create sends a message to the caller's partner.
func (s *MessageService) Create(ctx context.Context, userID string, in MessageInput) (*models.LoveMessage, error) {
	if trimmed(in.Content) == "" {
		return nil, validationError("Nội dung tin nhắn là bắt buộc")
	}
	couple, err := s.guard.Require(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	msg := &models.LoveMessage{
		ID:        uuid.New().String(),
		CoupleID:  couple.ID,
		SenderID:  userID,
		Title:     trimmed(in.Title),
		Emoji:     trimmed(in.Emoji),
		Content:   strings.TrimSpace(*in.Content),
		Type:      defaultMessageType,
		SentAt:    now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if t := trimmed(in.Type); t != "" {
		msg.Type = t
	}
	if in.SentAt != nil {
		msg.SentAt = *in.SentAt
	}

	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	notifyPartner(ctx, s.notifier, couple, userID, Notification{
		Type:       NotifyMessageCreated,
		Resource:   "messages",
		ResourceID: msg.ID,
		Data:       msg,
	})
	return msg, nil
}

// Update edits a message. Title, emoji and content are independent fields, so
// editing one never loses the others.
func (s *MessageService) Update(ctx context.Context, userID, id string, in MessageInput) (*models.LoveMessage, error) {
	msg, couple, err := loadOwned(ctx, s.guard, userID, id, "Message", s.messages.GetByID,
		func(m *models.LoveMessage) string { return m.CoupleID })
	if err != nil {
		return nil, err
	}

	if in.Content != nil {
		if strings.TrimSpace(*in.Content) == "" {
			return nil, validationError("Nội dung tin nhắn là bắt buộc")
		}
		msg.Content = strings.TrimSpace(*in.Content)
	}
	if in.Title != nil {
		msg.Title = strings.TrimSpace(*in.Title)
	}
	if in.Emoji != nil {
		msg.Emoji = strings.TrimSpace(*in.Emoji)
	}
	if in.Type != nil && strings.TrimSpace(*in.Type) != "" {
		msg.Type = strings.TrimSpace(*in.Type)
	}
	if in.SentAt != nil {
		msg.SentAt = *in.SentAt
	}
	msg.UpdatedAt = s.now()

	if err := s.messages.Update(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to update message: %w", err)
	}

	notifyPartner(ctx, s.notifier, couple, userID, Notification{
		Type:       NotifyResourceUpdated,
		Resource:   "messages",
		ResourceID: msg.ID,
	})
	return msg, nil
}

// MarkRead flags a message as read.
func (s *MessageService) MarkRead(ctx context.Context, userID, id string) (*models.LoveMessage, error) {
	msg, couple, err := loadOwned(ctx, s.guard, userID, id, "Message", s.messages.GetByID,
		func(m *models.LoveMessage) string { return m.CoupleID })
	if err != nil {
		return nil, err
	}
	if msg.IsRead {
		return msg, nil
	}

	now := s.now()
	msg.IsRead = true
	msg.ReadAt = &now
	msg.UpdatedAt = now
	if err := s.messages.Update(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to mark message read: %w", err)
	}

	notifyPartner(ctx, s.notifier, couple, userID, Notification{
		Type:       NotifyResourceUpdated,
		Resource:   "messages",
		ResourceID: msg.ID,
	})
	return msg, nil
}

// Delete removes a message.
func (s *MessageService) Delete(ctx context.Context, userID, id string) error {
	msg, couple, err := loadOwned(ctx, s.guard, userID, id, "Message", s.messages.GetByID,
		func(m *models.LoveMessage) string { return m.CoupleID })
	if err != nil {
		return err
	}
	if err := s.messages.Delete(ctx, msg.ID); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}

	notifyPartner(ctx, s.notifier, couple, userID, Notification{
		Type:       NotifyResourceDeleted,
		Resource:   "messages",
		ResourceID: msg.ID,
	})
	return nil
}
