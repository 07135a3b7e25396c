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

const (
	defaultBucketCategory = "other"
	defaultBucketPriority = "medium"
)

// BucketListService handles the shared bucket list
type BucketListService struct {
	items    repository.BucketListRepository
	guard    CoupleGuard
	notifier Notifier
	now      func() time.Time
}

// NewBucketListService creates a new bucket list service
func NewBucketListService(items repository.BucketListRepository, guard CoupleGuard, notifier Notifier) *BucketListService {
	return &BucketListService{
		items:    items,
		guard:    guard,
		notifier: orNop(notifier),
		now:      time.Now,
	}
}

// BucketInput carries item fields; nil fields are left unchanged on update.
type BucketInput struct {
	ID          string    `json:"id,omitempty"`
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Priority    *string   `json:"priority"`
	IsCompleted *bool     `json:"isCompleted"`
	ProofImages *[]string `json:"proofImages"`
	ProofNotes  *string   `json:"proofNotes"`
}

// List returns the couple's items newest first.
func (s *BucketListService) List(ctx context.Context, userID string) ([]*models.BucketListItem, error) {
	couple, err := s.guard.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	if couple == nil {
		return []*models.BucketListItem{}, nil
	}
	return s.items.ListByCouple(ctx, couple.ID)
}

// Create adds an item to the list.
func (s *BucketListService) Create(ctx context.Context, userID string, in BucketInput) (*models.BucketListItem, error) {
	if trimmed(in.Title) == "" {
		return nil, validationError("Title is required")
	}
	couple, err := s.guard.Require(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	item := &models.BucketListItem{
		ID:          uuid.New().String(),
		CoupleID:    couple.ID,
		CreatedBy:   userID,
		Title:       trimmed(in.Title),
		Description: trimmed(in.Description),
		Category:    defaultBucketCategory,
		Priority:    defaultBucketPriority,
		ProofImages: stringList(in.ProofImages),
		ProofNotes:  trimmed(in.ProofNotes),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if c := trimmed(in.Category); c != "" {
		item.Category = c
	}
	if p := trimmed(in.Priority); p != "" {
		item.Priority = p
	}
	if in.IsCompleted != nil {
		setCompleted(item, *in.IsCompleted, now)
	}

	if err := s.items.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create bucket list item: %w", err)
	}

	notifyPartner(ctx, s.notifier, couple, userID, Notification{
		Type:       NotifyResourceCreated,
		Resource:   "bucket-list",
		ResourceID: item.ID,
	})
	return item, nil
}

// Update applies the supplied fields. Completing an item stamps completedAt;
// reopening it clears the stamp.
func (s *BucketListService) Update(ctx context.Context, userID, id string, in BucketInput) (*models.BucketListItem, error) {
	item, couple, err := loadOwned(ctx, s.guard, userID, id, "Bucket list item", s.items.GetByID,
		func(b *models.BucketListItem) string { return b.CoupleID })
	if err != nil {
		return nil, err
	}

	now := s.now()
	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, validationError("Title is required")
		}
		item.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		item.Description = strings.TrimSpace(*in.Description)
	}
	if in.Category != nil && strings.TrimSpace(*in.Category) != "" {
		item.Category = strings.TrimSpace(*in.Category)
	}
	if in.Priority != nil && strings.TrimSpace(*in.Priority) != "" {
		item.Priority = strings.TrimSpace(*in.Priority)
	}
	if in.IsCompleted != nil {
		setCompleted(item, *in.IsCompleted, now)
	}
	if in.ProofImages != nil {
		item.ProofImages = stringList(in.ProofImages)
	}
	if in.ProofNotes != nil {
		item.ProofNotes = strings.TrimSpace(*in.ProofNotes)
	}
	item.UpdatedAt = now

	if err := s.items.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update bucket list item: %w", err)
	}

	notifyPartner(ctx, s.notifier, couple, userID, Notification{
		Type:       NotifyResourceUpdated,
		Resource:   "bucket-list",
		ResourceID: item.ID,
	})
	return item, nil
}

// Delete removes an item.
func (s *BucketListService) Delete(ctx context.Context, userID, id string) error {
	item, couple, err := loadOwned(ctx, s.guard, userID, id, "Bucket list item", s.items.GetByID,
		func(b *models.BucketListItem) string { return b.CoupleID })
	if err != nil {
		return err
	}
	if err := s.items.Delete(ctx, item.ID); err != nil {
		return fmt.Errorf("failed to delete bucket list item: %w", err)
	}

	notifyPartner(ctx, s.notifier, couple, userID, Notification{
		Type:       NotifyResourceDeleted,
		Resource:   "bucket-list",
		ResourceID: item.ID,
	})
	return nil
}

func setCompleted(item *models.BucketListItem, completed bool, now time.Time) {
	switch {
	case completed && !item.IsCompleted:
		item.IsCompleted = true
		item.CompletedAt = &now
	case !completed:
		item.IsCompleted = false
		item.CompletedAt = nil
	}
}
