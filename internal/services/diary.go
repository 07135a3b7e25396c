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

// DiaryService handles shared diary entries
type DiaryService struct {
	entries  repository.DiaryRepository
	guard    CoupleGuard
	notifier Notifier
	loc      *time.Location
	now      func() time.Time
}

// NewDiaryService creates a new diary service
func NewDiaryService(entries repository.DiaryRepository, guard CoupleGuard, notifier Notifier, loc *time.Location) *DiaryService {
	return &DiaryService{
		entries:  entries,
		guard:    guard,
		notifier: orNop(notifier),
		loc:      loc,
		now:      time.Now,
	}
}

// DiaryInput carries entry fields; nil fields are left unchanged on update.
type DiaryInput struct {
	ID      string    `json:"id,omitempty"`
	Title   *string   `json:"title"`
	Content *string   `json:"content"`
	Mood    *string   `json:"mood"`
	Photos  *[]string `json:"photos"`
	Videos  *[]string `json:"videos"`
	Date    *string   `json:"date"`
}

// List returns the couple's entries newest first.
func (s *DiaryService) List(ctx context.Context, userID string) ([]*models.DiaryEntry, error) {
	couple, err := s.guard.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	if couple == nil {
		return []*models.DiaryEntry{}, nil
	}
	return s.entries.ListByCouple(ctx, couple.ID)
}

// Get returns a single entry the caller may read.
func (s *DiaryService) Get(ctx context.Context, userID, id string) (*models.DiaryEntry, error) {
	entry, _, err := loadOwned(ctx, s.guard, userID, id, "Diary entry", s.entries.GetByID,
		func(e *models.DiaryEntry) string { return e.CoupleID })
	return entry, err
}

// Create writes a new entry authored by the caller.
func (s *DiaryService) Create(ctx context.Context, userID string, in DiaryInput) (*models.DiaryEntry, error) {
	if trimmed(in.Title) == "" || trimmed(in.Content) == "" {
		return nil, validationError("Tiêu đề và nội dung là bắt buộc")
	}
	couple, err := s.guard.Require(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	entry := &models.DiaryEntry{
		ID:        uuid.New().String(),
		CoupleID:  couple.ID,
		AuthorID:  userID,
		Title:     trimmed(in.Title),
		Content:   strings.TrimSpace(*in.Content),
		Mood:      trimmed(in.Mood),
		Photos:    stringList(in.Photos),
		Videos:    stringList(in.Videos),
		Date:      now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.Date != nil && trimmed(in.Date) != "" {
		if entry.Date, err = parseDate(*in.Date, s.loc); err != nil {
			return nil, err
		}
	}

	if err := s.entries.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create diary entry: %w", err)
	}

	notifyPartner(ctx, s.notifier, couple, userID, Notification{
		Type:       NotifyResourceCreated,
		Resource:   "diary",
		ResourceID: entry.ID,
	})
	return entry, nil
}

// Update applies the supplied fields to an entry.
func (s *DiaryService) Update(ctx context.Context, userID, id string, in DiaryInput) (*models.DiaryEntry, error) {
	entry, couple, err := loadOwned(ctx, s.guard, userID, id, "Diary entry", s.entries.GetByID,
		func(e *models.DiaryEntry) string { return e.CoupleID })
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, validationError("Tiêu đề không được để trống")
		}
		entry.Title = strings.TrimSpace(*in.Title)
	}
	if in.Content != nil {
		if strings.TrimSpace(*in.Content) == "" {
			return nil, validationError("Nội dung không được để trống")
		}
		entry.Content = strings.TrimSpace(*in.Content)
	}
	if in.Mood != nil {
		entry.Mood = strings.TrimSpace(*in.Mood)
	}
	if in.Photos != nil {
		entry.Photos = stringList(in.Photos)
	}
	if in.Videos != nil {
		entry.Videos = stringList(in.Videos)
	}
	if in.Date != nil && trimmed(in.Date) != "" {
		if entry.Date, err = parseDate(*in.Date, s.loc); err != nil {
			return nil, err
		}
	}
	entry.UpdatedAt = s.now()

	if err := s.entries.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to update diary entry: %w", err)
	}

	notifyPartner(ctx, s.notifier, couple, userID, Notification{
		Type:       NotifyResourceUpdated,
		Resource:   "diary",
		ResourceID: entry.ID,
	})
	return entry, nil
}

// Delete removes an entry.
func (s *DiaryService) Delete(ctx context.Context, userID, id string) error {
	entry, couple, err := loadOwned(ctx, s.guard, userID, id, "Diary entry", s.entries.GetByID,
		func(e *models.DiaryEntry) string { return e.CoupleID })
	if err != nil {
		return err
	}
	if err := s.entries.Delete(ctx, entry.ID); err != nil {
		return fmt.Errorf("failed to delete diary entry: %w", err)
	}

	notifyPartner(ctx, s.notifier, couple, userID, Notification{
		Type:       NotifyResourceDeleted,
		Resource:   "diary",
		ResourceID: entry.ID,
	})
	return nil
}
