package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"couple-journal-backend/internal/models"
	"couple-journal-backend/internal/repository"

	"github.com/google/uuid"
)

const (
	minMoodIntensity = 1
	maxMoodIntensity = 10
	// DefaultMoodDays is the list window when the caller gives none.
	DefaultMoodDays = 30
)

// MoodService handles individual mood logs. Entries belong to a user, not to
// the couple; a partner may read them but never change them.
type MoodService struct {
	moods repository.MoodRepository
	guard CoupleGuard
	loc   *time.Location
	now   func() time.Time
}

// NewMoodService creates a new mood service
func NewMoodService(moods repository.MoodRepository, guard CoupleGuard, loc *time.Location) *MoodService {
	return &MoodService{
		moods: moods,
		guard: guard,
		loc:   loc,
		now:   time.Now,
	}
}

// MoodInput carries mood fields; nil fields are left unchanged on update.
type MoodInput struct {
	ID        string  `json:"id,omitempty"`
	Mood      *string `json:"mood"`
	Intensity *int    `json:"intensity"`
	Note      *string `json:"note"`
	Date      *string `json:"date"`
}

// List returns the caller's entries from the last days days, newest first.
// With partner set it returns the partner's entries instead.
func (s *MoodService) List(ctx context.Context, userID string, days int, partner bool) ([]*models.MoodEntry, error) {
	if days <= 0 {
		days = DefaultMoodDays
	}
	since := s.now().AddDate(0, 0, -days)

	owner := userID
	if partner {
		couple, err := s.guard.Resolve(ctx, userID)
		if err != nil {
			return nil, err
		}
		if couple == nil {
			return []*models.MoodEntry{}, nil
		}
		owner = couple.PartnerOf(userID)
	}
	return s.moods.ListByUser(ctx, owner, since)
}

// Create logs a mood for the caller.
func (s *MoodService) Create(ctx context.Context, userID string, in MoodInput) (*models.MoodEntry, error) {
	if trimmed(in.Mood) == "" || in.Intensity == nil {
		return nil, validationError("Tâm trạng và cường độ là bắt buộc")
	}
	if err := validateIntensity(*in.Intensity); err != nil {
		return nil, err
	}

	now := s.now()
	entry := &models.MoodEntry{
		ID:        uuid.New().String(),
		UserID:    userID,
		Mood:      trimmed(in.Mood),
		Intensity: *in.Intensity,
		Note:      optionalText(in.Note),
		Date:      now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if trimmed(in.Date) != "" {
		var err error
		if entry.Date, err = parseDate(*in.Date, s.loc); err != nil {
			return nil, err
		}
	}

	if err := s.moods.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create mood entry: %w", err)
	}
	return entry, nil
}

// Update applies the supplied fields to one of the caller's entries.
func (s *MoodService) Update(ctx context.Context, userID, id string, in MoodInput) (*models.MoodEntry, error) {
	entry, err := s.loadOwn(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if in.Mood != nil {
		if strings.TrimSpace(*in.Mood) == "" {
			return nil, validationError("Tâm trạng là bắt buộc")
		}
		entry.Mood = strings.TrimSpace(*in.Mood)
	}
	if in.Intensity != nil {
		if err := validateIntensity(*in.Intensity); err != nil {
			return nil, err
		}
		entry.Intensity = *in.Intensity
	}
	if in.Note != nil {
		entry.Note = optionalText(in.Note)
	}
	if trimmed(in.Date) != "" {
		if entry.Date, err = parseDate(*in.Date, s.loc); err != nil {
			return nil, err
		}
	}
	entry.UpdatedAt = s.now()

	if err := s.moods.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to update mood entry: %w", err)
	}
	return entry, nil
}

// Delete removes one of the caller's entries.
func (s *MoodService) Delete(ctx context.Context, userID, id string) error {
	entry, err := s.loadOwn(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.moods.Delete(ctx, entry.ID); err != nil {
		return fmt.Errorf("failed to delete mood entry: %w", err)
	}
	return nil
}

func (s *MoodService) loadOwn(ctx context.Context, userID, id string) (*models.MoodEntry, error) {
	if strings.TrimSpace(id) == "" {
		return nil, validationError("Mood entry id is required")
	}
	if !validID(id) {
		return nil, notFoundError("Mood entry not found")
	}
	entry, err := s.moods.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError("Mood entry not found")
		}
		return nil, fmt.Errorf("failed to get mood entry: %w", err)
	}
	if entry.UserID != userID {
		return nil, forbiddenError()
	}
	return entry, nil
}

func validateIntensity(intensity int) error {
	if intensity < minMoodIntensity || intensity > maxMoodIntensity {
		return validationError("Cường độ phải từ %d đến %d", minMoodIntensity, maxMoodIntensity)
	}
	return nil
}

func optionalText(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
