// Package repository defines the persistence contracts used by the services.
// Implementations live in the postgres (gorm) and memory subpackages.
package repository

import (
	"context"
	"errors"
	"time"

	"couple-journal-backend/internal/models"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a uniqueness constraint rejects a write.
	ErrDuplicate = errors.New("duplicate record")
)

// UserRepository handles persistence for users
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

// CoupleRepository handles persistence for couples and their membership index
type CoupleRepository interface {
	// Create stores the couple and one membership row per user atomically.
	// It returns ErrDuplicate if either user already belongs to a couple.
	Create(ctx context.Context, couple *models.Couple) error
	GetByID(ctx context.Context, id string) (*models.Couple, error)
	GetByUserID(ctx context.Context, userID string) (*models.Couple, error)
	UserHasCouple(ctx context.Context, userID string) (bool, error)
	Update(ctx context.Context, couple *models.Couple) error
	// Delete removes the couple, its membership rows and every couple-scoped record.
	Delete(ctx context.Context, id string) error
}

// MessageRepository handles persistence for love messages
type MessageRepository interface {
	Create(ctx context.Context, msg *models.LoveMessage) error
	GetByID(ctx context.Context, id string) (*models.LoveMessage, error)
	// ListByCouple returns messages newest first.
	ListByCouple(ctx context.Context, coupleID string) ([]*models.LoveMessage, error)
	Update(ctx context.Context, msg *models.LoveMessage) error
	Delete(ctx context.Context, id string) error
}

// DiaryRepository handles persistence for diary entries
type DiaryRepository interface {
	Create(ctx context.Context, entry *models.DiaryEntry) error
	GetByID(ctx context.Context, id string) (*models.DiaryEntry, error)
	// ListByCouple returns entries newest first.
	ListByCouple(ctx context.Context, coupleID string) ([]*models.DiaryEntry, error)
	Update(ctx context.Context, entry *models.DiaryEntry) error
	Delete(ctx context.Context, id string) error
}

// PlaceRepository handles persistence for memory-map places
type PlaceRepository interface {
	Create(ctx context.Context, place *models.Place) error
	GetByID(ctx context.Context, id string) (*models.Place, error)
	// ListByCouple returns places newest first.
	ListByCouple(ctx context.Context, coupleID string) ([]*models.Place, error)
	Update(ctx context.Context, place *models.Place) error
	Delete(ctx context.Context, id string) error
}

// BucketListRepository handles persistence for bucket list items
type BucketListRepository interface {
	Create(ctx context.Context, item *models.BucketListItem) error
	GetByID(ctx context.Context, id string) (*models.BucketListItem, error)
	// ListByCouple returns items newest first.
	ListByCouple(ctx context.Context, coupleID string) ([]*models.BucketListItem, error)
	Update(ctx context.Context, item *models.BucketListItem) error
	Delete(ctx context.Context, id string) error
}

// EventRepository handles persistence for calendar events
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id string) (*models.Event, error)
	// ListByCouple returns events soonest first.
	ListByCouple(ctx context.Context, coupleID string) ([]*models.Event, error)
	// ListDueReminders returns unsent reminders at or before now.
	ListDueReminders(ctx context.Context, now time.Time) ([]*models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id string) error
}

// ExpenseRepository handles persistence for expenses
type ExpenseRepository interface {
	Create(ctx context.Context, expense *models.Expense) error
	GetByID(ctx context.Context, id string) (*models.Expense, error)
	// ListByCouple returns expenses newest first.
	ListByCouple(ctx context.Context, coupleID string) ([]*models.Expense, error)
	Update(ctx context.Context, expense *models.Expense) error
	Delete(ctx context.Context, id string) error
}

// MoodRepository handles persistence for individual mood entries
type MoodRepository interface {
	Create(ctx context.Context, entry *models.MoodEntry) error
	GetByID(ctx context.Context, id string) (*models.MoodEntry, error)
	// ListByUser returns entries dated at or after since, newest first.
	ListByUser(ctx context.Context, userID string, since time.Time) ([]*models.MoodEntry, error)
	Update(ctx context.Context, entry *models.MoodEntry) error
	Delete(ctx context.Context, id string) error
}

// Store bundles every repository behind one handle.
type Store struct {
	Users    UserRepository
	Couples  CoupleRepository
	Messages MessageRepository
	Diary    DiaryRepository
	Places   PlaceRepository
	Bucket   BucketListRepository
	Events   EventRepository
	Expenses ExpenseRepository
	Moods    MoodRepository
}
