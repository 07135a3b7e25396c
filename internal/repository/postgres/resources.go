package postgres

import (
	"context"
	"time"

	"couple-journal-backend/internal/models"

	"gorm.io/gorm"
)

// MessageRepository handles database operations for love messages
type MessageRepository struct {
	table[models.LoveMessage]
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{table[models.LoveMessage]{db: db, name: "message"}}
}

func (r *MessageRepository) Create(ctx context.Context, msg *models.LoveMessage) error {
	return r.create(ctx, msg)
}

func (r *MessageRepository) GetByID(ctx context.Context, id string) (*models.LoveMessage, error) {
	return r.get(ctx, id)
}

func (r *MessageRepository) ListByCouple(ctx context.Context, coupleID string) ([]*models.LoveMessage, error) {
	return r.list(ctx, "sent_at DESC", "couple_id = ?", coupleID)
}

func (r *MessageRepository) Update(ctx context.Context, msg *models.LoveMessage) error {
	return r.save(ctx, msg)
}

func (r *MessageRepository) Delete(ctx context.Context, id string) error {
	return r.delete(ctx, id)
}

// DiaryRepository handles database operations for diary entries
type DiaryRepository struct {
	table[models.DiaryEntry]
}

// NewDiaryRepository creates a new diary repository
func NewDiaryRepository(db *gorm.DB) *DiaryRepository {
	return &DiaryRepository{table[models.DiaryEntry]{db: db, name: "diary entry"}}
}

func (r *DiaryRepository) Create(ctx context.Context, entry *models.DiaryEntry) error {
	return r.create(ctx, entry)
}

func (r *DiaryRepository) GetByID(ctx context.Context, id string) (*models.DiaryEntry, error) {
	return r.get(ctx, id)
}

func (r *DiaryRepository) ListByCouple(ctx context.Context, coupleID string) ([]*models.DiaryEntry, error) {
	return r.list(ctx, "date DESC", "couple_id = ?", coupleID)
}

func (r *DiaryRepository) Update(ctx context.Context, entry *models.DiaryEntry) error {
	return r.save(ctx, entry)
}

func (r *DiaryRepository) Delete(ctx context.Context, id string) error {
	return r.delete(ctx, id)
}

// PlaceRepository handles database operations for places
type PlaceRepository struct {
	table[models.Place]
}

// NewPlaceRepository creates a new place repository
func NewPlaceRepository(db *gorm.DB) *PlaceRepository {
	return &PlaceRepository{table[models.Place]{db: db, name: "place"}}
}

func (r *PlaceRepository) Create(ctx context.Context, place *models.Place) error {
	return r.create(ctx, place)
}

func (r *PlaceRepository) GetByID(ctx context.Context, id string) (*models.Place, error) {
	return r.get(ctx, id)
}

func (r *PlaceRepository) ListByCouple(ctx context.Context, coupleID string) ([]*models.Place, error) {
	return r.list(ctx, "created_at DESC", "couple_id = ?", coupleID)
}

func (r *PlaceRepository) Update(ctx context.Context, place *models.Place) error {
	return r.save(ctx, place)
}

func (r *PlaceRepository) Delete(ctx context.Context, id string) error {
	return r.delete(ctx, id)
}

// BucketListRepository handles database operations for bucket list items
type BucketListRepository struct {
	table[models.BucketListItem]
}

// NewBucketListRepository creates a new bucket list repository
func NewBucketListRepository(db *gorm.DB) *BucketListRepository {
	return &BucketListRepository{table[models.BucketListItem]{db: db, name: "bucket list item"}}
}

func (r *BucketListRepository) Create(ctx context.Context, item *models.BucketListItem) error {
	return r.create(ctx, item)
}

func (r *BucketListRepository) GetByID(ctx context.Context, id string) (*models.BucketListItem, error) {
	return r.get(ctx, id)
}

func (r *BucketListRepository) ListByCouple(ctx context.Context, coupleID string) ([]*models.BucketListItem, error) {
	return r.list(ctx, "created_at DESC", "couple_id = ?", coupleID)
}

func (r *BucketListRepository) Update(ctx context.Context, item *models.BucketListItem) error {
	return r.save(ctx, item)
}

func (r *BucketListRepository) Delete(ctx context.Context, id string) error {
	return r.delete(ctx, id)
}

// EventRepository handles database operations for events
type EventRepository struct {
	table[models.Event]
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{table[models.Event]{db: db, name: "event"}}
}

func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	return r.create(ctx, event)
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	return r.get(ctx, id)
}

func (r *EventRepository) ListByCouple(ctx context.Context, coupleID string) ([]*models.Event, error) {
	return r.list(ctx, "start_date ASC", "couple_id = ?", coupleID)
}

func (r *EventRepository) ListDueReminders(ctx context.Context, now time.Time) ([]*models.Event, error) {
	return r.list(ctx, "reminder_at ASC",
		"reminder_at IS NOT NULL AND reminder_at <= ? AND reminder_sent = ?", now, false)
}

func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	return r.save(ctx, event)
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	return r.delete(ctx, id)
}

// ExpenseRepository handles database operations for expenses
type ExpenseRepository struct {
	table[models.Expense]
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *gorm.DB) *ExpenseRepository {
	return &ExpenseRepository{table[models.Expense]{db: db, name: "expense"}}
}

func (r *ExpenseRepository) Create(ctx context.Context, expense *models.Expense) error {
	return r.create(ctx, expense)
}

func (r *ExpenseRepository) GetByID(ctx context.Context, id string) (*models.Expense, error) {
	return r.get(ctx, id)
}

func (r *ExpenseRepository) ListByCouple(ctx context.Context, coupleID string) ([]*models.Expense, error) {
	return r.list(ctx, "date DESC", "couple_id = ?", coupleID)
}

func (r *ExpenseRepository) Update(ctx context.Context, expense *models.Expense) error {
	return r.save(ctx, expense)
}

func (r *ExpenseRepository) Delete(ctx context.Context, id string) error {
	return r.delete(ctx, id)
}

// MoodRepository handles database operations for mood entries
type MoodRepository struct {
	table[models.MoodEntry]
}

// NewMoodRepository creates a new mood repository
func NewMoodRepository(db *gorm.DB) *MoodRepository {
	return &MoodRepository{table[models.MoodEntry]{db: db, name: "mood entry"}}
}

func (r *MoodRepository) Create(ctx context.Context, entry *models.MoodEntry) error {
	return r.create(ctx, entry)
}

func (r *MoodRepository) GetByID(ctx context.Context, id string) (*models.MoodEntry, error) {
	return r.get(ctx, id)
}

func (r *MoodRepository) ListByUser(ctx context.Context, userID string, since time.Time) ([]*models.MoodEntry, error) {
	return r.list(ctx, "date DESC", "user_id = ? AND date >= ?", userID, since)
}

func (r *MoodRepository) Update(ctx context.Context, entry *models.MoodEntry) error {
	return r.save(ctx, entry)
}

func (r *MoodRepository) Delete(ctx context.Context, id string) error {
	return r.delete(ctx, id)
}
