// Package memory provides an in-process implementation of the repository
// contracts, used by the "memory" database driver and by tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"couple-journal-backend/internal/models"
	"couple-journal-backend/internal/repository"
)

// table stores value copies so callers never alias stored rows.
type table[T any] struct {
	mu   *sync.RWMutex
	rows map[string]T
	name string
	id   func(*T) string
}

func newTable[T any](mu *sync.RWMutex, name string, id func(*T) string) *table[T] {
	return &table[T]{mu: mu, rows: make(map[string]T), name: name, id: id}
}

func (t *table[T]) create(_ context.Context, row *T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	key := t.id(row)
	if _, exists := t.rows[key]; exists {
		return fmt.Errorf("failed to create %s: %w", t.name, repository.ErrDuplicate)
	}
	t.rows[key] = *row
	return nil
}

func (t *table[T]) get(_ context.Context, id string) (*T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	row, ok := t.rows[id]
	if !ok {
		return nil, fmt.Errorf("%s %s: %w", t.name, id, repository.ErrNotFound)
	}
	return &row, nil
}

func (t *table[T]) filter(match func(*T) bool, less func(a, b *T) bool) []*T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := []*T{}
	for _, row := range t.rows {
		row := row
		if match(&row) {
			out = append(out, &row)
		}
	}
	// rows with equal keys fall back to id order
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if less(a, b) {
			return true
		}
		if less(b, a) {
			return false
		}
		return t.id(a) < t.id(b)
	})
	return out
}

func (t *table[T]) save(_ context.Context, row *T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	key := t.id(row)
	if _, ok := t.rows[key]; !ok {
		return fmt.Errorf("%s %s: %w", t.name, key, repository.ErrNotFound)
	}
	t.rows[key] = *row
	return nil
}

func (t *table[T]) delete(_ context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return fmt.Errorf("%s %s: %w", t.name, id, repository.ErrNotFound)
	}
	delete(t.rows, id)
	return nil
}

// deleteWhere must be called with mu held.
func (t *table[T]) deleteWhere(match func(*T) bool) {
	for key, row := range t.rows {
		row := row
		if match(&row) {
			delete(t.rows, key)
		}
	}
}

// Store is an in-memory database. All tables share one lock so that couple
// creation and deletion are atomic across tables.
type Store struct {
	mu       sync.RWMutex
	users    *table[models.User]
	couples  *table[models.Couple]
	members  map[string]string
	messages *table[models.LoveMessage]
	diary    *table[models.DiaryEntry]
	places   *table[models.Place]
	bucket   *table[models.BucketListItem]
	events   *table[models.Event]
	expenses *table[models.Expense]
	moods    *table[models.MoodEntry]
}

// New creates an empty in-memory store.
func New() *Store {
	s := &Store{members: make(map[string]string)}
	s.users = newTable(&s.mu, "user", func(u *models.User) string { return u.ID })
	s.couples = newTable(&s.mu, "couple", func(c *models.Couple) string { return c.ID })
	s.messages = newTable(&s.mu, "message", func(m *models.LoveMessage) string { return m.ID })
	s.diary = newTable(&s.mu, "diary entry", func(d *models.DiaryEntry) string { return d.ID })
	s.places = newTable(&s.mu, "place", func(p *models.Place) string { return p.ID })
	s.bucket = newTable(&s.mu, "bucket list item", func(b *models.BucketListItem) string { return b.ID })
	s.events = newTable(&s.mu, "event", func(e *models.Event) string { return e.ID })
	s.expenses = newTable(&s.mu, "expense", func(e *models.Expense) string { return e.ID })
	s.moods = newTable(&s.mu, "mood entry", func(m *models.MoodEntry) string { return m.ID })
	return s
}

// Repositories exposes the store through the repository contracts.
func (s *Store) Repositories() *repository.Store {
	return &repository.Store{
		Users:    (*userRepo)(s),
		Couples:  (*coupleRepo)(s),
		Messages: (*messageRepo)(s),
		Diary:    (*diaryRepo)(s),
		Places:   (*placeRepo)(s),
		Bucket:   (*bucketRepo)(s),
		Events:   (*eventRepo)(s),
		Expenses: (*expenseRepo)(s),
		Moods:    (*moodRepo)(s),
	}
}

type userRepo Store

func (r *userRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	email := strings.ToLower(strings.TrimSpace(user.Email))
	for _, existing := range r.users.rows {
		if strings.ToLower(existing.Email) == email {
			return fmt.Errorf("failed to create user: %w", repository.ErrDuplicate)
		}
	}
	if _, ok := r.users.rows[user.ID]; ok {
		return fmt.Errorf("failed to create user: %w", repository.ErrDuplicate)
	}
	r.users.rows[user.ID] = *user
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.users.get(ctx, id)
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	found := r.users.filter(
		func(u *models.User) bool { return strings.ToLower(u.Email) == email },
		func(a, b *models.User) bool { return a.CreatedAt.Before(b.CreatedAt) },
	)
	if len(found) == 0 {
		return nil, fmt.Errorf("user %s: %w", email, repository.ErrNotFound)
	}
	return found[0], nil
}

func (r *userRepo) Update(ctx context.Context, user *models.User) error {
	return r.users.save(ctx, user)
}

type coupleRepo Store

func (r *coupleRepo) Create(_ context.Context, couple *models.Couple) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[couple.User1ID]; ok {
		return fmt.Errorf("failed to create couple: %w", repository.ErrDuplicate)
	}
	if _, ok := r.members[couple.User2ID]; ok {
		return fmt.Errorf("failed to create couple: %w", repository.ErrDuplicate)
	}
	if _, ok := r.couples.rows[couple.ID]; ok {
		return fmt.Errorf("failed to create couple: %w", repository.ErrDuplicate)
	}
	r.couples.rows[couple.ID] = *couple
	r.members[couple.User1ID] = couple.ID
	r.members[couple.User2ID] = couple.ID
	return nil
}

func (r *coupleRepo) GetByID(ctx context.Context, id string) (*models.Couple, error) {
	return r.couples.get(ctx, id)
}

func (r *coupleRepo) GetByUserID(ctx context.Context, userID string) (*models.Couple, error) {
	r.mu.RLock()
	coupleID, ok := r.members[userID]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("couple for user %s: %w", userID, repository.ErrNotFound)
	}
	return r.couples.get(ctx, coupleID)
}

func (r *coupleRepo) UserHasCouple(_ context.Context, userID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.members[userID]
	return ok, nil
}

func (r *coupleRepo) Update(ctx context.Context, couple *models.Couple) error {
	return r.couples.save(ctx, couple)
}

func (r *coupleRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	couple, ok := r.couples.rows[id]
	if !ok {
		return fmt.Errorf("couple %s: %w", id, repository.ErrNotFound)
	}
	delete(r.members, couple.User1ID)
	delete(r.members, couple.User2ID)
	delete(r.couples.rows, id)

	r.messages.deleteWhere(func(m *models.LoveMessage) bool { return m.CoupleID == id })
	r.diary.deleteWhere(func(d *models.DiaryEntry) bool { return d.CoupleID == id })
	r.places.deleteWhere(func(p *models.Place) bool { return p.CoupleID == id })
	r.bucket.deleteWhere(func(b *models.BucketListItem) bool { return b.CoupleID == id })
	r.events.deleteWhere(func(e *models.Event) bool { return e.CoupleID == id })
	r.expenses.deleteWhere(func(e *models.Expense) bool { return e.CoupleID == id })
	return nil
}

type messageRepo Store

func (r *messageRepo) Create(ctx context.Context, msg *models.LoveMessage) error {
	return r.messages.create(ctx, msg)
}

func (r *messageRepo) GetByID(ctx context.Context, id string) (*models.LoveMessage, error) {
	return r.messages.get(ctx, id)
}

func (r *messageRepo) ListByCouple(_ context.Context, coupleID string) ([]*models.LoveMessage, error) {
	return r.messages.filter(
		func(m *models.LoveMessage) bool { return m.CoupleID == coupleID },
		func(a, b *models.LoveMessage) bool { return a.SentAt.After(b.SentAt) },
	), nil
}

func (r *messageRepo) Update(ctx context.Context, msg *models.LoveMessage) error {
	return r.messages.save(ctx, msg)
}

func (r *messageRepo) Delete(ctx context.Context, id string) error {
	return r.messages.delete(ctx, id)
}

type diaryRepo Store

func (r *diaryRepo) Create(ctx context.Context, entry *models.DiaryEntry) error {
	return r.diary.create(ctx, entry)
}

func (r *diaryRepo) GetByID(ctx context.Context, id string) (*models.DiaryEntry, error) {
	return r.diary.get(ctx, id)
}

func (r *diaryRepo) ListByCouple(_ context.Context, coupleID string) ([]*models.DiaryEntry, error) {
	return r.diary.filter(
		func(d *models.DiaryEntry) bool { return d.CoupleID == coupleID },
		func(a, b *models.DiaryEntry) bool { return a.Date.After(b.Date) },
	), nil
}

func (r *diaryRepo) Update(ctx context.Context, entry *models.DiaryEntry) error {
	return r.diary.save(ctx, entry)
}

func (r *diaryRepo) Delete(ctx context.Context, id string) error {
	return r.diary.delete(ctx, id)
}

type placeRepo Store

func (r *placeRepo) Create(ctx context.Context, place *models.Place) error {
	return r.places.create(ctx, place)
}

func (r *placeRepo) GetByID(ctx context.Context, id string) (*models.Place, error) {
	return r.places.get(ctx, id)
}

func (r *placeRepo) ListByCouple(_ context.Context, coupleID string) ([]*models.Place, error) {
	return r.places.filter(
		func(p *models.Place) bool { return p.CoupleID == coupleID },
		func(a, b *models.Place) bool { return a.CreatedAt.After(b.CreatedAt) },
	), nil
}

func (r *placeRepo) Update(ctx context.Context, place *models.Place) error {
	return r.places.save(ctx, place)
}

func (r *placeRepo) Delete(ctx context.Context, id string) error {
	return r.places.delete(ctx, id)
}

type bucketRepo Store

func (r *bucketRepo) Create(ctx context.Context, item *models.BucketListItem) error {
	return r.bucket.create(ctx, item)
}

func (r *bucketRepo) GetByID(ctx context.Context, id string) (*models.BucketListItem, error) {
	return r.bucket.get(ctx, id)
}

func (r *bucketRepo) ListByCouple(_ context.Context, coupleID string) ([]*models.BucketListItem, error) {
	return r.bucket.filter(
		func(b *models.BucketListItem) bool { return b.CoupleID == coupleID },
		func(a, b *models.BucketListItem) bool { return a.CreatedAt.After(b.CreatedAt) },
	), nil
}

func (r *bucketRepo) Update(ctx context.Context, item *models.BucketListItem) error {
	return r.bucket.save(ctx, item)
}

func (r *bucketRepo) Delete(ctx context.Context, id string) error {
	return r.bucket.delete(ctx, id)
}

type eventRepo Store

func (r *eventRepo) Create(ctx context.Context, event *models.Event) error {
	return r.events.create(ctx, event)
}

func (r *eventRepo) GetByID(ctx context.Context, id string) (*models.Event, error) {
	return r.events.get(ctx, id)
}

func (r *eventRepo) ListByCouple(_ context.Context, coupleID string) ([]*models.Event, error) {
	return r.events.filter(
		func(e *models.Event) bool { return e.CoupleID == coupleID },
		func(a, b *models.Event) bool { return a.StartDate.Before(b.StartDate) },
	), nil
}

func (r *eventRepo) ListDueReminders(_ context.Context, now time.Time) ([]*models.Event, error) {
	return r.events.filter(
		func(e *models.Event) bool {
			return e.ReminderAt != nil && !e.ReminderAt.After(now) && !e.ReminderSent
		},
		func(a, b *models.Event) bool { return a.ReminderAt.Before(*b.ReminderAt) },
	), nil
}

func (r *eventRepo) Update(ctx context.Context, event *models.Event) error {
	return r.events.save(ctx, event)
}

func (r *eventRepo) Delete(ctx context.Context, id string) error {
	return r.events.delete(ctx, id)
}

type expenseRepo Store

func (r *expenseRepo) Create(ctx context.Context, expense *models.Expense) error {
	return r.expenses.create(ctx, expense)
}

func (r *expenseRepo) GetByID(ctx context.Context, id string) (*models.Expense, error) {
	return r.expenses.get(ctx, id)
}

func (r *expenseRepo) ListByCouple(_ context.Context, coupleID string) ([]*models.Expense, error) {
	return r.expenses.filter(
		func(e *models.Expense) bool { return e.CoupleID == coupleID },
		func(a, b *models.Expense) bool { return a.Date.After(b.Date) },
	), nil
}

func (r *expenseRepo) Update(ctx context.Context, expense *models.Expense) error {
	return r.expenses.save(ctx, expense)
}

func (r *expenseRepo) Delete(ctx context.Context, id string) error {
	return r.expenses.delete(ctx, id)
}

type moodRepo Store

func (r *moodRepo) Create(ctx context.Context, entry *models.MoodEntry) error {
	return r.moods.create(ctx, entry)
}

func (r *moodRepo) GetByID(ctx context.Context, id string) (*models.MoodEntry, error) {
	return r.moods.get(ctx, id)
}

func (r *moodRepo) ListByUser(_ context.Context, userID string, since time.Time) ([]*models.MoodEntry, error) {
	return r.moods.filter(
		func(m *models.MoodEntry) bool { return m.UserID == userID && !m.Date.Before(since) },
		func(a, b *models.MoodEntry) bool { return a.Date.After(b.Date) },
	), nil
}

func (r *moodRepo) Update(ctx context.Context, entry *models.MoodEntry) error {
	return r.moods.save(ctx, entry)
}

func (r *moodRepo) Delete(ctx context.Context, id string) error {
	return r.moods.delete(ctx, id)
}
