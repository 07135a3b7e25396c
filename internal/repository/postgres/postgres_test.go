package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"couple-journal-backend/internal/database"
	"couple-journal-backend/internal/models"
	"couple-journal-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openStore connects to DATABASE_URL, skipping when it is unset.
func openStore(t *testing.T) *repository.Store {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping PostgreSQL integration test")
	}

	ctx := context.Background()
	db, err := database.Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.Migrate(ctx))

	return NewStore(db.Gorm)
}

func newUser(t *testing.T, store *repository.Store) *models.User {
	t.Helper()
	id := uuid.New().String()
	user := &models.User{
		ID:        id,
		Email:     id + "@example.com",
		Name:      "User " + id[:8],
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, store.Users.Create(context.Background(), user))
	return user
}

func TestUserRepository(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	user := newUser(t, store)

	found, err := store.Users.GetByEmail(ctx, user.Email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	dup := *user
	dup.ID = uuid.New().String()
	assert.ErrorIs(t, store.Users.Create(ctx, &dup), repository.ErrDuplicate)

	_, err = store.Users.GetByID(ctx, uuid.New().String())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestMalformedIDIsNotFound(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	_, err := store.Diary.GetByID(ctx, "abc")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = store.Couples.GetByID(ctx, "abc")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, store.Messages.Delete(ctx, "abc"), repository.ErrNotFound)
}

func TestCoupleRepository(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	alice, bob, carol := newUser(t, store), newUser(t, store), newUser(t, store)

	couple := &models.Couple{
		ID:        uuid.New().String(),
		User1ID:   alice.ID,
		User2ID:   bob.ID,
		StartDate: time.Now(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, store.Couples.Create(ctx, couple))

	for _, user := range []string{alice.ID, bob.ID} {
		got, err := store.Couples.GetByUserID(ctx, user)
		require.NoError(t, err)
		assert.Equal(t, couple.ID, got.ID)
	}

	second := &models.Couple{ID: uuid.New().String(), User1ID: carol.ID, User2ID: bob.ID, StartDate: time.Now()}
	assert.ErrorIs(t, store.Couples.Create(ctx, second), repository.ErrDuplicate)

	has, err := store.Couples.UserHasCouple(ctx, carol.ID)
	require.NoError(t, err)
	assert.False(t, has, "failed insert must not leave a membership row")

	msg := &models.LoveMessage{
		ID:       uuid.New().String(),
		CoupleID: couple.ID,
		SenderID: alice.ID,
		Content:  "hi",
		SentAt:   time.Now(),
	}
	require.NoError(t, store.Messages.Create(ctx, msg))

	require.NoError(t, store.Couples.Delete(ctx, couple.ID))

	_, err = store.Messages.GetByID(ctx, msg.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	has, err = store.Couples.UserHasCouple(ctx, alice.ID)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestListsAndReminders(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	alice, bob := newUser(t, store), newUser(t, store)
	couple := &models.Couple{ID: uuid.New().String(), User1ID: alice.ID, User2ID: bob.ID, StartDate: time.Now()}
	require.NoError(t, store.Couples.Create(ctx, couple))
	t.Cleanup(func() { _ = store.Couples.Delete(context.Background(), couple.ID) })

	now := time.Now()
	entry := &models.DiaryEntry{
		ID:       uuid.New().String(),
		CoupleID: couple.ID,
		AuthorID: alice.ID,
		Title:    "t",
		Content:  "c",
		Photos:   []string{"a.jpg", "b.jpg"},
		Date:     now,
	}
	require.NoError(t, store.Diary.Create(ctx, entry))
	entries, err := store.Diary.ListByCouple(ctx, couple.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, []string(entries[0].Photos))

	due := now.Add(-time.Minute)
	event := &models.Event{
		ID:         uuid.New().String(),
		CoupleID:   couple.ID,
		Title:      "dinner",
		StartDate:  now.Add(time.Hour),
		ReminderAt: &due,
	}
	require.NoError(t, store.Events.Create(ctx, event))

	events, err := store.Events.ListDueReminders(ctx, now)
	require.NoError(t, err)
	ids := make([]string, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	assert.Contains(t, ids, event.ID)

	mood := &models.MoodEntry{ID: uuid.New().String(), UserID: alice.ID, Mood: "happy", Intensity: 7, Date: now.AddDate(0, 0, -40)}
	require.NoError(t, store.Moods.Create(ctx, mood))
	t.Cleanup(func() { _ = store.Moods.Delete(context.Background(), mood.ID) })

	recent, err := store.Moods.ListByUser(ctx, alice.ID, now.AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Empty(t, recent)
}
