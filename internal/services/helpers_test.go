package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"couple-journal-backend/internal/models"
	"couple-journal-backend/internal/repository"
	"couple-journal-backend/internal/repository/memory"

	"github.com/stretchr/testify/require"
)

var testLoc = time.FixedZone("ICT", 7*60*60)

type delivered struct {
	recipient string
	n         Notification
}

// recordingNotifier captures notifications for assertions.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []delivered
}

func (r *recordingNotifier) Notify(_ context.Context, recipientID string, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, delivered{recipient: recipientID, n: n})
}

func (r *recordingNotifier) all() []delivered {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]delivered(nil), r.sent...)
}

type fixture struct {
	ctx      context.Context
	repos    *repository.Store
	notifier *recordingNotifier
	couples  *CoupleService

	alice, bob, carol *models.User
	couple            *models.Couple
}

// newFixture seeds three users; alice and bob are a couple, carol is single.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		ctx:      context.Background(),
		repos:    memory.New().Repositories(),
		notifier: &recordingNotifier{},
	}
	f.couples = NewCoupleService(f.repos.Couples, f.repos.Users, f.notifier, testLoc)

	f.alice = f.addUser(t, "alice@example.com", "Alice")
	f.bob = f.addUser(t, "bob@example.com", "Bob")
	f.carol = f.addUser(t, "carol@example.com", "Carol")

	couple, err := f.couples.CreateCouple(f.ctx, f.alice.ID, f.bob.Email, nil)
	require.NoError(t, err)
	f.couple = couple
	f.notifier.sent = nil
	return f
}

func (f *fixture) addUser(t *testing.T, email, name string) *models.User {
	t.Helper()
	user := &models.User{
		ID:        email + "-id",
		Email:     email,
		Name:      name,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, f.repos.Users.Create(f.ctx, user))
	return user
}

func ptr[T any](v T) *T { return &v }
