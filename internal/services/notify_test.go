package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockingNotifier holds every delivery until release is closed.
type blockingNotifier struct {
	release chan struct{}
	got     chan error
}

func (b *blockingNotifier) Notify(ctx context.Context, _ string, _ Notification) {
	<-b.release
	b.got <- ctx.Err()
}

func TestAsyncNotifierDoesNotBlockCaller(t *testing.T) {
	slow := &blockingNotifier{release: make(chan struct{}), got: make(chan error, 2)}
	async := NewAsyncNotifier(slow)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		async.Notify(ctx, "bob", Notification{Type: NotifyMessageCreated})
		async.Notify(ctx, "bob", Notification{Type: NotifyResourceCreated})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked on a slow recipient")
	}

	// the request finishing must not cancel delivery
	cancel()
	close(slow.release)
	async.Wait()

	require.Len(t, slow.got, 2)
	assert.NoError(t, <-slow.got)
	assert.NoError(t, <-slow.got)
}

func TestAsyncNotifierDelivers(t *testing.T) {
	rec := &recordingNotifier{}
	async := NewAsyncNotifier(rec)

	async.Notify(context.Background(), "alice", Notification{Type: NotifyCoupleCreated})
	async.Wait()

	sent := rec.all()
	require.Len(t, sent, 1)
	assert.Equal(t, "alice", sent[0].recipient)
	assert.Equal(t, NotifyCoupleCreated, sent[0].n.Type)
}
