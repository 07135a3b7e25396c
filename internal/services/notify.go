package services

import (
	"context"
	"sync"

	"couple-journal-backend/internal/models"
)

// Notification types sent to the partner of the acting user.
const (
	NotifyCoupleCreated   = "couple_created"
	NotifyCoupleDeleted   = "couple_deleted"
	NotifyResourceCreated = "resource_created"
	NotifyResourceUpdated = "resource_updated"
	NotifyResourceDeleted = "resource_deleted"
	NotifyMessageCreated  = "message_created"
	NotifyEventReminder   = "event_reminder"
)

// Notification describes a change to data the recipient shares.
type Notification struct {
	Type       string `json:"type"`
	Resource   string `json:"resource,omitempty"`
	ResourceID string `json:"resourceId,omitempty"`
	ActorID    string `json:"actorId,omitempty"`
	Data       any    `json:"data,omitempty"`
}

// Notifier delivers notifications. Delivery is best effort: implementations
// log failures instead of returning them.
type Notifier interface {
	Notify(ctx context.Context, recipientID string, n Notification)
}

// Notifiers fans a notification out to several notifiers.
type Notifiers []Notifier

func (ns Notifiers) Notify(ctx context.Context, recipientID string, n Notification) {
	for _, notifier := range ns {
		if notifier != nil {
			notifier.Notify(ctx, recipientID, n)
		}
	}
}

// AsyncNotifier hands each notification to next on its own goroutine, so a
// slow socket or push gateway never holds the request that caused it.
type AsyncNotifier struct {
	next Notifier
	wg   sync.WaitGroup
}

// NewAsyncNotifier wraps next.
func NewAsyncNotifier(next Notifier) *AsyncNotifier {
	return &AsyncNotifier{next: orNop(next)}
}

// Notify returns immediately. Delivery outlives the caller's context.
func (a *AsyncNotifier) Notify(ctx context.Context, recipientID string, n Notification) {
	ctx = context.WithoutCancel(ctx)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.next.Notify(ctx, recipientID, n)
	}()
}

// Wait blocks until every dispatched notification has been delivered.
func (a *AsyncNotifier) Wait() {
	a.wg.Wait()
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, string, Notification) {}

func orNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}

// notifyPartner sends n to the other member of the couple.
func notifyPartner(ctx context.Context, notifier Notifier, couple *models.Couple, actorID string, n Notification) {
	partnerID := couple.PartnerOf(actorID)
	if partnerID == "" {
		return
	}
	n.ActorID = actorID
	notifier.Notify(ctx, partnerID, n)
}
