package services

import (
	"context"
	"fmt"
	"time"

	"couple-journal-backend/internal/metrics"
	"couple-journal-backend/internal/repository"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// ReminderDispatcher delivers due event reminders to both members of the
// couple that owns the event
type ReminderDispatcher struct {
	events   repository.EventRepository
	couples  repository.CoupleRepository
	notifier Notifier
	now      func() time.Time
}

// NewReminderDispatcher creates a new reminder dispatcher
func NewReminderDispatcher(events repository.EventRepository, couples repository.CoupleRepository, notifier Notifier) *ReminderDispatcher {
	return &ReminderDispatcher{
		events:   events,
		couples:  couples,
		notifier: orNop(notifier),
		now:      time.Now,
	}
}

// Run sends every reminder that is due and marks it sent. It returns the
// number of reminders delivered.
func (d *ReminderDispatcher) Run(ctx context.Context) (int, error) {
	due, err := d.events.ListDueReminders(ctx, d.now())
	if err != nil {
		return 0, fmt.Errorf("failed to list due reminders: %w", err)
	}

	sent := 0
	for _, event := range due {
		couple, err := d.couples.GetByID(ctx, event.CoupleID)
		if err != nil {
			log.Warn().Err(err).Str("event_id", event.ID).Msg("Skipping reminder for missing couple")
			continue
		}

		// mark first so a failing notifier never causes repeats
		event.ReminderSent = true
		if err := d.events.Update(ctx, event); err != nil {
			log.Error().Err(err).Str("event_id", event.ID).Msg("Failed to mark reminder sent")
			continue
		}

		n := Notification{
			Type:       NotifyEventReminder,
			Resource:   "events",
			ResourceID: event.ID,
			Data:       event,
		}
		d.notifier.Notify(ctx, couple.User1ID, n)
		d.notifier.Notify(ctx, couple.User2ID, n)
		sent++
	}
	return sent, nil
}

// Schedule registers Run on a cron scheduler on the given schedule.
func (d *ReminderDispatcher) Schedule(ctx context.Context, c *cron.Cron, schedule string) (cron.EntryID, error) {
	id, err := c.AddFunc(schedule, func() {
		sent, err := d.Run(ctx)
		metrics.RecordReminderRun(sent, err)
		if err != nil {
			log.Error().Err(err).Msg("Reminder run failed")
			return
		}
		if sent > 0 {
			log.Info().Int("sent", sent).Msg("Event reminders delivered")
		}
	})
	if err != nil {
		return 0, fmt.Errorf("invalid reminder schedule %q: %w", schedule, err)
	}
	return id, nil
}
