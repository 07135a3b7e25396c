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

const defaultEventType = "date"

// EventService handles the shared calendar
type EventService struct {
	events   repository.EventRepository
	guard    CoupleGuard
	notifier Notifier
	loc      *time.Location
	now      func() time.Time
}

// NewEventService creates a new event service
func NewEventService(events repository.EventRepository, guard CoupleGuard, notifier Notifier, loc *time.Location) *EventService {
	return &EventService{
		events:   events,
		guard:    guard,
		notifier: orNop(notifier),
		loc:      loc,
		now:      time.Now,
	}
}

// EventInput carries event fields; nil fields are left unchanged on update.
// Date and Time are combined into the stored start timestamp.
type EventInput struct {
	ID              string  `json:"id,omitempty"`
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	Location        *string `json:"location"`
	Type            *string `json:"type"`
	Date            *string `json:"date"`
	Time            *string `json:"time"`
	EndDate         *string `json:"endDate"`
	EndTime         *string `json:"endTime"`
	IsRecurring     *bool   `json:"isRecurring"`
	ReminderMinutes *int    `json:"reminderMinutes"`
}

// List returns the couple's events soonest first.
func (s *EventService) List(ctx context.Context, userID string) ([]*models.Event, error) {
	couple, err := s.guard.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	if couple == nil {
		return []*models.Event{}, nil
	}
	return s.events.ListByCouple(ctx, couple.ID)
}

// Create schedules a new event.
func (s *EventService) Create(ctx context.Context, userID string, in EventInput) (*models.Event, error) {
	if trimmed(in.Title) == "" || trimmed(in.Date) == "" {
		return nil, validationError("Tiêu đề và ngày là bắt buộc")
	}
	if in.ReminderMinutes != nil && *in.ReminderMinutes < 0 {
		return nil, validationError("Thời gian nhắc nhở không hợp lệ")
	}

	start, err := ComposeEventTime(*in.Date, trimmed(in.Time), s.loc)
	if err != nil {
		return nil, err
	}
	var end *time.Time
	if trimmed(in.EndDate) != "" {
		t, err := ComposeEventTime(*in.EndDate, trimmed(in.EndTime), s.loc)
		if err != nil {
			return nil, err
		}
		end = &t
	}
	if end != nil && end.Before(start) {
		return nil, validationError("Ngày kết thúc phải sau ngày bắt đầu")
	}

	couple, err := s.guard.Require(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	event := &models.Event{
		ID:          uuid.New().String(),
		CoupleID:    couple.ID,
		CreatedBy:   userID,
		Title:       trimmed(in.Title),
		Description: trimmed(in.Description),
		StartDate:   start,
		EndDate:     end,
		Location:    trimmed(in.Location),
		Type:        defaultEventType,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if t := trimmed(in.Type); t != "" {
		event.Type = t
	}
	if in.IsRecurring != nil {
		event.IsRecurring = *in.IsRecurring
	}
	if in.ReminderMinutes != nil {
		event.ReminderAt = ReminderTime(start, *in.ReminderMinutes)
	}

	if err := s.events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	notifyPartner(ctx, s.notifier, couple, userID, Notification{
		Type:       NotifyResourceCreated,
		Resource:   "events",
		ResourceID: event.ID,
	})
	return event, nil
}

// Update applies the supplied fields. A new date composes with the supplied
// time or local noon, a time alone keeps the current date, and an existing
// reminder keeps its lead time when the start moves.
func (s *EventService) Update(ctx context.Context, userID, id string, in EventInput) (*models.Event, error) {
	event, couple, err := loadOwned(ctx, s.guard, userID, id, "Event", s.events.GetByID,
		func(e *models.Event) string { return e.CoupleID })
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, validationError("Tiêu đề là bắt buộc")
		}
		event.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		event.Description = strings.TrimSpace(*in.Description)
	}
	if in.Location != nil {
		event.Location = strings.TrimSpace(*in.Location)
	}
	if in.Type != nil && strings.TrimSpace(*in.Type) != "" {
		event.Type = strings.TrimSpace(*in.Type)
	}
	if in.IsRecurring != nil {
		event.IsRecurring = *in.IsRecurring
	}

	var lead time.Duration
	if event.ReminderAt != nil {
		lead = event.StartDate.Sub(*event.ReminderAt)
	}

	if trimmed(in.Date) != "" || trimmed(in.Time) != "" {
		var start time.Time
		if trimmed(in.Date) != "" {
			start, err = ComposeEventTime(trimmed(in.Date), trimmed(in.Time), s.loc)
		} else {
			start, err = s.atClock(event.StartDate, trimmed(in.Time))
		}
		if err != nil {
			return nil, err
		}
		if !start.Equal(event.StartDate) {
			event.StartDate = start
			if event.ReminderAt != nil {
				reminder := start.Add(-lead)
				event.ReminderAt = &reminder
				event.ReminderSent = false
			}
		}
	}
	if in.EndDate != nil {
		if strings.TrimSpace(*in.EndDate) == "" {
			event.EndDate = nil
		} else {
			end, err := ComposeEventTime(*in.EndDate, trimmed(in.EndTime), s.loc)
			if err != nil {
				return nil, err
			}
			event.EndDate = &end
		}
	} else if trimmed(in.EndTime) != "" && event.EndDate != nil {
		end, err := s.atClock(*event.EndDate, trimmed(in.EndTime))
		if err != nil {
			return nil, err
		}
		event.EndDate = &end
	}
	if event.EndDate != nil && event.EndDate.Before(event.StartDate) {
		return nil, validationError("Ngày kết thúc phải sau ngày bắt đầu")
	}

	if in.ReminderMinutes != nil {
		if *in.ReminderMinutes < 0 {
			return nil, validationError("Thời gian nhắc nhở không hợp lệ")
		}
		event.ReminderAt = ReminderTime(event.StartDate, *in.ReminderMinutes)
		event.ReminderSent = false
	}
	event.UpdatedAt = s.now()

	if err := s.events.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	notifyPartner(ctx, s.notifier, couple, userID, Notification{
		Type:       NotifyResourceUpdated,
		Resource:   "events",
		ResourceID: event.ID,
	})
	return event, nil
}

// Delete removes an event.
func (s *EventService) Delete(ctx context.Context, userID, id string) error {
	event, couple, err := loadOwned(ctx, s.guard, userID, id, "Event", s.events.GetByID,
		func(e *models.Event) string { return e.CoupleID })
	if err != nil {
		return err
	}
	if err := s.events.Delete(ctx, event.ID); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	notifyPartner(ctx, s.notifier, couple, userID, Notification{
		Type:       NotifyResourceDeleted,
		Resource:   "events",
		ResourceID: event.ID,
	})
	return nil
}

// atClock moves current to the supplied time of day on its local date.
func (s *EventService) atClock(current time.Time, clock string) (time.Time, error) {
	return ComposeEventTime(current.In(s.loc).Format(dateLayout), clock, s.loc)
}
