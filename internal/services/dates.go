package services

import (
	"strings"
	"time"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// parseDate accepts an RFC 3339 timestamp or a bare YYYY-MM-DD date, which is
// read as midnight in loc.
func parseDate(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(dateLayout, value, loc)
	if err != nil {
		return time.Time{}, validationError("Ngày không hợp lệ: %q", value)
	}
	return t, nil
}

// parseOptionalDate treats an empty string as "clear the date".
func parseOptionalDate(value string, loc *time.Location) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := parseDate(value, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ComposeEventTime combines a calendar date with an optional "HH:MM" time of day
// in loc. Only the first ten characters of date are read, so ISO timestamps are
// accepted. Without a time the result is local noon, which keeps the calendar
// day stable when clients in nearby timezones render it.
func ComposeEventTime(date, clock string, loc *time.Location) (time.Time, error) {
	date = strings.TrimSpace(date)
	if len(date) < len(dateLayout) {
		return time.Time{}, validationError("Ngày không hợp lệ: %q", date)
	}
	day, err := time.ParseInLocation(dateLayout, date[:len(dateLayout)], loc)
	if err != nil {
		return time.Time{}, validationError("Ngày không hợp lệ: %q", date)
	}

	hour, minute := 12, 0
	if clock = strings.TrimSpace(clock); clock != "" {
		if len(clock) > len(clockLayout) {
			clock = clock[:len(clockLayout)]
		}
		t, err := time.Parse(clockLayout, clock)
		if err != nil {
			return time.Time{}, validationError("Giờ không hợp lệ: %q", clock)
		}
		hour, minute = t.Hour(), t.Minute()
	}

	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, loc), nil
}

// ReminderTime returns start minus the lead time, or nil for a non-positive lead.
func ReminderTime(start time.Time, leadMinutes int) *time.Time {
	if leadMinutes <= 0 {
		return nil
	}
	t := start.Add(-time.Duration(leadMinutes) * time.Minute)
	return &t
}
