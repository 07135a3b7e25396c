package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeEventTime(t *testing.T) {
	tests := []struct {
		name  string
		date  string
		clock string
		want  time.Time
	}{
		{"date only is noon", "2025-03-20", "", time.Date(2025, 3, 20, 12, 0, 0, 0, testLoc)},
		{"explicit time", "2025-03-20", "19:00", time.Date(2025, 3, 20, 19, 0, 0, 0, testLoc)},
		{"iso date", "2025-03-20T17:00:00.000Z", "08:15", time.Date(2025, 3, 20, 8, 15, 0, 0, testLoc)},
		{"seconds ignored", "2025-03-20", "07:30:45", time.Date(2025, 3, 20, 7, 30, 0, 0, testLoc)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComposeEventTime(tt.date, tt.clock, testLoc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ComposeEventTime("2025", "", testLoc)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = ComposeEventTime("2025-03-20", "25:00", testLoc)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestReminderTime(t *testing.T) {
	start := time.Date(2025, 3, 20, 19, 0, 0, 0, testLoc)

	reminder := ReminderTime(start, 60)
	require.NotNil(t, reminder)
	assert.Equal(t, time.Date(2025, 3, 20, 18, 0, 0, 0, testLoc), *reminder)

	assert.Nil(t, ReminderTime(start, 0))
	assert.Nil(t, ReminderTime(start, -5))
}

func TestParseOptionalDate(t *testing.T) {
	cleared, err := parseOptionalDate(" ", testLoc)
	require.NoError(t, err)
	assert.Nil(t, cleared)

	got, err := parseOptionalDate("2024-02-29", testLoc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, testLoc), *got)

	_, err = parseOptionalDate("yesterday", testLoc)
	assert.ErrorIs(t, err, ErrValidation)
}
