package core_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookctl/internal/core"
)

func TestDraftInstants(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)

	draft := core.Draft{
		Name:      "Team sync",
		Date:      "2024-03-01",
		StartTime: "09:00",
		EndTime:   "10:30",
	}

	start, end, err := draft.Instants(loc)
	require.NoError(t, err)

	assert.True(t, start.Equal(time.Date(2024, 3, 1, 9, 0, 0, 0, loc)))
	assert.True(t, end.Equal(time.Date(2024, 3, 1, 10, 30, 0, 0, loc)))
}

func TestDraftInstantsRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		draft core.Draft
	}{
		{"bad date", core.Draft{Date: "03/01/2024", StartTime: "09:00", EndTime: "10:00"}},
		{"bad start", core.Draft{Date: "2024-03-01", StartTime: "9am", EndTime: "10:00"}},
		{"bad end", core.Draft{Date: "2024-03-01", StartTime: "09:00", EndTime: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tt.draft.Instants(time.UTC)
			assert.Error(t, err)
		})
	}
}

func TestDraftEmpty(t *testing.T) {
	assert.True(t, core.Draft{}.Empty())
	assert.False(t, core.Draft{Name: "x"}.Empty())
}

func TestBookingDurationAndProgress(t *testing.T) {
	booking := core.Booking{
		StartTime: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}

	assert.Equal(t, time.Hour, booking.Duration())
	assert.True(t, booking.InProgress(time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)))
	assert.False(t, booking.InProgress(time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)))
	assert.False(t, booking.InProgress(booking.StartTime), "start boundary is exclusive")
}

func TestUserProfileDisplayName(t *testing.T) {
	assert.Equal(t, "Ada", core.UserProfile{Name: "Ada", Email: "ada@example.com"}.DisplayName())
	assert.Equal(t, "ada@example.com", core.UserProfile{Email: "ada@example.com"}.DisplayName())
}
