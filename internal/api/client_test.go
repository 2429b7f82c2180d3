package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookctl/internal/api"
	"bookctl/internal/core"
)

func newTestClient(handler http.Handler) (*api.Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	client := api.NewClient(srv.URL)
	client.InstallToken("test-token")
	return client, srv
}

func TestCallWithoutTokenIssuesNoRequest(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL)
	_, err := client.Profile(context.Background())

	require.ErrorIs(t, err, api.ErrNoToken)
	assert.Zero(t, hits, "no network call should be attempted without a token")
}

func TestProfileSendsAuthHeaders(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "/auth/me", r.URL.Path)

		json.NewEncoder(w).Encode(map[string]any{
			"id":                        "user-1",
			"email":                     "ada@example.com",
			"name":                      nil,
			"picture":                   nil,
			"isGoogleCalendarConnected": true,
		})
	}))
	defer srv.Close()

	profile, err := client.Profile(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "user-1", profile.ID)
	assert.Equal(t, "ada@example.com", profile.Email)
	assert.Empty(t, profile.Name, "null name decodes to empty string")
	assert.True(t, profile.CalendarConnected)
	assert.Equal(t, "ada@example.com", profile.DisplayName())
}

func TestErrorMessageExtracted(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"message": "Slot already booked"})
	}))
	defer srv.Close()

	_, err := client.Bookings(context.Background())

	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "Slot already booked", apiErr.Message)
	assert.Nil(t, apiErr.Conflict)
}

func TestErrorMessageFallsBackToStatus(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>upstream dead</html>"))
	}))
	defer srv.Close()

	_, err := client.Bookings(context.Background())

	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "HTTP 502 Bad Gateway", apiErr.Message)
}

func TestConflictPayloadDecoded(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]any{
			"message": "Booking conflicts with an existing booking",
			"type":    core.ConflictSystem,
			"conflictingBooking": map[string]string{
				"id":        "bk-1",
				"name":      "Standup",
				"startTime": "2026-09-01T09:00:00Z",
				"endTime":   "2026-09-01T09:30:00Z",
			},
		})
	}))
	defer srv.Close()

	_, err := client.CreateBooking(context.Background(), core.CreateBookingInput{Name: "Standup 2"})

	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	require.NotNil(t, apiErr.Conflict)
	assert.Equal(t, core.ConflictSystem, apiErr.Conflict.Type)
	require.NotNil(t, apiErr.Conflict.ConflictingBooking)
	assert.Equal(t, "bk-1", apiErr.Conflict.ConflictingBooking.ID)
	assert.Nil(t, apiErr.Conflict.ConflictingEvent)
}

func TestEmptySuccessBodyIsUnit(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/bookings/bk-1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	require.NoError(t, client.DeleteBooking(context.Background(), "bk-1"))
}

func TestMalformedSuccessBody(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	_, err := client.Bookings(context.Background())

	var parseErr *api.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	client := api.NewClient(srv.URL)
	client.InstallToken("test-token")
	srv.Close() // nothing listening anymore

	_, err := client.Bookings(context.Background())

	var transportErr *api.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.NotNil(t, errors.Unwrap(transportErr))
}

func TestGoogleAuthURL(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/google/connect", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"url": "https://accounts.google.com/o/oauth2/auth?x=1"})
	}))
	defer srv.Close()

	authURL, err := client.GoogleAuthURL(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "https://accounts.google.com/o/oauth2/auth?x=1", authURL)
}

func TestDisconnectGoogleUsesPost(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/google/disconnect", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	require.NoError(t, client.DisconnectGoogle(context.Background()))
}

func TestCreateBookingSendsInstants(t *testing.T) {
	start := time.Date(2026, 9, 3, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/bookings", r.URL.Path)

		var body struct {
			Name      string    `json:"name"`
			StartTime time.Time `json:"startTime"`
			EndTime   time.Time `json:"endTime"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Team sync", body.Name)
		assert.True(t, body.StartTime.Equal(start))
		assert.True(t, body.EndTime.Equal(end))

		json.NewEncoder(w).Encode(core.Booking{
			ID:        "bk-9",
			Name:      body.Name,
			StartTime: body.StartTime,
			EndTime:   body.EndTime,
			UserID:    "user-1",
		})
	}))
	defer srv.Close()

	booking, err := client.CreateBooking(context.Background(), core.CreateBookingInput{
		Name:      "Team sync",
		StartTime: start,
		EndTime:   end,
	})

	require.NoError(t, err)
	assert.Equal(t, "bk-9", booking.ID)
	assert.True(t, booking.StartTime.Equal(start))
}

func TestAvailableSlots(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bookings/slots", r.URL.Path)
		assert.Equal(t, "2026-09-03", r.URL.Query().Get("date"))

		json.NewEncoder(w).Encode(core.SlotsResponse{
			Date: "2026-09-03",
			Bookings: []core.Booking{
				{ID: "bk-1", Name: "Standup"},
			},
			GoogleEvents: []core.GoogleEvent{
				{ID: "ev-1", Summary: "Dentist"},
			},
		})
	}))
	defer srv.Close()

	slots, err := client.AvailableSlots(context.Background(), "2026-09-03")

	require.NoError(t, err)
	assert.Equal(t, "2026-09-03", slots.Date)
	require.Len(t, slots.Bookings, 1)
	require.Len(t, slots.GoogleEvents, 1)
	assert.Equal(t, "Dentist", slots.GoogleEvents[0].Summary)
}
