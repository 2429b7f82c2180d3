package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"bookctl/internal/core"
)

// Client talks to the booking backend. Every call carries the installed
// bearer token and a JSON content type; install a token before use. Calls
// are single-attempt: no retry, no timeout beyond the caller's context.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

// InstallToken replaces the token used by all subsequent calls.
func (c *Client) InstallToken(token string) {
	c.token = token
}

// do performs one authenticated exchange. A non-2xx response becomes an
// *APIError, a failed exchange a *TransportError, and malformed JSON on a
// success a *ParseError. An empty success body with a non-nil out is left
// as out's zero value.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c.token == "" {
		return ErrNoToken
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s body: %w", path, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create %s request: %w", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Err: err}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return decodeError(resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &ParseError{Endpoint: path, Err: err}
	}
	return nil
}

// decodeError extracts the backend's {message} failure payload. A body
// that isn't JSON, or carries no message, falls back to a status-derived
// message. Conflict details ride along when present.
func decodeError(status int, data []byte) *APIError {
	apiErr := &APIError{Status: status}

	var payload struct {
		Message            string                   `json:"message"`
		Type               string                   `json:"type"`
		ConflictingBooking *core.ConflictingBooking `json:"conflictingBooking"`
		ConflictingEvent   *core.ConflictingEvent   `json:"conflictingEvent"`
	}
	if err := json.Unmarshal(data, &payload); err != nil || payload.Message == "" {
		apiErr.Message = fmt.Sprintf("HTTP %d %s", status, http.StatusText(status))
		return apiErr
	}

	apiErr.Message = payload.Message
	if payload.Type == core.ConflictSystem || payload.Type == core.ConflictGoogleCalendar {
		apiErr.Conflict = &core.ConflictInfo{
			Type:               payload.Type,
			ConflictingBooking: payload.ConflictingBooking,
			ConflictingEvent:   payload.ConflictingEvent,
		}
	}
	return apiErr
}

// Profile fetches the authenticated user's account record.
func (c *Client) Profile(ctx context.Context) (core.UserProfile, error) {
	var profile core.UserProfile
	err := c.do(ctx, http.MethodGet, "/auth/me", nil, &profile)
	return profile, err
}

// GoogleAuthURL asks the backend for the Google Calendar consent URL. The
// backend may legitimately return an empty URL; callers must check.
func (c *Client) GoogleAuthURL(ctx context.Context) (string, error) {
	var payload struct {
		URL string `json:"url"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/google/connect", nil, &payload); err != nil {
		return "", err
	}
	return payload.URL, nil
}

// DisconnectGoogle unlinks the user's Google Calendar.
func (c *Client) DisconnectGoogle(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/google/disconnect", nil, nil)
}

// Bookings lists all of the user's bookings.
func (c *Client) Bookings(ctx context.Context) ([]core.Booking, error) {
	var bookings []core.Booking
	err := c.do(ctx, http.MethodGet, "/bookings", nil, &bookings)
	return bookings, err
}

// Booking fetches a single booking by id.
func (c *Client) Booking(ctx context.Context, id string) (core.Booking, error) {
	var booking core.Booking
	err := c.do(ctx, http.MethodGet, "/bookings/"+url.PathEscape(id), nil, &booking)
	return booking, err
}

// CreateBooking submits a new booking and returns the server's canonical
// record. Not idempotent; the caller serializes submissions.
func (c *Client) CreateBooking(ctx context.Context, in core.CreateBookingInput) (core.Booking, error) {
	var booking core.Booking
	err := c.do(ctx, http.MethodPost, "/bookings", in, &booking)
	return booking, err
}

// DeleteBooking removes a booking by id.
func (c *Client) DeleteBooking(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/bookings/"+url.PathEscape(id), nil, nil)
}

// AvailableSlots fetches the occupancy for one day. The date is YYYY-MM-DD.
func (c *Client) AvailableSlots(ctx context.Context, date string) (core.SlotsResponse, error) {
	var slots core.SlotsResponse
	err := c.do(ctx, http.MethodGet, "/bookings/slots?date="+url.QueryEscape(date), nil, &slots)
	return slots, err
}
