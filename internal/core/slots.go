package core

import "time"

// GoogleEvent is a calendar event the backend pulled from the user's
// linked Google Calendar. Only what availability rendering needs.
type GoogleEvent struct {
	ID      string    `json:"id"`
	Summary string    `json:"summary"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
}

// SlotsResponse describes one day's occupancy: the user's own bookings
// plus any Google Calendar events the backend knows about.
type SlotsResponse struct {
	Date         string        `json:"date"`
	Bookings     []Booking     `json:"bookings"`
	GoogleEvents []GoogleEvent `json:"googleEvents"`
}
