package core

import "time"

// Conflict type tags the backend attaches to scheduling-conflict failures.
const (
	ConflictSystem         = "SYSTEM_CONFLICT"
	ConflictGoogleCalendar = "GOOGLE_CALENDAR_CONFLICT"
)

// ConflictingBooking identifies the existing booking a create collided with.
type ConflictingBooking struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// ConflictingEvent identifies the Google Calendar event a create collided with.
type ConflictingEvent struct {
	Summary string    `json:"summary"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
}

// ConflictInfo is the discriminated conflict payload: Type says whether the
// collision was with another booking or a calendar event, and at most one
// of the record fields is set accordingly. The client decodes it but today
// surfaces only the accompanying message.
type ConflictInfo struct {
	Type               string              `json:"type"`
	ConflictingBooking *ConflictingBooking `json:"conflictingBooking,omitempty"`
	ConflictingEvent   *ConflictingEvent   `json:"conflictingEvent,omitempty"`
}
