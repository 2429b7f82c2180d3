package core

import (
	"fmt"
	"time"
)

// Booking is a confirmed reservation as the backend returns it. The ID is
// server-assigned; the client never fabricates one.
type Booking struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Duration returns the length of the booking.
func (b Booking) Duration() time.Duration {
	return b.EndTime.Sub(b.StartTime)
}

// InProgress checks if the booking is happening right now.
func (b Booking) InProgress(now time.Time) bool {
	return now.After(b.StartTime) && now.Before(b.EndTime)
}

// CreateBookingInput is the payload for a booking creation request.
// Times marshal as absolute ISO instants.
type CreateBookingInput struct {
	Name      string    `json:"name"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// Draft is unsubmitted booking input, held only while the creation form is
// open. The fields mirror the form controls: free-text name, a calendar
// date, and wall-clock start and end times.
type Draft struct {
	Name      string
	Date      string // YYYY-MM-DD
	StartTime string // HH:MM
	EndTime   string // HH:MM
}

// Empty reports whether no field has been filled in.
func (d Draft) Empty() bool {
	return d == Draft{}
}

const draftLayout = "2006-01-02T15:04"

// Instants combines the draft's date with its start and end times into two
// absolute instants in loc. Whether start precedes end is the backend's
// call, not checked here.
func (d Draft) Instants(loc *time.Location) (start, end time.Time, err error) {
	start, err = time.ParseInLocation(draftLayout, d.Date+"T"+d.StartTime, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start of booking: %w", err)
	}
	end, err = time.ParseInLocation(draftLayout, d.Date+"T"+d.EndTime, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("end of booking: %w", err)
	}
	return start, end, nil
}
