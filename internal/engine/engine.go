// Package engine owns the session's authoritative local view of the user's
// profile and bookings and drives every mutating operation against the
// backend. The cache holds server-confirmed records only: state changes
// after the backend acknowledges, never speculatively, so a failed call
// always leaves the view exactly as it was.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"bookctl/internal/core"
)

// Remote is the slice of the backend client the engine drives.
type Remote interface {
	Profile(ctx context.Context) (core.UserProfile, error)
	Bookings(ctx context.Context) ([]core.Booking, error)
	CreateBooking(ctx context.Context, in core.CreateBookingInput) (core.Booking, error)
	DeleteBooking(ctx context.Context, id string) error
	GoogleAuthURL(ctx context.Context) (string, error)
	DisconnectGoogle(ctx context.Context) error
}

// Navigate hands the session to an external agent (the browser) for the
// calendar consent flow. There is no in-process continuation: the outcome
// shows up on the profile only after a later Load.
type Navigate func(url string) error

// ErrSubmitInFlight rejects a create while another one is still pending.
// No request is issued and no state changes.
var ErrSubmitInFlight = errors.New("a booking submission is already in flight")

// Engine caches the profile and booking list and sequences user-triggered
// operations. Methods may be called from different goroutines (bubbletea
// commands settle on their own goroutines); each cache mutation is atomic,
// and the submitting flag is the only lock spanning an operation.
type Engine struct {
	remote   Remote
	navigate Navigate
	loc      *time.Location

	mu         sync.Mutex
	profile    *core.UserProfile
	bookings   []core.Booking
	loading    bool
	submitting bool
	draft      core.Draft
	modalOpen  bool
}

// New creates an engine over the given backend. The engine starts in its
// initial-load state; navigate may be nil if ConnectCalendar is never used.
func New(remote Remote, navigate Navigate) *Engine {
	return &Engine{
		remote:   remote,
		navigate: navigate,
		loc:      time.Local,
		loading:  true,
	}
}

// Load fetches the profile and booking list concurrently and replaces both
// caches, but only if both fetches succeed: a single failure leaves both
// exactly as they were. The initial-load flag clears either way, and no
// retry is scheduled; recovery is another Load.
func (e *Engine) Load(ctx context.Context) error {
	defer func() {
		e.mu.Lock()
		e.loading = false
		e.mu.Unlock()
	}()

	type profileResult struct {
		profile core.UserProfile
		err     error
	}
	type bookingsResult struct {
		bookings []core.Booking
		err      error
	}

	profileCh := make(chan profileResult, 1)
	bookingsCh := make(chan bookingsResult, 1)
	go func() {
		p, err := e.remote.Profile(ctx)
		profileCh <- profileResult{p, err}
	}()
	go func() {
		b, err := e.remote.Bookings(ctx)
		bookingsCh <- bookingsResult{b, err}
	}()

	pr := <-profileCh
	br := <-bookingsCh
	if pr.err != nil {
		return fmt.Errorf("load profile: %w", pr.err)
	}
	if br.err != nil {
		return fmt.Errorf("load bookings: %w", br.err)
	}

	e.mu.Lock()
	profile := pr.profile
	e.profile = &profile
	e.bookings = br.bookings
	e.mu.Unlock()
	return nil
}

// CreateBooking submits the current draft. A second call while one is in
// flight returns ErrSubmitInFlight without issuing a request. On success
// the server's canonical booking is appended to the cache, the modal
// closes, and the draft resets; on failure the draft and modal are left
// alone so the user can correct and resubmit.
func (e *Engine) CreateBooking(ctx context.Context) (core.Booking, error) {
	e.mu.Lock()
	if e.submitting {
		e.mu.Unlock()
		return core.Booking{}, ErrSubmitInFlight
	}
	e.submitting = true
	draft := e.draft
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.submitting = false
		e.mu.Unlock()
	}()

	start, end, err := draft.Instants(e.loc)
	if err != nil {
		return core.Booking{}, fmt.Errorf("invalid booking input: %w", err)
	}

	booking, err := e.remote.CreateBooking(ctx, core.CreateBookingInput{
		Name:      draft.Name,
		StartTime: start,
		EndTime:   end,
	})
	if err != nil {
		return core.Booking{}, err
	}

	e.mu.Lock()
	e.bookings = append(e.bookings, booking)
	e.modalOpen = false
	e.draft = core.Draft{}
	e.mu.Unlock()
	return booking, nil
}

// DeleteBooking removes the booking with the given id, dropping the cache
// entry only after the backend confirms. There is no per-id lock: deletes
// for different ids may be in flight together, and a duplicate delete for
// the same id simply reports the backend's failure.
func (e *Engine) DeleteBooking(ctx context.Context, id string) error {
	if err := e.remote.DeleteBooking(ctx, id); err != nil {
		return err
	}

	e.mu.Lock()
	for i, b := range e.bookings {
		if b.ID == id {
			e.bookings = append(e.bookings[:i:i], e.bookings[i+1:]...)
			break
		}
	}
	e.mu.Unlock()
	return nil
}

// ConnectCalendar asks the backend for a consent URL and hands the session
// to the browser. No cache state changes here; the connection is observed
// by a later Load once the consent flow completes externally.
func (e *Engine) ConnectCalendar(ctx context.Context) error {
	authURL, err := e.remote.GoogleAuthURL(ctx)
	if err != nil {
		return err
	}
	if authURL == "" {
		return errors.New("backend returned no authorization URL")
	}
	if e.navigate == nil {
		return errors.New("no browser navigation configured")
	}
	return e.navigate(authURL)
}

// DisconnectCalendar unlinks the calendar and, only once the backend
// confirms, patches the cached profile's connected flag. No re-fetch.
func (e *Engine) DisconnectCalendar(ctx context.Context) error {
	if err := e.remote.DisconnectGoogle(ctx); err != nil {
		return err
	}

	e.mu.Lock()
	if e.profile != nil {
		profile := *e.profile
		profile.CalendarConnected = false
		e.profile = &profile
	}
	e.mu.Unlock()
	return nil
}

// Profile returns the cached profile and whether one has been loaded.
func (e *Engine) Profile() (core.UserProfile, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.profile == nil {
		return core.UserProfile{}, false
	}
	return *e.profile, true
}

// Bookings returns a copy of the cache in its underlying order.
func (e *Engine) Bookings() []core.Booking {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]core.Booking, len(e.bookings))
	copy(out, e.bookings)
	return out
}

// SortedBookings returns the cache ordered by start time, ascending.
// Bookings with equal start times keep their relative cache order. The
// projection is recomputed on every call and has no persisted form.
func (e *Engine) SortedBookings() []core.Booking {
	out := e.Bookings()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out
}

// Loading reports whether the initial bulk load is still pending.
func (e *Engine) Loading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loading
}

// Submitting reports whether a create is in flight.
func (e *Engine) Submitting() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.submitting
}

// Draft returns the current creation-form input.
func (e *Engine) Draft() core.Draft {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft
}

// SetDraft replaces the creation-form input.
func (e *Engine) SetDraft(d core.Draft) {
	e.mu.Lock()
	e.draft = d
	e.mu.Unlock()
}

// ModalOpen reports whether the creation form is open.
func (e *Engine) ModalOpen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.modalOpen
}

// OpenModal opens the creation form.
func (e *Engine) OpenModal() {
	e.mu.Lock()
	e.modalOpen = true
	e.mu.Unlock()
}

// CloseModal closes the creation form and discards the draft. It does not
// abort an in-flight create: if one later succeeds, its booking still
// lands in the cache and the modal simply stays closed.
func (e *Engine) CloseModal() {
	e.mu.Lock()
	e.modalOpen = false
	e.draft = core.Draft{}
	e.mu.Unlock()
}
