package core

// UserProfile is the authenticated user's account record. The name and
// picture fields may be null server-side; they decode to empty strings.
type UserProfile struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	// CalendarConnected reports whether the user has linked their Google
	// Calendar through the backend's consent flow.
	CalendarConnected bool `json:"isGoogleCalendarConnected"`
}

// DisplayName returns the name to show for the user, falling back to the
// email address when no name is set.
func (p UserProfile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Email
}
