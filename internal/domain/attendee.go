package domain

import (
	"context"
	"time"
)

// Canonical RSVP status tokens.
const (
	RsvpYes   = "YES"
	RsvpNo    = "NO"
	RsvpMaybe = "MAYBE"
)

// Attendee is one RSVP row, unique per (event, email). Resubmitting
// overwrites the prior status; no history is kept.
type Attendee struct {
	ID         string    `json:"id"`
	EventID    string    `json:"event_id"`
	Email      string    `json:"email"`
	RsvpStatus string    `json:"rsvp_status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// RsvpCounts aggregates attendees by status. The three counts always sum to
// the total attendee count.
type RsvpCounts struct {
	Yes   int `json:"yes"`
	No    int `json:"no"`
	Maybe int `json:"maybe"`
}

// AttendeeRepository defines storage for RSVP rows.
type AttendeeRepository interface {
	// Upsert creates the row or overwrites its status, keyed on
	// (event_id, email). ID and CreatedAt reflect the stored row on return.
	Upsert(ctx context.Context, attendee *Attendee) error
	ListByEventID(ctx context.Context, eventID string) ([]*Attendee, error)
}

// AttendeeService defines the RSVP and invite-list operations.
type AttendeeService interface {
	// UpsertRsvp normalizes status to one of the canonical tokens and
	// returns ErrInvalidInput for anything else.
	UpsertRsvp(ctx context.Context, code, email, status string) (*Attendee, error)
	ListAttendees(ctx context.Context, code string) ([]*Attendee, RsvpCounts, error)
	// AppendInvites appends to the event's invited list. The list is
	// append-only; duplicates are not filtered here.
	AppendInvites(ctx context.Context, code string, emails []string) (*Event, error)
}
