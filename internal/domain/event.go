package domain

import (
	"context"
	"time"
)

// Event is a shareable agenda page for a single day. The share code is its
// only public identifier; there are no accounts in this system.
type Event struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description,omitempty"`
	EventDate     time.Time `json:"event_date"`
	ShareCode     string    `json:"share_code"`
	InvitedEmails []string  `json:"invited_emails"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Session is one agenda slot on the event's date. Start and end carry the
// full timestamp produced by binding a time of day to the event date.
type Session struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	Title     string    `json:"title"`
	Location  string    `json:"location,omitempty"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SessionSpec describes a session to create: title, optional location, and
// start/end as "HH:MM" times of day on the event's date.
type SessionSpec struct {
	Title    string
	Location string
	Start    string
	End      string
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	// Create persists the event together with its initial sessions in a
	// single transaction. A share-code collision returns ErrConflict.
	Create(ctx context.Context, event *Event, sessions []*Session) error
	// GetByShareCode matches the stored code exactly (case-sensitive).
	GetByShareCode(ctx context.Context, code string) (*Event, error)
	// Update changes only the non-nil fields and returns the fresh row.
	Update(ctx context.Context, eventID string, name, description *string, eventDate *time.Time) (*Event, error)
	// AppendInvitedEmails appends to the event's invited list under a row
	// lock so concurrent invites do not lose updates.
	AppendInvitedEmails(ctx context.Context, eventID string, emails []string) (*Event, error)
}

// SessionRepository defines the interface for session storage.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	GetByID(ctx context.Context, id string) (*Session, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Session, error)
	// ReplaceByEventID deletes every session of the event and inserts the
	// given ones in a single transaction.
	ReplaceByEventID(ctx context.Context, eventID string, sessions []*Session) error
	Delete(ctx context.Context, id string) error
	// UpdateTimes writes exactly the two timestamp columns of the session.
	UpdateTimes(ctx context.Context, id string, start, end time.Time) error
}

// EventService defines organizer-facing event and session operations, keyed
// by share code. Session specs carry "HH:MM" times of day that are bound to
// the event's date; an unparsable time returns ErrInvalidInput.
type EventService interface {
	CreateEvent(ctx context.Context, name string, eventDate time.Time, description *string, specs []SessionSpec) (*Event, []*Session, error)
	GetEventByShareCode(ctx context.Context, code string) (*Event, []*Session, error)
	// UpdateEvent changes the non-nil fields. A nil specs slice leaves the
	// session set untouched; a non-nil slice replaces it wholesale,
	// re-binding times to the (possibly updated) event date.
	UpdateEvent(ctx context.Context, code string, name, description *string, eventDate *time.Time, specs []SessionSpec) (*Event, []*Session, error)
	AddSession(ctx context.Context, code string, spec SessionSpec) (*Event, []*Session, error)
	DeleteSession(ctx context.Context, code, sessionID string) (*Event, []*Session, error)
	UpdateSessionTimes(ctx context.Context, code, sessionID, start, end string) (*Event, []*Session, error)
	// BuildCalendar renders the event's sessions as an iCalendar document.
	BuildCalendar(ctx context.Context, code string) ([]byte, error)
}
