package domain

import (
	"context"
	"time"
)

// Form is the custom intake form of an event, at most one per event. Whether
// respondents can see or submit it depends on the active flag and the
// optional open/close window, evaluated at request time.
type Form struct {
	ID        string     `json:"id"`
	EventID   string     `json:"event_id"`
	Title     string     `json:"title"`
	Active    bool       `json:"active"`
	OpenAt    *time.Time `json:"open_at,omitempty"`
	CloseAt   *time.Time `json:"close_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// AvailableAt reports whether the form accepts respondents at the given
// moment: active, and inside the open/close window when one is set.
func (f *Form) AvailableAt(at time.Time) bool {
	if !f.Active {
		return false
	}
	if f.OpenAt != nil && at.Before(*f.OpenAt) {
		return false
	}
	if f.CloseAt != nil && at.After(*f.CloseAt) {
		return false
	}
	return true
}

// FormField is one question of a form. OptionsJSON and ConfigJSON are opaque
// serialized payloads passed through unchanged; the core only cares about
// ordering and the required flag.
type FormField struct {
	ID          string `json:"id"`
	FormID      string `json:"form_id"`
	Type        string `json:"type"`
	Label       string `json:"label"`
	Required    bool   `json:"required"`
	OrderIndex  int    `json:"order_index"`
	OptionsJSON string `json:"options_json,omitempty"`
	ConfigJSON  string `json:"config_json,omitempty"`
}

// FormResponse is one respondent's stored submission, unique per
// (form, email). AnswersJSON maps field identifiers to submitted values.
type FormResponse struct {
	ID          string    `json:"id"`
	FormID      string    `json:"form_id"`
	Email       string    `json:"email"`
	AnswersJSON string    `json:"answers_json"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FormAnswers is a response row with its decoded answer payload, as returned
// to the organizer.
type FormAnswers struct {
	Email     string         `json:"email"`
	CreatedAt time.Time      `json:"created_at"`
	Answers   map[string]any `json:"answers"`
}

// FormRepository defines storage for forms and their fields.
type FormRepository interface {
	GetByEventID(ctx context.Context, eventID string) (*Form, error)
	// Upsert creates or updates the form and replaces its entire field set
	// in one transaction. A duplicate form for the event returns ErrConflict.
	Upsert(ctx context.Context, form *Form, fields []*FormField) error
	// ListFields returns the form's fields ordered by order index.
	ListFields(ctx context.Context, formID string) ([]*FormField, error)
}

// FormResponseRepository defines storage for form submissions.
type FormResponseRepository interface {
	// Upsert creates the response or overwrites its answers, keyed on
	// (form_id, email). CreatedAt is preserved on overwrite; ID and
	// CreatedAt reflect the stored row on return.
	Upsert(ctx context.Context, resp *FormResponse) error
	// ListByFormID returns responses most recent first by creation time.
	ListByFormID(ctx context.Context, formID string) ([]*FormResponse, error)
}

// FormService defines the form lifecycle and submission operations. The
// public read path reports an unavailable form as ErrNotFound while the
// submit path uses ErrForbidden; callers must not collapse the two.
type FormService interface {
	// GetAdminForm ignores availability. A missing form is not an error:
	// it returns (nil, nil, nil).
	GetAdminForm(ctx context.Context, code string) (*Form, []*FormField, error)
	UpsertForm(ctx context.Context, code, title string, active bool, openAt, closeAt *time.Time, fields []*FormField) error
	// GetPublicForm hides unavailable forms behind ErrNotFound. The email is
	// accepted but does not gate access yet.
	GetPublicForm(ctx context.Context, code, email string) (*Form, []*FormField, error)
	SubmitForm(ctx context.Context, code, email string, answers map[string]any) error
	ListResponses(ctx context.Context, code string) ([]*FormAnswers, error)
}
