package domain

import (
	"context"
	"time"
)

// Feedback is a free-text note left by a visitor, optionally tied to the
// share code of the page it came from.
type Feedback struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Source    string    `json:"source,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	ShareCode string    `json:"share_code,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// FeedbackRepository defines storage for feedback notes.
type FeedbackRepository interface {
	Create(ctx context.Context, fb *Feedback) error
	// ListRecent returns up to limit notes, most recent first.
	ListRecent(ctx context.Context, limit int) ([]*Feedback, error)
}

// FeedbackService defines the feedback operations.
type FeedbackService interface {
	// Submit rejects blank text with ErrInvalidInput and stamps CreatedAt.
	Submit(ctx context.Context, fb *Feedback) (*Feedback, error)
	ListRecent(ctx context.Context) ([]*Feedback, error)
}
