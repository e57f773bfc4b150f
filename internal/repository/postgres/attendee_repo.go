package postgres

import (
	"context"
	"database/sql"

	"quickagenda/internal/domain"
)

type attendeeRepository struct {
	DB *sql.DB
}

func NewAttendeeRepository(db *sql.DB) domain.AttendeeRepository {
	return &attendeeRepository{
		DB: db,
	}
}

func (r *attendeeRepository) Upsert(ctx context.Context, a *domain.Attendee) error {
	// Last write wins on the status; created_at stays from the first RSVP.
	query := `
		INSERT INTO attendees (event_id, email, rsvp_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (event_id, email) DO UPDATE
		SET rsvp_status = EXCLUDED.rsvp_status, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`
	return r.DB.QueryRowContext(ctx, query, a.EventID, a.Email, a.RsvpStatus, a.CreatedAt, a.UpdatedAt).Scan(&a.ID, &a.CreatedAt)
}

func (r *attendeeRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Attendee, error) {
	query := `
		SELECT id, event_id, email, rsvp_status, created_at, updated_at
		FROM attendees
		WHERE event_id = $1
		ORDER BY created_at
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attendees []*domain.Attendee
	for rows.Next() {
		a := &domain.Attendee{}
		if err := rows.Scan(&a.ID, &a.EventID, &a.Email, &a.RsvpStatus, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		attendees = append(attendees, a)
	}
	return attendees, rows.Err()
}
