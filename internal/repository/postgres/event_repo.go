package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"quickagenda/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

const eventColumns = "id, name, description, event_date, share_code, invited_emails, created_at, updated_at"

func scanEvent(row interface{ Scan(...any) error }) (*domain.Event, error) {
	e := &domain.Event{}
	var descNull sql.NullString
	err := row.Scan(&e.ID, &e.Name, &descNull, &e.EventDate, &e.ShareCode, pq.Array(&e.InvitedEmails), &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if descNull.Valid {
		e.Description = &descNull.String
	}
	if e.InvitedEmails == nil {
		e.InvitedEmails = []string{}
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event, sessions []*domain.Session) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if e.InvitedEmails == nil {
		e.InvitedEmails = []string{}
	}
	query := `
		INSERT INTO events (name, description, event_date, share_code, invited_emails, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err = tx.QueryRowContext(ctx, query, e.Name, e.Description, e.EventDate, e.ShareCode, pq.Array(e.InvitedEmails), e.CreatedAt, e.UpdatedAt).Scan(&e.ID)
	if err != nil {
		return conflictErr(err)
	}

	sessionQuery := `
		INSERT INTO sessions (event_id, title, location, start_time, end_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	for _, s := range sessions {
		s.EventID = e.ID
		if err := tx.QueryRowContext(ctx, sessionQuery, s.EventID, s.Title, s.Location, s.StartTime, s.EndTime, s.CreatedAt, s.UpdatedAt).Scan(&s.ID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *eventRepository) GetByShareCode(ctx context.Context, code string) (*domain.Event, error) {
	// The stored code is matched exactly; lookups are case-sensitive.
	query := fmt.Sprintf(`SELECT %s FROM events WHERE share_code = $1`, eventColumns)
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Update(ctx context.Context, eventID string, name, description *string, eventDate *time.Time) (*domain.Event, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}
	n := 1
	if name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", n))
		args = append(args, *name)
		n++
	}
	if description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", n))
		args = append(args, *description)
		n++
	}
	if eventDate != nil {
		setClauses = append(setClauses, fmt.Sprintf("event_date = $%d", n))
		args = append(args, *eventDate)
		n++
	}
	args = append(args, eventID)
	query := fmt.Sprintf(`
		UPDATE events SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), n, eventColumns)

	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) AppendInvitedEmails(ctx context.Context, eventID string, emails []string) (*domain.Event, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Row lock so two concurrent invites both land in the list.
	var existing []string
	err = tx.QueryRowContext(ctx, `SELECT invited_emails FROM events WHERE id = $1 FOR UPDATE`, eventID).Scan(pq.Array(&existing))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	combined := append(existing, emails...)

	query := fmt.Sprintf(`
		UPDATE events SET invited_emails = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING %s
	`, eventColumns)
	e, err := scanEvent(tx.QueryRowContext(ctx, query, eventID, pq.Array(combined)))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return e, nil
}
