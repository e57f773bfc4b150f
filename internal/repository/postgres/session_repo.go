package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"quickagenda/internal/domain"
)

type sessionRepository struct {
	DB *sql.DB
}

func NewSessionRepository(db *sql.DB) domain.SessionRepository {
	return &sessionRepository{
		DB: db,
	}
}

const sessionColumns = "id, event_id, title, location, start_time, end_time, created_at, updated_at"

const insertSessionQuery = `
	INSERT INTO sessions (event_id, title, location, start_time, end_time, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id
`

func (r *sessionRepository) Create(ctx context.Context, s *domain.Session) error {
	return r.DB.QueryRowContext(ctx, insertSessionQuery, s.EventID, s.Title, s.Location, s.StartTime, s.EndTime, s.CreatedAt, s.UpdatedAt).Scan(&s.ID)
}

func (r *sessionRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`
	s := &domain.Session{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.EventID, &s.Title, &s.Location, &s.StartTime, &s.EndTime, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *sessionRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE event_id = $1 ORDER BY start_time, created_at`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*domain.Session
	for rows.Next() {
		s := &domain.Session{}
		if err := rows.Scan(&s.ID, &s.EventID, &s.Title, &s.Location, &s.StartTime, &s.EndTime, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (r *sessionRepository) ReplaceByEventID(ctx context.Context, eventID string, sessions []*domain.Session) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE event_id = $1`, eventID); err != nil {
		return err
	}
	for _, s := range sessions {
		s.EventID = eventID
		if err := tx.QueryRowContext(ctx, insertSessionQuery, s.EventID, s.Title, s.Location, s.StartTime, s.EndTime, s.CreatedAt, s.UpdatedAt).Scan(&s.ID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *sessionRepository) UpdateTimes(ctx context.Context, id string, start, end time.Time) error {
	query := `
		UPDATE sessions SET start_time = $2, end_time = $3, updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.DB.ExecContext(ctx, query, id, start, end)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
