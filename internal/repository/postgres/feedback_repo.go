package postgres

import (
	"context"
	"database/sql"

	"quickagenda/internal/domain"
)

type feedbackRepository struct {
	DB *sql.DB
}

func NewFeedbackRepository(db *sql.DB) domain.FeedbackRepository {
	return &feedbackRepository{
		DB: db,
	}
}

func (r *feedbackRepository) Create(ctx context.Context, fb *domain.Feedback) error {
	query := `
		INSERT INTO feedback (text, source, user_agent, share_code, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, fb.Text, fb.Source, fb.UserAgent, fb.ShareCode, fb.CreatedAt).Scan(&fb.ID)
}

func (r *feedbackRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Feedback, error) {
	query := `
		SELECT id, text, source, user_agent, share_code, created_at
		FROM feedback
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*domain.Feedback
	for rows.Next() {
		fb := &domain.Feedback{}
		if err := rows.Scan(&fb.ID, &fb.Text, &fb.Source, &fb.UserAgent, &fb.ShareCode, &fb.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, fb)
	}
	return list, rows.Err()
}
