package postgres

import (
	"context"
	"database/sql"

	"quickagenda/internal/domain"
)

type formResponseRepository struct {
	DB *sql.DB
}

func NewFormResponseRepository(db *sql.DB) domain.FormResponseRepository {
	return &formResponseRepository{
		DB: db,
	}
}

func (r *formResponseRepository) Upsert(ctx context.Context, resp *domain.FormResponse) error {
	// Overwrites keep the original created_at and bump updated_at.
	query := `
		INSERT INTO form_responses (form_id, email, answers_json, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (form_id, email) DO UPDATE
		SET answers_json = EXCLUDED.answers_json, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`
	err := r.DB.QueryRowContext(ctx, query, resp.FormID, resp.Email, resp.AnswersJSON, resp.CreatedAt, resp.UpdatedAt).Scan(&resp.ID, &resp.CreatedAt)
	if err != nil {
		return conflictErr(err)
	}
	return nil
}

func (r *formResponseRepository) ListByFormID(ctx context.Context, formID string) ([]*domain.FormResponse, error) {
	query := `
		SELECT id, form_id, email, answers_json, created_at, updated_at
		FROM form_responses
		WHERE form_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, formID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var responses []*domain.FormResponse
	for rows.Next() {
		resp := &domain.FormResponse{}
		if err := rows.Scan(&resp.ID, &resp.FormID, &resp.Email, &resp.AnswersJSON, &resp.CreatedAt, &resp.UpdatedAt); err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, rows.Err()
}
