package postgres

import (
	"context"
	"database/sql"
	"errors"

	"quickagenda/internal/domain"
)

type formRepository struct {
	DB *sql.DB
}

func NewFormRepository(db *sql.DB) domain.FormRepository {
	return &formRepository{
		DB: db,
	}
}

func (r *formRepository) GetByEventID(ctx context.Context, eventID string) (*domain.Form, error) {
	query := `
		SELECT id, event_id, title, active, open_at, close_at, created_at, updated_at
		FROM forms
		WHERE event_id = $1
	`
	f := &domain.Form{}
	var openNull, closeNull sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, eventID).Scan(&f.ID, &f.EventID, &f.Title, &f.Active, &openNull, &closeNull, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if openNull.Valid {
		f.OpenAt = &openNull.Time
	}
	if closeNull.Valid {
		f.CloseAt = &closeNull.Time
	}
	return f, nil
}

func (r *formRepository) Upsert(ctx context.Context, form *domain.Form, fields []*domain.FormField) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if form.ID == "" {
		query := `
			INSERT INTO forms (event_id, title, active, open_at, close_at, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`
		err = tx.QueryRowContext(ctx, query, form.EventID, form.Title, form.Active, form.OpenAt, form.CloseAt, form.CreatedAt, form.UpdatedAt).Scan(&form.ID)
		if err != nil {
			// The one-form-per-event constraint is the backstop against a
			// concurrent creation race.
			return conflictErr(err)
		}
	} else {
		query := `
			UPDATE forms SET title = $2, active = $3, open_at = $4, close_at = $5, updated_at = $6
			WHERE id = $1
		`
		if _, err := tx.ExecContext(ctx, query, form.ID, form.Title, form.Active, form.OpenAt, form.CloseAt, form.UpdatedAt); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM form_fields WHERE form_id = $1`, form.ID); err != nil {
		return err
	}
	fieldQuery := `
		INSERT INTO form_fields (form_id, type, label, required, order_index, options_json, config_json)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	for _, f := range fields {
		f.FormID = form.ID
		if err := tx.QueryRowContext(ctx, fieldQuery, f.FormID, f.Type, f.Label, f.Required, f.OrderIndex, f.OptionsJSON, f.ConfigJSON).Scan(&f.ID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *formRepository) ListFields(ctx context.Context, formID string) ([]*domain.FormField, error) {
	query := `
		SELECT id, form_id, type, label, required, order_index, options_json, config_json
		FROM form_fields
		WHERE form_id = $1
		ORDER BY order_index
	`
	rows, err := r.DB.QueryContext(ctx, query, formID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fields []*domain.FormField
	for rows.Next() {
		f := &domain.FormField{}
		if err := rows.Scan(&f.ID, &f.FormID, &f.Type, &f.Label, &f.Required, &f.OrderIndex, &f.OptionsJSON, &f.ConfigJSON); err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, rows.Err()
}
