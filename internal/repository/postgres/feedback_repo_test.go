package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"quickagenda/internal/domain"
)

func TestFeedbackRepository_Create(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO feedback`).
		WithArgs("love it", "web", "Mozilla/5.0", "ABC123", at).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("fb-uuid-1"))

	repo := NewFeedbackRepository(db)
	fb := &domain.Feedback{Text: "love it", Source: "web", UserAgent: "Mozilla/5.0", ShareCode: "ABC123", CreatedAt: at}
	err = repo.Create(ctx, fb)
	require.NoError(t, err)
	require.Equal(t, "fb-uuid-1", fb.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackRepository_ListRecent(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "text", "source", "user_agent", "share_code", "created_at"}).
		AddRow("fb-2", "newer", "web", "", "", at.Add(time.Hour)).
		AddRow("fb-1", "older", "web", "", "", at)
	mock.ExpectQuery(`SELECT (.+) FROM feedback (.+) LIMIT \$1`).
		WithArgs(100).
		WillReturnRows(rows)

	repo := NewFeedbackRepository(db)
	list, err := repo.ListRecent(ctx, 100)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "newer", list[0].Text)
	require.NoError(t, mock.ExpectationsWereMet())
}
