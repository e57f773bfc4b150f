package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"quickagenda/internal/domain"
)

type mockFeedbackRepository struct {
	created    []*domain.Feedback
	lastLimit  int
	listResult []*domain.Feedback
}

func (m *mockFeedbackRepository) Create(ctx context.Context, fb *domain.Feedback) error {
	fb.ID = fmt.Sprintf("fb-%d", len(m.created)+1)
	m.created = append(m.created, fb)
	return nil
}

func (m *mockFeedbackRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Feedback, error) {
	m.lastLimit = limit
	return m.listResult, nil
}

func TestSubmitFeedback(t *testing.T) {
	ctx := context.Background()
	repo := &mockFeedbackRepository{}
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := &feedbackService{feedbackRepo: repo, contextTimeout: time.Second, now: func() time.Time { return at }}

	fb, err := svc.Submit(ctx, &domain.Feedback{Text: "love it", Source: "web", ShareCode: "ABC123"})
	require.NoError(t, err)
	require.Equal(t, "fb-1", fb.ID)
	require.True(t, fb.CreatedAt.Equal(at))
	require.Len(t, repo.created, 1)
}

func TestSubmitFeedback_BlankText(t *testing.T) {
	ctx := context.Background()
	repo := &mockFeedbackRepository{}
	svc := NewFeedbackService(repo, time.Second)

	_, err := svc.Submit(ctx, &domain.Feedback{Text: "   "})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	require.Empty(t, repo.created)
}

func TestListRecentFeedback(t *testing.T) {
	ctx := context.Background()
	repo := &mockFeedbackRepository{}
	svc := NewFeedbackService(repo, time.Second)

	list, err := svc.ListRecent(ctx)
	require.NoError(t, err)
	require.NotNil(t, list)
	require.Empty(t, list)
	require.Equal(t, recentFeedbackLimit, repo.lastLimit)
}
