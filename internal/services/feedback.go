package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"quickagenda/internal/domain"
)

const recentFeedbackLimit = 100

type feedbackService struct {
	feedbackRepo   domain.FeedbackRepository
	contextTimeout time.Duration
	now            func() time.Time
}

// NewFeedbackService creates a FeedbackService with the given repository.
func NewFeedbackService(feedbackRepo domain.FeedbackRepository, timeout time.Duration) domain.FeedbackService {
	return &feedbackService{
		feedbackRepo:   feedbackRepo,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *feedbackService) Submit(ctx context.Context, fb *domain.Feedback) (*domain.Feedback, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if strings.TrimSpace(fb.Text) == "" {
		return nil, fmt.Errorf("%w: text is required", domain.ErrInvalidInput)
	}
	fb.ID = ""
	fb.CreatedAt = s.now()
	if err := s.feedbackRepo.Create(ctx, fb); err != nil {
		return nil, fmt.Errorf("create feedback: %w", err)
	}
	return fb, nil
}

func (s *feedbackService) ListRecent(ctx context.Context) ([]*domain.Feedback, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	list, err := s.feedbackRepo.ListRecent(ctx, recentFeedbackLimit)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	if list == nil {
		list = []*domain.Feedback{}
	}
	return list, nil
}
