package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"quickagenda/internal/domain"
)

type formService struct {
	eventRepo      domain.EventRepository
	formRepo       domain.FormRepository
	responseRepo   domain.FormResponseRepository
	contextTimeout time.Duration
	now            func() time.Time
}

// NewFormService creates a FormService with the given repositories.
func NewFormService(eventRepo domain.EventRepository, formRepo domain.FormRepository, responseRepo domain.FormResponseRepository, timeout time.Duration) domain.FormService {
	return &formService{
		eventRepo:      eventRepo,
		formRepo:       formRepo,
		responseRepo:   responseRepo,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *formService) getEvent(ctx context.Context, code string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByShareCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *formService) GetAdminForm(ctx context.Context, code string) (*domain.Form, []*domain.FormField, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.getEvent(ctx, code)
	if err != nil {
		return nil, nil, err
	}
	form, err := s.formRepo.GetByEventID(ctx, event.ID)
	if err != nil {
		// Not having created a form yet is a normal organizer state.
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("get form: %w", err)
	}
	fields, err := s.formRepo.ListFields(ctx, form.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("list fields: %w", err)
	}
	if fields == nil {
		fields = []*domain.FormField{}
	}
	return form, fields, nil
}

func (s *formService) UpsertForm(ctx context.Context, code, title string, active bool, openAt, closeAt *time.Time, fields []*domain.FormField) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.getEvent(ctx, code)
	if err != nil {
		return err
	}

	now := s.now()
	form, err := s.formRepo.GetByEventID(ctx, event.ID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("get form: %w", err)
		}
		form = &domain.Form{EventID: event.ID, CreatedAt: now}
	}
	form.Title = title
	form.Active = active
	form.OpenAt = openAt
	form.CloseAt = closeAt
	form.UpdatedAt = now

	// An explicit non-zero order index wins; everything else gets the next
	// positional slot.
	idx := 0
	for _, f := range fields {
		if f.OrderIndex == 0 {
			f.OrderIndex = idx
			idx++
		}
	}

	if err := s.formRepo.Upsert(ctx, form, fields); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.ErrConflict
		}
		return fmt.Errorf("upsert form: %w", err)
	}
	return nil
}

func (s *formService) GetPublicForm(ctx context.Context, code, email string) (*domain.Form, []*domain.FormField, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.getEvent(ctx, code)
	if err != nil {
		return nil, nil, err
	}
	form, err := s.formRepo.GetByEventID(ctx, event.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("get form: %w", err)
	}
	// An inactive or out-of-window form is indistinguishable from a missing
	// one on the public read path.
	if !form.AvailableAt(s.now()) {
		return nil, nil, domain.ErrNotFound
	}
	fields, err := s.formRepo.ListFields(ctx, form.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("list fields: %w", err)
	}
	if fields == nil {
		fields = []*domain.FormField{}
	}
	return form, fields, nil
}

func (s *formService) SubmitForm(ctx context.Context, code, email string, answers map[string]any) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}
	event, err := s.getEvent(ctx, code)
	if err != nil {
		return err
	}
	form, err := s.formRepo.GetByEventID(ctx, event.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get form: %w", err)
	}
	// Unlike the read path, submission reports an unavailable form as
	// forbidden rather than hiding it.
	if !form.AvailableAt(s.now()) {
		return domain.ErrForbidden
	}

	if answers == nil {
		answers = map[string]any{}
	}
	payload, err := json.Marshal(answers)
	if err != nil {
		return fmt.Errorf("%w: answers are not serializable", domain.ErrInvalidInput)
	}

	now := s.now()
	resp := &domain.FormResponse{
		FormID:      form.ID,
		Email:       email,
		AnswersJSON: string(payload),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.responseRepo.Upsert(ctx, resp); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.ErrConflict
		}
		return fmt.Errorf("upsert response: %w", err)
	}
	return nil
}

func (s *formService) ListResponses(ctx context.Context, code string) ([]*domain.FormAnswers, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.getEvent(ctx, code)
	if err != nil {
		return nil, err
	}
	form, err := s.formRepo.GetByEventID(ctx, event.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get form: %w", err)
	}
	rows, err := s.responseRepo.ListByFormID(ctx, form.ID)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}

	result := make([]*domain.FormAnswers, 0, len(rows))
	for _, row := range rows {
		answers := map[string]any{}
		if row.AnswersJSON != "" {
			// A corrupt stored payload degrades to an empty map instead of
			// failing the whole listing.
			if err := json.Unmarshal([]byte(row.AnswersJSON), &answers); err != nil {
				answers = map[string]any{}
			}
		}
		result = append(result, &domain.FormAnswers{
			Email:     row.Email,
			CreatedAt: row.CreatedAt,
			Answers:   answers,
		})
	}
	return result, nil
}
