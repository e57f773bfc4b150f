package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"quickagenda/internal/domain"
)

type attendeeService struct {
	eventRepo      domain.EventRepository
	attendeeRepo   domain.AttendeeRepository
	contextTimeout time.Duration
	now            func() time.Time
}

// NewAttendeeService creates an AttendeeService with the given repositories.
func NewAttendeeService(eventRepo domain.EventRepository, attendeeRepo domain.AttendeeRepository, timeout time.Duration) domain.AttendeeService {
	return &attendeeService{
		eventRepo:      eventRepo,
		attendeeRepo:   attendeeRepo,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

// normalizeRsvp maps the submitted token to a canonical status, or returns
// ErrInvalidInput.
func normalizeRsvp(status string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case domain.RsvpYes:
		return domain.RsvpYes, nil
	case domain.RsvpNo:
		return domain.RsvpNo, nil
	case domain.RsvpMaybe:
		return domain.RsvpMaybe, nil
	default:
		return "", fmt.Errorf("%w: rsvp must be YES, NO or MAYBE", domain.ErrInvalidInput)
	}
}

func (s *attendeeService) UpsertRsvp(ctx context.Context, code, email, status string) (*domain.Attendee, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}
	normalized, err := normalizeRsvp(status)
	if err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByShareCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	now := s.now()
	attendee := &domain.Attendee{
		EventID:    event.ID,
		Email:      email,
		RsvpStatus: normalized,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.attendeeRepo.Upsert(ctx, attendee); err != nil {
		return nil, fmt.Errorf("upsert attendee: %w", err)
	}
	return attendee, nil
}

func (s *attendeeService) ListAttendees(ctx context.Context, code string) ([]*domain.Attendee, domain.RsvpCounts, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByShareCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.RsvpCounts{}, domain.ErrNotFound
		}
		return nil, domain.RsvpCounts{}, fmt.Errorf("get event: %w", err)
	}

	attendees, err := s.attendeeRepo.ListByEventID(ctx, event.ID)
	if err != nil {
		return nil, domain.RsvpCounts{}, fmt.Errorf("list attendees: %w", err)
	}
	if attendees == nil {
		attendees = []*domain.Attendee{}
	}

	var counts domain.RsvpCounts
	for _, a := range attendees {
		switch a.RsvpStatus {
		case domain.RsvpYes:
			counts.Yes++
		case domain.RsvpNo:
			counts.No++
		case domain.RsvpMaybe:
			counts.Maybe++
		}
	}
	return attendees, counts, nil
}

func (s *attendeeService) AppendInvites(ctx context.Context, code string, emails []string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByShareCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	cleaned := make([]string, 0, len(emails))
	for _, email := range emails {
		email = strings.TrimSpace(email)
		if email == "" {
			continue
		}
		cleaned = append(cleaned, email)
	}
	if len(cleaned) == 0 {
		return event, nil
	}

	updated, err := s.eventRepo.AppendInvitedEmails(ctx, event.ID, cleaned)
	if err != nil {
		return nil, fmt.Errorf("append invited emails: %w", err)
	}
	return updated, nil
}
