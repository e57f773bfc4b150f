package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/sethvargo/go-retry"

	"quickagenda/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	sessionRepo    domain.SessionRepository
	loc            *time.Location
	contextTimeout time.Duration
	now            func() time.Time
}

// NewEventService creates an EventService. loc is the timezone session
// times of day are bound to; the calendar export always renders UTC.
func NewEventService(eventRepo domain.EventRepository, sessionRepo domain.SessionRepository, loc *time.Location, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		sessionRepo:    sessionRepo,
		loc:            loc,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

const shareCodeLength = 6

var shareCodeAlphabet = []rune("ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

func generateShareCode() (string, error) {
	b := make([]rune, shareCodeLength)
	max := big.NewInt(int64(len(shareCodeAlphabet)))
	for i := 0; i < shareCodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = shareCodeAlphabet[n.Int64()]
	}
	return string(b), nil
}

const timeOfDayLayout = "15:04"

// bindTime combines the event's calendar date with an "HH:MM" time of day in
// the given location.
func bindTime(date time.Time, timeOfDay string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(timeOfDayLayout, timeOfDay)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: time of day must be HH:MM", domain.ErrInvalidInput)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
}

// bindSessions turns specs into sessions with timestamps bound to date.
func (s *eventService) bindSessions(date time.Time, specs []domain.SessionSpec, at time.Time) ([]*domain.Session, error) {
	sessions := make([]*domain.Session, 0, len(specs))
	for _, spec := range specs {
		start, err := bindTime(date, spec.Start, s.loc)
		if err != nil {
			return nil, err
		}
		end, err := bindTime(date, spec.End, s.loc)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, &domain.Session{
			Title:     spec.Title,
			Location:  spec.Location,
			StartTime: start,
			EndTime:   end,
			CreatedAt: at,
			UpdatedAt: at,
		})
	}
	return sessions, nil
}

func (s *eventService) CreateEvent(ctx context.Context, name string, eventDate time.Time, description *string, specs []domain.SessionSpec) (*domain.Event, []*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	now := s.now()
	sessions, err := s.bindSessions(eventDate, specs, now)
	if err != nil {
		return nil, nil, err
	}

	event := &domain.Event{
		Name:        name,
		Description: description,
		EventDate:   eventDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// Uniqueness of the share code is enforced by the store; on a collision
	// we regenerate and try again a bounded number of times.
	backoff := retry.WithMaxRetries(2, retry.NewConstant(time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		code, err := generateShareCode()
		if err != nil {
			return fmt.Errorf("generate share code: %w", err)
		}
		event.ShareCode = code
		if err := s.eventRepo.Create(ctx, event, sessions); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return retry.RetryableError(err)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create event: %w", err)
	}
	return event, sessions, nil
}

func (s *eventService) GetEventByShareCode(ctx context.Context, code string) (*domain.Event, []*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.getEventWithSessions(ctx, code)
}

func (s *eventService) getEventWithSessions(ctx context.Context, code string) (*domain.Event, []*domain.Session, error) {
	event, err := s.eventRepo.GetByShareCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("get event: %w", err)
	}
	sessions, err := s.sessionRepo.ListByEventID(ctx, event.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("list sessions: %w", err)
	}
	if sessions == nil {
		sessions = []*domain.Session{}
	}
	return event, sessions, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, code string, name, description *string, eventDate *time.Time, specs []domain.SessionSpec) (*domain.Event, []*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByShareCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("get event: %w", err)
	}

	if name != nil || description != nil || eventDate != nil {
		event, err = s.eventRepo.Update(ctx, event.ID, name, description, eventDate)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, nil, domain.ErrNotFound
			}
			return nil, nil, fmt.Errorf("update event: %w", err)
		}
	}

	// A nil spec slice leaves the session set alone; anything else replaces
	// it wholesale, re-bound to the current event date.
	if specs != nil {
		sessions, err := s.bindSessions(event.EventDate, specs, s.now())
		if err != nil {
			return nil, nil, err
		}
		if err := s.sessionRepo.ReplaceByEventID(ctx, event.ID, sessions); err != nil {
			return nil, nil, fmt.Errorf("replace sessions: %w", err)
		}
	}

	sessions, err := s.sessionRepo.ListByEventID(ctx, event.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("list sessions: %w", err)
	}
	if sessions == nil {
		sessions = []*domain.Session{}
	}
	return event, sessions, nil
}

func (s *eventService) AddSession(ctx context.Context, code string, spec domain.SessionSpec) (*domain.Event, []*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByShareCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("get event: %w", err)
	}

	bound, err := s.bindSessions(event.EventDate, []domain.SessionSpec{spec}, s.now())
	if err != nil {
		return nil, nil, err
	}
	session := bound[0]
	session.EventID = event.ID
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("create session: %w", err)
	}

	sessions, err := s.sessionRepo.ListByEventID(ctx, event.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("list sessions: %w", err)
	}
	return event, sessions, nil
}

func (s *eventService) DeleteSession(ctx context.Context, code, sessionID string) (*domain.Event, []*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByShareCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("get event: %w", err)
	}

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("get session: %w", err)
	}
	// A session ID that resolves but belongs to another event is treated as
	// unknown.
	if session.EventID != event.ID {
		return nil, nil, domain.ErrNotFound
	}

	if err := s.sessionRepo.Delete(ctx, sessionID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("delete session: %w", err)
	}

	sessions, err := s.sessionRepo.ListByEventID(ctx, event.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("list sessions: %w", err)
	}
	if sessions == nil {
		sessions = []*domain.Session{}
	}
	return event, sessions, nil
}

func (s *eventService) UpdateSessionTimes(ctx context.Context, code, sessionID, start, end string) (*domain.Event, []*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByShareCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("get event: %w", err)
	}

	startAt, err := bindTime(event.EventDate, start, s.loc)
	if err != nil {
		return nil, nil, err
	}
	endAt, err := bindTime(event.EventDate, end, s.loc)
	if err != nil {
		return nil, nil, err
	}

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("get session: %w", err)
	}
	if session.EventID != event.ID {
		return nil, nil, domain.ErrNotFound
	}

	if err := s.sessionRepo.UpdateTimes(ctx, sessionID, startAt, endAt); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("update session times: %w", err)
	}

	sessions, err := s.sessionRepo.ListByEventID(ctx, event.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("list sessions: %w", err)
	}
	return event, sessions, nil
}
