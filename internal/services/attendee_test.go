package services

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"quickagenda/internal/domain"
)

type mockAttendeeRepository struct {
	rows   map[string]*domain.Attendee
	nextID int
}

func (m *mockAttendeeRepository) Upsert(ctx context.Context, a *domain.Attendee) error {
	if m.rows == nil {
		m.rows = map[string]*domain.Attendee{}
	}
	key := a.EventID + "|" + a.Email
	if existing, ok := m.rows[key]; ok {
		existing.RsvpStatus = a.RsvpStatus
		existing.UpdatedAt = a.UpdatedAt
		*a = *existing
		return nil
	}
	m.nextID++
	a.ID = fmt.Sprintf("att-%d", m.nextID)
	stored := *a
	m.rows[key] = &stored
	return nil
}

func (m *mockAttendeeRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Attendee, error) {
	var out []*domain.Attendee
	for _, a := range m.rows {
		if a.EventID == eventID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func newTestAttendeeService(eventRepo *mockEventRepository, attendeeRepo *mockAttendeeRepository) domain.AttendeeService {
	return NewAttendeeService(eventRepo, attendeeRepo, time.Second)
}

func TestUpsertRsvp_NormalizesStatus(t *testing.T) {
	ctx := context.Background()
	eventRepo := &mockEventRepository{}
	seedEvent(eventRepo, &mockSessionRepository{}, "ABC123", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	attendeeRepo := &mockAttendeeRepository{}
	svc := newTestAttendeeService(eventRepo, attendeeRepo)

	attendee, err := svc.UpsertRsvp(ctx, "ABC123", "ana@example.com", " yes ")
	require.NoError(t, err)
	require.Equal(t, domain.RsvpYes, attendee.RsvpStatus)

	attendee, err = svc.UpsertRsvp(ctx, "ABC123", "bob@example.com", "Maybe")
	require.NoError(t, err)
	require.Equal(t, domain.RsvpMaybe, attendee.RsvpStatus)
}

func TestUpsertRsvp_InvalidStatus(t *testing.T) {
	ctx := context.Background()
	eventRepo := &mockEventRepository{}
	seedEvent(eventRepo, &mockSessionRepository{}, "ABC123", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	svc := newTestAttendeeService(eventRepo, &mockAttendeeRepository{})

	_, err := svc.UpsertRsvp(ctx, "ABC123", "ana@example.com", "PERHAPS")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpsertRsvp_BlankEmail(t *testing.T) {
	ctx := context.Background()
	svc := newTestAttendeeService(&mockEventRepository{}, &mockAttendeeRepository{})

	_, err := svc.UpsertRsvp(ctx, "ABC123", "   ", "YES")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpsertRsvp_UnknownEvent(t *testing.T) {
	ctx := context.Background()
	svc := newTestAttendeeService(&mockEventRepository{}, &mockAttendeeRepository{})

	_, err := svc.UpsertRsvp(ctx, "NOPE00", "ana@example.com", "YES")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpsertRsvp_SecondSubmissionOverwrites(t *testing.T) {
	ctx := context.Background()
	eventRepo := &mockEventRepository{}
	seedEvent(eventRepo, &mockSessionRepository{}, "ABC123", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	attendeeRepo := &mockAttendeeRepository{}
	svc := newTestAttendeeService(eventRepo, attendeeRepo)

	first, err := svc.UpsertRsvp(ctx, "ABC123", "ana@example.com", "YES")
	require.NoError(t, err)
	second, err := svc.UpsertRsvp(ctx, "ABC123", "ana@example.com", "MAYBE")
	require.NoError(t, err)

	// One row per (event, email): the second submission updates in place.
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, domain.RsvpMaybe, second.RsvpStatus)

	attendees, counts, err := svc.ListAttendees(ctx, "ABC123")
	require.NoError(t, err)
	require.Len(t, attendees, 1)
	require.Equal(t, domain.RsvpCounts{Maybe: 1}, counts)
}

func TestListAttendees_Counts(t *testing.T) {
	ctx := context.Background()
	eventRepo := &mockEventRepository{}
	seedEvent(eventRepo, &mockSessionRepository{}, "ABC123", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	attendeeRepo := &mockAttendeeRepository{}
	svc := newTestAttendeeService(eventRepo, attendeeRepo)

	for i, status := range []string{"YES", "YES", "NO", "MAYBE"} {
		_, err := svc.UpsertRsvp(ctx, "ABC123", fmt.Sprintf("person%d@example.com", i), status)
		require.NoError(t, err)
	}

	attendees, counts, err := svc.ListAttendees(ctx, "ABC123")
	require.NoError(t, err)
	require.Len(t, attendees, 4)
	require.Equal(t, domain.RsvpCounts{Yes: 2, No: 1, Maybe: 1}, counts)
}

func TestAppendInvites(t *testing.T) {
	ctx := context.Background()
	eventRepo := &mockEventRepository{}
	seedEvent(eventRepo, &mockSessionRepository{}, "ABC123", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	svc := newTestAttendeeService(eventRepo, &mockAttendeeRepository{})

	event, err := svc.AppendInvites(ctx, "ABC123", []string{" ana@example.com ", "", "bob@example.com"})
	require.NoError(t, err)
	require.Equal(t, []string{"ana@example.com", "bob@example.com"}, event.InvitedEmails)
	require.Len(t, eventRepo.appendCalls, 1)
}

func TestAppendInvites_AllBlank(t *testing.T) {
	ctx := context.Background()
	eventRepo := &mockEventRepository{}
	seedEvent(eventRepo, &mockSessionRepository{}, "ABC123", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	svc := newTestAttendeeService(eventRepo, &mockAttendeeRepository{})

	event, err := svc.AppendInvites(ctx, "ABC123", []string{"  ", ""})
	require.NoError(t, err)
	require.Empty(t, event.InvitedEmails)
	require.Empty(t, eventRepo.appendCalls)
}
