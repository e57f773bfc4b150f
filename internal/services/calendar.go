package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	ical "github.com/emersion/go-ical"

	"quickagenda/internal/domain"
)

const calendarProdID = "-//Quickagenda//go-ical//EN"

// emptyCalendar is served for an event with no sessions. The encoder rejects
// a component-less VCALENDAR, so the header and footer are written directly.
var emptyCalendar = []byte("BEGIN:VCALENDAR\r\n" +
	"PRODID:" + calendarProdID + "\r\n" +
	"VERSION:2.0\r\n" +
	"CALSCALE:GREGORIAN\r\n" +
	"END:VCALENDAR\r\n")

// BuildCalendar renders the event's sessions as an iCalendar document, one
// VEVENT per session. All times are emitted in UTC so no VTIMEZONE is
// needed; the output depends only on the stored session data.
func (s *eventService) BuildCalendar(ctx context.Context, code string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByShareCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	sessions, err := s.sessionRepo.ListByEventID(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	if len(sessions) == 0 {
		return emptyCalendar, nil
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropProductID, calendarProdID)
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropCalendarScale, "GREGORIAN")

	for _, sess := range sessions {
		ve := ical.NewComponent(ical.CompEvent)
		ve.Props.SetText(ical.PropUID, sess.ID)
		// DTSTAMP comes from the row, not the clock, so the same data always
		// serializes to the same bytes. UTC keeps the object free of TZID
		// parameters that would need a VTIMEZONE.
		ve.Props.SetDateTime(ical.PropDateTimeStamp, sess.UpdatedAt.UTC())
		ve.Props.SetDateTime(ical.PropDateTimeStart, sess.StartTime.UTC())
		ve.Props.SetDateTime(ical.PropDateTimeEnd, sess.EndTime.UTC())
		ve.Props.SetText(ical.PropSummary, sess.Title)
		if strings.TrimSpace(sess.Location) != "" {
			ve.Props.SetText(ical.PropLocation, sess.Location)
		}
		cal.Children = append(cal.Children, ve)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("encode calendar: %w", err)
	}
	return buf.Bytes(), nil
}
