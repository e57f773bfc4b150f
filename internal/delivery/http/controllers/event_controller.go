package controllers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"quickagenda/internal/delivery/http/helpers"
	"quickagenda/internal/domain"
)

const dateLayout = "2006-01-02"

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// SessionSpecRequest is one session in a create or update request. Start and
// end are "HH:MM" times of day on the event's date.
type SessionSpecRequest struct {
	Title    string `json:"title"`
	Location string `json:"location"`
	Start    string `json:"start"`
	End      string `json:"end"`
}

func toSpecs(reqs []SessionSpecRequest) []domain.SessionSpec {
	if reqs == nil {
		return nil
	}
	specs := make([]domain.SessionSpec, 0, len(reqs))
	for _, r := range reqs {
		specs = append(specs, domain.SessionSpec{
			Title:    r.Title,
			Location: r.Location,
			Start:    r.Start,
			End:      r.End,
		})
	}
	return specs
}

// SessionResponse is one session in an event detail response.
type SessionResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Location  string    `json:"location,omitempty"`
}

// EventDetailResponse is the full event view returned by most event
// endpoints.
type EventDetailResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	EventDate   string            `json:"event_date"`
	Description *string           `json:"description,omitempty"`
	ShareCode   string            `json:"share_code"`
	Sessions    []SessionResponse `json:"sessions"`
}

func toEventDetail(event *domain.Event, sessions []*domain.Session) EventDetailResponse {
	out := EventDetailResponse{
		ID:          event.ID,
		Name:        event.Name,
		EventDate:   event.EventDate.Format(dateLayout),
		Description: event.Description,
		ShareCode:   event.ShareCode,
		Sessions:    make([]SessionResponse, 0, len(sessions)),
	}
	for _, s := range sessions {
		out.Sessions = append(out.Sessions, SessionResponse{
			ID:        s.ID,
			Title:     s.Title,
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
			Location:  s.Location,
		})
	}
	return out
}

// CreateEventRequest is the request body for POST /api/events.
type CreateEventRequest struct {
	Name        string               `json:"name"`
	EventDate   string               `json:"event_date"`
	Description *string              `json:"description"`
	Sessions    []SessionSpecRequest `json:"sessions"`

	date time.Time
}

// Validate implements helpers.Validator.
func (r *CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, "name is required")
	}
	date, err := time.Parse(dateLayout, r.EventDate)
	if err != nil {
		errs = append(errs, "event_date must be YYYY-MM-DD")
	}
	r.date = date
	return errs
}

// Create godoc
// @Summary Create a shareable event
// @Description Creates an event with its initial sessions and allocates a share code.
// @Tags events
// @Accept json
// @Produce json
// @Param body body controllers.CreateEventRequest true "Event"
// @Success 201 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/events [post]
func (c *EventController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	event, sessions, err := c.Service.CreateEvent(r.Context(), req.Name, req.date, req.Description, toSpecs(req.Sessions))
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, toEventDetail(event, sessions))
}

// GetByCode godoc
// @Summary Get an event by share code
// @Description Returns the event and its sessions. A code ending in ".ics" serves the iCalendar export instead.
// @Tags events
// @Produce json
// @Param code path string true "Share code"
// @Success 200 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /api/events/{code} [get]
func (c *EventController) GetByCode(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	// The share URL for the calendar file is /api/events/<code>.ics; the
	// wildcard swallows the extension, so dispatch on it here.
	if strings.HasSuffix(code, ".ics") {
		c.serveCalendar(w, r, strings.TrimSuffix(code, ".ics"))
		return
	}

	event, sessions, err := c.Service.GetEventByShareCode(r.Context(), code)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, toEventDetail(event, sessions))
}

func (c *EventController) serveCalendar(w http.ResponseWriter, r *http.Request, code string) {
	data, err := c.Service.BuildCalendar(r.Context(), code)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", code+".ics"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// UpdateEventRequest is the request body for PATCH /api/events/{code}.
// Absent fields are left untouched; a non-null sessions list replaces the
// whole session set.
type UpdateEventRequest struct {
	Name        *string              `json:"name"`
	Description *string              `json:"description"`
	EventDate   *string              `json:"event_date"`
	Sessions    []SessionSpecRequest `json:"sessions"`

	date *time.Time
}

// Validate implements helpers.Validator.
func (r *UpdateEventRequest) Validate() []string {
	if r.EventDate == nil {
		return nil
	}
	date, err := time.Parse(dateLayout, *r.EventDate)
	if err != nil {
		return []string{"event_date must be YYYY-MM-DD"}
	}
	r.date = &date
	return nil
}

// Update godoc
// @Summary Update an event
// @Description Updates name, description or date; a sessions list replaces the session set.
// @Tags events
// @Accept json
// @Produce json
// @Param code path string true "Share code"
// @Param body body controllers.UpdateEventRequest true "Fields to update"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /api/events/{code} [patch]
func (c *EventController) Update(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	event, sessions, err := c.Service.UpdateEvent(r.Context(), code, req.Name, req.Description, req.date, toSpecs(req.Sessions))
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, toEventDetail(event, sessions))
}

// AddSession godoc
// @Summary Add a session to an event
// @Tags events
// @Accept json
// @Produce json
// @Param code path string true "Share code"
// @Param body body controllers.SessionSpecRequest true "Session"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /api/events/{code}/sessions [post]
func (c *EventController) AddSession(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	var req SessionSpecRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	event, sessions, err := c.Service.AddSession(r.Context(), code, domain.SessionSpec{
		Title:    req.Title,
		Location: req.Location,
		Start:    req.Start,
		End:      req.End,
	})
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, toEventDetail(event, sessions))
}

// DeleteSession godoc
// @Summary Delete a session
// @Description Deletes the session if it belongs to the event identified by the share code.
// @Tags events
// @Produce json
// @Param code path string true "Share code"
// @Param id path string true "Session ID"
// @Success 200 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /api/events/{code}/sessions/{id} [delete]
func (c *EventController) DeleteSession(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	sessionID := r.PathValue("id")

	event, sessions, err := c.Service.DeleteSession(r.Context(), code, sessionID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, toEventDetail(event, sessions))
}

// SessionTimeUpdateRequest is the request body for PATCH
// /api/events/{code}/sessions/{id}.
type SessionTimeUpdateRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Validate implements helpers.Validator.
func (r *SessionTimeUpdateRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Start) == "" {
		errs = append(errs, "start is required")
	}
	if strings.TrimSpace(r.End) == "" {
		errs = append(errs, "end is required")
	}
	return errs
}

// UpdateSessionTimes godoc
// @Summary Update a session's start and end times
// @Description Re-binds the given "HH:MM" times of day to the event's date. Other session fields are untouched.
// @Tags events
// @Accept json
// @Produce json
// @Param code path string true "Share code"
// @Param id path string true "Session ID"
// @Param body body controllers.SessionTimeUpdateRequest true "New times"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /api/events/{code}/sessions/{id} [patch]
func (c *EventController) UpdateSessionTimes(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	sessionID := r.PathValue("id")
	var req SessionTimeUpdateRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	event, sessions, err := c.Service.UpdateSessionTimes(r.Context(), code, sessionID, req.Start, req.End)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, toEventDetail(event, sessions))
}
