package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"quickagenda/internal/delivery/http/helpers"
	"quickagenda/internal/domain"
)

type AttendeeController struct {
	Logger  *slog.Logger
	Service domain.AttendeeService
}

func NewAttendeeController(logger *slog.Logger, svc domain.AttendeeService) *AttendeeController {
	return &AttendeeController{
		Logger:  logger,
		Service: svc,
	}
}

// RsvpRequest is the request body for POST /api/events/{code}/rsvp.
type RsvpRequest struct {
	Email string `json:"email"`
	Rsvp  string `json:"rsvp"`
}

// Validate implements helpers.Validator.
func (r *RsvpRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Email) == "" {
		errs = append(errs, "email is required")
	}
	if strings.TrimSpace(r.Rsvp) == "" {
		errs = append(errs, "rsvp is required")
	}
	return errs
}

// UpsertRsvp godoc
// @Summary Record an RSVP for an event
// @Description Creates or overwrites the RSVP for the given email. Status must be YES, NO or MAYBE.
// @Tags attendees
// @Accept json
// @Produce json
// @Param code path string true "Share code"
// @Param body body controllers.RsvpRequest true "RSVP"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /api/events/{code}/rsvp [post]
func (c *AttendeeController) UpsertRsvp(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	var req RsvpRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	attendee, err := c.Service.UpsertRsvp(r.Context(), code, req.Email, req.Rsvp)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, attendee)
}

// AttendeeListResponse is the response body for GET
// /api/events/{code}/attendees.
type AttendeeListResponse struct {
	Attendees []*domain.Attendee `json:"attendees"`
	Yes       int                `json:"yes"`
	No        int                `json:"no"`
	Maybe     int                `json:"maybe"`
}

// ListAttendees godoc
// @Summary List RSVPs with per-status counts
// @Tags attendees
// @Produce json
// @Param code path string true "Share code"
// @Success 200 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /api/events/{code}/attendees [get]
func (c *AttendeeController) ListAttendees(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	attendees, counts, err := c.Service.ListAttendees(r.Context(), code)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, AttendeeListResponse{
		Attendees: attendees,
		Yes:       counts.Yes,
		No:        counts.No,
		Maybe:     counts.Maybe,
	})
}

// InviteRequest is the request body for POST /api/events/{code}/invites.
type InviteRequest struct {
	Emails []string `json:"emails"`
}

// Validate implements helpers.Validator.
func (r *InviteRequest) Validate() []string {
	if len(r.Emails) == 0 {
		return []string{"emails is required"}
	}
	return nil
}

// InviteListResponse is the response body for POST
// /api/events/{code}/invites.
type InviteListResponse struct {
	InvitedEmails []string `json:"invited_emails"`
}

// AppendInvites godoc
// @Summary Append addresses to the event's invite list
// @Description The list is append-only; duplicates are kept as submitted.
// @Tags attendees
// @Accept json
// @Produce json
// @Param code path string true "Share code"
// @Param body body controllers.InviteRequest true "Addresses"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /api/events/{code}/invites [post]
func (c *AttendeeController) AppendInvites(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	var req InviteRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	event, err := c.Service.AppendInvites(r.Context(), code, req.Emails)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, InviteListResponse{InvitedEmails: event.InvitedEmails})
}
