package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"quickagenda/internal/delivery/http/controllers"
)

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(
	events *controllers.EventController,
	attendees *controllers.AttendeeController,
	forms *controllers.FormController,
	feedback *controllers.FeedbackController,
) *http.ServeMux {
	mux := http.NewServeMux()

	// Events and sessions. GetByCode also serves /api/events/{code}.ics.
	mux.HandleFunc("POST /api/events", events.Create)
	mux.HandleFunc("GET /api/events/{code}", events.GetByCode)
	mux.HandleFunc("PATCH /api/events/{code}", events.Update)
	mux.HandleFunc("POST /api/events/{code}/sessions", events.AddSession)
	mux.HandleFunc("DELETE /api/events/{code}/sessions/{id}", events.DeleteSession)
	mux.HandleFunc("PATCH /api/events/{code}/sessions/{id}", events.UpdateSessionTimes)

	// RSVPs and invites
	mux.HandleFunc("POST /api/events/{code}/rsvp", attendees.UpsertRsvp)
	mux.HandleFunc("GET /api/events/{code}/attendees", attendees.ListAttendees)
	mux.HandleFunc("POST /api/events/{code}/invites", attendees.AppendInvites)

	// Intake form
	mux.HandleFunc("GET /api/events/{code}/form/admin", forms.GetAdmin)
	mux.HandleFunc("PUT /api/events/{code}/form/admin", forms.Upsert)
	mux.HandleFunc("GET /api/events/{code}/form", forms.GetPublic)
	mux.HandleFunc("POST /api/events/{code}/form/submit", forms.Submit)
	mux.HandleFunc("GET /api/events/{code}/form/responses", forms.ListResponses)

	// Feedback
	mux.HandleFunc("POST /api/feedback", feedback.Submit)
	mux.HandleFunc("GET /api/feedback", feedback.ListRecent)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
