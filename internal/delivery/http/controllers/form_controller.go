package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"quickagenda/internal/delivery/http/helpers"
	"quickagenda/internal/domain"
)

type FormController struct {
	Logger  *slog.Logger
	Service domain.FormService
}

func NewFormController(logger *slog.Logger, svc domain.FormService) *FormController {
	return &FormController{
		Logger:  logger,
		Service: svc,
	}
}

// FormFieldDto is one field in a form config request or response. Options
// and config are opaque serialized payloads passed through unchanged.
type FormFieldDto struct {
	ID          string `json:"id,omitempty"`
	Type        string `json:"type"`
	Label       string `json:"label"`
	Required    bool   `json:"required"`
	OrderIndex  int    `json:"order_index"`
	OptionsJSON string `json:"options_json,omitempty"`
	ConfigJSON  string `json:"config_json,omitempty"`
}

// FormConfigResponse is the form configuration returned to organizers and
// respondents. FormID is null when no form has been created yet.
type FormConfigResponse struct {
	FormID  *string        `json:"form_id"`
	Title   string         `json:"title"`
	Active  bool           `json:"active"`
	OpenAt  *time.Time     `json:"open_at,omitempty"`
	CloseAt *time.Time     `json:"close_at,omitempty"`
	Fields  []FormFieldDto `json:"fields"`
}

func toFormConfig(form *domain.Form, fields []*domain.FormField) FormConfigResponse {
	out := FormConfigResponse{Fields: []FormFieldDto{}}
	if form == nil {
		return out
	}
	out.FormID = &form.ID
	out.Title = form.Title
	out.Active = form.Active
	out.OpenAt = form.OpenAt
	out.CloseAt = form.CloseAt
	for _, f := range fields {
		out.Fields = append(out.Fields, FormFieldDto{
			ID:          f.ID,
			Type:        f.Type,
			Label:       f.Label,
			Required:    f.Required,
			OrderIndex:  f.OrderIndex,
			OptionsJSON: f.OptionsJSON,
			ConfigJSON:  f.ConfigJSON,
		})
	}
	return out
}

// GetAdmin godoc
// @Summary Get the form configuration, organizer view
// @Description Ignores the active flag and window. Returns an empty config when no form exists yet.
// @Tags forms
// @Produce json
// @Param code path string true "Share code"
// @Success 200 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /api/events/{code}/form/admin [get]
func (c *FormController) GetAdmin(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	form, fields, err := c.Service.GetAdminForm(r.Context(), code)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, toFormConfig(form, fields))
}

// FormUpsertRequest is the request body for PUT /api/events/{code}/form/admin.
type FormUpsertRequest struct {
	Title   string         `json:"title"`
	Active  bool           `json:"active"`
	OpenAt  *time.Time     `json:"open_at"`
	CloseAt *time.Time     `json:"close_at"`
	Fields  []FormFieldDto `json:"fields"`
}

// Validate implements helpers.Validator.
func (r *FormUpsertRequest) Validate() []string {
	if strings.TrimSpace(r.Title) == "" {
		return []string{"title is required"}
	}
	return nil
}

// Upsert godoc
// @Summary Create or update the event's form
// @Description At most one form per event; the supplied field list replaces the existing one wholesale.
// @Tags forms
// @Accept json
// @Produce json
// @Param code path string true "Share code"
// @Param body body controllers.FormUpsertRequest true "Form configuration"
// @Success 204 {string} string "No content"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /api/events/{code}/form/admin [put]
func (c *FormController) Upsert(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	var req FormUpsertRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	fields := make([]*domain.FormField, 0, len(req.Fields))
	for _, f := range req.Fields {
		fields = append(fields, &domain.FormField{
			Type:        f.Type,
			Label:       f.Label,
			Required:    f.Required,
			OrderIndex:  f.OrderIndex,
			OptionsJSON: f.OptionsJSON,
			ConfigJSON:  f.ConfigJSON,
		})
	}

	if err := c.Service.UpsertForm(r.Context(), code, req.Title, req.Active, req.OpenAt, req.CloseAt, fields); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetPublic godoc
// @Summary Get the form configuration, respondent view
// @Description An inactive or out-of-window form is reported as not found.
// @Tags forms
// @Produce json
// @Param code path string true "Share code"
// @Param email query string false "Respondent email"
// @Success 200 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /api/events/{code}/form [get]
func (c *FormController) GetPublic(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	email := r.URL.Query().Get("email")

	form, fields, err := c.Service.GetPublicForm(r.Context(), code, email)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, toFormConfig(form, fields))
}

// FormSubmitRequest is the request body for POST
// /api/events/{code}/form/submit. Answer keys are field identifiers.
type FormSubmitRequest struct {
	Email   string         `json:"email"`
	Answers map[string]any `json:"answers"`
}

// Validate implements helpers.Validator.
func (r *FormSubmitRequest) Validate() []string {
	if strings.TrimSpace(r.Email) == "" {
		return []string{"email is required"}
	}
	return nil
}

// Submit godoc
// @Summary Submit form answers
// @Description Creates or overwrites the submission for the given email. An inactive or out-of-window form is forbidden.
// @Tags forms
// @Accept json
// @Produce json
// @Param code path string true "Share code"
// @Param body body controllers.FormSubmitRequest true "Submission"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /api/events/{code}/form/submit [post]
func (c *FormController) Submit(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	var req FormSubmitRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	if err := c.Service.SubmitForm(r.Context(), code, req.Email, req.Answers); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, nil)
}

// ListResponses godoc
// @Summary List form submissions, most recent first
// @Tags forms
// @Produce json
// @Param code path string true "Share code"
// @Success 200 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /api/events/{code}/form/responses [get]
func (c *FormController) ListResponses(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	responses, err := c.Service.ListResponses(r.Context(), code)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, responses)
}
