package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"quickagenda/internal/delivery/http/helpers"
	"quickagenda/internal/domain"
)

type FeedbackController struct {
	Logger  *slog.Logger
	Service domain.FeedbackService
}

func NewFeedbackController(logger *slog.Logger, svc domain.FeedbackService) *FeedbackController {
	return &FeedbackController{
		Logger:  logger,
		Service: svc,
	}
}

// FeedbackRequest is the request body for POST /api/feedback.
type FeedbackRequest struct {
	Text      string `json:"text"`
	Source    string `json:"source"`
	UserAgent string `json:"user_agent"`
	ShareCode string `json:"share_code"`
}

// Validate implements helpers.Validator.
func (r *FeedbackRequest) Validate() []string {
	if strings.TrimSpace(r.Text) == "" {
		return []string{"text is required"}
	}
	return nil
}

// Submit godoc
// @Summary Leave feedback
// @Description Records a free-text note. When the body omits the user agent, the request header fills it in.
// @Tags feedback
// @Accept json
// @Produce json
// @Param body body controllers.FeedbackRequest true "Feedback"
// @Success 201 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /api/feedback [post]
func (c *FeedbackController) Submit(w http.ResponseWriter, r *http.Request) {
	var req FeedbackRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	userAgent := req.UserAgent
	if strings.TrimSpace(userAgent) == "" {
		userAgent = r.Header.Get("User-Agent")
	}

	fb, err := c.Service.Submit(r.Context(), &domain.Feedback{
		Text:      req.Text,
		Source:    req.Source,
		UserAgent: userAgent,
		ShareCode: req.ShareCode,
	})
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, fb)
}

// ListRecent godoc
// @Summary List recent feedback
// @Tags feedback
// @Produce json
// @Success 200 {object} helpers.APIResponse
// @Router /api/feedback [get]
func (c *FeedbackController) ListRecent(w http.ResponseWriter, r *http.Request) {
	list, err := c.Service.ListRecent(r.Context())
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, list)
}
