package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quickagenda/internal/delivery/http/helpers"
	"quickagenda/internal/domain"
)

// fakeFeedbackService implements domain.FeedbackService for handler tests.
type fakeFeedbackService struct {
	submitErr  error
	listErr    error
	listResult []*domain.Feedback
	last       *domain.Feedback
}

func (f *fakeFeedbackService) Submit(ctx context.Context, fb *domain.Feedback) (*domain.Feedback, error) {
	f.last = fb
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	fb.ID = "fb-created"
	return fb, nil
}

func (f *fakeFeedbackService) ListRecent(ctx context.Context) ([]*domain.Feedback, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listResult, nil
}

func TestFeedbackController_Submit(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		headerUA       string
		wantStatus     int
		wantUserAgent  string
		wantBodySubstr string
	}{
		{
			name:          "success with body user agent",
			body:          `{"text":"love it","source":"web","user_agent":"custom-client/1.0","share_code":"ABC123"}`,
			headerUA:      "Mozilla/5.0",
			wantStatus:    http.StatusCreated,
			wantUserAgent: "custom-client/1.0",
		},
		{
			name:          "header fills in missing user agent",
			body:          `{"text":"love it"}`,
			headerUA:      "Mozilla/5.0",
			wantStatus:    http.StatusCreated,
			wantUserAgent: "Mozilla/5.0",
		},
		{
			name:           "missing text",
			body:           `{"source":"web"}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "text is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeFeedbackService{}
			ctrl := NewFeedbackController(testLogger, fake)
			req := httptest.NewRequest(http.MethodPost, "/api/feedback", bytes.NewBufferString(tt.body))
			if tt.headerUA != "" {
				req.Header.Set("User-Agent", tt.headerUA)
			}
			rr := httptest.NewRecorder()

			ctrl.Submit(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusCreated {
				require.NotNil(t, fake.last)
				assert.Equal(t, tt.wantUserAgent, fake.last.UserAgent)
				return
			}
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			require.NotNil(t, envelope.Error)
			assert.Contains(t, envelope.Error.Message, tt.wantBodySubstr)
		})
	}
}

func TestFeedbackController_ListRecent(t *testing.T) {
	fake := &fakeFeedbackService{
		listResult: []*domain.Feedback{
			{ID: "fb-1", Text: "love it", CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
		},
	}
	ctrl := NewFeedbackController(testLogger, fake)
	req := httptest.NewRequest(http.MethodGet, "/api/feedback", nil)
	rr := httptest.NewRecorder()

	ctrl.ListRecent(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
	dataBytes, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	var list []*domain.Feedback
	require.NoError(t, json.Unmarshal(dataBytes, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "love it", list[0].Text)
}
