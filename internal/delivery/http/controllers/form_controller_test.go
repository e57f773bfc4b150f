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

// fakeFormService implements domain.FormService for handler tests.
type fakeFormService struct {
	adminErr     error
	adminForm    *domain.Form
	adminFields  []*domain.FormField
	upsertErr    error
	publicErr    error
	publicForm   *domain.Form
	publicFields []*domain.FormField
	submitErr    error
	responsesErr error
	responses    []*domain.FormAnswers
	lastCode     string
	lastTitle    string
	lastActive   bool
	lastFields   []*domain.FormField
	lastEmail    string
	lastAnswers  map[string]any
}

func (f *fakeFormService) GetAdminForm(ctx context.Context, code string) (*domain.Form, []*domain.FormField, error) {
	f.lastCode = code
	if f.adminErr != nil {
		return nil, nil, f.adminErr
	}
	return f.adminForm, f.adminFields, nil
}

func (f *fakeFormService) UpsertForm(ctx context.Context, code, title string, active bool, openAt, closeAt *time.Time, fields []*domain.FormField) error {
	f.lastCode = code
	f.lastTitle = title
	f.lastActive = active
	f.lastFields = fields
	return f.upsertErr
}

func (f *fakeFormService) GetPublicForm(ctx context.Context, code, email string) (*domain.Form, []*domain.FormField, error) {
	f.lastCode = code
	f.lastEmail = email
	if f.publicErr != nil {
		return nil, nil, f.publicErr
	}
	return f.publicForm, f.publicFields, nil
}

func (f *fakeFormService) SubmitForm(ctx context.Context, code, email string, answers map[string]any) error {
	f.lastCode = code
	f.lastEmail = email
	f.lastAnswers = answers
	return f.submitErr
}

func (f *fakeFormService) ListResponses(ctx context.Context, code string) ([]*domain.FormAnswers, error) {
	f.lastCode = code
	if f.responsesErr != nil {
		return nil, f.responsesErr
	}
	return f.responses, nil
}

func TestFormController_GetAdmin_NoFormYet(t *testing.T) {
	fake := &fakeFormService{}
	ctrl := NewFormController(testLogger, fake)
	req := httptest.NewRequest(http.MethodGet, "/api/events/ABC123/form/admin", nil)
	req.SetPathValue("code", "ABC123")
	rr := httptest.NewRecorder()

	ctrl.GetAdmin(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
	dataBytes, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	var config FormConfigResponse
	require.NoError(t, json.Unmarshal(dataBytes, &config))
	// No form yet: null form_id, empty field list.
	assert.Nil(t, config.FormID)
	assert.NotNil(t, config.Fields)
	assert.Empty(t, config.Fields)
}

func TestFormController_GetAdmin(t *testing.T) {
	fake := &fakeFormService{
		adminForm: &domain.Form{ID: "form-1", EventID: "ev-1", Title: "Signup", Active: true},
		adminFields: []*domain.FormField{
			{ID: "field-1", FormID: "form-1", Type: "text", Label: "Name", Required: true},
		},
	}
	ctrl := NewFormController(testLogger, fake)
	req := httptest.NewRequest(http.MethodGet, "/api/events/ABC123/form/admin", nil)
	req.SetPathValue("code", "ABC123")
	rr := httptest.NewRecorder()

	ctrl.GetAdmin(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
	dataBytes, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	var config FormConfigResponse
	require.NoError(t, json.Unmarshal(dataBytes, &config))
	require.NotNil(t, config.FormID)
	assert.Equal(t, "form-1", *config.FormID)
	require.Len(t, config.Fields, 1)
	assert.Equal(t, "Name", config.Fields[0].Label)
}

func TestFormController_Upsert(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		fakeErr        error
		wantStatus     int
		wantBodySubstr string
	}{
		{
			name:       "success",
			body:       `{"title":"Signup","active":true,"fields":[{"type":"text","label":"Name","required":true,"order_index":0}]}`,
			wantStatus: http.StatusNoContent,
		},
		{
			name:           "missing title",
			body:           `{"active":true}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "title is required",
		},
		{
			name:       "concurrent create",
			body:       `{"title":"Signup","active":true}`,
			fakeErr:    domain.ErrConflict,
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeFormService{upsertErr: tt.fakeErr}
			ctrl := NewFormController(testLogger, fake)
			req := httptest.NewRequest(http.MethodPut, "/api/events/ABC123/form/admin", bytes.NewBufferString(tt.body))
			req.SetPathValue("code", "ABC123")
			rr := httptest.NewRecorder()

			ctrl.Upsert(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusNoContent {
				assert.Equal(t, "Signup", fake.lastTitle)
				assert.True(t, fake.lastActive)
				require.Len(t, fake.lastFields, 1)
				assert.Equal(t, "Name", fake.lastFields[0].Label)
				return
			}
			if tt.wantBodySubstr != "" {
				var envelope helpers.APIResponse
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
				require.NotNil(t, envelope.Error)
				assert.Contains(t, envelope.Error.Message, tt.wantBodySubstr)
			}
		})
	}
}

func TestFormController_GetPublic_Unavailable(t *testing.T) {
	fake := &fakeFormService{publicErr: domain.ErrNotFound}
	ctrl := NewFormController(testLogger, fake)
	req := httptest.NewRequest(http.MethodGet, "/api/events/ABC123/form?email=ana%40example.com", nil)
	req.SetPathValue("code", "ABC123")
	rr := httptest.NewRecorder()

	ctrl.GetPublic(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "ana@example.com", fake.lastEmail)
}

func TestFormController_Submit(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		fakeErr        error
		wantStatus     int
		wantBodySubstr string
	}{
		{
			name:       "success",
			body:       `{"email":"ana@example.com","answers":{"name":"Ana"}}`,
			wantStatus: http.StatusOK,
		},
		{
			name:           "missing email",
			body:           `{"answers":{}}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "email is required",
		},
		{
			name:       "form closed",
			body:       `{"email":"ana@example.com","answers":{}}`,
			fakeErr:    domain.ErrForbidden,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "no form",
			body:       `{"email":"ana@example.com","answers":{}}`,
			fakeErr:    domain.ErrNotFound,
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeFormService{submitErr: tt.fakeErr}
			ctrl := NewFormController(testLogger, fake)
			req := httptest.NewRequest(http.MethodPost, "/api/events/ABC123/form/submit", bytes.NewBufferString(tt.body))
			req.SetPathValue("code", "ABC123")
			rr := httptest.NewRecorder()

			ctrl.Submit(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "ana@example.com", fake.lastEmail)
				assert.Equal(t, map[string]any{"name": "Ana"}, fake.lastAnswers)
			}
		})
	}
}

func TestFormController_ListResponses(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	fake := &fakeFormService{
		responses: []*domain.FormAnswers{
			{Email: "ana@example.com", CreatedAt: at, Answers: map[string]any{"name": "Ana"}},
		},
	}
	ctrl := NewFormController(testLogger, fake)
	req := httptest.NewRequest(http.MethodGet, "/api/events/ABC123/form/responses", nil)
	req.SetPathValue("code", "ABC123")
	rr := httptest.NewRecorder()

	ctrl.ListResponses(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
	dataBytes, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	var answers []*domain.FormAnswers
	require.NoError(t, json.Unmarshal(dataBytes, &answers))
	require.Len(t, answers, 1)
	assert.Equal(t, "ana@example.com", answers[0].Email)
}
