package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dandihq/dandi-api/internal/apikey"
)

type mockValidator struct {
	mock.Mock
}

func (m *mockValidator) Validate(ctx context.Context, candidate, endpoint string) (*apikey.Verdict, error) {
	args := m.Called(candidate, endpoint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apikey.Verdict), args.Error(1)
}

func postValidate(t *testing.T, h *ValidateHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/validate", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	h.Validate(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestValidateSuccess(t *testing.T) {
	v := new(mockValidator)
	v.On("Validate", "dandi-abc", "/api/validate").
		Return(&apikey.Verdict{KeyID: uuid.New(), KeyName: "test", Usage: 1}, nil).Once()

	rec := postValidate(t, NewValidateHandler(v), `{"key": "dandi-abc"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["valid"])
	assert.Equal(t, "valid api key, /protected can be accessed", body["message"])
	assert.Equal(t, "test", body["keyName"])
	v.AssertExpectations(t)
}

func TestValidateMissingKey(t *testing.T) {
	v := new(mockValidator)
	v.On("Validate", "", "/api/validate").Return(nil, apikey.ErrKeyRequired).Once()

	rec := postValidate(t, NewValidateHandler(v), `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["valid"])
	assert.Equal(t, "API key is required", body["error"])
}

func TestValidateInvalidBody(t *testing.T) {
	v := new(mockValidator)
	rec := postValidate(t, NewValidateHandler(v), `not json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	v.AssertNotCalled(t, "Validate")
}

func TestValidateUnknownKey(t *testing.T) {
	v := new(mockValidator)
	v.On("Validate", "dandi-nope", "/api/validate").Return(nil, apikey.ErrInvalidKey).Once()

	rec := postValidate(t, NewValidateHandler(v), `{"key": "dandi-nope"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["valid"])
	assert.Equal(t, "Invalid API Key", body["error"])
}

func TestValidateQuotaExceeded(t *testing.T) {
	v := new(mockValidator)
	v.On("Validate", "dandi-full", "/api/validate").Return(nil, apikey.ErrLimitExceeded).Once()

	rec := postValidate(t, NewValidateHandler(v), `{"key": "dandi-full"}`)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "API key usage limit exceeded", body["error"])
}

func TestValidateStoreError(t *testing.T) {
	v := new(mockValidator)
	v.On("Validate", "dandi-abc", "/api/validate").Return(nil, errors.New("connection refused")).Once()

	rec := postValidate(t, NewValidateHandler(v), `{"key": "dandi-abc"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Failed to validate API key", body["error"])
}
