package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dandihq/dandi-api/internal/apikey"
)

// Validator is the single validation path shared by every gated endpoint.
type Validator interface {
	Validate(ctx context.Context, candidate, endpoint string) (*apikey.Verdict, error)
}

type ValidateHandler struct {
	validator Validator
}

func NewValidateHandler(validator Validator) *ValidateHandler {
	return &ValidateHandler{validator: validator}
}

type validateRequest struct {
	Key string `json:"key"`
}

func (h *ValidateHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVerdictError(w, http.StatusBadRequest, apikey.ErrKeyRequired.Error())
		return
	}

	verdict, err := h.validator.Validate(r.Context(), req.Key, "/api/validate")
	if err != nil {
		status, msg := verdictStatus(err)
		writeVerdictError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"valid":   true,
		"message": "valid api key, /protected can be accessed",
		"keyName": verdict.KeyName,
	})
}

// verdictStatus maps validator errors onto the HTTP statuses the dashboard
// expects. Anything unrecognized is a store failure.
func verdictStatus(err error) (int, string) {
	switch {
	case errors.Is(err, apikey.ErrKeyRequired):
		return http.StatusBadRequest, apikey.ErrKeyRequired.Error()
	case errors.Is(err, apikey.ErrInvalidKey):
		return http.StatusUnauthorized, apikey.ErrInvalidKey.Error()
	case errors.Is(err, apikey.ErrLimitExceeded):
		return http.StatusForbidden, apikey.ErrLimitExceeded.Error()
	default:
		return http.StatusInternalServerError, "Failed to validate API key"
	}
}

func writeVerdictError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{"valid": false, "error": msg})
}
