package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dandihq/dandi-api/internal/apikey"
	"github.com/dandihq/dandi-api/internal/audit"
	"github.com/dandihq/dandi-api/internal/auth"
	"github.com/dandihq/dandi-api/internal/models"
)

// KeyService is the slice of apikey.Service the dashboard CRUD routes need.
type KeyService interface {
	Create(ctx context.Context, req apikey.CreateRequest) (*models.APIKey, error)
	Get(ctx context.Context, id uuid.UUID) (*models.APIKey, error)
	List(ctx context.Context) ([]models.APIKey, error)
	Update(ctx context.Context, id uuid.UUID, req apikey.UpdateRequest) (*models.APIKey, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Auditor interface {
	Log(ctx context.Context, entry audit.LogEntry) error
}

type KeysHandler struct {
	svc     KeyService
	auditor Auditor
}

func NewKeysHandler(svc KeyService, auditor Auditor) *KeysHandler {
	return &KeysHandler{svc: svc, auditor: auditor}
}

func (h *KeysHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req apikey.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	k, err := h.svc.Create(r.Context(), req)
	if errors.Is(err, apikey.ErrNameRequired) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Name is required"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to create API key"})
		return
	}

	h.logAction(r, "key.created", &k.ID, map[string]interface{}{"name": k.Name})
	writeJSON(w, http.StatusCreated, k)
}

func (h *KeysHandler) List(w http.ResponseWriter, r *http.Request) {
	keys, err := h.svc.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch API keys"})
		return
	}
	writeJSON(w, http.StatusOK, keys)
}

func (h *KeysHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseKeyID(w, r)
	if !ok {
		return
	}

	k, err := h.svc.Get(r.Context(), id)
	if errors.Is(err, apikey.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "API key not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch API key"})
		return
	}
	writeJSON(w, http.StatusOK, k)
}

func (h *KeysHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseKeyID(w, r)
	if !ok {
		return
	}

	var req apikey.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	k, err := h.svc.Update(r.Context(), id, req)
	switch {
	case errors.Is(err, apikey.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "API key not found"})
		return
	case errors.Is(err, apikey.ErrNameRequired):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Name is required"})
		return
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to update API key"})
		return
	}

	h.logAction(r, "key.updated", &k.ID, map[string]interface{}{"name": k.Name})
	writeJSON(w, http.StatusOK, k)
}

func (h *KeysHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseKeyID(w, r)
	if !ok {
		return
	}

	err := h.svc.Delete(r.Context(), id)
	if errors.Is(err, apikey.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "API key not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to delete API key"})
		return
	}

	h.logAction(r, "key.deleted", &id, nil)
	writeJSON(w, http.StatusOK, map[string]string{"message": "API key deleted successfully"})
}

func (h *KeysHandler) logAction(r *http.Request, action string, keyID *uuid.UUID, details map[string]interface{}) {
	if h.auditor == nil {
		return
	}

	var userID *uuid.UUID
	if claims := auth.ClaimsFromContext(r.Context()); claims != nil {
		if id, err := uuid.Parse(claims.Sub); err == nil {
			userID = &id
		}
	}

	entry := audit.LogEntry{
		UserID:       userID,
		Action:       action,
		ResourceType: "api_key",
		ResourceID:   keyID,
		Details:      details,
		IPAddress:    r.RemoteAddr,
	}
	if err := h.auditor.Log(r.Context(), entry); err != nil {
		slog.Warn("failed to write audit log", "action", action, "error", err)
	}
}

func parseKeyID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "API key not found"})
		return uuid.Nil, false
	}
	return id, true
}
