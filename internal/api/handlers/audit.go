package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dandihq/dandi-api/internal/audit"
)

type AuditReader interface {
	Recent(ctx context.Context, limit int) ([]audit.Record, error)
}

type AuditHandler struct {
	svc AuditReader
}

func NewAuditHandler(svc AuditReader) *AuditHandler {
	return &AuditHandler{svc: svc}
}

// Recent lists the latest administrator actions for the dashboard activity view.
func (h *AuditHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	records, err := h.svc.Recent(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch audit logs"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"records": records, "count": len(records)})
}
