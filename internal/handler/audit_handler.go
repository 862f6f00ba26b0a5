package handler

import (
	"net/http"

	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// AuditHandler exposes the audit log to administrators.
type AuditHandler struct {
	service service.AuditService
	logger  zerolog.Logger
}

// NewAuditHandler creates a new audit log handler.
func NewAuditHandler(service service.AuditService, logger zerolog.Logger) *AuditHandler {
	return &AuditHandler{
		service: service,
		logger:  logger.With().Str("handler", "audit").Logger(),
	}
}

// List handles GET /api/admin/logs requests.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset, ok := page(w, r, h.logger)
	if !ok {
		return
	}

	entries, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

// GetByID handles GET /api/admin/logs/{id} requests.
func (h *AuditHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", h.logger)
	if !ok {
		return
	}

	entry, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}
