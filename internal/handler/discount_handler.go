package handler

import (
	"net/http"

	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// DiscountHandler handles discount code requests.
type DiscountHandler struct {
	service service.DiscountService
	logger  zerolog.Logger
}

// NewDiscountHandler creates a new discount handler.
func NewDiscountHandler(service service.DiscountService, logger zerolog.Logger) *DiscountHandler {
	return &DiscountHandler{
		service: service,
		logger:  logger.With().Str("handler", "discount").Logger(),
	}
}

// GetByCode handles GET /api/discounts/code/{code} requests.
func (h *DiscountHandler) GetByCode(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.GetByCode(r.Context(), r.PathValue("code"))
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, d)
}

// List handles GET /api/admin/discounts requests.
func (h *DiscountHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, model.StatusActive)
}

// ListTrashed handles GET /api/admin/discounts/trashed requests.
func (h *DiscountHandler) ListTrashed(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, model.StatusDeleted)
}

func (h *DiscountHandler) list(w http.ResponseWriter, r *http.Request, status model.Status) {
	discounts, err := h.service.List(r.Context(), status)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, discounts)
}

// GetByID handles GET /api/admin/discounts/{id} requests.
func (h *DiscountHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", h.logger)
	if !ok {
		return
	}

	d, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, d)
}

// Create handles POST /api/admin/discounts requests.
func (h *DiscountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input model.DiscountInput
	if !decodeJSON(w, r, &input, h.logger) {
		return
	}

	d, err := h.service.Create(r.Context(), &input)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, d)
}

// Update handles PUT /api/admin/discounts/{id} requests.
func (h *DiscountHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", h.logger)
	if !ok {
		return
	}

	var input model.DiscountInput
	if !decodeJSON(w, r, &input, h.logger) {
		return
	}

	d, err := h.service.Update(r.Context(), id, &input)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, d)
}

// SoftDelete handles DELETE /api/admin/discounts/{id} requests.
func (h *DiscountHandler) SoftDelete(w http.ResponseWriter, r *http.Request) {
	noContentByID(w, r, h.logger, h.service.SoftDelete)
}

// Restore handles POST /api/admin/discounts/{id}/restore requests.
func (h *DiscountHandler) Restore(w http.ResponseWriter, r *http.Request) {
	noContentByID(w, r, h.logger, h.service.Restore)
}

// Destroy handles DELETE /api/admin/discounts/{id}/force requests.
func (h *DiscountHandler) Destroy(w http.ResponseWriter, r *http.Request) {
	noContentByID(w, r, h.logger, h.service.Delete)
}
