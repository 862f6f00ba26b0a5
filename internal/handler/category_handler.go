package handler

import (
	"net/http"
	"strconv"

	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// CategoryHandler handles category tree requests.
type CategoryHandler struct {
	service service.CategoryService
	logger  zerolog.Logger
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(service service.CategoryService, logger zerolog.Logger) *CategoryHandler {
	return &CategoryHandler{
		service: service,
		logger:  logger.With().Str("handler", "category").Logger(),
	}
}

// List handles GET /api/categories requests. Supports parent_id and is_main filters.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filter model.CategoryFilter

	if raw := q.Get("parent_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 1 {
			writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "invalid parent_id parameter", h.logger)
			return
		}
		filter.ParentID = &id
	}

	if raw := q.Get("is_main"); raw != "" {
		mainOnly, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "invalid is_main parameter", h.logger)
			return
		}
		filter.MainOnly = mainOnly
	}

	categories, err := h.service.List(r.Context(), filter)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, categories)
}

// Get handles GET /api/categories/{id} requests.
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", h.logger)
	if !ok {
		return
	}

	detail, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

// Create handles POST /api/admin/categories requests.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input model.CategoryInput
	if !decodeJSON(w, r, &input, h.logger) {
		return
	}

	category, err := h.service.Create(r.Context(), &input)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, category)
}

// Update handles PUT /api/admin/categories/{id} requests.
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", h.logger)
	if !ok {
		return
	}

	var input model.CategoryInput
	if !decodeJSON(w, r, &input, h.logger) {
		return
	}

	category, err := h.service.Update(r.Context(), id, &input)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, category)
}

// Delete handles DELETE /api/admin/categories/{id} requests.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	noContentByID(w, r, h.logger, h.service.Delete)
}
