package handler

import (
	"net/http"
	"strconv"

	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

func (h *ProductHandler) filter(w http.ResponseWriter, r *http.Request) (model.ProductFilter, bool) {
	limit, offset, ok := page(w, r, h.logger)
	if !ok {
		return model.ProductFilter{}, false
	}

	q := r.URL.Query()
	filter := model.ProductFilter{
		Search:  q.Get("search"),
		OrderBy: q.Get("order_by"),
		Limit:   limit,
		Offset:  offset,
	}

	if raw := q.Get("category"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 1 {
			writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "invalid category parameter", h.logger)
			return model.ProductFilter{}, false
		}
		filter.CategoryID = &id
	}

	return filter, true
}

// List handles GET /api/products requests.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, ok := h.filter(w, r)
	if !ok {
		return
	}

	products, err := h.service.List(r.Context(), filter)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

// ListTrashed handles GET /api/admin/products/trashed requests.
func (h *ProductHandler) ListTrashed(w http.ResponseWriter, r *http.Request) {
	filter, ok := h.filter(w, r)
	if !ok {
		return
	}
	filter.Status = model.StatusDeleted

	products, err := h.service.List(r.Context(), filter)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

// MostSold handles GET /api/products/most-sold requests.
func (h *ProductHandler) MostSold(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.MostSold(r.Context())
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

// HomePage handles GET /api/products/home requests.
func (h *ProductHandler) HomePage(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.HomePage(r.Context())
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

// GetByID handles GET /api/products/{id} requests.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	h.get(w, r, false)
}

// AdminGetByID handles GET /api/admin/products/{id} requests, including soft deleted products.
func (h *ProductHandler) AdminGetByID(w http.ResponseWriter, r *http.Request) {
	h.get(w, r, true)
}

func (h *ProductHandler) get(w http.ResponseWriter, r *http.Request, withTrashed bool) {
	id, ok := pathID(w, r, "id", h.logger)
	if !ok {
		return
	}

	product, err := h.service.GetByID(r.Context(), id, withTrashed)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Create handles POST /api/admin/products requests.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input model.ProductInput
	if !decodeJSON(w, r, &input, h.logger) {
		return
	}

	product, err := h.service.Create(r.Context(), &input)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, product)
}

// Update handles PUT /api/admin/products/{id} requests.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", h.logger)
	if !ok {
		return
	}

	var input model.ProductInput
	if !decodeJSON(w, r, &input, h.logger) {
		return
	}

	product, err := h.service.Update(r.Context(), id, &input)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// SoftDelete handles DELETE /api/admin/products/{id} requests.
func (h *ProductHandler) SoftDelete(w http.ResponseWriter, r *http.Request) {
	noContentByID(w, r, h.logger, h.service.SoftDelete)
}

// Restore handles POST /api/admin/products/{id}/restore requests.
func (h *ProductHandler) Restore(w http.ResponseWriter, r *http.Request) {
	noContentByID(w, r, h.logger, h.service.Restore)
}

// Destroy handles DELETE /api/admin/products/{id}/force requests.
func (h *ProductHandler) Destroy(w http.ResponseWriter, r *http.Request) {
	noContentByID(w, r, h.logger, h.service.Destroy)
}
