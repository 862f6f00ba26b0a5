package handler

import (
	"net/http"

	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// WalletHandler handles wallet balance and history requests.
type WalletHandler struct {
	service service.WalletService
	logger  zerolog.Logger
}

// NewWalletHandler creates a new wallet handler.
func NewWalletHandler(service service.WalletService, logger zerolog.Logger) *WalletHandler {
	return &WalletHandler{
		service: service,
		logger:  logger.With().Str("handler", "wallet").Logger(),
	}
}

// Get handles GET /api/wallet requests.
func (h *WalletHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r, h.logger)
	if !ok {
		return
	}

	wallet, err := h.service.Get(r.Context(), userID)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, wallet)
}

// History handles GET /api/wallet/history requests.
func (h *WalletHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r, h.logger)
	if !ok {
		return
	}

	limit, offset, ok := page(w, r, h.logger)
	if !ok {
		return
	}

	history, err := h.service.History(r.Context(), userID, limit, offset)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, history)
}

// AdminGet handles GET /api/admin/users/{id}/wallet requests.
func (h *WalletHandler) AdminGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "id", h.logger)
	if !ok {
		return
	}

	wallet, err := h.service.Get(r.Context(), userID)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, wallet)
}

// Adjust handles POST /api/admin/users/{id}/wallet requests.
func (h *WalletHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "id", h.logger)
	if !ok {
		return
	}

	var req model.WalletAdjustRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	wallet, err := h.service.Adjust(r.Context(), userID, req.Amount)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, wallet)
}
