package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"storefront/internal/middleware"
	"storefront/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// statusByCode maps domain error codes to HTTP statuses.
var statusByCode = map[string]int{
	model.ErrCodeValidation:           http.StatusBadRequest,
	model.ErrCodeNotFound:             http.StatusNotFound,
	model.ErrCodeDuplicate:            http.StatusConflict,
	model.ErrCodeEmptyCart:            http.StatusBadRequest,
	model.ErrCodeOutOfStock:           http.StatusConflict,
	model.ErrCodeProductUnavailable:   http.StatusConflict,
	model.ErrCodeDiscountNotFound:     http.StatusNotFound,
	model.ErrCodeDiscountExpired:      http.StatusUnprocessableEntity,
	model.ErrCodeAlreadyDiscounted:    http.StatusConflict,
	model.ErrCodeInsufficientFunds:    http.StatusPaymentRequired,
	model.ErrCodeInvalidAddress:       http.StatusUnprocessableEntity,
	model.ErrCodeInvalidStatus:        http.StatusUnprocessableEntity,
	model.ErrCodeInvalidPaymentMethod: http.StatusBadRequest,
	model.ErrCodeInvalidQuantity:      http.StatusBadRequest,
	model.ErrCodeTransientFailure:     http.StatusServiceUnavailable,
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code, code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Warn().Str("error", code).Str("message", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// respondError translates a service error into a response. Errors that are
// not domain errors are reported as internal failures without their text.
func respondError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	de, ok := model.AsDomainError(err)
	if !ok {
		logger.Error().Err(err).Msg("unexpected error")
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{
			Error:   model.ErrCodeInternalError,
			Message: "internal server error",
		})
		return
	}

	status, known := statusByCode[de.Code]
	if !known {
		status = http.StatusInternalServerError
	}

	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("error", de.Code).Int("status", status).Msg("request failed")
	} else {
		logger.Debug().Str("error", de.Code).Int("status", status).Msg("request rejected")
	}

	writeJSON(w, status, model.ErrorResponse{Error: de.Code, Message: de.Message, ProductID: de.ProductID})
}

// decodeJSON reads the request body into dst and validates its struct tags.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, logger zerolog.Logger) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", logger)
		return false
	}

	if err := validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, validationMessage(err), logger)
		return false
	}

	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}

// callerID returns the authenticated caller, writing 401 when there is none.
func callerID(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (int64, bool) {
	id, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "authentication required", logger)
		return 0, false
	}
	return id, true
}

// pathID parses a positive integer path parameter.
func pathID(w http.ResponseWriter, r *http.Request, name string, logger zerolog.Logger) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "invalid "+name+" parameter", logger)
		return 0, false
	}
	return id, true
}

// page reads limit and offset query parameters. Missing values are zero so
// that the repositories apply their defaults.
func page(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (limit, offset int, ok bool) {
	for _, p := range []struct {
		name string
		dst  *int
	}{{"limit", &limit}, {"offset", &offset}} {
		raw := r.URL.Query().Get(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "invalid "+p.name+" parameter", logger)
			return 0, 0, false
		}
		*p.dst = v
	}
	return limit, offset, true
}

// noContentByID runs fn with the {id} path parameter and answers 204.
func noContentByID(w http.ResponseWriter, r *http.Request, logger zerolog.Logger, fn func(context.Context, int64) error) {
	id, ok := pathID(w, r, "id", logger)
	if !ok {
		return
	}

	if err := fn(r.Context(), id); err != nil {
		respondError(w, err, logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
