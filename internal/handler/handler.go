package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"pva-store/internal/model"

	"github.com/rs/zerolog"
)

// ErrorResponse is the JSON shape of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeDomainError maps a service error onto an HTTP status and stable code.
func writeDomainError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var stockErr *model.InsufficientStockError
	if errors.As(err, &stockErr) {
		logger.Warn().Str("code", stockErr.Code()).Msg(stockErr.Error())
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: stockErr.Error(), Code: stockErr.Code()})
		return
	}

	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		status := statusForCode(domainErr.Code)
		logger.Warn().Str("code", domainErr.Code).Int("status", status).Msg(domainErr.Message)
		writeJSON(w, status, ErrorResponse{Error: domainErr.Message, Code: domainErr.Code})
		return
	}

	logger.Error().Err(err).Msg("unhandled service error")
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error: "internal server error",
		Code:  model.ErrCodeInternalError,
	})
}

func statusForCode(code string) int {
	switch code {
	case model.ErrCodeProductNotFound,
		model.ErrCodeCustomerNotFound,
		model.ErrCodeOrderNotFound,
		model.ErrCodeKitNotFound,
		model.ErrCodeCartItemNotFound:
		return http.StatusNotFound
	case model.ErrCodeDuplicateSKU,
		model.ErrCodeDuplicateEmail,
		model.ErrCodeInvalidTransition,
		model.ErrCodeInsufficientStock,
		model.ErrCodeProductUnavailable:
		return http.StatusConflict
	case model.ErrCodeEmptyCart, model.ErrCodeValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
