package handler

import (
	"encoding/json"
	"net/http"

	"pva-store/internal/model"
	"pva-store/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// KitHandler handles product kit HTTP requests.
type KitHandler struct {
	service service.KitService
	logger  zerolog.Logger
}

// NewKitHandler creates a new kit handler.
func NewKitHandler(service service.KitService, logger zerolog.Logger) *KitHandler {
	return &KitHandler{
		service: service,
		logger:  logger.With().Str("handler", "kit").Logger(),
	}
}

// List handles GET /api/kits requests. Supports ?available=true to list only
// kits whose every component is in stock.
func (h *KitHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		kits []model.ProductKit
		err  error
	)

	if r.URL.Query().Get("available") == "true" {
		kits, err = h.service.GetAvailable(r.Context())
	} else {
		kits, err = h.service.GetAll(r.Context())
	}
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, kits)
}

// GetByID handles GET /api/kits/{id} requests.
func (h *KitHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid kit ID format", h.logger)
		return
	}

	kit, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, kit)
}

// Create handles POST /api/kits requests.
func (h *KitHandler) Create(w http.ResponseWriter, r *http.Request) {
	var kit model.ProductKit
	if err := json.NewDecoder(r.Body).Decode(&kit); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	if err := h.service.Create(r.Context(), &kit); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, kit)
}

// Availability handles GET /api/kits/{id}/availability requests, returning
// both the flag and the maximum purchasable quantity.
func (h *KitHandler) Availability(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid kit ID format", h.logger)
		return
	}

	quantity, err := h.service.MaxAvailableQuantity(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"kitId":       id,
		"available":   quantity > 0,
		"maxQuantity": quantity,
	})
}
