package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mrops-br/catalog-store/internal/app/dto"
	"github.com/mrops-br/catalog-store/internal/app/service"
	"github.com/mrops-br/catalog-store/internal/domain"
	"github.com/mrops-br/catalog-store/internal/infrastructure/http/response"
)

// StorefrontHandler translates HTTP requests into store intents and
// renders the store's read models.
type StorefrontHandler struct {
	store  *service.Store
	logger *slog.Logger
}

// NewStorefrontHandler creates a new storefront handler
func NewStorefrontHandler(store *service.Store, logger *slog.Logger) *StorefrontHandler {
	return &StorefrontHandler{
		store:  store,
		logger: logger,
	}
}

var checkoutRejections = []error{
	domain.ErrCartEmpty,
	domain.ErrDeliveryIncomplete,
	domain.ErrPaymentIncomplete,
	domain.ErrCheckoutNotStarted,
}

// StatusFor maps a store error to its HTTP status
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNetwork), errors.Is(err, domain.ErrHTTP):
		return http.StatusBadGateway
	}
	for _, rejection := range checkoutRejections {
		if errors.Is(err, rejection) {
			return http.StatusUnprocessableEntity
		}
	}
	return http.StatusInternalServerError
}

func (h *StorefrontHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "Unexpected store error", slog.String("error", err.Error()))
	}
	response.Error(w, status, err)
}

// decode reads a JSON body into v, answering 400 itself on failure
func (h *StorefrontHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body",
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

func (h *StorefrontHandler) page() *dto.PageResponse {
	products := h.store.Products
	return dto.ToPageResponse(products.Page(), products.Criteria(), products.Status())
}

func (h *StorefrontHandler) cart() *dto.CartResponse {
	return dto.ToCartResponse(h.store.Cart.Lines(), h.store.Cart.Total())
}
