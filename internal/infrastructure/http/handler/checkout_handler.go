package handler

import (
	"net/http"

	"github.com/mrops-br/catalog-store/internal/app/dto"
	"github.com/mrops-br/catalog-store/internal/infrastructure/http/response"
)

// SubmitDelivery handles POST /checkout/delivery
func (h *StorefrontHandler) SubmitDelivery(w http.ResponseWriter, r *http.Request) {
	var req dto.DeliveryRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.store.Checkout.SubmitDelivery(r.Context(), req.ToDomain()); err != nil {
		h.fail(w, r, err)
		return
	}

	response.NoContent(w)
}

// SubmitPayment handles POST /checkout/payment
func (h *StorefrontHandler) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	var req dto.PaymentRequest
	if !h.decode(w, r, &req) {
		return
	}

	receipt, err := h.store.Checkout.SubmitPayment(r.Context(), req.ToDomain())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, dto.ToReceiptResponse(receipt))
}

// CancelCheckout handles DELETE /checkout
func (h *StorefrontHandler) CancelCheckout(w http.ResponseWriter, r *http.Request) {
	h.store.Checkout.Cancel(r.Context())
	response.NoContent(w)
}
