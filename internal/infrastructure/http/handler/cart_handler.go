package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mrops-br/catalog-store/internal/app/dto"
	"github.com/mrops-br/catalog-store/internal/infrastructure/http/response"
)

// GetCart handles GET /cart
func (h *StorefrontHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.cart())
}

// AddToCart handles POST /cart/items. The product must be held by the store.
func (h *StorefrontHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req dto.AddToCartRequest
	if !h.decode(w, r, &req) {
		return
	}

	product, err := h.store.Products.Product(req.ProductID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.store.Cart.AddToCart(r.Context(), product)
	response.JSON(w, http.StatusOK, h.cart())
}

// AdjustQuantity handles PATCH /cart/items/{id}
func (h *StorefrontHandler) AdjustQuantity(w http.ResponseWriter, r *http.Request) {
	var req dto.AdjustQuantityRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.store.Cart.AdjustQuantity(r.Context(), chi.URLParam(r, "id"), req.Delta); err != nil {
		h.fail(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, h.cart())
}

// RemoveFromCart handles DELETE /cart/items/{id}
func (h *StorefrontHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	h.store.Cart.RemoveFromCart(r.Context(), chi.URLParam(r, "id"))
	response.JSON(w, http.StatusOK, h.cart())
}

// ClearCart handles DELETE /cart
func (h *StorefrontHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.store.Cart.ClearCart(r.Context())
	response.JSON(w, http.StatusOK, h.cart())
}
