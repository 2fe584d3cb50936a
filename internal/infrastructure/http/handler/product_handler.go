package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mrops-br/catalog-store/internal/app/dto"
	"github.com/mrops-br/catalog-store/internal/infrastructure/http/response"
)

// ListProducts handles GET /products
func (h *StorefrontHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.page())
}

// LoadProducts handles POST /products/load
func (h *StorefrontHandler) LoadProducts(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Products.EnsureLoaded(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, h.page())
}

// ReloadProducts handles POST /products/reload
func (h *StorefrontHandler) ReloadProducts(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Products.LoadCatalog(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, h.page())
}

// CreateProduct handles POST /products
func (h *StorefrontHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req dto.ProductRequest
	if !h.decode(w, r, &req) {
		return
	}

	product, err := h.store.Products.CreateProduct(r.Context(), req.ToDraft())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, dto.ToProductResponse(product))
}

// GetProduct handles GET /products/{id}
func (h *StorefrontHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.store.Products.ProductDetails(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, dto.ToProductResponse(product))
}

// UpdateProduct handles PUT /products/{id}
func (h *StorefrontHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req dto.ProductRequest
	if !h.decode(w, r, &req) {
		return
	}

	product, err := h.store.Products.UpdateProduct(r.Context(), req.ToProduct(chi.URLParam(r, "id")))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, dto.ToProductResponse(product))
}

// DeleteProduct handles DELETE /products/{id}
func (h *StorefrontHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Products.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	response.NoContent(w)
}

// ToggleLike handles POST /products/{id}/like
func (h *StorefrontHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	liked, err := h.store.Products.ToggleLike(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, dto.LikeResponse{ID: id, Liked: liked})
}

// ListCategories handles GET /categories
func (h *StorefrontHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.Products.Categories(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, dto.CategoriesResponse{Categories: categories})
}
