package handler

import (
	"net/http"

	"github.com/mrops-br/catalog-store/internal/app/dto"
	"github.com/mrops-br/catalog-store/internal/domain"
	"github.com/mrops-br/catalog-store/internal/infrastructure/http/response"
)

// SetFilter handles PUT /view/filter
func (h *StorefrontHandler) SetFilter(w http.ResponseWriter, r *http.Request) {
	var req dto.FilterRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.store.Products.SetFilter(r.Context(), domain.FilterMode(req.Filter)); err != nil {
		h.fail(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, h.page())
}

// SetSearch handles PUT /view/search
func (h *StorefrontHandler) SetSearch(w http.ResponseWriter, r *http.Request) {
	var req dto.SearchRequest
	if !h.decode(w, r, &req) {
		return
	}

	h.store.Products.SetSearchTerm(r.Context(), req.Term)
	response.JSON(w, http.StatusOK, h.page())
}

// SetCategories handles PUT /view/categories
func (h *StorefrontHandler) SetCategories(w http.ResponseWriter, r *http.Request) {
	var req dto.CategoriesRequest
	if !h.decode(w, r, &req) {
		return
	}

	h.store.Products.SetSelectedCategories(r.Context(), req.Categories)
	response.JSON(w, http.StatusOK, h.page())
}

// SetPage handles PUT /view/page
func (h *StorefrontHandler) SetPage(w http.ResponseWriter, r *http.Request) {
	var req dto.PageRequest
	if !h.decode(w, r, &req) {
		return
	}

	h.store.Products.SetCurrentPage(r.Context(), req.Page)
	response.JSON(w, http.StatusOK, h.page())
}
