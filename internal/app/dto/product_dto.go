package dto

import (
	"github.com/mrops-br/catalog-store/internal/app/view"
	"github.com/mrops-br/catalog-store/internal/domain"
)

// ProductRequest represents a create or update payload
type ProductRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Price       float64 `json:"price"`
	Liked       bool    `json:"liked"`
}

// ToDraft converts the request to a product draft
func (r *ProductRequest) ToDraft() domain.ProductDraft {
	return domain.ProductDraft{
		Title:       r.Title,
		Description: r.Description,
		Category:    domain.Category(r.Category),
		Image:       r.Image,
		Price:       r.Price,
	}
}

// ToProduct converts the request to a product with the given id
func (r *ProductRequest) ToProduct(id string) domain.Product {
	return domain.Product{
		ID:          id,
		Title:       r.Title,
		Description: r.Description,
		Category:    domain.Category(r.Category),
		Image:       r.Image,
		Price:       r.Price,
		Liked:       r.Liked,
	}
}

// ProductResponse represents the product response
type ProductResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Price       float64 `json:"price"`
	Liked       bool    `json:"liked"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p domain.Product) *ProductResponse {
	return &ProductResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Category:    string(p.Category),
		Image:       p.Image,
		Price:       p.Price,
		Liked:       p.Liked,
	}
}

// ToProductResponseList converts a list of domain Products to ProductResponse list
func ToProductResponseList(products []domain.Product) []*ProductResponse {
	responses := make([]*ProductResponse, len(products))
	for i, p := range products {
		responses[i] = ToProductResponse(p)
	}
	return responses
}

// CriteriaResponse mirrors the active view criteria
type CriteriaResponse struct {
	Filter             string   `json:"filter"`
	SearchTerm         string   `json:"search_term"`
	SelectedCategories []string `json:"selected_categories"`
	CurrentPage        int      `json:"current_page"`
	PageSize           int      `json:"page_size"`
}

// StatusResponse mirrors the catalog fetch status
type StatusResponse struct {
	State string `json:"state"`
	Error string `json:"error,omitempty"`
}

// PageResponse is the read model of the product list screen
type PageResponse struct {
	Items          []*ProductResponse `json:"items"`
	Page           int                `json:"page"`
	TotalPages     int                `json:"total_pages"`
	TotalItems     int                `json:"total_items"`
	ShowPagination bool               `json:"show_pagination"`
	Criteria       CriteriaResponse   `json:"criteria"`
	Status         StatusResponse     `json:"status"`
}

// ToPageResponse builds the list screen read model
func ToPageResponse(page view.Page, criteria domain.ViewCriteria, status domain.RequestStatus) *PageResponse {
	categories := criteria.SelectedCategories
	if categories == nil {
		categories = []string{}
	}

	return &PageResponse{
		Items:          ToProductResponseList(page.Items),
		Page:           page.Number,
		TotalPages:     page.TotalPages,
		TotalItems:     page.TotalItems,
		ShowPagination: page.ShowPagination,
		Criteria: CriteriaResponse{
			Filter:             string(criteria.Filter),
			SearchTerm:         criteria.SearchTerm,
			SelectedCategories: categories,
			CurrentPage:        criteria.CurrentPage,
			PageSize:           criteria.PageSize,
		},
		Status: StatusResponse{
			State: string(status.State),
			Error: status.Error,
		},
	}
}
