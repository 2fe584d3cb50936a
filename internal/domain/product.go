package domain

import (
	"math"
	"strings"
)

// Category is a product category as reported by the catalog service.
// The known values are listed below, but the catalog may introduce others.
type Category string

const (
	CategoryElectronics    Category = "electronics"
	CategoryJewelery       Category = "jewelery"
	CategoryMensClothing   Category = "men's clothing"
	CategoryWomensClothing Category = "women's clothing"
)

// KnownCategories returns the categories the store ships with
func KnownCategories() []Category {
	return []Category{
		CategoryElectronics,
		CategoryJewelery,
		CategoryMensClothing,
		CategoryWomensClothing,
	}
}

// Product represents a catalog entry held by the store
type Product struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Image       string   `json:"image"`
	Price       float64  `json:"price"`
	Liked       bool     `json:"liked"`
}

// ProductDraft holds the user-editable fields of a product
type ProductDraft struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Image       string   `json:"image"`
	Price       float64  `json:"price"`
}

// Draft returns the editable fields of the product
func (p Product) Draft() ProductDraft {
	return ProductDraft{
		Title:       p.Title,
		Description: p.Description,
		Category:    p.Category,
		Image:       p.Image,
		Price:       p.Price,
	}
}

// Validate checks the draft before it is sent to the catalog service.
// Price is checked first, then the required text fields in form order.
func (d ProductDraft) Validate() error {
	if math.IsNaN(d.Price) || math.IsInf(d.Price, 0) || d.Price <= 0 {
		return &ValidationError{Field: "price", Message: "price must be greater than zero"}
	}

	required := []struct {
		field string
		value string
	}{
		{"title", d.Title},
		{"description", d.Description},
		{"image", d.Image},
		{"category", string(d.Category)},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ValidationError{Field: r.field, Message: r.field + " is required"}
		}
	}

	return nil
}

// Validate performs business validation on the product
func (p Product) Validate() error {
	return p.Draft().Validate()
}
