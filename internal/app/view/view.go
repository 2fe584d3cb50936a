// Package view computes the visible product subset from the product
// collection and the active view criteria.
package view

import (
	"slices"
	"strings"

	"github.com/mrops-br/catalog-store/internal/domain"
)

// Compute returns the products that pass the like, search and category
// filters, in source order. The input slice is not modified.
func Compute(products []domain.Product, criteria domain.ViewCriteria) []domain.Product {
	term := strings.ToLower(criteria.SearchTerm)

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if !matchesLike(p, criteria.Filter) {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(p.Title), term) {
			continue
		}
		if len(criteria.SelectedCategories) > 0 && !slices.Contains(criteria.SelectedCategories, string(p.Category)) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesLike(p domain.Product, mode domain.FilterMode) bool {
	if mode == domain.FilterLiked {
		return p.Liked
	}
	return true
}

// Page is a read-time slice over a computed view
type Page struct {
	Items          []domain.Product
	Number         int
	Size           int
	TotalItems     int
	TotalPages     int
	ShowPagination bool
}

// Paginate slices the view for the 1-based page number. Pages past the end
// are empty rather than an error.
func Paginate(products []domain.Product, page, size int) Page {
	if size <= 0 {
		size = domain.DefaultPageSize
	}
	if page < 1 {
		page = 1
	}

	total := len(products)
	pages := TotalPages(total, size)

	// page is bounded before multiplying so huge cursors cannot overflow
	start := total
	if page <= pages {
		start = (page - 1) * size
	}
	end := min(start+size, total)

	items := make([]domain.Product, end-start)
	copy(items, products[start:end])

	return Page{
		Items:          items,
		Number:         page,
		Size:           size,
		TotalItems:     total,
		TotalPages:     pages,
		ShowPagination: total > size,
	}
}

// TotalPages returns ceil(total / size)
func TotalPages(total, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}
