package dto

// FilterRequest selects the like filter ("all" or "liked")
type FilterRequest struct {
	Filter string `json:"filter"`
}

// SearchRequest sets the free-text search term
type SearchRequest struct {
	Term string `json:"term"`
}

// CategoriesRequest replaces the selected categories
type CategoriesRequest struct {
	Categories []string `json:"categories"`
}

// PageRequest moves the pagination cursor
type PageRequest struct {
	Page int `json:"page"`
}

// LikeResponse reports the like flag after a toggle
type LikeResponse struct {
	ID    string `json:"id"`
	Liked bool   `json:"liked"`
}

// CategoriesResponse lists the category names offered by the catalog
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}
