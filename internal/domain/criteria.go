package domain

import "fmt"

// FilterMode selects which products pass the like filter
type FilterMode string

const (
	FilterAll   FilterMode = "all"
	FilterLiked FilterMode = "liked"
)

// ParseFilterMode converts user input into a FilterMode
func ParseFilterMode(s string) (FilterMode, error) {
	switch m := FilterMode(s); m {
	case FilterAll, FilterLiked:
		return m, nil
	}
	return "", &ValidationError{Field: "filter", Message: fmt.Sprintf("unknown filter mode %q", s)}
}

// DefaultPageSize is the number of products shown per page
const DefaultPageSize = 6

// ViewCriteria is the combination of like filter, search term, category
// selection and pagination cursor.
type ViewCriteria struct {
	Filter             FilterMode `json:"filter"`
	SearchTerm         string     `json:"search_term"`
	SelectedCategories []string   `json:"selected_categories"`
	CurrentPage        int        `json:"current_page"`
	PageSize           int        `json:"page_size"`
}

// NewViewCriteria returns the criteria of a fresh store
func NewViewCriteria(pageSize int) ViewCriteria {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return ViewCriteria{
		Filter:             FilterAll,
		SelectedCategories: []string{},
		CurrentPage:        1,
		PageSize:           pageSize,
	}
}

// Status is the lifecycle marker of the catalog list fetch
type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// RequestStatus pairs the fetch lifecycle with the last error message
type RequestStatus struct {
	State Status `json:"state"`
	Error string `json:"error,omitempty"`
}
