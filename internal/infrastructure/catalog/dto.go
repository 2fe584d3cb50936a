package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mrops-br/catalog-store/internal/domain"
)

// productID accepts ids sent as JSON strings or numbers and keeps them as
// strings.
type productID string

func (id *productID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = productID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("product id must be a string or a number: %w", err)
	}
	*id = productID(n.String())
	return nil
}

// productPayload is the catalog service wire format
type productPayload struct {
	ID          productID `json:"id,omitempty"`
	Title       string    `json:"title"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Image       string    `json:"image"`
}

func (p productPayload) toDomain() domain.Product {
	return domain.Product{
		ID:          string(p.ID),
		Title:       p.Title,
		Description: p.Description,
		Category:    domain.Category(p.Category),
		Image:       p.Image,
		Price:       p.Price,
	}
}

func fromDraft(d domain.ProductDraft) productPayload {
	return productPayload{
		Title:       d.Title,
		Price:       d.Price,
		Description: d.Description,
		Category:    string(d.Category),
		Image:       d.Image,
	}
}

func fromProduct(p domain.Product) productPayload {
	payload := fromDraft(p.Draft())
	payload.ID = productID(p.ID)
	return payload
}
