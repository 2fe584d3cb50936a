package dto

import (
	"github.com/mrops-br/catalog-store/internal/domain"
	"github.com/shopspring/decimal"
)

// AddToCartRequest references a product already held by the store
type AddToCartRequest struct {
	ProductID string `json:"product_id"`
}

// AdjustQuantityRequest carries a signed quantity change
type AdjustQuantityRequest struct {
	Delta int `json:"delta"`
}

// CartLineResponse represents one cart line
type CartLineResponse struct {
	ProductID  string          `json:"product_id"`
	Title      string          `json:"title"`
	Image      string          `json:"image"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// CartResponse is the read model of the cart screen
type CartResponse struct {
	Lines []*CartLineResponse `json:"lines"`
	Count int                 `json:"count"`
	Total decimal.Decimal     `json:"total"`
}

// ToCartResponse builds the cart read model
func ToCartResponse(lines []domain.CartLine, total decimal.Decimal) *CartResponse {
	resp := &CartResponse{
		Lines: make([]*CartLineResponse, len(lines)),
		Total: total,
	}
	for i, l := range lines {
		resp.Lines[i] = &CartLineResponse{
			ProductID:  l.ProductID,
			Title:      l.Title,
			Image:      l.Image,
			Price:      l.Price,
			Quantity:   l.Quantity,
			TotalPrice: l.TotalPrice,
		}
		resp.Count += l.Quantity
	}
	return resp
}
