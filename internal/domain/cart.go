package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one cart entry. Title, Image and Price are copied from the
// product when it is first added; TotalPrice always equals Price * Quantity.
type CartLine struct {
	ProductID  string          `json:"product_id"`
	Title      string          `json:"title"`
	Image      string          `json:"image"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// NewCartLine creates a line with quantity one for the product
func NewCartLine(p Product) CartLine {
	price := decimal.NewFromFloat(p.Price)
	return CartLine{
		ProductID:  p.ID,
		Title:      p.Title,
		Image:      p.Image,
		Price:      price,
		Quantity:   1,
		TotalPrice: price,
	}
}

// SetQuantity updates the quantity and keeps TotalPrice consistent
func (l *CartLine) SetQuantity(q int) {
	l.Quantity = q
	l.TotalPrice = l.Price.Mul(decimal.NewFromInt(int64(q)))
}

// DeliveryDetails is the first checkout step
type DeliveryDetails struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Contact string `json:"contact"`
}

// PaymentDetails is the second checkout step. Nothing here leaves the process.
type PaymentDetails struct {
	CardNumber string `json:"card_number"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
}

// Receipt confirms a simulated payment
type Receipt struct {
	OrderRef string          `json:"order_ref"`
	Items    int             `json:"items"`
	Total    decimal.Decimal `json:"total"`
	Delivery DeliveryDetails `json:"delivery"`
	PaidAt   time.Time       `json:"paid_at"`
}
