package dto

import (
	"time"

	"github.com/mrops-br/catalog-store/internal/domain"
	"github.com/shopspring/decimal"
)

// DeliveryRequest is the first checkout step
type DeliveryRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Contact string `json:"contact"`
}

func (r *DeliveryRequest) ToDomain() domain.DeliveryDetails {
	return domain.DeliveryDetails{Name: r.Name, Address: r.Address, Contact: r.Contact}
}

// PaymentRequest is the second checkout step
type PaymentRequest struct {
	CardNumber string `json:"card_number"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
}

func (r *PaymentRequest) ToDomain() domain.PaymentDetails {
	return domain.PaymentDetails{CardNumber: r.CardNumber, Expiry: r.Expiry, CVV: r.CVV}
}

// ReceiptResponse confirms a completed checkout
type ReceiptResponse struct {
	OrderRef string          `json:"order_ref"`
	Items    int             `json:"items"`
	Total    decimal.Decimal `json:"total"`
	Name     string          `json:"name"`
	Address  string          `json:"address"`
	PaidAt   time.Time       `json:"paid_at"`
	Message  string          `json:"message"`
}

// ToReceiptResponse converts a domain Receipt
func ToReceiptResponse(r domain.Receipt) *ReceiptResponse {
	return &ReceiptResponse{
		OrderRef: r.OrderRef,
		Items:    r.Items,
		Total:    r.Total,
		Name:     r.Delivery.Name,
		Address:  r.Delivery.Address,
		PaidAt:   r.PaidAt,
		Message:  "Payment successful",
	}
}
