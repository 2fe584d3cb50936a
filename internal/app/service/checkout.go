package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mrops-br/catalog-store/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Checkout runs the two-step checkout over the cart: delivery details
// first, then payment. Payment is simulated and never leaves the process.
type Checkout struct {
	cart       *CartStore
	tracer     trace.Tracer
	logger     *slog.Logger
	operations metric.Int64Counter
	now        func() time.Time

	mu       sync.Mutex
	delivery *domain.DeliveryDetails
}

func newCheckout(cart *CartStore, tracer trace.Tracer, meter metric.Meter, logger *slog.Logger) *Checkout {
	operations, _ := meter.Int64Counter(
		"checkout.operations",
		metric.WithDescription("Total number of checkout steps"),
	)

	return &Checkout{
		cart:       cart,
		tracer:     tracer,
		logger:     logger.With(slog.String("component", "checkout")),
		operations: operations,
		now:        time.Now,
	}
}

// SubmitDelivery validates the delivery details. On success the payment
// step is unlocked; on rejection nothing changes.
func (c *Checkout) SubmitDelivery(ctx context.Context, details domain.DeliveryDetails) error {
	if c.cart.Count() == 0 {
		c.record(ctx, "delivery", "cart_empty")
		return domain.ErrCartEmpty
	}
	if blank(details.Name, details.Address, details.Contact) {
		c.record(ctx, "delivery", "incomplete")
		return domain.ErrDeliveryIncomplete
	}

	c.mu.Lock()
	c.delivery = &details
	c.mu.Unlock()

	c.record(ctx, "delivery", "success")
	c.logger.InfoContext(ctx, "Delivery details accepted")
	return nil
}

// SubmitPayment validates the payment details, empties the cart and
// forgets everything that was entered.
func (c *Checkout) SubmitPayment(ctx context.Context, payment domain.PaymentDetails) (domain.Receipt, error) {
	ctx, span := c.tracer.Start(ctx, "Checkout.SubmitPayment")
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	reject := func(result string, err error) (domain.Receipt, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Payment rejected")
		c.record(ctx, "payment", result)
		c.logger.WarnContext(ctx, "Payment rejected", slog.String("error", err.Error()))
		return domain.Receipt{}, err
	}

	if c.delivery == nil {
		return reject("not_started", domain.ErrCheckoutNotStarted)
	}
	if blank(payment.CardNumber, payment.Expiry, payment.CVV) {
		return reject("incomplete", domain.ErrPaymentIncomplete)
	}

	items, sum := c.cart.drain(ctx)
	if items == 0 {
		return reject("cart_empty", domain.ErrCartEmpty)
	}

	receipt := domain.Receipt{
		OrderRef: uuid.NewString(),
		Items:    items,
		Total:    sum,
		Delivery: *c.delivery,
		PaidAt:   c.now().UTC(),
	}
	c.delivery = nil

	span.SetAttributes(
		attribute.String("order.ref", receipt.OrderRef),
		attribute.Int("order.items", items),
	)
	c.record(ctx, "payment", "success")
	c.logger.InfoContext(ctx, "Payment processed successfully",
		slog.String("order_ref", receipt.OrderRef),
		slog.String("total", sum.StringFixed(2)),
	)

	span.SetStatus(codes.Ok, "Payment processed")
	return receipt, nil
}

// Cancel abandons a started checkout and discards the delivery details
func (c *Checkout) Cancel(ctx context.Context) {
	c.mu.Lock()
	c.delivery = nil
	c.mu.Unlock()

	c.record(ctx, "cancel", "success")
}

// Delivery returns the accepted delivery details, if any
func (c *Checkout) Delivery() (domain.DeliveryDetails, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.delivery == nil {
		return domain.DeliveryDetails{}, false
	}
	return *c.delivery, true
}

func (c *Checkout) record(ctx context.Context, step, result string) {
	c.operations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("step", step),
			attribute.String("result", result),
		),
	)
}

func blank(fields ...string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			return true
		}
	}
	return false
}
