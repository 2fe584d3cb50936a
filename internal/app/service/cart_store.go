package service

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/mrops-br/catalog-store/internal/domain"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// CartStore owns the cart lines. It is keyed by product id and independent
// of the product collection: deleting a product does not touch the cart.
type CartStore struct {
	logger     *slog.Logger
	operations metric.Int64Counter
	onChange   func()

	mu    sync.Mutex
	lines []domain.CartLine
}

func newCartStore(meter metric.Meter, logger *slog.Logger, onChange func()) *CartStore {
	operations, _ := meter.Int64Counter(
		"cart.operations",
		metric.WithDescription("Total number of cart operations"),
	)

	return &CartStore{
		logger:     logger.With(slog.String("component", "cart_store")),
		operations: operations,
		onChange:   onChange,
		lines:      []domain.CartLine{},
	}
}

// AddToCart adds one unit of the product, creating the line if needed
func (c *CartStore) AddToCart(ctx context.Context, product domain.Product) domain.CartLine {
	c.mu.Lock()
	idx := c.indexOf(product.ID)
	if idx < 0 {
		c.lines = append(c.lines, domain.NewCartLine(product))
		idx = len(c.lines) - 1
	} else {
		c.lines[idx].SetQuantity(c.lines[idx].Quantity + 1)
	}
	line := c.lines[idx]
	c.mu.Unlock()
	c.changed()

	c.record(ctx, "add", "success")
	c.logger.DebugContext(ctx, "Product added to cart",
		slog.String("product_id", product.ID),
		slog.Int("quantity", line.Quantity),
	)
	return line
}

// RemoveFromCart drops the line for the product. Unknown ids are ignored.
func (c *CartStore) RemoveFromCart(ctx context.Context, productID string) {
	c.mu.Lock()
	idx := c.indexOf(productID)
	if idx >= 0 {
		c.lines = slices.Delete(c.lines, idx, idx+1)
	}
	c.mu.Unlock()

	if idx < 0 {
		return
	}
	c.changed()
	c.record(ctx, "remove", "success")
}

// AdjustQuantity adds delta to the line quantity. A line whose quantity
// drops to zero or below is removed.
func (c *CartStore) AdjustQuantity(ctx context.Context, productID string, delta int) error {
	c.mu.Lock()
	idx := c.indexOf(productID)
	if idx < 0 {
		c.mu.Unlock()
		c.record(ctx, "adjust", "not_found")
		return domain.ErrCartLineNotFound
	}

	quantity := c.lines[idx].Quantity + delta
	if quantity <= 0 {
		c.lines = slices.Delete(c.lines, idx, idx+1)
	} else {
		c.lines[idx].SetQuantity(quantity)
	}
	c.mu.Unlock()
	c.changed()

	c.record(ctx, "adjust", "success")
	c.logger.DebugContext(ctx, "Cart quantity adjusted",
		slog.String("product_id", productID),
		slog.Int("quantity", max(quantity, 0)),
	)
	return nil
}

// ClearCart empties the cart
func (c *CartStore) ClearCart(ctx context.Context) {
	c.mu.Lock()
	c.lines = []domain.CartLine{}
	c.mu.Unlock()
	c.changed()

	c.record(ctx, "clear", "success")
}

// Lines returns the cart lines in the order they were added
func (c *CartStore) Lines() []domain.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.lines)
}

// Total sums the line totals. An empty cart totals zero.
func (c *CartStore) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return total(c.lines)
}

// Count returns the number of units in the cart
func (c *CartStore) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return count(c.lines)
}

// drain empties the cart and returns what it held
func (c *CartStore) drain(ctx context.Context) (int, decimal.Decimal) {
	c.mu.Lock()
	n, sum := count(c.lines), total(c.lines)
	if n == 0 {
		c.mu.Unlock()
		return 0, sum
	}
	c.lines = []domain.CartLine{}
	c.mu.Unlock()
	c.changed()

	c.record(ctx, "clear", "success")
	return n, sum
}

func (c *CartStore) snapshot(state *domain.StoreState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	state.Cart = slices.Clone(c.lines)
}

func (c *CartStore) restore(lines []domain.CartLine) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lines = make([]domain.CartLine, 0, len(lines))
	for _, l := range lines {
		if l.ProductID == "" || l.Quantity <= 0 {
			continue
		}
		if idx := c.indexOf(l.ProductID); idx >= 0 {
			c.lines[idx].SetQuantity(c.lines[idx].Quantity + l.Quantity)
			continue
		}
		l.SetQuantity(l.Quantity)
		c.lines = append(c.lines, l)
	}
}

func (c *CartStore) indexOf(productID string) int {
	return slices.IndexFunc(c.lines, func(l domain.CartLine) bool {
		return l.ProductID == productID
	})
}

func (c *CartStore) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}

func (c *CartStore) record(ctx context.Context, operation, result string) {
	c.operations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("result", result),
		),
	)
}

func total(lines []domain.CartLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.TotalPrice)
	}
	return sum
}

func count(lines []domain.CartLine) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}
