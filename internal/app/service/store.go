package service

import (
	"log/slog"
	"sync"

	"github.com/mrops-br/catalog-store/internal/domain"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Options tunes a Store
type Options struct {
	// PageSize is the number of products per page, DefaultPageSize when zero
	PageSize int
	// ListLimit is how many products a catalog load requests, DefaultListLimit when zero
	ListLimit int
}

// Listener receives the full store state after every committed mutation.
// Listeners run synchronously and must not dispatch store intents.
type Listener func(domain.StoreState)

// Store is the root aggregate handed to every consumer. It owns the product
// store, the cart store and the checkout session, and publishes a snapshot
// to its listeners after each mutation.
type Store struct {
	Products *ProductStore
	Cart     *CartStore
	Checkout *Checkout

	logger *slog.Logger

	// publishMu serializes publications so listeners observe snapshots in
	// commit order.
	publishMu sync.Mutex

	mu        sync.Mutex
	listeners []subscription
	nextID    int
}

type subscription struct {
	id int
	fn Listener
}

// NewStore creates an empty store backed by the given catalog client
func NewStore(
	catalog domain.CatalogClient,
	opts Options,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *Store {
	s := &Store{logger: logger}
	s.Products = newProductStore(catalog, opts, tracer, meter, logger, s.publish)
	s.Cart = newCartStore(meter, logger, s.publish)
	s.Checkout = newCheckout(s.Cart, tracer, meter, logger)
	return s
}

// Subscribe registers a listener and returns a function that removes it
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.listeners {
			if sub.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Snapshot returns a copy of the whole state tree
func (s *Store) Snapshot() domain.StoreState {
	var state domain.StoreState
	s.Products.snapshot(&state)
	s.Cart.snapshot(&state)
	return state
}

// Restore seeds the store from a persisted snapshot. The derived view is
// recomputed rather than trusted, and an interrupted load is reset to idle.
// Listeners are not notified.
func (s *Store) Restore(state domain.StoreState) {
	s.Products.restore(state)
	s.Cart.restore(state.Cart)

	s.logger.Info("Store restored from snapshot",
		slog.Int("products", len(state.Products)),
		slog.Int("cart_lines", len(state.Cart)),
	)
}

func (s *Store) publish() {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	s.mu.Lock()
	listeners := make([]Listener, len(s.listeners))
	for i, sub := range s.listeners {
		listeners[i] = sub.fn
	}
	s.mu.Unlock()

	if len(listeners) == 0 {
		return
	}

	state := s.Snapshot()
	for _, fn := range listeners {
		fn(state)
	}
}
