package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/mrops-br/catalog-store/internal/app/view"
	"github.com/mrops-br/catalog-store/internal/domain"
	"github.com/stretchr/testify/assert"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// fakeCatalog is an in-process domain.CatalogClient that counts calls
type fakeCatalog struct {
	mu         sync.Mutex
	products   []domain.Product
	categories []string
	err        error
	createID   string
	calls      map[string]int

	// when set, List and Delete block until the channel is closed
	listGate   chan struct{}
	deleteGate chan struct{}
}

func newFakeCatalog(products ...domain.Product) *fakeCatalog {
	return &fakeCatalog{
		products:   products,
		categories: []string{"electronics", "jewelery"},
		calls:      map[string]int{},
	}
}

func (f *fakeCatalog) enter(op string) (chan struct{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	switch op {
	case "list":
		return f.listGate, f.err
	case "delete":
		return f.deleteGate, f.err
	}
	return nil, f.err
}

func (f *fakeCatalog) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeCatalog) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeCatalog) List(ctx context.Context, limit int) ([]domain.Product, error) {
	gate, err := f.enter("list")
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Product, 0, limit)
	for i, p := range f.products {
		if i == limit {
			break
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeCatalog) Get(ctx context.Context, id string) (*domain.Product, error) {
	if _, err := f.enter("get"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, &domain.RemoteError{Op: "get product", StatusCode: 404, Message: "not found"}
}

func (f *fakeCatalog) Create(ctx context.Context, draft domain.ProductDraft) (*domain.Product, error) {
	if _, err := f.enter("create"); err != nil {
		return nil, err
	}
	return &domain.Product{
		ID:          f.createID,
		Title:       draft.Title,
		Description: draft.Description,
		Category:    draft.Category,
		Image:       draft.Image,
		Price:       draft.Price,
	}, nil
}

func (f *fakeCatalog) Update(ctx context.Context, product domain.Product) (*domain.Product, error) {
	if _, err := f.enter("update"); err != nil {
		return nil, err
	}
	product.Liked = false
	return &product, nil
}

func (f *fakeCatalog) Delete(ctx context.Context, id string) error {
	gate, err := f.enter("delete")
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (f *fakeCatalog) ListCategories(ctx context.Context) ([]string, error) {
	if _, err := f.enter("categories"); err != nil {
		return nil, err
	}
	return f.categories, nil
}

func newTestStore(catalog domain.CatalogClient) *Store {
	return NewStore(
		catalog,
		Options{PageSize: 6},
		tracenoop.NewTracerProvider().Tracer("test"),
		metricnoop.NewMeterProvider().Meter("test"),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func testProducts(n int) []domain.Product {
	categories := domain.KnownCategories()
	products := make([]domain.Product, n)
	for i := range products {
		products[i] = domain.Product{
			ID:          fmt.Sprintf("%d", i+1),
			Title:       fmt.Sprintf("Product %d", i+1),
			Description: "description",
			Category:    categories[i%len(categories)],
			Image:       fmt.Sprintf("https://img.example/%d.png", i+1),
			Price:       float64(i+1) * 10.5,
		}
	}
	return products
}

func validDraft() domain.ProductDraft {
	return domain.ProductDraft{
		Title:       "Desk Lamp",
		Description: "LED desk lamp",
		Category:    domain.CategoryElectronics,
		Image:       "https://img.example/lamp.png",
		Price:       24.99,
	}
}

// assertViewConsistent checks that the cached view equals a fresh recompute
func assertViewConsistent(t *testing.T, s *Store) {
	t.Helper()
	want := view.Compute(s.Products.Products(), s.Products.Criteria())
	assert.Equal(t, want, s.Products.View())
}
