package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/mrops-br/catalog-store/internal/app/view"
	"github.com/mrops-br/catalog-store/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

// DefaultListLimit is how many products a catalog load asks for
const DefaultListLimit = 18

// ProductStore owns the product collection, the view criteria, the cached
// derived view and the catalog fetch status.
//
// Every mutation of products or criteria recomputes the derived view while
// holding mu, so readers never see a view that is stale relative to the
// collection. Catalog calls are made with mu released.
type ProductStore struct {
	catalog    domain.CatalogClient
	listLimit  int
	tracer     trace.Tracer
	logger     *slog.Logger
	operations metric.Int64Counter
	onChange   func()

	mu       sync.Mutex
	products []domain.Product
	view     []domain.Product
	criteria domain.ViewCriteria
	status   domain.RequestStatus

	deletes singleflight.Group
}

func newProductStore(
	catalog domain.CatalogClient,
	opts Options,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
	onChange func(),
) *ProductStore {
	operations, _ := meter.Int64Counter(
		"catalog.operations",
		metric.WithDescription("Total number of catalog store operations"),
	)

	s := &ProductStore{
		catalog:    catalog,
		listLimit:  opts.ListLimit,
		tracer:     tracer,
		logger:     logger.With(slog.String("component", "product_store")),
		operations: operations,
		onChange:   onChange,
		products:   []domain.Product{},
		view:       []domain.Product{},
		criteria:   domain.NewViewCriteria(opts.PageSize),
		status:     domain.RequestStatus{State: domain.StatusIdle},
	}
	if s.listLimit <= 0 {
		s.listLimit = DefaultListLimit
	}
	return s
}

// LoadCatalog fetches the product list and replaces the collection with it.
// A call made while a load is already in flight returns nil without issuing
// a second request.
func (s *ProductStore) LoadCatalog(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "ProductStore.LoadCatalog")
	defer span.End()

	s.mu.Lock()
	if s.status.State == domain.StatusLoading {
		s.mu.Unlock()
		span.SetAttributes(attribute.Bool("catalog.load.deduplicated", true))
		s.logger.DebugContext(ctx, "Catalog load already in flight")
		return nil
	}
	s.status = domain.RequestStatus{State: domain.StatusLoading}
	s.mu.Unlock()
	s.changed()

	s.logger.InfoContext(ctx, "Loading catalog", slog.Int("limit", s.listLimit))

	products, err := s.catalog.List(ctx, s.listLimit)
	if err != nil {
		s.mu.Lock()
		s.status = domain.RequestStatus{State: domain.StatusFailed, Error: err.Error()}
		s.mu.Unlock()
		s.changed()
		return s.fail(ctx, span, "load", "Failed to load catalog", err)
	}

	s.mu.Lock()
	liked := make(map[string]bool, len(s.products))
	for _, p := range s.products {
		liked[p.ID] = p.Liked
	}
	next := make([]domain.Product, 0, len(products))
	seen := make(map[string]struct{}, len(products))
	for _, p := range products {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		p.Liked = liked[p.ID]
		next = append(next, p)
	}
	s.products = next
	s.recompute()
	s.status = domain.RequestStatus{State: domain.StatusSucceeded}
	s.mu.Unlock()
	s.changed()

	span.SetAttributes(attribute.Int("product.count", len(next)))
	s.record(ctx, "load", "success")
	s.logger.InfoContext(ctx, "Catalog loaded", slog.Int("count", len(next)))

	span.SetStatus(codes.Ok, "Catalog loaded")
	return nil
}

// EnsureLoaded loads the catalog unless it is loaded or loading already.
// It is safe to call on every render.
func (s *ProductStore) EnsureLoaded(ctx context.Context) error {
	s.mu.Lock()
	state := s.status.State
	s.mu.Unlock()

	if state == domain.StatusLoading || state == domain.StatusSucceeded {
		return nil
	}
	return s.LoadCatalog(ctx)
}

// CreateProduct validates the draft, asks the catalog service to create it
// and appends the confirmed product.
func (s *ProductStore) CreateProduct(ctx context.Context, draft domain.ProductDraft) (domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "ProductStore.CreateProduct")
	defer span.End()

	span.SetAttributes(
		attribute.String("product.title", draft.Title),
		attribute.Float64("product.price", draft.Price),
	)

	if err := draft.Validate(); err != nil {
		return domain.Product{}, s.fail(ctx, span, "create", "Product draft rejected", err)
	}

	created, err := s.catalog.Create(ctx, draft)
	if err != nil {
		return domain.Product{}, s.fail(ctx, span, "create", "Failed to create product", err)
	}

	p := *created
	p.Liked = false

	s.mu.Lock()
	if p.ID == "" || s.indexOf(p.ID) >= 0 {
		p.ID = uuid.NewString()
	}
	s.products = append(s.products, p)
	s.recompute()
	s.mu.Unlock()
	s.changed()

	span.SetAttributes(attribute.String("product.id", p.ID))
	s.record(ctx, "create", "success")
	s.logger.InfoContext(ctx, "Product created", slog.String("product_id", p.ID))

	span.SetStatus(codes.Ok, "Product created")
	return p, nil
}

// UpdateProduct sends the edited product to the catalog service and
// replaces the local entry once the service confirms. The local liked flag
// is kept.
func (s *ProductStore) UpdateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "ProductStore.UpdateProduct")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", product.ID))

	if err := product.Validate(); err != nil {
		return domain.Product{}, s.fail(ctx, span, "update", "Product update rejected", err)
	}
	if _, err := s.Product(product.ID); err != nil {
		return domain.Product{}, s.fail(ctx, span, "update", "Product to update not found", err)
	}

	updated, err := s.catalog.Update(ctx, product)
	if err != nil {
		return domain.Product{}, s.fail(ctx, span, "update", "Failed to update product", err)
	}

	p := *updated
	p.ID = product.ID

	s.mu.Lock()
	idx := s.indexOf(p.ID)
	if idx >= 0 {
		p.Liked = s.products[idx].Liked
		s.products[idx] = p
		s.recompute()
	}
	s.mu.Unlock()

	if idx < 0 {
		s.logger.WarnContext(ctx, "Updated product vanished before the update was applied",
			slog.String("product_id", p.ID),
		)
	} else {
		s.changed()
	}

	s.record(ctx, "update", "success")
	s.logger.InfoContext(ctx, "Product updated", slog.String("product_id", p.ID))

	span.SetStatus(codes.Ok, "Product updated")
	return p, nil
}

// DeleteProduct removes the product after the catalog service confirms.
// Concurrent deletes of the same id share one request.
func (s *ProductStore) DeleteProduct(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "ProductStore.DeleteProduct")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	if _, err := s.Product(id); err != nil {
		return s.fail(ctx, span, "delete", "Product to delete not found", err)
	}

	// The shared request outlives any single caller; each caller stops
	// waiting when its own context ends.
	shared := context.WithoutCancel(ctx)
	ch := s.deletes.DoChan(id, func() (any, error) {
		if err := s.catalog.Delete(shared, id); err != nil {
			return nil, err
		}
		s.removeProduct(id)
		return nil, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return s.fail(ctx, span, "delete", "Delete abandoned by caller", ctx.Err())
	}
	span.SetAttributes(attribute.Bool("catalog.delete.shared", res.Shared))
	if res.Err != nil {
		return s.fail(ctx, span, "delete", "Failed to delete product", res.Err)
	}

	s.record(ctx, "delete", "success")
	s.logger.InfoContext(ctx, "Product deleted", slog.String("product_id", id))

	span.SetStatus(codes.Ok, "Product deleted")
	return nil
}

func (s *ProductStore) removeProduct(id string) {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx >= 0 {
		s.products = slices.Delete(s.products, idx, idx+1)
		s.recompute()
	}
	s.mu.Unlock()

	if idx >= 0 {
		s.changed()
	}
}

// ToggleLike flips the liked flag of a product. It never calls the catalog.
func (s *ProductStore) ToggleLike(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		s.record(ctx, "like", "not_found")
		return false, domain.ErrProductNotFound
	}
	s.products[idx].Liked = !s.products[idx].Liked
	liked := s.products[idx].Liked
	s.recompute()
	s.mu.Unlock()
	s.changed()

	s.record(ctx, "like", "success")
	s.logger.DebugContext(ctx, "Product like toggled",
		slog.String("product_id", id),
		slog.Bool("liked", liked),
	)
	return liked, nil
}

// SetFilter switches the like filter and resets the page cursor
func (s *ProductStore) SetFilter(ctx context.Context, mode domain.FilterMode) error {
	mode, err := domain.ParseFilterMode(string(mode))
	if err != nil {
		s.record(ctx, "filter", "invalid")
		return err
	}

	s.updateCriteria(ctx, "filter", func(c *domain.ViewCriteria) {
		c.Filter = mode
	})
	return nil
}

// SetSearchTerm changes the title search and resets the page cursor
func (s *ProductStore) SetSearchTerm(ctx context.Context, term string) {
	s.updateCriteria(ctx, "search", func(c *domain.ViewCriteria) {
		c.SearchTerm = term
	})
}

// SetSelectedCategories replaces the category selection and resets the page cursor.
// An empty selection shows every category.
func (s *ProductStore) SetSelectedCategories(ctx context.Context, categories []string) {
	selected := make([]string, 0, len(categories))
	for _, c := range categories {
		if !slices.Contains(selected, c) {
			selected = append(selected, c)
		}
	}

	s.updateCriteria(ctx, "categories", func(c *domain.ViewCriteria) {
		c.SelectedCategories = selected
	})
}

// SetCurrentPage moves the pagination cursor. Pagination is a read-time
// slice, so the derived view is left alone.
func (s *ProductStore) SetCurrentPage(ctx context.Context, page int) {
	page = max(page, 1)

	s.mu.Lock()
	s.criteria.CurrentPage = page
	s.mu.Unlock()
	s.changed()

	s.record(ctx, "page", "success")
}

func (s *ProductStore) updateCriteria(ctx context.Context, op string, apply func(*domain.ViewCriteria)) {
	s.mu.Lock()
	apply(&s.criteria)
	s.criteria.CurrentPage = 1
	s.recompute()
	visible := len(s.view)
	s.mu.Unlock()
	s.changed()

	s.record(ctx, op, "success")
	s.logger.DebugContext(ctx, "View criteria changed",
		slog.String("criterion", op),
		slog.Int("visible", visible),
	)
}

// View returns the cached derived view
func (s *ProductStore) View() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.view)
}

// Page returns the current page of the derived view
func (s *ProductStore) Page() view.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return view.Paginate(s.view, s.criteria.CurrentPage, s.criteria.PageSize)
}

// Criteria returns the active view criteria
func (s *ProductStore) Criteria() domain.ViewCriteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneCriteria(s.criteria)
}

// Status returns the catalog fetch status
func (s *ProductStore) Status() domain.RequestStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Products returns the whole collection in source order
func (s *ProductStore) Products() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.products)
}

// Product looks up a product held by the store
func (s *ProductStore) Product(id string) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return s.products[idx], nil
}

// ProductDetails returns the local entry when the store has one and falls
// back to the catalog service otherwise.
func (s *ProductStore) ProductDetails(ctx context.Context, id string) (domain.Product, error) {
	if p, err := s.Product(id); err == nil {
		return p, nil
	}

	ctx, span := s.tracer.Start(ctx, "ProductStore.ProductDetails")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	p, err := s.catalog.Get(ctx, id)
	if err != nil {
		var remote *domain.RemoteError
		if errors.As(err, &remote) && remote.StatusCode == http.StatusNotFound {
			err = domain.ErrProductNotFound
		}
		return domain.Product{}, s.fail(ctx, span, "details", "Failed to fetch product details", err)
	}

	s.record(ctx, "details", "success")
	span.SetStatus(codes.Ok, "Product details fetched")
	return *p, nil
}

// Categories lists the categories known to the catalog service
func (s *ProductStore) Categories(ctx context.Context) ([]string, error) {
	ctx, span := s.tracer.Start(ctx, "ProductStore.Categories")
	defer span.End()

	categories, err := s.catalog.ListCategories(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, "categories", "Failed to list categories", err)
	}

	span.SetAttributes(attribute.Int("category.count", len(categories)))
	s.record(ctx, "categories", "success")

	span.SetStatus(codes.Ok, "Categories listed")
	return categories, nil
}

func (s *ProductStore) snapshot(state *domain.StoreState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state.Products = slices.Clone(s.products)
	state.View = slices.Clone(s.view)
	state.Criteria = cloneCriteria(s.criteria)
	state.Status = s.status
}

func (s *ProductStore) restore(state domain.StoreState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	products := make([]domain.Product, 0, len(state.Products))
	seen := make(map[string]struct{}, len(state.Products))
	for _, p := range state.Products {
		if _, dup := seen[p.ID]; dup || p.ID == "" {
			continue
		}
		seen[p.ID] = struct{}{}
		products = append(products, p)
	}
	s.products = products

	criteria := cloneCriteria(state.Criteria)
	if mode, err := domain.ParseFilterMode(string(criteria.Filter)); err == nil {
		criteria.Filter = mode
	} else {
		criteria.Filter = domain.FilterAll
	}
	criteria.CurrentPage = max(criteria.CurrentPage, 1)
	// page size is configuration, not session state
	criteria.PageSize = s.criteria.PageSize
	s.criteria = criteria

	// A load cannot survive a restart.
	s.status = state.Status
	if s.status.State == "" || s.status.State == domain.StatusLoading {
		s.status = domain.RequestStatus{State: domain.StatusIdle}
	}

	s.recompute()
}

// recompute must be called with mu held
func (s *ProductStore) recompute() {
	s.view = view.Compute(s.products, s.criteria)
}

func (s *ProductStore) indexOf(id string) int {
	return slices.IndexFunc(s.products, func(p domain.Product) bool {
		return p.ID == id
	})
}

func (s *ProductStore) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}

func (s *ProductStore) record(ctx context.Context, operation, result string) {
	s.operations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("result", result),
		),
	)
}

func (s *ProductStore) fail(ctx context.Context, span trace.Span, operation, msg string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)

	result := resultOf(err)
	level := slog.LevelError
	if result != "failure" {
		level = slog.LevelWarn
	}
	s.logger.Log(ctx, level, msg,
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
	s.record(ctx, operation, result)
	return err
}

func resultOf(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	}
	return "failure"
}

func cloneCriteria(c domain.ViewCriteria) domain.ViewCriteria {
	c.SelectedCategories = slices.Clone(c.SelectedCategories)
	if c.SelectedCategories == nil {
		c.SelectedCategories = []string{}
	}
	return c
}
