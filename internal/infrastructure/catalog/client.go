// Package catalog talks to the remote product catalog service over REST.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mrops-br/catalog-store/internal/domain"
	"github.com/mrops-br/catalog-store/internal/infrastructure/config"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// maxErrorBody caps how much of an error response is kept as the message
const maxErrorBody = 4 << 10

// Client is the HTTP implementation of domain.CatalogClient. The base URL
// points at the products collection, e.g. https://fakestoreapi.com/products.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tracer     trace.Tracer
	logger     *slog.Logger
}

// NewClient creates a catalog client with an instrumented transport
func NewClient(cfg *config.CatalogConfig, tracer trace.Tracer, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		tracer: tracer,
		logger: logger.With(slog.String("component", "catalog_client")),
	}
}

var _ domain.CatalogClient = (*Client)(nil)

// List fetches up to limit products
func (c *Client) List(ctx context.Context, limit int) ([]domain.Product, error) {
	ctx, span := c.tracer.Start(ctx, "CatalogClient.List")
	defer span.End()

	span.SetAttributes(attribute.Int("catalog.limit", limit))

	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	target := c.baseURL
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var payload []productPayload
	if err := c.do(ctx, span, "list products", http.MethodGet, target, nil, &payload); err != nil {
		return nil, err
	}

	products := make([]domain.Product, len(payload))
	for i, p := range payload {
		products[i] = p.toDomain()
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))
	span.SetStatus(codes.Ok, "Products listed")
	return products, nil
}

// Get fetches one product
func (c *Client) Get(ctx context.Context, id string) (*domain.Product, error) {
	ctx, span := c.tracer.Start(ctx, "CatalogClient.Get")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	var payload productPayload
	if err := c.do(ctx, span, "get product", http.MethodGet, c.productURL(id), nil, &payload); err != nil {
		return nil, err
	}
	if payload.ID == "" {
		payload.ID = productID(id)
	}

	p := payload.toDomain()
	span.SetStatus(codes.Ok, "Product fetched")
	return &p, nil
}

// Create posts a new product. Fields the service leaves out of its
// response keep the submitted values; the id may come back empty.
func (c *Client) Create(ctx context.Context, draft domain.ProductDraft) (*domain.Product, error) {
	ctx, span := c.tracer.Start(ctx, "CatalogClient.Create")
	defer span.End()

	payload := fromDraft(draft)
	if err := c.do(ctx, span, "create product", http.MethodPost, c.baseURL, payload, &payload); err != nil {
		return nil, err
	}

	p := payload.toDomain()
	span.SetAttributes(attribute.String("product.id", p.ID))
	span.SetStatus(codes.Ok, "Product created")
	return &p, nil
}

// Update replaces a product
func (c *Client) Update(ctx context.Context, product domain.Product) (*domain.Product, error) {
	ctx, span := c.tracer.Start(ctx, "CatalogClient.Update")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", product.ID))

	payload := fromProduct(product)
	if err := c.do(ctx, span, "update product", http.MethodPut, c.productURL(product.ID), payload, &payload); err != nil {
		return nil, err
	}

	p := payload.toDomain()
	p.ID = product.ID
	span.SetStatus(codes.Ok, "Product updated")
	return &p, nil
}

// Delete removes a product
func (c *Client) Delete(ctx context.Context, id string) error {
	ctx, span := c.tracer.Start(ctx, "CatalogClient.Delete")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	if err := c.do(ctx, span, "delete product", http.MethodDelete, c.productURL(id), nil, nil); err != nil {
		return err
	}

	span.SetStatus(codes.Ok, "Product deleted")
	return nil
}

// ListCategories fetches the category names
func (c *Client) ListCategories(ctx context.Context) ([]string, error) {
	ctx, span := c.tracer.Start(ctx, "CatalogClient.ListCategories")
	defer span.End()

	var categories []string
	if err := c.do(ctx, span, "list categories", http.MethodGet, c.baseURL+"/categories", nil, &categories); err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []string{}
	}

	span.SetAttributes(attribute.Int("category.count", len(categories)))
	span.SetStatus(codes.Ok, "Categories listed")
	return categories, nil
}

func (c *Client) productURL(id string) string {
	return c.baseURL + "/" + url.PathEscape(id)
}

// do performs one request. Transport failures and undecodable bodies become
// network errors, non-2xx responses become http errors. An empty 2xx body
// leaves out untouched.
func (c *Client) do(ctx context.Context, span trace.Span, op, method, target string, body, out any) error {
	fail := func(err *domain.RemoteError) error {
		span.RecordError(err)
		span.SetStatus(codes.Error, op+" failed")
		c.logger.ErrorContext(ctx, "Catalog request failed",
			slog.String("operation", op),
			slog.String("method", method),
			slog.String("error", err.Error()),
		)
		return err
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fail(&domain.RemoteError{Op: op, Err: fmt.Errorf("encode request: %w", err)})
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fail(&domain.RemoteError{Op: op, Err: fmt.Errorf("build request: %w", err)})
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.DebugContext(ctx, "Sending catalog request",
		slog.String("method", method),
		slog.String("url", target),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fail(&domain.RemoteError{Op: op, Err: err})
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg := strings.TrimSpace(string(data))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return fail(&domain.RemoteError{Op: op, StatusCode: resp.StatusCode, Message: msg})
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fail(&domain.RemoteError{Op: op, Err: fmt.Errorf("decode response: %w", err)})
	}
	return nil
}
