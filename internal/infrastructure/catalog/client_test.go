package catalog

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mrops-br/catalog-store/internal/domain"
	"github.com/mrops-br/catalog-store/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// fakeService mimics the public fake store API: numeric ids, the created
// product echoed back with a fixed id.
type fakeService struct {
	mu        sync.Mutex
	lastLimit string
	lastBody  map[string]any
	deleted   []string
}

func (f *fakeService) router() http.Handler {
	r := chi.NewRouter()
	r.Route("/products", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			f.mu.Lock()
			f.lastLimit = r.URL.Query().Get("limit")
			f.mu.Unlock()
			writeJSON(w, http.StatusOK, []map[string]any{
				{"id": 1, "title": "Backpack", "price": 109.95, "description": "bag", "category": "men's clothing", "image": "https://img/1.jpg"},
				{"id": "abc", "title": "Ring", "price": 9.99, "description": "ring", "category": "jewelery", "image": "https://img/2.jpg"},
			})
		})
		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			body := f.capture(r)
			body["id"] = 21
			writeJSON(w, http.StatusOK, body)
		})
		r.Get("/categories", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, []string{"electronics", "jewelery"})
		})
		r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
			if chi.URLParam(r, "id") != "1" {
				http.Error(w, "product not found", http.StatusNotFound)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"id": 1, "title": "Backpack", "price": 109.95})
		})
		r.Put("/{id}", func(w http.ResponseWriter, r *http.Request) {
			body := f.capture(r)
			writeJSON(w, http.StatusOK, body)
		})
		r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
			f.mu.Lock()
			f.deleted = append(f.deleted, chi.URLParam(r, "id"))
			f.mu.Unlock()
			w.WriteHeader(http.StatusOK)
		})
	})
	r.Get("/broken/products", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("{not json"))
	})
	return r
}

func (f *fakeService) capture(r *http.Request) map[string]any {
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	f.mu.Lock()
	f.lastBody = body
	f.mu.Unlock()
	return body
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	return NewClient(
		&config.CatalogConfig{BaseURL: baseURL, Timeout: 2 * time.Second},
		tracenoop.NewTracerProvider().Tracer("test"),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func setup(t *testing.T) (*Client, *fakeService) {
	t.Helper()
	svc := &fakeService{}
	srv := httptest.NewServer(svc.router())
	t.Cleanup(srv.Close)
	return newTestClient(t, srv.URL+"/products/"), svc
}

func TestClientList(t *testing.T) {
	c, svc := setup(t)

	products, err := c.List(context.Background(), 18)
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "18", svc.lastLimit)
	assert.Equal(t, domain.Product{
		ID:          "1",
		Title:       "Backpack",
		Description: "bag",
		Category:    domain.CategoryMensClothing,
		Image:       "https://img/1.jpg",
		Price:       109.95,
	}, products[0])
	assert.Equal(t, "abc", products[1].ID)
}

func TestClientGet(t *testing.T) {
	c, _ := setup(t)

	p, err := c.Get(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "1", p.ID)

	_, err = c.Get(context.Background(), "2")
	var remote *domain.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusNotFound, remote.StatusCode)
	assert.Equal(t, "product not found", remote.Message)
	assert.Equal(t, "http", remote.Kind())
	assert.ErrorIs(t, err, domain.ErrHTTP)
}

func TestClientCreate(t *testing.T) {
	c, svc := setup(t)

	p, err := c.Create(context.Background(), domain.ProductDraft{
		Title:       "Lamp",
		Description: "LED lamp",
		Category:    domain.CategoryElectronics,
		Image:       "https://img/lamp.png",
		Price:       24.5,
	})
	require.NoError(t, err)

	assert.Equal(t, "21", p.ID)
	assert.Equal(t, "Lamp", p.Title)
	assert.Equal(t, 24.5, p.Price)
	assert.NotContains(t, svc.lastBody, "id")
	assert.Equal(t, "electronics", svc.lastBody["category"])
}

func TestClientUpdateAndDelete(t *testing.T) {
	c, svc := setup(t)
	ctx := context.Background()

	p, err := c.Update(ctx, domain.Product{ID: "7", Title: "New", Description: "d", Category: "jewelery", Image: "i", Price: 3})
	require.NoError(t, err)
	assert.Equal(t, "7", p.ID)
	assert.Equal(t, "New", p.Title)
	assert.Equal(t, "7", svc.lastBody["id"])

	require.NoError(t, c.Delete(ctx, "7"))
	assert.Equal(t, []string{"7"}, svc.deleted)
}

func TestClientListCategories(t *testing.T) {
	c, _ := setup(t)

	categories, err := c.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"electronics", "jewelery"}, categories)
}

func TestClientErrors(t *testing.T) {
	t.Run("transport failure is a network error", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		baseURL := srv.URL
		srv.Close()

		c := newTestClient(t, baseURL)
		_, err := c.List(context.Background(), 5)

		var remote *domain.RemoteError
		require.ErrorAs(t, err, &remote)
		assert.Equal(t, "network", remote.Kind())
		assert.ErrorIs(t, err, domain.ErrNetwork)
		assert.NotErrorIs(t, err, domain.ErrHTTP)
	})

	t.Run("server error keeps status text", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		t.Cleanup(srv.Close)

		err := newTestClient(t, srv.URL).Delete(context.Background(), "1")
		var remote *domain.RemoteError
		require.ErrorAs(t, err, &remote)
		assert.Equal(t, http.StatusBadGateway, remote.StatusCode)
		assert.Equal(t, "Bad Gateway", remote.Message)
	})

	t.Run("malformed body", func(t *testing.T) {
		svc := &fakeService{}
		srv := httptest.NewServer(svc.router())
		t.Cleanup(srv.Close)

		_, err := newTestClient(t, srv.URL+"/broken/products").List(context.Background(), 1)
		assert.ErrorIs(t, err, domain.ErrNetwork)
	})
}

func TestProductIDUnmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want productID
	}{
		{`12`, "12"},
		{`"a-b"`, "a-b"},
		{`null`, ""},
		{`1700000000000`, "1700000000000"},
	}
	for _, tt := range tests {
		var id productID
		require.NoError(t, json.Unmarshal([]byte(tt.in), &id), tt.in)
		assert.Equal(t, tt.want, id)
	}

	var id productID
	assert.Error(t, json.Unmarshal([]byte(`{}`), &id))
}
