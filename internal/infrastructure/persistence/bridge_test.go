package persistence

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/mrops-br/catalog-store/internal/domain"
	"github.com/mrops-br/catalog-store/internal/infrastructure/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newMemoryStore() *memory.BlobStore {
	return memory.NewBlobStore(tracenoop.NewTracerProvider().Tracer("test"), testLogger)
}

type failingStore struct{}

func (failingStore) Put(context.Context, string, []byte) error { return errors.New("disk full") }
func (failingStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("disk gone")
}

func sampleState() domain.StoreState {
	p := domain.Product{
		ID: "1", Title: "Backpack", Description: "bag",
		Category: domain.CategoryMensClothing, Image: "img", Price: 109.95, Liked: true,
	}
	line := domain.NewCartLine(p)
	line.SetQuantity(3)

	criteria := domain.NewViewCriteria(6)
	criteria.Filter = domain.FilterLiked
	criteria.SearchTerm = "back"

	return domain.StoreState{
		Products: []domain.Product{p},
		View:     []domain.Product{p},
		Criteria: criteria,
		Status:   domain.RequestStatus{State: domain.StatusSucceeded},
		Cart:     []domain.CartLine{line},
	}
}

func TestBridgeRoundTrip(t *testing.T) {
	ctx := context.Background()
	bridge := NewBridge(newMemoryStore(), "state", testLogger)

	want := sampleState()
	bridge.Save(ctx, want)

	got, ok := bridge.Load(ctx)
	require.True(t, ok)

	assert.Equal(t, want.Products, got.Products)
	assert.Equal(t, want.View, got.View)
	assert.Equal(t, want.Criteria, got.Criteria)
	assert.Equal(t, want.Status, got.Status)

	require.Len(t, got.Cart, 1)
	assert.Equal(t, 3, got.Cart[0].Quantity)
	assert.True(t, got.Cart[0].Price.Equal(decimal.RequireFromString("109.95")))
	assert.True(t, got.Cart[0].TotalPrice.Equal(decimal.RequireFromString("329.85")))
}

func TestBridgeLoadAbsent(t *testing.T) {
	ctx := context.Background()

	t.Run("nothing stored", func(t *testing.T) {
		_, ok := NewBridge(newMemoryStore(), "state", testLogger).Load(ctx)
		assert.False(t, ok)
	})

	t.Run("corrupt blob", func(t *testing.T) {
		store := newMemoryStore()
		require.NoError(t, store.Put(ctx, "state", []byte("{broken")))
		_, ok := NewBridge(store, "state", testLogger).Load(ctx)
		assert.False(t, ok)
	})

	t.Run("store failure", func(t *testing.T) {
		_, ok := NewBridge(failingStore{}, "state", testLogger).Load(ctx)
		assert.False(t, ok)
	})
}

func TestBridgeSaveFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	assert.NotPanics(t, func() {
		NewBridge(failingStore{}, "state", logger).Save(context.Background(), sampleState())
	})
	assert.Contains(t, buf.String(), "Failed to save snapshot")
	assert.Contains(t, buf.String(), "disk full")
}
