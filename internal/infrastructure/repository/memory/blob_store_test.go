package memory

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/mrops-br/catalog-store/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

func newTestBlobStore() *BlobStore {
	return NewBlobStore(
		tracenoop.NewTracerProvider().Tracer("test"),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func TestBlobStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestBlobStore()

	_, err := s.Get(ctx, "state")
	require.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	blob := []byte(`{"products":[]}`)
	require.NoError(t, s.Put(ctx, "state", blob))

	got, err := s.Get(ctx, "state")
	require.NoError(t, err)
	assert.Equal(t, blob, got)

	require.NoError(t, s.Put(ctx, "state", []byte("v2")))
	got, err = s.Get(ctx, "state")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got)
}

func TestBlobStoreCopies(t *testing.T) {
	ctx := context.Background()
	s := newTestBlobStore()

	blob := []byte("abc")
	require.NoError(t, s.Put(ctx, "k", blob))
	blob[0] = 'x'

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)

	got[1] = 'y'
	again, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}
