package memory

import (
	"bytes"
	"context"
	"log/slog"
	"sync"

	"github.com/mrops-br/catalog-store/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// BlobStore is an in-memory implementation of domain.BlobStore. Snapshots
// do not survive a restart.
type BlobStore struct {
	mu     sync.RWMutex
	blobs  map[string][]byte
	tracer trace.Tracer
	logger *slog.Logger
}

// NewBlobStore creates a new in-memory blob store
func NewBlobStore(tracer trace.Tracer, logger *slog.Logger) *BlobStore {
	return &BlobStore{
		blobs:  make(map[string][]byte),
		tracer: tracer,
		logger: logger,
	}
}

var _ domain.BlobStore = (*BlobStore)(nil)

// Put stores a copy of blob under key
func (s *BlobStore) Put(ctx context.Context, key string, blob []byte) error {
	ctx, span := s.tracer.Start(ctx, "MemoryBlobStore.Put")
	defer span.End()

	span.SetAttributes(
		attribute.String("blob.key", key),
		attribute.Int("blob.size", len(blob)),
	)

	s.mu.Lock()
	s.blobs[key] = bytes.Clone(blob)
	s.mu.Unlock()

	s.logger.DebugContext(ctx, "Blob stored in memory",
		slog.String("key", key),
		slog.Int("size", len(blob)),
	)

	span.SetStatus(codes.Ok, "Blob stored")
	return nil
}

// Get returns a copy of the blob stored under key
func (s *BlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	_, span := s.tracer.Start(ctx, "MemoryBlobStore.Get")
	defer span.End()

	span.SetAttributes(attribute.String("blob.key", key))

	s.mu.RLock()
	blob, exists := s.blobs[key]
	s.mu.RUnlock()

	if !exists {
		span.SetStatus(codes.Error, "Blob not found")
		return nil, domain.ErrSnapshotNotFound
	}

	span.SetStatus(codes.Ok, "Blob found")
	return bytes.Clone(blob), nil
}
