// Package leveldb keeps store snapshots in an embedded LevelDB database so
// they survive restarts.
package leveldb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mrops-br/catalog-store/internal/domain"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// BlobStore is a LevelDB implementation of domain.BlobStore
type BlobStore struct {
	db     *leveldb.DB
	tracer trace.Tracer
	logger *slog.Logger
}

// Open opens or creates the database at path
func Open(path string, tracer trace.Tracer, logger *slog.Logger) (*BlobStore, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "open " + path, Err: err}
	}
	return newBlobStore(db, tracer, logger), nil
}

// OpenStorage opens a database on an existing storage, e.g. storage.NewMemStorage()
func OpenStorage(stor storage.Storage, tracer trace.Tracer, logger *slog.Logger) (*BlobStore, error) {
	db, err := leveldb.Open(stor, nil)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "open storage", Err: err}
	}
	return newBlobStore(db, tracer, logger), nil
}

func newBlobStore(db *leveldb.DB, tracer trace.Tracer, logger *slog.Logger) *BlobStore {
	return &BlobStore{
		db:     db,
		tracer: tracer,
		logger: logger.With(slog.String("component", "leveldb_blob_store")),
	}
}

var _ domain.BlobStore = (*BlobStore)(nil)

// Put writes blob under key with a synced write
func (s *BlobStore) Put(ctx context.Context, key string, blob []byte) error {
	ctx, span := s.tracer.Start(ctx, "LevelDBBlobStore.Put")
	defer span.End()

	span.SetAttributes(
		attribute.String("blob.key", key),
		attribute.Int("blob.size", len(blob)),
	)

	if err := s.db.Put([]byte(key), blob, &opt.WriteOptions{Sync: true}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to store blob")
		return &domain.PersistenceError{Op: "put " + key, Err: err}
	}

	s.logger.DebugContext(ctx, "Blob stored",
		slog.String("key", key),
		slog.Int("size", len(blob)),
	)

	span.SetStatus(codes.Ok, "Blob stored")
	return nil
}

// Get reads the blob stored under key
func (s *BlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	_, span := s.tracer.Start(ctx, "LevelDBBlobStore.Get")
	defer span.End()

	span.SetAttributes(attribute.String("blob.key", key))

	blob, err := s.db.Get([]byte(key), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		span.SetStatus(codes.Error, "Blob not found")
		return nil, domain.ErrSnapshotNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to read blob")
		return nil, &domain.PersistenceError{Op: "get " + key, Err: err}
	}

	span.SetStatus(codes.Ok, "Blob found")
	return blob, nil
}

// Close releases the database
func (s *BlobStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close leveldb: %w", err)
	}
	return nil
}
