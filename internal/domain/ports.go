package domain

import (
	"context"
)

// CatalogClient defines the contract for the remote catalog service
type CatalogClient interface {
	List(ctx context.Context, limit int) ([]Product, error)
	Get(ctx context.Context, id string) (*Product, error)
	Create(ctx context.Context, draft ProductDraft) (*Product, error)
	Update(ctx context.Context, product Product) (*Product, error)
	Delete(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]string, error)
}

// BlobStore is a key-value store of opaque snapshots
type BlobStore interface {
	Put(ctx context.Context, key string, blob []byte) error
	// Get returns ErrSnapshotNotFound when nothing is stored under key
	Get(ctx context.Context, key string) ([]byte, error)
}
