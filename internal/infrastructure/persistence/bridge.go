// Package persistence snapshots the store state into a blob store and reads
// it back at startup.
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/mrops-br/catalog-store/internal/domain"
)

// Bridge serializes StoreState as JSON under a single key
type Bridge struct {
	store  domain.BlobStore
	key    string
	logger *slog.Logger
}

// NewBridge creates a bridge writing to key in store
func NewBridge(store domain.BlobStore, key string, logger *slog.Logger) *Bridge {
	return &Bridge{
		store:  store,
		key:    key,
		logger: logger.With(slog.String("component", "persistence")),
	}
}

// Save writes the snapshot. It never fails the caller: a failed write is
// logged and the in-memory state stays authoritative.
func (b *Bridge) Save(ctx context.Context, state domain.StoreState) {
	if err := b.save(ctx, state); err != nil {
		b.logger.ErrorContext(ctx, "Failed to save snapshot",
			slog.String("key", b.key),
			slog.String("error", err.Error()),
		)
	}
}

func (b *Bridge) save(ctx context.Context, state domain.StoreState) error {
	blob, err := json.Marshal(state)
	if err != nil {
		return &domain.PersistenceError{Op: "encode", Err: err}
	}
	if err := b.store.Put(ctx, b.key, blob); err != nil {
		var perr *domain.PersistenceError
		if errors.As(err, &perr) {
			return err
		}
		return &domain.PersistenceError{Op: "write", Err: err}
	}

	b.logger.DebugContext(ctx, "Snapshot saved",
		slog.String("key", b.key),
		slog.Int("size", len(blob)),
	)
	return nil
}

// Load returns the stored snapshot. A missing, unreadable or corrupt blob
// reports false so the store starts from its initial state.
func (b *Bridge) Load(ctx context.Context) (domain.StoreState, bool) {
	blob, err := b.store.Get(ctx, b.key)
	if errors.Is(err, domain.ErrNotFound) {
		b.logger.InfoContext(ctx, "No snapshot found", slog.String("key", b.key))
		return domain.StoreState{}, false
	}
	if err != nil {
		b.logger.ErrorContext(ctx, "Failed to read snapshot",
			slog.String("key", b.key),
			slog.String("error", err.Error()),
		)
		return domain.StoreState{}, false
	}

	var state domain.StoreState
	if err := json.Unmarshal(blob, &state); err != nil {
		b.logger.WarnContext(ctx, "Discarding corrupt snapshot",
			slog.String("key", b.key),
			slog.String("error", (&domain.PersistenceError{Op: "decode", Err: err}).Error()),
		)
		return domain.StoreState{}, false
	}

	b.logger.InfoContext(ctx, "Snapshot loaded",
		slog.String("key", b.key),
		slog.Int("products", len(state.Products)),
		slog.Int("cart_lines", len(state.Cart)),
	)
	return state, true
}
