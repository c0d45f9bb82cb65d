package storage

import (
	"context"

	"github.com/finsight/cardpilot/core"
)

// SnapshotStore persists built catalog snapshots so a restart can serve
// requests without re-embedding the whole catalog.
// Implementations must be thread-safe and support concurrent access.
type SnapshotStore interface {
	// SaveSnapshot persists the snapshot, replacing any previously saved one.
	// The snapshot must pass core.ValidateSnapshot.
	SaveSnapshot(ctx context.Context, snap *core.Snapshot) error

	// LoadSnapshot retrieves the most recently saved snapshot.
	// Returns ErrNotFound when no snapshot has ever been saved.
	LoadSnapshot(ctx context.Context) (*core.Snapshot, error)

	// Close closes the storage backend and releases resources.
	Close() error
}
