// Package repository persists match snapshots for the sync collaborator.
package repository

import (
	"context"

	"github.com/okian/breakside/internal/domain/model"
)

// Store provides read/write access to archived match snapshots.
type Store interface {
	// SaveSnapshot persists a snapshot.
	SaveSnapshot(ctx context.Context, s model.Snapshot) error

	// Snapshot returns a snapshot by id.
	// Returns ErrNotFound when the id is unknown.
	Snapshot(ctx context.Context, id string) (model.Snapshot, error)

	// Latest returns the most recently taken snapshot.
	// Returns ErrNotFound on an empty store.
	Latest(ctx context.Context) (model.Snapshot, error)

	// Count returns the number of stored snapshots.
	Count(ctx context.Context) (int, error)

	// Close releases underlying resources.
	Close() error
}
