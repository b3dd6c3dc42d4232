package repository

import (
	"context"
	"fmt"

	"github.com/okian/breakside/internal/domain/model"
)

// ArchiveSink adapts a Store to the snapshot publisher pipeline.
type ArchiveSink struct {
	store Store
}

// NewArchiveSink wraps the given store as a publish sink.
func NewArchiveSink(s Store) *ArchiveSink {
	return &ArchiveSink{store: s}
}

// Name identifies the sink in logs and metrics.
func (a *ArchiveSink) Name() string { return "archive" }

// Publish persists the snapshot.
func (a *ArchiveSink) Publish(ctx context.Context, snap model.Snapshot) error {
	const op = "repository.archive_sink.publish"
	if err := a.store.SaveSnapshot(ctx, snap); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
