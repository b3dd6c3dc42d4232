// Package cache publishes the latest match snapshot to Redis so remote
// consumers can read live state without touching the core.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/okian/breakside/internal/domain/model"
)

// Key layout and TTLs.
const (
	liveSnapshotKey  = "breakside:match:live"
	snapshotKeyFmt   = "breakside:snapshot:%s"
	liveSnapshotTTL  = 2 * time.Hour
	finalSnapshotTTL = 24 * time.Hour
)

// Writer stores snapshots in Redis.
type Writer struct {
	client *redis.Client
}

// NewWriter creates a Redis writer for the given address.
func NewWriter(addr string) *Writer {
	return &Writer{client: redis.NewClient(&redis.Options{Addr: addr})}
}

// Name labels the sink in logs and metrics.
func (w *Writer) Name() string { return "redis" }

// Publish stores the snapshot under its own key and refreshes the live
// pointer. Ended matches get the longer TTL.
func (w *Writer) Publish(ctx context.Context, s model.Snapshot) error {
	const op = "cache.publish"

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("%s: marshal: %w", op, err)
	}

	ttl := liveSnapshotTTL
	if s.Ended {
		ttl = finalSnapshotTTL
	}

	pipe := w.client.Pipeline()
	pipe.Set(ctx, fmt.Sprintf(snapshotKeyFmt, s.ID), data, ttl)
	pipe.Set(ctx, liveSnapshotKey, data, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close releases the client.
func (w *Writer) Close() error { return w.client.Close() }
