package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/okian/breakside/internal/domain/model"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteStore persists snapshots in a SQLite database. The full snapshot
// is stored as a JSON payload; score columns exist for ad-hoc queries.
type SQLiteStore struct {
	conn *sql.DB
}

// OpenSQLite opens (or creates) the database at path and applies the
// schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	const op = "repository.open_sqlite"

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL", path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: apply schema: %w", op, err)
	}
	return &SQLiteStore{conn: conn}, nil
}

// SaveSnapshot persists a snapshot.
func (s *SQLiteStore) SaveSnapshot(ctx context.Context, snap model.Snapshot) error {
	const op = "repository.save_snapshot"

	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("%s: marshal: %w", op, err)
	}
	_, err = s.conn.ExecContext(ctx, `
		INSERT OR REPLACE INTO snapshots (id, taken_at, home_score, away_score, ended, payload)
		VALUES (?, ?, ?, ?, ?, ?)`,
		snap.ID, snap.TakenAt.Format(time.RFC3339Nano), snap.HomeScore, snap.AwayScore,
		boolToInt(snap.Ended), string(payload),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Snapshot returns a snapshot by id.
func (s *SQLiteStore) Snapshot(ctx context.Context, id string) (model.Snapshot, error) {
	const op = "repository.snapshot"

	row := s.conn.QueryRowContext(ctx, `SELECT payload FROM snapshots WHERE id = ?`, id)
	return scanSnapshot(op, row)
}

// Latest returns the most recently taken snapshot.
func (s *SQLiteStore) Latest(ctx context.Context) (model.Snapshot, error) {
	const op = "repository.latest"

	row := s.conn.QueryRowContext(ctx,
		`SELECT payload FROM snapshots ORDER BY taken_at DESC LIMIT 1`)
	return scanSnapshot(op, row)
}

// Count returns the number of stored snapshots.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	const op = "repository.count"

	var n int
	if err := s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshots`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// Close closes the underlying connection.
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

func scanSnapshot(op string, row *sql.Row) (model.Snapshot, error) {
	var payload string
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Snapshot{}, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return model.Snapshot{}, fmt.Errorf("%s: %w", op, err)
	}
	var snap model.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return model.Snapshot{}, fmt.Errorf("%s: unmarshal: %w", op, err)
	}
	return snap, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
