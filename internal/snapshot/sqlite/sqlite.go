// Package sqlite stores the snapshot as a blob in a one-key SQLite table.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"dompetku/internal/snapshot"

	_ "modernc.org/sqlite"
)

// Store keeps the whole state document in the snapshots table under the
// fixed storage key. The table is a durable key-value slot, nothing more;
// there is no row-per-entity schema.
type Store struct {
	db *sql.DB
}

var _ snapshot.Store = (*Store)(nil)

func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load reads the stored document. A missing row and a corrupt blob both
// fail open to empty collections.
func (s *Store) Load(ctx context.Context) snapshot.State {
	var state snapshot.State
	var body []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM snapshots WHERE key = ?`, snapshot.StorageKey).Scan(&body)
	if err == sql.ErrNoRows {
		slog.InfoContext(ctx, "No snapshot in database, starting empty", "key", snapshot.StorageKey)
		return state
	}
	if err != nil {
		slog.WarnContext(ctx, "Snapshot unreadable, starting empty", "key", snapshot.StorageKey, "error", err)
		return state
	}
	if err := json.Unmarshal(body, &state); err != nil {
		slog.WarnContext(ctx, "Snapshot corrupt, starting empty", "key", snapshot.StorageKey, "error", err)
		return snapshot.State{}
	}
	return state
}

// Save overwrites the stored document. Upsert keyed on the fixed storage
// key: last writer wins.
func (s *Store) Save(ctx context.Context, state snapshot.State) error {
	body, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots (key, body, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		snapshot.StorageKey, body, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	slog.DebugContext(ctx, "Snapshot saved",
		"key", snapshot.StorageKey,
		"bytes", len(body),
		"transactions", len(state.Transactions),
		"debts", len(state.Debts),
		"savings", len(state.Savings))
	return nil
}
