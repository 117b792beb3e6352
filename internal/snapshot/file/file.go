// Package file stores the snapshot as a JSON document on disk.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"dompetku/internal/snapshot"
)

// Store persists the state as <dir>/<StorageKey>.json. Writes go through a
// temp file and rename so a crash mid-write never leaves a truncated
// document behind.
type Store struct {
	path string
}

var _ snapshot.Store = (*Store)(nil)

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &Store{path: filepath.Join(dir, snapshot.StorageKey+".json")}, nil
}

// Load reads the stored document. Absent and corrupt documents both fail
// open to empty collections; corruption is logged, not surfaced.
func (s *Store) Load(ctx context.Context) snapshot.State {
	var state snapshot.State
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.InfoContext(ctx, "No snapshot on disk, starting empty", "path", s.path)
		} else {
			slog.WarnContext(ctx, "Snapshot unreadable, starting empty", "path", s.path, "error", err)
		}
		return state
	}
	if err := json.Unmarshal(data, &state); err != nil {
		slog.WarnContext(ctx, "Snapshot corrupt, starting empty", "path", s.path, "error", err)
		return snapshot.State{}
	}
	return state
}

// Save overwrites the stored document atomically.
func (s *Store) Save(ctx context.Context, state snapshot.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}

	slog.DebugContext(ctx, "Snapshot saved",
		"path", s.path,
		"transactions", len(state.Transactions),
		"debts", len(state.Debts),
		"savings", len(state.Savings))
	return nil
}

func (s *Store) Close() error { return nil }
