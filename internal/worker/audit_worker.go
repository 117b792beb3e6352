package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"dompetku/internal/amqp"
)

// AuditEntry is one line of the append-only audit trail.
type AuditEntry struct {
	Entity     string `json:"entity"`
	Action     string `json:"action"`
	EntityID   string `json:"entityId"`
	Revision   int64  `json:"revision"`
	ChangedAt  string `json:"changedAt"`
	RecordedAt string `json:"recordedAt"`
}

// AuditWorker appends domain change messages to a JSONL audit log.
// Each consumed message becomes exactly one line; failures to write
// are returned so the broker redelivers the message.
type AuditWorker struct {
	mu      sync.Mutex
	path    string
	file    *os.File
	encoder *json.Encoder
}

// NewAuditWorker opens (or creates) the audit log at path in append mode.
func NewAuditWorker(path string) (*AuditWorker, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create audit log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}

	return &AuditWorker{
		path:    path,
		file:    f,
		encoder: json.NewEncoder(f),
	}, nil
}

// HandleChangeMessage records a single change message in the audit log.
func (w *AuditWorker) HandleChangeMessage(ctx context.Context, msg *amqp.ChangeMessage) error {
	entry := AuditEntry{
		Entity:     msg.Entity,
		Action:     msg.Action,
		EntityID:   msg.ID,
		Revision:   msg.Revision,
		ChangedAt:  msg.Timestamp.UTC().Format(time.RFC3339),
		RecordedAt: time.Now().UTC().Format(time.RFC3339),
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.encoder.Encode(entry); err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}

	slog.InfoContext(ctx, "Recorded change",
		"entity", msg.Entity,
		"action", msg.Action,
		"id", msg.ID,
		"revision", msg.Revision)

	return nil
}

// Close flushes and closes the underlying log file.
func (w *AuditWorker) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}
