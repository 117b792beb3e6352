package worker

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"dompetku/internal/amqp"
)

func TestAuditWorkerAppendsOneLinePerMessage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit", "audit.jsonl")

	w, err := NewAuditWorker(path)
	if err != nil {
		t.Fatalf("NewAuditWorker: %v", err)
	}
	defer w.Close()

	ctx := context.Background()
	msgs := []*amqp.ChangeMessage{
		{Entity: amqp.EntityTransaction, Action: amqp.ActionCreated, ID: "tx-1", Revision: 1, Timestamp: time.Now()},
		{Entity: amqp.EntityDebt, Action: amqp.ActionUpdated, ID: "debt-1", Revision: 2, Timestamp: time.Now()},
		{Entity: amqp.EntitySaving, Action: amqp.ActionDeleted, ID: "goal-1", Revision: 3, Timestamp: time.Now()},
	}
	for _, msg := range msgs {
		if err := w.HandleChangeMessage(ctx, msg); err != nil {
			t.Fatalf("HandleChangeMessage: %v", err)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open audit log: %v", err)
	}
	defer f.Close()

	var entries []AuditEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e AuditEntry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			t.Fatalf("invalid JSONL line %q: %v", scanner.Text(), err)
		}
		entries = append(entries, e)
	}

	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Entity != "transaction" || entries[0].Action != "created" || entries[0].EntityID != "tx-1" {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
	if entries[2].Revision != 3 {
		t.Errorf("expected revision 3, got %d", entries[2].Revision)
	}
}

func TestAuditWorkerAppendsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	ctx := context.Background()

	w, err := NewAuditWorker(path)
	if err != nil {
		t.Fatalf("NewAuditWorker: %v", err)
	}
	if err := w.HandleChangeMessage(ctx, &amqp.ChangeMessage{Entity: amqp.EntityTransaction, Action: amqp.ActionCreated, ID: "a", Revision: 1, Timestamp: time.Now()}); err != nil {
		t.Fatalf("HandleChangeMessage: %v", err)
	}
	w.Close()

	w2, err := NewAuditWorker(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer w2.Close()
	if err := w2.HandleChangeMessage(ctx, &amqp.ChangeMessage{Entity: amqp.EntityTransaction, Action: amqp.ActionDeleted, ID: "a", Revision: 2, Timestamp: time.Now()}); err != nil {
		t.Fatalf("HandleChangeMessage: %v", err)
	}

	body, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read audit log: %v", err)
	}
	lines := 0
	for _, b := range body {
		if b == '\n' {
			lines++
		}
	}
	if lines != 2 {
		t.Errorf("expected 2 lines after reopen, got %d", lines)
	}
}
