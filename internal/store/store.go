// Package store holds the in-process source of truth for the three
// collections. All mutation goes through it; it is the only writer to the
// snapshot backend shelf.
package store

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"dompetku/internal/amqp"
	"dompetku/internal/core"
	"dompetku/internal/snapshot"

	"github.com/google/uuid"
)

// EventPublisher is the optional change side channel. A nil publisher
// disables it.
type EventPublisher interface {
	PublishChange(ctx context.Context, entity, action, id string) error
}

// Store owns the collections. Mutations follow a fixed shape: update the
// collection in memory, persist the full snapshot, then announce the change.
// Snapshot and publish failures are logged and swallowed; no mutation
// returns an error, and mutations on absent ids are silent no-ops.
type Store struct {
	mu           sync.Mutex
	transactions []core.Transaction
	debts        []core.Debt
	savings      []core.SavingsGoal

	saver  snapshot.Saver
	events EventPublisher
}

// New builds a store seeded from a loaded snapshot. events may be nil.
func New(initial snapshot.State, saver snapshot.Saver, events EventPublisher) *Store {
	return &Store{
		transactions: append([]core.Transaction(nil), initial.Transactions...),
		debts:        append([]core.Debt(nil), initial.Debts...),
		savings:      append([]core.SavingsGoal(nil), initial.Savings...),
		saver:        saver,
		events:       events,
	}
}

func newID() string {
	return uuid.New().String()
}

// AddTransaction assigns a fresh id and prepends the entry. The store
// accepts any well-typed value; entry validation is the caller's job.
func (s *Store) AddTransaction(ctx context.Context, t core.Transaction) core.Transaction {
	t.ID = newID()

	s.mu.Lock()
	s.transactions = append([]core.Transaction{t}, s.transactions...)
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.publish(ctx, amqp.EntityTransaction, amqp.ActionCreated, t.ID)
	return t
}

// DeleteTransaction removes the matching entry. Unknown ids are a no-op.
func (s *Store) DeleteTransaction(ctx context.Context, id string) {
	s.mu.Lock()
	before := len(s.transactions)
	s.transactions = deleteByID(s.transactions, id, func(t core.Transaction) string { return t.ID })
	removed := len(s.transactions) != before
	if removed {
		s.persistLocked(ctx)
	}
	s.mu.Unlock()

	if removed {
		s.publish(ctx, amqp.EntityTransaction, amqp.ActionDeleted, id)
	}
}

// AddDebt assigns a fresh id and prepends the entry. New debts always start
// unpaid.
func (s *Store) AddDebt(ctx context.Context, d core.Debt) core.Debt {
	d.ID = newID()
	d.IsPaid = false

	s.mu.Lock()
	s.debts = append([]core.Debt{d}, s.debts...)
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.publish(ctx, amqp.EntityDebt, amqp.ActionCreated, d.ID)
	return d
}

// ToggleDebtStatus flips IsPaid on the matching entry. Unknown ids are a
// no-op; toggling twice restores the original status.
func (s *Store) ToggleDebtStatus(ctx context.Context, id string) {
	s.mu.Lock()
	flipped := false
	for i := range s.debts {
		if s.debts[i].ID == id {
			s.debts[i].IsPaid = !s.debts[i].IsPaid
			flipped = true
			break
		}
	}
	if flipped {
		s.persistLocked(ctx)
	}
	s.mu.Unlock()

	if flipped {
		s.publish(ctx, amqp.EntityDebt, amqp.ActionUpdated, id)
	}
}

// DeleteDebt removes the matching entry. Unknown ids are a no-op.
func (s *Store) DeleteDebt(ctx context.Context, id string) {
	s.mu.Lock()
	before := len(s.debts)
	s.debts = deleteByID(s.debts, id, func(d core.Debt) string { return d.ID })
	removed := len(s.debts) != before
	if removed {
		s.persistLocked(ctx)
	}
	s.mu.Unlock()

	if removed {
		s.publish(ctx, amqp.EntityDebt, amqp.ActionDeleted, id)
	}
}

// AddSaving assigns a fresh id and prepends the goal. Progress always
// starts at zero.
func (s *Store) AddSaving(ctx context.Context, g core.SavingsGoal) core.SavingsGoal {
	g.ID = newID()
	g.CurrentAmount = core.Money{}

	s.mu.Lock()
	s.savings = append([]core.SavingsGoal{g}, s.savings...)
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.publish(ctx, amqp.EntitySaving, amqp.ActionCreated, g.ID)
	return g
}

// UpdateSavingAmount sets CurrentAmount to the given absolute value, not a
// delta. Callers recording a deposit read the current value and add to it
// first. Unknown ids are a no-op.
func (s *Store) UpdateSavingAmount(ctx context.Context, id string, amount core.Money) {
	s.mu.Lock()
	updated := false
	for i := range s.savings {
		if s.savings[i].ID == id {
			s.savings[i].CurrentAmount = amount
			updated = true
			break
		}
	}
	if updated {
		s.persistLocked(ctx)
	}
	s.mu.Unlock()

	if updated {
		s.publish(ctx, amqp.EntitySaving, amqp.ActionUpdated, id)
	}
}

// DeleteSaving removes the matching goal. Unknown ids are a no-op.
func (s *Store) DeleteSaving(ctx context.Context, id string) {
	s.mu.Lock()
	before := len(s.savings)
	s.savings = deleteByID(s.savings, id, func(g core.SavingsGoal) string { return g.ID })
	removed := len(s.savings) != before
	if removed {
		s.persistLocked(ctx)
	}
	s.mu.Unlock()

	if removed {
		s.publish(ctx, amqp.EntitySaving, amqp.ActionDeleted, id)
	}
}

// Transactions returns a copy in display order: descending by date, with
// insertion order (newest first) breaking ties.
func (s *Store) Transactions() []core.Transaction {
	s.mu.Lock()
	out := append([]core.Transaction(nil), s.transactions...)
	s.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date.Time)
	})
	return out
}

// Debts returns a copy, newest first.
func (s *Store) Debts() []core.Debt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Debt(nil), s.debts...)
}

// Savings returns a copy, newest first.
func (s *Store) Savings() []core.SavingsGoal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.SavingsGoal(nil), s.savings...)
}

// Snapshot returns a copy of the full persistence unit.
func (s *Store) Snapshot() snapshot.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Store) stateLocked() snapshot.State {
	return snapshot.State{
		Transactions: append([]core.Transaction(nil), s.transactions...),
		Debts:        append([]core.Debt(nil), s.debts...),
		Savings:      append([]core.SavingsGoal(nil), s.savings...),
	}
}

// persistLocked writes the full snapshot after an in-memory update. A save
// failure is logged but never propagated: the in-memory state is already
// the source of truth and the next mutation retries the write anyway.
func (s *Store) persistLocked(ctx context.Context) {
	if s.saver == nil {
		return
	}
	if err := s.saver.Save(ctx, s.stateLocked()); err != nil {
		slog.WarnContext(ctx, "Failed to persist snapshot, keeping in-memory state",
			"error", err,
			"transactions", len(s.transactions),
			"debts", len(s.debts),
			"savings", len(s.savings))
	}
}

func (s *Store) publish(ctx context.Context, entity, action, id string) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishChange(ctx, entity, action, id); err != nil {
		slog.WarnContext(ctx, "Failed to publish change event",
			"error", err,
			"entity", entity,
			"action", action,
			"id", id)
	}
}

func deleteByID[T any](items []T, id string, idOf func(T) string) []T {
	out := items[:0]
	for _, item := range items {
		if idOf(item) != id {
			out = append(out, item)
		}
	}
	return out
}
