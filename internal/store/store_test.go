package store

import (
	"context"
	"errors"
	"testing"

	"dompetku/internal/core"
	"dompetku/internal/snapshot"
)

type fakeSaver struct {
	saves []snapshot.State
	err   error
}

func (f *fakeSaver) Save(_ context.Context, state snapshot.State) error {
	f.saves = append(f.saves, state)
	return f.err
}

type fakeEvents struct {
	published []string
}

func (f *fakeEvents) PublishChange(_ context.Context, entity, action, id string) error {
	f.published = append(f.published, entity+":"+action)
	return nil
}

func newTestStore() (*Store, *fakeSaver, *fakeEvents) {
	saver := &fakeSaver{}
	events := &fakeEvents{}
	return New(snapshot.State{}, saver, events), saver, events
}

func sampleTx(cents int64, date core.Date) core.Transaction {
	return core.Transaction{
		Date:     date,
		Amount:   core.Money{Cents: cents},
		Category: "Belanja",
		Type:     core.Expense,
	}
}

func TestAddDeleteTransaction(t *testing.T) {
	ctx := context.Background()
	s, saver, _ := newTestStore()

	a := s.AddTransaction(ctx, sampleTx(100, core.NewDate(2025, 5, 1)))
	b := s.AddTransaction(ctx, sampleTx(200, core.NewDate(2025, 5, 2)))
	if a.ID == "" || b.ID == "" || a.ID == b.ID {
		t.Fatalf("ids must be distinct and non-empty: %q %q", a.ID, b.ID)
	}
	if len(s.Transactions()) != 2 {
		t.Fatalf("expected 2 transactions")
	}

	s.DeleteTransaction(ctx, a.ID)
	got := s.Transactions()
	if len(got) != 1 || got[0].ID != b.ID {
		t.Fatalf("expected only %q to remain, got %+v", b.ID, got)
	}

	// add, add, delete: one persisted snapshot each
	if len(saver.saves) != 3 {
		t.Fatalf("expected 3 persisted snapshots, got %d", len(saver.saves))
	}
}

func TestDeleteTransactionUnknownIDIsNoop(t *testing.T) {
	ctx := context.Background()
	s, saver, _ := newTestStore()
	s.AddTransaction(ctx, sampleTx(100, core.NewDate(2025, 5, 1)))

	before := len(saver.saves)
	s.DeleteTransaction(ctx, "no-such-id")
	if len(s.Transactions()) != 1 {
		t.Fatalf("collection must be unchanged")
	}
	if len(saver.saves) != before {
		t.Fatalf("no-op delete must not persist")
	}
}

func TestTransactionsDisplayOrder(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore()

	old := s.AddTransaction(ctx, sampleTx(1, core.NewDate(2025, 5, 1)))
	tieFirst := s.AddTransaction(ctx, sampleTx(2, core.NewDate(2025, 5, 3)))
	newest := s.AddTransaction(ctx, sampleTx(3, core.NewDate(2025, 5, 4)))
	tieSecond := s.AddTransaction(ctx, sampleTx(4, core.NewDate(2025, 5, 3)))

	got := s.Transactions()
	wantOrder := []string{newest.ID, tieSecond.ID, tieFirst.ID, old.ID}
	for i, want := range wantOrder {
		if got[i].ID != want {
			t.Fatalf("position %d: got %q, want %q (full order %+v)", i, got[i].ID, want, got)
		}
	}
}

func TestToggleDebtStatusTwiceRestores(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore()

	d := s.AddDebt(ctx, core.Debt{PersonName: "Budi", Amount: core.Money{Cents: 100}, Type: core.Payable, IsPaid: true})
	if d.IsPaid {
		t.Fatalf("new debts must start unpaid even if the caller says otherwise")
	}

	s.ToggleDebtStatus(ctx, d.ID)
	if !s.Debts()[0].IsPaid {
		t.Fatalf("expected paid after first toggle")
	}
	s.ToggleDebtStatus(ctx, d.ID)
	if s.Debts()[0].IsPaid {
		t.Fatalf("expected unpaid after second toggle")
	}
}

func TestToggleDebtStatusUnknownIDIsNoop(t *testing.T) {
	ctx := context.Background()
	s, saver, _ := newTestStore()
	s.AddDebt(ctx, core.Debt{PersonName: "Budi", Amount: core.Money{Cents: 100}, Type: core.Payable})

	before := len(saver.saves)
	s.ToggleDebtStatus(ctx, "no-such-id")
	if s.Debts()[0].IsPaid {
		t.Fatalf("collection must be unchanged")
	}
	if len(saver.saves) != before {
		t.Fatalf("no-op toggle must not persist")
	}
}

func TestUpdateSavingAmountIsAbsolute(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore()

	g := s.AddSaving(ctx, core.SavingsGoal{
		Name:          "Liburan",
		TargetAmount:  core.Money{Cents: 1000},
		CurrentAmount: core.Money{Cents: 999}, // must be reset
		Icon:          "✈️",
	})
	if g.CurrentAmount.Cents != 0 {
		t.Fatalf("new goals must start at zero, got %d", g.CurrentAmount.Cents)
	}

	s.UpdateSavingAmount(ctx, g.ID, core.Money{Cents: 500})
	if got := s.Savings()[0].CurrentAmount.Cents; got != 500 {
		t.Fatalf("got %d, want 500", got)
	}

	// Absolute set, not additive: lowering works too
	s.UpdateSavingAmount(ctx, g.ID, core.Money{Cents: 200})
	if got := s.Savings()[0].CurrentAmount.Cents; got != 200 {
		t.Fatalf("got %d, want 200", got)
	}

	s.UpdateSavingAmount(ctx, "no-such-id", core.Money{Cents: 1})
	if got := s.Savings()[0].CurrentAmount.Cents; got != 200 {
		t.Fatalf("unknown id must not change anything, got %d", got)
	}
}

func TestDeleteDebtAndSaving(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore()

	d := s.AddDebt(ctx, core.Debt{PersonName: "Sari", Amount: core.Money{Cents: 100}, Type: core.Receivable})
	g := s.AddSaving(ctx, core.SavingsGoal{Name: "Rumah", TargetAmount: core.Money{Cents: 100}, Icon: "🏠"})

	s.DeleteDebt(ctx, d.ID)
	s.DeleteSaving(ctx, g.ID)
	s.DeleteDebt(ctx, d.ID)   // repeat deletes are no-ops
	s.DeleteSaving(ctx, g.ID)

	if len(s.Debts()) != 0 || len(s.Savings()) != 0 {
		t.Fatalf("expected both collections empty")
	}
}

func TestEveryMutationPersistsFullSnapshot(t *testing.T) {
	ctx := context.Background()
	s, saver, _ := newTestStore()

	tx := s.AddTransaction(ctx, sampleTx(100, core.NewDate(2025, 5, 1)))
	d := s.AddDebt(ctx, core.Debt{PersonName: "Budi", Amount: core.Money{Cents: 50}, Type: core.Payable})
	s.ToggleDebtStatus(ctx, d.ID)
	g := s.AddSaving(ctx, core.SavingsGoal{Name: "Rumah", TargetAmount: core.Money{Cents: 100}, Icon: "🏠"})
	s.UpdateSavingAmount(ctx, g.ID, core.Money{Cents: 10})
	s.DeleteTransaction(ctx, tx.ID)

	if len(saver.saves) != 6 {
		t.Fatalf("expected one snapshot per mutation (6), got %d", len(saver.saves))
	}
	last := saver.saves[len(saver.saves)-1]
	if len(last.Transactions) != 0 || len(last.Debts) != 1 || len(last.Savings) != 1 {
		t.Fatalf("last snapshot must reflect current state: %+v", last)
	}
	if !last.Debts[0].IsPaid || last.Savings[0].CurrentAmount.Cents != 10 {
		t.Fatalf("snapshot content mismatch: %+v", last)
	}
}

func TestSaveFailureDoesNotBlockMutations(t *testing.T) {
	ctx := context.Background()
	saver := &fakeSaver{err: errors.New("disk full")}
	s := New(snapshot.State{}, saver, nil)

	got := s.AddTransaction(ctx, sampleTx(100, core.NewDate(2025, 5, 1)))
	if got.ID == "" {
		t.Fatalf("mutation must succeed despite save failure")
	}
	if len(s.Transactions()) != 1 {
		t.Fatalf("in-memory state must be updated")
	}
}

func TestEventsPublishedPerMutation(t *testing.T) {
	ctx := context.Background()
	s, _, events := newTestStore()

	tx := s.AddTransaction(ctx, sampleTx(100, core.NewDate(2025, 5, 1)))
	s.DeleteTransaction(ctx, tx.ID)
	s.DeleteTransaction(ctx, tx.ID) // no-op, no event

	want := []string{"transaction:created", "transaction:deleted"}
	if len(events.published) != len(want) {
		t.Fatalf("got %v, want %v", events.published, want)
	}
	for i := range want {
		if events.published[i] != want[i] {
			t.Fatalf("got %v, want %v", events.published, want)
		}
	}
}

func TestSeededFromSnapshot(t *testing.T) {
	initial := snapshot.State{
		Transactions: []core.Transaction{{ID: "t1"}},
		Debts:        []core.Debt{{ID: "d1"}},
		Savings:      []core.SavingsGoal{{ID: "s1"}},
	}
	s := New(initial, nil, nil)
	if len(s.Transactions()) != 1 || len(s.Debts()) != 1 || len(s.Savings()) != 1 {
		t.Fatalf("store must seed from the loaded snapshot")
	}
}
