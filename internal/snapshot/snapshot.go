// Package snapshot defines the persistence contract for the tracker: the
// whole domain state is written and read as one document under a single
// fixed key. Last writer wins; safe under the single-process assumption.
package snapshot

import (
	"context"

	"dompetku/internal/core"
)

// StorageKey is the fixed namespace the state document lives under. The
// value is part of the on-disk compatibility contract and must not change
// without a migration.
const StorageKey = "dompetku_data_v1"

// State is the persistence unit: the three collections, nothing else.
// Absent fields decode to empty collections.
type State struct {
	Transactions []core.Transaction `json:"transactions"`
	Debts        []core.Debt        `json:"debts"`
	Savings      []core.SavingsGoal `json:"savings"`
}

// Ports for snapshot backends.
type (
	Loader interface {
		// Load returns the stored state. A missing or unreadable document
		// yields empty collections, never an error.
		Load(ctx context.Context) State
	}

	Saver interface {
		// Save overwrites the entire stored document.
		Save(ctx context.Context, state State) error
	}

	Store interface {
		Loader
		Saver
		Close() error
	}
)
