// Package advisor defines the boundary to the external text-generation
// service. The core treats the returned text as opaque markdown: it is
// rendered verbatim and never parsed.
package advisor

import (
	"context"

	"dompetku/internal/core"
)

// User-facing fixed strings. Failures at this boundary are never surfaced
// as structured errors; callers map any error to ErrorMessage.
const (
	ErrorMessage = "Terjadi kesalahan saat menghubungkan ke asisten AI. Pastikan API Key valid."
	EmptyMessage = "Maaf, saya tidak dapat menghasilkan saran saat ini."
)

// SystemInstruction primes the model's persona.
const SystemInstruction = "Kamu adalah asisten keuangan pribadi yang pintar dan suportif."

// Advisor produces a markdown advisory text from a snapshot of the three
// collections. Implementations own their timeouts and never retry.
type Advisor interface {
	Advise(ctx context.Context, transactions []core.Transaction, debts []core.Debt, savings []core.SavingsGoal) (string, error)
}

// Disabled is the no-provider advisor: it always reports the fixed error
// text so the rest of the app needs no special case.
type Disabled struct{}

func (Disabled) Advise(context.Context, []core.Transaction, []core.Debt, []core.SavingsGoal) (string, error) {
	return ErrorMessage, nil
}
