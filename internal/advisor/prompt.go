package advisor

import (
	"fmt"
	"strconv"
	"strings"

	"dompetku/internal/core"
)

// MaxPromptTransactions bounds the transaction history forwarded to the
// model. Transactions beyond the window are silently dropped.
const MaxPromptTransactions = 50

// BuildPrompt renders the three collections into the advisory request text.
// Windowing is part of the compatibility contract: at most the 50 most
// recent transactions (callers pass display order, newest first), only
// unpaid debts, all savings goals.
func BuildPrompt(transactions []core.Transaction, debts []core.Debt, savings []core.SavingsGoal) string {
	if len(transactions) > MaxPromptTransactions {
		transactions = transactions[:MaxPromptTransactions]
	}

	var txLines []string
	for _, t := range transactions {
		sign := "-"
		if t.Type == core.Income {
			sign = "+"
		}
		txLines = append(txLines, fmt.Sprintf("- %s: %s%s (%s) - %s",
			t.Date.Format("2006-01-02"), sign, formatAmount(t.Amount), t.Category, t.Description))
	}

	var debtLines []string
	for _, d := range debts {
		if d.IsPaid {
			continue
		}
		direction := "Piutang dari"
		if d.Type == core.Payable {
			direction = "Hutang ke"
		}
		debtLines = append(debtLines, fmt.Sprintf("- %s %s: %s",
			direction, d.PersonName, formatAmount(d.Amount)))
	}

	var savingLines []string
	for _, g := range savings {
		savingLines = append(savingLines, fmt.Sprintf("- %s: Terkumpul %s dari %s",
			g.Name, formatAmount(g.CurrentAmount), formatAmount(g.TargetAmount)))
	}

	return fmt.Sprintf(`Bertindaklah sebagai penasihat keuangan pribadi yang bijak dan ramah dalam Bahasa Indonesia.

Analisis data keuangan berikut (maksimal 1 bulan terakhir):

TRANSAKSI TERAKHIR:
%s

STATUS HUTANG/PIUTANG (Belum Lunas):
%s

TARGET TABUNGAN:
%s

Berikan ringkasan singkat tentang kesehatan keuangan saya, dan berikan 3 saran konkret dan dapat ditindaklanjuti untuk meningkatkan kondisi keuangan saya bulan ini. Gunakan format Markdown. Jangan terlalu formal, gunakan gaya bahasa yang memotivasi.`,
		strings.Join(txLines, "\n"),
		strings.Join(debtLines, "\n"),
		strings.Join(savingLines, "\n"))
}

func formatAmount(m core.Money) string {
	return strconv.FormatFloat(m.Units(), 'f', -1, 64)
}
