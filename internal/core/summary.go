package core

import "fmt"

// Short month names in Bahasa Indonesia, the language the app ships in.
var shortMonths = [12]string{
	"Jan", "Feb", "Mar", "Apr", "Mei", "Jun",
	"Jul", "Agu", "Sep", "Okt", "Nov", "Des",
}

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string `json:"name"`
	Amount Money  `json:"amount"`
}

// DailyAmount is one day of the trailing income/expense series.
type DailyAmount struct {
	Date    Date   `json:"date"`
	Label   string `json:"label"`
	Income  Money  `json:"income"`
	Expense Money  `json:"expense"`
}

// ComputeSummary derives the financial summary from the current collections.
// Single pass over each collection; nothing is cached or stored.
func ComputeSummary(transactions []Transaction, savings []SavingsGoal) FinancialSummary {
	var summary FinancialSummary
	for _, t := range transactions {
		switch t.Type {
		case Income:
			summary.TotalIncome = summary.TotalIncome.Add(t.Amount)
		case Expense:
			summary.TotalExpense = summary.TotalExpense.Add(t.Amount)
		}
	}
	summary.Balance = summary.TotalIncome.Sub(summary.TotalExpense)
	for _, g := range savings {
		summary.SavingsTotal = summary.SavingsTotal.Add(g.CurrentAmount)
	}
	return summary
}

// ExpenseByCategory groups expense transactions by category, summing their
// amounts. Emission order is first-seen category order, not magnitude.
func ExpenseByCategory(transactions []Transaction) []CategoryAmount {
	totals := make(map[string]int64)
	var order []string
	for _, t := range transactions {
		if t.Type != Expense {
			continue
		}
		if _, seen := totals[t.Category]; !seen {
			order = append(order, t.Category)
		}
		totals[t.Category] += t.Amount.Cents
	}
	out := make([]CategoryAmount, 0, len(order))
	for _, name := range order {
		out = append(out, CategoryAmount{Name: name, Amount: Money{Cents: totals[name]}})
	}
	return out
}

// DailySeries sums income and expense per calendar day for the trailing
// windowDays days ending at anchor (inclusive). It always emits exactly
// windowDays entries in ascending date order, zero-filled for days with no
// activity. Matching is exact calendar-day equality against the anchor's
// timeline; the caller picks the timezone by picking the anchor.
func DailySeries(transactions []Transaction, anchor Date, windowDays int) []DailyAmount {
	if windowDays <= 0 {
		return nil
	}
	out := make([]DailyAmount, 0, windowDays)
	for i := windowDays - 1; i >= 0; i-- {
		day := Date{Time: anchor.AddDate(0, 0, -i)}
		entry := DailyAmount{
			Date:  day,
			Label: fmt.Sprintf("%02d %s", day.Day(), shortMonths[day.Month()-1]),
		}
		for _, t := range transactions {
			if !t.Date.SameDay(day) {
				continue
			}
			switch t.Type {
			case Income:
				entry.Income = entry.Income.Add(t.Amount)
			case Expense:
				entry.Expense = entry.Expense.Add(t.Amount)
			}
		}
		out = append(out, entry)
	}
	return out
}
