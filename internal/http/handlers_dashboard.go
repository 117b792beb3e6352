package http

import (
	"net/http"

	"dompetku/internal/core"
)

// dailyWindowDays is the width of the dashboard's recent-activity chart.
const dailyWindowDays = 7

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, core.ComputeSummary(s.store.Transactions(), s.store.Savings()))
}

type dashboardResponse struct {
	Summary           core.FinancialSummary `json:"summary"`
	ExpenseByCategory []core.CategoryAmount `json:"expenseByCategory"`
	DailySeries       []core.DailyAmount    `json:"dailySeries"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	transactions := s.store.Transactions()
	savings := s.store.Savings()

	writeJSON(w, http.StatusOK, dashboardResponse{
		Summary:           core.ComputeSummary(transactions, savings),
		ExpenseByCategory: core.ExpenseByCategory(transactions),
		DailySeries:       core.DailySeries(transactions, core.Today(), dailyWindowDays),
	})
}

type categoriesResponse struct {
	Expense      []string `json:"expense"`
	Income       []string `json:"income"`
	SavingsIcons []string `json:"savingsIcons"`
	GoalColors   []string `json:"goalColors"`
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, categoriesResponse{
		Expense:      core.ExpenseCategories,
		Income:       core.IncomeCategories,
		SavingsIcons: core.SavingsIcons,
		GoalColors:   core.GoalColors,
	})
}
