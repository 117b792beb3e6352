package http

import (
	"log/slog"
	"net/http"

	"dompetku/internal/core"
)

// savingsGoalResponse decorates a goal with its clamped progress percentage.
type savingsGoalResponse struct {
	core.SavingsGoal
	Progress int `json:"progress"`
}

func toSavingsResponse(goals []core.SavingsGoal) []savingsGoalResponse {
	out := make([]savingsGoalResponse, 0, len(goals))
	for _, g := range goals {
		out = append(out, savingsGoalResponse{SavingsGoal: g, Progress: g.Progress()})
	}
	return out
}

func (s *Server) handleListSavings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toSavingsResponse(s.store.Savings()))
}

func (s *Server) handleCreateSaving(w http.ResponseWriter, r *http.Request) {
	var req savingsGoalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	g := req.toDomain()
	if err := g.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created := s.store.AddSaving(r.Context(), g)
	s.metrics.mutations.Add(1)

	slog.InfoContext(r.Context(), "Savings goal created",
		"id", created.ID,
		"name", created.Name,
		"target_cents", created.TargetAmount.Cents)

	writeJSON(w, http.StatusCreated, savingsGoalResponse{SavingsGoal: created, Progress: created.Progress()})
}

type updateAmountRequest struct {
	Amount moneyField `json:"amount"`
}

// handleUpdateSavingAmount sets the accumulated amount to an absolute
// value. Clients recording a deposit send current plus deposit.
func (s *Server) handleUpdateSavingAmount(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing savings goal id")
		return
	}

	var req updateAmountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Amount.Cents < 0 {
		writeError(w, http.StatusUnprocessableEntity, core.ErrInvalidAmount.Error())
		return
	}

	s.store.UpdateSavingAmount(r.Context(), id, req.Amount.Money)
	s.metrics.mutations.Add(1)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteSaving(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing savings goal id")
		return
	}

	s.store.DeleteSaving(r.Context(), id)
	s.metrics.mutations.Add(1)
	w.WriteHeader(http.StatusNoContent)
}
