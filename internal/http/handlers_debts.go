package http

import (
	"log/slog"
	"net/http"
)

func (s *Server) handleListDebts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Debts())
}

func (s *Server) handleCreateDebt(w http.ResponseWriter, r *http.Request) {
	var req debtRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	d := req.toDomain()
	if err := d.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created := s.store.AddDebt(r.Context(), d)
	s.metrics.mutations.Add(1)

	slog.InfoContext(r.Context(), "Debt created",
		"id", created.ID,
		"type", created.Type,
		"person", created.PersonName,
		"amount_cents", created.Amount.Cents)

	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleToggleDebt(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing debt id")
		return
	}

	s.store.ToggleDebtStatus(r.Context(), id)
	s.metrics.mutations.Add(1)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteDebt(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing debt id")
		return
	}

	s.store.DeleteDebt(r.Context(), id)
	s.metrics.mutations.Add(1)
	w.WriteHeader(http.StatusNoContent)
}
