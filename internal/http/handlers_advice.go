package http

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"net/http"
	"time"

	"dompetku/internal/advisor"
)

type adviceResponse struct {
	Advice      string `json:"advice"`
	GeneratedAt string `json:"generatedAt"`
	Cached      bool   `json:"cached"`
}

// handleRequestAdvice asks the provider for advisory text over the current
// snapshot. Identical snapshots are served from cache; provider failures
// degrade to the fixed error text rather than an error status.
func (s *Server) handleRequestAdvice(w http.ResponseWriter, r *http.Request) {
	s.metrics.adviceRequests.Add(1)

	transactions := s.store.Transactions()
	debts := s.store.Debts()
	savings := s.store.Savings()

	prompt := advisor.BuildPrompt(transactions, debts, savings)
	key := promptKey(prompt)

	if text, ok := s.adviceCache.Get(key); ok {
		s.metrics.adviceHits.Add(1)
		generatedAt := s.rememberAdvice(s.generation.Load(), text)
		writeJSON(w, http.StatusOK, adviceResponse{
			Advice:      text,
			GeneratedAt: generatedAt.Format(time.RFC3339),
			Cached:      true,
		})
		return
	}
	s.metrics.adviceMisses.Add(1)

	gen := s.generation.Add(1)
	text, err := s.advisor.Advise(r.Context(), transactions, debts, savings)
	if err != nil {
		slog.ErrorContext(r.Context(), "Advisory request failed", "error", err)
		text = advisor.ErrorMessage
	} else {
		s.adviceCache.Set(key, text)
	}

	generatedAt := s.rememberAdvice(gen, text)
	writeJSON(w, http.StatusOK, adviceResponse{
		Advice:      text,
		GeneratedAt: generatedAt.Format(time.RFC3339),
		Cached:      false,
	})
}

// handleGetAdvice returns the last advisory text without contacting the
// provider.
func (s *Server) handleGetAdvice(w http.ResponseWriter, r *http.Request) {
	s.advice.mu.Lock()
	text := s.advice.text
	generatedAt := s.advice.generatedAt
	s.advice.mu.Unlock()

	if text == "" {
		writeError(w, http.StatusNotFound, "no advice generated yet")
		return
	}

	writeJSON(w, http.StatusOK, adviceResponse{
		Advice:      text,
		GeneratedAt: generatedAt.Format(time.RFC3339),
		Cached:      true,
	})
}

// rememberAdvice stores text as the latest advice unless a newer request
// already finished. Returns the timestamp shown to the client.
func (s *Server) rememberAdvice(gen int64, text string) time.Time {
	now := time.Now()

	s.advice.mu.Lock()
	defer s.advice.mu.Unlock()

	if gen < s.advice.generation {
		// A newer request finished first; keep its result.
		return now
	}
	s.advice.generation = gen
	s.advice.text = text
	s.advice.generatedAt = now
	return now
}

func promptKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}
