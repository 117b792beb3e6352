package http

import (
	"fmt"
	"net/http"
	"time"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.metrics.started).String(),
	})
}

// handleReady performs readiness check with dependency verification
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	if s.store == nil {
		checks["store"] = "failed: store not configured"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		state := s.store.Snapshot()
		checks["store"] = map[string]any{
			"status":       "ok",
			"transactions": len(state.Transactions),
			"debts":        len(state.Debts),
			"savings":      len(state.Savings),
		}
	}

	checks["advice_cache"] = map[string]any{
		"status":  "ok",
		"entries": s.adviceCache.Size(),
	}
	checks["rate_limiter"] = map[string]any{
		"status":         "ok",
		"active_clients": s.limiter.ActiveClients(),
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleMetrics provides application metrics in plain text format
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	state := s.store.Snapshot()

	fmt.Fprintf(w, "# HELP mutations_total Total number of state mutations handled\n")
	fmt.Fprintf(w, "# TYPE mutations_total counter\n")
	fmt.Fprintf(w, "mutations_total %d\n\n", s.metrics.mutations.Load())

	fmt.Fprintf(w, "# HELP advice_requests_total Total advisory requests received\n")
	fmt.Fprintf(w, "# TYPE advice_requests_total counter\n")
	fmt.Fprintf(w, "advice_requests_total %d\n\n", s.metrics.adviceRequests.Load())

	fmt.Fprintf(w, "# HELP advice_cache_hits_total Advisory responses served from cache\n")
	fmt.Fprintf(w, "# TYPE advice_cache_hits_total counter\n")
	fmt.Fprintf(w, "advice_cache_hits_total %d\n\n", s.metrics.adviceHits.Load())

	fmt.Fprintf(w, "# HELP advice_cache_misses_total Advisory requests forwarded to the provider\n")
	fmt.Fprintf(w, "# TYPE advice_cache_misses_total counter\n")
	fmt.Fprintf(w, "advice_cache_misses_total %d\n\n", s.metrics.adviceMisses.Load())

	fmt.Fprintf(w, "# HELP advice_cache_entries Current advisory cache entries\n")
	fmt.Fprintf(w, "# TYPE advice_cache_entries gauge\n")
	fmt.Fprintf(w, "advice_cache_entries %d\n\n", s.adviceCache.Size())

	fmt.Fprintf(w, "# HELP collection_entries Current entries per collection\n")
	fmt.Fprintf(w, "# TYPE collection_entries gauge\n")
	fmt.Fprintf(w, "collection_entries{type=\"transactions\"} %d\n", len(state.Transactions))
	fmt.Fprintf(w, "collection_entries{type=\"debts\"} %d\n", len(state.Debts))
	fmt.Fprintf(w, "collection_entries{type=\"savings\"} %d\n\n", len(state.Savings))

	fmt.Fprintf(w, "# HELP rate_limit_denied_total Total requests rejected by the rate limiter\n")
	fmt.Fprintf(w, "# TYPE rate_limit_denied_total counter\n")
	fmt.Fprintf(w, "rate_limit_denied_total %d\n\n", s.limiter.DeniedTotal())

	fmt.Fprintf(w, "# HELP active_rate_limit_clients Currently tracked rate limit clients\n")
	fmt.Fprintf(w, "# TYPE active_rate_limit_clients gauge\n")
	fmt.Fprintf(w, "active_rate_limit_clients %d\n\n", s.limiter.ActiveClients())

	fmt.Fprintf(w, "# HELP uptime_seconds Application uptime in seconds\n")
	fmt.Fprintf(w, "# TYPE uptime_seconds gauge\n")
	fmt.Fprintf(w, "uptime_seconds %.0f\n", time.Since(s.metrics.started).Seconds())
}
