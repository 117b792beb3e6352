// Package http exposes the tracker as a JSON API. All state lives in the
// domain store; handlers only translate between requests and store calls.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"dompetku/internal/advisor"
	"dompetku/internal/cache"
	"dompetku/internal/middleware/ratelimit"
	"dompetku/internal/middleware/security"
	"dompetku/internal/store"
)

// Options tunes the serving behavior. Zero values select defaults.
type Options struct {
	RateLimitRPM   int
	AdviceCacheTTL time.Duration
}

type appMetrics struct {
	started        time.Time
	mutations      atomic.Int64
	adviceRequests atomic.Int64
	adviceHits     atomic.Int64
	adviceMisses   atomic.Int64
}

// latestAdvice is the most recent advisory text shown to the user.
// Generation tagging keeps a slow older request from overwriting the
// result of a newer one.
type latestAdvice struct {
	mu          sync.Mutex
	text        string
	generatedAt time.Time
	generation  int64
}

type Server struct {
	http.Server

	store        *store.Store
	advisor      advisor.Advisor
	limiter      *ratelimit.Limiter
	headers      *security.Headers
	adviceCache  *cache.TTLCache[string]
	cacheSweeper *cache.Sweeper

	advice     latestAdvice
	generation atomic.Int64

	metrics      appMetrics
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, st *store.Store, adv advisor.Advisor, opts Options) *Server {
	if adv == nil {
		adv = advisor.Disabled{}
	}
	ttl := opts.AdviceCacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      90 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		store:        st,
		advisor:      adv,
		limiter:      ratelimit.NewLimiter(opts.RateLimitRPM),
		headers:      security.NewHeaders(security.DefaultHeadersConfig()),
		adviceCache:  cache.NewTTLCache[string](64, ttl),
		cacheSweeper: cache.NewSweeper(slog.Default()),
		metrics:      appMetrics{started: time.Now()},
	}

	s.cacheSweeper.Register(s.adviceCache)
	s.cacheSweeper.Start(10 * time.Minute)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("GET /api/transactions", s.wrap(s.handleListTransactions))
	mux.HandleFunc("POST /api/transactions", s.wrap(s.handleCreateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.wrap(s.handleDeleteTransaction))

	mux.HandleFunc("GET /api/debts", s.wrap(s.handleListDebts))
	mux.HandleFunc("POST /api/debts", s.wrap(s.handleCreateDebt))
	mux.HandleFunc("POST /api/debts/{id}/toggle", s.wrap(s.handleToggleDebt))
	mux.HandleFunc("DELETE /api/debts/{id}", s.wrap(s.handleDeleteDebt))

	mux.HandleFunc("GET /api/savings", s.wrap(s.handleListSavings))
	mux.HandleFunc("POST /api/savings", s.wrap(s.handleCreateSaving))
	mux.HandleFunc("PUT /api/savings/{id}/amount", s.wrap(s.handleUpdateSavingAmount))
	mux.HandleFunc("DELETE /api/savings/{id}", s.wrap(s.handleDeleteSaving))

	mux.HandleFunc("GET /api/summary", s.wrap(s.handleSummary))
	mux.HandleFunc("GET /api/dashboard", s.wrap(s.handleDashboard))
	mux.HandleFunc("GET /api/categories", s.wrap(s.handleCategories))

	mux.HandleFunc("POST /api/advice", s.wrap(s.handleRequestAdvice))
	mux.HandleFunc("GET /api/advice", s.wrap(s.handleGetAdvice))

	return s
}

// wrap adds security headers, rate limiting, and request logging.
func (s *Server) wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)
		requestID := generateRequestID()
		w.Header().Set("X-Request-ID", requestID)

		ctx := r.Context()
		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		// Mutations and advisory calls count against the limit; reads don't.
		if r.Method != http.MethodGet && !s.limiter.Allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded",
				"client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}

		s.headers.Apply(w, r)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds())
	}
}

// Shutdown stops background routines and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheSweeper.Stop()
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func extractClientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

// generateRequestID creates a unique request ID for tracing
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
