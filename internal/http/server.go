// Package http serves the JSON API over the ledger store and the derived
// analytics. Aggregates are recomputed from a fresh snapshot on every
// request; there is no caching layer to invalidate.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"fincontrol/internal/ledger"
	"fincontrol/internal/services"
)

// ChangePublisher notifies interested parties that the ledger changed.
// Publishing is best effort; a broker outage never fails a mutation.
type ChangePublisher interface {
	PublishLedgerChanged(ctx context.Context, entity, id, action string) error
}

type Server struct {
	http.Server
	store       ledger.Store
	reports     *services.ReportProcessor
	publisher   ChangePublisher
	rateLimiter *rateLimiter

	shutdownOnce sync.Once
}

// Simple in-memory rate limiter
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

// startCleanup runs periodic cleanup to remove stale client entries
func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanupStaleEntries removes client entries older than 10 minutes
func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		if rl.stopCleanup != nil {
			close(rl.stopCleanup)
		}
	})
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]

	if !exists {
		rl.clients[clientIP] = &clientInfo{
			lastRequest: now,
			requests:    1,
		}
		return true
	}

	// Reset counter if more than 1 minute has passed
	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}

	// Allow up to 60 requests per minute
	client.requests++
	client.lastRequest = now

	return client.requests <= 60
}

// NewServer configures routes, returning a ready-to-run http.Server.
func NewServer(addr string, store ledger.Store, reports *services.ReportProcessor, publisher ChangePublisher) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		store:       store,
		reports:     reports,
		publisher:   publisher,
		rateLimiter: newRateLimiter(),
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("GET /api/dashboard", s.withSecurityHeaders(s.handleDashboard))
	mux.HandleFunc("GET /api/trend", s.withSecurityHeaders(s.handleTrend))
	mux.HandleFunc("GET /api/categories", s.withSecurityHeaders(s.handleCategories))
	mux.HandleFunc("GET /api/priorities", s.withSecurityHeaders(s.handlePriorities))
	mux.HandleFunc("GET /api/upcoming", s.withSecurityHeaders(s.handleUpcoming))
	mux.HandleFunc("GET /api/recent", s.withSecurityHeaders(s.handleRecent))

	mux.HandleFunc("GET /api/profiles", s.withSecurityHeaders(s.handleListProfiles))
	mux.HandleFunc("POST /api/profiles", s.withSecurityHeaders(s.handleCreateProfile))
	mux.HandleFunc("DELETE /api/profiles/{id}", s.withSecurityHeaders(s.handleDeleteProfile))

	mux.HandleFunc("GET /api/transactions", s.withSecurityHeaders(s.handleListTransactions))
	mux.HandleFunc("POST /api/transactions", s.withSecurityHeaders(s.handleCreateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.withSecurityHeaders(s.handleDeleteTransaction))
	mux.HandleFunc("GET /api/transactions/{id}/progress", s.withSecurityHeaders(s.handleTransactionProgress))

	mux.HandleFunc("GET /api/goals", s.withSecurityHeaders(s.handleListGoals))
	mux.HandleFunc("POST /api/goals", s.withSecurityHeaders(s.handleCreateGoal))
	mux.HandleFunc("DELETE /api/goals/{id}", s.withSecurityHeaders(s.handleDeleteGoal))
	mux.HandleFunc("GET /api/goals/projection", s.withSecurityHeaders(s.handleGoalProjection))

	mux.HandleFunc("GET /api/report", s.withSecurityHeaders(s.handleLastReport))
	mux.HandleFunc("POST /api/report", s.withSecurityHeaders(s.handleGenerateReport))

	mux.HandleFunc("POST /api/reset", s.withSecurityHeaders(s.handleFactoryReset))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting, and request logging to responses
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Extract client IP (considering proxies)
		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		// Mutations are rate limited; reads are not.
		if (r.Method == http.MethodPost || r.Method == http.MethodDelete) && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'none'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"client_ip", clientIP)
	}
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// publishChange notifies the report worker, best effort
func (s *Server) publishChange(ctx context.Context, entity, id, action string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishLedgerChanged(ctx, entity, id, action); err != nil {
		slog.WarnContext(ctx, "Failed to publish ledger change",
			"entity", entity, "id", id, "action", action, "error", err)
	}
}
