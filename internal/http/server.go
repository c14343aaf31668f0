// Package http exposes the ledger over a JSON API. Authentication is
// delegated to a fronting identity proxy; handlers only read the
// forwarded identity headers.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
	applog "fintrack/internal/log"
)

type Server struct {
	http.Server
	svc         *ledger.Service
	logger      *applog.Logger
	rateLimiter *rateLimiter

	// Per-user summary cache with write-through invalidation. The
	// ledger itself stays stateless; this only shaves repeated reads.
	summaryCache *cache.LRU[core.MonthlySummary]

	stopCachePurge chan struct{}
	shutdownOnce   sync.Once
}

// NewServer configures routes and middleware, returning a
// ready-to-run server.
func NewServer(addr string, svc *ledger.Service, logger *applog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		svc:            svc,
		logger:         logger,
		rateLimiter:    newRateLimiter(60, time.Minute),
		summaryCache:   cache.NewLRU[core.MonthlySummary](1000, 5*time.Minute),
		stopCachePurge: make(chan struct{}),
	}

	go s.startCachePurge()

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)
	mux.HandleFunc("/api/transactions", s.withMiddleware(s.handleTransactions))
	mux.HandleFunc("/api/transactions/", s.withMiddleware(s.handleTransactionByID))
	mux.HandleFunc("/api/summary", s.withMiddleware(s.handleSummary))

	return s
}

func (s *Server) startCachePurge() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if purged := s.summaryCache.PurgeExpired(); purged > 0 {
				s.logger.Debug("Summary cache purge completed", "entries_removed", purged)
			}
		case <-s.stopCachePurge:
			return
		}
	}
}

// Shutdown stops the background goroutines and drains the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		close(s.stopCachePurge)
		s.rateLimiter.stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
