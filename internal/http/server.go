// Package http exposes the transaction store, session provider and receipt
// extractor as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"

	"grana/internal/extract"
	"grana/internal/middleware/ratelimit"
	"grana/internal/middleware/security"
	"grana/internal/middleware/trace"
	"grana/internal/session"
	"grana/internal/store"
)

type Server struct {
	http.Server

	store     *store.Store
	sessions  session.Provider
	extractor extract.Extractor // optional

	limiter      *ratelimit.Limiter
	clientIP     *security.ClientIPExtractor
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
// The extractor may be nil; the extraction endpoint then answers 503.
func NewServer(addr string, st *store.Store, sessions session.Provider, extractor extract.Extractor) *Server {
	mux := http.NewServeMux()

	s := &Server{
		store:     st,
		sessions:  sessions,
		extractor: extractor,
		limiter:   ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		clientIP:  security.NewClientIPExtractor(),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /auth/signup", s.handleSignUp)
	mux.HandleFunc("POST /auth/signin", s.handleSignIn)
	mux.HandleFunc("POST /auth/signout", s.handleSignOut)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleAddTransaction)
	mux.HandleFunc("PUT /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /api/summary", s.handleSummary)

	mux.HandleFunc("POST /api/extract", s.handleExtract)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	traced := trace.NewMiddleware(s.clientIP.ExtractClientIP)

	var handler http.Handler = mux
	handler = s.limitMutations(handler)
	handler = traced.Middleware(handler)
	handler = headers.Middleware(handler)

	s.Server = http.Server{
		Addr:    addr,
		Handler: handler,
	}
	return s
}

// limitMutations rate limits write requests per client IP. Reads stay
// unthrottled.
func (s *Server) limitMutations(next http.Handler) http.Handler {
	limited := s.limiter.Middleware(s.clientIP.ExtractClientIP, nil)(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete:
			limited.ServeHTTP(w, r)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

// Shutdown gracefully shuts down the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
