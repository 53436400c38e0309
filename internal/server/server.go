// Package server provides the HTTP REST API for editing, polishing and previewing CVs.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/cv-forge/internal/editor"
	"github.com/jonathan/cv-forge/internal/relay"
	"github.com/jonathan/cv-forge/internal/rendering"
	"github.com/jonathan/cv-forge/internal/server/ratelimit"
	"github.com/jonathan/cv-forge/internal/session"
	"github.com/jonathan/cv-forge/internal/types"
)

// RelayPrefix is where the API relay is mounted
const RelayPrefix = "/api/nvidia"

// PDFExporter prints a rendered CV
type PDFExporter interface {
	Export(ctx context.Context, r rendering.Renderer, cv types.CVData) ([]byte, error)
}

// Polisher rewrites a CV through the model
type Polisher interface {
	Polish(ctx context.Context, cv types.CVData) (types.CVData, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	store       *session.Store
	polisher    Polisher
	exporter    PDFExporter
	relay       *relay.Handler
	rateLimiter *ratelimit.Limiter
	logger      *zap.Logger

	maxPhotoBytes int64
	corsOrigins   map[string]bool
}

// Config holds server configuration
type Config struct {
	Port             int
	MaxPhotoBytes    int64
	SessionTTL       time.Duration
	CORSAllowOrigins []string

	// RelayUpstream and RelayAPIKey configure the API relay mount
	RelayUpstream string
	RelayAPIKey   string

	// RateLimit defaults to ratelimit.LoadConfig() when nil
	RateLimit *ratelimit.Config

	Polisher Polisher
	// Exporter is nil when PDF export is disabled
	Exporter PDFExporter
	Logger   *zap.Logger
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.Polisher == nil {
		return nil, fmt.Errorf("server requires a polisher")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxPhotoBytes <= 0 {
		cfg.MaxPhotoBytes = editor.DefaultMaxPhotoBytes
	}
	rl := cfg.RateLimit
	if rl == nil {
		rl = ratelimit.LoadConfig()
	}

	s := &Server{
		store:         session.NewStore(session.Config{TTL: cfg.SessionTTL, Logger: logger}),
		polisher:      cfg.Polisher,
		exporter:      cfg.Exporter,
		relay:         relay.New(cfg.RelayUpstream, cfg.RelayAPIKey, RelayPrefix, logger),
		rateLimiter:   ratelimit.NewLimiter(rl),
		logger:        logger,
		maxPhotoBytes: cfg.MaxPhotoBytes,
		corsOrigins:   make(map[string]bool),
	}
	for _, origin := range cfg.CORSAllowOrigins {
		s.corsOrigins[origin] = true
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /templates", s.handleTemplates)

	// Sessions
	mux.HandleFunc("POST /sessions", s.handleCreateSession)
	mux.HandleFunc("GET /sessions/{id}", s.handleGetSession)
	mux.HandleFunc("DELETE /sessions/{id}", s.handleDeleteSession)

	// Editing
	mux.HandleFunc("POST /sessions/{id}/intents", s.handleIntent)
	mux.HandleFunc("PATCH /sessions/{id}/fields", s.handleUpdateField)
	mux.HandleFunc("POST /sessions/{id}/sections/{section}/items", s.handleAddItem)
	mux.HandleFunc("PATCH /sessions/{id}/sections/{section}/items/{item_id}", s.handleUpdateItem)
	mux.HandleFunc("DELETE /sessions/{id}/sections/{section}/items/{item_id}", s.handleRemoveItem)
	mux.HandleFunc("PUT /sessions/{id}/photo", s.handleSetPhoto)
	mux.HandleFunc("DELETE /sessions/{id}/photo", s.handleClearPhoto)

	// Polishing and preview
	mux.HandleFunc("POST /sessions/{id}/polish", s.handlePolishSession)
	mux.HandleFunc("GET /sessions/{id}/preview", s.handlePreview)
	mux.HandleFunc("GET /sessions/{id}/preview.pdf", s.handlePreviewPDF)
	mux.HandleFunc("POST /polish", s.handlePolish)

	// API relay
	mux.Handle(RelayPrefix+"/", s.relay)

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(mux)))
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // polishing can take minutes
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	err := g.Wait()
	s.Close()
	s.logger.Info("server stopped")
	return err
}

// Close stops background goroutines
func (s *Server) Close() {
	s.rateLimiter.Stop()
	s.store.Stop()
}

// withCORS adds CORS headers for allowed origins; with no configured origins every origin is allowed.
// OPTIONS is answered here except under the relay mount.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := "*"
		if len(s.corsOrigins) > 0 {
			origin = ""
			if o := r.Header.Get("Origin"); s.corsOrigins[o] {
				origin = o
				w.Header().Add("Vary", "Origin")
			}
		}
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")
		}

		// The relay answers every non-POST method itself, preflight included
		if r.Method == http.MethodOptions && !strings.HasPrefix(r.URL.Path, RelayPrefix+"/") {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Flush keeps SSE streaming working through the recorder
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", r.RemoteAddr),
		)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.store.Len(),
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("error encoding JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// fail maps err to a status and user-facing message
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	s.errorResponse(w, status, UserMessage(err))
}

// extractClientID extracts the client identifier from the request.
// Forwarded headers are ignored since they are client-controlled without a trusted proxy.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds()) + 1
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	s.logger.Warn("rate limit exceeded",
		zap.String("client", s.extractClientID(r)),
		zap.String("path", r.URL.Path),
		zap.Int("limit", info.Limit),
	)

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

// wantsEventStream reports whether the client asked for Server-Sent Events
func wantsEventStream(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/event-stream")
}
