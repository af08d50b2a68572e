package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/jobboard/internal/events"
	"github.com/jonathan/jobboard/internal/feed"
	"github.com/jonathan/jobboard/internal/postings"
	"github.com/jonathan/jobboard/internal/server/middleware"
	"github.com/jonathan/jobboard/internal/server/ratelimit"
	"github.com/jonathan/jobboard/internal/store"
	"github.com/jonathan/jobboard/internal/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// shutdownTimeout bounds graceful shutdown of in-flight requests.
const shutdownTimeout = 30 * time.Second

// sessionSweepInterval is how often idle feed sessions are expired.
const sessionSweepInterval = time.Minute

// Creator submits new postings to the posting backend.
type Creator interface {
	Create(ctx context.Context, post *types.JobPosting) (*types.JobPosting, error)
}

// storeCreator adapts a Store to Creator.
type storeCreator struct {
	store store.Store
}

func (c storeCreator) Create(ctx context.Context, post *types.JobPosting) (*types.JobPosting, error) {
	return c.store.Create(ctx, *post)
}

// Pinger reports whether the posting backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) postings.Status
}

// Deps are the collaborators a Server is assembled from. Store, Loader, JWT
// and UserService are required; the rest fall back to local or no-op
// implementations.
type Deps struct {
	Store  store.Store
	Loader *postings.Loader

	// Creator receives employer postings. Nil submits to Store.
	Creator Creator
	// Backend is probed by GET /backend/status. Nil reports the local store.
	Backend Pinger

	Sessions    *feed.Registry
	Publisher   events.Publisher
	Subscriber  *events.Subscriber
	JWT         *JWTService
	UserService *UserService
	RateLimiter *ratelimit.Limiter
	Logger      *zap.Logger

	Port           int
	AllowedOrigins []string
	PageSize       int

	// Closers run after shutdown, in order.
	Closers []func()
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	store       store.Store
	loader      *postings.Loader
	creator     Creator
	backend     Pinger
	sessions    *feed.Registry
	publisher   events.Publisher
	subscriber  *events.Subscriber
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	authHandler *AuthHandler
	validate    *validator.Validate
	logger      *zap.Logger
	origins     []string
	pageSize    int
	closers     []func()
}

// New creates a new server instance
func New(deps Deps) (*Server, error) {
	switch {
	case deps.Store == nil:
		return nil, errors.New("server: store is required")
	case deps.Loader == nil:
		return nil, errors.New("server: loader is required")
	case deps.JWT == nil:
		return nil, errors.New("server: JWT service is required")
	case deps.UserService == nil:
		return nil, errors.New("server: user service is required")
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		store:       deps.Store,
		loader:      deps.Loader,
		creator:     deps.Creator,
		backend:     deps.Backend,
		sessions:    deps.Sessions,
		publisher:   deps.Publisher,
		subscriber:  deps.Subscriber,
		rateLimiter: deps.RateLimiter,
		jwtService:  deps.JWT,
		validate:    newRequestValidator(),
		logger:      logger,
		origins:     deps.AllowedOrigins,
		pageSize:    deps.PageSize,
		closers:     deps.Closers,
	}
	if s.creator == nil {
		s.creator = storeCreator{store: deps.Store}
	}
	if s.sessions == nil {
		s.sessions = feed.NewRegistry(feed.DefaultSessionTTL, logger)
	}
	if s.publisher == nil {
		s.publisher = events.NewNopPublisher()
	}
	if s.rateLimiter == nil {
		s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())
	}
	if len(s.origins) == 0 {
		s.origins = []string{"*"}
	}
	if s.pageSize <= 0 {
		s.pageSize = feed.DefaultPageSize
	}
	s.authHandler = NewAuthHandler(deps.UserService, deps.JWT, logger)

	port := deps.Port
	if port == 0 {
		port = 8080
	}
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	authenticated := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
	requireRole := func(role string, h http.HandlerFunc) http.Handler {
		return authenticated(middleware.RequireRole(role)(h))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /backend/status", s.handleBackendStatus)

	// Posting backend routes
	mux.HandleFunc("GET /allPosts", s.handleListPosts)
	mux.HandleFunc("GET /posts/{text}", s.handleSearchPosts)
	mux.HandleFunc("POST /post", s.handleCreatePost)
	mux.HandleFunc("GET /postings/{id}", s.handleGetPosting)

	// Job seeker feed
	mux.HandleFunc("GET /feed", s.handleFeed)
	mux.HandleFunc("POST /feed/sessions", s.handleOpenSession)
	mux.HandleFunc("GET /feed/sessions/{id}", s.handleGetSession)
	mux.HandleFunc("POST /feed/sessions/{id}/actions", s.handleSessionActions)
	mux.HandleFunc("DELETE /feed/sessions/{id}", s.handleCloseSession)

	// Auth
	mux.HandleFunc("POST /auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /auth/login", s.authHandler.Login)
	mux.Handle("GET /auth/me", authenticated(http.HandlerFunc(s.authHandler.Me)))

	// Employer
	mux.HandleFunc("GET /employer/postings/form", s.handlePostingFormOptions)
	mux.Handle("POST /employer/postings/validate", requireRole(types.RoleEmployer, s.handleValidatePostingStep))
	mux.Handle("POST /employer/postings", requireRole(types.RoleEmployer, s.handleCreateEmployerPosting))
	mux.Handle("DELETE /employer/postings/{id}", requireRole(types.RoleEmployer, s.handleDeleteEmployerPosting))
	mux.Handle("GET /employer/dashboard", requireRole(types.RoleEmployer, s.handleDashboard))

	// Job seeker applications
	mux.Handle("POST /postings/{id}/applications", requireRole(types.RoleEmployee, s.handleApply))

	return s.withRateLimit(s.withLogging(s.withCORS(mux)))
}

// Run serves until ctx is cancelled, then shuts down gracefully. The session
// janitor, rate limiter cleanup and the optional posting event listener run
// alongside the HTTP server; the first failure stops them all.
func (s *Server) Run(ctx context.Context) error {
	defer s.close()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	g.Go(func() error { return s.sessions.Run(ctx, sessionSweepInterval) })
	g.Go(func() error { return s.rateLimiter.Run(ctx) })

	if s.subscriber != nil {
		g.Go(func() error { return s.subscriber.Listen(ctx, s.onPostingCreated) })
	}

	err := g.Wait()
	s.logger.Info("server stopped")
	return err
}

func (s *Server) close() {
	s.publisher.Close()
	if s.subscriber != nil {
		s.subscriber.Close()
	}
	for _, c := range s.closers {
		c()
	}
}

// onPostingCreated drops the cached listing when any instance creates a posting.
func (s *Server) onPostingCreated(ctx context.Context, post types.JobPosting) {
	s.logger.Debug("posting created elsewhere, invalidating listing cache", zap.String("posting_id", post.ID))
	s.loader.Invalidate(ctx)
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	allowAll := slices.Contains(s.origins, "*")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case allowAll:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "" && slices.Contains(s.origins, origin):
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Int("bytes", rec.bytes),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote_addr", r.RemoteAddr),
		}
		switch {
		case rec.status >= 500:
			s.logger.Error("request", fields...)
		case rec.status >= 400:
			s.logger.Warn("request", fields...)
		default:
			s.logger.Info("request", fields...)
		}
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"feed_sessions": s.sessions.Len(),
	})
}

// handleBackendStatus reports whether the posting backend answers.
func (s *Server) handleBackendStatus(w http.ResponseWriter, r *http.Request) {
	if s.backend == nil {
		start := time.Now()
		_, err := s.store.List(r.Context())
		status := postings.Status{Connected: err == nil, Latency: time.Since(start), Message: "Local posting store is available"}
		if err != nil {
			status.Message = fmt.Sprintf("Local posting store failed: %v", err)
		}
		s.jsonResponse(w, http.StatusOK, status)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.backend.Ping(r.Context()))
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	writeJSON(w, s.logger, status, data)
}

// errorResponse writes an error JSON response with the status HTTPStatus assigns
func (s *Server) errorResponse(w http.ResponseWriter, err error) {
	writeError(w, s.logger, err)
}

func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Warn("error encoding JSON response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := HTTPStatus(err)
	if status >= 500 {
		logger.Error("request failed", zap.Int("status", status), zap.Error(err))
	}
	writeJSON(w, logger, status, newErrorBody(err, status))
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; forwarded headers are not trusted.
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
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}

	if info.RetryAfter > 0 {
		seconds := max(1, int(info.RetryAfter.Round(time.Second).Seconds()))
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	s.logger.Warn("rate limit exceeded",
		zap.String("client", s.extractClientID(r)),
		zap.String("path", r.URL.Path),
		zap.Int("limit", info.Limit))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
