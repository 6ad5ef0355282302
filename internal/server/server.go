package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonathan/job-assistant/internal/config"
	"github.com/jonathan/job-assistant/internal/history"
	"github.com/jonathan/job-assistant/internal/observability"
	"github.com/jonathan/job-assistant/internal/server/middleware"
	"github.com/jonathan/job-assistant/internal/server/ratelimit"
	"github.com/jonathan/job-assistant/internal/types"
)

// maxBodyBytes caps request bodies; fill previews carry whole pages.
const maxBodyBytes = 8 << 20

// Extractor turns a posting URL into a JobPosting.
type Extractor interface {
	ExtractFromURL(ctx context.Context, url string) (*types.JobPosting, error)
}

// Analyzer is the LLM-backed resume collaborator.
type Analyzer interface {
	Analyze(ctx context.Context, description string) (*types.Analysis, error)
	Tailor(ctx context.Context, resume, description string) (string, error)
}

// Store is the persistent history and job board.
type Store interface {
	ListExtractions(ctx context.Context, userID uuid.UUID, limit int) ([]types.ExtractionAttempt, error)
	SaveJob(ctx context.Context, userID uuid.UUID, status string, job *types.JobPosting) (*types.SavedJob, error)
	ListSavedJobs(ctx context.Context, userID uuid.UUID, limit int) ([]types.SavedJob, error)
	Stats(ctx context.Context) (*types.Stats, error)
	Ping(ctx context.Context) error
}

// StatsSource reports aggregate extraction and fill counts.
type StatsSource interface {
	Stats(ctx context.Context) (*types.Stats, error)
}

// Config holds server configuration
type Config struct {
	Port       int
	CORSOrigin string
	JWT        *config.JWTConfig // nil disables auth
}

// Deps are the collaborators behind the routes. Only Extractor is required;
// routes whose dependency is missing answer 503.
type Deps struct {
	Extractor   Extractor
	Recorder    history.Recorder
	Store       Store
	Stats       StatsSource // preferred over Store for /stats when set
	Analyzer    Analyzer
	RateLimiter *ratelimit.Limiter
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	extractor   Extractor
	recorder    history.Recorder
	store       Store
	stats       StatsSource
	analyzer    Analyzer
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	corsOrigin  string
	now         func() time.Time
}

// New creates a new server instance
func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Extractor == nil {
		return nil, errors.New("server: extractor is required")
	}

	s := &Server{
		extractor:   deps.Extractor,
		recorder:    deps.Recorder,
		store:       deps.Store,
		stats:       deps.Stats,
		analyzer:    deps.Analyzer,
		rateLimiter: deps.RateLimiter,
		corsOrigin:  cfg.CORSOrigin,
		now:         time.Now,
	}
	if s.recorder == nil {
		s.recorder = history.Nop{}
	}
	if s.rateLimiter == nil {
		s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())
	}
	if s.corsOrigin == "" {
		s.corsOrigin = config.DefaultCORSOrigin
	}
	if cfg.JWT != nil {
		s.jwtService = NewJWTService(cfg.JWT)
	}

	requireUser := s.authenticated(false)
	optionalUser := s.authenticated(true)

	mux := http.NewServeMux()
	mux.Handle("POST /extract", optionalUser(s.handleExtract))
	mux.Handle("POST /fill/preview", optionalUser(s.handleFillPreview))
	mux.Handle("POST /analyze", requireUser(s.handleAnalyze))
	mux.Handle("POST /tailor", requireUser(s.handleTailor))
	mux.Handle("GET /history", requireUser(s.handleHistory))
	mux.Handle("POST /jobs", requireUser(s.handleSaveJob))
	mux.Handle("GET /jobs", requireUser(s.handleListJobs))
	mux.HandleFunc("GET /stats", s.handleStats)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(mux)))
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // browser-rendered extractions are slow
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens until SIGINT or SIGTERM, then shuts down gracefully. The
// caller owns the collaborators and closes them after Start returns.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[server] Listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.rateLimiter.Stop()
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}

	log.Println("[server] Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.Shutdown(ctx)
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	defer s.rateLimiter.Stop()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	log.Println("[server] Stopped")
	return nil
}

// authenticated wraps handlers with JWT auth when a secret is configured.
// Without one every request runs as the anonymous user.
func (s *Server) authenticated(optional bool) func(http.HandlerFunc) http.Handler {
	return func(h http.HandlerFunc) http.Handler {
		if s.jwtService == nil {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				h(w, r.WithContext(middleware.WithUserID(r.Context(), uuid.Nil)))
			})
		}
		if optional {
			return middleware.OptionalAuthMiddleware(s.jwtService.AsTokenValidator())(h)
		}
		return middleware.AuthMiddleware(s.jwtService.AsTokenValidator())(h)
	}
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.corsOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if s.corsOrigin != "*" {
			w.Header().Add("Vary", "Origin")
		}

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
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		observability.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		log.Printf("[server] %s %s %d %v", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

// extractClientID returns the client IP. X-Forwarded-For is honoured only
// when the limiter is configured to trust a proxy in front of us.
func (s *Server) extractClientID(r *http.Request) string {
	if s.rateLimiter.TrustProxy() {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			first, _, _ := strings.Cut(fwd, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
	}
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
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"success": false,
		"error":   "Rate limit exceeded. Please try again later.",
		"limit":   info.Limit,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}
	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Round(time.Second).Seconds())
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Retry=%s", info.Limit, info.RetryAfter)
	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[server] Error encoding JSON response: %v", err)
	}
}

// errorResponse writes {success:false, error} with the given status.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]any{"success": false, "error": message})
}

// failure maps err to its status code and writes it.
func (s *Server) failure(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		log.Printf("[server] %v", err)
	}
	s.errorResponse(w, status, publicMessage(err, status))
}

// publicMessage hides internal error text behind a generic 500 message.
func publicMessage(err error, status int) string {
	var upstreamErr *ErrUpstream
	switch {
	case errors.As(err, &upstreamErr):
		return upstreamErr.Service + " is temporarily unavailable"
	case status == http.StatusInternalServerError:
		return "Internal server error"
	default:
		return err.Error()
	}
}

// decodeJSON reads a size-limited JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	return nil
}

// parseQueryInt reads a non-negative integer query parameter, clamped to maxValue.
func parseQueryInt(r *http.Request, key string, defaultValue, maxValue int) int {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		return defaultValue
	}
	if maxValue > 0 && val > maxValue {
		return maxValue
	}
	return val
}

// userID returns the request's user, or uuid.Nil for anonymous requests.
func userID(r *http.Request) uuid.UUID {
	id, err := middleware.GetUserID(r)
	if err != nil {
		return uuid.Nil
	}
	return id
}
