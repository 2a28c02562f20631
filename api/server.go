// Package api provides the HTTP REST API server for quantcore.
//
// It exposes the bond valuation, portfolio statistics and sensitivity curve
// engines as JSON endpoints, plus Prometheus metrics and a WebSocket feed of
// completed calculations.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/seenimoa/quantcore/internal/config"
	"github.com/seenimoa/quantcore/internal/fixedincome"
	"github.com/seenimoa/quantcore/internal/infra"
	"github.com/seenimoa/quantcore/internal/logging"
	"github.com/seenimoa/quantcore/internal/metrics"
	"github.com/seenimoa/quantcore/internal/portfolio"
)

// Version is reported by /health. Overridden at build time.
var Version = "dev"

// maxBodyBytes bounds request bodies; price histories are the largest input.
const maxBodyBytes = 8 << 20

// Server is the HTTP API server.
type Server struct {
	router   chi.Router
	cfg      *config.Config
	logger   *zap.Logger
	validate *validator.Validate
	cache    *infra.Cache[any]
	limiter  *infra.ClientRateLimiter
	wsHub    *WSHub
	started  time.Time
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(cfg *config.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	srv := &Server{
		cfg:      cfg,
		logger:   logger,
		validate: validator.New(),
		cache:    infra.NewCache[any](time.Duration(cfg.Cache.TTL) * time.Second),
		limiter:  infra.NewClientRateLimiter(cfg.API.RateLimitRPS, cfg.API.RateLimitBurst),
		wsHub:    NewWSHub(),
		started:  time.Now(),
	}
	srv.router = srv.buildRouter()
	return srv
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// Hub returns the WebSocket hub.
func (s *Server) Hub() *WSHub {
	return s.wsHub
}

// ListenAndServe starts the HTTP server and blocks until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	httpSrv := &http.Server{
		Addr:         s.cfg.API.Addr(),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start WebSocket hub
	go s.wsHub.Run()
	defer s.wsHub.Stop()

	// Periodic cleanup of expired cache entries and idle rate-limit buckets
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.cache.Cleanup()
				s.limiter.Cleanup()
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("API server listening", zap.String("addr", httpSrv.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.Middleware(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(metricsMiddleware)

	// CORS
	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check and metrics
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// WebSocket is long-lived; no timeout or rate limit
		r.Get("/ws", s.handleWebSocket)

		r.Group(func(r chi.Router) {
			r.Use(s.limiter.Middleware(func(*http.Request) { metrics.RateLimitedTotal.Inc() }))
			if s.cfg.API.RequestTimeoutSec > 0 {
				r.Use(middleware.Timeout(time.Duration(s.cfg.API.RequestTimeoutSec) * time.Second))
			}

			// Bond valuation
			r.Route("/bond", func(r chi.Router) {
				r.Post("/price", s.handleBondPrice)
				r.Post("/ytm/approx", s.handleApproxYTM)
				r.Post("/ytm/solve", s.handleSolveYTM)
				r.Post("/duration", s.handleDuration)
				r.Post("/price-change", s.handlePriceChange)
				r.Post("/zero-coupon", s.handleZeroCoupon)
				r.Post("/clean-dirty", s.handleCleanDirty)
				r.Post("/accrued", s.handleAccrued)
				r.Post("/cashflows", s.handleCashFlows)
			})

			// Portfolio statistics
			r.Route("/portfolio", func(r chi.Router) {
				r.Post("/returns", s.handleReturns)
				r.Post("/statistics", s.handleStatistics)
				r.Post("/covariance", s.handleCovariance)
				r.Post("/metrics", s.handlePortfolioMetrics)
				r.Post("/analyze", s.handleAnalyze)
			})

			// Sensitivity curves
			r.Route("/curves", func(r chi.Router) {
				r.Post("/price-yield", s.handlePriceYieldCurve)
				r.Post("/cashflows", s.handleCashFlowCurve)
				r.Post("/clean-dirty", s.handleCleanDirtyCurve)
			})
		})
	})

	return r
}

// ============================================================
// Types
// ============================================================

// APIResponse is the standard JSON response envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse is the payload of GET /health.
type HealthResponse struct {
	Status           string  `json:"status"`
	Version          string  `json:"version"`
	UptimeSeconds    float64 `json:"uptime_seconds"`
	WebSocketClients int     `json:"websocket_clients"`
	RiskFreeRate     float64 `json:"risk_free_rate"`
	MaxPeriods       int     `json:"max_periods"`
	CacheEntries     int     `json:"cache_entries"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: HealthResponse{
			Status:           "ok",
			Version:          Version,
			UptimeSeconds:    time.Since(s.started).Seconds(),
			WebSocketClients: s.wsHub.ClientCount(),
			RiskFreeRate:     s.cfg.Valuation.RiskFreeRate,
			MaxPeriods:       s.cfg.Valuation.MaxPeriods,
			CacheEntries:     s.cache.Len(),
		},
	})
}

// ============================================================
// Helpers
// ============================================================

// decode reads the JSON body into dst and validates its struct tags. On
// failure it writes a 400 response and returns false.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}

// validationMessage flattens validator errors into one readable line.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag())
		if fe.Param() != "" {
			msg += " (" + fe.Param() + ")"
		}
		msgs = append(msgs, msg)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// engineStatus maps engine errors onto HTTP status codes.
func engineStatus(err error) int {
	switch {
	case errors.Is(err, fixedincome.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, fixedincome.ErrOverflow), errors.Is(err, fixedincome.ErrNoConvergence),
		errors.Is(err, portfolio.ErrOverflow):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// fail records a failed calculation and writes the mapped error response.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, kind string, err error) {
	status := engineStatus(err)
	outcome := metrics.OutcomeInvalid
	if status == http.StatusInternalServerError {
		outcome = metrics.OutcomeError
		s.logger.Error("calculation failed",
			zap.String("kind", kind),
			zap.String("request_id", requestID(r)),
			zap.Error(err))
	}
	metrics.RecordCalculation(kind, outcome)
	writeError(w, status, err.Error())
}

// succeed records a completed calculation, notifies WebSocket clients and
// writes the result.
func (s *Server) succeed(w http.ResponseWriter, r *http.Request, ev CalculationEvent, data interface{}) {
	metrics.RecordCalculation(ev.Kind, metrics.OutcomeOK)
	s.notify(r, ev)
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: data})
}

// checkPeriods enforces the configured bound on coupon periods, which may be
// tighter than the engine's own limit.
func (s *Server) checkPeriods(b BondRequest) error {
	limit := s.cfg.Valuation.MaxPeriods
	if limit > 0 && b.YearsToMaturity*float64(b.PaymentsPerYear) > float64(limit) {
		return fmt.Errorf("%w: bond has more than %d coupon periods", fixedincome.ErrTooManyPeriods, limit)
	}
	return nil
}

// cacheKey builds a response cache key from the route and the decoded request.
func cacheKey(route string, req interface{}) string {
	b, err := json.Marshal(req)
	if err != nil {
		return ""
	}
	return route + ":" + string(b)
}

func requestID(r *http.Request) string {
	return middleware.GetReqID(r.Context())
}

// writeJSON encodes v before writing the header. An encoding failure is
// reported as a 500.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		zap.L().Error("failed to encode JSON response", zap.Error(err))
		status = http.StatusInternalServerError
		body, _ = json.Marshal(APIResponse{Success: false, Error: "failed to encode response"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		zap.L().Warn("failed to write JSON response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}
