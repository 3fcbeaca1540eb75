package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/andviana23/trato-sub001/internal/adapter/http/handler"
	"github.com/andviana23/trato-sub001/internal/adapter/http/middleware"
	"github.com/andviana23/trato-sub001/internal/infrastructure/auth"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	WebhookHandler *handler.WebhookHandler
	ReportHandler  *handler.ReportHandler
	JobHandler     *handler.JobHandler
	HealthHandler  *handler.HealthHandler

	Logging *middleware.LoggingMiddleware
	Metrics *middleware.MetricsMiddleware
	// Recovery falls back to chi's Recoverer when nil.
	Recovery func(http.Handler) http.Handler

	// JWTManager guards the operator API when AuthEnabled is set. The
	// webhook endpoint authenticates with the HMAC signature instead.
	JWTManager  *auth.JWTManager
	AuthEnabled bool
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	if cfg.Logging != nil {
		r.Use(cfg.Logging.Wrap)
	}
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Wrap)
	}
	if cfg.Recovery != nil {
		r.Use(cfg.Recovery)
	} else {
		r.Use(chimiddleware.Recoverer)
	}

	// Health and observability endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// Gateway notifications, authenticated by body signature
	r.Post("/webhooks/payments", cfg.WebhookHandler.Receive)

	// Operator API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.AuthEnabled && cfg.JWTManager != nil {
			r.Use(middleware.Auth(cfg.JWTManager))
		}

		r.Route("/reports", func(r chi.Router) {
			r.Get("/dre", cfg.ReportHandler.GetDRE)
			r.Get("/dre/export", cfg.ReportHandler.ExportDRE)
			r.Get("/dre/comparison", cfg.ReportHandler.CompareDRE)
			r.Get("/validation", cfg.ReportHandler.Validate)
		})

		r.Get("/jobs/failed", cfg.JobHandler.ListFailed)
		r.Get("/webhooks/logs", cfg.WebhookHandler.ListLogs)
	})

	return r
}
