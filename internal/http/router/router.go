package router

import (
	"encoding/json"
	"net/http"

	"github.com/freshfold/laundry-api/internal/auth"
	"github.com/freshfold/laundry-api/internal/config"
	"github.com/freshfold/laundry-api/internal/database"
	"github.com/freshfold/laundry-api/internal/domain"
	"github.com/freshfold/laundry-api/internal/http/handler"
	"github.com/freshfold/laundry-api/internal/http/middleware"
	"github.com/freshfold/laundry-api/internal/metrics"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/freshfold/laundry-api/docs" // Import generated swagger docs
)

// Handlers groups the HTTP handlers mounted under /api/v1
type Handlers struct {
	Auth      *handler.AuthHandler
	User      *handler.UserHandler
	Item      *handler.ItemHandler
	Order     *handler.OrderHandler
	Schedule  *handler.ScheduleHandler
	Budget    *handler.BudgetHandler
	Report    *handler.ReportHandler
	Settings  *handler.SettingsHandler
	Dashboard *handler.DashboardHandler
}

type Router struct {
	cfg            *config.Config
	logger         *zap.Logger
	db             *gorm.DB
	metrics        *metrics.Metrics
	authMiddleware *auth.Middleware
	rateLimiter    *middleware.RateLimiter
	handlers       Handlers
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	m *metrics.Metrics,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	handlers Handlers,
) *Router {
	return &Router{
		cfg:            cfg,
		logger:         logger,
		db:             db,
		metrics:        m,
		authMiddleware: authMiddleware,
		rateLimiter:    rateLimiter,
		handlers:       handlers,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()
	h := rt.handlers

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger, rt.metrics))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with pool stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			writeHealth(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		writeHealth(w, http.StatusOK, map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
			},
		})
	})

	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			writeHealth(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status": "unhealthy",
				"checks": map[string]interface{}{
					"database": map[string]interface{}{"status": "unhealthy", "error": err.Error()},
				},
			})
			return
		}
		writeHealth(w, http.StatusOK, map[string]interface{}{
			"status": "healthy",
			"checks": map[string]interface{}{
				"database": map[string]interface{}{"status": "healthy"},
			},
		})
	})

	if rt.cfg.Server.EnableMetrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		if timeout := rt.cfg.Server.RequestTimeoutDuration(); timeout > 0 {
			r.Use(chimw.Timeout(timeout))
		}

		// Public routes
		r.With(rt.rateLimiter.LimitLogin).Post("/auth/login", h.Auth.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Use(rt.rateLimiter.LimitByUser)

			r.Get("/auth/me", h.Auth.Me)
			r.Post("/auth/password", h.Auth.ChangePassword)

			r.Get("/dashboard", h.Dashboard.GetSummary)

			// Users (admin only)
			r.Route("/users", func(r chi.Router) {
				r.Use(rt.authMiddleware.RequireRole(domain.RoleAdmin))
				r.Get("/", h.User.List)
				r.Post("/", h.User.Create)
				r.Patch("/{id}/active", h.User.SetActive)
			})

			// Catalog
			r.Route("/items", func(r chi.Router) {
				r.Get("/", h.Item.List)
				r.Get("/{id}", h.Item.GetByID)
				r.Group(func(r chi.Router) {
					r.Use(rt.authMiddleware.RequireRole(domain.RoleAdmin))
					r.Post("/", h.Item.Create)
					r.Put("/{id}", h.Item.Update)
					r.Delete("/{id}", h.Item.Delete)
				})
			})

			// Orders
			r.Route("/orders", func(r chi.Router) {
				r.Get("/", h.Order.List)
				r.Post("/", h.Order.Create)
				r.Get("/{id}", h.Order.GetByID)
				r.Put("/{id}", h.Order.Update)
				r.Put("/{id}/items", h.Order.ReplaceItems)
				r.Patch("/{id}/status", h.Order.UpdateStatus)
				r.Post("/{id}/complete", h.Order.Complete)
				r.With(rt.authMiddleware.RequireRole(domain.RoleAdmin)).Delete("/{id}", h.Order.Delete)
			})

			// Scheduling
			r.Route("/schedule", func(r chi.Router) {
				r.Get("/capacity", h.Schedule.Capacity)
				r.Get("/suggestions", h.Schedule.Suggestions)
			})

			// Budget and reports (admin only)
			r.Route("/budget", func(r chi.Router) {
				r.Use(rt.authMiddleware.RequireRole(domain.RoleAdmin))
				r.Get("/", h.Budget.List)
				r.Post("/", h.Budget.Create)
				r.Get("/{id}", h.Budget.GetByID)
				r.Put("/{id}", h.Budget.Update)
				r.Delete("/{id}", h.Budget.Delete)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Use(rt.authMiddleware.RequireRole(domain.RoleAdmin))
				r.Get("/calculate", h.Report.Calculate)
				r.Get("/snapshots", h.Report.ListSnapshots)
				r.Post("/snapshots", h.Report.SaveSnapshot)
				r.Get("/snapshots/{id}", h.Report.GetSnapshot)
				r.Delete("/snapshots/{id}", h.Report.DeleteSnapshot)
				r.Get("/snapshots/{id}/export", h.Report.ExportSnapshot)
				r.Post("/snapshots/{id}/archive", h.Report.ArchiveSnapshot)
				r.Get("/snapshots/{id}/archive", h.Report.DownloadArchive)
			})

			// Settings
			r.Route("/settings", func(r chi.Router) {
				r.Get("/", h.Settings.Get)
				r.With(rt.authMiddleware.RequireRole(domain.RoleAdmin)).Put("/", h.Settings.Update)
			})
		})
	})

	return r
}

func writeHealth(w http.ResponseWriter, status int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
