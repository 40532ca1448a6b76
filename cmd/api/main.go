package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/freshfold/laundry-api/docs"
	"github.com/freshfold/laundry-api/internal/auth"
	"github.com/freshfold/laundry-api/internal/config"
	"github.com/freshfold/laundry-api/internal/database"
	"github.com/freshfold/laundry-api/internal/http/handler"
	"github.com/freshfold/laundry-api/internal/http/middleware"
	"github.com/freshfold/laundry-api/internal/http/router"
	"github.com/freshfold/laundry-api/internal/jobs"
	"github.com/freshfold/laundry-api/internal/logger"
	"github.com/freshfold/laundry-api/internal/metrics"
	"github.com/freshfold/laundry-api/internal/repository"
	"github.com/freshfold/laundry-api/internal/service"
	"github.com/freshfold/laundry-api/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// @title FreshFold Laundry API
// @version 1.0
// @description Point of sale and scheduling API for a laundry shop: orders, load capacity, budgets and income reports
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@freshfold.example

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token
// @Security BearerAuth

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Money goes over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)

	// In development secrets come from the environment; elsewhere from Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}
	loc := cfg.App.Location()
	clock := service.NewSystemClock(loc)

	db, err := database.NewDatabase(&cfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Warn("Error closing database", zap.Error(err))
		}
	}()

	archive, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode), zap.Bool("archiving", archive != nil))

	m := metrics.New(prometheus.DefaultRegisterer)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	itemRepo := repository.NewItemRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	budgetRepo := repository.NewBudgetEntryRepository(db)
	snapshotRepo := repository.NewReportSnapshotRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	// Services
	tokens := auth.NewTokenService(&cfg.Auth)
	authService := service.NewAuthService(userRepo, tokens, log)
	userService := service.NewUserService(userRepo, log)
	catalogService := service.NewCatalogService(itemRepo, log)
	settingsService := service.NewSettingsService(settingRepo, userRepo, &cfg.Laundry, db, log)
	budgetService := service.NewBudgetService(budgetRepo, clock, log)
	orderService := service.NewOrderService(orderRepo, itemRepo, userRepo, settingsService, clock, m, log, db)
	capacityService := service.NewCapacityService(orderRepo, settingsService, clock, &cfg.Laundry, log)
	reportService := service.NewReportService(budgetRepo, orderRepo, snapshotRepo, archive, loc, clock, m, log, db)
	dashboardService := service.NewDashboardService(orderRepo, capacityService, clock, loc, log)

	if err := authService.EnsureBootstrapAdmin(ctx, cfg.Auth.BootstrapAdminUsername, cfg.Auth.BootstrapAdminPassword); err != nil {
		return fmt.Errorf("failed to bootstrap admin account: %w", err)
	}

	// Middleware
	authMiddleware := auth.NewMiddleware(tokens, userRepo, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	rt := router.NewRouter(cfg, log, db, m, authMiddleware, rateLimiter, router.Handlers{
		Auth:      handler.NewAuthHandler(authService, log),
		User:      handler.NewUserHandler(userService, log),
		Item:      handler.NewItemHandler(catalogService, log),
		Order:     handler.NewOrderHandler(orderService, log),
		Schedule:  handler.NewScheduleHandler(capacityService, clock, log),
		Budget:    handler.NewBudgetHandler(budgetService, log),
		Report:    handler.NewReportHandler(reportService, log),
		Settings:  handler.NewSettingsHandler(settingsService, log),
		Dashboard: handler.NewDashboardHandler(dashboardService, log),
	})

	// Background jobs
	var scheduler *jobs.Scheduler
	if cfg.Scheduler.Enabled {
		scheduler = jobs.NewScheduler(log, loc)
		reconcile := jobs.NewStatusReconcileJob(orderService, m, log, cfg.Scheduler.StatusReconcileTimeoutDuration())
		if err := scheduler.AddJob(jobs.StatusReconcileJobName, cfg.Scheduler.StatusReconcileCron, reconcile.Run); err != nil {
			return fmt.Errorf("failed to register status reconcile job: %w", err)
		}

		// Catch up on anything that went overdue while the server was down
		startupCtx, cancel := context.WithTimeout(ctx, cfg.Scheduler.StatusReconcileTimeoutDuration())
		_, _ = reconcile.RunOnce(startupCtx)
		cancel()

		scheduler.Start()
		log.Info("Scheduler started",
			zap.String("status_reconcile_cron", cfg.Scheduler.StatusReconcileCron),
			zap.String("timezone", loc.String()),
		)
	} else {
		log.Info("Scheduler disabled")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			<-scheduler.Stop().Done()
			log.Info("Scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
