package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/signgroup/workshop-api/docs"
	"github.com/signgroup/workshop-api/internal/auth"
	"github.com/signgroup/workshop-api/internal/config"
	"github.com/signgroup/workshop-api/internal/database"
	"github.com/signgroup/workshop-api/internal/http/handler"
	"github.com/signgroup/workshop-api/internal/http/middleware"
	"github.com/signgroup/workshop-api/internal/http/router"
	"github.com/signgroup/workshop-api/internal/jobs"
	"github.com/signgroup/workshop-api/internal/logger"
	"github.com/signgroup/workshop-api/internal/repository"
	"github.com/signgroup/workshop-api/internal/service"
	"github.com/signgroup/workshop-api/internal/storage"
	"go.uber.org/zap"
)

// @title SignGroup Workshop API
// @version 1.0
// @description Workshop API for sign-making jobs, quotation pricing and financial reporting

// @contact.name API Support
// @contact.email support@signgroup.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
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

	// Configure Swagger host based on environment
	switch basicCfg.App.Environment {
	case "staging":
		docs.SwaggerInfo.Host = "workshop-staging.signgroup.com"
	case "production":
		docs.SwaggerInfo.Host = "api.signgroup.com"
	default:
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// Load full configuration with secrets
	// In development: uses environment variables
	// In staging/production: fetches from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	// Connect to database with retry logic
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Initialize storage for mockup images
	fileStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	jobRepo := repository.NewJobRepository(db)
	changelogRepo := repository.NewChangelogRepository(db)
	costItemRepo := repository.NewCostItemRepository(db)
	categoryRepo := repository.NewItemCategoryRepository(db)
	fixedCostRepo := repository.NewFixedCostRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	// Token manager signs and validates bearer tokens
	tokenManager, err := auth.NewTokenManager(&cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to create token manager: %w", err)
	}

	// Initialize services
	userService := service.NewUserService(userRepo, jobRepo, tokenManager, log)
	financialsService := service.NewFinancialsService(jobRepo, fixedCostRepo, settingRepo, log)
	jobService := service.NewJobService(jobRepo, changelogRepo, costItemRepo, userRepo, financialsService, log)
	catalogService := service.NewCatalogService(costItemRepo, categoryRepo, log)

	// Initialize middleware
	authMiddleware := auth.NewMiddleware(tokenManager, userRepo, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(userService, log)
	jobHandler := handler.NewJobHandler(jobService, fileStorage, cfg.Storage.MaxUploadSizeMB, log)
	catalogHandler := handler.NewCatalogHandler(catalogService, log)
	financialsHandler := handler.NewFinancialsHandler(financialsService, log)
	userHandler := handler.NewUserHandler(userService, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		authHandler,
		jobHandler,
		catalogHandler,
		financialsHandler,
		userHandler,
	)

	// Initialize and start scheduler for background jobs
	var scheduler *jobs.Scheduler
	if cfg.Jobs.InstallationDigestEnabled {
		scheduler = jobs.NewScheduler(log)

		digest := jobs.NewInstallationDigestJob(jobRepo, log, 30*time.Second)
		if err := scheduler.AddJob(jobs.InstallationDigestJobName, cfg.Jobs.InstallationDigestCron, digest.Run); err != nil {
			log.Error("Failed to register installation digest job", zap.Error(err))
		} else {
			scheduler.Start()
			log.Info("Scheduler started with installation digest job",
				zap.String("cron_expr", cfg.Jobs.InstallationDigestCron),
			)
		}
	} else {
		log.Info("Installation digest disabled")
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		// Stop scheduler if running
		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		// Graceful shutdown with timeout
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
