package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/signgroup/workshop-api/internal/auth"
	"github.com/signgroup/workshop-api/internal/config"
	"github.com/signgroup/workshop-api/internal/database"
	"github.com/signgroup/workshop-api/internal/http/handler"
	"github.com/signgroup/workshop-api/internal/http/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/signgroup/workshop-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg               *config.Config
	logger            *zap.Logger
	db                *gorm.DB
	authMiddleware    *auth.Middleware
	rateLimiter       *middleware.RateLimiter
	authHandler       *handler.AuthHandler
	jobHandler        *handler.JobHandler
	catalogHandler    *handler.CatalogHandler
	financialsHandler *handler.FinancialsHandler
	userHandler       *handler.UserHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	authHandler *handler.AuthHandler,
	jobHandler *handler.JobHandler,
	catalogHandler *handler.CatalogHandler,
	financialsHandler *handler.FinancialsHandler,
	userHandler *handler.UserHandler,
) *Router {
	return &Router{
		cfg:               cfg,
		logger:            logger,
		db:                db,
		authMiddleware:    authMiddleware,
		rateLimiter:       rateLimiter,
		authHandler:       authHandler,
		jobHandler:        jobHandler,
		catalogHandler:    catalogHandler,
		financialsHandler: financialsHandler,
		userHandler:       userHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP) // Apply IP-based rate limiting globally

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with pool stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"open_connections": stats.OpenConnections,
				"in_use":           stats.InUse,
				"idle":             stats.Idle,
			},
		})
	})

	// Combined readiness check
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if allHealthy {
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "healthy",
				"checks": checks,
			})
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "unhealthy",
				"checks": checks,
			})
		}
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes (no auth required)
		r.Post("/auth/login", rt.authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)

			// Auth
			r.Get("/auth/me", rt.authHandler.Me)
			r.Put("/auth/profile", rt.authHandler.UpdateProfile)

			// Jobs
			r.Route("/jobs", func(r chi.Router) {
				r.Get("/", rt.jobHandler.List)
				r.Post("/", rt.jobHandler.Create)
				r.Get("/report", rt.jobHandler.Report)
				r.Get("/{id}", rt.jobHandler.Get)
				r.Put("/{id}", rt.jobHandler.Update)
				r.Delete("/{id}", rt.jobHandler.Delete)
				r.Get("/{id}/changelog", rt.jobHandler.Changelog)
				r.Get("/{id}/report", rt.jobHandler.ReportByID)
				r.Get("/{id}/mockup", rt.jobHandler.DownloadMockup)
				r.Post("/{id}/mockup", rt.jobHandler.UploadMockup)
			})

			// Cost item catalog
			r.Route("/items", func(r chi.Router) {
				r.Get("/", rt.catalogHandler.ListItems)
				r.Post("/", rt.catalogHandler.CreateItem)
				r.Get("/categories", rt.catalogHandler.ListCategories)
				r.Post("/categories", rt.catalogHandler.CreateCategory)
				r.Put("/categories/{id}", rt.catalogHandler.UpdateCategory)
				r.Delete("/categories/{id}", rt.catalogHandler.DeleteCategory)
				r.Get("/{id}", rt.catalogHandler.GetItem)
				r.Put("/{id}", rt.catalogHandler.UpdateItem)
				r.Delete("/{id}", rt.catalogHandler.DeleteItem)
			})

			// Financials
			r.Route("/financials", func(r chi.Router) {
				r.Get("/summary", rt.financialsHandler.Summary)
				r.Get("/trend", rt.financialsHandler.Trend)
				r.Get("/fixed-costs", rt.financialsHandler.ListFixedCosts)
				r.Post("/fixed-costs", rt.financialsHandler.CreateFixedCost)
				r.Put("/fixed-costs/{id}", rt.financialsHandler.UpdateFixedCost)
				r.Delete("/fixed-costs/{id}", rt.financialsHandler.DeleteFixedCost)
				r.Get("/settings", rt.financialsHandler.GetSettings)
				r.Put("/settings", rt.financialsHandler.UpdateSettings)
			})

			// User administration. Access is governed by each account's
			// stored users.* permission flags, checked in the service.
			r.Route("/users", func(r chi.Router) {
				r.Get("/", rt.userHandler.List)
				r.Post("/", rt.userHandler.Create)
				r.Get("/{id}", rt.userHandler.Get)
				r.Put("/{id}", rt.userHandler.Update)
				r.Delete("/{id}", rt.userHandler.Delete)
			})
		})
	})

	return r
}
