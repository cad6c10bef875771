package routes

import (
	"context"
	"net/http"
	"time"

	"staylink/channelsync/internal/api"
	"staylink/channelsync/internal/db"
	"staylink/channelsync/internal/jobs"
	"staylink/channelsync/internal/logging"
	"staylink/channelsync/internal/metrics"
	"staylink/channelsync/internal/middleware"
	"staylink/channelsync/internal/workers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func RegisterRoutes(upSince time.Time) http.Handler {

	// initialize Chi router
	r := chi.NewRouter()

	// Initialize metrics registry
	metricsReg := metrics.NewMetricsRegistry()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.RateLimitMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	logging.Info("Router initialized with metrics and logging middleware")
	// health check
	r.Get("/healthCheck", api.HealthCheckHandler(db.DB, upSince))

	// Initialize dependencies using DI pattern
	deps, err := api.InitDependencies(metricsReg)
	if err != nil {
		panic("Failed to initialize dependencies: " + err.Error())
	}

	// Scheduled sync sweep and queue workers run for the process
	// lifetime.
	jobs.InitializeJobs(context.Background(), deps.SyncJob)
	workers.InitWorkers(context.Background(), deps.Services.SyncQueue, deps.SyncJob)

	RegisterAPIRoutes(r, metricsReg, deps)

	return r
}
