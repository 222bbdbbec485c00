package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/electrodrive/catalog-api/internal/config"
	"github.com/electrodrive/catalog-api/internal/metrics"
	"github.com/electrodrive/catalog-api/internal/middleware"
	"github.com/electrodrive/catalog-api/internal/models"
	"github.com/electrodrive/catalog-api/internal/store"
)

// Handlers bundles the route handlers wired by Setup.
type Handlers struct {
	Auth   *AuthHandler
	Motors *MotorHandler
	Upload *UploadHandler
}

// Setup configures all API routes
func Setup(app *fiber.App, cfg *config.Config, logger *logrus.Logger, middlewareManager *middleware.Manager, handlers Handlers, pinger store.Pinger) {
	// Health check endpoints (no auth required)
	app.Get("/healthz", healthCheck)
	app.Get("/readyz", readinessCheck(middlewareManager, pinger))
	app.Get("/version", versionHandler)

	// Metrics endpoint (no auth required)
	app.Get(cfg.Observability.MetricsPath, metrics.PrometheusHandler())

	// API routes with middleware
	api := app.Group("/api/v1")

	// Apply global middleware to API routes
	api.Use(metrics.HTTPMetricsMiddleware())
	api.Use(middlewareManager.RateLimit.Handle())
	api.Use(middlewareManager.ErrorLogger.Handle())

	// Auth routes (public endpoints - no auth required)
	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", handlers.Auth.Register)
	authRoutes.Post("/login", handlers.Auth.Login)

	// Auth routes that require a valid token
	authProtected := authRoutes.Group("", middlewareManager.Auth.Authenticate())
	authProtected.Get("/me", handlers.Auth.Me)
	authProtected.Post("/logout", handlers.Auth.Logout)
	authProtected.Post("/create-admin",
		middlewareManager.Auth.RequireRoles(models.RoleAdmin),
		handlers.Auth.CreateAdmin)

	// Motor catalog routes (reads are public)
	motorRoutes := api.Group("/motors")
	motorRoutes.Get("/", handlers.Motors.List)
	motorRoutes.Get("/search", handlers.Motors.Search)
	motorRoutes.Get("/:id", handlers.Motors.Get)

	// Catalog writes require editor or admin
	motorRoutes.Post("/",
		middlewareManager.Auth.Authenticate(),
		middlewareManager.Auth.RequireRoles(models.RoleAdmin, models.RoleEditor),
		handlers.Motors.Create)
	motorRoutes.Put("/:id",
		middlewareManager.Auth.Authenticate(),
		middlewareManager.Auth.RequireRoles(models.RoleAdmin, models.RoleEditor),
		handlers.Motors.Update)
	motorRoutes.Delete("/:id",
		middlewareManager.Auth.Authenticate(),
		middlewareManager.Auth.RequireRoles(models.RoleAdmin),
		handlers.Motors.Delete)

	// Upload routes (editor or admin)
	uploadRoutes := api.Group("/upload",
		middlewareManager.Auth.Authenticate(),
		middlewareManager.Auth.RequireRoles(models.RoleAdmin, models.RoleEditor))
	uploadRoutes.Post("/", handlers.Upload.Upload)
	uploadRoutes.Delete("/:fileName", handlers.Upload.Delete)

	// 404 handler
	app.Use(notFoundHandler)
}

// healthCheck returns the health status of the service
func healthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "catalog-api",
	})
}

// readinessCheck checks if the service is ready to accept traffic
func readinessCheck(middlewareManager *middleware.Manager, pinger store.Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if pinger != nil {
			if err := pinger.Ping(c.Context()); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"status":    "not ready",
					"reason":    "store unavailable",
					"error":     err.Error(),
					"timestamp": time.Now().UTC(),
				})
			}
		}

		redisHealthCheck := middleware.RedisHealthCheck(middlewareManager.RedisClient, middlewareManager.Logger)
		if err := redisHealthCheck(); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":    "not ready",
				"reason":    "redis unavailable",
				"error":     err.Error(),
				"timestamp": time.Now().UTC(),
			})
		}

		return c.JSON(fiber.Map{
			"status":    "ready",
			"timestamp": time.Now().UTC(),
			"service":   "catalog-api",
		})
	}
}

// versionHandler returns version information
func versionHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service": "catalog-api",
		"version": getVersion(),
		"commit":  getCommit(),
		"built":   getBuildTime(),
	})
}

// notFoundHandler handles 404 errors
func notFoundHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"success": false,
		"error":   "the requested resource was not found",
	})
}

// Helper functions for version info, set during build via ldflags
func getVersion() string {
	return version
}

func getCommit() string {
	return commit
}

func getBuildTime() string {
	return buildTime
}

var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)
