package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/electrodrive/catalog-api/internal/auth"
	"github.com/electrodrive/catalog-api/internal/blob"
	"github.com/electrodrive/catalog-api/internal/catalog"
	"github.com/electrodrive/catalog-api/internal/config"
	"github.com/electrodrive/catalog-api/internal/logging"
	"github.com/electrodrive/catalog-api/internal/metrics"
	"github.com/electrodrive/catalog-api/internal/middleware"
	"github.com/electrodrive/catalog-api/internal/routes"
	"github.com/electrodrive/catalog-api/internal/store/dynamo"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger := logging.New(cfg)

	// Initialize metrics
	if err := metrics.Init(); err != nil {
		logger.WithError(err).Fatal("Failed to initialize metrics")
	}

	// Initialize tracing
	tracingShutdown, err := middleware.InitTracing(&cfg.Observability, cfg.Server.Environment, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to setup tracing")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracingShutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("Failed to shutdown tracing")
		}
	}()

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	ctx := context.Background()

	// Initialize DynamoDB client and stores
	dynamoClient, err := dynamo.NewClient(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize DynamoDB client")
	}
	userStore := dynamo.NewUserStore(dynamoClient, cfg.DynamoDB.UsersTableName)
	motorStore := dynamo.NewMotorStore(dynamoClient, cfg.DynamoDB.MotorsTableName)

	// Initialize S3-backed image store
	blobStore, err := blob.NewStore(ctx, &cfg.S3, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize blob store")
	}

	// Wire services
	authService := auth.NewService(userStore, &cfg.JWT, logger)
	catalogService := catalog.NewService(motorStore, logger)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Catalog API",
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			logger.WithError(err).WithFields(logrus.Fields{
				"method": c.Method(),
				"path":   c.Path(),
				"status": code,
			}).Error("Request error")

			return c.Status(code).JSON(fiber.Map{
				"success": false,
				"error":   "internal server error",
			})
		},
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowOrigins,
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,X-Requested-With",
		AllowCredentials: false,
		MaxAge:           86400,
	}))
	app.Use(otelfiber.Middleware())

	// Initialize middleware manager
	middlewareManager, err := middleware.NewManager(cfg, authService, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize middleware manager")
	}
	defer func() {
		if err := middlewareManager.Close(); err != nil {
			logger.WithError(err).Error("Failed to close middleware manager")
		}
	}()

	// Setup routes
	routes.Setup(app, cfg, logger, middlewareManager, routes.Handlers{
		Auth:   routes.NewAuthHandler(authService, logger),
		Motors: routes.NewMotorHandler(catalogService, logger),
		Upload: routes.NewUploadHandler(blobStore, logger),
	}, userStore)

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		logger.Info("Gracefully shutting down...")
		if err := app.Shutdown(); err != nil {
			logger.WithError(err).Error("Server shutdown failed")
		}
	}()

	// Start server
	logger.WithField("port", cfg.Server.Port).Info("Starting Catalog API server")
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}
}
