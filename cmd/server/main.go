package main

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/mindcare/mindcare-api/internal/config"
	"github.com/mindcare/mindcare-api/internal/database"
	"github.com/mindcare/mindcare-api/internal/handlers"
	"github.com/mindcare/mindcare-api/internal/middleware"
	"github.com/mindcare/mindcare-api/internal/services"
	"github.com/mindcare/mindcare-api/internal/types"

	_ "github.com/mindcare/mindcare-api/docs/api" // Swagger docs
)

// @title MindCare API
// @version 1.0.0
// @description Mental-health self-assessment backend: auth, 27-question questionnaire, risk scoring
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@mindcare.example

// @host localhost:5000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// External predictor with heuristic fallback at submission time
	predictor := services.NewScriptPredictor(cfg.PredictorPython, cfg.PredictorScript, cfg.PredictorTimeout)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("mindcare")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Service banner
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"success":   true,
			"message":   "MindCare API is running",
			"version":   "1.0.0",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	// API routes under /api
	api := app.Group("/api")

	// Create handlers
	healthHandler := &handlers.HealthHandler{DB: db, Cfg: cfg}
	authHandler := &handlers.AuthHandler{DB: db, Cfg: cfg}
	assessmentHandler := &handlers.AssessmentHandler{DB: db, Cfg: cfg, Predictor: predictor}

	api.Get("/health", healthHandler.Health)

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/profile", middleware.Protected(cfg), authHandler.Profile)

	// Assessment routes (all require authentication)
	assessment := api.Group("/assessment", middleware.Protected(cfg))
	assessment.Post("/submit", assessmentHandler.Submit)
	assessment.Get("/history", assessmentHandler.History)
	assessment.Get("/:assessmentId", assessmentHandler.Details)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "API endpoint not found",
		})
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	port := cfg.Port
	log.Printf("Starting server on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Something went wrong on the server!"

	var ce *types.CustomError
	if errors.As(err, &ce) {
		code = ce.Code
		message = ce.Message
	} else if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}
