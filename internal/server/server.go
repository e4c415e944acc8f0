package server

import (
	"log"
	"time"

	"vox-tutor-be/internal/bootstrap"
	"vox-tutor-be/internal/config"
	"vox-tutor-be/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	// Body limit sits above the upload cap so oversized files reach the
	// ingestion check and get the specific 413 message.
	app := fiber.New(fiber.Config{
		BodyLimit: (cfg.Upload.MaxUploadMB + 2) * 1024 * 1024,
	})

	// Middleware. The error translator sits outermost so the error a
	// recovered panic turns into still comes back as the JSON envelope.
	app.Use(serverutils.ErrorHandlerMiddleware(container.Logger))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders:    "Content-Length, Content-Type",
	}))

	if cfg.App.Environment == "development" {
		app.Use(fiberlogger.New())
	}

	// OpenTelemetry tracing middleware (no-op unless a provider is set)
	app.Use(otelfiber.Middleware())

	// Routes
	container.HealthController.RegisterRoutes(app)

	api := app.Group("/api", limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
	}))
	registerRoutes(api, container)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Endpoint not found",
		})
	})

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	log.Printf("Server is running on http://localhost:%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func registerRoutes(api fiber.Router, c *bootstrap.Container) {
	c.PdfController.RegisterRoutes(api)
	c.AiController.RegisterRoutes(api)
	c.VoiceController.RegisterRoutes(api)
}
