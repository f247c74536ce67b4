package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fieldscribe/scribe-api/internal/config"
	"github.com/fieldscribe/scribe-api/internal/handler"
	"github.com/fieldscribe/scribe-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	SubmissionHandler    *handler.SubmissionHandler
	TranscriptionHandler *handler.TranscriptionHandler
	ReferenceHandler     *handler.ReferenceHandler
	SeedHandler          *handler.SeedHandler
	JWTMiddleware        fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	if deps.ReferenceHandler != nil {
		deps.ReferenceHandler.Register(api.Group("/reference"))
	}

	if deps.TranscriptionHandler != nil {
		deps.TranscriptionHandler.Register(api.Group("/transcriptions"))
	}

	if deps.SubmissionHandler != nil {
		deps.SubmissionHandler.Register(api.Group("/submissions"))
	}

	if deps.SeedHandler != nil {
		jwtMiddleware := deps.JWTMiddleware
		if jwtMiddleware == nil {
			jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
		}

		deps.SeedHandler.Register(app.Group("/api/admin/seed", jwtMiddleware))
	}
}
