package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hackrx/llm-atlas/api/http/handlers"
)

// Register wires all HTTP routes onto given Fiber app.
func Register(app *fiber.App, health *handlers.HealthHandler, run *handlers.RunHandler, authMW fiber.Handler) {
	// Unauthenticated service endpoints for probes/monitoring
	app.Get("/", handlers.Root)
	app.Get("/health", health.Health)
	app.Get("/ready", health.Ready)

	api := app.Group("/api")
	v1 := api.Group("/v1")

	// Document Q&A submission
	hackrx := v1.Group("/hackrx", authMW)
	hackrx.Post("/run", run.Run)
}
