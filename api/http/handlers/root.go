package handlers

import "github.com/gofiber/fiber/v2"

// Version of the public API, mirrored in the swagger document.
const Version = "3.1.0"

// Root returns basic service information.
// @Summary Service info
// @Tags    info
// @Produce json
// @Success 200 {object} map[string]string
// @Router  / [get]
func Root(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": ServiceName + " API",
		"version": Version,
		"docs":    "/docs",
		"health":  "/health",
	})
}
