package presenter

import "github.com/gofiber/fiber/v2"

type ErrorResponse struct {
	Message string `json:"message" example:"invalid JSON payload"`
}

// AnswersResponse is the payload of a successful run submission.
type AnswersResponse struct {
	Answers []string `json:"answers"`
}

func JSON(c *fiber.Ctx, status int, v any) error {
	return c.Status(status).JSON(v)
}

func Error(c *fiber.Ctx, status int, message string) error {
	return JSON(c, status, ErrorResponse{Message: message})
}
