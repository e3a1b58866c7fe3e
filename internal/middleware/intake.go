package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"intake_backend/pkg/intake"
)

// RequireJSON rejects intake posts that are not JSON before any parsing.
func RequireJSON() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodPost {
			return c.Next()
		}
		contentType := strings.ToLower(c.Get(fiber.HeaderContentType))
		if !strings.HasPrefix(contentType, fiber.MIMEApplicationJSON) {
			return c.Status(fiber.StatusBadRequest).JSON(intake.SubmitResponse{
				Success: false,
				Error:   "Invalid input",
			})
		}
		return c.Next()
	}
}

// BodyLimit caps the request body for the intake routes. fiber's global
// BodyLimit is far larger than any form needs.
func BodyLimit(max int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if len(c.Body()) > max {
			return c.Status(fiber.StatusRequestEntityTooLarge).JSON(intake.SubmitResponse{
				Success: false,
				Error:   "Request body too large",
			})
		}
		return c.Next()
	}
}
