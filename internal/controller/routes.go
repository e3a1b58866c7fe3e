package controller

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"intake_backend/internal/middleware"
)

const (
	corsAllowHeaders = "authorization, x-client-info, apikey, content-type"
	corsAllowMethods = "GET,POST,OPTIONS"

	intakeBodyLimit = 64 * 1024
)

type AppOptions struct {
	CORSAllowOrigins string
	RequestLogging   bool
}

func NewApp(opts AppOptions) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(recover.New())
	if opts.RequestLogging {
		app.Use(logger.New())
	}

	origins := opts.CORSAllowOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: corsAllowMethods,
		AllowHeaders: corsAllowHeaders,
	}))

	return app
}

func SetupRoutes(app *fiber.App, h *IntakeController, ping func(ctx context.Context) error) {
	app.Get("/health", Health(ping))

	guard := []fiber.Handler{middleware.BodyLimit(intakeBodyLimit), middleware.RequireJSON()}
	app.Post("/submit-quick-intake", append(guard, h.SubmitQuickIntake)...)
	app.Post("/submit-referral", append(guard, h.SubmitReferral)...)

	// dashboard feed
	app.Get("/referrals", h.ListReferrals)
}
