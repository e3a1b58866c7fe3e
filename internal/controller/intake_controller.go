package controller

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"intake_backend/internal/model"
	"intake_backend/internal/store"
	"intake_backend/pkg/antiabuse"
	"intake_backend/pkg/intake"
)

type Notifier interface {
	SendQuickIntakeNotification(ctx context.Context, p *intake.QuickIntakePayload) error
	SendReferralNotification(ctx context.Context, p *intake.ReferralPayload, referralID string) error
}

// Archiver keeps a copy of accepted quick intakes. Optional.
type Archiver interface {
	ArchiveQuickIntake(ctx context.Context, p *intake.QuickIntakePayload) (string, error)
}

type IntakeController struct {
	store    store.ReferralStore
	notifier Notifier
	archiver Archiver
	log      *zap.Logger
}

func NewIntakeController(referrals store.ReferralStore, notifier Notifier, archiver Archiver, log *zap.Logger) *IntakeController {
	if log == nil {
		log = zap.NewNop()
	}
	return &IntakeController{
		store:    referrals,
		notifier: notifier,
		archiver: archiver,
		log:      log,
	}
}

func invalidInput(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(intake.SubmitResponse{
		Success: false,
		Error:   "Invalid input",
	})
}

func validationFailed(c *fiber.Ctx, fields intake.FieldErrors) error {
	return c.Status(fiber.StatusBadRequest).JSON(intake.SubmitResponse{
		Success: false,
		Error:   "Validation failed",
		Fields:  fields,
	})
}

func serverError(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(intake.SubmitResponse{
		Success: false,
		Error:   message,
	})
}

// SubmitQuickIntake handles POST /submit-quick-intake. Nothing is stored in
// the referral table, so a failed notification fails the request.
func (h *IntakeController) SubmitQuickIntake(c *fiber.Ctx) error {
	input := new(intake.QuickIntakePayload)
	if err := c.BodyParser(input); err != nil {
		return invalidInput(c)
	}

	if antiabuse.Honeypot(input.Honeypot) {
		// same answer as a real submission
		h.log.Info("quick intake discarded by honeypot", zap.String("ip", c.IP()))
		return c.JSON(intake.SubmitResponse{
			Success: true,
			Message: "Quick intake submitted successfully",
		})
	}

	fields, err := intake.ValidateQuickIntake(input)
	if err != nil {
		h.log.Error("quick intake validator failed", zap.Error(err))
		return serverError(c, "Could not validate quick intake")
	}
	if len(fields) > 0 {
		return validationFailed(c, fields)
	}

	payload := input.Normalized()
	ctx := c.UserContext()

	if h.archiver != nil {
		key, err := h.archiver.ArchiveQuickIntake(ctx, &payload)
		if err != nil {
			h.log.Warn("could not archive quick intake", zap.Error(err))
		} else {
			h.log.Info("quick intake archived", zap.String("key", key))
		}
	}

	if err := h.notifier.SendQuickIntakeNotification(ctx, &payload); err != nil {
		h.log.Error("could not send quick intake notification", zap.Error(err))
		return serverError(c, "Could not send quick intake notification")
	}

	return c.JSON(intake.SubmitResponse{
		Success: true,
		Message: "Quick intake submitted successfully",
	})
}

// SubmitReferral handles POST /submit-referral. The stored row is the source
// of truth: a failed notification is logged and the request still succeeds.
func (h *IntakeController) SubmitReferral(c *fiber.Ctx) error {
	input := new(intake.ReferralPayload)
	if err := c.BodyParser(input); err != nil {
		return invalidInput(c)
	}

	fields, err := intake.ValidateReferral(input)
	if err != nil {
		h.log.Error("referral validator failed", zap.Error(err))
		return serverError(c, "Could not validate referral")
	}
	if len(fields) > 0 {
		return validationFailed(c, fields)
	}

	payload := input.Normalized()
	ctx := c.UserContext()

	referral := model.NewReferral(&payload)
	if err := h.store.Insert(ctx, referral); err != nil {
		h.log.Error("could not save referral", zap.Error(err))
		return serverError(c, "Failed to save referral")
	}

	if err := h.notifier.SendReferralNotification(ctx, &payload, referral.ID); err != nil {
		h.log.Error("could not send referral notification",
			zap.String("referral_id", referral.ID),
			zap.Error(err),
		)
	}

	return c.JSON(intake.SubmitResponse{
		Success:    true,
		Message:    "Referral submitted successfully",
		ReferralID: referral.ID,
	})
}

// ListReferrals feeds the submissions dashboard, newest first.
func (h *IntakeController) ListReferrals(c *fiber.Ctx) error {
	referrals, err := h.store.ListAll(c.UserContext())
	if err != nil {
		h.log.Error("could not list referrals", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch referrals",
		})
	}
	if referrals == nil {
		referrals = []model.Referral{}
	}

	return c.JSON(fiber.Map{
		"referrals": referrals,
		"total":     len(referrals),
	})
}

// Health answers GET /health with the database status.
func Health(ping func(ctx context.Context) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "unavailable",
				"error":  err.Error(),
			})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}
