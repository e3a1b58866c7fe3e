// pkg/email/service.go
package email

import (
	"fmt"

	"go.uber.org/zap"

	"intake_backend/pkg/config"
)

var GlobalEmailService *EmailService

// NewTransport picks the outbound transport named by EMAIL_TRANSPORT.
func NewTransport(cfg *config.Config) (Transport, error) {
	switch cfg.Email.Transport {
	case config.TransportSMTP:
		return NewSMTPTransport(cfg.Email.SMTPHost, cfg.Email.SMTPPort, cfg.Email.SMTPUser, cfg.Email.SMTPPass)
	case config.TransportResend, "":
		return NewResendTransport(cfg.Email.ResendAPIKey, "")
	default:
		return nil, fmt.Errorf("unknown email transport %q", cfg.Email.Transport)
	}
}

func InitEmailService(cfg *config.Config, log *zap.Logger) error {
	transport, err := NewTransport(cfg)
	if err != nil {
		return err
	}

	service, err := NewEmailService(transport, Options{
		From:         cfg.Email.From,
		NotifyTo:     cfg.Email.NotifyTo,
		BusinessName: cfg.Email.BusinessName,
		Logger:       log,
	})
	if err != nil {
		return err
	}
	GlobalEmailService = service
	return nil
}
