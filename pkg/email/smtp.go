package email

import (
	"context"
	"errors"

	"gopkg.in/gomail.v2"
)

// SMTPTransport sends through an SMTP relay, implicit TLS on 465 by default.
type SMTPTransport struct {
	dialer *gomail.Dialer
}

func NewSMTPTransport(host string, port int, user, pass string) (*SMTPTransport, error) {
	if host == "" {
		return nil, errors.New("smtp host is required")
	}
	if port == 0 {
		port = 465
	}
	return &SMTPTransport{dialer: gomail.NewDialer(host, port, user, pass)}, nil
}

func buildMessage(msg Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)
	return m
}

// Send dials per message. gomail has no context support, so ctx is only
// checked before dialing.
func (t *SMTPTransport) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return t.dialer.DialAndSend(buildMessage(msg))
}
