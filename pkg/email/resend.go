package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
)

const defaultResendURL = "https://api.resend.com"

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Html    string   `json:"html"`
}

type resendError struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// ResendTransport posts messages to the Resend REST API.
type ResendTransport struct {
	client *resty.Client
}

func NewResendTransport(apiKey, baseURL string) (*ResendTransport, error) {
	if apiKey == "" {
		return nil, errors.New("resend API key is required")
	}
	if baseURL == "" {
		baseURL = defaultResendURL
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json").
		SetRetryCount(0)

	return &ResendTransport{client: client}, nil
}

func (t *ResendTransport) Send(ctx context.Context, msg Message) error {
	var apiErr resendError
	resp, err := t.client.R().
		SetContext(ctx).
		SetBody(resendRequest{
			From:    msg.From,
			To:      msg.To,
			Subject: msg.Subject,
			Html:    msg.HTML,
		}).
		SetError(&apiErr).
		Post("/emails")
	if err != nil {
		return fmt.Errorf("resend request: %w", err)
	}

	if code := resp.StatusCode(); code != 200 && code != 201 {
		if apiErr.Message != "" {
			return fmt.Errorf("resend API error (%d): %s", code, apiErr.Message)
		}
		return fmt.Errorf("resend API error (%d): %s", code, resp.String())
	}
	return nil
}
