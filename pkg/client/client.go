// Package client is the browser-side half of the intake pipeline: the HTTP
// submission client and the form state machines that drive it.
package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"

	"intake_backend/pkg/intake"
)

// ErrTransport covers every failed submission: unreachable service, non-2xx
// answer or a body that reports success=false.
var ErrTransport = errors.New("submission failed")

// ResponseError is a submission the service answered but did not accept.
type ResponseError struct {
	StatusCode int
	Message    string
}

func (e *ResponseError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("intake service returned %d", e.StatusCode)
	}
	return fmt.Sprintf("intake service returned %d: %s", e.StatusCode, e.Message)
}

func (e *ResponseError) Unwrap() error { return ErrTransport }

// Client posts payloads to the intake service. One attempt per call: no
// retries, no backoff and no timeout beyond what ctx carries.
type Client struct {
	http *resty.Client
}

func New(baseURL string) *Client {
	return NewWithHTTPClient(baseURL, resty.New())
}

// NewWithHTTPClient lets callers share a configured resty client.
func NewWithHTTPClient(baseURL string, hc *resty.Client) *Client {
	hc.SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetRetryCount(0)
	return &Client{http: hc}
}

func (c *Client) SubmitQuickIntake(ctx context.Context, p *intake.QuickIntakePayload) error {
	_, err := c.post(ctx, "/submit-quick-intake", p)
	return err
}

// SubmitReferral returns the id the service assigned to the stored referral.
func (c *Client) SubmitReferral(ctx context.Context, p *intake.ReferralPayload) (string, error) {
	res, err := c.post(ctx, "/submit-referral", p)
	if err != nil {
		return "", err
	}
	if !res.Success {
		return "", &ResponseError{StatusCode: 200, Message: res.Error}
	}
	return res.ReferralID, nil
}

func (c *Client) post(ctx context.Context, path string, body interface{}) (*intake.SubmitResponse, error) {
	var ok, failed intake.SubmitResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&ok).
		SetError(&failed).
		Post(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if resp.IsError() || resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		msg := failed.Error
		if msg == "" {
			msg = strings.TrimSpace(resp.String())
		}
		return nil, &ResponseError{StatusCode: resp.StatusCode(), Message: msg}
	}
	return &ok, nil
}
