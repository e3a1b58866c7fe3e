package email

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intake_backend/pkg/intake"
)

type recordingTransport struct {
	sent []Message
	err  error
}

func (r *recordingTransport) Send(_ context.Context, msg Message) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, msg)
	return nil
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC)
}

func newTestService(t *testing.T, tr Transport) *EmailService {
	t.Helper()
	s, err := NewEmailService(tr, Options{
		From:         "Leads <leads@example.com>",
		NotifyTo:     "owner@example.com",
		BusinessName: "Acme Capital",
		Now:          fixedNow,
	})
	require.NoError(t, err)
	return s
}

func strPtr(s string) *string { return &s }

func quickPayload() *intake.QuickIntakePayload {
	return &intake.QuickIntakePayload{
		FullName:            "Jane Doe",
		BestContact:         "jane@example.com",
		PropertyState:       "Texas",
		DealType:            intake.DealFixAndFlip,
		EstimatedLoanAmount: "250,000",
		TimelineToClose:     "7–14 days",
		Consent:             true,
	}
}

func TestNewEmailService_RequiresTransportAndAddresses(t *testing.T) {
	_, err := NewEmailService(nil, Options{From: "a@example.com", NotifyTo: "b@example.com"})
	assert.Error(t, err)

	_, err = NewEmailService(&recordingTransport{}, Options{From: "a@example.com"})
	assert.Error(t, err)
}

func TestSendQuickIntakeNotification(t *testing.T) {
	tr := &recordingTransport{}
	s := newTestService(t, tr)

	p := quickPayload()
	p.UTMSource = strPtr("google")
	p.UTMCampaign = strPtr("spring")

	require.NoError(t, s.SendQuickIntakeNotification(context.Background(), p))
	require.Len(t, tr.sent, 1)

	msg := tr.sent[0]
	assert.Equal(t, []string{"owner@example.com"}, msg.To)
	assert.Equal(t, "Leads <leads@example.com>", msg.From)
	assert.Equal(t, "⚡ Quick Intake: Jane Doe - Fix & Flip ($250,000) - 7–14 days", msg.Subject)

	assert.Contains(t, msg.HTML, `href="mailto:jane@example.com"`)
	assert.Contains(t, msg.HTML, "Fix &amp; Flip")
	assert.Contains(t, msg.HTML, "📅 7-14 days")
	assert.Contains(t, msg.HTML, "Marketing Data")
	assert.Contains(t, msg.HTML, "google")
	assert.Contains(t, msg.HTML, "spring")
	assert.NotContains(t, msg.HTML, "Medium:")
	assert.Contains(t, msg.HTML, "Monday, March 2, 2026 at 2:30 PM UTC")
}

func TestSendQuickIntakeNotification_PhoneWithoutAttribution(t *testing.T) {
	tr := &recordingTransport{}
	s := newTestService(t, tr)

	p := quickPayload()
	p.BestContact = "(555) 123-4567"
	p.TimelineToClose = "ASAP"

	require.NoError(t, s.SendQuickIntakeNotification(context.Background(), p))
	require.Len(t, tr.sent, 1)

	html := tr.sent[0].HTML
	assert.Contains(t, html, `href="tel:5551234567"`)
	assert.Contains(t, html, "⚡ ASAP")
	assert.Contains(t, html, "📞 Call")
	assert.NotContains(t, html, "Marketing Data")
}

func TestSendQuickIntakeNotification_EscapesInput(t *testing.T) {
	tr := &recordingTransport{}
	s := newTestService(t, tr)

	p := quickPayload()
	p.FullName = "<script>alert(1)</script>"

	require.NoError(t, s.SendQuickIntakeNotification(context.Background(), p))
	assert.NotContains(t, tr.sent[0].HTML, "<script>")
	assert.Contains(t, tr.sent[0].HTML, "&lt;script&gt;")
}

func TestSendQuickIntakeNotification_TransportFailure(t *testing.T) {
	boom := errors.New("provider down")
	s := newTestService(t, &recordingTransport{err: boom})

	err := s.SendQuickIntakeNotification(context.Background(), quickPayload())
	assert.ErrorIs(t, err, boom)
}

func TestSendReferralNotification(t *testing.T) {
	tr := &recordingTransport{}
	s := newTestService(t, tr)

	p := &intake.ReferralPayload{
		YourName:    "Sam Agent",
		YourEmail:   "sam@example.com",
		LeadName:    "Jane Doe",
		LeadContact: "555-123-4567",
		DealType:    "dscr_rental",
		LoanAmount:  "300,000",
	}

	require.NoError(t, s.SendReferralNotification(context.Background(), p, "ref-123"))
	require.Len(t, tr.sent, 1)

	msg := tr.sent[0]
	assert.Equal(t, "New Referral Submission - Acme Capital", msg.Subject)
	assert.Contains(t, msg.HTML, "ref-123")
	assert.Contains(t, msg.HTML, "DSCR Rental")
	assert.Contains(t, msg.HTML, "$300,000")
	assert.NotContains(t, msg.HTML, "Phone:")
	assert.NotContains(t, msg.HTML, "Property State:")
	assert.NotContains(t, msg.HTML, "Notes:")
}

func TestSendReferralNotification_NoDealSection(t *testing.T) {
	tr := &recordingTransport{}
	s := newTestService(t, tr)

	p := &intake.ReferralPayload{
		YourName:    "Sam Agent",
		YourEmail:   "sam@example.com",
		YourPhone:   "555-000-1111",
		LeadName:    "Jane Doe",
		LeadContact: "jane@example.com",
	}

	require.NoError(t, s.SendReferralNotification(context.Background(), p, "ref-1"))
	html := tr.sent[0].HTML
	assert.Contains(t, html, "Phone:")
	assert.NotContains(t, html, "Deal Information")
}

func TestSendReferralDigest(t *testing.T) {
	tr := &recordingTransport{}
	s := newTestService(t, tr)

	err := s.SendReferralDigest(context.Background(), ReferralDigestData{
		Date: fixedNow(),
		Referrals: []ReferralDigestEntry{
			{LeadName: "Jane Doe", DealType: "Fix & Flip", LoanAmount: "$300,000", ReferredBy: "Sam Agent"},
			{LeadName: "John Roe", DealType: "Not specified", ReferredBy: "Ann Broker"},
		},
	})
	require.NoError(t, err)
	require.Len(t, tr.sent, 1)

	msg := tr.sent[0]
	assert.Equal(t, "Daily Digest: 2 New Referrals 📊", msg.Subject)
	assert.Contains(t, msg.HTML, "Acme Capital")
	assert.Contains(t, msg.HTML, "March 2, 2026")
	assert.Contains(t, msg.HTML, "2 new referrals")
	assert.Contains(t, msg.HTML, "John Roe")
}
