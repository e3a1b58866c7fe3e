// pkg/email/email.go
package email

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"go.uber.org/zap"

	"intake_backend/pkg/intake"
)

// Message is a rendered notification ready for a transport.
type Message struct {
	From    string
	To      []string
	Subject string
	HTML    string
}

// Transport delivers a rendered message. Implementations make a single attempt.
type Transport interface {
	Send(ctx context.Context, msg Message) error
}

type EmailService struct {
	transport    Transport
	from         string
	notifyTo     string
	businessName string
	templates    *template.Template
	now          func() time.Time
	log          *zap.Logger
}

type Options struct {
	From         string
	NotifyTo     string
	BusinessName string
	Logger       *zap.Logger
	Now          func() time.Time
}

// Template data structures
type QuickIntakeNotificationData struct {
	FullName      string
	BestContact   string
	ContactType   string
	ContactHref   template.URL
	DealType      string
	PropertyState string
	LoanAmount    string
	Timeline      string
	UTMSource     string
	UTMMedium     string
	UTMCampaign   string
	UTMTerm       string
	UTMContent    string
	HasMarketing  bool
	SubmittedAt   string
}

type ReferralNotificationData struct {
	BusinessName  string
	ReferralID    string
	YourName      string
	YourEmail     string
	YourPhone     string
	LeadName      string
	LeadContact   string
	DealType      string
	PropertyState string
	LoanAmount    string
	Notes         string
	SubmittedAt   string
}

type ReferralDigestEntry struct {
	LeadName   string
	DealType   string
	LoanAmount string
	ReferredBy string
}

type ReferralDigestData struct {
	BusinessName string
	Date         time.Time
	Count        int
	Referrals    []ReferralDigestEntry
}

func NewEmailService(transport Transport, opts Options) (*EmailService, error) {
	if transport == nil {
		return nil, errors.New("email transport is required")
	}
	if opts.From == "" || opts.NotifyTo == "" {
		return nil, errors.New("sender and notification addresses are required")
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("error loading email templates: %w", err)
	}

	s := &EmailService{
		transport:    transport,
		from:         opts.From,
		notifyTo:     opts.NotifyTo,
		businessName: opts.BusinessName,
		templates:    templates,
		now:          opts.Now,
		log:          opts.Logger,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.businessName == "" {
		s.businessName = "Capital Advisory"
	}
	return s, nil
}

func (s *EmailService) sendTemplateEmail(ctx context.Context, to, subject, templateName string, data interface{}) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return fmt.Errorf("template execution error: %w", err)
	}

	msg := Message{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		HTML:    body.String(),
	}

	s.log.Debug("sending email",
		zap.String("to", to),
		zap.String("template", templateName),
	)

	if err := s.transport.Send(ctx, msg); err != nil {
		return fmt.Errorf("send %s: %w", templateName, err)
	}

	s.log.Info("email sent", zap.String("to", to), zap.String("template", templateName))
	return nil
}

func (s *EmailService) submittedAt() string {
	return s.now().Format("Monday, January 2, 2006 at 3:04 PM MST")
}

// SendQuickIntakeNotification tells the business owner about a new quick intake.
func (s *EmailService) SendQuickIntakeNotification(ctx context.Context, p *intake.QuickIntakePayload) error {
	contactType := intake.ClassifyContact(p.BestContact)
	// Both schemes are built from an already validated contact.
	href := template.URL("tel:" + intake.StripPhoneSeparators(p.BestContact))
	if contactType == intake.ContactEmail {
		href = template.URL("mailto:" + p.BestContact)
	}

	data := QuickIntakeNotificationData{
		FullName:      p.FullName,
		BestContact:   p.BestContact,
		ContactType:   string(contactType),
		ContactHref:   href,
		DealType:      p.DealType,
		PropertyState: p.PropertyState,
		LoanAmount:    p.EstimatedLoanAmount,
		Timeline:      p.TimelineToClose,
		UTMSource:     intake.Value(p.UTMSource),
		UTMMedium:     intake.Value(p.UTMMedium),
		UTMCampaign:   intake.Value(p.UTMCampaign),
		UTMTerm:       intake.Value(p.UTMTerm),
		UTMContent:    intake.Value(p.UTMContent),
		HasMarketing:  !p.Attribution.IsEmpty(),
		SubmittedAt:   s.submittedAt(),
	}

	subject := fmt.Sprintf("⚡ Quick Intake: %s - %s ($%s) - %s",
		p.FullName, p.DealType, p.EstimatedLoanAmount, p.TimelineToClose)

	return s.sendTemplateEmail(ctx, s.notifyTo, subject, "quick_intake_notification.html", data)
}

// SendReferralNotification tells the business owner about a stored referral.
func (s *EmailService) SendReferralNotification(ctx context.Context, p *intake.ReferralPayload, referralID string) error {
	data := ReferralNotificationData{
		BusinessName:  s.businessName,
		ReferralID:    referralID,
		YourName:      p.YourName,
		YourEmail:     p.YourEmail,
		YourPhone:     p.YourPhone,
		LeadName:      p.LeadName,
		LeadContact:   p.LeadContact,
		PropertyState: p.PropertyState,
		Notes:         p.Notes,
		SubmittedAt:   s.submittedAt(),
	}
	if p.DealType != "" {
		data.DealType = intake.DealTypeLabel(p.DealType)
	}
	if amount := intake.ParseLoanAmount(p.LoanAmount); amount.Valid {
		data.LoanAmount = intake.FormatCurrency(amount.Decimal)
	}

	subject := "New Referral Submission - " + s.businessName
	return s.sendTemplateEmail(ctx, s.notifyTo, subject, "referral_notification.html", data)
}

func (s *EmailService) SendReferralDigest(ctx context.Context, data ReferralDigestData) error {
	if data.BusinessName == "" {
		data.BusinessName = s.businessName
	}
	data.Count = len(data.Referrals)

	noun := "Referrals"
	if data.Count == 1 {
		noun = "Referral"
	}
	subject := fmt.Sprintf("Daily Digest: %d New %s 📊", data.Count, noun)
	return s.sendTemplateEmail(ctx, s.notifyTo, subject, "referral_digest.html", data)
}

func dealBadge(dealType string) string {
	switch dealType {
	case intake.DealFixAndFlip:
		return "🏠 " + dealType
	case intake.DealDSCRRental:
		return "🏢 " + dealType
	case intake.DealNewConstruction:
		return "🏗️ " + dealType
	case intake.DealCommercialBridge:
		return "🏦 " + dealType
	default:
		return "📋 " + dealType
	}
}

func timelineBadge(timeline string) string {
	plain := strings.ReplaceAll(timeline, "–", "-")
	if timeline == "ASAP" {
		return "⚡ " + plain
	}
	return "📅 " + plain
}
