// pkg/cron/referral_digest.go

package cron

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"intake_backend/internal/model"
	"intake_backend/pkg/email"
	"intake_backend/pkg/intake"
)

const digestWindow = 24 * time.Hour

type ReferralLister interface {
	ListAll(ctx context.Context) ([]model.Referral, error)
}

type DigestSender interface {
	SendReferralDigest(ctx context.Context, data email.ReferralDigestData) error
}

// ReferralDigest mails the owner a summary of the last day's referrals.
type ReferralDigest struct {
	lister ReferralLister
	sender DigestSender
	log    *zap.Logger
	now    func() time.Time

	mu      sync.Mutex
	lastRun time.Time
}

func NewReferralDigest(lister ReferralLister, sender DigestSender, log *zap.Logger) *ReferralDigest {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReferralDigest{lister: lister, sender: sender, log: log, now: time.Now}
}

// InitReferralDigestCron starts the digest on schedule. Returns nil when the
// schedule is "off".
func InitReferralDigestCron(schedule string, digest *ReferralDigest) (*cron.Cron, error) {
	if schedule == "off" {
		return nil, nil
	}
	if digest.lister == nil || digest.sender == nil {
		return nil, errors.New("referral digest needs a lister and a sender")
	}

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if err := digest.Run(context.Background()); err != nil {
			digest.log.Error("referral digest failed", zap.Error(err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("could not initialize referral digest cron: %w", err)
	}

	c.Start()
	digest.log.Info("referral digest cron initialized", zap.String("schedule", schedule))
	return c, nil
}

// Run sends one digest unless one already went out in the last 23 hours.
func (d *ReferralDigest) Run(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if !d.lastRun.IsZero() && now.Sub(d.lastRun) < 23*time.Hour {
		d.log.Info("referral digest already sent today, skipping")
		return nil
	}

	sent, err := d.sendReferralDigest(ctx, now)
	if err != nil {
		return err
	}
	if sent {
		d.lastRun = now
	}
	return nil
}

func (d *ReferralDigest) sendReferralDigest(ctx context.Context, now time.Time) (bool, error) {
	referrals, err := d.lister.ListAll(ctx)
	if err != nil {
		return false, fmt.Errorf("error fetching referrals: %w", err)
	}

	since := now.Add(-digestWindow)
	var entries []email.ReferralDigestEntry
	for _, r := range referrals {
		// ListAll is newest first
		if r.CreatedAt.Before(since) {
			break
		}
		entries = append(entries, digestEntry(r))
	}

	if len(entries) == 0 {
		d.log.Info("no new referrals for digest")
		return false, nil
	}

	err = d.sender.SendReferralDigest(ctx, email.ReferralDigestData{
		Date:      now,
		Referrals: entries,
	})
	if err != nil {
		return false, fmt.Errorf("error sending referral digest: %w", err)
	}

	d.log.Info("referral digest sent", zap.Int("count", len(entries)))
	return true, nil
}

func digestEntry(r model.Referral) email.ReferralDigestEntry {
	entry := email.ReferralDigestEntry{
		LeadName:   r.LeadName,
		DealType:   intake.DealTypeLabel(""),
		ReferredBy: r.YourName,
	}
	if r.DealType != nil {
		entry.DealType = intake.DealTypeLabel(*r.DealType)
	}
	if r.LoanAmount.Valid {
		entry.LoanAmount = intake.FormatCurrency(r.LoanAmount.Decimal)
	}
	return entry
}
