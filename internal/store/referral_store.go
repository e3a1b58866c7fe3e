package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"intake_backend/internal/model"
)

// ReferralStore is append-only: no update or delete is exposed.
type ReferralStore interface {
	Insert(ctx context.Context, r *model.Referral) error
	ListAll(ctx context.Context) ([]model.Referral, error)
}

type GormReferralStore struct {
	db  *gorm.DB
	now func() time.Time
}

type Option func(*GormReferralStore)

func WithClock(now func() time.Time) Option {
	return func(s *GormReferralStore) {
		s.now = now
	}
}

func NewReferralStore(db *gorm.DB, opts ...Option) (*GormReferralStore, error) {
	if db == nil {
		return nil, errors.New("referral store needs a database")
	}
	s := &GormReferralStore{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Insert stores the referral and fills in its id and timestamps.
func (s *GormReferralStore) Insert(ctx context.Context, r *model.Referral) error {
	now := s.now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now

	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		return fmt.Errorf("insert referral: %w", err)
	}
	return nil
}

// ListAll returns every referral, newest first.
func (s *GormReferralStore) ListAll(ctx context.Context) ([]model.Referral, error) {
	var referrals []model.Referral
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&referrals).Error
	if err != nil {
		return nil, fmt.Errorf("list referrals: %w", err)
	}
	return referrals, nil
}
