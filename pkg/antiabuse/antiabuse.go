// Package antiabuse screens form submissions before they leave the page: a
// honeypot field bots tend to fill in, and a short cooldown between attempts.
// Neither check is a security control.
package antiabuse

import (
	"errors"
	"time"

	"golang.org/x/time/rate"
)

// SubmissionCooldown is the minimum gap between two admitted submission attempts.
const SubmissionCooldown = 15 * time.Second

var (
	ErrSpamDetected = errors.New("honeypot field was filled in")
	ErrRateLimited  = errors.New("submission attempted during cooldown")
)

// Honeypot reports whether the hidden field was filled in at all. People never
// see the field, so even whitespace counts.
func Honeypot(value string) bool {
	return value != ""
}

// RateLimiter admits one attempt per cooldown. A rejected attempt leaves the
// clock where it was.
type RateLimiter struct {
	limiter *rate.Limiter
	now     func() time.Time
}

type Option func(*RateLimiter)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(r *RateLimiter) {
		r.now = now
	}
}

func NewRateLimiter(cooldown time.Duration, opts ...Option) *RateLimiter {
	r := &RateLimiter{
		limiter: rate.NewLimiter(rate.Every(cooldown), 1),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *RateLimiter) Allow() bool {
	return r.limiter.AllowN(r.now(), 1)
}

// Gate bundles both checks for one form instance.
type Gate struct {
	limiter *RateLimiter
}

func NewGate(opts ...Option) *Gate {
	return &Gate{limiter: NewRateLimiter(SubmissionCooldown, opts...)}
}

// Screen runs the honeypot check. It happens before any field error is shown.
func (g *Gate) Screen(honeypot string) error {
	if Honeypot(honeypot) {
		return ErrSpamDetected
	}
	return nil
}

// Throttle runs the cooldown check and, when it passes, starts a new cooldown.
func (g *Gate) Throttle() error {
	if !g.limiter.Allow() {
		return ErrRateLimited
	}
	return nil
}
