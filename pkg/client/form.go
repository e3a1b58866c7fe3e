package client

import (
	"context"
	"sync"

	"intake_backend/pkg/antiabuse"
	"intake_backend/pkg/intake"
)

type FormState int

const (
	Idle FormState = iota
	Validating
	Submitting
	Success
)

func (s FormState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case Submitting:
		return "submitting"
	case Success:
		return "success"
	default:
		return "unknown"
	}
}

// Outcome is what one Submit call ended in.
type Outcome int

const (
	Submitted Outcome = iota
	Blocked
	RateLimited
	Discarded
	Failed
	Busy
)

func (o Outcome) String() string {
	switch o {
	case Submitted:
		return "submitted"
	case Blocked:
		return "blocked"
	case RateLimited:
		return "rate_limited"
	case Discarded:
		return "discarded"
	case Failed:
		return "failed"
	case Busy:
		return "busy"
	default:
		return "unknown"
	}
}

const (
	RateLimitMessage          = "Please wait 15 seconds before submitting again."
	FailureMessage            = "There was an issue submitting your form. Please try again."
	QuickIntakeSuccessMessage = "Thanks! We'll review and reply the same business day."
	ReferralSuccessMessage    = "Thanks! We'll contact your referral within 1 business day and send you confirmation."
)

// Result describes a Submit call. Message is what the page shows; it is empty
// for Discarded so a tripped honeypot looks like nothing happened.
type Result struct {
	Outcome    Outcome
	Fields     intake.FieldErrors
	Message    string
	ReferralID string
	Err        error
}

type QuickIntakeSubmitter interface {
	SubmitQuickIntake(ctx context.Context, p *intake.QuickIntakePayload) error
}

type ReferralSubmitter interface {
	SubmitReferral(ctx context.Context, p *intake.ReferralPayload) (string, error)
}

type formConfig struct {
	analytics Analytics
	gateOpts  []antiabuse.Option
}

type FormOption func(*formConfig)

func WithAnalytics(a Analytics) FormOption {
	return func(c *formConfig) {
		c.analytics = a
	}
}

// WithGateOptions configures the form's anti-abuse gate, e.g. a test clock.
func WithGateOptions(opts ...antiabuse.Option) FormOption {
	return func(c *formConfig) {
		c.gateOpts = append(c.gateOpts, opts...)
	}
}

func buildConfig(opts []FormOption) formConfig {
	cfg := formConfig{analytics: noopAnalytics{}}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// formCore is the state shared by both forms.
type formCore struct {
	mu      sync.Mutex
	state   FormState
	gate    *antiabuse.Gate
	fields  intake.FieldErrors
	message string
}

func newFormCore(cfg formConfig) *formCore {
	return &formCore{state: Idle, gate: antiabuse.NewGate(cfg.gateOpts...)}
}

// admit runs validation and the cooldown with mu held. On success the form
// is Submitting and the returned result is nil.
func (f *formCore) admit(fields intake.FieldErrors, err error) *Result {
	if err != nil {
		f.state = Idle
		f.message = FailureMessage
		return &Result{Outcome: Failed, Message: FailureMessage, Err: err}
	}
	if len(fields) > 0 {
		f.state = Idle
		f.fields = fields
		f.message = ""
		return &Result{Outcome: Blocked, Fields: fields}
	}
	f.fields = nil

	if err := f.gate.Throttle(); err != nil {
		f.state = Idle
		f.message = RateLimitMessage
		return &Result{Outcome: RateLimited, Message: RateLimitMessage, Err: err}
	}

	f.state = Submitting
	f.message = ""
	return nil
}

func (f *formCore) fail(err error) Result {
	f.state = Idle
	f.message = FailureMessage
	return Result{Outcome: Failed, Message: FailureMessage, Err: err}
}

func (f *formCore) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// FieldErrors returns the errors from the last blocked attempt.
func (f *formCore) FieldErrors() intake.FieldErrors {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(intake.FieldErrors, len(f.fields))
	for k, v := range f.fields {
		out[k] = v
	}
	return out
}

// Message is the advisory, error or confirmation currently on screen.
func (f *formCore) Message() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message
}

// QuickIntakeForm is the short borrower form.
type QuickIntakeForm struct {
	*formCore

	submitter QuickIntakeSubmitter
	analytics Analytics
	payload   intake.QuickIntakePayload

	// mount lifecycle, see lifecycle.go
	mounted     bool
	everMounted bool
	mountGen    int
	attribution intake.Attribution
	viewTracked bool
	unsubscribe func()
}

func NewQuickIntakeForm(submitter QuickIntakeSubmitter, opts ...FormOption) *QuickIntakeForm {
	cfg := buildConfig(opts)
	return &QuickIntakeForm{
		formCore:  newFormCore(cfg),
		submitter: submitter,
		analytics: cfg.analytics,
	}
}

func (f *QuickIntakeForm) update(fn func(p *intake.QuickIntakePayload)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(&f.payload)
}

func (f *QuickIntakeForm) SetFullName(v string) {
	f.update(func(p *intake.QuickIntakePayload) { p.FullName = v })
}

func (f *QuickIntakeForm) SetBestContact(v string) {
	f.update(func(p *intake.QuickIntakePayload) { p.BestContact = v })
}

func (f *QuickIntakeForm) SetPropertyState(v string) {
	f.update(func(p *intake.QuickIntakePayload) { p.PropertyState = v })
}

func (f *QuickIntakeForm) SetDealType(v string) {
	f.update(func(p *intake.QuickIntakePayload) { p.DealType = v })
}

// SetEstimatedLoanAmount keeps digits only and groups them by thousands.
func (f *QuickIntakeForm) SetEstimatedLoanAmount(v string) {
	f.update(func(p *intake.QuickIntakePayload) { p.EstimatedLoanAmount = intake.FormatLoanAmount(v) })
}

func (f *QuickIntakeForm) SetTimelineToClose(v string) {
	f.update(func(p *intake.QuickIntakePayload) { p.TimelineToClose = v })
}

func (f *QuickIntakeForm) SetConsent(v bool) {
	f.update(func(p *intake.QuickIntakePayload) { p.Consent = v })
}

// SetHoneypot is only ever called by bots filling the hidden field.
func (f *QuickIntakeForm) SetHoneypot(v string) {
	f.update(func(p *intake.QuickIntakePayload) { p.Honeypot = v })
}

// ContactHint is "email" or "phone" once the contact field holds a valid value.
func (f *QuickIntakeForm) ContactHint() intake.ContactType {
	f.mu.Lock()
	defer f.mu.Unlock()
	return intake.ContactHint(f.payload.BestContact)
}

// Payload returns a copy of the current field values.
func (f *QuickIntakeForm) Payload() intake.QuickIntakePayload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.payload
}

// Submit runs busy check, honeypot, validation and cooldown in that order,
// then makes a single request. While the confirmation is showing the form is
// Busy until SubmitAnother.
func (f *QuickIntakeForm) Submit(ctx context.Context) Result {
	f.mu.Lock()
	if f.state == Submitting || f.state == Success {
		f.mu.Unlock()
		return Result{Outcome: Busy}
	}

	payload := f.payload
	if err := f.gate.Screen(payload.Honeypot); err != nil {
		f.mu.Unlock()
		return Result{Outcome: Discarded, Err: err}
	}

	f.state = Validating
	if res := f.admit(intake.ValidateQuickIntake(&payload)); res != nil {
		f.mu.Unlock()
		return *res
	}
	f.mu.Unlock()

	err := f.submitter.SubmitQuickIntake(ctx, &payload)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		return f.fail(err)
	}
	f.state = Success
	f.message = QuickIntakeSuccessMessage
	f.analytics.Track(EventQuickIntakeSubmit, submitProps(&payload))
	return Result{Outcome: Submitted, Message: QuickIntakeSuccessMessage}
}

// SubmitAnother leaves the confirmation and clears the fields. Attribution
// captured at mount is kept.
func (f *QuickIntakeForm) SubmitAnother() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == Submitting {
		return
	}
	f.payload = intake.QuickIntakePayload{Attribution: f.attribution}
	f.fields = nil
	f.message = ""
	f.state = Idle
}

// ReferralForm is the refer-a-deal form. It clears itself after a successful submit.
type ReferralForm struct {
	*formCore

	submitter  ReferralSubmitter
	payload    intake.ReferralPayload
	referralID string
}

func NewReferralForm(submitter ReferralSubmitter, opts ...FormOption) *ReferralForm {
	cfg := buildConfig(opts)
	return &ReferralForm{
		formCore:  newFormCore(cfg),
		submitter: submitter,
	}
}

func (f *ReferralForm) update(fn func(p *intake.ReferralPayload)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(&f.payload)
}

func (f *ReferralForm) SetYourName(v string) {
	f.update(func(p *intake.ReferralPayload) { p.YourName = v })
}

func (f *ReferralForm) SetYourEmail(v string) {
	f.update(func(p *intake.ReferralPayload) { p.YourEmail = v })
}

func (f *ReferralForm) SetYourPhone(v string) {
	f.update(func(p *intake.ReferralPayload) { p.YourPhone = v })
}

func (f *ReferralForm) SetLeadName(v string) {
	f.update(func(p *intake.ReferralPayload) { p.LeadName = v })
}

func (f *ReferralForm) SetLeadContact(v string) {
	f.update(func(p *intake.ReferralPayload) { p.LeadContact = v })
}

func (f *ReferralForm) SetDealType(v string) {
	f.update(func(p *intake.ReferralPayload) { p.DealType = v })
}

func (f *ReferralForm) SetPropertyState(v string) {
	f.update(func(p *intake.ReferralPayload) { p.PropertyState = v })
}

func (f *ReferralForm) SetLoanAmount(v string) {
	f.update(func(p *intake.ReferralPayload) { p.LoanAmount = v })
}

func (f *ReferralForm) SetNotes(v string) {
	f.update(func(p *intake.ReferralPayload) { p.Notes = v })
}

func (f *ReferralForm) SetAgreedToTerms(v bool) {
	f.update(func(p *intake.ReferralPayload) { p.AgreedToTerms = v })
}

func (f *ReferralForm) SetNotCompensated(v bool) {
	f.update(func(p *intake.ReferralPayload) { p.NotCompensated = v })
}

func (f *ReferralForm) Payload() intake.ReferralPayload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.payload
}

// ReferralID is the id from the last successful submit.
func (f *ReferralForm) ReferralID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.referralID
}

func (f *ReferralForm) Submit(ctx context.Context) Result {
	f.mu.Lock()
	if f.state == Submitting {
		f.mu.Unlock()
		return Result{Outcome: Busy}
	}

	payload := f.payload
	f.state = Validating
	if res := f.admit(intake.ValidateReferral(&payload)); res != nil {
		f.mu.Unlock()
		return *res
	}
	f.mu.Unlock()

	id, err := f.submitter.SubmitReferral(ctx, &payload)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		return f.fail(err)
	}
	f.payload = intake.ReferralPayload{}
	f.referralID = id
	f.state = Success
	f.message = ReferralSuccessMessage
	return Result{Outcome: Submitted, Message: ReferralSuccessMessage, ReferralID: id}
}
