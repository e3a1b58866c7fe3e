// Package intake holds the lead payloads shared by the browser-side forms and
// the intake service, together with the rules both sides check them against.
package intake

import "strings"

// QuickIntakePayload is the short-form borrower lead sent to /submit-quick-intake.
type QuickIntakePayload struct {
	FullName            string `json:"fullName" validate:"min=2"`
	BestContact         string `json:"bestContact" validate:"required,bestcontact"`
	PropertyState       string `json:"propertyState" validate:"required,usstate"`
	DealType            string `json:"dealType" validate:"required,dealtype"`
	EstimatedLoanAmount string `json:"estimatedLoanAmount" validate:"required,loanamount"`
	TimelineToClose     string `json:"timelineToClose" validate:"required,timeline"`
	Consent             bool   `json:"consent" validate:"accepted"`
	Honeypot            string `json:"honeypot"`

	Attribution
}

// Normalized returns a copy with surrounding whitespace removed from every text field.
func (p QuickIntakePayload) Normalized() QuickIntakePayload {
	p.FullName = strings.TrimSpace(p.FullName)
	p.BestContact = strings.TrimSpace(p.BestContact)
	p.PropertyState = strings.TrimSpace(p.PropertyState)
	p.DealType = strings.TrimSpace(p.DealType)
	p.EstimatedLoanAmount = strings.TrimSpace(p.EstimatedLoanAmount)
	p.TimelineToClose = strings.TrimSpace(p.TimelineToClose)
	return p
}

// ReferralPayload is the refer-a-deal submission sent to /submit-referral.
type ReferralPayload struct {
	YourName       string `json:"yourName" validate:"min=2"`
	YourEmail      string `json:"yourEmail" validate:"required,email"`
	YourPhone      string `json:"yourPhone,omitempty"`
	LeadName       string `json:"leadName" validate:"required"`
	LeadContact    string `json:"leadContact" validate:"required"`
	DealType       string `json:"dealType,omitempty"`
	PropertyState  string `json:"propertyState,omitempty"`
	LoanAmount     string `json:"loanAmount,omitempty"`
	Notes          string `json:"notes,omitempty" validate:"max=240"`
	AgreedToTerms  bool   `json:"agreedToTerms" validate:"accepted"`
	NotCompensated bool   `json:"notCompensated" validate:"accepted"`
}

func (p ReferralPayload) Normalized() ReferralPayload {
	p.YourName = strings.TrimSpace(p.YourName)
	p.YourEmail = strings.TrimSpace(p.YourEmail)
	p.YourPhone = strings.TrimSpace(p.YourPhone)
	p.LeadName = strings.TrimSpace(p.LeadName)
	p.LeadContact = strings.TrimSpace(p.LeadContact)
	p.DealType = strings.TrimSpace(p.DealType)
	p.PropertyState = strings.TrimSpace(p.PropertyState)
	p.LoanAmount = strings.TrimSpace(p.LoanAmount)
	p.Notes = strings.TrimSpace(p.Notes)
	return p
}

// SubmitResponse is the body both intake endpoints answer with.
type SubmitResponse struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Error      string      `json:"error,omitempty"`
	ReferralID string      `json:"referralId,omitempty"`
	Fields     FieldErrors `json:"fields,omitempty"`
}
