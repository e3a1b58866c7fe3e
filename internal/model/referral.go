package model

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"intake_backend/pkg/intake"
)

// Referral is a stored refer-a-deal submission. Rows are never edited after insert.
type Referral struct {
	ID            string              `json:"id" gorm:"type:uuid;primaryKey"`
	YourName      string              `json:"your_name" gorm:"not null"`
	YourEmail     string              `json:"your_email" gorm:"not null"`
	YourPhone     *string             `json:"your_phone"`
	LeadName      string              `json:"lead_name" gorm:"not null"`
	LeadContact   string              `json:"lead_contact" gorm:"not null"`
	DealType      *string             `json:"deal_type"`
	PropertyState *string             `json:"property_state"`
	LoanAmount    decimal.NullDecimal `json:"loan_amount" gorm:"type:numeric"`
	Notes         *string             `json:"notes" gorm:"type:text"`
	CreatedAt     time.Time           `json:"created_at" gorm:"index"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

func (Referral) TableName() string {
	return "referrals"
}

// MarshalJSON writes loan_amount as a JSON number, or null.
func (r Referral) MarshalJSON() ([]byte, error) {
	type row Referral
	amount := json.RawMessage("null")
	if r.LoanAmount.Valid {
		amount = json.RawMessage(r.LoanAmount.Decimal.String())
	}
	return json.Marshal(struct {
		row
		LoanAmount json.RawMessage `json:"loan_amount"`
	}{row: row(r), LoanAmount: amount})
}

// BeforeCreate assigns the id when the caller did not.
func (r *Referral) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// NewReferral maps a validated payload onto a row. Blank optional fields become NULL.
func NewReferral(p *intake.ReferralPayload) *Referral {
	n := p.Normalized()
	return &Referral{
		YourName:      n.YourName,
		YourEmail:     n.YourEmail,
		YourPhone:     nullable(n.YourPhone),
		LeadName:      n.LeadName,
		LeadContact:   n.LeadContact,
		DealType:      nullable(n.DealType),
		PropertyState: nullable(n.PropertyState),
		LoanAmount:    intake.ParseLoanAmount(n.LoanAmount),
		Notes:         nullable(n.Notes),
	}
}

func nullable(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
