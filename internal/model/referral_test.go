package model

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"

	"intake_backend/pkg/intake"
)

func TestNewReferral(t *testing.T) {
	r := NewReferral(&intake.ReferralPayload{
		YourName:    "  Sam Agent ",
		YourEmail:   "sam@example.com",
		LeadName:    "Jane Doe",
		LeadContact: "555-123-4567",
		DealType:    "fix-flip",
		LoanAmount:  "300,000",
		Notes:       "   ",
	})

	assert.Equal(t, "Sam Agent", r.YourName)
	assert.Nil(t, r.YourPhone)
	assert.Nil(t, r.PropertyState)
	assert.Nil(t, r.Notes)
	require.NotNil(t, r.DealType)
	assert.Equal(t, "fix-flip", *r.DealType)
	require.True(t, r.LoanAmount.Valid)
	assert.True(t, decimal.NewFromInt(300000).Equal(r.LoanAmount.Decimal))
	assert.Empty(t, r.ID)
}

func TestNewReferral_LoanAmountEdgeCases(t *testing.T) {
	empty := NewReferral(&intake.ReferralPayload{LoanAmount: ""})
	assert.False(t, empty.LoanAmount.Valid)

	zero := NewReferral(&intake.ReferralPayload{LoanAmount: "0"})
	require.True(t, zero.LoanAmount.Valid)
	assert.True(t, zero.LoanAmount.Decimal.IsZero())
}

func TestReferral_JSON(t *testing.T) {
	r := NewReferral(&intake.ReferralPayload{
		YourName:    "Sam Agent",
		YourEmail:   "sam@example.com",
		LeadName:    "Jane Doe",
		LeadContact: "jane@example.com",
		LoanAmount:  "300,000",
	})
	r.ID = "b7f0c1de-0000-4000-8000-000000000001"

	raw, err := json.Marshal(r)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, float64(300000), body["loan_amount"])
	assert.Equal(t, "Jane Doe", body["lead_name"])
	assert.Nil(t, body["notes"])
	assert.Contains(t, body, "notes")
}

func TestReferral_JSONNullLoanAmount(t *testing.T) {
	raw, err := json.Marshal(NewReferral(&intake.ReferralPayload{LoanAmount: "n/a"}))
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Contains(t, body, "loan_amount")
	assert.Nil(t, body["loan_amount"])
}

func TestReferral_JSONLeavesDecimalDefaults(t *testing.T) {
	_, err := json.Marshal(Referral{})
	require.NoError(t, err)

	raw, err := json.Marshal(decimal.NewFromInt(5))
	require.NoError(t, err)
	assert.Equal(t, `"5"`, string(raw))
}

func TestReferral_LoanAmountColumnHasNoPrecisionLimit(t *testing.T) {
	s, err := schema.Parse(&Referral{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	field := s.LookUpField("LoanAmount")
	require.NotNil(t, field)
	assert.Equal(t, "loan_amount", field.DBName)
	assert.Equal(t, "numeric", field.TagSettings["TYPE"])
}

func TestReferral_BeforeCreateKeepsExistingID(t *testing.T) {
	r := &Referral{ID: "given"}
	require.NoError(t, r.BeforeCreate(nil))
	assert.Equal(t, "given", r.ID)

	r = &Referral{}
	require.NoError(t, r.BeforeCreate(nil))
	assert.Len(t, r.ID, 36)
}
