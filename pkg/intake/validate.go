package intake

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a payload's JSON field name to a message meant for the person
// filling in the form.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}
	return "invalid fields: " + strings.Join(parts, "; ")
}

// messages is keyed by field, then by the failing rule. The "" rule is the fallback.
var messages = map[string]map[string]string{
	"fullName":            {"": "Name is required"},
	"bestContact":         {"": "Contact is required", "bestcontact": "Please enter a valid email or phone number"},
	"propertyState":       {"": "State is required", "usstate": "Please select a valid state"},
	"dealType":            {"": "Deal type is required", "dealtype": "Please select a valid deal type"},
	"estimatedLoanAmount": {"": "Loan amount is required"},
	"timelineToClose":     {"": "Timeline is required", "timeline": "Please select a valid timeline"},
	"consent":             {"": "Consent is required"},

	"yourName":       {"": "Name is required"},
	"yourEmail":      {"": "Valid email is required"},
	"leadName":       {"": "Lead name is required"},
	"leadContact":    {"": "Lead contact is required"},
	"notes":          {"": "Notes must be 240 characters or fewer"},
	"agreedToTerms":  {"": "You must agree to the terms"},
	"notCompensated": {"": "You must confirm you are not being compensated"},
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func rules() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		mustRegister(v, "bestcontact", func(fl validator.FieldLevel) bool {
			return IsValidContact(fl.Field().String())
		})
		mustRegister(v, "usstate", inSet(usStateSet))
		mustRegister(v, "dealtype", inSet(dealTypeSet))
		mustRegister(v, "timeline", inSet(timelineSet))
		mustRegister(v, "loanamount", func(fl validator.FieldLevel) bool {
			return DigitsOnly(fl.Field().String()) != ""
		})
		mustRegister(v, "accepted", func(fl validator.FieldLevel) bool {
			return fl.Field().Kind() == reflect.Bool && fl.Field().Bool()
		})

		validate = v
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("intake: register %q rule: %v", tag, err))
	}
}

func inSet(set map[string]struct{}) validator.Func {
	return func(fl validator.FieldLevel) bool {
		_, ok := set[fl.Field().String()]
		return ok
	}
}

// ValidateQuickIntake checks a trimmed copy of p. A nil p is the only way to get
// a non-nil error; bad input always comes back as FieldErrors.
func ValidateQuickIntake(p *QuickIntakePayload) (FieldErrors, error) {
	if p == nil {
		return nil, errors.New("intake: nil quick intake payload")
	}
	normalized := p.Normalized()
	return check(&normalized)
}

func ValidateReferral(p *ReferralPayload) (FieldErrors, error) {
	if p == nil {
		return nil, errors.New("intake: nil referral payload")
	}
	normalized := p.Normalized()
	return check(&normalized)
}

func check(payload any) (FieldErrors, error) {
	err := rules().Struct(payload)
	if err == nil {
		return nil, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, fmt.Errorf("intake: validate: %w", err)
	}

	fields := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = messageFor(fe.Field(), fe.Tag())
	}
	return fields, nil
}

func messageFor(field, tag string) string {
	byTag, ok := messages[field]
	if !ok {
		return "Invalid value"
	}
	if msg, ok := byTag[tag]; ok {
		return msg
	}
	return byTag[""]
}
