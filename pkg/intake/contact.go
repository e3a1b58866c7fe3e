package intake

import "regexp"

type ContactType string

const (
	ContactEmail ContactType = "email"
	ContactPhone ContactType = "phone"
)

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern    = regexp.MustCompile(`^\+?[1-9]\d{0,14}$`)
	phoneSeparators = regexp.MustCompile(`[\s\-\(\)]`)
)

// IsValidContact reports whether value is an email address or a phone number
// of at most 15 digits once spaces, dashes and parentheses are removed.
func IsValidContact(value string) bool {
	return emailPattern.MatchString(value) || phonePattern.MatchString(StripPhoneSeparators(value))
}

func StripPhoneSeparators(value string) string {
	return phoneSeparators.ReplaceAllString(value, "")
}

// ClassifyContact is a hint only: anything that is not an email reads as a phone.
func ClassifyContact(value string) ContactType {
	if emailPattern.MatchString(value) {
		return ContactEmail
	}
	return ContactPhone
}

// ContactHint returns the classification for a valid contact, or "" otherwise.
func ContactHint(value string) ContactType {
	if value == "" || !IsValidContact(value) {
		return ""
	}
	return ClassifyContact(value)
}
