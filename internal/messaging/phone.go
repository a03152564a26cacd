package messaging

import "strings"

// countryCode is the Brazilian country prefix used as the canonical join key
// between the messaging identity and stored appointments.
const countryCode = "55"

// chatSuffix is the channel-specific suffix appended to a canonical phone to
// form a WhatsApp recipient id.
const chatSuffix = "@c.us"

// NormalizePhone canonicalizes a phone number to a digit-only string prefixed
// with the country code. Local numbers (10 or 11 digits) get the prefix
// prepended; re-normalizing an already canonical number is a no-op.
// Empty or digit-free input yields "".
func NormalizePhone(value string) string {
	digits := sanitizePhone(value)
	if digits == "" {
		return ""
	}
	if len(digits) == 10 || len(digits) == 11 {
		digits = countryCode + digits
	}
	if !strings.HasPrefix(digits, countryCode) {
		digits = countryCode + digits
	}
	return digits
}

// RecipientID derives the WhatsApp chat id for a phone number.
// Returns "" when the phone cannot be normalized.
func RecipientID(phone string) string {
	normalized := NormalizePhone(phone)
	if normalized == "" {
		return ""
	}
	return normalized + chatSuffix
}

func sanitizePhone(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
