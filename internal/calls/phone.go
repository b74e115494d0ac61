package calls

import (
	"errors"
	"strings"
	"unicode"
)

// ErrInvalidPhone is returned when a phone number has too few digits to dial.
var ErrInvalidPhone = errors.New("calls: invalid phone number")

// NormalizePhone canonicalizes a Turkish phone number into E.164.
// Trunk-prefixed numbers ("05xx...") and bare mobile numbers ("5xx...")
// gain the country code; already-canonical input passes through unchanged,
// so normalization is idempotent.
func NormalizePhone(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case strings.HasPrefix(digits, "0"):
		digits = "90" + digits[1:]
	case strings.HasPrefix(digits, "5"):
		digits = "90" + digits
	}

	if len(digits) < 10 {
		return "", ErrInvalidPhone
	}
	return "+" + digits, nil
}
