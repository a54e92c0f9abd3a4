package service

import (
	"strings"
	"unicode/utf8"
)

// NoEmailSentinel replaces emails whose local part is too short to mask safely.
const NoEmailSentinel = "Không có email"

const emailMaskToken = "***"

// MaskEmail reveals the first two characters of the local part followed by a
// mask and the original domain. Local parts of two characters or fewer, and
// values without "@", yield NoEmailSentinel.
func MaskEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	if at < 0 {
		return NoEmailSentinel
	}
	local := email[:at]
	if utf8.RuneCountInString(local) <= 2 {
		return NoEmailSentinel
	}
	runes := []rune(local)
	return string(runes[:2]) + emailMaskToken + email[at:]
}
