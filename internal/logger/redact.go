package logger

import "strings"

const redactedToken = "[REDACTED_TOKEN]"

// RedactToken returns a placeholder for a credential. Empty tokens stay empty
// so logs still show whether one was present.
func RedactToken(token string) string {
	if token == "" {
		return ""
	}
	return redactedToken
}

// RedactEmail keeps the first two runes of the local part and the domain.
func RedactEmail(email string) string {
	at := strings.Index(email, "@")
	if at < 0 || strings.Count(email, "@") != 1 {
		return "***"
	}
	local := []rune(email[:at])
	if len(local) <= 2 {
		return "***" + email[at:]
	}
	return string(local[:2]) + "***" + email[at:]
}
