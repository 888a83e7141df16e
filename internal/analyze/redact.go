package analyze

import "regexp"

const (
	redactedEmail = "[redacted-email]"
	redactedURL   = "[redacted-url]"
	redactedPhone = "[redacted-phone]"
)

var (
	emailRe = regexp.MustCompile(`(?i)\b[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}\b`)
	urlRe   = regexp.MustCompile(`(?i)\bhttps?://\S+\b`)
	phoneRe = regexp.MustCompile(`\b(?:\+?\d{1,3}[-. ]?)?(?:\(?\d{2,3}\)?[-. ]?)?\d{3}[-. ]?\d{4}\b`)
)

// Redact replaces email addresses, then URLs, then phone-number-shaped
// digit runs with fixed placeholders. The phone pattern does not know real
// numbering plans and will also hit other digit groups.
func Redact(text string) string {
	text = emailRe.ReplaceAllLiteralString(text, redactedEmail)
	text = urlRe.ReplaceAllLiteralString(text, redactedURL)
	text = phoneRe.ReplaceAllLiteralString(text, redactedPhone)
	return text
}
