// Package redact scrubs sensitive fragments from strings before they reach
// logs. Error responses never carry raw error text at all; this is the
// second line of defense for log output (no SQL text, no connection
// strings, no credentials).
package redact

import "regexp"

// Redaction placeholders
const (
	redactedCredential = "[REDACTED_CREDENTIAL]"
	redactedEmail      = "[REDACTED_EMAIL]"
	redactedJWT        = "[REDACTED_JWT]"
	redactedSQL        = "[REDACTED_SQL]"
)

var replacements = []struct {
	pattern     *regexp.Regexp
	placeholder string
}{
	// Connection strings with inline credentials
	{regexp.MustCompile(`(?i)(postgres|postgresql|mysql)://[^@\s]+@`), redactedCredential},
	// password=..., pwd: ... fragments
	{regexp.MustCompile(`(?i)(password|passwd|pwd)([=:\s]['"]?)[^'"&\s]{3,}`), redactedCredential},
	// Three-part base64url JWTs
	{regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`), redactedJWT},
	// Email addresses
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), redactedEmail},
	// SQL statement fragments
	{regexp.MustCompile(`(?i)(SELECT|INSERT|UPDATE|DELETE)[\s\w,*()=<>$.'"]+(FROM|INTO|SET|WHERE)[\s\w,*()=<>$.'"]*`), redactedSQL},
}

// String redacts sensitive fragments from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range replacements {
		result = r.pattern.ReplaceAllString(result, r.placeholder)
	}
	return result
}

// Error redacts sensitive fragments from an error's Error() output.
// Returns "" for a nil error.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
