// Package redact scrubs credentials, tokens, connection strings, SQL and
// filesystem paths from text before it is written to logs. API responses never
// carry raw error text; this package protects the log stream.
package redact

import "regexp"

// Placeholders substituted for the redacted fragments.
const (
	Placeholder           = "[REDACTED]"
	DSNPlaceholder        = "[REDACTED_DSN]"
	TokenPlaceholder      = "[REDACTED_JWT]"
	SQLPlaceholder        = "[REDACTED_SQL]"
	PathPlaceholder       = "[REDACTED_PATH]"
	CredentialPlaceholder = "[REDACTED_CREDENTIAL]"
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Rules run in order; earlier rules consume text so later ones do not see it.
var rules = []rule{
	{regexp.MustCompile(`(?i)\b(?:postgres(?:ql)?|mysql|redis)://\S+`), DSNPlaceholder},
	{regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`), TokenPlaceholder},
	{regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9._~+/=-]+`), "Bearer " + Placeholder},
	{regexp.MustCompile(`(?i)\b(password|passwd|pwd|secret|jwt_secret)\s*[=:]\s*\S+`), "${1}=" + CredentialPlaceholder},
	{regexp.MustCompile(`\$2[aby]\$\d{2}\$[./A-Za-z0-9]{53}`), CredentialPlaceholder},
	{regexp.MustCompile(`\b(?:SELECT\s.+?\sFROM|INSERT\s+INTO|UPDATE\s+\w+\s+SET|DELETE\s+FROM)\b[^;]*`), SQLPlaceholder},
	{regexp.MustCompile(`(?:/[\w.-]+){2,}`), PathPlaceholder},
}

// String redacts sensitive fragments from s.
func String(s string) string {
	for _, r := range rules {
		if s == "" {
			return s
		}
		s = r.pattern.ReplaceAllString(s, r.replacement)
	}
	return s
}

// Error redacts the text of err. A nil error yields "".
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
