package processing

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// NotAvailable stands in for optional fields the upstream left out.
const NotAvailable = "N/A"

var (
	controlChars = regexp.MustCompile(`\p{Cc}+`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// HeaderValue makes s safe to send as a header value: control characters turn
// into spaces, whitespace runs collapse and the ends are trimmed. No quoting is
// added.
func HeaderValue(s string) string {
	if s == "" {
		return ""
	}
	cleaned := controlChars.ReplaceAllString(s, " ")
	cleaned = whitespace.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// OptionalHeaderValue is HeaderValue for optional fields, falling back to
// NotAvailable when the field is unset or blank.
func OptionalHeaderValue(s *string) string {
	if s == nil {
		return NotAvailable
	}
	if v := HeaderValue(*s); v != "" {
		return v
	}
	return NotAvailable
}

// ElapsedHeaderValue renders a duration as "<N> ns".
func ElapsedHeaderValue(d time.Duration) string {
	return fmt.Sprintf("%d ns", d.Nanoseconds())
}
