// Package normalize canonicalizes raw source fields: email addresses, person
// names, and phone numbers. All normalizers are total functions — a value
// that cannot be canonicalized becomes null, never an error.
package normalize

import (
	"regexp"
	"strings"

	"github.com/sells-group/customer360-cli/internal/table"
)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// StandardizeEmail lowercases and trims a single value, then validates its
// shape. Invalid or null input yields null. Idempotent: applying it to its
// own output is a no-op.
func StandardizeEmail(v table.Value) table.Value {
	if !v.Valid {
		return table.Null()
	}
	email := strings.ToLower(strings.TrimSpace(v.Str))
	if !emailRe.MatchString(email) {
		return table.Null()
	}
	return table.String(email)
}

// StandardizeEmails applies StandardizeEmail to every value.
func StandardizeEmails(vals []table.Value) []table.Value {
	out := make([]table.Value, len(vals))
	for i, v := range vals {
		out[i] = StandardizeEmail(v)
	}
	return out
}
