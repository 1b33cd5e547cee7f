package normalize

import (
	"strings"

	"github.com/nyaruka/phonenumbers"

	"github.com/sells-group/customer360-cli/internal/table"
)

// PhoneNormalizer canonicalizes a raw phone value under a default region.
// Implementations must not panic; numbers they cannot validate report
// ok=false.
type PhoneNormalizer interface {
	Normalize(raw, region string) (string, bool)
}

// E164Normalizer is the default PhoneNormalizer, backed by the libphonenumber
// port. Valid numbers come back in E.164 format (+<country><national>).
type E164Normalizer struct{}

// Normalize implements PhoneNormalizer.
func (E164Normalizer) Normalize(raw, region string) (string, bool) {
	num, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return "", false
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", false
	}
	return phonenumbers.Format(num, phonenumbers.E164), true
}

// StandardizePhones canonicalizes each value under the default region.
// Null, empty, and invalid values yield null.
func StandardizePhones(vals []table.Value, region string, normalizer PhoneNormalizer) []table.Value {
	out := make([]table.Value, len(vals))
	for i, v := range vals {
		if !v.Valid || strings.TrimSpace(v.Str) == "" {
			out[i] = table.Null()
			continue
		}
		formatted, ok := normalizer.Normalize(v.Str, region)
		if !ok {
			out[i] = table.Null()
			continue
		}
		out[i] = table.String(formatted)
	}
	return out
}
