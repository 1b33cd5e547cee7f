// Package output writes the final Customer 360 table to CSV and reads it
// back for analytics consumers. Field coercion is deliberate and symmetric:
// numbers round-trip to the same values, non-numeric cells read back as
// missing, and the VIP flag accepts the common boolean spellings.
package output

import (
	"strconv"
	"strings"
)

// Float is a nullable float64 CSV field. Missing or non-numeric input reads
// back as not-present rather than an error.
type Float struct {
	V       float64
	Present bool
}

// MarshalCSV implements csvutil.Marshaler.
func (f Float) MarshalCSV() ([]byte, error) {
	if !f.Present {
		return nil, nil
	}
	return []byte(strconv.FormatFloat(f.V, 'f', -1, 64)), nil
}

// UnmarshalCSV implements csvutil.Unmarshaler.
func (f *Float) UnmarshalCSV(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" {
		*f = Float{}
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = Float{}
		return nil
	}
	*f = Float{V: v, Present: true}
	return nil
}

// Int is a nullable int64 CSV field with the same coercion policy as Float.
type Int struct {
	V       int64
	Present bool
}

// MarshalCSV implements csvutil.Marshaler.
func (n Int) MarshalCSV() ([]byte, error) {
	if !n.Present {
		return nil, nil
	}
	return []byte(strconv.FormatInt(n.V, 10)), nil
}

// UnmarshalCSV implements csvutil.Unmarshaler.
func (n *Int) UnmarshalCSV(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" {
		*n = Int{}
		return nil
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		*n = Int{V: v, Present: true}
		return nil
	}
	// Tolerate float renderings of whole numbers ("3.0").
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int64(f)) {
		*n = Int{V: int64(f), Present: true}
		return nil
	}
	*n = Int{}
	return nil
}

// Flag is the is_vip boolean CSV field. It round-trips through
// True/False/true/false/1/0/yes/no; anything unrecognized or missing reads
// as false.
type Flag bool

// MarshalCSV implements csvutil.Marshaler.
func (f Flag) MarshalCSV() ([]byte, error) {
	if f {
		return []byte("true"), nil
	}
	return []byte("false"), nil
}

// UnmarshalCSV implements csvutil.Unmarshaler.
func (f *Flag) UnmarshalCSV(data []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(data))) {
	case "true", "1", "yes":
		*f = true
	default:
		*f = false
	}
	return nil
}
