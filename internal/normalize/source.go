package normalize

import (
	"go.uber.org/zap"

	"github.com/sells-group/customer360-cli/internal/table"
)

// Adapter describes how one raw source maps onto the normalizer: which
// column carries the email identity key, and which optional columns carry a
// person name and a phone number. Adding a source means adding an adapter;
// downstream join logic never changes.
type Adapter struct {
	Name        string
	EmailColumn string
	NameColumn  string
	PhoneColumn string
}

// The three sources this pipeline integrates.
var (
	CRMAdapter       = Adapter{Name: "crm", EmailColumn: "email_address", NameColumn: "full_name", PhoneColumn: "phone"}
	EcommerceAdapter = Adapter{Name: "ecommerce", EmailColumn: "cust_email"}
	WebAdapter       = Adapter{Name: "web", EmailColumn: "user_email"}
)

// Normalizer applies field canonicalization to a raw source table.
type Normalizer struct {
	Names  NameParser
	Phones PhoneNormalizer
	Region string
}

// New returns a Normalizer with the default parsers and the given phone
// region.
func New(region string) *Normalizer {
	return &Normalizer{
		Names:  NewWhitespaceNameParser(),
		Phones: E164Normalizer{},
		Region: region,
	}
}

// Clean returns a normalized snapshot of t per the adapter. Columns the
// adapter names but the table lacks are skipped. An empty source passes
// through as an empty table.
func (n *Normalizer) Clean(t *table.Table, a Adapter) (*table.Table, error) {
	if t.Empty() {
		zap.L().Info("normalize: source empty, skipping", zap.String("source", a.Name))
		return t.Clone(), nil
	}

	out := t.Clone()
	var err error

	if out.HasColumn(a.EmailColumn) {
		out, err = out.WithColumn(a.EmailColumn, StandardizeEmails(out.Column(a.EmailColumn)))
		if err != nil {
			return nil, err
		}
	}

	if a.NameColumn != "" && out.HasColumn(a.NameColumn) {
		parsed := StandardizeNames(out.Column(a.NameColumn), n.Names)
		first := make([]table.Value, len(parsed))
		last := make([]table.Value, len(parsed))
		full := make([]table.Value, len(parsed))
		for i, p := range parsed {
			first[i], last[i], full[i] = p.First, p.Last, p.Full
		}
		out = out.DropColumn(a.NameColumn)
		for _, col := range []struct {
			name string
			vals []table.Value
		}{
			{"first_name", first},
			{"last_name", last},
			{"full_name_standardized", full},
		} {
			out, err = out.WithColumn(col.name, col.vals)
			if err != nil {
				return nil, err
			}
		}
	}

	if a.PhoneColumn != "" && out.HasColumn(a.PhoneColumn) {
		phones := StandardizePhones(out.Column(a.PhoneColumn), n.Region, n.Phones)
		out = out.DropColumn(a.PhoneColumn)
		out, err = out.WithColumn("phone_standardized", phones)
		if err != nil {
			return nil, err
		}
	}

	zap.L().Info("normalize: source cleaned",
		zap.String("source", a.Name),
		zap.Int("rows", out.NumRows()),
	)
	return out, nil
}
