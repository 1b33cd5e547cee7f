// Package identity assigns one master customer ID per distinct canonical
// email observed across all sources. IDs are a pure function of the email
// (UUIDv5 under a fixed namespace), so reprocessing the same inputs — or
// merging a later batch — yields the same identity for the same person.
package identity

import (
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/customer360-cli/internal/table"
)

// Drive-table column names shared with the integrator.
const (
	ColEmail    = "email"
	ColMasterID = "master_customer_id"
)

// Namespace under which master IDs are derived. Changing it re-keys every
// customer, so it is fixed for the life of the system.
var masterIDNamespace = uuid.MustParse("9f2c1e8a-7b43-4d6a-9c0e-5b1f2a6d8e47")

// MasterID derives the deterministic master customer ID for a canonical
// email.
func MasterID(email string) string {
	return uuid.NewSHA1(masterIDNamespace, []byte(email)).String()
}

// Index is the email-to-identity arena. It preserves insertion while
// guaranteeing one entry per distinct email.
type Index struct {
	ids map[string]string
}

// NewIndex returns an empty identity index.
func NewIndex() *Index {
	return &Index{ids: make(map[string]string)}
}

// Add registers a canonical email, assigning its master ID on first sight.
// Re-adding an email is a no-op and returns the existing ID.
func (ix *Index) Add(email string) string {
	if id, ok := ix.ids[email]; ok {
		return id
	}
	id := MasterID(email)
	ix.ids[email] = id
	return id
}

// Lookup returns the master ID for an email, if registered.
func (ix *Index) Lookup(email string) (string, bool) {
	id, ok := ix.ids[email]
	return id, ok
}

// Len returns the number of distinct identities.
func (ix *Index) Len() int {
	return len(ix.ids)
}

// Emails returns the registered emails in lexicographic order.
func (ix *Index) Emails() []string {
	out := make([]string, 0, len(ix.ids))
	for e := range ix.ids {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}

// EmailSource names one normalized table and its email-bearing column.
type EmailSource struct {
	Name   string
	Table  *table.Table
	Column string
}

// Resolve unions the non-null emails of every source into an index and
// returns the drive table {email, master_customer_id}, one row per distinct
// email, sorted by email. Absent sources and sources without their email
// column contribute nothing. Zero valid emails produce an empty table with
// the declared columns, not an error.
func Resolve(sources ...EmailSource) (*table.Table, *Index) {
	ix := NewIndex()
	for _, src := range sources {
		if src.Table.Empty() || !src.Table.HasColumn(src.Column) {
			continue
		}
		for _, v := range src.Table.Column(src.Column) {
			if v.Valid {
				ix.Add(v.Str)
			}
		}
	}

	out := table.New(ColEmail, ColMasterID)
	for _, email := range ix.Emails() {
		id, _ := ix.Lookup(email)
		// Arity is fixed; AppendRow cannot fail here.
		_ = out.AppendRow(table.String(email), table.String(id))
	}

	if ix.Len() == 0 {
		zap.L().Warn("identity: no valid emails found, no master profiles created")
	} else {
		zap.L().Info("identity: master profiles created", zap.Int("count", ix.Len()))
	}
	return out, ix
}
