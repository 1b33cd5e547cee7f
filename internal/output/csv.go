package output

import (
	"os"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/customer360-cli/internal/enrich"
	"github.com/sells-group/customer360-cli/internal/identity"
	"github.com/sells-group/customer360-cli/internal/integrate"
	"github.com/sells-group/customer360-cli/internal/segment"
	"github.com/sells-group/customer360-cli/internal/table"
)

// Row is one Customer 360 profile in its external representation. Column
// order matches the declared output schema.
type Row struct {
	Email                string `csv:"email"`
	MasterCustomerID     string `csv:"master_customer_id"`
	FirstName            string `csv:"first_name"`
	LastName             string `csv:"last_name"`
	FullNameStandardized string `csv:"full_name_standardized"`
	PhoneStandardized    string `csv:"phone_standardized"`
	CRMCity              string `csv:"crm_city"`
	SignupDate           string `csv:"signup_date"`
	TotalSpend           Float  `csv:"total_spend"`
	LastOrderDate        string `csv:"last_order_date"`
	NumOrders            Int    `csv:"num_orders"`
	TotalTimeSpent       Float  `csv:"total_time_spent_seconds"`
	NumSessions          Int    `csv:"num_sessions"`
	IsVIP                Flag   `csv:"is_vip"`
	DaysSinceLastOrder   Int    `csv:"days_since_last_order"`
	Segment              string `csv:"segment"`
}

// FromTable maps the segmented pipeline table onto output rows. Null cells
// become empty strings / missing numerics.
func FromTable(t *table.Table) []Row {
	rows := make([]Row, 0, t.NumRows())
	for r := 0; r < t.NumRows(); r++ {
		rows = append(rows, Row{
			Email:                t.Cell(r, identity.ColEmail).Str,
			MasterCustomerID:     t.Cell(r, identity.ColMasterID).Str,
			FirstName:            t.Cell(r, "first_name").Str,
			LastName:             t.Cell(r, "last_name").Str,
			FullNameStandardized: t.Cell(r, "full_name_standardized").Str,
			PhoneStandardized:    t.Cell(r, "phone_standardized").Str,
			CRMCity:              t.Cell(r, "crm_city").Str,
			SignupDate:           t.Cell(r, "signup_date").Str,
			TotalSpend:           floatCell(t.Cell(r, integrate.ColTotalSpend)),
			LastOrderDate:        t.Cell(r, integrate.ColLastOrderDate).Str,
			NumOrders:            intCell(t.Cell(r, integrate.ColNumOrders)),
			TotalTimeSpent:       floatCell(t.Cell(r, integrate.ColTotalTimeSpent)),
			NumSessions:          intCell(t.Cell(r, integrate.ColNumSessions)),
			IsVIP:                Flag(t.Cell(r, enrich.ColIsVIP).Str == "true"),
			DaysSinceLastOrder:   intCell(t.Cell(r, enrich.ColDaysSinceLastOrder)),
			Segment:              t.Cell(r, segment.ColSegment).Str,
		})
	}
	return rows
}

// Write renders the table to path. An empty table is "no data", not an
// error: the file gets a header row only.
func Write(path string, t *table.Table) error {
	rows := FromTable(t)
	if len(rows) == 0 {
		zap.L().Warn("output: no data to write, emitting header only", zap.String("path", path))
	}

	data, err := csvutil.Marshal(rows)
	if err != nil {
		return eris.Wrap(err, "output: marshal csv")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "output: write %s", path)
	}

	zap.L().Info("output: written", zap.String("path", path), zap.Int("rows", len(rows)))
	return nil
}

// Read loads a previously written output file.
func Read(path string) ([]Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "output: read %s", path)
	}
	var rows []Row
	if err := csvutil.Unmarshal(data, &rows); err != nil {
		return nil, eris.Wrapf(err, "output: parse %s", path)
	}
	return rows, nil
}

func floatCell(v table.Value) Float {
	f, ok := v.Float()
	if !ok {
		return Float{}
	}
	return Float{V: f, Present: true}
}

func intCell(v table.Value) Int {
	n, ok := v.Int()
	if !ok {
		return Int{}
	}
	return Int{V: n, Present: true}
}
