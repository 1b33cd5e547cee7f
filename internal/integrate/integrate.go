// Package integrate joins the per-source contributions onto the master
// identity drive table: CRM attributes by left-join, e-commerce and web
// activity by group-aggregate-then-left-join. Every resolved identity stays
// in the result even with zero behavioral history.
package integrate

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/sells-group/customer360-cli/internal/identity"
	"github.com/sells-group/customer360-cli/internal/normalize"
	"github.com/sells-group/customer360-cli/internal/table"
)

// Column names contributed by the behavioral sources.
const (
	ColTotalSpend     = "total_spend"
	ColLastOrderDate  = "last_order_date"
	ColNumOrders      = "num_orders"
	ColTotalTimeSpent = "total_time_spent_seconds"
	ColNumSessions    = "num_sessions"
)

// Aggregation contracts: a behavioral source must carry all of its required
// columns or its aggregation is skipped in favor of zero defaults.
var (
	RequiredEcommerceColumns = []string{normalize.EcommerceAdapter.EmailColumn, "order_value", "order_date", "order_id"}
	RequiredWebColumns       = []string{normalize.WebAdapter.EmailColumn, "time_spent_seconds", "session_id"}
)

// crmAttributeColumns are carried from the cleaned CRM source when present.
var crmAttributeColumns = []string{
	"first_name", "last_name", "full_name_standardized",
	"phone_standardized", "crm_city", "signup_date",
}

// Build produces the integrated customer table from the drive table and the
// three cleaned sources. An empty drive table short-circuits to an empty
// result.
func Build(drive, crm, ecom, web *table.Table) (*table.Table, error) {
	if drive.Empty() {
		zap.L().Warn("integrate: drive table empty, nothing to integrate")
		return drive.Clone(), nil
	}

	out, err := MergeCRM(drive, crm)
	if err != nil {
		return nil, err
	}
	out, err = MergeEcommerce(out, ecom)
	if err != nil {
		return nil, err
	}
	out, err = MergeWeb(out, web)
	if err != nil {
		return nil, err
	}
	out, err = fillBehavioralZeros(out)
	if err != nil {
		return nil, err
	}

	zap.L().Info("integrate: complete",
		zap.Int("identities", out.NumRows()),
		zap.Int("columns", out.NumCols()),
	)
	return out, nil
}

// MergeCRM left-joins CRM attribute columns onto the drive table by email.
// Only columns the cleaned CRM table actually has are carried; absent ones
// are omitted, never synthesized. When several CRM rows share an email, the
// first row wins, keeping one output row per identity.
func MergeCRM(drive, crm *table.Table) (*table.Table, error) {
	if crm.Empty() || !crm.HasColumn(normalize.CRMAdapter.EmailColumn) {
		zap.L().Warn("integrate: crm source absent, skipping attribute join")
		return drive.Clone(), nil
	}

	src := crm.
		RenameColumn(normalize.CRMAdapter.EmailColumn, identity.ColEmail).
		RenameColumn("city", "crm_city")

	firstRowByEmail := make(map[string]int, src.NumRows())
	emails := src.Column(identity.ColEmail)
	for r, v := range emails {
		if !v.Valid {
			continue
		}
		if _, seen := firstRowByEmail[v.Str]; !seen {
			firstRowByEmail[v.Str] = r
		}
	}

	out := drive.Clone()
	driveEmails := drive.Column(identity.ColEmail)
	for _, col := range crmAttributeColumns {
		if !src.HasColumn(col) {
			continue
		}
		vals := make([]table.Value, len(driveEmails))
		for i, e := range driveEmails {
			vals[i] = table.Null()
			if !e.Valid {
				continue
			}
			if r, ok := firstRowByEmail[e.Str]; ok {
				vals[i] = src.Cell(r, col)
			}
		}
		var err error
		out, err = out.WithColumn(col, vals)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// MergeEcommerce aggregates order history per email and left-joins it onto
// the drive table. A missing source or missing required columns fall back to
// zero spend and order counts with a null last order date.
func MergeEcommerce(drive, ecom *table.Table) (*table.Table, error) {
	if !sourceUsable(ecom, "ecommerce", RequiredEcommerceColumns) {
		return withFallback(drive, map[string]table.Value{
			ColTotalSpend:    table.String("0"),
			ColLastOrderDate: table.Null(),
			ColNumOrders:     table.String("0"),
		})
	}

	type orderAgg struct {
		spend    float64
		lastDate table.Value
		orders   int64
	}
	aggs := make(map[string]*orderAgg)
	emails := ecom.Column(normalize.EcommerceAdapter.EmailColumn)
	for r, e := range emails {
		if !e.Valid {
			continue
		}
		agg, ok := aggs[e.Str]
		if !ok {
			agg = &orderAgg{lastDate: table.Null()}
			aggs[e.Str] = agg
		}
		if v, ok := ecom.Cell(r, "order_value").Float(); ok {
			agg.spend += v
		}
		if d := ecom.Cell(r, "order_date"); d.Valid {
			agg.lastDate = laterDate(agg.lastDate, d)
		}
		if ecom.Cell(r, "order_id").Valid {
			agg.orders++
		}
	}

	out := drive.Clone()
	driveEmails := drive.Column(identity.ColEmail)
	spend := make([]table.Value, len(driveEmails))
	last := make([]table.Value, len(driveEmails))
	orders := make([]table.Value, len(driveEmails))
	for i, e := range driveEmails {
		spend[i], last[i], orders[i] = table.Null(), table.Null(), table.Null()
		if !e.Valid {
			continue
		}
		if agg, ok := aggs[e.Str]; ok {
			spend[i] = table.String(strconv.FormatFloat(agg.spend, 'f', -1, 64))
			last[i] = agg.lastDate
			orders[i] = table.String(strconv.FormatInt(agg.orders, 10))
		}
	}
	return withColumns(out, []string{ColTotalSpend, ColLastOrderDate, ColNumOrders}, [][]table.Value{spend, last, orders})
}

// MergeWeb aggregates site engagement per email and left-joins it onto the
// drive table, with the same absent-source fallback as MergeEcommerce.
func MergeWeb(drive, web *table.Table) (*table.Table, error) {
	if !sourceUsable(web, "web", RequiredWebColumns) {
		return withFallback(drive, map[string]table.Value{
			ColTotalTimeSpent: table.String("0"),
			ColNumSessions:    table.String("0"),
		})
	}

	type webAgg struct {
		seconds  float64
		sessions map[string]struct{}
	}
	aggs := make(map[string]*webAgg)
	emails := web.Column(normalize.WebAdapter.EmailColumn)
	for r, e := range emails {
		if !e.Valid {
			continue
		}
		agg, ok := aggs[e.Str]
		if !ok {
			agg = &webAgg{sessions: make(map[string]struct{})}
			aggs[e.Str] = agg
		}
		if v, ok := web.Cell(r, "time_spent_seconds").Float(); ok {
			agg.seconds += v
		}
		if s := web.Cell(r, "session_id"); s.Valid {
			agg.sessions[s.Str] = struct{}{}
		}
	}

	out := drive.Clone()
	driveEmails := drive.Column(identity.ColEmail)
	seconds := make([]table.Value, len(driveEmails))
	sessions := make([]table.Value, len(driveEmails))
	for i, e := range driveEmails {
		seconds[i], sessions[i] = table.Null(), table.Null()
		if !e.Valid {
			continue
		}
		if agg, ok := aggs[e.Str]; ok {
			seconds[i] = table.String(strconv.FormatFloat(agg.seconds, 'f', -1, 64))
			sessions[i] = table.String(strconv.Itoa(len(agg.sessions)))
		}
	}
	return withColumns(out, []string{ColTotalTimeSpent, ColNumSessions}, [][]table.Value{seconds, sessions})
}

// sourceUsable reports whether a source table exists and has every required
// column, logging which columns were missing when it does not.
func sourceUsable(t *table.Table, source string, required []string) bool {
	if t.Empty() || !t.HasColumn(required[0]) {
		zap.L().Warn("integrate: source absent, applying zero defaults", zap.String("source", source))
		return false
	}
	var missing []string
	for _, col := range required {
		if !t.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		zap.L().Warn("integrate: skipping aggregation, required columns missing",
			zap.String("source", source),
			zap.Strings("missing", missing),
		)
		return false
	}
	return true
}

// laterDate returns the later of two order dates. Both chronological
// comparison (when both parse) and lexicographic fallback are supported so
// mixed-format sources still produce a stable maximum.
func laterDate(a, b table.Value) table.Value {
	if !a.Valid {
		return b
	}
	if !b.Valid {
		return a
	}
	ta, okA := normalize.ParseDate(a.Str)
	tb, okB := normalize.ParseDate(b.Str)
	if okA && okB {
		if tb.After(ta) {
			return b
		}
		return a
	}
	if b.Str > a.Str {
		return b
	}
	return a
}

// fillBehavioralZeros replaces nulls in the behavioral numeric columns with
// zero; identities with no source rows end up with explicit zeros, not
// nulls.
func fillBehavioralZeros(t *table.Table) (*table.Table, error) {
	out := t
	for _, col := range []string{ColTotalSpend, ColNumOrders, ColTotalTimeSpent, ColNumSessions} {
		if !out.HasColumn(col) {
			continue
		}
		vals := out.Column(col)
		for i, v := range vals {
			if !v.Valid {
				vals[i] = table.String("0")
			}
		}
		var err error
		out, err = out.WithColumn(col, vals)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func withFallback(drive *table.Table, cols map[string]table.Value) (*table.Table, error) {
	out := drive.Clone()
	var err error
	// Fixed iteration order for reproducible column layout.
	for _, col := range []string{ColTotalSpend, ColLastOrderDate, ColNumOrders, ColTotalTimeSpent, ColNumSessions} {
		v, ok := cols[col]
		if !ok {
			continue
		}
		out, err = out.WithConstColumn(col, v)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func withColumns(t *table.Table, names []string, cols [][]table.Value) (*table.Table, error) {
	out := t
	var err error
	for i, name := range names {
		out, err = out.WithColumn(name, cols[i])
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
