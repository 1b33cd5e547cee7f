// Package enrich derives behavioral attributes from the integrated customer
// table: the VIP flag and order recency.
package enrich

import (
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/customer360-cli/internal/integrate"
	"github.com/sells-group/customer360-cli/internal/normalize"
	"github.com/sells-group/customer360-cli/internal/table"
)

// Columns added by enrichment.
const (
	ColIsVIP              = "is_vip"
	ColDaysSinceLastOrder = "days_since_last_order"
)

// Enricher computes derived attributes. Now is injectable for tests and
// defaults to time.Now.
type Enricher struct {
	MinOrderValueForVIP float64
	Now                 func() time.Time
}

// New returns an Enricher with the given VIP threshold.
func New(vipThreshold float64) *Enricher {
	return &Enricher{MinOrderValueForVIP: vipThreshold, Now: time.Now}
}

// Enrich returns a copy of the table with is_vip and days_since_last_order
// appended. An empty input passes through empty.
func (e *Enricher) Enrich(t *table.Table) (*table.Table, error) {
	if t.Empty() {
		zap.L().Warn("enrich: table empty, skipping enrichment")
		return t.Clone(), nil
	}

	out, err := t.WithColumn(ColIsVIP, e.vipFlags(t))
	if err != nil {
		return nil, err
	}
	out, err = out.WithColumn(ColDaysSinceLastOrder, e.orderRecency(t))
	if err != nil {
		return nil, err
	}

	zap.L().Info("enrich: complete", zap.Int("rows", out.NumRows()))
	return out, nil
}

// vipFlags marks customers whose total spend strictly exceeds the threshold.
// A missing total_spend column means nobody is a VIP.
func (e *Enricher) vipFlags(t *table.Table) []table.Value {
	flags := make([]table.Value, t.NumRows())
	if !t.HasColumn(integrate.ColTotalSpend) {
		for i := range flags {
			flags[i] = table.String("false")
		}
		return flags
	}
	for i, v := range t.Column(integrate.ColTotalSpend) {
		spend, ok := v.Float()
		flags[i] = table.String(strconv.FormatBool(ok && spend > e.MinOrderValueForVIP))
	}
	return flags
}

// orderRecency computes whole days between now and each last order date.
// Unparseable or missing dates yield null (unknown), never zero.
func (e *Enricher) orderRecency(t *table.Table) []table.Value {
	days := make([]table.Value, t.NumRows())
	if !t.HasColumn(integrate.ColLastOrderDate) {
		for i := range days {
			days[i] = table.Null()
		}
		return days
	}
	now := e.Now()
	for i, v := range t.Column(integrate.ColLastOrderDate) {
		days[i] = table.Null()
		if !v.Valid {
			continue
		}
		last, ok := normalize.ParseDate(v.Str)
		if !ok {
			continue
		}
		days[i] = table.String(strconv.Itoa(int(now.Sub(last).Hours() / 24)))
	}
	return days
}
