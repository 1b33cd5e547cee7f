// Package dashboard serves read-only analytics over the Customer 360 output:
// headline KPIs, per-segment summaries, the customer rows themselves, and
// run history. It never mutates pipeline data.
package dashboard

import (
	"os"
	"sort"

	"go.uber.org/zap"

	"github.com/sells-group/customer360-cli/internal/normalize"
	"github.com/sells-group/customer360-cli/internal/output"
	"github.com/sells-group/customer360-cli/internal/table"
)

// KPIs are the headline numbers across the whole customer base.
type KPIs struct {
	TotalCustomers int     `json:"total_customers"`
	TotalRevenue   float64 `json:"total_revenue"`
	AvgOrders      float64 `json:"avg_orders_per_customer"`
	VIPCount       int     `json:"vip_count"`
}

// SegmentSummary aggregates one segment label.
type SegmentSummary struct {
	Segment   string  `json:"segment"`
	Customers int     `json:"customers"`
	AvgSpend  float64 `json:"avg_spend"`
}

// ComputeKPIs derives the headline numbers from the output rows.
func ComputeKPIs(rows []output.Row) KPIs {
	k := KPIs{TotalCustomers: len(rows)}
	var orders float64
	for _, r := range rows {
		if r.TotalSpend.Present {
			k.TotalRevenue += r.TotalSpend.V
		}
		if r.NumOrders.Present {
			orders += float64(r.NumOrders.V)
		}
		if r.IsVIP {
			k.VIPCount++
		}
	}
	if len(rows) > 0 {
		k.AvgOrders = orders / float64(len(rows))
	}
	return k
}

// SummarizeSegments groups the output rows by segment label, sorted by
// label for stable responses.
func SummarizeSegments(rows []output.Row) []SegmentSummary {
	type acc struct {
		count int
		spend float64
	}
	bySegment := make(map[string]*acc)
	for _, r := range rows {
		a := bySegment[r.Segment]
		if a == nil {
			a = &acc{}
			bySegment[r.Segment] = a
		}
		a.count++
		if r.TotalSpend.Present {
			a.spend += r.TotalSpend.V
		}
	}

	out := make([]SegmentSummary, 0, len(bySegment))
	for label, a := range bySegment {
		out = append(out, SegmentSummary{
			Segment:   label,
			Customers: a.count,
			AvgSpend:  a.spend / float64(a.count),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Segment < out[j].Segment })
	return out
}

// FilterRows narrows the output rows by segment label and/or email. Empty
// filter values match everything. The email filter is canonicalized the
// same way the pipeline canonicalizes source emails, so "John@Test.com"
// finds john@test.com.
func FilterRows(rows []output.Row, segment, email string) []output.Row {
	if segment == "" && email == "" {
		return rows
	}
	if email != "" {
		if v := normalize.StandardizeEmail(table.String(email)); v.Valid {
			email = v.Str
		}
	}
	out := make([]output.Row, 0, len(rows))
	for _, r := range rows {
		if segment != "" && r.Segment != segment {
			continue
		}
		if email != "" && r.Email != email {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Customer is the JSON view of one output row. Nullable numerics render as
// null rather than zero so consumers can tell "no orders yet" from "never
// ordered".
type Customer struct {
	Email              string   `json:"email"`
	MasterCustomerID   string   `json:"master_customer_id"`
	FirstName          string   `json:"first_name,omitempty"`
	LastName           string   `json:"last_name,omitempty"`
	FullName           string   `json:"full_name_standardized,omitempty"`
	City               string   `json:"crm_city,omitempty"`
	Phone              string   `json:"phone,omitempty"`
	SignupDate         string   `json:"signup_date,omitempty"`
	TotalSpend         *float64 `json:"total_spend"`
	LastOrderDate      string   `json:"last_order_date,omitempty"`
	NumOrders          *int64   `json:"num_orders"`
	TotalTimeSpent     *float64 `json:"total_time_spent_seconds"`
	NumSessions        *int64   `json:"num_sessions"`
	IsVIP              bool     `json:"is_vip"`
	DaysSinceLastOrder *int64   `json:"days_since_last_order"`
	Segment            string   `json:"segment"`
}

// Customers maps output rows onto their JSON view.
func Customers(rows []output.Row) []Customer {
	out := make([]Customer, 0, len(rows))
	for _, r := range rows {
		out = append(out, Customer{
			Email:              r.Email,
			MasterCustomerID:   r.MasterCustomerID,
			FirstName:          r.FirstName,
			LastName:           r.LastName,
			FullName:           r.FullNameStandardized,
			City:               r.CRMCity,
			Phone:              r.PhoneStandardized,
			SignupDate:         r.SignupDate,
			TotalSpend:         floatPtr(r.TotalSpend),
			LastOrderDate:      r.LastOrderDate,
			NumOrders:          intPtr(r.NumOrders),
			TotalTimeSpent:     floatPtr(r.TotalTimeSpent),
			NumSessions:        intPtr(r.NumSessions),
			IsVIP:              bool(r.IsVIP),
			DaysSinceLastOrder: intPtr(r.DaysSinceLastOrder),
			Segment:            r.Segment,
		})
	}
	return out
}

func floatPtr(f output.Float) *float64 {
	if !f.Present {
		return nil
	}
	return &f.V
}

func intPtr(n output.Int) *int64 {
	if !n.Present {
		return nil
	}
	return &n.V
}

// loadRows reads the pipeline output. A missing or unreadable file is an
// operational state, not an error: the dashboard serves empty data until a
// run has produced output.
func loadRows(path string) []output.Row {
	if _, err := os.Stat(path); err != nil {
		zap.L().Warn("dashboard: output not available yet", zap.String("path", path), zap.Error(err))
		return nil
	}
	rows, err := output.Read(path)
	if err != nil {
		zap.L().Warn("dashboard: output unreadable", zap.String("path", path), zap.Error(err))
		return nil
	}
	return rows
}
