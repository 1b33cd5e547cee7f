// Package profile produces diagnostic summaries of the raw sources: shape,
// per-column null counts, duplicate rows, and basic numeric stats. It is
// read-only and has no effect on pipeline output.
package profile

import (
	"strings"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/sells-group/customer360-cli/internal/table"
)

// ColumnNulls records null occurrences for one column.
type ColumnNulls struct {
	Column string `json:"column"`
	Nulls  int    `json:"nulls"`
}

// NumericStats summarizes a numerically-coercible column.
type NumericStats struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
}

// Report is the profiling result for one source.
type Report struct {
	Source     string         `json:"source"`
	Rows       int            `json:"rows"`
	Cols       int            `json:"cols"`
	NullCounts []ColumnNulls  `json:"null_counts"`
	Duplicates int            `json:"duplicates"`
	Numeric    []NumericStats `json:"numeric"`
}

// Describe profiles a source table. Empty sources produce an empty report.
func Describe(t *table.Table, source string) Report {
	r := Report{Source: source, Rows: t.NumRows(), Cols: t.NumCols()}
	if t.Empty() {
		return r
	}

	for _, col := range t.Columns() {
		vals := t.Column(col)
		nulls := 0
		var nums []float64
		for _, v := range vals {
			if !v.Valid {
				nulls++
				continue
			}
			if f, ok := v.Float(); ok {
				nums = append(nums, f)
			}
		}
		r.NullCounts = append(r.NullCounts, ColumnNulls{Column: col, Nulls: nulls})

		// A column counts as numeric when more than half its non-null
		// values coerce.
		if len(nums) > 0 && len(nums)*2 > (len(vals)-nulls) {
			min, max := nums[0], nums[0]
			for _, f := range nums[1:] {
				if f < min {
					min = f
				}
				if f > max {
					max = f
				}
			}
			r.Numeric = append(r.Numeric, NumericStats{
				Column: col,
				Count:  len(nums),
				Min:    min,
				Max:    max,
				Mean:   stat.Mean(nums, nil),
			})
		}
	}

	seen := make(map[string]struct{}, t.NumRows())
	for row := 0; row < t.NumRows(); row++ {
		var key strings.Builder
		for _, col := range t.Columns() {
			v := t.Cell(row, col)
			if v.Valid {
				key.WriteString(v.Str)
			}
			key.WriteByte('\x00')
		}
		if _, dup := seen[key.String()]; dup {
			r.Duplicates++
			continue
		}
		seen[key.String()] = struct{}{}
	}
	return r
}

// Log writes the report through the global logger.
func (r Report) Log() {
	if r.Rows == 0 {
		zap.L().Warn("profile: source empty", zap.String("source", r.Source))
		return
	}
	fields := []zap.Field{
		zap.String("source", r.Source),
		zap.Int("rows", r.Rows),
		zap.Int("cols", r.Cols),
		zap.Int("duplicate_rows", r.Duplicates),
	}
	for _, n := range r.NullCounts {
		if n.Nulls > 0 {
			fields = append(fields, zap.Int("nulls_"+n.Column, n.Nulls))
		}
	}
	zap.L().Info("profile: source summary", fields...)
	for _, s := range r.Numeric {
		zap.L().Info("profile: numeric column",
			zap.String("source", r.Source),
			zap.String("column", s.Column),
			zap.Int("count", s.Count),
			zap.Float64("min", s.Min),
			zap.Float64("max", s.Max),
			zap.Float64("mean", s.Mean),
		)
	}
}
