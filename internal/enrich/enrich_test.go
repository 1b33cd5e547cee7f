package enrich

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/customer360-cli/internal/table"
)

func fixedNow() time.Time {
	return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
}

func newTestEnricher(threshold float64) *Enricher {
	e := New(threshold)
	e.Now = fixedNow
	return e
}

func TestEnrich_VIPThresholdIsStrict(t *testing.T) {
	tbl := table.New("email", "total_spend")
	require.NoError(t, tbl.AppendRow(table.String("a@x.com"), table.String("100.00")))
	require.NoError(t, tbl.AppendRow(table.String("b@x.com"), table.String("100.01")))
	require.NoError(t, tbl.AppendRow(table.String("c@x.com"), table.String("garbage")))

	out, err := newTestEnricher(100).Enrich(tbl)
	require.NoError(t, err)

	assert.Equal(t, "false", out.Cell(0, ColIsVIP).Str)
	assert.Equal(t, "true", out.Cell(1, ColIsVIP).Str)
	// Non-numeric spend never qualifies.
	assert.Equal(t, "false", out.Cell(2, ColIsVIP).Str)
}

func TestEnrich_MissingSpendColumnMeansNoVIPs(t *testing.T) {
	tbl := table.New("email")
	require.NoError(t, tbl.AppendRow(table.String("a@x.com")))

	out, err := newTestEnricher(100).Enrich(tbl)
	require.NoError(t, err)
	assert.Equal(t, "false", out.Cell(0, ColIsVIP).Str)
}

func TestEnrich_OrderRecency(t *testing.T) {
	tbl := table.New("email", "last_order_date")
	require.NoError(t, tbl.AppendRow(table.String("a@x.com"), table.String("2024-06-05")))
	require.NoError(t, tbl.AppendRow(table.String("b@x.com"), table.Null()))
	require.NoError(t, tbl.AppendRow(table.String("c@x.com"), table.String("not a date")))
	require.NoError(t, tbl.AppendRow(table.String("d@x.com"), table.String("2024-06-14T12:00:00Z")))

	out, err := newTestEnricher(100).Enrich(tbl)
	require.NoError(t, err)

	// 2024-06-05 00:00 UTC to 2024-06-15 12:00 UTC is 10.5 days, truncated.
	assert.Equal(t, "10", out.Cell(0, ColDaysSinceLastOrder).Str)
	// Null and unparseable dates stay unknown, not zero.
	assert.False(t, out.Cell(1, ColDaysSinceLastOrder).Valid)
	assert.False(t, out.Cell(2, ColDaysSinceLastOrder).Valid)
	assert.Equal(t, "1", out.Cell(3, ColDaysSinceLastOrder).Str)
}

func TestEnrich_MissingDateColumn(t *testing.T) {
	tbl := table.New("email", "total_spend")
	require.NoError(t, tbl.AppendRow(table.String("a@x.com"), table.String("5")))

	out, err := newTestEnricher(100).Enrich(tbl)
	require.NoError(t, err)
	assert.True(t, out.HasColumn(ColDaysSinceLastOrder))
	assert.False(t, out.Cell(0, ColDaysSinceLastOrder).Valid)
}

func TestEnrich_EmptyTable(t *testing.T) {
	out, err := newTestEnricher(100).Enrich(nil)
	require.NoError(t, err)
	assert.True(t, out.Empty())
}
