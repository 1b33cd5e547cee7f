package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/customer360-cli/internal/table"
)

func TestDescribe_ShapeNullsDuplicates(t *testing.T) {
	tbl := table.New("email", "order_value")
	require.NoError(t, tbl.AppendRow(table.String("a@x.com"), table.String("10")))
	require.NoError(t, tbl.AppendRow(table.String("a@x.com"), table.String("10"))) // duplicate
	require.NoError(t, tbl.AppendRow(table.Null(), table.String("30")))

	r := Describe(tbl, "ecommerce")

	assert.Equal(t, "ecommerce", r.Source)
	assert.Equal(t, 3, r.Rows)
	assert.Equal(t, 2, r.Cols)
	assert.Equal(t, 1, r.Duplicates)

	require.Len(t, r.NullCounts, 2)
	assert.Equal(t, ColumnNulls{Column: "email", Nulls: 1}, r.NullCounts[0])
	assert.Equal(t, ColumnNulls{Column: "order_value", Nulls: 0}, r.NullCounts[1])
}

func TestDescribe_NumericStats(t *testing.T) {
	tbl := table.New("order_value")
	for _, v := range []string{"10", "20", "30"} {
		require.NoError(t, tbl.AppendRow(table.String(v)))
	}

	r := Describe(tbl, "ecommerce")
	require.Len(t, r.Numeric, 1)
	s := r.Numeric[0]
	assert.Equal(t, "order_value", s.Column)
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, 10.0, s.Min)
	assert.Equal(t, 30.0, s.Max)
	assert.InDelta(t, 20.0, s.Mean, 0.001)
}

func TestDescribe_TextColumnNotNumeric(t *testing.T) {
	tbl := table.New("email")
	require.NoError(t, tbl.AppendRow(table.String("a@x.com")))
	require.NoError(t, tbl.AppendRow(table.String("b@x.com")))

	r := Describe(tbl, "crm")
	assert.Empty(t, r.Numeric)
}

func TestDescribe_EmptySource(t *testing.T) {
	r := Describe(nil, "crm")
	assert.Equal(t, 0, r.Rows)
	assert.Empty(t, r.NullCounts)
}
