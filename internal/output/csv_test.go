package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/customer360-cli/internal/table"
)

func TestWriteAndRead_RoundTrip(t *testing.T) {
	tbl := table.New(
		"email", "master_customer_id", "first_name", "total_spend",
		"last_order_date", "num_orders", "total_time_spent_seconds",
		"num_sessions", "is_vip", "days_since_last_order", "segment",
	)
	require.NoError(t, tbl.AppendRow(
		table.String("john@test.com"), table.String("abc-123"), table.String("John"),
		table.String("150.25"), table.String("2024-01-15"), table.String("3"),
		table.String("900"), table.String("2"), table.String("true"),
		table.String("42"), table.String("1"),
	))
	require.NoError(t, tbl.AppendRow(
		table.String("jane@test.com"), table.String("def-456"), table.Null(),
		table.String("0"), table.Null(), table.String("0"),
		table.String("0"), table.String("0"), table.String("false"),
		table.Null(), table.String("default"),
	))

	path := filepath.Join(t.TempDir(), "customer_360_final.csv")
	require.NoError(t, Write(path, tbl))

	rows, err := Read(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "john@test.com", rows[0].Email)
	assert.Equal(t, Float{V: 150.25, Present: true}, rows[0].TotalSpend)
	assert.Equal(t, Int{V: 3, Present: true}, rows[0].NumOrders)
	assert.Equal(t, Flag(true), rows[0].IsVIP)
	assert.Equal(t, Int{V: 42, Present: true}, rows[0].DaysSinceLastOrder)
	assert.Equal(t, "1", rows[0].Segment)

	// Nulls come back as missing, not zero.
	assert.Equal(t, "", rows[1].FirstName)
	assert.Equal(t, "", rows[1].LastOrderDate)
	assert.False(t, rows[1].DaysSinceLastOrder.Present)
	assert.Equal(t, Flag(false), rows[1].IsVIP)
}

func TestWrite_EmptyTableWritesHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, Write(path, table.New()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "email,master_customer_id,"))
	assert.True(t, strings.HasSuffix(lines[0], ",segment"))
}

func TestRead_MissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
}

func TestFlag_TokenSet(t *testing.T) {
	cases := map[string]bool{
		"True": true, "true": true, "1": true, "yes": true, "YES": true,
		"False": false, "false": false, "0": false, "no": false,
		"": false, "banana": false,
	}
	for token, want := range cases {
		var f Flag
		require.NoError(t, f.UnmarshalCSV([]byte(token)))
		assert.Equal(t, Flag(want), f, "token %q", token)
	}
}

func TestFloat_NonNumericReadsAsMissing(t *testing.T) {
	var f Float
	require.NoError(t, f.UnmarshalCSV([]byte("not-a-number")))
	assert.False(t, f.Present)

	require.NoError(t, f.UnmarshalCSV([]byte("12.5")))
	assert.Equal(t, Float{V: 12.5, Present: true}, f)
}

func TestInt_FloatRendering(t *testing.T) {
	var n Int
	require.NoError(t, n.UnmarshalCSV([]byte("3.0")))
	assert.Equal(t, Int{V: 3, Present: true}, n)

	require.NoError(t, n.UnmarshalCSV([]byte("3.5")))
	assert.False(t, n.Present)
}
