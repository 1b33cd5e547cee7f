package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/customer360-cli/internal/table"
)

func TestClean_CRM(t *testing.T) {
	raw := table.New("email_address", "full_name", "phone", "city")
	require.NoError(t, raw.AppendRow(
		table.String("John@Test.com"),
		table.String("john doe"),
		table.String("(415) 555-0100"),
		table.String("Springfield"),
	))
	require.NoError(t, raw.AppendRow(
		table.String("bad-email"),
		table.Null(),
		table.String("123"),
		table.Null(),
	))

	cleaned, err := New("US").Clean(raw, CRMAdapter)
	require.NoError(t, err)

	// Raw name and phone columns are replaced by their derived forms.
	assert.False(t, cleaned.HasColumn("full_name"))
	assert.False(t, cleaned.HasColumn("phone"))
	assert.True(t, cleaned.HasColumns("first_name", "last_name", "full_name_standardized", "phone_standardized"))

	assert.Equal(t, "john@test.com", cleaned.Cell(0, "email_address").Str)
	assert.Equal(t, "John", cleaned.Cell(0, "first_name").Str)
	assert.Equal(t, "Doe", cleaned.Cell(0, "last_name").Str)
	assert.Equal(t, "John Doe", cleaned.Cell(0, "full_name_standardized").Str)
	assert.Equal(t, "+14155550100", cleaned.Cell(0, "phone_standardized").Str)
	assert.Equal(t, "Springfield", cleaned.Cell(0, "city").Str)

	// Row 2: every unparseable field nulls out, the row survives.
	assert.False(t, cleaned.Cell(1, "email_address").Valid)
	assert.False(t, cleaned.Cell(1, "first_name").Valid)
	assert.False(t, cleaned.Cell(1, "phone_standardized").Valid)

	// Input snapshot is untouched.
	assert.Equal(t, "John@Test.com", raw.Cell(0, "email_address").Str)
}

func TestClean_EcommerceOnlyTouchesEmail(t *testing.T) {
	raw := table.New("cust_email", "order_value")
	require.NoError(t, raw.AppendRow(table.String(" A@B.com "), table.String("42.50")))

	cleaned, err := New("US").Clean(raw, EcommerceAdapter)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", cleaned.Cell(0, "cust_email").Str)
	assert.Equal(t, "42.50", cleaned.Cell(0, "order_value").Str)
}

func TestClean_MissingColumnsSkipped(t *testing.T) {
	raw := table.New("something_else")
	require.NoError(t, raw.AppendRow(table.String("x")))

	cleaned, err := New("US").Clean(raw, CRMAdapter)
	require.NoError(t, err)
	assert.Equal(t, []string{"something_else"}, cleaned.Columns())
}

func TestClean_EmptySource(t *testing.T) {
	cleaned, err := New("US").Clean(nil, WebAdapter)
	require.NoError(t, err)
	assert.True(t, cleaned.Empty())
}
