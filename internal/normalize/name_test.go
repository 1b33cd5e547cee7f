package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/customer360-cli/internal/table"
)

func TestWhitespaceNameParser(t *testing.T) {
	p := NewWhitespaceNameParser()

	parsed, ok := p.Parse("john doe")
	require.True(t, ok)
	assert.Equal(t, table.String("John"), parsed.First)
	assert.Equal(t, table.String("Doe"), parsed.Last)
	assert.Equal(t, table.String("John Doe"), parsed.Full)

	parsed, ok = p.Parse("  ANA MARIA de souza ")
	require.True(t, ok)
	assert.Equal(t, "Ana", parsed.First.Str)
	assert.Equal(t, "Souza", parsed.Last.Str)
	assert.Equal(t, "Ana Maria De Souza", parsed.Full.Str)

	// Single token: no last name.
	parsed, ok = p.Parse("cher")
	require.True(t, ok)
	assert.Equal(t, "Cher", parsed.First.Str)
	assert.False(t, parsed.Last.Valid)
	assert.Equal(t, "Cher", parsed.Full.Str)

	_, ok = p.Parse("   ")
	assert.False(t, ok)
}

func TestStandardizeNames_RowFailuresAreLocal(t *testing.T) {
	p := NewWhitespaceNameParser()
	out := StandardizeNames([]table.Value{
		table.String("john doe"),
		table.Null(),
		table.String(""),
		table.String("jane roe"),
	}, p)

	require.Len(t, out, 4)
	assert.Equal(t, "John", out[0].First.Str)
	assert.False(t, out[1].First.Valid)
	assert.False(t, out[1].Last.Valid)
	assert.False(t, out[1].Full.Valid)
	assert.False(t, out[2].Full.Valid)
	assert.Equal(t, "Roe", out[3].Last.Str)
}
