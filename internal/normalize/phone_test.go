package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/customer360-cli/internal/table"
)

func TestE164Normalizer(t *testing.T) {
	n := E164Normalizer{}

	got, ok := n.Normalize("(415) 555-0100", "US")
	require.True(t, ok)
	assert.Equal(t, "+14155550100", got)

	// Already international: region is only a default.
	got, ok = n.Normalize("+44 20 7946 0958", "US")
	require.True(t, ok)
	assert.Equal(t, "+442079460958", got)

	_, ok = n.Normalize("123", "US")
	assert.False(t, ok)

	_, ok = n.Normalize("not a phone", "US")
	assert.False(t, ok)
}

func TestStandardizePhones(t *testing.T) {
	out := StandardizePhones([]table.Value{
		table.String("415-555-0100"),
		table.String("garbage"),
		table.Null(),
		table.String(" "),
	}, "US", E164Normalizer{})

	require.Len(t, out, 4)
	assert.Equal(t, table.String("+14155550100"), out[0])
	assert.False(t, out[1].Valid)
	assert.False(t, out[2].Valid)
	assert.False(t, out[3].Valid)
}
