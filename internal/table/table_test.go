package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilTableIsEmpty(t *testing.T) {
	var tbl *Table
	assert.True(t, tbl.Empty())
	assert.Equal(t, 0, tbl.NumRows())
	assert.Equal(t, 0, tbl.NumCols())
	assert.False(t, tbl.HasColumn("email"))
	assert.Nil(t, tbl.Column("email"))
	assert.Equal(t, Null(), tbl.Cell(0, "email"))
}

func TestAppendRow_ArityChecked(t *testing.T) {
	tbl := New("a", "b")
	require.NoError(t, tbl.AppendRow(String("1"), String("2")))
	err := tbl.AppendRow(String("1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row has 1 values")
}

func TestCellAndColumn(t *testing.T) {
	tbl := New("email", "city")
	require.NoError(t, tbl.AppendRow(String("a@x.com"), Null()))
	require.NoError(t, tbl.AppendRow(Null(), String("Springfield")))

	assert.Equal(t, String("a@x.com"), tbl.Cell(0, "email"))
	assert.Equal(t, Null(), tbl.Cell(0, "city"))
	assert.Equal(t, Null(), tbl.Cell(5, "email"))
	assert.Equal(t, Null(), tbl.Cell(0, "missing"))

	col := tbl.Column("city")
	require.Len(t, col, 2)
	assert.False(t, col[0].Valid)
	assert.Equal(t, "Springfield", col[1].Str)
}

func TestWithColumn_ReplacesAndAppends(t *testing.T) {
	tbl := New("email")
	require.NoError(t, tbl.AppendRow(String("a@x.com")))

	out, err := tbl.WithColumn("email", []Value{String("b@x.com")})
	require.NoError(t, err)
	assert.Equal(t, "b@x.com", out.Cell(0, "email").Str)
	// Original snapshot untouched.
	assert.Equal(t, "a@x.com", tbl.Cell(0, "email").Str)

	out, err = out.WithColumn("segment", []Value{String("0")})
	require.NoError(t, err)
	assert.Equal(t, []string{"email", "segment"}, out.Columns())

	_, err = out.WithColumn("bad", []Value{})
	require.Error(t, err)
}

func TestDropAndRenameColumn(t *testing.T) {
	tbl := New("email", "phone", "city")
	require.NoError(t, tbl.AppendRow(String("a@x.com"), String("555"), String("NYC")))

	dropped := tbl.DropColumn("phone")
	assert.Equal(t, []string{"email", "city"}, dropped.Columns())
	assert.Equal(t, "NYC", dropped.Cell(0, "city").Str)

	renamed := dropped.RenameColumn("city", "crm_city")
	assert.True(t, renamed.HasColumn("crm_city"))
	assert.False(t, renamed.HasColumn("city"))
	assert.Equal(t, "NYC", renamed.Cell(0, "crm_city").Str)

	// Unknown names are no-ops.
	assert.Equal(t, renamed.Columns(), renamed.RenameColumn("nope", "x").Columns())
	assert.Equal(t, renamed.Columns(), renamed.DropColumn("nope").Columns())
}

func TestValueCoercion(t *testing.T) {
	f, ok := String(" 12.5 ").Float()
	assert.True(t, ok)
	assert.Equal(t, 12.5, f)

	_, ok = String("abc").Float()
	assert.False(t, ok)
	_, ok = Null().Float()
	assert.False(t, ok)

	n, ok := String("42").Int()
	assert.True(t, ok)
	assert.Equal(t, int64(42), n)

	n, ok = String("3.0").Int()
	assert.True(t, ok)
	assert.Equal(t, int64(3), n)

	_, ok = String("3.5").Int()
	assert.False(t, ok)
}
