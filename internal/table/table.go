// Package table provides the in-memory tabular structure passed between
// pipeline stages. A Table is an ordered set of named columns over rows of
// nullable string cells; stages never mutate a caller's table, they build
// and return a new one.
package table

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Value is a single nullable cell.
type Value struct {
	Str   string
	Valid bool
}

// String returns a non-null Value.
func String(s string) Value {
	return Value{Str: s, Valid: true}
}

// Null returns a null Value.
func Null() Value {
	return Value{}
}

// Float coerces the cell to a float64. Null or non-numeric cells report ok=false.
func (v Value) Float() (float64, bool) {
	if !v.Valid {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Int coerces the cell to an int64. Null or non-integral cells report ok=false.
func (v Value) Int() (int64, bool) {
	if !v.Valid {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v.Str), 10, 64)
	if err != nil {
		// CSV round-trips sometimes render integers as "3.0".
		f, ferr := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if ferr != nil || f != float64(int64(f)) {
			return 0, false
		}
		return int64(f), true
	}
	return n, true
}

// Table is an ordered-column, row-oriented snapshot. The zero value and a
// nil *Table both behave as an empty table with no columns, which is how an
// absent source is represented.
type Table struct {
	cols  []string
	index map[string]int
	rows  [][]Value
}

// New creates an empty table with the given column order.
func New(cols ...string) *Table {
	t := &Table{
		cols:  append([]string(nil), cols...),
		index: make(map[string]int, len(cols)),
	}
	for i, c := range cols {
		t.index[c] = i
	}
	return t
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.cols...)
}

// HasColumn reports whether a column exists.
func (t *Table) HasColumn(name string) bool {
	if t == nil {
		return false
	}
	_, ok := t.index[name]
	return ok
}

// HasColumns reports whether every named column exists.
func (t *Table) HasColumns(names ...string) bool {
	for _, n := range names {
		if !t.HasColumn(n) {
			return false
		}
	}
	return true
}

// NumRows returns the row count.
func (t *Table) NumRows() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// NumCols returns the column count.
func (t *Table) NumCols() int {
	if t == nil {
		return 0
	}
	return len(t.cols)
}

// Empty reports whether the table is nil or has no rows.
func (t *Table) Empty() bool {
	return t.NumRows() == 0
}

// AppendRow adds a row. The number of values must match the column count.
func (t *Table) AppendRow(vals ...Value) error {
	if len(vals) != len(t.cols) {
		return eris.Errorf("table: row has %d values, want %d", len(vals), len(t.cols))
	}
	t.rows = append(t.rows, append([]Value(nil), vals...))
	return nil
}

// Cell returns the value at (row, col). Out-of-range rows and unknown
// columns read as null.
func (t *Table) Cell(row int, col string) Value {
	if t == nil || row < 0 || row >= len(t.rows) {
		return Null()
	}
	i, ok := t.index[col]
	if !ok {
		return Null()
	}
	return t.rows[row][i]
}

// Column returns a copy of the named column, or nil if it does not exist.
func (t *Table) Column(name string) []Value {
	if t == nil {
		return nil
	}
	i, ok := t.index[name]
	if !ok {
		return nil
	}
	out := make([]Value, len(t.rows))
	for r := range t.rows {
		out[r] = t.rows[r][i]
	}
	return out
}

// Clone returns an independent copy.
func (t *Table) Clone() *Table {
	if t == nil {
		return New()
	}
	out := New(t.cols...)
	out.rows = make([][]Value, len(t.rows))
	for r := range t.rows {
		out.rows[r] = append([]Value(nil), t.rows[r]...)
	}
	return out
}

// WithColumn returns a copy of the table with the named column set to vals.
// An existing column is replaced in place; a new column is appended on the
// right. vals must have one entry per row.
func (t *Table) WithColumn(name string, vals []Value) (*Table, error) {
	if t == nil {
		t = New()
	}
	if len(vals) != len(t.rows) {
		return nil, eris.Errorf("table: column %q has %d values, want %d", name, len(vals), len(t.rows))
	}
	out := t.Clone()
	if i, ok := out.index[name]; ok {
		for r := range out.rows {
			out.rows[r][i] = vals[r]
		}
		return out, nil
	}
	out.index[name] = len(out.cols)
	out.cols = append(out.cols, name)
	for r := range out.rows {
		out.rows[r] = append(out.rows[r], vals[r])
	}
	return out, nil
}

// WithConstColumn returns a copy with the named column set to the same value
// in every row.
func (t *Table) WithConstColumn(name string, v Value) (*Table, error) {
	vals := make([]Value, t.NumRows())
	for i := range vals {
		vals[i] = v
	}
	return t.WithColumn(name, vals)
}

// DropColumn returns a copy without the named column. Dropping an unknown
// column is a no-op.
func (t *Table) DropColumn(name string) *Table {
	if t == nil || !t.HasColumn(name) {
		return t.Clone()
	}
	drop := t.index[name]
	cols := make([]string, 0, len(t.cols)-1)
	for i, c := range t.cols {
		if i != drop {
			cols = append(cols, c)
		}
	}
	out := New(cols...)
	out.rows = make([][]Value, len(t.rows))
	for r := range t.rows {
		row := make([]Value, 0, len(cols))
		for i := range t.rows[r] {
			if i != drop {
				row = append(row, t.rows[r][i])
			}
		}
		out.rows[r] = row
	}
	return out
}

// RenameColumn returns a copy with column old renamed to new. Renaming an
// unknown column is a no-op.
func (t *Table) RenameColumn(oldName, newName string) *Table {
	out := t.Clone()
	i, ok := out.index[oldName]
	if !ok {
		return out
	}
	delete(out.index, oldName)
	out.cols[i] = newName
	out.index[newName] = i
	return out
}
