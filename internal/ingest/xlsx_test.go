package ingest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/customer360-cli/internal/table"
)

func createTestXLSX(t *testing.T, sheets map[string][][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	for name, rows := range sheets {
		sheet, err := f.AddSheet(name)
		require.NoError(t, err)
		for _, rowData := range rows {
			row := sheet.AddRow()
			for _, cellData := range rowData {
				cell := row.AddCell()
				cell.SetString(cellData)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "source.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestReadXLSXFile_Basic(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"Sheet1": {
			{"email_address", "full_name", "phone"},
			{"john@test.com", "john doe", "(415) 555-0100"},
			{"jane@test.com", "jane smith", ""},
		},
	})

	got, err := ReadXLSXFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"email_address", "full_name", "phone"}, got.Columns())
	require.Equal(t, 2, got.NumRows())
	assert.Equal(t, table.String("john@test.com"), got.Cell(0, "email_address"))
	assert.Equal(t, table.String("jane smith"), got.Cell(1, "full_name"))
	assert.Equal(t, table.Null(), got.Cell(1, "phone"))
}

func TestReadXLSXFile_RaggedRowsPadded(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"Sheet1": {
			{"cust_email", "order_value", "order_id"},
			{"john@test.com"},
			{"jane@test.com", "50", "o1", "spillover"},
		},
	})

	got, err := ReadXLSXFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, got.NumCols())
	require.Equal(t, 2, got.NumRows())
	assert.Equal(t, table.Null(), got.Cell(0, "order_value"))
	assert.Equal(t, table.Null(), got.Cell(0, "order_id"))
	assert.Equal(t, table.String("o1"), got.Cell(1, "order_id"))
}

func TestReadXLSXFile_HeaderOnlySheet(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"Sheet1": {{"user_email", "session_id"}},
	})

	got, err := ReadXLSXFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"user_email", "session_id"}, got.Columns())
	assert.Zero(t, got.NumRows())
}

func TestReadXLSXFile_EmptySheet(t *testing.T) {
	f := xlsx.NewFile()
	_, err := f.AddSheet("Sheet1")
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, f.Save(path))

	got, err := ReadXLSXFile(path)
	require.NoError(t, err)
	assert.True(t, got.Empty())
}

func TestReadXLSXFile_FirstSheetOnly(t *testing.T) {
	f := xlsx.NewFile()
	first, err := f.AddSheet("first")
	require.NoError(t, err)
	row := first.AddRow()
	row.AddCell().SetString("user_email")
	row = first.AddRow()
	row.AddCell().SetString("john@test.com")

	second, err := f.AddSheet("second")
	require.NoError(t, err)
	row = second.AddRow()
	row.AddCell().SetString("ignored_column")

	path := filepath.Join(t.TempDir(), "multi.xlsx")
	require.NoError(t, f.Save(path))

	got, err := ReadXLSXFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"user_email"}, got.Columns())
	require.Equal(t, 1, got.NumRows())
	assert.Equal(t, table.String("john@test.com"), got.Cell(0, "user_email"))
}

func TestLoad_XLSXByExtension(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"Sheet1": {
			{"user_email", "time_spent_seconds", "session_id"},
			{"john@test.com", "60", "s1"},
		},
	})

	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 1, got.NumRows())
	assert.Equal(t, table.String("60"), got.Cell(0, "time_spent_seconds"))
}
