package ingest

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/customer360-cli/internal/table"
)

// ReadXLSXFile reads the first sheet of an XLSX workbook into a table.
// The first row is the header.
func ReadXLSXFile(path string) (*table.Table, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open xlsx %s", path)
	}
	if len(f.Sheets) == 0 {
		return table.New(), nil
	}
	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return table.New(), nil
	}

	header := make([]string, 0, len(sheet.Rows[0].Cells))
	for _, cell := range sheet.Rows[0].Cells {
		header = append(header, strings.TrimSpace(cell.String()))
	}

	t := table.New(header...)
	for _, row := range sheet.Rows[1:] {
		record := make([]string, len(row.Cells))
		for i, cell := range row.Cells {
			record[i] = cell.String()
		}
		if err := t.AppendRow(rowToValues(record, len(header))...); err != nil {
			return nil, err
		}
	}
	return t, nil
}
