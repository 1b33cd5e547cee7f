// Package ingest reads the raw source files (CSV or XLSX) into tables.
// A missing or unreadable source is not fatal to the pipeline: callers use
// LoadOrEmpty, which degrades to an empty table with a logged warning.
package ingest

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/customer360-cli/internal/table"
)

// ReadCSV parses CSV content with a header row into a table. Rows shorter
// than the header are padded with nulls; extra fields are discarded. Blank
// cells read as null.
func ReadCSV(r io.Reader) (*table.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // allow variable fields
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return table.New(), nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "ingest: read csv header")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	t := table.New(header...)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "ingest: read csv row")
		}
		if err := t.AppendRow(rowToValues(record, len(header))...); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// ReadCSVFile opens and parses a CSV file.
func ReadCSVFile(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open %s", path)
	}
	defer f.Close()
	return ReadCSV(f)
}

func rowToValues(record []string, width int) []table.Value {
	vals := make([]table.Value, width)
	for i := 0; i < width; i++ {
		if i >= len(record) {
			vals[i] = table.Null()
			continue
		}
		cell := strings.TrimSpace(record[i])
		if cell == "" {
			vals[i] = table.Null()
			continue
		}
		vals[i] = table.String(cell)
	}
	return vals
}
