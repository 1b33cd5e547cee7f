package ingest

import (
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/customer360-cli/internal/table"
)

// Load reads a source file into a table, dispatching on extension:
// .xlsx goes through the workbook reader, everything else is parsed as CSV.
func Load(path string) (*table.Table, error) {
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return ReadXLSXFile(path)
	}
	return ReadCSVFile(path)
}

// LoadOrEmpty reads a source file, degrading a missing or unreadable file to
// an empty table with a warning. The returned reason is non-empty when the
// fallback was applied.
func LoadOrEmpty(path, source string) (*table.Table, string) {
	if path == "" {
		reason := "no path configured"
		zap.L().Warn("ingest: source skipped",
			zap.String("source", source),
			zap.String("reason", reason),
		)
		return table.New(), reason
	}
	t, err := Load(path)
	if err != nil {
		zap.L().Warn("ingest: source unreadable, treating as empty",
			zap.String("source", source),
			zap.String("path", path),
			zap.Error(err),
		)
		return table.New(), err.Error()
	}
	zap.L().Info("ingest: source loaded",
		zap.String("source", source),
		zap.String("path", path),
		zap.Int("rows", t.NumRows()),
		zap.Int("cols", t.NumCols()),
	)
	return t, ""
}
