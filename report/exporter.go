package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/Pedro24681/sql-ecommerce-case-study/engine"
)

// ============================================================================
// EXPORTER — recordsets → JSON/CSV report files
// ============================================================================

// Envelope wraps a recordset for export with run metadata.
type Envelope struct {
	RunID       string           `json:"run_id"`
	ReportType  string           `json:"report_type"`
	GeneratedAt time.Time        `json:"generated_at"`
	Columns     []string         `json:"columns"`
	Rows        []map[string]any `json:"rows"`
}

// NewEnvelope builds an export envelope for a recordset. Absent numeric
// values are omitted from the row maps, never written as zero.
func NewEnvelope(set *engine.Recordset, generatedAt time.Time) Envelope {
	rows := make([]map[string]any, 0, set.Len())
	for _, r := range set.Rows {
		row := make(map[string]any, len(set.Columns))
		for _, c := range set.Columns {
			if c.Numeric {
				if v, ok := r.Num(c.Key); ok {
					row[c.Key] = v
				}
				continue
			}
			row[c.Key] = r.Dim(c.Key)
		}
		rows = append(rows, row)
	}
	return Envelope{
		RunID:       uuid.NewString(),
		ReportType:  set.Name,
		GeneratedAt: generatedAt,
		Columns:     set.ColumnKeys(),
		Rows:        rows,
	}
}

// ExportJSON writes an enveloped recordset as indented JSON, creating the
// parent directory as needed.
func ExportJSON(path string, set *engine.Recordset, generatedAt time.Time) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report folder: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewEnvelope(set, generatedAt)); err != nil {
		return fmt.Errorf("write report JSON: %w", err)
	}
	return nil
}

// TimestampedFilename builds "<dir>/<name>_<stamp>.json".
func TimestampedFilename(dir, name string, at time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s.json", name, at.Format("20060102_150405")))
}

// WriteCSV writes a recordset as CSV with the column contract as header.
// Absent values emit an empty cell.
func WriteCSV(w io.Writer, set *engine.Recordset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(set.ColumnKeys()); err != nil {
		return err
	}
	for _, r := range set.Rows {
		fields := make([]string, len(set.Columns))
		for i, c := range set.Columns {
			if c.Numeric {
				if v, ok := r.Num(c.Key); ok {
					fields[i] = strconv.FormatFloat(v, 'f', -1, 64)
				}
				continue
			}
			fields[i] = r.Dim(c.Key)
		}
		if err := cw.Write(fields); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
