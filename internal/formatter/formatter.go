// package formatter provides functions to render document data for display and export (CSV, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/wingera/schematic-material-viewer/internal/models"
)

// FormatFileSize renders a byte count in human-readable units.
func FormatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGT"[exp])
}

// FormatDate renders an ISO 8601 timestamp from the service as a local
// date. Unparseable input is returned as-is.
func FormatDate(iso string) string {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, iso); err == nil {
			return t.Format("2006-01-02 15:04")
		}
	}
	return iso
}

// FormatStats renders the status tally shown under the table.
func FormatStats(counts models.Counts) string {
	return fmt.Sprintf("%d items: %d %s / %d %s / %d %s",
		counts.Total,
		counts.NotCompleted, models.NotCompleted.Label(),
		counts.InProgress, models.InProgress.Label(),
		counts.Completed, models.Completed.Label(),
	)
}

// FormatQuantity renders a row's box/group/piece breakdown.
func FormatQuantity(row models.Row) string {
	return fmt.Sprintf("%s (%d箱 %d组 %d只)", row.Quantity, row.Boxes, row.Groups, row.Pieces)
}

// ExportToCSV converts a row set to CSV with columns: Name, Quantity, Boxes, Groups, Pieces, Status
func ExportToCSV(rows []models.Row) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Name", "Quantity", "Boxes", "Groups", "Pieces", "Status"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, row := range rows {
		record := []string{
			row.Name,
			row.Quantity,
			strconv.Itoa(row.Boxes),
			strconv.Itoa(row.Groups),
			strconv.Itoa(row.Pieces),
			row.Status.Label(),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToText converts a row set to plain text format
func ExportToText(filename string, rows []models.Row) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Document: %s\n", filename))
	buf.WriteString(FormatStats(models.CountRows(rows)) + "\n\n")

	for i, row := range rows {
		buf.WriteString(fmt.Sprintf("%d. %s  %s  [%s]\n", i+1, row.Name, FormatQuantity(row), row.Status.Label()))
	}

	return buf.Bytes(), nil
}

// WriteCSVExport exports a document's rows to a CSV file.
//
// Defaults to {filename}_export.csv when no output path is given.
func WriteCSVExport(filename string, rows []models.Row, outputPath string) (string, error) {
	if outputPath == "" {
		outputPath = filename + "_export.csv"
	}

	csvData, err := ExportToCSV(rows)
	if err != nil {
		return "", fmt.Errorf("failed to generate CSV: %w", err)
	}

	if err := os.WriteFile(outputPath, csvData, 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}

	return outputPath, nil
}
