package formatter

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/wingera/schematic-material-viewer/internal/models"
	th "github.com/wingera/schematic-material-viewer/internal/testing"
)

func sampleRows() []models.Row {
	rows := []models.Row{
		models.NewRow("bolt", "100"),
		models.NewRow("nut", "1800"),
	}
	rows[1].Status = models.Completed
	return rows
}

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1048576, "1.0 MB"},
		{5242880, "5.0 MB"},
	}

	for _, tt := range tests {
		if got := FormatFileSize(tt.size); got != tt.want {
			t.Errorf("FormatFileSize(%d) = %q, want %q", tt.size, got, tt.want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	t.Run("RFC3339", func(t *testing.T) {
		got := FormatDate("2026-03-15T10:30:00Z")
		if !strings.HasPrefix(got, "2026-03-15") {
			t.Errorf("FormatDate = %q", got)
		}
	})

	t.Run("without zone", func(t *testing.T) {
		if got := FormatDate("2026-03-15T10:30:00"); got != "2026-03-15 10:30" {
			t.Errorf("FormatDate = %q", got)
		}
	})

	t.Run("unparseable input passes through", func(t *testing.T) {
		if got := FormatDate("yesterday"); got != "yesterday" {
			t.Errorf("FormatDate = %q", got)
		}
	})
}

func TestFormatStats(t *testing.T) {
	counts := models.CountRows(sampleRows())
	got := FormatStats(counts)

	if !strings.HasPrefix(got, "2 items") {
		t.Errorf("stats = %q", got)
	}
	if !strings.Contains(got, "1 已完成") {
		t.Errorf("stats should include the completed tally: %q", got)
	}
}

func TestFormatQuantity(t *testing.T) {
	row := models.NewRow("washer", "1800")
	got := FormatQuantity(row)
	if got != "1800 (1箱 1组 8只)" {
		t.Errorf("FormatQuantity = %q", got)
	}
}

func TestExportToCSV(t *testing.T) {
	data, err := ExportToCSV(sampleRows())
	if err != nil {
		t.Fatalf("ExportToCSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if lines[0] != "Name,Quantity,Boxes,Groups,Pieces,Status" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[2], "已完成") {
		t.Errorf("completed row should carry its label: %q", lines[2])
	}
}

func TestExportToText(t *testing.T) {
	data, err := ExportToText("parts.sti", sampleRows())
	if err != nil {
		t.Fatalf("ExportToText: %v", err)
	}

	text := string(data)
	if !strings.Contains(text, "Document: parts.sti") {
		t.Errorf("missing header: %q", text)
	}
	if !strings.Contains(text, "1. bolt") {
		t.Errorf("missing first row: %q", text)
	}
}

func TestWriteCSVExport(t *testing.T) {
	dir := t.TempDir()

	t.Run("explicit path", func(t *testing.T) {
		path := filepath.Join(dir, "out.csv")
		got, err := WriteCSVExport("parts.sti", sampleRows(), path)
		if err != nil {
			t.Fatalf("WriteCSVExport: %v", err)
		}
		if got != path {
			t.Errorf("path = %q", got)
		}
		th.AssertFileExists(t, path)

		content := th.MustReadFile(t, path)
		if !strings.Contains(content, "bolt") {
			t.Errorf("content = %q", content)
		}
	})

	t.Run("default path", func(t *testing.T) {
		base := filepath.Join(dir, "parts.sti")
		got, err := WriteCSVExport(base, sampleRows(), "")
		if err != nil {
			t.Fatalf("WriteCSVExport: %v", err)
		}
		if got != base+"_export.csv" {
			t.Errorf("path = %q", got)
		}
		th.AssertFileExists(t, got)
	})
}
