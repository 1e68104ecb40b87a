package models

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestStatus(t *testing.T) {
	t.Run("Label Round Trip", func(t *testing.T) {
		for _, status := range []Status{NotCompleted, InProgress, Completed} {
			if got := StatusFromLabel(status.Label()); got != status {
				t.Errorf("round trip for %v returned %v", status, got)
			}
		}
	})

	t.Run("Unknown Label Defaults To NotCompleted", func(t *testing.T) {
		if got := StatusFromLabel("finished"); got != NotCompleted {
			t.Errorf("expected NotCompleted, got %v", got)
		}
		if got := StatusFromLabel(""); got != NotCompleted {
			t.Errorf("expected NotCompleted for empty label, got %v", got)
		}
	})

	t.Run("JSON", func(t *testing.T) {
		data, err := json.Marshal(Completed)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		var decoded Status
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}
		if decoded != Completed {
			t.Errorf("expected Completed, got %v", decoded)
		}
	})
}

func TestBreakdown(t *testing.T) {
	tests := []struct {
		name     string
		quantity string
		boxes    int
		groups   int
		pieces   int
	}{
		{"zero", "0", 0, 0, 0},
		{"single piece", "1", 0, 0, 1},
		{"one group", "64", 0, 1, 0},
		{"one box", "1728", 1, 0, 0},
		{"mixed", "1800", 1, 1, 8},
		{"non numeric", "many", 0, 0, 0},
		{"negative", "-5", 0, 0, 0},
		{"padded", " 128 ", 0, 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			boxes, groups, pieces := Breakdown(tt.quantity)
			if boxes != tt.boxes || groups != tt.groups || pieces != tt.pieces {
				t.Errorf("Breakdown(%q) = (%d, %d, %d), want (%d, %d, %d)",
					tt.quantity, boxes, groups, pieces, tt.boxes, tt.groups, tt.pieces)
			}
		})
	}
}

func TestRowJSON(t *testing.T) {
	t.Run("Marshal Produces Positional Array", func(t *testing.T) {
		row := NewRow("resistor 10k", "130")
		data, err := json.Marshal(row)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}

		var cells []any
		if err := json.Unmarshal(data, &cells); err != nil {
			t.Fatalf("output is not an array: %v", err)
		}
		if len(cells) != 6 {
			t.Fatalf("expected 6 cells, got %d", len(cells))
		}
		if cells[0] != "resistor 10k" {
			t.Errorf("unexpected name cell: %v", cells[0])
		}
		if cells[5] != NotCompleted.Label() {
			t.Errorf("unexpected status cell: %v", cells[5])
		}
	})

	t.Run("Unmarshal Accepts Numeric Strings", func(t *testing.T) {
		raw := `["capacitor", "200", "0", "3", "8", "已完成"]`
		var row Row
		if err := json.Unmarshal([]byte(raw), &row); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}
		if row.Groups != 3 || row.Pieces != 8 {
			t.Errorf("unexpected breakdown cells: %+v", row)
		}
		if row.Status != Completed {
			t.Errorf("expected Completed status, got %v", row.Status)
		}
	})

	t.Run("Round Trip", func(t *testing.T) {
		original := Row{Name: "diode", Quantity: "1800", Boxes: 1, Groups: 1, Pieces: 8, Status: InProgress}
		data, err := json.Marshal(original)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		var decoded Row
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}
		if !reflect.DeepEqual(original, decoded) {
			t.Errorf("round trip mismatch: %+v != %+v", original, decoded)
		}
	})

	t.Run("Wrong Cell Count", func(t *testing.T) {
		var row Row
		if err := json.Unmarshal([]byte(`["short", "1"]`), &row); err == nil {
			t.Error("expected error for 2-cell row")
		}
	})

	t.Run("Not An Array", func(t *testing.T) {
		var row Row
		if err := json.Unmarshal([]byte(`{"name":"x"}`), &row); err == nil {
			t.Error("expected error for object row")
		}
	})
}

func TestCountRows(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		c := CountRows(nil)
		if c.Total != 0 || c.Completed != 0 || c.InProgress != 0 || c.NotCompleted != 0 {
			t.Errorf("expected zero counts, got %+v", c)
		}
	})

	t.Run("Mixed Statuses", func(t *testing.T) {
		rows := []Row{
			{Status: Completed},
			{Status: Completed},
			{Status: InProgress},
			{Status: NotCompleted},
			{Status: NotCompleted},
			{Status: NotCompleted},
		}
		c := CountRows(rows)
		if c.Total != 6 || c.Completed != 2 || c.InProgress != 1 || c.NotCompleted != 3 {
			t.Errorf("unexpected counts: %+v", c)
		}
	})

	t.Run("Partition Invariant", func(t *testing.T) {
		rows := []Row{{Status: Completed}, {Status: InProgress}, {Status: NotCompleted}, {Status: InProgress}}
		c := CountRows(rows)
		if c.Completed+c.InProgress+c.NotCompleted != c.Total {
			t.Errorf("counts do not partition total: %+v", c)
		}
	})
}

func TestCloneRows(t *testing.T) {
	rows := []Row{NewRow("a", "1"), NewRow("b", "2")}
	clone := CloneRows(rows)

	clone[0].Status = Completed
	if rows[0].Status == Completed {
		t.Error("mutating clone affected original")
	}

	if CloneRows(nil) != nil {
		t.Error("clone of nil should be nil")
	}
}
