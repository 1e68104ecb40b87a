package session

import (
	"errors"
	"testing"

	"github.com/wingera/schematic-material-viewer/internal/models"
	"github.com/wingera/schematic-material-viewer/internal/shared"
)

func sampleRows() []models.Row {
	return []models.Row{
		models.NewRow("bolt", "100"),
		models.NewRow("nut", "50"),
		models.NewRow("washer", "1800"),
	}
}

func TestOpenAndClear(t *testing.T) {
	store := NewStore()
	store.SetUsername("alice")

	if store.HasDocument() {
		t.Error("new store should have no document")
	}

	store.Open("parts.sti", sampleRows())

	if store.Filename() != "parts.sti" {
		t.Errorf("filename = %q", store.Filename())
	}
	if store.RowCount() != 3 {
		t.Errorf("row count = %d", store.RowCount())
	}
	if store.Dirty() {
		t.Error("freshly opened document should be clean")
	}

	store.Clear()

	if store.HasDocument() {
		t.Error("cleared store should have no document")
	}
	if store.Username() != "alice" {
		t.Error("username should survive Clear")
	}
}

func TestSetStatus(t *testing.T) {
	t.Run("changes the row and reports it", func(t *testing.T) {
		store := NewStore()
		store.Open("parts.sti", sampleRows())

		changed, err := store.SetStatus(1, models.Completed)
		if err != nil {
			t.Fatalf("SetStatus: %v", err)
		}
		if !changed {
			t.Error("expected a change")
		}

		row, err := store.Row(1)
		if err != nil {
			t.Fatalf("Row: %v", err)
		}
		if row.Status != models.Completed {
			t.Errorf("status = %v", row.Status)
		}
	})

	t.Run("same status twice reports no change", func(t *testing.T) {
		store := NewStore()
		store.Open("parts.sti", sampleRows())

		if changed, _ := store.SetStatus(0, models.InProgress); !changed {
			t.Fatal("first update should change the row")
		}
		changed, err := store.SetStatus(0, models.InProgress)
		if err != nil {
			t.Fatalf("SetStatus: %v", err)
		}
		if changed {
			t.Error("second identical update should be a no-op")
		}
	})

	t.Run("out of range index", func(t *testing.T) {
		store := NewStore()
		store.Open("parts.sti", sampleRows())

		for _, index := range []int{-1, 3, 99} {
			if _, err := store.SetStatus(index, models.Completed); !errors.Is(err, shared.ErrRowOutOfRange) {
				t.Errorf("index %d: got %v, want ErrRowOutOfRange", index, err)
			}
		}
		if store.RowCount() != 3 {
			t.Error("row set should be untouched")
		}
	})

	t.Run("no document open", func(t *testing.T) {
		store := NewStore()
		if _, err := store.SetStatus(0, models.Completed); !errors.Is(err, shared.ErrNoDocument) {
			t.Errorf("got %v, want ErrNoDocument", err)
		}
	})
}

func TestReplaceRows(t *testing.T) {
	store := NewStore()
	store.Open("parts.sti", sampleRows())

	replacement := []models.Row{models.NewRow("screw", "200")}
	if err := store.ReplaceRows(replacement); err != nil {
		t.Fatalf("ReplaceRows: %v", err)
	}

	if store.RowCount() != 1 {
		t.Errorf("row count = %d", store.RowCount())
	}

	// The store keeps its own copy.
	replacement[0].Name = "mutated"
	row, _ := store.Row(0)
	if row.Name != "screw" {
		t.Error("store rows should not alias the caller's slice")
	}

	t.Run("no document open", func(t *testing.T) {
		empty := NewStore()
		if err := empty.ReplaceRows(replacement); !errors.Is(err, shared.ErrNoDocument) {
			t.Errorf("got %v, want ErrNoDocument", err)
		}
	})
}

func TestDirtyTracking(t *testing.T) {
	store := NewStore()
	store.Open("parts.sti", sampleRows())

	if store.Dirty() {
		t.Fatal("opened document starts clean")
	}

	store.SetStatus(0, models.Completed)
	if !store.Dirty() {
		t.Fatal("status change should mark the document dirty")
	}

	// Reverting the change makes the content equal to the baseline.
	store.SetStatus(0, models.NotCompleted)
	if store.Dirty() {
		t.Error("reverted document should read clean")
	}

	store.SetStatus(1, models.InProgress)
	store.MarkSaved()
	if store.Dirty() {
		t.Error("MarkSaved should reset the baseline")
	}

	t.Run("no document is never dirty", func(t *testing.T) {
		if NewStore().Dirty() {
			t.Error("empty store should not be dirty")
		}
	})
}

func TestRowsReturnsCopy(t *testing.T) {
	store := NewStore()
	store.Open("parts.sti", sampleRows())

	rows := store.Rows()
	rows[0].Status = models.Completed

	row, _ := store.Row(0)
	if row.Status != models.NotCompleted {
		t.Error("mutating the returned slice should not touch the store")
	}
}

func TestCounts(t *testing.T) {
	store := NewStore()
	store.Open("parts.sti", sampleRows())
	store.SetStatus(0, models.Completed)
	store.SetStatus(1, models.InProgress)

	counts := store.Counts()
	if counts.Total != 3 || counts.Completed != 1 || counts.InProgress != 1 || counts.NotCompleted != 1 {
		t.Errorf("unexpected counts: %+v", counts)
	}
}
