package repositories

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/wingera/schematic-material-viewer/internal/shared"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := shared.NewDatabase(path)
	if err != nil {
		t.Fatalf("NewDatabase: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}

	return db
}

func TestLastOpenedFile(t *testing.T) {
	repo := NewSessionRepository(setupDB(t))

	t.Run("empty state", func(t *testing.T) {
		filename, err := repo.LastOpenedFile()
		if err != nil {
			t.Fatalf("LastOpenedFile: %v", err)
		}
		if filename != "" {
			t.Errorf("filename = %q, want empty", filename)
		}
	})

	t.Run("set and read back", func(t *testing.T) {
		if err := repo.SetLastOpenedFile("parts.sti"); err != nil {
			t.Fatalf("SetLastOpenedFile: %v", err)
		}

		filename, err := repo.LastOpenedFile()
		if err != nil {
			t.Fatalf("LastOpenedFile: %v", err)
		}
		if filename != "parts.sti" {
			t.Errorf("filename = %q", filename)
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		if err := repo.SetLastOpenedFile("other.sti"); err != nil {
			t.Fatalf("SetLastOpenedFile: %v", err)
		}

		filename, _ := repo.LastOpenedFile()
		if filename != "other.sti" {
			t.Errorf("filename = %q", filename)
		}
	})

	t.Run("clear", func(t *testing.T) {
		if err := repo.ClearLastOpenedFile(); err != nil {
			t.Fatalf("ClearLastOpenedFile: %v", err)
		}

		filename, _ := repo.LastOpenedFile()
		if filename != "" {
			t.Errorf("filename = %q, want empty", filename)
		}

		// Clearing twice is fine.
		if err := repo.ClearLastOpenedFile(); err != nil {
			t.Errorf("second clear: %v", err)
		}
	})
}

func TestRecentFiles(t *testing.T) {
	repo := NewSessionRepository(setupDB(t))

	recent, err := repo.RecentFiles(10)
	if err != nil {
		t.Fatalf("RecentFiles: %v", err)
	}
	if len(recent) != 0 {
		t.Errorf("expected empty history, got %d entries", len(recent))
	}

	for _, name := range []string{"a.sti", "b.sti", "c.sti"} {
		if err := repo.SetLastOpenedFile(name); err != nil {
			t.Fatalf("SetLastOpenedFile(%q): %v", name, err)
		}
	}

	recent, err = repo.RecentFiles(2)
	if err != nil {
		t.Fatalf("RecentFiles: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("got %d entries, want 2", len(recent))
	}

	// Re-opening an existing file bumps it instead of duplicating it.
	if err := repo.SetLastOpenedFile("a.sti"); err != nil {
		t.Fatalf("SetLastOpenedFile: %v", err)
	}
	recent, _ = repo.RecentFiles(10)
	if len(recent) != 3 {
		t.Errorf("got %d entries, want 3", len(recent))
	}
	if recent[0].Filename != "a.sti" {
		t.Errorf("most recent = %q, want a.sti", recent[0].Filename)
	}

	t.Run("forget", func(t *testing.T) {
		if err := repo.ForgetRecent("b.sti"); err != nil {
			t.Fatalf("ForgetRecent: %v", err)
		}
		recent, _ := repo.RecentFiles(10)
		for _, entry := range recent {
			if entry.Filename == "b.sti" {
				t.Error("b.sti should be gone from history")
			}
		}
	})
}
