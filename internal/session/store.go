// package session holds the in-memory state of the open document: the
// row set, the document name, and the signed-in username. The realtime
// engine, the auto-save loop, and the UI all read and write it, so
// every accessor takes the store's lock.
package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/wingera/schematic-material-viewer/internal/models"
	"github.com/wingera/schematic-material-viewer/internal/shared"
)

// Store is the shared state of the current session.
type Store struct {
	mu        sync.RWMutex
	username  string
	filename  string
	rows      []models.Row
	lastSaved []byte
}

func NewStore() *Store {
	return &Store{}
}

// SetUsername records the signed-in user.
func (s *Store) SetUsername(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.username = username
}

func (s *Store) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username
}

// Open replaces the current document. The incoming rows are treated as
// already saved.
func (s *Store) Open(filename string, rows []models.Row) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filename = filename
	s.rows = models.CloneRows(rows)
	s.lastSaved = snapshot(s.rows)
}

// Clear drops the open document. The username survives.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filename = ""
	s.rows = nil
	s.lastSaved = nil
}

// Filename returns the open document's name, or "" when none is open.
func (s *Store) Filename() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filename
}

// HasDocument reports whether a document is open.
func (s *Store) HasDocument() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filename != ""
}

// Rows returns a copy of the row set. Mutating the copy does not touch
// the store.
func (s *Store) Rows() []models.Row {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneRows(s.rows)
}

func (s *Store) RowCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

// Row returns the row at index.
func (s *Store) Row(index int) (models.Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if index < 0 || index >= len(s.rows) {
		return models.Row{}, fmt.Errorf("%w: index %d of %d rows", shared.ErrRowOutOfRange, index, len(s.rows))
	}
	return s.rows[index], nil
}

// SetStatus sets the status of the row at index. It reports whether the
// row actually changed, so callers can suppress echo broadcasts of
// updates that were already applied.
func (s *Store) SetStatus(index int, status models.Status) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.filename == "" {
		return false, shared.ErrNoDocument
	}
	if index < 0 || index >= len(s.rows) {
		return false, fmt.Errorf("%w: index %d of %d rows", shared.ErrRowOutOfRange, index, len(s.rows))
	}
	if s.rows[index].Status == status {
		return false, nil
	}

	s.rows[index].Status = status
	return true, nil
}

// ReplaceRows swaps in a full row set pushed by another participant.
// The incoming copy wins wholesale.
func (s *Store) ReplaceRows(rows []models.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.filename == "" {
		return shared.ErrNoDocument
	}
	s.rows = models.CloneRows(rows)
	return nil
}

// Counts tallies the open document's rows by status.
func (s *Store) Counts() models.Counts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CountRows(s.rows)
}

// Dirty reports whether the row set has changed since the last save.
// The comparison is by serialized content, so a change that is later
// reverted reads as clean again.
func (s *Store) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.filename == "" {
		return false
	}
	return !bytes.Equal(snapshot(s.rows), s.lastSaved)
}

// MarkSaved records the current row set as the saved baseline.
func (s *Store) MarkSaved() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSaved = snapshot(s.rows)
}

func snapshot(rows []models.Row) []byte {
	raw, err := json.Marshal(rows)
	if err != nil {
		// Row marshaling cannot fail; it emits plain strings and ints.
		panic(fmt.Sprintf("snapshot rows: %v", err))
	}
	return raw
}
