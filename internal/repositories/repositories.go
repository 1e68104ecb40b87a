// package repositories provides the local persistence layer backing
// session restore: a key-value table for session state and a history of
// recently opened documents.
package repositories

import (
	"database/sql"
	"fmt"
	"time"
)

// lastOpenedFileKey is the session_state key holding the name of the
// most recently opened document.
const lastOpenedFileKey = "lastOpenedFile"

// RecentFile is one entry in the opened-document history.
type RecentFile struct {
	Filename string
	OpenedAt time.Time
}

// SessionRepository persists session state between runs.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new [SessionRepository] with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// LastOpenedFile returns the stored document name, or "" when none has
// been recorded.
func (r *SessionRepository) LastOpenedFile() (string, error) {
	query := `SELECT value FROM session_state WHERE key = ?`

	var filename string
	err := r.db.QueryRow(query, lastOpenedFileKey).Scan(&filename)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query session state: %w", err)
	}

	return filename, nil
}

// SetLastOpenedFile records filename as the document to restore on the
// next run, and appends it to the recent-files history.
func (r *SessionRepository) SetLastOpenedFile(filename string) error {
	now := time.Now()

	query := `
		INSERT INTO session_state (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	if _, err := r.db.Exec(query, lastOpenedFileKey, filename, now); err != nil {
		return fmt.Errorf("failed to store session state: %w", err)
	}

	history := `
		INSERT INTO recent_files (filename, opened_at) VALUES (?, ?)
		ON CONFLICT(filename) DO UPDATE SET opened_at = excluded.opened_at
	`

	if _, err := r.db.Exec(history, filename, now); err != nil {
		return fmt.Errorf("failed to record recent file: %w", err)
	}

	return nil
}

// ClearLastOpenedFile forgets the stored document name. Clearing an
// already-empty state is not an error.
func (r *SessionRepository) ClearLastOpenedFile() error {
	query := `DELETE FROM session_state WHERE key = ?`

	if _, err := r.db.Exec(query, lastOpenedFileKey); err != nil {
		return fmt.Errorf("failed to clear session state: %w", err)
	}

	return nil
}

// RecentFiles returns up to limit history entries, most recent first.
func (r *SessionRepository) RecentFiles(limit int) ([]RecentFile, error) {
	query := `
		SELECT filename, opened_at
		FROM recent_files
		ORDER BY opened_at DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent files: %w", err)
	}
	defer rows.Close()

	var recent []RecentFile
	for rows.Next() {
		var entry RecentFile
		if err := rows.Scan(&entry.Filename, &entry.OpenedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recent file: %w", err)
		}
		recent = append(recent, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return recent, nil
}

// ForgetRecent removes a document from the history, typically after it
// was deleted on the server.
func (r *SessionRepository) ForgetRecent(filename string) error {
	query := `DELETE FROM recent_files WHERE filename = ?`

	if _, err := r.db.Exec(query, filename); err != nil {
		return fmt.Errorf("failed to forget recent file: %w", err)
	}

	return nil
}
