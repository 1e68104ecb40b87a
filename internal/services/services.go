// package services defines the API surface of the material tracking service
package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/wingera/schematic-material-viewer/internal/models"
	"github.com/wingera/schematic-material-viewer/internal/shared"
)

// API defines the REST operations the client consumes.
type API interface {
	// CheckAuth reports whether the session cookie is still valid.
	CheckAuth(ctx context.Context) (*AuthStatus, error)

	// Login authenticates with username and password.
	// A payload-level rejection is returned in AuthResult, not as an error.
	Login(ctx context.Context, username, password string) (*AuthResult, error)

	// Register creates an account and logs it in.
	Register(ctx context.Context, username, password string) (*AuthResult, error)

	// Logout ends the server-side session.
	Logout(ctx context.Context) error

	// FileList retrieves the current user's files.
	FileList(ctx context.Context) ([]models.FileInfo, error)

	// AllFiles retrieves every stored file regardless of owner.
	AllFiles(ctx context.Context) ([]models.FileInfo, error)

	// Upload sends a CSV or STI file as multipart form data.
	// Validation runs before any network traffic.
	Upload(ctx context.Context, filename string, size int64, content io.Reader, description string) (*UploadResult, error)

	// OpenFile fetches the parsed row data for a stored file.
	OpenFile(ctx context.Context, filename string) ([]models.Row, error)

	// DeleteFile removes a stored file.
	DeleteFile(ctx context.Context, filename string) (string, error)

	// Save stores the row set under filename (.sti is appended server-side).
	Save(ctx context.Context, filename string, rows []models.Row, description string) (*SaveResult, error)

	// AutoSave persists the row set without user interaction.
	AutoSave(ctx context.Context, filename string, rows []models.Row) error

	// Health checks service availability.
	Health(ctx context.Context) error
}

// AuthStatus is the /check_auth response.
type AuthStatus struct {
	LoggedIn bool   `json:"logged_in"`
	Username string `json:"username"`
}

// AuthResult is the /login and /register response.
type AuthResult struct {
	Success  bool   `json:"success"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

// UploadResult is the /upload response.
type UploadResult struct {
	Success  bool           `json:"success"`
	Filename string         `json:"filename"`
	Data     []models.Row   `json:"data"`
	FileInfo models.FileInfo `json:"file_info"`
}

// SaveResult is the /save response.
type SaveResult struct {
	Message  string          `json:"message"`
	FileInfo models.FileInfo `json:"file_info"`
}

// Upload limits enforced before any network call.
const (
	MaxUploadSize     = 10 * 1024 * 1024
	MaxFilenameLength = 255
)

var allowedExtensions = []string{".csv", ".sti"}

const invalidFilenameChars = `<>:"/\|?*`

// ValidateUpload checks a candidate upload against the service's constraints:
// extension, size cap, filename length, and forbidden characters.
func ValidateUpload(filename string, size int64) error {
	ext := strings.ToLower(path.Ext(filename))
	ok := false
	for _, allowed := range allowedExtensions {
		if ext == allowed {
			ok = true
			break
		}
	}
	if !ok {
		return fmt.Errorf("%w: %s (want .csv or .sti)", shared.ErrInvalidFileType, filename)
	}

	if size > MaxUploadSize {
		return fmt.Errorf("%w: %d bytes (max %d)", shared.ErrFileTooLarge, size, MaxUploadSize)
	}

	if len(filename) > MaxFilenameLength {
		return fmt.Errorf("%w: name longer than %d characters", shared.ErrInvalidFilename, MaxFilenameLength)
	}
	if strings.ContainsAny(filename, invalidFilenameChars) {
		return fmt.Errorf("%w: %q contains forbidden characters", shared.ErrInvalidFilename, filename)
	}

	return nil
}
