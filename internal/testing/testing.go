// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/wingera/schematic-material-viewer/internal/models"
	"github.com/wingera/schematic-material-viewer/internal/realtime"
	"github.com/wingera/schematic-material-viewer/internal/services"
)

// MockAPI is a test double for [services.API]. Each operation delegates
// to the corresponding func field when set and succeeds trivially
// otherwise.
type MockAPI struct {
	CheckAuthFunc  func(ctx context.Context) (*services.AuthStatus, error)
	LoginFunc      func(ctx context.Context, username, password string) (*services.AuthResult, error)
	RegisterFunc   func(ctx context.Context, username, password string) (*services.AuthResult, error)
	LogoutFunc     func(ctx context.Context) error
	FileListFunc   func(ctx context.Context) ([]models.FileInfo, error)
	AllFilesFunc   func(ctx context.Context) ([]models.FileInfo, error)
	UploadFunc     func(ctx context.Context, filename string, size int64, content io.Reader, description string) (*services.UploadResult, error)
	OpenFileFunc   func(ctx context.Context, filename string) ([]models.Row, error)
	DeleteFileFunc func(ctx context.Context, filename string) (string, error)
	SaveFunc       func(ctx context.Context, filename string, rows []models.Row, description string) (*services.SaveResult, error)
	AutoSaveFunc   func(ctx context.Context, filename string, rows []models.Row) error
	HealthFunc     func(ctx context.Context) error
}

func (m *MockAPI) CheckAuth(ctx context.Context) (*services.AuthStatus, error) {
	if m.CheckAuthFunc != nil {
		return m.CheckAuthFunc(ctx)
	}
	return &services.AuthStatus{}, nil
}

func (m *MockAPI) Login(ctx context.Context, username, password string) (*services.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, username, password)
	}
	return &services.AuthResult{Success: true, Username: username}, nil
}

func (m *MockAPI) Register(ctx context.Context, username, password string) (*services.AuthResult, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, username, password)
	}
	return &services.AuthResult{Success: true, Username: username}, nil
}

func (m *MockAPI) Logout(ctx context.Context) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx)
	}
	return nil
}

func (m *MockAPI) FileList(ctx context.Context) ([]models.FileInfo, error) {
	if m.FileListFunc != nil {
		return m.FileListFunc(ctx)
	}
	return []models.FileInfo{}, nil
}

func (m *MockAPI) AllFiles(ctx context.Context) ([]models.FileInfo, error) {
	if m.AllFilesFunc != nil {
		return m.AllFilesFunc(ctx)
	}
	return []models.FileInfo{}, nil
}

func (m *MockAPI) Upload(ctx context.Context, filename string, size int64, content io.Reader, description string) (*services.UploadResult, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, filename, size, content, description)
	}
	return &services.UploadResult{Success: true, Filename: filename}, nil
}

func (m *MockAPI) OpenFile(ctx context.Context, filename string) ([]models.Row, error) {
	if m.OpenFileFunc != nil {
		return m.OpenFileFunc(ctx, filename)
	}
	return []models.Row{}, nil
}

func (m *MockAPI) DeleteFile(ctx context.Context, filename string) (string, error) {
	if m.DeleteFileFunc != nil {
		return m.DeleteFileFunc(ctx, filename)
	}
	return "", nil
}

func (m *MockAPI) Save(ctx context.Context, filename string, rows []models.Row, description string) (*services.SaveResult, error) {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, filename, rows, description)
	}
	return &services.SaveResult{}, nil
}

func (m *MockAPI) AutoSave(ctx context.Context, filename string, rows []models.Row) error {
	if m.AutoSaveFunc != nil {
		return m.AutoSaveFunc(ctx, filename, rows)
	}
	return nil
}

func (m *MockAPI) Health(ctx context.Context) error {
	if m.HealthFunc != nil {
		return m.HealthFunc(ctx)
	}
	return nil
}

// MockEmitter records every outbound event it is asked to send.
type MockEmitter struct {
	mu     sync.Mutex
	sent   []realtime.Outbound
	EmitFn func(out realtime.Outbound) error
}

func (m *MockEmitter) Emit(out realtime.Outbound) error {
	if m.EmitFn != nil {
		if err := m.EmitFn(out); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, out)
	return nil
}

// Sent returns a copy of the recorded events.
func (m *MockEmitter) Sent() []realtime.Outbound {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]realtime.Outbound, len(m.sent))
	copy(out, m.sent)
	return out
}

// MockSessionState is an in-memory [tasks.SessionState].
type MockSessionState struct {
	mu       sync.Mutex
	filename string
	Err      error
}

func (m *MockSessionState) LastOpenedFile() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filename, m.Err
}

func (m *MockSessionState) SetLastOpenedFile(filename string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.filename = filename
	return nil
}

func (m *MockSessionState) ClearLastOpenedFile() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.filename = ""
	return nil
}

// Stored returns the recorded restore key.
func (m *MockSessionState) Stored() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filename
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
