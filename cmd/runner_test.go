package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/wingera/schematic-material-viewer/internal/models"
	"github.com/wingera/schematic-material-viewer/internal/services"
	"github.com/wingera/schematic-material-viewer/internal/shared"
	tu "github.com/wingera/schematic-material-viewer/internal/testing"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(io.Discard)
			output := &bytes.Buffer{}
			api := &tu.MockAPI{}

			runner := NewRunner(RunnerOpts{
				Config: config,
				Logger: logger,
				Output: output,
				API:    api,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.api != api {
				t.Error("expected api to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil api builds a client", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.api == nil {
				t.Error("expected a default API client")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			if err := runner.writeJSON(data, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{API: &tu.MockAPI{}})
		commands := runner.register()

		if len(commands) == 0 {
			t.Error("expected at least one command to be registered")
		}

		for i, cmd := range commands {
			if cmd == nil {
				t.Errorf("command at index %d is nil", i)
			}
		}
	})
}

func newTestRunner(api *tu.MockAPI) (*Runner, *bytes.Buffer) {
	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		API:    api,
		Logger: shared.NewLogger(io.Discard),
		Output: output,
	})
	return runner, output
}

func TestAuthActions(t *testing.T) {
	ctx := context.Background()

	t.Run("status when logged in", func(t *testing.T) {
		api := &tu.MockAPI{
			CheckAuthFunc: func(ctx context.Context) (*services.AuthStatus, error) {
				return &services.AuthStatus{LoggedIn: true, Username: "alice"}, nil
			},
		}
		runner, output := newTestRunner(api)

		cmd := authCommand(runner)
		if err := cmd.Run(ctx, []string{"auth", "status"}); err != nil {
			t.Fatalf("status: %v", err)
		}

		if !strings.Contains(output.String(), "Logged in as alice") {
			t.Errorf("output = %q", output.String())
		}
	})

	t.Run("status when service is down", func(t *testing.T) {
		api := &tu.MockAPI{
			HealthFunc: func(ctx context.Context) error {
				return shared.ErrServiceUnavailable
			},
		}
		runner, _ := newTestRunner(api)

		cmd := authCommand(runner)
		err := cmd.Run(ctx, []string{"auth", "status"})
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("got %v, want ErrServiceUnavailable", err)
		}
	})

	t.Run("login failure surfaces the message", func(t *testing.T) {
		api := &tu.MockAPI{
			LoginFunc: func(ctx context.Context, username, password string) (*services.AuthResult, error) {
				return &services.AuthResult{Success: false, Message: "bad password"}, nil
			},
		}
		runner, _ := newTestRunner(api)

		cmd := authCommand(runner)
		err := cmd.Run(ctx, []string{"auth", "login", "-p", "wrong", "alice"})
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("got %v, want ErrAuthFailed", err)
		}
		if err == nil || !strings.Contains(err.Error(), "bad password") {
			t.Errorf("error should carry the server message: %v", err)
		}
	})
}

func TestFilesActions(t *testing.T) {
	ctx := context.Background()

	t.Run("list", func(t *testing.T) {
		api := &tu.MockAPI{
			FileListFunc: func(ctx context.Context) ([]models.FileInfo, error) {
				return []models.FileInfo{{Filename: "parts.sti", Size: 220, Owner: "alice"}}, nil
			},
		}
		runner, output := newTestRunner(api)

		cmd := filesCommand(runner)
		if err := cmd.Run(ctx, []string{"files", "list"}); err != nil {
			t.Fatalf("list: %v", err)
		}

		if !strings.Contains(output.String(), "parts.sti") {
			t.Errorf("output = %q", output.String())
		}
	})

	t.Run("show renders the table", func(t *testing.T) {
		api := &tu.MockAPI{
			OpenFileFunc: func(ctx context.Context, filename string) ([]models.Row, error) {
				return []models.Row{models.NewRow("bolt", "100")}, nil
			},
		}
		runner, output := newTestRunner(api)

		cmd := filesCommand(runner)
		if err := cmd.Run(ctx, []string{"files", "show", "parts.sti"}); err != nil {
			t.Fatalf("show: %v", err)
		}

		if !strings.Contains(output.String(), "bolt") {
			t.Errorf("output = %q", output.String())
		}
	})

	t.Run("show without filename", func(t *testing.T) {
		runner, _ := newTestRunner(&tu.MockAPI{})

		cmd := filesCommand(runner)
		err := cmd.Run(ctx, []string{"files", "show"})
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("got %v, want ErrMissingArgument", err)
		}
	})

	t.Run("delete missing file", func(t *testing.T) {
		api := &tu.MockAPI{
			DeleteFileFunc: func(ctx context.Context, filename string) (string, error) {
				return "", shared.ErrFileNotFound
			},
		}
		runner, _ := newTestRunner(api)

		cmd := filesCommand(runner)
		err := cmd.Run(ctx, []string{"files", "delete", "nope.sti"})
		if !errors.Is(err, shared.ErrFileNotFound) {
			t.Errorf("got %v, want ErrFileNotFound", err)
		}
	})
}

func TestWebsocketURL(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"http://localhost:5000", "ws://localhost:5000/ws"},
		{"http://localhost:5000/", "ws://localhost:5000/ws"},
		{"https://tracker.example.com", "wss://tracker.example.com/ws"},
	}

	for _, tt := range tests {
		if got := websocketURL(tt.base); got != tt.want {
			t.Errorf("websocketURL(%q) = %q, want %q", tt.base, got, tt.want)
		}
	}
}
