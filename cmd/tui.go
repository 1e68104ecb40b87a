package main

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/wingera/schematic-material-viewer/internal/realtime"
	"github.com/wingera/schematic-material-viewer/internal/repositories"
	"github.com/wingera/schematic-material-viewer/internal/session"
	"github.com/wingera/schematic-material-viewer/internal/shared"
	"github.com/wingera/schematic-material-viewer/internal/tasks"
	"github.com/wingera/schematic-material-viewer/internal/ui"
)

// websocketURL derives the push channel endpoint from the REST base URL.
func websocketURL(baseURL string) string {
	wsURL := baseURL
	if strings.HasPrefix(wsURL, "https://") {
		wsURL = "wss://" + strings.TrimPrefix(wsURL, "https://")
	} else if strings.HasPrefix(wsURL, "http://") {
		wsURL = "ws://" + strings.TrimPrefix(wsURL, "http://")
	}
	return strings.TrimSuffix(wsURL, "/") + "/ws"
}

// TUI launches the interactive material table.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd.String("config"))

	username, err := r.ensureAuthenticated(ctx, cmd)
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/smv-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	repo := repositories.NewSessionRepository(db)

	channel, err := realtime.Dial(websocketURL(config.Server.BaseURL), config.Realtime, fileLogger)
	if err != nil {
		return err
	}
	defer channel.Close()

	store := session.NewStore()
	store.SetUsername(username)

	notices := make(chan tasks.Notice, 64)
	engine := tasks.NewSyncEngine(r.api, store, repo, channel, fileLogger, notices)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go engine.Run(runCtx, channel.Events())

	saver := tasks.NewAutoSaver(r.api, store, fileLogger, notices, config.AutoSave.Interval())
	go saver.Run(runCtx)

	if restored, err := engine.Restore(runCtx); err != nil {
		fileLogger.Warn("session restore failed", "error", err)
	} else if restored != "" {
		fileLogger.Info("restored previous session", "filename", restored)
	}

	model := ui.NewModel(runCtx, r.api, engine, store, notices)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// ensureAuthenticated logs in with the provided credentials, or reuses
// an existing session when the service still honors its cookie.
func (r *Runner) ensureAuthenticated(ctx context.Context, cmd *cli.Command) (string, error) {
	username := cmd.String("username")
	password := cmd.String("password")

	if username != "" {
		result, err := r.api.Login(ctx, username, password)
		if err != nil {
			return "", err
		}
		if !result.Success {
			return "", fmt.Errorf("%w: %s", shared.ErrAuthFailed, result.Message)
		}
		return result.Username, nil
	}

	status, err := r.api.CheckAuth(ctx)
	if err != nil {
		return "", err
	}
	if !status.LoggedIn {
		return "", fmt.Errorf("%w: pass --username and --password to log in", shared.ErrNotAuthenticated)
	}
	return status.Username, nil
}
