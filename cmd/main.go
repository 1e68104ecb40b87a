package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/wingera/schematic-material-viewer/internal/services"
	"github.com/wingera/schematic-material-viewer/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	client := services.NewClient(logger,
		services.WithBaseURL(config.Server.BaseURL),
		services.WithRateLimit(config.Server.RequestsPerSecond),
	)

	runner := NewRunner(RunnerOpts{
		Config: config,
		API:    client,
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "smv",
		Usage:    "Collaborative material tracking client",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
