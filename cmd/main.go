package main

import (
	"context"
	"os"

	"github.com/PRATIKABAJIGANGURDE/tunemigrate/internal/shared"
	"github.com/urfave/cli/v3"
)

const defaultConfigPath = "config.toml"

func main() {
	logger := shared.NewLogger(os.Stderr)

	config := shared.DefaultConfig()
	if _, err := os.Stat(defaultConfigPath); err == nil {
		loaded, err := shared.LoadConfig(defaultConfigPath)
		if err != nil {
			logger.Warn("failed to load config, using defaults", "path", defaultConfigPath, "error", err)
		} else {
			config = loaded
		}
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		Logger: logger,
		Output: os.Stdout,
	})

	app := &cli.Command{
		Name:     "tunemigrate",
		Usage:    "Convert YouTube playlists to Spotify playlists",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatal("command failed", "error", err)
	}
}
