package main

import (
	"context"
	"fmt"

	"github.com/PRATIKABAJIGANGURDE/tunemigrate/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates a config file if one does not exist and initializes the
// match cache database with migrations applied.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if err := shared.CreateConfigFile(configPath); err != nil {
		r.logger.Warn("skipping config creation", "path", configPath, "reason", err)
	} else {
		r.logger.Info("created config file", "path", configPath)
		if err := r.writePlainln("Created %s. Fill in your Spotify and YouTube credentials before converting.", configPath); err != nil {
			return err
		}
	}

	r.reloadConfig(cmd)

	db, err := r.openDatabase()
	if err != nil {
		return fmt.Errorf("setup failed: %w", err)
	}
	defer db.Close()

	r.logger.Info("database ready", "path", r.config.Database.Path)
	return r.writePlainln("Match cache database initialized at %s.", r.config.Database.Path)
}
