package main

import (
	"context"
	"fmt"

	"github.com/PRATIKABAJIGANGURDE/tunemigrate/internal/repositories"
	"github.com/PRATIKABAJIGANGURDE/tunemigrate/internal/shared"
	"github.com/urfave/cli/v3"
)

// CacheStats prints the number of cached matches.
func (r *Runner) CacheStats(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	count, err := repositories.NewMatchRepository(db).Count()
	if err != nil {
		return err
	}

	return r.writePlain("%d cached matches in %s\n", count, r.config.Database.Path)
}

// CacheForget drops the cached match for a video ID so the next run searches
// the catalog again, used when a cached match turns out to be wrong.
func (r *Runner) CacheForget(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	videoID := cmd.Args().First()
	if videoID == "" {
		return fmt.Errorf("%w: video id", shared.ErrMissingArgument)
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repositories.NewMatchRepository(db).Delete(videoID); err != nil {
		return err
	}

	return r.writePlain("Forgot cached match for %s\n", videoID)
}
