package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/PRATIKABAJIGANGURDE/tunemigrate/internal/formatter"
	"github.com/PRATIKABAJIGANGURDE/tunemigrate/internal/models"
	"github.com/PRATIKABAJIGANGURDE/tunemigrate/internal/shared"
	"github.com/PRATIKABAJIGANGURDE/tunemigrate/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Convert extracts a YouTube playlist, matches every selected song against
// the Spotify catalog, and creates the destination playlist.
func (r *Runner) Convert(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	playlistArg := cmd.Args().First()
	if playlistArg == "" {
		return fmt.Errorf("%w: playlist URL or ID", shared.ErrMissingArgument)
	}

	youtube, err := r.youtubeService()
	if err != nil {
		return err
	}
	spotify, err := r.spotifyService()
	if err != nil {
		return err
	}

	engine, cleanup, err := r.buildEngine(spotify)
	if err != nil {
		return err
	}
	defer cleanup()

	r.logger.Info("extracting playlist", "playlist", playlistArg)
	songs, err := youtube.ExtractPlaylist(ctx, playlistArg)
	if err != nil {
		return fmt.Errorf("failed to extract playlist: %w", err)
	}
	if err := r.writePlainln("Extracted %d songs.", len(songs)); err != nil {
		return err
	}

	progress, done := r.renderProgress(len(songs))

	runResult, matchErr := engine.MatchAll(ctx, songs, progress)
	if matchErr != nil && !errors.Is(matchErr, shared.ErrConversionAborted) {
		close(progress)
		<-done
		return matchErr
	}

	var result *models.ConversionResult
	var createErr error
	if !cmd.Bool("dry-run") && runResult.MatchedCount > 0 {
		name := cmd.String("name")
		if name == "" {
			name = "Converted from YouTube"
		}
		result, createErr = engine.CreateFromSongs(ctx, songs, name, cmd.String("description"), progress)
	}

	close(progress)
	<-done

	if matchErr != nil {
		r.logger.Warn("match run stopped early", "error", matchErr)
	}
	if createErr != nil {
		return createErr
	}

	if err := r.writePlainln("Matched %d of %d songs (%d failed).",
		runResult.MatchedCount, runResult.TotalCount, runResult.FailedCount); err != nil {
		return err
	}
	if result != nil {
		if err := r.writePlainln("Created playlist: %s", result.PlaylistURL); err != nil {
			return err
		}
	}

	if reportPath := cmd.String("report"); reportPath != "" {
		report := &formatter.Report{Songs: songs}
		if result != nil {
			report.Playlist = *result
		}
		if err := formatter.WriteReport(report, reportPath, cmd.String("format")); err != nil {
			return err
		}
		if err := r.writePlainln("Report written to %s.", reportPath); err != nil {
			return err
		}
	}

	return nil
}

// renderProgress drains engine progress updates onto the terminal. The
// returned done channel closes when the progress channel does.
func (r *Runner) renderProgress(total int) (chan tasks.ProgressUpdate, chan struct{}) {
	progress := make(chan tasks.ProgressUpdate, total*2+8)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for update := range progress {
			if update.Message == "" {
				continue
			}
			if update.Total > 0 {
				r.writePlain("[%3d%%] %s\n", update.Percent, update.Message)
			} else {
				r.writePlain("       %s\n", update.Message)
			}
		}
	}()

	return progress, done
}
