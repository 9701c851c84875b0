package main

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/PRATIKABAJIGANGURDE/tunemigrate/internal/shared"
	"github.com/PRATIKABAJIGANGURDE/tunemigrate/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI extracts and matches a playlist, then opens the interactive review
// screen for toggling songs and approving low-confidence matches before
// the playlist is created.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	playlistArg := cmd.Args().First()
	if playlistArg == "" {
		return fmt.Errorf("%w: playlist URL or ID", shared.ErrMissingArgument)
	}

	// The TUI owns the terminal, so logs go to a file for the duration.
	fileLogger, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return err
	}
	r.SetLogger(fileLogger)

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

	songs, err := youtube.ExtractPlaylist(ctx, playlistArg)
	if err != nil {
		return fmt.Errorf("failed to extract playlist: %w", err)
	}

	progress, done := r.renderProgress(len(songs))
	_, matchErr := engine.MatchAll(ctx, songs, progress)
	close(progress)
	<-done
	if matchErr != nil && !errors.Is(matchErr, shared.ErrConversionAborted) {
		return matchErr
	}

	name := cmd.String("name")
	if name == "" {
		name = "Converted from YouTube"
	}

	model := ui.NewModel(ctx, engine, songs, name)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui failed: %w", err)
	}

	if err := model.Err(); err != nil {
		return err
	}
	if result := model.Result(); result != nil {
		return r.writePlainln("Created playlist with %d of %d songs: %s",
			result.MatchedCount, result.TotalCount, result.PlaylistURL)
	}

	return nil
}
